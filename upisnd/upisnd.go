/*
Package upisnd manages named hardware Elements (GPIO pins, rotary encoders,
analog inputs and activity indicators) exposed by the pisound-micro kernel
driver through a sysfs attribute tree.

A Context is bound to one sysfs root and owns a registry of refcounted
Elements. Elements are claimed by writing a textual setup request to the
context-level "setup" node and released by writing their name to "unsetup".
Per-element attributes live under "elements/<name>/" and are plain
line-oriented ASCII files.

The library is Linux only and fully synchronous: attribute access is a
blocking filesystem call and may take up to two seconds while a freshly
created node becomes accessible.
*/
package upisnd

import (
	"errors"
	"strings"
)

var (
	ErrorInvalidName     = errors.New("Invalid element name")
	ErrorInvalidArgument = errors.New("Invalid argument")
	ErrorNotFound        = errors.New("Element not found")
	ErrorPathTooLong     = errors.New("Path too long")
	ErrorTimeout         = errors.New("Timed out waiting for attribute")
)

// MaxElementNameLength is the size of the name buffer reserved by the kernel
// driver, including the terminating zero. Valid names are 1 to 63 bytes long.
const MaxElementNameLength = 64

// ValidateElementName checks that name is acceptable to the driver: non-empty,
// at most 63 bytes and free of path separators.
func ValidateElementName(name string) error {
	if len(name) == 0 || len(name) >= MaxElementNameLength {
		return ErrorInvalidName
	}
	if strings.ContainsRune(name, '/') {
		return ErrorInvalidName
	}
	return nil
}
