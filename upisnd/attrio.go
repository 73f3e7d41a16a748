package upisnd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	attrOpenTimeout  = 2000 * time.Millisecond
	attrOpenInterval = time.Millisecond
)

const textSeparators = " \n\t"

// waitAttrReady runs open until it succeeds or the retry budget is spent.
// Right after the driver materializes an attribute node the node may not
// exist yet, and once it does, the udev permission rule still has to land
// before an unprivileged caller may touch it. Both conditions clear within
// moments, so "not found" and "permission denied" are retried on a fixed
// interval up to attrOpenTimeout. Any other error aborts immediately.
func (c *Context) waitAttrReady(open func() error) error {
	start := c.now()

	for {
		err := open()
		if err == nil {
			return nil
		}

		if !errors.Is(err, os.ErrNotExist) && !errors.Is(err, os.ErrPermission) {
			return err
		}

		c.sleep(attrOpenInterval)
		if c.now().Sub(start) >= attrOpenTimeout {
			return fmt.Errorf("%w: %w", ErrorTimeout, err)
		}
	}
}

func (c *Context) openElementAttr(name string, attr elementAttr, flag int) (afero.File, error) {
	path, err := elementAttrPath(c.sysfsPath, name, attr)
	if err != nil {
		return nil, err
	}

	var f afero.File
	err = c.waitAttrReady(func() error {
		var err error
		f, err = c.fs.OpenFile(path, flag, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	return f, nil
}

// parseDecimal parses the leading decimal token of an attribute, ignoring
// anything from the first separator on.
func parseDecimal(s string) (int, error) {
	s = strings.TrimLeft(s, textSeparators)
	if i := strings.IndexAny(s, textSeparators); i >= 0 {
		s = s[:i]
	}

	value, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a decimal integer", ErrorInvalidArgument, s)
	}

	return value, nil
}

func readDecimal(f io.ReadSeeker) (int, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return 0, err
	}

	var buf [15]byte
	n, err := f.Read(buf[:])
	if err != nil && err != io.EOF {
		return 0, err
	}

	return parseDecimal(string(buf[:n]))
}

func writeDecimal(f afero.File, value int) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write([]byte(strconv.Itoa(value))); err != nil {
		return err
	}
	return f.Sync()
}

func readToken(f io.ReadSeeker) (string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	var buf [MaxElementNameLength - 1]byte
	n, err := f.Read(buf[:])
	if err != nil && err != io.EOF {
		return "", err
	}

	s := string(buf[:n])
	if i := strings.IndexAny(s, textSeparators); i >= 0 {
		s = s[:i]
	}

	return s, nil
}

func writeToken(f afero.File, s string) error {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return err
	}
	if _, err := f.Write([]byte(s)); err != nil {
		return err
	}
	return f.Sync()
}
