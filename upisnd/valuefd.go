package upisnd

import (
	"io"
	"strconv"

	"golang.org/x/sys/unix"
)

// ValueFd wraps a raw file descriptor of an element "value" attribute. The
// descriptor can be handed to poll/epoll for readiness notification; this
// package only performs the blocking read/write protocol on it.
type ValueFd struct {
	fd int
}

// OpenValueFd opens the raw value descriptor of the element. flags take the
// usual unix open flags (unix.O_RDONLY and friends); O_CLOEXEC is always
// added. The open tolerates the attribute-creation race the same way regular
// attribute access does.
//
// This bypasses the filesystem abstraction of the context on purpose: a
// pollable descriptor only exists on a real kernel-backed tree.
func (e *Element) OpenValueFd(flags int) (*ValueFd, error) {
	if e == nil {
		return nil, ErrorInvalidArgument
	}

	path, err := elementAttrPath(e.ctx.sysfsPath, e.name, attrValue)
	if err != nil {
		return nil, err
	}

	fd := -1
	err = e.ctx.waitAttrReady(func() error {
		var err error
		fd, err = unix.Open(path, flags|unix.O_CLOEXEC, 0)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &ValueFd{fd: fd}, nil
}

// IsValid reports whether the descriptor is open.
func (v *ValueFd) IsValid() bool {
	return v != nil && v.fd >= 0
}

// Fd returns the raw descriptor, still owned by v.
func (v *ValueFd) Fd() int {
	if v == nil {
		return -1
	}
	return v.fd
}

// Take returns the raw descriptor and releases ownership of it; v becomes
// invalid and the caller is responsible for closing the descriptor.
func (v *ValueFd) Take() int {
	if v == nil {
		return -1
	}
	fd := v.fd
	v.fd = -1
	return fd
}

// Dup returns an independently owned duplicate of the descriptor.
func (v *ValueFd) Dup() (*ValueFd, error) {
	if !v.IsValid() {
		return nil, ErrorInvalidArgument
	}

	fd, err := unix.FcntlInt(uintptr(v.fd), unix.F_DUPFD_CLOEXEC, 0)
	if err != nil {
		return nil, err
	}

	return &ValueFd{fd: fd}, nil
}

// Close releases the descriptor. Closing an invalid ValueFd is a no-op.
func (v *ValueFd) Close() error {
	if !v.IsValid() {
		return nil
	}

	fd := v.fd
	v.fd = -1
	return unix.Close(fd)
}

// Read rewinds the descriptor and reads the current value as a decimal
// integer.
func (v *ValueFd) Read() (int, error) {
	if !v.IsValid() {
		return 0, ErrorInvalidArgument
	}

	if _, err := unix.Seek(v.fd, 0, io.SeekStart); err != nil {
		return 0, err
	}

	var buf [15]byte
	n, err := unix.Read(v.fd, buf[:])
	if err != nil {
		return 0, err
	}

	return parseDecimal(string(buf[:n]))
}

// Write rewinds the descriptor, writes the value in decimal form and forces
// it durable before returning.
func (v *ValueFd) Write(value int) error {
	if !v.IsValid() {
		return ErrorInvalidArgument
	}

	if _, err := unix.Seek(v.fd, 0, io.SeekStart); err != nil {
		return err
	}

	if _, err := unix.Write(v.fd, []byte(strconv.Itoa(value))); err != nil {
		return err
	}

	return unix.Fdatasync(v.fd)
}
