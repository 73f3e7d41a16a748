package upisnd

import (
	"crypto/rand"
	"encoding/binary"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// Context is a refcounted session bound to one sysfs root. It owns the set of
// Elements claimed through it and the generator state used for random element
// names.
//
// Init and Uninit must not be called concurrently from multiple goroutines.
// Everything else is safe once the context is established: the element set
// and generator state are guarded by the per-context mutex.
type Context struct {
	mu sync.Mutex

	sysfsPath string
	refcount  int32
	elements  map[string]*Element
	seed      xoshiro128

	fs    afero.Fs
	log   *logrus.Entry
	now   func() time.Time
	sleep func(time.Duration)
}

// ContextOptions configures a fresh context. When Init attaches to an already
// live context for the same sysfs path, Fs and Logger of that context stay in
// effect and the options are ignored.
type ContextOptions struct {
	// SysfsPath is the driver tree root. Empty selects DefaultSysfsPath.
	SysfsPath string

	// Fs is the filesystem the driver tree lives on. Defaults to the real
	// one; tests substitute a memory-backed tree.
	Fs afero.Fs

	// Logger enables debug logging when non-nil.
	Logger *logrus.Entry
}

var contextList []*Context

// Init attaches to the context for the given sysfs path, allocating it on
// first use. Each successful Init must be balanced by one Uninit.
func Init(sysfsPath string) (*Context, error) {
	return InitOptions(ContextOptions{SysfsPath: sysfsPath})
}

// InitOptions is Init with explicit options.
func InitOptions(opts ContextOptions) (*Context, error) {
	base := opts.SysfsPath
	if base == "" {
		base = DefaultSysfsPath
	} else {
		if len(base) > maxSysfsPathLength {
			return nil, ErrorPathTooLong
		}
		if base[0] != '/' {
			return nil, ErrorInvalidArgument
		}
	}

	for _, c := range contextList {
		if c.sysfsPath == base {
			atomic.AddInt32(&c.refcount, 1)
			return c, nil
		}
	}

	var seedBuf [16]byte
	if _, err := rand.Read(seedBuf[:]); err != nil {
		return nil, err
	}

	c := &Context{
		sysfsPath: base,
		refcount:  1,
		elements:  make(map[string]*Element),
		fs:        opts.Fs,
		log:       opts.Logger,
		now:       time.Now,
		sleep:     time.Sleep,
	}
	for i := range c.seed {
		c.seed[i] = binary.LittleEndian.Uint32(seedBuf[i*4:])
	}
	if c.fs == nil {
		c.fs = afero.NewOsFs()
	}

	contextList = append(contextList, c)

	return c, nil
}

// SysfsPath returns the driver tree root this context is bound to.
func (c *Context) SysfsPath() string {
	return c.sysfsPath
}

// Uninit drops one reference. The reference that drains the count retires the
// context: every still-registered Element is force-released driver-side and
// the context is unlinked from the global list. Calling Uninit on an already
// retired context is a no-op.
func (c *Context) Uninit() {
	for {
		r := atomic.LoadInt32(&c.refcount)
		if r <= 0 {
			return
		}
		if !atomic.CompareAndSwapInt32(&c.refcount, r, r-1) {
			continue
		}
		if r == 1 {
			// Unlink before tearing down, so a concurrent Init of the
			// same path can never resurrect a dying context.
			contextListRemove(c)
			c.unsetupAll()
		}
		return
	}
}

func contextListRemove(c *Context) {
	for i, o := range contextList {
		if o == c {
			contextList = append(contextList[:i], contextList[i+1:]...)
			return
		}
	}
}

// Setup claims the named Element according to the descriptor, or attaches to
// the existing local claim under that name. The returned existed flag is
// informational only: it reports whether the Element was already known to
// this context or already present driver-side. No configuration comparison is
// performed on attach; callers that need that guarantee must read the
// attributes back themselves.
func (c *Context) Setup(name string, setup Setup) (*Element, bool, error) {
	request, err := renderRequest(setup)
	if err != nil {
		return nil, false, err
	}
	return c.setupRequest(name, request)
}

// SetupConfig is Setup for the tagged configuration form.
func (c *Context) SetupConfig(name string, config ElementConfig) (*Element, bool, error) {
	setup, err := config.Encode()
	if err != nil {
		return nil, false, err
	}
	return c.Setup(name, setup)
}

// SetupGpioInput claims a GPIO input Element.
func (c *Context) SetupGpioInput(name string, pin Pin, pull PinPull) (*Element, bool, error) {
	return c.SetupConfig(name, GpioInputConfig{Pin: pin, Pull: pull})
}

// SetupGpioOutput claims a GPIO output Element with the given initial level.
func (c *Context) SetupGpioOutput(name string, pin Pin, high bool) (*Element, bool, error) {
	return c.SetupConfig(name, GpioOutputConfig{Pin: pin, High: high})
}

// SetupEncoder claims a rotary encoder Element on a pair of pins.
func (c *Context) SetupEncoder(name string, pinA Pin, pullA PinPull, pinB Pin, pullB PinPull) (*Element, bool, error) {
	return c.SetupConfig(name, EncoderConfig{PinA: pinA, PullA: pullA, PinB: pinB, PullB: pullB})
}

// SetupAnalogInput claims an analog input Element.
func (c *Context) SetupAnalogInput(name string, pin Pin) (*Element, bool, error) {
	return c.SetupConfig(name, AnalogInputConfig{Pin: pin})
}

// SetupActivity claims an activity indicator Element.
func (c *Context) SetupActivity(name string, pin Pin, activity ActivityType) (*Element, bool, error) {
	return c.SetupConfig(name, ActivityConfig{Pin: pin, Activity: activity})
}

func (c *Context) setupRequest(name, request string) (*Element, bool, error) {
	if err := ValidateElementName(name); err != nil {
		return nil, false, err
	}

	payload := name + " " + request
	if len(payload) >= maxRequestLength {
		return nil, false, ErrorInvalidArgument
	}

	path, err := contextPath(c.sysfsPath, "setup")
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()

	var attached *Element
	if el, ok := c.elements[name]; ok && el.tryAddRef() {
		attached = el
	}

	// The request is written even when attaching: the driver treats a
	// repeated setup of a live resource as idempotent. What is skipped on
	// attach is any verification that the requested configuration matches
	// the existing one.
	existed := attached != nil
	if attached == nil {
		existed = c.elementDirExists(name)
	}

	err = c.writeNode(path, payload)

	var el *Element
	if err == nil {
		if attached != nil {
			el = attached
		} else {
			el = &Element{name: name, ctx: c, refcount: 1}
			c.elements[name] = el
		}
	}

	c.mu.Unlock()

	if err != nil {
		if attached != nil {
			// Drop the reference taken above; the claim itself stays.
			attached.Unref()
		}
		// A fresh allocation is simply dropped: the driver-side resource
		// may never have been created, so no release request is issued.
		c.debugf("Setting up element %s failed: %v", name, err)
		return nil, false, err
	}

	c.debugf("Set up element %s: %q (existed: %v)", name, payload, existed)

	return el, existed, nil
}

// Unsetup writes a release request for the named driver-side resource
// directly, bypassing the local registry and its reference counts.
func (c *Context) Unsetup(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsetupLocked(name)
}

func (c *Context) unsetupLocked(name string) error {
	path, err := contextPath(c.sysfsPath, "unsetup")
	if err != nil {
		return err
	}
	return c.writeNode(path, name)
}

// releaseElement performs the driver-side release for a zero-crossing unref.
// The release is best effort: it usually runs during teardown and a failed
// write is only logged.
func (c *Context) releaseElement(e *Element) {
	c.mu.Lock()
	if err := c.unsetupLocked(e.name); err != nil {
		c.warnf("Releasing element %s failed: %v", e.name, err)
	}
	if c.elements[e.name] == e {
		delete(c.elements, e.name)
	}
	c.mu.Unlock()
}

// unsetupAll force-releases every registered Element through a single
// unsetup descriptor, without going through the refcount path.
func (c *Context) unsetupAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.elements) == 0 {
		return
	}

	path, err := contextPath(c.sysfsPath, "unsetup")
	if err != nil {
		return
	}

	f, err := c.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		c.warnf("Releasing elements failed: %v", err)
		return
	}

	for name, el := range c.elements {
		if _, err := f.Write([]byte(name)); err != nil {
			c.warnf("Releasing element %s failed: %v", name, err)
		}
		f.Sync()
		f.Seek(0, io.SeekStart)

		atomic.StoreInt32(&el.refcount, 0)
		delete(c.elements, name)
	}

	f.Close()
}

func (c *Context) elementDirExists(name string) bool {
	path, err := elementAttrPath(c.sysfsPath, name, attrRoot)
	if err != nil {
		return false
	}

	fi, err := c.fs.Stat(path)
	return err == nil && fi.IsDir()
}

func (c *Context) writeNode(path, payload string) error {
	f, err := c.fs.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return err
	}

	_, err = f.Write([]byte(payload))
	if err == nil {
		err = f.Sync()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}

	return err
}

func (c *Context) debugf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Debugf(format, args...)
	}
}

func (c *Context) warnf(format string, args ...interface{}) {
	if c.log != nil {
		c.log.Warnf(format, args...)
	}
}
