package upisnd

import (
	"os"
	"sync/atomic"
)

// Element is a named, refcounted claim on one driver-managed hardware
// resource. Handles are shared: acquiring the same name again within a
// context returns the same Element with its count incremented, never a copy.
type Element struct {
	refcount int32
	name     string
	ctx      *Context
}

// Get returns the Element registered under name with an additional reference
// taken, or ErrorNotFound. It never creates a claim; use Setup for that.
func (c *Context) Get(name string) (*Element, error) {
	if err := ValidateElementName(name); err != nil {
		return nil, err
	}

	c.mu.Lock()
	el, ok := c.elements[name]
	if !ok || !el.tryAddRef() {
		el = nil
	}
	c.mu.Unlock()

	if el == nil {
		return nil, ErrorNotFound
	}
	return el, nil
}

// tryAddRef increments the count unless the handle has already drained.
func (e *Element) tryAddRef() bool {
	for {
		r := atomic.LoadInt32(&e.refcount)
		if r <= 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&e.refcount, r, r+1) {
			return true
		}
	}
}

// AddRef takes an additional reference and returns the same handle. A nil or
// already drained handle yields nil.
func (e *Element) AddRef() *Element {
	if e == nil || !e.tryAddRef() {
		return nil
	}
	return e
}

// Unref drops one reference. The reference that drains the count removes the
// Element from its context and issues a driver-side release for its name,
// regardless of whether some other process still uses the resource: release
// ownership is strictly local to this registry. Unref on a nil or already
// drained handle is a safe no-op.
func (e *Element) Unref() {
	if e == nil {
		return
	}
	for {
		r := atomic.LoadInt32(&e.refcount)
		if r <= 0 {
			return
		}
		if !atomic.CompareAndSwapInt32(&e.refcount, r, r-1) {
			continue
		}
		if r == 1 {
			e.ctx.releaseElement(e)
		}
		return
	}
}

// Name returns the name the Element is registered under.
func (e *Element) Name() string {
	if e == nil {
		return ""
	}
	return e.name
}

func (e *Element) attrReadInt(attr elementAttr) (int, error) {
	f, err := e.ctx.openElementAttr(e.name, attr, os.O_RDONLY)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	return readDecimal(f)
}

func (e *Element) attrWriteInt(attr elementAttr, value int) error {
	f, err := e.ctx.openElementAttr(e.name, attr, os.O_WRONLY)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeDecimal(f, value)
}

func (e *Element) attrReadStr(attr elementAttr) (string, error) {
	f, err := e.ctx.openElementAttr(e.name, attr, os.O_RDONLY)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return readToken(f)
}

func (e *Element) attrWriteStr(attr elementAttr, s string) error {
	f, err := e.ctx.openElementAttr(e.name, attr, os.O_WRONLY)
	if err != nil {
		return err
	}
	defer f.Close()

	return writeToken(f, s)
}

// Type reads the element type back from the driver.
func (e *Element) Type() (ElementType, error) {
	if e == nil {
		return ElementTypeInvalid, ErrorInvalidArgument
	}

	s, err := e.attrReadStr(attrType)
	if err != nil {
		return ElementTypeInvalid, err
	}

	t := ElementTypeFromString(s)
	if t == ElementTypeInvalid {
		return t, ErrorInvalidArgument
	}
	return t, nil
}

// Pin reads the primary pin of the element.
func (e *Element) Pin() (Pin, error) {
	if e == nil {
		return PinInvalid, ErrorInvalidArgument
	}

	i, err := e.attrReadInt(attrPin)
	if err != nil {
		return PinInvalid, err
	}
	if !Pin(i).IsValid() {
		return PinInvalid, ErrorInvalidArgument
	}
	return Pin(i), nil
}

// Direction reads the direction of a GPIO element.
func (e *Element) Direction() (PinDirection, error) {
	if e == nil {
		return PinDirInvalid, ErrorInvalidArgument
	}

	s, err := e.attrReadStr(attrDirection)
	if err != nil {
		return PinDirInvalid, err
	}

	d := PinDirectionFromString(s)
	if d == PinDirInvalid {
		return d, ErrorInvalidArgument
	}
	return d, nil
}

func (e *Element) readPull(attr elementAttr) (PinPull, error) {
	if e == nil {
		return PinPullInvalid, ErrorInvalidArgument
	}

	s, err := e.attrReadStr(attr)
	if err != nil {
		return PinPullInvalid, err
	}

	p := PinPullFromString(s)
	if p == PinPullInvalid {
		return p, ErrorInvalidArgument
	}
	return p, nil
}

// Pull reads the pull of the primary pin.
func (e *Element) Pull() (PinPull, error) {
	return e.readPull(attrPinPull)
}

// PinB reads the second pin of an Encoder element.
func (e *Element) PinB() (Pin, error) {
	if e == nil {
		return PinInvalid, ErrorInvalidArgument
	}

	i, err := e.attrReadInt(attrPinB)
	if err != nil {
		return PinInvalid, err
	}
	if !Pin(i).IsValid() {
		return PinInvalid, ErrorInvalidArgument
	}
	return Pin(i), nil
}

// PinBPull reads the pull of the second pin of an Encoder element.
func (e *Element) PinBPull() (PinPull, error) {
	return e.readPull(attrPinBPull)
}

// ActivityType reads the activity kind of an Activity element.
func (e *Element) ActivityType() (ActivityType, error) {
	if e == nil {
		return ActivityInvalid, ErrorInvalidArgument
	}

	s, err := e.attrReadStr(attrActivityType)
	if err != nil {
		return ActivityInvalid, err
	}

	a := ActivityTypeFromString(s)
	if a == ActivityInvalid {
		return a, ErrorInvalidArgument
	}
	return a, nil
}

// Value reads the current element value through the attribute tree. For
// latency sensitive or polled access, use OpenValueFd instead.
func (e *Element) Value() (int, error) {
	if e == nil {
		return 0, ErrorInvalidArgument
	}
	return e.attrReadInt(attrValue)
}

// SetValue writes the element value. Only meaningful for outputs.
func (e *Element) SetValue(value int) error {
	if e == nil {
		return ErrorInvalidArgument
	}
	return e.attrWriteInt(attrValue, value)
}

// Range bounds input_min/input_max and value_low/value_high attribute pairs.
type Range struct {
	Low  int
	High int
}

// EncoderOpts are the extended options of an Encoder element.
type EncoderOpts struct {
	InputRange Range
	ValueRange Range
	ValueMode  ValueMode
}

// DefaultEncoderOpts returns the options the driver applies to a freshly set
// up Encoder.
func DefaultEncoderOpts() EncoderOpts {
	return EncoderOpts{
		InputRange: Range{Low: 0, High: 23},
		ValueRange: Range{Low: 0, High: 23},
		ValueMode:  ValueModeClamp,
	}
}

// EncoderOpts reads the extended options of an Encoder element.
func (e *Element) EncoderOpts() (EncoderOpts, error) {
	var opts EncoderOpts
	if e == nil {
		return opts, ErrorInvalidArgument
	}

	for _, t := range []struct {
		attr elementAttr
		dst  *int
	}{
		{attrInputMin, &opts.InputRange.Low},
		{attrInputMax, &opts.InputRange.High},
		{attrValueLow, &opts.ValueRange.Low},
		{attrValueHigh, &opts.ValueRange.High},
	} {
		v, err := e.attrReadInt(t.attr)
		if err != nil {
			return opts, err
		}
		*t.dst = v
	}

	s, err := e.attrReadStr(attrValueMode)
	if err != nil {
		return opts, err
	}
	opts.ValueMode = ValueModeFromString(s)
	if opts.ValueMode == ValueModeInvalid {
		return opts, ErrorInvalidArgument
	}

	return opts, nil
}

// SetEncoderOpts writes the extended options of an Encoder element.
func (e *Element) SetEncoderOpts(opts EncoderOpts) error {
	if e == nil {
		return ErrorInvalidArgument
	}
	if opts.ValueMode.String() == "" {
		return ErrorInvalidArgument
	}

	if err := e.attrWriteInt(attrInputMin, opts.InputRange.Low); err != nil {
		return err
	}
	if err := e.attrWriteInt(attrInputMax, opts.InputRange.High); err != nil {
		return err
	}
	if err := e.attrWriteInt(attrValueLow, opts.ValueRange.Low); err != nil {
		return err
	}
	if err := e.attrWriteInt(attrValueHigh, opts.ValueRange.High); err != nil {
		return err
	}
	return e.attrWriteStr(attrValueMode, opts.ValueMode.String())
}

// AnalogInputOpts are the extended options of an Analog Input element.
type AnalogInputOpts struct {
	InputRange Range
	ValueRange Range
}

// DefaultAnalogInputOpts returns the options the driver applies to a freshly
// set up Analog Input.
func DefaultAnalogInputOpts() AnalogInputOpts {
	return AnalogInputOpts{
		InputRange: Range{Low: 0, High: 1023},
		ValueRange: Range{Low: 0, High: 1023},
	}
}

// AnalogInputOpts reads the extended options of an Analog Input element.
func (e *Element) AnalogInputOpts() (AnalogInputOpts, error) {
	var opts AnalogInputOpts
	if e == nil {
		return opts, ErrorInvalidArgument
	}

	for _, t := range []struct {
		attr elementAttr
		dst  *int
	}{
		{attrInputMin, &opts.InputRange.Low},
		{attrInputMax, &opts.InputRange.High},
		{attrValueLow, &opts.ValueRange.Low},
		{attrValueHigh, &opts.ValueRange.High},
	} {
		v, err := e.attrReadInt(t.attr)
		if err != nil {
			return opts, err
		}
		*t.dst = v
	}

	return opts, nil
}

// SetAnalogInputOpts writes the extended options of an Analog Input element.
func (e *Element) SetAnalogInputOpts(opts AnalogInputOpts) error {
	if e == nil {
		return ErrorInvalidArgument
	}

	if err := e.attrWriteInt(attrInputMin, opts.InputRange.Low); err != nil {
		return err
	}
	if err := e.attrWriteInt(attrInputMax, opts.InputRange.High); err != nil {
		return err
	}
	if err := e.attrWriteInt(attrValueLow, opts.ValueRange.Low); err != nil {
		return err
	}
	return e.attrWriteInt(attrValueHigh, opts.ValueRange.High)
}
