package upisnd

import (
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
)

func setupTestElement(t *testing.T, base, name string, cfg ElementConfig, attrs map[string]string) *Element {
	t.Helper()

	fs := afero.NewMemMapFs()
	driverTree(fs, base)
	elementTree(fs, base, name, attrs)
	ctx := newTestContext(t, base, fs)

	el, _, err := ctx.SetupConfig(name, cfg)
	check(t, err == nil, "Setup failed:", err)
	return el
}

func TestElementGet(t *testing.T) {
	base := "/sys/el-get"
	fs := afero.NewMemMapFs()
	driverTree(fs, base)
	ctx := newTestContext(t, base, fs)

	el, _, err := ctx.SetupGpioOutput("gpio1", PinB03, false)
	check(t, err == nil, "Setup failed:", err)

	got, err := ctx.Get("gpio1")
	check(t, err == nil, "Get failed:", err)
	check(t, got == el, "Get must return the registered handle")
	check(t, atomic.LoadInt32(&el.refcount) == 2, "Get did not take a reference")
	got.Unref()

	_, err = ctx.Get("unknown")
	check(t, err == ErrorNotFound, "Unknown name found")

	_, err = ctx.Get("bad/name")
	check(t, err == ErrorInvalidName, "Bad name accepted")
}

func TestElementRefcounting(t *testing.T) {
	base := "/sys/el-refs"
	fs := afero.NewMemMapFs()
	driverTree(fs, base)
	ctx := newTestContext(t, base, fs)

	el, _, err := ctx.SetupGpioOutput("gpio1", PinB03, false)
	check(t, err == nil, "Setup failed:", err)

	check(t, el.AddRef() == el, "AddRef must return the same handle")
	check(t, atomic.LoadInt32(&el.refcount) == 2, "Unexpected refcount")

	el.Unref()
	el.Unref()
	check(t, atomic.LoadInt32(&el.refcount) == 0, "Handle not drained")
	check(t, el.AddRef() == nil, "Drained handle revived")
	el.Unref() // no-op
	check(t, atomic.LoadInt32(&el.refcount) == 0, "Unref underflowed")

	var nilEl *Element
	check(t, nilEl.AddRef() == nil, "Nil handle revived")
	nilEl.Unref()
	check(t, nilEl.Name() == "", "Nil handle has a name")
}

func TestElementEncoderAttributes(t *testing.T) {
	el := setupTestElement(t, "/sys/el-enc", "enc",
		EncoderConfig{PinA: PinB03, PullA: PinPullUp, PinB: PinB04, PullB: PinPullDown},
		map[string]string{
			"type":       "encoder\n",
			"pin":        "6\n",
			"pin_pull":   "pull_up\n",
			"pin_b":      "7\n",
			"pin_b_pull": "pull_down\n",
		})

	ty, err := el.Type()
	check(t, err == nil && ty == ElementTypeEncoder, "Type mismatch:", ty, err)

	pin, err := el.Pin()
	check(t, err == nil && pin == PinB03, "Pin mismatch:", pin, err)

	pull, err := el.Pull()
	check(t, err == nil && pull == PinPullUp, "Pull mismatch:", pull, err)

	pinB, err := el.PinB()
	check(t, err == nil && pinB == PinB04, "Pin B mismatch:", pinB, err)

	pullB, err := el.PinBPull()
	check(t, err == nil && pullB == PinPullDown, "Pin B pull mismatch:", pullB, err)
}

func TestElementGpioAttributes(t *testing.T) {
	el := setupTestElement(t, "/sys/el-gpio", "gpio1",
		GpioInputConfig{Pin: PinB07, Pull: PinPullDown},
		map[string]string{
			"type":      "gpio\n",
			"direction": "in\n",
			"pin":       "10\n",
			"value":     "1\n",
		})

	dir, err := el.Direction()
	check(t, err == nil && dir == PinDirInput, "Direction mismatch:", dir, err)

	pin, err := el.Pin()
	check(t, err == nil && pin == PinB07, "Pin mismatch:", pin, err)

	v, err := el.Value()
	check(t, err == nil && v == 1, "Value mismatch:", v, err)
}

func TestElementActivityAttributes(t *testing.T) {
	el := setupTestElement(t, "/sys/el-act", "act",
		ActivityConfig{Pin: PinB05, Activity: ActivityMidiInput},
		map[string]string{
			"type":          "activity\n",
			"activity_type": "midi_in\n",
		})

	a, err := el.ActivityType()
	check(t, err == nil && a == ActivityMidiInput, "Activity mismatch:", a, err)
}

func TestElementBadAttributeContent(t *testing.T) {
	el := setupTestElement(t, "/sys/el-bad", "weird",
		GpioInputConfig{Pin: PinB07, Pull: PinPullNone},
		map[string]string{
			"type": "flux_capacitor\n",
			"pin":  "250\n",
		})

	_, err := el.Type()
	check(t, err == ErrorInvalidArgument, "Unknown type token accepted")

	_, err = el.Pin()
	check(t, err == ErrorInvalidArgument, "Out of range pin accepted")
}

func TestElementSetValue(t *testing.T) {
	el := setupTestElement(t, "/sys/el-value", "gpio1",
		GpioOutputConfig{Pin: PinB03, High: false},
		map[string]string{"value": ""})

	check(t, el.SetValue(1) == nil, "SetValue failed")
	v, err := el.Value()
	check(t, err == nil && v == 1, "Value mismatch:", v, err)
}

func TestEncoderOpts(t *testing.T) {
	el := setupTestElement(t, "/sys/el-encopts", "enc",
		EncoderConfig{PinA: PinB03, PullA: PinPullUp, PinB: PinB04, PullB: PinPullUp},
		map[string]string{
			"input_min":  "0\n",
			"input_max":  "23\n",
			"value_low":  "0\n",
			"value_high": "23\n",
			"value_mode": "clamp\n",
		})

	opts, err := el.EncoderOpts()
	check(t, err == nil, "EncoderOpts failed:", err)
	check(t, opts == DefaultEncoderOpts(), "Fresh encoder must carry defaults:", opts)
}

func TestSetEncoderOpts(t *testing.T) {
	el := setupTestElement(t, "/sys/el-setencopts", "enc",
		EncoderConfig{PinA: PinB03, PullA: PinPullUp, PinB: PinB04, PullB: PinPullUp},
		map[string]string{
			"input_min":  "",
			"input_max":  "",
			"value_low":  "",
			"value_high": "",
			"value_mode": "",
		})

	want := EncoderOpts{
		InputRange: Range{Low: 0, High: 95},
		ValueRange: Range{Low: -64, High: 64},
		ValueMode:  ValueModeWrap,
	}
	check(t, el.SetEncoderOpts(want) == nil, "SetEncoderOpts failed")

	opts, err := el.EncoderOpts()
	check(t, err == nil && opts == want, "Options did not round trip:", opts, err)

	bad := want
	bad.ValueMode = ValueModeInvalid
	check(t, el.SetEncoderOpts(bad) == ErrorInvalidArgument, "Invalid value mode accepted")
}

func TestAnalogInputOpts(t *testing.T) {
	el := setupTestElement(t, "/sys/el-potopts", "pot",
		AnalogInputConfig{Pin: PinA27},
		map[string]string{
			"input_min":  "0\n",
			"input_max":  "1023\n",
			"value_low":  "0\n",
			"value_high": "1023\n",
		})

	opts, err := el.AnalogInputOpts()
	check(t, err == nil, "AnalogInputOpts failed:", err)
	check(t, opts == DefaultAnalogInputOpts(), "Fresh input must carry defaults:", opts)
}

func TestSetAnalogInputOpts(t *testing.T) {
	el := setupTestElement(t, "/sys/el-setpotopts", "pot",
		AnalogInputConfig{Pin: PinA27},
		map[string]string{
			"input_min":  "",
			"input_max":  "",
			"value_low":  "",
			"value_high": "",
		})

	want := AnalogInputOpts{
		InputRange: Range{Low: 100, High: 900},
		ValueRange: Range{Low: 0, High: 127},
	}
	check(t, el.SetAnalogInputOpts(want) == nil, "SetAnalogInputOpts failed")

	opts, err := el.AnalogInputOpts()
	check(t, err == nil && opts == want, "Options did not round trip:", opts, err)
}

func TestElementNilReceivers(t *testing.T) {
	var el *Element

	_, err := el.Type()
	check(t, err == ErrorInvalidArgument, "Nil Type succeeded")
	_, err = el.Value()
	check(t, err == ErrorInvalidArgument, "Nil Value succeeded")
	check(t, el.SetValue(1) == ErrorInvalidArgument, "Nil SetValue succeeded")
	_, err = el.EncoderOpts()
	check(t, err == ErrorInvalidArgument, "Nil EncoderOpts succeeded")
	_, err = el.OpenValueFd(0)
	check(t, err == ErrorInvalidArgument, "Nil OpenValueFd succeeded")
}
