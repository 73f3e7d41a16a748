package upisnd

// ElementConfig is the tagged representation of a Setup descriptor. It exists
// for callers that prefer structured configuration over the packed scalar;
// both encode to the same wire request.
type ElementConfig interface {
	Encode() (Setup, error)
}

// GpioInputConfig configures a GPIO pin as an input with a pull resistor.
type GpioInputConfig struct {
	Pin  Pin
	Pull PinPull
}

func (c GpioInputConfig) Encode() (Setup, error) {
	var s Setup
	if err := s.SetElementType(ElementTypeGpio); err != nil {
		return 0, err
	}
	if err := s.SetGpioDir(PinDirInput); err != nil {
		return 0, err
	}
	if err := s.SetPinID(c.Pin); err != nil {
		return 0, err
	}
	if err := s.SetGpioPull(c.Pull); err != nil {
		return 0, err
	}
	return s, nil
}

// GpioOutputConfig configures a GPIO pin as an output with an initial level.
type GpioOutputConfig struct {
	Pin  Pin
	High bool
}

func (c GpioOutputConfig) Encode() (Setup, error) {
	var s Setup
	if err := s.SetElementType(ElementTypeGpio); err != nil {
		return 0, err
	}
	if err := s.SetGpioDir(PinDirOutput); err != nil {
		return 0, err
	}
	if err := s.SetPinID(c.Pin); err != nil {
		return 0, err
	}
	if err := s.SetGpioOutput(c.High); err != nil {
		return 0, err
	}
	return s, nil
}

// EncoderConfig configures a rotary encoder on a pair of pins.
type EncoderConfig struct {
	PinA  Pin
	PullA PinPull
	PinB  Pin
	PullB PinPull
}

func (c EncoderConfig) Encode() (Setup, error) {
	var s Setup
	if err := s.SetElementType(ElementTypeEncoder); err != nil {
		return 0, err
	}
	if err := s.SetPinID(c.PinA); err != nil {
		return 0, err
	}
	if err := s.SetGpioPull(c.PullA); err != nil {
		return 0, err
	}
	if err := s.SetEncoderPinB(c.PinB); err != nil {
		return 0, err
	}
	if err := s.SetEncoderPinBPull(c.PullB); err != nil {
		return 0, err
	}
	return s, nil
}

// AnalogInputConfig configures an analog input pin.
type AnalogInputConfig struct {
	Pin Pin
}

func (c AnalogInputConfig) Encode() (Setup, error) {
	var s Setup
	if err := s.SetElementType(ElementTypeAnalogInput); err != nil {
		return 0, err
	}
	if err := s.SetPinID(c.Pin); err != nil {
		return 0, err
	}
	return s, nil
}

// ActivityConfig configures a pin as an activity indicator.
type ActivityConfig struct {
	Pin      Pin
	Activity ActivityType
}

func (c ActivityConfig) Encode() (Setup, error) {
	var s Setup
	if err := s.SetElementType(ElementTypeActivity); err != nil {
		return 0, err
	}
	if err := s.SetPinID(c.Pin); err != nil {
		return 0, err
	}
	if err := s.SetActivityType(c.Activity); err != nil {
		return 0, err
	}
	return s, nil
}

// DecodeSetup expands a descriptor back into its tagged form.
func DecodeSetup(s Setup) (ElementConfig, error) {
	switch s.rawElementType() {
	case ElementTypeEncoder:
		return EncoderConfig{
			PinA:  s.rawPin(),
			PullA: s.rawPull(),
			PinB:  s.rawPinB(),
			PullB: s.rawPullB(),
		}, nil

	case ElementTypeAnalogInput:
		return AnalogInputConfig{Pin: s.rawPin()}, nil

	case ElementTypeGpio:
		if s.rawDir() == PinDirInput {
			return GpioInputConfig{Pin: s.rawPin(), Pull: s.rawPull()}, nil
		}
		return GpioOutputConfig{Pin: s.rawPin(), High: s.rawOutput()}, nil

	case ElementTypeActivity:
		return ActivityConfig{Pin: s.rawPin(), Activity: s.rawActivity()}, nil

	default:
		return nil, ErrorInvalidArgument
	}
}
