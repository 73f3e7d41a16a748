package upisnd

import "fmt"

// Setup is the packed descriptor of an Element configuration. The whole
// configuration fits one 32-bit scalar so it can cross any boundary (IPC,
// config files, foreign language bindings) without a serialization layer.
//
// The low 3 bits hold the element type tag, the remaining bits form a
// type-disjoint field union. Accessors dispatch on the stored tag and refuse
// fields that do not apply to the current type.
type Setup uint32

const (
	setupFieldType     = 0  // 3 bits
	setupFieldPin      = 3  // 8 bits
	setupFieldPull     = 11 // 2 bits, gpio input and encoder pin A
	setupFieldOutput   = 12 // 1 bit, gpio output level
	setupFieldDir      = 13 // 1 bit, gpio direction
	setupFieldPinB     = 13 // 8 bits, encoder pin B
	setupFieldPullB    = 21 // 2 bits, encoder pin B
	setupFieldActivity = 11 // 2 bits
)

func (s Setup) field(shift, bits uint) uint32 {
	mask := uint32(1)<<bits - 1
	return (uint32(s) >> shift) & mask
}

func (s *Setup) setField(shift, bits uint, value uint32) {
	mask := uint32(1)<<bits - 1
	*s = Setup(uint32(*s)&^(mask<<shift) | (value&mask)<<shift)
}

func (s Setup) rawElementType() ElementType {
	return ElementType(s.field(setupFieldType, 3))
}

func (s Setup) rawPin() Pin {
	return Pin(s.field(setupFieldPin, 8))
}

func (s Setup) rawPull() PinPull {
	return PinPull(s.field(setupFieldPull, 2))
}

func (s Setup) rawDir() PinDirection {
	return PinDirection(s.field(setupFieldDir, 1))
}

func (s Setup) rawOutput() bool {
	return s.field(setupFieldOutput, 1) != 0
}

func (s Setup) rawPinB() Pin {
	return Pin(s.field(setupFieldPinB, 8))
}

func (s Setup) rawPullB() PinPull {
	return PinPull(s.field(setupFieldPullB, 2))
}

func (s Setup) rawActivity() ActivityType {
	return ActivityType(s.field(setupFieldActivity, 2))
}

// ElementType returns the stored type tag.
func (s Setup) ElementType() ElementType {
	t := s.rawElementType()
	if t >= elementTypeCount {
		return ElementTypeInvalid
	}
	return t
}

// SetElementType resets the descriptor and stores the type tag. It must be
// called before any other setter.
func (s *Setup) SetElementType(t ElementType) error {
	if t < 0 || t >= elementTypeCount {
		return ErrorInvalidArgument
	}
	*s = 0
	s.setField(setupFieldType, 3, uint32(t))
	return nil
}

func (s Setup) hasPin() bool {
	switch s.rawElementType() {
	case ElementTypeEncoder, ElementTypeAnalogInput, ElementTypeGpio, ElementTypeActivity:
		return true
	default:
		return false
	}
}

// PinID returns the primary pin of the element.
func (s Setup) PinID() (Pin, error) {
	if !s.hasPin() {
		return PinInvalid, ErrorInvalidArgument
	}
	return s.rawPin(), nil
}

func (s *Setup) SetPinID(pin Pin) error {
	if !s.hasPin() || !pin.IsValid() {
		return ErrorInvalidArgument
	}
	s.setField(setupFieldPin, 8, uint32(pin))
	return nil
}

func (s Setup) hasPull() bool {
	switch s.rawElementType() {
	case ElementTypeEncoder:
		return true
	case ElementTypeGpio:
		return s.rawDir() == PinDirInput
	default:
		return false
	}
}

// GpioPull returns the pull of the primary pin. It applies to GPIO inputs and
// to the first pin of an Encoder.
func (s Setup) GpioPull() (PinPull, error) {
	if !s.hasPull() {
		return PinPullInvalid, ErrorInvalidArgument
	}
	return s.rawPull(), nil
}

func (s *Setup) SetGpioPull(pull PinPull) error {
	if !s.hasPull() || pull < 0 || pull >= pinPullCount {
		return ErrorInvalidArgument
	}
	s.setField(setupFieldPull, 2, uint32(pull))
	return nil
}

// GpioDir returns the direction of a GPIO element.
func (s Setup) GpioDir() (PinDirection, error) {
	if s.rawElementType() != ElementTypeGpio {
		return PinDirInvalid, ErrorInvalidArgument
	}
	return s.rawDir(), nil
}

func (s *Setup) SetGpioDir(dir PinDirection) error {
	if s.rawElementType() != ElementTypeGpio || dir < 0 || dir >= pinDirCount {
		return ErrorInvalidArgument
	}
	s.setField(setupFieldDir, 1, uint32(dir))
	return nil
}

// GpioOutput returns the initial level of a GPIO output.
func (s Setup) GpioOutput() (bool, error) {
	if s.rawElementType() != ElementTypeGpio || s.rawDir() != PinDirOutput {
		return false, ErrorInvalidArgument
	}
	return s.rawOutput(), nil
}

func (s *Setup) SetGpioOutput(high bool) error {
	if s.rawElementType() != ElementTypeGpio || s.rawDir() != PinDirOutput {
		return ErrorInvalidArgument
	}
	v := uint32(0)
	if high {
		v = 1
	}
	s.setField(setupFieldOutput, 1, v)
	return nil
}

// EncoderPinB returns the second pin of an Encoder.
func (s Setup) EncoderPinB() (Pin, error) {
	if s.rawElementType() != ElementTypeEncoder {
		return PinInvalid, ErrorInvalidArgument
	}
	return s.rawPinB(), nil
}

func (s *Setup) SetEncoderPinB(pin Pin) error {
	if s.rawElementType() != ElementTypeEncoder || !pin.IsValid() {
		return ErrorInvalidArgument
	}
	s.setField(setupFieldPinB, 8, uint32(pin))
	return nil
}

// EncoderPinBPull returns the pull of the second pin of an Encoder.
func (s Setup) EncoderPinBPull() (PinPull, error) {
	if s.rawElementType() != ElementTypeEncoder {
		return PinPullInvalid, ErrorInvalidArgument
	}
	return s.rawPullB(), nil
}

func (s *Setup) SetEncoderPinBPull(pull PinPull) error {
	if s.rawElementType() != ElementTypeEncoder || pull < 0 || pull >= pinPullCount {
		return ErrorInvalidArgument
	}
	s.setField(setupFieldPullB, 2, uint32(pull))
	return nil
}

// ActivityType returns the activity kind of an Activity element.
func (s Setup) ActivityType() (ActivityType, error) {
	if s.rawElementType() != ElementTypeActivity {
		return ActivityInvalid, ErrorInvalidArgument
	}
	return s.rawActivity(), nil
}

func (s *Setup) SetActivityType(activity ActivityType) error {
	if s.rawElementType() != ElementTypeActivity || activity < 0 || activity >= activityTypeCount {
		return ErrorInvalidArgument
	}
	s.setField(setupFieldActivity, 2, uint32(activity))
	return nil
}

// renderRequest translates a descriptor into the textual request grammar the
// driver expects on its setup node, without the leading element name.
func renderRequest(s Setup) (string, error) {
	pin := s.rawPin()
	if !pin.IsValid() {
		return "", ErrorInvalidArgument
	}

	switch s.rawElementType() {
	case ElementTypeEncoder:
		pinB := s.rawPinB()
		if !pinB.IsValid() {
			return "", ErrorInvalidArgument
		}
		return fmt.Sprintf("encoder %s %s %s %s", pin, s.rawPull(), pinB, s.rawPullB()), nil

	case ElementTypeAnalogInput:
		return fmt.Sprintf("analog_in %s", pin), nil

	case ElementTypeGpio:
		if s.rawDir() == PinDirInput {
			return fmt.Sprintf("gpio %s input %s", pin, s.rawPull()), nil
		}
		level := 0
		if s.rawOutput() {
			level = 1
		}
		return fmt.Sprintf("gpio %s output %d", pin, level), nil

	case ElementTypeActivity:
		return fmt.Sprintf("activity_%s %s", s.rawActivity(), pin), nil

	default:
		return "", ErrorInvalidArgument
	}
}
