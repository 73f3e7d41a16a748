package upisnd

// ElementType identifies the kind of hardware resource an Element claims.
type ElementType int8

const (
	ElementTypeNone ElementType = iota
	ElementTypeEncoder
	ElementTypeAnalogInput
	ElementTypeGpio
	ElementTypeActivity

	elementTypeCount

	ElementTypeInvalid ElementType = -1
)

var elementTypeNames = [elementTypeCount]string{
	"none", "encoder", "analog_in", "gpio", "activity",
}

func (t ElementType) String() string {
	if t < 0 || t >= elementTypeCount {
		return ""
	}
	return elementTypeNames[t]
}

func ElementTypeFromString(s string) ElementType {
	for i, name := range elementTypeNames {
		if name == s {
			return ElementType(i)
		}
	}
	return ElementTypeInvalid
}

// PinPull selects the pull resistor configuration of an input pin.
type PinPull int8

const (
	PinPullNone PinPull = iota
	PinPullUp
	PinPullDown

	pinPullCount

	PinPullInvalid PinPull = -1
)

var pinPullNames = [pinPullCount]string{"pull_none", "pull_up", "pull_down"}

func (p PinPull) String() string {
	if p < 0 || p >= pinPullCount {
		return ""
	}
	return pinPullNames[p]
}

func PinPullFromString(s string) PinPull {
	for i, name := range pinPullNames {
		if name == s {
			return PinPull(i)
		}
	}
	return PinPullInvalid
}

// PinDirection selects between GPIO input and output mode.
type PinDirection int8

const (
	PinDirInput PinDirection = iota
	PinDirOutput

	pinDirCount

	PinDirInvalid PinDirection = -1
)

var pinDirNames = [pinDirCount]string{"in", "out"}

func (d PinDirection) String() string {
	if d < 0 || d >= pinDirCount {
		return ""
	}
	return pinDirNames[d]
}

func PinDirectionFromString(s string) PinDirection {
	for i, name := range pinDirNames {
		if name == s {
			return PinDirection(i)
		}
	}
	return PinDirInvalid
}

// ActivityType selects which subsystem activity an Activity Element indicates.
type ActivityType int8

const (
	ActivityMidiInput ActivityType = iota
	ActivityMidiOutput

	activityTypeCount

	ActivityInvalid ActivityType = -1
)

var activityTypeNames = [activityTypeCount]string{"midi_in", "midi_out"}

func (a ActivityType) String() string {
	if a < 0 || a >= activityTypeCount {
		return ""
	}
	return activityTypeNames[a]
}

func ActivityTypeFromString(s string) ActivityType {
	for i, name := range activityTypeNames {
		if name == s {
			return ActivityType(i)
		}
	}
	return ActivityInvalid
}

// ValueMode controls how Encoder values behave at the input range boundaries.
type ValueMode int8

const (
	ValueModeClamp ValueMode = iota
	ValueModeWrap

	valueModeCount

	ValueModeInvalid ValueMode = -1
)

var valueModeNames = [valueModeCount]string{"clamp", "wrap"}

func (m ValueMode) String() string {
	if m < 0 || m >= valueModeCount {
		return ""
	}
	return valueModeNames[m]
}

func ValueModeFromString(s string) ValueMode {
	for i, name := range valueModeNames {
		if name == s {
			return ValueMode(i)
		}
	}
	return ValueModeInvalid
}

// Pin numbers one of the 37 header pins of the expander. The ranges are
// A27-A32, B03-B18, B23-B34 and B37-B39.
type Pin int8

const (
	PinA27 Pin = iota
	PinA28
	PinA29
	PinA30
	PinA31
	PinA32
	PinB03
	PinB04
	PinB05
	PinB06
	PinB07
	PinB08
	PinB09
	PinB10
	PinB11
	PinB12
	PinB13
	PinB14
	PinB15
	PinB16
	PinB17
	PinB18
	PinB23
	PinB24
	PinB25
	PinB26
	PinB27
	PinB28
	PinB29
	PinB30
	PinB31
	PinB32
	PinB33
	PinB34
	PinB37
	PinB38
	PinB39

	pinCount

	PinInvalid = pinCount
)

var pinNames = [pinCount]string{
	"A27", "A28", "A29", "A30", "A31", "A32", "B03", "B04",
	"B05", "B06", "B07", "B08", "B09", "B10", "B11", "B12",
	"B13", "B14", "B15", "B16", "B17", "B18", "B23", "B24",
	"B25", "B26", "B27", "B28", "B29", "B30", "B31", "B32",
	"B33", "B34", "B37", "B38", "B39",
}

func (p Pin) IsValid() bool {
	return p >= 0 && p < pinCount
}

func (p Pin) String() string {
	if !p.IsValid() {
		return ""
	}
	return pinNames[p]
}

// PinFromString parses a pin name like "B03". The leading letter is case
// insensitive, the rest must match the header naming exactly.
func PinFromString(s string) Pin {
	if len(s) != 3 {
		return PinInvalid
	}

	var letter byte
	switch s[0] {
	case 'a', 'A':
		letter = 'A'
	case 'b', 'B':
		letter = 'B'
	default:
		return PinInvalid
	}

	name := string(letter) + s[1:]
	for i, n := range pinNames {
		if n == name {
			return Pin(i)
		}
	}

	return PinInvalid
}
