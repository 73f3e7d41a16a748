package upisnd

// DefaultSysfsPath is where the pisound-micro driver mounts its tree.
const DefaultSysfsPath = "/sys/pisound-micro"

// The driver works with fixed-size path buffers. Inputs that would overflow
// them must fail loudly: a silently truncated path could address the wrong
// node.
const (
	maxSysfsPathLength   = 64
	maxElementPathLength = maxSysfsPathLength + MaxElementNameLength
	maxRequestLength     = MaxElementNameLength + 64
)

type elementAttr int

const (
	attrRoot elementAttr = iota
	attrType
	attrDirection
	attrPin
	attrPinName
	attrPinPull
	attrPinB
	attrPinBName
	attrPinBPull
	attrInputMin
	attrInputMax
	attrValueLow
	attrValueHigh
	attrValueMode
	attrValue
	attrActivityType

	elementAttrCount
)

var elementAttrNames = [elementAttrCount]string{
	"", "type", "direction", "pin", "pin_name", "pin_pull",
	"pin_b", "pin_b_name", "pin_b_pull", "input_min", "input_max",
	"value_low", "value_high", "value_mode", "value", "activity_type",
}

// contextPath builds the absolute path of a context-level node such as
// "setup" or "unsetup".
func contextPath(base, node string) (string, error) {
	p := base + "/" + node
	if len(p) >= maxSysfsPathLength {
		return "", ErrorPathTooLong
	}
	return p, nil
}

// elementAttrPath builds the absolute path of one attribute of a named
// element, or of the element directory itself for attrRoot.
func elementAttrPath(base, name string, attr elementAttr) (string, error) {
	if attr < 0 || attr >= elementAttrCount {
		return "", ErrorInvalidArgument
	}

	p := base + "/elements/" + name
	if attr != attrRoot {
		p += "/" + elementAttrNames[attr]
	}

	if len(p) >= maxElementPathLength {
		return "", ErrorPathTooLong
	}

	return p, nil
}
