package upisnd

import (
	"strings"
	"testing"
)

func TestContextPath(t *testing.T) {
	p, err := contextPath("/sys/pisound-micro", "setup")
	check(t, err == nil, "contextPath failed:", err)
	check(t, p == "/sys/pisound-micro/setup", "Unexpected path:", p)

	// 57 byte base + "/unsetup" is 65 bytes, one over the limit.
	long := "/" + strings.Repeat("x", 56)
	_, err = contextPath(long, "unsetup")
	check(t, err == ErrorPathTooLong, "Overlong context path accepted")

	// Two bytes shorter fits exactly.
	p, err = contextPath(long[:55], "unsetup")
	check(t, err == nil && len(p) == 63, "Boundary context path rejected:", err, len(p))
}

func TestElementAttrPath(t *testing.T) {
	base := "/sys/pisound-micro"

	p, err := elementAttrPath(base, "enc", attrValue)
	check(t, err == nil, "elementAttrPath failed:", err)
	check(t, p == "/sys/pisound-micro/elements/enc/value", "Unexpected path:", p)

	p, err = elementAttrPath(base, "enc", attrRoot)
	check(t, err == nil, "Root path failed:", err)
	check(t, p == "/sys/pisound-micro/elements/enc", "Unexpected root path:", p)

	p, err = elementAttrPath(base, "enc", attrPinBPull)
	check(t, err == nil && strings.HasSuffix(p, "/pin_b_pull"), "Unexpected attr path:", p)

	// A maximal base plus a maximal name overflows the element path buffer.
	longBase := "/" + strings.Repeat("x", 62)
	_, err = elementAttrPath(longBase, strings.Repeat("n", 63), attrActivityType)
	check(t, err == ErrorPathTooLong, "Overlong element path accepted")

	_, err = elementAttrPath(base, "enc", elementAttrCount)
	check(t, err == ErrorInvalidArgument, "Out of range attribute accepted")
}
