package upisnd

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestGenerateRandomName(t *testing.T) {
	ctx := newTestContext(t, "/sys/name-gen", afero.NewMemMapFs())

	name, err := ctx.GenerateRandomName("")
	check(t, err == nil, "GenerateRandomName failed:", err)
	check(t, len(name) == 22, "Unexpected name length:", name)
	check(t, ValidateElementName(name) == nil, "Generated name invalid:", name)

	other, err := ctx.GenerateRandomName("")
	check(t, err == nil, "GenerateRandomName failed:", err)
	check(t, name != other, "Consecutive names collided:", name)
}

func TestGenerateRandomNameDeterministic(t *testing.T) {
	a := newTestContext(t, "/sys/name-det-a", afero.NewMemMapFs())
	b := newTestContext(t, "/sys/name-det-b", afero.NewMemMapFs())

	a.seed = xoshiro128{1, 2, 3, 4}
	b.seed = xoshiro128{1, 2, 3, 4}

	n1, err := a.GenerateRandomName("")
	check(t, err == nil, "GenerateRandomName failed:", err)
	n2, err := b.GenerateRandomName("")
	check(t, err == nil, "GenerateRandomName failed:", err)
	check(t, n1 == n2, "Equal seeds must generate equal names:", n1, n2)

	// And the generator must have advanced past the first draw.
	n3, err := a.GenerateRandomName("")
	check(t, err == nil, "GenerateRandomName failed:", err)
	check(t, n1 != n3, "Generator state did not advance")
}

func TestGenerateRandomNamePrefix(t *testing.T) {
	ctx := newTestContext(t, "/sys/name-prefix", afero.NewMemMapFs())

	name, err := ctx.GenerateRandomName("enc")
	check(t, err == nil, "GenerateRandomName failed:", err)
	check(t, strings.HasPrefix(name, "enc-"), "Prefix missing:", name)
	check(t, len(name) == 26, "Unexpected name length:", name)

	_, err = ctx.GenerateRandomName("bad/prefix")
	check(t, err == ErrorInvalidName, "Prefix with separator accepted")

	// 40 prefix bytes, the dash and 22 random characters fill the name
	// budget exactly; one more byte overflows it.
	name, err = ctx.GenerateRandomName(strings.Repeat("p", 40))
	check(t, err == nil && len(name) == 63, "Boundary prefix rejected:", err)

	_, err = ctx.GenerateRandomName(strings.Repeat("p", 41))
	check(t, err == ErrorInvalidName, "Overlong prefix accepted")
}
