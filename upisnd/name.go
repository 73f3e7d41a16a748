package upisnd

import (
	"encoding/base64"
	"encoding/binary"
)

// xoshiro128 is the xoshiro128** generator state. It only backs random
// element names, so it does not need to be cryptographically strong; the
// state is seeded from the system entropy source at context creation.
type xoshiro128 [4]uint32

func rotl32(x uint32, k uint) uint32 {
	return x<<k | x>>(32-k)
}

func (s *xoshiro128) next() uint32 {
	result := rotl32(s[0]*5, 7) * 9

	t := s[1] << 9

	s[2] ^= s[0]
	s[3] ^= s[1]
	s[1] ^= s[2]
	s[0] ^= s[3]

	s[2] ^= t

	s[3] = rotl32(s[3], 11)

	return result
}

// GenerateRandomName produces a unique element name scoped to this context:
// 16 generator bytes encoded as a 22 character base64url string, optionally
// preceded by "<prefix>-". The result is validated like any other element
// name, so an unusable prefix fails with ErrorInvalidName.
func (c *Context) GenerateRandomName(prefix string) (string, error) {
	var raw [16]byte

	c.mu.Lock()
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint32(raw[i*4:], c.seed.next())
	}
	c.mu.Unlock()

	name := base64.RawURLEncoding.EncodeToString(raw[:])
	if prefix != "" {
		name = prefix + "-" + name
	}

	if err := ValidateElementName(name); err != nil {
		return "", err
	}

	return name, nil
}
