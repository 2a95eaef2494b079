package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

const (
	RequestPrefix = "req_"

	defaultEntropy = 12
)

// Generator mints opaque identifiers, e.g. for X-Request-ID.
type Generator interface {
	NewID() (string, error)
}

// RandomGenerator emits prefix followed by hex-encoded random bytes.
type RandomGenerator struct {
	prefix  string
	entropy int
}

// NewRequestIDGenerator returns ids of the form req_<24 hex chars>.
func NewRequestIDGenerator() *RandomGenerator {
	return NewRandomGenerator(RequestPrefix, defaultEntropy)
}

func NewRandomGenerator(prefix string, entropy int) *RandomGenerator {
	if entropy <= 0 {
		entropy = defaultEntropy
	}
	return &RandomGenerator{prefix: prefix, entropy: entropy}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, g.entropy)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	out := make([]byte, len(g.prefix)+hex.EncodedLen(len(buf)))
	copy(out, g.prefix)
	hex.Encode(out[len(g.prefix):], buf)
	return string(out), nil
}
