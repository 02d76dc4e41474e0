// Package dice provides the core randomness abstraction for the combat engine.
package dice

import (
	"crypto/rand"
	"math/big"
)

// Source is the randomness provider for damage and healing rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// CryptoSource is a Source backed by crypto/rand. It is safe for concurrent
// use and needs no seeding.
type CryptoSource struct{}

// NewCryptoSource creates a CryptoSource.
func NewCryptoSource() *CryptoSource { return &CryptoSource{} }

// Intn returns a uniformly random int in [0, n) from the OS entropy source.
//
// Precondition: n > 0.
func (s *CryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn precondition violated: n must be > 0")
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand failure means the OS entropy source is broken;
		// there is no sane fallback.
		panic("dice: reading crypto/rand: " + err.Error())
	}
	return int(v.Int64())
}

// RollRange returns a uniformly random value in the inclusive range [min, max].
//
// Precondition: src must be non-nil; min <= max.
// Postcondition: min <= result <= max.
func RollRange(src Source, min, max int) int {
	if min > max {
		min, max = max, min
	}
	if min == max {
		return min
	}
	return min + src.Intn(max-min+1)
}
