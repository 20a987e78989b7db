// Package dice provides the randomness abstraction and roll-result types
// used by the ability check and effect resolution engine.
package dice

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use. Domain code never calls
// an ambient global RNG; tests inject a scripted Source for determinism.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// D20 rolls a single twenty-sided die: a uniform integer in [1, 20].
// All contested and target-number checks draw from this.
//
// Precondition: src must be non-nil.
func D20(src Source) int {
	return src.Intn(20) + 1
}

// RollResult holds the audit trail for one dice expression evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string, e.g. "2d6+3 → [4 5] +3 = 12".
func (r RollResult) String() string {
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// cryptoSource implements Source using crypto/rand, so rolls are never
// seeded deterministically across requests.
type cryptoSource struct{}

// NewCryptoSource returns a Source backed by crypto/rand.
//
// Postcondition: Every value returned by Intn is uniform in [0, n).
func NewCryptoSource() Source {
	return &cryptoSource{}
}

// Intn returns a cryptographically secure random int in [0, n).
//
// Precondition: n > 0. Panics with "dice: Intn called with n <= 0" if n <= 0.
func (c *cryptoSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	val, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic("dice: crypto/rand failure: " + err.Error())
	}
	return int(val.Int64())
}
