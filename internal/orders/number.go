package orders

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"
)

const (
	numberPrefix    = "ORD"
	numberSuffixMin = 1000
	numberSuffixMax = 9999
)

var numberPattern = regexp.MustCompile(`^ORD-\d{8}-\d{4}$`)

// NumberGenerator produces candidate order numbers. Uniqueness is enforced by
// the orders_order_number_key constraint, not by the generator.
type NumberGenerator interface {
	Next(now time.Time) string
}

// NumberGeneratorFunc adapts a function to NumberGenerator.
type NumberGeneratorFunc func(now time.Time) string

func (f NumberGeneratorFunc) Next(now time.Time) string { return f(now) }

// RandomNumberGenerator yields ORD-<YYYYMMDD UTC>-<1000..9999>.
type RandomNumberGenerator struct {
	rng *rand.Rand
}

// NewRandomNumberGenerator uses the runtime-seeded global source when rng is nil.
func NewRandomNumberGenerator(rng *rand.Rand) *RandomNumberGenerator {
	return &RandomNumberGenerator{rng: rng}
}

func (g *RandomNumberGenerator) Next(now time.Time) string {
	var suffix int
	if g != nil && g.rng != nil {
		suffix = numberSuffixMin + g.rng.IntN(numberSuffixMax-numberSuffixMin+1)
	} else {
		suffix = numberSuffixMin + rand.IntN(numberSuffixMax-numberSuffixMin+1)
	}
	return FormatNumber(now, suffix)
}

// FormatNumber renders an order number for the UTC calendar day of now.
func FormatNumber(now time.Time, suffix int) string {
	return fmt.Sprintf("%s-%s-%04d", numberPrefix, now.UTC().Format("20060102"), suffix)
}

// IsValidNumber reports whether s has the ORD-YYYYMMDD-NNNN shape.
func IsValidNumber(s string) bool {
	return numberPattern.MatchString(s)
}
