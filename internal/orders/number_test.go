package orders

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomNumberGeneratorFormat(t *testing.T) {
	gen := NewRandomNumberGenerator(rand.New(rand.NewPCG(1, 2)))
	now := time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		number := gen.Next(now)
		assert.True(t, IsValidNumber(number), number)
		assert.Equal(t, "ORD-20240115-", number[:13])
		assert.Len(t, number, 17)
		assert.GreaterOrEqual(t, number[13:], "1000")
		assert.LessOrEqual(t, number[13:], "9999")
	}
}

func TestNumberUsesUTCDate(t *testing.T) {
	local := time.Date(2024, 1, 16, 1, 30, 0, 0, time.FixedZone("UTC+3", 3*3600))
	assert.Equal(t, "ORD-20240115-1234", FormatNumber(local, 1234))
}

func TestGlobalSourceGenerator(t *testing.T) {
	number := NewRandomNumberGenerator(nil).Next(time.Now())
	assert.True(t, IsValidNumber(number), number)
}

func TestIsValidNumber(t *testing.T) {
	assert.True(t, IsValidNumber("ORD-20240115-4821"))
	assert.False(t, IsValidNumber("ORD-2024011-4821"))
	assert.False(t, IsValidNumber("ORD-20240115-48210"))
	assert.False(t, IsValidNumber("XYZ-20240115-4821"))
	assert.False(t, IsValidNumber(""))
}
