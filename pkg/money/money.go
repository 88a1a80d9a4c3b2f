// Package money implements fixed-point currency amounts with two fractional
// digits on top of shopspring/decimal.
package money

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every Money value carries.
const Places = 2

// Money is an exact amount rounded half away from zero to two decimal places.
// The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

var Zero = Money{}

// New builds a Money from a whole-unit value and minor units, e.g. New(10, 50) == 10.50.
func New(units int64, cents int64) Money {
	return FromDecimal(decimal.New(units, 0).Add(decimal.New(cents, -Places)))
}

// FromCents builds a Money from an integer amount of minor units.
func FromCents(cents int64) Money {
	return FromDecimal(decimal.New(cents, -Places))
}

// FromDecimal rounds d to two places.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d.Round(Places)}
}

// Parse reads a decimal string such as "5.00" or "12.5". Blank input is an error.
func Parse(s string) (Money, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Zero, fmt.Errorf("money: empty amount")
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil {
		return Zero, fmt.Errorf("money: parse %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// ParseOr returns fallback when s is blank or malformed.
func ParseOr(s string, fallback Money) Money {
	m, err := Parse(s)
	if err != nil {
		return fallback
	}
	return m
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Money) Add(o Money) Money { return FromDecimal(m.d.Add(o.d)) }

func (m Money) Sub(o Money) Money { return FromDecimal(m.d.Sub(o.d)) }

// MulInt multiplies by a quantity.
func (m Money) MulInt(n int) Money { return FromDecimal(m.d.Mul(decimal.NewFromInt(int64(n)))) }

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }

func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }

func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }

func (m Money) GreaterThanOrEqual(o Money) bool { return m.d.GreaterThanOrEqual(o.d) }

func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }

func (m Money) IsZero() bool { return m.d.IsZero() }

func (m Money) IsPositive() bool { return m.d.IsPositive() }

func (m Money) IsNegative() bool { return m.d.IsNegative() }

// Decimal exposes the underlying value for ratio arithmetic.
func (m Money) Decimal() decimal.Decimal { return m.d }

// Cents returns the amount in minor units.
func (m Money) Cents() int64 { return m.d.Shift(Places).IntPart() }

// String always renders two fractional digits.
func (m Money) String() string { return m.d.StringFixed(Places) }

// Sum adds amounts.
func Sum(values ...Money) Money {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Value stores the amount as a fixed two-place string, which postgres
// numeric(10,2) and sqlite both accept without float rounding.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}

func (m *Money) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*m = Zero
		return nil
	case string:
		return m.scanString(v)
	case []byte:
		return m.scanString(string(v))
	case float64:
		*m = FromDecimal(decimal.NewFromFloat(v))
		return nil
	case int64:
		*m = FromDecimal(decimal.NewFromInt(v))
		return nil
	default:
		return fmt.Errorf("money: cannot scan %T", value)
	}
}

func (m *Money) scanString(s string) error {
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// GormDataType keeps AutoMigrate (used by sqlite tests) on a decimal column.
func (Money) GormDataType() string {
	return "decimal(10,2)"
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts both "12.50" and 12.5.
func (m *Money) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		*m = Zero
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("money: %w", err)
		}
		raw = s
	}
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
