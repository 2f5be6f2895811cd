package domain

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the only currency the simulator trades in.
const Currency = money.USD

// Money is an exact dollar amount.
type Money struct {
	amount decimal.Decimal
}

// NewMoney wraps a decimal dollar amount.
func NewMoney(d decimal.Decimal) Money {
	return Money{amount: d}
}

// MoneyFromFloat converts a float64 dollar amount. The value is kept
// exactly as the shortest decimal that represents the float.
func MoneyFromFloat(f float64) Money {
	return Money{amount: decimal.NewFromFloat(f)}
}

// MoneyFromInt returns a whole-dollar amount.
func MoneyFromInt(dollars int64) Money {
	return Money{amount: decimal.NewFromInt(dollars)}
}

// MoneyFromCents returns the amount for the given number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{amount: decimal.New(cents, -2)}
}

// MaxAmount is the largest absolute amount ParseMoney accepts: one
// quadrillion dollars.
var MaxAmount = MoneyFromInt(1_000_000_000_000_000)

// ParseMoney parses a plain dollar amount such as "12.50". It rejects
// exponent notation, values with more than 2 decimal places and values
// whose magnitude exceeds MaxAmount.
func ParseMoney(s string) (Money, error) {
	if strings.ContainsAny(s, "eE") {
		return Money{}, &ValidationError{Message: "amount must be a plain decimal number"}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, &ValidationError{Message: "amount must be a decimal number"}
	}
	if !d.Equal(d.Round(2)) {
		return Money{}, &ValidationError{Message: "amount must have at most 2 decimal places"}
	}
	if d.Abs().GreaterThan(MaxAmount.amount) {
		return Money{}, &ValidationError{Message: "amount must not exceed " + MaxAmount.String()}
	}
	return Money{amount: d}, nil
}

func (m Money) Decimal() decimal.Decimal        { return m.amount }
func (m Money) Add(n Money) Money               { return Money{amount: m.amount.Add(n.amount)} }
func (m Money) Sub(n Money) Money               { return Money{amount: m.amount.Sub(n.amount)} }
func (m Money) Mul(quantity int64) Money        { return Money{amount: m.amount.Mul(decimal.NewFromInt(quantity))} }
func (m Money) Cmp(n Money) int                 { return m.amount.Cmp(n.amount) }
func (m Money) Equal(n Money) bool              { return m.amount.Equal(n.amount) }
func (m Money) LessThan(n Money) bool           { return m.amount.LessThan(n.amount) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.amount.GreaterThanOrEqual(n.amount) }
func (m Money) IsNegative() bool                { return m.amount.IsNegative() }
func (m Money) IsZero() bool                    { return m.amount.IsZero() }

// Round rounds to cents, half away from zero.
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(2)}
}

// Float64 is for JSON payloads only; arithmetic stays in decimal.
func (m Money) Float64() float64 {
	return m.amount.InexactFloat64()
}

// String formats the amount with the currency symbol, e.g. "$1,234.56".
func (m Money) String() string {
	// money.New is the only way to get a never nil currency.
	cur := money.New(0, Currency).Currency()
	units := m.amount.Round(int32(cur.Fraction)).Shift(int32(cur.Fraction))
	if units.Abs().LessThanOrEqual(decimal.NewFromInt(math.MaxInt64)) {
		return cur.Formatter().Format(units.IntPart())
	}
	return formatLarge(m.amount, cur.Formatter())
}

// formatLarge renders amounts whose minor units do not fit in an int64,
// using the same layout as the go-money formatter.
func formatLarge(d decimal.Decimal, f *money.Formatter) string {
	digits := d.Abs().StringFixed(int32(f.Fraction))
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.Thousand)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(f.Decimal)
		b.WriteString(frac)
	}

	out := strings.Replace(f.Template, "1", b.String(), 1)
	out = strings.Replace(out, "$", f.Grapheme, 1)
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
