package mahfaza

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the currency every monetary amount in the ledger is
// denominated in. The ledger is single-currency: Tadawul trades settle
// in Saudi riyal.
const Currency = "SAR"

// Money represents a monetary amount in the ledger currency.
//
// Amounts are carried exactly (decimal arithmetic) and rounded to two
// decimals only at reported boundaries, never at intermediate steps.
type Money struct {
	value decimal.Decimal
}

// M creates a Money from any numeric value.
func M[T float32 | float64 | int | int32 | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool           { return m.value.LessThan(n.value) }
func (m Money) LessThanOrEqual(n Money) bool    { return m.value.LessThanOrEqual(n.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money                      { return Money{value: m.value.Abs()} }

// binary operators.
func (m Money) Add(n Money) Money      { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money      { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money   { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money   { return Money{value: m.value.Div(q.value)} }
func (m Money) DivPrice(n Money) Quantity { return Quantity{value: m.value.Div(n.value)} }

// Percent returns m as a percentage of base (e.g. 12.5 for one eighth),
// or zero when base is zero.
func (m Money) Percent(base Money) decimal.Decimal {
	if base.IsZero() {
		return decimal.Zero
	}
	return m.value.Div(base.value).Mul(decimal.NewFromInt(100))
}

// Round2 rounds the amount to two decimals. Applied at reported
// boundaries only, matching broker statements.
func (m Money) Round2() Money { return Money{value: m.value.Round(2)} }

// Decimal returns the exact underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.value }

// String formats the amount with the ledger currency.
func (m Money) String() string {
	cur := money.GetCurrency(Currency)
	dec := m.value.Shift(int32(cur.Fraction))
	return cur.Formatter().Format(dec.Round(0).IntPart())
}

// SignedString is like String but keeps an explicit '+' on gains and
// renders zero as "-". Used in reports.
func (m Money) SignedString() string {
	if m.value.IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.String()
	}
	return m.String()
}

// MarshalJSON persists the amount with all its digits. Rounding
// happens at reported boundaries, not at persistence: replaying a
// persisted ledger must reproduce derived values exactly.
func (m Money) MarshalJSON() ([]byte, error) {
	return m.value.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
