package mahfaza

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Default trading rates: Tadawul brokers charge a commission of 0.155%
// of the traded value, and VAT of 15% applies to the commission.
var (
	DefaultCommissionRate = decimal.NewFromFloat(0.00155)
	DefaultTaxRate        = decimal.NewFromFloat(0.15)
)

// FeeSchedule maps a trade notional to its commission and tax. Rates
// are decimal fractions, not percentages. The zero value charges
// nothing; use DefaultFeeSchedule for the standard Tadawul rates.
type FeeSchedule struct {
	CommissionRate decimal.Decimal
	TaxRate        decimal.Decimal
}

// DefaultFeeSchedule returns the standard Tadawul fee schedule.
func DefaultFeeSchedule() FeeSchedule {
	return FeeSchedule{CommissionRate: DefaultCommissionRate, TaxRate: DefaultTaxRate}
}

// Fees is the commission and tax charged on a single order.
type Fees struct {
	Commission Money
	Tax        Money
}

// Total returns commission plus tax.
func (f Fees) Total() Money { return f.Commission.Add(f.Tax) }

// Fees computes the commission and tax for a trade notional. The
// commission is notional times the commission rate, and the tax is
// levied on the commission, not on the notional. Each component is
// rounded to two decimals, the resolution brokers bill at.
//
// Pure: a negative notional yields negative fees, and rejecting it is
// the caller's responsibility.
func (s FeeSchedule) Fees(notional Money) Fees {
	commission := notional.value.Mul(s.CommissionRate)
	tax := commission.Mul(s.TaxRate) // on the exact commission, before rounding
	return Fees{
		Commission: Money{value: commission}.Round2(),
		Tax:        Money{value: tax}.Round2(),
	}
}

// Validate rejects rates outside [0, 1).
func (s FeeSchedule) Validate() error {
	one := decimal.NewFromInt(1)
	if s.CommissionRate.IsNegative() || s.CommissionRate.GreaterThanOrEqual(one) {
		return invalidf("commission_rate", "must be a fraction in [0, 1), got %s", s.CommissionRate)
	}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThanOrEqual(one) {
		return invalidf("tax_rate", "must be a fraction in [0, 1), got %s", s.TaxRate)
	}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (s FeeSchedule) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("commission_rate", s.CommissionRate)
	w.Append("tax_rate", s.TaxRate)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (s *FeeSchedule) UnmarshalJSON(data []byte) error {
	var temp struct {
		CommissionRate decimal.Decimal `json:"commission_rate"`
		TaxRate        decimal.Decimal `json:"tax_rate"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	s.CommissionRate = temp.CommissionRate
	s.TaxRate = temp.TaxRate
	return nil
}
