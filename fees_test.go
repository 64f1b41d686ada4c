package mahfaza

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFeeSchedule_Fees(t *testing.T) {
	tests := []struct {
		name           string
		notional       float64
		wantCommission string
		wantTax        string
	}{
		// 3000 × 0.00155 = 4.65, tax 4.65 × 0.15 = 0.6975 → 0.70
		{"worked example", 3000, "4.65", "0.7"},
		{"sell leg", 1750, "2.71", "0.41"},
		{"small order", 100, "0.16", "0.02"},
		{"zero notional", 0, "0", "0"},
	}

	s := DefaultFeeSchedule()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := s.Fees(M(tt.notional))
			if got := f.Commission.Decimal().String(); got != tt.wantCommission {
				t.Errorf("commission = %s, want %s", got, tt.wantCommission)
			}
			if got := f.Tax.Decimal().String(); got != tt.wantTax {
				t.Errorf("tax = %s, want %s", got, tt.wantTax)
			}
		})
	}
}

// The tax is levied on the exact commission, not the rounded one:
// 2900 × 0.00155 = 4.495 → commission 4.5 (rounded) but tax is
// 4.495 × 0.15 = 0.67425 → 0.67, not 4.5 × 0.15 = 0.675 → 0.68.
func TestFeeSchedule_TaxOnExactCommission(t *testing.T) {
	f := DefaultFeeSchedule().Fees(M(2900))
	if got := f.Commission.Decimal().String(); got != "4.5" {
		t.Errorf("commission = %s, want 4.5", got)
	}
	if got := f.Tax.Decimal().String(); got != "0.67" {
		t.Errorf("tax = %s, want 0.67", got)
	}
}

func TestFees_Total(t *testing.T) {
	f := Fees{Commission: M(4.65), Tax: M(0.70)}
	if !f.Total().Equal(M(5.35)) {
		t.Errorf("Total() = %s, want 5.35", f.Total().Decimal())
	}
}

func TestFeeSchedule_Validate(t *testing.T) {
	tests := []struct {
		name       string
		commission float64
		tax        float64
		wantErr    bool
	}{
		{"defaults", 0.00155, 0.15, false},
		{"free trading", 0, 0, false},
		{"negative commission", -0.001, 0.15, true},
		{"tax at one", 0.00155, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := FeeSchedule{
				CommissionRate: decimal.NewFromFloat(tt.commission),
				TaxRate:        decimal.NewFromFloat(tt.tax),
			}
			if err := s.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestZeroFeeSchedule(t *testing.T) {
	var s FeeSchedule
	f := s.Fees(M(10000))
	if !f.Commission.IsZero() || !f.Tax.IsZero() {
		t.Errorf("zero schedule charged fees: %s + %s", f.Commission.Decimal(), f.Tax.Decimal())
	}
}
