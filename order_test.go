package mahfaza

import (
	"strings"
	"testing"
)

func TestParseSide(t *testing.T) {
	tests := []struct {
		in   string
		want Side
		ok   bool
	}{
		{"buy", Buy, true},
		{"BUY", Buy, true},
		{" sell ", Sell, true},
		{"short", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseSide(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseSide(%q) = %v, %v, want %v", tt.in, got, err, tt.want)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseSide(%q) accepted", tt.in)
		}
	}
}

func TestNewOrder_FeesFromSchedule(t *testing.T) {
	o := NewOrder(Buy, Q(100), M(30), MustParseDate("2024-01-02"), "w1", DefaultFeeSchedule())
	if got := o.Commission.Decimal().String(); got != "4.65" {
		t.Errorf("Commission = %s, want 4.65", got)
	}
	if got := o.Tax.Decimal().String(); got != "0.7" {
		t.Errorf("Tax = %s, want 0.7", got)
	}
	if len(o.ID) != 8 {
		t.Errorf("ID = %q, want an 8 character id", o.ID)
	}
	if !o.TotalCost().Equal(M(3005.35)) {
		t.Errorf("TotalCost = %s, want 3005.35", o.TotalCost().Decimal())
	}
}

// A buy costs notional plus fees; a sell nets notional minus fees.
func TestOrder_TotalCostBySide(t *testing.T) {
	fees := DefaultFeeSchedule()
	buy := NewOrder(Buy, Q(50), M(35), MustParseDate("2024-01-02"), "", fees)
	sell := NewOrder(Sell, Q(50), M(35), MustParseDate("2024-01-02"), "", fees)
	if !buy.TotalCost().Equal(M(1753.12)) {
		t.Errorf("buy TotalCost = %s, want 1753.12", buy.TotalCost().Decimal())
	}
	if !sell.TotalCost().Equal(M(1746.88)) {
		t.Errorf("sell TotalCost = %s, want 1746.88", sell.TotalCost().Decimal())
	}
}

func TestOrder_JSONWalletTag(t *testing.T) {
	tagged := NewOrderWithFees(Buy, Q(1), M(10), MustParseDate("2024-01-02"), "w1", M(0), M(0))
	data, err := tagged.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"wallet_id":"w1"`) {
		t.Errorf("tagged order JSON = %s", data)
	}

	// The untagged order keeps the key, with an explicit null.
	untagged := NewOrderWithFees(Buy, Q(1), M(10), MustParseDate("2024-01-02"), "", M(0), M(0))
	data, err = untagged.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"wallet_id":null`) {
		t.Errorf("untagged order JSON = %s", data)
	}

	var back Order
	if err := back.UnmarshalJSON(data); err != nil {
		t.Fatal(err)
	}
	if back.WalletID != "" || !back.Shares.Equal(Q(1)) {
		t.Errorf("round trip = %+v", back)
	}
}
