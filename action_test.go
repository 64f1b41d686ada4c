package mahfaza

import "testing"

func TestCorporateAction_Multiplier(t *testing.T) {
	tests := []struct {
		name string
		kind ActionKind
		num  int64
		den  int64
		want string
	}{
		{"1:2 bonus grows by half", BonusIssue, 1, 2, "1.5"},
		{"1:1 bonus doubles", BonusIssue, 1, 1, "2"},
		{"2:1 split doubles", StockSplit, 2, 1, "2"},
		{"3:2 split", StockSplit, 3, 2, "1.5"},
		{"5:1 reverse split", ReverseSplit, 5, 1, "0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewCorporateAction(tt.kind, NewDate(2024, 6, 1), tt.num, tt.den)
			if err != nil {
				t.Fatalf("NewCorporateAction: %v", err)
			}
			if got := a.Multiplier().String(); got != tt.want {
				t.Errorf("Multiplier() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewCorporateAction_Validation(t *testing.T) {
	if _, err := NewCorporateAction(StockSplit, NewDate(2024, 6, 1), 0, 2); err == nil {
		t.Error("zero numerator accepted")
	}
	if _, err := NewCorporateAction(StockSplit, NewDate(2024, 6, 1), 2, -1); err == nil {
		t.Error("negative denominator accepted")
	}
	if _, err := NewCorporateAction(StockSplit, Date{}, 2, 1); err == nil {
		t.Error("missing date accepted")
	}
	if _, err := NewCorporateAction("merger", NewDate(2024, 6, 1), 1, 1); err == nil {
		t.Error("unknown kind accepted")
	}
}

func TestMultiplierAsOf(t *testing.T) {
	actions := []CorporateAction{
		{Kind: BonusIssue, Date: NewDate(2024, 3, 1), RatioNum: 1, RatioDen: 2},  // ×1.5
		{Kind: StockSplit, Date: NewDate(2024, 6, 1), RatioNum: 2, RatioDen: 1},  // ×2
		{Kind: ReverseSplit, Date: NewDate(2024, 9, 1), RatioNum: 2, RatioDen: 1}, // ×0.5
	}

	tests := []struct {
		name   string
		cutoff Date
		want   string
	}{
		{"before any action", NewDate(2024, 1, 1), "1"},
		{"on the first action date", NewDate(2024, 3, 1), "1.5"},
		{"between second and third", NewDate(2024, 7, 15), "3"},
		{"after all actions", NewDate(2025, 1, 1), "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MultiplierAsOf(actions, tt.cutoff).String(); got != tt.want {
				t.Errorf("MultiplierAsOf(%s) = %s, want %s", tt.cutoff, got, tt.want)
			}
		})
	}
}
