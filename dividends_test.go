package mahfaza

import "testing"

func TestDividendBook_Received(t *testing.T) {
	b := DefaultDividendBook()

	// Holding 100 Aramco shares since 2024-01-01 collects the four
	// 2024 quarterly distributions of 0.315 each.
	total, payments := b.Received("2222", MustParseDate("2024-01-01"), Q(100))
	if len(payments) != 4 {
		t.Fatalf("got %d payments, want 4", len(payments))
	}
	if !total.Equal(M(126)) {
		t.Errorf("total = %s, want 126", total.Decimal())
	}

	// An event dated before the acquisition does not count.
	total, _ = b.Received("2222", MustParseDate("2024-03-10"), Q(100))
	if !total.Equal(M(126)) {
		t.Errorf("total from exact event date = %s, want 126", total.Decimal())
	}
	total, _ = b.Received("2222", MustParseDate("2024-03-11"), Q(100))
	if !total.Equal(M(94.5)) {
		t.Errorf("total = %s, want 94.5", total.Decimal())
	}
}

func TestDividendBook_ReceivedBetween(t *testing.T) {
	b := DefaultDividendBook()

	// Closed trades cap attribution at the sell date.
	total, payments := b.ReceivedBetween("1120", MustParseDate("2024-01-01"), MustParseDate("2024-06-30"), Q(200))
	if len(payments) != 1 {
		t.Fatalf("got %d payments, want 1", len(payments))
	}
	if !total.Equal(M(300)) {
		t.Errorf("total = %s, want 300", total.Decimal())
	}
}

func TestDividendBook_UnknownSymbol(t *testing.T) {
	b := DefaultDividendBook()
	total, payments := b.Received("9999", MustParseDate("2024-01-01"), Q(100))
	if !total.IsZero() || len(payments) != 0 {
		t.Errorf("unknown symbol yielded %s over %d payments", total.Decimal(), len(payments))
	}
	if _, ok := b.Upcoming("9999"); ok {
		t.Error("unknown symbol projected an upcoming dividend")
	}
}

func TestDividendBook_SymbolNormalization(t *testing.T) {
	b := DefaultDividendBook()
	plain, _ := b.Received("2222", MustParseDate("2024-01-01"), Q(10))
	suffixed, _ := b.Received("2222.SR", MustParseDate("2024-01-01"), Q(10))
	if !plain.Equal(suffixed) {
		t.Errorf("2222 and 2222.SR disagree: %s vs %s", plain.Decimal(), suffixed.Decimal())
	}
}

func TestDividendBook_Upcoming(t *testing.T) {
	tests := []struct {
		symbol       string
		expectedDate Date
		perShare     float64
	}{
		// Quarterly payer: last event 2024-12-08, next 90 days out.
		{"2222", MustParseDate("2025-03-08"), 0.315},
		// Semiannual payer: last event 2024-10-15, next 180 days out.
		{"1120", MustParseDate("2025-04-13"), 1.5},
		// Annual payer: last event 2024-04-07, next 365 days out.
		{"2010", MustParseDate("2025-04-07"), 2.0},
	}
	b := DefaultDividendBook()
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			up, ok := b.Upcoming(tt.symbol)
			if !ok {
				t.Fatal("no projection")
			}
			if up.ExpectedDate != tt.expectedDate {
				t.Errorf("ExpectedDate = %s, want %s", up.ExpectedDate, tt.expectedDate)
			}
			if !up.ExpectedAmt.Equal(M(tt.perShare)) {
				t.Errorf("ExpectedAmt = %s, want %v", up.ExpectedAmt.Decimal(), tt.perShare)
			}
		})
	}
}

func TestDividendBook_RuntimeAdd(t *testing.T) {
	b := NewDividendBook()
	b.Add("4321", DividendEvent{Date: MustParseDate("2024-07-01"), PerShare: M(0.5), Frequency: Quarterly})
	b.Add("4321", DividendEvent{Date: MustParseDate("2024-04-01"), PerShare: M(0.5), Frequency: Quarterly})

	events := b.History("4321")
	if len(events) != 2 || events[0].Date != MustParseDate("2024-04-01") {
		t.Fatalf("history not date-sorted: %+v", events)
	}
	up, ok := b.Upcoming("4321")
	if !ok || up.ExpectedDate != MustParseDate("2024-09-29") {
		t.Errorf("Upcoming = %+v (ok=%v), want 2024-09-29", up, ok)
	}
}
