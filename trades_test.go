package mahfaza

import (
	"errors"
	"testing"
)

func TestMatchFIFO_SingleRoundTrip(t *testing.T) {
	orders := []Order{
		testOrder(Buy, 100, 10, "2024-01-02"),
		testOrder(Sell, 40, 15, "2024-03-02"),
	}
	matches, open, err := MatchFIFO(orders, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	if !m.CostOfSold.Equal(M(400)) {
		t.Errorf("CostOfSold = %s, want 400", m.CostOfSold.Decimal())
	}
	if !m.Proceeds.Equal(M(600)) {
		t.Errorf("Proceeds = %s, want 600", m.Proceeds.Decimal())
	}
	if !m.PriceProfit().Equal(M(200)) {
		t.Errorf("PriceProfit = %s, want 200", m.PriceProfit().Decimal())
	}
	if len(open) != 1 || !open[0].Shares.Equal(Q(60)) || !open[0].Cost.Equal(M(600)) {
		t.Errorf("open = %+v, want one lot of 60 shares costing 600", open)
	}
}

// Orders arrive out of date order; the matcher replays chronologically.
func TestMatchFIFO_SortsByDate(t *testing.T) {
	orders := []Order{
		testOrder(Sell, 50, 20, "2024-06-01"),
		testOrder(Buy, 50, 10, "2024-01-02"),
	}
	matches, _, err := MatchFIFO(orders, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || !matches[0].PriceProfit().Equal(M(500)) {
		t.Fatalf("matches = %+v, want one with profit 500", matches)
	}
}

// The fee-inclusive worked scenario at the matcher level: buy 100 @ 30
// (cost 3005.35), 1:2 bonus, sell 50 @ 35. The bonus grows the open lot
// to 150 shares at the same cost, so the sale consumes a third of it.
func TestMatchFIFO_BonusAdjustsLots(t *testing.T) {
	fees := DefaultFeeSchedule()
	orders := []Order{
		NewOrder(Buy, Q(100), M(30), MustParseDate("2024-01-02"), "", fees),
		NewOrder(Sell, Q(50), M(35), MustParseDate("2024-09-01"), "", fees),
	}
	actions := []CorporateAction{
		{Kind: BonusIssue, Date: MustParseDate("2024-06-01"), RatioNum: 1, RatioDen: 2},
	}
	matches, open, err := MatchFIFO(orders, actions)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	// A third of 3005.35.
	if got := m.CostOfSold.Round2().Decimal().String(); got != "1001.78" {
		t.Errorf("CostOfSold = %s, want 1001.78", got)
	}
	// 1750 notional minus 2.71 commission and 0.41 tax.
	if !m.Proceeds.Equal(M(1746.88)) {
		t.Errorf("Proceeds = %s, want 1746.88", m.Proceeds.Decimal())
	}
	if got := m.PriceProfit().Round2().Decimal().String(); got != "745.1" {
		t.Errorf("PriceProfit = %s, want 745.1", got)
	}
	if len(open) != 1 || !open[0].Shares.Equal(Q(100)) {
		t.Fatalf("open = %+v, want one lot of 100 shares", open)
	}
	if got := open[0].Cost.Round2().Decimal().String(); got != "2003.57" {
		t.Errorf("open cost = %s, want 2003.57", got)
	}
}

// A sell spanning the oldest lot and part of the second one reports
// both acquisition dates, and the proportional slices sum to the full
// cost of goods sold.
func TestMatchFIFO_TwoLotSellReportsBothDates(t *testing.T) {
	orders := []Order{
		testOrder(Buy, 100, 10, "2024-01-02"),
		testOrder(Buy, 100, 20, "2024-02-02"),
		testOrder(Sell, 150, 25, "2024-06-01"),
	}
	matches, open, err := MatchFIFO(orders, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	m := matches[0]
	want := []Date{MustParseDate("2024-01-02"), MustParseDate("2024-02-02")}
	if len(m.LotDates) != 2 || m.LotDates[0] != want[0] || m.LotDates[1] != want[1] {
		t.Fatalf("LotDates = %v, want %v", m.LotDates, want)
	}
	if m.Acquired != want[0] {
		t.Errorf("Acquired = %s, want %s", m.Acquired, want[0])
	}
	// All of the first lot (1000) plus half of the second (1000).
	if !m.CostOfSold.Equal(M(2000)) {
		t.Errorf("CostOfSold = %s, want 2000", m.CostOfSold.Decimal())
	}
	if len(open) != 1 || !open[0].Shares.Equal(Q(50)) || !open[0].Cost.Equal(M(1000)) {
		t.Errorf("open = %+v, want one lot of 50 shares costing 1000", open)
	}
}

// A sell beyond the wallet's lots surfaces the underflow and keeps the
// matches made before it.
func TestMatchFIFO_Underflow(t *testing.T) {
	orders := []Order{
		testOrder(Buy, 10, 10, "2024-01-02"),
		testOrder(Sell, 10, 12, "2024-02-02"),
		testOrder(Sell, 5, 12, "2024-03-02"),
	}
	matches, _, err := MatchFIFO(orders, nil)
	if !errors.Is(err, ErrFIFOUnderflow) {
		t.Fatalf("error = %v, want ErrFIFOUnderflow", err)
	}
	if len(matches) != 1 {
		t.Errorf("got %d matches before underflow, want 1", len(matches))
	}
}
