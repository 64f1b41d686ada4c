package mahfaza

import (
	"errors"
	"testing"
)

// testOrder builds a fee-free order so expectations stay exact.
func testOrder(side Side, shares, price float64, date string) Order {
	return NewOrderWithFees(side, Q(shares), M(price), MustParseDate(date), "", M(0), M(0))
}

func testWalletOrder(side Side, shares, price float64, date, wallet string) Order {
	return NewOrderWithFees(side, Q(shares), M(price), MustParseDate(date), wallet, M(0), M(0))
}

func TestPosition_BuyOnlyWeightedMean(t *testing.T) {
	p := NewPosition("2222", "Saudi Aramco")
	if err := p.AddOrder(testOrder(Buy, 10, 10, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	if err := p.AddOrder(testOrder(Buy, 10, 20, "2024-02-02")); err != nil {
		t.Fatal(err)
	}
	if got := p.Shares(); !got.Equal(Q(20)) {
		t.Errorf("Shares() = %s, want 20", got)
	}
	if got := p.TotalCost(); !got.Equal(M(300)) {
		t.Errorf("TotalCost() = %s, want 300", got.Decimal())
	}
	if got := p.AverageCost(); !got.Equal(M(15)) {
		t.Errorf("AverageCost() = %s, want 15", got.Decimal())
	}
}

// A sell must not move the average cost of what remains.
func TestPosition_SellKeepsAverageCost(t *testing.T) {
	p := NewPosition("1120", "Al Rajhi Bank")
	if err := p.AddOrder(testOrder(Buy, 30, 10, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	before := p.AverageCost()
	if err := p.AddOrder(testOrder(Sell, 10, 50, "2024-03-02")); err != nil {
		t.Fatal(err)
	}
	if got := p.Shares(); !got.Equal(Q(20)) {
		t.Errorf("Shares() = %s, want 20", got)
	}
	if got := p.AverageCost(); !got.Equal(before) {
		t.Errorf("AverageCost() moved from %s to %s on a sell", before.Decimal(), got.Decimal())
	}
	if got := p.TotalCost(); !got.Equal(M(200)) {
		t.Errorf("TotalCost() = %s, want 200", got.Decimal())
	}
}

// A 1:2 bonus on 100 shares costing 1000 leaves 150 shares and the
// same 1000 invested, so the average drops to 6.6667.
func TestPosition_BonusScalesSharesNotCost(t *testing.T) {
	p := NewPosition("2010", "SABIC")
	if err := p.AddOrder(testOrder(Buy, 100, 10, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	a, err := NewCorporateAction(BonusIssue, MustParseDate("2024-06-01"), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	p.AddAction(a)

	if got := p.Shares(); !got.Equal(Q(150)) {
		t.Errorf("Shares() = %s, want 150", got)
	}
	if got := p.TotalCost(); !got.Equal(M(1000)) {
		t.Errorf("TotalCost() = %s, want 1000", got.Decimal())
	}
	if got := p.AverageCost().Decimal().Round(4).String(); got != "6.6667" {
		t.Errorf("AverageCost() = %s, want 6.6667", got)
	}
	if got := p.BonusShares(); !got.Equal(Q(50)) {
		t.Errorf("BonusShares() = %s, want 50", got)
	}
}

// The full fee-inclusive scenario: buy 100 @ 30.00 under the default
// schedule (commission 4.65, tax 0.70), then a 1:2 bonus, then sell 50.
func TestPosition_EndToEnd(t *testing.T) {
	p := NewPosition("7010", "stc")
	fees := DefaultFeeSchedule()

	buy := NewOrder(Buy, Q(100), M(30), MustParseDate("2024-01-02"), "", fees)
	if got := buy.TotalCost(); !got.Equal(M(3005.35)) {
		t.Fatalf("buy TotalCost() = %s, want 3005.35", got.Decimal())
	}
	if err := p.AddOrder(buy); err != nil {
		t.Fatal(err)
	}
	if got := p.AverageCost().Decimal().Round(4).String(); got != "30.0535" {
		t.Errorf("AverageCost() = %s, want 30.0535", got)
	}

	a, err := NewCorporateAction(BonusIssue, MustParseDate("2024-06-01"), 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	p.AddAction(a)
	if got := p.Shares(); !got.Equal(Q(150)) {
		t.Errorf("Shares() = %s, want 150", got)
	}
	if got := p.AverageCost().Decimal().Round(4).String(); got != "20.0357" {
		t.Errorf("AverageCost() after bonus = %s, want 20.0357", got)
	}

	sell := NewOrder(Sell, Q(50), M(35), MustParseDate("2024-09-01"), "", fees)
	if err := p.AddOrder(sell); err != nil {
		t.Fatal(err)
	}
	if got := p.Shares(); !got.Equal(Q(100)) {
		t.Errorf("Shares() after sell = %s, want 100", got)
	}
	// The sell leaves the average cost of the remainder unchanged.
	if got := p.AverageCost().Decimal().Round(4).String(); got != "20.0357" {
		t.Errorf("AverageCost() after sell = %s, want 20.0357", got)
	}
}

func TestPosition_OversellRejected(t *testing.T) {
	p := NewPosition("2222", "Saudi Aramco")
	if err := p.AddOrder(testOrder(Buy, 10, 30, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	err := p.AddOrder(testOrder(Sell, 11, 30, "2024-02-02"))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("oversell error = %v, want ErrInsufficientShares", err)
	}
	if len(p.Orders) != 1 {
		t.Errorf("order history mutated by rejected sell: %d orders", len(p.Orders))
	}
	if got := p.Shares(); !got.Equal(Q(10)) {
		t.Errorf("Shares() = %s, want 10", got)
	}
}

// A sell dated before the shares existed is an oversell too: the
// guard replays the whole history, not just the end state.
func TestPosition_BackdatedOversellRejected(t *testing.T) {
	p := NewPosition("2222", "Saudi Aramco")
	if err := p.AddOrder(testOrder(Buy, 10, 30, "2024-03-01")); err != nil {
		t.Fatal(err)
	}
	err := p.AddOrder(testOrder(Sell, 5, 30, "2024-01-15"))
	if !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("backdated oversell error = %v, want ErrInsufficientShares", err)
	}
}

func TestPosition_RemoveOrder(t *testing.T) {
	p := NewPosition("2222", "Saudi Aramco")
	buy := testOrder(Buy, 10, 30, "2024-01-02")
	if err := p.AddOrder(buy); err != nil {
		t.Fatal(err)
	}
	if err := p.AddOrder(testOrder(Sell, 5, 32, "2024-02-02")); err != nil {
		t.Fatal(err)
	}

	// Removing the buy would leave the sell unbacked.
	if err := p.RemoveOrder(buy.ID); !errors.Is(err, ErrInsufficientShares) {
		t.Errorf("RemoveOrder(funding buy) error = %v, want ErrInsufficientShares", err)
	}
	if len(p.Orders) != 2 {
		t.Errorf("order history mutated by rejected removal: %d orders", len(p.Orders))
	}
	if err := p.RemoveOrder("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveOrder(unknown) error = %v, want ErrNotFound", err)
	}
}

// Removing a bonus that grew the shares a later sell consumed would
// leave the history unreplayable, so the removal must be rejected and
// the derived values must stay intact.
func TestPosition_RemoveActionKeepsHistoryReplayable(t *testing.T) {
	p := NewPosition("2222", "Saudi Aramco")
	if err := p.AddOrder(testOrder(Buy, 100, 10, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	a, err := NewCorporateAction(BonusIssue, MustParseDate("2024-03-01"), 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	p.AddAction(a)
	// Valid against the doubled holding, unbacked without it.
	if err := p.AddOrder(testOrder(Sell, 150, 12, "2024-06-01")); err != nil {
		t.Fatal(err)
	}

	if err := p.RemoveAction(a.ID); !errors.Is(err, ErrInsufficientShares) {
		t.Fatalf("RemoveAction error = %v, want ErrInsufficientShares", err)
	}
	if len(p.Actions) != 1 {
		t.Errorf("action history mutated by rejected removal: %d actions", len(p.Actions))
	}
	if got := p.Shares(); !got.Equal(Q(50)) {
		t.Errorf("Shares() = %s, want 50", got)
	}

	if err := p.RemoveAction("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("RemoveAction(unknown) error = %v, want ErrNotFound", err)
	}
}

func TestPosition_RealizedSales(t *testing.T) {
	p := NewPosition("1180", "Saudi National Bank")
	if err := p.AddOrder(testOrder(Buy, 100, 10, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	if err := p.AddOrder(testOrder(Sell, 40, 15, "2024-03-02")); err != nil {
		t.Fatal(err)
	}

	sales := p.RealizedSales()
	if len(sales) != 1 {
		t.Fatalf("got %d sales, want 1", len(sales))
	}
	s := sales[0]
	if !s.Proceeds.Equal(M(600)) {
		t.Errorf("Proceeds = %s, want 600", s.Proceeds.Decimal())
	}
	if !s.Basis.Equal(M(400)) {
		t.Errorf("Basis = %s, want 400", s.Basis.Decimal())
	}
	if !s.Profit.Equal(M(200)) {
		t.Errorf("Profit = %s, want 200", s.Profit.Decimal())
	}
	if !p.RealizedProfit().Equal(M(200)) {
		t.Errorf("RealizedProfit = %s, want 200", p.RealizedProfit().Decimal())
	}
}

func TestPosition_DominantWalletID(t *testing.T) {
	p := NewPosition("2222", "Saudi Aramco")
	if err := p.AddOrder(testWalletOrder(Buy, 10, 30, "2024-01-02", "walletA")); err != nil {
		t.Fatal(err)
	}
	if err := p.AddOrder(testWalletOrder(Buy, 30, 30, "2024-01-03", "walletB")); err != nil {
		t.Fatal(err)
	}
	if err := p.AddOrder(testWalletOrder(Sell, 25, 30, "2024-02-02", "walletB")); err != nil {
		t.Fatal(err)
	}
	// walletA nets 10, walletB nets 5.
	if got := p.DominantWalletID(); got != "walletA" {
		t.Errorf("DominantWalletID() = %q, want walletA", got)
	}
}
