package mahfaza

import (
	"errors"
	"testing"
)

func TestPortfolio_AddOrderAutoCreates(t *testing.T) {
	pf := NewPortfolio()
	if err := pf.AddOrder("2222", "Saudi Aramco", testOrder(Buy, 10, 30, "2024-01-02")); err != nil {
		t.Fatal(err)
	}
	p, err := pf.Position("2222")
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Saudi Aramco" {
		t.Errorf("Name = %q", p.Name)
	}
}

func TestPortfolio_SellUnknownSymbol(t *testing.T) {
	pf := NewPortfolio()
	err := pf.AddOrder("2222", "Saudi Aramco", testOrder(Sell, 10, 30, "2024-01-02"))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if len(pf.Symbols()) != 0 {
		t.Error("rejected sell created a position")
	}
}

// A rejected first buy must not leave an empty position behind either.
func TestPortfolio_FailedFirstOrderRollsBack(t *testing.T) {
	pf := NewPortfolio()
	bad := testOrder(Buy, -5, 30, "2024-01-02")
	if err := pf.AddOrder("2222", "Saudi Aramco", bad); err == nil {
		t.Fatal("negative share count accepted")
	}
	if len(pf.Symbols()) != 0 {
		t.Error("rejected order created a position")
	}
}

func TestPortfolio_SymbolsSorted(t *testing.T) {
	pf := NewPortfolio()
	for _, sym := range []string{"7010", "1120", "2222"} {
		if err := pf.AddOrder(sym, "", testOrder(Buy, 1, 10, "2024-01-02")); err != nil {
			t.Fatal(err)
		}
	}
	got := pf.Symbols()
	want := []string{"1120", "2222", "7010"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Symbols() = %v, want %v", got, want)
		}
	}
}
