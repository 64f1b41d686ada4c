package mahfaza

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestWallet_DepositWithdraw(t *testing.T) {
	w, err := NewWallet(WalletInfo{Name: "growth", Strategy: StrategyLongTerm, Initial: M(1000)})
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Deposit(M(500)); err != nil {
		t.Fatal(err)
	}
	if err := w.Withdraw(M(200)); err != nil {
		t.Fatal(err)
	}
	if !w.BuyingPower.Equal(M(1300)) {
		t.Errorf("BuyingPower = %s, want 1300", w.BuyingPower.Decimal())
	}
	if err := w.Withdraw(M(5000)); err == nil {
		t.Error("overdraw accepted")
	}
	if err := w.Deposit(M(-1)); err == nil {
		t.Error("negative deposit accepted")
	}
}

func TestNewWallet_StrategyTag(t *testing.T) {
	w, err := NewWallet(WalletInfo{Name: "core", Initial: M(0)})
	if err != nil {
		t.Fatal(err)
	}
	if w.Strategy != StrategyBalanced {
		t.Errorf("default Strategy = %q, want %q", w.Strategy, StrategyBalanced)
	}
	for _, tag := range []string{StrategySpeculative, StrategyBalanced, StrategyLongTerm} {
		if _, err := NewWallet(WalletInfo{Name: "core", Strategy: tag}); err != nil {
			t.Errorf("NewWallet(strategy %q): %v", tag, err)
		}
	}
	if _, err := NewWallet(WalletInfo{Name: "core", Strategy: "momentum"}); err == nil {
		t.Error("free-form strategy accepted")
	}
}

func TestWallet_JSONRoundTrip(t *testing.T) {
	w, err := NewWallet(WalletInfo{
		Name:          "income",
		Broker:        "Alinma Invest",
		Strategy:      StrategyLongTerm,
		AccountNumber: "SA-100200",
		Description:   "dividend collectors",
		Initial:       M(2500),
	})
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(w)
	if err != nil {
		t.Fatal(err)
	}
	keys := []string{"wallet_id", "name", "broker", "buying_power", "description", "strategy", "account_number", "created_at"}
	last := -1
	for _, k := range keys {
		at := strings.Index(string(data), `"`+k+`"`)
		if at < 0 {
			t.Fatalf("key %q missing from %s", k, data)
		}
		if at < last {
			t.Errorf("key %q out of order in %s", k, data)
		}
		last = at
	}

	var got Wallet
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Broker != w.Broker || got.AccountNumber != w.AccountNumber || got.Description != w.Description {
		t.Errorf("round trip dropped fields: %+v", got)
	}
	if got.Strategy != StrategyLongTerm {
		t.Errorf("Strategy = %q, want %q", got.Strategy, StrategyLongTerm)
	}
	if !got.BuyingPower.Equal(M(2500)) {
		t.Errorf("BuyingPower = %s, want 2500", got.BuyingPower.Decimal())
	}
}

// A buy may push buying power negative; the wallet records what the
// broker executed, it does not block it.
func TestWallet_ApplyAndRevertOrder(t *testing.T) {
	w, err := NewWallet(WalletInfo{Name: "growth", Initial: M(1000)})
	if err != nil {
		t.Fatal(err)
	}
	buy := testOrder(Buy, 100, 20, "2024-01-02")
	w.ApplyOrder(buy)
	if !w.BuyingPower.Equal(M(-1000)) {
		t.Errorf("BuyingPower after buy = %s, want -1000", w.BuyingPower.Decimal())
	}
	w.RevertOrder(buy)
	if !w.BuyingPower.Equal(M(1000)) {
		t.Errorf("BuyingPower after revert = %s, want 1000", w.BuyingPower.Decimal())
	}

	sell := testOrder(Sell, 10, 50, "2024-02-02")
	w.ApplyOrder(sell)
	if !w.BuyingPower.Equal(M(1500)) {
		t.Errorf("BuyingPower after sell = %s, want 1500", w.BuyingPower.Decimal())
	}
}

func TestWalletBook_CRUD(t *testing.T) {
	b := NewWalletBook()
	if _, err := b.Create(WalletInfo{}); err == nil {
		t.Error("unnamed wallet accepted")
	}
	if _, err := b.Create(WalletInfo{Name: "growth", Initial: M(-1)}); err == nil {
		t.Error("negative initial balance accepted")
	}

	w1, err := b.Create(WalletInfo{Name: "growth", Strategy: StrategyLongTerm, Initial: M(1000)})
	if err != nil {
		t.Fatal(err)
	}
	w2, err := b.Create(WalletInfo{Name: "spec", Strategy: StrategySpeculative, Initial: M(500)})
	if err != nil {
		t.Fatal(err)
	}
	if w1.ID == w2.ID {
		t.Fatal("wallet ids collide")
	}
	if !b.TotalBuyingPower().Equal(M(1500)) {
		t.Errorf("TotalBuyingPower = %s, want 1500", b.TotalBuyingPower().Decimal())
	}

	if err := b.Rename(w1.ID, "income"); err != nil {
		t.Fatal(err)
	}
	got, err := b.Wallet(w1.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Name != "income" {
		t.Errorf("Name = %q, want income", got.Name)
	}

	if err := b.Remove(w2.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Wallet(w2.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("removed wallet lookup error = %v, want ErrNotFound", err)
	}
	if err := b.Remove(w2.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("double remove error = %v, want ErrNotFound", err)
	}
}

func TestWalletBook_ByStrategy(t *testing.T) {
	b := NewWalletBook()
	if _, err := b.Create(WalletInfo{Name: "slow", Strategy: StrategyLongTerm}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Create(WalletInfo{Name: "fast", Strategy: StrategySpeculative}); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Create(WalletInfo{Name: "steady", Strategy: StrategyLongTerm}); err != nil {
		t.Fatal(err)
	}

	got := b.ByStrategy("long_term")
	if len(got) != 2 || got[0].Name != "slow" || got[1].Name != "steady" {
		t.Errorf("ByStrategy(long_term) = %v", got)
	}
	if len(b.ByStrategy("unknown")) != 0 {
		t.Error("unknown strategy matched wallets")
	}
}
