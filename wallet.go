package mahfaza

import (
	"encoding/json"
	"sort"
	"time"
)

// Wallet strategy tags. The tag drives nothing by itself; it labels
// the wallet for by-strategy listing and reporting.
const (
	StrategySpeculative = "speculative"
	StrategyBalanced    = "balanced"
	StrategyLongTerm    = "long_term"
)

// ParseStrategy validates a strategy tag. The empty string defaults to
// balanced.
func ParseStrategy(s string) (string, error) {
	switch s {
	case "":
		return StrategyBalanced, nil
	case StrategySpeculative, StrategyBalanced, StrategyLongTerm:
		return s, nil
	default:
		return "", invalidf("strategy", "must be %q, %q or %q, got %q",
			StrategySpeculative, StrategyBalanced, StrategyLongTerm, s)
	}
}

// Wallet is a broker account holding a pool of buying power. Orders
// are tagged with the wallet that funded them, which is what makes
// per-wallet trade analytics possible.
type Wallet struct {
	ID            string
	Name          string
	Broker        string
	Strategy      string // speculative, balanced or long_term
	AccountNumber string
	Description   string
	BuyingPower   Money
	CreatedAt     time.Time
}

// WalletInfo carries the caller-provided fields of a new wallet.
type WalletInfo struct {
	Name          string
	Broker        string
	Strategy      string // empty defaults to balanced
	AccountNumber string
	Description   string
	Initial       Money
}

// NewWallet creates a wallet with an initial buying power.
func NewWallet(info WalletInfo) (*Wallet, error) {
	if info.Name == "" {
		return nil, invalidf("name", "is missing")
	}
	strategy, err := ParseStrategy(info.Strategy)
	if err != nil {
		return nil, err
	}
	if info.Initial.IsNegative() {
		return nil, invalidf("buying_power", "must not be negative")
	}
	return &Wallet{
		ID:            newID(),
		Name:          info.Name,
		Broker:        info.Broker,
		Strategy:      strategy,
		AccountNumber: info.AccountNumber,
		Description:   info.Description,
		BuyingPower:   info.Initial,
		CreatedAt:     time.Now(),
	}, nil
}

// Deposit adds cash to the wallet.
func (w *Wallet) Deposit(amount Money) error {
	if !amount.IsPositive() {
		return invalidf("amount", "must be positive")
	}
	w.BuyingPower = w.BuyingPower.Add(amount)
	return nil
}

// Withdraw removes cash from the wallet. Overdrawing is rejected.
func (w *Wallet) Withdraw(amount Money) error {
	if !amount.IsPositive() {
		return invalidf("amount", "must be positive")
	}
	if amount.GreaterThan(w.BuyingPower) {
		return invalidf("amount", "exceeds buying power %s", w.BuyingPower.Decimal())
	}
	w.BuyingPower = w.BuyingPower.Sub(amount)
	return nil
}

// ApplyOrder adjusts buying power for an executed order: a buy spends
// notional plus fees, a sell credits notional minus fees. Buying power
// may go negative on a buy; the wallet records what happened, it does
// not block the broker.
func (w *Wallet) ApplyOrder(o Order) {
	switch o.Side {
	case Buy:
		w.BuyingPower = w.BuyingPower.Sub(o.TotalCost())
	case Sell:
		w.BuyingPower = w.BuyingPower.Add(o.TotalCost())
	}
}

// RevertOrder undoes the buying power effect of a removed order.
func (w *Wallet) RevertOrder(o Order) {
	switch o.Side {
	case Buy:
		w.BuyingPower = w.BuyingPower.Add(o.TotalCost())
	case Sell:
		w.BuyingPower = w.BuyingPower.Sub(o.TotalCost())
	}
}

// MarshalJSON writes the wallet with the persisted ledger key order.
func (w *Wallet) MarshalJSON() ([]byte, error) {
	var j jsonObjectWriter
	j.Append("wallet_id", w.ID)
	j.Append("name", w.Name)
	j.Append("broker", w.Broker)
	j.Append("buying_power", w.BuyingPower)
	j.Append("description", w.Description)
	j.Append("strategy", w.Strategy)
	j.Append("account_number", w.AccountNumber)
	j.Append("created_at", w.CreatedAt.Format(time.RFC3339))
	return j.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (w *Wallet) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID            string `json:"wallet_id"`
		Name          string `json:"name"`
		Broker        string `json:"broker"`
		BuyingPower   Money  `json:"buying_power"`
		Description   string `json:"description"`
		Strategy      string `json:"strategy"`
		AccountNumber string `json:"account_number"`
		CreatedAt     string `json:"created_at"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	w.ID = temp.ID
	w.Name = temp.Name
	w.Broker = temp.Broker
	w.BuyingPower = temp.BuyingPower
	w.Description = temp.Description
	w.Strategy = temp.Strategy
	w.AccountNumber = temp.AccountNumber
	if temp.CreatedAt != "" {
		t, err := time.Parse(time.RFC3339, temp.CreatedAt)
		if err != nil {
			return err
		}
		w.CreatedAt = t
	}
	return nil
}

// WalletBook is the set of wallets keyed by id.
type WalletBook struct {
	wallets map[string]*Wallet
}

// NewWalletBook creates an empty wallet book.
func NewWalletBook() *WalletBook {
	return &WalletBook{wallets: make(map[string]*Wallet)}
}

// Create adds a new wallet and returns it.
func (b *WalletBook) Create(info WalletInfo) (*Wallet, error) {
	w, err := NewWallet(info)
	if err != nil {
		return nil, err
	}
	b.wallets[w.ID] = w
	return w, nil
}

// Wallet returns the wallet with the given id, or ErrNotFound.
func (b *WalletBook) Wallet(id string) (*Wallet, error) {
	w, ok := b.wallets[id]
	if !ok {
		return nil, ErrNotFound
	}
	return w, nil
}

// Remove deletes a wallet. Order tags pointing at it become dangling
// and are simply reported as unknown by the analytics.
func (b *WalletBook) Remove(id string) error {
	if _, ok := b.wallets[id]; !ok {
		return ErrNotFound
	}
	delete(b.wallets, id)
	return nil
}

// Rename changes the display name of a wallet.
func (b *WalletBook) Rename(id, name string) error {
	w, err := b.Wallet(id)
	if err != nil {
		return err
	}
	if name == "" {
		return invalidf("name", "is missing")
	}
	w.Name = name
	return nil
}

// Wallets returns all wallets ordered by creation time, oldest first.
func (b *WalletBook) Wallets() []*Wallet {
	out := make([]*Wallet, 0, len(b.wallets))
	for _, w := range b.wallets {
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// ByStrategy returns the wallets carrying the given strategy label,
// in creation order.
func (b *WalletBook) ByStrategy(strategy string) []*Wallet {
	out := make([]*Wallet, 0)
	for _, w := range b.Wallets() {
		if w.Strategy == strategy {
			out = append(out, w)
		}
	}
	return out
}

// TotalBuyingPower sums the buying power across all wallets.
func (b *WalletBook) TotalBuyingPower() Money {
	total := M(0)
	for _, w := range b.wallets {
		total = total.Add(w.BuyingPower)
	}
	return total
}

// MarshalJSON writes wallets keyed by id in creation order.
func (b *WalletBook) MarshalJSON() ([]byte, error) {
	var wallets jsonObjectWriter
	for _, w := range b.Wallets() {
		wallets.Append(w.ID, w)
	}
	raw, err := wallets.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var j jsonObjectWriter
	j.AppendRaw("wallets", raw)
	return j.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (b *WalletBook) UnmarshalJSON(data []byte) error {
	var temp struct {
		Wallets map[string]*Wallet `json:"wallets"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	b.wallets = temp.Wallets
	if b.wallets == nil {
		b.wallets = make(map[string]*Wallet)
	}
	return nil
}
