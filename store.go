package mahfaza

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Ledger file names inside the store directory.
const (
	portfolioFile = "portfolio.json"
	walletsFile   = "wallets.json"
	settingsFile  = "settings.json"
)

// Store is the single entry point to the ledger. It owns the
// portfolio, the wallet book and the fee settings behind one mutex,
// and flushes the touched files to disk after every mutation.
//
// A failed flush surfaces as a PersistenceError; the in-memory change
// it follows is not rolled back. The next successful mutation writes
// the full state again, so a transient disk error loses nothing.
type Store struct {
	mu  sync.Mutex
	dir string
	log zerolog.Logger

	portfolio *Portfolio
	wallets   *WalletBook
	fees      FeeSchedule
	dividends *DividendBook
	analyzer  *Analyzer
}

// Open loads the ledger files from dir, creating fresh state for any
// file that does not exist yet.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		dir:       dir,
		log:       log,
		portfolio: NewPortfolio(),
		wallets:   NewWalletBook(),
		fees:      DefaultFeeSchedule(),
		dividends: DefaultDividendBook(),
	}
	s.analyzer = NewAnalyzer(s.dividends, log)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	if err := s.loadAll(); err != nil {
		return nil, err
	}
	log.Debug().Str("dir", dir).
		Int("positions", len(s.portfolio.Symbols())).
		Int("wallets", len(s.wallets.Wallets())).
		Msg("ledger loaded")
	return s, nil
}

func (s *Store) loadAll() error {
	if err := s.loadFile(portfolioFile, s.portfolio); err != nil {
		return err
	}
	if err := s.loadFile(walletsFile, s.wallets); err != nil {
		return err
	}
	var settings struct {
		Settings  FeeSchedule `json:"settings"`
		LastSaved *string     `json:"last_saved"`
	}
	settings.Settings = s.fees
	if err := s.loadFile(settingsFile, &settings); err != nil {
		return err
	}
	s.fees = settings.Settings
	return nil
}

func (s *Store) loadFile(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it over the target, so a crash never leaves a half-written
// ledger file behind.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) saveJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err == nil {
		err = writeFileAtomic(filepath.Join(s.dir, name), data)
	}
	if err != nil {
		s.log.Error().Err(err).Str("file", name).Msg("flush failed")
		return &PersistenceError{Path: filepath.Join(s.dir, name), Err: err}
	}
	return nil
}

func (s *Store) savePortfolio() error {
	s.portfolio.LastSaved = time.Now()
	return s.saveJSON(portfolioFile, s.portfolio)
}

func (s *Store) saveWallets() error {
	return s.saveJSON(walletsFile, s.wallets)
}

func (s *Store) saveSettings() error {
	var w jsonObjectWriter
	w.Append("settings", s.fees)
	w.Append("last_saved", time.Now().Format(time.RFC3339))
	raw, err := w.MarshalJSON()
	if err != nil {
		return err
	}
	return s.saveJSON(settingsFile, json.RawMessage(raw))
}

// Settings returns the current fee schedule.
func (s *Store) Settings() FeeSchedule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fees
}

// UpdateSettings replaces the fee schedule and persists it. Existing
// orders keep the fees computed when they were placed.
func (s *Store) UpdateSettings(fees FeeSchedule) error {
	if err := fees.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fees = fees
	return s.saveSettings()
}

// PreviewFees returns the fees an order with this notional would incur.
func (s *Store) PreviewFees(notional Money) Fees {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fees.Fees(notional)
}

// PlaceOrder records a buy or sell, adjusts the funding wallet's
// buying power in the same step, and persists. The sell oversell guard
// runs before any state changes.
func (s *Store) PlaceOrder(symbol, name string, side Side, shares Quantity, price Money, on Date, walletID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var wallet *Wallet
	if walletID != "" {
		var err error
		if wallet, err = s.wallets.Wallet(walletID); err != nil {
			return Order{}, fmt.Errorf("wallet %s: %w", walletID, err)
		}
	}
	o := NewOrder(side, shares, price, on, walletID, s.fees)
	if err := s.portfolio.AddOrder(symbol, name, o); err != nil {
		return Order{}, fmt.Errorf("order on %s: %w", symbol, err)
	}
	if wallet != nil {
		wallet.ApplyOrder(o)
	}
	s.log.Info().Str("symbol", symbol).Str("side", string(side)).
		Stringer("shares", shares).Str("order", o.ID).Msg("order recorded")

	if err := s.savePortfolio(); err != nil {
		return o, err
	}
	if wallet != nil {
		if err := s.saveWallets(); err != nil {
			return o, err
		}
	}
	return o, nil
}

// RemoveOrder deletes an order, reverts its buying power effect, and
// drops the position entirely when its history becomes empty.
func (s *Store) RemoveOrder(symbol, orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return fmt.Errorf("position %s: %w", symbol, err)
	}
	o, err := p.Order(orderID)
	if err != nil {
		return fmt.Errorf("order %s: %w", orderID, err)
	}
	if err := p.RemoveOrder(orderID); err != nil {
		return err
	}
	walletTouched := false
	if o.WalletID != "" {
		if w, err := s.wallets.Wallet(o.WalletID); err == nil {
			w.RevertOrder(o)
			walletTouched = true
		}
	}
	if len(p.Orders) == 0 && len(p.Actions) == 0 {
		_ = s.portfolio.Remove(symbol)
	}
	if err := s.savePortfolio(); err != nil {
		return err
	}
	if walletTouched {
		return s.saveWallets()
	}
	return nil
}

// UpdateOrder corrects an order in place, recomputing its fees from
// the current schedule and rebalancing the wallet buying power.
func (s *Store) UpdateOrder(symbol, orderID string, side Side, shares Quantity, price Money, on Date, walletID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateOrder(symbol, orderID, walletID, func(p *Position) error {
		return p.UpdateOrder(orderID, side, shares, price, on, walletID, s.fees)
	})
}

// UpdateOrderWithFees corrects an order keeping the caller's exact
// commission and tax, for brokers whose charged fees differ from the
// schedule.
func (s *Store) UpdateOrderWithFees(symbol, orderID string, side Side, shares Quantity, price Money, on Date, walletID string, commission, tax Money) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateOrder(symbol, orderID, walletID, func(p *Position) error {
		return p.UpdateOrderWithFees(orderID, side, shares, price, on, walletID, commission, tax)
	})
}

// updateOrder holds the shared correction flow: validate the target
// wallet, apply the in-place edit, then rebalance buying power between
// the old and new funding wallets. Callers hold the lock.
func (s *Store) updateOrder(symbol, orderID, walletID string, apply func(*Position) error) (Order, error) {
	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return Order{}, fmt.Errorf("position %s: %w", symbol, err)
	}
	before, err := p.Order(orderID)
	if err != nil {
		return Order{}, fmt.Errorf("order %s: %w", orderID, err)
	}
	if walletID != "" {
		if _, err := s.wallets.Wallet(walletID); err != nil {
			return Order{}, fmt.Errorf("wallet %s: %w", walletID, err)
		}
	}
	if err := apply(p); err != nil {
		return Order{}, err
	}
	after, _ := p.Order(orderID)

	if before.WalletID != "" {
		if w, err := s.wallets.Wallet(before.WalletID); err == nil {
			w.RevertOrder(before)
		}
	}
	if after.WalletID != "" {
		if w, err := s.wallets.Wallet(after.WalletID); err == nil {
			w.ApplyOrder(after)
		}
	}
	if err := s.savePortfolio(); err != nil {
		return after, err
	}
	if before.WalletID != "" || after.WalletID != "" {
		if err := s.saveWallets(); err != nil {
			return after, err
		}
	}
	return after, nil
}

// AddAction records a corporate action against a position.
func (s *Store) AddAction(symbol string, kind ActionKind, on Date, num, den int64, note string) (CorporateAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return CorporateAction{}, fmt.Errorf("position %s: %w", symbol, err)
	}
	a, err := NewCorporateAction(kind, on, num, den)
	if err != nil {
		return CorporateAction{}, err
	}
	a.Description = note
	p.AddAction(a)
	s.log.Info().Str("symbol", symbol).Str("kind", string(kind)).
		Int64("num", num).Int64("den", den).Msg("corporate action recorded")
	return a, s.savePortfolio()
}

// RemoveAction deletes a corporate action.
func (s *Store) RemoveAction(symbol, actionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return fmt.Errorf("position %s: %w", symbol, err)
	}
	if err := p.RemoveAction(actionID); err != nil {
		return fmt.Errorf("action %s: %w", actionID, err)
	}
	return s.savePortfolio()
}

// RemovePosition deletes a symbol and its whole history.
func (s *Store) RemovePosition(symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.portfolio.Remove(symbol); err != nil {
		return fmt.Errorf("position %s: %w", symbol, err)
	}
	return s.savePortfolio()
}

// CreateWallet adds a wallet and persists the book.
func (s *Store) CreateWallet(info WalletInfo) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.wallets.Create(info)
	if err != nil {
		return Wallet{}, err
	}
	return *w, s.saveWallets()
}

// RemoveWallet deletes a wallet. Orders tagged with it keep the tag.
func (s *Store) RemoveWallet(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wallets.Remove(id); err != nil {
		return fmt.Errorf("wallet %s: %w", id, err)
	}
	return s.saveWallets()
}

// RenameWallet changes a wallet's display name.
func (s *Store) RenameWallet(id, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.wallets.Rename(id, name); err != nil {
		return fmt.Errorf("wallet %s: %w", id, err)
	}
	return s.saveWallets()
}

// AdjustWallet deposits (positive) or withdraws (negative) cash.
func (s *Store) AdjustWallet(id string, amount Money) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.wallets.Wallet(id)
	if err != nil {
		return Wallet{}, fmt.Errorf("wallet %s: %w", id, err)
	}
	if amount.IsNegative() {
		err = w.Withdraw(amount.Neg())
	} else {
		err = w.Deposit(amount)
	}
	if err != nil {
		return Wallet{}, err
	}
	return *w, s.saveWallets()
}

// SetBuyingPower overwrites a wallet's buying power outright.
func (s *Store) SetBuyingPower(id string, amount Money) (Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, err := s.wallets.Wallet(id)
	if err != nil {
		return Wallet{}, fmt.Errorf("wallet %s: %w", id, err)
	}
	if amount.IsNegative() {
		return Wallet{}, invalidf("buying_power", "must not be negative")
	}
	w.BuyingPower = amount
	return *w, s.saveWallets()
}

// Wallets returns a snapshot of every wallet.
func (s *Store) Wallets() []Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Wallet, 0)
	for _, w := range s.wallets.Wallets() {
		out = append(out, *w)
	}
	return out
}

// WalletsByStrategy returns snapshots of the wallets with the given
// strategy label.
func (s *Store) WalletsByStrategy(strategy string) []Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Wallet, 0)
	for _, w := range s.wallets.ByStrategy(strategy) {
		out = append(out, *w)
	}
	return out
}

// PositionSummary is the read-side view of one position.
type PositionSummary struct {
	Symbol            string
	Name              string
	Shares            Quantity
	AvgCost           Money
	TotalCost         Money
	CurrentPrice      Money
	MarketValue       Money
	Unrealized        Money
	UnrealizedPercent decimal.Decimal
	BonusShares       Quantity
	DominantWalletID  string
	LastUpdated       time.Time
}

func summarize(p *Position) PositionSummary {
	cost := p.TotalCost()
	unrealized := p.UnrealizedPL()
	return PositionSummary{
		Symbol:            p.Symbol,
		Name:              p.Name,
		Shares:            p.Shares(),
		AvgCost:           p.AverageCost().Round2(),
		TotalCost:         cost.Round2(),
		CurrentPrice:      p.CurrentPrice,
		MarketValue:       p.MarketValue().Round2(),
		Unrealized:        unrealized.Round2(),
		UnrealizedPercent: unrealized.Percent(cost).Round(2),
		BonusShares:       p.BonusShares(),
		DominantWalletID:  p.DominantWalletID(),
		LastUpdated:       p.LastUpdated,
	}
}

// Positions returns summaries of every position, ordered by symbol.
func (s *Store) Positions() []PositionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PositionSummary, 0)
	for _, p := range s.portfolio.Positions() {
		out = append(out, summarize(p))
	}
	return out
}

// PositionDetail returns one position's summary plus its full order
// and action history.
func (s *Store) PositionDetail(symbol string) (PositionSummary, []Order, []CorporateAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return PositionSummary{}, nil, nil, fmt.Errorf("position %s: %w", symbol, err)
	}
	orders := make([]Order, len(p.Orders))
	copy(orders, p.Orders)
	actions := make([]CorporateAction, len(p.Actions))
	copy(actions, p.Actions)
	return summarize(p), orders, actions, nil
}

// RealizedReport returns the average-cost realized rows for a symbol.
func (s *Store) RealizedReport(symbol string) ([]RealizedSale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return nil, fmt.Errorf("position %s: %w", symbol, err)
	}
	return p.RealizedSales(), nil
}

// DividendRow is one position's dividend attribution.
type DividendRow struct {
	Symbol   string
	Name     string
	Shares   Quantity
	Received Money
	Upcoming UpcomingDividend
	HasNext  bool
}

// DividendReport attributes received dividends to every held position
// (from its earliest remaining acquisition, portfolio-wide) and
// projects the next distribution.
func (s *Store) DividendReport() []DividendRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]DividendRow, 0)
	for _, p := range s.portfolio.Positions() {
		shares := p.Shares()
		if !shares.IsPositive() {
			continue
		}
		_, open, _ := MatchFIFO(p.Orders, p.Actions)
		acquired := Date{}
		if len(open) > 0 {
			acquired = open[0].Date
		}
		received := M(0)
		if !acquired.IsZero() {
			received, _ = s.dividends.Received(p.Symbol, acquired, shares)
		}
		row := DividendRow{
			Symbol:   p.Symbol,
			Name:     p.Name,
			Shares:   shares,
			Received: received.Round2(),
		}
		row.Upcoming, row.HasNext = s.dividends.Upcoming(p.Symbol)
		out = append(out, row)
	}
	return out
}

// AddDividend registers a distribution event at runtime. The event is
// kept in memory alongside the built-in history; it is not persisted.
func (s *Store) AddDividend(symbol string, e DividendEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dividends.Add(symbol, e)
}

// Performance analyzes one wallet by id. The empty id selects orders
// never tagged with a wallet.
func (s *Store) Performance(walletID string) (WalletPerformance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name := "unassigned"
	if walletID != "" {
		w, err := s.wallets.Wallet(walletID)
		if err != nil {
			return WalletPerformance{}, fmt.Errorf("wallet %s: %w", walletID, err)
		}
		name = w.Name
	}
	return s.analyzer.Wallet(walletID, name, s.portfolio), nil
}

// AllPerformance analyzes every wallet and the untagged bucket.
func (s *Store) AllPerformance() ([]WalletPerformance, WalletSummary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzer.AllWallets(s.wallets, s.portfolio)
}

// SellSimulation is the what-if result of a sell that never happened.
type SellSimulation struct {
	Symbol        string
	Shares        Quantity
	Price         Money
	Notional      Money
	Fees          Fees
	NetProceeds   Money
	AvgCost       Money
	CostBasis     Money
	Profit        Money
	ProfitPercent decimal.Decimal
}

// SimulateSell prices a hypothetical sell against the current
// weighted-average cost without touching the ledger.
func (s *Store) SimulateSell(symbol string, shares Quantity, price Money) (SellSimulation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.portfolio.Position(symbol)
	if err != nil {
		return SellSimulation{}, fmt.Errorf("position %s: %w", symbol, err)
	}
	if !shares.IsPositive() {
		return SellSimulation{}, invalidf("shares", "must be positive, got %s", shares)
	}
	held := p.Shares()
	if shares.GreaterThan(held) {
		return SellSimulation{}, fmt.Errorf("selling %s of %s held: %w", shares, held, ErrInsufficientShares)
	}
	notional := price.Mul(shares)
	fees := s.fees.Fees(notional)
	net := notional.Sub(fees.Total())
	avg := p.AverageCost()
	basis := avg.Mul(shares)
	profit := net.Sub(basis)
	return SellSimulation{
		Symbol:        symbol,
		Shares:        shares,
		Price:         price,
		Notional:      notional.Round2(),
		Fees:          fees,
		NetProceeds:   net.Round2(),
		AvgCost:       avg.Round2(),
		CostBasis:     basis.Round2(),
		Profit:        profit.Round2(),
		ProfitPercent: profit.Percent(basis).Round(2),
	}, nil
}

// RefreshPrices asks the source for a fresh quote on every tracked
// symbol. Failures are per-symbol and logged; one bad quote does not
// stop the sweep. The portfolio file is flushed once at the end.
func (s *Store) RefreshPrices(ctx context.Context, source PriceSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := 0
	for _, p := range s.portfolio.Positions() {
		q, err := source.Quote(ctx, p.Symbol)
		if err != nil {
			s.log.Warn().Err(err).Str("symbol", p.Symbol).Msg("quote failed")
			continue
		}
		p.SetPrice(q.Price, q.Timestamp)
		updated++
	}
	if updated == 0 {
		return nil
	}
	s.log.Debug().Int("updated", updated).Msg("prices refreshed")
	return s.savePortfolio()
}

// Totals returns portfolio-wide cost, value and unrealized profit.
func (s *Store) Totals() (cost, value, unrealized Money) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cost = s.portfolio.TotalCost().Round2()
	value = s.portfolio.TotalMarketValue().Round2()
	unrealized = value.Sub(cost)
	return cost, value, unrealized
}
