package mahfaza

import (
	"encoding/json"
	"sort"
	"time"
)

// Portfolio is the set of positions keyed by instrument symbol, plus
// the timestamp of the last successful save.
type Portfolio struct {
	positions map[string]*Position
	LastSaved time.Time
}

// NewPortfolio creates an empty portfolio.
func NewPortfolio() *Portfolio {
	return &Portfolio{positions: make(map[string]*Position)}
}

// Position returns the position for a symbol, or ErrNotFound.
func (pf *Portfolio) Position(symbol string) (*Position, error) {
	p, ok := pf.positions[symbol]
	if !ok {
		return nil, ErrNotFound
	}
	return p, nil
}

// Add registers a new empty position. Adding a symbol that already
// exists is rejected so an order cannot silently land on a fresh
// history.
func (pf *Portfolio) Add(symbol, name string) (*Position, error) {
	if symbol == "" {
		return nil, invalidf("symbol", "is missing")
	}
	if _, ok := pf.positions[symbol]; ok {
		return nil, invalidf("symbol", "%s already tracked", symbol)
	}
	p := NewPosition(symbol, name)
	pf.positions[symbol] = p
	return p, nil
}

// Remove deletes a position and its whole history.
func (pf *Portfolio) Remove(symbol string) error {
	if _, ok := pf.positions[symbol]; !ok {
		return ErrNotFound
	}
	delete(pf.positions, symbol)
	return nil
}

// Symbols returns all tracked symbols in lexical order.
func (pf *Portfolio) Symbols() []string {
	symbols := make([]string, 0, len(pf.positions))
	for s := range pf.positions {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// Positions returns all positions ordered by symbol.
func (pf *Portfolio) Positions() []*Position {
	out := make([]*Position, 0, len(pf.positions))
	for _, s := range pf.Symbols() {
		out = append(out, pf.positions[s])
	}
	return out
}

// AddOrder appends an order to the symbol's history, creating the
// position on a first buy. A sell on an unknown symbol is ErrNotFound.
func (pf *Portfolio) AddOrder(symbol, name string, o Order) error {
	p, ok := pf.positions[symbol]
	if !ok {
		if o.Side == Sell {
			return ErrNotFound
		}
		var err error
		if p, err = pf.Add(symbol, name); err != nil {
			return err
		}
	}
	if err := p.AddOrder(o); err != nil {
		// Drop the position again if the very first order was bad.
		if len(p.Orders) == 0 && len(p.Actions) == 0 && !ok {
			delete(pf.positions, symbol)
		}
		return err
	}
	return nil
}

// TotalMarketValue sums the market value of every position.
func (pf *Portfolio) TotalMarketValue() Money {
	total := M(0)
	for _, p := range pf.positions {
		total = total.Add(p.MarketValue())
	}
	return total
}

// TotalCost sums the invested cost of every position.
func (pf *Portfolio) TotalCost() Money {
	total := M(0)
	for _, p := range pf.positions {
		total = total.Add(p.TotalCost())
	}
	return total
}

// TotalUnrealizedPL sums the unrealized profit of every position.
func (pf *Portfolio) TotalUnrealizedPL() Money {
	return pf.TotalMarketValue().Sub(pf.TotalCost())
}

// MarshalJSON writes the portfolio with positions keyed by symbol in
// lexical order.
func (pf *Portfolio) MarshalJSON() ([]byte, error) {
	var stocks jsonObjectWriter
	for _, s := range pf.Symbols() {
		stocks.Append(s, pf.positions[s])
	}
	raw, err := stocks.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var w jsonObjectWriter
	w.AppendRaw("stocks", raw)
	if pf.LastSaved.IsZero() {
		w.AppendRaw("last_saved", []byte("null"))
	} else {
		w.Append("last_saved", pf.LastSaved.Format(time.RFC3339))
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (pf *Portfolio) UnmarshalJSON(data []byte) error {
	var temp struct {
		Stocks    map[string]*Position `json:"stocks"`
		LastSaved *string              `json:"last_saved"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	pf.positions = temp.Stocks
	if pf.positions == nil {
		pf.positions = make(map[string]*Position)
	}
	if temp.LastSaved != nil && *temp.LastSaved != "" {
		t, err := time.Parse(time.RFC3339, *temp.LastSaved)
		if err != nil {
			return err
		}
		pf.LastSaved = t
	}
	return nil
}
