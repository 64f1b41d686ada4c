package mahfaza

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Position is the complete ownership record for one instrument: every
// order ever placed, every corporate action announced, and the latest
// observed market price. All derived figures (share count, cost basis,
// realized profit) are replayed from this history on demand; nothing
// derived is ever cached or persisted.
type Position struct {
	Symbol       string
	Name         string
	Orders       []Order
	Actions      []CorporateAction
	CurrentPrice Money
	LastUpdated  time.Time
}

// NewPosition creates an empty position for a symbol.
func NewPosition(symbol, name string) *Position {
	return &Position{Symbol: symbol, Name: name}
}

// holding is the running state of a replay: shares held, total cost
// invested, and shares received through bonus issues.
type holding struct {
	shares decimal.Decimal
	cost   decimal.Decimal
	bonus  decimal.Decimal
}

func (h holding) avgCost() decimal.Decimal {
	if h.shares.IsZero() {
		return decimal.Zero
	}
	return h.cost.Div(h.shares)
}

// ordersByDate returns the orders stable-sorted by trade date. Orders
// on the same date keep their recorded (entry) order.
func (p *Position) ordersByDate() []Order {
	orders := make([]Order, len(p.Orders))
	copy(orders, p.Orders)
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].Date.Before(orders[j].Date) })
	return orders
}

// actionsByDate returns the corporate actions stable-sorted by date.
func (p *Position) actionsByDate() []CorporateAction {
	actions := make([]CorporateAction, len(p.Actions))
	copy(actions, p.Actions)
	sort.SliceStable(actions, func(i, j int) bool { return actions[i].Date.Before(actions[j].Date) })
	return actions
}

// replay walks the full order and action history in date order and
// returns the final holding. Orders and actions sharing a date are
// applied orders first: an action dated d adjusts the shares held at
// the end of d.
//
// A buy adds its fee-inclusive cost. A sell removes shares at the
// average cost per share at the moment of the sale, which leaves the
// average of the remainder unchanged. An action multiplies the share
// count and leaves the invested cost alone.
func (p *Position) replay() (holding, error) {
	var h holding
	orders := p.ordersByDate()
	actions := p.actionsByDate()

	i := 0
	apply := func() {
		grown := h.shares.Mul(actions[i].Multiplier())
		if actions[i].Kind == BonusIssue {
			h.bonus = h.bonus.Add(grown.Sub(h.shares))
		}
		h.shares = grown
		i++
	}

	for _, o := range orders {
		// Actions strictly before this order adjust the holding first,
		// so an action sharing its date with an order applies after it.
		for i < len(actions) && actions[i].Date.Before(o.Date) {
			apply()
		}
		switch o.Side {
		case Buy:
			h.shares = h.shares.Add(o.Shares.Decimal())
			h.cost = h.cost.Add(o.TotalCost().Decimal())
		case Sell:
			qty := o.Shares.Decimal()
			if qty.GreaterThan(h.shares) {
				return holding{}, ErrInsufficientShares
			}
			h.cost = h.cost.Sub(h.avgCost().Mul(qty))
			h.shares = h.shares.Sub(qty)
			if h.shares.IsZero() {
				h.cost = decimal.Zero
			}
		}
	}
	for i < len(actions) {
		apply()
	}
	return h, nil
}

// Shares returns the action-adjusted number of shares currently held.
func (p *Position) Shares() Quantity {
	h, err := p.replay()
	if err != nil {
		return Q(0)
	}
	return Quantity{value: h.shares}
}

// TotalCost returns the fee-inclusive cost invested in the current holding.
func (p *Position) TotalCost() Money {
	h, err := p.replay()
	if err != nil {
		return M(0)
	}
	return Money{value: h.cost}
}

// AverageCost returns the cost per share of the current holding, or
// zero when nothing is held.
func (p *Position) AverageCost() Money {
	h, err := p.replay()
	if err != nil {
		return M(0)
	}
	return Money{value: h.avgCost()}
}

// BonusShares returns the cumulative shares received through bonus
// issues over the life of the position.
func (p *Position) BonusShares() Quantity {
	h, err := p.replay()
	if err != nil {
		return Q(0)
	}
	return Quantity{value: h.bonus}
}

// MarketValue returns shares held times the last observed price.
func (p *Position) MarketValue() Money { return p.CurrentPrice.Mul(p.Shares()) }

// UnrealizedPL returns market value minus invested cost.
func (p *Position) UnrealizedPL() Money { return p.MarketValue().Sub(p.TotalCost()) }

// AddOrder validates the order and appends it to the history. A sell
// that would drive the replayed share count negative at any point is
// rejected with ErrInsufficientShares and the history is unchanged.
func (p *Position) AddOrder(o Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	p.Orders = append(p.Orders, o)
	if _, err := p.replay(); err != nil {
		p.Orders = p.Orders[:len(p.Orders)-1]
		return err
	}
	return nil
}

// RemoveOrder deletes an order by id. Removing a buy that later sells
// depend on leaves the history unsellable, so the removal is rejected
// if the remaining history no longer replays.
func (p *Position) RemoveOrder(id string) error {
	for idx, o := range p.Orders {
		if o.ID != id {
			continue
		}
		trimmed := make([]Order, 0, len(p.Orders)-1)
		trimmed = append(trimmed, p.Orders[:idx]...)
		trimmed = append(trimmed, p.Orders[idx+1:]...)
		saved := p.Orders
		p.Orders = trimmed
		if _, err := p.replay(); err != nil {
			p.Orders = saved
			return err
		}
		return nil
	}
	return ErrNotFound
}

// UpdateOrder replaces the fields of an existing order in place,
// keeping its id, and recomputes the fees from the schedule for the
// corrected notional. The corrected history must still replay.
func (p *Position) UpdateOrder(id string, side Side, shares Quantity, price Money, on Date, walletID string, fees FeeSchedule) error {
	f := fees.Fees(price.Mul(shares))
	return p.updateOrder(id, side, shares, price, on, walletID, f.Commission, f.Tax)
}

// UpdateOrderWithFees corrects an order keeping the caller's exact
// commission and tax instead of recomputing them.
func (p *Position) UpdateOrderWithFees(id string, side Side, shares Quantity, price Money, on Date, walletID string, commission, tax Money) error {
	return p.updateOrder(id, side, shares, price, on, walletID, commission, tax)
}

func (p *Position) updateOrder(id string, side Side, shares Quantity, price Money, on Date, walletID string, commission, tax Money) error {
	for idx := range p.Orders {
		if p.Orders[idx].ID != id {
			continue
		}
		saved := p.Orders[idx]
		next := saved
		next.Side = side
		next.Shares = shares
		next.Price = price
		next.Date = on
		next.WalletID = walletID
		next.Commission, next.Tax = commission, tax
		if err := next.Validate(); err != nil {
			return err
		}
		p.Orders[idx] = next
		if _, err := p.replay(); err != nil {
			p.Orders[idx] = saved
			return err
		}
		return nil
	}
	return ErrNotFound
}

// AddAction appends a corporate action to the history.
func (p *Position) AddAction(a CorporateAction) { p.Actions = append(p.Actions, a) }

// RemoveAction deletes a corporate action by id. Removing an action
// that grew shares a later sell depends on would leave the history
// unreplayable, so the removal is rejected in that case.
func (p *Position) RemoveAction(id string) error {
	for idx := range p.Actions {
		if p.Actions[idx].ID != id {
			continue
		}
		trimmed := make([]CorporateAction, 0, len(p.Actions)-1)
		trimmed = append(trimmed, p.Actions[:idx]...)
		trimmed = append(trimmed, p.Actions[idx+1:]...)
		saved := p.Actions
		p.Actions = trimmed
		if _, err := p.replay(); err != nil {
			p.Actions = saved
			return err
		}
		return nil
	}
	return ErrNotFound
}

// Order returns the order with the given id.
func (p *Position) Order(id string) (Order, error) {
	for _, o := range p.Orders {
		if o.ID == id {
			return o, nil
		}
	}
	return Order{}, ErrNotFound
}

// DominantWalletID returns the wallet holding the largest net share
// count of this position, or "" when no order names a wallet.
func (p *Position) DominantWalletID() string {
	net := make(map[string]decimal.Decimal)
	for _, o := range p.Orders {
		if o.WalletID == "" {
			continue
		}
		q := o.Shares.Decimal()
		if o.Side == Sell {
			q = q.Neg()
		}
		net[o.WalletID] = net[o.WalletID].Add(q)
	}
	var best string
	var bestQty decimal.Decimal
	ids := make([]string, 0, len(net))
	for id := range net {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic winner on ties
	for _, id := range ids {
		if best == "" || net[id].GreaterThan(bestQty) {
			best, bestQty = id, net[id]
		}
	}
	return best
}

// RealizedSale is one sell, priced against the average cost per share
// at the moment of the sale.
type RealizedSale struct {
	Date     Date
	Shares   Quantity
	Price    Money // sale price per share
	AvgCost  Money // average cost per share when sold
	Proceeds Money // notional minus fees
	Basis    Money // shares times average cost
	Profit   Money // proceeds minus basis
}

// RealizedSales replays the history and returns one row per sell,
// in date order, under the average-cost convention.
func (p *Position) RealizedSales() []RealizedSale {
	var h holding
	var sales []RealizedSale
	orders := p.ordersByDate()
	actions := p.actionsByDate()
	i := 0
	for _, o := range orders {
		for i < len(actions) && actions[i].Date.Before(o.Date) {
			h.shares = h.shares.Mul(actions[i].Multiplier())
			i++
		}
		switch o.Side {
		case Buy:
			h.shares = h.shares.Add(o.Shares.Decimal())
			h.cost = h.cost.Add(o.TotalCost().Decimal())
		case Sell:
			qty := o.Shares.Decimal()
			if qty.GreaterThan(h.shares) {
				continue // corrupted history, skip rather than fabricate
			}
			avg := h.avgCost()
			basis := avg.Mul(qty)
			proceeds := o.TotalCost().Decimal()
			sales = append(sales, RealizedSale{
				Date:     o.Date,
				Shares:   o.Shares,
				Price:    o.Price,
				AvgCost:  Money{value: avg},
				Proceeds: Money{value: proceeds},
				Basis:    Money{value: basis},
				Profit:   Money{value: proceeds.Sub(basis)},
			})
			h.cost = h.cost.Sub(basis)
			h.shares = h.shares.Sub(qty)
		}
	}
	return sales
}

// RealizedProfit sums the profit of all realized sales.
func (p *Position) RealizedProfit() Money {
	total := M(0)
	for _, s := range p.RealizedSales() {
		total = total.Add(s.Profit)
	}
	return total
}

// SetPrice records a freshly observed market price.
func (p *Position) SetPrice(price Money, at time.Time) {
	p.CurrentPrice = price
	p.LastUpdated = at
}

// MarshalJSON writes the position with the persisted ledger key order.
func (p *Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", p.Symbol)
	w.Append("name", p.Name)
	orders := p.Orders
	if orders == nil {
		orders = []Order{}
	}
	actions := p.Actions
	if actions == nil {
		actions = []CorporateAction{}
	}
	w.Append("orders", orders)
	w.Append("corporate_actions", actions)
	w.Append("current_price", p.CurrentPrice)
	if p.LastUpdated.IsZero() {
		w.AppendRaw("last_updated", []byte("null"))
	} else {
		w.Append("last_updated", p.LastUpdated.Format(time.RFC3339))
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Position) UnmarshalJSON(data []byte) error {
	var temp struct {
		Symbol       string            `json:"symbol"`
		Name         string            `json:"name"`
		Orders       []Order           `json:"orders"`
		Actions      []CorporateAction `json:"corporate_actions"`
		CurrentPrice Money             `json:"current_price"`
		LastUpdated  *string           `json:"last_updated"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	p.Symbol = temp.Symbol
	p.Name = temp.Name
	p.Orders = temp.Orders
	p.Actions = temp.Actions
	p.CurrentPrice = temp.CurrentPrice
	if temp.LastUpdated != nil && *temp.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339, *temp.LastUpdated)
		if err != nil {
			return err
		}
		p.LastUpdated = t
	}
	return nil
}
