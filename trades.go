package mahfaza

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Lot is a surviving slice of a past buy: what remains of its shares
// and fee-inclusive cost after later sells consumed the front of the
// queue. Lots exist only inside a replay and are never persisted.
type Lot struct {
	Date   Date
	Shares Quantity
	Cost   Money
}

// TradeMatch pairs one sell order with the lots it consumed under
// strict FIFO. Cost and proceeds are exact; rounding belongs to the
// report layer.
type TradeMatch struct {
	Sell        Order
	CostOfSold  Money
	Proceeds    Money  // notional minus fees
	Acquired    Date   // earliest contributing lot
	LotDates    []Date // every contributing lot's acquisition date, oldest first
	HoldingDays decimal.Decimal
}

// PriceProfit returns proceeds minus the consumed cost basis.
func (m TradeMatch) PriceProfit() Money { return m.Proceeds.Sub(m.CostOfSold) }

// MatchFIFO replays one instrument's wallet-scoped orders in date
// order (stable on ties) and matches every sell against the oldest
// open lots. Corporate actions dated before an order scale the open
// lots' share counts first, leaving their costs alone.
//
// It returns the matched sells and the lots still open after the full
// replay. A sell that demands more shares than the queue holds stops
// the replay with ErrFIFOUnderflow; matches made before that point are
// still returned. Wallet-scoped histories can underflow legitimately
// when shares bought in one wallet were sold under another.
func MatchFIFO(orders []Order, actions []CorporateAction) ([]TradeMatch, []Lot, error) {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	acts := make([]CorporateAction, len(actions))
	copy(acts, actions)
	sort.SliceStable(acts, func(i, j int) bool { return acts[i].Date.Before(acts[j].Date) })

	var q lotQueue
	var matches []TradeMatch
	i := 0
	for _, o := range sorted {
		for i < len(acts) && acts[i].Date.Before(o.Date) {
			q.adjust(acts[i].Multiplier())
			i++
		}
		switch o.Side {
		case Buy:
			q.push(o.Date, o.Shares.Decimal(), o.TotalCost().Decimal())
		case Sell:
			f, err := q.consume(o.Shares.Decimal(), o.Date)
			if err != nil {
				return matches, q.open(), err
			}
			matches = append(matches, TradeMatch{
				Sell:        o,
				CostOfSold:  Money{value: f.cost},
				Proceeds:    o.TotalCost(),
				Acquired:    f.acquired,
				LotDates:    f.dates,
				HoldingDays: f.holdingDays,
			})
		}
	}
	for i < len(acts) {
		q.adjust(acts[i].Multiplier())
		i++
	}
	return matches, q.open(), nil
}

// open converts the internal queue into the exported Lot view.
func (q *lotQueue) open() []Lot {
	out := make([]Lot, 0, len(q.lots))
	for _, l := range q.lots {
		out = append(out, Lot{Date: l.date, Shares: Quantity{value: l.shares}, Cost: Money{value: l.cost}})
	}
	return out
}
