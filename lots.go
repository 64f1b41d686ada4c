package mahfaza

import "github.com/shopspring/decimal"

// lot is an open parcel of shares acquired by one buy, carrying its
// remaining fee-inclusive cost. Sells consume lots strictly oldest
// first; a partial consumption takes cost out proportionally to the
// shares taken.
type lot struct {
	date   Date
	shares decimal.Decimal
	cost   decimal.Decimal
}

// lotQueue is the FIFO queue of open lots for one symbol within one
// wallet.
type lotQueue struct {
	lots []lot
}

func (q *lotQueue) push(date Date, shares, cost decimal.Decimal) {
	q.lots = append(q.lots, lot{date: date, shares: shares, cost: cost})
}

// adjust scales every open lot's share count by a corporate action
// multiplier. Costs are untouched.
func (q *lotQueue) adjust(m decimal.Decimal) {
	for i := range q.lots {
		q.lots[i].shares = q.lots[i].shares.Mul(m)
	}
}

// fill is the outcome of consuming shares from the queue for one sell.
type fill struct {
	cost        decimal.Decimal // basis taken out of the consumed lots
	acquired    Date            // date of the earliest contributing lot
	dates       []Date          // one date per contributing lot, oldest first
	holdingDays decimal.Decimal // unweighted mean of per-lot holding days
}

// consume removes shares from the front of the queue and returns the
// consumed cost basis. The holding period is the plain average of each
// contributing lot's age, regardless of how many shares each lot
// contributed. ErrFIFOUnderflow means the order history asked for more
// shares than the open lots hold.
func (q *lotQueue) consume(shares decimal.Decimal, sellDate Date) (fill, error) {
	var f fill
	var lotDays decimal.Decimal
	var lotCount int64
	remaining := shares

	for remaining.IsPositive() {
		if len(q.lots) == 0 {
			return fill{}, ErrFIFOUnderflow
		}
		front := &q.lots[0]
		if f.acquired.IsZero() {
			f.acquired = front.date
		}
		f.dates = append(f.dates, front.date)
		lotDays = lotDays.Add(decimal.NewFromInt(int64(sellDate.DaysSince(front.date))))
		lotCount++

		if front.shares.LessThanOrEqual(remaining) {
			f.cost = f.cost.Add(front.cost)
			remaining = remaining.Sub(front.shares)
			q.lots = q.lots[1:]
			continue
		}
		ratio := remaining.Div(front.shares)
		taken := front.cost.Mul(ratio)
		f.cost = f.cost.Add(taken)
		front.cost = front.cost.Sub(taken)
		front.shares = front.shares.Sub(remaining)
		remaining = decimal.Zero
	}

	if lotCount > 0 {
		f.holdingDays = lotDays.Div(decimal.NewFromInt(lotCount))
	}
	return f, nil
}

// openShares sums the shares across all open lots.
func (q *lotQueue) openShares() decimal.Decimal {
	var total decimal.Decimal
	for _, l := range q.lots {
		total = total.Add(l.shares)
	}
	return total
}

// openCost sums the remaining cost across all open lots.
func (q *lotQueue) openCost() decimal.Decimal {
	var total decimal.Decimal
	for _, l := range q.lots {
		total = total.Add(l.cost)
	}
	return total
}

// earliest returns the date of the oldest open lot.
func (q *lotQueue) earliest() Date {
	if len(q.lots) == 0 {
		return Date{}
	}
	return q.lots[0].date
}
