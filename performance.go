package mahfaza

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Health classifies an open position by its unrealized percent.
type Health string

const (
	HealthExcellent Health = "excellent"
	HealthGood      Health = "good"
	HealthPositive  Health = "positive"
	HealthWarning   Health = "warning"
	HealthDanger    Health = "danger"
	HealthCritical  Health = "critical"
)

// Recommendation returns the fixed guidance text for the bucket.
func (h Health) Recommendation() string {
	switch h {
	case HealthExcellent:
		return "take partial profits or raise the stop"
	case HealthGood:
		return "hold and watch the resistance levels"
	case HealthPositive:
		return "hold, the trade is in the green"
	case HealthWarning:
		return "watch closely, approaching the danger zone"
	case HealthDanger:
		return "consider adding at support or placing a stop"
	default:
		return "reassess the position or accept the loss"
	}
}

// healthOf buckets an unrealized percent.
func healthOf(pct decimal.Decimal) Health {
	switch {
	case pct.GreaterThan(decimal.NewFromInt(20)):
		return HealthExcellent
	case pct.GreaterThan(decimal.NewFromInt(10)):
		return HealthGood
	case pct.IsPositive():
		return HealthPositive
	case pct.GreaterThan(decimal.NewFromInt(-10)):
		return HealthWarning
	case pct.GreaterThan(decimal.NewFromInt(-20)):
		return HealthDanger
	default:
		return HealthCritical
	}
}

// ClosedTrade is one FIFO-matched sell enriched with the dividends
// collected during the holding window. Win or loss is decided on
// TotalProfit, so a price loss can still be a net win once dividends
// count.
type ClosedTrade struct {
	Symbol        string
	Name          string
	Shares        Quantity
	AvgBuyPrice   Money
	SellPrice     Money
	BuyDate       Date   // earliest contributing lot
	LotDates      []Date // every contributing lot's acquisition date
	SellDate      Date
	HoldingDays   int // unweighted mean across contributing lots
	Cost          Money
	Proceeds      Money
	PriceProfit   Money
	Dividends     Money
	TotalProfit   Money
	ProfitPercent decimal.Decimal
	Reason        string
	Win           bool
}

// OpenHolding is a wallet's remaining FIFO lots in one instrument,
// valued against the last observed price.
type OpenHolding struct {
	Symbol            string
	Name              string
	Shares            Quantity
	AvgCost           Money
	CurrentPrice      Money
	Cost              Money
	Value             Money
	Unrealized        Money
	UnrealizedPercent decimal.Decimal
	Dividends         Money
	TotalReturn       Money
	FirstBuyDate      Date
	Health            Health
}

// WalletSummary aggregates a wallet's closed trades and open holdings.
type WalletSummary struct {
	Invested     Money
	CurrentValue Money
	Realized     Money
	Unrealized   Money
	Dividends    Money
	Fees         Money
	NetProfit    Money
	Trades       int
	Wins         int
	Losses       int
	WinRate      decimal.Decimal
	AvgWin       Money
	AvgLoss      Money
	OpenCount    int
}

// WalletPerformance is the full analytics output for one wallet.
type WalletPerformance struct {
	WalletID   string
	WalletName string
	Trades     []ClosedTrade
	Open       []OpenHolding
	Summary    WalletSummary
}

// Analyzer derives wallet-level trade analytics from the order
// history. It never mutates anything; every call replays from scratch.
type Analyzer struct {
	dividends *DividendBook
	log       zerolog.Logger
}

// NewAnalyzer creates an analyzer backed by the given dividend history.
func NewAnalyzer(dividends *DividendBook, log zerolog.Logger) *Analyzer {
	return &Analyzer{dividends: dividends, log: log}
}

// Wallet analyzes one wallet. The empty wallet id selects the orders
// that were never tagged with a wallet.
func (a *Analyzer) Wallet(walletID, walletName string, pf *Portfolio) WalletPerformance {
	perf := WalletPerformance{WalletID: walletID, WalletName: walletName}

	invested := decimal.Zero
	realized := decimal.Zero
	unrealized := decimal.Zero
	dividends := decimal.Zero
	fees := decimal.Zero
	winTotal := decimal.Zero
	lossTotal := decimal.Zero

	for _, p := range pf.Positions() {
		var orders []Order
		for _, o := range p.Orders {
			if o.WalletID == walletID {
				orders = append(orders, o)
			}
		}
		if len(orders) == 0 {
			continue
		}
		for _, o := range orders {
			fees = fees.Add(o.TotalFees().Decimal())
			if o.Side == Buy {
				invested = invested.Add(o.TotalCost().Decimal())
			}
		}

		matches, open, err := MatchFIFO(orders, p.Actions)
		if err != nil {
			a.log.Warn().Err(err).
				Str("wallet", walletID).
				Str("symbol", p.Symbol).
				Msg("partial lot history, trades beyond the underflow are skipped")
		}

		for _, m := range matches {
			divs, _ := a.dividends.ReceivedBetween(p.Symbol, m.Acquired, m.Sell.Date, m.Sell.Shares)
			priceProfit := m.PriceProfit()
			totalProfit := priceProfit.Add(divs)
			pct := totalProfit.Percent(m.CostOfSold)
			t := ClosedTrade{
				Symbol:        p.Symbol,
				Name:          p.Name,
				Shares:        m.Sell.Shares,
				AvgBuyPrice:   m.CostOfSold.Div(m.Sell.Shares).Round2(),
				SellPrice:     m.Sell.Price,
				BuyDate:       m.Acquired,
				LotDates:      m.LotDates,
				SellDate:      m.Sell.Date,
				HoldingDays:   int(m.HoldingDays.Round(0).IntPart()),
				Cost:          m.CostOfSold.Round2(),
				Proceeds:      m.Proceeds.Round2(),
				PriceProfit:   priceProfit.Round2(),
				Dividends:     divs.Round2(),
				TotalProfit:   totalProfit.Round2(),
				ProfitPercent: pct.Round(2),
				Reason:        tradeReason(priceProfit, divs, pct, m.HoldingDays),
				Win:           !totalProfit.IsNegative(),
			}
			perf.Trades = append(perf.Trades, t)

			realized = realized.Add(priceProfit.Decimal())
			dividends = dividends.Add(divs.Decimal())
			if t.Win {
				perf.Summary.Wins++
				winTotal = winTotal.Add(totalProfit.Decimal())
			} else {
				perf.Summary.Losses++
				lossTotal = lossTotal.Add(totalProfit.Decimal())
			}
		}

		if len(open) > 0 {
			perf.Open = append(perf.Open, a.openHolding(p, open))
			last := perf.Open[len(perf.Open)-1]
			unrealized = unrealized.Add(last.Unrealized.Decimal())
			dividends = dividends.Add(last.Dividends.Decimal())
		}
	}

	// Newest exits first.
	sort.SliceStable(perf.Trades, func(i, j int) bool {
		return perf.Trades[j].SellDate.Before(perf.Trades[i].SellDate)
	})

	s := &perf.Summary
	s.Invested = Money{value: invested}.Round2()
	s.Realized = Money{value: realized}.Round2()
	s.Unrealized = Money{value: unrealized}.Round2()
	s.Dividends = Money{value: dividends}.Round2()
	s.Fees = Money{value: fees}.Round2()
	s.NetProfit = Money{value: realized.Add(unrealized).Add(dividends)}.Round2()
	s.Trades = s.Wins + s.Losses
	s.OpenCount = len(perf.Open)
	for _, o := range perf.Open {
		s.CurrentValue = s.CurrentValue.Add(o.Value)
	}
	if s.Trades > 0 {
		s.WinRate = decimal.NewFromInt(int64(s.Wins)).
			Div(decimal.NewFromInt(int64(s.Trades))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	if s.Wins > 0 {
		s.AvgWin = Money{value: winTotal.Div(decimal.NewFromInt(int64(s.Wins)))}.Round2()
	}
	if s.Losses > 0 {
		s.AvgLoss = Money{value: lossTotal.Div(decimal.NewFromInt(int64(s.Losses)))}.Round2()
	}
	return perf
}

// openHolding values the remaining lots of one instrument.
func (a *Analyzer) openHolding(p *Position, open []Lot) OpenHolding {
	shares := decimal.Zero
	cost := decimal.Zero
	first := open[0].Date
	for _, l := range open {
		shares = shares.Add(l.Shares.Decimal())
		cost = cost.Add(l.Cost.Decimal())
		if l.Date.Before(first) {
			first = l.Date
		}
	}
	qty := Quantity{value: shares}
	costM := Money{value: cost}
	value := p.CurrentPrice.Mul(qty)
	unrealized := value.Sub(costM)
	pct := unrealized.Percent(costM)
	divs, _ := a.dividends.Received(p.Symbol, first, qty)

	avg := M(0)
	if !qty.IsZero() {
		avg = costM.Div(qty)
	}
	return OpenHolding{
		Symbol:            p.Symbol,
		Name:              p.Name,
		Shares:            qty,
		AvgCost:           avg.Round2(),
		CurrentPrice:      p.CurrentPrice,
		Cost:              costM.Round2(),
		Value:             value.Round2(),
		Unrealized:        unrealized.Round2(),
		UnrealizedPercent: pct.Round(2),
		Dividends:         divs.Round2(),
		TotalReturn:       unrealized.Add(divs).Round2(),
		FirstBuyDate:      first,
		Health:            healthOf(pct),
	}
}

// AllWallets analyzes every wallet in the book plus the untagged
// bucket, and returns the per-wallet results with an overall rollup.
func (a *Analyzer) AllWallets(book *WalletBook, pf *Portfolio) ([]WalletPerformance, WalletSummary) {
	var results []WalletPerformance
	for _, w := range book.Wallets() {
		results = append(results, a.Wallet(w.ID, w.Name, pf))
	}
	untagged := a.Wallet("", "unassigned", pf)
	if untagged.Summary.Trades > 0 || untagged.Summary.OpenCount > 0 {
		results = append(results, untagged)
	}

	var overall WalletSummary
	for _, r := range results {
		s := r.Summary
		overall.Invested = overall.Invested.Add(s.Invested)
		overall.CurrentValue = overall.CurrentValue.Add(s.CurrentValue)
		overall.Realized = overall.Realized.Add(s.Realized)
		overall.Unrealized = overall.Unrealized.Add(s.Unrealized)
		overall.Dividends = overall.Dividends.Add(s.Dividends)
		overall.Fees = overall.Fees.Add(s.Fees)
		overall.NetProfit = overall.NetProfit.Add(s.NetProfit)
		overall.Trades += s.Trades
		overall.Wins += s.Wins
		overall.Losses += s.Losses
		overall.OpenCount += s.OpenCount
	}
	if overall.Trades > 0 {
		overall.WinRate = decimal.NewFromInt(int64(overall.Wins)).
			Div(decimal.NewFromInt(int64(overall.Trades))).
			Mul(decimal.NewFromInt(100)).Round(2)
	}
	return results, overall
}

// tradeReason explains a closed trade with an ordered decision table.
// The ladder branches on the sign of the price profit; the dividend
// rungs are what let a price loss read as a net win.
func tradeReason(priceProfit, dividends Money, profitPercent, avgHoldingDays decimal.Decimal) string {
	d30 := decimal.NewFromInt(30)
	if !priceProfit.IsNegative() {
		switch {
		case profitPercent.GreaterThan(decimal.NewFromInt(20)):
			return "excellent profit, a very successful trade"
		case profitPercent.GreaterThan(decimal.NewFromInt(10)):
			return "good profit, well-timed exit"
		case dividends.IsPositive() && dividends.Decimal().GreaterThan(priceProfit.Decimal().Mul(decimal.NewFromFloat(0.3))):
			return fmt.Sprintf("profit supported by dividends (%s %s)", dividends.Round2().Decimal(), Currency)
		case avgHoldingDays.LessThan(d30):
			return "quick profit, successful short-term trade"
		default:
			return "reasonable profit, sound investment"
		}
	}
	total := priceProfit.Add(dividends)
	switch {
	case !total.IsNegative():
		return fmt.Sprintf("price loss offset by dividends (%s %s)", dividends.Round2().Decimal(), Currency)
	case dividends.IsPositive():
		reduction := dividends.Decimal().Div(priceProfit.Decimal().Abs()).Mul(decimal.NewFromInt(100))
		return fmt.Sprintf("dividends reduced the loss by %s%%", reduction.Round(0))
	case avgHoldingDays.LessThan(d30):
		return "hasty sale, price was not given time to recover"
	case profitPercent.LessThan(decimal.NewFromInt(-20)):
		return "large loss, likely a stop-loss exit"
	default:
		return "loss, poorly timed exit"
	}
}
