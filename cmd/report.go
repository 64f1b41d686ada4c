package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/alkhathlan/mahfaza"
	"github.com/google/subcommands"
)

// reportCmd renders the wallet performance report.
type reportCmd struct {
	wallet string
	all    bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "wallet trade performance report" }
func (*reportCmd) Usage() string {
	return `mahfaza report -w <wallet_id>
mahfaza report -all

  Replays each wallet's orders under FIFO lot matching and reports
  closed trades (with dividends collected while holding), open
  positions with a health status, and summary statistics including the
  win rate. A trade is a win when price profit plus dividends is not
  negative.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.wallet, "w", "", "Wallet id to report on (empty selects untagged orders)")
	f.BoolVar(&c.all, "all", false, "Report on every wallet plus an overall rollup")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	var b strings.Builder
	if c.all {
		results, overall := store.AllPerformance()
		for i := range results {
			writePerformance(&b, &results[i])
		}
		fmt.Fprintf(&b, "# Overall\n\n")
		writeSummary(&b, overall)
	} else {
		perf, err := store.Performance(c.wallet)
		if err != nil {
			return fail(err)
		}
		writePerformance(&b, &perf)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

func writePerformance(b *strings.Builder, p *mahfaza.WalletPerformance) {
	fmt.Fprintf(b, "# Wallet %s", p.WalletName)
	if p.WalletID != "" {
		fmt.Fprintf(b, " (%s)", p.WalletID)
	}
	fmt.Fprintf(b, "\n\n")

	if len(p.Trades) > 0 {
		fmt.Fprintf(b, "## Closed trades\n\n")
		fmt.Fprintln(b, "| Symbol | Shares | Bought | Sold | Days | Cost | Proceeds | Price P/L | Dividends | Total P/L | % | Outcome |")
		fmt.Fprintln(b, "|:---|---:|:---|:---|---:|---:|---:|---:|---:|---:|---:|:---|")
		for _, t := range p.Trades {
			outcome := "loss"
			if t.Win {
				outcome = "win"
			}
			fmt.Fprintf(b, "| %s | %s | %s | %s | %d | %s | %s | %s | %s | %s | %s%% | %s |\n",
				t.Symbol, t.Shares, t.BuyDate, t.SellDate, t.HoldingDays,
				t.Cost.Decimal(), t.Proceeds.Decimal(), t.PriceProfit.Decimal(),
				t.Dividends.Decimal(), t.TotalProfit.Decimal(), t.ProfitPercent, outcome)
		}
		fmt.Fprintf(b, "\n")
		for _, t := range p.Trades {
			fmt.Fprintf(b, "- %s on %s: %s\n", t.Symbol, t.SellDate, t.Reason)
		}
		fmt.Fprintf(b, "\n")
	}

	if len(p.Open) > 0 {
		fmt.Fprintf(b, "## Open positions\n\n")
		fmt.Fprintln(b, "| Symbol | Shares | Avg Cost | Price | Value | Unrealized | % | Dividends | Status |")
		fmt.Fprintln(b, "|:---|---:|---:|---:|---:|---:|---:|---:|:---|")
		for _, o := range p.Open {
			fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s%% | %s | %s |\n",
				o.Symbol, o.Shares, o.AvgCost.Decimal(), o.CurrentPrice.Decimal(),
				o.Value.Decimal(), o.Unrealized.Decimal(), o.UnrealizedPercent,
				o.Dividends.Decimal(), o.Health)
		}
		fmt.Fprintf(b, "\n")
		for _, o := range p.Open {
			fmt.Fprintf(b, "- %s (%s): %s\n", o.Symbol, o.Health, o.Health.Recommendation())
		}
		fmt.Fprintf(b, "\n")
	}

	writeSummary(b, p.Summary)
}

func writeSummary(b *strings.Builder, s mahfaza.WalletSummary) {
	fmt.Fprintf(b, "## Summary\n\n")
	fmt.Fprintf(b, "- Invested: %s\n", s.Invested.Decimal())
	fmt.Fprintf(b, "- Current value: %s\n", s.CurrentValue.Decimal())
	fmt.Fprintf(b, "- Realized P/L: %s\n", s.Realized.Decimal())
	fmt.Fprintf(b, "- Unrealized P/L: %s\n", s.Unrealized.Decimal())
	fmt.Fprintf(b, "- Dividends: %s\n", s.Dividends.Decimal())
	fmt.Fprintf(b, "- Fees paid: %s\n", s.Fees.Decimal())
	fmt.Fprintf(b, "- Net P/L: %s\n", s.NetProfit.Decimal())
	fmt.Fprintf(b, "- Trades: %d (%d wins, %d losses, win rate %s%%)\n",
		s.Trades, s.Wins, s.Losses, s.WinRate)
	fmt.Fprintf(b, "- Average win %s, average loss %s\n", s.AvgWin.Decimal(), s.AvgLoss.Decimal())
	fmt.Fprintf(b, "- Open positions: %d\n\n", s.OpenCount)
}
