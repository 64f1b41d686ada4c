package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/alkhathlan/mahfaza"
	"github.com/google/subcommands"
)

// realizedCmd renders the average-cost realized report for a symbol.
type realizedCmd struct {
	symbol string
}

func (*realizedCmd) Name() string     { return "realized" }
func (*realizedCmd) Synopsis() string { return "realized profit per sell under average cost" }
func (*realizedCmd) Usage() string {
	return `mahfaza realized -i <symbol>

  Lists every sell priced against the weighted-average cost per share
  at the moment of the sale. This is the position-level view; the
  per-wallet 'report' command matches the same sells against FIFO lots
  instead, and the two deliberately answer different questions.
`
}

func (c *realizedCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "i", "", "Instrument symbol")
}

func (c *realizedCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "-i is required")
		return subcommands.ExitUsageError
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	sales, err := store.RealizedReport(c.symbol)
	if err != nil {
		return fail(err)
	}
	if len(sales) == 0 {
		fmt.Printf("No sells recorded on %s.\n", c.symbol)
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Realized P/L — %s (average cost)\n\n", c.symbol)
	fmt.Fprintln(&b, "| Date | Shares | Price | Avg Cost | Proceeds | Basis | Profit |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|---:|")
	total := mahfaza.M(0)
	for _, s := range sales {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			s.Date, s.Shares, s.Price.Decimal(), s.AvgCost.Round2().Decimal(),
			s.Proceeds.Round2().Decimal(), s.Basis.Round2().Decimal(), s.Profit.Round2().Decimal())
		total = total.Add(s.Profit)
	}
	fmt.Fprintf(&b, "\nTotal realized: %s\n", total.Round2().Decimal())
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
