package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

// positionsCmd holds the flags for the 'positions' subcommand.
type positionsCmd struct{}

func (*positionsCmd) Name() string     { return "positions" }
func (*positionsCmd) Synopsis() string { return "show all positions and portfolio totals" }
func (*positionsCmd) Usage() string {
	return `mahfaza positions

  Shows every tracked position with its action-adjusted share count,
  weighted-average cost and unrealized profit against the last
  observed price.
`
}

func (c *positionsCmd) SetFlags(f *flag.FlagSet) {}

func (c *positionsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	positions := store.Positions()
	if len(positions) == 0 {
		fmt.Println("No positions tracked yet.")
		return subcommands.ExitSuccess
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Positions\n\n")
	fmt.Fprintln(&b, "| Symbol | Name | Shares | Avg Cost | Cost | Price | Value | Unrealized | % | Bonus | Wallet |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|---:|---:|:---|")
	for _, p := range positions {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s%% | %s | %s |\n",
			p.Symbol, p.Name, p.Shares,
			p.AvgCost.Decimal(), p.TotalCost.Decimal(),
			p.CurrentPrice.Decimal(), p.MarketValue.Decimal(),
			p.Unrealized.Decimal(), p.UnrealizedPercent,
			p.BonusShares, p.DominantWalletID)
	}
	cost, value, unrealized := store.Totals()
	fmt.Fprintf(&b, "\nTotal cost %s, value %s, unrealized %s.\n",
		cost.Decimal(), value.Decimal(), unrealized.Decimal())
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
