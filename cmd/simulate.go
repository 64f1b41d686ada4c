package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

// simulateCmd prices a hypothetical sell without mutating the ledger.
type simulateCmd struct {
	symbol string
	shares string
	price  string
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "what-if pricing of a sell, nothing is recorded" }
func (*simulateCmd) Usage() string {
	return `mahfaza simulate -i <symbol> -q <shares> -p <price>

  Prices a hypothetical sell against the position's current
  weighted-average cost, including fees and net proceeds. The ledger
  is not modified.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "i", "", "Instrument symbol")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Assumed price per share")
}

func (c *simulateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" || c.shares == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "-i, -q and -p are required")
		return subcommands.ExitUsageError
	}
	qty, err := parseShares(c.shares)
	if err != nil {
		return fail(err)
	}
	unit, err := parseMoney(c.price, "price")
	if err != nil {
		return fail(err)
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	sim, err := store.SimulateSell(c.symbol, qty, unit)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Selling %s of %s at %s:\n", sim.Shares, sim.Symbol, sim.Price.Decimal())
	fmt.Printf("  notional      %s\n", sim.Notional.Decimal())
	fmt.Printf("  commission    %s\n", sim.Fees.Commission.Decimal())
	fmt.Printf("  tax           %s\n", sim.Fees.Tax.Decimal())
	fmt.Printf("  net proceeds  %s\n", sim.NetProceeds.Decimal())
	fmt.Printf("  avg cost      %s\n", sim.AvgCost.Decimal())
	fmt.Printf("  cost basis    %s\n", sim.CostBasis.Decimal())
	fmt.Printf("  profit        %s (%s%%)\n", sim.Profit.Decimal(), sim.ProfitPercent)
	return subcommands.ExitSuccess
}
