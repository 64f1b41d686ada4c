package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/alkhathlan/mahfaza"
	"github.com/google/subcommands"
)

// buyCmd holds the flags for the 'buy' subcommand.
type buyCmd struct {
	symbol string
	name   string
	shares string
	price  string
	date   string
	wallet string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a buy order" }
func (*buyCmd) Usage() string {
	return `mahfaza buy -i <symbol> -q <shares> -p <price> [-n <name>] [-d <date>] [-w <wallet_id>]

  Records a buy order. Commission and tax are computed from the current
  fee settings, and the funding wallet's buying power is reduced by the
  total cost.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "i", "", "Instrument symbol (e.g. 2222)")
	f.StringVar(&c.name, "n", "", "Instrument display name, used when the symbol is new")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.date, "d", mahfaza.Today().String(), "Trade date")
	f.StringVar(&c.wallet, "w", "", "Funding wallet id")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return placeOrder(mahfaza.Buy, c.symbol, c.name, c.shares, c.price, c.date, c.wallet)
}

func placeOrder(side mahfaza.Side, symbol, name, shares, price, date, wallet string) subcommands.ExitStatus {
	if symbol == "" || shares == "" || price == "" {
		fmt.Fprintln(os.Stderr, "-i, -q and -p are required")
		return subcommands.ExitUsageError
	}
	qty, err := parseShares(shares)
	if err != nil {
		return fail(err)
	}
	unit, err := parseMoney(price, "price")
	if err != nil {
		return fail(err)
	}
	on, err := mahfaza.ParseDate(date)
	if err != nil {
		return fail(err)
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	o, err := store.PlaceOrder(symbol, name, side, qty, unit, on, wallet)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s %s of %s at %s (order %s, fees %s)\n",
		o.Side, o.Shares, symbol, o.Price.Decimal(), o.ID, o.TotalFees().Round2().Decimal())
	return subcommands.ExitSuccess
}
