package cmd

import (
	"context"
	"flag"

	"github.com/alkhathlan/mahfaza"
	"github.com/google/subcommands"
)

// sellCmd holds the flags for the 'sell' subcommand.
type sellCmd struct {
	symbol string
	shares string
	price  string
	date   string
	wallet string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sell order" }
func (*sellCmd) Usage() string {
	return `mahfaza sell -i <symbol> -q <shares> -p <price> [-d <date>] [-w <wallet_id>]

  Records a sell order. Selling more shares than the position holds is
  rejected and leaves the ledger untouched. Net proceeds (notional minus
  fees) are credited to the funding wallet.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "i", "", "Instrument symbol")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.date, "d", mahfaza.Today().String(), "Trade date")
	f.StringVar(&c.wallet, "w", "", "Funding wallet id")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return placeOrder(mahfaza.Sell, c.symbol, "", c.shares, c.price, c.date, c.wallet)
}
