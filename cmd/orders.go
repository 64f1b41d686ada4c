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

// ordersCmd lists, removes and corrects orders on one symbol.
type ordersCmd struct {
	symbol string
	remove string
	update string

	side       string
	shares     string
	price      string
	date       string
	wallet     string
	commission string
	tax        string
}

func (*ordersCmd) Name() string     { return "orders" }
func (*ordersCmd) Synopsis() string { return "list, remove or correct orders on a symbol" }
func (*ordersCmd) Usage() string {
	return `mahfaza orders -i <symbol> [-rm <order_id>] [-update <order_id> -type <buy|sell> -q <shares> -p <price> [-d <date>] [-w <wallet_id>] [-commission <amount> -tax <amount>]]

  Without -rm or -update, lists the symbol's full order history.
  -rm deletes an order and reverts its buying power effect; the removal
  is rejected if the remaining history would oversell.
  -update corrects an order in place. Fees are recomputed from the
  schedule unless -commission and -tax state the charged amounts.
`
}

func (c *ordersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "i", "", "Instrument symbol")
	f.StringVar(&c.remove, "rm", "", "Order id to delete")
	f.StringVar(&c.update, "update", "", "Order id to correct in place")
	f.StringVar(&c.side, "type", "", "Corrected order type (buy or sell)")
	f.StringVar(&c.shares, "q", "", "Corrected number of shares")
	f.StringVar(&c.price, "p", "", "Corrected price per share")
	f.StringVar(&c.date, "d", mahfaza.Today().String(), "Corrected trade date")
	f.StringVar(&c.wallet, "w", "", "Corrected funding wallet id")
	f.StringVar(&c.commission, "commission", "", "Exact commission charged, skips recomputation")
	f.StringVar(&c.tax, "tax", "", "Exact tax charged, skips recomputation")
}

func (c *ordersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "-i is required")
		return subcommands.ExitUsageError
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	switch {
	case c.remove != "":
		if err := store.RemoveOrder(c.symbol, c.remove); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed order %s from %s\n", c.remove, c.symbol)
		return subcommands.ExitSuccess
	case c.update != "":
		return c.correct(store)
	default:
		return c.list(store)
	}
}

func (c *ordersCmd) correct(store *mahfaza.Store) subcommands.ExitStatus {
	if c.side == "" || c.shares == "" || c.price == "" {
		fmt.Fprintln(os.Stderr, "-type, -q and -p are required with -update")
		return subcommands.ExitUsageError
	}
	side, err := mahfaza.ParseSide(c.side)
	if err != nil {
		return fail(err)
	}
	qty, err := parseShares(c.shares)
	if err != nil {
		return fail(err)
	}
	unit, err := parseMoney(c.price, "price")
	if err != nil {
		return fail(err)
	}
	on, err := mahfaza.ParseDate(c.date)
	if err != nil {
		return fail(err)
	}
	var o mahfaza.Order
	if c.commission != "" || c.tax != "" {
		if c.commission == "" || c.tax == "" {
			fmt.Fprintln(os.Stderr, "-commission and -tax go together")
			return subcommands.ExitUsageError
		}
		commission, err := parseMoney(c.commission, "commission")
		if err != nil {
			return fail(err)
		}
		tax, err := parseMoney(c.tax, "tax")
		if err != nil {
			return fail(err)
		}
		o, err = store.UpdateOrderWithFees(c.symbol, c.update, side, qty, unit, on, c.wallet, commission, tax)
		if err != nil {
			return fail(err)
		}
	} else {
		o, err = store.UpdateOrder(c.symbol, c.update, side, qty, unit, on, c.wallet)
		if err != nil {
			return fail(err)
		}
	}
	fmt.Printf("Updated order %s: %s %s at %s on %s (fees %s)\n",
		o.ID, o.Side, o.Shares, o.Price.Decimal(), o.Date, o.TotalFees().Round2().Decimal())
	return subcommands.ExitSuccess
}

func (c *ordersCmd) list(store *mahfaza.Store) subcommands.ExitStatus {
	summary, orders, actions, err := store.PositionDetail(c.symbol)
	if err != nil {
		return fail(err)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — %s\n\n", summary.Symbol, summary.Name)
	fmt.Fprintln(&b, "| Order | Type | Date | Shares | Price | Commission | Tax | Total | Wallet |")
	fmt.Fprintln(&b, "|:---|:---|:---|---:|---:|---:|---:|---:|:---|")
	for _, o := range orders {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			o.ID, o.Side, o.Date, o.Shares, o.Price.Decimal(),
			o.Commission.Decimal(), o.Tax.Decimal(), o.TotalCost().Round2().Decimal(), o.WalletID)
	}
	if len(actions) > 0 {
		fmt.Fprintf(&b, "\n## Corporate actions\n\n")
		fmt.Fprintln(&b, "| Action | Type | Date | Ratio |")
		fmt.Fprintln(&b, "|:---|:---|:---|:---|")
		for _, a := range actions {
			fmt.Fprintf(&b, "| %s | %s | %s | %d:%d |\n", a.ID, a.Kind, a.Date, a.RatioNum, a.RatioDen)
		}
	}
	fmt.Fprintf(&b, "\nHolding %s shares at average cost %s.\n",
		summary.Shares, summary.AvgCost.Decimal())
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
