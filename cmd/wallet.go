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

// walletCmd manages the wallet book.
type walletCmd struct {
	create   string
	broker   string
	strategy string
	account  string
	desc     string
	initial  string
	remove   string
	rename   string
	name     string
	deposit  string
	withdraw string
	set      string
	amount   string
}

func (*walletCmd) Name() string     { return "wallet" }
func (*walletCmd) Synopsis() string { return "create, list and fund wallets" }
func (*walletCmd) Usage() string {
	return `mahfaza wallet [-strategy <s>]                 list wallets, optionally by strategy
mahfaza wallet -create <name> [-broker <b>] [-strategy <s>] [-account <n>] [-desc <text>] [-initial <amount>]
mahfaza wallet -rename <id> -name <new_name>
mahfaza wallet -deposit <id> -amount <amount>
mahfaza wallet -withdraw <id> -amount <amount>
mahfaza wallet -set <id> -amount <amount>      overwrite buying power
mahfaza wallet -rm <id>

  Wallets are broker accounts holding buying power. Orders placed with
  -w tag the wallet that funded them, which drives the per-wallet
  report. Strategy is one of speculative, balanced or long_term and
  defaults to balanced.
`
}

func (c *walletCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.create, "create", "", "Create a wallet with this name")
	f.StringVar(&c.broker, "broker", "", "Broker name for -create")
	f.StringVar(&c.strategy, "strategy", "", "Strategy tag (speculative, balanced or long_term): set with -create, filter on list")
	f.StringVar(&c.account, "account", "", "Broker account number for -create")
	f.StringVar(&c.desc, "desc", "", "Free-form description for -create")
	f.StringVar(&c.initial, "initial", "0", "Initial buying power for -create")
	f.StringVar(&c.remove, "rm", "", "Wallet id to delete")
	f.StringVar(&c.rename, "rename", "", "Wallet id to rename")
	f.StringVar(&c.name, "name", "", "New name for -rename")
	f.StringVar(&c.deposit, "deposit", "", "Wallet id to deposit into")
	f.StringVar(&c.withdraw, "withdraw", "", "Wallet id to withdraw from")
	f.StringVar(&c.set, "set", "", "Wallet id whose buying power to overwrite")
	f.StringVar(&c.amount, "amount", "", "Amount for -deposit, -withdraw or -set")
}

func (c *walletCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	switch {
	case c.create != "":
		initial, err := parseMoney(c.initial, "initial buying power")
		if err != nil {
			return fail(err)
		}
		w, err := store.CreateWallet(mahfaza.WalletInfo{
			Name:          c.create,
			Broker:        c.broker,
			Strategy:      c.strategy,
			AccountNumber: c.account,
			Description:   c.desc,
			Initial:       initial,
		})
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Created %s wallet %s (%s) with buying power %s\n", w.Strategy, w.ID, w.Name, w.BuyingPower.Decimal())
	case c.remove != "":
		if err := store.RemoveWallet(c.remove); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed wallet %s\n", c.remove)
	case c.rename != "":
		if err := store.RenameWallet(c.rename, c.name); err != nil {
			return fail(err)
		}
		fmt.Printf("Renamed wallet %s to %s\n", c.rename, c.name)
	case c.deposit != "" || c.withdraw != "" || c.set != "":
		return c.adjust(store)
	case c.strategy != "":
		c.render(store.WalletsByStrategy(c.strategy))
	default:
		c.render(store.Wallets())
	}
	return subcommands.ExitSuccess
}

func (c *walletCmd) adjust(store *mahfaza.Store) subcommands.ExitStatus {
	if c.amount == "" {
		fmt.Fprintln(os.Stderr, "-amount is required")
		return subcommands.ExitUsageError
	}
	amount, err := parseMoney(c.amount, "amount")
	if err != nil {
		return fail(err)
	}
	switch {
	case c.deposit != "":
		w, err := store.AdjustWallet(c.deposit, amount)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Wallet %s buying power is now %s\n", w.ID, w.BuyingPower.Decimal())
	case c.withdraw != "":
		w, err := store.AdjustWallet(c.withdraw, amount.Neg())
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Wallet %s buying power is now %s\n", w.ID, w.BuyingPower.Decimal())
	case c.set != "":
		w, err := store.SetBuyingPower(c.set, amount)
		if err != nil {
			return fail(err)
		}
		fmt.Printf("Wallet %s buying power set to %s\n", w.ID, w.BuyingPower.Decimal())
	}
	return subcommands.ExitSuccess
}

func (c *walletCmd) render(wallets []mahfaza.Wallet) {
	if len(wallets) == 0 {
		fmt.Println("No wallets yet. Create one with: mahfaza wallet -create <name>")
		return
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Wallets\n\n")
	fmt.Fprintln(&b, "| ID | Name | Broker | Account | Strategy | Buying Power | Created |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|---:|:---|")
	for _, w := range wallets {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			w.ID, w.Name, w.Broker, w.AccountNumber, w.Strategy,
			w.BuyingPower.Round2().Decimal(), w.CreatedAt.Format("2006-01-02"))
	}
	printMarkdown(b.String())
}
