// Package cmd implements the CLI application to manage the wallet ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/alkhathlan/mahfaza"
	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Register registers every subcommand on the commander. A main package
// calls Register() and then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")
	c.Register(&simulateCmd{}, "trading")

	c.Register(&positionsCmd{}, "portfolio")
	c.Register(&ordersCmd{}, "portfolio")
	c.Register(&actionCmd{}, "portfolio")
	c.Register(&realizedCmd{}, "portfolio")
	c.Register(&dividendsCmd{}, "portfolio")

	c.Register(&walletCmd{}, "wallets")
	c.Register(&reportCmd{}, "wallets")

	c.Register(&feesCmd{}, "settings")
	c.Register(&serveCmd{}, "background")
}

// as a CLI application it has a very short lived lifecycle, so it is ok
// to use global variables.

var dataDir = flag.String("dir", defaultDataDir(), "Path to the ledger directory")

func defaultDataDir() string {
	if dir := os.Getenv("MAHFAZA_DIR"); dir != "" {
		return dir
	}
	return ".mahfaza"
}

// logger builds the CLI logger. Console output, level from MAHFAZA_LOG.
func logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if l, err := zerolog.ParseLevel(os.Getenv("MAHFAZA_LOG")); err == nil && l != zerolog.NoLevel {
		level = l
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// openStore loads the ledger from the app data directory.
func openStore() (*mahfaza.Store, error) {
	return mahfaza.Open(*dataDir, logger())
}

// printMarkdown renders markdown for the terminal. When rendering
// fails the raw markdown is still readable, so print it as is.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

func parseMoney(s, field string) (mahfaza.Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return mahfaza.M(0), fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return mahfaza.M(d), nil
}

func parseShares(s string) (mahfaza.Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return mahfaza.Q(0), fmt.Errorf("invalid share count %q: %w", s, err)
	}
	return mahfaza.Q(d), nil
}

func parseRatioTerm(s, field string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", field, s, err)
	}
	return n, nil
}

// fail prints the error and maps it to an exit status.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, "Error:", err)
	return subcommands.ExitFailure
}
