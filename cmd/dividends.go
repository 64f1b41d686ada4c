package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

// dividendsCmd renders the portfolio-wide dividend report.
type dividendsCmd struct{}

func (*dividendsCmd) Name() string     { return "dividends" }
func (*dividendsCmd) Synopsis() string { return "dividends received and projected per position" }
func (*dividendsCmd) Usage() string {
	return `mahfaza dividends

  Attributes historical per-share distributions to each held position
  (events dated on or after its earliest remaining acquisition) and
  projects the next expected distribution from the payer's frequency.
`
}

func (c *dividendsCmd) SetFlags(f *flag.FlagSet) {}

func (c *dividendsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	rows := store.DividendReport()
	if len(rows) == 0 {
		fmt.Println("No held positions.")
		return subcommands.ExitSuccess
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Dividends\n\n")
	fmt.Fprintln(&b, "| Symbol | Name | Shares | Received | Next expected | Per share |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|---:|")
	for _, r := range rows {
		next, perShare := "-", "-"
		if r.HasNext {
			next = r.Upcoming.ExpectedDate.String()
			perShare = r.Upcoming.ExpectedAmt.Decimal().String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			r.Symbol, r.Name, r.Shares, r.Received.Decimal(), next, perShare)
	}
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}
