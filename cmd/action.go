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

// actionCmd records and removes corporate actions.
type actionCmd struct {
	symbol string
	kind   string
	date   string
	ratio  string
	note   string
	remove string
}

func (*actionCmd) Name() string     { return "action" }
func (*actionCmd) Synopsis() string { return "record a corporate action (bonus, split, reverse split)" }
func (*actionCmd) Usage() string {
	return `mahfaza action -i <symbol> -type <bonus|split|reverse_split> -ratio <n:d> [-d <date>] [-note <text>]
mahfaza action -i <symbol> -rm <action_id>

  Records a share-count adjustment. Ratios follow the exchange wording:
  a 1:2 bonus grants one free share for every two held; a 2:1 split
  turns every share into two. Actions scale shares, never cost.
`
}

func (c *actionCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "i", "", "Instrument symbol")
	f.StringVar(&c.kind, "type", "", "Action type (bonus, split, reverse_split)")
	f.StringVar(&c.date, "d", mahfaza.Today().String(), "Effective date")
	f.StringVar(&c.ratio, "ratio", "", "Ratio as n:d, e.g. 1:2")
	f.StringVar(&c.note, "note", "", "Free-form description of the announcement")
	f.StringVar(&c.remove, "rm", "", "Action id to delete")
}

func (c *actionCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		fmt.Fprintln(os.Stderr, "-i is required")
		return subcommands.ExitUsageError
	}
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	if c.remove != "" {
		if err := store.RemoveAction(c.symbol, c.remove); err != nil {
			return fail(err)
		}
		fmt.Printf("Removed action %s from %s\n", c.remove, c.symbol)
		return subcommands.ExitSuccess
	}

	if c.kind == "" || c.ratio == "" {
		fmt.Fprintln(os.Stderr, "-type and -ratio are required")
		return subcommands.ExitUsageError
	}
	kind, err := mahfaza.ParseActionKind(c.kind)
	if err != nil {
		return fail(err)
	}
	parts := strings.Split(c.ratio, ":")
	if len(parts) != 2 {
		fmt.Fprintln(os.Stderr, "invalid -ratio, want n:d")
		return subcommands.ExitUsageError
	}
	num, err := parseRatioTerm(parts[0], "ratio numerator")
	if err != nil {
		return fail(err)
	}
	den, err := parseRatioTerm(parts[1], "ratio denominator")
	if err != nil {
		return fail(err)
	}
	on, err := mahfaza.ParseDate(c.date)
	if err != nil {
		return fail(err)
	}
	a, err := store.AddAction(c.symbol, kind, on, num, den, c.note)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Recorded %s %d:%d on %s (action %s, multiplier %s)\n",
		a.Kind, a.RatioNum, a.RatioDen, c.symbol, a.ID, a.Multiplier())
	return subcommands.ExitSuccess
}
