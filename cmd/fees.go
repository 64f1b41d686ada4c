package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/alkhathlan/mahfaza"
)

// feesCmd previews order fees and updates the fee settings.
type feesCmd struct {
	notional   string
	commission string
	tax        string
}

func (*feesCmd) Name() string     { return "fees" }
func (*feesCmd) Synopsis() string { return "preview order fees or update the fee rates" }
func (*feesCmd) Usage() string {
	return `mahfaza fees -notional <amount>                 preview fees on a trade value
mahfaza fees -commission <rate> -tax <rate>     update the persisted rates
mahfaza fees                                    show the current rates

  Commission is charged on the trade notional; tax is charged on the
  commission. Rate updates only affect orders placed afterwards.
`
}

func (c *feesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.notional, "notional", "", "Trade value to preview fees for")
	f.StringVar(&c.commission, "commission", "", "New commission rate as a fraction, e.g. 0.00155")
	f.StringVar(&c.tax, "tax", "", "New tax rate on commission as a fraction, e.g. 0.15")
}

func (c *feesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	if c.commission != "" || c.tax != "" {
		schedule := store.Settings()
		if c.commission != "" {
			rate, err := decimal.NewFromString(c.commission)
			if err != nil {
				return fail(fmt.Errorf("invalid commission rate %q: %w", c.commission, err))
			}
			schedule.CommissionRate = rate
		}
		if c.tax != "" {
			rate, err := decimal.NewFromString(c.tax)
			if err != nil {
				return fail(fmt.Errorf("invalid tax rate %q: %w", c.tax, err))
			}
			schedule.TaxRate = rate
		}
		if err := store.UpdateSettings(schedule); err != nil {
			return fail(err)
		}
		fmt.Printf("Rates updated: commission %s, tax %s\n", schedule.CommissionRate, schedule.TaxRate)
		return subcommands.ExitSuccess
	}

	if c.notional != "" {
		notional, err := parseMoney(c.notional, "notional")
		if err != nil {
			return fail(err)
		}
		fees := store.PreviewFees(notional)
		fmt.Printf("Notional %s: commission %s, tax %s, total %s\n",
			notional.Decimal(), fees.Commission.Decimal(), fees.Tax.Decimal(), fees.Total().Decimal())
		return subcommands.ExitSuccess
	}

	schedule := store.Settings()
	fmt.Printf("Commission rate %s, tax rate %s (defaults %s / %s)\n",
		schedule.CommissionRate, schedule.TaxRate,
		mahfaza.DefaultCommissionRate, mahfaza.DefaultTaxRate)
	return subcommands.ExitSuccess
}
