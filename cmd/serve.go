package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alkhathlan/mahfaza"
	"github.com/google/subcommands"
)

// serveCmd runs the background price refresher until interrupted.
type serveCmd struct {
	prices   string
	interval time.Duration
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "run the background price refresher" }
func (*serveCmd) Usage() string {
	return `mahfaza serve -prices <file> [-interval <duration>]

  Periodically reads quotes from a JSON price file (a flat object of
  symbol to price, rewritten by any external feed) and stores them on
  the tracked positions. Runs until interrupted.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prices, "prices", "prices.json", "Path to the quote file")
	f.DurationVar(&c.interval, "interval", 5*time.Minute, "Refresh interval")
}

func (c *serveCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	store, err := openStore()
	if err != nil {
		return fail(err)
	}
	log := logger()
	source := mahfaza.FilePriceSource{Path: c.prices}
	refresher := mahfaza.NewRefresher(store, source, c.interval)

	scheduler := mahfaza.NewScheduler(log)
	if err := scheduler.AddJob(fmt.Sprintf("@every %s", c.interval), refresher); err != nil {
		return fail(err)
	}
	// A first sweep right away, the schedule only fires after one interval.
	if err := scheduler.RunNow(refresher); err != nil {
		log.Warn().Err(err).Msg("initial refresh failed")
	}
	scheduler.Start()
	defer scheduler.Stop()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	fmt.Println("shutting down")
	return subcommands.ExitSuccess
}
