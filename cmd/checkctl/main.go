// checkctl runs one-shot checks from the command line: either a single
// URL, or a full batch over the stored product list.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/restockd/restockd/internal/config"
	"github.com/restockd/restockd/internal/detect"
	"github.com/restockd/restockd/internal/extract"
	"github.com/restockd/restockd/internal/fetch"
	"github.com/restockd/restockd/internal/monitor"
	"github.com/restockd/restockd/internal/notify"
	"github.com/restockd/restockd/internal/siteconfig"
	"github.com/restockd/restockd/internal/store"
)

func main() {
	var (
		singleURL = flag.String("url", "", "check a single URL instead of the stored list")
		timeout   = flag.Duration("timeout", 5*time.Minute, "overall run timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	resolver, err := siteconfig.LoadFile(cfg.Checker.SiteConfigFile)
	if err != nil {
		logger.Error("failed to load site configs", "error", err)
		os.Exit(1)
	}

	fetcher := fetch.New(fetch.Options{
		Timeout:   cfg.Checker.FetchTimeout,
		UserAgent: cfg.Checker.UserAgent,
	})
	engine := extract.NewEngine(resolver, fetcher, cfg.Checker.CacheTTL, logger)

	if *singleURL != "" {
		result, err := engine.Check(ctx, *singleURL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "check failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("%s\tavailable=%t\tprice=%s\n", *singleURL, result.Available, orDash(result.Price))
		return
	}

	productStore, err := store.NewFileStore(cfg.Store.ProductFile)
	if err != nil {
		logger.Error("failed to open product file", "error", err)
		os.Exit(1)
	}

	mon := monitor.New(productStore, engine, notify.NewLogNotifier(logger), logger, monitor.Options{
		ConcurrentLimit: cfg.Checker.ConcurrentLimit,
		PacingDelay:     cfg.Checker.PacingDelay,
	})

	reports, err := mon.CheckAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "batch check failed: %v\n", err)
		os.Exit(1)
	}

	if len(reports) == 0 {
		fmt.Println("no products monitored")
		return
	}

	failed := 0
	for _, rep := range reports {
		if rep.Err != nil {
			failed++
			fmt.Printf("%s\tERROR: %v\n", rep.URL, rep.Err)
			continue
		}

		line := fmt.Sprintf("%s\tavailable=%t\tprice=%s", rep.URL, rep.Result.Available, orDash(rep.Result.Price))
		switch rep.Outcome.Kind {
		case detect.StateChanged:
			line += fmt.Sprintf("\t[state %t -> %t]", rep.Outcome.FromAvailable, rep.Outcome.ToAvailable)
		case detect.PriceChanged:
			line += fmt.Sprintf("\t[price %s -> %s]", rep.Outcome.OldPrice, rep.Outcome.NewPrice)
		}
		fmt.Println(line)
	}

	fmt.Printf("checked %d products, %d failed\n", len(reports), failed)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
