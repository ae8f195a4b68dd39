package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/accounts-ledger/internal/cli"
	"github.com/sheikh-saqib/accounts-ledger/internal/config"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	"github.com/sheikh-saqib/accounts-ledger/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger/internal/services"
	"github.com/sheikh-saqib/accounts-ledger/internal/storage"
)

func main() {
	os.Exit(run())
}

func run() int {
	args, err := cli.ParseArgs("accounts", os.Args[1:], os.Stderr)
	if err != nil {
		return 2
	}
	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// command output goes to stdout, so logging stays off unless asked for
	log := logger.Nop()
	if cfg.LogMode != "" {
		if log, err = logger.New(cfg.LogMode); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		defer log.Sync()
	}
	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	driver, err := storage.DriverFor(args.Store)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	strategy := cfg.IDStrategy
	if strategy == "" && driver != config.DriverMemory {
		strategy = "uuid"
	}
	ids, err := idgen.ForStrategy(strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	store, err := storage.Open(ctx, storage.Options{
		Driver:   driver,
		URL:      args.Store,
		Database: cfg.MongoDatabase,
		IDs:      ids,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer store.Close(context.Background())

	svc, err := services.NewServices(store, nil, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if args.Clear {
		if err := svc.Clear(ctx); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	app := cli.NewApp(svc, os.Stdout, os.Stderr)
	if args.Command == "repl" {
		for _, path := range args.Rest {
			if err := app.LoadFile(ctx, path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		if err := app.REPL(ctx, os.Stdin); err != nil && ctx.Err() == nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}
	if !app.RunWords(ctx, args.Command, args.Rest) {
		return 1
	}
	return 0
}
