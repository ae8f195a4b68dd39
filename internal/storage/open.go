package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	interfaces "github.com/sheikh-saqib/accounts-ledger/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/accounts-ledger/internal/storage/mongo"
	"github.com/sheikh-saqib/accounts-ledger/internal/storage/postgres"
)

// Options selects and configures an AccountStore.
type Options struct {
	Driver   string // memory, postgres or mongo
	URL      string // postgres DSN or mongodb URI
	Database string // mongo database name
	IDs      idgen.Generator
}

// DriverFor infers the driver from a store URL: "memory", postgres:// and
// mongodb:// (or mongodb+srv://) URLs.
func DriverFor(url string) (string, error) {
	switch {
	case url == "" || url == "memory":
		return "memory", nil
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return "postgres", nil
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return "mongo", nil
	default:
		return "", fmt.Errorf("unsupported store %q", url)
	}
}

// Open connects the selected store and prepares its schema.
func Open(ctx context.Context, opts Options) (interfaces.AccountStore, error) {
	if opts.IDs == nil {
		opts.IDs = idgen.NewSequence()
	}
	switch opts.Driver {
	case "", "memory":
		return memory.NewMemoryAccountStore(opts.IDs), nil

	case "postgres":
		db, err := postgres.Open(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		store := postgres.NewPostgresAccountStore(db, opts.IDs)
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	case "mongo":
		client, err := mongo.Connect(ctx, opts.URL)
		if err != nil {
			return nil, err
		}
		database := opts.Database
		if database == "" {
			database = "accounts"
		}
		store := mongo.NewMongoAccountStore(client, database, opts.IDs)
		if err := store.EnsureIndexes(ctx); err != nil {
			_ = store.Close(ctx)
			return nil, err
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
}
