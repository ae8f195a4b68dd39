package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/accounts-ledger/internal/config"
	"github.com/sheikh-saqib/accounts-ledger/internal/events/kafka"
	"github.com/sheikh-saqib/accounts-ledger/internal/httpapi"
	"github.com/sheikh-saqib/accounts-ledger/internal/idgen"
	interfaces "github.com/sheikh-saqib/accounts-ledger/internal/interfaces"
	"github.com/sheikh-saqib/accounts-ledger/internal/logger"
	"github.com/sheikh-saqib/accounts-ledger/internal/services"
	"github.com/sheikh-saqib/accounts-ledger/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	decimal.MarshalJSONWithoutQuotes = true
	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ids, err := idgen.ForStrategy(cfg.IDStrategy)
	if err != nil {
		log.Fatal("invalid id strategy", "error", err)
	}

	url := cfg.DatabaseURL
	if cfg.StoreDriver == config.DriverMongo {
		url = cfg.MongoURI
	}
	store, err := storage.Open(ctx, storage.Options{
		Driver:   cfg.StoreDriver,
		URL:      url,
		Database: cfg.MongoDatabase,
		IDs:      ids,
	})
	if err != nil {
		log.Fatal("open store failed", "driver", cfg.StoreDriver, "error", err)
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			log.Warn("close store failed", "error", err)
		}
	}()

	var publisher interfaces.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		publisher = p
		log.Info("publishing account events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	svc, err := services.NewServices(store, publisher, log)
	if err != nil {
		log.Fatal("build services failed", "error", err)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.NewRouter(httpapi.NewHandler(svc, log), log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting server", "addr", cfg.HTTPAddr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
