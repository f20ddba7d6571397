package main

import (
	"context"
	"flag"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Plant-GO/biodex/internal/app"
	"github.com/Plant-GO/biodex/internal/config"
	"github.com/Plant-GO/biodex/internal/domain"
	"github.com/Plant-GO/biodex/internal/logger"
	"github.com/Plant-GO/biodex/internal/store"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadBootstrapConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = logger.Initialize(logger.Config{
		Debug:           cfg.Debug,
		SentryDSN:       cfg.SentryDSN,
		BreadcrumbLevel: zapcore.InfoLevel,
		Tags: map[string]string{
			"service": "biodex-bootstrap",
		},
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	db, err := app.OpenDatabase(ctx, cfg.Database)
	if err != nil {
		logger.FatalCtx(ctx, "Failed to open database", zap.Error(err))
	}

	stack, err := app.Build(ctx, store.NewPGStore(db), app.Options{
		Program: cfg.Program,
		Rent:    cfg.Rent,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to build issuance stack", zap.Error(err))
	}
	defer stack.Close()

	pools, err := app.BootstrapPools(ctx, stack, app.BootstrapOptions{
		PayerFunding: cfg.PayerFunding,
		URIBase:      cfg.PoolURIBase,
	})
	if err != nil {
		logger.FatalCtx(ctx, "Failed to bootstrap asset pools", zap.Error(err))
	}

	for _, tier := range domain.AllRarityTiers {
		fmt.Printf("%-22s %-16s %s\n", tier, tier.CardName(), pools[tier].ToBase58())
	}
	logger.InfoCtx(ctx, "Bootstrap complete", zap.Int("pools", len(pools)))
}
