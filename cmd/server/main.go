package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corebank/corebank/infra"
	"github.com/corebank/corebank/pkg/config"
	"github.com/corebank/corebank/pkg/money"
	"github.com/corebank/corebank/pkg/processor"
	"github.com/corebank/corebank/pkg/service/account"
	"github.com/corebank/corebank/webapi"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := infra.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	dailyCeiling, err := money.Parse(cfg.Limits.DailyAmount, cfg.Transactions.Scale)
	if err != nil {
		return fmt.Errorf("invalid LIMITS_DAILY_AMOUNT %q: %w", cfg.Limits.DailyAmount, err)
	}
	policy, err := processor.ParsePolicy(cfg.Transactions.IdempotencyPolicy)
	if err != nil {
		return fmt.Errorf("invalid TRANSACTIONS_IDEMPOTENCY_POLICY: %w", err)
	}

	uow := infra.NewUnitOfWork(db, cfg.Transactions.Scale, cfg.Transactions.LockTimeout)
	engine := processor.New(uow, processor.Config{
		Scale:              cfg.Transactions.Scale,
		CodePrefix:         cfg.Transactions.CodePrefix,
		CodeMaxAttempts:    cfg.Transactions.CodeMaxAttempts,
		DailyAmountCeiling: dailyCeiling,
		DailyCountCeiling:  cfg.Limits.DailyCount,
		IdempotencyPolicy:  policy,
	}, logger)
	accounts := account.NewService(uow, cfg.Transactions.Scale, logger)

	app := webapi.NewApp(accounts, engine)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server", "env", cfg.Env, "address", addr)

	return app.Listen(addr)
}

func newLogger(cfg config.Log) *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.Level(cfg.Level)}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
