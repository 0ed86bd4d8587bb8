package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mehmetcc/edutoy/internal/config"
	"github.com/mehmetcc/edutoy/internal/database"
	"github.com/mehmetcc/edutoy/internal/server"
	"github.com/mehmetcc/edutoy/internal/token"
	"github.com/mehmetcc/edutoy/internal/toy"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// init logger
	logger, err := newLogger(os.Getenv("APP_ENV"))
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	// load config
	cfg, err := config.LoadConfig(logger)
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// open store
	store, err := openStore(ctx, cfg.DbConfig, logger)
	if err != nil {
		logger.Fatal("failed to initialize store", zap.Error(err))
	}

	tokens := token.NewTokenService(logger, cfg.JWTConfig)
	router := server.NewRouter(server.Deps{
		Config: cfg,
		Logger: logger,
		Tokens: tokens,
		Store:  store,
	})

	srv := server.NewHTTP(cfg.AppConfig, router)
	if err := srv.Listen(); err != nil {
		_ = store.Close(context.Background())
		logger.Fatal("failed to listen", zap.String("addr", cfg.AppConfig.Addr()), zap.Error(err))
	}
	logger.Info("application started",
		zap.String("addr", srv.Addr().String()),
		zap.String("store", cfg.DbConfig.Driver),
		zap.Bool("enforce_record_owner", cfg.OwnershipConfig.EnforceRecordOwner),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		sctx, scancel := context.WithTimeout(context.Background(), cfg.AppConfig.ShutdownTimeout)
		defer scancel()
		return multierr.Combine(
			srv.Close(sctx),
			store.Close(sctx),
		)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func openStore(ctx context.Context, cfg *config.DbConfig, logger *zap.Logger) (toy.Store, error) {
	if cfg.Driver == config.DriverMemory {
		logger.Warn("using in-memory store, data is lost on exit")
		return toy.NewMemoryStore(), nil
	}

	client, err := database.Init(ctx, cfg)
	if err != nil {
		return nil, err
	}
	db := client.Database(cfg.Database)
	if err := database.Migrate(ctx, db, cfg.Collection, logger); err != nil {
		// search still works without the index, only slower
		logger.Error("failed to migrate database", zap.Error(err))
	}
	return toy.NewMongoStore(client, db.Collection(cfg.Collection), logger), nil
}
