// Package main provides the API server binary: the HTTP backend serving
// in-world scripted objects and the companion web UI.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/duality-rp/duality/internal/auth"
	"github.com/duality-rp/duality/internal/config"
	"github.com/duality-rp/duality/internal/game/catalog"
	"github.com/duality-rp/duality/internal/game/combat"
	"github.com/duality-rp/duality/internal/game/dice"
	"github.com/duality-rp/duality/internal/httpapi"
	"github.com/duality-rp/duality/internal/observability"
	"github.com/duality-rp/duality/internal/scripting"
	"github.com/duality-rp/duality/internal/server"
	"github.com/duality-rp/duality/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	// Load the ability/effect catalog.
	catalogStart := time.Now()
	registry, err := catalog.LoadDirectories(cfg.Content.AbilitiesDir, cfg.Content.EffectsDir)
	if err != nil {
		logger.Fatal("loading content catalog", zap.Error(err))
	}
	logger.Info("catalog loaded",
		zap.Int("abilities", len(registry.Abilities(""))),
		zap.Duration("elapsed", time.Since(catalogStart)),
	)

	// Connect to PostgreSQL.
	dbStart := time.Now()
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	logger.Info("database connected",
		zap.String("host", cfg.Database.Host),
		zap.Duration("elapsed", time.Since(dbStart)),
	)

	accountRepo := postgres.NewAccountRepository(pool.DB())
	charRepo := postgres.NewCharacterRepository(pool.DB(), logger)
	groupRepo := postgres.NewSocialGroupRepository(pool.DB())
	eventRepo := postgres.NewAuditEventRepository(pool.DB())

	diceRoller := dice.NewLoggedRoller(dice.NewCryptoSource(), logger)

	combatSvc := &combat.Service{
		Catalog:    registry,
		Characters: charRepo,
		Groups:     groupRepo,
		Events:     eventRepo,
		Outcomes:   charRepo,
		Dice:       diceRoller,
		Scripts:    &scripting.AmountEvaluator{InstructionLimit: cfg.Scripting.InstructionLimit},
		Logger:     logger,
	}

	httpServer := httpapi.New(
		cfg.HTTP,
		logger,
		combatSvc,
		registry,
		charRepo,
		groupRepo,
		accountRepo,
		auth.NewSignatureValidator(cfg.Auth.SignatureSecret, cfg.Auth.SignatureSkew),
		auth.NewTokenIssuer(cfg.Auth.TokenSecret, cfg.Auth.TokenTTL),
		pool,
	)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("http", httpServer)

	lifecycle.Add("postgres", &server.FuncService{
		StartFn: func() error {
			for {
				time.Sleep(30 * time.Second)
				if err := pool.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		},
		StopFn: func() {
			pool.Close()
		},
	})

	logger.Info("api server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("http_addr", cfg.HTTP.Addr()),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
