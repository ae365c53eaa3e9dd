package main

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"crypto-settlement-gateway/config"
	"crypto-settlement-gateway/internal/adapter/chain"
	"crypto-settlement-gateway/internal/adapter/chain/evm"
	"crypto-settlement-gateway/internal/adapter/chain/tron"
	httpHandler "crypto-settlement-gateway/internal/adapter/http/handler"
	pgStorage "crypto-settlement-gateway/internal/adapter/storage/postgres"
	redisStorage "crypto-settlement-gateway/internal/adapter/storage/redis"
	"crypto-settlement-gateway/internal/core/domain"
	"crypto-settlement-gateway/internal/core/ports"
	"crypto-settlement-gateway/internal/service"
	"crypto-settlement-gateway/pkg/logger"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Crypto Settlement Gateway")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	merchantRepo := pgStorage.NewMerchantRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	ledgerRepo := pgStorage.NewLedgerRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	addressRepo := pgStorage.NewAddressRepo(pool)
	cursorRepo := pgStorage.NewCursorRepo(pool)
	collectRepo := pgStorage.NewCollectRepo(pool)
	hotWalletRepo := pgStorage.NewHotWalletRepo(pool)
	webhookRepo := pgStorage.NewWebhookRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	nonceStore := redisStorage.NewNonceStore(rdb)
	amountSlots := redisStorage.NewAmountSlotStore(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize core services
	keystore, err := service.NewScryptKeystore(cfg.Keystore.Passphrase)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize keystore")
	}
	sigSvc := service.NewHMACSignatureService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	rates, err := service.NewConfigRateProvider(cfg.Rates, cfg.Tokens.Decimals, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid exchange rate configuration")
	}

	// Initialize chain adapters
	registry := buildChainRegistry(cfg.Chains, log)
	if len(registry.Chains()) == 0 {
		log.Warn().Msg("No chain adapters configured; scanning and sweeping disabled")
	}

	// Initialize business services
	ledgerSvc := service.NewLedgerService(accountRepo, ledgerRepo, transactor, log)
	dispatcher := service.NewWebhookDispatcher(
		webhookRepo, merchantRepo, keystore, sigSvc,
		&http.Client{Timeout: cfg.Webhook.Timeout}, log,
	)
	depositSvc := service.NewDepositService(
		merchantRepo, orderRepo, addressRepo, ledgerSvc, dispatcher,
		amountSlots, rates, keystore, registry, transactor,
		cfg.Tokens.Decimals, cfg.Fees.DepositBps, cfg.Deposit.Expiry, log,
	)
	withdrawalSvc := service.NewWithdrawalService(
		merchantRepo, orderRepo, hotWalletRepo, ledgerSvc, dispatcher,
		keystore, registry, transactor,
		cfg.Tokens.Decimals, cfg.Fees.WithdrawBps, parseAmountMap(cfg.Fees.WithdrawFixed, log), log,
	)
	querySvc := service.NewOrderQueryService(orderRepo)
	sweepSvc := service.NewSweepService(
		addressRepo, collectRepo, hotWalletRepo, keystore, registry,
		parseAmountMap(cfg.Sweep.Thresholds, log), cfg.Sweep.CollectTo,
		cfg.Sweep.BatchSize, cfg.Sweep.MaxRetries, cfg.Sweep.Interval, log,
	)

	// Start background workers
	var wg sync.WaitGroup
	for _, chainName := range registry.Chains() {
		cc := cfg.Chains[chainName]
		scanner := service.NewScannerService(
			registry.Get(chainName), depositSvc, withdrawalSvc,
			orderRepo, addressRepo, cursorRepo, transactor,
			cc.SafetyLag, cc.ReorgTolerance, cc.ScanInterval, log,
		)
		wg.Add(2)
		go func(name string) {
			defer wg.Done()
			scanner.Run(ctx)
		}(chainName)
		go func(name string) {
			defer wg.Done()
			sweepSvc.Run(ctx, name)
		}(chainName)
	}
	wg.Add(3)
	go func() {
		defer wg.Done()
		runWithdrawalDispatcher(ctx, withdrawalSvc, log)
	}()
	go func() {
		defer wg.Done()
		runDepositExpirer(ctx, depositSvc, log)
	}()
	go func() {
		defer wg.Done()
		runWebhookDeliverer(ctx, dispatcher, cfg.Webhook.Interval, log)
	}()

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Load OpenAPI spec for Swagger UI
	if specBytes, err := os.ReadFile("docs/api/openapi.yaml"); err == nil {
		httpHandler.SetSwaggerSpec(specBytes)
		log.Info().Msg("OpenAPI spec loaded for Swagger UI at /swagger")
	} else {
		log.Warn().Err(err).Msg("OpenAPI spec not found, Swagger UI will be unavailable")
	}

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		DepositSvc:     depositSvc,
		WithdrawalSvc:  withdrawalSvc,
		QuerySvc:       querySvc,
		LedgerSvc:      ledgerSvc,
		Dispatcher:     dispatcher,
		MerchantRepo:   merchantRepo,
		Keystore:       keystore,
		SigSvc:         sigSvc,
		NonceStore:     nonceStore,
		TokenSvc:       tokenSvc,
		AdminCreds: httpHandler.AdminCredentials{
			Username:   cfg.Admin.Username,
			Password:   cfg.Admin.Password,
			TOTPSecret: cfg.Admin.TOTPSecret,
		},
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// Stop background workers
	cancel()
	wg.Wait()

	log.Info().Msg("Server exited")
}

// buildChainRegistry connects the configured chain backends.
func buildChainRegistry(chains map[string]config.ChainConfig, log zerolog.Logger) *chain.Registry {
	registry := chain.NewRegistry()
	for name, cc := range chains {
		switch name {
		case domain.ChainEthereum:
			client, err := ethclient.Dial(cc.RPCURL)
			if err != nil {
				log.Fatal().Err(err).Str("chain", name).Msg("Failed to dial EVM RPC")
			}
			adapter, err := evm.New(name, client, big.NewInt(cc.ChainID), cc.Tokens, cc.RequiredConfs, log)
			if err != nil {
				log.Fatal().Err(err).Str("chain", name).Msg("Failed to build EVM adapter")
			}
			registry.Register(adapter)
		case domain.ChainTron:
			adapter, err := tron.New(
				name, cc.RPCURL, cc.APIKey,
				&http.Client{Timeout: 15 * time.Second},
				cc.Tokens, cc.FeeLimit, cc.RequiredConfs, log,
			)
			if err != nil {
				log.Fatal().Err(err).Str("chain", name).Msg("Failed to build TRON adapter")
			}
			registry.Register(adapter)
		default:
			log.Warn().Str("chain", name).Msg("Unknown chain in config, skipping")
		}
	}
	return registry
}

// parseAmountMap converts configured base-unit amount strings to big.Int.
func parseAmountMap(raw map[string]string, log zerolog.Logger) map[string]*big.Int {
	out := make(map[string]*big.Int, len(raw))
	for key, s := range raw {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok || v.Sign() < 0 {
			log.Fatal().Str("key", key).Str("value", s).Msg("Invalid base-unit amount in config")
		}
		out[key] = v
	}
	return out
}

func runWithdrawalDispatcher(ctx context.Context, svc ports.WithdrawalService, log zerolog.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := svc.DispatchDue(ctx); err != nil {
				log.Error().Err(err).Msg("withdrawal dispatch pass failed")
			} else if n > 0 {
				log.Info().Int("dispatched", n).Msg("withdrawals broadcast")
			}
		}
	}
}

func runDepositExpirer(ctx context.Context, svc ports.DepositService, log zerolog.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := svc.ExpireDue(ctx, time.Now()); err != nil {
				log.Error().Err(err).Msg("deposit expiry pass failed")
			} else if n > 0 {
				log.Info().Int("expired", n).Msg("pending deposits expired")
			}
		}
	}
}

func runWebhookDeliverer(ctx context.Context, dispatcher *service.WebhookDispatcherImpl, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := dispatcher.DispatchDue(ctx, time.Now()); err != nil {
				log.Error().Err(err).Msg("webhook delivery pass failed")
			} else if n > 0 {
				log.Info().Int("delivered", n).Msg("webhooks dispatched")
			}
		}
	}
}
