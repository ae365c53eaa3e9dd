package handler

import (
	"crypto-settlement-gateway/internal/adapter/http/middleware"
	redisStore "crypto-settlement-gateway/internal/adapter/storage/redis"
	"crypto-settlement-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	DepositSvc     ports.DepositService
	WithdrawalSvc  ports.WithdrawalService
	QuerySvc       ports.OrderQueryService
	LedgerSvc      ports.LedgerService
	Dispatcher     ports.WebhookDispatcher
	MerchantRepo   ports.MerchantRepository
	Keystore       ports.Keystore
	SigSvc         ports.SignatureService
	NonceStore     ports.NonceStore
	TokenSvc       ports.TokenService
	AdminCreds     AdminCredentials
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Swagger documentation
	swagger := r.Group("/swagger")
	{
		swagger.GET("", SwaggerUI)
		swagger.GET("/spec", SwaggerSpec)
	}

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Merchant API (header auth + per-request HMAC) ---
	merchantAuth := middleware.MerchantAuth(deps.MerchantRepo, deps.NonceStore, deps.Logger)
	paymentHandler := NewPaymentHandler(
		deps.DepositSvc, deps.WithdrawalSvc, deps.QuerySvc, deps.LedgerSvc,
		deps.Keystore, deps.SigSvc, deps.Logger,
	)

	deposits := v1.Group("/deposits", merchantAuth)
	{
		deposits.POST("", rl("deposits"), paymentHandler.CreateDeposit)
	}

	withdrawals := v1.Group("/withdrawals", merchantAuth)
	{
		withdrawals.POST("", rl("withdrawals"), paymentHandler.CreateWithdrawal)
	}

	orders := v1.Group("/orders", merchantAuth)
	{
		orders.GET("/:order_no", rl("orders"), paymentHandler.GetOrder)
		orders.GET("/out-trade-no/:out_trade_no", rl("orders"), paymentHandler.GetOrderByOutTradeNo)
	}

	balances := v1.Group("/balances", merchantAuth)
	{
		balances.GET("/:token", rl("balances"), paymentHandler.GetBalance)
	}

	// --- Operator API (JWT-authenticated) ---
	adminHandler := NewAdminHandler(
		deps.TokenSvc, deps.WithdrawalSvc, deps.Dispatcher, deps.AdminCreds, deps.Logger,
	)
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)

	admin := v1.Group("/admin")
	{
		admin.POST("/login", rl("admin_login"), adminHandler.Login)
		admin.POST("/orders/:order_no/force-complete", jwtAuth, rl("admin"), adminHandler.ForceComplete)
		admin.POST("/webhooks/:delivery_id/resend", jwtAuth, rl("admin"), adminHandler.ResendWebhook)
	}

	return r
}
