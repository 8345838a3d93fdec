package handler

import (
	"time"

	"spend-ledger/internal/adapter/http/middleware"
	redisStore "spend-ledger/internal/adapter/storage/redis"
	"spend-ledger/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	QuerySvc       ports.QueryService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	RateLimits     RateLimits
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// RateLimits carries the per-group request budgets.
type RateLimits struct {
	Execute int64
	Query   int64
	Window  time.Duration
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep: verifies PostgreSQL and Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string, limit int64) gin.HandlerFunc {
		if deps.RateLimitStore == nil || limit <= 0 {
			return func(c *gin.Context) { c.Next() }
		}
		rule := middleware.RateLimitRule{Limit: limit, Window: deps.RateLimits.Window}
		if rule.Window <= 0 {
			rule.Window = time.Minute
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	authHandler := NewAuthHandler(deps.TokenSvc)
	v1.POST("/auth/token", rl("auth_token", deps.RateLimits.Query), authHandler.Token)

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	// One-shot bootstrap; repeat calls are rejected by the service.
	v1.POST("/ledger/instantiate", rl("instantiate", deps.RateLimits.Execute), ledgerHandler.Instantiate)

	// --- JWT-authenticated routes (execute) ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	ledger := v1.Group("/ledger", jwtAuth)
	{
		ledger.POST("/deposit", rl("execute", deps.RateLimits.Execute), ledgerHandler.Deposit)
		ledger.POST("/spenders", rl("execute", deps.RateLimits.Execute), ledgerHandler.AuthorizeSpender)
		ledger.DELETE("/spenders/:spender", rl("execute", deps.RateLimits.Execute), ledgerHandler.RevokeSpender)
		ledger.POST("/spend", rl("execute", deps.RateLimits.Execute), ledgerHandler.SpendFrom)
	}

	// --- Public query routes ---
	queryHandler := NewQueryHandler(deps.QuerySvc)
	query := v1.Group("/ledger")
	{
		query.GET("/balance/:account", rl("query", deps.RateLimits.Query), queryHandler.Balance)
		query.GET("/authorizations/:owner/:spender", rl("query", deps.RateLimits.Query), queryHandler.IsAuthorized)
	}

	return r
}
