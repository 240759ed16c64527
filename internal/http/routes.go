package http

import (
	"os"
	"strconv"
	"time"

	"kol_arena/internal/config"
	"kol_arena/internal/http/handlers"
	"kol_arena/internal/http/middleware"
	"kol_arena/internal/repository"
	"kol_arena/internal/session"
	"kol_arena/internal/solana"
	"kol_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the route table wires together. The db pool is
// optional; everything else is required.
type Deps struct {
	Coord   *session.Coordinator
	Hub     *ws.Hub
	Chain   *solana.Client
	DB      *pgxpool.Pool
	Cfg     *config.Config
	Version string
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	h := handlers.NewHandler(deps.Coord, deps.Chain, handlers.HandlerConfig{
		MinBet: deps.Cfg.MinBet,
		MaxBet: deps.Cfg.MaxBet,
	})
	if deps.DB != nil {
		h.History = repository.NewGameHistoryRepository(deps.DB)
	}
	healthHandler := handlers.NewHealthHandler(deps.Chain, deps.Coord, deps.DB, deps.Version)

	// read limits from env, with safe defaults
	apiRateLimit := 30
	if v := os.Getenv("API_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateLimit = n
		}
	}
	apiRateWindow := time.Minute
	if v := os.Getenv("API_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			apiRateWindow = time.Duration(n) * time.Second
		}
	}

	authRateLimit := 5
	if v := os.Getenv("AUTH_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateLimit = n
		}
	}
	authRateWindow := time.Minute
	if v := os.Getenv("AUTH_RATE_WINDOW_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			authRateWindow = time.Duration(n) * time.Second
		}
	}

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(apiRateLimit, apiRateWindow))
	registerAPIRoutes(v1, h, deps.Cfg, authRateLimit, authRateWindow)

	// WebSocket for realtime wagering sessions
	r.GET("/ws", h.WS(deps.Hub))
}

func registerAPIRoutes(api *gin.RouterGroup, h *handlers.Handler, cfg *config.Config, authRateLimit int, authRateWindow time.Duration) {
	// Auth
	api.POST("/auth", middleware.RedisRateLimit(authRateLimit, authRateWindow), h.Auth)

	// Rooms (read-only REST mirror of the socket protocol)
	api.GET("/rooms", h.Rooms)
	api.GET("/rooms/:id", h.Room)
	api.GET("/limits", h.Limits)

	// Per-wallet limiter for endpoints that hit the chain RPC
	walletRL := middleware.WagerRateLimit(cfg.WagerRateLimit, time.Duration(cfg.WagerRateWindow)*time.Second)

	// Wallet
	api.GET("/balance", middleware.JWT(), walletRL, h.Balance)

	// History and leaderboard
	api.GET("/me/games", middleware.JWT(), h.MyGames)
	api.GET("/me/stats", middleware.JWT(), h.MyStats)
	api.GET("/top", h.TopWallets)

	// Heuristic scoring (display only)
	api.POST("/score", middleware.JWT(), h.Score)
}
