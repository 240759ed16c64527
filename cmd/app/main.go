package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"kol_arena/internal/config"
	"kol_arena/internal/db"
	"kol_arena/internal/escrow"
	httpServer "kol_arena/internal/http"
	"kol_arena/internal/http/middleware"
	"kol_arena/internal/logger"
	"kol_arena/internal/repository"
	"kol_arena/internal/service"
	"kol_arena/internal/session"
	"kol_arena/internal/signer"
	"kol_arena/internal/solana"
	"kol_arena/internal/ws"
)

const version = "1.0.0"

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	cfg := config.Load()
	service.InitJWT()

	chain := solana.NewClient(cfg.SolanaRPCURL)
	builder := escrow.NewBuilder(chain, cfg.EscrowWallet)
	gateway := signer.NewRPCGateway(chain, time.Duration(cfg.ConfirmTimeoutSeconds)*time.Second)

	coord := session.NewCoordinator(
		session.NewMemoryStore(),
		session.NewRegistry(),
		builder,
		gateway,
		chain,
		session.Config{
			MinBet:           cfg.MinBet,
			MaxBet:           cfg.MaxBet,
			JackpotCountdown: time.Duration(cfg.JackpotCountdownSeconds) * time.Second,
		},
	)

	// history sink is optional: the session core is fully in-memory
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool = db.Connect(cfg.DatabaseURL)
		defer pool.Close()
		coord.SetHistorySink(repository.NewGameHistoryRepository(pool))
	}

	hub := ws.NewHub(coord, 0)

	r := gin.Default()

	// CORS for production (frontend on different domain)
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	middleware.InitRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

	httpServer.RegisterRoutes(r, httpServer.Deps{
		Coord:   coord,
		Hub:     hub,
		Chain:   chain,
		DB:      pool,
		Cfg:     cfg,
		Version: version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
