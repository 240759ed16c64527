package config

import (
	"os"
	"strconv"

	"kol_arena/internal/logger"
	"kol_arena/internal/solana"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	JWTSecret    string
	DatabaseURL  string // optional: history sink only
	SolanaRPCURL string
	EscrowWallet string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Wager limits
	MaxBet          int64
	MinBet          int64
	WagerRateLimit  int
	WagerRateWindow int

	// Session timing (seconds)
	JackpotCountdownSeconds int
	ConfirmTimeoutSeconds   int
}

// Загрузка конфига из env
func Load() *Config {
	_ = godotenv.Load()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	escrowWallet := os.Getenv("ESCROW_WALLET")
	if escrowWallet == "" {
		logger.Fatal("ESCROW_WALLET is not set")
	}

	rpcURL := os.Getenv("SOLANA_RPC_URL")
	if rpcURL == "" {
		rpcURL = solana.RPCMainnet
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	// Wager limits (lamports / token base units)
	maxBet := int64(100_000_000_000) // 100 SOL
	if v := os.Getenv("MAX_BET"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxBet = n
		}
	}

	minBet := int64(10_000_000) // 0.01 SOL
	if v := os.Getenv("MIN_BET"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			minBet = n
		}
	}

	wagerRateLimit := 30 // макс операций за ->
	if v := os.Getenv("WAGER_RATE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			wagerRateLimit = n
		}
	}

	wagerRateWindow := 60 // -> 60 секунд
	if v := os.Getenv("WAGER_RATE_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			wagerRateWindow = n
		}
	}

	jackpotCountdown := 30
	if v := os.Getenv("JACKPOT_COUNTDOWN_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			jackpotCountdown = n
		}
	}

	confirmTimeout := 60
	if v := os.Getenv("CONFIRM_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			confirmTimeout = n
		}
	}

	return &Config{
		AppPort:                 port,
		JWTSecret:               jwtSecret,
		DatabaseURL:             os.Getenv("DATABASE_URL"),
		SolanaRPCURL:            rpcURL,
		EscrowWallet:            escrowWallet,
		RedisAddr:               os.Getenv("REDIS_ADDR"),
		RedisPassword:           os.Getenv("REDIS_PASSWORD"),
		RedisDB:                 redisDB,
		MaxBet:                  maxBet,
		MinBet:                  minBet,
		WagerRateLimit:          wagerRateLimit,
		WagerRateWindow:         wagerRateWindow,
		JackpotCountdownSeconds: jackpotCountdown,
		ConfirmTimeoutSeconds:   confirmTimeout,
	}
}
