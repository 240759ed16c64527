package handlers

import (
	"kol_arena/internal/repository"
	"kol_arena/internal/score"
	"kol_arena/internal/session"
	"kol_arena/internal/solana"
)

// HandlerConfig holds configuration for handler
type HandlerConfig struct {
	MinBet int64
	MaxBet int64
}

type Handler struct {
	Coord     *session.Coordinator
	Chain     *solana.Client
	History   *repository.GameHistoryRepository // nil when no database is wired
	Sentiment score.Scorer
	Risk      score.Scorer
	Cfg       HandlerConfig
}

func NewHandler(coord *session.Coordinator, chain *solana.Client, cfg HandlerConfig) *Handler {
	return &Handler{
		Coord:     coord,
		Chain:     chain,
		Sentiment: score.SentimentScorer{},
		Risk:      score.RiskScorer{},
		Cfg:       cfg,
	}
}

// getWallet извлекает wallet из контекста Gin
func getWallet(c interface{ Get(string) (any, bool) }) (string, bool) {
	val, ok := c.Get("wallet")
	if !ok {
		return "", false
	}
	wallet, ok := val.(string)
	return wallet, ok && wallet != ""
}
