package handlers

import (
	"net/http"
	"strconv"
	"time"

	"kol_arena/internal/domain"

	"github.com/gin-gonic/gin"
)

// MyGames returns the authenticated wallet's finished games.
func (h *Handler) MyGames(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not configured"})
		return
	}
	wallet, ok := getWallet(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}

	var (
		games any
		err   error
	)
	if gt := c.Query("game_type"); gt != "" {
		games, err = h.History.GetByWalletAndType(c.Request.Context(), wallet, domain.GameType(gt), limit)
	} else {
		games, err = h.History.GetByWallet(c.Request.Context(), wallet, limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games})
}

// MyStats returns win/loss aggregates for the authenticated wallet.
func (h *Handler) MyStats(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not configured"})
		return
	}
	wallet, ok := getWallet(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	since := time.Now().AddDate(0, -1, 0)
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 365 {
			since = time.Now().AddDate(0, 0, -n)
		}
	}

	stats, err := h.History.GetWalletStats(c.Request.Context(), wallet, since)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats lookup failed"})
		return
	}

	c.JSON(http.StatusOK, stats)
}

// TopWallets returns the monthly leaderboard.
func (h *Handler) TopWallets(c *gin.Context) {
	if h.History == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history not configured"})
		return
	}

	top, err := h.History.GetTopWallets(c.Request.Context(), 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "leaderboard lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"top": top})
}
