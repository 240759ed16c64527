package handlers

import (
	"net/http"

	"kol_arena/internal/solana"

	"github.com/gin-gonic/gin"
)

// Balance reads the authenticated wallet's SOL balance from chain.
func (h *Handler) Balance(c *gin.Context) {
	wallet, ok := getWallet(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	lamports, err := h.Chain.GetBalance(c.Request.Context(), wallet)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "balance lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"wallet":   wallet,
		"lamports": lamports,
		"sol":      solana.LamportsToSOL(lamports),
	})
}
