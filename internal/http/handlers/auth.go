package handlers

import (
	"net/http"
	"strings"

	"kol_arena/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	Wallet string `json:"wallet"`
}

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// validWalletAddress does a shape check only. Ownership is proven by the
// escrow transfers the wallet signs, not by authentication.
func validWalletAddress(addr string) bool {
	if len(addr) < 32 || len(addr) > 44 {
		return false
	}
	for _, r := range addr {
		if !strings.ContainsRune(base58Alphabet, r) {
			return false
		}
	}
	return true
}

// Auth exchanges a wallet address for a session token.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}

	if !validWalletAddress(req.Wallet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid wallet address"})
		return
	}

	token, err := service.GenerateJWT(req.Wallet)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"wallet": req.Wallet,
	})
}
