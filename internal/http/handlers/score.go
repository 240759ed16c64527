package handlers

import (
	"net/http"

	"kol_arena/internal/score"

	"github.com/gin-gonic/gin"
)

type ScoreRequest struct {
	Kind    string         `json:"kind"` // sentiment | risk
	Records []score.Record `json:"records"`
}

// Score runs the heuristic scorers over submitted records. Display only:
// nothing here ever touches escrow or room state.
func (h *Handler) Score(c *gin.Context) {
	var req ScoreRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if len(req.Records) > 500 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many records"})
		return
	}

	var scorer score.Scorer
	switch req.Kind {
	case "", "sentiment":
		scorer = h.Sentiment
	case "risk":
		scorer = h.Risk
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown scorer kind: " + req.Kind})
		return
	}

	c.JSON(http.StatusOK, scorer.Score(req.Records))
}
