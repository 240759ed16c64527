package handlers

import (
	"errors"
	"net/http"

	"kol_arena/internal/session"

	"github.com/gin-gonic/gin"
)

// Rooms lists waiting rooms, newest first. Read-only REST mirror of the
// list_rooms socket message for dashboards and polling clients.
func (h *Handler) Rooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Coord.ActiveRooms()})
}

// Room returns the authoritative snapshot of one room.
func (h *Handler) Room(c *gin.Context) {
	room, err := h.Coord.Snapshot(c.Param("id"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, session.ErrRoomNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error(), "code": session.Code(err)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"room": room})
}

// Limits reports the configured wager bounds.
func (h *Handler) Limits(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"min_bet": h.Cfg.MinBet,
		"max_bet": h.Cfg.MaxBet,
	})
}
