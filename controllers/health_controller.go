package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health is the unauthenticated liveness probe. It also reports how many
// archive search sessions are alive.
func (h *Handler) Health(c *gin.Context) {
	sessions := 0
	if h.sessions != nil {
		sessions = h.sessions.Len()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"timestamp":       h.now().UTC(),
		"search_sessions": sessions,
	})
}
