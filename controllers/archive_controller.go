package controllers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/felipepimentel/ai-news-digest/analytics"
	"github.com/felipepimentel/ai-news-digest/search"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const searchSessionCookie = "search_session"

// SearchArchive runs a fuzzy query against the caller's search session. A
// blank query answers with no results and neither creates nor touches a
// session.
func (h *Handler) SearchArchive(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	if limit == 0 || limit > h.searchLimit {
		limit = h.searchLimit
	}

	query := c.Query("q")
	if utf8.RuneCountInString(query) > search.MaxQueryRunes {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("query must be at most %d characters", search.MaxQueryRunes)})
		return
	}
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusOK, gin.H{"query": query, "results": []search.Result{}})
		return
	}

	sessionID, err := c.Cookie(searchSessionCookie)
	if _, perr := uuid.Parse(sessionID); err != nil || perr != nil {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(searchSessionCookie, sessionID, 0, "/", "", false, true)
	}

	results := h.sessions.Get(sessionID).Search(c.Request.Context(), query, limit)
	c.JSON(http.StatusOK, gin.H{"query": query, "results": results})
}

func (h *Handler) GetArchiveAnalytics(c *gin.Context) {
	report, err := readThrough(c.Request.Context(), h, archiveAnalyticsKey, func(ctx context.Context) (analytics.Report, error) {
		digests, err := h.store.AllDigests(ctx)
		if err != nil {
			return analytics.Report{}, err
		}
		return analytics.Build(digests), nil
	})
	if err != nil {
		logrus.WithError(err).Warn("building archive analytics")
		report = analytics.Build(nil)
	}
	c.JSON(http.StatusOK, report)
}

var _ search.Loader = Store(nil)
