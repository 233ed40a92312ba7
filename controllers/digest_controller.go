package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/felipepimentel/ai-news-digest/library"
	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func (h *Handler) GetDigests(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	digests, err := h.store.Digests(c.Request.Context(), limit, offset)
	if err != nil {
		logrus.WithError(err).Warn("listing digests")
		digests = []models.Digest{}
	}
	c.JSON(http.StatusOK, digests)
}

func (h *Handler) GetLatestDigest(c *gin.Context) {
	digest, err := readThrough(c.Request.Context(), h, latestDigestKey, h.store.LatestDigest)
	if err != nil {
		h.digestNotFound(c, err)
		return
	}
	c.JSON(http.StatusOK, digest)
}

func (h *Handler) GetDigestDates(c *gin.Context) {
	dates, err := readThrough(c.Request.Context(), h, digestDatesKey, func(ctx context.Context) ([]string, error) {
		return h.store.AvailableDigestDates(ctx, store.DefaultDatesLimit)
	})
	if err != nil {
		logrus.WithError(err).Warn("listing digest dates")
		dates = []string{}
	}
	c.JSON(http.StatusOK, dates)
}

func (h *Handler) GetDigestByDate(c *gin.Context) {
	date := c.Param("date")
	if _, _, err := store.DayBounds(date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	digest, err := h.store.DigestByDate(c.Request.Context(), date)
	if err != nil {
		h.digestNotFound(c, err)
		return
	}
	c.JSON(http.StatusOK, digest)
}

func (h *Handler) GetDigestByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid digest id"})
		return
	}
	digest, err := h.store.DigestByID(c.Request.Context(), id)
	if err != nil {
		h.digestNotFound(c, err)
		return
	}
	c.JSON(http.StatusOK, digest)
}

// GetPicks serves the build library.
func (h *Handler) GetPicks(c *gin.Context) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return
	}
	if limit == 0 {
		limit = library.DefaultSize
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}

	entries, err := readThrough(c.Request.Context(), h, picksKeyPrefix+strconv.Itoa(limit), func(ctx context.Context) ([]library.Entry, error) {
		digests, err := h.store.DigestsWithPicks(ctx, library.DefaultScanLimit)
		if err != nil {
			return nil, err
		}
		return library.Select(digests, limit), nil
	})
	if err != nil {
		logrus.WithError(err).Warn("building library")
		entries = []library.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) digestNotFound(c *gin.Context, err error) {
	if !errors.Is(err, store.ErrNotFound) {
		logrus.WithError(err).WithField("path", c.Request.URL.Path).Warn("loading digest")
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "digest not found"})
}
