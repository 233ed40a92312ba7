package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func clickKey(id uuid.UUID) string {
	return "article:" + id.String() + ":clicks"
}

func (h *Handler) GetArticles(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	q := store.ArticleQuery{
		Topic:  c.Query("topic"),
		Source: models.SourceType(c.Query("source")),
		Sort:   c.DefaultQuery("sort", store.SortScore),
		Limit:  limit,
		Offset: offset,
	}
	if q.Source != "" && !q.Source.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown source type"})
		return
	}
	if q.Sort != store.SortScore && q.Sort != store.SortDate {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sort must be score or date"})
		return
	}

	articles, err := h.store.Articles(c.Request.Context(), q)
	if err != nil {
		logrus.WithError(err).Warn("listing articles")
		articles = []models.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) GetArticleBySlug(c *gin.Context) {
	article, ok := h.articleBySlug(c)
	if !ok {
		return
	}
	related, err := h.store.RelatedArticles(c.Request.Context(), article, store.DefaultRelatedLimit)
	if err != nil {
		logrus.WithError(err).WithField("slug", article.Slug).Warn("loading related articles")
		related = []models.Article{}
	}
	c.JSON(http.StatusOK, gin.H{"article": article, "related": related})
}

// SearchArticles is the server-side full-text search.
func (h *Handler) SearchArticles(c *gin.Context) {
	articles, err := h.store.SearchArticles(c.Request.Context(), c.Query("q"), store.DefaultSearchLimit)
	if err != nil {
		logrus.WithError(err).Warn("searching articles")
		articles = []models.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

// ClickArticle bumps the Redis counter, then records the click row best
// effort. No row is written when the counter fails.
func (h *Handler) ClickArticle(c *gin.Context) {
	article, ok := h.articleBySlug(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if h.redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "click counter unavailable"})
		return
	}

	clicks, err := h.redis.Incr(ctx, clickKey(article.ID)).Result()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.RecordClick(ctx, article.ID); err != nil {
		logrus.WithError(err).WithField("slug", article.Slug).Warn("recording click")
	}
	c.JSON(http.StatusOK, gin.H{"clicks": clicks})
}

func (h *Handler) GetArticleClicks(c *gin.Context) {
	article, ok := h.articleBySlug(c)
	if !ok {
		return
	}

	if h.redis == nil {
		c.JSON(http.StatusOK, gin.H{"clicks": 0})
		return
	}

	clicks, err := h.redis.Get(c.Request.Context(), clickKey(article.ID)).Result()
	if err == redis.Nil {
		clicks = "0"
	} else if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	n, _ := strconv.ParseInt(clicks, 10, 64)
	c.JSON(http.StatusOK, gin.H{"clicks": n})
}

type pageViewRequest struct {
	Path string `json:"path" binding:"required,max=512"`
}

// RecordPageView is best effort and always answers 204 for valid input.
func (h *Handler) RecordPageView(c *gin.Context) {
	var req pageViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.store.RecordPageView(c.Request.Context(), req.Path); err != nil {
		logrus.WithError(err).WithField("path", req.Path).Debug("recording page view")
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) articleBySlug(c *gin.Context) (*models.Article, bool) {
	slug := c.Param("slug")
	article, err := h.store.ArticleBySlug(c.Request.Context(), slug)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			logrus.WithError(err).WithField("slug", slug).Warn("loading article")
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "article not found"})
		return nil, false
	}
	return article, true
}
