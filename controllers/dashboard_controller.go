package controllers

import (
	"net/http"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type tablePage[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
}

type dashboardAnalytics struct {
	DigestsOverTime []store.DigestCount `json:"digests_over_time"`
	Sources         []store.LabelCount  `json:"sources"`
	Topics          []store.LabelCount  `json:"topics"`
	PageViews       []store.DayCount    `json:"page_views"`
}

func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context(), h.now())
	if err != nil {
		logrus.WithError(err).Warn("loading dashboard stats")
		stats = store.Stats{}
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) GetDashboardArticles(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	articles, total, err := h.store.RecentArticles(c.Request.Context(), limit, offset)
	if err != nil {
		logrus.WithError(err).Warn("listing dashboard articles")
		articles, total = []models.Article{}, 0
	}
	c.JSON(http.StatusOK, tablePage[models.Article]{Items: articles, Total: total})
}

func (h *Handler) GetDashboardSubscribers(c *gin.Context) {
	limit, offset, ok := pagination(c)
	if !ok {
		return
	}
	subs, total, err := h.store.Subscribers(c.Request.Context(), limit, offset)
	if err != nil {
		logrus.WithError(err).Warn("listing subscribers")
		subs, total = []models.Subscriber{}, 0
	}
	c.JSON(http.StatusOK, tablePage[models.Subscriber]{Items: subs, Total: total})
}

// GetDashboardAnalytics loads every chart series concurrently. A failed
// series is logged and left empty.
func (h *Handler) GetDashboardAnalytics(c *gin.Context) {
	out := dashboardAnalytics{
		DigestsOverTime: []store.DigestCount{},
		Sources:         []store.LabelCount{},
		Topics:          []store.LabelCount{},
		PageViews:       []store.DayCount{},
	}

	var g errgroup.Group
	ctx := c.Request.Context()
	g.Go(func() error {
		if rows, err := h.store.DigestsOverTime(ctx, store.DefaultOverTimeLimit); err != nil {
			logrus.WithError(err).Warn("loading digests over time")
		} else if rows != nil {
			out.DigestsOverTime = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := h.store.SourceDistribution(ctx); err != nil {
			logrus.WithError(err).Warn("loading source distribution")
		} else if rows != nil {
			out.Sources = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := h.store.TopicDistribution(ctx); err != nil {
			logrus.WithError(err).Warn("loading topic distribution")
		} else if rows != nil {
			out.Topics = rows
		}
		return nil
	})
	g.Go(func() error {
		if rows, err := h.store.PageViewsOverTime(ctx, h.now(), store.DefaultViewDays); err != nil {
			logrus.WithError(err).Warn("loading page views")
		} else if rows != nil {
			out.PageViews = rows
		}
		return nil
	})
	_ = g.Wait()

	c.JSON(http.StatusOK, out)
}
