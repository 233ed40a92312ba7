package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/felipepimentel/ai-news-digest/search"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// Store is the part of the query layer the handlers use.
type Store interface {
	LatestDigest(ctx context.Context) (*models.Digest, error)
	DigestByDate(ctx context.Context, date string) (*models.Digest, error)
	AvailableDigestDates(ctx context.Context, limit int) ([]string, error)
	Digests(ctx context.Context, limit, offset int) ([]models.Digest, error)
	DigestByID(ctx context.Context, id uuid.UUID) (*models.Digest, error)
	DigestsWithPicks(ctx context.Context, limit int) ([]models.Digest, error)
	AllDigests(ctx context.Context) ([]models.FeedDigest, error)

	Articles(ctx context.Context, q store.ArticleQuery) ([]models.Article, error)
	ArticleBySlug(ctx context.Context, slug string) (*models.Article, error)
	SearchArticles(ctx context.Context, query string, limit int) ([]models.Article, error)
	RelatedArticles(ctx context.Context, a *models.Article, limit int) ([]models.Article, error)
	RecordClick(ctx context.Context, articleID uuid.UUID) error
	RecordPageView(ctx context.Context, path string) error

	UpsertSubscriber(ctx context.Context, email, confirmToken, unsubToken string) (*models.Subscriber, error)
	ConfirmSubscriber(ctx context.Context, email string, at time.Time) error
	SubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	DeleteSubscriber(ctx context.Context, id uuid.UUID) error

	DashboardStats(ctx context.Context, now time.Time) (store.Stats, error)
	DigestsOverTime(ctx context.Context, limit int) ([]store.DigestCount, error)
	SourceDistribution(ctx context.Context) ([]store.LabelCount, error)
	TopicDistribution(ctx context.Context) ([]store.LabelCount, error)
	RecentArticles(ctx context.Context, limit, offset int) ([]models.Article, int64, error)
	Subscribers(ctx context.Context, limit, offset int) ([]models.Subscriber, int64, error)
	PageViewsOverTime(ctx context.Context, now time.Time, days int) ([]store.DayCount, error)
}

type Options struct {
	Redis       *redis.Client
	CacheTTL    time.Duration
	Sessions    *search.Registry
	SearchLimit int
}

type Handler struct {
	store       Store
	redis       *redis.Client
	cacheTTL    time.Duration
	sessions    *search.Registry
	searchLimit int
	now         func() time.Time
}

func New(st Store, opts Options) *Handler {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = search.DefaultLimit
	}
	return &Handler{
		store:       st,
		redis:       opts.Redis,
		cacheTTL:    opts.CacheTTL,
		sessions:    opts.Sessions,
		searchLimit: opts.SearchLimit,
		now:         time.Now,
	}
}

// pagination reads limit and offset query parameters. Missing values are 0.
func pagination(c *gin.Context) (int, int, bool) {
	limit, ok := intQuery(c, "limit")
	if !ok {
		return 0, 0, false
	}
	offset, ok := intQuery(c, "offset")
	if !ok {
		return 0, 0, false
	}
	return limit, offset, true
}

func intQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return n, true
}
