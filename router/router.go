package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/felipepimentel/ai-news-digest/controllers"
	"github.com/felipepimentel/ai-news-digest/middlewares"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	Origins   []string
	JWTSecret string
	DataDir   string
	Roles     middlewares.RoleLookup
}

func allowedOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, v := range raw {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return origins
}

func InitRouter(h *controllers.Handler, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())

	origins := allowedOrigins(opts.Origins)
	allowCreds := !(len(origins) == 1 && origins[0] == "*")

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCreds,
		MaxAge:           12 * time.Hour,
	}))

	if opts.DataDir != "" {
		r.StaticFS("/data", http.Dir(opts.DataDir))
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		digests := api.Group("/digests")
		{
			digests.GET("", h.GetDigests)
			digests.GET("/latest", h.GetLatestDigest)
			digests.GET("/dates", h.GetDigestDates)
			digests.GET("/date/:date", h.GetDigestByDate)
			digests.GET("/:id", h.GetDigestByID)
		}
		api.GET("/picks", h.GetPicks)

		articles := api.Group("/articles")
		{
			articles.GET("", h.GetArticles)
			articles.GET("/:slug", h.GetArticleBySlug)
			articles.POST("/:slug/click", h.ClickArticle)
			articles.GET("/:slug/clicks", h.GetArticleClicks)
		}
		api.GET("/search", h.SearchArticles)

		archive := api.Group("/archive")
		{
			archive.GET("/search", h.SearchArchive)
			archive.GET("/analytics", h.GetArchiveAnalytics)
		}

		api.POST("/subscribe", h.Subscribe)
		api.POST("/unsubscribe", h.Unsubscribe)
		api.POST("/pageviews", h.RecordPageView)
	}

	dashboard := api.Group("/dashboard")
	dashboard.Use(middlewares.AuthMiddleware(opts.JWTSecret), middlewares.AdminOnly(opts.Roles))
	{
		dashboard.GET("/stats", h.GetDashboardStats)
		dashboard.GET("/articles", h.GetDashboardArticles)
		dashboard.GET("/subscribers", h.GetDashboardSubscribers)
		dashboard.GET("/analytics", h.GetDashboardAnalytics)
	}

	return r
}
