package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/felipepimentel/ai-news-digest/config"
	"github.com/felipepimentel/ai-news-digest/controllers"
	"github.com/felipepimentel/ai-news-digest/global"
	"github.com/felipepimentel/ai-news-digest/router"
	"github.com/felipepimentel/ai-news-digest/search"
	"github.com/felipepimentel/ai-news-digest/staticfeed"
	"github.com/felipepimentel/ai-news-digest/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var flagMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		gin.SetMode(cfg.App.Mode)

		if err := config.InitDB(cfg); err != nil {
			return err
		}
		if err := config.InitRedis(cfg); err != nil {
			return err
		}
		defer global.RedisDB.Close()

		if flagMigrate {
			if err := config.MigrateDB(global.DB); err != nil {
				return err
			}
		}

		st := store.New(global.DB)
		sessions := search.NewRegistry(sessionFactory(st), cfg.Search.SessionTTL, cfg.Search.MaxSessions)
		defer sessions.Close()

		h := controllers.New(st, controllers.Options{
			Redis:       global.RedisDB,
			CacheTTL:    cfg.Cache.TTL,
			Sessions:    sessions,
			SearchLimit: cfg.Search.Limit,
		})
		r := router.InitRouter(h, router.Options{
			Origins:   cfg.CORS.Origins,
			JWTSecret: cfg.Auth.JWTSecret,
			DataDir:   cfg.Feed.DataDir,
			Roles:     st,
		})

		return serve(cmd.Context(), r)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&flagMigrate, "migrate", false, "run database migrations before serving")
}

// sessionFactory hands every search session a reference to one shared
// corpus. Each rebuild reads the archive through a fresh static feed client
// when a feed URL is configured, the database otherwise.
func sessionFactory(st *store.Store) func() *search.Session {
	corpus := search.NewCorpus(func() search.Loader {
		if cfg.Feed.BaseURL != "" {
			return staticfeed.NewClient(cfg.Feed.BaseURL)
		}
		return st
	}, search.Options{Threshold: cfg.Search.Threshold}, cfg.Cache.TTL)

	return func() *search.Session {
		return search.NewSharedSession(corpus)
	}
}

func serve(ctx context.Context, handler http.Handler) error {
	port := cfg.App.Port
	if port == "" {
		port = ":8080"
	}
	srv := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", port).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	logrus.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logrus.Info("server exiting")
	return nil
}
