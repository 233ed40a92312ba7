package store

import (
	"context"
	"fmt"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/samber/lo/mutable"
	"golang.org/x/sync/errgroup"
)

type Stats struct {
	Articles    int64 `json:"articles"`
	Subscribers int64 `json:"subscribers"`
	Digests     int64 `json:"digests"`
	Clicks      int64 `json:"clicks_30d"`
}

type DigestCount struct {
	Date       string `json:"date"`
	TotalItems int    `json:"total_items"`
}

type LabelCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// DashboardStats counts the headline numbers concurrently.
func (s *Store) DashboardStats(ctx context.Context, now time.Time) (Stats, error) {
	var stats Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.conn(ctx).Model(&models.Article{}).Count(&stats.Articles).Error
	})
	g.Go(func() error {
		return s.conn(ctx).Model(&models.Subscriber{}).Where("confirmed = ?", true).Count(&stats.Subscribers).Error
	})
	g.Go(func() error {
		return s.conn(ctx).Model(&models.Digest{}).Count(&stats.Digests).Error
	})
	g.Go(func() error {
		since := now.AddDate(0, 0, -30)
		return s.conn(ctx).Model(&models.ArticleClick{}).Where("created_at >= ?", since).Count(&stats.Clicks).Error
	})

	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("loading dashboard stats: %w", err)
	}
	return stats, nil
}

// DigestsOverTime returns the most recent digests, oldest first.
func (s *Store) DigestsOverTime(ctx context.Context, limit int) ([]DigestCount, error) {
	if limit <= 0 {
		limit = DefaultOverTimeLimit
	}
	var digests []models.Digest
	err := s.conn(ctx).
		Select("id", "generated_at", "total_items").
		Order("generated_at DESC").
		Limit(limit).
		Find(&digests).Error
	if err != nil {
		return nil, fmt.Errorf("loading digests over time: %w", err)
	}

	points := lo.Map(digests, func(d models.Digest, _ int) DigestCount {
		return DigestCount{Date: d.Day(), TotalItems: d.TotalItems}
	})
	mutable.Reverse(points)
	return points, nil
}

func (s *Store) SourceDistribution(ctx context.Context) ([]LabelCount, error) {
	rows := []LabelCount{}
	err := s.conn(ctx).
		Model(&models.Article{}).
		Select("source_type AS name, COUNT(*) AS count").
		Group("source_type").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading source distribution: %w", err)
	}
	return rows, nil
}

// TopicDistribution counts articles per matched topic.
func (s *Store) TopicDistribution(ctx context.Context) ([]LabelCount, error) {
	rows := []LabelCount{}
	err := s.conn(ctx).
		Raw(`SELECT topic AS name, COUNT(*) AS count
			FROM articles, unnest(matched_topics) AS topic
			GROUP BY topic
			ORDER BY count DESC, topic
			LIMIT ?`, DefaultTopicLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading topic distribution: %w", err)
	}
	return rows, nil
}

func (s *Store) RecentArticles(ctx context.Context, limit, offset int) ([]models.Article, int64, error) {
	limit, offset = Page(limit, offset, DefaultTablePage)

	var total int64
	if err := s.conn(ctx).Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting articles: %w", err)
	}
	var articles []models.Article
	err := s.conn(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&articles).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing recent articles: %w", err)
	}
	return articles, total, nil
}

func (s *Store) Subscribers(ctx context.Context, limit, offset int) ([]models.Subscriber, int64, error) {
	limit, offset = Page(limit, offset, DefaultTablePage)

	var total int64
	if err := s.conn(ctx).Model(&models.Subscriber{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting subscribers: %w", err)
	}
	var subs []models.Subscriber
	err := s.conn(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&subs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("listing subscribers: %w", err)
	}
	return subs, total, nil
}

// PageViewsOverTime counts page views per UTC day over the last days.
func (s *Store) PageViewsOverTime(ctx context.Context, now time.Time, days int) ([]DayCount, error) {
	if days <= 0 {
		days = DefaultViewDays
	}
	since := now.UTC().AddDate(0, 0, -days)

	rows := []DayCount{}
	err := s.conn(ctx).
		Model(&models.PageView{}).
		Select("to_char(created_at AT TIME ZONE 'UTC', 'YYYY-MM-DD') AS day, COUNT(*) AS count").
		Where("created_at >= ?", since).
		Group("day").
		Order("day").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("loading page views: %w", err)
	}
	return rows, nil
}

// ProfileRole returns the role of the profile with the given id.
func (s *Store) ProfileRole(ctx context.Context, userID uuid.UUID) (string, error) {
	var profile models.Profile
	if err := s.conn(ctx).Select("role").Where("id = ?", userID).First(&profile).Error; err != nil {
		return "", notFound(err)
	}
	return profile.Role, nil
}
