package config

import (
	"fmt"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var searchVectorDDL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,
	`ALTER TABLE articles ADD COLUMN IF NOT EXISTS search_vector tsvector
		GENERATED ALWAYS AS (
			setweight(to_tsvector('english', coalesce(title, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(summary, '')), 'B') ||
			setweight(to_tsvector('english', coalesce(content_snippet, '')), 'C')
		) STORED`,
	`CREATE INDEX IF NOT EXISTS idx_articles_search_vector ON articles USING GIN (search_vector)`,
	`CREATE INDEX IF NOT EXISTS idx_articles_matched_topics ON articles USING GIN (matched_topics)`,
}

// MigrateDB creates the schema and the full-text search column.
func MigrateDB(db *gorm.DB) error {
	if err := db.Exec(searchVectorDDL[0]).Error; err != nil {
		return fmt.Errorf("enabling pgcrypto: %w", err)
	}

	err := db.AutoMigrate(
		&models.Digest{},
		&models.Article{},
		&models.Subscriber{},
		&models.Profile{},
		&models.ArticleClick{},
		&models.PageView{},
	)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}

	for _, stmt := range searchVectorDDL[1:] {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("creating search index: %w", err)
		}
	}
	logrus.Info("database migration completed successfully")
	return nil
}
