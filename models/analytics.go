package models

import (
	"time"

	"github.com/google/uuid"
)

// ArticleClick records one outbound click on an article.
type ArticleClick struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ArticleID uuid.UUID `gorm:"type:uuid;not null;index" json:"article_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (ArticleClick) TableName() string {
	return "article_clicks"
}

type PageView struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Path      string    `gorm:"index" json:"path"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (PageView) TableName() string {
	return "page_views"
}
