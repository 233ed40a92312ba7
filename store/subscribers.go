package store

import (
	"context"
	"fmt"
	"time"

	"github.com/felipepimentel/ai-news-digest/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// UpsertSubscriber inserts the email or, if it already exists, resets its
// tokens and confirmation state.
func (s *Store) UpsertSubscriber(ctx context.Context, email, confirmToken, unsubToken string) (*models.Subscriber, error) {
	sub := models.Subscriber{
		Email:        email,
		ConfirmToken: confirmToken,
		UnsubToken:   unsubToken,
	}
	err := s.conn(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]any{
			"confirm_token": confirmToken,
			"unsub_token":   unsubToken,
			"confirmed":     false,
			"confirmed_at":  nil,
		}),
	}).Create(&sub).Error
	if err != nil {
		return nil, fmt.Errorf("upserting subscriber: %w", err)
	}
	return &sub, nil
}

func (s *Store) ConfirmSubscriber(ctx context.Context, email string, at time.Time) error {
	res := s.conn(ctx).
		Model(&models.Subscriber{}).
		Where("email = ?", email).
		Updates(map[string]any{"confirmed": true, "confirmed_at": at})
	if res.Error != nil {
		return fmt.Errorf("confirming subscriber: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SubscriberByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	var sub models.Subscriber
	if err := s.conn(ctx).Where("email = ?", email).First(&sub).Error; err != nil {
		return nil, notFound(err)
	}
	return &sub, nil
}

func (s *Store) DeleteSubscriber(ctx context.Context, id uuid.UUID) error {
	if err := s.conn(ctx).Delete(&models.Subscriber{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("deleting subscriber: %w", err)
	}
	return nil
}
