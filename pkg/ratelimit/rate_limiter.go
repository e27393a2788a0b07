package ratelimit

import (
	"context"
	"time"

	"eatinator/entities"

	"gorm.io/gorm"
)

// Action classes with independent budgets.
const (
	ActionVote      = "vote"
	ActionUpload    = "upload"
	ActionAssistant = "ai"
)

type (
	// Limiter enforces a sliding-window request budget per (action, client)
	// pair. The window is durable, so restarts do not reset budgets.
	Limiter interface {
		Allow(ctx context.Context, action, client string, max int, window time.Duration) (bool, error)
	}

	limiter struct {
		db  *gorm.DB
		now func() time.Time
	}
)

func NewLimiter(db *gorm.DB) Limiter {
	return &limiter{db: db, now: time.Now}
}

// Allow prunes events older than the window, then admits the request only if
// fewer than max events remain. Admitted requests are recorded immediately.
func (l *limiter) Allow(ctx context.Context, action, client string, max int, window time.Duration) (bool, error) {
	now := l.now()
	cutoff := now.Add(-window)

	if err := l.db.WithContext(ctx).
		Where("action = ? AND client = ? AND requested_at < ?", action, client, cutoff).
		Delete(&entities.RateLimitEvent{}).Error; err != nil {
		return false, err
	}

	var count int64
	if err := l.db.WithContext(ctx).
		Model(&entities.RateLimitEvent{}).
		Where("action = ? AND client = ? AND requested_at >= ?", action, client, cutoff).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count >= int64(max) {
		return false, nil
	}

	event := &entities.RateLimitEvent{
		Action:      action,
		Client:      client,
		RequestedAt: now,
	}
	if err := l.db.WithContext(ctx).Create(event).Error; err != nil {
		return false, err
	}
	return true, nil
}
