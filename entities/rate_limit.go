package entities

import "time"

// RateLimitEvent is one request inside a sliding rate-limit window. Events
// older than the window are pruned lazily on every check.
type RateLimitEvent struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"`
	Action      string    `gorm:"size:32;index:idx_rate_limit_window"`
	Client      string    `gorm:"size:64;index:idx_rate_limit_window"`
	RequestedAt time.Time `gorm:"index:idx_rate_limit_window"`
}

func (RateLimitEvent) TableName() string { return "rate_limit_events" }
