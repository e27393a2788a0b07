package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"eatinator/entities"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestLimiter(t *testing.T) (*limiter, *gorm.DB) {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.RateLimitEvent{}))

	l := NewLimiter(db).(*limiter)
	return l, db
}

func TestLimiterAllow(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	window := time.Hour

	t.Run("admits up to max then denies", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		l.now = func() time.Time { return base }

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
			require.NoError(t, err)
			require.True(t, ok, "request %d should be admitted", i+1)
		}

		ok, err := l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("admits again after the window elapses", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		now := base
		l.now = func() time.Time { return now }

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
			require.NoError(t, err)
			require.True(t, ok)
		}
		ok, err := l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
		require.NoError(t, err)
		require.False(t, ok)

		now = base.Add(window + time.Minute)
		ok, err = l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("prunes events older than the window", func(t *testing.T) {
		l, db := newTestLimiter(t)
		now := base
		l.now = func() time.Time { return now }

		for i := 0; i < 3; i++ {
			ok, err := l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
			require.NoError(t, err)
			require.True(t, ok)
		}

		now = base.Add(window + time.Minute)
		ok, err := l.Allow(ctx, ActionVote, "10.0.0.1", 3, window)
		require.NoError(t, err)
		require.True(t, ok)

		var count int64
		require.NoError(t, db.Model(&entities.RateLimitEvent{}).
			Where("action = ? AND client = ?", ActionVote, "10.0.0.1").
			Count(&count).Error)
		require.Equal(t, int64(1), count, "stale events should be gone")
	})

	t.Run("partial window expiry frees exactly the expired slots", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		now := base
		l.now = func() time.Time { return now }

		ok, err := l.Allow(ctx, ActionUpload, "10.0.0.2", 2, window)
		require.NoError(t, err)
		require.True(t, ok)

		now = base.Add(30 * time.Minute)
		ok, err = l.Allow(ctx, ActionUpload, "10.0.0.2", 2, window)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = l.Allow(ctx, ActionUpload, "10.0.0.2", 2, window)
		require.NoError(t, err)
		require.False(t, ok)

		// The first event falls out of the window, the second stays in.
		now = base.Add(window + time.Minute)
		ok, err = l.Allow(ctx, ActionUpload, "10.0.0.2", 2, window)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = l.Allow(ctx, ActionUpload, "10.0.0.2", 2, window)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("budgets are independent per client", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		l.now = func() time.Time { return base }

		ok, err := l.Allow(ctx, ActionVote, "10.0.0.3", 1, window)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = l.Allow(ctx, ActionVote, "10.0.0.3", 1, window)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = l.Allow(ctx, ActionVote, "10.0.0.4", 1, window)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("budgets are independent per action", func(t *testing.T) {
		l, _ := newTestLimiter(t)
		l.now = func() time.Time { return base }

		ok, err := l.Allow(ctx, ActionVote, "10.0.0.5", 1, window)
		require.NoError(t, err)
		require.True(t, ok)
		ok, err = l.Allow(ctx, ActionVote, "10.0.0.5", 1, window)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = l.Allow(ctx, ActionAssistant, "10.0.0.5", 1, window)
		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("denied requests are not recorded", func(t *testing.T) {
		l, db := newTestLimiter(t)
		l.now = func() time.Time { return base }

		for i := 0; i < 5; i++ {
			_, err := l.Allow(ctx, ActionVote, "10.0.0.6", 2, window)
			require.NoError(t, err)
		}

		var count int64
		require.NoError(t, db.Model(&entities.RateLimitEvent{}).
			Where("action = ? AND client = ?", ActionVote, "10.0.0.6").
			Count(&count).Error)
		require.Equal(t, int64(2), count)
	})
}

func TestLimiterConcurrentClients(t *testing.T) {
	ctx := context.Background()
	l, _ := newTestLimiter(t)
	l.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }

	for i := 0; i < 10; i++ {
		client := fmt.Sprintf("172.16.0.%d", i)
		ok, err := l.Allow(ctx, ActionVote, client, 1, time.Hour)
		require.NoError(t, err)
		require.True(t, ok)
	}
}
