package vote

import (
	"context"
	"errors"
	"testing"
	"time"

	"eatinator/domain"
	"eatinator/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockVoteRepository struct {
	mock.Mock
}

func (m *MockVoteRepository) GetTally(ctx context.Context, voteKey string) (*entities.VoteTally, error) {
	args := m.Called(ctx, voteKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VoteTally), args.Error(1)
}

func (m *MockVoteRepository) IncrementTally(ctx context.Context, voteKey, voteType string) error {
	args := m.Called(ctx, voteKey, voteType)
	return args.Error(0)
}

func (m *MockVoteRepository) DecrementTally(ctx context.Context, voteKey, voteType string) error {
	args := m.Called(ctx, voteKey, voteType)
	return args.Error(0)
}

func (m *MockVoteRepository) GetUserVote(ctx context.Context, userID, voteKey string) (*entities.UserVote, error) {
	args := m.Called(ctx, userID, voteKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.UserVote), args.Error(1)
}

func (m *MockVoteRepository) CountUserVotes(ctx context.Context, userID string) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoteRepository) CreateUserVote(ctx context.Context, userVote *entities.UserVote) error {
	args := m.Called(ctx, userVote)
	return args.Error(0)
}

func (m *MockVoteRepository) UpdateUserVoteType(ctx context.Context, userID, voteKey, voteType string) error {
	args := m.Called(ctx, userID, voteKey, voteType)
	return args.Error(0)
}

func (m *MockVoteRepository) TallyTotals(ctx context.Context) (uint, uint, uint, uint, error) {
	args := m.Called(ctx)
	return args.Get(0).(uint), args.Get(1).(uint), args.Get(2).(uint), args.Get(3).(uint), args.Error(4)
}

func (m *MockVoteRepository) CountVotesSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoteRepository) TopItems(ctx context.Context, limit int) ([]*entities.VoteTally, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.VoteTally), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, token, remoteIP string) bool {
	args := m.Called(ctx, token, remoteIP)
	return args.Bool(0)
}

type MockLimiter struct {
	mock.Mock
}

func (m *MockLimiter) Allow(ctx context.Context, action, client string, max int, window time.Duration) (bool, error) {
	args := m.Called(ctx, action, client, max, window)
	return args.Bool(0), args.Error(1)
}

func newTestVoteService(repo *MockVoteRepository, verifier *MockVerifier, limiter *MockLimiter, now time.Time) VoteService {
	s := NewVoteService(repo, verifier, limiter, 50).(*voteService)
	s.now = func() time.Time { return now }
	return s
}

func TestVoteService_GetVotes(t *testing.T) {
	t.Run("returns tally for an existing key", func(t *testing.T) {
		repo := new(MockVoteRepository)
		service := newTestVoteService(repo, nil, nil, time.Now())

		repo.On("GetTally", mock.Anything, "vote_2026-03-14_lunch_pasta_menu1").
			Return(&entities.VoteTally{VoteKey: "vote_2026-03-14_lunch_pasta_menu1", Good: 3, Neutral: 1, Bad: 2}, nil).Once()

		res, err := service.GetVotes(context.Background(), "vote_2026-03-14_lunch_pasta_menu1")
		assert.NoError(t, err)
		assert.Equal(t, domain.VoteTallyResponse{Good: 3, Neutral: 1, Bad: 2}, res)
		repo.AssertExpectations(t)
	})

	t.Run("returns zeroed tally for an unseen key", func(t *testing.T) {
		repo := new(MockVoteRepository)
		service := newTestVoteService(repo, nil, nil, time.Now())

		repo.On("GetTally", mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound).Once()

		res, err := service.GetVotes(context.Background(), "vote_2026-03-14_lunch_never_seen")
		assert.NoError(t, err)
		assert.Equal(t, domain.VoteTallyResponse{}, res)
		repo.AssertExpectations(t)
	})

	t.Run("sanitizes the key before lookup", func(t *testing.T) {
		repo := new(MockVoteRepository)
		service := newTestVoteService(repo, nil, nil, time.Now())

		repo.On("GetTally", mock.Anything, "vote_2026-03-14_lunch_p_t__menu1").
			Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := service.GetVotes(context.Background(), "vote_2026-03-14_lunch_p@t!_menu1")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("rejects an empty key", func(t *testing.T) {
		service := newTestVoteService(new(MockVoteRepository), nil, nil, time.Now())

		_, err := service.GetVotes(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrInvalidVoteKey)
	})
}

func TestVoteService_CastVote(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	key := "vote_2026-03-14_lunch_pasta_menu1"
	req := domain.CastVoteRequest{Key: key, VoteType: domain.VoteGood, UserID: "user-1"}

	t.Run("records a first vote", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(true, nil).Once()
		repo.On("GetUserVote", mock.Anything, "user-1", key).Return(nil, gorm.ErrRecordNotFound).Once()
		repo.On("CountUserVotes", mock.Anything, "user-1").Return(int64(3), nil).Once()
		repo.On("IncrementTally", mock.Anything, key, domain.VoteGood).Return(nil).Once()
		repo.On("CreateUserVote", mock.Anything, mock.MatchedBy(func(v *entities.UserVote) bool {
			return v.UserID == "user-1" && v.VoteKey == key && v.VoteType == domain.VoteGood
		})).Return(nil).Once()
		repo.On("GetTally", mock.Anything, key).
			Return(&entities.VoteTally{VoteKey: key, Good: 1}, nil).Once()

		res, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.NoError(t, err)
		assert.Equal(t, domain.VoteTallyResponse{Good: 1}, res)
		repo.AssertExpectations(t)
		verifier.AssertExpectations(t)
		limiter.AssertExpectations(t)
	})

	t.Run("moves the count when changing an eligible vote", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		existing := &entities.UserVote{UserID: "user-1", VoteKey: key, VoteType: domain.VoteBad}
		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(true, nil).Once()
		repo.On("GetUserVote", mock.Anything, "user-1", key).Return(existing, nil).Once()
		repo.On("DecrementTally", mock.Anything, key, domain.VoteBad).Return(nil).Once()
		repo.On("IncrementTally", mock.Anything, key, domain.VoteGood).Return(nil).Once()
		repo.On("UpdateUserVoteType", mock.Anything, "user-1", key, domain.VoteGood).Return(nil).Once()
		repo.On("GetTally", mock.Anything, key).
			Return(&entities.VoteTally{VoteKey: key, Good: 4, Bad: 1}, nil).Once()

		res, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.NoError(t, err)
		assert.Equal(t, domain.VoteTallyResponse{Good: 4, Bad: 1}, res)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a repeat vote of the same type", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		existing := &entities.UserVote{UserID: "user-1", VoteKey: key, VoteType: domain.VoteGood}
		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(true, nil).Once()
		repo.On("GetUserVote", mock.Anything, "user-1", key).Return(existing, nil).Once()

		_, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
		repo.AssertNotCalled(t, "DecrementTally", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects a vote change after the meal window closed", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		evening := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
		service := newTestVoteService(repo, verifier, limiter, evening)

		existing := &entities.UserVote{UserID: "user-1", VoteKey: key, VoteType: domain.VoteBad}
		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(true, nil).Once()
		repo.On("GetUserVote", mock.Anything, "user-1", key).Return(existing, nil).Once()

		_, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrVoteWindowClosed)
		repo.AssertNotCalled(t, "DecrementTally", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("enforces the per-user vote cap", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(true, nil).Once()
		repo.On("GetUserVote", mock.Anything, "user-1", key).Return(nil, gorm.ErrRecordNotFound).Once()
		repo.On("CountUserVotes", mock.Anything, "user-1").Return(int64(50), nil).Once()

		_, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrVoteLimitExceeded)
		repo.AssertNotCalled(t, "IncrementTally", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects when the rate limit is hit", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(false, nil).Once()

		_, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrRateLimited)
		repo.AssertNotCalled(t, "GetUserVote", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects when verification fails", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(false).Once()

		_, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrVerificationFailed)
		limiter.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an invalid vote type", func(t *testing.T) {
		service := newTestVoteService(new(MockVoteRepository), new(MockVerifier), new(MockLimiter), now)

		bad := req
		bad.VoteType = "excellent"
		_, err := service.CastVote(context.Background(), bad, "10.0.0.1")
		assert.ErrorIs(t, err, domain.ErrInvalidVoteType)
	})

	t.Run("repository failure surfaces unchanged", func(t *testing.T) {
		repo := new(MockVoteRepository)
		verifier := new(MockVerifier)
		limiter := new(MockLimiter)
		service := newTestVoteService(repo, verifier, limiter, now)

		dbErr := errors.New("connection reset")
		verifier.On("Verify", mock.Anything, "", "10.0.0.1").Return(true).Once()
		limiter.On("Allow", mock.Anything, "vote", "10.0.0.1", voteRateMax, voteRateWindow).Return(true, nil).Once()
		repo.On("GetUserVote", mock.Anything, "user-1", key).Return(nil, dbErr).Once()

		_, err := service.CastVote(context.Background(), req, "10.0.0.1")
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestVoteService_GetStats(t *testing.T) {
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	repo := new(MockVoteRepository)
	service := newTestVoteService(repo, nil, nil, now)

	top := []*entities.VoteTally{
		{VoteKey: "vote_2026-03-14_lunch_pasta_menu1", Good: 5, Neutral: 2, Bad: 1},
		{VoteKey: "vote_2026-03-14_lunch_salad_menu2", Good: 3},
	}
	repo.On("TallyTotals", mock.Anything).Return(uint(8), uint(2), uint(1), uint(2), nil).Once()
	repo.On("CountVotesSince", mock.Anything, now.AddDate(0, 0, -7)).Return(int64(11), nil).Once()
	repo.On("TopItems", mock.Anything, 10).Return(top, nil).Once()

	stats, err := service.GetStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, uint(8), stats.TotalGood)
	assert.Equal(t, uint(2), stats.TotalItems)
	assert.Equal(t, uint(11), stats.RecentActivity)
	assert.Len(t, stats.TopItems, 2)
	assert.Equal(t, uint(8), stats.TopItems[0].TotalVotes)
	repo.AssertExpectations(t)
}
