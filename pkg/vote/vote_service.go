package vote

import (
	"context"
	"errors"
	"time"

	"eatinator/domain"
	"eatinator/entities"
	"eatinator/pkg/ratelimit"
	"eatinator/pkg/turnstile"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Per-IP vote budget: 20 votes per hour.
const (
	voteRateMax    = 20
	voteRateWindow = time.Hour
)

type (
	VoteService interface {
		GetVotes(ctx context.Context, voteKey string) (domain.VoteTallyResponse, error)
		CastVote(ctx context.Context, req domain.CastVoteRequest, clientIP string) (domain.VoteTallyResponse, error)
		GetStats(ctx context.Context) (domain.VoteStatsResponse, error)
	}

	voteService struct {
		voteRepository  VoteRepository
		verifier        turnstile.Verifier
		limiter         ratelimit.Limiter
		maxVotesPerUser int
		now             func() time.Time
	}
)

func NewVoteService(voteRepository VoteRepository, verifier turnstile.Verifier, limiter ratelimit.Limiter, maxVotesPerUser int) VoteService {
	return &voteService{
		voteRepository:  voteRepository,
		verifier:        verifier,
		limiter:         limiter,
		maxVotesPerUser: maxVotesPerUser,
		now:             time.Now,
	}
}

// GetVotes returns the tally for a key, zeroed when the key has never been
// voted on. Unknown keys are not an error.
func (s *voteService) GetVotes(ctx context.Context, voteKey string) (domain.VoteTallyResponse, error) {
	key := domain.SanitizeKey(voteKey)
	if key == "" {
		return domain.VoteTallyResponse{}, domain.ErrInvalidVoteKey
	}

	tally, err := s.voteRepository.GetTally(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.VoteTallyResponse{}, nil
		}
		return domain.VoteTallyResponse{}, err
	}

	return domain.VoteTallyResponse{
		Good:    tally.Good,
		Neutral: tally.Neutral,
		Bad:     tally.Bad,
	}, nil
}

// CastVote records a vote or, while the item's meal window is still open,
// changes an existing one. A vote change moves one count from the old type to
// the new type; the sum across all three types stays constant.
func (s *voteService) CastVote(ctx context.Context, req domain.CastVoteRequest, clientIP string) (domain.VoteTallyResponse, error) {
	key := domain.SanitizeKey(req.Key)
	userID := domain.SanitizeKey(req.UserID)
	if key == "" {
		return domain.VoteTallyResponse{}, domain.ErrInvalidVoteKey
	}
	if userID == "" {
		return domain.VoteTallyResponse{}, domain.ErrInvalidUserID
	}
	if !domain.ValidVoteType(req.VoteType) {
		return domain.VoteTallyResponse{}, domain.ErrInvalidVoteType
	}

	if !s.verifier.Verify(ctx, req.TurnstileToken, clientIP) {
		return domain.VoteTallyResponse{}, domain.ErrVerificationFailed
	}

	allowed, err := s.limiter.Allow(ctx, ratelimit.ActionVote, clientIP, voteRateMax, voteRateWindow)
	if err != nil {
		return domain.VoteTallyResponse{}, err
	}
	if !allowed {
		return domain.VoteTallyResponse{}, domain.ErrRateLimited
	}

	existing, err := s.voteRepository.GetUserVote(ctx, userID, key)
	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.castNewVote(ctx, key, userID, req.VoteType); err != nil {
			return domain.VoteTallyResponse{}, err
		}
	case err != nil:
		return domain.VoteTallyResponse{}, err
	default:
		if err := s.changeVote(ctx, existing, req.VoteType); err != nil {
			return domain.VoteTallyResponse{}, err
		}
	}

	log.Info().
		Str("vote_key", key).
		Str("vote_type", req.VoteType).
		Str("user_id", userID).
		Msg("vote cast")

	return s.GetVotes(ctx, key)
}

func (s *voteService) castNewVote(ctx context.Context, voteKey, userID, voteType string) error {
	count, err := s.voteRepository.CountUserVotes(ctx, userID)
	if err != nil {
		return err
	}
	if count >= int64(s.maxVotesPerUser) {
		return domain.ErrVoteLimitExceeded
	}

	if err := s.voteRepository.IncrementTally(ctx, voteKey, voteType); err != nil {
		return err
	}
	return s.voteRepository.CreateUserVote(ctx, &entities.UserVote{
		UserID:   userID,
		VoteKey:  voteKey,
		VoteType: voteType,
	})
}

func (s *voteService) changeVote(ctx context.Context, existing *entities.UserVote, voteType string) error {
	if existing.VoteType == voteType {
		return domain.ErrAlreadyVoted
	}
	if !domain.VoteKeyEligible(existing.VoteKey, s.now()) {
		return domain.ErrVoteWindowClosed
	}

	if err := s.voteRepository.DecrementTally(ctx, existing.VoteKey, existing.VoteType); err != nil {
		return err
	}
	if err := s.voteRepository.IncrementTally(ctx, existing.VoteKey, voteType); err != nil {
		return err
	}
	return s.voteRepository.UpdateUserVoteType(ctx, existing.UserID, existing.VoteKey, voteType)
}

func (s *voteService) GetStats(ctx context.Context) (domain.VoteStatsResponse, error) {
	good, neutral, bad, items, err := s.voteRepository.TallyTotals(ctx)
	if err != nil {
		return domain.VoteStatsResponse{}, err
	}

	recent, err := s.voteRepository.CountVotesSince(ctx, s.now().AddDate(0, 0, -7))
	if err != nil {
		return domain.VoteStatsResponse{}, err
	}

	top, err := s.voteRepository.TopItems(ctx, 10)
	if err != nil {
		return domain.VoteStatsResponse{}, err
	}

	topItems := make([]domain.TopVotedItem, 0, len(top))
	for _, t := range top {
		topItems = append(topItems, domain.TopVotedItem{
			VoteKey:    t.VoteKey,
			Good:       t.Good,
			Neutral:    t.Neutral,
			Bad:        t.Bad,
			TotalVotes: t.Good + t.Neutral + t.Bad,
		})
	}

	return domain.VoteStatsResponse{
		TotalGood:      good,
		TotalNeutral:   neutral,
		TotalBad:       bad,
		TotalItems:     items,
		RecentActivity: uint(recent),
		TopItems:       topItems,
	}, nil
}
