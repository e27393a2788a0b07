package vote

import (
	"context"
	"time"

	"eatinator/entities"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	VoteRepository interface {
		GetTally(ctx context.Context, voteKey string) (*entities.VoteTally, error)
		IncrementTally(ctx context.Context, voteKey, voteType string) error
		DecrementTally(ctx context.Context, voteKey, voteType string) error
		GetUserVote(ctx context.Context, userID, voteKey string) (*entities.UserVote, error)
		CountUserVotes(ctx context.Context, userID string) (int64, error)
		CreateUserVote(ctx context.Context, userVote *entities.UserVote) error
		UpdateUserVoteType(ctx context.Context, userID, voteKey, voteType string) error

		// Statistics
		TallyTotals(ctx context.Context) (good, neutral, bad, items uint, err error)
		CountVotesSince(ctx context.Context, since time.Time) (int64, error)
		TopItems(ctx context.Context, limit int) ([]*entities.VoteTally, error)
	}

	voteRepository struct {
		db *gorm.DB
	}
)

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

func (r *voteRepository) GetTally(ctx context.Context, voteKey string) (*entities.VoteTally, error) {
	var tally entities.VoteTally
	if err := r.db.WithContext(ctx).Where("vote_key = ?", voteKey).First(&tally).Error; err != nil {
		return nil, err
	}
	return &tally, nil
}

// IncrementTally bumps one counter with an upsert so two concurrent votes for
// the same key never lose an increment. voteType is validated upstream and is
// one of the three fixed column names.
func (r *voteRepository) IncrementTally(ctx context.Context, voteKey, voteType string) error {
	tally := &entities.VoteTally{VoteKey: voteKey}
	switch voteType {
	case "good":
		tally.Good = 1
	case "neutral":
		tally.Neutral = 1
	case "bad":
		tally.Bad = 1
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "vote_key"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			voteType:     gorm.Expr("votes." + voteType + " + 1"),
			"updated_at": gorm.Expr("CURRENT_TIMESTAMP"),
		}),
	}).Create(tally).Error
}

// DecrementTally lowers one counter in place, clamped at zero so racing
// decrements cannot underflow.
func (r *voteRepository) DecrementTally(ctx context.Context, voteKey, voteType string) error {
	return r.db.WithContext(ctx).Model(&entities.VoteTally{}).
		Where("vote_key = ?", voteKey).
		Update(voteType, gorm.Expr("GREATEST("+voteType+" - 1, 0)")).Error
}

func (r *voteRepository) GetUserVote(ctx context.Context, userID, voteKey string) (*entities.UserVote, error) {
	var userVote entities.UserVote
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND vote_key = ?", userID, voteKey).
		First(&userVote).Error; err != nil {
		return nil, err
	}
	return &userVote, nil
}

func (r *voteRepository) CountUserVotes(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.UserVote{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *voteRepository) CreateUserVote(ctx context.Context, userVote *entities.UserVote) error {
	return r.db.WithContext(ctx).Create(userVote).Error
}

func (r *voteRepository) UpdateUserVoteType(ctx context.Context, userID, voteKey, voteType string) error {
	return r.db.WithContext(ctx).Model(&entities.UserVote{}).
		Where("user_id = ? AND vote_key = ?", userID, voteKey).
		Update("vote_type", voteType).Error
}

func (r *voteRepository) TallyTotals(ctx context.Context) (good, neutral, bad, items uint, err error) {
	var totals struct {
		Good  *uint
		Neut  *uint
		Bad   *uint
		Items uint
	}
	err = r.db.WithContext(ctx).Model(&entities.VoteTally{}).
		Select("SUM(good) as good, SUM(neutral) as neut, SUM(bad) as bad, COUNT(*) as items").
		Scan(&totals).Error
	if err != nil {
		return 0, 0, 0, 0, err
	}
	deref := func(v *uint) uint {
		if v == nil {
			return 0
		}
		return *v
	}
	return deref(totals.Good), deref(totals.Neut), deref(totals.Bad), totals.Items, nil
}

func (r *voteRepository) CountVotesSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entities.UserVote{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func (r *voteRepository) TopItems(ctx context.Context, limit int) ([]*entities.VoteTally, error) {
	var items []*entities.VoteTally
	err := r.db.WithContext(ctx).Model(&entities.VoteTally{}).
		Order("good + neutral + bad DESC").
		Limit(limit).
		Find(&items).Error
	return items, err
}
