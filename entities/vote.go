package entities

import "time"

// VoteTally holds the aggregate counts for one vote key. Rows are created on
// first vote and never deleted; counts only move through the cast-vote path.
type VoteTally struct {
	VoteKey string `gorm:"primaryKey;size:200" json:"vote_key"`
	Good    uint   `gorm:"default:0" json:"good"`
	Neutral uint   `gorm:"default:0" json:"neutral"`
	Bad     uint   `gorm:"default:0" json:"bad"`
	Timestamp
}

func (VoteTally) TableName() string { return "votes" }

// UserVote records which way a user voted on a key. At most one row per
// (user_id, vote_key); a vote change overwrites VoteType in place.
type UserVote struct {
	UserID    string    `gorm:"primaryKey;size:200" json:"user_id"`
	VoteKey   string    `gorm:"primaryKey;size:200" json:"vote_key"`
	VoteType  string    `gorm:"size:16" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
}

func (UserVote) TableName() string { return "user_votes" }
