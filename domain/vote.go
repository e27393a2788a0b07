package domain

import "errors"

const (
	VoteGood    = "good"
	VoteNeutral = "neutral"
	VoteBad     = "bad"
)

var (
	MessageSuccessGetVotes  = "votes retrieved successfully"
	MessageSuccessCastVote  = "vote recorded successfully"
	MessageSuccessVoteStats = "voting statistics retrieved successfully"

	MessageFailedGetVotes  = "failed to get votes"
	MessageFailedCastVote  = "failed to save vote"
	MessageFailedVoteStats = "failed to get voting statistics"

	ErrInvalidVoteType   = errors.New("invalid vote type, must be: good, neutral or bad")
	ErrInvalidVoteKey    = errors.New("invalid vote key")
	ErrInvalidUserID     = errors.New("invalid user id")
	ErrAlreadyVoted      = errors.New("user has already voted for this item")
	ErrVoteLimitExceeded = errors.New("vote limit exceeded for this user")
	ErrVoteWindowClosed  = errors.New("voting is closed for this item")
)

// ValidVoteType reports whether t is one of the three accepted vote types.
func ValidVoteType(t string) bool {
	return t == VoteGood || t == VoteNeutral || t == VoteBad
}

type (
	CastVoteRequest struct {
		Key            string `json:"key" validate:"required"`
		VoteType       string `json:"voteType" validate:"required"`
		UserID         string `json:"userId" validate:"required"`
		PreviousVote   string `json:"previousVote,omitempty" validate:"omitempty"`
		TurnstileToken string `json:"turnstileToken,omitempty"`
	}

	// LegacyVoteRequest is the older transport shape kept for backward
	// compatibility: same fields plus an action discriminator.
	LegacyVoteRequest struct {
		Action string `json:"action" validate:"required,eq=vote"`
		CastVoteRequest
	}

	VoteTallyResponse struct {
		Good    uint `json:"good"`
		Neutral uint `json:"neutral"`
		Bad     uint `json:"bad"`
	}

	TopVotedItem struct {
		VoteKey    string `json:"voteKey"`
		Good       uint   `json:"good"`
		Neutral    uint   `json:"neutral"`
		Bad        uint   `json:"bad"`
		TotalVotes uint   `json:"totalVotes"`
	}

	VoteStatsResponse struct {
		TotalGood      uint           `json:"totalGood"`
		TotalNeutral   uint           `json:"totalNeutral"`
		TotalBad       uint           `json:"totalBad"`
		TotalItems     uint           `json:"totalItems"`
		RecentActivity uint           `json:"recentActivity"`
		TopItems       []TopVotedItem `json:"topItems"`
	}
)
