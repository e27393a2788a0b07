package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 14, hour, minute, 0, 0, time.UTC)
}

func TestMealCategoryAt(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"early morning", at(5, 30), CategoryBreakfast},
		{"breakfast boundary", at(7, 0), CategoryBreakfast},
		{"just after breakfast", at(7, 1), CategoryLunch},
		{"noon", at(12, 0), CategoryLunch},
		{"lunch boundary", at(16, 30), CategoryLunch},
		{"just after lunch", at(16, 31), CategoryDinner},
		{"late evening", at(23, 59), CategoryDinner},
		{"midnight", at(0, 0), CategoryBreakfast},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MealCategoryAt(tt.now))
		})
	}
}

func TestVotingEligible(t *testing.T) {
	noon := at(12, 0)

	assert.True(t, VotingEligible("2026-03-14", CategoryLunch, noon))
	assert.False(t, VotingEligible("2026-03-13", CategoryLunch, noon), "yesterday's menu is read-only")
	assert.False(t, VotingEligible("2026-03-15", CategoryLunch, noon), "tomorrow's menu is read-only")
	assert.False(t, VotingEligible("2026-03-14", CategoryDinner, noon), "dinner is not open at noon")
	assert.False(t, VotingEligible("2026-03-14", CategoryBreakfast, noon), "breakfast has closed by noon")
}

func TestVoteKeyEligible(t *testing.T) {
	noon := at(12, 0)

	assert.True(t, VoteKeyEligible("vote_2026-03-14_lunch_pasta_menu1", noon))
	assert.False(t, VoteKeyEligible("vote_2026-03-14_dinner_stew_menu1", noon))
	assert.False(t, VoteKeyEligible("vote_2026-03-13_lunch_pasta_menu1", noon))
	assert.False(t, VoteKeyEligible("not_a_vote_key", noon))
	assert.False(t, VoteKeyEligible("", noon))
}
