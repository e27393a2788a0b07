package domain

import "time"

const (
	CategoryBreakfast = "breakfast"
	CategoryLunch     = "lunch"
	CategoryDinner    = "dinner"
)

// Meal period boundaries in minutes since midnight. Breakfast runs until
// 07:00, lunch until 16:30, dinner covers the rest of the day.
const (
	breakfastEnd = 7 * 60
	lunchEnd     = 16*60 + 30
)

// MealCategoryAt returns the meal category the given wall-clock time falls in.
func MealCategoryAt(now time.Time) string {
	minutes := now.Hour()*60 + now.Minute()
	switch {
	case minutes <= breakfastEnd:
		return CategoryBreakfast
	case minutes <= lunchEnd:
		return CategoryLunch
	default:
		return CategoryDinner
	}
}

// VotingEligible reports whether votes may be cast or changed for an item on
// the given date and meal category. Voting is only open while viewing today's
// menu during the matching meal period; everything else is read-only.
func VotingEligible(date, category string, now time.Time) bool {
	return date == now.Format("2006-01-02") && category == MealCategoryAt(now)
}

// VoteKeyEligible applies VotingEligible to the date and category embedded in
// a vote key. Keys that do not carry both parts are never eligible.
func VoteKeyEligible(key string, now time.Time) bool {
	date, category, ok := ParseVoteKey(key)
	if !ok {
		return false
	}
	return VotingEligible(date, category, now)
}
