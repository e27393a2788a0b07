package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeKey(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already clean", "vote_2026-03-14_lunch_pasta_menu1", "vote_2026-03-14_lunch_pasta_menu1"},
		{"special characters replaced", "vote_2026-03-14_lunch_pätzle!_menu1", "vote_2026-03-14_lunch_p_tzle__menu1"},
		{"spaces replaced", "img_2026-03-14_roast beef_menu2", "img_2026-03-14_roast_beef_menu2"},
		{"path traversal neutralized", "../../etc/passwd", "______etc_passwd"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeKey(tt.in))
		})
	}

	t.Run("caps the length", func(t *testing.T) {
		long := strings.Repeat("a", 300)
		assert.Len(t, SanitizeKey(long), 200)
	})
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "pasta_1234_ab.jpg", SanitizeFilename("pasta_1234_ab.jpg"))
	assert.Equal(t, "a_b.png", SanitizeFilename("a/b.png"))
	assert.Equal(t, "_hidden", SanitizeFilename("..._hidden"))

	t.Run("strips leading dots", func(t *testing.T) {
		assert.Equal(t, "env", SanitizeFilename("..env"))
	})
}

func TestVoteKey(t *testing.T) {
	key := VoteKey("Spätzle mit Käse", "menu1", "2026-03-14", "lunch")
	assert.Equal(t, "vote_2026-03-14_lunch_Sp_tzle_mit_K_se_menu1", key)
}

func TestImageKey(t *testing.T) {
	key := ImageKey("Roast Beef", "menu2", "2026-03-14")
	assert.Equal(t, "img_2026-03-14_Roast_Beef_menu2", key)
}

func TestParseVoteKey(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		wantDate     string
		wantCategory string
		wantOK       bool
	}{
		{"well formed", "vote_2026-03-14_lunch_pasta_menu1", "2026-03-14", "lunch", true},
		{"minimal tail", "vote_2026-03-14_dinner_x", "2026-03-14", "dinner", true},
		{"wrong prefix", "img_2026-03-14_pasta_menu1", "", "", false},
		{"too few parts", "vote_2026-03-14_lunch", "", "", false},
		{"empty date", "vote__lunch_pasta", "", "", false},
		{"empty string", "", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, category, ok := ParseVoteKey(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantDate, date)
			assert.Equal(t, tt.wantCategory, category)
		})
	}
}
