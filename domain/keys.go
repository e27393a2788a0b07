package domain

import "strings"

const maxKeyLength = 200

// SanitizeKey replaces everything outside [a-zA-Z0-9_-] with underscores and
// caps the length, so keys are safe to use as path segments and storage keys.
func SanitizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key))
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if len(s) > maxKeyLength {
		s = s[:maxKeyLength]
	}
	return s
}

// SanitizeFilename is SanitizeKey with dots permitted, for generated image
// filenames carrying an extension. Leading dots are stripped so a filename can
// never become a dotfile or path traversal component.
func SanitizeFilename(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := strings.TrimLeft(b.String(), ".")
	if len(s) > maxKeyLength {
		s = s[:maxKeyLength]
	}
	return s
}

func sanitizeNamePart(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// VoteKey derives the deterministic key for one votable dish. The same inputs
// always produce the same key, so clients and server agree without coordination.
// Format: vote_{date}_{category}_{dish}_{menuType}.
func VoteKey(dishName, menuType, date, category string) string {
	return SanitizeKey("vote_" + date + "_" + category + "_" + sanitizeNamePart(dishName) + "_" + menuType)
}

// ImageKey derives the key scoping a dish's image collection.
// Format: img_{date}_{dish}_{menuType}.
func ImageKey(dishName, menuType, date string) string {
	return SanitizeKey("img_" + date + "_" + sanitizeNamePart(dishName) + "_" + sanitizeNamePart(menuType))
}

// ParseVoteKey extracts the date and meal category embedded in a vote key.
// Returns ok=false for keys that do not follow the vote_{date}_{category}_...
// layout; such keys can still accumulate votes but are never time-eligible.
func ParseVoteKey(key string) (date, category string, ok bool) {
	parts := strings.SplitN(key, "_", 4)
	if len(parts) < 4 || parts[0] != "vote" || parts[1] == "" || parts[2] == "" {
		return "", "", false
	}
	return parts[1], parts[2], true
}
