// Package services – text normalization
//
// Pure, total functions applied to every piece of user text before it
// reaches the store. Same input, same output, no failure mode.
package services

import "strings"

// AnonymousNickname is the fallback for absent or blank nicknames.
const AnonymousNickname = "Anonymous"

// NormalizeNickname collapses internal whitespace runs to single spaces,
// trims the ends, and clamps to maxLen runes. Empty or whitespace-only
// input yields AnonymousNickname.
func NormalizeNickname(raw string, maxLen int) string {
	clean := collapseWhitespace(raw)
	if clean == "" {
		return AnonymousNickname
	}
	return clampRunes(clean, maxLen)
}

// NormalizeText collapses internal whitespace runs to single spaces, trims
// the ends, and clamps to maxLen runes. Unlike nicknames, empty input stays
// empty; rejecting it is the caller's decision.
func NormalizeText(raw string, maxLen int) string {
	return clampRunes(collapseWhitespace(raw), maxLen)
}

// collapseWhitespace joins all whitespace-separated fields with single
// spaces, which both trims and collapses in one pass.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// clampRunes truncates s to at most max runes. A max <= 0 disables clamping.
func clampRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
