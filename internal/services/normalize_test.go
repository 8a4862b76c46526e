package services

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestNormalizeNickname_Fallbacks(t *testing.T) {
	for _, raw := range []string{"", "   ", "\t\n", "  "} {
		if got := NormalizeNickname(raw, 32); got != AnonymousNickname {
			t.Errorf("NormalizeNickname(%q) = %q, want %q", raw, got, AnonymousNickname)
		}
	}
}

func TestNormalizeNickname_TrimCollapseClamp(t *testing.T) {
	if got := NormalizeNickname("  Jane   Doe ", 32); got != "Jane Doe" {
		t.Errorf("got %q, want %q", got, "Jane Doe")
	}

	long := strings.Repeat("x", 40)
	got := NormalizeNickname(long, 32)
	if utf8.RuneCountInString(got) != 32 {
		t.Errorf("clamped length = %d, want 32", utf8.RuneCountInString(got))
	}
}

func TestNormalizeNickname_NeverExceedsMax(t *testing.T) {
	inputs := []string{"a", "ab cd", strings.Repeat("é", 100), "  sp  aced  ", strings.Repeat("name ", 50)}
	for _, raw := range inputs {
		got := NormalizeNickname(raw, 10)
		if utf8.RuneCountInString(got) > 10 {
			t.Errorf("NormalizeNickname(%q) too long: %q", raw, got)
		}
	}
}

func TestNormalizeText_EmptyStaysEmpty(t *testing.T) {
	if got := NormalizeText("", 10); got != "" {
		t.Errorf("got %q, want empty", got)
	}
	if got := NormalizeText("   \t ", 10); got != "" {
		t.Errorf("whitespace-only should be empty, got %q", got)
	}
}

func TestNormalizeText_CollapseAndClamp(t *testing.T) {
	if got := NormalizeText("  hello   world ", 20); got != "hello world" {
		t.Errorf("got %q, want %q", got, "hello world")
	}
	if got := NormalizeText("abcdef", 3); got != "abc" {
		t.Errorf("got %q, want %q", got, "abc")
	}
}

func TestNormalizeText_CollapsesAllWhitespaceKinds(t *testing.T) {
	got := NormalizeText("a\t\tb\n\nc   d", 100)
	if got != "a b c d" {
		t.Errorf("got %q, want %q", got, "a b c d")
	}
	if strings.Contains(got, "  ") {
		t.Errorf("double space survived: %q", got)
	}
}

func TestNormalizeText_ClampCountsRunes(t *testing.T) {
	got := NormalizeText("ééééé", 3)
	if got != "ééé" {
		t.Errorf("got %q, want %q", got, "ééé")
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	raw := "  some   input \t here "
	if NormalizeText(raw, 12) != NormalizeText(raw, 12) {
		t.Error("NormalizeText not deterministic")
	}
	if NormalizeNickname(raw, 12) != NormalizeNickname(raw, 12) {
		t.Error("NormalizeNickname not deterministic")
	}
}
