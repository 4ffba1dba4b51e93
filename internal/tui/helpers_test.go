package tui

import (
	"strings"
	"testing"
	"time"
)

func TestEditRune(t *testing.T) {
	tests := []struct {
		text, key, want string
	}{
		{"", "a", "a"},
		{"ab", "backspace", "a"},
		{"", "backspace", ""},
		{"ok", "enter", "ok"},
		{"ok", "ctrl+s", "ok"},
		{"caf", "é", "café"},
		{"café", "backspace", "caf"},
	}
	for _, tt := range tests {
		if got := editRune(tt.text, tt.key); got != tt.want {
			t.Errorf("editRune(%q, %q) = %q, want %q", tt.text, tt.key, got, tt.want)
		}
	}
}

func TestEditRuneClampsLength(t *testing.T) {
	long := strings.Repeat("x", maxInputLen)
	if got := editRune(long, "y"); got != long {
		t.Error("input beyond maxInputLen should be dropped")
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "$0"},
		{5, "$5"},
		{1250.5, "$1,250.50"},
		{1000000, "$1,000,000"},
		{19.99, "$19.99"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.amount); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("truncStr short = %q", got)
	}
	got := truncStr("a very long raffle name", 10)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Errorf("truncStr long = %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "one\ntwo\nthree\nfour\n"
	got := truncateToHeight(s, 2)
	if got != "one\ntwo\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if truncateToHeight(s, 0) != s {
		t.Error("non-positive height should return input unchanged")
	}
}

func TestFormatDrawDateCountdown(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	if got := formatDrawDate(now.Add(3*24*time.Hour), now); !strings.Contains(got, "in 3d") {
		t.Errorf("3 days out = %q", got)
	}
	if got := formatDrawDate(now.Add(5*time.Hour), now); !strings.Contains(got, "in 5h") {
		t.Errorf("5 hours out = %q", got)
	}
	if got := formatDrawDate(now.Add(-time.Hour), now); strings.Contains(got, "(in") {
		t.Errorf("past date should carry no countdown: %q", got)
	}
}

func TestRenderStars(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{5, "★★★★★"},
		{3.5, "★★★⯨☆"},
		{0.5, "⯨☆☆☆☆"},
		{0, "☆☆☆☆☆"},
	}
	for _, tt := range tests {
		if got := renderStars(tt.score); got != tt.want {
			t.Errorf("renderStars(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
