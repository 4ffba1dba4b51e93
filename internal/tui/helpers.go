package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// maxInputLen is the maximum number of runes allowed in form inputs.
const maxInputLen = 500

// editRune processes a keystroke for inline text editing. Handles
// backspace (rune-aware) and single printable characters; other keys
// leave the text unchanged. Input is clamped to maxInputLen runes.
func editRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	default:
		if utf8.RuneCountInString(key) == 1 {
			if utf8.RuneCountInString(text) >= maxInputLen {
				return text
			}
			return text + key
		}
		return text
	}
}

// truncateToHeight limits output to maxLines newline-delimited lines.
func truncateToHeight(s string, maxLines int) string {
	if maxLines <= 0 {
		return s
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			n++
			if n >= maxLines {
				return s[:i+1]
			}
		}
	}
	return s
}

// truncStr truncates a string to maxLen runes, appending an ellipsis.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatMoney renders an amount with thousands separators: $1,250.50.
// Whole amounts drop the cents.
func formatMoney(amount float64) string {
	cents := int64(amount*100 + 0.5)
	whole := cents / 100
	frac := cents % 100

	digits := fmt.Sprintf("%d", whole)
	var sb strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(d)
	}
	if frac == 0 {
		return "$" + sb.String()
	}
	return fmt.Sprintf("$%s.%02d", sb.String(), frac)
}

// formatDrawDate renders a draw date with a countdown when it is still
// ahead: "2026-09-14 20:00 (in 3d)".
func formatDrawDate(t, now time.Time) string {
	stamp := t.Local().Format("2006-01-02 15:04")
	d := t.Sub(now)
	switch {
	case d <= 0:
		return stamp
	case d < time.Hour:
		return fmt.Sprintf("%s (in %dm)", stamp, int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%s (in %dh)", stamp, int(d.Hours()))
	default:
		return fmt.Sprintf("%s (in %dd)", stamp, int(d.Hours()/24))
	}
}

// formatTime renders a relative timestamp for ticket and rating lists.
func formatTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// renderStars renders a 0.5-step rating as filled/half/empty stars.
func renderStars(score float64) string {
	var sb strings.Builder
	for i := 1; i <= 5; i++ {
		switch {
		case score >= float64(i):
			sb.WriteString("★")
		case score >= float64(i)-0.5:
			sb.WriteString("⯨")
		default:
			sb.WriteString("☆")
		}
	}
	return sb.String()
}
