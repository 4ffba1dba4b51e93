package tui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/lipgloss"

	"github.com/matiasvera/rifero/pkg/domain"
)

var (
	// Base palette
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e8e6dc")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8c4b4"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585468"))

	// Accent / action styles — ticket gold
	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844")).
			Bold(true)

	goldStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#d4a844"))

	moneyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e06060"))

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ade80"))

	winnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f0c050")).
			Bold(true)

	// Number grid
	numberFreeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c8c4b4"))

	numberTakenStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3a3844"))

	numberPickedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#111118")).
				Background(lipgloss.Color("#d4a844")).
				Bold(true)

	numberCursorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#111118")).
				Background(lipgloss.Color("#e8e6dc"))

	// Help bar
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#585468"))

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3a3844"))

	adminBadgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c084e0")).
			Bold(true)

	// Raffle state colors
	stateColors = map[string]lipgloss.Color{
		domain.RaffleStateActive:    lipgloss.Color("#4ade80"),
		domain.RaffleStateFinished:  lipgloss.Color("#60a0e0"),
		domain.RaffleStateCancelled: lipgloss.Color("#e06060"),
	}
)

// StateStyle returns the style for a raffle state code.
func StateStyle(code string) lipgloss.Style {
	if c, ok := stateColors[code]; ok {
		return lipgloss.NewStyle().Foreground(c)
	}
	return dimStyle
}

// helpEntry renders one "key label" pair for the help bar.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// renderShimmerLogo renders "RIFERO" as a slow wave of ticket gold.
// Deep amber (#4a3a14) -> bright gold (#f0c050).
func renderShimmerLogo(frame int) string {
	const text = "RIFERO"
	n := len(text)

	var out string
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		// One smooth wave advancing through the text
		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		// Slow breathing tide
		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18

		if b > 1.0 {
			b = 1.0
		} else if b < 0.05 {
			b = 0.05
		}

		// Deep amber (74, 58, 20) -> bright gold (240, 192, 80)
		r := clampByte(74 + b*(240-74))
		g := clampByte(58 + b*(192-58))
		bl := clampByte(20 + b*(80-20))

		color := fmt.Sprintf("#%02X%02X%02X", r, g, bl)

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(color))
		out += s.Render(string(text[i]))

		if i < n-1 {
			out += "  "
		}
	}

	return out
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}
