package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

// raffleFilter narrows the public listing.
type raffleFilter int

const (
	filterAll raffleFilter = iota
	filterActive
	filterFinished
)

func (f raffleFilter) label() string {
	switch f {
	case filterActive:
		return "active"
	case filterFinished:
		return "finished"
	default:
		return "all"
	}
}

type rafflesLoadedMsg struct {
	raffles []domain.Raffle
	err     error
}

// homeModel is the public raffle listing. It works signed out; buying
// requires a session and goes through the route guard.
type homeModel struct {
	client        *client.Client
	raffles       []domain.Raffle
	cursor        int
	loading       bool
	err           string
	search        string
	searchFocused bool
	filter        raffleFilter
	width         int
	height        int
}

func newHomeModel(c *client.Client) homeModel {
	return homeModel{client: c, loading: true}
}

func (m homeModel) Init() tea.Cmd {
	return m.load()
}

func (m homeModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		raffles, err := c.ListRaffles(context.Background())
		return rafflesLoadedMsg{raffles: raffles, err: err}
	}
}

// visible applies the text search and state filter.
func (m homeModel) visible() []domain.Raffle {
	now := time.Now()
	query := strings.ToLower(strings.TrimSpace(m.search))
	var out []domain.Raffle
	for _, r := range m.raffles {
		if query != "" &&
			!strings.Contains(strings.ToLower(r.Name), query) &&
			!strings.Contains(strings.ToLower(r.Description), query) {
			continue
		}
		switch m.filter {
		case filterActive:
			if !r.DrawDate.After(now) {
				continue
			}
		case filterFinished:
			if r.DrawDate.After(now) {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

func (m homeModel) Update(msg tea.Msg) (homeModel, tea.Cmd) {
	switch msg := msg.(type) {
	case rafflesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err.Error()
		} else {
			m.raffles = msg.raffles
			m.err = ""
		}
		if m.cursor >= len(m.raffles) {
			m.cursor = 0
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m homeModel) updateKeys(msg tea.KeyMsg) (homeModel, tea.Cmd) {
	key := msg.String()

	if m.searchFocused {
		switch key {
		case "enter", "esc":
			m.searchFocused = false
		default:
			m.search = editRune(m.search, key)
			m.cursor = 0
		}
		return m, nil
	}

	visible := m.visible()
	switch key {
	case "/":
		m.searchFocused = true
	case "f":
		m.filter = (m.filter + 1) % 3
		m.cursor = 0
	case "j", "down":
		if m.cursor < len(visible)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "enter":
		if m.cursor < len(visible) {
			id := visible[m.cursor].ID
			return m, func() tea.Msg {
				return navigateMsg{path: fmt.Sprintf("/raffles/%d/buy", id)}
			}
		}
	}
	return m, nil
}

func (m homeModel) View() string {
	if m.loading && len(m.raffles) == 0 {
		return " " + dimStyle.Render("loading raffles...")
	}
	if m.err != "" {
		return " " + errorStyle.Render("error: "+m.err)
	}

	var sb strings.Builder

	// Search + filter line
	searchLine := " " + metaStyle.Render("search: ")
	if m.searchFocused {
		searchLine += selectedStyle.Render(m.search) + accentStyle.Render("█")
	} else if m.search != "" {
		searchLine += normalStyle.Render(m.search)
	} else {
		searchLine += inputPlaceholderStyle.Render("press / to search")
	}
	searchLine += "   " + metaStyle.Render("filter: ") + goldStyle.Render(m.filter.label())
	sb.WriteString(searchLine + "\n\n")

	visible := m.visible()
	if len(visible) == 0 {
		if len(m.raffles) == 0 {
			sb.WriteString(" " + dimStyle.Render("no raffles available right now"))
		} else {
			sb.WriteString(" " + dimStyle.Render("no raffles match"))
		}
		return sb.String()
	}

	now := time.Now()
	for i, r := range visible {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			nameStyle = selectedStyle
		}

		state := r.StateCode
		if state == "" {
			if r.DrawDate.After(now) {
				state = domain.RaffleStateActive
			} else {
				state = domain.RaffleStateFinished
			}
		}

		line := cursor + nameStyle.Render(truncStr(r.Name, 36)) +
			"  " + moneyStyle.Render(formatMoney(r.NumberPrice)) + metaStyle.Render("/number") +
			"  " + goldStyle.Render("prize "+formatMoney(r.PrizeAmount)) +
			"  " + StateStyle(state).Render(strings.ToLower(state))
		sb.WriteString(line + "\n")

		detail := "    " + metaStyle.Render("draw "+formatDrawDate(r.DrawDate, now)) +
			"  " + metaStyle.Render(fmt.Sprintf("%d/%d numbers", r.NumberAmount-r.SoldCount, r.NumberAmount))
		if r.Drawn() {
			detail += "  " + winnerStyle.Render("drawn")
		}
		sb.WriteString(detail + "\n")
	}

	return sb.String()
}
