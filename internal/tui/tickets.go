package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

type ticketsLoadedMsg struct {
	tickets []domain.Ticket
	stats   *domain.TicketStats
	err     error
}

type refundDoneMsg struct{ err error }

// ticketsModel lists the user's purchased numbers with their purchase
// summary, and lets them refund a ticket while its raffle is undrawn.
type ticketsModel struct {
	client  *client.Client
	tickets []domain.Ticket
	stats   *domain.TicketStats
	cursor  int
	loading bool
	errText string
	notice  string
}

func newTicketsModel(c *client.Client) ticketsModel {
	return ticketsModel{client: c, loading: true}
}

func (m ticketsModel) Init() tea.Cmd {
	return m.load()
}

func (m ticketsModel) load() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		tickets, err := c.MyTickets(ctx)
		if err != nil {
			return ticketsLoadedMsg{err: err}
		}
		stats, err := c.TicketStats(ctx)
		if err != nil {
			return ticketsLoadedMsg{err: err}
		}
		return ticketsLoadedMsg{tickets: tickets, stats: stats}
	}
}

func (m ticketsModel) Update(msg tea.Msg) (ticketsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case ticketsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load your numbers")
			return m, nil
		}
		m.tickets = msg.tickets
		m.stats = msg.stats
		m.errText = ""
		if m.cursor >= len(m.tickets) {
			m.cursor = 0
		}
		return m, nil

	case refundDoneMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "refund failed")
			return m, nil
		}
		m.notice = "ticket refunded"
		m.loading = true
		return m, m.load()

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m ticketsModel) updateKeys(key string) (ticketsModel, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.cursor < len(m.tickets)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "r":
		if m.cursor < len(m.tickets) {
			t := m.tickets[m.cursor]
			if !t.Refunded && !t.IsWinner {
				c := m.client
				id := t.ID
				m.notice = ""
				return m, func() tea.Msg {
					return refundDoneMsg{err: c.RefundTicket(context.Background(), id)}
				}
			}
		}
	case "enter":
		if m.cursor < len(m.tickets) {
			id := m.tickets[m.cursor].RaffleID
			return m, func() tea.Msg {
				return navigateMsg{path: fmt.Sprintf("/raffles/%d/buy", id)}
			}
		}
	}
	return m, nil
}

func (m ticketsModel) View() string {
	if m.loading && m.stats == nil {
		return " " + dimStyle.Render("loading your numbers...")
	}
	if m.errText != "" && m.stats == nil {
		return " " + errorStyle.Render("error: "+m.errText)
	}

	var sb strings.Builder

	if s := m.stats; s != nil {
		sb.WriteString(" " + metaStyle.Render("numbers ") + normalStyle.Render(fmt.Sprintf("%d", s.TotalTickets)) +
			"  " + metaStyle.Render("active ") + normalStyle.Render(fmt.Sprintf("%d", s.ActiveTickets)) +
			"  " + metaStyle.Render("won ") + winnerStyle.Render(fmt.Sprintf("%d", s.WonTickets)) +
			"  " + metaStyle.Render("spent ") + moneyStyle.Render(formatMoney(s.TotalSpent)) + "\n\n")
	}

	if len(m.tickets) == 0 {
		sb.WriteString(" " + dimStyle.Render("no numbers yet — pick a raffle on tab 1"))
		return sb.String()
	}

	for i, t := range m.tickets {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			nameStyle = selectedStyle
		}

		line := cursor + nameStyle.Render(truncStr(t.RaffleName, 36)) +
			"  " + goldStyle.Render(fmt.Sprintf("#%d", t.Number)) +
			"  " + metaStyle.Render(formatTime(t.CreatedAt))
		switch {
		case t.IsWinner:
			line += "  " + winnerStyle.Render("winner!")
		case t.Refunded:
			line += "  " + dimStyle.Render("refunded")
		}
		sb.WriteString(line + "\n")
	}

	sb.WriteString("\n " + helpEntry("r", "refund") + "  " + helpEntry("enter", "open raffle") + "\n")
	if m.notice != "" {
		sb.WriteString("\n " + okStyle.Render(m.notice) + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}
