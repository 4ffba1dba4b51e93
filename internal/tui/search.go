package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

type usersLoadedMsg struct {
	users []domain.User
	err   error
}

// searchModel is the public user directory. The query is sent to the
// backend, so results match server-side filtering.
type searchModel struct {
	client  *client.Client
	users   []domain.User
	cursor  int
	query   string
	focused bool
	loading bool
	errText string
}

func newSearchModel(c *client.Client) searchModel {
	return searchModel{client: c, loading: true}
}

func (m searchModel) Init() tea.Cmd {
	return m.load()
}

func (m searchModel) load() tea.Cmd {
	c := m.client
	query := strings.TrimSpace(m.query)
	return func() tea.Msg {
		users, err := c.ListUsers(context.Background(), query)
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m searchModel) isEditing() bool { return m.focused }

func (m searchModel) Update(msg tea.Msg) (searchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load users")
			return m, nil
		}
		m.users = msg.users
		m.errText = ""
		if m.cursor >= len(m.users) {
			m.cursor = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m searchModel) updateKeys(key string) (searchModel, tea.Cmd) {
	if m.focused {
		switch key {
		case "enter":
			m.focused = false
			m.loading = true
			return m, m.load()
		case "esc":
			m.focused = false
		default:
			m.query = editRune(m.query, key)
		}
		return m, nil
	}

	switch key {
	case "/":
		m.focused = true
	case "j", "down":
		if m.cursor < len(m.users)-1 {
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
		if m.cursor < len(m.users) {
			id := m.users[m.cursor].ID
			return m, func() tea.Msg {
				return navigateMsg{path: fmt.Sprintf("/users/%d", id)}
			}
		}
	}
	return m, nil
}

func (m searchModel) View() string {
	var sb strings.Builder

	line := " " + metaStyle.Render("find: ")
	if m.focused {
		line += selectedStyle.Render(m.query) + accentStyle.Render("█")
	} else if m.query != "" {
		line += normalStyle.Render(m.query)
	} else {
		line += inputPlaceholderStyle.Render("press / to search by name or email")
	}
	sb.WriteString(line + "\n\n")

	switch {
	case m.loading:
		sb.WriteString(" " + dimStyle.Render("loading users..."))
		return sb.String()
	case m.errText != "":
		sb.WriteString(" " + errorStyle.Render("error: "+m.errText))
		return sb.String()
	case len(m.users) == 0:
		sb.WriteString(" " + dimStyle.Render("no users found"))
		return sb.String()
	}

	for i, u := range m.users {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			nameStyle = selectedStyle
		}
		row := cursor + nameStyle.Render(truncStr(u.FullName(), 32)) + "  " + metaStyle.Render(u.Email)
		if u.Admin() {
			row += " " + adminBadgeStyle.Render("[admin]")
		}
		sb.WriteString(row + "\n")
	}

	sb.WriteString("\n " + helpEntry("enter", "open profile") + "  " + helpEntry("/", "search") + "\n")
	return sb.String()
}
