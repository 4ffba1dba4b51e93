package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

const drawDateLayout = "2006-01-02 15:04"

// Create form field positions.
const (
	crName = iota
	crDescription
	crDrawDate
	crNumberAmount
	crNumberPrice
	crPrizeAmount
	crMinimumSold
	crPrizeType
	crFieldCount
)

type createLoadedMsg struct {
	raffle     *domain.Raffle
	prizeTypes []domain.CatalogItem
	err        error
}

type raffleSavedMsg struct {
	raffleID int64
	err      error
}

type raffleDeletedMsg struct{ err error }

// createModel is the raffle form. With a raffle ID it edits an
// existing raffle, otherwise it creates a new one.
type createModel struct {
	client   *client.Client
	raffleID int64 // 0 for create

	fields [crFieldCount]formField
	focus  int

	loading bool
	saving  bool
	errText string
}

func newCreateModel(c *client.Client, raffleID int64) createModel {
	m := createModel{client: c, raffleID: raffleID, loading: true}
	m.fields[crName] = formField{label: "name"}
	m.fields[crDescription] = formField{label: "description"}
	m.fields[crDrawDate] = formField{label: "draw date"}
	m.fields[crNumberAmount] = formField{label: "number count"}
	m.fields[crNumberPrice] = formField{label: "price per number"}
	m.fields[crPrizeAmount] = formField{label: "prize amount"}
	m.fields[crMinimumSold] = formField{label: "minimum sold"}
	m.fields[crPrizeType] = formField{label: "prize type", choice: true}
	return m
}

func (m createModel) editing() bool { return m.raffleID != 0 }

func (m createModel) Init() tea.Cmd {
	c := m.client
	id := m.raffleID
	return func() tea.Msg {
		ctx := context.Background()
		prizeTypes, err := c.ListCatalog(ctx, domain.CatalogPrizeTypes, 0)
		if err != nil {
			return createLoadedMsg{err: err}
		}
		var raffle *domain.Raffle
		if id != 0 {
			raffle, err = c.GetRaffle(ctx, id)
			if err != nil {
				return createLoadedMsg{err: err}
			}
		}
		return createLoadedMsg{raffle: raffle, prizeTypes: prizeTypes}
	}
}

func (m createModel) isEditing() bool {
	if m.loading || m.saving {
		return false
	}
	return !m.fields[m.focus].choice
}

func (m createModel) Update(msg tea.Msg) (createModel, tea.Cmd) {
	switch msg := msg.(type) {
	case createLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load the form")
			return m, nil
		}
		m.fields[crPrizeType].options = msg.prizeTypes
		if msg.raffle != nil {
			m.prefill(*msg.raffle)
		}
		return m, nil

	case raffleSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not save the raffle")
			return m, nil
		}
		id := msg.raffleID
		return m, func() tea.Msg {
			return navigateMsg{path: fmt.Sprintf("/raffles/%d/buy", id)}
		}

	case raffleDeletedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not cancel the raffle")
			return m, nil
		}
		return m, func() tea.Msg { return navigateMsg{path: "/"} }

	case tea.KeyMsg:
		if m.loading || m.saving {
			return m, nil
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m *createModel) prefill(r domain.Raffle) {
	m.fields[crName].value = r.Name
	m.fields[crDescription].value = r.Description
	m.fields[crDrawDate].value = r.DrawDate.Local().Format(drawDateLayout)
	m.fields[crNumberAmount].value = strconv.Itoa(r.NumberAmount)
	m.fields[crNumberPrice].value = strconv.FormatFloat(r.NumberPrice, 'f', -1, 64)
	m.fields[crPrizeAmount].value = strconv.FormatFloat(r.PrizeAmount, 'f', -1, 64)
	m.fields[crMinimumSold].value = strconv.Itoa(r.MinimumNumbersSold)
	for i, opt := range m.fields[crPrizeType].options {
		if opt.ID == r.PrizeTypeID {
			m.fields[crPrizeType].idx = i
			break
		}
	}
}

func (m createModel) updateKeys(key string) (createModel, tea.Cmd) {
	f := &m.fields[m.focus]

	switch key {
	case "tab", "down", "enter":
		if key == "enter" && m.focus == crFieldCount-1 {
			return m.submit()
		}
		m.focus = (m.focus + 1) % crFieldCount
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + crFieldCount - 1) % crFieldCount
		return m, nil
	case "ctrl+s":
		return m.submit()
	case "ctrl+d":
		if m.editing() {
			m.saving = true
			c := m.client
			id := m.raffleID
			return m, func() tea.Msg {
				return raffleDeletedMsg{err: c.DeleteRaffle(context.Background(), id)}
			}
		}
		return m, nil
	case "esc":
		return m, func() tea.Msg { return navigateMsg{path: "/"} }
	}

	if f.choice {
		switch key {
		case "h", "left":
			if len(f.options) > 0 {
				f.idx = (f.idx + len(f.options) - 1) % len(f.options)
			}
		case "l", "right":
			if len(f.options) > 0 {
				f.idx = (f.idx + 1) % len(f.options)
			}
		}
		return m, nil
	}

	f.value = editRune(f.value, key)
	m.errText = ""
	return m, nil
}

// buildRequest validates the form and assembles the API payload.
func (m createModel) buildRequest() (client.RaffleRequest, string) {
	var req client.RaffleRequest

	req.Name = strings.TrimSpace(m.fields[crName].value)
	if req.Name == "" {
		return req, "name is required"
	}
	req.Description = strings.TrimSpace(m.fields[crDescription].value)

	drawDate, err := time.ParseInLocation(drawDateLayout, strings.TrimSpace(m.fields[crDrawDate].value), time.Local)
	if err != nil {
		return req, "draw date must look like " + drawDateLayout
	}
	if !m.editing() && !drawDate.After(time.Now()) {
		return req, "draw date must be in the future"
	}
	req.DrawDate = drawDate

	amount, err := strconv.Atoi(strings.TrimSpace(m.fields[crNumberAmount].value))
	if err != nil || amount <= 0 {
		return req, "number count must be a positive integer"
	}
	req.NumberAmount = amount

	price, err := strconv.ParseFloat(strings.TrimSpace(m.fields[crNumberPrice].value), 64)
	if err != nil || price <= 0 {
		return req, "price per number must be a positive amount"
	}
	req.NumberPrice = price

	prize, err := strconv.ParseFloat(strings.TrimSpace(m.fields[crPrizeAmount].value), 64)
	if err != nil || prize <= 0 {
		return req, "prize amount must be a positive amount"
	}
	req.PrizeAmount = prize

	minSold, err := strconv.Atoi(strings.TrimSpace(m.fields[crMinimumSold].value))
	if err != nil || minSold < 0 {
		return req, "minimum sold must be zero or more"
	}
	if minSold > amount {
		return req, "minimum sold cannot exceed the number count"
	}
	req.MinimumNumbersSold = minSold

	sel := m.fields[crPrizeType].selected()
	if sel == nil {
		return req, "pick a prize type"
	}
	req.PrizeTypeID = sel.ID

	return req, ""
}

func (m createModel) submit() (createModel, tea.Cmd) {
	req, problem := m.buildRequest()
	if problem != "" {
		m.errText = problem
		return m, nil
	}

	m.saving = true
	m.errText = ""
	c := m.client
	id := m.raffleID
	return m, func() tea.Msg {
		ctx := context.Background()
		if id != 0 {
			_, err := c.UpdateRaffle(ctx, id, req)
			return raffleSavedMsg{raffleID: id, err: err}
		}
		created, err := c.CreateRaffle(ctx, req)
		if err != nil {
			return raffleSavedMsg{err: err}
		}
		return raffleSavedMsg{raffleID: created.ID}
	}
}

func (m createModel) View() string {
	if m.loading {
		return " " + dimStyle.Render("loading form...")
	}

	var sb strings.Builder
	title := "New raffle"
	if m.editing() {
		title = "Edit raffle"
	}
	sb.WriteString(" " + accentStyle.Render(title) + "\n\n")

	for i := range m.fields {
		f := m.fields[i]
		focused := m.focus == i
		if f.choice {
			sb.WriteString(m.renderChoice(f, focused))
			continue
		}
		line := " " + metaStyle.Render(padRight(f.label, 18))
		placeholder := "..."
		if i == crDrawDate {
			placeholder = drawDateLayout
		}
		switch {
		case focused:
			line += selectedStyle.Render(f.value) + accentStyle.Render("█")
		case f.value != "":
			line += normalStyle.Render(f.value)
		default:
			line += inputPlaceholderStyle.Render(placeholder)
		}
		sb.WriteString(line + "\n")
	}

	help := []string{
		helpEntry("tab", "next field"),
		helpEntry("h/l", "cycle prize type"),
		helpEntry("ctrl+s", "save"),
	}
	if m.editing() {
		help = append(help, helpEntry("ctrl+d", "cancel raffle"))
	}
	sb.WriteString("\n " + strings.Join(help, "  ") + "\n")

	if m.saving {
		sb.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}

func (m createModel) renderChoice(f formField, focused bool) string {
	line := " " + metaStyle.Render(padRight(f.label, 18))
	sel := f.selected()
	switch {
	case sel == nil:
		line += inputPlaceholderStyle.Render("loading...")
	case focused:
		line += accentStyle.Render("< ") + selectedStyle.Render(sel.Name) + accentStyle.Render(" >")
	default:
		line += normalStyle.Render(sel.Name)
	}
	return line + "\n"
}
