package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/internal/browser"
	"github.com/matiasvera/rifero/pkg/auth"
	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

// shareBaseURL is the public web location used for share links.
const shareBaseURL = "https://rifero.app"

type buyLoadedMsg struct {
	raffle    *domain.Raffle
	available []int
	methods   []domain.PaymentMethod
	err       error
}

// purchaseDoneMsg reports a purchase round: one request per picked
// number, so part of the batch can fail while the rest goes through.
type purchaseDoneMsg struct {
	bought int
	failed int
	err    error // last failure, for the message when nothing went through
}

type drawDoneMsg struct {
	raffle *domain.Raffle
	err    error
}

type clipboardDoneMsg struct{ err error }

type browserDoneMsg struct{ err error }

// buyModel is the number grid for one raffle: pick free numbers, choose
// a payment method, buy. The raffle owner can also run the draw from
// here once the sales minimum is met.
type buyModel struct {
	client  *client.Client
	session *auth.Session

	raffleID  int64
	raffle    *domain.Raffle
	available map[int]bool
	methods   []domain.PaymentMethod
	methodIdx int

	cursor int // zero-based grid position; number = cursor + 1
	picked map[int]bool

	loading    bool
	buying     bool
	confirming bool
	errText    string
	notice     string
	width      int
}

func newBuyModel(c *client.Client, sess *auth.Session, raffleID int64) buyModel {
	return buyModel{
		client:    c,
		session:   sess,
		raffleID:  raffleID,
		loading:   true,
		picked:    map[int]bool{},
		available: map[int]bool{},
	}
}

func (m buyModel) Init() tea.Cmd {
	return m.load()
}

func (m buyModel) load() tea.Cmd {
	c := m.client
	id := m.raffleID
	var userID int64
	if u := m.session.Snapshot().User; u != nil {
		userID = u.ID
	}
	return func() tea.Msg {
		ctx := context.Background()
		raffle, err := c.GetRaffle(ctx, id)
		if err != nil {
			return buyLoadedMsg{err: err}
		}
		available, err := c.AvailableNumbers(ctx, id)
		if err != nil {
			return buyLoadedMsg{err: err}
		}
		methods, err := c.PaymentMethods(ctx, userID)
		if err != nil {
			return buyLoadedMsg{err: err}
		}
		return buyLoadedMsg{raffle: raffle, available: available, methods: methods}
	}
}

// ownsRaffle reports whether the signed-in user created this raffle.
func (m buyModel) ownsRaffle() bool {
	u := m.session.Snapshot().User
	return u != nil && m.raffle != nil && m.raffle.CreatedByID == u.ID
}

func (m buyModel) pickedNumbers() []int {
	var nums []int
	for n, ok := range m.picked {
		if ok {
			nums = append(nums, n)
		}
	}
	sort.Ints(nums)
	return nums
}

func (m buyModel) isEditing() bool { return m.confirming }

func (m buyModel) Update(msg tea.Msg) (buyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case buyLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load the raffle")
			return m, nil
		}
		m.raffle = msg.raffle
		m.available = make(map[int]bool, len(msg.available))
		for _, n := range msg.available {
			m.available[n] = true
		}
		m.methods = msg.methods
		if m.methodIdx >= len(m.methods) {
			m.methodIdx = 0
		}
		// Drop picks that sold out from under us between loads.
		for n := range m.picked {
			if !m.available[n] {
				delete(m.picked, n)
			}
		}
		m.errText = ""
		return m, nil

	case purchaseDoneMsg:
		m.buying = false
		if msg.bought == 0 && msg.err != nil {
			m.errText = client.Message(msg.err, "purchase failed")
			return m, nil
		}
		m.picked = map[int]bool{}
		m.notice = fmt.Sprintf("bought %d number(s)", msg.bought)
		if msg.failed > 0 {
			m.notice += fmt.Sprintf(", %d failed", msg.failed)
		}
		m.loading = true
		return m, m.load()

	case drawDoneMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "draw failed")
			return m, nil
		}
		m.raffle = msg.raffle
		m.notice = "draw complete"
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.errText = "could not copy the link"
		} else {
			m.notice = "share link copied"
		}
		return m, nil

	case browserDoneMsg:
		if msg.err != nil {
			m.errText = "could not open the browser"
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.loading || m.buying || m.raffle == nil {
			return m, nil
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

// columns returns how many grid cells fit the terminal width.
func (m buyModel) columns() int {
	cols := (m.width - 2) / 5
	if cols < 5 {
		cols = 5
	}
	if cols > 20 {
		cols = 20
	}
	return cols
}

func (m buyModel) updateKeys(key string) (buyModel, tea.Cmd) {
	if m.confirming {
		m.confirming = false
		switch key {
		case "y", "enter":
			return m.purchase()
		}
		return m, nil
	}

	total := m.raffle.NumberAmount
	cols := m.columns()

	switch key {
	case "h", "left":
		if m.cursor > 0 {
			m.cursor--
		}
	case "l", "right":
		if m.cursor < total-1 {
			m.cursor++
		}
	case "j", "down":
		if m.cursor+cols < total {
			m.cursor += cols
		}
	case "k", "up":
		if m.cursor-cols >= 0 {
			m.cursor -= cols
		}
	case " ":
		n := m.cursor + 1
		if m.available[n] {
			m.picked[n] = !m.picked[n]
			m.notice = ""
			m.errText = ""
		}
	case "p":
		if len(m.methods) > 0 {
			m.methodIdx = (m.methodIdx + 1) % len(m.methods)
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "ctrl+s":
		return m.submit()
	case "d":
		if m.ownsRaffle() && m.raffle.DrawReady() && !m.raffle.Drawn() {
			c := m.client
			id := m.raffleID
			return m, func() tea.Msg {
				raffle, err := c.DrawRaffle(context.Background(), id)
				return drawDoneMsg{raffle: raffle, err: err}
			}
		}
	case "c":
		link := fmt.Sprintf("%s/raffles/%d", shareBaseURL, m.raffleID)
		return m, func() tea.Msg {
			return clipboardDoneMsg{err: clipboard.WriteAll(link)}
		}
	case "o":
		if m.raffle.ImageURL != "" {
			url := m.raffle.ImageURL
			return m, func() tea.Msg {
				return browserDoneMsg{err: browser.Open(url)}
			}
		}
	case "esc":
		return m, func() tea.Msg { return navigateMsg{path: "/"} }
	}
	return m, nil
}

func (m buyModel) submit() (buyModel, tea.Cmd) {
	nums := m.pickedNumbers()
	switch {
	case !m.raffle.OpenForSales(time.Now()):
		m.errText = "this raffle is closed for sales"
		return m, nil
	case len(nums) == 0:
		m.errText = "pick at least one number first"
		return m, nil
	case len(m.methods) == 0:
		m.errText = "no payment method on file"
		return m, nil
	}

	m.confirming = true
	m.errText = ""
	m.notice = ""
	return m, nil
}

// purchase issues one request per picked number and tallies the
// outcome, so a sold-out number does not sink the whole batch.
func (m buyModel) purchase() (buyModel, tea.Cmd) {
	nums := m.pickedNumbers()
	m.buying = true
	m.errText = ""
	c := m.client
	raffleID := m.raffleID
	methodID := m.methods[m.methodIdx].ID
	return m, func() tea.Msg {
		ctx := context.Background()
		var done purchaseDoneMsg
		for _, n := range nums {
			req := client.PurchaseRequest{
				RaffleID:        raffleID,
				PaymentMethodID: methodID,
				Number:          n,
			}
			if _, err := c.PurchaseTicket(ctx, req); err != nil {
				done.failed++
				done.err = err
				continue
			}
			done.bought++
		}
		return done
	}
}

func (m buyModel) View() string {
	if m.loading && m.raffle == nil {
		return " " + dimStyle.Render("loading raffle...")
	}
	if m.raffle == nil {
		return " " + errorStyle.Render("error: "+m.errText)
	}

	var sb strings.Builder
	r := m.raffle
	now := time.Now()

	sb.WriteString(" " + selectedStyle.Render(r.Name) + "  " + StateStyle(r.StateCode).Render(strings.ToLower(r.StateCode)) + "\n")
	if r.Description != "" {
		sb.WriteString(" " + dimStyle.Render(truncStr(r.Description, 70)) + "\n")
	}
	sb.WriteString(" " + metaStyle.Render("by ") + normalStyle.Render(r.CreatedByName) +
		"  " + moneyStyle.Render(formatMoney(r.NumberPrice)) + metaStyle.Render("/number") +
		"  " + goldStyle.Render("prize "+formatMoney(r.PrizeAmount)) +
		"  " + metaStyle.Render("draw "+formatDrawDate(r.DrawDate, now)) + "\n")
	sb.WriteString(" " + metaStyle.Render(fmt.Sprintf("sold %d/%d, minimum %d", r.SoldCount, r.NumberAmount, r.MinimumNumbersSold)) + "\n\n")

	if r.Drawn() {
		line := " " + winnerStyle.Render("winner drawn")
		if r.WinnerTicketID != nil {
			line += " " + winnerStyle.Render(fmt.Sprintf("(ticket #%d)", *r.WinnerTicketID))
		}
		sb.WriteString(line + "\n\n")
	}

	sb.WriteString(m.renderGrid())

	// Payment + selection summary
	nums := m.pickedNumbers()
	sb.WriteString("\n")
	if len(m.methods) > 0 {
		pm := m.methods[m.methodIdx]
		sb.WriteString(" " + metaStyle.Render("pay with ") + normalStyle.Render(pm.TypeName) +
			"  " + moneyStyle.Render(formatMoney(pm.Balance)) + metaStyle.Render(" available") +
			"  " + dimStyle.Render("(p to cycle)") + "\n")
	} else {
		sb.WriteString(" " + dimStyle.Render("no payment methods on file") + "\n")
	}
	if len(nums) > 0 {
		total := float64(len(nums)) * r.NumberPrice
		sb.WriteString(" " + accentStyle.Render(fmt.Sprintf("%d picked", len(nums))) +
			"  " + moneyStyle.Render("total "+formatMoney(total)) + "\n")
	}

	if m.confirming {
		total := float64(len(nums)) * r.NumberPrice
		sb.WriteString("\n " + accentStyle.Render(fmt.Sprintf("buy %d number(s) for %s?", len(nums), formatMoney(total))) +
			"  " + dimStyle.Render("y confirms, any other key cancels") + "\n")
	}

	if m.buying {
		sb.WriteString("\n " + dimStyle.Render("buying...") + "\n")
	}
	if m.notice != "" {
		sb.WriteString("\n " + okStyle.Render(m.notice) + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}

	help := []string{
		helpEntry("space", "pick"),
		helpEntry("ctrl+s", "buy"),
		helpEntry("c", "share"),
	}
	if r.ImageURL != "" {
		help = append(help, helpEntry("o", "image"))
	}
	if m.ownsRaffle() && r.DrawReady() && !r.Drawn() {
		help = append(help, helpEntry("d", "run draw"))
	}
	sb.WriteString("\n " + strings.Join(help, "  ") + "\n")
	return sb.String()
}

func (m buyModel) renderGrid() string {
	var sb strings.Builder
	cols := m.columns()
	total := m.raffle.NumberAmount

	for i := 0; i < total; i++ {
		if i%cols == 0 {
			sb.WriteString(" ")
		}
		n := i + 1
		cell := fmt.Sprintf("%4d", n)
		switch {
		case i == m.cursor:
			sb.WriteString(numberCursorStyle.Render(cell))
		case m.picked[n]:
			sb.WriteString(numberPickedStyle.Render(cell))
		case m.available[n]:
			sb.WriteString(numberFreeStyle.Render(cell))
		default:
			sb.WriteString(numberTakenStyle.Render(cell))
		}
		sb.WriteString(" ")
		if (i+1)%cols == 0 {
			sb.WriteString("\n")
		}
	}
	if total%cols != 0 {
		sb.WriteString("\n")
	}
	return sb.String()
}
