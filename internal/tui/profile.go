package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/auth"
	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

type profileMode int

const (
	profView profileMode = iota
	profEdit
	profPassword
	profRate
)

// Edit form positions.
const (
	pfFirstName = iota
	pfLastName
	pfPhone
	pfAddress
	pfFieldCount
)

// Password form positions.
const (
	pwCurrent = iota
	pwNew
	pwConfirm
	pwFieldCount
)

type profileLoadedMsg struct {
	user    *domain.User
	ratings []domain.Rating
	raffles []domain.Raffle
	err     error
}

type profileSavedMsg struct {
	user *domain.User
	err  error
}

type passwordChangedMsg struct{ err error }

type ratingSavedMsg struct{ err error }

type ratingDeletedMsg struct{ err error }

// profileModel shows a user profile: the signed-in user's own (with
// profile editing and password change) or another user's (with their
// raffles and the caller's rating of them).
type profileModel struct {
	client  *client.Client
	session *auth.Session

	userID int64 // 0 means the signed-in user
	user   *domain.User

	ratings []domain.Rating
	raffles []domain.Raffle

	mode   profileMode
	cursor int // raffle list cursor

	editFields [pfFieldCount]formField
	passFields [pwFieldCount]formField
	focus      int

	rateScore   float64
	rateComment string
	rateFocus   int // 0 score, 1 comment

	loading bool
	saving  bool
	errText string
	notice  string
}

func newProfileModel(c *client.Client, sess *auth.Session, userID int64) profileModel {
	m := profileModel{client: c, session: sess, userID: userID, loading: true, rateScore: domain.RatingMax}
	m.editFields[pfFirstName] = formField{label: "first name"}
	m.editFields[pfLastName] = formField{label: "last name"}
	m.editFields[pfPhone] = formField{label: "phone"}
	m.editFields[pfAddress] = formField{label: "address"}
	m.passFields[pwCurrent] = formField{label: "current password", secret: true}
	m.passFields[pwNew] = formField{label: "new password", secret: true}
	m.passFields[pwConfirm] = formField{label: "confirm", secret: true}
	return m
}

// self reports whether this is the signed-in user's own profile.
func (m profileModel) self() bool {
	if m.userID == 0 {
		return true
	}
	u := m.session.Snapshot().User
	return u != nil && u.ID == m.userID
}

// myRating finds the signed-in user's existing rating of this profile.
func (m profileModel) myRating() *domain.Rating {
	u := m.session.Snapshot().User
	if u == nil {
		return nil
	}
	for i := range m.ratings {
		if m.ratings[i].SourceID == u.ID {
			return &m.ratings[i]
		}
	}
	return nil
}

func (m profileModel) Init() tea.Cmd {
	c := m.client
	sess := m.session
	targetID := m.userID
	return func() tea.Msg {
		ctx := context.Background()

		var user *domain.User
		var err error
		if targetID == 0 {
			user, err = c.Me(ctx)
			if err != nil {
				return profileLoadedMsg{err: err}
			}
			targetID = user.ID
		} else {
			if u := sess.Snapshot().User; u != nil && u.ID == targetID {
				user, err = c.Me(ctx)
			} else {
				user, err = findUser(ctx, c, targetID)
			}
			if err != nil {
				return profileLoadedMsg{err: err}
			}
		}

		ratings, err := c.ListRatings(ctx, targetID)
		if err != nil {
			return profileLoadedMsg{err: err}
		}
		self := sess.Snapshot().User != nil && sess.Snapshot().User.ID == targetID
		raffles, err := c.UserRaffles(ctx, targetID, self)
		if err != nil {
			return profileLoadedMsg{err: err}
		}
		return profileLoadedMsg{user: user, ratings: ratings, raffles: raffles}
	}
}

// findUser resolves a user from the public directory. The backend has
// no single-user endpoint, so this filters the listing.
func findUser(ctx context.Context, c *client.Client, id int64) (*domain.User, error) {
	users, err := c.ListUsers(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].ID == id {
			return &users[i], nil
		}
	}
	return nil, fmt.Errorf("user %d not found", id)
}

func (m profileModel) isEditing() bool {
	switch m.mode {
	case profEdit, profPassword:
		return !m.saving
	case profRate:
		return m.rateFocus == 1
	}
	return false
}

func (m profileModel) Update(msg tea.Msg) (profileModel, tea.Cmd) {
	switch msg := msg.(type) {
	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load the profile")
			return m, nil
		}
		m.user = msg.user
		m.ratings = msg.ratings
		m.raffles = msg.raffles
		m.errText = ""
		if m.cursor >= len(m.raffles) {
			m.cursor = 0
		}
		return m, nil

	case profileSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not save the profile")
			return m, nil
		}
		m.user = msg.user
		m.mode = profView
		m.notice = "profile updated"
		return m, nil

	case passwordChangedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not change the password")
			return m, nil
		}
		m.mode = profView
		m.notice = "password changed"
		for i := range m.passFields {
			m.passFields[i].value = ""
		}
		return m, nil

	case ratingSavedMsg:
		m.saving = false
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not save the rating")
			return m, nil
		}
		m.mode = profView
		m.notice = "rating saved"
		m.loading = true
		return m, m.Init()

	case ratingDeletedMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not remove the rating")
			return m, nil
		}
		m.notice = "rating removed"
		m.loading = true
		return m, m.Init()

	case tea.KeyMsg:
		if m.loading || m.saving {
			return m, nil
		}
		return m.updateKeys(msg.String())
	}
	return m, nil
}

func (m profileModel) updateKeys(key string) (profileModel, tea.Cmd) {
	switch m.mode {
	case profEdit:
		return m.updateEditKeys(key)
	case profPassword:
		return m.updatePasswordKeys(key)
	case profRate:
		return m.updateRateKeys(key)
	}
	return m.updateViewKeys(key)
}

func (m profileModel) updateViewKeys(key string) (profileModel, tea.Cmd) {
	switch key {
	case "j", "down":
		if m.cursor < len(m.raffles)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "enter":
		if m.cursor < len(m.raffles) {
			id := m.raffles[m.cursor].ID
			return m, func() tea.Msg {
				return navigateMsg{path: fmt.Sprintf("/raffles/%d/buy", id)}
			}
		}
	case "e":
		if m.self() && m.user != nil {
			m.mode = profEdit
			m.focus = 0
			m.notice = ""
			m.editFields[pfFirstName].value = m.user.FirstName
			m.editFields[pfLastName].value = m.user.LastName
			m.editFields[pfPhone].value = m.user.PhoneNumber
			m.editFields[pfAddress].value = m.user.Address
		}
	case "w":
		if m.self() {
			m.mode = profPassword
			m.focus = 0
			m.notice = ""
		}
	case "t":
		if !m.self() && m.user != nil {
			m.mode = profRate
			m.rateFocus = 0
			m.notice = ""
			if mine := m.myRating(); mine != nil {
				m.rateScore = mine.Score
				m.rateComment = mine.Comment
			} else {
				m.rateScore = domain.RatingMax
				m.rateComment = ""
			}
		}
	case "x":
		if !m.self() {
			if mine := m.myRating(); mine != nil {
				c := m.client
				id := mine.ID
				return m, func() tea.Msg {
					return ratingDeletedMsg{err: c.DeleteRating(context.Background(), id)}
				}
			}
		}
	}
	return m, nil
}

func (m profileModel) updateEditKeys(key string) (profileModel, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = profView
		return m, nil
	case "tab", "down", "enter":
		if key == "enter" && m.focus == pfFieldCount-1 {
			return m.submitEdit()
		}
		m.focus = (m.focus + 1) % pfFieldCount
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + pfFieldCount - 1) % pfFieldCount
		return m, nil
	case "ctrl+s":
		return m.submitEdit()
	}
	m.editFields[m.focus].value = editRune(m.editFields[m.focus].value, key)
	m.errText = ""
	return m, nil
}

func (m profileModel) submitEdit() (profileModel, tea.Cmd) {
	req := client.UpdateProfileRequest{
		FirstName:   strings.TrimSpace(m.editFields[pfFirstName].value),
		LastName:    strings.TrimSpace(m.editFields[pfLastName].value),
		PhoneNumber: strings.TrimSpace(m.editFields[pfPhone].value),
		Address:     strings.TrimSpace(m.editFields[pfAddress].value),
	}
	if req.FirstName == "" || req.LastName == "" {
		m.errText = "first and last name are required"
		return m, nil
	}
	if m.user != nil {
		req.CityID = m.user.CityID
		req.GenderID = m.user.GenderID
	}

	m.saving = true
	m.errText = ""
	c := m.client
	return m, func() tea.Msg {
		user, err := c.UpdateMe(context.Background(), req)
		return profileSavedMsg{user: user, err: err}
	}
}

func (m profileModel) updatePasswordKeys(key string) (profileModel, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = profView
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % pwFieldCount
		return m, nil
	case "shift+tab", "up":
		m.focus = (m.focus + pwFieldCount - 1) % pwFieldCount
		return m, nil
	case "enter", "ctrl+s":
		if key == "enter" && m.focus < pwFieldCount-1 {
			m.focus++
			return m, nil
		}
		current := m.passFields[pwCurrent].value
		next := m.passFields[pwNew].value
		confirm := m.passFields[pwConfirm].value
		switch {
		case current == "" || next == "":
			m.errText = "both passwords are required"
			return m, nil
		case next != confirm:
			m.errText = "new passwords do not match"
			return m, nil
		}
		m.saving = true
		m.errText = ""
		c := m.client
		return m, func() tea.Msg {
			return passwordChangedMsg{err: c.ChangePassword(context.Background(), current, next)}
		}
	}
	m.passFields[m.focus].value = editRune(m.passFields[m.focus].value, key)
	m.errText = ""
	return m, nil
}

func (m profileModel) updateRateKeys(key string) (profileModel, tea.Cmd) {
	switch key {
	case "esc":
		m.mode = profView
		return m, nil
	case "tab", "down", "up", "shift+tab":
		m.rateFocus = (m.rateFocus + 1) % 2
		return m, nil
	case "ctrl+s", "enter":
		if key == "enter" && m.rateFocus == 0 {
			m.rateFocus = 1
			return m, nil
		}
		m.saving = true
		m.errText = ""
		c := m.client
		score := m.rateScore
		comment := strings.TrimSpace(m.rateComment)
		targetID := m.user.ID
		mine := m.myRating()
		return m, func() tea.Msg {
			ctx := context.Background()
			if mine != nil {
				return ratingSavedMsg{err: c.UpdateRating(ctx, mine.ID, score, comment)}
			}
			_, err := c.RateUser(ctx, targetID, score, comment)
			return ratingSavedMsg{err: err}
		}
	}

	if m.rateFocus == 0 {
		switch key {
		case "h", "left":
			if m.rateScore > domain.RatingMin {
				m.rateScore -= domain.RatingStep
			}
		case "l", "right":
			if m.rateScore < domain.RatingMax {
				m.rateScore += domain.RatingStep
			}
		}
		return m, nil
	}
	m.rateComment = editRune(m.rateComment, key)
	return m, nil
}

func (m profileModel) View() string {
	if m.loading && m.user == nil {
		return " " + dimStyle.Render("loading profile...")
	}
	if m.user == nil {
		return " " + errorStyle.Render("error: "+m.errText)
	}

	switch m.mode {
	case profEdit:
		return m.renderForm("Edit profile", m.editFields[:], "ctrl+s to save, esc to cancel")
	case profPassword:
		return m.renderForm("Change password", m.passFields[:], "ctrl+s to change, esc to cancel")
	case profRate:
		return m.renderRateForm()
	}
	return m.renderView()
}

func (m profileModel) renderView() string {
	var sb strings.Builder
	u := m.user

	name := " " + selectedStyle.Render(u.FullName())
	if u.Admin() {
		name += " " + adminBadgeStyle.Render("[admin]")
	}
	sb.WriteString(name + "\n")
	sb.WriteString(" " + metaStyle.Render(u.Email) + "\n")
	if u.PhoneNumber != "" || u.Address != "" {
		sb.WriteString(" " + dimStyle.Render(strings.TrimSpace(u.PhoneNumber+"  "+u.Address)) + "\n")
	}
	sb.WriteString(" " + metaStyle.Render("member since "+u.DateJoined.Format("2006-01-02")) + "\n\n")

	avg := domain.AverageRating(m.ratings)
	if len(m.ratings) > 0 {
		sb.WriteString(" " + goldStyle.Render(renderStars(avg)) +
			" " + normalStyle.Render(fmt.Sprintf("%.1f", avg)) +
			" " + metaStyle.Render(fmt.Sprintf("(%d ratings)", len(m.ratings))) + "\n")
		for i, r := range m.ratings {
			if i >= 5 {
				sb.WriteString(" " + dimStyle.Render(fmt.Sprintf("...and %d more", len(m.ratings)-5)) + "\n")
				break
			}
			line := "   " + goldStyle.Render(renderStars(r.Score))
			if r.Comment != "" {
				line += "  " + normalStyle.Render(truncStr(r.Comment, 48))
			}
			line += "  " + metaStyle.Render(formatTime(r.CreatedAt))
			sb.WriteString(line + "\n")
		}
	} else {
		sb.WriteString(" " + dimStyle.Render("no ratings yet") + "\n")
	}

	sb.WriteString("\n " + metaStyle.Render("raffles") + "\n")
	if len(m.raffles) == 0 {
		sb.WriteString(" " + dimStyle.Render("none") + "\n")
	}
	for i, r := range m.raffles {
		cursor := "  "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("> ")
			nameStyle = selectedStyle
		}
		sb.WriteString(cursor + nameStyle.Render(truncStr(r.Name, 36)) +
			"  " + StateStyle(r.StateCode).Render(strings.ToLower(r.StateCode)) +
			"  " + moneyStyle.Render(formatMoney(r.NumberPrice)) + "\n")
	}

	var help []string
	if m.self() {
		help = append(help, helpEntry("e", "edit"), helpEntry("w", "password"))
	} else {
		if m.myRating() != nil {
			help = append(help, helpEntry("t", "edit rating"), helpEntry("x", "remove rating"))
		} else {
			help = append(help, helpEntry("t", "rate"))
		}
	}
	help = append(help, helpEntry("enter", "open raffle"))
	sb.WriteString("\n " + strings.Join(help, "  ") + "\n")

	if m.notice != "" {
		sb.WriteString("\n " + okStyle.Render(m.notice) + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}

func (m profileModel) renderForm(title string, fields []formField, help string) string {
	var sb strings.Builder
	sb.WriteString(" " + accentStyle.Render(title) + "\n\n")
	for i, f := range fields {
		shown := f.value
		if f.secret {
			shown = strings.Repeat("*", len([]rune(f.value)))
		}
		line := " " + metaStyle.Render(padRight(f.label, 18))
		switch {
		case m.focus == i:
			line += selectedStyle.Render(shown) + accentStyle.Render("█")
		case shown != "":
			line += normalStyle.Render(shown)
		default:
			line += inputPlaceholderStyle.Render("...")
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n " + dimStyle.Render(help) + "\n")
	if m.saving {
		sb.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}

func (m profileModel) renderRateForm() string {
	var sb strings.Builder
	title := "Rate " + m.user.FullName()
	if m.myRating() != nil {
		title = "Update your rating of " + m.user.FullName()
	}
	sb.WriteString(" " + accentStyle.Render(title) + "\n\n")

	scoreLine := " " + metaStyle.Render(padRight("score", 18))
	stars := goldStyle.Render(renderStars(m.rateScore)) + " " + normalStyle.Render(fmt.Sprintf("%.1f", m.rateScore))
	if m.rateFocus == 0 {
		scoreLine += accentStyle.Render("< ") + stars + accentStyle.Render(" >")
	} else {
		scoreLine += stars
	}
	sb.WriteString(scoreLine + "\n")

	commentLine := " " + metaStyle.Render(padRight("comment", 18))
	if m.rateFocus == 1 {
		commentLine += selectedStyle.Render(m.rateComment) + accentStyle.Render("█")
	} else if m.rateComment != "" {
		commentLine += normalStyle.Render(m.rateComment)
	} else {
		commentLine += inputPlaceholderStyle.Render("optional")
	}
	sb.WriteString(commentLine + "\n")

	sb.WriteString("\n " + dimStyle.Render("h/l to adjust, ctrl+s to save, esc to cancel") + "\n")
	if m.saving {
		sb.WriteString("\n " + dimStyle.Render("saving...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}
