package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/auth"
	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// formField is one row of the sign-in/sign-up form. Choice fields hold
// catalog options cycled with h/l; the rest are typed text.
type formField struct {
	label   string
	value   string
	secret  bool
	choice  bool
	options []domain.CatalogItem
	idx     int
}

func (f formField) selected() *domain.CatalogItem {
	if !f.choice || len(f.options) == 0 {
		return nil
	}
	return &f.options[f.idx]
}

// Register form field positions.
const (
	regEmail = iota
	regPassword
	regConfirm
	regFirstName
	regLastName
	regDocType
	regDocNumber
	regPhone
	regAddress
	regGender
	regCountry
	regState
	regCity
	regFieldCount
)

type authCatalogsLoadedMsg struct {
	genders   []domain.CatalogItem
	docTypes  []domain.CatalogItem
	countries []domain.CatalogItem
	err       error
}

type authStatesLoadedMsg struct {
	states []domain.CatalogItem
	err    error
}

type authCitiesLoadedMsg struct {
	cities []domain.CatalogItem
	err    error
}

type loginDoneMsg struct{ res auth.Result }

type registerDoneMsg struct {
	res   auth.Result
	email string
}

// authModel is the sign-in / sign-up screen. A successful sign-in sets
// done; the app picks that up and navigates away.
type authModel struct {
	session *auth.Session
	client  *client.Client

	mode       authMode
	email      string
	password   string
	loginFocus int // 0 email, 1 password

	fields   [regFieldCount]formField
	regFocus int

	submitting bool
	errText    string
	message    string
	done       bool
}

func newAuthModel(sess *auth.Session, c *client.Client) authModel {
	m := authModel{session: sess, client: c}
	m.fields[regEmail] = formField{label: "email"}
	m.fields[regPassword] = formField{label: "password", secret: true}
	m.fields[regConfirm] = formField{label: "confirm password", secret: true}
	m.fields[regFirstName] = formField{label: "first name"}
	m.fields[regLastName] = formField{label: "last name"}
	m.fields[regDocType] = formField{label: "document type", choice: true}
	m.fields[regDocNumber] = formField{label: "document number"}
	m.fields[regPhone] = formField{label: "phone"}
	m.fields[regAddress] = formField{label: "address"}
	m.fields[regGender] = formField{label: "gender", choice: true}
	m.fields[regCountry] = formField{label: "country", choice: true}
	m.fields[regState] = formField{label: "state", choice: true}
	m.fields[regCity] = formField{label: "city", choice: true}
	return m
}

func (m authModel) Init() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx := context.Background()
		genders, err := c.ListCatalog(ctx, domain.CatalogGenders, 0)
		if err != nil {
			return authCatalogsLoadedMsg{err: err}
		}
		docTypes, err := c.ListCatalog(ctx, domain.CatalogDocumentTypes, 0)
		if err != nil {
			return authCatalogsLoadedMsg{err: err}
		}
		countries, err := c.ListCatalog(ctx, domain.CatalogCountries, 0)
		if err != nil {
			return authCatalogsLoadedMsg{err: err}
		}
		return authCatalogsLoadedMsg{genders: genders, docTypes: docTypes, countries: countries}
	}
}

func (m authModel) loadStates(countryID int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		states, err := c.ListCatalog(context.Background(), domain.CatalogStates, countryID)
		return authStatesLoadedMsg{states: states, err: err}
	}
}

func (m authModel) loadCities(stateID int64) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		cities, err := c.ListCatalog(context.Background(), domain.CatalogCities, stateID)
		return authCitiesLoadedMsg{cities: cities, err: err}
	}
}

// isEditing reports whether a typed text field is focused.
func (m authModel) isEditing() bool {
	if m.submitting {
		return false
	}
	if m.mode == modeLogin {
		return true
	}
	return !m.fields[m.regFocus].choice
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authCatalogsLoadedMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load reference data")
			return m, nil
		}
		m.fields[regGender].options = msg.genders
		m.fields[regDocType].options = msg.docTypes
		m.fields[regCountry].options = msg.countries
		if len(msg.countries) > 0 {
			return m, m.loadStates(msg.countries[0].ID)
		}
		return m, nil

	case authStatesLoadedMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load states")
			return m, nil
		}
		m.fields[regState].options = msg.states
		m.fields[regState].idx = 0
		m.fields[regCity].options = nil
		m.fields[regCity].idx = 0
		if len(msg.states) > 0 {
			return m, m.loadCities(msg.states[0].ID)
		}
		return m, nil

	case authCitiesLoadedMsg:
		if msg.err != nil {
			m.errText = client.Message(msg.err, "could not load cities")
			return m, nil
		}
		m.fields[regCity].options = msg.cities
		m.fields[regCity].idx = 0
		return m, nil

	case loginDoneMsg:
		m.submitting = false
		if msg.res.Success {
			m.done = true
		} else {
			m.errText = msg.res.Error
		}
		return m, nil

	case registerDoneMsg:
		m.submitting = false
		if msg.res.Success {
			m.mode = modeLogin
			m.email = msg.email
			m.password = ""
			m.loginFocus = 1
			m.message = msg.res.Message
			m.errText = ""
		} else {
			m.errText = msg.res.Error
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+t" {
		if m.mode == modeLogin {
			m.mode = modeRegister
		} else {
			m.mode = modeLogin
		}
		m.errText = ""
		m.message = ""
		m.session.ClearError()
		return m, nil
	}

	if m.mode == modeLogin {
		return m.updateLoginKeys(key)
	}
	return m.updateRegisterKeys(key)
}

func (m authModel) updateLoginKeys(key string) (authModel, tea.Cmd) {
	switch key {
	case "tab", "down":
		m.loginFocus = (m.loginFocus + 1) % 2
	case "shift+tab", "up":
		m.loginFocus = (m.loginFocus + 1) % 2
	case "enter":
		if m.loginFocus == 0 {
			m.loginFocus = 1
			return m, nil
		}
		return m.submitLogin()
	default:
		if m.loginFocus == 0 {
			m.email = editRune(m.email, key)
		} else {
			m.password = editRune(m.password, key)
		}
		m.errText = ""
	}
	return m, nil
}

func (m authModel) submitLogin() (authModel, tea.Cmd) {
	email := strings.TrimSpace(m.email)
	if email == "" || m.password == "" {
		m.errText = "email and password are required"
		return m, nil
	}
	m.submitting = true
	m.errText = ""
	sess := m.session
	creds := domain.Credentials{Email: email, Password: m.password}
	return m, func() tea.Msg {
		return loginDoneMsg{res: sess.Login(context.Background(), creds)}
	}
}

func (m authModel) updateRegisterKeys(key string) (authModel, tea.Cmd) {
	f := &m.fields[m.regFocus]

	switch key {
	case "tab", "down", "enter":
		if key == "enter" && m.regFocus == regFieldCount-1 {
			return m.submitRegister()
		}
		m.regFocus = (m.regFocus + 1) % regFieldCount
		return m, nil
	case "shift+tab", "up":
		m.regFocus = (m.regFocus + regFieldCount - 1) % regFieldCount
		return m, nil
	case "ctrl+s":
		return m.submitRegister()
	}

	if f.choice {
		switch key {
		case "h", "left":
			if len(f.options) > 0 {
				f.idx = (f.idx + len(f.options) - 1) % len(f.options)
				return m.onChoiceChange(m.regFocus)
			}
		case "l", "right":
			if len(f.options) > 0 {
				f.idx = (f.idx + 1) % len(f.options)
				return m.onChoiceChange(m.regFocus)
			}
		}
		return m, nil
	}

	f.value = editRune(f.value, key)
	m.errText = ""
	return m, nil
}

// onChoiceChange reloads dependent catalogs when a location choice
// moves: country drives states, state drives cities.
func (m authModel) onChoiceChange(field int) (authModel, tea.Cmd) {
	switch field {
	case regCountry:
		if sel := m.fields[regCountry].selected(); sel != nil {
			m.fields[regState].options = nil
			m.fields[regCity].options = nil
			return m, m.loadStates(sel.ID)
		}
	case regState:
		if sel := m.fields[regState].selected(); sel != nil {
			m.fields[regCity].options = nil
			return m, m.loadCities(sel.ID)
		}
	}
	return m, nil
}

func (m authModel) submitRegister() (authModel, tea.Cmd) {
	reg := domain.Registration{
		Email:           strings.TrimSpace(m.fields[regEmail].value),
		Password:        m.fields[regPassword].value,
		ConfirmPassword: m.fields[regConfirm].value,
		FirstName:       strings.TrimSpace(m.fields[regFirstName].value),
		LastName:        strings.TrimSpace(m.fields[regLastName].value),
		DocumentNumber:  strings.TrimSpace(m.fields[regDocNumber].value),
		PhoneNumber:     strings.TrimSpace(m.fields[regPhone].value),
		Address:         strings.TrimSpace(m.fields[regAddress].value),
	}
	if sel := m.fields[regDocType].selected(); sel != nil {
		reg.DocumentTypeID = sel.ID
	}
	if sel := m.fields[regGender].selected(); sel != nil {
		reg.GenderID = sel.ID
	}
	if sel := m.fields[regCity].selected(); sel != nil {
		reg.CityID = sel.ID
	}

	switch {
	case reg.Email == "" || reg.Password == "":
		m.errText = "email and password are required"
		return m, nil
	case reg.Password != reg.ConfirmPassword:
		m.errText = "passwords do not match"
		return m, nil
	case reg.FirstName == "" || reg.LastName == "":
		m.errText = "first and last name are required"
		return m, nil
	}

	m.submitting = true
	m.errText = ""
	sess := m.session
	return m, func() tea.Msg {
		return registerDoneMsg{res: sess.Register(context.Background(), reg), email: reg.Email}
	}
}

func (m authModel) View() string {
	var sb strings.Builder

	login := "Sign in"
	register := "Create account"
	if m.mode == modeLogin {
		login = accentStyle.Render(login)
		register = dimStyle.Render(register)
	} else {
		login = dimStyle.Render(login)
		register = accentStyle.Render(register)
	}
	sb.WriteString(" " + login + "  " + register + "  " + metaStyle.Render("ctrl+t to switch") + "\n\n")

	if m.message != "" {
		sb.WriteString(" " + okStyle.Render(m.message) + "\n\n")
	}

	if m.mode == modeLogin {
		sb.WriteString(m.renderTextField("email", m.email, false, m.loginFocus == 0))
		sb.WriteString(m.renderTextField("password", m.password, true, m.loginFocus == 1))
		sb.WriteString("\n " + dimStyle.Render("enter to sign in") + "\n")
	} else {
		for i := range m.fields {
			f := m.fields[i]
			if f.choice {
				sb.WriteString(m.renderChoiceField(f, m.regFocus == i))
			} else {
				sb.WriteString(m.renderTextField(f.label, f.value, f.secret, m.regFocus == i))
			}
		}
		sb.WriteString("\n " + dimStyle.Render("tab to move, h/l to cycle choices, ctrl+s to create the account") + "\n")
	}

	if m.submitting {
		sb.WriteString("\n " + dimStyle.Render("working...") + "\n")
	}
	if m.errText != "" {
		sb.WriteString("\n " + errorStyle.Render(m.errText) + "\n")
	}
	return sb.String()
}

func (m authModel) renderTextField(label, value string, secret, focused bool) string {
	shown := value
	if secret {
		shown = strings.Repeat("*", len([]rune(value)))
	}
	line := " " + metaStyle.Render(padRight(label, 18))
	if focused {
		line += selectedStyle.Render(shown) + accentStyle.Render("█")
	} else if shown != "" {
		line += normalStyle.Render(shown)
	} else {
		line += inputPlaceholderStyle.Render("...")
	}
	return line + "\n"
}

func (m authModel) renderChoiceField(f formField, focused bool) string {
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
