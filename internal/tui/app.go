package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/matiasvera/rifero/pkg/auth"
	"github.com/matiasvera/rifero/pkg/client"
)

// view identifies the active screen.
type view int

const (
	viewHome view = iota
	viewAuth
	viewBuy
	viewCreate
	viewTickets
	viewProfile
	viewSearch
	viewAdmin
	// viewDenied: signed in but not allowed (admin-only route).
	viewDenied
	// viewPending: navigation is parked until session restore settles.
	viewPending
)

type frameMsg time.Time

// sessionSettledMsg fires once startup restoration has finished, in
// either direction.
type sessionSettledMsg struct{}

// navigateMsg asks the app to move to a new location. Screens emit it
// instead of touching each other.
type navigateMsg struct {
	path string
}

// statusMsg is a transient line shown under the tab bar.
type statusMsg struct {
	text  string
	isErr bool
}

// App is the root model. It owns navigation: every location change
// goes through the route guard, so no screen has to re-check the
// session itself.
type App struct {
	client  *client.Client
	session *auth.Session
	log     *zap.Logger
	version string

	current     view
	pendingPath string // parked while session restore is in flight
	redirect    string // where to go after a successful sign-in

	home    homeModel
	auth    authModel
	buy     buyModel
	create  createModel
	tickets ticketsModel
	profile profileModel
	search  searchModel
	admin   adminModel

	status   string
	statusOK bool
	helpOpen bool

	width  int
	height int
	frame  int
}

// NewApp builds the root model. The session starts loading; Init kicks
// off restoration and the first navigation settles once it finishes.
func NewApp(c *client.Client, sess *auth.Session, log *zap.Logger, version string) App {
	if log == nil {
		log = zap.NewNop()
	}
	return App{
		client:  c,
		session: sess,
		log:     log,
		version: version,
		current: viewHome,
		home:    newHomeModel(c),
	}
}

func frameTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (a App) Init() tea.Cmd {
	sess := a.session
	restore := func() tea.Msg {
		sess.Restore()
		return sessionSettledMsg{}
	}
	return tea.Batch(frameTick(), restore, a.home.Init())
}

// navigate resolves a path through the route guard and switches
// screens. Parameterized screens are rebuilt so they load fresh data.
func (a App) navigate(path string) (App, tea.Cmd) {
	base := path
	if i := strings.IndexByte(path, '?'); i >= 0 {
		base = path[:i]
	}
	r := resolveRoute(base)
	st := a.session.Snapshot()

	verdict, target := resolveGuard(r, path, st, a.session.IsAdmin())
	a.log.Debug("navigate", zap.String("path", path), zap.Int("verdict", int(verdict)))
	switch verdict {
	case guardLoading:
		a.pendingPath = path
		a.current = viewPending
		return a, nil
	case guardRedirect:
		a.redirect = redirectTarget(target)
		a.auth = newAuthModel(a.session, a.client)
		a.current = viewAuth
		return a, tea.Batch(a.auth.Init(), a.resendSize())
	case guardDenied:
		a.current = viewDenied
		return a, nil
	}

	a.status = ""
	var cmd tea.Cmd
	switch r.view {
	case viewHome:
		a.home = newHomeModel(a.client)
		cmd = a.home.Init()
	case viewAuth:
		a.auth = newAuthModel(a.session, a.client)
		cmd = a.auth.Init()
	case viewBuy:
		a.buy = newBuyModel(a.client, a.session, r.raffleID)
		cmd = a.buy.Init()
	case viewCreate:
		a.create = newCreateModel(a.client, r.raffleID)
		cmd = a.create.Init()
	case viewTickets:
		a.tickets = newTicketsModel(a.client)
		cmd = a.tickets.Init()
	case viewProfile:
		a.profile = newProfileModel(a.client, a.session, r.userID)
		cmd = a.profile.Init()
	case viewSearch:
		a.search = newSearchModel(a.client)
		cmd = a.search.Init()
	case viewAdmin:
		a.admin = newAdminModel(a.client)
		cmd = a.admin.Init()
	}
	a.current = r.view
	return a, tea.Batch(cmd, a.resendSize())
}

// resendSize replays the last terminal size so a freshly built screen
// can lay itself out.
func (a App) resendSize() tea.Cmd {
	if a.width == 0 {
		return nil
	}
	w, h := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: w, Height: h}
	}
}

// isEditing reports whether the active screen has a focused text
// input, in which case global single-letter keys stay out of the way.
func (a App) isEditing() bool {
	switch a.current {
	case viewHome:
		return a.home.searchFocused
	case viewAuth:
		return a.auth.isEditing()
	case viewCreate:
		return a.create.isEditing()
	case viewProfile:
		return a.profile.isEditing()
	case viewSearch:
		return a.search.isEditing()
	case viewAdmin:
		return a.admin.isEditing()
	case viewBuy:
		return a.buy.isEditing()
	}
	return false
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		a.frame++
		return a, frameTick()

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a.updateScreen(msg)

	case sessionSettledMsg:
		if a.pendingPath != "" {
			path := a.pendingPath
			a.pendingPath = ""
			return a.navigate(path)
		}
		return a, nil

	case navigateMsg:
		return a.navigate(msg.path)

	case statusMsg:
		a.status = msg.text
		a.statusOK = !msg.isErr
		return a, nil

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a.updateScreen(msg)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if a.helpOpen {
		switch key {
		case "?", "esc", "q":
			a.helpOpen = false
		}
		return a, nil
	}

	if !a.isEditing() {
		switch key {
		case "q":
			return a, tea.Quit
		case "?":
			a.helpOpen = true
			return a, nil
		case "1":
			return a.navigate("/")
		case "2":
			return a.navigate("/users")
		case "3":
			return a.navigate("/tickets")
		case "4":
			return a.navigate("/profile")
		case "5":
			if a.session.IsAdmin() {
				return a.navigate("/admin")
			}
			return a, nil
		case "n":
			return a.navigate("/create")
		case "ctrl+l":
			if a.session.Snapshot().Authenticated {
				a.session.Logout()
				a.status = "signed out"
				a.statusOK = true
				return a.navigate("/")
			}
			return a.navigate(authPath)
		case "esc":
			if a.current == viewDenied {
				return a.navigate("/")
			}
		}
	}

	return a.updateScreen(msg)
}

// updateScreen forwards a message to the active screen and handles
// its side effects.
func (a App) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.current {
	case viewHome:
		a.home, cmd = a.home.Update(msg)
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
		if a.auth.done {
			target := a.redirect
			a.redirect = ""
			if target == "" {
				target = "/"
			}
			a.status = "signed in"
			a.statusOK = true
			next, navCmd := a.navigate(target)
			return next, tea.Batch(cmd, navCmd)
		}
	case viewBuy:
		a.buy, cmd = a.buy.Update(msg)
	case viewCreate:
		a.create, cmd = a.create.Update(msg)
	case viewTickets:
		a.tickets, cmd = a.tickets.Update(msg)
	case viewProfile:
		a.profile, cmd = a.profile.Update(msg)
	case viewSearch:
		a.search, cmd = a.search.Update(msg)
	case viewAdmin:
		a.admin, cmd = a.admin.Update(msg)
	}
	return a, cmd
}

func (a App) View() string {
	var sb strings.Builder

	// Header: logo, version, session line
	sb.WriteString(" " + renderShimmerLogo(a.frame))
	if a.version != "" {
		sb.WriteString("  " + metaStyle.Render(a.version))
	}
	sb.WriteString("\n")

	st := a.session.Snapshot()
	switch {
	case st.Loading:
		sb.WriteString(" " + dimStyle.Render("checking session...") + "\n")
	case st.Authenticated && st.User != nil:
		line := " " + normalStyle.Render(st.User.FullName())
		if st.User.Admin() {
			line += " " + adminBadgeStyle.Render("[admin]")
		}
		sb.WriteString(line + "\n")
	default:
		sb.WriteString(" " + dimStyle.Render("signed out — ctrl+l to sign in") + "\n")
	}

	sb.WriteString(a.tabBar() + "\n")

	if a.status != "" {
		style := okStyle
		if !a.statusOK {
			style = errorStyle
		}
		sb.WriteString(" " + style.Render(a.status) + "\n")
	} else {
		sb.WriteString("\n")
	}

	// Body
	body := a.bodyView()
	if a.height > 0 {
		// 4 chrome lines above, 1 help line below
		body = truncateToHeight(body, a.height-5)
	}
	sb.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		sb.WriteString("\n")
	}

	sb.WriteString(a.helpLine())
	return sb.String()
}

func (a App) bodyView() string {
	if a.helpOpen {
		return a.helpOverlay()
	}
	switch a.current {
	case viewHome:
		return a.home.View()
	case viewAuth:
		return a.auth.View()
	case viewBuy:
		return a.buy.View()
	case viewCreate:
		return a.create.View()
	case viewTickets:
		return a.tickets.View()
	case viewProfile:
		return a.profile.View()
	case viewSearch:
		return a.search.View()
	case viewAdmin:
		return a.admin.View()
	case viewDenied:
		return "\n " + errorStyle.Render("access denied") + "\n " +
			dimStyle.Render("this area needs administrator rights — esc to go back") + "\n"
	case viewPending:
		return "\n " + dimStyle.Render("checking session...") + "\n"
	}
	return ""
}

func (a App) tabBar() string {
	type tab struct {
		key   string
		label string
		v     view
	}
	tabs := []tab{
		{"1", "Raffles", viewHome},
		{"2", "Users", viewSearch},
		{"3", "My Numbers", viewTickets},
		{"4", "Profile", viewProfile},
	}
	if a.session.IsAdmin() {
		tabs = append(tabs, tab{"5", "Admin", viewAdmin})
	}

	var parts []string
	for _, t := range tabs {
		label := t.key + " " + t.label
		if a.current == t.v {
			parts = append(parts, accentStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}
	parts = append(parts, dimStyle.Render("n New raffle"))
	return " " + strings.Join(parts, "   ")
}

func (a App) helpLine() string {
	entries := []string{
		helpEntry("1-5", "tabs"),
		helpEntry("n", "new raffle"),
		helpEntry("ctrl+l", "sign in/out"),
		helpEntry("?", "help"),
		helpEntry("q", "quit"),
	}
	return " " + strings.Join(entries, "  ")
}

func (a App) helpOverlay() string {
	var sb strings.Builder
	sb.WriteString("\n " + accentStyle.Render("Keys") + "\n\n")
	rows := [][2]string{
		{"1", "raffle listing"},
		{"2", "find users"},
		{"3", "my numbers"},
		{"4", "profile"},
		{"5", "admin catalogs (admins only)"},
		{"n", "create a raffle"},
		{"ctrl+l", "sign in or out"},
		{"/", "search within a list"},
		{"j/k", "move, h/l cycle choices"},
		{"enter", "select"},
		{"esc", "back / cancel"},
		{"q", "quit"},
	}
	for _, r := range rows {
		sb.WriteString("   " + helpKeyStyle.Render(padRight(r[0], 8)) + helpLabelStyle.Render(r[1]) + "\n")
	}
	sb.WriteString("\n " + dimStyle.Render("press ? or esc to close") + "\n")
	return sb.String()
}

func padRight(s string, n int) string {
	for len(s) < n {
		s += " "
	}
	return s
}
