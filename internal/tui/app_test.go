package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matiasvera/rifero/pkg/auth"
	"github.com/matiasvera/rifero/pkg/domain"
)

type stubAPI struct {
	pair *domain.TokenPair
	err  error
}

func (s *stubAPI) Login(ctx context.Context, creds domain.Credentials) (*domain.TokenPair, error) {
	return s.pair, s.err
}

func (s *stubAPI) Register(ctx context.Context, reg domain.Registration) error {
	return s.err
}

// newTestApp returns an app over a settled, signed-out session.
func newTestApp(t *testing.T) (App, *auth.Session) {
	t.Helper()
	store := auth.NewCredentialStore(t.TempDir(), nil)
	sess := auth.NewSession(&stubAPI{}, store, nil)
	sess.Restore()
	return NewApp(nil, sess, nil, "test"), sess
}

// newSignedInApp returns an app whose session is authenticated as user.
func newSignedInApp(t *testing.T, user *domain.User) (App, *auth.Session) {
	t.Helper()
	api := &stubAPI{pair: &domain.TokenPair{Access: "acc", Refresh: "ref", User: user}}
	sess := auth.NewSession(api, auth.NewCredentialStore(t.TempDir(), nil), nil)
	sess.Restore()
	res := sess.Login(context.Background(), domain.Credentials{Email: user.Email, Password: "pw"})
	if !res.Success {
		t.Fatalf("test login failed: %+v", res)
	}
	return NewApp(nil, sess, nil, "test"), sess
}

func TestAppViewShowsSignedOutChrome(t *testing.T) {
	a, _ := newTestApp(t)
	view := a.View()
	if !strings.Contains(view, "signed out") {
		t.Errorf("expected signed-out line, got:\n%s", view)
	}
	if !strings.Contains(view, "Raffles") || !strings.Contains(view, "My Numbers") {
		t.Errorf("expected tab bar, got:\n%s", view)
	}
	if strings.Contains(view, "Admin") {
		t.Errorf("admin tab should be hidden when signed out:\n%s", view)
	}
}

func TestAppAdminTabForAdmins(t *testing.T) {
	a, _ := newSignedInApp(t, &domain.User{ID: 1, FirstName: "Ana", LastName: "Vera", IsStaff: true})
	view := a.View()
	if !strings.Contains(view, "Admin") {
		t.Errorf("expected admin tab, got:\n%s", view)
	}
	if !strings.Contains(view, "[admin]") {
		t.Errorf("expected admin badge, got:\n%s", view)
	}
	if !strings.Contains(view, "Ana Vera") {
		t.Errorf("expected user name, got:\n%s", view)
	}
}

func TestAppProtectedRouteRedirectsToAuth(t *testing.T) {
	a, _ := newTestApp(t)
	a, _ = a.navigate("/tickets")

	if a.current != viewAuth {
		t.Fatalf("current = %v, want auth view", a.current)
	}
	if a.redirect != "/tickets" {
		t.Errorf("redirect = %q, want the requested path", a.redirect)
	}
	if !strings.Contains(a.View(), "Sign in") {
		t.Errorf("expected the auth screen, got:\n%s", a.View())
	}
}

func TestAppLoadingSessionParksNavigation(t *testing.T) {
	// A fresh session that has not restored yet is still loading.
	sess := auth.NewSession(&stubAPI{}, auth.NewCredentialStore(t.TempDir(), nil), nil)
	a := NewApp(nil, sess, nil, "test")

	a, _ = a.navigate("/tickets")
	if a.current != viewPending {
		t.Fatalf("current = %v, want pending view", a.current)
	}
	if !strings.Contains(a.View(), "checking session") {
		t.Errorf("expected placeholder, got:\n%s", a.View())
	}

	// Restoration settles signed out; the parked path resolves to a
	// redirect, never to the protected content.
	sess.Restore()
	model, _ := a.Update(sessionSettledMsg{})
	a = model.(App)
	if a.current != viewAuth {
		t.Errorf("current = %v, want auth view after settle", a.current)
	}
	if a.redirect != "/tickets" {
		t.Errorf("redirect = %q", a.redirect)
	}
}

func TestAppAdminRouteDeniedForNonAdmin(t *testing.T) {
	a, _ := newSignedInApp(t, &domain.User{ID: 2, FirstName: "Luis"})
	a, _ = a.navigate("/admin")

	if a.current != viewDenied {
		t.Fatalf("current = %v, want denied view", a.current)
	}
	if !strings.Contains(a.View(), "access denied") {
		t.Errorf("expected denied message, got:\n%s", a.View())
	}
}

func TestAppAdminRouteAllowedForAdmin(t *testing.T) {
	a, _ := newSignedInApp(t, &domain.User{ID: 3, IsAdmin: true})
	a, _ = a.navigate("/admin")
	if a.current != viewAdmin {
		t.Errorf("current = %v, want admin view", a.current)
	}
}

func TestAppTabKeysNavigate(t *testing.T) {
	a, _ := newSignedInApp(t, &domain.User{ID: 4, FirstName: "Ana"})

	model, _ := a.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'2'}})
	a = model.(App)
	if a.current != viewSearch {
		t.Errorf("key 2: current = %v, want search", a.current)
	}

	model, _ = a.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	a = model.(App)
	if a.current != viewTickets {
		t.Errorf("key 3: current = %v, want tickets", a.current)
	}
}

func TestAppAdminKeyIgnoredForNonAdmin(t *testing.T) {
	a, _ := newSignedInApp(t, &domain.User{ID: 5})
	model, _ := a.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}})
	a = model.(App)
	if a.current == viewAdmin || a.current == viewDenied {
		t.Errorf("key 5 should be inert for non-admins, current = %v", a.current)
	}
}

func TestAppLogoutKeyResetsSession(t *testing.T) {
	a, sess := newSignedInApp(t, &domain.User{ID: 6, FirstName: "Ana"})
	model, _ := a.updateKeys(tea.KeyMsg{Type: tea.KeyCtrlL})
	a = model.(App)

	if sess.Snapshot().Authenticated {
		t.Error("ctrl+l should sign out")
	}
	if a.current != viewHome {
		t.Errorf("current = %v, want home after sign-out", a.current)
	}
}

func TestAppHelpOverlay(t *testing.T) {
	a, _ := newTestApp(t)
	model, _ := a.updateKeys(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})
	a = model.(App)
	if !a.helpOpen {
		t.Fatal("? should open help")
	}
	if !strings.Contains(a.View(), "raffle listing") {
		t.Errorf("expected key reference, got:\n%s", a.View())
	}

	model, _ = a.updateKeys(tea.KeyMsg{Type: tea.KeyEsc})
	a = model.(App)
	if a.helpOpen {
		t.Error("esc should close help")
	}
}

func TestAppLoginRedirectsBack(t *testing.T) {
	api := &stubAPI{pair: &domain.TokenPair{Access: "acc", Refresh: "ref", User: &domain.User{ID: 7}}}
	sess := auth.NewSession(api, auth.NewCredentialStore(t.TempDir(), nil), nil)
	sess.Restore()
	a := NewApp(nil, sess, nil, "test")

	a, _ = a.navigate("/tickets")
	if a.current != viewAuth {
		t.Fatalf("current = %v, want auth", a.current)
	}

	// The auth screen finishing a sign-in flips done; the app then
	// resumes the requested location.
	sess.Login(context.Background(), domain.Credentials{Email: "a@b.c", Password: "pw"})
	a.auth, _ = a.auth.Update(loginDoneMsg{res: auth.Result{Success: true}})
	model, _ := a.updateScreen(struct{}{})
	a = model.(App)

	if a.current != viewTickets {
		t.Errorf("current = %v, want tickets after login", a.current)
	}
	if a.redirect != "" {
		t.Errorf("redirect should be consumed, got %q", a.redirect)
	}
}

func TestAppUnknownPathFallsBackToHome(t *testing.T) {
	a, _ := newTestApp(t)
	a, _ = a.navigate("/not/a/route")
	if a.current != viewHome {
		t.Errorf("current = %v, want home", a.current)
	}
}
