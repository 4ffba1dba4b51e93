package tui

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matiasvera/rifero/pkg/auth"
)

// authPath is where unauthenticated visitors are sent.
const authPath = "/auth"

// guardVerdict is the route guard's decision for a navigation attempt.
type guardVerdict int

const (
	guardAllow guardVerdict = iota
	// guardLoading: session restoration has not settled yet; render a
	// placeholder, never the protected content and never a redirect.
	guardLoading
	// guardRedirect: not signed in; go to the auth screen, carrying the
	// requested location so login can return there.
	guardRedirect
	// guardDenied: signed in but missing admin rights for an
	// admin-only route. Distinct from redirect — the user is known,
	// they just lack privilege.
	guardDenied
)

// route is one navigable location, resolved from a path string.
type route struct {
	view      view
	protected bool
	adminOnly bool
	raffleID  int64 // for /raffles/{id}/...
	userID    int64 // for /users/{id}
}

// resolveRoute maps a path (without query) onto a route. Unknown paths
// fall back to home.
func resolveRoute(path string) route {
	switch path {
	case "", "/":
		return route{view: viewHome}
	case authPath:
		return route{view: viewAuth}
	case "/users":
		return route{view: viewSearch}
	case "/tickets":
		return route{view: viewTickets, protected: true}
	case "/profile":
		return route{view: viewProfile, protected: true}
	case "/create":
		return route{view: viewCreate, protected: true}
	case "/admin":
		return route{view: viewAdmin, protected: true, adminOnly: true}
	}

	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 3 && parts[0] == "raffles" && parts[2] == "buy":
		if id, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			return route{view: viewBuy, protected: true, raffleID: id}
		}
	case len(parts) == 3 && parts[0] == "raffles" && parts[2] == "edit":
		if id, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			return route{view: viewCreate, protected: true, raffleID: id}
		}
	case len(parts) == 2 && parts[0] == "users":
		if id, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
			return route{view: viewProfile, protected: true, userID: id}
		}
	}
	return route{view: viewHome}
}

// resolveGuard gates a route against the session. requested is the
// full original location (path plus query); on a redirect verdict the
// returned target is the auth path with requested encoded in its
// `redirect` query parameter.
func resolveGuard(r route, requested string, st auth.State, isAdmin bool) (guardVerdict, string) {
	if !r.protected {
		return guardAllow, ""
	}
	if st.Loading {
		return guardLoading, ""
	}
	if !st.Authenticated {
		q := url.Values{}
		q.Set("redirect", requested)
		return guardRedirect, authPath + "?" + q.Encode()
	}
	if r.adminOnly && !isAdmin {
		return guardDenied, ""
	}
	return guardAllow, ""
}

// redirectTarget extracts the `redirect` parameter from an auth route
// produced by resolveGuard, or "" when none is present.
func redirectTarget(target string) string {
	u, err := url.Parse(target)
	if err != nil {
		return ""
	}
	return u.Query().Get("redirect")
}
