package auth

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/matiasvera/rifero/pkg/client"
	"github.com/matiasvera/rifero/pkg/domain"
)

// API is the slice of the gateway client the session store drives.
type API interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.TokenPair, error)
	Register(ctx context.Context, reg domain.Registration) error
}

// State is a point-in-time snapshot of the session. Authenticated is
// true only while User and AccessToken are both set.
type State struct {
	User          *domain.User
	AccessToken   string
	RefreshToken  string
	Authenticated bool
	Loading       bool
	Err           string
}

// Result is what Login and Register hand back to the screens. Failures
// are carried in Error; neither call ever returns a Go error.
type Result struct {
	Success bool
	Message string
	Error   string
}

type eventKind int

const (
	loginStart eventKind = iota
	loginSuccess
	loginError
	registerStart
	registerSuccess
	registerError
	logoutEvent
	clearError
	restoreSession
	setLoading
)

type event struct {
	kind    eventKind
	pair    *domain.TokenPair
	message string
	loading bool
}

// Session is the single writer of authentication state. Screens read
// snapshots; every mutation funnels through the reducer under one
// mutex, so a concurrent read can never observe a half-applied
// transition. Construct one per application (or per test).
type Session struct {
	mu    sync.Mutex
	state State
	api   API
	store *CredentialStore
	log   *zap.Logger
	now   func() time.Time
}

// NewSession starts in the loading state; Restore settles it.
func NewSession(api API, store *CredentialStore, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		state: State{Loading: true},
		api:   api,
		store: store,
		log:   log,
		now:   time.Now,
	}
}

// reduce is the session state machine. Authenticated states are only
// ever produced with both a user and an access token, and every exit
// from an authenticated state resets the whole record.
func reduce(s State, ev event) State {
	switch ev.kind {
	case loginStart, registerStart:
		s.Loading = true
		s.Err = ""
	case loginSuccess, restoreSession:
		s = State{
			User:          ev.pair.User,
			AccessToken:   ev.pair.Access,
			RefreshToken:  ev.pair.Refresh,
			Authenticated: true,
		}
	case registerSuccess:
		s.Loading = false
		s.Err = ""
	case loginError, registerError:
		s = State{Err: ev.message}
	case logoutEvent:
		s = State{}
	case clearError:
		s.Err = ""
	case setLoading:
		s.Loading = ev.loading
	}
	return s
}

func (s *Session) dispatch(ev event) {
	s.mu.Lock()
	s.state = reduce(s.state, ev)
	s.mu.Unlock()
}

// Restore runs the one-time startup check: adopt the persisted
// credentials when they are complete and the access token is still
// valid, otherwise settle into a signed-out state. Every path through
// here ends with Loading false — the UI must never hang on a storage
// or decode problem.
func (s *Session) Restore() {
	access, refresh, user := s.store.Load()
	if access == "" || refresh == "" || user == nil {
		s.dispatch(event{kind: setLoading, loading: false})
		return
	}
	if !TokenValid(access, s.now()) {
		s.log.Info("stored access token expired, clearing credentials")
		if err := s.store.Clear(); err != nil {
			s.log.Warn("clear expired credentials", zap.Error(err))
		}
		s.dispatch(event{kind: setLoading, loading: false})
		return
	}
	s.dispatch(event{kind: restoreSession, pair: &domain.TokenPair{
		Access:  access,
		Refresh: refresh,
		User:    user,
	}})
}

// Login signs in against the auth API. On success the triple is
// persisted before the state flips to authenticated, so storage and
// memory stay consistent. Failures leave storage untouched.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) Result {
	s.dispatch(event{kind: loginStart})

	pair, err := s.api.Login(ctx, creds)
	if err != nil {
		msg := client.Message(err, "could not sign in")
		s.dispatch(event{kind: loginError, message: msg})
		return Result{Error: msg}
	}
	if pair == nil || pair.User == nil || pair.Access == "" {
		msg := "could not sign in"
		s.log.Warn("login response missing token or user")
		s.dispatch(event{kind: loginError, message: msg})
		return Result{Error: msg}
	}

	if err := s.store.Save(pair.Access, pair.Refresh, pair.User); err != nil {
		// The in-memory session still works; it just won't survive a
		// restart.
		s.log.Warn("persist credentials", zap.Error(err))
	}
	s.dispatch(event{kind: loginSuccess, pair: pair})
	return Result{Success: true}
}

// Register creates an account. Success does not authenticate — the
// user signs in afterwards with the new credentials.
func (s *Session) Register(ctx context.Context, reg domain.Registration) Result {
	s.dispatch(event{kind: registerStart})

	if err := s.api.Register(ctx, reg); err != nil {
		msg := client.Message(err, "could not create the account")
		s.dispatch(event{kind: registerError, message: msg})
		return Result{Error: msg}
	}
	s.dispatch(event{kind: registerSuccess})
	return Result{Success: true, Message: "account created, sign in to continue"}
}

// Logout clears storage first, then resets the session. Calling it on
// a signed-out session is a no-op with the same end state.
func (s *Session) Logout() {
	if err := s.store.Clear(); err != nil {
		s.log.Warn("clear credentials", zap.Error(err))
	}
	s.dispatch(event{kind: logoutEvent})
}

// ClearError drops the last login/register error message.
func (s *Session) ClearError() {
	s.dispatch(event{kind: clearError})
}

// Snapshot returns the current session state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AccessToken is the client's token source: the current bearer token,
// or "" for anonymous calls.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AccessToken
}

// IsAdmin reports whether the signed-in user has admin rights. False
// when signed out.
func (s *Session) IsAdmin() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.User != nil && s.state.User.Admin()
}
