package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/matiasvera/rifero/pkg/domain"
)

const credentialsFile = "credentials.json"

// CredentialStore mirrors the session's auth triple (access token,
// refresh token, user profile) to disk so a session survives restarts.
// The triple is written as one file with a temp-file rename, so readers
// always see all three values or none of them.
type CredentialStore struct {
	dir string
	log *zap.Logger
}

// storedCredentials is the on-disk layout. The user profile stays in
// its serialized form and is re-parsed on load.
type storedCredentials struct {
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user"`
}

// NewCredentialStore persists under dir (created on first save).
func NewCredentialStore(dir string, log *zap.Logger) *CredentialStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &CredentialStore{dir: dir, log: log}
}

func (s *CredentialStore) path() string {
	return filepath.Join(s.dir, credentialsFile)
}

// Save writes the triple atomically. The file is user-only: it holds
// live bearer tokens.
func (s *CredentialStore) Save(access, refresh string, user *domain.User) error {
	rawUser, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credentials: encode user: %w", err)
	}
	data, err := json.Marshal(storedCredentials{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         rawUser,
	})
	if err != nil {
		return fmt.Errorf("credentials: encode: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("credentials: create dir: %w", err)
	}
	tmp := s.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("credentials: write: %w", err)
	}
	if err := os.Rename(tmp, s.path()); err != nil {
		os.Remove(tmp) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("credentials: replace: %w", err)
	}
	return nil
}

// Load returns the stored triple, or zero values when nothing usable is
// stored. It never fails hard: an unreadable file or a corrupt user
// record is logged and reported as an absent session, so a bad write
// can never wedge startup.
func (s *CredentialStore) Load() (access, refresh string, user *domain.User) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("read stored credentials", zap.Error(err))
		}
		return "", "", nil
	}
	var stored storedCredentials
	if err := json.Unmarshal(data, &stored); err != nil {
		s.log.Warn("stored credentials are corrupt, ignoring", zap.Error(err))
		return "", "", nil
	}
	if len(stored.User) > 0 {
		var u domain.User
		if err := json.Unmarshal(stored.User, &u); err != nil {
			s.log.Warn("stored user record is corrupt, ignoring session", zap.Error(err))
			return "", "", nil
		}
		user = &u
	}
	return stored.AccessToken, stored.RefreshToken, user
}

// Clear removes the stored triple. Safe to call when nothing is stored.
func (s *CredentialStore) Clear() error {
	if err := os.Remove(s.path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credentials: clear: %w", err)
	}
	return nil
}
