// Package session persists the authenticated identity and bearer credential.
// The store is the sole writer of its file; every mutation re-persists
// synchronously. The backend remains the source of truth for the identity,
// this is a cache that drifts until the next login or Update.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"storefront/internal/logging"
	"storefront/internal/types"
)

const sessionFile = "session.json"

// persisted is the on-disk session blob.
type persisted struct {
	Token     string         `json:"token"`
	Identity  types.Identity `json:"identity"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// Store holds the current session. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	dir      string
	token    string
	identity *types.Identity

	logoutHooks []func()

	log *logging.Logger
}

// Open hydrates the session from the state dir. A missing file means logged
// out; a malformed file is discarded and removed.
func Open(stateDir string) (*Store, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	s := &Store{
		dir: stateDir,
		log: logging.Get(logging.CategorySession),
	}

	path := s.path()
	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Logged out.
	case err != nil:
		return nil, fmt.Errorf("read session: %w", err)
	default:
		var p persisted
		if err := json.Unmarshal(data, &p); err != nil || p.Token == "" {
			s.log.Warn("discarding malformed session file: %v", err)
			_ = os.Remove(path)
		} else {
			s.token = p.Token
			id := p.Identity
			s.identity = &id
			s.log.Info("session hydrated for user %d (%s)", id.ID, id.Username)
		}
	}

	return s, nil
}

func (s *Store) path() string {
	return filepath.Join(s.dir, sessionFile)
}

// SignedIn reports whether an authenticated identity is active.
func (s *Store) SignedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.token != ""
}

// Current returns a copy of the identity, or false when logged out.
func (s *Store) Current() (types.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return types.Identity{}, false
	}
	return *s.identity, true
}

// Token returns the bearer credential, empty when logged out. Implements
// api.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Login activates a session and persists it.
func (s *Store) Login(identity types.Identity, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = token
	id := identity
	s.identity = &id

	if err := s.persistLocked(); err != nil {
		return err
	}
	s.log.Info("logged in as user %d (%s)", identity.ID, identity.Username)
	return nil
}

// Update shallow-merges non-zero fields into the identity and re-persists.
// Used to reflect server-side effects, like awarded loyalty points, without a
// full re-login.
func (s *Store) Update(partial types.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return fmt.Errorf("no active session")
	}

	if partial.Username != "" {
		s.identity.Username = partial.Username
	}
	if partial.Email != "" {
		s.identity.Email = partial.Email
	}
	if partial.LoyaltyPoints != 0 {
		s.identity.LoyaltyPoints = partial.LoyaltyPoints
	}
	if partial.Admin {
		s.identity.Admin = true
	}

	return s.persistLocked()
}

// SetLoyaltyPoints replaces the cached balance, including setting it to zero.
func (s *Store) SetLoyaltyPoints(points int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.identity == nil {
		return fmt.Errorf("no active session")
	}
	s.identity.LoyaltyPoints = points
	return s.persistLocked()
}

// AddLogoutHook registers a cleanup run on logout. The cart store hooks in
// here so a logout also drops the active cart, without this store touching
// another store's file.
func (s *Store) AddLogoutHook(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logoutHooks = append(s.logoutHooks, fn)
}

// Logout clears the session and runs the registered cleanups. Navigation is
// left to the caller.
func (s *Store) Logout() {
	s.mu.Lock()
	s.token = ""
	s.identity = nil
	_ = os.Remove(s.path())
	hooks := make([]func(), len(s.logoutHooks))
	copy(hooks, s.logoutHooks)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	s.log.Info("logged out")
}

// persistLocked writes the session file. Callers hold s.mu.
func (s *Store) persistLocked() error {
	p := persisted{
		Token:     s.token,
		Identity:  *s.identity,
		UpdatedAt: time.Now(),
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(s.path(), data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}
