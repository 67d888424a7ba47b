// ABOUTME: Durable session store holding the auth token and cached identity
// ABOUTME: Persists state as JSON in the config directory and notifies subscribers

package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// ErrNoSession is returned when an identity is set without an active token.
var ErrNoSession = errors.New("no active session")

// User is the identity record cached alongside the token
type User struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is a point-in-time snapshot of the authentication state.
// A non-nil User implies a non-empty Token.
type Session struct {
	Token string `json:"token,omitempty"`
	User  *User  `json:"user,omitempty"`
}

// Authenticated reports whether a token is present
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// Store is the single writer of session state. Reads and subscriptions
// are safe from any goroutine; every mutation is an atomic replace that
// is written to disk before the call returns.
type Store struct {
	mu        sync.Mutex
	configDir string
	current   Session
	listeners map[int]func(Session)
	nextID    int
}

// New creates a store rooted at configDir, loading whatever state was
// last persisted. A missing or unreadable session file yields the empty
// session.
func New(configDir string) *Store {
	s := &Store{
		configDir: configDir,
		listeners: make(map[int]func(Session)),
	}
	s.current = s.load()
	return s
}

// sessionFile returns the path to the persisted session JSON
func (s *Store) sessionFile() string {
	return filepath.Join(s.configDir, "session.json")
}

// load reads persisted state from disk
// Corrupt or malformed payloads degrade to logged out, never an error
func (s *Store) load() Session {
	data, err := os.ReadFile(s.sessionFile())
	if err != nil {
		return Session{}
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}
	}

	// A persisted identity without a token is not a valid state
	if sess.Token == "" {
		sess.User = nil
	}
	return sess
}

// persist writes the current state to disk, creating the directory if
// needed. The file holds a bearer token, so keep it private.
func (s *Store) persist() error {
	if err := os.MkdirAll(s.configDir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s.current, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.sessionFile(), data, 0600)
}

// Token returns the current bearer token, if present
func (s *Store) Token() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Token, s.current.Token != ""
}

// User returns a copy of the cached identity, if present
func (s *Store) User() (*User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.User == nil {
		return nil, false
	}
	u := *s.current.User
	return &u, true
}

// Snapshot returns a copy of the full session state
func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Session {
	snap := Session{Token: s.current.Token}
	if s.current.User != nil {
		u := *s.current.User
		snap.User = &u
	}
	return snap
}

// SetToken replaces the token. An empty token also drops the cached
// identity, since an identity may never outlive its token.
func (s *Store) SetToken(token string) error {
	s.mu.Lock()
	s.current.Token = token
	if token == "" {
		s.current.User = nil
	}
	err := s.persist()
	snap, listeners := s.notifyTargetsLocked()
	s.mu.Unlock()

	dispatch(listeners, snap)
	return err
}

// SetUser replaces the cached identity. Setting a non-nil user while no
// token is present returns ErrNoSession.
func (s *Store) SetUser(u *User) error {
	s.mu.Lock()
	if u != nil && s.current.Token == "" {
		s.mu.Unlock()
		return ErrNoSession
	}
	if u != nil {
		copied := *u
		s.current.User = &copied
	} else {
		s.current.User = nil
	}
	err := s.persist()
	snap, listeners := s.notifyTargetsLocked()
	s.mu.Unlock()

	dispatch(listeners, snap)
	return err
}

// Logout atomically clears both token and identity and persists the
// cleared state. Calling it while already logged out is a no-op.
func (s *Store) Logout() error {
	s.mu.Lock()
	if s.current.Token == "" && s.current.User == nil {
		s.mu.Unlock()
		return nil
	}
	s.current = Session{}
	err := s.persist()
	snap, listeners := s.notifyTargetsLocked()
	s.mu.Unlock()

	dispatch(listeners, snap)
	return err
}

// Subscribe registers a listener invoked synchronously after every
// observable mutation with a copy of the new state. The returned
// function removes the listener.
func (s *Store) Subscribe(fn func(Session)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// notifyTargetsLocked snapshots state and listeners while the lock is
// held so listeners can be invoked without it
func (s *Store) notifyTargetsLocked() (Session, []func(Session)) {
	listeners := make([]func(Session), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return s.snapshotLocked(), listeners
}

func dispatch(listeners []func(Session), snap Session) {
	for _, fn := range listeners {
		fn(snap)
	}
}
