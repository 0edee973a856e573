package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/session"
)

// State is the in-memory view of the current session. It starts out loading
// and stays that way until Load has run once.
type State struct {
	mu      sync.RWMutex
	user    *models.Session
	loading bool

	store *session.Store
	bus   *events.Bus
	now   func() time.Time
}

type Option func(s *State)

func WithClock(now func() time.Time) Option {
	return func(s *State) {
		s.now = now
	}
}

// WithBus makes the State announce SessionStarted and SessionEnded.
func WithBus(bus *events.Bus) Option {
	return func(s *State) {
		s.bus = bus
	}
}

func NewState(store *session.Store, opts ...Option) *State {
	s := &State{
		loading: true,
		store:   store,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is a consistent, read-only copy of the State at one instant.
type Snapshot struct {
	Loading bool
	User    *models.Session
	Now     time.Time
}

func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var user *models.Session
	if s.user != nil {
		u := *s.user
		user = &u
	}
	return Snapshot{
		Loading: s.loading,
		User:    user,
		Now:     s.now(),
	}
}

func (snap Snapshot) IsAuthenticated() bool {
	return snap.User != nil
}

func (snap Snapshot) IsExpired() bool {
	return snap.User != nil && snap.User.ExpiredAt(snap.Now)
}

// HasRole is an exact match. ADMIN does not imply USER.
func (snap Snapshot) HasRole(role models.Role) bool {
	return snap.User != nil && snap.User.UserRole == role
}

func (snap Snapshot) IsAdmin() bool {
	return snap.HasRole(models.RoleAdmin)
}

func (snap Snapshot) MustChangePassword() bool {
	return snap.User != nil && snap.User.MustChangePassword
}

func (s *State) IsAuthenticated() bool         { return s.Snapshot().IsAuthenticated() }
func (s *State) IsExpired() bool               { return s.Snapshot().IsExpired() }
func (s *State) HasRole(role models.Role) bool { return s.Snapshot().HasRole(role) }
func (s *State) IsAdmin() bool                 { return s.Snapshot().IsAdmin() }
func (s *State) MustChangePassword() bool      { return s.Snapshot().MustChangePassword() }
func (s *State) Loading() bool                 { return s.Snapshot().Loading }

// User returns a copy of the current session, or nil.
func (s *State) User() *models.Session {
	return s.Snapshot().User
}

// Load reads the persisted session once. A session that is already expired
// is evicted from storage. Loading ends even if storage fails.
func (s *State) Load(ctx context.Context) error {
	rec, err := s.store.Load(ctx)

	var loadErr error
	if errors.Is(err, session.ErrNoSession) {
		rec = nil
	} else if err != nil {
		loadErr = err
		rec = nil
	} else if rec.ExpiredAt(s.now()) {
		logging.ExtractLogger(ctx).Info().Str("username", rec.Username).Msg("evicting expired session")
		if err := s.store.Clear(ctx); err != nil {
			loadErr = err
		}
		rec = nil
	}

	s.mu.Lock()
	s.user = rec
	s.loading = false
	s.mu.Unlock()

	return loadErr
}

// Login persists the session and then makes it current, replacing any prior
// session.
func (s *State) Login(ctx context.Context, profile models.Session, token string) error {
	profile.Token = token
	if err := s.store.Save(ctx, &profile); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &profile
	s.loading = false
	s.mu.Unlock()

	s.publish(events.Event{Kind: events.SessionStarted, Username: profile.Username})
	return nil
}

// Logout clears storage and memory. Logging out twice is harmless.
func (s *State) Logout(ctx context.Context) error {
	err := s.store.Clear(ctx)

	s.mu.Lock()
	prev := s.user
	s.user = nil
	s.mu.Unlock()

	if prev != nil {
		s.publish(events.Event{Kind: events.SessionEnded, Username: prev.Username})
	}
	return err
}

// RequirePasswordChange flags the current session so the guard sends the
// user to the password change route.
func (s *State) RequirePasswordChange(ctx context.Context) error {
	s.mu.Lock()
	if s.user == nil || s.user.MustChangePassword {
		s.mu.Unlock()
		return nil
	}
	s.user.MustChangePassword = true
	updated := *s.user
	s.mu.Unlock()

	return s.store.Save(ctx, &updated)
}

// Watch subscribes to the forced logout and password change signals. On
// logout it clears the session first and then navigates to the login route,
// unless current reports that the caller is already there. current may be
// nil.
func (s *State) Watch(bus *events.Bus, current func() string, navigate func(route string)) (unsubscribe func()) {
	return bus.Subscribe(func(ev events.Event) {
		ctx := context.Background()
		switch ev.Kind {
		case events.LogoutRequested:
			if err := s.Logout(ctx); err != nil {
				logging.Error().Err(err).Msg("failed to clear session on forced logout")
			}
			if current != nil && current() == bizurl.PathLogin {
				return
			}
			if navigate != nil {
				navigate(bizurl.PathLogin)
			}
		case events.PasswordChangeRequired:
			if err := s.RequirePasswordChange(ctx); err != nil {
				logging.Error().Err(err).Msg("failed to flag password change")
			}
		}
	})
}

func (s *State) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
