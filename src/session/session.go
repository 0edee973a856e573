package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/oops"
	"github.com/biznex/bizconsole/src/storage"
)

var ErrNoSession = errors.New("no session")

// Store persists the session under the three storage keys.
type Store struct {
	s storage.Storage
}

func NewStore(s storage.Storage) *Store {
	return &Store{s: s}
}

func (st *Store) Save(ctx context.Context, rec *models.Session) error {
	if rec == nil || rec.Token == "" {
		return oops.New(nil, "cannot save a session without a token")
	}

	profile, err := json.Marshal(rec)
	if err != nil {
		return oops.New(err, "failed to encode session profile")
	}

	if err := st.s.Set(ctx, storage.KeyAuthToken, rec.Token); err != nil {
		return err
	}
	if err := st.s.Set(ctx, storage.KeyUserData, string(profile)); err != nil {
		return err
	}
	if rec.RefreshToken != "" {
		return st.s.Set(ctx, storage.KeyRefreshToken, rec.RefreshToken)
	}
	return st.s.Remove(ctx, storage.KeyRefreshToken)
}

// Load returns the persisted session, or ErrNoSession if there is none. A
// token without a profile, a profile without a token, or a profile that does
// not decode all count as no session.
func (st *Store) Load(ctx context.Context) (*models.Session, error) {
	token, err := st.get(ctx, storage.KeyAuthToken)
	if err != nil {
		return nil, err
	}
	profile, err := st.get(ctx, storage.KeyUserData)
	if err != nil {
		return nil, err
	}
	if token == "" || profile == "" {
		return nil, ErrNoSession
	}

	var rec models.Session
	if err := json.Unmarshal([]byte(profile), &rec); err != nil {
		logging.ExtractLogger(ctx).Warn().Err(err).Msg("discarding malformed session profile")
		return nil, ErrNoSession
	}
	if rec.Username == "" {
		return nil, ErrNoSession
	}
	if !rec.UserRole.Valid() {
		rec.UserRole = models.ParseRole(string(rec.UserRole))
	}
	rec.Token = token

	refresh, err := st.get(ctx, storage.KeyRefreshToken)
	if err != nil {
		return nil, err
	}
	rec.RefreshToken = refresh

	return &rec, nil
}

// Clear removes every session key. Clearing an empty store is not an error.
func (st *Store) Clear(ctx context.Context) error {
	var errs []error
	for _, key := range []string{storage.KeyAuthToken, storage.KeyUserData, storage.KeyRefreshToken} {
		if err := st.s.Remove(ctx, key); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Token reads the bearer token straight from storage. Returns "" when absent.
func (st *Store) Token(ctx context.Context) (string, error) {
	return st.get(ctx, storage.KeyAuthToken)
}

func (st *Store) get(ctx context.Context, key string) (string, error) {
	v, err := st.s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return v, err
}
