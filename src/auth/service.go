package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/biznex/bizconsole/src/api"
	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/models"
)

const MinPasswordLength = 8

var (
	ErrMissingCredentials = errors.New("Username and password are required")
	ErrNoAccessToken      = errors.New("No access token returned")
	ErrPasswordTooShort   = errors.New("Password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("Passwords do not match")
)

// Service runs the session flows that need both the backend and the State.
type Service struct {
	State  *State
	Client *api.Client
}

func NewService(state *State, client *api.Client) *Service {
	return &Service{State: state, Client: client}
}

// Login authenticates against the backend, stores the session, and returns
// the route the user should land on next. A first-time response stores
// nothing.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", ErrMissingCredentials
	}

	res, err := s.Client.Auth.Login(ctx, username, password)
	if err != nil {
		return "", err
	}
	// A backend with no users yet sends everyone to setup without a session.
	if res.FirstTime {
		logging.ExtractLogger(ctx).Info().Msg("backend reports first-time setup")
		return bizurl.PathFirstTime, nil
	}
	if res.AccessToken == "" {
		return "", ErrNoAccessToken
	}

	profile := ProfileFromResponse(res, username)
	if err := s.State.Login(ctx, profile, res.AccessToken); err != nil {
		return "", err
	}
	logging.ExtractLogger(ctx).Info().
		Str("username", profile.Username).
		Str("role", string(profile.UserRole)).
		Bool("must_change_password", profile.MustChangePassword).
		Msg("logged in")

	if profile.MustChangePassword {
		return bizurl.PathForcePassword, nil
	}
	return bizurl.PathDashboard, nil
}

// ProfileFromResponse builds the session profile, filling gaps in the
// response from what the user typed and from the token itself.
func ProfileFromResponse(res *models.AuthResponse, typedUsername string) models.Session {
	profile := models.Session{
		RefreshToken:       res.RefreshToken,
		Username:           res.Username,
		UserRole:           models.ParseRole(res.UserRole),
		ExpireAt:           res.ExpireAt,
		MustChangePassword: res.MustChangePassword,
	}
	if profile.Username == "" {
		profile.Username = typedUsername
	}
	if profile.ExpireAt == 0 {
		if exp, ok := TokenExpiry(res.AccessToken); ok {
			profile.ExpireAt = exp
		}
	}
	return profile
}

func (s *Service) Logout(ctx context.Context) error {
	return s.State.Logout(ctx)
}

// ValidateNewPassword applies the client-side rules for a new password.
func ValidateNewPassword(password, confirm string) error {
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}

// ChangePasswordFirstLogin completes a forced password change, then logs out
// so the next login starts a clean session.
func (s *Service) ChangePasswordFirstLogin(ctx context.Context, newPassword, confirm string) error {
	if err := ValidateNewPassword(newPassword, confirm); err != nil {
		return err
	}
	if _, err := s.Client.Auth.ChangePasswordFirstLogin(ctx, newPassword); err != nil {
		return err
	}
	return s.State.Logout(ctx)
}

func (s *Service) CheckFirstTime(ctx context.Context) (bool, error) {
	return s.Client.Auth.CheckFirstTime(ctx)
}

// BootstrapAdmin creates the first admin account. The password follows the
// same rules as any new password.
func (s *Service) BootstrapAdmin(ctx context.Context, reg models.Registration, confirm string) error {
	if strings.TrimSpace(reg.Username) == "" {
		return ErrMissingCredentials
	}
	if err := ValidateNewPassword(reg.UserPassword, confirm); err != nil {
		return err
	}
	return s.Client.Auth.BootstrapAdmin(ctx, reg)
}

// Register creates another account. The backend only accepts this from an
// admin; an unknown role falls back to USER.
func (s *Service) Register(ctx context.Context, reg models.Registration, confirm string) (*models.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	if reg.Username == "" {
		return nil, ErrMissingCredentials
	}
	if err := ValidateNewPassword(reg.UserPassword, confirm); err != nil {
		return nil, err
	}
	if !reg.UserRole.Valid() {
		reg.UserRole = models.RoleUser
	}
	return s.Client.Auth.Register(ctx, reg)
}
