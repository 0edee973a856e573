package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/biznex/bizconsole/src/models"
)

type AuthService struct {
	c *Client
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*models.AuthResponse, error) {
	var res models.AuthResponse
	err := s.c.Do(ctx, Request{
		Name:   "Login",
		Method: http.MethodPost,
		Path:   "/api/v1/auth/login",
		Body:   models.LoginRequest{Username: username, UserPassword: password},
		Public: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// Register creates a user. Admin only.
func (s *AuthService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var user models.User
	err := s.c.Do(ctx, Request{
		Name:   "Register",
		Method: http.MethodPost,
		Path:   "/api/v1/auth/register",
		Body:   reg,
	}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ForgotPassword(ctx context.Context, username string) (string, error) {
	var msg string
	err := s.c.Do(ctx, Request{
		Name:   "Forgot Password",
		Method: http.MethodPost,
		Path:   "/api/v1/auth/forgot-password",
		Query:  url.Values{"username": {username}},
		Public: true,
	}, &msg)
	return msg, err
}

// CheckFirstTime asks whether the backend has no users yet. A protected or
// missing endpoint (401, 403, 404) means "not first time".
func (s *AuthService) CheckFirstTime(ctx context.Context) (bool, error) {
	var firstTime bool
	err := s.c.Do(ctx, Request{
		Name:   "Check First Time",
		Method: http.MethodGet,
		Path:   "/api/v1/auth/first-time",
		Public: true,
	}, &firstTime)
	if err != nil {
		var apiErr *Error
		if asAPIError(err, &apiErr) {
			switch apiErr.Status {
			case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
				return false, nil
			}
		}
		return false, err
	}
	return firstTime, nil
}

// BootstrapAdmin creates the first admin. Some deployments expose the older
// bootstrap-admin path instead, which is tried once on a 404.
func (s *AuthService) BootstrapAdmin(ctx context.Context, reg models.Registration) error {
	reg.UserRole = models.RoleAdmin
	err := s.c.Do(ctx, Request{
		Name:   "First Time Setup",
		Method: http.MethodPost,
		Path:   "/api/v1/auth/first-time/setup",
		Body:   reg,
		Public: true,
	}, nil)
	var apiErr *Error
	if asAPIError(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return s.c.Do(ctx, Request{
			Name:   "Bootstrap Admin",
			Method: http.MethodPost,
			Path:   "/api/v1/auth/bootstrap-admin",
			Body:   reg,
			Public: true,
		}, nil)
	}
	return err
}

// ChangePasswordFirstLogin completes a forced password change for the
// current session.
func (s *AuthService) ChangePasswordFirstLogin(ctx context.Context, newPassword string) (string, error) {
	var msg string
	err := s.c.Do(ctx, Request{
		Name:   "First Login Password",
		Method: http.MethodPatch,
		Path:   "/api/v1/auth/first-login/password",
		Body:   models.PasswordChange{NewPassword: newPassword},
	}, &msg)
	return msg, err
}

func (s *AuthService) ChangePassword(ctx context.Context, username, newPassword string) (string, error) {
	var msg string
	err := s.c.Do(ctx, Request{
		Name:   "Change Password",
		Method: http.MethodPatch,
		Path:   fmt.Sprintf("/api/v1/users/%s/password", url.PathEscape(username)),
		Body:   models.PasswordChange{NewPassword: newPassword},
	}, &msg)
	return msg, err
}
