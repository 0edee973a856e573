package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole normalizes a role string from the backend. Anything that is not
// ADMIN is treated as USER.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Session is the persisted client-side session. Token and RefreshToken are
// stored under their own keys; the remaining fields are the profile JSON.
type Session struct {
	Token        string `json:"-"`
	RefreshToken string `json:"-"`

	Username           string `json:"username"`
	UserRole           Role   `json:"userRole"`
	ExpireAt           int64  `json:"expireAt"` // epoch ms, 0 when unknown
	MustChangePassword bool   `json:"mustChangePassword"`
}

// ExpiredAt reports whether the session is past its expiry at the given time.
// A session with no known expiry never expires on the client.
func (s *Session) ExpiredAt(now time.Time) bool {
	if s.ExpireAt == 0 {
		return false
	}
	return now.UnixMilli() > s.ExpireAt
}

func (s *Session) ExpiresAt() time.Time {
	if s.ExpireAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(s.ExpireAt)
}
