package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleAdmin, ParseRole(" admin "))
	assert.Equal(t, RoleUser, ParseRole("USER"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("SUPERUSER"))
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("no expiry", func(t *testing.T) {
		s := Session{Username: "sarthak"}
		assert.False(t, s.ExpiredAt(now))
		assert.True(t, s.ExpiresAt().IsZero())
	})
	t.Run("past", func(t *testing.T) {
		s := Session{ExpireAt: now.Add(-time.Second).UnixMilli()}
		assert.True(t, s.ExpiredAt(now))
	})
	t.Run("exactly now is not expired", func(t *testing.T) {
		s := Session{ExpireAt: now.UnixMilli()}
		assert.False(t, s.ExpiredAt(now))
	})
	t.Run("future", func(t *testing.T) {
		s := Session{ExpireAt: now.Add(time.Hour).UnixMilli()}
		assert.False(t, s.ExpiredAt(now))
		assert.True(t, s.ExpiresAt().Equal(now.Add(time.Hour)))
	})
}

func TestSessionProfileJSON(t *testing.T) {
	s := Session{
		Token:              "tok",
		RefreshToken:       "ref",
		Username:           "sarthak",
		UserRole:           RoleAdmin,
		ExpireAt:           1700000000000,
		MustChangePassword: true,
	}
	raw, err := json.Marshal(s)
	require.Nil(t, err)
	assert.NotContains(t, string(raw), "tok")
	assert.JSONEq(t, `{"username":"sarthak","userRole":"ADMIN","expireAt":1700000000000,"mustChangePassword":true}`, string(raw))
}

func TestCreditsPageJSON(t *testing.T) {
	raw := `{"content":[{"customerId":1,"customerName":"A","customerContact":"555","customerCredits":12.5}],
		"page":0,"size":20,"totalElements":1,"totalPages":1,"last":true,"totalCredits":12.5,"averageCredits":12.5}`
	var page CreditsPage
	require.Nil(t, json.Unmarshal([]byte(raw), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "555", page.Content[0].CustomerContact)
	assert.Equal(t, 12.5, page.TotalCredits)
	assert.True(t, page.Last)
}

func TestPageNavigation(t *testing.T) {
	p := Page[Product]{Page: 0, TotalPages: 3}
	assert.False(t, p.HasPrev())
	assert.True(t, p.HasNext())

	p = Page[Product]{Page: 2, TotalPages: 3, Last: true}
	assert.True(t, p.HasPrev())
	assert.False(t, p.HasNext())

	empty := EmptyPage[Customer](1, 20)
	assert.NotNil(t, empty.Content)
	assert.False(t, empty.HasNext())
	assert.Equal(t, 1, empty.Page)
}

func TestBillIsReturn(t *testing.T) {
	assert.True(t, (&BillResponse{BillType: BillTypeFullReturn}).IsReturn())
	assert.True(t, (&BillResponse{BillType: BillTypePartialReturn}).IsReturn())
	assert.False(t, (&BillResponse{BillType: BillTypeNew}).IsReturn())
}
