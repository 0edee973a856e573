package session

import (
	"context"
	"testing"

	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore() (*Store, *storage.MemoryStorage) {
	mem := storage.NewMemoryStorage()
	return NewStore(mem), mem
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	st, mem := newStore()

	rec := &models.Session{
		Token:              "tok",
		RefreshToken:       "ref",
		Username:           "sarthak",
		UserRole:           models.RoleAdmin,
		ExpireAt:           1700000000000,
		MustChangePassword: true,
	}
	require.Nil(t, st.Save(ctx, rec))

	token, err := mem.Get(ctx, storage.KeyAuthToken)
	require.Nil(t, err)
	assert.Equal(t, "tok", token)

	loaded, err := st.Load(ctx)
	require.Nil(t, err)
	assert.Equal(t, rec, loaded)

	t.Run("saving without refresh token removes it", func(t *testing.T) {
		rec2 := *rec
		rec2.RefreshToken = ""
		require.Nil(t, st.Save(ctx, &rec2))
		_, err := mem.Get(ctx, storage.KeyRefreshToken)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSaveRequiresToken(t *testing.T) {
	st, _ := newStore()
	assert.NotNil(t, st.Save(context.Background(), &models.Session{Username: "x"}))
	assert.NotNil(t, st.Save(context.Background(), nil))
}

func TestLoadTreatsPartialAsAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("empty", func(t *testing.T) {
		st, _ := newStore()
		_, err := st.Load(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})
	t.Run("token only", func(t *testing.T) {
		st, mem := newStore()
		require.Nil(t, mem.Set(ctx, storage.KeyAuthToken, "tok"))
		_, err := st.Load(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})
	t.Run("profile only", func(t *testing.T) {
		st, mem := newStore()
		require.Nil(t, mem.Set(ctx, storage.KeyUserData, `{"username":"a","userRole":"USER"}`))
		_, err := st.Load(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})
	t.Run("malformed profile", func(t *testing.T) {
		st, mem := newStore()
		require.Nil(t, mem.Set(ctx, storage.KeyAuthToken, "tok"))
		require.Nil(t, mem.Set(ctx, storage.KeyUserData, `{not json`))
		_, err := st.Load(ctx)
		assert.ErrorIs(t, err, ErrNoSession)
	})
	t.Run("unknown role becomes USER", func(t *testing.T) {
		st, mem := newStore()
		require.Nil(t, mem.Set(ctx, storage.KeyAuthToken, "tok"))
		require.Nil(t, mem.Set(ctx, storage.KeyUserData, `{"username":"a","userRole":"admin"}`))
		rec, err := st.Load(ctx)
		require.Nil(t, err)
		assert.Equal(t, models.RoleAdmin, rec.UserRole)
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	st, mem := newStore()
	require.Nil(t, st.Save(ctx, &models.Session{Token: "tok", RefreshToken: "r", Username: "a", UserRole: models.RoleUser}))

	require.Nil(t, st.Clear(ctx))
	for _, key := range []string{storage.KeyAuthToken, storage.KeyUserData, storage.KeyRefreshToken} {
		_, err := mem.Get(ctx, key)
		assert.ErrorIs(t, err, storage.ErrNotFound, key)
	}

	token, err := st.Token(ctx)
	require.Nil(t, err)
	assert.Equal(t, "", token)

	// twice is fine
	assert.Nil(t, st.Clear(ctx))
}
