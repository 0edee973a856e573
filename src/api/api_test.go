package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/models"
	"github.com/biznex/bizconsole/src/session"
	"github.com/biznex/bizconsole/src/storage"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	client   *Client
	sessions *session.Store
	bus      *events.Bus
	server   *httptest.Server
}

func newTestEnv(t *testing.T, handler http.HandlerFunc) *testEnv {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewStore(storage.NewMemoryStorage())
	bus := events.NewBus()
	return &testEnv{
		client:   NewClient(server.URL+"/", sessions, bus),
		sessions: sessions,
		bus:      bus,
		server:   server,
	}
}

func (e *testEnv) login(t *testing.T, token string) {
	t.Helper()
	require.Nil(t, e.sessions.Save(context.Background(), &models.Session{
		Token:    token,
		Username: "sarthak",
		UserRole: models.RoleUser,
	}))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func fakeCustomers(n int) []models.Customer {
	faker := gofakeit.New(42)
	customers := make([]models.Customer, n)
	for i := range customers {
		customers[i] = models.Customer{
			CustomerID:      int64(i + 1),
			CustomerName:    faker.Name(),
			CustomerEmail:   faker.Email(),
			CustomerContact: faker.Phone(),
			CustomerAddress: faker.Street(),
			CustomerCredits: faker.Float64Range(0, 500),
		}
	}
	return customers
}

func TestBearerToken(t *testing.T) {
	var gotAuth []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		_, err := uuid.Parse(r.Header.Get("X-Request-Id"))
		assert.Nil(t, err)
		writeJSON(w, 200, []models.User{})
	})
	ctx := context.Background()

	env.login(t, "first")
	_, err := env.client.Users.List(ctx)
	require.Nil(t, err)

	// the token is read from storage on every call
	env.login(t, "second")
	_, err = env.client.Users.List(ctx)
	require.Nil(t, err)

	require.Nil(t, env.sessions.Clear(ctx))
	_, err = env.client.Users.List(ctx)
	require.Nil(t, err)

	assert.Equal(t, []string{"Bearer first", "Bearer second", ""}, gotAuth)
}

func TestPublicCallsSendNoToken(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "", r.Header.Get("Authorization"))
		assert.Equal(t, "/api/v1/auth/login", r.URL.Path)
		var body models.LoginRequest
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "sarthak", body.Username)
		assert.Equal(t, "hunter22", body.UserPassword)
		writeJSON(w, 200, models.AuthResponse{AccessToken: "tok", Username: "sarthak", UserRole: "ADMIN"})
	})
	env.login(t, "stale")

	res, err := env.client.Auth.Login(context.Background(), "sarthak", "hunter22")
	require.Nil(t, err)
	assert.Equal(t, "tok", res.AccessToken)
}

func TestUnauthorizedForcesLogout(t *testing.T) {
	t.Run("clears session and fires once", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 401, map[string]string{"message": "Token expired"})
		})
		env.login(t, "tok")

		var fired int32
		env.bus.Subscribe(func(ev events.Event) {
			if ev.Kind == events.LogoutRequested {
				atomic.AddInt32(&fired, 1)
			}
		})

		_, err := env.client.Customers.List(context.Background(), PageParams{})
		assert.True(t, IsKind(err, KindUnauthenticated))
		assert.Equal(t, "Token expired", Message(err))
		assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

		_, loadErr := env.sessions.Load(context.Background())
		assert.ErrorIs(t, loadErr, session.ErrNoSession)
	})

	t.Run("concurrent 401s for one session fire once", func(t *testing.T) {
		const n = 5
		var arrived int32
		allArrived := make(chan struct{})
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			// hold every response until all requests were sent with the same token
			if atomic.AddInt32(&arrived, 1) == n {
				close(allArrived)
			}
			<-allArrived
			w.WriteHeader(401)
		})
		env.login(t, "tok")

		var fired int32
		env.bus.Subscribe(func(ev events.Event) {
			atomic.AddInt32(&fired, 1)
		})

		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := env.client.Users.List(context.Background())
				assert.True(t, IsKind(err, KindUnauthenticated))
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	})

	t.Run("calls without a session announce nothing", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"))
			writeJSON(w, 401, map[string]string{"message": "Full authentication is required"})
		})

		var fired int32
		env.bus.Subscribe(func(ev events.Event) {
			atomic.AddInt32(&fired, 1)
		})

		for i := 0; i < 3; i++ {
			_, err := env.client.Customers.List(context.Background(), PageParams{})
			assert.True(t, IsKind(err, KindUnauthenticated))
		}
		assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	})

	t.Run("public calls do not log out", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 401, map[string]string{"message": "Bad credentials"})
		})
		env.login(t, "tok")

		fired := false
		env.bus.Subscribe(func(ev events.Event) { fired = true })

		_, err := env.client.Auth.Login(context.Background(), "sarthak", "nope")
		assert.True(t, IsKind(err, KindUnauthenticated))
		assert.Equal(t, "Bad credentials", Message(err))
		assert.False(t, fired)

		token, _ := env.sessions.Token(context.Background())
		assert.Equal(t, "tok", token)
	})
}

func TestPasswordChangeRequired(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 423, map[string]string{"error": "Password change required"})
	})
	env.login(t, "tok")

	var got []events.Kind
	env.bus.Subscribe(func(ev events.Event) { got = append(got, ev.Kind) })

	_, err := env.client.Products.List(context.Background(), PageParams{})
	assert.True(t, IsKind(err, KindPasswordChangeRequired))
	assert.Equal(t, "Password change required", Message(err))
	assert.Equal(t, []events.Kind{events.PasswordChangeRequired}, got)

	// the session survives a 423
	token, _ := env.sessions.Token(context.Background())
	assert.Equal(t, "tok", token)
}

func TestErrorMessages(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		kind   ErrorKind
		msg    string
	}{
		{"message field", 400, `{"message":"Customer already exists"}`, KindRequest, "Customer already exists"},
		{"error field", 500, `{"error":"Internal Server Error"}`, KindRequest, "Internal Server Error"},
		{"message wins", 409, `{"message":"first","error":"second"}`, KindRequest, "first"},
		{"plain text", 400, `Product code taken`, KindRequest, "Product code taken"},
		{"empty body", 502, ``, KindRequest, GenericFailureMessage},
		{"json without message", 400, `{"status":400}`, KindRequest, GenericFailureMessage},
		{"forbidden", 403, `{"message":"Access denied"}`, KindForbidden, "Access denied"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(c.status)
				w.Write([]byte(c.body))
			})
			_, err := env.client.Customers.Get(context.Background(), 1)
			var apiErr *Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, c.kind, apiErr.Kind)
			assert.Equal(t, c.status, apiErr.Status)
			assert.Equal(t, c.msg, apiErr.Message)
		})
	}
}

func TestTransportFailure(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {})
	env.server.Close()

	_, err := env.client.Users.List(context.Background())
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, GenericFailureMessage, Message(err))
}

func TestPaging(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		customers := fakeCustomers(3)
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "0", q.Get("page"))
			assert.Equal(t, "20", q.Get("size"))
			assert.Equal(t, "customerId,asc", q.Get("sort"))
			writeJSON(w, 200, models.Page[models.Customer]{
				Content: customers, Page: 0, Size: 20, TotalElements: 3, TotalPages: 1, Last: true,
			})
		})
		page, err := env.client.Customers.List(context.Background(), PageParams{})
		require.Nil(t, err)
		assert.Equal(t, customers, page.Content)
	})

	t.Run("out of range params are clamped", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "0", q.Get("page"))
			assert.Equal(t, "20", q.Get("size"))
			assert.Equal(t, "productName,desc", q.Get("sort"))
			writeJSON(w, 200, models.Page[models.Product]{})
		})
		_, err := env.client.Products.List(context.Background(), PageParams{Page: -3, Size: -1, Sort: "productName,desc"})
		require.Nil(t, err)
	})

	t.Run("bill search sorts newest first", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/billing/search", r.URL.Path)
			assert.Equal(t, "INV-1", r.URL.Query().Get("query"))
			assert.Equal(t, "billDate,desc", r.URL.Query().Get("sort"))
			assert.Equal(t, "2", r.URL.Query().Get("page"))
			writeJSON(w, 200, models.Page[models.BillResponse]{})
		})
		page, err := env.client.Billing.Search(context.Background(), "INV-1", PageParams{Page: 2})
		require.Nil(t, err)
		assert.NotNil(t, page.Content)
	})

	t.Run("204 on search is an empty page", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		page, err := env.client.Products.SearchByName(context.Background(), "widget", PageParams{Size: 5})
		require.Nil(t, err)
		assert.Empty(t, page.Content)
		assert.Equal(t, 5, page.Size)
		assert.True(t, page.Last)

		cpage, err := env.client.Customers.SearchCredits(context.Background(), "x", PageParams{})
		require.Nil(t, err)
		assert.Empty(t, cpage.Content)
	})

	t.Run("204 on a plain listing is an error", func(t *testing.T) {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
		_, err := env.client.Products.List(context.Background(), PageParams{})
		assert.True(t, IsKind(err, KindNoContent))
	})

	t.Run("credits totals", func(t *testing.T) {
		customers := fakeCustomers(2)
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, 200, models.CreditsPage{
				Page:           models.Page[models.Customer]{Content: customers, TotalPages: 1, Last: true},
				TotalCredits:   100,
				AverageCredits: 50,
			})
		})
		page, err := env.client.Customers.Credits(context.Background(), PageParams{})
		require.Nil(t, err)
		assert.Len(t, page.Content, 2)
		assert.Equal(t, 100.0, page.TotalCredits)
		assert.Equal(t, 50.0, page.AverageCredits)
	})
}

func TestCheckFirstTime(t *testing.T) {
	for _, status := range []int{401, 403, 404} {
		env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		env.login(t, "tok")
		fired := false
		env.bus.Subscribe(func(events.Event) { fired = true })

		firstTime, err := env.client.Auth.CheckFirstTime(context.Background())
		assert.Nil(t, err, "status %d", status)
		assert.False(t, firstTime)
		assert.False(t, fired)
	}

	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 200, true)
	})
	firstTime, err := env.client.Auth.CheckFirstTime(context.Background())
	require.Nil(t, err)
	assert.True(t, firstTime)

	env = newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, 500, map[string]string{"message": "boom"})
	})
	_, err = env.client.Auth.CheckFirstTime(context.Background())
	assert.Equal(t, "boom", Message(err))
}

func TestBootstrapAdminFallback(t *testing.T) {
	var paths []string
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var reg models.Registration
		assert.Nil(t, json.NewDecoder(r.Body).Decode(&reg))
		assert.Equal(t, models.RoleAdmin, reg.UserRole)
		if r.URL.Path == "/api/v1/auth/first-time/setup" {
			w.WriteHeader(404)
			return
		}
		writeJSON(w, 201, models.User{Username: reg.Username})
	})

	err := env.client.Auth.BootstrapAdmin(context.Background(), models.Registration{
		Username:     "admin",
		UserEmail:    gofakeit.Email(),
		UserPassword: "changeme123",
	})
	require.Nil(t, err)
	assert.Equal(t, []string{"/api/v1/auth/first-time/setup", "/api/v1/auth/bootstrap-admin"}, paths)
}

func TestTextResponses(t *testing.T) {
	env := newTestEnv(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/users/sarthak/password", r.URL.Path)
		w.Write([]byte("Password updated"))
	})
	env.login(t, "tok")
	msg, err := env.client.Auth.ChangePassword(context.Background(), "sarthak", "longenough")
	require.Nil(t, err)
	assert.Equal(t, "Password updated", msg)
}
