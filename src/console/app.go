package console

import (
	"github.com/biznex/bizconsole/src/api"
	"github.com/biznex/bizconsole/src/auth"
	"github.com/biznex/bizconsole/src/config"
	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/oops"
	"github.com/biznex/bizconsole/src/session"
	"github.com/biznex/bizconsole/src/storage"
)

// App holds everything a console server or CLI command needs to talk to the
// backend on behalf of the stored session.
type App struct {
	Storage  storage.Storage
	Sessions *session.Store
	Bus      *events.Bus
	State    *auth.State
	API      *api.Client
	Auth     *auth.Service

	stopWatching func()
}

func OpenApp(cfg config.BizConfig) (*App, error) {
	store, err := storage.Open(cfg.Storage)
	if err != nil {
		return nil, oops.New(err, "failed to open session storage")
	}
	return NewApp(store, cfg.API.BaseUrl), nil
}

// NewApp wires an App around an already open storage backend. The session
// starts in the loading state; call State.Load before relying on it.
func NewApp(store storage.Storage, apiBaseUrl string, opts ...api.Option) *App {
	sessions := session.NewStore(store)
	bus := events.NewBus()
	state := auth.NewState(sessions, auth.WithBus(bus))
	client := api.NewClient(apiBaseUrl, sessions, bus, opts...)

	// A rejected token clears the session right away, before the failing
	// call returns to its caller.
	stopWatching := state.Watch(bus, nil, func(route string) {
		logging.Info().Str("route", route).Msg("session ended by the backend")
	})

	return &App{
		Storage:  store,
		Sessions: sessions,
		Bus:      bus,
		State:    state,
		API:      client,
		Auth:     auth.NewService(state, client),

		stopWatching: stopWatching,
	}
}

func (a *App) Close() error {
	if a.stopWatching != nil {
		a.stopWatching()
	}
	if a.Storage == nil {
		return nil
	}
	return a.Storage.Close()
}
