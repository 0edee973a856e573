package console

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/jobs"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	eventStreamBuffer = 16
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = pongWait * 9 / 10
)

// eventStreams tracks the open /events websockets. Canceling its job closes
// every stream, and the job finishes once they are all gone.
type eventStreams struct {
	job      *jobs.Job
	origins  []string
	upgrader websocket.Upgrader

	mu sync.Mutex
	wg sync.WaitGroup
}

func startEventStreams(origins []string) *eventStreams {
	es := &eventStreams{
		job:     jobs.New("event streams"),
		origins: origins,
	}
	es.upgrader = websocket.Upgrader{CheckOrigin: es.checkOrigin}

	go func() {
		<-es.job.Canceled()
		// Once we hold the lock, begin refuses new streams.
		es.mu.Lock()
		es.mu.Unlock()
		es.wg.Wait()
		es.job.Finish()
	}()

	return es
}

func (es *eventStreams) begin() bool {
	es.mu.Lock()
	defer es.mu.Unlock()
	if es.job.Ctx.Err() != nil {
		return false
	}
	es.wg.Add(1)
	return true
}

func (es *eventStreams) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, allowed := range es.origins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	u, err := url.Parse(origin)
	return err == nil && strings.EqualFold(u.Host, r.Host)
}

// EventStream upgrades to a websocket and forwards every bus event as JSON.
func EventStream(c *RequestContext) ResponseData {
	if c.streams == nil || !c.streams.begin() {
		return ResponseData{StatusCode: http.StatusServiceUnavailable}
	}
	defer c.streams.wg.Done()

	conn, err := c.streams.upgrader.Upgrade(c.Res, c.Req, nil)
	if err != nil {
		// The upgrader has already replied.
		c.Logger.Debug().Err(err).Msg("websocket upgrade failed")
		return ResponseData{hijacked: true}
	}

	logger := c.Logger.With().Str("client", uuid.NewString()).Logger()
	logger.Debug().Msg("event stream connected")
	serveEventStream(c.streams.job.Ctx, conn, c.Bus, &logger)
	logger.Debug().Msg("event stream closed")

	return ResponseData{hijacked: true}
}

func serveEventStream(ctx context.Context, conn *websocket.Conn, bus *events.Bus, logger *zerolog.Logger) {
	evs, unsubscribe := bus.SubscribeChan(eventStreamBuffer)
	defer unsubscribe()
	defer conn.Close()

	// Nothing is expected from the browser, but reading is how close frames
	// and dead peers get noticed.
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			conn.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
				time.Now().Add(writeWait),
			)
			return
		case <-closed:
			return
		case ev, ok := <-evs:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(ev); err != nil {
				logger.Debug().Err(err).Msg("failed to send event")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
