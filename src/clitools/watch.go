package clitools

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/console"
	"github.com/biznex/bizconsole/src/events"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/gorilla/websocket"
	"github.com/jpillora/backoff"
	"github.com/spf13/cobra"
)

func init() {
	var watchUrl string
	watchCommand := &cobra.Command{
		Use:   "watch",
		Short: "Follow session events from a running console",
		Run: func(cmd *cobra.Command, args []string) {
			if watchUrl == "" {
				watchUrl = bizurl.BuildEvents()
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			b := &backoff.Backoff{
				Min:    500 * time.Millisecond,
				Max:    30 * time.Second,
				Factor: 2,
				Jitter: true,
			}
			watchEvents(ctx, websocket.DefaultDialer, watchUrl, os.Stdout, b)
		},
	}
	watchCommand.Flags().StringVar(&watchUrl, "url", "", "websocket url of the console's event stream")
	console.ConsoleCommand.AddCommand(watchCommand)
}

// watchEvents prints events from the console's stream until ctx is done,
// reconnecting with backoff whenever the stream drops.
func watchEvents(ctx context.Context, dialer *websocket.Dialer, wsUrl string, out io.Writer, b *backoff.Backoff) {
	for {
		conn, _, err := dialer.DialContext(ctx, wsUrl, nil)
		if err == nil {
			logging.Info().Str("url", wsUrl).Msg("watching events")
			b.Reset()
			err = readEvents(ctx, conn, out)
		}
		if ctx.Err() != nil {
			return
		}

		wait := b.Duration()
		logging.Warn().Err(err).Dur("retryIn", wait).Msg("event stream unavailable")
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func readEvents(ctx context.Context, conn *websocket.Conn, out io.Writer) error {
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var ev events.Event
		err := conn.ReadJSON(&ev)
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway) {
				return errors.New("console shut down")
			}
			return err
		}
		printEvent(out, ev)
	}
}
