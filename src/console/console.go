package console

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/biznex/bizconsole/src/bizurl"
	"github.com/biznex/bizconsole/src/config"
	"github.com/biznex/bizconsole/src/jobs"
	"github.com/biznex/bizconsole/src/logging"
	"github.com/biznex/bizconsole/src/templates"
	"github.com/spf13/cobra"
)

var ConsoleCommand = &cobra.Command{
	Use:          "bizconsole",
	Short:        "Run the BizNex console",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Init(); err != nil {
			return err
		}
		logging.Init()
		bizurl.SetGlobalBaseUrl(config.Config.Console.BaseUrl)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		defer logging.LogPanics(nil)
		logging.Info().Msg("Hello, BizNex!")

		templates.Init()

		app, err := OpenApp(config.Config)
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to start the console")
		}
		defer app.Close()

		var wg sync.WaitGroup

		streams := startEventStreams(config.Config.Console.Origins())

		listener, err := net.Listen("tcp", config.Config.Console.Addr)
		if err != nil {
			logging.Fatal().Err(err).Str("addr", config.Config.Console.Addr).Msg("failed to listen")
		}

		// Create HTTP server
		wg.Add(1)
		server := http.Server{
			Handler: NewConsoleRoutes(app, streams),
		}
		go func() {
			logging.Info().Str("addr", listener.Addr().String()).Msg("Serving the console")
			serverErr := server.Serve(listener)
			if !errors.Is(serverErr, http.ErrServerClosed) {
				logging.Error().Err(serverErr).Msg("Server shut down unexpectedly")
			}
			// The wg.Done() happens in the shutdown logic below.
		}()

		// The session loads only once we are listening, so the first requests
		// may see the loading page.
		wg.Add(1)
		backgroundJobs := jobs.Jobs{
			streams.job,
			jobs.Go("session loader", func(ctx context.Context) error {
				if err := app.State.Load(ctx); err != nil {
					return err
				}
				if user := app.State.User(); user != nil {
					logging.Info().Str("username", user.Username).Msg("restored session")
				}
				return nil
			}),
		}

		// Wait for SIGINT in the background and trigger graceful shutdown
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt)
		go func() {
			<-signals // First SIGINT (start shutdown)
			logging.Info().Msg("Shutting down the console")

			const timeout = 10 * time.Second

			go func() {
				logging.Info().Msg("Shutting down background jobs...")
				unfinished := backgroundJobs.CancelAndWait(timeout)
				if len(unfinished) == 0 {
					logging.Info().Msg("Background jobs closed gracefully")
				} else {
					logging.Warn().Strs("Unfinished", unfinished).Msg("Background jobs did not finish by the deadline")
				}
				wg.Done()
			}()

			go func() {
				timeoutCtx, cancel := context.WithTimeout(context.Background(), timeout)
				defer cancel()
				err := server.Shutdown(timeoutCtx)
				if err != nil {
					logging.Warn().Err(err).Msg("Server did not shut down gracefully")
				}
				wg.Done()
			}()

			<-signals // Second SIGINT (force quit)
			logging.Warn().Strs("Unfinished background jobs", backgroundJobs.ListUnfinished()).Msg("Forcibly killed the console")
			os.Exit(1)
		}()

		wg.Wait()
	},
}
