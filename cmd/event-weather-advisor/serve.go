package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/event-weather-advisor/internal/api/http"
	"github.com/i474232898/event-weather-advisor/internal/scheduler"
)

func init() {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local API and the periodic refresh",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runServe(ctx)
		},
	}
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context) error {
	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.close()

	sched := scheduler.New(a.source, a.runner, a.cfg.RefreshInterval, a.cfg.CalendarLookahead, a.log)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	app := httpapi.NewApp(httpapi.AppConfig{Timeout: a.cfg.HTTPTimeout * 3}, &httpapi.Handlers{
		Runner:      a.runner,
		Preferences: a.prefs,
		Log:         a.log,
	})

	return listenUntilDone(ctx, app, a.cfg.ListenAddr(), a.log)
}

// listenUntilDone serves app on addr until ctx ends or the listener fails.
func listenUntilDone(ctx context.Context, app *fiber.App, addr string, log zerolog.Logger) error {
	listenErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("listening")
		listenErr <- app.Listen(addr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return errors.Wrapf(err, "listen on %s", addr)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during shutdown")
	}
	return nil
}
