package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"

	"aspcal/api"
	"aspcal/handlers"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(a *app) *cobra.Command {
	var (
		host string
		port int
	)

	c := &cobra.Command{
		Use:     "serve",
		Short:   "Start the HTTP server",
		Aliases: []string{"s"},
		Example: "aspcal serve --port 8080 --holidays holidays.json",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("host") {
				a.settings.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				a.settings.Server.Port = port
			}
			if err := a.settings.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	c.Flags().StringVar(&host, "host", "", "listen host (overrides server.host)")
	c.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides server.port)")
	return c
}

// serve runs the HTTP server until ctx is cancelled or the listener fails.
func (a *app) serve(ctx context.Context) error {
	svc, err := a.service()
	if err != nil {
		return err
	}

	if every := time.Duration(a.settings.Holidays.ReloadInterval); every > 0 {
		if err := svc.StartBackgroundReload(every); err != nil {
			return err
		}
		defer svc.Stop()
		log.Printf("[server] reloading %s every %s", a.settings.Holidays.File, every)
	}

	var limiter *api.IPRateLimiter
	if a.settings.RateLimit.PerMinute > 0 {
		limiter = api.NewIPRateLimiter(a.settings.RateLimit.PerMinute, a.settings.RateLimit.Burst)
		defer limiter.Close()
	}

	router, err := handlers.NewRouter(svc, handlers.RouterOptions{
		AllowedOrigins: a.settings.CORS.AllowedOrigins,
		UpcomingCount:  a.settings.Holidays.UpcomingCount,
		Limiter:        limiter,
		Now:            a.now,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.settings.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		log.Printf("[server] listening on %s (version %s)", srv.Addr, handlers.GetVersion())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	p.Go(func(ctx context.Context) error {
		<-ctx.Done()
		log.Printf("[server] shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := p.Wait(); err != nil {
		log.Printf("[server] stopped: %v", err)
		return err
	}
	log.Printf("[server] stopped")
	return nil
}
