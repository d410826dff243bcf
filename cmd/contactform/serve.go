// cmd/contactform/serve.go
//
// `contactform serve` – HTTP entry point.
//
// Request life-cycle
// ------------------
//
//  1. Security headers (HSTS only when force_https is on).
//
//  2. ForceHTTPS redirect for non-localhost plain-HTTP requests (optional).
//
//  3. chi RequestID, RealIP, and Recoverer.
//
//  4. requestinfo.Enrich – UA fingerprint and optional GeoIP lookup.
//
//  5. AccessLog – one INFO line per request.
//
//  6. Component routes mounted at “/”, plus /metrics.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/component"
	"github.com/yanizio/contactform/internal/config"
	"github.com/yanizio/contactform/internal/logger"
	"github.com/yanizio/contactform/internal/middleware"
	"github.com/yanizio/contactform/internal/requestinfo"
	"github.com/yanizio/contactform/internal/server"

	_ "github.com/yanizio/contactform/components/contact" // registers itself
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the contact form over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap(flags, logger.RunningInTTY())
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			if addr != "" {
				cfg.HTTP.ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http.listen_addr")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *zap.SugaredLogger) error {
	geo, err := requestinfo.OpenGeo(cfg.Geo.DBPath)
	if err != nil {
		return fmt.Errorf("open geo db: %w", err)
	}
	if geo != nil {
		defer geo.Close()
		log.Infow("geo lookup enabled", "db", cfg.Geo.DBPath)
	}

	r := chi.NewRouter()
	r.Use(middleware.Security(cfg.HTTP.ForceHTTPS))
	r.Use(middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS))
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(requestinfo.Enrich(geo))
	r.Use(middleware.AccessLog(log))

	r.Handle("/metrics", promhttp.Handler())

	env := component.Env{Config: cfg, Log: log, Stdout: os.Stdout}
	for _, c := range component.All() {
		if in, ok := c.(component.Initializer); ok {
			if err := in.Init(env); err != nil {
				return fmt.Errorf("init component %s: %w", c.Name(), err)
			}
		}
		if cl, ok := c.(io.Closer); ok {
			defer cl.Close()
		}
		r.Mount("/", c.Routes())
		log.Infow("component mounted", "component", c.Name())
	}

	return server.Run(ctx, server.New(cfg.HTTP.ListenAddr, r), log)
}
