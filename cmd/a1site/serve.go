package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/poku-e/a1scrap/internal/calculator"
	"github.com/poku-e/a1scrap/internal/fallback"
	"github.com/poku-e/a1scrap/internal/httpapi"
	"github.com/poku-e/a1scrap/internal/navinject"
	"github.com/poku-e/a1scrap/internal/relay"
	"github.com/poku-e/a1scrap/internal/site"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the site and form relay HTTP server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("close store", zap.Error(err))
		}
	}()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}
	calc, err := calculator.New(cfg.Calculator.TaxRate)
	if err != nil {
		return err
	}
	pages, err := site.NewPages(cfg.Mode())
	if err != nil {
		return err
	}

	var links []navinject.Link
	for _, l := range cfg.Site.NavLinks {
		links = append(links, navinject.Link{Href: l.Href, Text: l.Text})
	}
	inj, err := navinject.New(navinject.Options{Breakpoint: cfg.Site.NavBreakpoint, Links: links})
	if err != nil {
		return err
	}

	var leads *fallback.Store
	if cfg.Mode() != site.ModeRelay {
		leads, err = fallback.New(cfg.Site.FallbackDir, logger.Named("fallback"))
		if err != nil {
			return err
		}
	}

	api, err := httpapi.New(httpapi.Deps{
		Relay:      relay.New(store, relay.WithLocation(loc), relay.WithLogger(logger.Named("relay"))),
		Calculator: calc,
		Pages:      pages,
		Leads:      leads,
		Injector:   inj,
		SiteRoot:   cfg.Site.Root,
		StoreName:  storeName(),
		Logger:     logger.Named("http"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
		IdleTimeout:  cfg.Server.IdleTimeoutDuration(),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("store", storeName()),
			zap.String("fallback_mode", string(cfg.Mode())))
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeoutDuration())
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
