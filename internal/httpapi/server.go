// Package httpapi serves the site pages, the form relay and the calculator API.
package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/poku-e/a1scrap/internal/calculator"
	"github.com/poku-e/a1scrap/internal/fallback"
	"github.com/poku-e/a1scrap/internal/navinject"
	"github.com/poku-e/a1scrap/internal/relay"
	"github.com/poku-e/a1scrap/internal/site"
)

// Deps are the services behind the routes. Leads may be nil in relay mode;
// Injector and SiteRoot are optional.
type Deps struct {
	Relay      *relay.Service
	Calculator *calculator.Calculator
	Pages      *site.Pages
	Leads      *fallback.Store
	Injector   *navinject.Injector
	// SiteRoot is a directory of static pages served under /.
	SiteRoot string
	// StoreName describes the sheet backend on the status page.
	StoreName string
	Logger    *zap.Logger
}

type Server struct {
	Deps
	router chi.Router
}

func New(d Deps) (*Server, error) {
	if d.Relay == nil || d.Calculator == nil || d.Pages == nil {
		return nil, errors.New("httpapi: relay, calculator and pages are required")
	}
	if d.Pages.Mode() != site.ModeRelay && d.Leads == nil {
		return nil, errors.New("httpapi: fallback mode " + string(d.Pages.Mode()) + " needs a lead store")
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	s := &Server{Deps: d}
	s.router = s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.accessLog)
	r.Use(s.recoverer)
	r.Use(withCommonHeaders)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Pages
	r.Get("/", s.handleHome)
	r.Get("/calculator", s.handleCalculatorPage)
	r.Post("/calculator", s.handleCalculatorPage)

	// Relay
	r.Post("/relay", s.handleRelaySubmit)
	r.Get("/relay", s.handleRelayStatus)

	// Calculator API
	r.Post("/api/quote", s.handleQuote)
	r.Get("/api/catalog", s.handleCatalog)

	// Local fallback
	if s.Leads != nil {
		r.Post("/leads/{kind}", s.handleLeadSave)
		r.Get("/api/leads/{kind}", s.handleLeadList)
	}

	if s.SiteRoot != "" {
		r.Get("/*", s.handleStatic)
	}
	return r
}
