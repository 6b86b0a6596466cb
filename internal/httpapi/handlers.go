package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/poku-e/a1scrap/internal/calculator"
	"github.com/poku-e/a1scrap/internal/fallback"
	"github.com/poku-e/a1scrap/internal/forms"
	"github.com/poku-e/a1scrap/internal/relay"
	"github.com/poku-e/a1scrap/internal/site"
)

const maxFormMemory = 8 << 20

// parseForm accepts url-encoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxFormMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	return err
}

// ---------- Relay ----------

func (s *Server) handleRelaySubmit(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "could not read form: " + err.Error()})
		return
	}
	sub := forms.NewSubmission(r.Form)

	receipt, err := s.Relay.Submit(r.Context(), sub)
	if err != nil {
		status := relayStatus(err)
		log := s.Logger.Error
		if status < http.StatusInternalServerError {
			log = s.Logger.Warn
		}
		log("relay rejected submission",
			zap.String("form", sub.TypeName()),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err))
		writeJSON(w, status, envelope{Error: relay.Message(err)})
		return
	}

	if s.Pages.Mode() == site.ModeAlongside {
		s.keepLocalCopy(receipt.Type, sub)
	}
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Form submitted successfully"})
}

func relayStatus(err error) int {
	switch {
	case errors.Is(err, relay.ErrSpam):
		return http.StatusOK
	case errors.Is(err, relay.ErrInvalidFormType):
		return http.StatusBadRequest
	case relay.IsStoreError(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// keepLocalCopy records pickup and franchise relays in the fallback store.
// A failure here does not fail the relay.
func (s *Server) keepLocalCopy(t forms.Type, sub forms.Submission) {
	var kind fallback.Kind
	switch t {
	case forms.Pickup:
		kind = fallback.Pickup
	case forms.Franchise:
		kind = fallback.Franchise
	default:
		return
	}
	if _, err := s.Leads.Record(kind, sub.Normalized()); err != nil {
		s.Logger.Warn("local copy failed", zap.String("kind", string(kind)), zap.Error(err))
	}
}

func (s *Server) handleRelayStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.Relay.Status(r.Context())
	if err != nil {
		s.Logger.Error("relay status", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, envelope{Error: "Error accessing spreadsheet: " + err.Error()})
		return
	}
	var rows []site.SheetCount
	for _, e := range relay.Existing(st) {
		rows = append(rows, site.SheetCount{Name: e.Name, Submissions: e.Submissions})
	}
	page, err := s.Pages.Status(s.StoreName, rows)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.writeHTML(w, r, http.StatusOK, page)
}

// ---------- Pages ----------

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	t := site.NewToggle()
	if p, ok := site.ParsePanel(q.Get("form")); ok {
		t.Show(p)
	}
	page, err := s.Pages.Home(t, q.Get("saved"))
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.writeHTML(w, r, http.StatusOK, page)
}

func (s *Server) handleCalculatorPage(w http.ResponseWriter, r *http.Request) {
	quote := s.Calculator.Reset()
	if r.Method == http.MethodPost {
		if err := parseForm(r); err != nil {
			http.Error(w, "could not read form", http.StatusBadRequest)
			return
		}
		if r.PostForm.Get("action") != "reset" {
			quote = s.Calculator.Quote(calculator.ParseQuantities(r.PostForm))
		}
	}
	page, err := s.Pages.Calculator(quote)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.writeHTML(w, r, http.StatusOK, page)
}

// ---------- Calculator API ----------

type quoteResp struct {
	calculator.Quote
	Formatted struct {
		ItemsTotal string `json:"items_total"`
		Tax        string `json:"tax"`
		GrandTotal string `json:"grand_total"`
	} `json:"formatted"`
}

func (s *Server) handleQuote(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "could not read form: " + err.Error()})
		return
	}
	var resp quoteResp
	resp.Quote = s.Calculator.Quote(calculator.ParseQuantities(r.Form))
	resp.Formatted.ItemsTotal = calculator.FormatINR(resp.ItemsTotal)
	resp.Formatted.Tax = calculator.FormatINR(resp.Tax)
	resp.Formatted.GrandTotal = calculator.FormatINR(resp.GrandTotal)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, calculator.Catalog())
}

// ---------- Local fallback ----------

func (s *Server) handleLeadSave(w http.ResponseWriter, r *http.Request) {
	panel, ok := site.ParsePanel(chi.URLParam(r, "kind"))
	if !ok {
		writeJSON(w, http.StatusNotFound, envelope{Error: "unknown lead kind"})
		return
	}
	kind, _ := fallback.ParseKind(string(panel))
	if err := parseForm(r); err != nil {
		writeJSON(w, http.StatusBadRequest, envelope{Error: "could not read form: " + err.Error()})
		return
	}
	sub := forms.NewSubmission(r.Form)
	if sub.Honeypot() {
		s.Logger.Warn("honeypot set on local save", zap.String("kind", string(kind)))
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	lead, err := s.Leads.Record(kind, sub.Normalized())
	if err != nil {
		s.Logger.Error("save lead", zap.String("kind", string(kind)), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, envelope{Error: err.Error()})
		return
	}
	s.Logger.Info("lead saved locally", zap.String("kind", string(kind)), zap.String("lead", lead.ID))
	http.Redirect(w, r, site.SavedRedirect(panel), http.StatusSeeOther)
}

func (s *Server) handleLeadList(w http.ResponseWriter, r *http.Request) {
	kind, ok := fallback.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		writeJSON(w, http.StatusNotFound, envelope{Error: "unknown lead kind"})
		return
	}
	leads, err := s.Leads.List(kind)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, envelope{Error: err.Error()})
		return
	}
	if leads == nil {
		leads = []fallback.Lead{}
	}
	writeJSON(w, http.StatusOK, leads)
}
