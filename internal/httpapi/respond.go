package httpapi

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// envelope is the relay response body.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}

// writeHTML sends a page, passing it through the nav injector when one is
// configured. Injection failures fall back to the page as rendered.
func (s *Server) writeHTML(w http.ResponseWriter, r *http.Request, status int, page []byte) {
	if s.Injector != nil {
		out, _, err := s.Injector.InjectHTML(page)
		if err != nil {
			s.Logger.Warn("nav injection failed", zap.String("path", r.URL.Path), zap.Error(err))
		} else {
			page = out
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(page); err != nil {
		s.Logger.Debug("write response", zap.Error(err))
	}
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	s.Logger.Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, "template error", http.StatusInternalServerError)
}
