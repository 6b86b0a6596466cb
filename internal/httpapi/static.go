package httpapi

import (
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// handleStatic serves SiteRoot. HTML files go through the nav injector;
// everything else is handed to http.FileServer.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	name := path.Clean("/" + chi.URLParam(r, "*"))
	p := filepath.Join(s.SiteRoot, filepath.FromSlash(name))

	if st, err := os.Stat(p); err == nil && st.IsDir() {
		p = filepath.Join(p, "index.html")
	}
	switch strings.ToLower(filepath.Ext(p)) {
	case ".html", ".htm":
		b, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				http.NotFound(w, r)
				return
			}
			s.Logger.Error("read static page", zap.String("path", p), zap.Error(err))
			http.Error(w, "read error", http.StatusInternalServerError)
			return
		}
		s.writeHTML(w, r, http.StatusOK, b)
	default:
		http.FileServer(http.Dir(s.SiteRoot)).ServeHTTP(w, r)
	}
}
