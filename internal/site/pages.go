package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/poku-e/a1scrap/internal/calculator"
)

//go:embed templates/*.html
var tmplFS embed.FS

var funcs = template.FuncMap{
	"inr":       calculator.FormatINR,
	"unitPrice": calculator.UnitPrice,
}

// ---------- Views ----------

type panelView struct {
	Visible bool
	Action  string
}

type homeView struct {
	Pickup    panelView
	Franchise panelView
	Saved     string
	Year      int
}

type calculatorView struct {
	Quote calculator.Quote
	Year  int
}

// SheetCount is one row of the status page.
type SheetCount struct {
	Name        string
	Submissions int
}

type statusView struct {
	Store  string
	Sheets []SheetCount
	Year   int
}

// ---------- Pages ----------

// Pages renders the site templates to complete HTML documents.
type Pages struct {
	tmpl *template.Template
	mode Mode
	now  func() time.Time
}

func NewPages(mode Mode) (*Pages, error) {
	m, ok := ParseMode(string(mode))
	if !ok {
		return nil, fmt.Errorf("unknown fallback mode %q", mode)
	}
	t, err := template.New("site").Funcs(funcs).ParseFS(tmplFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Pages{tmpl: t, mode: m, now: time.Now}, nil
}

func (p *Pages) Mode() Mode { return p.mode }

// Home renders the forms page with the toggle state applied. saved names the
// panel whose local save just succeeded, if any.
func (p *Pages) Home(t *Toggle, saved string) ([]byte, error) {
	v := homeView{
		Pickup:    panelView{Visible: t.Visible(PanelPickup), Action: p.mode.FormAction(PanelPickup)},
		Franchise: panelView{Visible: t.Visible(PanelFranchise), Action: p.mode.FormAction(PanelFranchise)},
		Year:      p.now().Year(),
	}
	if s, ok := ParsePanel(saved); ok {
		v.Saved = string(s)
	}
	return p.render("home.html", v)
}

func (p *Pages) Calculator(q calculator.Quote) ([]byte, error) {
	return p.render("calculator.html", calculatorView{Quote: q, Year: p.now().Year()})
}

// Status lists existing sheets; store is a short description of the backend.
func (p *Pages) Status(store string, sheets []SheetCount) ([]byte, error) {
	return p.render("status.html", statusView{Store: store, Sheets: sheets, Year: p.now().Year()})
}

func (p *Pages) render(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
