// Package navinject adds a collapsible mobile navigation panel to HTML pages.
package navinject

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"
	texttemplate "text/template"

	"github.com/PuerkitoBio/goquery"
)

const (
	NavID             = "a1-mobile-nav"
	DefaultBreakpoint = 900
)

//go:embed assets/nav.css
var navCSS string

//go:embed assets/nav.js
var navJS string

var (
	cssTmpl = texttemplate.Must(texttemplate.New("css").Parse(navCSS))

	fragTmpl = template.Must(template.New("frag").Parse(
		`{{define "nav"}}<nav id="` + NavID + `" class="a1-mobile-nav" aria-hidden="true" data-breakpoint="{{.Breakpoint}}"><ul>{{range .Links}}<li><a href="{{.Href}}">{{.Text}}</a></li>{{end}}</ul></nav>{{end}}` +
			`{{define "toggle"}}<button type="button" class="a1-nav-toggle" aria-controls="` + NavID + `" aria-expanded="false" aria-label="Menu"><span></span><span></span><span></span></button>{{end}}`))

	spaceRe = regexp.MustCompile(`\s+`)
)

// Link is one entry in the injected panel.
type Link struct {
	Href string
	Text string
}

// DefaultLinks are used when a page header carries no anchors.
var DefaultLinks = []Link{
	{Href: "/", Text: "Home"},
	{Href: "/calculator", Text: "Scrap Rates"},
	{Href: "/#pickupForm", Text: "Book Pickup"},
	{Href: "/?form=franchise#franchiseForm", Text: "Franchise"},
}

type Options struct {
	// Breakpoint is the viewport width in px above which the panel is hidden.
	Breakpoint int
	// Links replaces DefaultLinks as the fallback for anchorless headers.
	Links []Link
}

// Injector rewrites documents. It is safe for concurrent use.
type Injector struct {
	breakpoint int
	links      []Link
	style      string
	script     string
}

func New(opts Options) (*Injector, error) {
	bp := opts.Breakpoint
	if bp == 0 {
		bp = DefaultBreakpoint
	}
	if bp < 0 {
		return nil, fmt.Errorf("breakpoint must be positive, got %d", bp)
	}
	links := opts.Links
	if len(links) == 0 {
		links = DefaultLinks
	}

	var css bytes.Buffer
	if err := cssTmpl.Execute(&css, bp); err != nil {
		return nil, fmt.Errorf("render nav css: %w", err)
	}
	return &Injector{
		breakpoint: bp,
		links:      append([]Link(nil), links...),
		style:      `<style id="` + NavID + `-style">` + css.String() + `</style>`,
		script:     `<script id="` + NavID + `-script">` + navJS + `</script>`,
	}, nil
}

// Breakpoint reports the configured breakpoint in px.
func (in *Injector) Breakpoint() int { return in.breakpoint }

// Inject modifies doc in place and reports whether anything changed.
// Documents that already carry the panel, or have no header, get only the
// floating-label placeholder fix.
func (in *Injector) Inject(doc *goquery.Document) (bool, error) {
	changed := fixPlaceholders(doc.Selection)

	if doc.Find("#"+NavID).Length() > 0 {
		return changed, nil
	}
	header := doc.Find("header").First()
	if header.Length() == 0 {
		return changed, nil
	}

	links := headerLinks(header)
	if len(links) == 0 {
		links = in.links
	}

	var nav, toggle strings.Builder
	data := struct {
		Breakpoint int
		Links      []Link
	}{in.breakpoint, links}
	if err := fragTmpl.ExecuteTemplate(&nav, "nav", data); err != nil {
		return changed, fmt.Errorf("render nav: %w", err)
	}
	if err := fragTmpl.ExecuteTemplate(&toggle, "toggle", nil); err != nil {
		return changed, fmt.Errorf("render toggle: %w", err)
	}

	header.AppendHtml(toggle.String())
	header.AfterHtml(nav.String())
	doc.Find("head").First().AppendHtml(in.style)
	doc.Find("body").First().AppendHtml(in.script)
	return true, nil
}

// InjectHTML parses src, injects, and renders it back. Unchanged pages are
// returned as-is, byte for byte.
func (in *Injector) InjectHTML(src []byte) ([]byte, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(src))
	if err != nil {
		return nil, false, fmt.Errorf("parse html: %w", err)
	}
	changed, err := in.Inject(doc)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return src, false, nil
	}
	out, err := doc.Html()
	if err != nil {
		return nil, false, fmt.Errorf("render html: %w", err)
	}
	return []byte(out), true, nil
}

func headerLinks(header *goquery.Selection) []Link {
	var links []Link
	header.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		text := strings.TrimSpace(spaceRe.ReplaceAllString(a.Text(), " "))
		if text == "" {
			text, _ = a.Attr("aria-label")
		}
		if href == "" || text == "" {
			return
		}
		links = append(links, Link{Href: href, Text: text})
	})
	return links
}

// fixPlaceholders gives floating-label fields an empty placeholder so
// :placeholder-shown matches.
func fixPlaceholders(s *goquery.Selection) bool {
	changed := false
	s.Find(".field input, .field textarea").Each(func(_ int, el *goquery.Selection) {
		if v, _ := el.Attr("placeholder"); v != "" {
			return
		}
		el.SetAttr("placeholder", " ")
		changed = true
	})
	return changed
}
