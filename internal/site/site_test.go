package site

import (
	"bytes"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poku-e/a1scrap/internal/calculator"
)

func visiblePanels(t *Toggle) int {
	n := 0
	for _, p := range []Panel{PanelPickup, PanelFranchise} {
		if t.Visible(p) {
			n++
		}
	}
	return n
}

func TestToggleRoundTrip(t *testing.T) {
	tg := NewToggle()
	assert.Equal(t, PanelPickup, tg.Active())
	assert.Equal(t, 1, visiblePanels(tg))

	for _, p := range []Panel{PanelFranchise, PanelFranchise, PanelPickup} {
		require.True(t, tg.Show(p))
		assert.Equal(t, p, tg.Active())
		assert.Equal(t, 1, visiblePanels(tg), "after showing %s", p)
	}
	assert.Equal(t, *NewToggle(), *tg)

	assert.False(t, tg.Show("career"))
	assert.Equal(t, PanelPickup, tg.Active())
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": ModeRelay, "relay": ModeRelay, " Local ": ModeLocal, "alongside": ModeAlongside} {
		got, ok := ParseMode(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := ParseMode("cloud")
	assert.False(t, ok)

	assert.Equal(t, "/relay", ModeAlongside.FormAction(PanelPickup))
	assert.Equal(t, "/leads/franchise", ModeLocal.FormAction(PanelFranchise))
	assert.Equal(t, "/?form=pickup&saved=franchise", SavedRedirect(PanelFranchise))
	assert.Equal(t, "/?saved=pickup", SavedRedirect(PanelPickup))
}

func newPages(t *testing.T, m Mode) *Pages {
	t.Helper()
	p, err := NewPages(m)
	require.NoError(t, err)
	p.now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func parse(t *testing.T, b []byte) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b))
	require.NoError(t, err)
	return doc
}

func TestHomeRendersActivePanel(t *testing.T) {
	p := newPages(t, ModeRelay)
	tg := NewToggle()
	tg.Show(PanelFranchise)

	out, err := p.Home(tg, "")
	require.NoError(t, err)
	doc := parse(t, out)

	pickup := doc.Find("#pickupForm")
	assert.True(t, pickup.HasClass("hidden"))
	assert.Equal(t, "display:none", pickup.AttrOr("style", ""))
	assert.False(t, doc.Find("#franchiseForm").HasClass("hidden"))
	assert.True(t, doc.Find(`.toggle-btn[data-form="franchise"]`).HasClass("active"))
	assert.False(t, doc.Find(`.toggle-btn[data-form="pickup"]`).HasClass("active"))

	assert.Equal(t, "/relay", pickup.AttrOr("action", ""))
	assert.Equal(t, "franchiseForm", doc.Find(`#franchiseForm input[name="sheetName"]`).AttrOr("value", ""))
	assert.Equal(t, "2025", doc.Find("#year").Text())
	assert.Equal(t, 0, doc.Find(".notice").Length())
}

func TestHomeLocalModeAndSavedNotice(t *testing.T) {
	p := newPages(t, ModeLocal)
	out, err := p.Home(NewToggle(), "franchise")
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Equal(t, "/leads/pickup", doc.Find("#pickupForm").AttrOr("action", ""))
	assert.Equal(t, "/leads/franchise", doc.Find("#franchiseForm").AttrOr("action", ""))
	assert.Contains(t, doc.Find(".notice").Text(), "Franchise application saved locally.")
}

func TestCalculatorPage(t *testing.T) {
	p := newPages(t, ModeRelay)
	c, err := calculator.New(0)
	require.NoError(t, err)

	out, err := p.Calculator(c.Quote(calculator.Quantities{"newspaper": 2, "steel": 1}))
	require.NoError(t, err)
	doc := parse(t, out)

	assert.Equal(t, 27, doc.Find(".calc-row").Length())
	assert.Equal(t, "₹ 68.00", doc.Find("#calc_total").Text())
	assert.Equal(t, "₹ 28.00", doc.Find("#newspaper_total").Text())
	assert.Equal(t, "₹ 14.00/kg", doc.Find("#newspaper_price_display").Text())
	assert.Equal(t, "2", doc.Find("#newspaper_qty").AttrOr("value", ""))
	assert.Equal(t, "1", doc.Find("#fridge_big_qty").AttrOr("step", ""))
}

func TestStatusPage(t *testing.T) {
	p := newPages(t, ModeRelay)

	out, err := p.Status("memory", nil)
	require.NoError(t, err)
	assert.Contains(t, string(out), "No sheets created yet. They will be created automatically on first submission.")

	out, err = p.Status("xlsx leads.xlsx", []SheetCount{{Name: "Pickup Requests", Submissions: 3}})
	require.NoError(t, err)
	doc := parse(t, out)
	assert.Equal(t, 1, doc.Find(".sheet").Length())
	assert.Contains(t, doc.Find(".sheet").Text(), "Submissions: 3")
}

func TestNewPagesRejectsUnknownMode(t *testing.T) {
	_, err := NewPages("cloud")
	assert.Error(t, err)
}
