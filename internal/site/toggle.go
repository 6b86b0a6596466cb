// Package site renders the public pages: the home page with the pickup and
// franchise forms, the scrap calculator and the relay status page.
package site

import "strings"

// Panel is one of the two mutually exclusive home page forms.
type Panel string

const (
	PanelPickup    Panel = "pickup"
	PanelFranchise Panel = "franchise"
)

func ParsePanel(s string) (Panel, bool) {
	switch p := Panel(strings.ToLower(strings.TrimSpace(s))); p {
	case PanelPickup, PanelFranchise:
		return p, true
	}
	return "", false
}

// Toggle tracks which panel is shown. Exactly one panel is visible at a time.
type Toggle struct {
	active Panel
}

// NewToggle starts on the pickup panel.
func NewToggle() *Toggle {
	return &Toggle{active: PanelPickup}
}

// Show makes p the visible panel. Unknown panels leave the state alone and
// report false.
func (t *Toggle) Show(p Panel) bool {
	if p != PanelPickup && p != PanelFranchise {
		return false
	}
	t.active = p
	return true
}

func (t *Toggle) Active() Panel { return t.active }

func (t *Toggle) Visible(p Panel) bool { return t.active == p }

// Mode selects where the home page forms post.
type Mode string

const (
	// ModeRelay posts to the sheet relay.
	ModeRelay Mode = "relay"
	// ModeLocal saves into the local fallback store only.
	ModeLocal Mode = "local"
	// ModeAlongside posts to the relay and keeps a local copy.
	ModeAlongside Mode = "alongside"
)

func ParseMode(s string) (Mode, bool) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeRelay, ModeLocal, ModeAlongside:
		return m, true
	case "":
		return ModeRelay, true
	}
	return "", false
}

// FormAction is the post target for a panel's form.
func (m Mode) FormAction(p Panel) string {
	if m == ModeLocal {
		return "/leads/" + string(p)
	}
	return "/relay"
}

// SavedRedirect is where a local save sends the browser afterwards. A saved
// franchise application returns the toggle to the pickup panel.
func SavedRedirect(p Panel) string {
	if p == PanelFranchise {
		return "/?form=pickup&saved=franchise"
	}
	return "/?saved=pickup"
}
