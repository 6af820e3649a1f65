package optionspane

import (
	"fmt"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// EventKind tags an Event.
type EventKind int

const (
	// EventClick selects an unselected item or reopens a selected one.
	EventClick EventKind = iota
	// EventToggleEdit shows or hides the panel once in the edit state.
	EventToggleEdit
)

// Event is an input to the navigator.
type Event struct {
	Kind EventKind
	Tab  TabID
	Item string
}

// Click returns the event for clicking item in tab.
func Click(tab TabID, item string) Event {
	return Event{Kind: EventClick, Tab: tab, Item: item}
}

// ToggleEdit returns the event for clicking the edit heading.
func ToggleEdit() Event {
	return Event{Kind: EventToggleEdit}
}

func (e Event) String() string {
	if e.Kind == EventToggleEdit {
		return "toggle-edit"
	}
	return fmt.Sprintf("click %s/%s", e.Tab, e.Item)
}

// EffectKind tags an Effect.
type EffectKind int

const (
	// EffectHeading sets the panel heading to Text.
	EffectHeading EffectKind = iota
	// EffectReveal shows a freshly populated tab and its valid items.
	EffectReveal
	// EffectCollapse hides every item of Tab except Item.
	EffectCollapse
	// EffectExpand shows the valid siblings of Item in Tab again.
	EffectExpand
	// EffectTitleActive emphasises (Active) or de-emphasises Tab's title.
	EffectTitleActive
	// EffectInsertItem adds the synthetic none item to Tab.
	EffectInsertItem
	// EffectRemoveItem drops Item from Tab.
	EffectRemoveItem
	// EffectPanel shows (Active) or hides the tabs below the heading.
	EffectPanel
	// EffectRender clears the chart area and draws Render.
	EffectRender
)

var effectNames = map[EffectKind]string{
	EffectHeading:     "heading",
	EffectReveal:      "reveal",
	EffectCollapse:    "collapse",
	EffectExpand:      "expand",
	EffectTitleActive: "title",
	EffectInsertItem:  "insert",
	EffectRemoveItem:  "remove",
	EffectPanel:       "panel",
	EffectRender:      "render",
}

func (k EffectKind) String() string {
	if s, ok := effectNames[k]; ok {
		return s
	}
	return fmt.Sprintf("effect(%d)", int(k))
}

// Effect describes one presentation change. Only the fields relevant to
// Kind are set.
type Effect struct {
	Kind   EffectKind
	Tab    TabID
	Item   string
	Text   string
	Active bool
	Render RenderRequest
}

func (e Effect) String() string {
	switch e.Kind {
	case EffectHeading:
		return fmt.Sprintf("heading %q", e.Text)
	case EffectRender:
		return fmt.Sprintf("render %s", e.Render)
	case EffectPanel, EffectTitleActive:
		return fmt.Sprintf("%s %s %v", e.Kind, e.Tab, e.Active)
	}
	return fmt.Sprintf("%s %s/%s", e.Kind, e.Tab, e.Item)
}

// RenderRequest names what the chart area should show. X and Y are empty
// when the corresponding tab is unresolved or resolved with none.
type RenderRequest struct {
	Kind model.GraphKind
	X    string
	Y    string
}

// Drawable reports whether the request names a chart the renderer draws.
// Requests for other kinds only clear the chart area.
func (r RenderRequest) Drawable() bool {
	return r.Kind.Drawable()
}

func (r RenderRequest) String() string {
	return fmt.Sprintf("%q x=%q y=%q", r.Kind, r.X, r.Y)
}

// Renders filters the render requests out of a list of effects.
func Renders(effects []Effect) []RenderRequest {
	var out []RenderRequest
	for _, e := range effects {
		if e.Kind == EffectRender {
			out = append(out, e.Render)
		}
	}
	return out
}
