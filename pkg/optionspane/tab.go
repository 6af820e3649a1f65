// Package optionspane implements the settings panel navigator: three nested
// selection tabs (graph type, x axis, y axis) opened one after another, with
// a terminal edit state once all three are resolved.
//
// The navigator is a pure state machine. Step computes the next State and a
// list of Effects from the current State and an Event; hosts (terminal UI,
// web page, wizard) apply the effects to their presentation and never poke
// at State directly.
package optionspane

import (
	"strings"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// TabID identifies a tab. The values double as the element ids hosts use
// when they render the panel as HTML.
type TabID string

const (
	TabGraph TabID = "selectgraph"
	TabX     TabID = "selectx"
	TabY     TabID = "selecty"
	// TabNone is the current-tab placeholder while no tab is open.
	TabNone TabID = "none"
)

// TabOrder is the fixed order tabs are opened in.
var TabOrder = []TabID{TabGraph, TabX, TabY}

// Heading returns the panel heading shown while this tab is open.
func (id TabID) Heading() string {
	switch id {
	case TabGraph:
		return "Select a graph type"
	case TabX:
		return "Select an x axis"
	case TabY:
		return "Select a y axis"
	}
	return ""
}

// HeadingEdit is the heading once the panel reached the edit state.
const HeadingEdit = "Edit"

// NoneItem is the id of the synthetic item that resolves a tab the user
// left without choosing anything.
const NoneItem = "none"

// Item classes for the graph tab entries.
const (
	ClassGraph = "graph"
	ClassLoad  = "load"
)

// ItemState is the selection state of an item.
type ItemState int

const (
	Unselected ItemState = iota
	Selected
	// Previous marks the item that was selected before its tab was
	// reopened. Reselecting it does not advance the panel.
	Previous
)

func (s ItemState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Previous:
		return "previous"
	default:
		return "unselected"
	}
}

// Item is a selectable entry: a graph type or a column name.
type Item struct {
	ID        string
	Class     string
	State     ItemState
	Invalid   bool
	Visible   bool
	Synthetic bool
}

// Numeric reports whether the item is backed by a numeric column.
func (it Item) Numeric() bool {
	return model.ColumnType(it.Class).IsNumeric()
}

// ClassList returns the item's space separated class attribute.
func (it Item) ClassList() string {
	classes := []string{"listing", it.Class}
	if it.State == Selected {
		classes = append(classes, "selected")
	} else {
		classes = append(classes, "unselected")
	}
	if it.State == Previous {
		classes = append(classes, "previous")
	}
	if it.Invalid {
		classes = append(classes, "invalid")
	}
	if it.Synthetic {
		classes = append(classes, "none")
	}
	return strings.Join(classes, " ")
}

// Tab is one of the three selection tabs.
type Tab struct {
	ID          TabID
	Title       string
	Items       []Item
	Populated   bool
	Visible     bool
	TitleActive bool
}

func (t *Tab) index(id string) int {
	for i := range t.Items {
		if t.Items[i].ID == id {
			return i
		}
	}
	return -1
}

// Selected returns the selected item, if any.
func (t Tab) Selected() (Item, bool) {
	for _, it := range t.Items {
		if it.State == Selected {
			return it, true
		}
	}
	return Item{}, false
}

// Previous returns the item carrying the previous marker, if any.
func (t Tab) Previous() (Item, bool) {
	for _, it := range t.Items {
		if it.State == Previous {
			return it, true
		}
	}
	return Item{}, false
}

// Choice returns the selected item's id, or "" when the tab is unresolved
// or resolved with the synthetic none item.
func (t Tab) Choice() string {
	it, ok := t.Selected()
	if !ok || it.Synthetic {
		return ""
	}
	return it.ID
}

// VisibleItems returns the items currently shown.
func (t Tab) VisibleItems() []Item {
	var out []Item
	for _, it := range t.Items {
		if it.Visible {
			out = append(out, it)
		}
	}
	return out
}

func tabTitle(id TabID) string {
	switch id {
	case TabGraph:
		return "Graph Type"
	case TabX:
		return "X axis"
	case TabY:
		return "Y axis"
	}
	return ""
}

func graphItems() []Item {
	items := make([]Item, 0, len(model.GraphKinds))
	for _, k := range model.GraphKinds {
		class := ClassGraph
		if k == model.KindLoad {
			class = ClassLoad
		}
		items = append(items, Item{ID: string(k), Class: class})
	}
	return items
}

func columnItems(columns model.ColumnMap) []Item {
	items := make([]Item, 0, len(columns))
	for _, c := range columns {
		items = append(items, Item{ID: c.Name, Class: string(c.Type)})
	}
	return items
}
