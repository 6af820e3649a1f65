package optionspane

import (
	"errors"
	"fmt"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Click errors. State is left unchanged when Step returns one of these.
var (
	ErrUnknownTab  = errors.New("unknown tab")
	ErrUnknownItem = errors.New("unknown item")
	ErrItemHidden  = errors.New("item is not shown")
	ErrItemInvalid = errors.New("item is not valid for the chosen graph type")
	ErrNotEditing  = errors.New("panel has not reached the edit state")
)

// State is the complete navigator state. It is a value: Step never mutates
// the State it is given.
type State struct {
	Tabs         []Tab
	Columns      model.ColumnMap
	Current      TabID
	Heading      string
	Edit         bool
	PanelVisible bool
}

// NewState builds the initial state: the graph tab populated and open.
func NewState(columns model.ColumnMap) (State, []Effect) {
	s := State{
		Columns:      columns,
		PanelVisible: true,
	}
	for _, id := range TabOrder {
		s.Tabs = append(s.Tabs, Tab{ID: id, Title: tabTitle(id)})
	}
	t := &transition{s: &s}
	t.populate(TabGraph)
	return s, t.fx
}

func (s State) clone() State {
	out := s
	out.Tabs = make([]Tab, len(s.Tabs))
	for i, tab := range s.Tabs {
		tab.Items = append([]Item(nil), tab.Items...)
		out.Tabs[i] = tab
	}
	return out
}

// Tab returns the tab with the given id.
func (s State) Tab(id TabID) (Tab, bool) {
	for _, t := range s.Tabs {
		if t.ID == id {
			return t, true
		}
	}
	return Tab{}, false
}

// GraphKind returns the selected graph type, or "" when none is selected.
func (s State) GraphKind() model.GraphKind {
	t, _ := s.Tab(TabGraph)
	return model.GraphKind(t.Choice())
}

// Selection returns the chart request described by the current choices.
func (s State) Selection() RenderRequest {
	x, _ := s.Tab(TabX)
	y, _ := s.Tab(TabY)
	return RenderRequest{Kind: s.GraphKind(), X: x.Choice(), Y: y.Choice()}
}

func (s *State) tabIndex(id TabID) int {
	for i := range s.Tabs {
		if s.Tabs[i].ID == id {
			return i
		}
	}
	return -1
}

// Step computes the state following ev.
func Step(s State, ev Event) (State, []Effect, error) {
	next := s.clone()
	t := &transition{s: &next}

	switch ev.Kind {
	case EventClick:
		ti := next.tabIndex(ev.Tab)
		if ti < 0 {
			return s, nil, fmt.Errorf("%w: %q", ErrUnknownTab, ev.Tab)
		}
		tab := &next.Tabs[ti]
		ii := tab.index(ev.Item)
		if ii < 0 {
			return s, nil, fmt.Errorf("%w: %q in %s", ErrUnknownItem, ev.Item, ev.Tab)
		}
		it := tab.Items[ii]
		if it.State == Selected {
			t.reopen(ti, ii)
			break
		}
		if it.Invalid {
			return s, nil, fmt.Errorf("%w: %q", ErrItemInvalid, ev.Item)
		}
		if !it.Visible {
			return s, nil, fmt.Errorf("%w: %q", ErrItemHidden, ev.Item)
		}
		t.selectItem(ti, ii)

	case EventToggleEdit:
		if !next.Edit {
			return s, nil, ErrNotEditing
		}
		next.PanelVisible = !next.PanelVisible
		t.emit(Effect{Kind: EffectPanel, Active: next.PanelVisible})

	default:
		return s, nil, fmt.Errorf("unknown event kind %d", ev.Kind)
	}

	return next, t.fx, nil
}

// transition accumulates the effects of one Step while mutating the cloned
// state in place.
type transition struct {
	s  *State
	fx []Effect
}

func (t *transition) emit(e Effect) {
	t.fx = append(t.fx, e)
}

func (t *transition) heading(text string) {
	t.s.Heading = text
	t.emit(Effect{Kind: EffectHeading, Text: text})
}

func (t *transition) titleActive(ti int, active bool) {
	t.s.Tabs[ti].TitleActive = active
	t.emit(Effect{Kind: EffectTitleActive, Tab: t.s.Tabs[ti].ID, Active: active})
}

func (t *transition) selectItem(ti, ii int) {
	tab := &t.s.Tabs[ti]
	it := &tab.Items[ii]

	if t.s.Edit {
		t.heading(HeadingEdit)
	}
	t.s.Current = TabNone
	wasPrevious := it.State == Previous
	it.State = Selected
	it.Visible = true
	for j := range tab.Items {
		if j == ii {
			continue
		}
		tab.Items[j].Visible = false
		tab.Items[j].State = Unselected
	}
	t.emit(Effect{Kind: EffectCollapse, Tab: tab.ID, Item: it.ID})
	t.titleActive(ti, false)

	if !wasPrevious {
		t.dispatchNext(tab.ID, *it)
	}
}

// dispatchNext advances to the tab following a fresh choice in from.
func (t *transition) dispatchNext(from TabID, it Item) {
	if !it.Synthetic {
		switch {
		case from == TabGraph && model.GraphKind(it.ID).NeedsAxes():
			t.populate(TabX)
		case from == TabGraph:
			t.enterEdit()
		case from == TabX:
			t.populate(TabY)
		case from == TabY:
			t.enterEdit()
		}
		t.applyValidity()
	}
	if t.s.Edit {
		t.emit(Effect{Kind: EffectRender, Render: t.s.Selection()})
	}
}

// populate fills and opens a tab the first time it is reached.
func (t *transition) populate(id TabID) {
	ti := t.s.tabIndex(id)
	tab := &t.s.Tabs[ti]
	if tab.Populated {
		return
	}
	t.s.Current = id
	t.heading(id.Heading())
	if id == TabGraph {
		tab.Items = graphItems()
	} else {
		tab.Items = columnItems(t.s.Columns)
	}
	tab.Populated = true
	tab.Visible = true
	tab.TitleActive = true
	t.applyValidity()
	for i := range tab.Items {
		tab.Items[i].Visible = !tab.Items[i].Invalid
	}
	t.emit(Effect{Kind: EffectReveal, Tab: id})
}

func (t *transition) enterEdit() {
	if t.s.Edit {
		return
	}
	t.s.Edit = true
	t.heading(HeadingEdit)
	t.s.PanelVisible = false
	t.emit(Effect{Kind: EffectPanel, Active: false})
}

// applyValidity recomputes the invalid marks from the chosen graph type.
func (t *transition) applyValidity() {
	kind := t.s.GraphKind()
	for ti := range t.s.Tabs {
		tab := &t.s.Tabs[ti]
		check := (tab.ID == TabY && (kind == model.KindBar || kind == model.KindScatter)) ||
			(tab.ID == TabX && kind == model.KindScatter)
		for i := range tab.Items {
			it := &tab.Items[i]
			it.Invalid = check && !it.Numeric()
			if it.Invalid && it.State != Selected {
				it.Visible = false
			}
		}
	}
}

func (t *transition) reopen(ti, ii int) {
	tab := &t.s.Tabs[ti]
	tab.Items[ii].State = Previous
	t.titleActive(ti, true)
	for j := range tab.Items {
		tab.Items[j].Visible = !tab.Items[j].Invalid || j == ii
	}
	t.emit(Effect{Kind: EffectExpand, Tab: tab.ID, Item: tab.Items[ii].ID})

	if cur := t.s.Current; cur != TabNone && cur != "" && cur != tab.ID {
		t.resolve(cur)
	}

	// resolve may have inserted into another tab only; ti and ii stay valid.
	tab = &t.s.Tabs[ti]
	t.s.Current = tab.ID
	t.heading(tab.ID.Heading())

	if tab.Items[ii].Synthetic {
		id := tab.Items[ii].ID
		tab.Items = append(tab.Items[:ii], tab.Items[ii+1:]...)
		t.emit(Effect{Kind: EffectRemoveItem, Tab: tab.ID, Item: id})
	}
}

// resolve closes a tab the user left open: its previous choice is restored,
// or a synthetic none item is selected on its behalf.
func (t *transition) resolve(id TabID) {
	ti := t.s.tabIndex(id)
	if ti < 0 {
		return
	}
	tab := &t.s.Tabs[ti]
	for i := range tab.Items {
		if tab.Items[i].State == Previous {
			t.selectItem(ti, i)
			return
		}
	}
	none := Item{ID: NoneItem, Class: string(id), Visible: true, Synthetic: true}
	tab.Items = append([]Item{none}, tab.Items...)
	t.emit(Effect{Kind: EffectInsertItem, Tab: id, Item: NoneItem})
	t.selectItem(ti, 0)
}
