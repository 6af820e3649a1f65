package optionspane

import (
	"errors"
	"testing"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

func testColumns() model.ColumnMap {
	return model.ColumnMap{
		{Name: "year", Type: model.TypeNumber},
		{Name: "sales", Type: model.TypeNumber},
		{Name: "city", Type: model.TypeText},
	}
}

func mustClick(t *testing.T, n *Navigator, tab TabID, item string) []Effect {
	t.Helper()
	fx, err := n.Click(tab, item)
	if err != nil {
		t.Fatalf("click %s/%s: %v", tab, item, err)
	}
	return fx
}

func tabOf(t *testing.T, s State, id TabID) Tab {
	t.Helper()
	tab, ok := s.Tab(id)
	if !ok {
		t.Fatalf("tab %s missing", id)
	}
	return tab
}

func itemOf(t *testing.T, s State, id TabID, item string) Item {
	t.Helper()
	tab := tabOf(t, s, id)
	for _, it := range tab.Items {
		if it.ID == item {
			return it
		}
	}
	t.Fatalf("item %s/%s missing", id, item)
	return Item{}
}

// completeBar drives a fresh navigator to the edit state with Bar/city/sales.
func completeBar(t *testing.T) *Navigator {
	t.Helper()
	n, _ := New(testColumns())
	mustClick(t, n, TabGraph, "Bar Graph")
	mustClick(t, n, TabX, "city")
	mustClick(t, n, TabY, "sales")
	return n
}

func TestNewStateOpensGraphTab(t *testing.T) {
	n, fx := New(testColumns())
	s := n.State()

	if s.Current != TabGraph {
		t.Errorf("current = %s, want %s", s.Current, TabGraph)
	}
	if s.Heading != "Select a graph type" {
		t.Errorf("heading = %q", s.Heading)
	}
	graph := tabOf(t, s, TabGraph)
	if len(graph.Items) != 4 {
		t.Fatalf("graph tab has %d items, want 4", len(graph.Items))
	}
	wantIDs := []string{"Bar Graph", "Line Graph", "Scatter Plot", "Load Graph"}
	for i, it := range graph.Items {
		if it.ID != wantIDs[i] {
			t.Errorf("item %d = %q, want %q", i, it.ID, wantIDs[i])
		}
		if !it.Visible || it.State != Unselected {
			t.Errorf("item %q should be visible and unselected: %+v", it.ID, it)
		}
	}
	if graph.Items[3].Class != ClassLoad || graph.Items[0].Class != ClassGraph {
		t.Errorf("unexpected classes: %q %q", graph.Items[0].Class, graph.Items[3].Class)
	}
	if x := tabOf(t, s, TabX); x.Populated || len(x.Items) != 0 {
		t.Error("x tab should not be populated yet")
	}

	var revealed bool
	for _, e := range fx {
		if e.Kind == EffectReveal && e.Tab == TabGraph {
			revealed = true
		}
	}
	if !revealed {
		t.Errorf("expected reveal of graph tab, got %v", fx)
	}
}

func TestSelectionSequenceReachesEditWithOneRender(t *testing.T) {
	n, _ := New(testColumns())
	var renders []RenderRequest

	fx := mustClick(t, n, TabGraph, "Bar Graph")
	renders = append(renders, Renders(fx)...)
	s := n.State()
	if s.Current != TabX || s.Heading != "Select an x axis" {
		t.Fatalf("after graph: current=%s heading=%q", s.Current, s.Heading)
	}
	for _, it := range tabOf(t, s, TabGraph).Items {
		if it.ID != "Bar Graph" && it.Visible {
			t.Errorf("sibling %q should be collapsed", it.ID)
		}
	}

	fx = mustClick(t, n, TabX, "city")
	renders = append(renders, Renders(fx)...)
	s = n.State()
	if s.Current != TabY || s.Heading != "Select a y axis" {
		t.Fatalf("after x: current=%s heading=%q", s.Current, s.Heading)
	}

	fx = mustClick(t, n, TabY, "sales")
	renders = append(renders, Renders(fx)...)
	s = n.State()

	if !s.Edit {
		t.Fatal("expected edit state")
	}
	if s.Heading != HeadingEdit {
		t.Errorf("heading = %q, want %q", s.Heading, HeadingEdit)
	}
	if s.PanelVisible {
		t.Error("panel should be hidden on entering edit")
	}
	if s.Current != TabNone {
		t.Errorf("current = %s, want none", s.Current)
	}
	if len(renders) != 1 {
		t.Fatalf("expected exactly one render, got %v", renders)
	}
	want := RenderRequest{Kind: model.KindBar, X: "city", Y: "sales"}
	if renders[0] != want {
		t.Errorf("render = %v, want %v", renders[0], want)
	}
}

func TestBarInvalidatesNonNumericY(t *testing.T) {
	n, _ := New(testColumns())
	mustClick(t, n, TabGraph, "Bar Graph")
	mustClick(t, n, TabX, "city")
	s := n.State()

	for _, it := range tabOf(t, s, TabX).Items {
		if it.Invalid {
			t.Errorf("bar graph should not invalidate x item %q", it.ID)
		}
	}
	for _, it := range tabOf(t, s, TabY).Items {
		wantInvalid := it.ID == "city"
		if it.Invalid != wantInvalid {
			t.Errorf("y item %q invalid = %v, want %v", it.ID, it.Invalid, wantInvalid)
		}
		if it.Invalid && it.Visible {
			t.Errorf("invalid item %q should not be revealed", it.ID)
		}
	}

	if _, err := n.Click(TabY, "city"); !errors.Is(err, ErrItemInvalid) {
		t.Errorf("clicking invalid item: err = %v, want ErrItemInvalid", err)
	}
}

func TestScatterInvalidatesXAndY(t *testing.T) {
	n, _ := New(testColumns())
	mustClick(t, n, TabGraph, "Scatter Plot")
	if it := itemOf(t, n.State(), TabX, "city"); !it.Invalid || it.Visible {
		t.Errorf("x city should be invalid and hidden: %+v", it)
	}
	mustClick(t, n, TabX, "year")
	if it := itemOf(t, n.State(), TabY, "city"); !it.Invalid || it.Visible {
		t.Errorf("y city should be invalid and hidden: %+v", it)
	}
	if it := itemOf(t, n.State(), TabY, "sales"); it.Invalid || !it.Visible {
		t.Errorf("y sales should be valid and shown: %+v", it)
	}
}

func TestClickErrorsLeaveStateUnchanged(t *testing.T) {
	n, _ := New(testColumns())
	mustClick(t, n, TabGraph, "Bar Graph")
	before := n.State()

	tests := []struct {
		name string
		tab  TabID
		item string
		want error
	}{
		{"unknown tab", "selectz", "x", ErrUnknownTab},
		{"unknown item", TabX, "profit", ErrUnknownItem},
		{"hidden sibling", TabGraph, "Line Graph", ErrItemHidden},
		{"unpopulated tab", TabY, "sales", ErrUnknownItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx, err := n.Click(tt.tab, tt.item)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if fx != nil {
				t.Errorf("expected no effects, got %v", fx)
			}
		})
	}

	after := n.State()
	if after.Current != before.Current || after.Heading != before.Heading {
		t.Error("state changed after rejected clicks")
	}
}

func TestReselectPreviousKeepsDownstream(t *testing.T) {
	n := completeBar(t)

	fx := mustClick(t, n, TabGraph, "Bar Graph")
	s := n.State()
	if s.Current != TabGraph || s.Heading != "Select a graph type" {
		t.Fatalf("after reopen: current=%s heading=%q", s.Current, s.Heading)
	}
	if it := itemOf(t, s, TabGraph, "Bar Graph"); it.State != Previous {
		t.Errorf("reopened item state = %s, want previous", it.State)
	}
	for _, it := range tabOf(t, s, TabGraph).Items {
		if !it.Visible {
			t.Errorf("item %q should be shown after reopen", it.ID)
		}
	}
	if len(Renders(fx)) != 0 {
		t.Errorf("reopen should not render: %v", fx)
	}

	fx = mustClick(t, n, TabGraph, "Bar Graph")
	s = n.State()
	if got := s.Selection(); got != (RenderRequest{Kind: model.KindBar, X: "city", Y: "sales"}) {
		t.Errorf("selection = %v", got)
	}
	if len(Renders(fx)) != 0 {
		t.Errorf("reselecting the previous item should not dispatch: %v", fx)
	}
	if !s.Edit || s.Heading != HeadingEdit {
		t.Errorf("expected to stay in edit, heading=%q", s.Heading)
	}
}

func TestChangingGraphInEditRerenders(t *testing.T) {
	n := completeBar(t)
	mustClick(t, n, TabGraph, "Bar Graph")

	fx := mustClick(t, n, TabGraph, "Scatter Plot")
	renders := Renders(fx)
	if len(renders) != 1 {
		t.Fatalf("expected one render, got %v", renders)
	}
	if renders[0] != (RenderRequest{Kind: model.KindScatter, X: "city", Y: "sales"}) {
		t.Errorf("render = %v", renders[0])
	}
	// The already chosen x column stays selected even though it is now invalid.
	if it := itemOf(t, n.State(), TabX, "city"); it.State != Selected || !it.Invalid {
		t.Errorf("x city = %+v, want selected and invalid", it)
	}
	if itemOf(t, n.State(), TabGraph, "Bar Graph").State != Unselected {
		t.Error("previous marker should be cleared from siblings")
	}
}

func TestReopenResolvesOpenTabWithNone(t *testing.T) {
	n, _ := New(testColumns())
	mustClick(t, n, TabGraph, "Bar Graph")

	fx := mustClick(t, n, TabGraph, "Bar Graph")
	s := n.State()
	x := tabOf(t, s, TabX)
	if len(x.Items) != 4 || !x.Items[0].Synthetic || x.Items[0].ID != NoneItem {
		t.Fatalf("expected synthetic none first in x tab: %+v", x.Items)
	}
	if x.Items[0].State != Selected {
		t.Errorf("none item state = %s", x.Items[0].State)
	}
	if x.Choice() != "" {
		t.Errorf("x choice = %q, want empty for none", x.Choice())
	}
	if !hasEffect(fx, EffectInsertItem, TabX) {
		t.Errorf("expected insert effect, got %v", fx)
	}
	if s.Current != TabGraph {
		t.Errorf("current = %s", s.Current)
	}

	// Choosing a different graph type does not reopen the populated x tab.
	mustClick(t, n, TabGraph, "Scatter Plot")
	s = n.State()
	if s.Current != TabNone {
		t.Errorf("current = %s, want none", s.Current)
	}

	// Reopening none removes it and opens the x tab.
	fx = mustClick(t, n, TabX, NoneItem)
	s = n.State()
	if s.Current != TabX || s.Heading != "Select an x axis" {
		t.Errorf("current=%s heading=%q", s.Current, s.Heading)
	}
	if !hasEffect(fx, EffectRemoveItem, TabX) {
		t.Errorf("expected remove effect, got %v", fx)
	}
	for _, it := range tabOf(t, s, TabX).Items {
		if it.Synthetic {
			t.Error("synthetic item should be removed")
		}
		if it.ID == "city" && it.Visible {
			t.Error("invalid x item should stay hidden for scatter")
		}
	}

	mustClick(t, n, TabX, "year")
	if n.Current() != TabY {
		t.Errorf("current = %s, want selecty", n.Current())
	}
}

func TestReopenResolvesOpenTabWithPrevious(t *testing.T) {
	n := completeBar(t)
	mustClick(t, n, TabY, "sales")
	if n.Current() != TabY {
		t.Fatalf("current = %s", n.Current())
	}

	fx := mustClick(t, n, TabX, "city")
	s := n.State()
	if s.Current != TabX {
		t.Errorf("current = %s, want selectx", s.Current)
	}
	if it := itemOf(t, s, TabY, "sales"); it.State != Selected {
		t.Errorf("y sales should be restored, state=%s", it.State)
	}
	if len(tabOf(t, s, TabY).Items) != 3 {
		t.Error("no synthetic item expected when a previous choice exists")
	}
	if len(Renders(fx)) != 0 {
		t.Errorf("restoring a previous choice should not render: %v", fx)
	}

	fx = mustClick(t, n, TabX, "year")
	renders := Renders(fx)
	if len(renders) != 1 || renders[0] != (RenderRequest{Kind: model.KindBar, X: "year", Y: "sales"}) {
		t.Errorf("renders = %v", renders)
	}
}

func TestReopenChainRestoresPreviousChoices(t *testing.T) {
	n := completeBar(t)
	mustClick(t, n, TabY, "sales")
	mustClick(t, n, TabY, "year")
	mustClick(t, n, TabY, "year")

	// y is open with year as previous; reopening graph forces y back to year.
	fx := mustClick(t, n, TabGraph, "Bar Graph")
	if itemOf(t, n.State(), TabY, "year").State != Selected {
		t.Fatal("y should resolve to its previous choice")
	}
	if len(Renders(fx)) != 0 {
		t.Errorf("no render expected: %v", fx)
	}
	mustClick(t, n, TabGraph, "Bar Graph")

	mustClick(t, n, TabX, "city")
	fx = mustClick(t, n, TabY, "year")
	if len(Renders(fx)) != 0 {
		t.Errorf("x had a previous choice, no render expected: %v", fx)
	}
	if got := n.Selection(); got != (RenderRequest{Kind: model.KindBar, X: "city", Y: ""}) {
		t.Errorf("selection = %v", got)
	}
}

func TestNoneSelectionInEditRendersWithoutAxis(t *testing.T) {
	n, _ := New(testColumns())
	mustClick(t, n, TabGraph, "Line Graph")
	mustClick(t, n, TabGraph, "Line Graph")

	fx := mustClick(t, n, TabGraph, "Bar Graph")
	if n.Current() != TabX {
		t.Fatalf("current = %s, want selectx", n.Current())
	}
	if r := Renders(fx); len(r) != 1 || r[0].X != "" {
		t.Errorf("renders = %v", r)
	}

	fx = mustClick(t, n, TabGraph, "Bar Graph")
	renders := Renders(fx)
	if len(renders) != 1 {
		t.Fatalf("renders = %v", renders)
	}
	if renders[0] != (RenderRequest{Kind: model.KindBar}) {
		t.Errorf("render = %v, want bar without axes", renders[0])
	}
}

func TestLineAndLoadRouteToEdit(t *testing.T) {
	for _, kind := range []string{"Line Graph", "Load Graph"} {
		t.Run(kind, func(t *testing.T) {
			n, _ := New(testColumns())
			fx := mustClick(t, n, TabGraph, kind)
			s := n.State()
			if !s.Edit {
				t.Fatal("expected edit state")
			}
			if tabOf(t, s, TabX).Populated {
				t.Error("x tab should not be populated")
			}
			renders := Renders(fx)
			if len(renders) != 1 {
				t.Fatalf("renders = %v", renders)
			}
			if renders[0].Drawable() {
				t.Errorf("%s should not be drawable", kind)
			}
		})
	}
}

func TestToggleEdit(t *testing.T) {
	n, _ := New(testColumns())
	if _, err := n.ToggleEdit(); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("err = %v, want ErrNotEditing", err)
	}

	n = completeBar(t)
	fx, err := n.ToggleEdit()
	if err != nil {
		t.Fatal(err)
	}
	if !n.State().PanelVisible {
		t.Error("panel should be shown after first toggle")
	}
	if len(fx) != 1 || fx[0].Kind != EffectPanel || !fx[0].Active {
		t.Errorf("effects = %v", fx)
	}
	if _, err := n.ToggleEdit(); err != nil {
		t.Fatal(err)
	}
	if n.State().PanelVisible {
		t.Error("panel should be hidden after second toggle")
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	s, _ := NewState(testColumns())
	next, _, err := Step(s, Click(TabGraph, "Bar Graph"))
	if err != nil {
		t.Fatal(err)
	}
	if it := itemOf(t, s, TabGraph, "Bar Graph"); it.State != Unselected {
		t.Error("input state was mutated")
	}
	if tabOf(t, s, TabX).Populated {
		t.Error("input x tab was mutated")
	}
	if it := itemOf(t, next, TabGraph, "Bar Graph"); it.State != Selected {
		t.Error("next state missing selection")
	}
}

func TestItemClassList(t *testing.T) {
	tests := []struct {
		item Item
		want string
	}{
		{Item{ID: "a", Class: "Number"}, "listing Number unselected"},
		{Item{ID: "a", Class: "Number", State: Selected}, "listing Number selected"},
		{Item{ID: "a", Class: "Text", State: Previous, Invalid: true}, "listing Text unselected previous invalid"},
		{Item{ID: NoneItem, Class: "selectx", State: Selected, Synthetic: true}, "listing selectx selected none"},
	}
	for _, tt := range tests {
		if got := tt.item.ClassList(); got != tt.want {
			t.Errorf("ClassList() = %q, want %q", got, tt.want)
		}
	}
}

func hasEffect(fx []Effect, kind EffectKind, tab TabID) bool {
	for _, e := range fx {
		if e.Kind == kind && e.Tab == tab {
			return true
		}
	}
	return false
}
