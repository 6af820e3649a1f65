package optionspane

import (
	"github.com/vanderheijden86/tablegraph/pkg/debug"
	"github.com/vanderheijden86/tablegraph/pkg/metrics"
	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// Navigator owns one panel's State and is the single dispatcher of events.
// It is not safe for concurrent use; hosts serialise events.
type Navigator struct {
	state State
}

// New creates a navigator over columns and returns the effects that open
// the graph tab.
func New(columns model.ColumnMap) (*Navigator, []Effect) {
	s, fx := NewState(columns)
	return &Navigator{state: s}, fx
}

// State returns a copy of the current state.
func (n *Navigator) State() State {
	return n.state.clone()
}

// Dispatch applies ev and returns the effects hosts must apply. On error the
// state is unchanged.
func (n *Navigator) Dispatch(ev Event) ([]Effect, error) {
	defer metrics.Timer(metrics.PanelDispatch)()
	next, fx, err := Step(n.state, ev)
	if err != nil {
		debug.Log("optionspane: %s rejected: %v", ev, err)
		return nil, err
	}
	n.state = next
	debug.Log("optionspane: %s -> current=%s edit=%v effects=%d", ev, next.Current, next.Edit, len(fx))
	return fx, nil
}

// Click dispatches a click on item in tab.
func (n *Navigator) Click(tab TabID, item string) ([]Effect, error) {
	return n.Dispatch(Click(tab, item))
}

// ToggleEdit dispatches a click on the edit heading.
func (n *Navigator) ToggleEdit() ([]Effect, error) {
	return n.Dispatch(ToggleEdit())
}

// Selection returns the chart request described by the current choices.
func (n *Navigator) Selection() RenderRequest {
	return n.state.Selection()
}

// Current returns the open tab, or TabNone.
func (n *Navigator) Current() TabID {
	return n.state.Current
}
