package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/optionspane"
)

// Prompter asks the questions of the wizard.
type Prompter interface {
	Select(title string, options []string) (string, error)
	Input(title, placeholder string) (string, error)
}

// isTerminal checks if stdin is connected to a terminal
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// newForm creates a form with appropriate settings based on TTY detection
func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// FormPrompter asks through huh forms.
type FormPrompter struct{}

// Select implements Prompter.
func (FormPrompter) Select(title string, options []string) (string, error) {
	var choice string
	field := huh.NewSelect[string]().
		Title(title).
		Options(huh.NewOptions(options...)...).
		Value(&choice)
	if err := newForm(huh.NewGroup(field)).Run(); err != nil {
		return "", err
	}
	return choice, nil
}

// Input implements Prompter.
func (FormPrompter) Input(title, placeholder string) (string, error) {
	value := placeholder
	field := huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(&value)
	if err := newForm(huh.NewGroup(field)).Run(); err != nil {
		return "", err
	}
	if value == "" {
		value = placeholder
	}
	return value, nil
}

const (
	choiceDone = "Done"
	choiceQuit = "Quit"
)

// Wizard walks a navigator through prompts: one select per open tab until
// the edit state is reached, then a loop of reopening tabs until the chart
// is saved.
type Wizard struct {
	nav      *optionspane.Navigator
	renderer *chart.Renderer
	prompt   Prompter
	out      io.Writer
	opts     ChartOptions
}

// WizardResult describes the chart the wizard saved.
type WizardResult struct {
	Request chart.Request
	Path    string
	Scene   *chart.Scene
}

// ErrAborted is returned when the user quits without saving.
var ErrAborted = errors.New("wizard aborted")

// NewWizard creates a wizard. A nil prompter uses huh forms; opts.Path is
// asked for when empty.
func NewWizard(nav *optionspane.Navigator, r *chart.Renderer, p Prompter, out io.Writer, opts ChartOptions) *Wizard {
	if p == nil {
		p = FormPrompter{}
	}
	if out == nil {
		out = io.Discard
	}
	return &Wizard{nav: nav, renderer: r, prompt: p, out: out, opts: opts}
}

// Run executes the interactive flow.
func (w *Wizard) Run(ctx context.Context) (*WizardResult, error) {
	for {
		if err := w.fillOpenTabs(); err != nil {
			return nil, err
		}

		st := w.nav.State()
		req := st.Selection()
		fmt.Fprintf(w.out, "Selection: %s\n", req)

		options := []string{choiceDone}
		for _, tab := range st.Tabs {
			if tab.Visible {
				options = append(options, tab.Title)
			}
		}
		options = append(options, choiceQuit)

		choice, err := w.prompt.Select("Save this chart or change a setting", options)
		if err != nil {
			return nil, err
		}
		switch choice {
		case choiceQuit:
			return nil, ErrAborted
		case choiceDone:
			res, err := w.save(ctx, req)
			if err == nil {
				return res, nil
			}
			var verr *chart.ValidationError
			if !errors.As(err, &verr) {
				return nil, err
			}
			fmt.Fprintf(w.out, "Cannot draw: %v\n", err)
		default:
			if err := w.reopen(st, choice); err != nil {
				return nil, err
			}
		}
	}
}

// fillOpenTabs answers the open tab until none is open.
func (w *Wizard) fillOpenTabs() error {
	for {
		st := w.nav.State()
		if st.Current == optionspane.TabNone {
			return nil
		}
		tab, _ := st.Tab(st.Current)
		var options []string
		for _, it := range tab.VisibleItems() {
			if !it.Invalid {
				options = append(options, it.ID)
			}
		}
		if len(options) == 0 {
			return fmt.Errorf("no usable items in %s", tab.Title)
		}
		choice, err := w.prompt.Select(st.Heading, options)
		if err != nil {
			return err
		}
		if _, err := w.nav.Click(st.Current, choice); err != nil {
			return err
		}
	}
}

func (w *Wizard) reopen(st optionspane.State, title string) error {
	for _, tab := range st.Tabs {
		if tab.Title != title {
			continue
		}
		it, ok := tab.Selected()
		if !ok {
			return fmt.Errorf("%s has no selection to change", title)
		}
		_, err := w.nav.Click(tab.ID, it.ID)
		return err
	}
	return fmt.Errorf("%w: %q", optionspane.ErrUnknownTab, title)
}

func (w *Wizard) save(ctx context.Context, req optionspane.RenderRequest) (*WizardResult, error) {
	creq := chart.Request(req)
	if err := w.renderer.Validate(creq); err != nil {
		return nil, err
	}
	opts := w.opts
	if opts.Path == "" {
		path, err := w.prompt.Input("Output file (.svg or .png)", "chart.svg")
		if err != nil {
			return nil, err
		}
		opts.Path = path
	}
	scene, path, err := SaveChart(ctx, w.renderer, creq, opts)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(w.out, "Wrote %s\n", path)
	return &WizardResult{Request: creq, Path: path, Scene: scene}, nil
}
