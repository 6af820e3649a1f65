// Package ui is the terminal host of the settings panel: it lists the tabs
// and their items, forwards selections to the navigator and keeps the chart
// file and its summary in step with the chosen graph.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/debug"
	"github.com/vanderheijden86/tablegraph/pkg/export"
	"github.com/vanderheijden86/tablegraph/pkg/optionspane"
	"github.com/vanderheijden86/tablegraph/pkg/watcher"
)

// Options configures the terminal host.
type Options struct {
	// Output is where each drawn chart is written. Empty keeps charts in
	// memory and only shows the summary.
	Output string
	Format export.Format
	Chart  chart.Options
	// Reload reopens the data source after the watcher reports a change.
	// The returned func closes the replaced provider's handle.
	Reload  func() (datasource.Provider, func(), error)
	Watcher *watcher.Watcher
	Theme   *Theme
}

// row is one selectable line of the panel.
type row struct {
	tab  optionspane.TabID
	item optionspane.Item
}

// Model is the bubbletea model of the settings panel.
type Model struct {
	nav      *optionspane.Navigator
	renderer *chart.Renderer
	opts     Options

	cursor    int
	renderSeq int
	scene     *chart.Scene
	chartPath string
	summary   string
	status    string
	err       error

	keys     keyMap
	help     help.Model
	showHelp bool
	theme    Theme
	md       *glamour.TermRenderer
	width    int
	height   int
}

// New builds the panel over the columns of p.
func New(p datasource.Provider, opts Options) (Model, error) {
	raw, err := p.Columns()
	if err != nil {
		return Model{}, fmt.Errorf("reading columns: %w", err)
	}
	columns, err := datasource.ParseColumns(raw)
	if err != nil {
		return Model{}, err
	}
	nav, _ := optionspane.New(columns)

	var theme Theme
	if opts.Theme != nil {
		theme = *opts.Theme
	} else {
		theme = DefaultTheme(lipgloss.DefaultRenderer())
	}

	return Model{
		nav:      nav,
		renderer: chart.NewRenderer(p, opts.Chart),
		opts:     opts,
		keys:     defaultKeys(),
		help:     help.New(),
		theme:    theme,
		status:   fmt.Sprintf("%d columns", len(columns)),
	}, nil
}

type chartMsg struct {
	seq   int
	req   optionspane.RenderRequest
	scene *chart.Scene
	path  string
	err   error
}

type fileChangedMsg struct{}

type reloadedMsg struct {
	provider datasource.Provider
	release  func()
	err      error
}

// WatchFileCmd waits for the next change reported by w.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return fileChangedMsg{}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	if m.opts.Watcher != nil {
		return WatchFileCmd(m.opts.Watcher)
	}
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.md = newMarkdownRenderer(msg.Width - 4)
		if m.scene != nil {
			m.summary = renderMarkdown(m.md, Summarize(m.scene).Markdown())
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case chartMsg:
		return m.applyChart(msg), nil

	case fileChangedMsg:
		var cmds []tea.Cmd
		if m.opts.Reload != nil {
			reload := m.opts.Reload
			cmds = append(cmds, func() tea.Msg {
				p, release, err := reload()
				return reloadedMsg{provider: p, release: release, err: err}
			})
		}
		if m.opts.Watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.opts.Watcher))
		}
		return m, tea.Batch(cmds...)

	case reloadedMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("reloading data: %w", msg.err)
			return m, nil
		}
		m.renderer = chart.NewRenderer(msg.provider, m.opts.Chart)
		if msg.release != nil {
			// renders still running on the old handle are stale once the
			// redraw below bumps renderSeq
			msg.release()
		}
		m.status = "data reloaded"
		if !m.nav.State().Edit {
			return m, nil
		}
		cmd := m.renderCmd(m.nav.Selection())
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		return m.selectRow()
	case key.Matches(msg, m.keys.Edit):
		fx, err := m.nav.ToggleEdit()
		return m.afterDispatch(fx, err)
	case key.Matches(msg, m.keys.Copy):
		if m.chartPath == "" {
			m.status = "no chart written yet"
			break
		}
		if err := clipboard.WriteAll(m.chartPath); err != nil {
			m.err = fmt.Errorf("copying to clipboard: %w", err)
			break
		}
		m.status = "copied " + m.chartPath
	}
	return m, nil
}

func (m Model) selectRow() (tea.Model, tea.Cmd) {
	rows := m.rows()
	if m.cursor >= len(rows) {
		return m, nil
	}
	r := rows[m.cursor]
	fx, err := m.nav.Click(r.tab, r.item.ID)
	return m.afterDispatch(fx, err)
}

// afterDispatch applies the navigator's effects: the state is re-read for
// display, and every render effect becomes a render command.
func (m Model) afterDispatch(fx []optionspane.Effect, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.status = m.nav.State().Heading

	var cmds []tea.Cmd
	for _, req := range optionspane.Renders(fx) {
		cmds = append(cmds, m.renderCmd(req))
	}
	m.clampCursor()
	return m, tea.Batch(cmds...)
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) renderCmd(req optionspane.RenderRequest) tea.Cmd {
	m.renderSeq++
	return m.renderCmdSeq(req, m.renderSeq)
}

func (m Model) renderCmdSeq(req optionspane.RenderRequest, seq int) tea.Cmd {
	renderer := m.renderer
	out, format := m.opts.Output, m.opts.Format
	return func() tea.Msg {
		msg := chartMsg{seq: seq, req: req}
		if !req.Drawable() {
			return msg
		}
		creq := chart.Request(req)
		if out == "" {
			msg.scene, msg.err = renderer.Build(context.Background(), creq)
			return msg
		}
		msg.scene, msg.path, msg.err = export.SaveChart(context.Background(), renderer, creq,
			export.ChartOptions{Path: out, Format: format})
		return msg
	}
}

func (m Model) applyChart(msg chartMsg) Model {
	if msg.seq < m.renderSeq {
		debug.Log("ui: dropping stale render %d (latest %d)", msg.seq, m.renderSeq)
		return m
	}
	m.scene, m.summary = nil, ""
	if msg.err != nil {
		m.err = msg.err
		var verr *chart.ValidationError
		if errors.As(msg.err, &verr) {
			m.status = "cannot draw " + msg.req.String()
		}
		return m
	}
	if msg.scene == nil {
		m.status = fmt.Sprintf("%s has no chart", msg.req.Kind)
		return m
	}
	m.err = nil
	m.scene = msg.scene
	if msg.path != "" {
		m.chartPath = msg.path
		m.status = "wrote " + msg.path
	}
	if m.md == nil {
		m.md = newMarkdownRenderer(m.width - 4)
	}
	m.summary = renderMarkdown(m.md, Summarize(msg.scene).Markdown())
	return m
}

// rows lists the selectable lines: the shown items of each shown tab.
func (m Model) rows() []row {
	st := m.nav.State()
	if !st.PanelVisible {
		return nil
	}
	var out []row
	for _, tab := range st.Tabs {
		if !tab.Visible {
			continue
		}
		for _, it := range tab.VisibleItems() {
			out = append(out, row{tab: tab.ID, item: it})
		}
	}
	return out
}

// Scene returns the last drawn chart, or nil.
func (m Model) Scene() *chart.Scene {
	return m.scene
}

// State returns a copy of the navigator state.
func (m Model) State() optionspane.State {
	return m.nav.State()
}

// Err returns the last error shown in the status line.
func (m Model) Err() error {
	return m.err
}

// View implements tea.Model.
func (m Model) View() string {
	t := m.theme
	st := m.nav.State()
	width := m.width
	if width <= 0 {
		width = 60
	}

	var b strings.Builder
	b.WriteString(t.Header.Render(st.Heading))
	b.WriteString("\n\n")

	if st.PanelVisible {
		cursor := 0
		rows := m.rows()
		for _, tab := range st.Tabs {
			if !tab.Visible {
				continue
			}
			title := t.TabTitle
			if tab.TitleActive {
				title = t.TabActive
			}
			b.WriteString(title.Render(tab.Title))
			b.WriteString("\n")
			for _, it := range tab.VisibleItems() {
				line := truncate(it.ID, width-6, "…")
				style := t.Item
				switch {
				case it.Invalid:
					style = t.ItemInvalid
				case it.State == optionspane.Selected:
					style = t.ItemChosen
				}
				if cursor < len(rows) && cursor == m.cursor {
					b.WriteString(t.Cursor.Render(padRight(line, width-6)))
				} else {
					b.WriteString(style.Render(line))
				}
				b.WriteString("\n")
				cursor++
			}
		}
	}

	if m.summary != "" {
		b.WriteString("\n")
		b.WriteString(t.Panel.Render(m.summary))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(t.Error.Render(m.err.Error()))
	} else {
		b.WriteString(t.Status.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
