package web

import (
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/metrics"
	"github.com/vanderheijden86/tablegraph/pkg/optionspane"
)

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"pathEscape": url.PathEscape,
}).Parse(pageHTML))

type pageData struct {
	Title   string
	State   optionspane.State
	Chart   bool
	Error   string
	Version int
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := pageData{
		Title:   s.cfg.Title,
		State:   s.nav.State(),
		Chart:   s.chart != nil,
		Version: s.version,
	}
	if s.chartErr != nil {
		data.Error = s.chartErr.Error()
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// dispatchStatus maps navigator errors onto HTTP statuses.
func dispatchStatus(err error) int {
	switch {
	case errors.Is(err, optionspane.ErrUnknownTab), errors.Is(err, optionspane.ErrUnknownItem):
		return http.StatusNotFound
	case errors.Is(err, optionspane.ErrItemHidden),
		errors.Is(err, optionspane.ErrItemInvalid),
		errors.Is(err, optionspane.ErrNotEditing):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// pathParam returns a decoded route parameter. chi matches on RawPath when
// the request has one, leaving escapes in place.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	tab := optionspane.TabID(pathParam(r, "tab"))
	item := pathParam(r, "item")

	s.mu.Lock()
	fx, err := s.nav.Click(tab, item)
	if err == nil {
		s.apply(r.Context(), fx)
	}
	s.mu.Unlock()

	s.respond(w, r, fx, err)
}

func (s *Server) handleToggleEdit(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	fx, err := s.nav.ToggleEdit()
	s.mu.Unlock()

	s.respond(w, r, fx, err)
}

type effectView struct {
	Kind   string `json:"kind"`
	Tab    string `json:"tab,omitempty"`
	Item   string `json:"item,omitempty"`
	Text   string `json:"text,omitempty"`
	Active bool   `json:"active,omitempty"`
	Render string `json:"render,omitempty"`
}

// respond redirects browsers back to the page and answers API clients with
// the effects of the dispatch.
func (s *Server) respond(w http.ResponseWriter, r *http.Request, fx []optionspane.Effect, err error) {
	if !wantsJSON(r) {
		if err != nil {
			http.Error(w, err.Error(), dispatchStatus(err))
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err != nil {
		writeJSON(w, dispatchStatus(err), map[string]string{"error": err.Error()})
		return
	}
	views := make([]effectView, 0, len(fx))
	for _, e := range fx {
		v := effectView{Kind: e.Kind.String(), Tab: string(e.Tab), Item: e.Item, Text: e.Text, Active: e.Active}
		if e.Kind == optionspane.EffectRender {
			v.Render = e.Render.String()
		}
		views = append(views, v)
	}
	writeJSON(w, http.StatusOK, map[string]any{"effects": views})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	svg, err := s.chart, s.chartErr
	s.mu.Unlock()

	switch {
	case err != nil:
		status := http.StatusInternalServerError
		var verr *chart.ValidationError
		if errors.As(err, &verr) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, err.Error(), status)
	case svg == nil:
		http.Error(w, "no chart drawn", http.StatusNotFound)
	default:
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(svg)
	}
}

type itemView struct {
	ID    string `json:"id"`
	Class string `json:"class"`
}

type tabView struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Visible  bool       `json:"visible"`
	Selected string     `json:"selected,omitempty"`
	Items    []itemView `json:"items"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	st := s.nav.State()
	s.mu.Unlock()

	tabs := make([]tabView, 0, len(st.Tabs))
	for _, t := range st.Tabs {
		tv := tabView{ID: string(t.ID), Title: t.Title, Visible: t.Visible, Selected: t.Choice()}
		for _, it := range t.VisibleItems() {
			tv.Items = append(tv.Items, itemView{ID: it.ID, Class: it.ClassList()})
		}
		tabs = append(tabs, tv)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"heading": st.Heading,
		"current": st.Current,
		"edit":    st.Edit,
		"panel":   st.PanelVisible,
		"tabs":    tabs,
	})
}

// Column reads hold mu so a reload cannot close the provider underneath them.
func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	raw, err := s.provider.Columns()
	s.mu.Unlock()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(raw))
}

func (s *Server) handleColumnData(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "name")
	s.mu.Lock()
	raw, err := s.provider.ColumnData(name)
	s.mu.Unlock()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, datasource.ErrUnknownColumn) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(raw))
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, metrics.AllTimingStats())
}
