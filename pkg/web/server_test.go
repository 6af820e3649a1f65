package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/metrics"
	"github.com/vanderheijden86/tablegraph/pkg/model"
)

func testTable() *datasource.Table {
	return datasource.NewTable(
		[]string{"city", "year", "sales"},
		map[string][]model.Value{
			"city":  {model.TextValue("Oslo"), model.TextValue("Lima"), model.TextValue("Pune")},
			"year":  {model.NumberValue(2020), model.NumberValue(2021), model.NumberValue(2022)},
			"sales": {model.NumberValue(10), model.NumberValue(90), model.NumberValue(50)},
		},
		nil,
	)
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	s, err := NewServer(Config{Provider: testTable(), Chart: chart.Options{}})
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

// noRedirect keeps 303s visible to the test.
var noRedirect = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
}

func do(t *testing.T, method, url string, jsonAPI bool) (int, string) {
	t.Helper()
	req, err := http.NewRequest(method, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	if jsonAPI {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := noRedirect.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func click(t *testing.T, ts *httptest.Server, tab, item string) {
	t.Helper()
	status, body := do(t, http.MethodPost, ts.URL+"/tabs/"+tab+"/items/"+item, false)
	if status != http.StatusSeeOther {
		t.Fatalf("click %s/%s: status %d: %s", tab, item, status, body)
	}
}

func TestPageInitialState(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/", false)
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	for _, want := range []string{
		`id="title"`,
		"Select a graph type",
		`id="selectgraph"`,
		`class="listing graph unselected"`,
		`class="listing load unselected"`,
		`<li id="Bar Graph" class="listing graph unselected">`,
		`<h3 class="title active">Graph Type</h3>`,
		`id="svg_body"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, `id="selectx"`) {
		t.Error("x tab should not be shown before a graph type is chosen")
	}
}

func TestClickFlowDrawsChart(t *testing.T) {
	_, ts := newTestServer(t)

	click(t, ts, "selectgraph", "Bar%20Graph")
	click(t, ts, "selectx", "city")
	click(t, ts, "selecty", "sales")

	status, body := do(t, http.MethodGet, ts.URL+"/", false)
	if status != http.StatusOK {
		t.Fatalf("page status %d", status)
	}
	if !strings.Contains(body, `class="title edit_button"`) || !strings.Contains(body, ">Edit<") {
		t.Error("heading should become the edit button")
	}
	if strings.Contains(body, `id="selectgraph"`) {
		t.Error("panel should be hidden once the edit state is reached")
	}
	if !strings.Contains(body, `<img src="/chart.svg`) {
		t.Error("page should embed the chart")
	}

	resp, err := http.Get(ts.URL + "/chart.svg")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	svg, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chart status %d: %s", resp.StatusCode, svg)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/svg+xml" {
		t.Errorf("content type %q", ct)
	}
	if strings.Count(string(svg), `fill="red"`) != 1 || strings.Count(string(svg), `fill="teal"`) != 2 {
		t.Errorf("expected one red and two teal bars:\n%s", svg)
	}
}

func TestClickErrors(t *testing.T) {
	_, ts := newTestServer(t)

	if status, _ := do(t, http.MethodPost, ts.URL+"/tabs/nope/items/x", false); status != http.StatusNotFound {
		t.Errorf("unknown tab: status %d, want 404", status)
	}
	if status, _ := do(t, http.MethodPost, ts.URL+"/tabs/selectgraph/items/Pie", false); status != http.StatusNotFound {
		t.Errorf("unknown item: status %d, want 404", status)
	}

	click(t, ts, "selectgraph", "Scatter%20Plot")

	status, body := do(t, http.MethodPost, ts.URL+"/tabs/selectgraph/items/Line%20Graph", true)
	if status != http.StatusConflict {
		t.Errorf("hidden item: status %d, want 409", status)
	}
	var payload map[string]string
	if err := json.Unmarshal([]byte(body), &payload); err != nil || payload["error"] == "" {
		t.Errorf("expected a JSON error, got %q (%v)", body, err)
	}

	if status, _ := do(t, http.MethodPost, ts.URL+"/tabs/selectx/items/city", false); status != http.StatusConflict {
		t.Errorf("invalid item: status %d, want 409", status)
	}
}

func TestClickJSONEffects(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := do(t, http.MethodPost, ts.URL+"/tabs/selectgraph/items/Line%20Graph", true)
	if status != http.StatusOK {
		t.Fatalf("status %d: %s", status, body)
	}
	var payload struct {
		Effects []effectView `json:"effects"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatal(err)
	}
	kinds := map[string]bool{}
	for _, e := range payload.Effects {
		kinds[e.Kind] = true
	}
	for _, want := range []string{"collapse", "heading", "panel"} {
		if !kinds[want] {
			t.Errorf("missing %s effect in %+v", want, payload.Effects)
		}
	}
}

func TestToggleEdit(t *testing.T) {
	_, ts := newTestServer(t)

	if status, _ := do(t, http.MethodPost, ts.URL+"/edit", false); status != http.StatusConflict {
		t.Errorf("toggle before edit: status %d, want 409", status)
	}

	click(t, ts, "selectgraph", "Load%20Graph")
	if status, _ := do(t, http.MethodPost, ts.URL+"/edit", false); status != http.StatusSeeOther {
		t.Fatalf("toggle in edit: status %d, want 303", status)
	}
	_, body := do(t, http.MethodGet, ts.URL+"/", false)
	if !strings.Contains(body, `id="selectgraph"`) {
		t.Error("toggling should show the panel again")
	}
	if status, _ := do(t, http.MethodGet, ts.URL+"/chart.svg", false); status != http.StatusNotFound {
		t.Errorf("load graph draws nothing: status %d, want 404", status)
	}
}

func TestInvalidChartReported(t *testing.T) {
	_, ts := newTestServer(t)

	click(t, ts, "selectgraph", "Bar%20Graph")
	click(t, ts, "selectx", "city")
	click(t, ts, "selecty", "sales")
	// reopen the graph tab and switch to scatter; city is not numeric
	click(t, ts, "selectgraph", "Bar%20Graph")
	click(t, ts, "selectgraph", "Scatter%20Plot")

	status, body := do(t, http.MethodGet, ts.URL+"/chart.svg", false)
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status %d, want 422: %s", status, body)
	}
	_, page := do(t, http.MethodGet, ts.URL+"/", false)
	if !strings.Contains(page, `class="error"`) {
		t.Error("page should show the render error")
	}
}

func TestColumnsAPI(t *testing.T) {
	_, ts := newTestServer(t)

	status, body := do(t, http.MethodGet, ts.URL+"/api/columns", false)
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	if want := `{"city":"Text","year":"Number","sales":"Number"}`; body != want {
		t.Errorf("columns = %s, want %s", body, want)
	}

	status, body = do(t, http.MethodGet, ts.URL+"/api/columns/sales", false)
	if status != http.StatusOK || body != "[10,90,50]" {
		t.Errorf("sales = %d %s", status, body)
	}

	if status, _ := do(t, http.MethodGet, ts.URL+"/api/columns/nope", false); status != http.StatusNotFound {
		t.Errorf("unknown column: status %d, want 404", status)
	}
}

func TestStateAPI(t *testing.T) {
	_, ts := newTestServer(t)
	click(t, ts, "selectgraph", "Scatter%20Plot")

	_, body := do(t, http.MethodGet, ts.URL+"/api/state", false)
	var st struct {
		Heading string    `json:"heading"`
		Current string    `json:"current"`
		Edit    bool      `json:"edit"`
		Tabs    []tabView `json:"tabs"`
	}
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatal(err)
	}
	if st.Heading != "Select an x axis" || st.Current != "selectx" || st.Edit {
		t.Errorf("unexpected state %+v", st)
	}
	if st.Tabs[0].Selected != "Scatter Plot" {
		t.Errorf("graph tab selection = %q", st.Tabs[0].Selected)
	}
	for _, it := range st.Tabs[1].Items {
		if it.ID == "city" {
			t.Error("text column should be hidden for a scatter x axis")
		}
	}
}

func TestSetProviderRedraws(t *testing.T) {
	s, ts := newTestServer(t)
	click(t, ts, "selectgraph", "Bar%20Graph")
	click(t, ts, "selectx", "city")
	click(t, ts, "selecty", "sales")

	low := datasource.NewTable(
		[]string{"city", "year", "sales"},
		map[string][]model.Value{
			"city":  {model.TextValue("Oslo")},
			"year":  {model.NumberValue(2020)},
			"sales": {model.NumberValue(5)},
		},
		nil,
	)
	s.SetProvider(context.Background(), low)

	_, svg := do(t, http.MethodGet, ts.URL+"/chart.svg", false)
	if strings.Contains(svg, `fill="red"`) || strings.Count(svg, `class="bar"`) != 1 {
		t.Errorf("chart was not redrawn from the new data:\n%s", svg)
	}
}

func TestMetricsAPI(t *testing.T) {
	metrics.SetEnabled(true)
	_, ts := newTestServer(t)
	click(t, ts, "selectgraph", "Bar%20Graph")
	click(t, ts, "selectx", "city")
	click(t, ts, "selecty", "sales")

	status, body := do(t, http.MethodGet, ts.URL+"/api/metrics", false)
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	var stats []metrics.TimingStats
	if err := json.Unmarshal([]byte(body), &stats); err != nil {
		t.Fatal(err)
	}
	names := map[string]bool{}
	for _, s := range stats {
		names[s.Name] = true
	}
	for _, want := range []string{"panel_dispatch", "column_fetch", "chart_layout", "svg_encode"} {
		if !names[want] {
			t.Errorf("metrics missing %s: %s", want, body)
		}
	}
}

func TestColumnNameWithPercentNotDecodedTwice(t *testing.T) {
	table := datasource.NewTable(
		[]string{"a%20b", "a b"},
		map[string][]model.Value{
			"a%20b": {model.NumberValue(1)},
			"a b":   {model.NumberValue(2)},
		},
		nil,
	)
	s, err := NewServer(Config{Provider: table})
	if err != nil {
		t.Fatal(err)
	}
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	tests := []struct {
		path string
		want string
	}{
		{"/api/columns/a%2520b", "[1]"},
		{"/api/columns/a%20b", "[2]"},
	}
	for _, tt := range tests {
		status, body := do(t, http.MethodGet, ts.URL+tt.path, false)
		if status != http.StatusOK || body != tt.want {
			t.Errorf("GET %s = %d %s, want %s", tt.path, status, body, tt.want)
		}
	}
}
