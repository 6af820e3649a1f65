package datasource

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/tablegraph/pkg/model"
)

func TestReadCSV(t *testing.T) {
	in := "year, city ,sales\n2001,Oslo,10\n2002,Bergen,\n2003,Tromsø,90\n"
	tbl, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}

	cols, err := tbl.Columns()
	if err != nil {
		t.Fatal(err)
	}
	if cols != `{"year":"Number","city":"Text","sales":"Number"}` {
		t.Errorf("Columns() = %s", cols)
	}

	sales, err := tbl.ColumnData("sales")
	if err != nil {
		t.Fatal(err)
	}
	if sales != `[10,null,90]` {
		t.Errorf("sales = %s", sales)
	}
	city, err := tbl.ColumnData("city")
	if err != nil {
		t.Fatal(err)
	}
	if city != `["Oslo","Bergen","Tromsø"]` {
		t.Errorf("city = %s", city)
	}

	if _, err := tbl.ColumnData("missing"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}
}

func TestReadCSVEmpty(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty csv")
	}
}

func TestReadJSON(t *testing.T) {
	in := `[{"b": 2, "a": "x"}, {"a": "y", "b": 3, "c": 1.5}]`
	tbl, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	cm := tbl.ColumnMap()
	if got := strings.Join(cm.Names(), ","); got != "b,a,c" {
		t.Errorf("column order = %s, want b,a,c", got)
	}
	if cm.TypeOf("b") != model.TypeNumber || cm.TypeOf("a") != model.TypeText {
		t.Errorf("types = %+v", cm)
	}
	c, err := tbl.ColumnData("c")
	if err != nil {
		t.Fatal(err)
	}
	if c != `[null,1.5]` {
		t.Errorf("c = %s", c)
	}
}

func TestNumberColumns(t *testing.T) {
	tbl := NumberColumns([]string{"x", "y"}, map[string][]float64{"x": {1, 2}, "y": {10, 20}})
	y, err := tbl.ColumnData("y")
	if err != nil {
		t.Fatal(err)
	}
	if y != `[10,20]` {
		t.Errorf("y = %s", y)
	}
}

func TestDetectType(t *testing.T) {
	tests := map[string]SourceType{
		"a.csv":     SourceTypeCSV,
		"a.CSV":     SourceTypeCSV,
		"a.json":    SourceTypeJSON,
		"a.db":      SourceTypeSQLite,
		"a.sqlite3": SourceTypeSQLite,
	}
	for path, want := range tests {
		got, err := DetectType(path)
		if err != nil || got != want {
			t.Errorf("DetectType(%q) = %q, %v; want %q", path, got, err, want)
		}
	}
	if _, err := DetectType("a.xlsx"); !errors.Is(err, ErrUnsupportedSource) {
		t.Errorf("err = %v, want ErrUnsupportedSource", err)
	}
}

func TestOpenCSVFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(path, []byte("x,y\n1,10\n2,90\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	p, closer, err := Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()

	y, err := p.ColumnData("y")
	if err != nil {
		t.Fatal(err)
	}
	if y != `[10,90]` {
		t.Errorf("y = %s", y)
	}
}

func TestOpenSQLite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	stmts := []string{
		`CREATE TABLE measurements (label TEXT, x INTEGER, "y value" REAL)`,
		`INSERT INTO measurements VALUES ('a', 1, 10.5), ('b', 2, NULL), ('c', 3, 90)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			t.Fatalf("%s: %v", s, err)
		}
	}
	db.Close()

	if _, _, err := Open(path, ""); !errors.Is(err, ErrNoTable) {
		t.Fatalf("err = %v, want ErrNoTable", err)
	}

	p, closer, err := Open(path, "measurements")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()

	cols, err := p.Columns()
	if err != nil {
		t.Fatal(err)
	}
	if cols != `{"label":"Text","x":"Number","y value":"Number"}` {
		t.Errorf("Columns() = %s", cols)
	}
	y, err := p.ColumnData("y value")
	if err != nil {
		t.Fatal(err)
	}
	if y != `[10.5,null,90]` {
		t.Errorf("y = %s", y)
	}
	label, err := p.ColumnData("label")
	if err != nil {
		t.Fatal(err)
	}
	if label != `["a","b","c"]` {
		t.Errorf("label = %s", label)
	}
	if _, err := p.ColumnData("nope"); !errors.Is(err, ErrUnknownColumn) {
		t.Errorf("err = %v, want ErrUnknownColumn", err)
	}

	if _, _, err := Open(path, "missing"); err == nil {
		t.Error("expected error for missing table")
	}
}

func TestAffinityType(t *testing.T) {
	tests := map[string]model.ColumnType{
		"INTEGER":      model.TypeNumber,
		"real":         model.TypeNumber,
		"DOUBLE":       model.TypeNumber,
		"NUMERIC(10)":  model.TypeNumber,
		"VARCHAR(20)":  model.TypeText,
		"TEXT":         model.TypeText,
		"":             model.TypeText,
		"BLOB":         model.TypeText,
		"CHARINT":      model.TypeNumber,
		"DATE":         model.TypeText,
		"DECIMAL(5,2)": model.TypeNumber,
	}
	for decl, want := range tests {
		if got := affinityType(decl); got != want {
			t.Errorf("affinityType(%q) = %q, want %q", decl, got, want)
		}
	}
}
