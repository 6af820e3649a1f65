package datasource_test

import (
	"testing"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/model"
	"github.com/vanderheijden86/tablegraph/pkg/testutil"
)

func fixtureColumns() model.ColumnMap {
	return model.ColumnMap{
		{Name: "city", Type: model.TypeText},
		{Name: "year", Type: model.TypeNumber},
		{Name: "sales", Type: model.TypeNumber},
	}
}

func column(f testutil.Fixture, idx int) []string {
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = row[idx]
	}
	return out
}

func TestOpenGeneratedCSV(t *testing.T) {
	f := testutil.NewDefault().Rows(25)
	path := testutil.WriteFile(t, "gen.csv", f.CSV())

	p, closer, err := datasource.Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()

	testutil.AssertColumns(t, p, fixtureColumns())
	testutil.AssertColumnData(t, p, "city", column(f, 0))
	testutil.AssertColumnData(t, p, "sales", column(f, 2))
}

func TestOpenGeneratedJSON(t *testing.T) {
	f := testutil.NewDefault().Rows(25)
	path := testutil.WriteFile(t, "gen.json", f.JSON())

	p, closer, err := datasource.Open(path, "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer closer.Close()

	testutil.AssertColumns(t, p, fixtureColumns())
	testutil.AssertColumnData(t, p, "year", column(f, 1))
}
