// Package testutil provides deterministic table fixtures and assertions for
// tests of the data sources, renderer and hosts.
package testutil

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/model"
)

// GeneratorConfig controls fixture generation.
type GeneratorConfig struct {
	Seed        int64    // random seed (0 = 42)
	TextColumns []string // columns filled with labels
	NumColumns  []string // columns filled with numbers in [Min, Max)
	Min, Max    float64
	Labels      []string // label pool; rows beyond it get numbered labels
}

// DefaultConfig returns one label column and two numeric columns in [0, 100).
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:        42,
		TextColumns: []string{"city"},
		NumColumns:  []string{"year", "sales"},
		Min:         0,
		Max:         100,
		Labels:      []string{"Oslo", "Lima", "Pune", "Kyiv", "Riga", "Nuuk", "Baku", "Doha"},
	}
}

// Generator creates fixtures. Output is deterministic for a given seed.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	if cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if cfg.Max <= cfg.Min {
		cfg.Max = cfg.Min + 100
	}
	return &Generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed))}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

// Fixture is a generated table in column order.
type Fixture struct {
	Names []string
	Types map[string]model.ColumnType
	Rows  [][]string
}

// Rows generates a fixture with n rows. Numbers are rounded to one decimal.
func (g *Generator) Rows(n int) Fixture {
	f := Fixture{Types: map[string]model.ColumnType{}}
	for _, name := range g.cfg.TextColumns {
		f.Names = append(f.Names, name)
		f.Types[name] = model.TypeText
	}
	for _, name := range g.cfg.NumColumns {
		f.Names = append(f.Names, name)
		f.Types[name] = model.TypeNumber
	}
	for i := 0; i < n; i++ {
		row := make([]string, 0, len(f.Names))
		for range g.cfg.TextColumns {
			row = append(row, g.label(i))
		}
		for range g.cfg.NumColumns {
			v := g.cfg.Min + g.rng.Float64()*(g.cfg.Max-g.cfg.Min)
			row = append(row, strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64))
		}
		f.Rows = append(f.Rows, row)
	}
	return f
}

func (g *Generator) label(i int) string {
	if i < len(g.cfg.Labels) {
		return g.cfg.Labels[i]
	}
	return fmt.Sprintf("row-%d", i)
}

// Column returns the values of one column.
func (f Fixture) Column(name string) []model.Value {
	idx := -1
	for i, n := range f.Names {
		if n == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]model.Value, len(f.Rows))
	for i, row := range f.Rows {
		out[i] = model.TextValue(row[idx])
	}
	return out
}

// Table returns the fixture as an in-memory provider.
func (f Fixture) Table() *datasource.Table {
	data := make(map[string][]model.Value, len(f.Names))
	for _, name := range f.Names {
		data[name] = f.Column(name)
	}
	return datasource.NewTable(f.Names, data, f.Types)
}

// CSV renders the fixture with a header row.
func (f Fixture) CSV() string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(f.Names)
	_ = w.WriteAll(f.Rows)
	return buf.String()
}

// JSON renders the fixture as an array of records. Numeric columns are
// written as numbers.
func (f Fixture) JSON() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range f.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, name := range f.Names {
			if j > 0 {
				buf.WriteByte(',')
			}
			key, _ := json.Marshal(name)
			buf.Write(key)
			buf.WriteByte(':')
			if f.Types[name] == model.TypeNumber {
				buf.WriteString(row[j])
			} else {
				val, _ := json.Marshal(row[j])
				buf.Write(val)
			}
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.String()
}

// WriteFile writes content to name under a fresh temp dir and returns the
// path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}
