// Package export writes charts to files and provides the interactive chart
// wizard.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/debug"
)

// Format is an output file format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ChartOptions controls chart file export.
type ChartOptions struct {
	Path   string // output path; format inferred from extension when Format is empty
	Format Format // "svg" or "png" (case-insensitive)
}

// ResolveFormat settles the output format and path. An explicit format wins;
// otherwise the extension decides, and a path without one gets ".svg".
func ResolveFormat(path string, format Format) (Format, string, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(string(format), ".")))
	if f == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".svg":
			f = FormatSVG
		case ".png":
			f = FormatPNG
		default:
			f = FormatSVG
			if path != "" && filepath.Ext(path) == "" {
				path += ".svg"
			}
		}
	}
	if f != FormatSVG && f != FormatPNG {
		return "", path, fmt.Errorf("unsupported format %q (want svg or png)", format)
	}
	if path == "" {
		return "", path, fmt.Errorf("output path is required")
	}
	return f, path, nil
}

// SaveChart builds the requested chart and writes it to opts.Path. It
// returns the laid out scene and the path actually written. Nothing is
// written when the request fails validation.
func SaveChart(ctx context.Context, r *chart.Renderer, req chart.Request, opts ChartOptions) (*chart.Scene, string, error) {
	format, path, err := ResolveFormat(opts.Path, opts.Format)
	if err != nil {
		return nil, "", err
	}

	scene, err := r.Build(ctx, req)
	if err != nil {
		return nil, "", err
	}
	if err := WriteScene(scene, path, format); err != nil {
		return nil, "", err
	}
	debug.Log("export: wrote %s %s to %s", format, req, path)
	return scene, path, nil
}

// WriteScene encodes a laid out chart and replaces the file at path.
func WriteScene(scene *chart.Scene, path string, format Format) error {
	var buf bytes.Buffer
	switch format {
	case FormatSVG:
		if err := chart.WriteSVG(&buf, scene); err != nil {
			return err
		}
	case FormatPNG:
		if err := chart.WritePNG(&buf, scene); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unhandled format %q", format)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create parent dir: %w", err)
	}
	// write then rename so watchers never see a half-written chart
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}
