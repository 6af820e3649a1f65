package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/tablegraph/internal/datasource"
	"github.com/vanderheijden86/tablegraph/pkg/chart"
	"github.com/vanderheijden86/tablegraph/pkg/config"
	"github.com/vanderheijden86/tablegraph/pkg/debug"
	"github.com/vanderheijden86/tablegraph/pkg/export"
	"github.com/vanderheijden86/tablegraph/pkg/model"
	"github.com/vanderheijden86/tablegraph/pkg/optionspane"
	"github.com/vanderheijden86/tablegraph/pkg/ui"
	"github.com/vanderheijden86/tablegraph/pkg/version"
	"github.com/vanderheijden86/tablegraph/pkg/watcher"
	"github.com/vanderheijden86/tablegraph/pkg/web"
)

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	configPath := flag.String("config", "", "Config file (default $XDG_CONFIG_HOME/tgraph/config.yaml)")
	dataFlag := flag.String("data", "", "Data file (.csv, .json, .db) or the name of a configured source")
	tableFlag := flag.String("table", "", "Table to read from a SQLite source")
	kindFlag := flag.String("kind", "", "Draw one chart and exit: bar or scatter")
	xFlag := flag.String("x", "", "x axis column (with -kind)")
	yFlag := flag.String("y", "", "y axis column (with -kind)")
	outFlag := flag.String("out", "", "Chart output path")
	formatFlag := flag.String("format", "", "Chart format: svg or png (default from -out extension)")
	serveFlag := flag.Bool("serve", false, "Serve the settings panel over HTTP")
	addrFlag := flag.String("addr", "", "Listen address for -serve")
	wizardFlag := flag.Bool("wizard", false, "Choose a chart through prompts and save it")
	noWatch := flag.Bool("no-watch", false, "Do not reload when the data file changes")
	flag.Parse()

	if *help {
		fmt.Println("Usage: tgraph -data FILE [options]")
		fmt.Println("\nChoose a graph type and axes from a table and draw the chart.")
		flag.PrintDefaults()
		os.Exit(0)
	}
	if *versionFlag {
		fmt.Printf("tgraph %s\n", version.Version)
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *outFlag != "" {
		cfg.Chart.Output = *outFlag
	}
	if *formatFlag != "" {
		cfg.Chart.Format = *formatFlag
	}
	if *addrFlag != "" {
		cfg.Serve.Addr = *addrFlag
	}
	if *noWatch {
		cfg.Watch.Enabled = false
	}

	dataArg := *dataFlag
	if dataArg == "" && flag.NArg() > 0 {
		dataArg = flag.Arg(0)
	}
	if dataArg == "" {
		fmt.Fprintln(os.Stderr, "Error: no data file given (use -data)")
		os.Exit(2)
	}
	path, table := cfg.ResolveData(dataArg, *tableFlag)

	src := &source{path: path, table: table}
	p, err := src.Open()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data: %v\n", err)
		os.Exit(1)
	}
	defer src.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *kindFlag != "":
		err = drawOnce(ctx, p, cfg, *kindFlag, *xFlag, *yFlag)
	case *wizardFlag:
		err = runWizard(ctx, p, cfg, *outFlag == "")
	case *serveFlag:
		err = runServer(ctx, p, src, cfg)
	default:
		err = runTUI(ctx, p, src, cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// source reopens the data file after a change. The handle a reload replaces
// stays open until the host has swapped in the new provider.
type source struct {
	path  string
	table string

	mu     sync.Mutex
	closer io.Closer
}

// Open opens the data file and closes any handle it replaces.
func (s *source) Open() (datasource.Provider, error) {
	p, release, err := s.Reload()
	if err != nil {
		return nil, err
	}
	release()
	return p, nil
}

// Reload opens the data file again. The returned func closes the previous
// handle and must be called once nothing reads the old provider.
func (s *source) Reload() (datasource.Provider, func(), error) {
	p, closer, err := datasource.Open(s.path, s.table)
	if err != nil {
		return nil, nil, err
	}
	s.mu.Lock()
	old := s.closer
	s.closer = closer
	s.mu.Unlock()
	debug.Log("tgraph: opened %s", s.path)
	return p, func() {
		if old != nil {
			_ = old.Close()
		}
	}, nil
}

func (s *source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closer != nil {
		_ = s.closer.Close()
		s.closer = nil
	}
}

func startWatcher(ctx context.Context, src *source, cfg config.Config) *watcher.Watcher {
	if !cfg.Watch.Enabled {
		return nil
	}
	w, err := watcher.New(src.path, watcher.WithDebounceDuration(cfg.Watch.Debounce))
	if err != nil {
		debug.Log("tgraph: watcher disabled: %v", err)
		return nil
	}
	if err := w.Start(ctx); err != nil {
		debug.Log("tgraph: watcher disabled: %v", err)
		return nil
	}
	return w
}

// parseKind accepts a graph type's full name or its first word.
func parseKind(s string) (model.GraphKind, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, k := range model.GraphKinds {
		name := strings.ToLower(string(k))
		if want == name || want == strings.Fields(name)[0] {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown graph type %q", s)
}

func chartOptions(cfg config.Config) export.ChartOptions {
	return export.ChartOptions{Path: cfg.Chart.Output, Format: export.Format(cfg.Chart.Format)}
}

func drawOnce(ctx context.Context, p datasource.Provider, cfg config.Config, kind, x, y string) error {
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	r := chart.NewRenderer(p, cfg.ChartOptions())
	_, path, err := export.SaveChart(ctx, r, chart.Request{Kind: k, X: x, Y: y}, chartOptions(cfg))
	if err != nil {
		return err
	}
	fmt.Println(path)
	return nil
}

// runWizard asks for the output file unless one was given on the command line.
func runWizard(ctx context.Context, p datasource.Provider, cfg config.Config, askPath bool) error {
	raw, err := p.Columns()
	if err != nil {
		return err
	}
	columns, err := datasource.ParseColumns(raw)
	if err != nil {
		return err
	}
	nav, _ := optionspane.New(columns)
	opts := chartOptions(cfg)
	if askPath {
		opts.Path = ""
	}
	w := export.NewWizard(nav, chart.NewRenderer(p, cfg.ChartOptions()), export.FormPrompter{}, os.Stdout, opts)
	if _, err := w.Run(ctx); err != nil && !errors.Is(err, export.ErrAborted) {
		return err
	}
	return nil
}

func runServer(ctx context.Context, p datasource.Provider, src *source, cfg config.Config) error {
	s, err := web.NewServer(web.Config{
		Provider: p,
		Chart:    cfg.ChartOptions(),
		Addr:     cfg.Serve.Addr,
		Title:    "tgraph: " + filepath.Base(src.path),
		Reload:   src.Reload,
		Watcher:  startWatcher(ctx, src, cfg),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Serving on http://%s\n", cfg.Serve.Addr)
	return s.Serve(ctx)
}

func runTUI(ctx context.Context, p datasource.Provider, src *source, cfg config.Config) error {
	if f, err := openLog(); err == nil {
		debug.SetOutput(f)
		defer f.Close()
	}

	w := startWatcher(ctx, src, cfg)
	if w != nil {
		defer w.Stop()
	}
	m, err := ui.New(p, ui.Options{
		Output:  cfg.Chart.Output,
		Format:  export.Format(cfg.Chart.Format),
		Chart:   cfg.ChartOptions(),
		Reload:  src.Reload,
		Watcher: w,
	})
	if err != nil {
		return err
	}

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = prog.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

// openLog opens the debug log under the state directory so log lines do not
// tear the alternate screen.
func openLog() (*os.File, error) {
	dir := config.StateDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	name := filepath.Join(dir, "debug-"+time.Now().Format("20060102")+".log")
	return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
