package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tebeka/atexit"

	"github.com/ja7ad/chipletpower/pkg/chiplet"
	"github.com/ja7ad/chipletpower/pkg/report"
	"github.com/ja7ad/chipletpower/pkg/trace"
)

type opts struct {
	pretty   bool
	logLevel string

	// outputs
	csvPath  string
	jsonPath string
	yamlPath string
	htmlPath string
	plotPath string
}

func main() {
	var o opts

	root := &cobra.Command{
		Use:   "chipletpower",
		Short: "Energy, time and power estimate of a 1024x1024 FC layer on a chiplet accelerator",
		Long: `chipletpower estimates energy, duration and average power of the three
pipeline stages of a fully-connected layer on a simplified chiplet accelerator:
data load (DRAM → SRAM), PE array compute and result write-back.

The model is closed-form and its constants are compiled in. Flags only select
how the results are reported.

Examples:
  chipletpower
  chipletpower --pretty --plot out/trace.png
  chipletpower --csv out/stages.csv --json out/run.json --html out/run.html`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(cmd.ErrOrStderr(), o.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.OutOrStdout(), o)
		},
	}
	bindFlags(root.Flags(), &o)
	atexit.Register(pending.cleanup)

	if err := root.ExecuteContext(context.Background()); err != nil {
		slog.Error(err.Error())
		atexit.Exit(1)
	}
	atexit.Exit(0)
}

func bindFlags(fs *pflag.FlagSet, o *opts) {
	fs.BoolVar(&o.pretty, "pretty", false, "format output as a table instead of summary lines")
	fs.StringVar(&o.logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	fs.StringVar(&o.csvPath, "csv", "", "write per-stage rows to CSV file")
	fs.StringVar(&o.jsonPath, "json", "", "write the run report to JSON file")
	fs.StringVar(&o.yamlPath, "yaml", "", "write the run report to YAML file")
	fs.StringVar(&o.htmlPath, "html", "", "write the run report with the power trace plot to HTML file")
	fs.StringVar(&o.plotPath, "plot", "", "write the power trace plot to file (format from extension: png, svg, pdf)")
}

func setupLogger(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log-level: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func run(ctx context.Context, stdout io.Writer, o opts) error {
	c := chiplet.Default()
	slog.Debug("constants",
		"bits", uint64(c.Bits), "pe", c.NumPE, "clock_hz", float64(c.ClockFreq),
		"load_bw", c.LoadBandwidth, "write_bw", c.WriteBandwidth)

	results, err := chiplet.Run(ctx, c)
	if err != nil {
		return fmt.Errorf("estimate: %w", err)
	}

	tr := trace.Assemble(results)
	rep := report.New(c, results, tr)

	if o.pretty {
		report.WriteTable(stdout, rep)
	} else if err := report.WriteSummary(stdout, results); err != nil {
		return err
	}

	exports := []struct {
		path  string
		write func(io.Writer, report.Report) error
	}{
		{o.csvPath, report.WriteCSV},
		{o.jsonPath, report.WriteJSON},
		{o.yamlPath, report.WriteYAML},
		{o.htmlPath, report.WriteHTML},
	}
	for _, e := range exports {
		if e.path == "" {
			continue
		}
		if err := writeFile(e.path, rep, e.write); err != nil {
			return err
		}
		slog.Info("wrote report", "path", e.path)
	}

	if o.plotPath != "" {
		if err := os.MkdirAll(filepath.Dir(o.plotPath), 0o755); err != nil {
			return err
		}
		pending.track(o.plotPath)
		if err := report.SavePlot(tr, rep.Title, o.plotPath); err != nil {
			return err
		}
		pending.done(o.plotPath)
		slog.Info("wrote plot", "path", o.plotPath)
	}

	slog.Debug("run complete", "run_id", rep.RunID,
		"elapsed_s", rep.ElapsedS, "energy_pj", rep.EnergyPJ, "avg_power_w", rep.AvgPowerW)
	return nil
}

// writeFile creates path (and its directory) and writes rep into it. Until
// the write completes the file is tracked in pending, so a failed run exiting
// through atexit removes it instead of leaving a truncated report.
func writeFile(path string, rep report.Report, write func(io.Writer, report.Report) error) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	pending.track(path)

	err = write(f, rep)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	pending.done(path)
	return nil
}

// partials holds output files created but not yet completely written.
type partials struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

var pending = &partials{paths: make(map[string]struct{})}

func (p *partials) track(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.paths[path] = struct{}{}
}

func (p *partials) done(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.paths, path)
}

// cleanup removes every tracked file. It is registered as an exit handler.
func (p *partials) cleanup() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for path := range p.paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			slog.Warn("remove partial output", "path", path, "err", err)
			continue
		}
		slog.Info("removed partial output", "path", path)
		delete(p.paths, path)
	}
}
