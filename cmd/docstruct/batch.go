package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docstruct/internal/linesource"
	"github.com/dgallion1/docstruct/internal/metrics"
	"github.com/dgallion1/docstruct/internal/pipeline"
	"github.com/dgallion1/docstruct/internal/render"
)

var (
	outDir      string
	workers     int
	metricsFile string
)

// batchSummary is written to stdout when a batch finishes.
type batchSummary struct {
	Jobs   []pipeline.JobSnapshot `json:"jobs" yaml:"jobs"`
	Counts map[string]int         `json:"counts" yaml:"counts"`
	Stats  pipeline.StatsSnapshot `json:"stats" yaml:"stats"`
}

var batchCmd = &cobra.Command{
	Use:   "batch <file|dir>...",
	Short: "Build many documents on a worker pool",
	Long: `Batch builds every supported document (.json, .jsonl, .ndjson) named on
the command line or found under the given directories, writing one output
file per document into --out-dir. Byte-identical inputs are built once.
Inputs sharing a base name (x/report.json, y/report.json) are written as
report.json, report-2.json, ... in the order the files sort.

A JSON (or YAML with -o yaml) summary of every job is printed to stdout.

Examples:
  docstruct batch --out-dir out/ docs/
  docstruct batch --out-dir out/ -o html --workers 8 a.json b.jsonl
  docstruct batch --out-dir out/ --metrics-file /var/lib/node_exporter/docstruct.prom docs/`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if outDir == "" {
			return errors.New("--out-dir is required")
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}

		files, err := collectInputs(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return errors.New("no supported input files found")
		}

		d, err := cfg.Dispatcher()
		if err != nil {
			return err
		}
		runCfg := cfg
		if runCfg.MaxQueueSize < len(files) {
			runCfg.MaxQueueSize = len(files)
		}

		m := metrics.New()
		orch := pipeline.NewOrchestrator(runCfg, d, pipeline.Output{Dir: outDir, Format: format()}, m, logger)
		orch.Start(cmd.Context())

		for _, path := range files {
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Error("read input", "file", path, "error", err)
				continue
			}
			if err := orch.Submit(pipeline.NewJob(path, structureType, data)); err != nil {
				logger.Error("submit failed", "file", path, "error", err)
			}
		}

		drainErr := orch.Drain(cmd.Context())
		orch.Stop()

		summary := batchSummary{Counts: map[string]int{}, Stats: orch.Stats()}
		failed := 0
		for _, job := range orch.Jobs() {
			snap := job.Snapshot()
			summary.Jobs = append(summary.Jobs, snap)
			summary.Counts[string(snap.Status)]++
			if snap.Status == pipeline.StatusFailed {
				failed++
			}
		}
		logger.Info("batch complete", "jobs", len(summary.Jobs), "failed", failed, "p95_ms", summary.Stats.P95Ms)

		if metricsFile != "" {
			if err := m.WriteTextfile(metricsFile); err != nil {
				logger.Error("write metrics", "file", metricsFile, "error", err)
			}
		}

		summaryFormat := render.FormatJSON
		if format() == render.FormatYAML {
			summaryFormat = render.FormatYAML
		}
		if err := render.Encode(cmd.OutOrStdout(), summaryFormat, summary); err != nil {
			return err
		}

		if drainErr != nil {
			return fmt.Errorf("batch interrupted: %w", drainErr)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d documents failed", failed, len(summary.Jobs))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVar(&outDir, "out-dir", "", "directory for rendered documents (required)")
	batchCmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (default from config, 4)")
	batchCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus text metrics to this file")
}

// collectInputs expands directories into the supported files beneath
// them. Explicit files are kept whatever their extension.
func collectInputs(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && linesource.IsSupportedExtension(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}
