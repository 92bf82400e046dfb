package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/dgallion1/docstruct/internal/doctree"
	"github.com/dgallion1/docstruct/internal/linesource"
	"github.com/dgallion1/docstruct/internal/metrics"
	"github.com/dgallion1/docstruct/internal/render"
	"github.com/dgallion1/docstruct/internal/structure"
)

// Output says where rendered trees go. An empty Dir renders nothing.
type Output struct {
	Dir    string
	Format render.Format
}

// Path returns the output file for an input filename.
func (o Output) Path(filename string) string {
	base := filepath.Base(filename)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(o.Dir, base+o.Format.Extension())
}

// outputNames hands out output paths so that no two jobs share one.
// A path already taken gets a -2, -3, ... suffix before its extension.
type outputNames struct {
	mu    sync.Mutex
	taken map[string]bool
}

func newOutputNames() *outputNames {
	return &outputNames{taken: make(map[string]bool)}
}

func (n *outputNames) reserve(path string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	candidate := path
	for i := 2; n.taken[candidate]; i++ {
		candidate = fmt.Sprintf("%s-%d%s", stem, i, ext)
	}
	n.taken[candidate] = true
	return candidate
}

// Worker processes a single document job.
type Worker struct {
	dispatcher structure.Dispatcher
	decode     linesource.Options
	jobs       *JobStore
	stats      *BuildStats
	metrics    *metrics.Metrics
	out        Output
	log        *slog.Logger
}

func NewWorker(d structure.Dispatcher, decode linesource.Options, jobs *JobStore, stats *BuildStats, m *metrics.Metrics, out Output, log *slog.Logger) *Worker {
	return &Worker{
		dispatcher: d,
		decode:     decode,
		jobs:       jobs,
		stats:      stats,
		metrics:    m,
		out:        out,
		log:        log,
	}
}

// Process decodes, builds and renders one document.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "file", job.Filename)
	label := job.Structure
	defer func() {
		job.releaseData()
		if w.metrics != nil {
			w.metrics.IncrementBuilds(label, string(job.Snapshot().Status))
		}
	}()

	kind, err := w.dispatcher.Resolve(job.Structure)
	if err != nil {
		log.Error("invalid structure type", "error", err)
		w.fail(job, "resolving", err)
		return
	}
	label = kind.String()

	// Phase 1: Decode
	job.SetStatus(StatusDecoding, "decoding")
	data := job.FileData()

	hash := ContentHashHex(data)
	job.SetContentHash(hash)
	if owner, ok := w.jobs.Claim(kind.String()+":"+hash, job.ID); !ok {
		log.Info("duplicate document, skipping", "duplicate_of", owner)
		job.SetDuplicateOf(owner)
		job.SetStatus(StatusDupSkipped, "dedup")
		return
	}

	dec, err := linesource.ForFile(job.Filename, w.decode)
	if err != nil {
		log.Error("unsupported format", "error", err)
		w.fail(job, "decoding", err)
		return
	}
	doc, err := dec.Decode(bytes.NewReader(data))
	if err != nil {
		log.Error("decode failed", "error", err)
		w.fail(job, "decoding", fmt.Errorf("decode: %w", err))
		return
	}
	job.SetInput(len(doc.Lines), len(doc.Tables))
	if w.metrics != nil {
		w.metrics.AddInput(len(doc.Lines), len(doc.Tables))
	}

	if err := ctx.Err(); err != nil {
		w.fail(job, "decoding", err)
		return
	}

	// Phase 2: Build
	job.SetStatus(StatusBuilding, "building "+kind.String())
	start := time.Now()
	tree, err := w.dispatcher.Build(kind, doc)
	elapsed := time.Since(start)
	if err != nil {
		var cv *structure.ContractViolation
		if errors.As(err, &cv) {
			log.Error("build rejected input", "line_index", cv.Index, "page_id", cv.PageID, "line_id", cv.LineID, "error", err)
		} else {
			log.Error("build failed", "error", err)
		}
		w.fail(job, "building", err)
		return
	}
	job.SetNodes(tree.Len())
	w.stats.Record(elapsed, tree.Len())
	if w.metrics != nil {
		w.metrics.ObserveBuild(kind.String(), elapsed, tree.Len())
	}
	log.Info("built structure", "structure", kind.String(), "lines", len(doc.Lines), "nodes", tree.Len(), "duration_ms", elapsed.Milliseconds())

	// Phase 3: Render
	if w.out.Dir != "" {
		job.SetStatus(StatusRendering, "rendering "+string(w.out.Format))
		path, err := w.writeOutput(job, tree)
		if err != nil {
			log.Error("render failed", "error", err)
			w.fail(job, "rendering", err)
			return
		}
		job.SetOutputPath(path)
	}

	job.SetStatus(StatusCompleted, "done")
}

func (w *Worker) fail(job *Job, phase string, err error) {
	job.AddError(err.Error())
	job.SetStatus(StatusFailed, phase)
}

func (w *Worker) writeOutput(job *Job, tree *doctree.Tree) (string, error) {
	path := job.outputTarget()
	if path == "" {
		path = w.out.Path(job.Filename)
	}
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create output: %w", err)
	}
	if err := render.Write(f, w.out.Format, tree); err != nil {
		f.Close()
		return "", fmt.Errorf("render %s: %w", w.out.Format, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close output: %w", err)
	}
	return path, nil
}
