package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nao1215/sitescore/internal/config"
	"github.com/nao1215/sitescore/internal/pipeline"
)

// defaultDebounce collapses the burst of events editors and scanners
// produce when rewriting a file.
const defaultDebounce = 300 * time.Millisecond

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch <fact-file>...",
		Short: "Re-evaluate fact files whenever they change",
		Long: `Watch evaluates the given fact files once and then again every time a
file is written or replaced, until interrupted.

The parent directories are watched so that scanners which write a new
file and rename it over the old one are noticed as well.

Examples:
  # Re-render the report of a site on every scan
  sitescore watch example.json

  # Watch several sites, JSON output, no history
  sitescore watch -j --no-save facts/a.json facts/b.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: runWatchCmd,
	}

	addEvaluationFlags(cmd)
	cmd.Flags().Duration("debounce", defaultDebounce,
		"Quiet period after a change before re-evaluating")

	return cmd
}

func runWatchCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return err
	}

	logger := setupLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runWatch(ctx, cfg, debounce, cmd.OutOrStdout(), cmd.ErrOrStderr(), logger)
}

// runWatch evaluates every input once and again after each change.
// It returns nil when the context is cancelled.
func runWatch(ctx context.Context, cfg *config.Config, debounce time.Duration, stdout, stderr io.Writer, logger *slog.Logger) (err error) {
	e, err := newEvaluator(cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string, len(cfg.Inputs)) // absolute path -> input as given
	dirs := make(map[string]bool)
	for _, input := range cfg.Inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		watched[abs] = input
		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := watcher.Add(dir); err != nil {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			dirs[dir] = true
		}
	}

	writer := newReportWriter(cfg, stdout)
	evaluate := func(input string) {
		job := pipeline.NewJob(input)
		if err := e.newPipeline().Execute(ctx, job); err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", input, err)
			return
		}
		if err := writeReport(writer, job.Report, false); err != nil {
			logger.Error("report failed", "target", job.Report.Target, "error", err)
		}
	}

	for _, input := range cfg.Inputs {
		evaluate(input)
	}
	fmt.Fprintf(stderr, "watching %d file(s), press Ctrl+C to stop\n", len(watched))

	bounce := newDebouncer(debounce, len(watched))
	defer bounce.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			path := filepath.Clean(event.Name)
			if _, ok := watched[path]; !ok {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("fact file changed", "path", path, "op", event.Op.String())
			bounce.touch(ctx, path)

		case f := <-bounce.due:
			if !bounce.settle(f) {
				continue
			}
			if _, err := os.Stat(f.path); err != nil {
				// Renamed away and not yet replaced.
				logger.Debug("fact file not readable yet", "path", f.path, "error", err)
				continue
			}
			evaluate(watched[f.path])

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err)
		}
	}
}

// firing is a debounce timer expiry for one path.
type firing struct {
	path string
	gen  uint64
}

// debouncer delays work on a path until it has been quiet for delay.
// Timers fire on their own goroutines and hand the path back through
// due, so the receiving loop never runs two evaluations at once. A fire
// that was already queued when the path changed again carries an old
// generation and is dropped by settle.
type debouncer struct {
	delay  time.Duration
	due    chan firing
	timers map[string]*time.Timer
	gens   map[string]uint64
}

func newDebouncer(delay time.Duration, size int) *debouncer {
	return &debouncer{
		delay:  delay,
		due:    make(chan firing, size),
		timers: make(map[string]*time.Timer, size),
		gens:   make(map[string]uint64, size),
	}
}

// touch restarts the quiet period of path.
func (d *debouncer) touch(ctx context.Context, path string) {
	if t, ok := d.timers[path]; ok {
		t.Stop()
	}
	d.gens[path]++
	f := firing{path: path, gen: d.gens[path]}
	d.timers[path] = time.AfterFunc(d.delay, func() {
		select {
		case d.due <- f:
		case <-ctx.Done():
		}
	})
}

// settle reports whether f is the latest fire for its path and, if so,
// forgets the path's timer.
func (d *debouncer) settle(f firing) bool {
	if d.gens[f.path] != f.gen {
		return false
	}
	delete(d.timers, f.path)
	return true
}

func (d *debouncer) stop() {
	for _, t := range d.timers {
		t.Stop()
	}
}
