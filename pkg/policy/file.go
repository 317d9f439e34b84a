package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	"landguard-hq/landguard/pkg/rules"
)

// DefaultDebounceInterval is the quiet period after a file event before a
// change event is emitted. Editors often write a file several times in
// quick succession; debouncing collapses those into one reload.
const DefaultDebounceInterval = 100 * time.Millisecond

// FileSource loads thresholds from a YAML file and watches it for changes.
//
// The file holds the four threshold fields; omitted fields keep their
// default values:
//
//	encroachment_ratio: 0.01
//	illegal_construction_ratio: 1.10
//	unused_land_heat_cutoff: 0.05
//	change_score_cutoff: 0.70
type FileSource struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// NewFileSource creates a file-backed policy source for the given path.
// The path must carry a YAML extension; the watcher filters events by
// name, so a mis-typed path would otherwise fail silently forever.
func NewFileSource(path string, logger *slog.Logger) (*FileSource, error) {
	if path == "" {
		return nil, NewSourceError("file", "init", "path cannot be empty", nil)
	}
	if !IsThresholdsFile(path) {
		return nil, NewSourceError("file", "init",
			fmt.Sprintf("path %q is not a YAML thresholds file", path), nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{
		path:     path,
		debounce: DefaultDebounceInterval,
		logger:   logger.With("component", "policy.file", "path", path),
	}, nil
}

// Load reads and validates the thresholds file.
func (s *FileSource) Load(_ context.Context) (rules.Thresholds, error) {
	return loadThresholdsFile(s.path)
}

// Watch emits an Event after each debounced change to the thresholds file.
// Watching the parent directory rather than the file itself survives the
// rename-and-replace pattern used by atomic writes.
func (s *FileSource) Watch(ctx context.Context) (<-chan Event, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, NewSourceError("file", "watch", "failed to create watcher", err)
	}

	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, NewSourceError("file", "watch", fmt.Sprintf("failed to watch %q", dir), err)
	}

	events := make(chan Event, 1)
	debouncer := newDebouncer(s.debounce)

	go func() {
		defer close(events)
		defer watcher.Close()
		defer debouncer.Stop()

		s.logger.Info("watching thresholds file",
			"debounce_ms", s.debounce.Milliseconds(),
		)

		base := filepath.Base(s.path)
		for {
			select {
			case <-ctx.Done():
				return

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !s.shouldProcess(ev, base) {
					continue
				}
				s.logger.Debug("file event detected", "op", ev.Op.String())
				debouncer.Trigger(func() {
					select {
					case events <- Event{
						Source:    s.Name(),
						Detail:    ev.Op.String(),
						Timestamp: time.Now(),
					}:
					case <-ctx.Done():
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("file watcher error", "error", err)
			}
		}
	}()

	return events, nil
}

// Name implements Source.
func (s *FileSource) Name() string { return "file" }

func (s *FileSource) shouldProcess(ev fsnotify.Event, base string) bool {
	if ev.Op&fsnotify.Chmod == fsnotify.Chmod {
		return false
	}
	return filepath.Base(ev.Name) == base
}

// loadThresholdsFile parses a thresholds YAML file, layering the file's
// fields over the defaults.
func loadThresholdsFile(path string) (rules.Thresholds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Thresholds{}, NewSourceError("file", "load", fmt.Sprintf("failed to read %q", path), err)
	}

	t := rules.DefaultThresholds()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return rules.Thresholds{}, NewSourceError("file", "load", fmt.Sprintf("failed to parse %q", path), err)
	}

	if err := t.Validate(); err != nil {
		return rules.Thresholds{}, NewSourceError("file", "load", fmt.Sprintf("invalid thresholds in %q", path), err)
	}
	return t, nil
}

// IsThresholdsFile reports whether a path looks like a thresholds policy
// file by extension.
func IsThresholdsFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// debouncer collapses rapid event bursts into a single callback after a
// quiet period.
type debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	stopped  bool
}

func newDebouncer(interval time.Duration) *debouncer {
	return &debouncer{interval: interval}
}

// Trigger schedules the callback, replacing any pending one.
func (d *debouncer) Trigger(callback func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, callback)
}

// Stop cancels any pending callback.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
