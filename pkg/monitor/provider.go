package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"landguard-hq/landguard/pkg/detection"
)

// SignalProvider supplies the plots to evaluate and their detection
// signals. Implementations wrap whatever upstream produces signals: a
// directory of analysis output files, an API, a message queue.
type SignalProvider interface {
	// Plots returns the identifiers of all plots with available signals.
	Plots(ctx context.Context) ([]string, error)

	// Fetch returns the current signals for one plot.
	Fetch(ctx context.Context, plotID string) (detection.Signals, error)
}

// FileProvider reads per-plot signal files from a directory. Each plot is
// a <plot-id>.json file holding one serialized Signals document.
type FileProvider struct {
	dir string
}

// NewFileProvider creates a provider over a signals directory.
func NewFileProvider(dir string) (*FileProvider, error) {
	if dir == "" {
		return nil, fmt.Errorf("signals directory cannot be empty")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("signals directory %q: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("signals path %q is not a directory", dir)
	}
	return &FileProvider{dir: dir}, nil
}

// Plots lists plot IDs from signal file names, sorted for deterministic
// cycle order.
func (p *FileProvider) Plots(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list signals directory: %w", err)
	}

	var plots []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, ".json") {
			continue
		}
		plots = append(plots, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(plots)
	return plots, nil
}

// Fetch parses the signal file for one plot. The plot_id field inside the
// file wins over the file name when both are present.
func (p *FileProvider) Fetch(_ context.Context, plotID string) (detection.Signals, error) {
	path := filepath.Join(p.dir, plotID+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return detection.Signals{}, fmt.Errorf("failed to read signals for plot %q: %w", plotID, err)
	}

	var s detection.Signals
	if err := json.Unmarshal(data, &s); err != nil {
		return detection.Signals{}, fmt.Errorf("failed to parse signals for plot %q: %w", plotID, err)
	}
	if s.PlotID == "" {
		s.PlotID = plotID
	}
	return s, nil
}
