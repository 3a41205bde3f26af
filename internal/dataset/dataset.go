package dataset

import (
	"context"
	"fmt"
	"io"
	"os"

	"heart-visualizer/internal/config"
	"heart-visualizer/internal/logger"

	"github.com/tobgu/qframe"
	qcsv "github.com/tobgu/qframe/config/csv"
)

// Dataset is a merged feature/target table plus the metadata it came with
type Dataset struct {
	ID       int
	Name     string
	Source   string
	Features []string
	Targets  []string
	Frame    qframe.QFrame
}

// Columns returns features followed by targets
func (d *Dataset) Columns() []string {
	cols := make([]string, 0, len(d.Features)+len(d.Targets))
	cols = append(cols, d.Features...)
	return append(cols, d.Targets...)
}

// readFrame parses a headered CSV, keeping features then targets as float
// columns. Empty cells become nulls.
func readFrame(r io.Reader, features, targets []string) (qframe.QFrame, error) {
	columns := make([]string, 0, len(features)+len(targets))
	columns = append(columns, features...)
	columns = append(columns, targets...)

	colTypes := make(map[string]string, len(columns))
	for _, c := range columns {
		colTypes[c] = "float"
	}

	frame := qframe.ReadCSV(r, qcsv.EmptyNull(true), qcsv.Types(colTypes))
	if frame.Err != nil {
		return frame, frame.Err
	}
	frame = frame.Select(columns...)
	return frame, frame.Err
}

// LoadFile reads a dataset from a local CSV with the same layout as the
// repository data file.
func LoadFile(path string, features, targets []string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	frame, err := readFrame(f, features, targets)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &Dataset{
		Name:     "Heart Disease (local)",
		Source:   path,
		Features: append([]string(nil), features...),
		Targets:  append([]string(nil), targets...),
		Frame:    frame,
	}, nil
}

// Load picks the local file when configured, otherwise the remote repository.
func Load(ctx context.Context, cfg config.DatasetConfig, log logger.Logger) (*Dataset, error) {
	if log == nil {
		log = logger.Nop()
	}

	if cfg.File != "" {
		log.Info("Dataset", "loading local dataset", map[string]interface{}{"path": cfg.File})
		return LoadFile(cfg.File, cfg.Features, cfg.Targets)
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	client := NewClient(cfg.APIURL, nil, log)
	defer client.CloseIdleConnections()

	log.Info("Dataset", "fetching dataset", map[string]interface{}{
		"id":      cfg.ID,
		"api_url": cfg.APIURL,
	})
	return client.Fetch(ctx, cfg.ID)
}
