package scr

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/johanvictor/FinDocAPI/internal/analysis/extract"
	"github.com/johanvictor/FinDocAPI/internal/config"
	"github.com/johanvictor/FinDocAPI/internal/domain/docModel"
	"github.com/johanvictor/FinDocAPI/internal/metrics"
	"github.com/johanvictor/FinDocAPI/pkg/logger_i"
)

// extractGrid runs the external table detector over the PDF and concatenates
// every detected table, in detection order, into one positional grid. The
// detector writes one CSV per detected table into an output directory; nothing
// detected means an empty grid, not an error — the caller decides if that is
// fatal.
func extractGrid(ctx context.Context, runner extract.Runner, pdfBytes []byte, logger *logger_i.Logger) (docModel.PositionalGrid, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("table_detection", time.Since(start)) }()

	tmpID := uuid.New().String()[:8]
	pdfPath := filepath.Join(os.TempDir(), fmt.Sprintf("scr_%s.pdf", tmpID))
	if err := os.WriteFile(pdfPath, pdfBytes, 0600); err != nil {
		return nil, fmt.Errorf("could not stage pdf for table detection: %w", err)
	}
	defer os.Remove(pdfPath)

	outDir, err := os.MkdirTemp("", "scr_tables_"+tmpID+"_*")
	if err != nil {
		return nil, fmt.Errorf("could not create table output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	// <detector> --pages all --format csv --output <dir> <in.pdf>
	_, stderr, err := runner.Run(ctx, config.TableDetectorBinary, "--pages", "all", "--format", "csv", "--output", outDir, pdfPath)
	if err != nil {
		return nil, fmt.Errorf("table detector: %w (%s)", err, strings.TrimSpace(string(stderr)))
	}

	tableFiles, _ := filepath.Glob(filepath.Join(outDir, "*.csv"))
	sort.Strings(tableFiles)
	logger.Debug("table detection finished", "tables", len(tableFiles))

	var grid docModel.PositionalGrid
	for _, tf := range tableFiles {
		rows, err := readTableCSV(tf)
		if err != nil {
			logger.Error("skipping unreadable table file", "file", tf, "error", err)
			continue
		}
		grid = append(grid, rows...)
	}
	return grid, nil
}

func readTableCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	//cells can carry embedded line breaks from the detector, flatten them
	for _, row := range records {
		for i, cell := range row {
			row[i] = strings.TrimSpace(strings.ReplaceAll(cell, "\n", " "))
		}
	}
	return records, nil
}
