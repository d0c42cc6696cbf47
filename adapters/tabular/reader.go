// Package tabular reads training datasets from CSV and Excel files into the
// domain table format.
package tabular

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"oncosurv/domain/dataset"
	"oncosurv/ports"
)

// DataReader handles reading Excel and CSV files. The file extension picks
// the format: ".csv" is parsed as CSV, everything else as XLSX.
type DataReader struct {
	filePath string
	sheet    string
	log      *zap.Logger
}

// NewDataReader creates a reader for the given file. sheet is only used for
// Excel files; an empty sheet defaults to "Sheet1".
func NewDataReader(filePath, sheet string, log *zap.Logger) *DataReader {
	if sheet == "" {
		sheet = "Sheet1"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &DataReader{filePath: filePath, sheet: sheet, log: log}
}

// Read loads the dataset into memory.
func (r *DataReader) Read(ctx context.Context) (*dataset.Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("dataset file not found: %s", r.filePath)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		rows [][]string
		err  error
	)
	if strings.EqualFold(filepath.Ext(r.filePath), ".csv") {
		rows, err = r.readCSV()
	} else {
		rows, err = r.readExcel()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s needs a header row and at least one data row", r.filePath)
	}

	tbl, err := dataset.NewTable(rows[0], rows[1:])
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", r.filePath, err)
	}
	r.log.Info("dataset loaded",
		zap.String("path", r.filePath),
		zap.Int("columns", len(tbl.Columns)),
		zap.Int("rows", tbl.RowCount()))
	return tbl, nil
}

func (r *DataReader) readCSV() ([][]string, error) {
	f, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func (r *DataReader) readExcel() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", r.sheet, err)
	}

	// GetRows trims trailing empty cells; pad rows back to header width.
	if len(rows) > 0 {
		width := len(rows[0])
		for i := range rows {
			for len(rows[i]) < width {
				rows[i] = append(rows[i], "")
			}
		}
	}
	return rows, nil
}

var _ ports.DatasetReader = (*DataReader)(nil)
