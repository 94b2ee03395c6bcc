package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"semrush-explorer/pkg/api"
	"semrush-explorer/pkg/logger"
)

const timestampLayout = "20060102_150405"

// Summary describes one exported report. Parameters are masked so the
// API key never lands on disk.
type Summary struct {
	ExportTime string            `json:"export_time"`
	Report     string            `json:"report"`
	Parameters map[string]string `json:"parameters"`
	Columns    []string          `json:"columns"`
	RowCount   int               `json:"row_count"`
	CSVFile    string            `json:"csv_file"`
}

// Result holds the paths written by Export
type Result struct {
	CSVPath     string
	SummaryPath string
	Summary     Summary
}

// Exporter writes report snapshots as CSV plus a JSON summary
type Exporter struct {
	security *logger.SecurityLogger
	now      func() time.Time
}

func NewExporter() *Exporter {
	return &Exporter{
		security: logger.NewSecurityLogger(logger.GetLogger().Component("export")),
		now:      time.Now,
	}
}

// Export writes <report>_<timestamp>.csv and <report>_<timestamp>.json to dir
func (e *Exporter) Export(dir string, report api.ReportType, request api.QueryRequest, table *api.ResultTable) (*Result, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if table == nil {
		table = api.EmptyTable()
	}

	now := e.now()
	base := fmt.Sprintf("%s_%s", report, now.Format(timestampLayout))
	csvPath := filepath.Join(dir, base+".csv")
	summaryPath := filepath.Join(dir, base+".json")

	if err := writeCSV(csvPath, table); err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", report, err)
	}

	columns := table.Columns
	if columns == nil {
		columns = []string{}
	}
	summary := Summary{
		ExportTime: now.Format(time.RFC3339),
		Report:     string(report),
		Parameters: e.security.MaskParams(request.Params()),
		Columns:    columns,
		RowCount:   table.Len(),
		CSVFile:    filepath.Base(csvPath),
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(summaryPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write summary: %w", err)
	}

	e.security.SafeInfo("Report exported", map[string]interface{}{
		"report": string(report),
		"rows":   summary.RowCount,
		"path":   csvPath,
	})

	return &Result{CSVPath: csvPath, SummaryPath: summaryPath, Summary: summary}, nil
}

func writeCSV(path string, table *api.ResultTable) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if len(table.Columns) > 0 {
		if err := w.Write(table.Columns); err != nil {
			return err
		}
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return err
	}
	return file.Close()
}
