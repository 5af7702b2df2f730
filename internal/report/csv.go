package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"salespulse_backend/internal/analysis/domain"
)

var csvHeader = []string{"date", "rep", "metric_name", "value", "metric_type", "source"}

// CSV renders every metric record of a run as a flat CSV document.
func CSV(r *domain.DailyReport) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range r.Records {
		row := []string{
			rec.Date.Format("2006-01-02"),
			rec.Rep,
			rec.MetricName,
			strconv.FormatFloat(rec.Value, 'f', -1, 64),
			rec.MetricType,
			rec.Source,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteCSV saves the CSV export under dir and returns the file path.
func WriteCSV(dir string, r *domain.DailyReport) (string, error) {
	data, err := CSV(r)
	if err != nil {
		return "", err
	}

	path := filepath.Join(dir, fmt.Sprintf("daily_metrics_%s.csv", r.Date.Format("2006-01-02")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write csv file: %w", err)
	}

	return path, nil
}
