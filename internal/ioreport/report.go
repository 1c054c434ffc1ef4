// Package ioreport writes the statistics table of an extraction run.
package ioreport

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/tewilkins/FlowMER-goulburn-geofabric/pkg/stats"
)

// NotAvailable marks values whose inputs are missing.
const NotAvailable = "n/a"

// decimals used for non-count metrics in the CSV.
const decimals = 4

// WriteCSV writes the metrics as a two-column CSV with a header row.
func WriteCSV(path string, metrics []stats.Metric) error {
	f, err := os.Create(path)
	if err != nil {
		return StatisticsError(path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{{"metric", "value"}}
	for _, m := range metrics {
		records = append(records, []string{m.Name, csvValue(m)})
	}
	if err = w.WriteAll(records); err != nil {
		return StatisticsError(path, err)
	}
	if err = f.Close(); err != nil {
		return StatisticsError(path, err)
	}
	return nil
}

func csvValue(m stats.Metric) string {
	switch {
	case !m.Available:
		return NotAvailable
	case m.Count:
		return strconv.FormatInt(int64(m.Value), 10)
	default:
		return strconv.FormatFloat(m.Value, 'f', decimals, 64)
	}
}

// Text renders the metrics as aligned lines for the terminal.
func Text(metrics []stats.Metric) string {
	width := 0
	for _, m := range metrics {
		width = max(width, len([]rune(m.Name)))
	}

	var sb strings.Builder
	for _, m := range metrics {
		pad := width - len([]rune(m.Name))
		fmt.Fprintf(&sb, "  %s%s  %s\n", m.Name, strings.Repeat(" ", pad), textValue(m))
	}
	return sb.String()
}

func textValue(m stats.Metric) string {
	switch {
	case !m.Available:
		return NotAvailable
	case m.Count:
		return humanize.Comma(int64(m.Value))
	default:
		return humanize.CommafWithDigits(m.Value, 2)
	}
}
