package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/OpenTraceLab/OpenTraceLS/pkg/device"
)

// listColumns are the record fields shown by the table view.
var listColumns = []string{
	device.FieldPlatformName,
	device.FieldPlatformNameUnique,
	device.FieldMountPoint,
	device.FieldSerialPort,
	device.FieldTargetID,
	"daplink_version",
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(v)
}

// renderRecords lays records out sorted by platform name. Absent values
// print as "unknown".
func renderRecords(records []device.Record, simple bool) string {
	sorted := append([]device.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PlatformName < sorted[j].PlatformName
	})

	rows := make([][]string, 0, len(sorted))
	for _, r := range sorted {
		row := make([]string, len(listColumns))
		for i, col := range listColumns {
			row[i] = "unknown"
			if v, ok := r.Field(col); ok && v != nil && fmt.Sprint(v) != "" {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return renderTable(listColumns, rows, simple)
}

func renderTable(headers []string, rows [][]string, simple bool) string {
	t := table.New().
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	if simple {
		return t.Border(lipgloss.HiddenBorder()).
			BorderTop(false).
			BorderBottom(false).
			BorderLeft(false).
			BorderRight(false).
			BorderColumn(false).
			String()
	}
	return t.Headers(headers...).Border(lipgloss.NormalBorder()).String()
}

func renderMapping(keyHeader, valueHeader string, m map[string]string, simple bool) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, m[k]})
	}
	return renderTable([]string{keyHeader, valueHeader}, rows, simple)
}
