package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/inovacc/patchtracker/internal/model"
)

// indexHeader titles the 1-based row number column
const indexHeader = "#"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// formatValue renders one decoded JSON value as table cell text
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// renderRecords renders a query result as a table with a 1-based index column,
// columns in the order the server sent them. An empty result renders the header only.
func renderRecords(result model.QueryResult) string {
	columns := result.Columns
	headers := append([]string{indexHeader}, columns...)

	rows := make([][]string, 0, len(result.Records))

	for i, rec := range result.Records {
		row := make([]string, 0, len(headers))
		row = append(row, strconv.Itoa(i+1))

		for _, col := range columns {
			row = append(row, formatValue(rec[col]))
		}

		rows = append(rows, row)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)

	return t.String()
}
