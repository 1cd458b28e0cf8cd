// Package statement parses bank statement exports into row maps keyed by
// the statement's own column headers. The rows feed manual transaction
// entry; nothing here interprets amounts or currencies.
package statement

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Parse reads a CSV or XLSX statement file. The first row is treated as the
// header; every following row becomes a map from header name to cell value.
func Parse(path string) ([]map[string]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSV(path)
	case ".xlsx":
		return parseXLSX(path)
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", filepath.Ext(path))
	}
}

func parseCSV(path string) ([]map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	return rowsToMaps(records)
}

func parseXLSX(path string) ([]map[string]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open statement: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("statement has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read statement sheet: %w", err)
	}

	return rowsToMaps(rows)
}

func rowsToMaps(rows [][]string) ([]map[string]string, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("statement is empty")
	}

	header := rows[0]
	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entry := make(map[string]string, len(header))
		for i, name := range header {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if i < len(row) {
				entry[name] = strings.TrimSpace(row[i])
			} else {
				entry[name] = ""
			}
		}
		out = append(out, entry)
	}

	return out, nil
}
