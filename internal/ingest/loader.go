package ingest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/pergunta/internal/models"
)

// LoadFile reads the classified dataset at path, choosing the parser by file
// extension. Excel files prefer the named sheet when it exists; CSV files try
// semicolon separation first and fall back to comma.
func LoadFile(path, sheet string) ([]models.Item, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadExcel(path, sheet)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
}

// LoadExcel reads the dataset from an Excel workbook. When the preferred
// sheet is absent, the first sheet is used.
func LoadExcel(path, sheet string) ([]models.Item, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %q has no sheets", path)
	}
	selected := sheets[0]
	for _, s := range sheets {
		if s == sheet {
			selected = s
			break
		}
	}

	rows, err := f.GetRows(selected)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", selected, err)
	}
	return parseRows(rows)
}

// LoadCSV reads the dataset from a CSV file. Semicolon is the common
// separator for pt-BR exports; when the header does not resolve, the file is
// re-read comma-separated.
func LoadCSV(path string) ([]models.Item, error) {
	rows, err := readCSV(path, ';')
	if err == nil {
		if items, perr := parseRows(rows); perr == nil {
			return items, nil
		}
	}
	rows, err = readCSV(path, ',')
	if err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	return parseRows(rows)
}

func readCSV(path string, separator rune) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = separator
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseRows(rows [][]string) ([]models.Item, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dataset is empty")
	}

	cm := resolveColumns(rows[0])
	if !cm.valid() {
		return nil, fmt.Errorf("header does not contain the expected dataset columns: %v", rows[0])
	}

	items := make([]models.Item, 0, len(rows)-1)
	for _, row := range rows[1:] {
		it := models.Item{
			N1:          strings.TrimSpace(cell(row, cm.n1)),
			N2:          strings.TrimSpace(cell(row, cm.n2)),
			N3:          strings.TrimSpace(cell(row, cm.n3)),
			N4:          strings.TrimSpace(cell(row, cm.n4)),
			Description: strings.TrimSpace(cell(row, cm.description)),
			MatchType:   strings.TrimSpace(cell(row, cm.matchType)),
		}
		if it.Description == "" && it.N1 == "" {
			continue
		}
		items = append(items, it)
	}
	return items, nil
}
