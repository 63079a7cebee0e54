// Package importer provides CSV and Excel import functionality for part
// catalogs. It supports automatic delimiter detection, flexible column
// mapping, and case-insensitive header recognition in English and Portuguese.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/StripCut/internal/model"
)

// lengthPlaces is the precision lengths are rounded to (0.001 mm).
const lengthPlaces = 3

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Parts    []model.Part
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	ItemCode       int
	Name           int
	Thickness      int
	UnrolledLength int
	RawWidth       int
	CurrentStock   int
	MaxStock       int
	Demand         int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"item_code":       {"itemcode", "item_code", "item code", "code", "codigo", "código", "sku"},
	"name":            {"name", "itemname", "item_name", "item name", "description", "desc", "nome", "descricao", "descrição"},
	"thickness":       {"thickness", "gauge", "espessura", "esp"},
	"unrolled_length": {"unrolled_length", "unrolled length", "desenvolvimento", "development", "length", "len", "blank"},
	"raw_width":       {"raw_width", "raw width", "largura", "width", "sheet_width", "coil"},
	"current_stock":   {"current_stock", "current stock", "stock", "estoque_atual", "estoque atual", "on_hand"},
	"max_stock":       {"max_stock", "max stock", "maximum", "estoque_maximo", "estoque máximo", "estoque maximo"},
	"demand":          {"demand", "demanda", "required", "orders"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// positionalMapping follows the column order of the demand table:
// code, name, thickness, unrolled length, raw width, stock, max stock, demand.
var positionalMapping = ColumnMapping{
	ItemCode:       0,
	Name:           1,
	Thickness:      2,
	UnrolledLength: 3,
	RawWidth:       4,
	CurrentStock:   5,
	MaxStock:       6,
	Demand:         7,
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"item_code":       &mapping.ItemCode,
		"name":            &mapping.Name,
		"thickness":       &mapping.Thickness,
		"unrolled_length": &mapping.UnrolledLength,
		"raw_width":       &mapping.RawWidth,
		"current_stock":   &mapping.CurrentStock,
		"max_stock":       &mapping.MaxStock,
		"demand":          &mapping.Demand,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDecimal parses a number written with either a dot or a comma as the
// decimal separator. Thousands separators are not supported.
func parseDecimal(s string) (decimal.Decimal, error) {
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// parseLength parses a length in mm rounded to 0.001 mm.
func parseLength(s string) (float64, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	return d.Round(lengthPlaces).InexactFloat64(), nil
}

// parseCount parses a whole unit count. "5.0" is accepted, "5.5" is not.
func parseCount(s string) (int, error) {
	d, err := parseDecimal(s)
	if err != nil {
		return 0, err
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("not a whole number")
	}
	return int(d.IntPart()), nil
}

// parseRow extracts a Part from a row using the given column mapping.
// Returns the part, any error message, and any warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Part, string, []string) {
	var warnings []string

	code := getCell(row, mapping.ItemCode)
	if code == "" {
		return model.Part{}, fmt.Sprintf("%s: Missing item code", rowLabel), nil
	}

	part := model.Part{ItemCode: code, Name: getCell(row, mapping.Name)}
	if part.Name == "" {
		part.Name = code
	}

	lengths := []struct {
		label string
		idx   int
		dst   *float64
	}{
		{"thickness", mapping.Thickness, &part.Thickness},
		{"unrolled length", mapping.UnrolledLength, &part.UnrolledLength},
		{"raw width", mapping.RawWidth, &part.RawWidth},
	}
	for _, f := range lengths {
		raw := getCell(row, f.idx)
		if raw == "" {
			return model.Part{}, fmt.Sprintf("%s: Missing %s value", rowLabel, f.label), nil
		}
		v, err := parseLength(raw)
		if err != nil {
			return model.Part{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.label, raw), nil
		}
		if v <= 0 {
			return model.Part{}, fmt.Sprintf("%s: %s must be positive", rowLabel, capitalize(f.label)), nil
		}
		*f.dst = v
	}

	counts := []struct {
		label string
		idx   int
		dst   *int
	}{
		{"current stock", mapping.CurrentStock, &part.CurrentStock},
		{"max stock", mapping.MaxStock, &part.MaxStock},
		{"demand", mapping.Demand, &part.Demand},
	}
	for _, f := range counts {
		raw := getCell(row, f.idx)
		if raw == "" {
			continue
		}
		v, err := parseCount(raw)
		if err != nil {
			return model.Part{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.label, raw), nil
		}
		if v < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: Negative %s %d, using 0", rowLabel, f.label, v))
			v = 0
		}
		*f.dst = v
	}

	return part, "", warnings
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports parts from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports parts from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports parts from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into parts.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.ItemCode == -1 {
			missing = append(missing, "ItemCode")
		}
		if mapping.Thickness == -1 {
			missing = append(missing, "Thickness")
		}
		if mapping.UnrolledLength == -1 {
			missing = append(missing, "UnrolledLength")
		}
		if mapping.RawWidth == -1 {
			missing = append(missing, "RawWidth")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) > positionalMapping.UnrolledLength {
		// An unrecognized header still has text where the length belongs
		if _, err := parseDecimal(getCell(rows[0], positionalMapping.UnrolledLength)); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]string)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		part, errMsg, warnings := parseRow(row, mapping, rowLabel)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if first, dup := seen[part.ItemCode]; dup {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate item code '%s' (first seen on %s)", rowLabel, part.ItemCode, first))
			continue
		}
		seen[part.ItemCode] = rowLabel
		result.Warnings = append(result.Warnings, warnings...)
		result.Parts = append(result.Parts, part)
	}

	if len(result.Parts) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}

	return result
}
