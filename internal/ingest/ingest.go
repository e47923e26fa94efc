// Package ingest converts source files into the plain text the extractors
// consume. Spreadsheet rows become tab-separated lines so the extractors'
// delimited-table parsing applies uniformly to xlsx, csv, and text input.
package ingest

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// FromFile reads path and returns its text form, dispatching on extension.
// Unknown extensions are read as plain text.
func FromFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return FromXLSX(path)
	case ".csv":
		return FromCSV(path)
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "ingest: read %s", path)
		}
		return string(data), nil
	}
}

// FromXLSX flattens every sheet of a workbook into tab-separated lines.
// Sheets are separated by a blank line so statement sections stay distinct.
func FromXLSX(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: open workbook %s", path)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			zap.L().Warn("ingest: close workbook", zap.String("path", path), zap.Error(cerr))
		}
	}()

	var b strings.Builder
	for i, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", eris.Wrapf(err, "ingest: read sheet %q", sheet)
		}
		if i > 0 {
			b.WriteString("\n")
		}
		writeRows(&b, rows)
	}
	return b.String(), nil
}

// FromCSV reads a csv file and joins each record with tabs.
func FromCSV(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "ingest: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // statements rarely have uniform row widths
	records, err := r.ReadAll()
	if err != nil {
		return "", eris.Wrapf(err, "ingest: parse csv %s", path)
	}

	var b strings.Builder
	writeRows(&b, records)
	return b.String(), nil
}

func writeRows(b *strings.Builder, rows [][]string) {
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
