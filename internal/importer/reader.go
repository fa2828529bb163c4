package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// Row is one spreadsheet row keyed by original header text. Line is the
// 1-based line in the source sheet (the header row is line 1), used for
// error attribution.
type Row struct {
	Line   int
	Values map[string]string
}

// ParseError marks byte content that is not a supported tabular format.
// It aborts the whole job.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("archivo no válido: %s", e.Reason)
}

var (
	zipMagic  = []byte{0x50, 0x4b, 0x03, 0x04}
	biffMagic = []byte{0xd0, 0xcf, 0x11, 0xe0}
	utf8BOM   = []byte{0xef, 0xbb, 0xbf}
)

// ReadSheet decodes uploaded bytes (xlsx, legacy xls or csv, detected by
// content) into the header row and the ordered data rows of the first sheet.
func ReadSheet(data []byte) ([]string, []Row, error) {
	if len(data) == 0 {
		return nil, nil, &ParseError{Reason: "el archivo está vacío"}
	}

	var (
		cells [][]string
		err   error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		cells, err = readXLSX(data)
	case bytes.HasPrefix(data, biffMagic):
		cells, err = readXLS(data)
	default:
		cells, err = readCSV(data)
	}
	if err != nil {
		return nil, nil, err
	}

	return toRows(cells)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("no se pudo leer el libro xlsx: %v", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Reason: "el libro no contiene hojas"}
	}

	// First sheet only, no multi-sheet support.
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("no se pudo leer la hoja %q: %v", sheets[0], err)}
	}
	return rows, nil
}

func readXLS(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, &ParseError{Reason: fmt.Sprintf("no se pudo leer el libro xls: %v", err)}
	}
	if wb.NumSheets() == 0 {
		return nil, &ParseError{Reason: "el libro no contiene hojas"}
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, &ParseError{Reason: "el libro no contiene hojas"}
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.Comma = sniffDelimiter(data)

	var rows [][]string
	for {
		record, err := reader.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Reason: fmt.Sprintf("csv mal formado: %v", err)}
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// sniffDelimiter picks ';' over ',' when the first line has more of them,
// which is the common export format for Spanish-locale spreadsheets.
func sniffDelimiter(data []byte) rune {
	line := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		line = data[:idx]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

// toRows converts raw cell rows into header + per-row value maps, skipping
// fully blank rows but keeping original line numbers.
func toRows(cells [][]string) ([]string, []Row, error) {
	headerIdx := -1
	for i, row := range cells {
		if !isBlankRow(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, nil, &ParseError{Reason: "la hoja no contiene datos"}
	}

	headers := make([]string, len(cells[headerIdx]))
	for i, h := range cells[headerIdx] {
		headers[i] = strings.TrimSpace(h)
	}

	var rows []Row
	for i := headerIdx + 1; i < len(cells); i++ {
		if isBlankRow(cells[i]) {
			continue
		}
		values := make(map[string]string, len(headers))
		for j, header := range headers {
			if header == "" {
				continue
			}
			if j < len(cells[i]) {
				values[header] = strings.TrimSpace(cells[i][j])
			} else {
				values[header] = ""
			}
		}
		rows = append(rows, Row{Line: i + 1, Values: values})
	}

	return headers, rows, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
