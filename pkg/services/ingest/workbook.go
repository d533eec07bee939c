package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// table is the raw content of one sheet. date1904 tells which epoch serial
// dates in rows are counted from.
type table struct {
	rows     [][]string
	date1904 bool
}

// readWorkbook returns the raw cell values of the first sheet. Raw values keep
// date cells as serial numbers so parseDate sees them regardless of number format.
func readWorkbook(data []byte) (table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	props, err := f.GetWorkbookProps()
	if err != nil {
		return table{}, fmt.Errorf("failed to read workbook properties: %w", err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table{}, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return table{
		rows:     rows,
		date1904: props.Date1904 != nil && *props.Date1904,
	}, nil
}

// readDelimited reads comma or semicolon separated text; the delimiter is the
// one that occurs more often in the header line.
func readDelimited(data []byte) (table, error) {
	if !utf8.Valid(data) {
		return table{}, errors.New("content is neither a workbook nor UTF-8 text")
	}

	header, _, _ := strings.Cut(string(data), "\n")
	reader := csv.NewReader(bytes.NewReader(data))
	if strings.Count(header, ";") > strings.Count(header, ",") {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return table{}, fmt.Errorf("failed to read delimited text: %w", err)
	}
	return table{rows: rows}, nil
}
