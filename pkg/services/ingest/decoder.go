package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/rampa-irr/pkg/models/domain"
	"github.com/rs/zerolog"
)

var zipMagic = []byte("PK\x03\x04")

// Decoder turns an uploaded spreadsheet into input records.
type Decoder struct {
	columns  domain.ColumnMapping
	location *time.Location
}

func NewDecoder(columns domain.ColumnMapping, location *time.Location) *Decoder {
	if location == nil {
		location = time.UTC
	}
	return &Decoder{columns: columns, location: location}
}

// Decode reads the first sheet of data. XLSX workbooks are detected by their
// container signature; anything else is read as delimited text.
func (d *Decoder) Decode(ctx context.Context, data []byte) ([]domain.InputRecord, error) {
	logger := zerolog.Ctx(ctx)

	if len(data) == 0 {
		return nil, domain.ErrInputMissing
	}

	var (
		sheet  table
		format string
		err    error
	)
	if bytes.HasPrefix(data, zipMagic) {
		format = "xlsx"
		sheet, err = readWorkbook(data)
	} else {
		format = "csv"
		sheet, err = readDelimited(data)
	}
	if err != nil {
		return nil, domain.NewStageError("decode", fmt.Errorf("%w: %s: %v", domain.ErrParseFailure, format, err))
	}

	records, err := d.mapRows(sheet)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("format", format).
		Int("rows", len(sheet.rows)).
		Bool("date1904", sheet.date1904).
		Int("records", len(records)).
		Msg("spreadsheet decoded")

	return records, nil
}

type columnIndex struct {
	openingDate int
	location    int
	outcome     int
}

func (d *Decoder) resolveHeader(header []string) (columnIndex, error) {
	idx := columnIndex{openingDate: -1, location: -1, outcome: -1}
	for i, name := range header {
		name = normalizeHeader(name)
		switch {
		case idx.openingDate < 0 && name == normalizeHeader(d.columns.OpeningDate):
			idx.openingDate = i
		case idx.location < 0 && name == normalizeHeader(d.columns.Location):
			idx.location = i
		case idx.outcome < 0 && name == normalizeHeader(d.columns.Outcome):
			idx.outcome = i
		}
	}

	var missing []string
	if idx.openingDate < 0 {
		missing = append(missing, d.columns.OpeningDate)
	}
	if idx.location < 0 {
		missing = append(missing, d.columns.Location)
	}
	if idx.outcome < 0 {
		missing = append(missing, d.columns.Outcome)
	}
	if len(missing) > 0 {
		return idx, domain.NewStageError("header",
			fmt.Errorf("%w: missing columns %s", domain.ErrParseFailure, strings.Join(missing, ", ")))
	}
	return idx, nil
}

func (d *Decoder) mapRows(sheet table) ([]domain.InputRecord, error) {
	rows := sheet.rows
	if len(rows) == 0 {
		return nil, domain.NewStageError("header", fmt.Errorf("%w: sheet is empty", domain.ErrParseFailure))
	}

	idx, err := d.resolveHeader(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.InputRecord, 0, len(rows)-1)
	for n, row := range rows[1:] {
		if blank(row) {
			continue
		}

		opened, err := parseDate(cell(row, idx.openingDate), d.location, sheet.date1904)
		if err != nil {
			// n+2: 1-based, after the header row
			return nil, domain.NewStageError(fmt.Sprintf("row %d", n+2), fmt.Errorf("%w: %v", domain.ErrParseFailure, err))
		}

		records = append(records, domain.InputRecord{
			OpeningDate:      opened,
			LocationName:     cell(row, idx.location),
			TreatmentOutcome: cell(row, idx.outcome),
		})
	}
	return records, nil
}

func normalizeHeader(s string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
