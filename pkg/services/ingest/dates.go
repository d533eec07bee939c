package ingest

import (
	"fmt"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseDate accepts an Excel serial date or one of dateLayouts. The wall clock
// value is interpreted in loc. Serials count from 1904-01-01 when date1904 is
// set. An empty value yields the zero time.
func parseDate(value string, loc *time.Location, date1904 bool) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, date1904)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid serial date %q: %w", value, err)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
