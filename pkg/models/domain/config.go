package domain

import "fmt"

// ColumnMapping names the spreadsheet header of each input field.
type ColumnMapping struct {
	OpeningDate string
	Location    string
	Outcome     string
}

func (c ColumnMapping) String() string {
	return fmt.Sprintf("%s:%s:%s", c.OpeningDate, c.Location, c.Outcome)
}
