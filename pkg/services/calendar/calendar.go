package calendar

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type names struct {
	weekdays [7]string
	months   [12]string
}

// supported[0] is the fallback for unmatched tags.
var supported = []language.Tag{
	language.BrazilianPortuguese,
	language.English,
}

var catalog = []names{
	{
		weekdays: [7]string{"dom", "seg", "ter", "qua", "qui", "sex", "sáb"},
		months: [12]string{
			"janeiro", "fevereiro", "março", "abril", "maio", "junho",
			"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
		},
	},
	{
		weekdays: [7]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"},
		months: [12]string{
			"january", "february", "march", "april", "may", "june",
			"july", "august", "september", "october", "november", "december",
		},
	},
}

var matcher = language.NewMatcher(supported)

// Labels produces month and weekday labels for one locale.
type Labels struct {
	tag   language.Tag
	names names
}

// NewLabels resolves tag against the supported locales, falling back to Portuguese.
func NewLabels(tag language.Tag) *Labels {
	_, idx, _ := matcher.Match(tag)
	return &Labels{
		tag:   supported[idx],
		names: catalog[idx],
	}
}

// ParseLocale parses a BCP 47 tag such as "pt-BR" or "en".
func ParseLocale(s string) (language.Tag, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und, fmt.Errorf("invalid locale %q: %w", s, err)
	}
	return tag, nil
}

func (l *Labels) Tag() language.Tag {
	return l.tag
}

// MonthName returns the full, title-cased month name.
func (l *Labels) MonthName(m time.Month) string {
	// Casers keep state, so one is built per call.
	return cases.Title(l.tag).String(l.names.months[m-1])
}

// Weekday returns the three letter weekday abbreviation.
func (l *Labels) Weekday(d time.Weekday) string {
	return l.names.weekdays[d]
}

// DayHeader formats t as "DD/MM www".
func (l *Labels) DayHeader(t time.Time) string {
	return fmt.Sprintf("%02d/%02d %s", t.Day(), int(t.Month()), l.Weekday(t.Weekday()))
}

// DaysInMonth returns the number of days of month m in year.
func DaysInMonth(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
