package entity

import (
	"fmt"
	"strings"
	"time"
)

// monthLayouts are the accepted spellings of a month cell, most specific first.
var monthLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006-01",
	"2006/01/02",
	"2006/01",
}

// Month represents a calendar year-month. The zero value is not a valid month.
type Month struct {
	Year  int
	Month time.Month
}

// NewMonth builds a Month from a year and a calendar month.
func NewMonth(year int, month time.Month) Month {
	return Month{Year: year, Month: month}
}

// MonthOf truncates a timestamp to its calendar month.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// ParseMonth parses a month cell such as "2023-01" or "2023-01-15".
func ParseMonth(s string) (Month, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Month{}, fmt.Errorf("empty month")
	}
	for _, layout := range monthLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return MonthOf(t), nil
		}
	}
	return Month{}, fmt.Errorf("unrecognised month %q", s)
}

// IsZero reports whether m is the zero Month.
func (m Month) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

func (m Month) index() int {
	return m.Year*12 + int(m.Month) - 1
}

// Before reports whether m is earlier than o.
func (m Month) Before(o Month) bool {
	return m.index() < o.index()
}

// After reports whether m is later than o.
func (m Month) After(o Month) bool {
	return m.index() > o.index()
}

// String formats the month as YYYY-MM.
func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

// MarshalText implements encoding.TextMarshaler.
func (m Month) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Month) UnmarshalText(b []byte) error {
	parsed, err := ParseMonth(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Window is an inclusive range of months.
type Window struct {
	From Month `json:"from"`
	To   Month `json:"to"`
}

// Contains reports whether m falls inside the window.
func (w Window) Contains(m Month) bool {
	return !m.Before(w.From) && !m.After(w.To)
}

// IsEmpty reports whether the window covers no month at all.
func (w Window) IsEmpty() bool {
	return w.From.IsZero() || w.To.IsZero() || w.From.After(w.To)
}

// String formats the window as "YYYY-MM to YYYY-MM".
func (w Window) String() string {
	return fmt.Sprintf("%s to %s", w.From, w.To)
}
