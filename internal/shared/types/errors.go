package types

import (
	"errors"
	"fmt"
	"strings"

	"github.com/diillson/sms-kpi-dashboard-go/internal/domain/entity"
)

var (
	ErrEmptyOverlap    = errors.New("source tables share no overlapping months")
	ErrMissingColumn   = errors.New("required column missing")
	ErrSourceFile      = errors.New("source file missing or unreadable")
	ErrUnknownClient   = errors.New("client not found in client dimension")
	ErrInvalidValue    = errors.New("invalid field value")
	ErrUnsupportedType = errors.New("unsupported report type")
)

// TableRange is the observed month range of one source table.
type TableRange struct {
	Table string
	From  entity.Month
	To    entity.Month
	Rows  int
}

// DataRangeError is returned when the monthly tables have no month in common.
type DataRangeError struct {
	Ranges []TableRange
}

func (e *DataRangeError) Error() string {
	parts := make([]string, 0, len(e.Ranges))
	for _, r := range e.Ranges {
		if r.Rows == 0 {
			parts = append(parts, fmt.Sprintf("%s: no rows", r.Table))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s..%s", r.Table, r.From, r.To))
	}
	return fmt.Sprintf("%s (%s)", ErrEmptyOverlap, strings.Join(parts, ", "))
}

func (e *DataRangeError) Unwrap() error { return ErrEmptyOverlap }

// SourceFileError is returned when a source table cannot be opened or read.
type SourceFileError struct {
	Table string
	Path  string
	Err   error
}

func (e *SourceFileError) Error() string {
	return fmt.Sprintf("%s table: cannot read %s: %v", e.Table, e.Path, e.Err)
}

func (e *SourceFileError) Unwrap() error { return e.Err }

func (e *SourceFileError) Is(target error) bool { return target == ErrSourceFile }

// SchemaError is returned when a required column is absent from a table header.
type SchemaError struct {
	Table  string
	Path   string
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s table (%s): missing required column %q", e.Table, e.Path, e.Column)
}

func (e *SchemaError) Unwrap() error { return ErrMissingColumn }

// MissingClientError reports fact rows whose client is not in the client dimension.
type MissingClientError struct {
	ClientID string
	Months   int
}

func (e *MissingClientError) Error() string {
	return fmt.Sprintf("client %q: %d client-month(s) excluded: %v", e.ClientID, e.Months, ErrUnknownClient)
}

func (e *MissingClientError) Unwrap() error { return ErrUnknownClient }

// RowError reports a row dropped because one of its fields could not be parsed.
type RowError struct {
	Table  string
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("%s line %d: column %s=%q: %v", e.Table, e.Line, e.Column, e.Value, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

func (e *RowError) Is(target error) bool { return target == ErrInvalidValue }
