package parser

import (
	"errors"
	"fmt"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	ErrFormat         = errors.New("unrecognized file format")
	ErrMissingField   = errors.New("missing header field")
	ErrConversion     = errors.New("conversion failed")
	ErrColumnNotFound = errors.New("column not found")
)

// FormatError reports a signature or descriptor line that does not match the
// expected text. Technique is empty for a signature mismatch.
type FormatError struct {
	Technique string
	Line      int
	Got       string
}

func (e *FormatError) Error() string {
	kind := "EC-LAB"
	if e.Technique != "" {
		kind = e.Technique
	}
	if e.Line == 0 {
		return fmt.Sprintf("not a %s file (%q)", kind, e.Got)
	}
	return fmt.Sprintf("not a %s file (line %d: %q)", kind, e.Line, e.Got)
}

func (e *FormatError) Is(target error) bool { return target == ErrFormat }

// MissingFieldError reports a required header marker absent from the header block.
type MissingFieldError struct {
	Marker string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("header field %q not found", e.Marker)
}

func (e *MissingFieldError) Is(target error) bool { return target == ErrMissingField }

// ConversionError reports a token that could not be converted to a number, a
// ragged data row, or a malformed header value. Line is 1-indexed within the
// block being converted, 0 when not applicable.
type ConversionError struct {
	Line   int
	Token  string
	Reason string
	Err    error
}

func (e *ConversionError) Error() string {
	msg := e.Reason
	if e.Token != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Token)
	}
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ConversionError) Unwrap() error { return e.Err }

func (e *ConversionError) Is(target error) bool { return target == ErrConversion }

// ColumnNotFoundError reports a lookup of a column name absent from a matrix.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

func (e *ColumnNotFoundError) Is(target error) bool { return target == ErrColumnNotFound }
