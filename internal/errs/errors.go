// Package errs provides the unified error type used across all of ftsmeta.
//
// Every subsystem (fts parsing, database, filestore, …) wraps its native
// errors into *errs.Error before returning them to callers. Callers use the
// Is* predicates to handle errors without importing driver-specific packages.
//
// Usage:
//
//	// In a parser — report a structural failure:
//	return errs.New(errs.ErrKindMissingDivider,
//	    fmt.Sprintf("column definitions are not found in %s", path))
//
//	// In a caller — check error kind:
//	if errs.IsReconciliationConflict(err) {
//	    log.Error("FTS files disagree, fix the source data")
//	}
package errs

import (
	"errors"
	"fmt"
)

// ErrKind categorises an error without exposing subsystem-specific codes.
// Parse kinds cover structural failures in FTS descriptors; infra kinds
// cover the database and file storage backends. All parse failures are
// terminal — they describe source data that a human has to fix.
type ErrKind int

const (
	ErrKindUnknown ErrKind = iota

	// Parse failures
	ErrKindUnsupportedFileType    // file name matches no known table-type pattern
	ErrKindMissingDivider         // no field-width template in the expected line range
	ErrKindColumnCountMismatch    // divider field count disagrees with the column layout
	ErrKindReconciliationConflict // two files for one table produce differing models
	ErrKindMissingKeyColumn       // semantic key detection found no candidate
	ErrKindDuplicateKeyCandidate  // semantic key detection found more than one candidate
	ErrKindUnknownColumnType      // declared type token not in the recognized set
	ErrKindMissingRecordLength    // decode descriptor requested without record-length metadata

	// Infra failures
	ErrKindNotFound         // no rows, no object, no bucket, no file
	ErrKindConnectionFailed // cannot reach the backend
	ErrKindTimeout          // context deadline / cancellation
	ErrKindQueryFailed      // SQL or storage operation error
	ErrKindInvalidInput     // bad arguments from the caller
	ErrKindPermissionDenied // access denied / auth failure
	ErrKindSchemaMismatch   // live database table disagrees with the generated mapping
)

func (k ErrKind) String() string {
	switch k {
	case ErrKindUnsupportedFileType:
		return "unsupported_file_type"
	case ErrKindMissingDivider:
		return "missing_divider"
	case ErrKindColumnCountMismatch:
		return "column_count_mismatch"
	case ErrKindReconciliationConflict:
		return "reconciliation_conflict"
	case ErrKindMissingKeyColumn:
		return "missing_key_column"
	case ErrKindDuplicateKeyCandidate:
		return "duplicate_key_candidate"
	case ErrKindUnknownColumnType:
		return "unknown_column_type"
	case ErrKindMissingRecordLength:
		return "missing_record_length"
	case ErrKindNotFound:
		return "not_found"
	case ErrKindConnectionFailed:
		return "connection_failed"
	case ErrKindTimeout:
		return "timeout"
	case ErrKindQueryFailed:
		return "query_failed"
	case ErrKindInvalidInput:
		return "invalid_input"
	case ErrKindPermissionDenied:
		return "permission_denied"
	case ErrKindSchemaMismatch:
		return "schema_mismatch"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by all ftsmeta subsystems.
// Producers format file path, table name, and offending column into Message
// so that a failure can be traced back to the source data without a debugger.
type Error struct {
	Kind    ErrKind
	Message string
	Cause   error // original lower-level error, preserved for logging
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Cause
}

// --- Constructors ---

// New creates an *Error with the given kind and message and no cause.
func New(kind ErrKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Newf creates an *Error with a formatted message and no cause.
func Newf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an *Error with the given kind, message, and an underlying cause.
func Wrap(kind ErrKind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Cause: cause}
}

// --- Predicates ---

// IsUnsupportedFileType reports whether err means a file name matched no
// known table-type pattern.
func IsUnsupportedFileType(err error) bool {
	return kindOf(err) == ErrKindUnsupportedFileType
}

// IsMissingDivider reports whether err means no field-width template was
// found in the expected line range of an FTS file.
func IsMissingDivider(err error) bool {
	return kindOf(err) == ErrKindMissingDivider
}

// IsColumnCountMismatch reports whether err means the divider line defined a
// different number of fields than the column layout expects.
func IsColumnCountMismatch(err error) bool {
	return kindOf(err) == ErrKindColumnCountMismatch
}

// IsReconciliationConflict reports whether err means two files describing
// the same logical table produced differing column models.
func IsReconciliationConflict(err error) bool {
	return kindOf(err) == ErrKindReconciliationConflict
}

// IsMissingKeyColumn reports whether err means a required semantic key
// column has no candidate in the parsed model.
func IsMissingKeyColumn(err error) bool {
	return kindOf(err) == ErrKindMissingKeyColumn
}

// IsDuplicateKeyCandidate reports whether err means more than one column
// matched a semantic key.
func IsDuplicateKeyCandidate(err error) bool {
	return kindOf(err) == ErrKindDuplicateKeyCandidate
}

// IsUnknownColumnType reports whether err means a declared column type token
// is not in the recognized set.
func IsUnknownColumnType(err error) bool {
	return kindOf(err) == ErrKindUnknownColumnType
}

// IsMissingRecordLength reports whether err means a decode descriptor was
// requested without the record-length metadata key present.
func IsMissingRecordLength(err error) bool {
	return kindOf(err) == ErrKindMissingRecordLength
}

// IsNotFound reports whether err represents a "not found" result
// (no rows, missing object, unknown table/bucket, missing file, …).
func IsNotFound(err error) bool {
	return kindOf(err) == ErrKindNotFound
}

// IsTimeout reports whether err was caused by a deadline or context cancellation.
func IsTimeout(err error) bool {
	return kindOf(err) == ErrKindTimeout
}

// IsConnectionFailed reports whether err is a connectivity or auth failure.
func IsConnectionFailed(err error) bool {
	return kindOf(err) == ErrKindConnectionFailed
}

// IsQueryFailed reports whether err is a backend operation failure
// (SQL execution error, storage I/O error, …).
func IsQueryFailed(err error) bool {
	return kindOf(err) == ErrKindQueryFailed
}

// IsInvalidInput reports whether err was caused by bad input from the caller.
func IsInvalidInput(err error) bool {
	return kindOf(err) == ErrKindInvalidInput
}

// IsPermissionDenied reports whether err is an access control failure.
func IsPermissionDenied(err error) bool {
	return kindOf(err) == ErrKindPermissionDenied
}

// IsSchemaMismatch reports whether err means a live database table
// disagrees with the generated schema mapping.
func IsSchemaMismatch(err error) bool {
	return kindOf(err) == ErrKindSchemaMismatch
}

// kindOf extracts the ErrKind from any error in the chain.
func kindOf(err error) ErrKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ErrKindUnknown
}
