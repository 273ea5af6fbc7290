package apperrors

// Common error codes
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrConflict        = "CONFLICT"
)

// Row-level codes produced by the reconciliation engine. Rows failing with
// these codes are skipped or failed individually; they never abort a batch.
const (
	// ErrMalformedRow marks rows with no extractable reference and no
	// fallback identifier.
	ErrMalformedRow = "MALFORMED_ROW"
	// ErrValidationFailure marks rows whose extracted fields fail
	// type/format validation, e.g. an unparsable date.
	ErrValidationFailure = "VALIDATION_FAILURE"
	// ErrPersistenceConflict marks a unique-constraint violation from two
	// syncs racing on the same record. The engine retries the row once.
	ErrPersistenceConflict = "PERSISTENCE_CONFLICT"
)
