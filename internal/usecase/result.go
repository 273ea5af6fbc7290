package usecase

// RowError records why one row of a batch could not be reconciled. Code is
// an apperrors code; Reference is the row's canonical reference when one
// could be computed.
type RowError struct {
	Index     int    `json:"index"`
	Reference string `json:"reference,omitempty"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}

// BatchResult summarizes one sync pass so interactive callers can render
// {processed, skipped, failed} plus the row errors without re-deriving
// anything.
type BatchResult struct {
	Processed int        `json:"processed"`
	Skipped   int        `json:"skipped"`
	Failed    int        `json:"failed"`
	Errors    []RowError `json:"errors,omitempty"`
}
