package errors

// ErrorResponse represents the standard error response structure
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Display       string         `json:"message"`
	InternalError string         `json:"internal_error,omitempty"`
	Details       map[string]any `json:"details,omitempty"`
}

// FieldError is a single field-level failure. Validation errors carry one
// per offending field, ordered by field declaration, then by refinement
// declaration.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}
