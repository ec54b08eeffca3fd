package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Input errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat indicates a field or document has an invalid format.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrCodeUnknownAction indicates an action type outside the known set.
	ErrCodeUnknownAction ErrorCode = "UNKNOWN_ACTION"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Execution errors
const (
	// ErrCodeCanceled indicates the run was canceled before it finished.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var inputCodes = map[ErrorCode]bool{
	ErrCodeInvalidInput:  true,
	ErrCodeMissingField:  true,
	ErrCodeInvalidFormat: true,
	ErrCodeUnknownAction: true,
	ErrCodeAlreadyExists: true,
}

// IsInputCode returns true if the code describes caller-supplied data that
// failed validation, as opposed to an environment or internal failure.
func IsInputCode(code ErrorCode) bool {
	return inputCodes[code]
}
