package models

// AppError is a structured, recoverable error returned to API callers.
// On the wire it marshals as {"error": "<message>"}.
type AppError struct {
	Code    string `json:"-"`
	Message string `json:"error"`
	Status  int    `json:"-"`
}

func (e *AppError) Error() string { return e.Message }

// Error constructors.
var (
	ErrNotFound = func(msg string) *AppError {
		return &AppError{Code: "NOT_FOUND", Message: msg, Status: 404}
	}
	ErrBadRequest = func(msg string) *AppError {
		return &AppError{Code: "BAD_REQUEST", Message: msg, Status: 400}
	}
	ErrConflict = func(msg string) *AppError {
		return &AppError{Code: "CONFLICT", Message: msg, Status: 409}
	}
	ErrHardware = func(msg string) *AppError {
		return &AppError{Code: "HARDWARE", Message: msg, Status: 500}
	}
	ErrInternal = func(msg string) *AppError {
		return &AppError{Code: "INTERNAL", Message: msg, Status: 500}
	}
)
