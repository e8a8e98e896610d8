package dp

import "errors"

var (
	ErrExportFailed     = errors.New("export failed")
	ErrExportInProgress = errors.New("an export is already in progress")
	ErrShareUnsupported = errors.New("sharing is not supported here, use download instead")
	ErrSessionNotFound  = errors.New("session not found")
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

type ValidationError struct {
	Fields []FieldError
}

func (err *ValidationError) Error() string {
	if len(err.Fields) == 0 {
		return "invalid form"
	}
	return "invalid form: " + err.Fields[0].Field + ": " + err.Fields[0].Error
}
