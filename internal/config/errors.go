package config

import "errors"

var (
	ErrInvalid       = errors.New("config: invalid value")
	ErrUnknownPreset = errors.New("config: unknown preset")
)

// FieldError names the setting that failed validation.
type FieldError struct {
	Field  string
	Reason string
	Err    error
}

func (e *FieldError) Error() string {
	return "config: " + e.Field + ": " + e.Reason
}

func (e *FieldError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalid, e.Err}
	}
	return []error{ErrInvalid}
}
