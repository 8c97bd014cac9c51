package models

import "errors"

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidFormat   = errors.New("invalid format")
)

// ValidationError descreve uma violação de invariante de domínio.
// Kind é sempre ErrInvalidArgument ou ErrInvalidFormat, então errors.Is funciona nos dois níveis.
type ValidationError struct {
	Field string
	Kind  error
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

func invalidArgument(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidArgument, Msg: msg}
}

func invalidFormat(field, msg string) error {
	return &ValidationError{Field: field, Kind: ErrInvalidFormat, Msg: msg}
}
