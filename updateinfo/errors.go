package updateinfo

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	// ErrNotFound is returned when the updateinfo file cannot be read.
	ErrNotFound = xerrors.New("updateinfo not found")
	// ErrMalformed is returned when the file is not well-formed XML.
	ErrMalformed = xerrors.New("malformed updateinfo")
	// ErrUnknownType is returned when an advisory type is not one of KnownTypes.
	ErrUnknownType = xerrors.New("unknown advisory type")
)

// OpenError matches ErrNotFound.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("unable to read %s: %s", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrNotFound }

// ParseError matches ErrMalformed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed updateinfo %s: %s", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrMalformed }

// TypeError matches ErrUnknownType.
type TypeError struct {
	ID   string
	Type string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("advisory %s has unknown type %q", e.ID, e.Type)
}

func (e *TypeError) Is(target error) bool { return target == ErrUnknownType }
