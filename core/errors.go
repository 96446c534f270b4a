package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		if len(err.Fields) > 0 {
			return err.Fields[0].Error
		}
		return ""
	}
	return err.Err.Error()
}

func (err ValidationError) Unwrap() error {
	return err.Err
}

// NotFoundError reports a named resource (file, poll, poll option...) that does not exist.
type NotFoundError struct {
	Resource string
	Name     string
}

func NewNotFoundError(resource, name string) error {
	return &NotFoundError{Resource: resource, Name: name}
}

func (err NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found.", err.Resource, err.Name)
}

// InvalidFormatError reports a value that does not have the expected shape, e.g. a URL without an http(s) scheme.
type InvalidFormatError struct {
	What  string
	Value string
}

func NewInvalidFormatError(what, value string) error {
	return &InvalidFormatError{What: what, Value: value}
}

func (err InvalidFormatError) Error() string {
	return fmt.Sprintf("Invalid %s format.", err.What)
}

func IsValidation(err error) bool {
	_, ok := errors.Cause(err).(*ValidationError)
	return ok
}

func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

func IsInvalidFormat(err error) bool {
	_, ok := errors.Cause(err).(*InvalidFormatError)
	return ok
}

type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
