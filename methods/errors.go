package methods

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy shared by the whole engine. Views translate these into
// HTTP statuses, everything else just wraps and propagates.

type NotFoundError struct {
	ID   int64
	Kind string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %d not found", e.Kind, e.ID)
}

func NewNotFound(id int64, kind string) error {
	return &NotFoundError{ID: id, Kind: kind}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// NotFoundByParamsError covers lookups keyed by a composite condition rather
// than a single id, e.g. "base regional scenario for territory 42".
type NotFoundByParamsError struct {
	Kind   string
	Params []interface{}
}

func (e *NotFoundByParamsError) Error() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s not found by params (%s)", e.Kind, strings.Join(parts, ", "))
}

func NewNotFoundByParams(kind string, params ...interface{}) error {
	return &NotFoundByParamsError{Kind: kind, Params: params}
}

func IsNotFoundByParams(err error) bool {
	var target *NotFoundByParamsError
	return errors.As(err, &target)
}

type AlreadyExistsError struct {
	Kind   string
	Params []interface{}
}

func (e *AlreadyExistsError) Error() string {
	parts := make([]string, len(e.Params))
	for i, p := range e.Params {
		parts[i] = fmt.Sprint(p)
	}
	return fmt.Sprintf("%s already exists (%s)", e.Kind, strings.Join(parts, ", "))
}

func NewAlreadyExists(kind string, params ...interface{}) error {
	return &AlreadyExistsError{Kind: kind, Params: params}
}

func IsAlreadyExists(err error) bool {
	var target *AlreadyExistsError
	return errors.As(err, &target)
}

type AccessDeniedError struct {
	ID   int64
	Kind string
}

func (e *AccessDeniedError) Error() string {
	return fmt.Sprintf("access denied for %s with id %d", e.Kind, e.ID)
}

func NewAccessDenied(id int64, kind string) error {
	return &AccessDeniedError{ID: id, Kind: kind}
}

func IsAccessDenied(err error) bool {
	var target *AccessDeniedError
	return errors.As(err, &target)
}
