package ragerr

import (
	"errors"
	"fmt"
)

// The taxonomy that crosses the core boundary: validation failures,
// missing documents and exhausted-retry upstream failures. Classifier
// parse issues never appear here - they resolve locally to the
// fail-open default.

type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func Validation(reason string) error {
	return &ValidationError{Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

type NotFoundError struct {
	Resource string
	Id       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Id)
}

func NotFound(resource string, id string) error {
	return &NotFoundError{Resource: resource, Id: id}
}

func IsNotFound(err error) bool {
	var n *NotFoundError
	return errors.As(err, &n)
}

// UpstreamError marks a transient failure of the embedding client,
// vector index or completion service. Retried a bounded number of
// times before it is surfaced as service-unavailable.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %s: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func Upstream(service string, err error) error {
	if err == nil {
		return nil
	}
	return &UpstreamError{Service: service, Err: err}
}

func IsUpstream(err error) bool {
	var u *UpstreamError
	return errors.As(err, &u)
}
