package errors

import (
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrAmbiguousResponse is returned when Shopify answers a write in a shape we cannot map back to the product we wrote
type ErrAmbiguousResponse struct {
	Operation string
	Detail    string
}

func (e *ErrAmbiguousResponse) Error() string {
	return fmt.Sprintf("ambiguous shopify response to %s: %s", e.Operation, e.Detail)
}
