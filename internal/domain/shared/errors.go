package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Reference errors

// InvalidReferenceError reports an unknown building, recipe, policy or factory-type name
type InvalidReferenceError struct {
	*DomainError
	Kind string
	Name string
}

func NewInvalidReferenceError(kind, name string) *InvalidReferenceError {
	return &InvalidReferenceError{
		DomainError: NewDomainError(fmt.Sprintf("invalid %s name '%s'", kind, name)),
		Kind:        kind,
		Name:        name,
	}
}

// Capability errors

// CapabilityError reports that a building cannot currently produce an output
type CapabilityError struct {
	*DomainError
	Building string
	Product  string
}

func NewCapabilityError(building, product, message string) *CapabilityError {
	return &CapabilityError{
		DomainError: NewDomainError(message),
		Building:    building,
		Product:     product,
	}
}

// Graph errors

// GraphError reports a connectivity failure: no route, duplicate edge, missing edge,
// or an edge that still carries deliveries
type GraphError struct {
	*DomainError
	From string
	To   string
}

func NewGraphError(from, to, message string) *GraphError {
	return &GraphError{
		DomainError: NewDomainError(message),
		From:        from,
		To:          to,
	}
}

// Resource errors

// ResourceExhaustedError reports a full drone port, a full waste disposal or a run
// that exceeded its tick budget
type ResourceExhaustedError struct {
	*DomainError
	Resource string
}

func NewResourceExhaustedError(resource, message string) *ResourceExhaustedError {
	return &ResourceExhaustedError{
		DomainError: NewDomainError(message),
		Resource:    resource,
	}
}

// Descriptor errors

// MalformedDescriptorError reports building-creation info that is missing fields or has
// the wrong shape
type MalformedDescriptorError struct {
	*DomainError
	Field string
}

func NewMalformedDescriptorError(field, message string) *MalformedDescriptorError {
	return &MalformedDescriptorError{
		DomainError: NewDomainError(message),
		Field:       field,
	}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
