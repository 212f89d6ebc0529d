/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package errors

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrFailNewEntity is matched by every EntityCRUDError of kind FailNewEntity
	ErrFailNewEntity = errors.New("fail new entity")

	// ErrFailSaveEntity is matched by every EntityCRUDError of kind FailSaveEntity
	ErrFailSaveEntity = errors.New("fail save entity")

	// ErrFailFetchEntity is matched by every EntityCRUDError of kind FailFetchEntity
	ErrFailFetchEntity = errors.New("fail fetch entity")

	// ErrFailFetchEntityCount is matched by every EntityCRUDError of kind FailFetchEntityCount
	ErrFailFetchEntityCount = errors.New("fail fetch entity count")

	// ErrFailDeleteEntity is matched by every EntityCRUDError of kind FailDeleteEntity
	ErrFailDeleteEntity = errors.New("fail delete entity")

	// ErrFailCreateModel is matched by every ModelError
	ErrFailCreateModel = errors.New("fail create model")

	// ErrNotFound is returned when a store has no record for an entity
	ErrNotFound = errors.New("entity not found")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnknownField is returned when a query names a field the entity does not declare
	ErrUnknownField = errors.New("unknown field")
)

// Kind identifies the repository operation an EntityCRUDError belongs to.
type Kind int

const (
	FailNewEntity Kind = iota
	FailSaveEntity
	FailFetchEntity
	FailFetchEntityCount
	FailDeleteEntity
)

var kindSentinels = map[Kind]error{
	FailNewEntity:        ErrFailNewEntity,
	FailSaveEntity:       ErrFailSaveEntity,
	FailFetchEntity:      ErrFailFetchEntity,
	FailFetchEntityCount: ErrFailFetchEntityCount,
	FailDeleteEntity:     ErrFailDeleteEntity,
}

func (k Kind) String() string {
	if s, ok := kindSentinels[k]; ok {
		return s.Error()
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// EntityCRUDError is the failure of a repository operation. Only the
// human-readable reason of the underlying failure is kept.
type EntityCRUDError struct {
	Kind   Kind
	Reason string
}

func (e *EntityCRUDError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *EntityCRUDError) Is(target error) bool {
	return target == kindSentinels[e.Kind]
}

// ModelError is the failure of a model projection.
type ModelError struct {
	Reason string
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFailCreateModel, e.Reason)
}

func (e *ModelError) Is(target error) bool {
	return target == ErrFailCreateModel
}

// NotFoundError represents an error when an entity is not found
type NotFoundError struct {
	Type string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with key %q not found", e.Type, e.Key)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents an input validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %q: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// UnknownFieldError reports a predicate or sort on an undeclared field
type UnknownFieldError struct {
	Entity string
	Field  string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("unknown field %q for entity %q", e.Field, e.Entity)
}

func (e *UnknownFieldError) Is(target error) bool {
	return target == ErrUnknownField
}

// Helper functions for creating errors

// NewEntityCRUDError creates a new EntityCRUDError of the given kind
func NewEntityCRUDError(kind Kind, reason string) error {
	return &EntityCRUDError{Kind: kind, Reason: reason}
}

// NewFailNewEntity creates a FailNewEntity error
func NewFailNewEntity(reason string) error {
	return NewEntityCRUDError(FailNewEntity, reason)
}

// NewFailSaveEntity creates a FailSaveEntity error
func NewFailSaveEntity(reason string) error {
	return NewEntityCRUDError(FailSaveEntity, reason)
}

// NewFailFetchEntity creates a FailFetchEntity error
func NewFailFetchEntity(reason string) error {
	return NewEntityCRUDError(FailFetchEntity, reason)
}

// NewFailFetchEntityCount creates a FailFetchEntityCount error
func NewFailFetchEntityCount(reason string) error {
	return NewEntityCRUDError(FailFetchEntityCount, reason)
}

// NewFailDeleteEntity creates a FailDeleteEntity error
func NewFailDeleteEntity(reason string) error {
	return NewEntityCRUDError(FailDeleteEntity, reason)
}

// NewFailCreateModel creates a ModelError
func NewFailCreateModel(reason string) error {
	return &ModelError{Reason: reason}
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(entityType, key string) error {
	return &NotFoundError{Type: entityType, Key: key}
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewUnknownFieldError creates a new UnknownFieldError
func NewUnknownFieldError(entity, field string) error {
	return &UnknownFieldError{Entity: entity, Field: field}
}

// Wrapping

// Wrap converts err into an EntityCRUDError of the given kind. An
// EntityCRUDError of any kind is returned unchanged; anything else keeps only
// its message. A nil err stays nil.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	var crud *EntityCRUDError
	if errors.As(err, &crud) {
		return crud
	}
	return NewEntityCRUDError(kind, err.Error())
}

// WrapModel converts err into a ModelError. Repository failures collapse
// into ModelError here as well.
func WrapModel(err error) error {
	if err == nil {
		return nil
	}
	var me *ModelError
	if errors.As(err, &me) {
		return me
	}
	return NewFailCreateModel(err.Error())
}

// AsEntityError returns a mapper suitable for a result stream whose failure
// type is EntityCRUDError.
func AsEntityError(kind Kind) func(error) error {
	return func(err error) error { return Wrap(kind, err) }
}

// AsModelError is the mapper for result streams producing models.
func AsModelError(err error) error {
	return WrapModel(err)
}

// Checks

// KindOf reports the kind of an EntityCRUDError in err's chain.
func KindOf(err error) (Kind, bool) {
	var crud *EntityCRUDError
	if errors.As(err, &crud) {
		return crud.Kind, true
	}
	return 0, false
}

// ReasonOf returns the reason carried by a taxonomy error, or err.Error().
func ReasonOf(err error) string {
	var crud *EntityCRUDError
	if errors.As(err, &crud) {
		return crud.Reason
	}
	var me *ModelError
	if errors.As(err, &me) {
		return me.Reason
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// IsFailNewEntity checks if an error is a FailNewEntity error
func IsFailNewEntity(err error) bool {
	return errors.Is(err, ErrFailNewEntity)
}

// IsFailSaveEntity checks if an error is a FailSaveEntity error
func IsFailSaveEntity(err error) bool {
	return errors.Is(err, ErrFailSaveEntity)
}

// IsFailFetchEntity checks if an error is a FailFetchEntity error
func IsFailFetchEntity(err error) bool {
	return errors.Is(err, ErrFailFetchEntity)
}

// IsFailFetchEntityCount checks if an error is a FailFetchEntityCount error
func IsFailFetchEntityCount(err error) bool {
	return errors.Is(err, ErrFailFetchEntityCount)
}

// IsFailDeleteEntity checks if an error is a FailDeleteEntity error
func IsFailDeleteEntity(err error) bool {
	return errors.Is(err, ErrFailDeleteEntity)
}

// IsFailCreateModel checks if an error is a ModelError
func IsFailCreateModel(err error) bool {
	return errors.Is(err, ErrFailCreateModel)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsUnknownField checks if an error is an unknown field error
func IsUnknownField(err error) bool {
	return errors.Is(err, ErrUnknownField)
}
