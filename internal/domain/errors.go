package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrInvalidStateTransition = errors.New("transición de estado inválida")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrVersionConflict        = errors.New("el registro fue modificado por otra operación")
	ErrReferenced             = errors.New("el recurso está referenciado por otros registros")
)

// NotFoundError identifica la entidad y la clave buscada.
type NotFoundError struct {
	Entity string
	Key    string
}

// NewNotFoundError construye un NotFoundError; key se formatea con %v.
func NewNotFoundError(entity string, key any) *NotFoundError {
	return &NotFoundError{Entity: entity, Key: fmt.Sprintf("%v", key)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateNameError colisión de nombre único (categorías).
type DuplicateNameError struct {
	Entity string
	Name   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s with name %q already exists", e.Entity, e.Name)
}

func (e *DuplicateNameError) Is(target error) bool { return target == ErrDuplicate }

// ValidationError regla de negocio violada por un valor de entrada.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidStateTransitionError par de estados no permitido por la máquina de estados.
type InvalidStateTransitionError struct {
	From string
	To   string
}

func (e *InvalidStateTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

func (e *InvalidStateTransitionError) Is(target error) bool {
	return target == ErrInvalidStateTransition
}

// InsufficientStockError la salida pedida excede el stock actual.
type InsufficientStockError struct {
	Current   int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock: current %d, requested %d", e.Current, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }
