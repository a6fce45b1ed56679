package inventory

import (
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// allowedTransitions matriz de transiciones permitidas (sin contar S -> S, siempre válida).
var allowedTransitions = map[entity.ProductState][]entity.ProductState{
	entity.StateActive:     {entity.StateInactive, entity.StateOutOfStock},
	entity.StateInactive:   {entity.StateActive},
	entity.StateOutOfStock: {entity.StateActive, entity.StateInactive},
}

// CanTransition indica si el producto puede pasar de from a to.
func CanTransition(from, to entity.ProductState) bool {
	if from == to {
		return true
	}
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition devuelve InvalidStateTransitionError si el par no está permitido.
func ValidateTransition(from, to entity.ProductState) error {
	if !CanTransition(from, to) {
		return &domain.InvalidStateTransitionError{From: from.String(), To: to.String()}
	}
	return nil
}
