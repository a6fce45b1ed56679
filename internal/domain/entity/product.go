package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductState estado del ciclo de vida de un producto.
type ProductState string

const (
	StateActive     ProductState = "ACTIVE"
	StateInactive   ProductState = "INACTIVE"
	StateOutOfStock ProductState = "OUT_OF_STOCK"
)

// DefaultProductState estado asignado cuando el producto se crea sin estado.
const DefaultProductState = StateActive

// ProductStates lista los estados válidos en orden estable.
var ProductStates = []ProductState{StateActive, StateInactive, StateOutOfStock}

// Valid indica si s es uno de los tres estados conocidos.
func (s ProductState) Valid() bool {
	switch s {
	case StateActive, StateInactive, StateOutOfStock:
		return true
	}
	return false
}

// IsBlank indica si el estado vino vacío (o solo espacios).
func (s ProductState) IsBlank() bool {
	return strings.TrimSpace(string(s)) == ""
}

func (s ProductState) String() string { return string(s) }

// Product representa un producto vendible del catálogo.
// PurchaseCost es el último costo de compra (sin promedio); Version es el token de concurrencia optimista.
type Product struct {
	ID           int64
	Name         string
	Description  string
	SalePrice    decimal.Decimal
	PurchaseCost decimal.NullDecimal
	Stock        int
	State        ProductState
	CategoryID   int64
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProductFilter criterios de consulta; los campos nil/vacíos no filtran.
type ProductFilter struct {
	State        *ProductState
	CategoryID   *int64
	NameContains string
	MaxStock     *int
	ZeroStock    bool
}
