package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// CategoryID no se marca como requerido aquí: la regla la aplica el caso de uso.
type CreateProductRequest struct {
	Name         string              `json:"name" validate:"required,notblank,max=255"`
	Description  string              `json:"description"`
	SalePrice    decimal.Decimal     `json:"sale_price" validate:"positive,money"`
	PurchaseCost decimal.NullDecimal `json:"purchase_cost" validate:"omitempty,positive,money"`
	Stock        *int                `json:"stock" validate:"required,min=0"`
	State        string              `json:"state" validate:"omitempty,product_state"`
	CategoryID   *int64              `json:"category_id"`
}

// ChangeStateRequest entrada para PATCH /products/:id/state. Reason es metadato libre.
type ChangeStateRequest struct {
	State  string `json:"state" validate:"required,product_state"`
	Reason string `json:"reason" validate:"max=500"`
}

// IncreaseStockRequest entrada para reponer stock. La positividad la valida el caso de uso.
type IncreaseStockRequest struct {
	Quantity     *int            `json:"quantity" validate:"required"`
	PurchaseCost decimal.Decimal `json:"purchase_cost" validate:"money"`
}

// DecreaseStockRequest entrada para descontar stock.
type DecreaseStockRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// ProductQuery filtros de GET /products. Precedencia: MaxStock > State+CategoryID > State > CategoryID > Name.
type ProductQuery struct {
	State      string `query:"state" validate:"omitempty,product_state"`
	CategoryID *int64 `query:"category_id"`
	Name       string `query:"name"`
	MaxStock   *int   `query:"max_stock"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	SalePrice    decimal.Decimal     `json:"sale_price"`
	PurchaseCost decimal.NullDecimal `json:"purchase_cost"`
	Stock        int                 `json:"stock"`
	State        string              `json:"state"`
	CategoryID   int64               `json:"category_id"`
	Version      int64               `json:"version"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// ProductListResponse listado de productos.
type ProductListResponse = ListResponse[ProductResponse]
