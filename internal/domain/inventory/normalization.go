package inventory

import (
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Los tres únicos puntos donde el stock fuerza el estado del producto.

// NormalizeOnCreate aplica el estado por defecto y fuerza OUT_OF_STOCK si el stock inicial es 0,
// aunque el llamador haya pedido otro estado.
func NormalizeOnCreate(p *entity.Product) {
	if p.State.IsBlank() {
		p.State = entity.DefaultProductState
	}
	if p.Stock == 0 {
		p.State = entity.StateOutOfStock
	}
}

// ApplyRestock suma quantity al stock, reemplaza el costo de compra, recalcula el precio de venta
// y deja el producto ACTIVE sin importar su estado previo.
func ApplyRestock(p *entity.Product, quantity int, purchaseCost decimal.Decimal) error {
	if err := ValidateRestock(quantity, purchaseCost); err != nil {
		return err
	}
	p.Stock += quantity
	// el precio sale del costo recibido; el costo se guarda con la misma escala que la columna
	p.PurchaseCost = decimal.NewNullDecimal(purchaseCost.Round(PriceScale))
	p.SalePrice = SalePriceFromCost(purchaseCost)
	p.State = entity.StateActive
	return nil
}

// ApplyWithdrawal descuenta quantity del stock. Rechaza (sin recortar) si no alcanza.
// Solo al llegar exactamente a 0 cambia el estado a OUT_OF_STOCK; en otro caso lo conserva.
func ApplyWithdrawal(p *entity.Product, quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if quantity > p.Stock {
		return &domain.InsufficientStockError{Current: p.Stock, Requested: quantity}
	}
	p.Stock -= quantity
	if p.Stock == 0 {
		p.State = entity.StateOutOfStock
	}
	return nil
}

// ValidateRestock valida cantidad y costo de una reposición antes de cargar el producto.
func ValidateRestock(quantity int, purchaseCost decimal.Decimal) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}
	if !purchaseCost.IsPositive() {
		return domain.NewValidationError("purchase_cost", "purchase cost must be > 0")
	}
	if !SalePriceFromCost(purchaseCost).LessThan(MaxAmount) {
		return domain.NewValidationError("purchase_cost", "purchase cost too large: sale price must have at most 8 integer digits")
	}
	return nil
}

// ValidateQuantity exige una cantidad estrictamente positiva.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return domain.NewValidationError("quantity", "quantity must be > 0")
	}
	return nil
}
