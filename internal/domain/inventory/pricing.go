package inventory

import "github.com/shopspring/decimal"

// Markup factor fijo aplicado al costo de compra en cada reposición (costo + 25%).
var Markup = decimal.RequireFromString("1.25")

// PriceScale decimales del precio de venta.
const PriceScale = 2

// MaxAmount cota exclusiva de precios y costos: 8 dígitos enteros, NUMERIC(10,2).
var MaxAmount = decimal.New(1, 8)

// SalePriceFromCost calcula el precio de venta: costo × 1.25 redondeado half-up a 2 decimales.
// decimal.Round redondea la mitad alejándose de cero, que para costos positivos es half-up.
func SalePriceFromCost(cost decimal.Decimal) decimal.Decimal {
	return cost.Mul(Markup).Round(PriceScale)
}
