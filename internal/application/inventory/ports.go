package inventory

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Cada operación del ciclo de vida (leer, modificar, guardar) corre en una sola unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		categoryRepo repository.CategoryRepository,
	) error) error
}
