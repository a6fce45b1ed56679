package repository

import (
	"context"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID devuelve (nil, nil) si no existe. Update y Delete comparan product.Version con la fila
// almacenada y devuelven domain.ErrVersionConflict si cambió desde la lectura.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error)
}
