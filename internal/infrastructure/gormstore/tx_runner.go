package gormstore

import (
	"context"

	"gorm.io/gorm"

	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta el callback dentro de db.Transaction; un error hace rollback.
type TxRunner struct {
	db *gorm.DB
}

func NewTxRunner(db *gorm.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewProductRepository(tx), NewCategoryRepository(tx))
	})
}
