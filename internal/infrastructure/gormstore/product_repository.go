package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación gorm del puerto de productos (SQLite o PostgreSQL).
type ProductRepository struct {
	db *gorm.DB
}

// NewProductRepository crea el repositorio sobre db (conexión o transacción).
func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create inserta el producto y copia ID y versión asignados.
func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	rec := toProductRecord(product)
	rec.Version = 0
	if err := r.db.WithContext(ctx).Omit("Category").Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domain.NewNotFoundError("category", product.CategoryID)
		}
		return fmt.Errorf("failed to create product: %w", err)
	}
	product.ID = rec.ID
	product.Version = rec.Version
	return nil
}

// GetByID devuelve (nil, nil) si no existe.
func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return rec.toEntity(), nil
}

// Update escribe los campos mutables condicionado a la versión leída e incrementa product.Version.
func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	res := r.db.WithContext(ctx).
		Model(&productRecord{}).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Updates(map[string]any{
			"name":          product.Name,
			"name_fold":     foldName(product.Name),
			"description":   product.Description,
			"sale_price":    product.SalePrice,
			"purchase_cost": product.PurchaseCost,
			"stock":         product.Stock,
			"state":         string(product.State),
			"category_id":   product.CategoryID,
			"updated_at":    product.UpdatedAt,
			"version":       gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, product.ID)
	}
	product.Version++
	return nil
}

// Delete borra el producto si la versión coincide.
func (r *ProductRepository) Delete(ctx context.Context, product *entity.Product) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", product.ID, product.Version).
		Delete(&productRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %d: %w", product.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, product.ID)
	}
	return nil
}

// List aplica los filtros presentes, ordenando por ID.
func (r *ProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	q := r.db.WithContext(ctx).Model(&productRecord{})
	if filter.State != nil {
		q = q.Where("state = ?", string(*filter.State))
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.NameContains != "" {
		q = nameContains(q, filter.NameContains)
	}
	if filter.MaxStock != nil {
		q = q.Where("stock <= ?", *filter.MaxStock)
	}
	if filter.ZeroStock {
		q = q.Where("stock = 0")
	}

	var recs []productRecord
	if err := q.Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]*entity.Product, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toEntity())
	}
	return out, nil
}

func (r *ProductRepository) missOrConflict(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check product %d: %w", id, err)
	}
	if count == 0 {
		return domain.NewNotFoundError("product", id)
	}
	return domain.ErrVersionConflict
}

// nameContains filtra por fragmento de nombre sin distinguir mayúsculas. En PostgreSQL usa ILIKE
// sobre name; en SQLite compara contra la columna name_fold ya plegada.
func nameContains(q *gorm.DB, fragment string) *gorm.DB {
	if q.Dialector.Name() == "postgres" {
		return q.Where(`name ILIKE ? ESCAPE '\'`, likePattern(fragment))
	}
	return q.Where(`name_fold LIKE ? ESCAPE '\'`, likePattern(fragment))
}

// likePattern arma '%fragmento%' plegado, escapando comodines del usuario.
func likePattern(fragment string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(foldName(fragment)) + "%"
}
