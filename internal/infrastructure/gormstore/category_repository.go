package gormstore

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository implementación gorm del puerto de categorías.
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository crea el repositorio sobre db (conexión o transacción).
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// Create inserta la categoría; un nombre repetido devuelve *domain.DuplicateNameError.
func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	exists, err := r.ExistsByName(ctx, category.Name)
	if err != nil {
		return err
	}
	if exists {
		return &domain.DuplicateNameError{Entity: "category", Name: category.Name}
	}
	rec := toCategoryRecord(category)
	rec.Version = 0
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &domain.DuplicateNameError{Entity: "category", Name: category.Name}
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	category.ID = rec.ID
	category.Version = rec.Version
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *CategoryRepository) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *CategoryRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&categoryRecord{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check category name: %w", err)
	}
	return count > 0, nil
}

// Update guarda nombre y descripción condicionado a la versión leída.
func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	res := r.db.WithContext(ctx).
		Model(&categoryRecord{}).
		Where("id = ? AND version = ?", category.ID, category.Version).
		Updates(map[string]any{
			"name":        category.Name,
			"name_fold":   foldName(category.Name),
			"description": category.Description,
			"updated_at":  category.UpdatedAt,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return &domain.DuplicateNameError{Entity: "category", Name: category.Name}
		}
		return fmt.Errorf("failed to update category %d: %w", category.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, category.ID)
	}
	category.Version++
	return nil
}

// Delete rechaza con domain.ErrReferenced si algún producto usa la categoría.
func (r *CategoryRepository) Delete(ctx context.Context, category *entity.Category) error {
	var refs int64
	if err := r.db.WithContext(ctx).Model(&productRecord{}).Where("category_id = ?", category.ID).Count(&refs).Error; err != nil {
		return fmt.Errorf("failed to check category references: %w", err)
	}
	if refs > 0 {
		return fmt.Errorf("delete category %d: %w", category.ID, domain.ErrReferenced)
	}

	res := r.db.WithContext(ctx).
		Where("id = ? AND version = ?", category.ID, category.Version).
		Delete(&categoryRecord{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
			return fmt.Errorf("delete category %d: %w", category.ID, domain.ErrReferenced)
		}
		return fmt.Errorf("failed to delete category %d: %w", category.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, category.ID)
	}
	return nil
}

func (r *CategoryRepository) List(ctx context.Context) ([]*entity.Category, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *CategoryRepository) SearchByName(ctx context.Context, fragment string) ([]*entity.Category, error) {
	return r.find(ctx, nameContains(r.db.WithContext(ctx), fragment))
}

func (r *CategoryRepository) first(ctx context.Context, cond string, arg any) (*entity.Category, error) {
	var rec categoryRecord
	if err := r.db.WithContext(ctx).First(&rec, cond, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return rec.toEntity(), nil
}

func (r *CategoryRepository) find(_ context.Context, q *gorm.DB) ([]*entity.Category, error) {
	var recs []categoryRecord
	if err := q.Order("name").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	out := make([]*entity.Category, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toEntity())
	}
	return out, nil
}

func (r *CategoryRepository) missOrConflict(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&categoryRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check category %d: %w", id, err)
	}
	if count == 0 {
		return domain.NewNotFoundError("category", id)
	}
	return domain.ErrVersionConflict
}
