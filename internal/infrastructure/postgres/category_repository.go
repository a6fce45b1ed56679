package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.CategoryRepository = (*CategoryRepo)(nil)

const categoryColumns = `id, name, description, version, created_at, updated_at`

// CategoryRepo implementación del puerto CategoryRepository sobre PostgreSQL.
type CategoryRepo struct {
	q Querier
}

// NewCategoryRepository construye el adaptador de persistencia para categorías. Pasar pool o tx (Querier).
func NewCategoryRepository(q Querier) *CategoryRepo {
	return &CategoryRepo{q: q}
}

// Create persiste una nueva categoría.
func (r *CategoryRepo) Create(ctx context.Context, category *entity.Category) error {
	query := `
		INSERT INTO categories (name, description, version, created_at, updated_at)
		VALUES ($1, $2, 0, $3, $4)
		RETURNING id, version`
	err := r.q.QueryRow(ctx, query, category.Name, category.Description, category.CreatedAt, category.UpdatedAt).
		Scan(&category.ID, &category.Version)
	if err != nil {
		if isUniqueViolation(err) {
			return &domain.DuplicateNameError{Entity: "category", Name: category.Name}
		}
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

// GetByID obtiene una categoría por ID; (nil, nil) si no existe.
func (r *CategoryRepo) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// GetByName obtiene una categoría por nombre exacto; (nil, nil) si no existe.
func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*entity.Category, error) {
	c, err := scanCategory(r.q.QueryRow(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name = $1`, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

// ExistsByName indica si ya hay una categoría con ese nombre exacto.
func (r *CategoryRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, fmt.Errorf("exists category: %w", err)
	}
	return exists, nil
}

// Update guarda nombre y descripción si la versión coincide (CAS).
func (r *CategoryRepo) Update(ctx context.Context, category *entity.Category) error {
	query := `
		UPDATE categories SET name = $3, description = $4, updated_at = $5, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`
	var newVersion int64
	err := r.q.QueryRow(ctx, query, category.ID, category.Version, category.Name, category.Description, category.UpdatedAt).
		Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missOrConflict(ctx, category.ID)
		}
		if isUniqueViolation(err) {
			return &domain.DuplicateNameError{Entity: "category", Name: category.Name}
		}
		return fmt.Errorf("update category: %w", err)
	}
	category.Version = newVersion
	return nil
}

// Delete elimina la categoría si la versión coincide. Si hay productos que la referencian,
// la llave foránea lo impide y se devuelve domain.ErrReferenced.
func (r *CategoryRepo) Delete(ctx context.Context, category *entity.Category) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND version = $2`, category.ID, category.Version)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("delete category %d: %w", category.ID, domain.ErrReferenced)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, category.ID)
	}
	return nil
}

// List lista todas las categorías ordenadas por nombre.
func (r *CategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	return r.query(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY name`)
}

// SearchByName busca por fragmento de nombre sin distinguir mayúsculas.
func (r *CategoryRepo) SearchByName(ctx context.Context, fragment string) ([]*entity.Category, error) {
	return r.query(ctx, `SELECT `+categoryColumns+` FROM categories WHERE name ILIKE $1 ORDER BY name`, likePattern(fragment))
}

func (r *CategoryRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Category, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var list []*entity.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *CategoryRepo) missOrConflict(ctx context.Context, id int64) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("category", id)
	}
	return domain.ErrVersionConflict
}

func scanCategory(row pgx.Row) (*entity.Category, error) {
	var c entity.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Version, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
