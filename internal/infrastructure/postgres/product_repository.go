package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, name, description, sale_price, purchase_cost, stock, state, category_id, version, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto; asigna ID y versión inicial (0).
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (name, description, sale_price, purchase_cost, stock, state, category_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, $8, $9)
		RETURNING id, version`
	err := r.q.QueryRow(ctx, query,
		product.Name, product.Description, product.SalePrice, product.PurchaseCost,
		product.Stock, string(product.State), product.CategoryID, product.CreatedAt, product.UpdatedAt,
	).Scan(&product.ID, &product.Version)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.NewNotFoundError("category", product.CategoryID)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; (nil, nil) si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// Update guarda todos los campos mutables si la versión no cambió desde la lectura (CAS)
// e incrementa product.Version.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products
		SET name = $3, description = $4, sale_price = $5, purchase_cost = $6, stock = $7,
		    state = $8, category_id = $9, updated_at = $10, version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version`
	var newVersion int64
	err := r.q.QueryRow(ctx, query,
		product.ID, product.Version,
		product.Name, product.Description, product.SalePrice, product.PurchaseCost, product.Stock,
		string(product.State), product.CategoryID, product.UpdatedAt,
	).Scan(&newVersion)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.missOrConflict(ctx, product.ID)
		}
		return fmt.Errorf("update product: %w", err)
	}
	product.Version = newVersion
	return nil
}

// Delete elimina el producto si la versión coincide.
func (r *ProductRepo) Delete(ctx context.Context, product *entity.Product) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1 AND version = $2`, product.ID, product.Version)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return r.missOrConflict(ctx, product.ID)
	}
	return nil
}

// List aplica los filtros presentes en filter, ordenando por ID.
func (r *ProductRepo) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.State != nil {
		add("state = $%d", string(*filter.State))
	}
	if filter.CategoryID != nil {
		add("category_id = $%d", *filter.CategoryID)
	}
	if filter.NameContains != "" {
		add("name ILIKE $%d", likePattern(filter.NameContains))
	}
	if filter.MaxStock != nil {
		add("stock <= $%d", *filter.MaxStock)
	}
	if filter.ZeroStock {
		conds = append(conds, "stock = 0")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id"

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// missOrConflict distingue una fila inexistente de una versión desactualizada.
func (r *ProductRepo) missOrConflict(ctx context.Context, id int64) error {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return domain.NewNotFoundError("product", id)
	}
	return domain.ErrVersionConflict
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var (
		p     entity.Product
		state string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SalePrice, &p.PurchaseCost, &p.Stock,
		&state, &p.CategoryID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.State = entity.ProductState(state)
	return &p, nil
}
