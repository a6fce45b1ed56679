package inventory

import (
	"context"
	"strings"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// Consultas de solo lectura: filtros sobre el almacén sin transacción explícita.

// GetByID obtiene un producto por ID.
func (uc *ProductLifecycleUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	p, err := loadProduct(ctx, uc.productRepo, id)
	if err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// ListAll lista todos los productos.
func (uc *ProductLifecycleUseCase) ListAll(ctx context.Context) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{})
}

// ListByState lista productos en un estado.
func (uc *ProductLifecycleUseCase) ListByState(ctx context.Context, state entity.ProductState) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{State: &state})
}

// ListByCategory lista productos de una categoría.
func (uc *ProductLifecycleUseCase) ListByCategory(ctx context.Context, categoryID int64) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{CategoryID: &categoryID})
}

// SearchByName busca por fragmento de nombre sin distinguir mayúsculas.
func (uc *ProductLifecycleUseCase) SearchByName(ctx context.Context, fragment string) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{NameContains: fragment})
}

// ListByStateAndCategory combina estado y categoría.
func (uc *ProductLifecycleUseCase) ListByStateAndCategory(ctx context.Context, state entity.ProductState, categoryID int64) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{State: &state, CategoryID: &categoryID})
}

// ListLowStock lista productos con stock menor o igual al umbral.
func (uc *ProductLifecycleUseCase) ListLowStock(ctx context.Context, threshold int) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{MaxStock: &threshold})
}

// ListOutOfStock lista productos con stock 0, sin importar su estado.
func (uc *ProductLifecycleUseCase) ListOutOfStock(ctx context.Context) (*dto.ProductListResponse, error) {
	return uc.list(ctx, entity.ProductFilter{ZeroStock: true})
}

// Search resuelve los filtros de GET /products con la precedencia
// max_stock > state+category_id > state > category_id > name > todos.
func (uc *ProductLifecycleUseCase) Search(ctx context.Context, q dto.ProductQuery) (*dto.ProductListResponse, error) {
	state := entity.ProductState(strings.TrimSpace(q.State))
	if !state.IsBlank() && !state.Valid() {
		return nil, domain.NewValidationError("state", "state must be ACTIVE, INACTIVE or OUT_OF_STOCK")
	}
	switch {
	case q.MaxStock != nil:
		return uc.ListLowStock(ctx, *q.MaxStock)
	case !state.IsBlank() && q.CategoryID != nil:
		return uc.ListByStateAndCategory(ctx, state, *q.CategoryID)
	case !state.IsBlank():
		return uc.ListByState(ctx, state)
	case q.CategoryID != nil:
		return uc.ListByCategory(ctx, *q.CategoryID)
	case strings.TrimSpace(q.Name) != "":
		return uc.SearchByName(ctx, strings.TrimSpace(q.Name))
	default:
		return uc.ListAll(ctx)
	}
}

func (uc *ProductLifecycleUseCase) list(ctx context.Context, filter entity.ProductFilter) (*dto.ProductListResponse, error) {
	products, err := uc.productRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		items = append(items, *toProductResponse(p))
	}
	return dto.NewListResponse(items), nil
}
