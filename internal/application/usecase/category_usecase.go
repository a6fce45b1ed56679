package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

const categoryEntity = "category"

// CategoryUseCase casos de uso CRUD para categorías. El nombre es único (comparación exacta).
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría; falla con DuplicateNameError si el nombre ya existe.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	exists, err := uc.repo.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.DuplicateNameError{Entity: categoryEntity, Name: name}
	}
	now := time.Now().UTC()
	category := &entity.Category{
		Name:        name,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría por ID.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id int64) (*dto.CategoryResponse, error) {
	category, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByName obtiene una categoría por nombre exacto.
func (uc *CategoryUseCase) GetByName(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NewNotFoundError(categoryEntity, name)
	}
	return toCategoryResponse(category), nil
}

// List lista todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryList(list), nil
}

// SearchByName busca categorías cuyo nombre contenga fragment (sin distinguir mayúsculas).
func (uc *CategoryUseCase) SearchByName(ctx context.Context, fragment string) (*dto.CategoryListResponse, error) {
	list, err := uc.repo.SearchByName(ctx, fragment)
	if err != nil {
		return nil, err
	}
	return toCategoryList(list), nil
}

// Update reemplaza nombre y descripción. Solo revisa duplicados si el nombre cambia y
// escribe con la versión leída, de modo que una edición concurrente produce ErrVersionConflict.
func (uc *CategoryUseCase) Update(ctx context.Context, id int64, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	category, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != category.Name {
		exists, err := uc.repo.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.DuplicateNameError{Entity: categoryEntity, Name: name}
		}
	}
	category.Name = name
	category.Description = in.Description
	category.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete elimina una categoría existente.
func (uc *CategoryUseCase) Delete(ctx context.Context, id int64) error {
	category, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, category)
}

func (uc *CategoryUseCase) load(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.NewNotFoundError(categoryEntity, id)
	}
	return category, nil
}

func toCategoryList(list []*entity.Category) *dto.CategoryListResponse {
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return dto.NewListResponse(items)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	if c == nil {
		return nil
	}
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Version:     c.Version,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}
