package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría.
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description"`
}

// UpdateCategoryRequest entrada para actualizar una categoría (reemplazo completo).
type UpdateCategoryRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=100"`
	Description string `json:"description"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryListResponse listado de categorías.
type CategoryListResponse = ListResponse[CategoryResponse]
