package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
)

// ProductHandler maneja las peticiones HTTP de productos, stock y estado.
type ProductHandler struct {
	uc       *inventory.ProductLifecycleUseCase
	validate *Validator
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *inventory.ProductLifecycleUseCase, validate *Validator) *ProductHandler {
	return &ProductHandler{uc: uc, validate: validate}
}

// Create godoc
// @Summary      Crear producto
// @Description  Stock 0 deja el producto OUT_OF_STOCK; sin estado se usa ACTIVE.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar o filtrar productos
// @Description  Precedencia: max_stock, luego state+category_id, state, category_id, name.
// @Tags         products
// @Produce      json
// @Param        state        query  string  false  "ACTIVE | INACTIVE | OUT_OF_STOCK"
// @Param        category_id  query  int     false  "ID de categoría"
// @Param        name         query  string  false  "Fragmento del nombre"
// @Param        max_stock    query  int     false  "Stock máximo (inclusive)"
// @Success      200  {object}  dto.ProductListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var q dto.ProductQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, CodeValidation, "parámetros de consulta inválidos")
	}
	if err := h.validate.Struct(q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Search(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// OutOfStock godoc
// @Summary      Productos sin stock
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products/out-of-stock [get]
func (h *ProductHandler) OutOfStock(c *fiber.Ctx) error {
	out, err := h.uc.ListOutOfStock(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ChangeState godoc
// @Summary      Cambiar estado del producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int                     true  "ID del producto"
// @Param        body  body  dto.ChangeStateRequest  true  "Estado destino y motivo"
// @Success      200   {object}  dto.ProductResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/state [patch]
func (h *ProductHandler) ChangeState(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.ChangeStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.ChangeState(c.UserContext(), id, entity.ProductState(in.State), in.Reason)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// IncreaseStock godoc
// @Summary      Reponer stock
// @Description  Suma la cantidad, fija el costo de compra, recalcula precio (costo × 1.25) y activa el producto.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.IncreaseStockRequest  true  "Cantidad y costo unitario"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/increase [patch]
func (h *ProductHandler) IncreaseStock(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.IncreaseStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.IncreaseStock(c.UserContext(), id, *in.Quantity, in.PurchaseCost)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DecreaseStock godoc
// @Summary      Descontar stock
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.DecreaseStockRequest  true  "Cantidad"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/stock/decrease [patch]
func (h *ProductHandler) DecreaseStock(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	var in dto.DecreaseStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, CodeInvalidBody, "cuerpo inválido")
	}
	if err := h.validate.Struct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.DecreaseStock(c.UserContext(), id, *in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto
// @Tags         products
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// pathID lee :id como entero positivo.
func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("id", "id must be a positive integer")
	}
	return id, nil
}
