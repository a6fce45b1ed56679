package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/swaggo/swag"

	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC  *inventory.ProductLifecycleUseCase
	CategoryUC *usecase.CategoryUseCase
	Validator  *Validator
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	validate := deps.Validator
	if validate == nil {
		validate = NewValidator()
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Especificación OpenAPI registrada por el paquete docs
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return fiber.NewError(fiber.StatusNotFound, "documentación no registrada")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	api := app.Group("/api")

	// Products: rutas fijas antes de /:id
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, validate)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/out-of-stock", productHandler.OutOfStock)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Delete)
	products.Patch("/:id/state", productHandler.ChangeState)
	products.Patch("/:id/stock/increase", productHandler.IncreaseStock)
	products.Patch("/:id/stock/decrease", productHandler.DecreaseStock)

	// Categories
	categories := api.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC, validate)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Get("/by-name/:name", categoryHandler.GetByName)
	categories.Get("/:id", categoryHandler.GetByID)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)
}
