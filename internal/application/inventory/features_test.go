package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/infrastructure/gormstore"
	"github.com/jhoicas/Catalogo-api/pkg/config"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

var opts = godog.Options{
	Output:      colors.Colored(os.Stdout),
	Format:      "progress",
	Paths:       []string{"features"},
	Randomize:   0,
	Concurrency: 1,
	Strict:      true,
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options:             &opts,
	}
	if suite.Run() != 0 {
		t.Fail()
	}
}

// lifecycleWorld estado de un escenario: base SQLite en memoria propia y último resultado.
type lifecycleWorld struct {
	db         *gorm.DB
	products   *gormstore.ProductRepository
	uc         *inventory.ProductLifecycleUseCase
	categoryID int64
	productID  int64
	last       *dto.ProductResponse
	err        error
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	w := &lifecycleWorld{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		return ctx, w.reset()
	})
	ctx.After(func(ctx context.Context, _ *godog.Scenario, err error) (context.Context, error) {
		if w.db != nil {
			_ = gormstore.Close(w.db)
		}
		return ctx, err
	})

	ctx.Step(`^una categoría "([^"]*)"$`, w.aCategory)
	ctx.Step(`^creo el producto "([^"]*)" con stock (-?\d+) y estado "([^"]*)"$`, w.createProduct)
	ctx.Step(`^un producto "([^"]*)" con stock (\d+) en estado "([^"]*)"$`, w.givenProduct)
	ctx.Step(`^repongo (-?\d+) unidades a un costo de "([^"]*)"$`, w.increase)
	ctx.Step(`^descuento (-?\d+) unidades$`, w.decrease)
	ctx.Step(`^cambio el estado a "([^"]*)"$`, w.changeState)
	ctx.Step(`^dos clientes leen el producto y ambos guardan un cambio$`, w.concurrentWrites)
	ctx.Step(`^el producto tiene estado "([^"]*)" y stock (\d+)$`, w.thenStateAndStock)
	ctx.Step(`^el precio de venta es "([^"]*)"$`, w.thenSalePrice)
	ctx.Step(`^el costo de compra es "([^"]*)"$`, w.thenPurchaseCost)
	ctx.Step(`^la versión del producto es (\d+)$`, w.thenVersion)
	ctx.Step(`^la operación falla con "([^"]*)"$`, w.thenFailsWith)
	ctx.Step(`^el resultado es "([^"]*)"$`, w.thenResult)
}

func (w *lifecycleWorld) reset() error {
	db, err := gormstore.Open(config.DBConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	}, nil)
	if err != nil {
		return err
	}
	if err := gormstore.AutoMigrate(db); err != nil {
		return err
	}
	*w = lifecycleWorld{
		db:       db,
		products: gormstore.NewProductRepository(db),
		uc:       inventory.NewProductLifecycleUseCase(gormstore.NewTxRunner(db), gormstore.NewProductRepository(db), logger.Nop()),
	}
	return nil
}

func (w *lifecycleWorld) aCategory(name string) error {
	c := &entity.Category{Name: name}
	if err := gormstore.NewCategoryRepository(w.db).Create(context.Background(), c); err != nil {
		return err
	}
	w.categoryID = c.ID
	return nil
}

func (w *lifecycleWorld) createProduct(name string, stock int, state string) error {
	w.last, w.err = w.uc.Create(context.Background(), dto.CreateProductRequest{
		Name:       name,
		SalePrice:  decimal.RequireFromString("1.00"),
		Stock:      &stock,
		State:      state,
		CategoryID: &w.categoryID,
	})
	if w.last != nil {
		w.productID = w.last.ID
	}
	return nil
}

func (w *lifecycleWorld) givenProduct(name string, stock int, state string) error {
	if err := w.createProduct(name, stock, state); err != nil {
		return err
	}
	return w.err
}

func (w *lifecycleWorld) increase(quantity int, cost string) error {
	w.last, w.err = w.uc.IncreaseStock(context.Background(), w.productID, quantity, decimal.RequireFromString(cost))
	return nil
}

func (w *lifecycleWorld) decrease(quantity int) error {
	w.last, w.err = w.uc.DecreaseStock(context.Background(), w.productID, quantity)
	return nil
}

func (w *lifecycleWorld) changeState(state string) error {
	w.last, w.err = w.uc.ChangeState(context.Background(), w.productID, entity.ProductState(state), "escenario")
	return nil
}

func (w *lifecycleWorld) concurrentWrites() error {
	ctx := context.Background()
	first, err := w.products.GetByID(ctx, w.productID)
	if err != nil {
		return err
	}
	second, err := w.products.GetByID(ctx, w.productID)
	if err != nil {
		return err
	}
	first.Stock++
	if err := w.products.Update(ctx, first); err != nil {
		return fmt.Errorf("primera escritura: %w", err)
	}
	second.Stock += 2
	w.err = w.products.Update(ctx, second)
	return nil
}

func (w *lifecycleWorld) stored() (*dto.ProductResponse, error) {
	return w.uc.GetByID(context.Background(), w.productID)
}

func (w *lifecycleWorld) thenStateAndStock(state string, stock int) error {
	p, err := w.stored()
	if err != nil {
		return err
	}
	if p.State != state || p.Stock != stock {
		return fmt.Errorf("esperaba %s/%d, obtuve %s/%d", state, stock, p.State, p.Stock)
	}
	return nil
}

func (w *lifecycleWorld) thenSalePrice(expected string) error {
	if w.err != nil {
		return w.err
	}
	if !w.last.SalePrice.Equal(decimal.RequireFromString(expected)) {
		return fmt.Errorf("precio esperado %s, obtuve %s", expected, w.last.SalePrice)
	}
	return nil
}

func (w *lifecycleWorld) thenPurchaseCost(expected string) error {
	p, err := w.stored()
	if err != nil {
		return err
	}
	if !p.PurchaseCost.Valid || !p.PurchaseCost.Decimal.Equal(decimal.RequireFromString(expected)) {
		return fmt.Errorf("costo esperado %s, obtuve %v", expected, p.PurchaseCost)
	}
	return nil
}

func (w *lifecycleWorld) thenVersion(version int64) error {
	p, err := w.stored()
	if err != nil {
		return err
	}
	if p.Version != version {
		return fmt.Errorf("versión esperada %d, obtuve %d", version, p.Version)
	}
	return nil
}

func (w *lifecycleWorld) thenFailsWith(code string) error {
	if got := errorCode(w.err); got != code {
		return fmt.Errorf("esperaba %s, obtuve %s (%v)", code, got, w.err)
	}
	return nil
}

func (w *lifecycleWorld) thenResult(result string) error {
	return w.thenFailsWith(result)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, domain.ErrInvalidInput):
		return "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return "INVALID_STATE_TRANSITION"
	case errors.Is(err, domain.ErrVersionConflict):
		return "VERSION_CONFLICT"
	default:
		return err.Error()
	}
}
