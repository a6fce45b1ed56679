package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/inventory"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

const instrumentationName = "github.com/jhoicas/Catalogo-api/internal/application/inventory"

// ProductLifecycleUseCase gestiona stock y ciclo de vida de productos. Cada operación de escritura
// corre dentro de una transacción (TxRunner) y guarda con control de versión optimista.
type ProductLifecycleUseCase struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	log         *logger.Logger
	tracer      trace.Tracer
	movements   metric.Int64Counter
}

// NewProductLifecycleUseCase construye el caso de uso. productRepo se usa solo para lecturas fuera de tx.
func NewProductLifecycleUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	log *logger.Logger,
) *ProductLifecycleUseCase {
	movements, err := otel.Meter(instrumentationName).Int64Counter(
		"catalog.stock.movements",
		metric.WithDescription("Unidades de stock repuestas o descontadas"),
		metric.WithUnit("{unit}"),
	)
	if err != nil {
		movements = noop.Int64Counter{}
	}
	return &ProductLifecycleUseCase{
		txRunner:    txRunner,
		productRepo: productRepo,
		log:         log.Named("inventory"),
		tracer:      otel.Tracer(instrumentationName),
		movements:   movements,
	}
}

// Create crea un producto. La categoría es obligatoria y debe existir; el estado se normaliza
// (vacío -> ACTIVE, stock 0 -> OUT_OF_STOCK).
func (uc *ProductLifecycleUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.CreateProduct")
	defer span.End()

	if in.CategoryID == nil {
		return nil, fail(span, domain.NewValidationError("category_id", "category is required"))
	}
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	if stock < 0 {
		return nil, fail(span, domain.NewValidationError("stock", "stock must be >= 0"))
	}

	now := time.Now().UTC()
	product := &entity.Product{
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		SalePrice:    in.SalePrice,
		PurchaseCost: in.PurchaseCost,
		Stock:        stock,
		State:        entity.ProductState(strings.TrimSpace(in.State)),
		CategoryID:   *in.CategoryID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	inventory.NormalizeOnCreate(product)
	if !product.State.Valid() {
		return nil, fail(span, domain.NewValidationError("state", "state must be ACTIVE, INACTIVE or OUT_OF_STOCK"))
	}

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) error {
		category, err := categoryRepo.GetByID(ctx, product.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.NewNotFoundError("category", product.CategoryID)
		}
		return productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	span.SetAttributes(attribute.Int64("product.id", product.ID), attribute.String("product.state", product.State.String()))
	uc.log.Info().
		Int64("product_id", product.ID).
		Int64("category_id", product.CategoryID).
		Int("stock", product.Stock).
		Str("state", product.State.String()).
		Msg("producto creado")
	return toProductResponse(product), nil
}

// ChangeState valida y aplica una transición de estado. El mismo estado es un no-op exitoso
// (no escribe ni incrementa la versión). reason solo se registra en log y traza.
func (uc *ProductLifecycleUseCase) ChangeState(ctx context.Context, id int64, newState entity.ProductState, reason string) (*dto.ProductResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.ChangeState", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.String("product.state.to", newState.String()),
		attribute.String("product.state.reason", reason),
	))
	defer span.End()

	var (
		product *entity.Product
		from    entity.ProductState
	)
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.CategoryRepository) error {
		p, err := loadProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		from = p.State
		if err := inventory.ValidateTransition(p.State, newState); err != nil {
			return err
		}
		product = p
		if p.State == newState {
			return nil
		}
		p.State = newState
		p.UpdatedAt = time.Now().UTC()
		return productRepo.Update(ctx, p)
	})
	if err != nil {
		return nil, fail(span, err)
	}

	uc.log.Info().
		Int64("product_id", id).
		Str("from", from.String()).
		Str("to", newState.String()).
		Str("reason", reason).
		Bool("noop", from == newState).
		Msg("cambio de estado de producto")
	return toProductResponse(product), nil
}

// IncreaseStock repone stock: suma cantidad, reemplaza el costo de compra, recalcula el precio
// de venta (costo × 1.25) y deja el producto ACTIVE.
func (uc *ProductLifecycleUseCase) IncreaseStock(ctx context.Context, id int64, quantity int, purchaseCost decimal.Decimal) (*dto.ProductResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.IncreaseStock", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Int("stock.quantity", quantity),
		attribute.String("stock.purchase_cost", purchaseCost.String()),
	))
	defer span.End()

	if err := inventory.ValidateRestock(quantity, purchaseCost); err != nil {
		return nil, fail(span, err)
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.CategoryRepository) error {
		p, err := loadProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		if err := inventory.ApplyRestock(p, quantity, purchaseCost); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	uc.movements.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("direction", "in")))
	uc.log.Info().
		Int64("product_id", id).
		Int("quantity", quantity).
		Int("stock", product.Stock).
		Str("purchase_cost", purchaseCost.String()).
		Str("sale_price", product.SalePrice.StringFixed(inventory.PriceScale)).
		Msg("stock repuesto")
	return toProductResponse(product), nil
}

// DecreaseStock descuenta stock. Si la cantidad excede el stock se rechaza sin modificar nada;
// al llegar a 0 el producto pasa a OUT_OF_STOCK.
func (uc *ProductLifecycleUseCase) DecreaseStock(ctx context.Context, id int64, quantity int) (*dto.ProductResponse, error) {
	ctx, span := uc.tracer.Start(ctx, "inventory.DecreaseStock", trace.WithAttributes(
		attribute.Int64("product.id", id),
		attribute.Int("stock.quantity", quantity),
	))
	defer span.End()

	if err := inventory.ValidateQuantity(quantity); err != nil {
		return nil, fail(span, err)
	}

	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.CategoryRepository) error {
		p, err := loadProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		if err := inventory.ApplyWithdrawal(p, quantity); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		if err := productRepo.Update(ctx, p); err != nil {
			return err
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, fail(span, err)
	}

	uc.movements.Add(ctx, int64(quantity), metric.WithAttributes(attribute.String("direction", "out")))
	uc.log.Info().
		Int64("product_id", id).
		Int("quantity", quantity).
		Int("stock", product.Stock).
		Str("state", product.State.String()).
		Msg("stock descontado")
	return toProductResponse(product), nil
}

// Delete elimina un producto existente. No verifica referencias desde otras entidades.
func (uc *ProductLifecycleUseCase) Delete(ctx context.Context, id int64) error {
	ctx, span := uc.tracer.Start(ctx, "inventory.DeleteProduct", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	err := uc.txRunner.Run(ctx, func(productRepo repository.ProductRepository, _ repository.CategoryRepository) error {
		p, err := loadProduct(ctx, productRepo, id)
		if err != nil {
			return err
		}
		return productRepo.Delete(ctx, p)
	})
	if err != nil {
		return fail(span, err)
	}
	uc.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return nil
}

func loadProduct(ctx context.Context, repo repository.ProductRepository, id int64) (*entity.Product, error) {
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFoundError("product", id)
	}
	return p, nil
}

// fail marca el span con el error y lo devuelve sin envolver.
func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		SalePrice:    p.SalePrice,
		PurchaseCost: p.PurchaseCost,
		Stock:        p.Stock,
		State:        p.State.String(),
		CategoryID:   p.CategoryID,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
