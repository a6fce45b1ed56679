package inventory_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Catalogo-api/internal/application/dto"
	"github.com/jhoicas/Catalogo-api/internal/application/inventory"
	"github.com/jhoicas/Catalogo-api/internal/domain"
	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/pkg/logger"
)

type fixture struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	tx         *fakeTxRunner
	uc         *inventory.ProductLifecycleUseCase
}

func newFixture() *fixture {
	f := &fixture{products: new(MockProductRepository), categories: new(MockCategoryRepository)}
	f.tx = &fakeTxRunner{products: f.products, categories: f.categories}
	f.uc = inventory.NewProductLifecycleUseCase(f.tx, f.products, logger.Nop())
	return f
}

func product(id int64, stock int, state entity.ProductState) *entity.Product {
	return &entity.Product{
		ID:         id,
		Name:       "Café",
		SalePrice:  decimal.RequireFromString("10.00"),
		Stock:      stock,
		State:      state,
		CategoryID: 1,
		Version:    3,
	}
}

func ptr[T any](v T) *T { return &v }

func TestCreate_NormalizaEstado(t *testing.T) {
	f := newFixture()
	f.categories.On("GetByID", mock.Anything, int64(1)).Return(&entity.Category{ID: 1, Name: "Bebidas"}, nil).Once()
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
		return p.State == entity.StateOutOfStock && p.Stock == 0
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Product).ID = 7
	}).Return(nil).Once()

	out, err := f.uc.Create(t.Context(), dto.CreateProductRequest{
		Name: " Café ", SalePrice: decimal.RequireFromString("10"), Stock: ptr(0), State: "ACTIVE", CategoryID: ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), out.ID)
	assert.Equal(t, "Café", out.Name)
	assert.Equal(t, "OUT_OF_STOCK", out.State)
	f.products.AssertExpectations(t)
	f.categories.AssertExpectations(t)
}

func TestCreate_EstadoPorDefecto(t *testing.T) {
	f := newFixture()
	f.categories.On("GetByID", mock.Anything, int64(1)).Return(&entity.Category{ID: 1}, nil).Once()
	f.products.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	out, err := f.uc.Create(t.Context(), dto.CreateProductRequest{
		Name: "Té", SalePrice: decimal.RequireFromString("4"), Stock: ptr(5), CategoryID: ptr(int64(1)),
	})
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultProductState.String(), out.State)
}

func TestCreate_Validaciones(t *testing.T) {
	f := newFixture()

	_, err := f.uc.Create(t.Context(), dto.CreateProductRequest{Name: "X", Stock: ptr(1)})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "category is required", verr.Message)

	_, err = f.uc.Create(t.Context(), dto.CreateProductRequest{Name: "X", Stock: ptr(-1), CategoryID: ptr(int64(1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Create(t.Context(), dto.CreateProductRequest{Name: "X", Stock: ptr(1), State: "ARCHIVED", CategoryID: ptr(int64(1))})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, f.tx.calls)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_CategoriaInexistente(t *testing.T) {
	f := newFixture()
	f.categories.On("GetByID", mock.Anything, int64(9)).Return(nil, nil).Once()

	_, err := f.uc.Create(t.Context(), dto.CreateProductRequest{Name: "X", Stock: ptr(1), CategoryID: ptr(int64(9))})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIncreaseStock_RecalculaPrecioYActiva(t *testing.T) {
	for _, state := range entity.ProductStates {
		t.Run(state.String(), func(t *testing.T) {
			f := newFixture()
			f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 5, state), nil).Once()
			f.products.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

			out, err := f.uc.IncreaseStock(t.Context(), 1, 10, decimal.RequireFromString("80.00"))
			require.NoError(t, err)
			assert.Equal(t, 15, out.Stock)
			assert.Equal(t, "ACTIVE", out.State)
			assert.True(t, out.SalePrice.Equal(decimal.RequireFromString("100.00")))
			assert.True(t, out.PurchaseCost.Decimal.Equal(decimal.RequireFromString("80.00")))
			f.products.AssertExpectations(t)
		})
	}
}

func TestIncreaseStock_RespuestaIgualAlRegistroGuardado(t *testing.T) {
	f := newFixture()
	f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 1, entity.StateActive), nil).Once()
	var saved *entity.Product
	f.products.On("Update", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*entity.Product)
	}).Return(nil).Once()

	out, err := f.uc.IncreaseStock(t.Context(), 1, 1, decimal.RequireFromString("10.005"))
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "10.01", saved.PurchaseCost.Decimal.String())
	assert.Equal(t, saved.PurchaseCost.Decimal.String(), out.PurchaseCost.Decimal.String())
	assert.Equal(t, "12.51", out.SalePrice.String())
}

func TestIncreaseStock_ValidaAntesDeCargar(t *testing.T) {
	f := newFixture()

	_, err := f.uc.IncreaseStock(t.Context(), 1, 0, decimal.RequireFromString("1"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.IncreaseStock(t.Context(), 1, 1, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.uc.IncreaseStock(t.Context(), 1, 1, decimal.RequireFromString("90000000"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Zero(t, f.tx.calls)
	f.products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestDecreaseStock(t *testing.T) {
	t.Run("llega a cero", func(t *testing.T) {
		f := newFixture()
		f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 5, entity.StateActive), nil).Once()
		f.products.On("Update", mock.Anything, mock.MatchedBy(func(p *entity.Product) bool {
			return p.Stock == 0 && p.State == entity.StateOutOfStock
		})).Return(nil).Once()

		out, err := f.uc.DecreaseStock(t.Context(), 1, 5)
		require.NoError(t, err)
		assert.Equal(t, "OUT_OF_STOCK", out.State)
		f.products.AssertExpectations(t)
	})

	t.Run("insuficiente", func(t *testing.T) {
		f := newFixture()
		f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 5, entity.StateActive), nil).Once()

		_, err := f.uc.DecreaseStock(t.Context(), 1, 6)
		var serr *domain.InsufficientStockError
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, 5, serr.Current)
		assert.Equal(t, 6, serr.Requested)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("cantidad no positiva", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.DecreaseStock(t.Context(), 1, -2)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Zero(t, f.tx.calls)
	})

	t.Run("producto inexistente", func(t *testing.T) {
		f := newFixture()
		f.products.On("GetByID", mock.Anything, int64(4)).Return(nil, nil).Once()
		_, err := f.uc.DecreaseStock(t.Context(), 4, 1)
		var nf *domain.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "product", nf.Entity)
		assert.Equal(t, "4", nf.Key)
	})
}

func TestChangeState(t *testing.T) {
	t.Run("mismo estado no escribe", func(t *testing.T) {
		for _, state := range entity.ProductStates {
			f := newFixture()
			f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 2, state), nil).Once()

			out, err := f.uc.ChangeState(t.Context(), 1, state, "")
			require.NoError(t, err)
			assert.Equal(t, int64(3), out.Version)
			f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		}
	})

	t.Run("transición inválida", func(t *testing.T) {
		f := newFixture()
		f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 2, entity.StateInactive), nil).Once()

		_, err := f.uc.ChangeState(t.Context(), 1, entity.StateOutOfStock, "x")
		var terr *domain.InvalidStateTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "INACTIVE", terr.From)
		assert.Equal(t, "OUT_OF_STOCK", terr.To)
		f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("conflicto de versión se propaga", func(t *testing.T) {
		f := newFixture()
		f.products.On("GetByID", mock.Anything, int64(1)).Return(product(1, 2, entity.StateActive), nil).Once()
		f.products.On("Update", mock.Anything, mock.Anything).Return(domain.ErrVersionConflict).Once()

		_, err := f.uc.ChangeState(t.Context(), 1, entity.StateInactive, "auditoría")
		assert.ErrorIs(t, err, domain.ErrVersionConflict)
	})
}

func TestDelete(t *testing.T) {
	f := newFixture()
	p := product(1, 2, entity.StateActive)
	f.products.On("GetByID", mock.Anything, int64(1)).Return(p, nil).Once()
	f.products.On("Delete", mock.Anything, p).Return(nil).Once()
	require.NoError(t, f.uc.Delete(t.Context(), 1))

	f.products.On("GetByID", mock.Anything, int64(2)).Return(nil, nil).Once()
	assert.ErrorIs(t, f.uc.Delete(t.Context(), 2), domain.ErrNotFound)
	f.products.AssertExpectations(t)
}

func TestSearch_Precedencia(t *testing.T) {
	active := entity.StateActive
	cat := int64(2)
	maxStock := 3

	tests := []struct {
		name   string
		query  dto.ProductQuery
		filter entity.ProductFilter
	}{
		{"todos", dto.ProductQuery{}, entity.ProductFilter{}},
		{"max_stock gana", dto.ProductQuery{MaxStock: &maxStock, State: "ACTIVE", CategoryID: &cat, Name: "x"}, entity.ProductFilter{MaxStock: &maxStock}},
		{"estado y categoría", dto.ProductQuery{State: "ACTIVE", CategoryID: &cat, Name: "x"}, entity.ProductFilter{State: &active, CategoryID: &cat}},
		{"estado", dto.ProductQuery{State: "ACTIVE", Name: "x"}, entity.ProductFilter{State: &active}},
		{"categoría", dto.ProductQuery{CategoryID: &cat, Name: "x"}, entity.ProductFilter{CategoryID: &cat}},
		{"nombre", dto.ProductQuery{Name: " caf "}, entity.ProductFilter{NameContains: "caf"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.products.On("List", mock.Anything, tt.filter).Return([]*entity.Product{product(1, 1, entity.StateActive)}, nil).Once()

			out, err := f.uc.Search(t.Context(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, 1, out.Total)
			f.products.AssertExpectations(t)
		})
	}
}

func TestSearch_EstadoInvalido(t *testing.T) {
	f := newFixture()
	_, err := f.uc.Search(t.Context(), dto.ProductQuery{State: "FOO"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListOutOfStock_ListaVacia(t *testing.T) {
	f := newFixture()
	f.products.On("List", mock.Anything, entity.ProductFilter{ZeroStock: true}).Return(nil, nil).Once()

	out, err := f.uc.ListOutOfStock(t.Context())
	require.NoError(t, err)
	assert.NotNil(t, out.Items)
	assert.Zero(t, out.Total)
}

func TestErrorDeAlmacenSePropaga(t *testing.T) {
	f := newFixture()
	boom := errors.New("db down")
	f.products.On("GetByID", mock.Anything, int64(1)).Return(nil, boom).Once()

	_, err := f.uc.GetByID(t.Context(), 1)
	assert.ErrorIs(t, err, boom)
}
