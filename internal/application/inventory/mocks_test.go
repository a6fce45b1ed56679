package inventory_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/Catalogo-api/internal/domain/entity"
	"github.com/jhoicas/Catalogo-api/internal/domain/repository"
)

// MockProductRepository mock de repository.ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *entity.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id int64) (*entity.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, p *entity.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, p *entity.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, filter entity.ProductFilter) ([]*entity.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Product), args.Error(1)
}

// MockCategoryRepository mock de repository.CategoryRepository (solo lo que usa el ciclo de vida).
type MockCategoryRepository struct {
	mock.Mock
	repository.CategoryRepository
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Category), args.Error(1)
}

// fakeTxRunner ejecuta el callback con los mocks, sin transacción real.
type fakeTxRunner struct {
	products   *MockProductRepository
	categories *MockCategoryRepository
	calls      int
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.ProductRepository, repository.CategoryRepository) error) error {
	f.calls++
	return fn(f.products, f.categories)
}
