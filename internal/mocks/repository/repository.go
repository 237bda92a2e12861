// Package repository provides testify mocks for the domain repository interfaces.
package repository

import (
	"context"

	"shopcart/internal/domain/entity"
	"shopcart/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockUserRepository is a mock of repository.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

// NewMockUserRepository creates a mock whose expectations are asserted on test cleanup.
func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*entity.User)

	return user, args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

// MockCartRepository is a mock of repository.CartRepository.
type MockCartRepository struct {
	mock.Mock
}

func NewMockCartRepository(t testingT) *MockCartRepository {
	m := &MockCartRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCartRepository) EnsureCart(ctx context.Context, userID uuid.UUID) (*entity.Cart, bool, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*entity.Cart)

	return cart, args.Bool(1), args.Error(2)
}

func (m *MockCartRepository) FindCartByUserID(ctx context.Context, userID uuid.UUID) (*entity.Cart, error) {
	args := m.Called(ctx, userID)
	cart, _ := args.Get(0).(*entity.Cart)

	return cart, args.Error(1)
}

func (m *MockCartRepository) AddItems(ctx context.Context, cartID uuid.UUID, items []*entity.CartItem) error {
	return m.Called(ctx, cartID, items).Error(0)
}

func (m *MockCartRepository) ListItems(ctx context.Context, cartID uuid.UUID) ([]*entity.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]*entity.CartItem)

	return items, args.Error(1)
}

func (m *MockCartRepository) FindFirstItemByProductID(ctx context.Context, cartID uuid.UUID, productID string) (*entity.CartItem, error) {
	args := m.Called(ctx, cartID, productID)
	item, _ := args.Get(0).(*entity.CartItem)

	return item, args.Error(1)
}

func (m *MockCartRepository) DeleteItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return m.Called(ctx, cartID, itemID).Error(0)
}

// MockTransactionManager runs the callback against Factory without a real transaction.
type MockTransactionManager struct {
	mock.Mock

	Factory repository.RepositoryFactory
}

func NewMockTransactionManager(t testingT, factory repository.RepositoryFactory) *MockTransactionManager {
	m := &MockTransactionManager{Factory: factory}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

// Execute records the call; when the expectation returns nil the callback runs.
func (m *MockTransactionManager) Execute(ctx context.Context, fn func(txRepoFactory repository.RepositoryFactory) error) error {
	if err := m.Called(ctx).Error(0); err != nil {
		return err
	}

	return fn(m.Factory)
}

// MockRepositoryFactory hands out the configured mocks.
type MockRepositoryFactory struct {
	Users repository.UserRepository
	Carts repository.CartRepository
}

func (f *MockRepositoryFactory) UserRepo() repository.UserRepository {
	return f.Users
}

func (f *MockRepositoryFactory) CartRepo() repository.CartRepository {
	return f.Carts
}
