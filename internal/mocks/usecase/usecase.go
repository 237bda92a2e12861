// Package usecase provides testify mocks for the application usecases.
package usecase

import (
	"context"

	"shopcart/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAuthUsecase is a mock of usecase.AuthUsecase.
type MockAuthUsecase struct {
	mock.Mock
}

func NewMockAuthUsecase(t testingT) *MockAuthUsecase {
	m := &MockAuthUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.RegisterOutput)

	return out, args.Error(1)
}

func (m *MockAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.LoginOutput)

	return out, args.Error(1)
}

func (m *MockAuthUsecase) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	args := m.Called(ctx, token)
	userID, _ := args.Get(0).(uuid.UUID)

	return userID, args.Error(1)
}

// MockCartUsecase is a mock of usecase.CartUsecase.
type MockCartUsecase struct {
	mock.Mock
}

func NewMockCartUsecase(t testingT) *MockCartUsecase {
	m := &MockCartUsecase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockCartUsecase) EnsureCart(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, userID)
	cartID, _ := args.Get(0).(uuid.UUID)

	return cartID, args.Error(1)
}

func (m *MockCartUsecase) AddItems(ctx context.Context, input *usecase.AddItemsInput) (*usecase.AddItemsOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.AddItemsOutput)

	return out, args.Error(1)
}

func (m *MockCartUsecase) RemoveItem(ctx context.Context, input *usecase.RemoveItemInput) (*usecase.RemoveItemOutput, error) {
	args := m.Called(ctx, input)
	out, _ := args.Get(0).(*usecase.RemoveItemOutput)

	return out, args.Error(1)
}

func (m *MockCartUsecase) GetCart(ctx context.Context, userID uuid.UUID) (*usecase.CartView, error) {
	args := m.Called(ctx, userID)
	view, _ := args.Get(0).(*usecase.CartView)

	return view, args.Error(1)
}
