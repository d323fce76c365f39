// Package mocks holds testify mocks shared across package tests.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/zjrosen/atlas/internal/catalog"
)

// MockExecutor is a mock search executor.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Search(ctx context.Context, req catalog.SearchRequest) (*catalog.Result, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Result), args.Error(1)
}
