package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/zjrosen/atlas/internal/history"
)

// MockHistoryRepository is a mock history.Repository.
type MockHistoryRepository struct {
	mock.Mock
}

var _ history.Repository = (*MockHistoryRepository)(nil)

func (m *MockHistoryRepository) Record(e *history.Entry) error {
	return m.Called(e).Error(0)
}

func (m *MockHistoryRepository) Recent(f history.Filter) ([]*history.Entry, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) FindByGUID(guid string) (*history.Entry, error) {
	args := m.Called(guid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*history.Entry), args.Error(1)
}

func (m *MockHistoryRepository) Clear() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}
