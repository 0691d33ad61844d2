package datasource

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDataSource mocks the interfaces.DataSource interface.
type MockDataSource struct {
	mock.Mock
}

// Lookup mocks the Lookup method.
func (m *MockDataSource) Lookup(ctx context.Context, label string) (string, error) {
	args := m.Called(ctx, label)
	return args.String(0), args.Error(1)
}

// Available mocks the Available method.
func (m *MockDataSource) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

// Name mocks the Name method.
func (m *MockDataSource) Name() string {
	args := m.Called()
	return args.String(0)
}

// LocationURI mocks the LocationURI method.
func (m *MockDataSource) LocationURI() string {
	args := m.Called()
	return args.String(0)
}
