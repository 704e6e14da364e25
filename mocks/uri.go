package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockUriManager records calls when expectations are set with On; with none set,
// Construct returns the base URI and Execute returns ExecuteErr.
type MockUriManager struct {
	mock.Mock
	ExecuteErr error
}

func (m *MockUriManager) Construct(base string, params map[string]string) string {
	if len(m.ExpectedCalls) == 0 {
		return base
	}
	args := m.Called(base, params)
	return args.String(0)
}

func (m *MockUriManager) Execute(uri string) error {
	if len(m.ExpectedCalls) == 0 {
		return m.ExecuteErr
	}
	args := m.Called(uri)
	return args.Error(0)
}
