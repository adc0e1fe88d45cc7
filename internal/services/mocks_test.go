package services

import (
	"context"
	"io"
	"strings"

	"github.com/stretchr/testify/mock"

	"covidreport/internal/watcher"
)

// MockSource is a mock for storage.Source
type MockSource struct {
	mock.Mock
}

func (m *MockSource) Open(ctx context.Context) (io.ReadCloser, error) {
	args := m.Called(ctx)
	switch v := args.Get(0).(type) {
	case func(context.Context) io.ReadCloser:
		return v(ctx), args.Error(1)
	case io.ReadCloser:
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSource) Describe() string {
	return "mock:dataset"
}

// WithCSV makes every Open return a fresh reader over content
func (m *MockSource) WithCSV(content string) *MockSource {
	m.On("Open", mock.Anything).Return(func(context.Context) io.ReadCloser {
		return io.NopCloser(strings.NewReader(content))
	}, nil)
	return m
}

// MockMonitor is a mock for DatasetMonitor
type MockMonitor struct {
	mock.Mock
}

func (m *MockMonitor) Status() watcher.Status {
	return m.Called().Get(0).(watcher.Status)
}
