package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger 基于 testify/mock 的日志记录器
type MockLogger struct {
	mock.Mock
}

// NewMockLogger 创建接受任意日志调用的 MockLogger，需要断言时再追加期望
func NewMockLogger() *MockLogger {
	m := &MockLogger{}
	for _, level := range []string{"Debug", "Info", "Warn", "Error", "Fatal"} {
		m.On(level, mock.Anything, mock.Anything).Maybe().Return()
	}
	return m
}

func (m *MockLogger) Debug(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Info(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Warn(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Error(format string, args ...any) {
	m.Called(format, args)
}

func (m *MockLogger) Fatal(format string, args ...any) {
	m.Called(format, args)
}

// CallsOf 返回指定级别的日志格式串
func (m *MockLogger) CallsOf(level string) []string {
	var formats []string
	for _, call := range m.Calls {
		if call.Method == level {
			formats = append(formats, call.Arguments.String(0))
		}
	}
	return formats
}
