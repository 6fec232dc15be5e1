package mocks

import (
	"context"
)

// MockGenerator is a mock implementation of Generator for testing
type MockGenerator struct {
	response   string
	failNext   error
	callCount  int
	lastPrompt string
}

// NewMockGenerator creates a generator that always answers with response
func NewMockGenerator(response string) *MockGenerator {
	return &MockGenerator{response: response}
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.callCount++
	m.lastPrompt = prompt
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return "", err
	}
	return m.response, nil
}

func (m *MockGenerator) Model() string {
	return "mock-generation-model"
}

func (m *MockGenerator) Ping(ctx context.Context) error {
	return nil
}

func (m *MockGenerator) Close() error {
	return nil
}

// Helper methods for testing

// SetFailNext makes the next Generate call return err
func (m *MockGenerator) SetFailNext(err error) {
	m.failNext = err
}

// CallCount returns how many Generate calls were made
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// LastPrompt returns the prompt of the most recent Generate call
func (m *MockGenerator) LastPrompt() string {
	return m.lastPrompt
}
