package mocks

import (
	"context"
	"io"

	"storyteller/internal/speech"

	"github.com/stretchr/testify/mock"
)

// MockSynthesizer is a mock type for the Synthesizer type
type MockSynthesizer struct {
	mock.Mock
}

// Speak provides a mock function with given fields: ctx, text
func (_m *MockSynthesizer) Speak(ctx context.Context, text string) error {
	ret := _m.Called(ctx, text)
	return ret.Error(0)
}

// Cancel provides a mock function with no fields
func (_m *MockSynthesizer) Cancel() {
	_m.Called()
}

func NewMockSynthesizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSynthesizer {
	m := &MockSynthesizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// MockRecognizer is a mock type for the Recognizer type
type MockRecognizer struct {
	mock.Mock
}

// Recognize provides a mock function with given fields: ctx, audio, filename
func (_m *MockRecognizer) Recognize(ctx context.Context, audio io.Reader, filename string) (string, error) {
	ret := _m.Called(ctx, audio, filename)
	return ret.String(0), ret.Error(1)
}

func NewMockRecognizer(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRecognizer {
	m := &MockRecognizer{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var (
	_ speech.Synthesizer = (*MockSynthesizer)(nil)
	_ speech.Recognizer  = (*MockRecognizer)(nil)
)
