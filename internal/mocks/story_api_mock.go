package mocks

import (
	"context"

	"storyteller/internal/client"
	"storyteller/internal/controller"

	"github.com/stretchr/testify/mock"
)

// MockStoryAPI is a mock type for the StoryAPI type
type MockStoryAPI struct {
	mock.Mock
}

// Generate provides a mock function with given fields: ctx, words, theme
func (_m *MockStoryAPI) Generate(ctx context.Context, words string, theme string) (*client.Story, error) {
	ret := _m.Called(ctx, words, theme)

	var r0 *client.Story
	if rf, ok := ret.Get(0).(func(context.Context, string, string) *client.Story); ok {
		r0 = rf(ctx, words, theme)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*client.Story)
		}
	}

	return r0, ret.Error(1)
}

// Save provides a mock function with given fields: ctx, req
func (_m *MockStoryAPI) Save(ctx context.Context, req client.SaveRequest) error {
	ret := _m.Called(ctx, req)
	return ret.Error(0)
}

// Delete provides a mock function with given fields: ctx, id
func (_m *MockStoryAPI) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)
	return ret.Error(0)
}

// NewMockStoryAPI creates a new instance of MockStoryAPI. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockStoryAPI(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoryAPI {
	m := &MockStoryAPI{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ controller.StoryAPI = (*MockStoryAPI)(nil)
