// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/williamokano/fastdeploy/pkg/transport"
)

// MockTransport is a mock implementation of the transport.Transport interface
type MockTransport struct {
	mock.Mock
}

var _ transport.Transport = (*MockTransport)(nil)

// Connect provides a mock function with given fields: ctx, creds
func (m *MockTransport) Connect(ctx context.Context, creds transport.Credentials) error {
	ret := m.Called(ctx, creds)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, transport.Credentials) error); ok {
		r0 = rf(ctx, creds)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Exists provides a mock function with given fields: ctx, path
func (m *MockTransport) Exists(ctx context.Context, path string) (bool, error) {
	ret := m.Called(ctx, path)

	var r0 bool
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (bool, error)); ok {
		return rf(ctx, path)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) bool); ok {
		r0 = rf(ctx, path)
	} else {
		r0 = ret.Get(0).(bool)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// Mkdir provides a mock function with given fields: ctx, path, recursive
func (m *MockTransport) Mkdir(ctx context.Context, path string, recursive bool) error {
	ret := m.Called(ctx, path, recursive)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, bool) error); ok {
		r0 = rf(ctx, path, recursive)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Rename provides a mock function with given fields: ctx, from, to
func (m *MockTransport) Rename(ctx context.Context, from string, to string) error {
	ret := m.Called(ctx, from, to)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		r0 = rf(ctx, from, to)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// UploadDirectory provides a mock function with given fields: ctx, localPath, remotePath
func (m *MockTransport) UploadDirectory(ctx context.Context, localPath string, remotePath string) error {
	ret := m.Called(ctx, localPath, remotePath)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string, string) error); ok {
		r0 = rf(ctx, localPath, remotePath)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// List provides a mock function with given fields: ctx, path
func (m *MockTransport) List(ctx context.Context, path string) ([]transport.FileInfo, error) {
	ret := m.Called(ctx, path)

	var r0 []transport.FileInfo
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]transport.FileInfo, error)); ok {
		return rf(ctx, path)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []transport.FileInfo); ok {
		r0 = rf(ctx, path)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]transport.FileInfo)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, path)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// RemoveAll provides a mock function with given fields: ctx, path
func (m *MockTransport) RemoveAll(ctx context.Context, path string) error {
	ret := m.Called(ctx, path)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, path)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// Disconnect provides a mock function with given fields:
func (m *MockTransport) Disconnect() error {
	ret := m.Called()

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// NewMockTransport creates a new instance of MockTransport
func NewMockTransport(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTransport {
	mock_1 := &MockTransport{}
	mock_1.Mock.Test(t)

	t.Cleanup(func() { mock_1.AssertExpectations(t) })

	return mock_1
}
