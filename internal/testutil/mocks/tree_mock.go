package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockTree is a mock implementation of fsutil.Tree
type MockTree struct {
	mock.Mock
}

func (m *MockTree) CreateTree(root string, subdirs ...string) error {
	args := m.Called(root, subdirs)
	return args.Error(0)
}

func (m *MockTree) RemoveAll(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockTree) CopyIfExists(srcDir, dstDir string, names ...string) ([]string, error) {
	args := m.Called(srcDir, dstDir, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
