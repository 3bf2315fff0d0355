package userapi_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/stretchr/testify/mock"

	userapi "github.com/goliatone/go-user-api"
)

// recordingLogger captures log lines so tests can assert on them
type recordingLogger struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLogger) record(format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

func (l *recordingLogger) Debug(format string, args ...any) { l.record(format, args...) }
func (l *recordingLogger) Info(format string, args ...any)  { l.record(format, args...) }
func (l *recordingLogger) Warn(format string, args ...any)  { l.record(format, args...) }
func (l *recordingLogger) Error(format string, args ...any) { l.record(format, args...) }

// MockUsers implements userapi.Users
type MockUsers struct {
	mock.Mock
}

func (m *MockUsers) List(ctx context.Context) ([]*userapi.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*userapi.User), args.Error(1)
}

func (m *MockUsers) GetByID(ctx context.Context, id int64) (*userapi.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userapi.User), args.Error(1)
}

func (m *MockUsers) GetByEmail(ctx context.Context, email string) (*userapi.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userapi.User), args.Error(1)
}

func (m *MockUsers) Create(ctx context.Context, user *userapi.User) (*userapi.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userapi.User), args.Error(1)
}

func (m *MockUsers) Update(ctx context.Context, id int64, patch userapi.UserPatch) (*userapi.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userapi.User), args.Error(1)
}

func (m *MockUsers) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
