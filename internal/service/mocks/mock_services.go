package mocks

import (
	"context"
	"io"
	"time"

	"filedrop/internal/model"
	"filedrop/internal/service"

	"github.com/stretchr/testify/mock"
)

type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, in service.UploadInput) (*service.UploadResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Get(ctx context.Context, id string) (*model.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentService) GetBySlug(ctx context.Context, slug string) (*model.Content, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentService) Open(ctx context.Context, id string) (io.ReadCloser, *model.Content, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var c *model.Content
	if args.Get(1) != nil {
		c = args.Get(1).(*model.Content)
	}
	return rc, c, args.Error(2)
}

func (m *MockContentService) OpenPreview(ctx context.Context, id string) (io.ReadCloser, *model.Content, error) {
	args := m.Called(ctx, id)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var c *model.Content
	if args.Get(1) != nil {
		c = args.Get(1).(*model.Content)
	}
	return rc, c, args.Error(2)
}

func (m *MockContentService) Link(ctx context.Context, id string) (*service.LinkResult, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.LinkResult), args.Error(1)
}

func (m *MockContentService) Delete(ctx context.Context, id, userID string, role model.Role) error {
	args := m.Called(ctx, id, userID, role)
	return args.Error(0)
}

func (m *MockContentService) Update(ctx context.Context, id string, role model.Role, in service.UpdateInput) (*model.Content, error) {
	args := m.Called(ctx, id, role, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentService) List(ctx context.Context, userID string, limit, offset int) (*service.ContentListResult, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ContentListResult), args.Error(1)
}

func (m *MockContentService) Usage(ctx context.Context, userID string, role model.Role) (*service.UsageReport, error) {
	args := m.Called(ctx, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UsageReport), args.Error(1)
}

type MockCleanupService struct {
	mock.Mock
}

func (m *MockCleanupService) Authorize(secret string) error {
	args := m.Called(secret)
	return args.Error(0)
}

func (m *MockCleanupService) Sweep(ctx context.Context) (*service.SweepResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SweepResult), args.Error(1)
}

func (m *MockCleanupService) Reconcile(ctx context.Context) (*service.ReconcileResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ReconcileResult), args.Error(1)
}

func (m *MockCleanupService) Run(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}
