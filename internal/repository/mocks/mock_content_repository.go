package mocks

import (
	"context"
	"time"

	"filedrop/internal/model"
	"filedrop/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreateWithinQuota(ctx context.Context, c *model.Content, quota int64, now time.Time) (*model.Content, repository.QuotaDecision, error) {
	args := m.Called(ctx, c, quota, now)
	dec := args.Get(1).(repository.QuotaDecision)
	if args.Get(0) == nil {
		return nil, dec, args.Error(2)
	}
	return args.Get(0).(*model.Content), dec, args.Error(2)
}

func (m *MockContentRepository) SumActiveSize(ctx context.Context, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentRepository) FindByID(ctx context.Context, id string) (*model.Content, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentRepository) Exists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) StoragePathExists(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

func (m *MockContentRepository) FindBySlug(ctx context.Context, slug string) (*model.Content, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Content), args.Error(1)
}

func (m *MockContentRepository) ListByUser(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Content], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Content]), args.Error(1)
}

func (m *MockContentRepository) Update(ctx context.Context, c *model.Content) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockContentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContentRepository) FindExpired(ctx context.Context, now time.Time) ([]model.Content, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Content), args.Error(1)
}

func (m *MockContentRepository) CreateSlug(ctx context.Context, s *model.Slug) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockContentRepository) FindSlugRecord(ctx context.Context, slug string) (*model.Slug, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Slug), args.Error(1)
}

func (m *MockContentRepository) DeleteSlug(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *MockContentRepository) FindDirectory(ctx context.Context, name string) (*model.Directory, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Directory), args.Error(1)
}
