package repository

import (
	"context"
	"errors"
	"time"

	"filedrop/internal/model"
)

// ErrSlugExists is returned when a slug insert hits the unique constraint,
// i.e. a concurrent writer claimed the slug after the caller's pre-check.
var ErrSlugExists = errors.New("slug already exists")

// QuotaDecision is the tagged outcome of the transactional quota check.
// Rejections are values, not errors: the store adapter guarantees rollback
// when Admitted is false instead of relying on error propagation across the
// storage boundary.
type QuotaDecision struct {
	Admitted bool
	Usage    int64 // active usage observed inside the transaction
	Limit    int64
}

// ContentRepository defines data access for content, slugs and registered
// directories using SQL queries only. No business logic here.
type ContentRepository interface {
	// CreateWithinQuota re-sums the user's active content size and inserts the
	// record in a single transaction serialized per user, so two concurrent
	// uploads cannot both observe a stale sum and jointly exceed the quota.
	// When the sum plus the new size would exceed quota, the transaction rolls
	// back, no record is created and the decision reports the observed usage.
	CreateWithinQuota(ctx context.Context, c *model.Content, quota int64, now time.Time) (*model.Content, QuotaDecision, error)

	// SumActiveSize returns the total byte size of the user's non-expired
	// content. Used by the non-transactional pre-check only.
	SumActiveSize(ctx context.Context, userID string, now time.Time) (int64, error)

	FindByID(ctx context.Context, id string) (*model.Content, error)
	Exists(ctx context.Context, id string) (bool, error)
	StoragePathExists(ctx context.Context, path string) (bool, error)
	FindBySlug(ctx context.Context, slug string) (*model.Content, error)
	ListByUser(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Content], error)

	// Update persists filename and expiry changes for an existing record.
	Update(ctx context.Context, c *model.Content) error

	// Delete removes a content row; slug rows cascade. It returns nil if the
	// row was deleted or did not exist.
	Delete(ctx context.Context, id string) error

	// FindExpired returns all content whose expiry timestamp is in the past.
	// Permanent records (NULL expiry) never match.
	FindExpired(ctx context.Context, now time.Time) ([]model.Content, error)

	// CreateSlug inserts a slug row; returns ErrSlugExists on a uniqueness race.
	CreateSlug(ctx context.Context, s *model.Slug) error
	FindSlugRecord(ctx context.Context, slug string) (*model.Slug, error)
	DeleteSlug(ctx context.Context, slug string) error

	FindDirectory(ctx context.Context, name string) (*model.Directory, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
type PageResult[T any] struct {
	Items []T
	Total int
}
