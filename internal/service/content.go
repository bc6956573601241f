package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"filedrop/internal/model"
	"filedrop/internal/repository"
	"filedrop/internal/storage"
	"filedrop/internal/upload"
)

// UpdateInput carries the admin edit fields. Nil pointers leave the field
// unchanged; the distinction between "absent" and "empty" matters here.
type UpdateInput struct {
	Filename     *string
	ExpiryOption *string
	Slug         *string
}

// LinkResult carries a presigned download URL and its expiry.
type LinkResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// defaultLinkTTL bounds presigned download URLs.
const defaultLinkTTL = 15 * time.Minute

// UsageReport summarizes a user's active storage consumption.
type UsageReport struct {
	Usage int64 `json:"usage"`
	Limit int64 `json:"limit"`
}

// ContentService serves and administers uploaded content. Every read path
// checks expiry lazily: expired content is refused even before the sweep
// reclaims it.
type ContentService interface {
	Get(ctx context.Context, id string) (*model.Content, error)
	GetBySlug(ctx context.Context, slug string) (*model.Content, error)
	// Open returns the raw bytes of eligible content.
	Open(ctx context.Context, id string) (io.ReadCloser, *model.Content, error)
	// OpenPreview returns the preview blob, or ErrContentNotFound when the
	// content has no preview.
	OpenPreview(ctx context.Context, id string) (io.ReadCloser, *model.Content, error)
	// Link returns a presigned download URL. The URL never outlives the
	// content itself.
	Link(ctx context.Context, id string) (*LinkResult, error)
	// Delete removes content, its blobs and its slugs. Non-admins may only
	// delete their own content.
	Delete(ctx context.Context, id, userID string, role model.Role) error
	// Update applies an admin edit: display filename, expiry, attached slug.
	Update(ctx context.Context, id string, role model.Role, in UpdateInput) (*model.Content, error)
	List(ctx context.Context, userID string, limit, offset int) (*ContentListResult, error)
	Usage(ctx context.Context, userID string, role model.Role) (*UsageReport, error)
}

// ContentListResult is the service-level DTO for paginated content.
type ContentListResult struct {
	Items []model.Content `json:"data"`
	Total int             `json:"total"`
}

type contentService struct {
	store storage.Storage
	repo  repository.ContentRepository
	now   func() time.Time
}

// NewContentService constructs a ContentService.
func NewContentService(store storage.Storage, repo repository.ContentRepository) ContentService {
	return &contentService{store: store, repo: repo, now: time.Now}
}

func (s *contentService) Get(ctx context.Context, id string) (*model.Content, error) {
	if id == "" {
		return nil, upload.ErrContentNotFound
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, upload.ErrContentNotFound
		}
		return nil, err
	}
	if c.Expired(s.now()) {
		return nil, upload.ErrContentExpired
	}
	return c, nil
}

func (s *contentService) GetBySlug(ctx context.Context, slug string) (*model.Content, error) {
	c, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, upload.ErrContentNotFound
		}
		return nil, err
	}
	if c.Expired(s.now()) {
		return nil, upload.ErrContentExpired
	}
	return c, nil
}

func (s *contentService) Open(ctx context.Context, id string) (io.ReadCloser, *model.Content, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, c.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("read blob: %w", err)
	}
	return rc, c, nil
}

func (s *contentService) OpenPreview(ctx context.Context, id string) (io.ReadCloser, *model.Content, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if c.PreviewPath == "" {
		return nil, nil, upload.ErrContentNotFound
	}
	rc, _, err := s.store.Get(ctx, c.PreviewPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read preview blob: %w", err)
	}
	return rc, c, nil
}

func (s *contentService) Link(ctx context.Context, id string) (*LinkResult, error) {
	c, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ttl := defaultLinkTTL
	if c.ExpiresAt != nil {
		if until := c.ExpiresAt.Sub(s.now()); until < ttl {
			ttl = until
		}
	}
	url, err := s.store.PresignGet(ctx, c.StoragePath, ttl)
	if err != nil {
		return nil, fmt.Errorf("presign download: %w", err)
	}
	return &LinkResult{URL: url, ExpiresAt: s.now().Add(ttl)}, nil
}

func (s *contentService) Delete(ctx context.Context, id, userID string, role model.Role) error {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return upload.ErrContentNotFound
		}
		return err
	}
	if role != model.RoleAdmin && c.UserID != userID {
		return upload.ErrForbidden
	}

	// Delete from storage first; if this fails, keep the row so the blob
	// reference is not lost.
	if err := s.store.Delete(ctx, c.StoragePath); err != nil {
		return fmt.Errorf("delete storage: %w", err)
	}
	if c.PreviewPath != "" {
		if err := s.store.Delete(ctx, c.PreviewPath); err != nil {
			logEvent("warn", map[string]any{
				"event":      "preview_delete_failed",
				"content_id": c.ID,
				"key":        c.PreviewPath,
				"error":      err.Error(),
			})
		}
	}
	// Slug rows cascade with the content row.
	return s.repo.Delete(ctx, id)
}

func (s *contentService) Update(ctx context.Context, id string, role model.Role, in UpdateInput) (*model.Content, error) {
	if role != model.RoleAdmin {
		return nil, upload.ErrForbidden
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, upload.ErrContentNotFound
		}
		return nil, err
	}

	if in.Filename != nil {
		c.Filename = upload.SanitizeFilename(*in.Filename)
	}
	if in.ExpiryOption != nil {
		expiresAt, err := upload.ComputeExpiry(role, *in.ExpiryOption, s.now().UTC())
		if err != nil {
			return nil, err
		}
		c.ExpiresAt = expiresAt
	}

	if in.Slug != nil {
		slugName, err := upload.NormalizeSlug(*in.Slug)
		if err != nil {
			return nil, err
		}
		rec, err := s.repo.FindSlugRecord(ctx, slugName)
		switch {
		case err == nil && rec.ContentID == c.ID:
			// Re-submitting the slug already bound to this content is fine.
		case err == nil:
			return nil, upload.ErrSlugTaken
		case errors.Is(err, sql.ErrNoRows):
			slug := &model.Slug{
				ID:        newUUID(),
				Slug:      slugName,
				ContentID: c.ID,
				CreatedAt: s.now().UTC(),
			}
			if err := s.repo.CreateSlug(ctx, slug); err != nil {
				if errors.Is(err, repository.ErrSlugExists) {
					return nil, upload.ErrSlugTaken
				}
				return nil, err
			}
		default:
			return nil, err
		}
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *contentService) List(ctx context.Context, userID string, limit, offset int) (*ContentListResult, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.repo.ListByUser(ctx, userID, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	return &ContentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *contentService) Usage(ctx context.Context, userID string, role model.Role) (*UsageReport, error) {
	usage, err := s.repo.SumActiveSize(ctx, userID, s.now())
	if err != nil {
		return nil, err
	}
	return &UsageReport{Usage: usage, Limit: role.Quota()}, nil
}
