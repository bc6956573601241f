package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"filedrop/internal/ident"
	"filedrop/internal/model"
	"filedrop/internal/preview"
	"filedrop/internal/repository"
	"filedrop/internal/storage"
	"filedrop/internal/upload"
)

const (
	filePrefix    = "files"
	previewPrefix = "previews"
)

// UploadInput carries one upload request into the orchestrator. Optional
// fields use the empty string as "not supplied".
type UploadInput struct {
	UserID           string
	Role             model.Role
	Data             []byte
	OriginalFilename string
	CustomFilename   string
	Directory        string
	Slug             string
	ExpiryOption     string
}

// UploadResult is returned to the caller on a successful upload.
type UploadResult struct {
	Content   *model.Content `json:"content"`
	PublicURL string         `json:"public_url"`
	ShortURL  string         `json:"short_url,omitempty"`
}

// UploadService admits uploaded files end to end.
type UploadService interface {
	Upload(ctx context.Context, in UploadInput) (*UploadResult, error)
}

type uploadService struct {
	store    storage.Storage
	repo     repository.ContentRepository
	previews preview.Generator
	ids      *ident.Generator
	baseURL  string
	now      func() time.Time
}

// NewUploadService constructs the upload orchestrator.
func NewUploadService(store storage.Storage, repo repository.ContentRepository, previews preview.Generator, ids *ident.Generator, baseURL string) UploadService {
	return &uploadService{
		store:    store,
		repo:     repo,
		previews: previews,
		ids:      ids,
		baseURL:  strings.TrimRight(baseURL, "/"),
		now:      time.Now,
	}
}

// Upload validates the request, writes the blob, attempts a preview and
// commits the content record under the transactional quota check. Everything
// before the blob write is side-effect free; once the blob is written, any
// later failure deletes the written blob(s) before the error is reported.
func (s *uploadService) Upload(ctx context.Context, in UploadInput) (*UploadResult, error) {
	now := s.now().UTC()

	if err := upload.ValidateSize(int64(len(in.Data))); err != nil {
		return nil, err
	}

	ext, err := upload.ValidateExtension(in.OriginalFilename)
	if err != nil {
		return nil, err
	}

	quota := in.Role.Quota()
	if quota == 0 {
		return nil, upload.ErrUploadsNotAllowed
	}

	// Fast pre-check. The transactional re-check at commit time is
	// authoritative; this only avoids wasted blob I/O.
	usage, err := s.repo.SumActiveSize(ctx, in.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("sum active size: %w", err)
	}
	if usage+int64(len(in.Data)) > quota {
		return nil, &upload.QuotaExceededError{Usage: usage, Limit: quota}
	}

	expiresAt, err := upload.ComputeExpiry(in.Role, in.ExpiryOption, now)
	if err != nil {
		return nil, err
	}

	var dir string
	if in.Directory != "" {
		d, err := s.repo.FindDirectory(ctx, in.Directory)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, upload.ErrDirectoryNotAllowed
			}
			return nil, fmt.Errorf("resolve directory: %w", err)
		}
		dir = d.Name
	}

	var slugName string
	if in.Slug != "" {
		slugName, err = upload.NormalizeSlug(in.Slug)
		if err != nil {
			return nil, err
		}
		if err := s.checkSlugFree(ctx, slugName, ""); err != nil {
			return nil, err
		}
	}

	effective := in.OriginalFilename
	if in.CustomFilename != "" {
		effective = in.CustomFilename
	}
	filename := upload.SanitizeFilename(effective)

	token, err := ident.Token(12)
	if err != nil {
		return nil, err
	}
	storedName := token + "_" + filename
	key := path.Join(filePrefix, dir, storedName)

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	id, err := s.ids.NewID(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate id: %w", err)
	}

	// First externally visible side effect.
	if _, err := s.store.Put(ctx, key, bytes.NewReader(in.Data), storage.PutObjectOptions{
		Size:        int64(len(in.Data)),
		ContentType: contentType,
		Metadata:    map[string]string{"original-filename": in.OriginalFilename},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	previewPath := s.writePreview(ctx, token, contentType, in.Data)

	content := &model.Content{
		ID:               id,
		Filename:         filename,
		OriginalFilename: in.OriginalFilename,
		StoragePath:      key,
		PreviewPath:      previewPath,
		Directory:        dir,
		Size:             int64(len(in.Data)),
		Extension:        ext,
		ContentType:      contentType,
		ExpiresAt:        expiresAt,
		UserID:           in.UserID,
		CreatedAt:        now,
	}

	stored, dec, err := s.repo.CreateWithinQuota(ctx, content, quota, now)
	if err != nil {
		s.rollbackBlobs(ctx, key, previewPath)
		return nil, fmt.Errorf("commit content: %w", err)
	}
	if !dec.Admitted {
		s.rollbackBlobs(ctx, key, previewPath)
		return nil, &upload.StorageLimitError{Usage: dec.Usage, Limit: dec.Limit}
	}

	if slugName != "" {
		slug := &model.Slug{
			ID:        newUUID(),
			Slug:      slugName,
			ContentID: stored.ID,
			CreatedAt: now,
		}
		if err := s.repo.CreateSlug(ctx, slug); err != nil {
			// A concurrent writer may have claimed the slug after the
			// pre-check. Undo the record and the blobs.
			if delErr := s.repo.Delete(ctx, stored.ID); delErr != nil {
				logEvent("error", map[string]any{
					"event":      "upload_slug_rollback_failed",
					"content_id": stored.ID,
					"error":      delErr.Error(),
				})
			}
			s.rollbackBlobs(ctx, key, previewPath)
			if errors.Is(err, repository.ErrSlugExists) {
				return nil, upload.ErrSlugTaken
			}
			return nil, fmt.Errorf("create slug: %w", err)
		}
	}

	res := &UploadResult{
		Content:   stored,
		PublicURL: s.baseURL + "/files/" + stored.ID,
	}
	if slugName != "" {
		res.ShortURL = s.baseURL + "/s/" + slugName
	}
	return res, nil
}

// checkSlugFree fails with ErrSlugTaken when the slug belongs to different
// content. exemptContentID allows the edit path to re-submit a slug already
// bound to the same content.
func (s *uploadService) checkSlugFree(ctx context.Context, slug, exemptContentID string) error {
	rec, err := s.repo.FindSlugRecord(ctx, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("check slug: %w", err)
	}
	if exemptContentID != "" && rec.ContentID == exemptContentID {
		return nil
	}
	return upload.ErrSlugTaken
}

// writePreview attempts preview generation and upload. Any failure yields an
// empty path; the upload proceeds without a preview.
func (s *uploadService) writePreview(ctx context.Context, token, contentType string, data []byte) string {
	if s.previews == nil || !s.previews.IsPreviewable(contentType) {
		return ""
	}
	thumb := s.previews.Generate(data)
	if thumb == nil {
		return ""
	}
	key := path.Join(previewPrefix, token+".jpg")
	if _, err := s.store.Put(ctx, key, bytes.NewReader(thumb), storage.PutObjectOptions{
		Size:        int64(len(thumb)),
		ContentType: "image/jpeg",
	}); err != nil {
		logEvent("warn", map[string]any{
			"event": "preview_write_failed",
			"key":   key,
			"error": err.Error(),
		})
		return ""
	}
	return key
}

// rollbackBlobs best-effort deletes the blob(s) written earlier in the
// request. Cleanup failures are logged, never surfaced; the caller reports
// the original failure.
func (s *uploadService) rollbackBlobs(ctx context.Context, key, previewKey string) {
	if err := s.store.Delete(ctx, key); err != nil {
		logEvent("error", map[string]any{
			"event": "upload_rollback_delete_failed",
			"key":   key,
			"error": err.Error(),
		})
	}
	if previewKey == "" {
		return
	}
	if err := s.store.Delete(ctx, previewKey); err != nil {
		logEvent("error", map[string]any{
			"event": "upload_rollback_delete_failed",
			"key":   previewKey,
			"error": err.Error(),
		})
	}
}
