package service

import (
	"context"
	"crypto/subtle"
	"time"

	"filedrop/internal/repository"
	"filedrop/internal/storage"
	"filedrop/internal/upload"
)

// SweepResult tallies one cleanup sweep. The sweep itself always succeeds;
// per-item failures are counted, not propagated.
type SweepResult struct {
	Found   int `json:"found"`
	Deleted int `json:"deleted"`
	Errors  int `json:"errors"`
}

// ReconcileResult tallies one orphan-blob reconciliation pass.
type ReconcileResult struct {
	Scanned int `json:"scanned"`
	Removed int `json:"removed"`
}

// CleanupService reclaims storage for expired content and for orphaned blobs
// left behind by crashed uploads.
type CleanupService interface {
	// Authorize compares the caller-supplied secret in constant time.
	Authorize(secret string) error
	// Sweep deletes every expired content item: primary blob, preview blob,
	// then the record. Items are independent; one failure does not abort the
	// rest.
	Sweep(ctx context.Context) (*SweepResult, error)
	// Reconcile removes blobs older than the grace window that no content
	// record references.
	Reconcile(ctx context.Context) (*ReconcileResult, error)
	// Run invokes Sweep on a fixed interval until the context is cancelled.
	Run(ctx context.Context, interval time.Duration)
}

type cleanupService struct {
	store       storage.Storage
	repo        repository.ContentRepository
	secret      string
	orphanGrace time.Duration
	now         func() time.Time
}

// NewCleanupService constructs a CleanupService.
func NewCleanupService(store storage.Storage, repo repository.ContentRepository, secret string, orphanGrace time.Duration) CleanupService {
	return &cleanupService{
		store:       store,
		repo:        repo,
		secret:      secret,
		orphanGrace: orphanGrace,
		now:         time.Now,
	}
}

func (s *cleanupService) Authorize(secret string) error {
	if s.secret == "" {
		return upload.ErrForbidden
	}
	if subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		return upload.ErrForbidden
	}
	return nil
}

func (s *cleanupService) Sweep(ctx context.Context) (*SweepResult, error) {
	expired, err := s.repo.FindExpired(ctx, s.now())
	if err != nil {
		return nil, err
	}

	res := &SweepResult{Found: len(expired)}
	for _, c := range expired {
		// A blob-delete failure keeps the record so the next sweep retries
		// the same item; only fully cleaned items lose their row.
		if err := s.store.Delete(ctx, c.StoragePath); err != nil {
			logEvent("error", map[string]any{
				"event":      "sweep_blob_delete_failed",
				"content_id": c.ID,
				"key":        c.StoragePath,
				"error":      err.Error(),
			})
			res.Errors++
			continue
		}
		if c.PreviewPath != "" {
			if err := s.store.Delete(ctx, c.PreviewPath); err != nil {
				logEvent("error", map[string]any{
					"event":      "sweep_preview_delete_failed",
					"content_id": c.ID,
					"key":        c.PreviewPath,
					"error":      err.Error(),
				})
				res.Errors++
				continue
			}
		}
		if err := s.repo.Delete(ctx, c.ID); err != nil {
			logEvent("error", map[string]any{
				"event":      "sweep_record_delete_failed",
				"content_id": c.ID,
				"error":      err.Error(),
			})
			res.Errors++
			continue
		}
		res.Deleted++
	}

	logEvent("info", map[string]any{
		"event":   "cleanup_sweep",
		"found":   res.Found,
		"deleted": res.Deleted,
		"errors":  res.Errors,
	})
	return res, nil
}

func (s *cleanupService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	res := &ReconcileResult{}
	cutoff := s.now().Add(-s.orphanGrace)

	for _, prefix := range []string{filePrefix + "/", previewPrefix + "/"} {
		objects, err := s.store.List(ctx, prefix)
		if err != nil {
			return nil, err
		}
		for _, obj := range objects {
			res.Scanned++
			// Recent objects may belong to an upload still in flight.
			if obj.LastModified.After(cutoff) {
				continue
			}
			referenced, err := s.repo.StoragePathExists(ctx, obj.Key)
			if err != nil {
				logEvent("error", map[string]any{
					"event": "reconcile_lookup_failed",
					"key":   obj.Key,
					"error": err.Error(),
				})
				continue
			}
			if referenced {
				continue
			}
			if err := s.store.Delete(ctx, obj.Key); err != nil {
				logEvent("error", map[string]any{
					"event": "reconcile_delete_failed",
					"key":   obj.Key,
					"error": err.Error(),
				})
				continue
			}
			res.Removed++
		}
	}

	logEvent("info", map[string]any{
		"event":   "orphan_reconcile",
		"scanned": res.Scanned,
		"removed": res.Removed,
	})
	return res, nil
}

// Run drives periodic sweeps until ctx is cancelled. Sweep errors are logged
// and the loop continues.
func (s *cleanupService) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				logEvent("error", map[string]any{
					"event": "cleanup_sweep_failed",
					"error": err.Error(),
				})
			}
		case <-ctx.Done():
			return
		}
	}
}
