package upload

import (
	"errors"
	"fmt"
)

// Validation errors reported before any side effect is incurred.
var (
	ErrEmptyFile           = errors.New("file is empty")
	ErrFileTooLarge        = errors.New("file exceeds the per-file size limit")
	ErrNoExtension         = errors.New("filename has no extension")
	ErrBlockedExtension    = errors.New("file extension is blocked")
	ErrHiddenBlockedExtension = errors.New("filename hides a blocked extension")
	ErrExtensionNotAllowed = errors.New("file extension is not allowed")
	ErrUploadsNotAllowed   = errors.New("role is not allowed to upload")
	ErrPermanentNotAllowed = errors.New("permanent storage is not allowed for this role")
	ErrInvalidExpiry       = errors.New("expiry must be a positive number of hours")
	ErrExpiryTooShort      = errors.New("expiry is below the minimum")
	ErrExpiryTooLong       = errors.New("expiry exceeds the maximum for this role")
	ErrDirectoryNotAllowed = errors.New("directory is not registered")
	ErrEmptySlug           = errors.New("slug is empty")
	ErrSlugTooLong         = errors.New("slug is too long")
	ErrInvalidSlugFormat   = errors.New("slug format is invalid")
	ErrSlugTaken           = errors.New("slug is already in use")
	ErrContentNotFound     = errors.New("content not found")
	ErrContentExpired      = errors.New("content has expired")
	ErrForbidden           = errors.New("forbidden")
)

// QuotaExceededError is the non-authoritative pre-check rejection. It carries
// the observed usage and the role limit for actionable feedback.
type QuotaExceededError struct {
	Usage int64
	Limit int64
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("storage quota exceeded: %d of %d bytes used", e.Usage, e.Limit)
}

// StorageLimitError is the authoritative rejection raised by the transactional
// quota re-check at commit time.
type StorageLimitError struct {
	Usage int64
	Limit int64
}

func (e *StorageLimitError) Error() string {
	return fmt.Sprintf("storage quota exceeded at commit: %d of %d bytes used", e.Usage, e.Limit)
}
