package model

import "time"

// Content represents one uploaded object and its stored metadata.
// This is a pure domain model with no database-specific dependencies or tags.
type Content struct {
	ID               string     `json:"id"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	StoragePath      string     `json:"storage_path"`
	PreviewPath      string     `json:"preview_path,omitempty"`
	Directory        string     `json:"directory,omitempty"`
	Size             int64      `json:"size"`
	Extension        string     `json:"extension"`
	ContentType      string     `json:"content_type"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	UserID           string     `json:"user_id"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Expired reports whether the content's expiry has passed at the given time.
// Content with a nil ExpiresAt is permanent and never expires.
func (c *Content) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

// Slug is a short alias path segment resolving to a Content item.
// The slug string is globally unique across all content.
type Slug struct {
	ID        string    `json:"id"`
	Slug      string    `json:"slug"`
	ContentID string    `json:"content_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Directory is a pre-registered upload subdirectory. Uploads may only target
// directories present in this registry.
type Directory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
