package model

import (
	"fmt"
	"time"
)

// Role determines a user's storage quota and expiry privileges.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleUploader Role = "uploader"
	RoleGuest    Role = "guest"
)

// Role quota and expiry tables. These are part of the service contract,
// not runtime configuration.
const (
	quotaAdmin    = 2 << 30   // 2 GiB
	quotaUploader = 500 << 20 // 500 MiB

	// MaxExpiryHours is the expiry ceiling for non-admin roles.
	MaxExpiryHours = 168
)

// ParseRole validates a raw role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUploader, RoleGuest:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Quota returns the role's active-storage quota in bytes. A zero quota
// disallows uploading entirely.
func (r Role) Quota() int64 {
	switch r {
	case RoleAdmin:
		return quotaAdmin
	case RoleUploader:
		return quotaUploader
	default:
		return 0
	}
}

// MaxExpiry returns the longest expiry the role may request, or zero for
// no ceiling (admins).
func (r Role) MaxExpiry() time.Duration {
	if r == RoleAdmin {
		return 0
	}
	return MaxExpiryHours * time.Hour
}

// CanStorePermanently reports whether the role may upload without an expiry.
func (r Role) CanStorePermanently() bool {
	return r == RoleAdmin
}
