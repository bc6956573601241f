package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{"admin", "uploader", "guest"} {
		role, err := ParseRole(raw)
		assert.NoError(t, err)
		assert.Equal(t, Role(raw), role)
	}

	for _, raw := range []string{"", "Admin", "superuser", "ADMIN"} {
		_, err := ParseRole(raw)
		assert.Error(t, err, "raw %q", raw)
	}
}

func TestRoleQuota(t *testing.T) {
	assert.Equal(t, int64(2<<30), RoleAdmin.Quota())
	assert.Equal(t, int64(500<<20), RoleUploader.Quota())
	assert.Equal(t, int64(0), RoleGuest.Quota())
}

func TestRoleExpiryPrivileges(t *testing.T) {
	assert.Equal(t, time.Duration(0), RoleAdmin.MaxExpiry())
	assert.Equal(t, 168*time.Hour, RoleUploader.MaxExpiry())
	assert.Equal(t, 168*time.Hour, RoleGuest.MaxExpiry())

	assert.True(t, RoleAdmin.CanStorePermanently())
	assert.False(t, RoleUploader.CanStorePermanently())
	assert.False(t, RoleGuest.CanStorePermanently())
}

func TestContentExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	permanent := &Content{}
	assert.False(t, permanent.Expired(now))

	future := now.Add(time.Minute)
	assert.False(t, (&Content{ExpiresAt: &future}).Expired(now))

	past := now.Add(-time.Minute)
	assert.True(t, (&Content{ExpiresAt: &past}).Expired(now))

	// Boundary counts as expired.
	exact := now
	assert.True(t, (&Content{ExpiresAt: &exact}).Expired(now))
}
