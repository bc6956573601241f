package upload

import (
	"path/filepath"
	"strings"
)

const (
	maxFilenameLength = 200
	fallbackFilename  = "file"
)

// SanitizeFilename normalizes an arbitrary client-supplied filename into a
// filesystem- and header-safe name. Directory components are stripped, every
// character outside [A-Za-z0-9._-] becomes '_', leading dots are removed and
// the result is capped at 200 characters while keeping the extension suffix.
// The result is always non-empty; sanitizing is idempotent.
func SanitizeFilename(name string) string {
	// Keep only the final path segment, for both separator styles.
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	name = strings.TrimLeft(b.String(), ".")

	if len(name) > maxFilenameLength {
		ext := filepath.Ext(name)
		if len(ext) >= maxFilenameLength {
			name = name[:maxFilenameLength]
		} else {
			name = name[:maxFilenameLength-len(ext)] + ext
		}
	}

	if name == "" {
		return fallbackFilename
	}
	return name
}
