package upload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantExt  string
		wantErr  error
	}{
		{
			name:     "allowed image",
			filename: "photo.jpg",
			wantExt:  ".jpg",
		},
		{
			name:     "allowed document uppercase",
			filename: "REPORT.PDF",
			wantExt:  ".pdf",
		},
		{
			name:     "multi-dot archive",
			filename: "backup.tar.gz",
			wantExt:  ".gz",
		},
		{
			name:     "no extension",
			filename: "README",
			wantErr:  ErrNoExtension,
		},
		{
			name:     "trailing dot",
			filename: "notes.",
			wantErr:  ErrNoExtension,
		},
		{
			name:     "blocked executable",
			filename: "setup.exe",
			wantErr:  ErrBlockedExtension,
		},
		{
			name:     "blocked script",
			filename: "index.php",
			wantErr:  ErrBlockedExtension,
		},
		{
			name:     "blocked markup",
			filename: "page.html",
			wantErr:  ErrBlockedExtension,
		},
		{
			name:     "hidden blocked extension behind allowed one",
			filename: "page.html.jpg",
			wantErr:  ErrHiddenBlockedExtension,
		},
		{
			name:     "hidden executable behind document",
			filename: "invoice.exe.pdf",
			wantErr:  ErrHiddenBlockedExtension,
		},
		{
			name:     "hidden blocked deep in the chain",
			filename: "a.php.b.png",
			wantErr:  ErrHiddenBlockedExtension,
		},
		{
			name:     "unlisted extension",
			filename: "model.blend",
			wantErr:  ErrExtensionNotAllowed,
		},
		{
			name:     "blocked wins when both apply",
			filename: "payload.jpg.exe",
			wantErr:  ErrBlockedExtension,
		},
		{
			name:     "interior non-blocked segment is fine",
			filename: "my.vacation.photos.zip",
			wantExt:  ".zip",
		},
		{
			name:     "case-insensitive block check",
			filename: "SETUP.EXE",
			wantErr:  ErrBlockedExtension,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext, err := ValidateExtension(tt.filename)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantExt, ext)
		})
	}
}
