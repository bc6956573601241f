package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "clean name unchanged",
			input: "report-2024_final.pdf",
			want:  "report-2024_final.pdf",
		},
		{
			name:  "strips unix path components",
			input: "../../etc/passwd",
			want:  "passwd",
		},
		{
			name:  "strips windows path components",
			input: `C:\Users\bob\notes.txt`,
			want:  "notes.txt",
		},
		{
			name:  "replaces disallowed characters",
			input: "my photo (1)!.jpg",
			want:  "my_photo__1__.jpg",
		},
		{
			name:  "replaces multibyte runes",
			input: "résumé.pdf",
			want:  "r_sum_.pdf",
		},
		{
			name:  "removes leading dots",
			input: "...hidden.txt",
			want:  "hidden.txt",
		},
		{
			name:  "dotfile with no remainder falls back",
			input: ".",
			want:  "file",
		},
		{
			name:  "empty input falls back",
			input: "",
			want:  "file",
		},
		{
			name:  "path ending in separator falls back",
			input: "uploads/",
			want:  "file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			assert.Equal(t, tt.want, got)

			// Sanitizing an already-sanitized name must be a no-op.
			assert.Equal(t, got, SanitizeFilename(got))
		})
	}
}

func TestSanitizeFilename_LengthCap(t *testing.T) {
	long := strings.Repeat("a", 300) + ".tar.gz"

	got := SanitizeFilename(long)

	assert.Len(t, got, maxFilenameLength)
	assert.True(t, strings.HasSuffix(got, ".gz"), "extension must survive truncation, got %q", got)
}

func TestSanitizeFilename_NeverEmpty(t *testing.T) {
	for _, input := range []string{"", ".", "..", "...", "/", `\`, "////"} {
		assert.NotEmpty(t, SanitizeFilename(input), "input %q", input)
	}
}
