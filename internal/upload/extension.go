package upload

import (
	"fmt"
	"strings"
)

// blockedExtensions are never admissible, neither as the final extension nor
// smuggled as an interior segment of a multi-dot filename. The block-list
// always wins over the allow-list.
var blockedExtensions = map[string]bool{
	// Executables and installers
	"exe": true, "com": true, "msi": true, "bat": true, "cmd": true,
	"scr": true, "pif": true, "cpl": true, "jar": true, "app": true,
	"apk": true, "dmg": true, "deb": true, "rpm": true,
	// Shells and server-side scripts
	"sh": true, "bash": true, "ps1": true, "vbs": true, "wsf": true,
	"php": true, "php3": true, "php4": true, "php5": true, "phtml": true,
	"asp": true, "aspx": true, "jsp": true, "cgi": true, "pl": true,
	"py": true, "rb": true,
	// Markup and script capable of execution in a renderer
	"html": true, "htm": true, "xhtml": true, "shtml": true, "js": true,
	"mjs": true, "svg": true, "xml": true, "xsl": true, "swf": true,
	// Libraries and drivers
	"dll": true, "so": true, "dylib": true, "sys": true,
}

// allowedExtensions is the fixed admission allow-list.
var allowedExtensions = map[string]bool{
	// Images
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"bmp": true, "ico": true, "tif": true, "tiff": true, "heic": true,
	// Documents
	"pdf": true, "txt": true, "md": true, "rtf": true, "csv": true,
	"doc": true, "docx": true, "xls": true, "xlsx": true, "ppt": true,
	"pptx": true, "odt": true, "ods": true, "odp": true, "epub": true,
	// Audio
	"mp3": true, "wav": true, "flac": true, "ogg": true, "m4a": true,
	"opus": true,
	// Video
	"mp4": true, "webm": true, "mkv": true, "mov": true, "avi": true,
	// Archives
	"zip": true, "tar": true, "gz": true, "bz2": true, "xz": true,
	"7z": true, "rar": true,
	// Data
	"json": true, "yaml": true, "yml": true, "toml": true, "log": true,
}

// ValidateExtension decides whether a filename's extension(s) are admissible
// and returns the final extension with its leading dot, lowercased.
//
// Interior segments of a multi-dot filename are checked against the block-list
// first, so "report.html.jpg" is rejected even though ".jpg" is allowed.
func ValidateExtension(filename string) (string, error) {
	lower := strings.ToLower(filename)

	dot := strings.LastIndexByte(lower, '.')
	if dot < 0 || dot == len(lower)-1 {
		return "", ErrNoExtension
	}
	final := lower[dot+1:]

	segments := strings.Split(lower, ".")
	for _, seg := range segments[1 : len(segments)-1] {
		if blockedExtensions[seg] {
			return "", fmt.Errorf("%w: .%s", ErrHiddenBlockedExtension, seg)
		}
	}

	if blockedExtensions[final] {
		return "", fmt.Errorf("%w: .%s", ErrBlockedExtension, final)
	}
	if !allowedExtensions[final] {
		return "", fmt.Errorf("%w: .%s", ErrExtensionNotAllowed, final)
	}
	return "." + final, nil
}
