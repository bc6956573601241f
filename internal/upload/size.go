package upload

// MaxFileSize is the per-file upload cap in bytes (100 MB).
const MaxFileSize = 100 << 20

// ValidateSize checks the declared byte size of an upload.
func ValidateSize(size int64) error {
	if size <= 0 {
		return ErrEmptyFile
	}
	if size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}
