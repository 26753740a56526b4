package domain

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

const (
	// ShelfDirName is the name of the internal workspace directory.
	ShelfDirName = ".shelf"

	// LocalStoreFileName is the name of the local persistent store file.
	LocalStoreFileName = "store.json"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "shelf.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600

	// IndexFile is the name of the per-category index in the remote content store.
	IndexFile = "index.json"
	// RecordKeyPrefix prefixes record keys in the local persistent store.
	RecordKeyPrefix = "record:"
	// OverrideKeyPrefix prefixes manual existence marks in the local persistent store.
	OverrideKeyPrefix = "existence:"
)

// DefaultLocalStorePath returns the default path of the local persistent store.
// It joins .shelf and store.json.
func DefaultLocalStorePath() string {
	return filepath.Join(ShelfDirName, LocalStoreFileName)
}

// CleanPath normalizes a content store path: no leading or trailing slashes, no dot segments.
// It rejects empty paths and paths escaping the store root.
func CleanPath(p string) (string, error) {
	trimmed := strings.Trim(strings.TrimSpace(p), "/")
	if trimmed == "" {
		return "", zerr.With(zerr.Wrap(ErrInvalidPath, "path must name an entry below the store root"), "path", p)
	}
	cleaned := path.Clean(trimmed)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", zerr.With(zerr.Wrap(ErrInvalidPath, "path must name an entry below the store root"), "path", p)
	}
	return cleaned, nil
}

// CategoryDir returns the remote directory holding a category.
func CategoryDir(category string) string {
	return strings.Trim(category, "/")
}

// IndexPath returns the remote path of a category index.
func IndexPath(category string) string {
	return CategoryDir(category) + "/" + IndexFile
}

// RecordPath returns the remote path of a record.
func RecordPath(category, id string) string {
	return CategoryDir(category) + "/" + id + ".json"
}

// RecordKey returns the local store key of a record.
func RecordKey(category, id string) string {
	return RecordKeyPrefix + category + ":" + id
}

// OverrideKey returns the local store key of a manual existence mark.
func OverrideKey(path string) string {
	return OverrideKeyPrefix + path
}

// ValidName reports whether s can be used as a single path segment (category or record id).
func ValidName(s string) bool {
	if s == "" || s == "." || s == ".." {
		return false
	}
	return !strings.ContainsAny(s, "/\\:")
}
