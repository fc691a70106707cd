package upload

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// allowedExtensions is the extension allow-list applied to generated storage
// names. Anything else is stored as .bin so an uploaded payload can never
// carry an executable extension into the blob store.
var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".txt": {}, ".rtf": {},
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {},
	".xls": {}, ".xlsx": {}, ".csv": {},
	".zip": {}, ".rar": {}, ".7z": {},
}

// allowedMimeTypes is the content-type allow-list; files outside it are
// silently dropped rather than failing the whole request.
var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"text/plain": {},
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
	"text/csv":                     {},
	"application/zip":              {},
	"application/x-rar-compressed": {},
	"application/x-7z-compressed":  {},
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

const maxDisplayNameLen = 255

// MimeAllowed reports whether the declared content type may be stored.
func MimeAllowed(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if idx := strings.IndexByte(mimeType, ';'); idx >= 0 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}
	_, ok := allowedMimeTypes[mimeType]
	return ok
}

// SafeExtension returns the lowercased extension of name when allow-listed,
// else ".bin".
func SafeExtension(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; ok {
		return ext
	}
	return ".bin"
}

// SanitizeDisplayName strips path components from the user-supplied filename
// and restricts it to a safe character set. The result is only ever used for
// display and as the download filename, never on the filesystem.
func SanitizeDisplayName(name string) string {
	// Strip both slash styles before basename so a Windows-style path does
	// not survive on a Unix host.
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	if base == "." || base == "/" {
		base = "file"
	}
	sanitized := unsafeChars.ReplaceAllString(base, "_")
	if len(sanitized) > maxDisplayNameLen {
		sanitized = sanitized[:maxDisplayNameLen]
	}
	if sanitized == "" {
		sanitized = "file"
	}
	return sanitized
}
