package roster

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// MaxAvatarSize is the maximum allowed avatar file size in bytes.
const MaxAvatarSize = 2_000_000

// acceptedAvatarExtensions lists the raster image formats accepted for
// avatar uploads, keyed by filename extension (without the dot).
var acceptedAvatarExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// IsAcceptedAvatarType reports whether a content type belongs to the avatar
// allow-list (e.g. "image/png").
func IsAcceptedAvatarType(contentType string) bool {
	mediaType, ok := strings.CutPrefix(strings.ToLower(contentType), "image/")
	if !ok {
		return false
	}
	// Trim optional parameters such as "; charset=...".
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = strings.TrimSpace(mediaType[:i])
	}
	return acceptedAvatarExtensions[mediaType]
}

// ValidateAvatar checks a candidate upload against the avatar allow-list and
// size ceiling. The filename extension and declared content type must both
// match, case-insensitively on the filename.
//
// The check inspects client-declared metadata only, not file content, so it
// is advisory rather than a security boundary.
func ValidateAvatar(filename, contentType string, size int64) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if !acceptedAvatarExtensions[ext] {
		return Invalid("avatar must be a png, jpg, jpeg or gif image")
	}
	if !IsAcceptedAvatarType(contentType) {
		return Invalid("avatar content type %q is not an accepted image type", contentType)
	}
	if size > MaxAvatarSize {
		return Invalid("avatar exceeds the maximum size of %d bytes", MaxAvatarSize)
	}
	return nil
}

// AvatarKey derives the storage key for an uploaded avatar from the student
// ID and the upload time: "<id>_<unix-millis>.<ext>". Repeated uploads for
// the same student produce distinct keys as long as their timestamps differ;
// two uploads within the same millisecond would collide, which is a known
// limitation.
func AvatarKey(id, filename string) string {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	return fmt.Sprintf("%s_%d.%s", id, time.Now().UnixMilli(), ext)
}
