package upload

import (
	"fmt"
	"slices"
	"strings"

	"github.com/shinonomekazan/akashic-game-drive/internal/apperror"
)

// Kind is the role of an uploaded object.
type Kind string

const (
	KindZip       Kind = "zip"
	KindThumbnail Kind = "thumbnail"
)

var (
	ErrUnsupportedKind     = apperror.BadRequest("Unsupported upload kind")
	ErrUnsupportedMimeType = apperror.BadRequest("Unsupported file type")
	ErrFileNameRequired    = apperror.BadRequest("Invalid file name")
	ErrFileNameSeparator   = apperror.BadRequest("File name contains invalid characters")
	ErrFileNameNotZip      = apperror.BadRequest("Only ZIP files are supported")
)

var mimeTypes = map[Kind][]string{
	KindZip:       {"application/zip", "application/x-zip-compressed"},
	KindThumbnail: {"image/png", "image/jpeg", "image/jpg", "image/webp"},
}

// ParseKind converts s into a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := mimeTypes[k]; !ok {
		return "", ErrUnsupportedKind
	}
	return k, nil
}

// Allows reports whether mimeType is accepted for k.
func (k Kind) Allows(mimeType string) bool {
	return slices.Contains(mimeTypes[k], mimeType)
}

// Extension returns the file extension used for generated object names.
func (k Kind) Extension(mimeType string) string {
	if k == KindZip {
		return "zip"
	}
	switch mimeType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}

// ValidateZipFileName checks a caller-supplied zip name and returns it trimmed.
func ValidateZipFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrFileNameRequired
	}
	if strings.ContainsAny(name, `\/`) {
		return "", ErrFileNameSeparator
	}
	if !strings.HasSuffix(strings.ToLower(name), ".zip") {
		return "", ErrFileNameNotZip
	}
	return name, nil
}

// ObjectPath returns the storage path of an object owned by uid.
func ObjectPath(uid string, kind Kind, objectName string) string {
	return fmt.Sprintf("uploads/%s/contents/%s/%s", uid, kind, objectName)
}

// Limits holds the size ceiling per kind.
type Limits struct {
	MaxZipBytes       int64
	MaxThumbnailBytes int64
}

// For returns the ceiling for k.
func (l Limits) For(k Kind) int64 {
	if k == KindZip {
		return l.MaxZipBytes
	}
	return l.MaxThumbnailBytes
}
