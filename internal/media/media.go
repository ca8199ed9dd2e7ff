// Package media classifies uploaded files by extension and produces safe
// on-disk names for them.
package media

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/kiranshivaraju/mediaguard/pkg/models"
)

// ErrUnsupportedFormat is returned when a filename's extension is not a known
// image or video extension.
var ErrUnsupportedFormat = errors.New("unsupported media format")

type format struct {
	kind     models.MediaKind
	mimeType string
}

var formats = map[string]format{
	".png":  {models.MediaKindImage, "image/png"},
	".jpg":  {models.MediaKindImage, "image/jpeg"},
	".jpeg": {models.MediaKindImage, "image/jpeg"},
	".webp": {models.MediaKindImage, "image/webp"},
	".mp4":  {models.MediaKindVideo, "video/mp4"},
	".mov":  {models.MediaKindVideo, "video/quicktime"},
	".avi":  {models.MediaKindVideo, "video/x-msvideo"},
	".mkv":  {models.MediaKindVideo, "video/x-matroska"},
}

// Classify returns the MediaKind for filename based solely on its extension.
// Matching is case-insensitive. A name without a recognized extension fails
// with ErrUnsupportedFormat.
func Classify(filename string) (models.MediaKind, error) {
	f, ok := formats[Ext(filename)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	return f.kind, nil
}

// MIMEType returns the MIME type the remote service expects for filename,
// or ErrUnsupportedFormat.
func MIMEType(filename string) (string, error) {
	f, ok := formats[Ext(filename)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
	return f.mimeType, nil
}

// Ext returns the lower-cased extension of the last path element of filename,
// including the leading dot. Both slash styles are treated as separators.
func Ext(filename string) string {
	return strings.ToLower(filepath.Ext(baseName(filename)))
}

func baseName(filename string) string {
	if i := strings.LastIndexAny(filename, `/\`); i >= 0 {
		return filename[i+1:]
	}
	return filename
}
