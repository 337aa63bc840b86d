package attachment

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/gravadigital/hackathon-api/internal/domain/common"
)

// allowedImageTypes maps accepted content types to the extension used in object keys.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Image is an uploaded idea picture before it is written to the object store.
type Image struct {
	IdeaID       uint
	EventID      uint
	OriginalName string
	ContentType  string
	Size         int64
	ObjectKey    string
}

// NewImage validates an upload and assigns it a unique object key
func NewImage(ideaID, eventID uint, originalName, contentType string, size, maxSize int64) (*Image, error) {
	contentType = strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, common.Validation("unsupported image type %q", contentType)
	}
	if size <= 0 {
		return nil, common.Validation("image is empty")
	}
	if maxSize > 0 && size > maxSize {
		return nil, common.Validation("image exceeds the maximum size of %d bytes", maxSize)
	}

	return &Image{
		IdeaID:       ideaID,
		EventID:      eventID,
		OriginalName: path.Base(originalName),
		ContentType:  contentType,
		Size:         size,
		ObjectKey:    path.Join("ideas", uuid.NewString()+ext),
	}, nil
}

// AllowedContentTypes lists the accepted upload types
func AllowedContentTypes() []string {
	out := make([]string, 0, len(allowedImageTypes))
	for ct := range allowedImageTypes {
		out = append(out, ct)
	}
	return out
}
