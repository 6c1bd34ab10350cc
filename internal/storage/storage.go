package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Storage persists uploaded listing images. The local driver writes under the
// configured upload directory; the s3 driver writes to a bucket. Save returns
// the public path clients use to fetch the file.
type Storage interface {
	Save(ctx context.Context, filename string, r io.Reader, contentType string) (string, error)
	Open(ctx context.Context, filename string) (io.ReadCloser, error)
	Delete(ctx context.Context, filename string) error
}

// ThumbFilename derives the thumbnail name for an original upload. Thumbnails
// are always re-encoded as JPEG.
func ThumbFilename(filename string) string {
	return strings.TrimSuffix(filename, path.Ext(filename)) + "_thumb.jpg"
}
