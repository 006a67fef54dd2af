package port

import (
	"context"
	"io"
	"time"
)

// UploadInput describes an object to store.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
}

// UploadOutput describes a stored object.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage stores generated artifacts (review-queue exports).
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	PresignDownload(ctx context.Context, bucket, key string, expiry time.Duration) (string, error)
}
