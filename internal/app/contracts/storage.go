package contracts

import (
	"context"
	"time"
)

type Storage interface {
	UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error)
	GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error)
	RemoveObject(ctx context.Context, bucketName, objectName string) error
	BucketExists(ctx context.Context, bucketName string) (bool, error)
}
