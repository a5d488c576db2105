package storage

import (
	"bytes"
	"clinic-portal-service/internal/app/contracts"
	"clinic-portal-service/internal/pkg/constvars"
	"clinic-portal-service/internal/pkg/exceptions"
	"context"
	"fmt"
	"net/url"
	"path"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

type minioStorage struct {
	MinioClient *minio.Client
	Log         *zap.Logger
}

func NewMinioStorage(minioClient *minio.Client, logger *zap.Logger) contracts.Storage {
	return &minioStorage{
		MinioClient: minioClient,
		Log:         logger,
	}
}

func (m *minioStorage) UploadObject(ctx context.Context, bucketName, objectName, contentType string, data []byte) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	if len(data) == 0 {
		return "", exceptions.ErrMinioCreateObject(fmt.Errorf("object %s is empty", objectName), bucketName)
	}

	info, err := m.MinioClient.PutObject(
		ctx,
		bucketName,
		objectName,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		m.Log.Error("minioStorage.UploadObject error calling PutObject",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingBucketNameKey, bucketName),
			zap.String(constvars.LoggingObjectNameKey, objectName),
			zap.Error(err),
		)
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}

	m.Log.Info("minioStorage.UploadObject succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketNameKey, bucketName),
		zap.String(constvars.LoggingObjectNameKey, info.Key),
		zap.Int64("size", info.Size),
	)
	return info.Key, nil
}

func (m *minioStorage) GetObjectUrlWithExpiryTime(ctx context.Context, bucketName, objectName string, expiryTime time.Duration) (string, error) {
	params := url.Values{}
	params.Set("response-content-disposition", fmt.Sprintf("attachment; filename=%q", path.Base(objectName)))

	presigned, err := m.MinioClient.PresignedGetObject(ctx, bucketName, objectName, expiryTime, params)
	if err != nil {
		return "", exceptions.ErrMinioPresignObject(err, bucketName)
	}
	return presigned.String(), nil
}

func (m *minioStorage) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	err := m.MinioClient.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return exceptions.ErrMinioRemoveObject(err, bucketName)
	}
	return nil
}

func (m *minioStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return m.MinioClient.BucketExists(ctx, bucketName)
}
