package storage

import (
	"clinic-portal-service/internal/app/config"
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinio connects to the S3-compatible API of Supabase Storage.
func NewMinio(driverConfig *config.DriverConfig) *minio.Client {
	minioClient, err := minio.New(driverConfig.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(driverConfig.Minio.AccessKey, driverConfig.Minio.SecretKey, ""),
		Secure: driverConfig.Minio.UseSSL,
		Region: driverConfig.Minio.Region,
	})
	if err != nil {
		log.Fatalf("Failed to initialize Minio Client: %s", err.Error())
	}

	log.Println("Successfully connected to minio")
	return minioClient
}
