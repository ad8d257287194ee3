package services

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const workbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// StorageService keeps the raw uploaded workbooks in object storage
type StorageService interface {
	UploadWorkbook(ctx context.Context, objectName string, reader io.Reader, objectSize int64) error
	OpenWorkbook(ctx context.Context, objectName string) (io.ReadCloser, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

type minioStorage struct {
	client *minio.Client
	bucket string
}

func NewStorageService(endpoint, accessKey, secretKey, region, bucket string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, bucket: bucket}, nil
}

func (m *minioStorage) UploadWorkbook(ctx context.Context, objectName string, reader io.Reader, objectSize int64) error {
	_, err := m.client.PutObject(ctx, m.bucket, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: workbookContentType,
	})
	if err != nil {
		return fmt.Errorf("failed to store workbook %s: %w", objectName, err)
	}
	return nil
}

func (m *minioStorage) OpenWorkbook(ctx context.Context, objectName string) (io.ReadCloser, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", objectName, err)
	}
	return obj, nil
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioStorage) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
