package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/warbler-app/warbler/config"
)

const MaxAvatarSize = 5 * 1024 * 1024

var ErrInvalidImage = errors.New("invalid image file type or size")

var avatarContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// ImageStore persists uploaded images and returns their public URL.
type ImageStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

type S3Store struct {
	Client *s3.Client
	Config config.StorageConfig
}

func NewS3Store(cfg config.StorageConfig) *S3Store {
	client := s3.New(s3.Options{
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		Region:       cfg.Region,
		UsePathStyle: true,
	})

	return &S3Store{Client: client, Config: cfg}
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := s.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.Config.BucketName),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s", s.Config.PublicURL, key), nil
}

func ValidAvatar(contentType string, size int64) bool {
	_, ok := avatarContentTypes[contentType]
	return ok && size > 0 && size <= MaxAvatarSize
}

// AvatarKey builds users/{id}/avatar/{unix}_{uuid}{ext}, with ext taken
// from the content type rather than the uploaded file name.
func AvatarKey(userID uint, contentType string) string {
	return fmt.Sprintf("users/%d/avatar/%d_%s%s", userID, time.Now().Unix(), uuid.New().String(), avatarContentTypes[contentType])
}

// UploadAvatar validates and stores a profile image for userID.
func UploadAvatar(ctx context.Context, store ImageStore, userID uint, contentType string, size int64, body io.Reader) (string, error) {
	if !ValidAvatar(contentType, size) {
		return "", ErrInvalidImage
	}
	return store.Put(ctx, AvatarKey(userID, contentType), contentType, body)
}
