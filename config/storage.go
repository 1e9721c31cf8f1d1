package config

import (
	"fmt"
	"os"
)

// StorageConfig describes an S3 compatible bucket (Cloudflare R2 by default)
// for profile images.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
}

func GetStorageConfig() StorageConfig {
	cfg := StorageConfig{
		Endpoint:        os.Getenv("S3_ENDPOINT"),
		AccessKeyID:     os.Getenv("CLOUDFLARE_ACCESS_KEY_ID"),
		SecretAccessKey: os.Getenv("CLOUDFLARE_SECRET_ACCESS_KEY"),
		BucketName:      os.Getenv("CLOUDFLARE_BUCKET_NAME"),
		PublicURL:       os.Getenv("CLOUDFLARE_PUBLIC_URL"),
		Region:          getEnv("S3_REGION", "auto"),
	}
	if cfg.Endpoint == "" {
		if accountID := os.Getenv("CLOUDFLARE_ACCOUNT_ID"); accountID != "" {
			cfg.Endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
		}
	}
	return cfg
}

func (s StorageConfig) Enabled() bool {
	return s.BucketName != "" && s.Endpoint != ""
}
