package objectstore

import (
	"context"
	"fmt"
	"log"
	"time"

	"alumnet/internal/platform/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Client issues presigned upload URLs against an S3-compatible object store.
// Media bytes never pass through the application server.
type Client struct {
	mc     *minio.Client
	bucket string
	base   string
}

func Connect() *Client {
	cfg := config.AppConfig

	mc, err := minio.New(cfg.ObjectStoreEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ObjectStoreAccessKey, cfg.ObjectStoreSecretKey, ""),
		Secure: cfg.ObjectStoreUseSSL,
		Region: cfg.ObjectStoreRegion,
	})
	if err != nil {
		log.Fatalf("Could not initialize object store client: %v", err)
	}

	scheme := "http"
	if cfg.ObjectStoreUseSSL {
		scheme = "https"
	}

	log.Println("Object store client initialized")
	return &Client{
		mc:     mc,
		bucket: cfg.ObjectStoreBucket,
		base:   fmt.Sprintf("%s://%s/%s", scheme, cfg.ObjectStoreEndpoint, cfg.ObjectStoreBucket),
	}
}

// PresignedPutURL returns a time-limited URL allowing a direct client PUT of the
// object identified by key.
func (c *Client) PresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := c.mc.PresignedPutObject(ctx, c.bucket, key, expiry)
	if err != nil {
		return "", fmt.Errorf("objectstore.PresignedPutURL: %w", err)
	}
	return u.String(), nil
}

// ResourceURL is the stable public URL the stored object will be retrievable at
// once the client-side upload completes.
func (c *Client) ResourceURL(key string) string {
	return c.base + "/" + key
}
