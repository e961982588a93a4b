package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"alumnet/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresigner struct {
	lastKey    string
	lastExpiry time.Duration
}

func (f *fakePresigner) PresignedPutURL(_ context.Context, key string, expiry time.Duration) (string, error) {
	f.lastKey = key
	f.lastExpiry = expiry
	return "http://store/upload/" + key + "?signed=1", nil
}

func (f *fakePresigner) ResourceURL(key string) string {
	return "http://store/bucket/" + key
}

func TestRequestUpload_RecordsPlaceholderRow(t *testing.T) {
	mediaRepo := repository.NewMemMediaRepository()
	presigner := &fakePresigner{}
	svc := NewMediaService(mediaRepo, presigner, time.Hour)

	resp, err := svc.RequestUpload(context.Background(), RequestUploadRequest{})
	require.NoError(t, err)

	assert.NotZero(t, resp.MediaID)
	assert.Equal(t, time.Hour, presigner.lastExpiry)
	// Upload URL and recorded resource URL point at the same object.
	assert.Contains(t, resp.UploadURL, presigner.lastKey)
	assert.Equal(t, "http://store/bucket/"+presigner.lastKey, resp.ResourceURL)

	// The row exists before any bytes are uploaded.
	stored, err := mediaRepo.FindByID(context.Background(), resp.MediaID)
	require.NoError(t, err)
	assert.Equal(t, presigner.lastKey, stored.ObjectKey)
	assert.Equal(t, resp.ResourceURL, stored.ResourceURL)
}

func TestRequestUpload_SlugifiesFilename(t *testing.T) {
	mediaRepo := repository.NewMemMediaRepository()
	presigner := &fakePresigner{}
	svc := NewMediaService(mediaRepo, presigner, time.Hour)

	_, err := svc.RequestUpload(context.Background(), RequestUploadRequest{Filename: "My Vacation Photo.JPG"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(presigner.lastKey, "my-vacation-photo-jpg-"),
		"object key %q should start with the slugified filename", presigner.lastKey)
}

func TestRequestUpload_UniqueKeys(t *testing.T) {
	mediaRepo := repository.NewMemMediaRepository()
	presigner := &fakePresigner{}
	svc := NewMediaService(mediaRepo, presigner, time.Hour)

	first, err := svc.RequestUpload(context.Background(), RequestUploadRequest{Filename: "pic.png"})
	require.NoError(t, err)
	second, err := svc.RequestUpload(context.Background(), RequestUploadRequest{Filename: "pic.png"})
	require.NoError(t, err)

	assert.NotEqual(t, first.ResourceURL, second.ResourceURL)
}
