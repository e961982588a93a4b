package service

import (
	"context"
	"fmt"
	"time"

	"alumnet/internal/domain/model"
	"alumnet/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// Presigner issues time-limited direct-upload URLs against the object store.
type Presigner interface {
	PresignedPutURL(ctx context.Context, key string, expiry time.Duration) (string, error)
	ResourceURL(key string) string
}

type MediaService struct {
	mediaRepo repository.MediaRepository
	presigner Presigner
	urlExpiry time.Duration
}

func NewMediaService(mediaRepo repository.MediaRepository, presigner Presigner, urlExpiry time.Duration) *MediaService {
	return &MediaService{mediaRepo: mediaRepo, presigner: presigner, urlExpiry: urlExpiry}
}

type RequestUploadRequest struct {
	Filename string `json:"filename,omitempty"`
}

type RequestUploadResponse struct {
	MediaID     int64  `json:"mediaId"`
	UploadURL   string `json:"uploadUrl"`
	ResourceURL string `json:"resourceUrl"`
}

// RequestUpload issues a presigned PUT URL and records a placeholder media row.
// The row exists whether or not the client-side upload ever completes.
func (s *MediaService) RequestUpload(ctx context.Context, req RequestUploadRequest) (*RequestUploadResponse, error) {
	key := uuid.NewString()
	if req.Filename != "" {
		key = slug.Make(req.Filename) + "-" + key
	}

	uploadURL, err := s.presigner.PresignedPutURL(ctx, key, s.urlExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to presign upload URL: %w", err)
	}

	media := &model.Media{
		ObjectKey:   key,
		ResourceURL: s.presigner.ResourceURL(key),
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		return nil, fmt.Errorf("failed to record media: %w", err)
	}

	return &RequestUploadResponse{
		MediaID:     media.ID,
		UploadURL:   uploadURL,
		ResourceURL: media.ResourceURL,
	}, nil
}
