package service

import (
	"context"
	"errors"
	"fmt"

	"alumnet/internal/common"
	"alumnet/internal/domain/model"
	"alumnet/internal/domain/repository"
)

type PostService struct {
	postRepo  repository.PostRepository
	mediaRepo repository.MediaRepository
}

func NewPostService(postRepo repository.PostRepository, mediaRepo repository.MediaRepository) *PostService {
	return &PostService{postRepo: postRepo, mediaRepo: mediaRepo}
}

type CreatePostRequest struct {
	Body    string         `json:"body"`
	MediaID *int64         `json:"image,omitempty"`
	Type    model.PostType `json:"type"`
}

type CreatePostResponse struct {
	PostID int64 `json:"postId"`
}

func (s *PostService) CreatePost(ctx context.Context, author *model.User, req CreatePostRequest) (*CreatePostResponse, error) {
	if req.Body == "" {
		return nil, fmt.Errorf("post body is required: %w", common.ErrValidation)
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("unknown post type %q: %w", req.Type, common.ErrValidation)
	}
	if req.Type == model.PostTypeAdmin && author.Role != model.RoleAdmin {
		return nil, fmt.Errorf("admin posts require the admin role: %w", common.ErrForbidden)
	}

	if req.MediaID != nil {
		if _, err := s.mediaRepo.FindByID(ctx, *req.MediaID); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return nil, fmt.Errorf("media %d not found: %w", *req.MediaID, common.ErrNotFound)
			}
			return nil, fmt.Errorf("failed to look up media: %w", err)
		}
	}

	post := &model.Post{
		UserID:  author.ID,
		Body:    req.Body,
		MediaID: req.MediaID,
		Type:    req.Type,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}
	return &CreatePostResponse{PostID: post.ID}, nil
}

// DeletePost removes a post. Only its author or an admin may delete it.
func (s *PostService) DeletePost(ctx context.Context, caller *model.User, postID int64) error {
	post, err := s.postRepo.FindByID(ctx, postID)
	if err != nil {
		return err
	}
	if post.UserID != caller.ID && caller.Role != model.RoleAdmin {
		return fmt.Errorf("not the post author: %w", common.ErrForbidden)
	}
	return s.postRepo.Delete(ctx, postID)
}

// Feed returns reverse-chronological posts, optionally restricted to a single
// post type.
func (s *PostService) Feed(ctx context.Context, typeOnly string, page, pageSize int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	var typeFilter *model.PostType
	if typeOnly != "" {
		t := model.PostType(typeOnly)
		if !t.Valid() {
			return nil, fmt.Errorf("unknown post type %q: %w", typeOnly, common.ErrValidation)
		}
		typeFilter = &t
	}

	posts, err := s.postRepo.ListFeed(ctx, typeFilter, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed: %w", err)
	}
	return posts, nil
}

// UserPosts returns a user's own posts for their profile page.
func (s *PostService) UserPosts(ctx context.Context, userID int64, page, pageSize int) ([]model.Post, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	posts, err := s.postRepo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to read user posts: %w", err)
	}
	return posts, nil
}
