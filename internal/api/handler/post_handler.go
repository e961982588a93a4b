package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/common"

	"github.com/go-chi/chi/v5"
)

type PostHandler struct {
	postService   *service.PostService
	authenticator *middleware.Authenticator
}

func NewPostHandler(postService *service.PostService, authenticator *middleware.Authenticator) *PostHandler {
	return &PostHandler{postService: postService, authenticator: authenticator}
}

func (h *PostHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticator.RequireAuth)
		authed.Post("/", h.createPost)
		authed.Delete("/{postID}", h.deletePost)
	})
}

// RegisterFeedRoutes mounts the feed read under its own path.
func (h *PostHandler) RegisterFeedRoutes(r chi.Router) {
	r.With(h.authenticator.OptionalAuth).Get("/", h.feed)
}

func (h *PostHandler) createPost(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.postService.CreatePost(r.Context(), auth.User, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, resp)
}

func (h *PostHandler) deletePost(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid post id")
		return
	}

	if err := h.postService.DeletePost(r.Context(), auth.User, postID); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]int64{"postId": postID})
}

func (h *PostHandler) feed(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	typeOnly := r.URL.Query().Get("typeOnlyFeed")

	posts, err := h.postService.Feed(r.Context(), typeOnly, page, pageSize)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]interface{}{"posts": posts})
}
