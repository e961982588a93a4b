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

type ProfileHandler struct {
	profileService *service.ProfileService
	postService    *service.PostService
	authenticator  *middleware.Authenticator
}

func NewProfileHandler(
	profileService *service.ProfileService,
	postService *service.PostService,
	authenticator *middleware.Authenticator,
) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		postService:    postService,
		authenticator:  authenticator,
	}
}

func (h *ProfileHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticator.RequireAuth)
		authed.Get("/", h.ownProfile)
		authed.Put("/", h.updateProfile)
		authed.Post("/update", h.updateProfile)
	})

	r.Get("/{profileID}", h.publicProfile)
	r.Get("/{profileID}/posts", h.profilePosts)
}

func (h *ProfileHandler) ownProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	user, err := h.profileService.Own(r.Context(), auth.User.ID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, user)
}

func (h *ProfileHandler) updateProfile(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	user, err := h.profileService.Update(r.Context(), auth.User.ID, req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, user)
}

func (h *ProfileHandler) publicProfile(w http.ResponseWriter, r *http.Request) {
	profileID, err := strconv.ParseInt(chi.URLParam(r, "profileID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	profile, err := h.profileService.Public(r.Context(), profileID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]interface{}{"profile": profile})
}

func (h *ProfileHandler) profilePosts(w http.ResponseWriter, r *http.Request) {
	profileID, err := strconv.ParseInt(chi.URLParam(r, "profileID"), 10, 64)
	if err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid profile id")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	posts, err := h.postService.UserPosts(r.Context(), profileID, page, pageSize)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]interface{}{"posts": posts})
}
