package handler

import (
	"encoding/json"
	"net/http"

	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/common"

	"github.com/go-chi/chi/v5"
)

type NetworkHandler struct {
	networkService *service.NetworkService
	authenticator  *middleware.Authenticator
}

func NewNetworkHandler(networkService *service.NetworkService, authenticator *middleware.Authenticator) *NetworkHandler {
	return &NetworkHandler{networkService: networkService, authenticator: authenticator}
}

func (h *NetworkHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticator.RequireAuth)
		authed.Get("/", h.network)
		authed.Post("/follow", h.follow)
		authed.Post("/unfollow", h.unfollow)
	})

	r.With(h.authenticator.OptionalAuth).Get("/explore", h.explore)
}

type followRequest struct {
	UserID int64 `json:"userId"`
}

func (h *NetworkHandler) follow(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.networkService.Follow(r.Context(), auth.User.ID, req.UserID); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, map[string]int64{"userId": req.UserID})
}

func (h *NetworkHandler) unfollow(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req followRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == 0 {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := h.networkService.Unfollow(r.Context(), auth.User.ID, req.UserID); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]int64{"userId": req.UserID})
}

func (h *NetworkHandler) network(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	resp, err := h.networkService.Network(r.Context(), auth.User.ID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, resp)
}

func (h *NetworkHandler) explore(w http.ResponseWriter, r *http.Request) {
	var viewerID *int64
	if auth, ok := middleware.AuthFromContext(r.Context()); ok {
		viewerID = &auth.User.ID
	}

	profiles, err := h.networkService.Explore(r.Context(), viewerID)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusOK, map[string]interface{}{"users": profiles})
}
