package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/common"

	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	mediaService  *service.MediaService
	authenticator *middleware.Authenticator
}

func NewMediaHandler(mediaService *service.MediaService, authenticator *middleware.Authenticator) *MediaHandler {
	return &MediaHandler{mediaService: mediaService, authenticator: authenticator}
}

func (h *MediaHandler) RegisterRoutes(r chi.Router) {
	r.With(h.authenticator.RequireAuth).Post("/", h.requestUpload)
}

func (h *MediaHandler) requestUpload(w http.ResponseWriter, r *http.Request) {
	// The body is optional; an empty body means an anonymous object key.
	var req service.RequestUploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.mediaService.RequestUpload(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, resp)
}
