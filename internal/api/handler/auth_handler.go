package handler

import (
	"encoding/json"
	"net/http"

	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/common"
	"alumnet/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

type AuthHandler struct {
	authService   *service.AuthService
	authenticator *middleware.Authenticator
}

func NewAuthHandler(authService *service.AuthService, authenticator *middleware.Authenticator) *AuthHandler {
	return &AuthHandler{authService: authService, authenticator: authenticator}
}

func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Post("/signup", h.signup)
	r.Post("/signin", h.signin)

	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticator.RequireAuth)
		authed.Post("/signout", h.signout)
		authed.Get("/session", h.session)
	})
}

func (h *AuthHandler) signup(w http.ResponseWriter, r *http.Request) {
	var req service.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.authService.Signup(r.Context(), req)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}
	common.RespondWithData(w, http.StatusCreated, resp)
}

func (h *AuthHandler) signin(w http.ResponseWriter, r *http.Request) {
	var req service.SigninRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	meta := service.ClientMeta{IPAddr: r.RemoteAddr, UserAgent: r.UserAgent()}
	resp, err := h.authService.Signin(r.Context(), req, meta)
	if err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	middleware.SetSessionCookie(w, resp.Token, resp.Session().ExpiresAt, config.AppConfig.CookieSecure)
	common.RespondWithData(w, http.StatusOK, resp)
}

func (h *AuthHandler) signout(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	if err := h.authService.Signout(r.Context(), auth.Session.Token); err != nil {
		common.RespondWithServiceError(w, err)
		return
	}

	middleware.ClearSessionCookie(w, config.AppConfig.CookieSecure)
	common.RespondWithData(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

func (h *AuthHandler) session(w http.ResponseWriter, r *http.Request) {
	auth, ok := middleware.AuthFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	common.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"user":    auth.User,
		"session": auth.Session,
	})
}
