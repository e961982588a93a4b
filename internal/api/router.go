package api

import (
	"net/http"
	"time"

	"alumnet/internal/api/handler"
	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/common"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(
	authenticator *middleware.Authenticator,
	authService *service.AuthService,
	postService *service.PostService,
	profileService *service.ProfileService,
	networkService *service.NetworkService,
	mediaService *service.MediaService,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(api chi.Router) {
		api.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			common.RespondWithData(w, http.StatusOK, map[string]string{"message": "pong"})
		})
		api.With(authenticator.RequireAuth).Get("/ping/auth", func(w http.ResponseWriter, r *http.Request) {
			auth, _ := middleware.AuthFromContext(r.Context())
			common.RespondWithData(w, http.StatusOK, map[string]interface{}{
				"message": "pong",
				"userId":  auth.User.ID,
			})
		})

		authHandler := handler.NewAuthHandler(authService, authenticator)
		api.Route("/auth", authHandler.RegisterRoutes)

		postHandler := handler.NewPostHandler(postService, authenticator)
		api.Route("/post", postHandler.RegisterRoutes)
		api.Route("/feed", postHandler.RegisterFeedRoutes)

		profileHandler := handler.NewProfileHandler(profileService, postService, authenticator)
		api.Route("/profile", profileHandler.RegisterRoutes)

		networkHandler := handler.NewNetworkHandler(networkService, authenticator)
		api.Route("/network", networkHandler.RegisterRoutes)

		mediaHandler := handler.NewMediaHandler(mediaService, authenticator)
		api.Route("/media", mediaHandler.RegisterRoutes)
	})

	return r
}
