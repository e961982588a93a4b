package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"alumnet/internal/api"
	"alumnet/internal/api/middleware"
	"alumnet/internal/app/service"
	"alumnet/internal/app/worker"
	"alumnet/internal/domain/repository"
	"alumnet/internal/platform/cache"
	"alumnet/internal/platform/config"
	"alumnet/internal/platform/database"
	"alumnet/internal/platform/objectstore"
)

func main() {
	// 1. Load Configuration
	config.Load()
	log.Println("Configuration loaded.")

	// 2. Initialize Database
	database.Connect()
	defer database.Close()

	if err := database.Migrate(database.DB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Database migrated.")

	// 3. Initialize Redis
	cache.ConnectRedis()
	defer cache.CloseRedis()

	// 4. Initialize Object Store
	store := objectstore.Connect()

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	sessionRepo := repository.NewPgSessionRepository(database.DB)
	postRepo := repository.NewPgPostRepository(database.DB)
	followRepo := repository.NewPgFollowRepository(database.DB)
	mediaRepo := repository.NewPgMediaRepository(database.DB)

	// 6. Initialize Services
	sessionService := service.NewSessionService(sessionRepo, userRepo,
		config.AppConfig.SessionTTL, config.AppConfig.SessionRotateWindow)
	authService := service.NewAuthService(userRepo, sessionService)
	postService := service.NewPostService(postRepo, mediaRepo)
	profileService := service.NewProfileService(userRepo, mediaRepo)
	networkService := service.NewNetworkService(followRepo, userRepo)
	mediaService := service.NewMediaService(mediaRepo, store, config.AppConfig.UploadURLExpiry)

	// 7. Start Session Sweeper (as a goroutine)
	sweepLock := cache.NewRedisLock(cache.RDB, config.AppConfig.SweepLockKey,
		time.Duration(config.AppConfig.SweepLockTTLSeconds)*time.Second)
	sweeper := worker.NewSessionSweeper(sweepLock, sessionRepo,
		config.AppConfig.SweepInterval, config.AppConfig.SessionRetention)
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()
	go sweeper.Start(workerCtx)

	// 8. Initialize Router & HTTP Server
	authenticator := middleware.NewAuthenticator(sessionService, config.AppConfig.CookieSecure)
	router := api.NewRouter(authenticator, authService, postService, profileService, networkService, mediaService)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 9. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on port %s", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", config.AppConfig.APIPort, err)
		}
	}()

	<-stop // Wait for interrupt signal

	log.Println("Shutting down server...")
	workerCancel() // Signal sweeper to stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Println("Server and sweeper stopped gracefully.")
}
