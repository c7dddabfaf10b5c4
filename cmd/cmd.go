package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gearshare-backend/internal/config"
	"gearshare-backend/internal/db"
	"gearshare-backend/internal/handlers"
	"gearshare-backend/internal/middleware"
	"gearshare-backend/internal/repository"
	"gearshare-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func Run() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Setup logger
	setupLogger(cfg.Log.Level)

	// Apply schema migrations and connect to database
	if err := db.Migrate(cfg.Database.URL()); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	pool, err := db.Connect(context.Background(), cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Database connection established")

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(pool)
	resourceRepo := repository.NewResourceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)

	// Initialize services
	authService := services.NewAuthService(profileRepo, cfg.JWT.Secret)
	resourceService := services.NewResourceService(resourceRepo)
	bookingService := services.NewBookingService(bookingRepo, resourceRepo)
	dashboardService := services.NewDashboardService(resourceRepo, bookingRepo)
	hub := services.NewEventHub()

	var pushService *services.PushService
	if cfg.Push.Enabled {
		pushService, err = services.NewPushService(cfg.Push.KeyFile, cfg.Push.KeyID, cfg.Push.TeamID, cfg.Push.Topic)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create push service")
		}
	}

	var imageService *services.ImageService
	if cfg.AWS.S3Bucket != "" {
		imageService, err = services.NewImageService(
			context.Background(),
			cfg.AWS.Region,
			cfg.AWS.S3Bucket,
			cfg.AWS.AccessKey,
			cfg.AWS.SecretKey,
			cfg.AWS.Endpoint,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create image service")
		}
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	resourceHandler := handlers.NewResourceHandler(resourceService, imageService)
	bookingHandler := handlers.NewBookingHandler(bookingService, authService, hub, pushService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	wsHandler := handlers.NewWebSocketHandler(hub, authService)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/resources", resourceHandler.List)
		r.Get("/resources/featured", resourceHandler.Featured)

		// Public read with optional identity (owners see their own
		// unavailable resources)
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuthMiddleware(authService))
			r.Get("/resources/{resource_id}", resourceHandler.Get)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(authService))
			r.Get("/auth/me", authHandler.Me)
			r.Put("/profile", authHandler.UpdateProfile)
			r.Post("/resources", resourceHandler.Create)
			r.Put("/resources/{resource_id}", resourceHandler.Update)
			r.Delete("/resources/{resource_id}", resourceHandler.Delete)
			r.Post("/resources/images", resourceHandler.PrepareImageUpload)
			r.Post("/bookings", bookingHandler.Create)
			r.Get("/bookings/{booking_id}", bookingHandler.Get)
			r.Patch("/bookings/{booking_id}/status", bookingHandler.UpdateStatus)
			r.Get("/dashboard", dashboardHandler.Get)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
