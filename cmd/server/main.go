package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/hmorita143/eventchat/internal/chat"
	"github.com/hmorita143/eventchat/internal/config"
	"github.com/hmorita143/eventchat/internal/database"
	"github.com/hmorita143/eventchat/internal/handlers"
	"github.com/hmorita143/eventchat/internal/logging"
	"github.com/hmorita143/eventchat/internal/middleware"
	"github.com/hmorita143/eventchat/internal/services"
)

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	// Initialize logger
	logger := logging.New()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger.Info("Starting eventchat server...")

	// Connect to PostgreSQL
	logger.Info("Connecting to PostgreSQL", map[string]interface{}{
		"host": cfg.Database.Host,
		"port": cfg.Database.Port,
	})
	db, err := database.NewPostgresDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to postgres: %w", err)
	}
	defer db.Close()
	logger.Info("Connected to PostgreSQL")

	// Run migrations
	logger.Info("Running database migrations...")
	migrator, err := database.NewMigrator(cfg.Database)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		return fmt.Errorf("running migrations: %w", err)
	}
	_ = migrator.Close()
	logger.Info("Migrations completed")

	// Connect to Redis
	logger.Info("Connecting to Redis", map[string]interface{}{
		"addr": cfg.Redis.Addr(),
	})
	redisDB, err := database.NewRedisDB(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connecting to redis: %w", err)
	}
	defer func() { _ = redisDB.Close() }()
	logger.Info("Connected to Redis")

	// Initialize services
	dbAdapter := services.NewPoolAdapter(db.Pool)
	redisAdapter := services.NewRedisAdapter(redisDB.Client)

	userService := services.NewUserService(dbAdapter)
	authService := services.NewAuthService()
	tokenService := services.NewTokenService(redisAdapter, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	friendService := services.NewFriendService(dbAdapter)
	eventService := services.NewEventService(dbAdapter)

	hub := chat.NewHub(eventService, eventService, logger)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(map[string]handlers.HealthChecker{
		"postgres": db,
		"redis":    redisDB,
	})
	authHandler := handlers.NewAuthHandler(userService, authService, tokenService, cfg.Auth.TokenTTL, cfg.Server.Secure)
	userHandler := handlers.NewUserHandler(userService, friendService, eventService)
	friendHandler := handlers.NewFriendHandler(friendService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWSHandler(hub, cfg.Server.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService, userService)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	requestLogger := middleware.NewRequestLogger(logger)
	authRateLimiter := middleware.NewAuthRateLimiter(redisDB.Client)

	requireAuth := authMiddleware.RequireAuth
	limitAuth := authRateLimiter.Limit

	// Set up router
	mux := http.NewServeMux()

	// Health endpoints (no auth, no rate limit)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)

	// Auth endpoints
	mux.Handle("POST /auth/register", limitAuth(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /auth/login", limitAuth(http.HandlerFunc(authHandler.Login)))
	mux.Handle("POST /auth/logout", requireAuth(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /auth/user", requireAuth(http.HandlerFunc(authHandler.Me)))

	// User endpoints
	mux.Handle("GET /user/search", requireAuth(http.HandlerFunc(userHandler.Search)))
	mux.Handle("GET /user/friends", requireAuth(http.HandlerFunc(userHandler.ListFriends)))
	mux.Handle("GET /user/event-invites", requireAuth(http.HandlerFunc(userHandler.ListEventInvites)))

	// Friend endpoints
	mux.Handle("POST /friend/request", requireAuth(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("GET /friend/requests", requireAuth(http.HandlerFunc(friendHandler.ListRequests)))
	mux.Handle("POST /friend/requests/{id}", requireAuth(http.HandlerFunc(friendHandler.Respond)))

	// Event endpoints
	mux.Handle("POST /event/create", requireAuth(http.HandlerFunc(eventHandler.Create)))
	mux.Handle("GET /event/user/participated-events", requireAuth(http.HandlerFunc(eventHandler.ParticipatedEvents)))
	mux.Handle("POST /event/respond", requireAuth(http.HandlerFunc(eventHandler.Respond)))
	mux.Handle("PUT /event/{id}/update", requireAuth(http.HandlerFunc(eventHandler.Update)))
	mux.Handle("DELETE /event/{id}/delete", requireAuth(http.HandlerFunc(eventHandler.Delete)))
	mux.Handle("GET /event/{id}/detail", requireAuth(http.HandlerFunc(eventHandler.Detail)))
	mux.Handle("POST /event/{id}/invite", requireAuth(http.HandlerFunc(eventHandler.Invite)))

	// Websocket chat gateway
	mux.Handle("GET /ws", requireAuth(http.HandlerFunc(wsHandler.Serve)))

	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Build middleware chain (order matters: outermost first)
	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = corsMiddleware.Handler(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// Websocket connections are long-lived; the write timeout only
		// bounds the HTTP handshake, not hijacked connections.
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
