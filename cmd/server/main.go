package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/AnshRaj112/campsite/internal/config"
	"github.com/AnshRaj112/campsite/internal/database"
	"github.com/AnshRaj112/campsite/internal/handlers"
	"github.com/AnshRaj112/campsite/internal/middleware"
	"github.com/AnshRaj112/campsite/internal/routes"
	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/views"
)

func main() {
	// Load env
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found")
	}
	cfg := config.Load()
	logger := newLogger(cfg)
	log.Logger = logger

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to MongoDB
	mongoClient, db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to MongoDB")
	}
	defer func() {
		if err := database.Disconnect(mongoClient); err != nil {
			logger.Warn().Err(err).Msg("MongoDB disconnect failed")
		}
	}()

	if err := services.EnsureIndexes(ctx, db); err != nil {
		logger.Warn().Err(err).Msg("Failed to ensure MongoDB indexes")
	}

	// Connect to Redis
	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURI)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer redisClient.Close()

	google, err := services.NewGoogleGeocoder(cfg.GeocoderAPIKey)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize geocoder")
	}
	geocoder := services.NewCachedGeocoder(google, services.NewRedisCache(redisClient), logger)

	images, err := newImageHost(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("image_host", cfg.ImageHost).Msg("Failed to initialize image host")
	}
	logger.Info().Str("image_host", cfg.ImageHost).Str("folder", cfg.ImageFolder).Msg("Image host initialized")

	users := services.NewMongoUserStore(db)
	campgroundStore := services.NewMongoCampgroundStore(db)
	commentStore := services.NewMongoCommentStore(db)

	auth := services.NewAuthService(services.AuthServiceConfig{
		Users:     users,
		Notifier:  services.NewLogResetNotifier(logger),
		AdminCode: cfg.AdminCode,
		BaseURL:   cfg.BaseURL,
		Logger:    logger,
	})
	campgrounds := services.NewCampgroundService(services.CampgroundServiceConfig{
		Campgrounds: campgroundStore,
		Comments:    commentStore,
		Geocoder:    geocoder,
		Images:      images,
		Logger:      logger,
	})
	comments := services.NewCommentService(campgroundStore, commentStore, logger)

	renderer, err := views.NewRenderer()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to parse templates")
	}

	sessions := middleware.NewSessionManager(
		services.NewRedisSessionStore(redisClient),
		cfg.SessionSecret,
		cfg.IsProduction(),
		logger,
	)

	limiter := middleware.NewLoginLimiter()
	go limiter.Run(ctx.Done())

	router := routes.NewRouter(routes.Options{
		Handler: handlers.New(handlers.Config{
			Auth:        auth,
			Campgrounds: campgrounds,
			Comments:    comments,
			Sessions:    sessions,
			Views:       renderer,
			Logger:      logger,
		}),
		Sessions:       sessions,
		Metrics:        middleware.NewMetrics(),
		LoginLimiter:   limiter,
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Environment).Msg("Campsite server running")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsProduction() {
		return zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
}

func newImageHost(ctx context.Context, cfg *config.Config) (services.ImageHost, error) {
	if cfg.ImageHost == config.ImageHostS3 {
		return services.NewS3ImageHost(ctx, services.S3ImageHostConfig{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			PublicURL:       cfg.S3PublicURL,
			Folder:          cfg.ImageFolder,
		})
	}
	return services.NewCloudinaryImageHost(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.ImageFolder)
}
