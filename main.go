package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/billow-homes/homes-api/cache"
	"github.com/billow-homes/homes-api/config"
	"github.com/billow-homes/homes-api/controllers"
	"github.com/billow-homes/homes-api/logging"
	"github.com/billow-homes/homes-api/routes"
	"github.com/billow-homes/homes-api/services"
	"github.com/billow-homes/homes-api/store"
	"github.com/billow-homes/homes-api/uploads"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogFile)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", cfg.LogFile, err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	ctx := context.Background()

	client, err := config.ConnectDB(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}
	defer config.CloseDBConnection(context.Background(), client)

	homeStore := store.NewHomeStore(client.Database(cfg.DB), cfg.MatchPolicy)
	if err := homeStore.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	health := map[string]controllers.Pinger{"mongo": homeStore}

	homeCache, redisClient, err := setupCache(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up %s cache: %v", cfg.Cache.Backend, err)
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}()
	}
	if p, ok := homeCache.(controllers.Pinger); ok {
		health["cache"] = p
	}

	storage, uploadDir, err := setupStorage(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to set up %s upload storage: %v", cfg.Upload.Backend, err)
	}

	service := services.NewHomeService(homeStore, homeCache, services.Options{
		CacheTTL:         cfg.Cache.TTL,
		StoreTimeout:     cfg.StoreTimeout,
		CacheTimeout:     cfg.Cache.Timeout,
		DefaultPageLimit: cfg.PageLimitDefault,
		MaxPageLimit:     cfg.PageLimitMax,
	})

	router := mux.NewRouter()
	routes.Routes(router, routes.Options{
		Homes: controllers.HomeDeps{
			Service:       service,
			Stager:        uploads.NewStager(storage, cfg.Upload.MaxBytes),
			PublicBaseURL: cfg.PublicBaseURL,
		},
		JWTKey:             []byte(cfg.JWTKey),
		Health:             health,
		UploadDir:          uploadDir,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	corsOptions := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: !containsWildcard(cfg.AllowedOrigins),
	})
	handler := corsOptions.Handler(router)

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Printf("Server running on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Error starting server: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
		return
	}
	log.Println("Server gracefully stopped")
}

func setupCache(ctx context.Context, cfg *config.Config) (cache.Cache, *redis.Client, error) {
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := config.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return cache.NewRedisCache(client), client, nil
	case config.CacheMemory:
		memCfg := cache.DefaultMemoryConfig()
		memCfg.TTL = cfg.Cache.TTL
		c, err := cache.NewMemoryCache(memCfg)
		return c, nil, err
	}
	log.Println("Caching disabled")
	return cache.NopCache{}, nil, nil
}

func setupStorage(ctx context.Context, cfg *config.Config) (uploads.Storage, string, error) {
	if cfg.Upload.Backend == config.UploadS3 {
		s, err := uploads.NewS3Storage(ctx, uploads.S3Config{
			Bucket:          cfg.Upload.S3Bucket,
			Region:          cfg.Upload.S3Region,
			Endpoint:        cfg.Upload.S3Endpoint,
			AccessKeyID:     cfg.Upload.S3AccessKeyID,
			SecretAccessKey: cfg.Upload.S3SecretAccessKey,
		})
		return s, "", err
	}
	s, err := uploads.NewDiskStorage(cfg.Upload.Dir)
	return s, cfg.Upload.Dir, err
}

func containsWildcard(origins []string) bool {
	for _, o := range origins {
		if o == "*" {
			return true
		}
	}
	return false
}
