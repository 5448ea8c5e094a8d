package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/gilby125/flight-emissions-api/api"
	"github.com/gilby125/flight-emissions-api/config"
	"github.com/gilby125/flight-emissions-api/emissions"
	"github.com/gilby125/flight-emissions-api/pkg/cache"
	"github.com/gilby125/flight-emissions-api/pkg/logger"
	"github.com/gilby125/flight-emissions-api/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LoggingConfig.Level,
		Format: cfg.LoggingConfig.Format,
	})

	// The airport registry is loaded exactly once; without it there is
	// nothing to compute.
	reg, err := registry.Load(cfg.RegistryConfig)
	if err != nil {
		log.Fatal(err, "failed to load airport registry")
	}
	log.Info("airport registry loaded",
		"source", cfg.RegistryConfig.Source,
		"airports", reg.Len())

	proc := emissions.NewProcessor(reg, cfg.EmissionsConfig)
	log.Info("emissions pipeline ready",
		"home_country", cfg.EmissionsConfig.HomeCountry,
		"domestic_factor", cfg.EmissionsConfig.DomesticFactor,
		"international_factor", cfg.EmissionsConfig.InternationalFactor)

	var store cache.Cache
	if cfg.CacheEnabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisConfig.Host + ":" + cfg.RedisConfig.Port,
			Password: cfg.RedisConfig.Password,
			DB:       cfg.RedisConfig.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal(err, "failed to connect to Redis")
		}
		store = cache.NewRedisCache(client, "emissions")
		log.Info("report store using redis", "addr", cfg.RedisConfig.Host+":"+cfg.RedisConfig.Port)
	} else {
		store = cache.NewMemoryCache()
		log.Info("report store using in-process memory")
	}
	reports := cache.NewManager(store, cfg.ReportTTL)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	api.RegisterRoutes(router, reg, proc, reports, cfg, log)

	srv := &http.Server{
		Addr:    cfg.HTTPBindAddr + ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
	log.Info("server stopped")
}
