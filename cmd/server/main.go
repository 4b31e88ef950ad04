package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reliefmap/relief-camps/internal/config"
	"github.com/reliefmap/relief-camps/internal/database"
	"github.com/reliefmap/relief-camps/internal/handler"
	"github.com/reliefmap/relief-camps/internal/middleware"
	"github.com/reliefmap/relief-camps/internal/queue"
	"github.com/reliefmap/relief-camps/internal/repository"
	"github.com/reliefmap/relief-camps/internal/router"
	publisher "github.com/reliefmap/relief-camps/internal/service"
)

func main() {
	cfg := config.Load() // Load .env and environment config

	// The store handle is built once here and shared read-only by handlers.
	var (
		store handler.CampStore
		db    *mongo.Database
	)
	if cfg.StoreConfigured() {
		var err error
		db, err = database.Open(context.Background(), cfg.MongoURI, cfg.DBName)
		if err != nil {
			log.Fatalf("mongo: %v", err)
		}
		if err := database.Ping(context.Background(), db); err != nil {
			log.Printf("warning: %v; camp writes will fail until the store is reachable", err)
		}
		store = repository.NewCampRepo(db)
		log.Printf("store: database=%s collection=%s", cfg.DBName, repository.CampsCollection)
	} else {
		log.Printf("warning: MONGO_URI not set; POST /api/camps will answer 500")
	}

	var events handler.CampEventPublisher
	if cfg.Events.Enabled() {
		events = publisher.New(cfg.Events.URL, cfg.Events.Queue)
		if cfg.Events.ConsumerEnabled {
			c := queue.Consumer{URL: cfg.Events.URL, Queue: cfg.Events.Queue, LogDir: cfg.Events.LogDir}
			go c.Start()
		}
	}

	limiter := middleware.Passthrough
	if cfg.RateLimit.Enabled {
		rdb := config.NewRedisClient(cfg.Redis)
		if rdb == nil {
			log.Printf("warning: rate limiting enabled but redis is unavailable; limiter disabled")
		} else {
			defer rdb.Close()
		}
		limiter = middleware.NewTokenBucket(cfg.RateLimit, rdb)
	}

	e := router.New(cfg, handler.NewCampHandler(store, events), limiter)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	if err := database.Close(db); err != nil {
		log.Printf("mongo disconnect: %v", err)
	}
}
