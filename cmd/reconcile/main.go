// Command main repairs poll vote totals that drifted from their option sums.
package main

import (
	"context"
	"log"
	"time"

	"campusfeed/internal/cache"
	"campusfeed/internal/config"
	"campusfeed/internal/database"
	"campusfeed/internal/middleware"
	"campusfeed/internal/repository"
	"campusfeed/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// cached poll lists are dropped after a repair when Redis is reachable
	cache.InitRedis(cfg.RedisURL)

	polls := repository.NewPollRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	store := service.NewCounterStore(repository.NewCounterRepository(db), polls, posts, comments)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	fixed, err := store.ReconcilePollTotals(ctx)
	if err != nil {
		log.Fatalf("Reconciliation failed: %v", err)
	}
	log.Printf("Reconciled %d poll(s)", fixed)
}
