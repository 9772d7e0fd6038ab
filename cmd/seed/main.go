// Command main populates a development database with demo data.
package main

import (
	"context"
	"flag"
	"log"

	"campusfeed/internal/config"
	"campusfeed/internal/database"
	"campusfeed/internal/middleware"
	"campusfeed/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numPosts := flag.Int("posts", 60, "Number of posts to create")
	maxComments := flag.Int("comments", 8, "Maximum comments per post")
	numPolls := flag.Int("polls", 10, "Number of polls to create")
	shouldClean := flag.Bool("clean", false, "Delete existing data before seeding")
	preset := flag.String("preset", "", "Apply a YAML preset (e.g. seeds/demo.yml) instead of random data")
	randSeed := flag.Int64("seed", 0, "Random seed for reproducible runs")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	middleware.Logger = middleware.NewLogger(cfg.Env)

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ctx := context.Background()
	s := seed.NewSeeder(db, seed.Options{
		Users:           *numUsers,
		Posts:           *numPosts,
		MaxComments:     *maxComments,
		Polls:           *numPolls,
		StartingBalance: cfg.WalletStartingBalance,
		RandSeed:        *randSeed,
	})

	if *shouldClean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	var sum *seed.Summary
	if *preset != "" {
		p, err := seed.LoadPreset(*preset)
		if err != nil {
			log.Fatalf("Failed to load preset: %v", err)
		}
		sum, err = s.ApplyPreset(ctx, p)
		if err != nil {
			log.Fatalf("Preset seeding failed: %v", err)
		}
	} else {
		sum, err = s.Seed(ctx)
		if err != nil {
			log.Fatalf("Seeding failed: %v", err)
		}
	}

	log.Printf("Seeded %d users, %d posts, %d comments, %d polls", sum.Users, sum.Posts, sum.Comments, sum.Polls)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
