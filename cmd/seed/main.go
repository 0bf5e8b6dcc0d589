// Command seed fills the configured database with fake boards and posts.
package main

import (
	"context"
	"flag"
	"log"

	"corkboard/internal/auth"
	"corkboard/internal/config"
	"corkboard/internal/database"
	"corkboard/internal/seed"
)

func main() {
	users := flag.Int("users", 10, "Number of users to create")
	boards := flag.Int("boards", 2, "Boards per user")
	posts := flag.Int("posts", 15, "Posts per board")
	privateEvery := flag.Int("private-every", 4, "Make every n-th board private (0 for none)")
	clean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Fixed random seed (0 for random)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	s := seed.NewSeeder(db, auth.NewBcryptHasher(cfg.BcryptCost), seed.Options{
		Users:         *users,
		BoardsPerUser: *boards,
		PostsPerBoard: *posts,
		PrivateEvery:  *privateEvery,
		RandSeed:      *randSeed,
	})

	ctx := context.Background()
	if *clean {
		if err := s.ClearAll(ctx); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	res, err := s.Run(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Seeded %d users, %d boards, %d posts", len(res.Users), len(res.Boards), res.Posts)
	log.Printf("All seeded users have the password: %s", seed.DefaultPassword)
}
