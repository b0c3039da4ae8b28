// Command main runs the database seeder for LiveLy.
package main

import (
	"flag"
	"log"

	"lively/internal/config"
	"lively/internal/database"
	"lively/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numArtists := flag.Int("artists", 30, "Number of artists to create")
	numReviews := flag.Int("reviews", 200, "Number of reviews to create")
	shouldClean := flag.Bool("clean", false, "Delete existing users, artists and reviews first")
	seedValue := flag.Int64("seed", 0, "Random seed for reproducible data (0 = random)")
	flag.Parse()

	log.Println("Database Seeder")
	log.Printf("Target: %d users, %d artists, %d reviews, clean=%v\n", *numUsers, *numArtists, *numReviews, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	res, err := seed.Seed(db, seed.Options{
		NumUsers:    *numUsers,
		NumArtists:  *numArtists,
		NumReviews:  *numReviews,
		ShouldClean: *shouldClean,
		Seed:        *seedValue,
	})
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d artists, %d reviews", res.Users, res.Artists, res.Reviews)
	log.Printf("Admin login: %s / %s", seed.AdminEmail, seed.AdminPassword)
	log.Printf("All other users have the password: %s", seed.DefaultPassword)
}
