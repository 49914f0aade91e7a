package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/gatherly/gatherly/config"
	"github.com/gatherly/gatherly/pkg/helpers"
)

// Seeds a demo organizer plus a couple of published events for local
// development. Safe to run repeatedly.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	username := "demo"
	email := "demo@example.com"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (username, email, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (lower(email)) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, username, email, hash).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s username=%s email=%s password=%s\n", userID, username, email, password)

	events := []struct {
		title    string
		desc     string
		location string
		category string
		capacity int
		daysOut  int
	}{
		{"Go Meetup", "Monthly meetup for Go developers.", "Community Hall", "Social", 50, 14},
		{"Intro to Postgres Workshop", "Hands-on workshop, laptops required.", "Tech Hub, Room 2", "Workshop", 20, 30},
	}
	for _, e := range events {
		var exists bool
		if err := db.QueryRow(`
			SELECT EXISTS (SELECT 1 FROM events WHERE organizer_id = $1 AND title = $2)
		`, userID, e.title).Scan(&exists); err != nil {
			log.Fatalf("failed to check event %q: %v", e.title, err)
		}
		if exists {
			continue
		}
		var id string
		if err := db.QueryRow(`
			INSERT INTO events (title, description, event_date, start_time, location,
				category, capacity, organizer_id, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'Published')
			RETURNING id
		`, e.title, e.desc, time.Now().AddDate(0, 0, e.daysOut).Format("2006-01-02"),
			"18:30", e.location, e.category, e.capacity, userID).Scan(&id); err != nil {
			log.Fatalf("failed to seed event %q: %v", e.title, err)
		}
		fmt.Printf("seeded event: id=%s title=%q\n", id, e.title)
	}
}
