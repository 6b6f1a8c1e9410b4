package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/lib/pq"

	"github.com/Skotchmaster/online_store/internal/config"
	"github.com/Skotchmaster/online_store/migrations"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}
	direction := os.Args[1]

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: could not load .env: %v", err)
	}
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("missing required env DATABASE_URL")
	}

	connector, err := pq.NewConnector(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("parse DATABASE_URL: %v", err)
	}
	db := sql.OpenDB(connector)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	n, err := migrations.Apply(ctx, db, direction)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			log.Fatalf("after %d migration(s): sqlstate=%s: %v", n, pqErr.Code, err)
		}
		log.Fatalf("after %d migration(s): %v", n, err)
	}

	log.Printf("successfully ran %d migration(s) %s", n, direction)
}
