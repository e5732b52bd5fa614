package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"time"

	"studio-inquiry-backend/migrations"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const createLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

func main() {
	_ = godotenv.Load()

	// 1. Read the store URL from env
	dsn := os.Getenv("INQUIRY_STORE_URL")
	if dsn == "" {
		dsn = os.Getenv("DATABASE_URL")
	}
	if dsn == "" {
		log.Fatal("INQUIRY_STORE_URL or DATABASE_URL must be set to a postgres:// URL")
	}

	// 2. Connect
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("error opening database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("error pinging database: %v", err)
	}

	// 3. Apply pending migrations in order
	all, err := migrations.All()
	if err != nil {
		log.Fatalf("error reading migrations: %v", err)
	}
	if _, err := db.ExecContext(ctx, createLedger); err != nil {
		log.Fatalf("error creating schema_migrations: %v", err)
	}

	applied := 0
	for _, m := range all {
		done, err := isApplied(ctx, db, m.Name)
		if err != nil {
			log.Fatalf("error checking %s: %v", m.Name, err)
		}
		if done {
			continue
		}
		log.Printf("Applying %s...", m.Name)
		if err := apply(ctx, db, m); err != nil {
			log.Fatalf("error applying %s: %v", m.Name, err)
		}
		applied++
	}

	log.Printf("Migrations complete (%d applied, %d total)", applied, len(all))
}

func isApplied(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

// apply runs one migration and records it in the same transaction
func apply(ctx context.Context, db *sql.DB, m migrations.Migration) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, m.Name); err != nil {
		return err
	}
	return tx.Commit()
}
