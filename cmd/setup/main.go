// Command setup prepares a Postgres database for StarCase: it creates the
// database if missing, applies migrations and seeds the catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net"
	"net/url"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"

	"github.com/osse101/StarCase_Go/internal/bootstrap"
	"github.com/osse101/StarCase_Go/internal/catalog"
	"github.com/osse101/StarCase_Go/internal/config"
	"github.com/osse101/StarCase_Go/internal/validation"
)

func main() {
	skipSeed := flag.Bool("skip-seed", false, "apply migrations without seeding the catalog")
	flag.Parse()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := &config.Config{
		StoreDriver:       config.StoreDriverPostgres,
		DBUser:            envOr("DB_USER", "postgres"),
		DBPassword:        envOr("DB_PASSWORD", "postgres"),
		DBHost:            envOr("DB_HOST", "localhost"),
		DBPort:            envOr("DB_PORT", "5432"),
		DBName:            envOr("DB_NAME", "starcase"),
		DBMaxConns:        2,
		DBMaxConnIdleTime: config.DefaultDBMaxConnIdleTime,
		DBMaxConnLifetime: config.DefaultDBMaxConnLifetime,
		DBAutoMigrate:     true,
		CatalogPath:       envOr("CATALOG_PATH", config.ConfigPathCatalog),
		CatalogSchemaPath: envOr("CATALOG_SCHEMA_PATH", config.ConfigPathCatalogSchema),
	}

	ctx := context.Background()

	// 1. Connect to the maintenance database and create the target if needed
	if err := ensureDatabase(ctx, cfg); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	// 2. Apply migrations
	fmt.Println("Running migrations...")
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
	defer store.Close()
	fmt.Println("Migrations completed successfully.")

	if *skipSeed {
		return
	}

	// 3. Seed the catalog
	svc := catalog.NewService(store, validation.NewSchemaValidator(), catalog.Config{
		Path:       cfg.CatalogPath,
		SchemaPath: cfg.CatalogSchemaPath,
	})
	result, err := svc.Reload(ctx)
	if err != nil {
		store.Close()
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	fmt.Printf("Catalog seeded: %d items, %d cases.\n", result.Items, result.Cases)
	for _, w := range result.Warnings {
		fmt.Printf("  warning: %s\n", w)
	}
}

func ensureDatabase(ctx context.Context, cfg *config.Config) error {
	maintenance := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.DBUser, cfg.DBPassword),
		Host:     net.JoinHostPort(cfg.DBHost, cfg.DBPort),
		Path:     "/postgres",
		RawQuery: "sslmode=disable",
	}
	conn, err := pgx.Connect(ctx, maintenance.String())
	if err != nil {
		return fmt.Errorf("connect to postgres database: %w", err)
	}
	defer conn.Close(ctx)

	var exists bool
	err = conn.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check database: %w", err)
	}

	if exists {
		fmt.Printf("Database %s already exists.\n", cfg.DBName)
		return nil
	}

	fmt.Printf("Creating database %s...\n", cfg.DBName)
	if _, err := conn.Exec(ctx, "CREATE DATABASE "+pgx.Identifier{cfg.DBName}.Sanitize()); err != nil {
		return fmt.Errorf("create database: %w", err)
	}
	fmt.Println("Database created successfully.")
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
