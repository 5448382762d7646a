package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rakshit5467/PetPals/internal/platform/logger"
	"github.com/Rakshit5467/PetPals/internal/server"
	"github.com/Rakshit5467/PetPals/internal/server/storage/memory"
	"github.com/Rakshit5467/PetPals/internal/server/storage/postgres"
	"github.com/Rakshit5467/PetPals/internal/server/store"
)

func main() {
	_ = godotenv.Load() // .env opcional, las env reales pisan

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret" // solo para desarrollo local
	}

	lg := logger.NewFromEnv()

	var st store.Store
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := postgres.Open(dsn)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		pg := postgres.New(db)
		if err := pg.Migrate(context.Background()); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		st = pg
	} else {
		st = memory.New()
	}

	if err := server.SeedAdmin(context.Background(), st, os.Getenv("ADMIN_EMAIL"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	h := server.NewRouter(server.Options{
		Store:     st,
		Secret:    secret,
		UploadDir: uploadDir,
		Logger:    lg,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Printf("starting server on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server error: %v", err)
	}
}
