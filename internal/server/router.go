package server

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/Rakshit5467/PetPals/internal/platform/logger"
	"github.com/Rakshit5467/PetPals/internal/server/storage/memory"
	"github.com/Rakshit5467/PetPals/internal/server/storage/postgres"
	"github.com/Rakshit5467/PetPals/internal/server/store"
)

type Options struct {
	Store     store.Store // puede ser nil: se resuelve por env (DB_DSN) o in-memory
	Secret    string
	UploadDir string
	Logger    logger.Logger

	// Opcional: si viene, usa Postgres. Si no, intenta DB_DSN y cae a memoria.
	DB *sql.DB
}

// srv agrupa las dependencias que comparten los handlers.
type srv struct {
	store     store.Store
	secret    string
	uploadDir string
	log       logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	st := opts.Store
	if st == nil {
		db := opts.DB
		if db == nil {
			if dsn := os.Getenv("DB_DSN"); dsn != "" {
				opened, err := postgres.Open(dsn)
				if err == nil {
					db = opened
				} else {
					log.Warn("postgres unavailable, falling back to memory", map[string]any{"error": err.Error()})
				}
			}
		}
		if db != nil {
			pg := postgres.New(db)
			if err := pg.Migrate(context.Background()); err != nil {
				log.Error("migrate failed", map[string]any{"error": err.Error()})
			}
			st = pg
		} else {
			st = memory.New()
		}
	}

	uploadDir := opts.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	s := &srv{
		store:     st,
		secret:    opts.Secret,
		uploadDir: uploadDir,
		log:       log,
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(authContext(s.secret))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// login/signup con límite por IP: frena fuerza bruta sin tocar el resto.
	authLimit := limitMiddleware(newRateLimiter(10, time.Minute, 10))

	r.Route("/api", func(r chi.Router) {
		r.With(authLimit).Post("/login", s.loginHandler)
		r.With(authLimit).Post("/signup", s.signupHandler)
		r.Get("/me", s.meHandler)

		r.Get("/pet-listings", s.listPublicHandler)
		r.Post("/pet-listing", s.createListingHandler)
		r.Get("/my-pet-listings", s.myListingsHandler)
		r.Patch("/pet-listing/{petID}", s.patchListingStatusHandler)
		r.Delete("/pet-listing/{petID}", s.deleteListingHandler)

		r.Post("/adoption-request", s.createRequestHandler)
		r.Get("/my-adoption-requests", s.myRequestsHandler)
		r.Put("/adoption-request/{petID}/{requestID}", s.updateRequestStatusHandler)
		r.Delete("/adoption-request/{requestID}", s.withdrawHandler)

		r.Get("/admin/users", s.adminUsersHandler)
		r.Get("/admin/pet-listings", s.adminListingsHandler)
	})

	r.Get("/uploads/{file}", s.uploadsHandler)

	return r
}
