package admin

import (
	"context"
	"errors"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/logger"
	"github.com/Rakshit5467/PetPals/internal/session"
)

var ErrNotAdmin = errors.New("admin role required")

// API: tablas de solo lectura del dashboard.
type API interface {
	AdminUsers(ctx context.Context) ([]petpalapi.User, error)
	AdminListings(ctx context.Context) ([]petpalapi.Listing, error)
}

type Service struct {
	api API
	log logger.Logger
}

func NewService(api API, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{api: api, log: log}
}

// Users lista todos los usuarios. El gate real es el token; el check local
// solo evita una llamada que va a terminar en 403.
func (s *Service) Users(ctx context.Context, viewer session.Identity) ([]petpalapi.User, error) {
	if !viewer.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return s.api.AdminUsers(ctx)
}

func (s *Service) Listings(ctx context.Context, viewer session.Identity) ([]petpalapi.Listing, error) {
	if !viewer.IsAdmin() {
		return nil, ErrNotAdmin
	}
	return s.api.AdminListings(ctx)
}
