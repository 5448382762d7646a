package catalog

import (
	"context"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/logger"
	"github.com/Rakshit5467/PetPals/internal/session"
)

// API es la porción del backend que usa el catálogo. La lectura es pública:
// funciona igual para guests.
type API interface {
	ListListings(ctx context.Context) ([]petpalapi.Listing, error)
}

// Card es un listing más los flags derivados para el viewer actual.
type Card struct {
	Listing petpalapi.Listing

	Mine       bool // el viewer es el dueño
	HasPending bool // el viewer ya tiene una solicitud Pending acá
	CanAdopt   bool
	NeedsLogin bool // guest: el botón manda a login en vez de adoptar
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

// Browse trae todos los listings públicos y deriva la elegibilidad por card.
// "Adopt" habilitado sii: autenticado, no dueño, sin solicitud Pending propia.
func (s *Service) Browse(ctx context.Context, viewer session.Identity) ([]Card, error) {
	listings, err := s.api.ListListings(ctx)
	if err != nil {
		s.log.Error("catalog fetch failed", map[string]any{"err": err.Error()})
		return nil, err
	}

	cards := make([]Card, 0, len(listings))
	for _, l := range listings {
		c := Card{Listing: l}

		if !viewer.Authenticated() {
			c.NeedsLogin = true
			cards = append(cards, c)
			continue
		}

		c.Mine = l.Owner == viewer.Email
		c.HasPending = hasPendingFrom(l, viewer.Email)
		c.CanAdopt = !c.Mine && !c.HasPending

		cards = append(cards, c)
	}
	return cards, nil
}

// hasPendingFrom escanea la colección embebida de solicitudes. O(solicitudes
// por listing), aceptable a esta escala.
func hasPendingFrom(l petpalapi.Listing, email string) bool {
	for _, r := range l.Requests {
		if r.RequesterID == email && r.Status == petpalapi.RequestPending {
			return true
		}
	}
	return false
}
