package requests

import (
	"context"
	"errors"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/forms"
	"github.com/Rakshit5467/PetPals/internal/platform/logger"
	"github.com/Rakshit5467/PetPals/internal/session"
)

var (
	// ErrNotPending: solo se pueden retirar solicitudes todavía Pending.
	ErrNotPending = errors.New("request is not pending")
)

// API es el lado solicitante del backend.
type API interface {
	SubmitRequest(ctx context.Context, form petpalapi.AdoptionForm) (string, error)
	MyRequests(ctx context.Context) ([]petpalapi.MyRequest, error)
	WithdrawRequest(ctx context.Context, requestID string) error
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

// Form son los campos que sí llena el solicitante. Yard y otras mascotas son
// opcionales; la identidad nunca viene de acá.
type Form struct {
	Contact        string
	Address        string
	City           string
	State          string
	PostalCode     string
	HomeType       string
	YardSize       string
	OtherPets      string
	PetExperience  string
	HoursAlone     string
	AdoptionReason string
}

// Submit arma la solicitud con la identidad de la sesión (no del formulario)
// y la envía. Devuelve el mensaje de éxito del servidor.
func (s *Service) Submit(ctx context.Context, viewer session.Identity, petID string, f Form) (string, error) {
	if !viewer.Authenticated() {
		return "", forms.Invalid("You must be logged in to adopt")
	}
	if !forms.Filled(petID, f.Contact, f.Address, f.City, f.State, f.PostalCode,
		f.HomeType, f.PetExperience, f.HoursAlone, f.AdoptionReason) {
		return "", forms.Invalid("All fields are required")
	}

	msg, err := s.api.SubmitRequest(ctx, petpalapi.AdoptionForm{
		PetListingID:   petID,
		RequesterName:  viewer.Name,
		RequesterEmail: viewer.Email,
		Contact:        f.Contact,
		Address:        f.Address,
		City:           f.City,
		State:          f.State,
		PostalCode:     f.PostalCode,
		HomeType:       f.HomeType,
		YardSize:       f.YardSize,
		OtherPets:      f.OtherPets,
		PetExperience:  f.PetExperience,
		HoursAlone:     f.HoursAlone,
		AdoptionReason: f.AdoptionReason,
	})
	if err != nil {
		s.log.Error("submit request failed", map[string]any{"pet": petID, "err": err.Error()})
		return "", err
	}

	s.log.Info("request submitted", map[string]any{"pet": petID, "requester": viewer.Email})
	return msg, nil
}

func (s *Service) Mine(ctx context.Context) ([]petpalapi.MyRequest, error) {
	return s.api.MyRequests(ctx)
}

// Withdraw borra la solicitud y la quita de la copia local sin re-fetch.
// Solo procede si en la copia local sigue Pending; la confirmación previa
// es responsabilidad de la UI.
func (s *Service) Withdraw(ctx context.Context, current []petpalapi.MyRequest, requestID string) ([]petpalapi.MyRequest, error) {
	var found *petpalapi.MyRequest
	for i := range current {
		if current[i].RequestID == requestID {
			found = &current[i]
			break
		}
	}
	if found == nil || found.Status != petpalapi.RequestPending {
		return current, ErrNotPending
	}

	if err := s.api.WithdrawRequest(ctx, requestID); err != nil {
		s.log.Error("withdraw failed", map[string]any{"request": requestID, "err": err.Error()})
		return current, err
	}

	out := make([]petpalapi.MyRequest, 0, len(current))
	for _, r := range current {
		if r.RequestID != requestID {
			out = append(out, r)
		}
	}
	return out, nil
}
