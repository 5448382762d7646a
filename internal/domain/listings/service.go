package listings

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/forms"
	"github.com/Rakshit5467/PetPals/internal/platform/logger"
)

// API cubre el lado "mis listings": alta/baja y la orquestación de
// aprobar/rechazar solicitudes.
type API interface {
	CreateListing(ctx context.Context, form petpalapi.ListingForm, imageName string, image io.Reader) (petpalapi.Listing, error)
	DeleteListing(ctx context.Context, id string) error
	MyListings(ctx context.Context) ([]petpalapi.Listing, error)
	SetListingStatus(ctx context.Context, id, status string) error
	SetRequestStatus(ctx context.Context, petID, requestID, status string) error
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

// Upload es la imagen del formulario de alta.
type Upload struct {
	Name    string
	Content io.Reader
}

// Create valida el formulario completo antes de emitir ninguna llamada.
// Email es el único campo opcional.
func (s *Service) Create(ctx context.Context, form petpalapi.ListingForm, image *Upload) (petpalapi.Listing, error) {
	hasImage := image != nil && image.Content != nil
	if !forms.Filled(form.Name, form.Species, form.Age, form.Description,
		form.OwnerName, form.Phone, form.Street, form.City, form.State, form.PostalCode) || !hasImage {
		return petpalapi.Listing{}, forms.Invalid("All fields are required")
	}
	if !forms.ValidPhone(form.Phone) {
		return petpalapi.Listing{}, forms.Invalid("Phone number must be 10 digits")
	}
	if age, err := strconv.Atoi(strings.TrimSpace(form.Age)); err != nil || age <= 0 {
		return petpalapi.Listing{}, forms.Invalid("Age must be a positive integer")
	}

	created, err := s.api.CreateListing(ctx, form, image.Name, image.Content)
	if err != nil {
		s.log.Error("create listing failed", map[string]any{"err": err.Error()})
		return petpalapi.Listing{}, err
	}

	s.log.Info("listing created", map[string]any{"id": created.ID, "name": created.Name})
	return created, nil
}

func (s *Service) Mine(ctx context.Context) ([]petpalapi.Listing, error) {
	return s.api.MyListings(ctx)
}

// Delete borra el listing y lo quita de la copia local sin re-fetch
// (asume que el DELETE fue atómico del lado del servidor).
func (s *Service) Delete(ctx context.Context, current []petpalapi.Listing, id string) ([]petpalapi.Listing, error) {
	if err := s.api.DeleteListing(ctx, id); err != nil {
		s.log.Error("delete listing failed", map[string]any{"id": id, "err": err.Error()})
		return current, err
	}

	out := make([]petpalapi.Listing, 0, len(current))
	for _, l := range current {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out, nil
}

// Approve ejecuta la secuencia de aprobación, en este orden:
//  1. la solicitud elegida pasa a Approved
//  2. el listing pasa a Adopted
//  3. toda otra solicitud Pending del snapshot local pasa a Rejected
//
// Son llamadas independientes sin transacción: si la 3 falla a medias no se
// revierte nada; el re-fetch final reconcilia con lo que diga el servidor.
func (s *Service) Approve(ctx context.Context, current []petpalapi.Listing, petID, requestID string) ([]petpalapi.Listing, error) {
	if err := s.api.SetRequestStatus(ctx, petID, requestID, petpalapi.RequestApproved); err != nil {
		s.log.Error("approve failed", map[string]any{"pet": petID, "request": requestID, "err": err.Error()})
		return current, err
	}

	if err := s.api.SetListingStatus(ctx, petID, petpalapi.ListingAdopted); err != nil {
		s.log.Error("mark adopted failed", map[string]any{"pet": petID, "err": err.Error()})
		return current, err
	}

	for _, r := range siblingsPending(current, petID, requestID) {
		if err := s.api.SetRequestStatus(ctx, petID, r.ID, petpalapi.RequestRejected); err != nil {
			s.log.Error("reject sibling failed", map[string]any{"pet": petID, "request": r.ID, "err": err.Error()})
			return current, err
		}
	}

	s.log.Info("request approved", map[string]any{"pet": petID, "request": requestID})
	return s.api.MyListings(ctx)
}

// Reject rechaza la solicitud y, si el snapshot local no muestra otras
// solicitudes Pending, devuelve el listing a Available. La decisión usa la
// lista con la que se entró, no una re-leída: dos rejects concurrentes pueden
// pisarse (comportamiento heredado, documentado en DESIGN.md).
func (s *Service) Reject(ctx context.Context, current []petpalapi.Listing, petID, requestID string) ([]petpalapi.Listing, error) {
	if err := s.api.SetRequestStatus(ctx, petID, requestID, petpalapi.RequestRejected); err != nil {
		s.log.Error("reject failed", map[string]any{"pet": petID, "request": requestID, "err": err.Error()})
		return current, err
	}

	if len(siblingsPending(current, petID, requestID)) == 0 {
		if err := s.api.SetListingStatus(ctx, petID, petpalapi.ListingAvailable); err != nil {
			s.log.Error("revert available failed", map[string]any{"pet": petID, "err": err.Error()})
			return current, err
		}
	}

	s.log.Info("request rejected", map[string]any{"pet": petID, "request": requestID})
	return s.api.MyListings(ctx)
}

// siblingsPending devuelve las otras solicitudes Pending del listing, según
// el snapshot local.
func siblingsPending(current []petpalapi.Listing, petID, requestID string) []petpalapi.AdoptionRequest {
	var out []petpalapi.AdoptionRequest
	for _, l := range current {
		if l.ID != petID {
			continue
		}
		for _, r := range l.Requests {
			if r.ID != requestID && r.Status == petpalapi.RequestPending {
				out = append(out, r)
			}
		}
		break
	}
	return out
}
