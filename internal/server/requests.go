package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Rakshit5467/PetPals/internal/server/store"
)

// createRequestHandler registra la solicitud embebida en el listing y, si la
// mascota estaba Available, la pasa a Pending.
func (s *srv) createRequestHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	// Se decodifica a mapa: la validación es de presencia de campos, no de
	// contenido (los strings vacíos pasan).
	var data map[string]any
	if err := decodeJSON(r, &data); err != nil || data == nil {
		writeError(w, http.StatusBadRequest, "No JSON data received")
		return
	}

	required := []string{
		"pet_listing_id", "contact", "address", "city",
		"state", "postalCode", "homeType", "hoursAlone",
		"petExperience", "adoptionReason",
	}
	var missing []string
	for _, f := range required {
		if _, ok := data[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "Missing required fields",
			"missing": missing,
		})
		return
	}

	// El original guardaba el valor tal cual viniera; acá los escalares no
	// string (números, bools) se convierten a texto en vez de perderse.
	str := func(f string) string {
		switch v := data[f].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		default:
			return ""
		}
	}

	petID := str("pet_listing_id")
	listing, err := s.store.GetListing(r.Context(), petID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Pet listing not found")
		return
	}

	if listing.Status == store.ListingAdopted {
		writeError(w, http.StatusBadRequest, "This pet has already been adopted")
		return
	}
	for _, req := range listing.Requests {
		if req.RequesterID == claims.Email && req.Status == store.RequestPending {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":      "You already have a pending request for this pet",
				"request_id": req.ID,
			})
			return
		}
	}

	req := store.AdoptionRequest{
		ID:            uuid.NewString(),
		RequesterID:   claims.Email,
		RequesterName: claims.Name,
		ContactInfo: store.ContactInfo{
			Phone: str("contact"),
			Address: store.Address{
				Street:     str("address"),
				City:       str("city"),
				State:      str("state"),
				PostalCode: str("postalCode"),
			},
		},
		HomeInfo: store.HomeInfo{
			Type:       str("homeType"),
			YardSize:   str("yardSize"),
			HoursAlone: str("hoursAlone"),
		},
		Experience: store.Experience{
			OtherPets:          str("otherPets"),
			PreviousExperience: str("petExperience"),
		},
		Reason:      str("adoptionReason"),
		Status:      store.RequestPending,
		RequestDate: time.Now().UTC(),
	}

	listing.Requests = append(listing.Requests, req)
	if listing.Status == store.ListingAvailable {
		listing.Status = store.ListingPending
	}

	if err := s.store.UpdateListing(r.Context(), listing); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to submit adoption request")
		return
	}

	s.log.Info("adoption request created", map[string]any{"pet": petID, "requester": claims.Email})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":        "Adoption request submitted!",
		"request":        req,
		"pet_listing_id": petID,
	})
}

// myRequestsHandler proyecta las solicitudes del caller con el resumen del
// pet (incluye owner_contact, que la vista muestra solo si fue aprobada).
func (s *srv) myRequestsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listings, err := s.store.ListListingsWithRequestFrom(r.Context(), claims.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := []map[string]any{}
	for _, l := range listings {
		for _, req := range l.Requests {
			if req.RequesterID != claims.Email {
				continue
			}
			entry := map[string]any{
				"request_id":   req.ID,
				"status":       req.Status,
				"request_date": req.RequestDate,
				"pet": map[string]any{
					"_id":           l.ID,
					"name":          l.Name,
					"image":         withImageHost(l, r.Host).Image,
					"owner_contact": l.OwnerContact,
				},
			}
			if req.UpdatedAt != nil {
				entry["updated_at"] = req.UpdatedAt
			}
			out = append(out, entry)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

// updateRequestStatusHandler es el endpoint del dueño: aprobar o rechazar.
// Aprobar rechaza el resto de las pendientes y marca la mascota Adopted;
// rechazar la última pendiente la devuelve a Available.
func (s *srv) updateRequestStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing status in request body")
		return
	}
	if body.Status != store.RequestApproved && body.Status != store.RequestRejected {
		writeError(w, http.StatusBadRequest, "Invalid status value")
		return
	}

	petID := chi.URLParam(r, "petID")
	requestID := chi.URLParam(r, "requestID")

	listing, err := s.store.GetListing(r.Context(), petID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Pet listing not found")
		return
	}
	if listing.Owner != claims.Email {
		writeError(w, http.StatusForbidden, "Unauthorized to modify this listing")
		return
	}

	idx := -1
	for i, req := range listing.Requests {
		if req.ID == requestID {
			idx = i
			break
		}
	}
	if idx < 0 {
		writeError(w, http.StatusNotFound, "Adoption request not found")
		return
	}

	now := time.Now().UTC()
	listing.Requests[idx].Status = body.Status
	listing.Requests[idx].UpdatedAt = &now

	if body.Status == store.RequestApproved {
		listing.Status = store.ListingAdopted
		for i := range listing.Requests {
			if i != idx && listing.Requests[i].Status == store.RequestPending {
				listing.Requests[i].Status = store.RequestRejected
				listing.Requests[i].UpdatedAt = &now
			}
		}
	} else {
		pending := false
		for _, req := range listing.Requests {
			if req.Status == store.RequestPending {
				pending = true
				break
			}
		}
		if !pending {
			listing.Status = store.ListingAvailable
		}
	}

	if err := s.store.UpdateListing(r.Context(), listing); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to update adoption request")
		return
	}

	s.log.Info("request status updated", map[string]any{
		"pet": petID, "request": requestID, "status": body.Status,
	})
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Request " + strings.ToLower(body.Status) + " successfully",
	})
}

// withdrawHandler borra una solicitud del propio usuario. No toca el status
// del listing.
func (s *srv) withdrawHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestID := chi.URLParam(r, "requestID")
	listing, err := s.store.FindListingByRequest(r.Context(), requestID, claims.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Request not found or already removed")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	kept := listing.Requests[:0:0]
	for _, req := range listing.Requests {
		if req.ID == requestID && req.RequesterID == claims.Email {
			continue
		}
		kept = append(kept, req)
	}
	listing.Requests = kept

	if err := s.store.UpdateListing(r.Context(), listing); err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Adoption request removed successfully"})
}
