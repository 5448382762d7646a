package server

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Rakshit5467/PetPals/internal/server/store"
)

var allowedImageExt = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

var phoneRE = regexp.MustCompile(`^\d{10}$`)

const maxUploadBytes = 10 << 20 // 10MB por request multipart

// createListingHandler recibe el multipart del formulario de alta.
// Valida como el backend original: 400 para faltantes, 422 para inválidos.
func (s *srv) createListingHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No form data received")
		return
	}

	form := r.MultipartForm.Value
	required := []string{"name", "species", "age", "description", "ownerName", "phone", "street", "city", "state", "postalCode"}
	for _, f := range required {
		if len(form[f]) == 0 {
			writeError(w, http.StatusBadRequest, "Missing required fields")
			return
		}
	}
	get := func(f string) string {
		if v := form[f]; len(v) > 0 {
			return v[0]
		}
		return ""
	}

	for _, f := range []string{"name", "species", "description"} {
		if strings.TrimSpace(get(f)) == "" {
			writeError(w, http.StatusUnprocessableEntity, f+" must be a non-empty string")
			return
		}
	}

	age, err := strconv.Atoi(strings.TrimSpace(get("age")))
	if err != nil || age <= 0 {
		writeError(w, http.StatusUnprocessableEntity, "Age must be a positive integer")
		return
	}

	if !phoneRE.MatchString(get("phone")) {
		writeError(w, http.StatusUnprocessableEntity, "Phone must be 10 digits")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No image file provided")
		return
	}
	defer file.Close()

	if strings.TrimSpace(header.Filename) == "" {
		writeError(w, http.StatusBadRequest, "No selected image file")
		return
	}
	if !allowedImageExt[strings.ToLower(filepath.Ext(header.Filename))] {
		writeError(w, http.StatusBadRequest, "Invalid file type. Allowed types: png, jpg, jpeg, gif")
		return
	}

	imageURL, err := s.saveUpload(header.Filename, file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save image: "+err.Error())
		return
	}

	listing := store.Listing{
		ID:          uuid.NewString(),
		Name:        get("name"),
		Species:     get("species"),
		Age:         age,
		Description: get("description"),
		Image:       imageURL,
		Owner:       claims.Email,
		OwnerContact: store.OwnerContact{
			Name:  get("ownerName"),
			Phone: get("phone"),
			Email: get("email"),
			Address: store.Address{
				Street:     get("street"),
				City:       get("city"),
				State:      get("state"),
				PostalCode: get("postalCode"),
			},
		},
		Status:    store.ListingAvailable,
		Requests:  []store.AdoptionRequest{},
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.CreateListing(r.Context(), listing); err != nil {
		writeError(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.log.Info("listing created", map[string]any{"id": listing.ID, "owner": claims.Email})
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "Pet listing created successfully!",
		"listing": withImageHost(listing, r.Host),
	})
}

// listPublicHandler es el feed sin auth: solo Available y Pending.
func (s *srv) listPublicHandler(w http.ResponseWriter, r *http.Request) {
	listings, err := s.store.ListPublicListings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, withImageHostAll(listings, r.Host))
}

func (s *srv) myListingsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	listings, err := s.store.ListListingsByOwner(r.Context(), claims.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, withImageHostAll(listings, r.Host))
}

// patchListingStatusHandler cambia solo el status; lo usa la orquestación
// de approve/reject del cliente.
func (s *srv) patchListingStatusHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "Missing status field")
		return
	}

	petID := chi.URLParam(r, "petID")
	listing, err := s.store.GetListing(r.Context(), petID)
	if err != nil || listing.Owner != claims.Email {
		writeError(w, http.StatusForbidden, "Unauthorized")
		return
	}

	listing.Status = req.Status
	if err := s.store.UpdateListing(r.Context(), listing); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to update pet status")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Pet status updated successfully"})
}

func (s *srv) deleteListingHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	petID := chi.URLParam(r, "petID")
	listing, err := s.store.GetListing(r.Context(), petID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Pet listing not found")
		return
	}
	if listing.Owner != claims.Email {
		writeError(w, http.StatusForbidden, "Unauthorized to delete this listing")
		return
	}

	if err := s.store.DeleteListing(r.Context(), petID); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to delete pet listing")
		return
	}

	s.log.Info("listing deleted", map[string]any{"id": petID, "owner": claims.Email})
	writeJSON(w, http.StatusOK, map[string]string{"message": "Pet listing deleted successfully"})
}

// saveUpload guarda la imagen con nombre propio (uuid + ext saneada) y
// devuelve el path público /uploads/<archivo>.
func (s *srv) saveUpload(filename string, content io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + strings.ToLower(filepath.Ext(filepath.Base(filename)))
	dst, err := os.Create(filepath.Join(s.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, content); err != nil {
		_ = os.Remove(dst.Name())
		return "", err
	}
	return "/uploads/" + name, nil
}

// withImageHost convierte /uploads/x en URL absoluta, como hacía el backend
// original con request.host.
func withImageHost(l store.Listing, host string) store.Listing {
	if strings.HasPrefix(l.Image, "/uploads/") {
		l.Image = "http://" + host + l.Image
	}
	return l
}

func withImageHostAll(listings []store.Listing, host string) []store.Listing {
	out := make([]store.Listing, 0, len(listings))
	for _, l := range listings {
		out = append(out, withImageHost(l, host))
	}
	return out
}

// uploadsHandler sirve las imágenes guardadas. Solo archivos directos, sin
// listado de directorio.
func (s *srv) uploadsHandler(w http.ResponseWriter, r *http.Request) {
	name := filepath.Base(chi.URLParam(r, "file"))
	if name == "." || name == "/" || strings.Contains(name, "..") {
		writeError(w, http.StatusBadRequest, "invalid file name")
		return
	}

	path := filepath.Join(s.uploadDir, name)
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	http.ServeFile(w, r, path)
}
