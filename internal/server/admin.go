package server

import "net/http"

// Vistas de solo lectura para el rol admin. El middleware no corta, acá se
// decide el 403.
func (s *srv) adminUsersHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok || claims.Role != "admin" {
		writeError(w, http.StatusForbidden, "Unauthorized, admin only")
		return
	}

	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *srv) adminListingsHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok || claims.Role != "admin" {
		writeError(w, http.StatusForbidden, "Unauthorized, admin only")
		return
	}

	listings, err := s.store.ListAllListings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, withImageHostAll(listings, r.Host))
}
