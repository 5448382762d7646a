package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Rakshit5467/PetPals/internal/server/store"
	"github.com/Rakshit5467/PetPals/internal/server/token"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

func (s *srv) loginHandler(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	u, err := s.store.FindUserByEmail(r.Context(), req.Email)
	if err != nil || !verifyPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	tok, err := token.New(s.secret, token.Claims{Email: u.Email, Role: u.Role, Name: u.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.log.Info("login", map[string]any{"email": u.Email, "role": u.Role})
	writeJSON(w, http.StatusOK, authResponse{AccessToken: tok, Role: u.Role})
}

func (s *srv) signupHandler(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to hash password")
		return
	}

	u := store.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrExists) {
			writeError(w, http.StatusBadRequest, "User already exists")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	tok, err := token.New(s.secret, token.Claims{Email: u.Email, Role: u.Role, Name: u.Name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}

	s.log.Info("signup", map[string]any{"email": u.Email})
	writeJSON(w, http.StatusCreated, authResponse{AccessToken: tok, Role: u.Role})
}

func (s *srv) meHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := getClaims(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"email": claims.Email,
		"role":  claims.Role,
		"name":  claims.Name,
	})
}

// SeedAdmin garantiza que exista el usuario admin configurado por env.
// El signup público siempre crea rol "user"; esta es la única puerta al
// rol admin.
func SeedAdmin(ctx context.Context, st store.Store, email, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	if _, err := st.FindUserByEmail(ctx, email); err == nil {
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	err = st.CreateUser(ctx, store.User{
		ID:           uuid.NewString(),
		Name:         "Administrator",
		Email:        email,
		PasswordHash: hash,
		Role:         "admin",
	})
	if errors.Is(err, store.ErrExists) {
		return nil
	}
	return err
}
