package session

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/forms"
	"github.com/Rakshit5467/PetPals/internal/platform/logger"
)

// API es lo que el workflow de sesión necesita del backend.
type API interface {
	Login(ctx context.Context, email, password string) (petpalapi.AuthResponse, error)
	Signup(ctx context.Context, name, email, password string) (petpalapi.AuthResponse, error)
}

type Service struct {
	api   API
	store Store
	log   logger.Logger
}

func NewService(api API, store Store, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{api: api, store: store, log: log}
}

// Current devuelve la identidad vigente (guest si no hay login).
func (s *Service) Current() Identity {
	return s.store.Current()
}

func (s *Service) Login(ctx context.Context, email, password string) (Identity, error) {
	email = strings.TrimSpace(email)
	if !forms.Filled(email, password) {
		return Guest(), forms.Invalid("Email and password are required")
	}

	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.log.Warn("login failed", map[string]any{"email": email, "err": err.Error()})
		return Guest(), err
	}

	id := Identity{
		Role:  ParseRole(resp.Role),
		Name:  tokenName(resp.AccessToken),
		Email: email,
		Token: resp.AccessToken,
	}
	if err := s.store.Save(id); err != nil {
		return Guest(), err
	}

	s.log.Info("login ok", map[string]any{"email": email, "role": resp.Role})
	return id, nil
}

type SignupInput struct {
	Name            string
	Email           string
	Password        string
	ConfirmPassword string
}

// Signup valida la política de password ANTES de emitir cualquier llamada.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Identity, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if !forms.Filled(in.Name, in.Email, in.Password) {
		return Guest(), forms.Invalid("All fields are required")
	}
	if len(in.Password) < 8 {
		return Guest(), forms.Invalid("Password must be at least 8 characters")
	}
	if in.Password != in.ConfirmPassword {
		return Guest(), forms.Invalid("Passwords do not match")
	}

	resp, err := s.api.Signup(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		s.log.Warn("signup failed", map[string]any{"email": in.Email, "err": err.Error()})
		return Guest(), err
	}

	id := Identity{
		Role:  ParseRole(resp.Role),
		Name:  in.Name,
		Email: in.Email,
		Token: resp.AccessToken,
	}
	if err := s.store.Save(id); err != nil {
		return Guest(), err
	}

	s.log.Info("signup ok", map[string]any{"email": in.Email})
	return id, nil
}

func (s *Service) Logout() error {
	return s.store.Clear()
}

// tokenName saca el claim "name" del JWT sin verificar firma: el cliente no
// tiene el secret y solo necesita el nombre para mostrarlo. Tolera tanto
// claims planos como el claim "identity" anidado del backend original.
func tokenName(token string) string {
	parser := jwt.NewParser()
	t, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return ""
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return ""
	}

	if name, ok := claims["name"].(string); ok && name != "" {
		return name
	}
	if identity, ok := claims["identity"].(map[string]any); ok {
		if name, ok := identity["name"].(string); ok {
			return name
		}
	}
	return ""
}
