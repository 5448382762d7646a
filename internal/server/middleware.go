package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Rakshit5467/PetPals/internal/server/token"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// authContext: si viene Bearer token válido, setea claims en el contexto.
// Si no hay claims el request sigue igual; cada handler decide si exige auth.
func authContext(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r.Header.Get("Authorization"))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := token.Parse(secret, raw)
			if err != nil {
				// No cortamos acá: el handler responde 401 si lo necesita.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func getClaims(ctx context.Context) (token.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return token.Claims{}, false
	}
	c, ok := v.(token.Claims)
	return c, ok
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError responde {"error": "..."} con el mensaje literal, asi el cliente
// puede mostrarlo tal cual.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}
