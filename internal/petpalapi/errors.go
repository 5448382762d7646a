package petpalapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Rakshit5467/PetPals/internal/platform/httpclient"
)

var (
	// ErrUnauthorized cubre 401 y 403: credenciales inválidas, token
	// vencido/ausente o rol insuficiente. El backend no distingue más fino.
	ErrUnauthorized = errors.New("petpal api: unauthorized")

	// ErrNotFound: el listing/request referido ya no existe.
	ErrNotFound = errors.New("petpal api: not found")

	// ErrNetwork: el request no llegó a completarse (timeout, DNS, conexión).
	ErrNetwork = errors.New("petpal api: network error")
)

// APIError conserva el mensaje literal que mandó el servidor, para mostrarlo
// tal cual en el banner de error (igual que hacía la UI original).
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("petpal api: status=%d", e.Status)
	}
	return fmt.Sprintf("petpal api: status=%d: %s", e.Status, e.Message)
}

// wrapErr clasifica un error del transporte en la taxonomía del cliente.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}

	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		// No hubo respuesta HTTP: problema de red.
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	msg := serverMessage(he.Body)
	switch he.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
		}
		return ErrUnauthorized
	case http.StatusNotFound:
		if msg != "" {
			return fmt.Errorf("%w: %s", ErrNotFound, msg)
		}
		return ErrNotFound
	default:
		return &APIError{Status: he.StatusCode, Message: msg}
	}
}

// serverMessage extrae {"error": "..."} del body, si viene en ese formato.
func serverMessage(body string) string {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Message
}

// Message devuelve el mensaje del servidor si existe, sino el fallback.
// Equivalente a `err.response?.data?.error || fallback` de la app original.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}

	// Para auth/not-found el mensaje viaja en el texto del wrap.
	for _, sentinel := range []error{ErrUnauthorized, ErrNotFound} {
		if errors.Is(err, sentinel) {
			if rest := strings.TrimPrefix(err.Error(), sentinel.Error()+": "); rest != err.Error() && rest != "" {
				return rest
			}
		}
	}

	return fallback
}
