package forms

import (
	"errors"
	"regexp"
	"strings"
)

// ValidationError es un error de formulario detectado antes de tocar la red.
// El mensaje se muestra tal cual al usuario.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

// IsValidation reporta si err (o algo en su cadena) es un ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

var phoneRE = regexp.MustCompile(`^\d{10}$`)

// ValidPhone exige exactamente 10 dígitos, sin separadores.
func ValidPhone(s string) bool {
	return phoneRE.MatchString(strings.TrimSpace(s))
}

// Filled reporta si todos los valores vienen no vacíos.
func Filled(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
