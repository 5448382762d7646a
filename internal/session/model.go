package session

import "strings"

// Role es la variante de identidad del viewer. Se usa un enum cerrado en vez
// de "user nullable + string role" para que los switch sean exhaustivos.
type Role string

const (
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user":
		return RoleUser
	case "admin":
		return RoleAdmin
	default:
		return RoleGuest
	}
}

// Identity es la sesión del tab actual: quién es el viewer y su bearer token.
// El zero value NO es válido; usar Guest() para el estado sin login.
type Identity struct {
	Role  Role
	Name  string
	Email string
	Token string
}

func Guest() Identity {
	return Identity{Role: RoleGuest}
}

func (i Identity) Authenticated() bool {
	return i.Role == RoleUser || i.Role == RoleAdmin
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// DisplayName replica el navbar original: nombre, o el prefijo del email.
func (i Identity) DisplayName() string {
	if strings.TrimSpace(i.Name) != "" {
		return i.Name
	}
	if at := strings.IndexByte(i.Email, '@'); at > 0 {
		return i.Email[:at]
	}
	return i.Email
}
