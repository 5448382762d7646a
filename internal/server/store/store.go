package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	ErrExists   = errors.New("already exists")
)

const (
	ListingAvailable = "Available"
	ListingPending   = "Pending"
	ListingAdopted   = "Adopted"

	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
)

type User struct {
	ID           string `json:"_id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
}

type OwnerContact struct {
	Name    string  `json:"name"`
	Phone   string  `json:"phone"`
	Email   string  `json:"email,omitempty"`
	Address Address `json:"address"`
}

type ContactInfo struct {
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type HomeInfo struct {
	Type       string `json:"type"`
	YardSize   string `json:"yard_size"`
	HoursAlone string `json:"hours_alone"`
}

type Experience struct {
	OtherPets          string `json:"other_pets"`
	PreviousExperience string `json:"previous_experience"`
}

// AdoptionRequest vive embebido en su Listing, igual que en el documento
// original; no hay colección aparte.
type AdoptionRequest struct {
	ID            string      `json:"_id"`
	RequesterID   string      `json:"requester_id"`
	RequesterName string      `json:"requester_name"`
	ContactInfo   ContactInfo `json:"contact_info"`
	HomeInfo      HomeInfo    `json:"home_info"`
	Experience    Experience  `json:"experience"`
	Reason        string      `json:"reason"`
	Status        string      `json:"status"`
	RequestDate   time.Time   `json:"request_date"`
	UpdatedAt     *time.Time  `json:"updated_at,omitempty"`
}

type Listing struct {
	ID           string            `json:"_id"`
	Name         string            `json:"name"`
	Species      string            `json:"species"`
	Age          int               `json:"age"`
	Description  string            `json:"description"`
	Image        string            `json:"image"`
	Owner        string            `json:"owner"`
	OwnerContact OwnerContact      `json:"owner_contact"`
	Status       string            `json:"status"`
	Requests     []AdoptionRequest `json:"adoption_requests"`
	CreatedAt    time.Time         `json:"created_at"`
}

// HasPendingFrom reporta si el email ya tiene una solicitud Pending acá.
func (l Listing) HasPendingFrom(email string) bool {
	for _, r := range l.Requests {
		if r.RequesterID == email && r.Status == RequestPending {
			return true
		}
	}
	return false
}

// Store es la persistencia del servidor. UpdateListing reemplaza el
// documento completo (estilo Mongo): los handlers leen, mutan y escriben.
type Store interface {
	CreateUser(ctx context.Context, u User) error
	FindUserByEmail(ctx context.Context, email string) (User, error)
	ListUsers(ctx context.Context) ([]User, error)

	CreateListing(ctx context.Context, l Listing) error
	GetListing(ctx context.Context, id string) (Listing, error)
	UpdateListing(ctx context.Context, l Listing) error
	DeleteListing(ctx context.Context, id string) error

	ListPublicListings(ctx context.Context) ([]Listing, error)
	ListListingsByOwner(ctx context.Context, email string) ([]Listing, error)
	ListAllListings(ctx context.Context) ([]Listing, error)

	// ListListingsWithRequestFrom devuelve los listings donde el email tiene
	// al menos una solicitud (para /api/my-adoption-requests).
	ListListingsWithRequestFrom(ctx context.Context, email string) ([]Listing, error)

	// FindListingByRequest ubica el listing que contiene la solicitud del
	// requester dado (para el withdraw).
	FindListingByRequest(ctx context.Context, requestID, requesterEmail string) (Listing, error)
}
