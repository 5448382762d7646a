package petpalapi

import "time"

// Estados de un listing y de un adoption request tal como los maneja el backend.
const (
	ListingAvailable = "Available"
	ListingPending   = "Pending"
	ListingAdopted   = "Adopted"

	RequestPending  = "Pending"
	RequestApproved = "Approved"
	RequestRejected = "Rejected"
)

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

// AdoptionRequest es una solicitud embebida dentro de su listing.
type AdoptionRequest struct {
	ID            string      `json:"_id"`
	RequesterID   string      `json:"requester_id"` // email del solicitante
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
	Owner        string            `json:"owner"` // email del dueño
	OwnerContact OwnerContact      `json:"owner_contact"`
	Status       string            `json:"status"`
	Requests     []AdoptionRequest `json:"adoption_requests"`
	CreatedAt    time.Time         `json:"created_at"`
}

type User struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// AuthResponse es la respuesta de /api/login y /api/signup.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

// PetSummary es la vista acotada del listing que viaja en /api/my-adoption-requests.
type PetSummary struct {
	ID           string       `json:"_id"`
	Name         string       `json:"name"`
	Image        string       `json:"image"`
	OwnerContact OwnerContact `json:"owner_contact"`
}

// MyRequest es una solicitud del caller, con el pet resumido.
type MyRequest struct {
	RequestID   string     `json:"request_id"`
	Status      string     `json:"status"`
	RequestDate time.Time  `json:"request_date"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	Pet         PetSummary `json:"pet"`
}

// ListingForm son los campos de texto del POST multipart /api/pet-listing.
// Los nombres de campo son los que espera el backend.
type ListingForm struct {
	Name        string
	Species     string
	Age         string
	Description string

	OwnerName  string
	Phone      string
	Email      string // opcional
	Street     string
	City       string
	State      string
	PostalCode string
}

// AdoptionForm es el body JSON de POST /api/adoption-request.
// requester_name/requester_email salen de la sesión, nunca del formulario.
type AdoptionForm struct {
	PetListingID   string `json:"pet_listing_id"`
	RequesterName  string `json:"requester_name"`
	RequesterEmail string `json:"requester_email"`
	Contact        string `json:"contact"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	PostalCode     string `json:"postalCode"`
	HomeType       string `json:"homeType"`
	YardSize       string `json:"yardSize,omitempty"`
	OtherPets      string `json:"otherPets,omitempty"`
	PetExperience  string `json:"petExperience"`
	HoursAlone     string `json:"hoursAlone"`
	AdoptionReason string `json:"adoptionReason"`
}
