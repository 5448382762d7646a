package petpalapi

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Rakshit5467/PetPals/internal/platform/httpclient"
)

// Client es el cliente tipado del backend PetPal. Cada método mapea 1:1 a un
// endpoint; el token sale del TokenSource en cada request, así el mismo
// client sirve antes y después del login.
type Client struct {
	hc *httpclient.Client
}

type Config struct {
	BaseURL string
	Auth    httpclient.TokenSource

	// Timeout HTTP; si <= 0, usa el default del httpclient.
	Timeout time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}
	hc.Auth = cfg.Auth
	return &Client{hc: hc}, nil
}

// --- Auth ---

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.hc.DoJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return AuthResponse{}, wrapErr(err)
	}
	return out, nil
}

func (c *Client) Signup(ctx context.Context, name, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.hc.DoJSON(ctx, http.MethodPost, "/api/signup", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return AuthResponse{}, wrapErr(err)
	}
	return out, nil
}

// Me devuelve la identidad embebida en el token, según el servidor.
func (c *Client) Me(ctx context.Context) (User, error) {
	var out User
	if err := c.hc.DoJSON(ctx, http.MethodGet, "/api/me", nil, &out); err != nil {
		return User{}, wrapErr(err)
	}
	return out, nil
}

// --- Listings ---

// ListListings es público: devuelve los listings Available y Pending.
func (c *Client) ListListings(ctx context.Context) ([]Listing, error) {
	var out []Listing
	if err := c.hc.DoJSON(ctx, http.MethodGet, "/api/pet-listings", nil, &out); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

func (c *Client) MyListings(ctx context.Context) ([]Listing, error) {
	var out []Listing
	if err := c.hc.DoJSON(ctx, http.MethodGet, "/api/my-pet-listings", nil, &out); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

type createListingResponse struct {
	Message string  `json:"message"`
	Listing Listing `json:"listing"`
}

// CreateListing manda el multipart con los campos del formulario + la imagen.
func (c *Client) CreateListing(ctx context.Context, form ListingForm, imageName string, image io.Reader) (Listing, error) {
	fields := map[string]string{
		"name":        form.Name,
		"species":     form.Species,
		"age":         form.Age,
		"description": form.Description,
		"ownerName":   form.OwnerName,
		"phone":       form.Phone,
		"email":       form.Email,
		"street":      form.Street,
		"city":        form.City,
		"state":       form.State,
		"postalCode":  form.PostalCode,
	}

	var out createListingResponse
	err := c.hc.DoMultipart(ctx, http.MethodPost, "/api/pet-listing", fields, &httpclient.FilePart{
		Field:    "image",
		Filename: imageName,
		Content:  image,
	}, &out)
	if err != nil {
		return Listing{}, wrapErr(err)
	}
	return out.Listing, nil
}

func (c *Client) DeleteListing(ctx context.Context, id string) error {
	err := c.hc.DoJSON(ctx, http.MethodDelete, "/api/pet-listing/"+url.PathEscape(id), nil, nil)
	return wrapErr(err)
}

// SetListingStatus es el PATCH de status que la UI usa al aprobar/rechazar.
func (c *Client) SetListingStatus(ctx context.Context, id, status string) error {
	err := c.hc.DoJSON(ctx, http.MethodPatch, "/api/pet-listing/"+url.PathEscape(id), map[string]string{
		"status": status,
	}, nil)
	return wrapErr(err)
}

// --- Adoption requests ---

type submitResponse struct {
	Message string `json:"message"`
}

// SubmitRequest envía la solicitud de adopción y devuelve el mensaje del servidor.
func (c *Client) SubmitRequest(ctx context.Context, form AdoptionForm) (string, error) {
	var out submitResponse
	if err := c.hc.DoJSON(ctx, http.MethodPost, "/api/adoption-request", form, &out); err != nil {
		return "", wrapErr(err)
	}
	return out.Message, nil
}

func (c *Client) MyRequests(ctx context.Context) ([]MyRequest, error) {
	var out []MyRequest
	if err := c.hc.DoJSON(ctx, http.MethodGet, "/api/my-adoption-requests", nil, &out); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

func (c *Client) WithdrawRequest(ctx context.Context, requestID string) error {
	err := c.hc.DoJSON(ctx, http.MethodDelete, "/api/adoption-request/"+url.PathEscape(requestID), nil, nil)
	return wrapErr(err)
}

// SetRequestStatus cambia el estado de una solicitud (Approved/Rejected);
// solo el dueño del listing puede hacerlo.
func (c *Client) SetRequestStatus(ctx context.Context, petID, requestID, status string) error {
	path := "/api/adoption-request/" + url.PathEscape(petID) + "/" + url.PathEscape(requestID)
	err := c.hc.DoJSON(ctx, http.MethodPut, path, map[string]string{
		"status": status,
	}, nil)
	return wrapErr(err)
}

// --- Admin ---

func (c *Client) AdminUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.hc.DoJSON(ctx, http.MethodGet, "/api/admin/users", nil, &out); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}

func (c *Client) AdminListings(ctx context.Context) ([]Listing, error) {
	var out []Listing
	if err := c.hc.DoJSON(ctx, http.MethodGet, "/api/admin/pet-listings", nil, &out); err != nil {
		return nil, wrapErr(err)
	}
	return out, nil
}
