package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Rakshit5467/PetPals/internal/server/store"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestCreateUser_ConflictReturnsErrExists(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("INSERT INTO users").
		WithArgs("u1", "Alice", "alice@example.com", "hash", "user").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.CreateUser(context.Background(), store.User{
		ID: "u1", Name: "Alice", Email: "alice@example.com", PasswordHash: "hash", Role: "user",
	})
	if !errors.Is(err, store.ErrExists) {
		t.Fatalf("expected ErrExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestFindUserByEmail_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("SELECT id, name, email, password, role").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password", "role"}))

	_, err := s.FindUserByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func listingRow(t *testing.T, l store.Listing) *sqlmock.Rows {
	t.Helper()

	contact, err := json.Marshal(l.OwnerContact)
	if err != nil {
		t.Fatalf("marshal contact: %v", err)
	}
	reqs := l.Requests
	if reqs == nil {
		reqs = []store.AdoptionRequest{}
	}
	requests, err := json.Marshal(reqs)
	if err != nil {
		t.Fatalf("marshal requests: %v", err)
	}

	return sqlmock.NewRows([]string{
		"id", "name", "species", "age", "description", "image",
		"owner", "owner_contact", "status", "adoption_requests", "created_at",
	}).AddRow(
		l.ID, l.Name, l.Species, l.Age, l.Description, l.Image,
		l.Owner, contact, l.Status, requests, l.CreatedAt,
	)
}

func TestGetListing_DecodesEmbeddedDocs(t *testing.T) {
	s, mock := newMock(t)

	want := store.Listing{
		ID: "p1", Name: "Bella", Species: "Dog", Age: 3,
		Description: "Friendly", Image: "/uploads/bella.png",
		Owner: "olivia@example.com",
		OwnerContact: store.OwnerContact{
			Name: "Olivia", Phone: "5551234567",
			Address: store.Address{Street: "1 Main St", City: "Town", State: "ST", PostalCode: "12345"},
		},
		Status: store.ListingPending,
		Requests: []store.AdoptionRequest{
			{ID: "r1", RequesterID: "adam@example.com", Status: store.RequestPending},
		},
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	mock.ExpectQuery("FROM pet_listings").
		WithArgs("p1").
		WillReturnRows(listingRow(t, want))

	got, err := s.GetListing(context.Background(), "p1")
	if err != nil {
		t.Fatalf("get listing: %v", err)
	}
	if got.OwnerContact.Phone != "5551234567" {
		t.Fatalf("owner_contact not decoded: %+v", got.OwnerContact)
	}
	if len(got.Requests) != 1 || got.Requests[0].RequesterID != "adam@example.com" {
		t.Fatalf("adoption_requests not decoded: %+v", got.Requests)
	}
}

func TestUpdateListing_MissingRowReturnsErrNotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("UPDATE pet_listings").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.UpdateListing(context.Background(), store.Listing{ID: "ghost"})
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListListingsWithRequestFrom_UsesContainmentMatch(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("adoption_requests @>").
		WithArgs(`[{"requester_id":"adam@example.com"}]`).
		WillReturnRows(listingRow(t, store.Listing{
			ID: "p1", Status: store.ListingPending,
			Requests: []store.AdoptionRequest{{ID: "r1", RequesterID: "adam@example.com"}},
		}))

	out, err := s.ListListingsWithRequestFrom(context.Background(), "adam@example.com")
	if err != nil {
		t.Fatalf("list with request: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p1" {
		t.Fatalf("unexpected result %+v", out)
	}
}

func TestFindListingByRequest_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("adoption_requests @>").
		WithArgs(`[{"_id":"r-ghost","requester_id":"adam@example.com"}]`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "name", "species", "age", "description", "image",
			"owner", "owner_contact", "status", "adoption_requests", "created_at",
		}))

	_, err := s.FindListingByRequest(context.Background(), "r-ghost", "adam@example.com")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
