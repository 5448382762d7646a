package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/Rakshit5467/PetPals/internal/server/store"
)

// Open abre una conexión pool a Postgres usando pgx (database/sql).
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	// defaults razonables (ajustable luego)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate crea el esquema si no existe. Los documentos embebidos
// (owner_contact, adoption_requests) van como JSONB, espejo del modelo
// original.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id       TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			email    TEXT NOT NULL UNIQUE,
			password TEXT NOT NULL,
			role     TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS pet_listings (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL,
			species           TEXT NOT NULL,
			age               INT NOT NULL,
			description       TEXT NOT NULL,
			image             TEXT NOT NULL,
			owner             TEXT NOT NULL,
			owner_contact     JSONB NOT NULL,
			status            TEXT NOT NULL,
			adoption_requests JSONB NOT NULL DEFAULT '[]',
			created_at        TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (s *Store) CreateUser(ctx context.Context, u store.User) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, role)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (email) DO NOTHING
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrExists
	}
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (store.User, error) {
	var u store.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role
		FROM users
		WHERE lower(email) = lower($1)
	`, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return store.User{}, store.ErrNotFound
	}
	if err != nil {
		return store.User{}, err
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]store.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, password, role
		FROM users
		ORDER BY email
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.User, 0)
	for rows.Next() {
		var u store.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) CreateListing(ctx context.Context, l store.Listing) error {
	contact, requests, err := marshalDocs(l)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO pet_listings (
			id, name, species, age, description, image,
			owner, owner_contact, status, adoption_requests, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		l.ID, l.Name, l.Species, l.Age, l.Description, l.Image,
		l.Owner, contact, l.Status, requests, l.CreatedAt,
	)
	return err
}

func (s *Store) GetListing(ctx context.Context, id string) (store.Listing, error) {
	row := s.db.QueryRowContext(ctx, listingSelect+` WHERE id = $1`, id)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Listing{}, store.ErrNotFound
	}
	return l, err
}

func (s *Store) UpdateListing(ctx context.Context, l store.Listing) error {
	contact, requests, err := marshalDocs(l)
	if err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE pet_listings
		SET
			name = $2,
			species = $3,
			age = $4,
			description = $5,
			image = $6,
			owner = $7,
			owner_contact = $8,
			status = $9,
			adoption_requests = $10
		WHERE id = $1
	`,
		l.ID, l.Name, l.Species, l.Age, l.Description, l.Image,
		l.Owner, contact, l.Status, requests,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteListing(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM pet_listings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) ListPublicListings(ctx context.Context) ([]store.Listing, error) {
	return s.queryListings(ctx, listingSelect+`
		WHERE status IN ($1, $2)
		ORDER BY created_at, id
	`, store.ListingAvailable, store.ListingPending)
}

func (s *Store) ListListingsByOwner(ctx context.Context, email string) ([]store.Listing, error) {
	return s.queryListings(ctx, listingSelect+`
		WHERE owner = $1
		ORDER BY created_at, id
	`, email)
}

func (s *Store) ListAllListings(ctx context.Context) ([]store.Listing, error) {
	return s.queryListings(ctx, listingSelect+` ORDER BY created_at, id`)
}

func (s *Store) ListListingsWithRequestFrom(ctx context.Context, email string) ([]store.Listing, error) {
	// Containment JSONB sobre el array embebido.
	match, err := json.Marshal([]map[string]string{{"requester_id": email}})
	if err != nil {
		return nil, err
	}
	return s.queryListings(ctx, listingSelect+`
		WHERE adoption_requests @> $1
		ORDER BY created_at, id
	`, string(match))
}

func (s *Store) FindListingByRequest(ctx context.Context, requestID, requesterEmail string) (store.Listing, error) {
	match, err := json.Marshal([]map[string]string{{
		"_id":          requestID,
		"requester_id": requesterEmail,
	}})
	if err != nil {
		return store.Listing{}, err
	}

	row := s.db.QueryRowContext(ctx, listingSelect+` WHERE adoption_requests @> $1`, string(match))
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Listing{}, store.ErrNotFound
	}
	return l, err
}

const listingSelect = `
	SELECT id, name, species, age, description, image,
	       owner, owner_contact, status, adoption_requests, created_at
	FROM pet_listings`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (store.Listing, error) {
	var (
		l        store.Listing
		contact  []byte
		requests []byte
	)
	err := row.Scan(
		&l.ID, &l.Name, &l.Species, &l.Age, &l.Description, &l.Image,
		&l.Owner, &contact, &l.Status, &requests, &l.CreatedAt,
	)
	if err != nil {
		return store.Listing{}, err
	}

	if err := json.Unmarshal(contact, &l.OwnerContact); err != nil {
		return store.Listing{}, fmt.Errorf("decode owner_contact: %w", err)
	}
	if err := json.Unmarshal(requests, &l.Requests); err != nil {
		return store.Listing{}, fmt.Errorf("decode adoption_requests: %w", err)
	}
	return l, nil
}

func (s *Store) queryListings(ctx context.Context, query string, args ...any) ([]store.Listing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]store.Listing, 0)
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func marshalDocs(l store.Listing) (contact, requests []byte, err error) {
	contact, err = json.Marshal(l.OwnerContact)
	if err != nil {
		return nil, nil, fmt.Errorf("encode owner_contact: %w", err)
	}
	if l.Requests == nil {
		l.Requests = []store.AdoptionRequest{}
	}
	requests, err = json.Marshal(l.Requests)
	if err != nil {
		return nil, nil, fmt.Errorf("encode adoption_requests: %w", err)
	}
	return contact, requests, nil
}
