package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/Rakshit5467/PetPals/internal/server/store"
)

// Store guarda todo en mapas; sirve para dev y para los tests end-to-end.
type Store struct {
	mu           sync.RWMutex
	usersByEmail map[string]store.User
	listingsByID map[string]store.Listing
}

func New() *Store {
	return &Store{
		usersByEmail: make(map[string]store.User),
		listingsByID: make(map[string]store.Listing),
	}
}

func (s *Store) CreateUser(ctx context.Context, u store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.usersByEmail[key]; exists {
		return store.ErrExists
	}
	s.usersByEmail[key] = u
	return nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.usersByEmail[strings.ToLower(email)]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.User, 0, len(s.usersByEmail))
	for _, u := range s.usersByEmail {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (s *Store) CreateListing(ctx context.Context, l store.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(l.ID) == "" {
		return store.ErrNotFound
	}
	if _, exists := s.listingsByID[l.ID]; exists {
		return store.ErrExists
	}
	s.listingsByID[l.ID] = cloneListing(l)
	return nil
}

func (s *Store) GetListing(ctx context.Context, id string) (store.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, ok := s.listingsByID[id]
	if !ok {
		return store.Listing{}, store.ErrNotFound
	}
	return cloneListing(l), nil
}

func (s *Store) UpdateListing(ctx context.Context, l store.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listingsByID[l.ID]; !ok {
		return store.ErrNotFound
	}
	s.listingsByID[l.ID] = cloneListing(l)
	return nil
}

func (s *Store) DeleteListing(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.listingsByID[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.listingsByID, id)
	return nil
}

func (s *Store) ListPublicListings(ctx context.Context) ([]store.Listing, error) {
	return s.filtered(func(l store.Listing) bool {
		return l.Status == store.ListingAvailable || l.Status == store.ListingPending
	})
}

func (s *Store) ListListingsByOwner(ctx context.Context, email string) ([]store.Listing, error) {
	return s.filtered(func(l store.Listing) bool { return l.Owner == email })
}

func (s *Store) ListAllListings(ctx context.Context) ([]store.Listing, error) {
	return s.filtered(func(store.Listing) bool { return true })
}

func (s *Store) ListListingsWithRequestFrom(ctx context.Context, email string) ([]store.Listing, error) {
	return s.filtered(func(l store.Listing) bool {
		for _, r := range l.Requests {
			if r.RequesterID == email {
				return true
			}
		}
		return false
	})
}

func (s *Store) FindListingByRequest(ctx context.Context, requestID, requesterEmail string) (store.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listingsByID {
		for _, r := range l.Requests {
			if r.ID == requestID && r.RequesterID == requesterEmail {
				return cloneListing(l), nil
			}
		}
	}
	return store.Listing{}, store.ErrNotFound
}

func (s *Store) filtered(keep func(store.Listing) bool) ([]store.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]store.Listing, 0)
	for _, l := range s.listingsByID {
		if keep(l) {
			out = append(out, cloneListing(l))
		}
	}

	// Orden estable por created_at asc (consistencia en dev y tests).
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// cloneListing copia el slice embebido para que los callers no muten el mapa.
func cloneListing(l store.Listing) store.Listing {
	reqs := make([]store.AdoptionRequest, len(l.Requests))
	copy(reqs, l.Requests)
	l.Requests = reqs
	return l
}
