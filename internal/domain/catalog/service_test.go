package catalog

import (
	"context"
	"testing"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/session"
)

type fakeAPI struct {
	listings []petpalapi.Listing
	err      error
}

func (f *fakeAPI) ListListings(context.Context) ([]petpalapi.Listing, error) {
	return f.listings, f.err
}

func listing(id, owner string, reqs ...petpalapi.AdoptionRequest) petpalapi.Listing {
	return petpalapi.Listing{ID: id, Owner: owner, Status: petpalapi.ListingAvailable, Requests: reqs}
}

func pendingFrom(email string) petpalapi.AdoptionRequest {
	return petpalapi.AdoptionRequest{ID: "r-" + email, RequesterID: email, Status: petpalapi.RequestPending}
}

func TestBrowse_Eligibility(t *testing.T) {
	viewer := session.Identity{Role: session.RoleUser, Email: "me@example.com"}

	cases := []struct {
		name     string
		viewer   session.Identity
		listing  petpalapi.Listing
		wantCard Card
	}{
		{
			name:     "guest needs login",
			viewer:   session.Guest(),
			listing:  listing("p1", "other@example.com"),
			wantCard: Card{NeedsLogin: true},
		},
		{
			name:     "own listing",
			viewer:   viewer,
			listing:  listing("p1", "me@example.com"),
			wantCard: Card{Mine: true},
		},
		{
			name:     "already pending",
			viewer:   viewer,
			listing:  listing("p1", "other@example.com", pendingFrom("me@example.com")),
			wantCard: Card{HasPending: true},
		},
		{
			name:     "someone else pending still adoptable",
			viewer:   viewer,
			listing:  listing("p1", "other@example.com", pendingFrom("third@example.com")),
			wantCard: Card{CanAdopt: true},
		},
		{
			name: "rejected before does not block",
			viewer: viewer,
			listing: listing("p1", "other@example.com", petpalapi.AdoptionRequest{
				ID: "r1", RequesterID: "me@example.com", Status: petpalapi.RequestRejected,
			}),
			wantCard: Card{CanAdopt: true},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewService(&fakeAPI{listings: []petpalapi.Listing{tc.listing}}, nil)

			cards, err := svc.Browse(context.Background(), tc.viewer)
			if err != nil {
				t.Fatalf("browse: %v", err)
			}
			if len(cards) != 1 {
				t.Fatalf("expected 1 card, got %d", len(cards))
			}

			got := cards[0]
			if got.Mine != tc.wantCard.Mine || got.HasPending != tc.wantCard.HasPending ||
				got.CanAdopt != tc.wantCard.CanAdopt || got.NeedsLogin != tc.wantCard.NeedsLogin {
				t.Fatalf("got flags %+v, want %+v", got, tc.wantCard)
			}
		})
	}
}

func TestBrowse_EmptyCatalog(t *testing.T) {
	svc := NewService(&fakeAPI{}, nil)

	cards, err := svc.Browse(context.Background(), session.Guest())
	if err != nil {
		t.Fatalf("browse: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(cards))
	}
}
