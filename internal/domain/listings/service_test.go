package listings

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/forms"
)

// fakeAPI graba cada llamada en orden: lo que importa acá es la secuencia
// exacta de la orquestación, no los payloads.
type fakeAPI struct {
	calls    []string
	fetched  []petpalapi.Listing
	failCall string
}

func (f *fakeAPI) record(call string) error {
	f.calls = append(f.calls, call)
	if f.failCall == call {
		return fmt.Errorf("forced failure on %s", call)
	}
	return nil
}

func (f *fakeAPI) CreateListing(_ context.Context, form petpalapi.ListingForm, _ string, _ io.Reader) (petpalapi.Listing, error) {
	if err := f.record("create"); err != nil {
		return petpalapi.Listing{}, err
	}
	return petpalapi.Listing{ID: "new-id", Name: form.Name}, nil
}

func (f *fakeAPI) DeleteListing(_ context.Context, id string) error {
	return f.record("delete " + id)
}

func (f *fakeAPI) MyListings(context.Context) ([]petpalapi.Listing, error) {
	if err := f.record("fetch"); err != nil {
		return nil, err
	}
	return f.fetched, nil
}

func (f *fakeAPI) SetListingStatus(_ context.Context, id, status string) error {
	return f.record(fmt.Sprintf("listing %s=%s", id, status))
}

func (f *fakeAPI) SetRequestStatus(_ context.Context, petID, requestID, status string) error {
	return f.record(fmt.Sprintf("request %s/%s=%s", petID, requestID, status))
}

func validForm() petpalapi.ListingForm {
	return petpalapi.ListingForm{
		Name: "Bella", Species: "Dog", Age: "3", Description: "Friendly",
		OwnerName: "Olivia", Phone: "5551234567",
		Street: "1 Main St", City: "Town", State: "ST", PostalCode: "12345",
	}
}

func upload() *Upload {
	return &Upload{Name: "bella.png", Content: strings.NewReader("png")}
}

func TestCreate_ValidatesBeforeAnyCall(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*petpalapi.ListingForm)
		image   *Upload
		wantMsg string
	}{
		{
			name:    "missing field",
			mutate:  func(f *petpalapi.ListingForm) { f.City = "" },
			image:   upload(),
			wantMsg: "All fields are required",
		},
		{
			name:    "no image",
			mutate:  func(*petpalapi.ListingForm) {},
			image:   nil,
			wantMsg: "All fields are required",
		},
		{
			name:    "phone too short",
			mutate:  func(f *petpalapi.ListingForm) { f.Phone = "555123456" },
			image:   upload(),
			wantMsg: "Phone number must be 10 digits",
		},
		{
			name:    "phone too long",
			mutate:  func(f *petpalapi.ListingForm) { f.Phone = "55512345678" },
			image:   upload(),
			wantMsg: "Phone number must be 10 digits",
		},
		{
			name:    "phone with letters",
			mutate:  func(f *petpalapi.ListingForm) { f.Phone = "55512345ab" },
			image:   upload(),
			wantMsg: "Phone number must be 10 digits",
		},
		{
			name:    "age zero",
			mutate:  func(f *petpalapi.ListingForm) { f.Age = "0" },
			image:   upload(),
			wantMsg: "Age must be a positive integer",
		},
		{
			name:    "age not a number",
			mutate:  func(f *petpalapi.ListingForm) { f.Age = "three" },
			image:   upload(),
			wantMsg: "Age must be a positive integer",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc := NewService(api, nil)

			form := validForm()
			tc.mutate(&form)

			_, err := svc.Create(context.Background(), form, tc.image)
			if err == nil || err.Error() != tc.wantMsg {
				t.Fatalf("expected %q, got %v", tc.wantMsg, err)
			}
			if !forms.IsValidation(err) {
				t.Fatalf("expected validation error, got %T", err)
			}
			if len(api.calls) != 0 {
				t.Fatalf("expected no API calls, got %v", api.calls)
			}
		})
	}
}

func TestCreate_ValidFormCallsAPI(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	created, err := svc.Create(context.Background(), validForm(), upload())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "new-id" {
		t.Fatalf("unexpected created listing %+v", created)
	}
}

func snapshot(petID string, reqs ...petpalapi.AdoptionRequest) []petpalapi.Listing {
	return []petpalapi.Listing{{ID: petID, Requests: reqs}}
}

func req(id, status string) petpalapi.AdoptionRequest {
	return petpalapi.AdoptionRequest{ID: id, Status: status}
}

func TestApprove_CallSequence(t *testing.T) {
	cases := []struct {
		name      string
		snapshot  []petpalapi.Listing
		wantCalls []string
	}{
		{
			name:     "no siblings",
			snapshot: snapshot("p1", req("r1", petpalapi.RequestPending)),
			wantCalls: []string{
				"request p1/r1=Approved",
				"listing p1=Adopted",
				"fetch",
			},
		},
		{
			name: "two pending siblings rejected in order",
			snapshot: snapshot("p1",
				req("r1", petpalapi.RequestPending),
				req("r2", petpalapi.RequestPending),
				req("r3", petpalapi.RequestPending),
			),
			wantCalls: []string{
				"request p1/r1=Approved",
				"listing p1=Adopted",
				"request p1/r2=Rejected",
				"request p1/r3=Rejected",
				"fetch",
			},
		},
		{
			name: "already rejected sibling untouched",
			snapshot: snapshot("p1",
				req("r1", petpalapi.RequestPending),
				req("r2", petpalapi.RequestRejected),
			),
			wantCalls: []string{
				"request p1/r1=Approved",
				"listing p1=Adopted",
				"fetch",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc := NewService(api, nil)

			if _, err := svc.Approve(context.Background(), tc.snapshot, "p1", "r1"); err != nil {
				t.Fatalf("approve: %v", err)
			}
			assertCalls(t, api.calls, tc.wantCalls)
		})
	}
}

func TestApprove_StopsOnFailure(t *testing.T) {
	api := &fakeAPI{failCall: "listing p1=Adopted"}
	svc := NewService(api, nil)

	current := snapshot("p1", req("r1", petpalapi.RequestPending), req("r2", petpalapi.RequestPending))
	got, err := svc.Approve(context.Background(), current, "p1", "r1")
	if err == nil {
		t.Fatal("expected approve to fail")
	}
	// El snapshot original se devuelve intacto y no se rechazan siblings.
	if len(got) != 1 || len(got[0].Requests) != 2 {
		t.Fatalf("expected original snapshot back, got %+v", got)
	}
	assertCalls(t, api.calls, []string{"request p1/r1=Approved", "listing p1=Adopted"})
}

func TestReject_RevertsOnlyWhenNoOtherPending(t *testing.T) {
	cases := []struct {
		name      string
		snapshot  []petpalapi.Listing
		wantCalls []string
	}{
		{
			name:     "last pending reverts to Available",
			snapshot: snapshot("p1", req("r1", petpalapi.RequestPending)),
			wantCalls: []string{
				"request p1/r1=Rejected",
				"listing p1=Available",
				"fetch",
			},
		},
		{
			name: "other pending keeps status",
			snapshot: snapshot("p1",
				req("r1", petpalapi.RequestPending),
				req("r2", petpalapi.RequestPending),
			),
			wantCalls: []string{
				"request p1/r1=Rejected",
				"fetch",
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{}
			svc := NewService(api, nil)

			if _, err := svc.Reject(context.Background(), tc.snapshot, "p1", "r1"); err != nil {
				t.Fatalf("reject: %v", err)
			}
			assertCalls(t, api.calls, tc.wantCalls)
		})
	}
}

// La decisión de revertir usa el snapshot con el que se entró, aunque esté
// desactualizado: si localmente figura otra Pending, no se toca el status.
func TestReject_StaleSnapshotSkipsReversion(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	stale := snapshot("p1",
		req("r1", petpalapi.RequestPending),
		req("r2", petpalapi.RequestPending), // ya no existe del lado del server
	)
	if _, err := svc.Reject(context.Background(), stale, "p1", "r1"); err != nil {
		t.Fatalf("reject: %v", err)
	}
	assertCalls(t, api.calls, []string{"request p1/r1=Rejected", "fetch"})
}

func TestDelete_FiltersLocalCopy(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	current := []petpalapi.Listing{{ID: "p1"}, {ID: "p2"}}
	out, err := svc.Delete(context.Background(), current, "p1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(out) != 1 || out[0].ID != "p2" {
		t.Fatalf("expected only p2 left, got %+v", out)
	}
	assertCalls(t, api.calls, []string{"delete p1"})
}

func assertCalls(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("call count mismatch: got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d: got %q, want %q (all: %v)", i, got[i], want[i], got)
		}
	}
}
