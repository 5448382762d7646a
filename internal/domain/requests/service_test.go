package requests

import (
	"context"
	"errors"
	"testing"

	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/forms"
	"github.com/Rakshit5467/PetPals/internal/session"
)

type fakeAPI struct {
	submitted  []petpalapi.AdoptionForm
	withdrawn  []string
	myRequests []petpalapi.MyRequest
}

func (f *fakeAPI) SubmitRequest(_ context.Context, form petpalapi.AdoptionForm) (string, error) {
	f.submitted = append(f.submitted, form)
	return "Adoption request submitted!", nil
}

func (f *fakeAPI) MyRequests(context.Context) ([]petpalapi.MyRequest, error) {
	return f.myRequests, nil
}

func (f *fakeAPI) WithdrawRequest(_ context.Context, id string) error {
	f.withdrawn = append(f.withdrawn, id)
	return nil
}

func viewer() session.Identity {
	return session.Identity{Role: session.RoleUser, Name: "Adam", Email: "adam@example.com"}
}

func validFormInput() Form {
	return Form{
		Contact: "5559998888", Address: "9 Oak Ave", City: "Town", State: "ST",
		PostalCode: "12345", HomeType: "house", PetExperience: "some",
		HoursAlone: "4", AdoptionReason: "companionship",
	}
}

func TestSubmit_IdentityComesFromSession(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	msg, err := svc.Submit(context.Background(), viewer(), "p1", validFormInput())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if msg != "Adoption request submitted!" {
		t.Fatalf("unexpected message %q", msg)
	}

	sent := api.submitted[0]
	if sent.RequesterName != "Adam" || sent.RequesterEmail != "adam@example.com" {
		t.Fatalf("expected identity from session, got %+v", sent)
	}
	if sent.PetListingID != "p1" {
		t.Fatalf("expected pet id p1, got %q", sent.PetListingID)
	}
}

func TestSubmit_GuestRejectedLocally(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	_, err := svc.Submit(context.Background(), session.Guest(), "p1", validFormInput())
	if err == nil || !forms.IsValidation(err) {
		t.Fatalf("expected validation error for guest, got %v", err)
	}
	if len(api.submitted) != 0 {
		t.Fatal("expected no network call for guest")
	}
}

func TestSubmit_RequiredFields(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	f := validFormInput()
	f.AdoptionReason = ""
	if _, err := svc.Submit(context.Background(), viewer(), "p1", f); err == nil {
		t.Fatal("expected missing reason to fail")
	}

	// Yard y otras mascotas son opcionales
	f = validFormInput()
	f.YardSize = ""
	f.OtherPets = ""
	if _, err := svc.Submit(context.Background(), viewer(), "p1", f); err != nil {
		t.Fatalf("optional fields should not block: %v", err)
	}
}

func TestWithdraw_OnlyPending(t *testing.T) {
	api := &fakeAPI{}
	svc := NewService(api, nil)

	current := []petpalapi.MyRequest{
		{RequestID: "r1", Status: petpalapi.RequestPending},
		{RequestID: "r2", Status: petpalapi.RequestApproved},
	}

	out, err := svc.Withdraw(context.Background(), current, "r1")
	if err != nil {
		t.Fatalf("withdraw pending: %v", err)
	}
	if len(out) != 1 || out[0].RequestID != "r2" {
		t.Fatalf("expected r1 removed, got %+v", out)
	}

	if _, err := svc.Withdraw(context.Background(), current, "r2"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending for approved request, got %v", err)
	}
	if _, err := svc.Withdraw(context.Background(), current, "missing"); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending for unknown request, got %v", err)
	}
	if len(api.withdrawn) != 1 {
		t.Fatalf("expected exactly one withdraw call, got %v", api.withdrawn)
	}
}
