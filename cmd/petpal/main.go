package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/Rakshit5467/PetPals/internal/domain/admin"
	"github.com/Rakshit5467/PetPals/internal/domain/catalog"
	"github.com/Rakshit5467/PetPals/internal/domain/listings"
	"github.com/Rakshit5467/PetPals/internal/domain/requests"
	"github.com/Rakshit5467/PetPals/internal/petpalapi"
	"github.com/Rakshit5467/PetPals/internal/platform/logger"
	"github.com/Rakshit5467/PetPals/internal/session"
)

const usage = `petpal <command> [flags]

Sesión:
  signup        -name -email -password -confirm
  login         -email -password
  logout
  whoami

Catálogo y solicitudes:
  browse
  adopt         -pet -contact -address -city -state -postal -home [-yard] [-other-pets] -experience -hours -reason
  my-requests
  withdraw      -request [-yes]

Mis listings:
  add-listing   -name -species -age -description -image -owner-name -phone [-email] -street -city -state -postal
  my-listings
  delete-listing -id
  approve       -pet -request
  reject        -pet -request

Admin:
  admin users
  admin listings

Env: PETPAL_API_URL (default http://localhost:8080), PETPAL_SESSION_FILE.`

// app agrupa los services por workflow, mismo corte que las vistas de la SPA.
type app struct {
	sess     *session.Service
	store    session.Store
	catalog  *catalog.Service
	listings *listings.Service
	requests *requests.Service
	admin    *admin.Service
}

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	a, err := buildApp()
	if err != nil {
		fatal(err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		fatal(petpalapi.Message(err, err.Error()))
	}
}

func buildApp() (*app, error) {
	baseURL := os.Getenv("PETPAL_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	store, err := session.NewFileStore(sessionPath())
	if err != nil {
		return nil, err
	}

	api, err := petpalapi.NewClient(petpalapi.Config{
		BaseURL: baseURL,
		Auth:    store,
	})
	if err != nil {
		return nil, err
	}

	log := logger.NewFromEnv()

	return &app{
		sess:     session.NewService(api, store, log),
		store:    store,
		catalog:  catalog.NewService(api, log),
		listings: listings.NewService(api, log),
		requests: requests.NewService(api, log),
		admin:    admin.NewService(api, log),
	}, nil
}

func sessionPath() string {
	if p := os.Getenv("PETPAL_SESSION_FILE"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".petpal-session.json"
	}
	return filepath.Join(home, ".petpal", "session.json")
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "signup":
		return a.signup(ctx, args)
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.sess.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return a.whoami()
	case "browse":
		return a.browse(ctx)
	case "adopt":
		return a.adopt(ctx, args)
	case "my-requests":
		return a.myRequests(ctx)
	case "withdraw":
		return a.withdraw(ctx, args)
	case "add-listing":
		return a.addListing(ctx, args)
	case "my-listings":
		return a.myListings(ctx)
	case "delete-listing":
		return a.deleteListing(ctx, args)
	case "approve":
		return a.decide(ctx, args, true)
	case "reject":
		return a.decide(ctx, args, false)
	case "admin":
		return a.adminCmd(ctx, args)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		fmt.Fprintln(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (a *app) signup(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	name := fs.String("name", "", "full name")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password (min 8 chars)")
	confirm := fs.String("confirm", "", "confirm password")
	_ = fs.Parse(args)

	id, err := a.sess.Signup(ctx, session.SignupInput{
		Name:            *name,
		Email:           *email,
		Password:        *password,
		ConfirmPassword: *confirm,
	})
	if err != nil {
		return err
	}
	fmt.Printf("Welcome, %s! Signed in as %s (%s).\n", id.DisplayName(), id.Email, id.Role)
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	id, err := a.sess.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Welcome back, %s! (%s)\n", id.DisplayName(), id.Role)
	return nil
}

func (a *app) whoami() error {
	id := a.sess.Current()
	if !id.Authenticated() {
		fmt.Println("Not logged in.")
		return nil
	}
	fmt.Printf("%s <%s> role=%s\n", id.DisplayName(), id.Email, id.Role)
	return nil
}

func (a *app) browse(ctx context.Context) error {
	cards, err := a.catalog.Browse(ctx, a.sess.Current())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIES\tAGE\tSTATUS\tADOPT")
	for _, c := range cards {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n",
			c.Listing.ID, c.Listing.Name, c.Listing.Species, c.Listing.Age,
			c.Listing.Status, adoptLabel(c))
	}
	return w.Flush()
}

func adoptLabel(c catalog.Card) string {
	switch {
	case c.NeedsLogin:
		return "login required"
	case c.Mine:
		return "yours"
	case c.HasPending:
		return "request pending"
	case c.CanAdopt:
		return "yes"
	default:
		return "no"
	}
}

func (a *app) adopt(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("adopt", flag.ExitOnError)
	pet := fs.String("pet", "", "pet listing id")
	f := requests.Form{}
	fs.StringVar(&f.Contact, "contact", "", "phone")
	fs.StringVar(&f.Address, "address", "", "street address")
	fs.StringVar(&f.City, "city", "", "city")
	fs.StringVar(&f.State, "state", "", "state")
	fs.StringVar(&f.PostalCode, "postal", "", "postal code")
	fs.StringVar(&f.HomeType, "home", "", "home type (house/apartment)")
	fs.StringVar(&f.YardSize, "yard", "", "yard size (optional)")
	fs.StringVar(&f.OtherPets, "other-pets", "", "other pets (optional)")
	fs.StringVar(&f.PetExperience, "experience", "", "previous pet experience")
	fs.StringVar(&f.HoursAlone, "hours", "", "hours the pet would be alone")
	fs.StringVar(&f.AdoptionReason, "reason", "", "why you want to adopt")
	_ = fs.Parse(args)

	msg, err := a.requests.Submit(ctx, a.sess.Current(), *pet, f)
	if err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func (a *app) myRequests(ctx context.Context) error {
	reqs, err := a.requests.Mine(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REQUEST\tPET\tSTATUS\tDATE\tOWNER CONTACT")
	for _, r := range reqs {
		contact := "-"
		// El contacto del dueño se muestra solo cuando la adopción fue aprobada.
		if r.Status == petpalapi.RequestApproved {
			contact = fmt.Sprintf("%s %s", r.Pet.OwnerContact.Name, r.Pet.OwnerContact.Phone)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.RequestID, r.Pet.Name, r.Status, r.RequestDate.Format("2006-01-02"), contact)
	}
	return w.Flush()
}

func (a *app) withdraw(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("withdraw", flag.ExitOnError)
	request := fs.String("request", "", "request id")
	yes := fs.Bool("yes", false, "skip confirmation")
	_ = fs.Parse(args)

	if !*yes && !confirm("Withdraw this adoption request?") {
		fmt.Println("Cancelled.")
		return nil
	}

	current, err := a.requests.Mine(ctx)
	if err != nil {
		return err
	}
	if _, err := a.requests.Withdraw(ctx, current, *request); err != nil {
		if errors.Is(err, requests.ErrNotPending) {
			return errors.New("only pending requests can be withdrawn")
		}
		return err
	}
	fmt.Println("Request withdrawn.")
	return nil
}

func (a *app) addListing(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-listing", flag.ExitOnError)
	form := petpalapi.ListingForm{}
	fs.StringVar(&form.Name, "name", "", "pet name")
	fs.StringVar(&form.Species, "species", "", "species")
	fs.StringVar(&form.Age, "age", "", "age in years")
	fs.StringVar(&form.Description, "description", "", "description")
	fs.StringVar(&form.OwnerName, "owner-name", "", "owner contact name")
	fs.StringVar(&form.Phone, "phone", "", "owner phone (10 digits)")
	fs.StringVar(&form.Email, "email", "", "owner email (optional)")
	fs.StringVar(&form.Street, "street", "", "street")
	fs.StringVar(&form.City, "city", "", "city")
	fs.StringVar(&form.State, "state", "", "state")
	fs.StringVar(&form.PostalCode, "postal", "", "postal code")
	imagePath := fs.String("image", "", "path to the pet image")
	_ = fs.Parse(args)

	var upload *listings.Upload
	if *imagePath != "" {
		f, err := os.Open(*imagePath)
		if err != nil {
			return err
		}
		defer f.Close()
		upload = &listings.Upload{Name: filepath.Base(*imagePath), Content: f}
	}

	created, err := a.listings.Create(ctx, form, upload)
	if err != nil {
		return err
	}
	fmt.Printf("Pet listing created: %s (%s)\n", created.Name, created.ID)
	return nil
}

func (a *app) myListings(ctx context.Context) error {
	mine, err := a.listings.Mine(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tREQUESTS")
	for _, l := range mine {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", l.ID, l.Name, l.Status, len(l.Requests))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, l := range mine {
		for _, r := range l.Requests {
			fmt.Printf("  %s: %s <%s> %s [%s]\n", l.Name, r.RequesterName, r.RequesterID, r.ContactInfo.Phone, r.Status)
			fmt.Printf("    request=%s reason=%q\n", r.ID, r.Reason)
		}
	}
	return nil
}

func (a *app) deleteListing(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete-listing", flag.ExitOnError)
	id := fs.String("id", "", "listing id")
	_ = fs.Parse(args)

	current, err := a.listings.Mine(ctx)
	if err != nil {
		return err
	}
	if _, err := a.listings.Delete(ctx, current, *id); err != nil {
		return err
	}
	fmt.Println("Pet listing deleted.")
	return nil
}

func (a *app) decide(ctx context.Context, args []string, approve bool) error {
	name := "reject"
	if approve {
		name = "approve"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	pet := fs.String("pet", "", "pet listing id")
	request := fs.String("request", "", "request id")
	_ = fs.Parse(args)

	current, err := a.listings.Mine(ctx)
	if err != nil {
		return err
	}

	if approve {
		_, err = a.listings.Approve(ctx, current, *pet, *request)
	} else {
		_, err = a.listings.Reject(ctx, current, *pet, *request)
	}
	if err != nil {
		return err
	}
	fmt.Printf("Request %sd.\n", name)
	return nil
}

func (a *app) adminCmd(ctx context.Context, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: petpal admin <users|listings>")
	}

	viewer := a.sess.Current()
	switch args[0] {
	case "users":
		users, err := a.admin.Users(ctx, viewer)
		if err != nil {
			return adminErr(err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, u.Role)
		}
		return w.Flush()
	case "listings":
		all, err := a.admin.Listings(ctx, viewer)
		if err != nil {
			return adminErr(err)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tOWNER\tSTATUS\tREQUESTS")
		for _, l := range all {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", l.ID, l.Name, l.Owner, l.Status, len(l.Requests))
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown admin view %q", args[0])
	}
}

func adminErr(err error) error {
	if errors.Is(err, admin.ErrNotAdmin) {
		return errors.New("admin role required")
	}
	return err
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, "Error:", msg)
	os.Exit(1)
}
