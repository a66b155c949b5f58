// tuinuectl is a terminal client for the Tuinue Wasichana donation
// platform. It drives the same API the web frontend uses: session handling,
// role-gated dashboards, credit purchases and donations.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/tuinue-wasichana/go-client/admin"
	"github.com/tuinue-wasichana/go-client/api"
	"github.com/tuinue-wasichana/go-client/auth"
	"github.com/tuinue-wasichana/go-client/charity"
	"github.com/tuinue-wasichana/go-client/guard"
	"github.com/tuinue-wasichana/go-client/internal/config"
	"github.com/tuinue-wasichana/go-client/internal/utils"
	"github.com/tuinue-wasichana/go-client/ledger"
	"github.com/tuinue-wasichana/go-client/session"
	"github.com/tuinue-wasichana/go-client/token"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles the wired components the subcommands share.
type app struct {
	cfg       config.Config
	log       zerolog.Logger
	client    *api.Client
	store     session.Store
	guard     *guard.Guard
	auth      *auth.Service
	directory *charity.Directory
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	client, err := api.New(cfg.BaseURL, api.WithLogger(log), api.WithHTTPClient(newHTTPClient(cfg.HTTPTimeout)))
	if err != nil {
		return err
	}
	store, err := session.NewFileStore(cfg.SessionFile, log)
	if err != nil {
		return err
	}
	validator, err := token.NewValidator(client, token.WithLogger(log))
	if err != nil {
		return err
	}
	accessGuard, err := guard.New(store, validator, guard.WithLogger(log))
	if err != nil {
		return err
	}
	authSvc, err := auth.NewService(client, store, log)
	if err != nil {
		return err
	}
	directory, err := charity.NewDirectory(client)
	if err != nil {
		return err
	}

	a := &app{
		cfg:       cfg,
		log:       log,
		client:    client,
		store:     store,
		guard:     accessGuard,
		auth:      authSvc,
		directory: directory,
	}

	if len(args) == 0 {
		displayAppname(cfg.AppName)
		usage()
		return nil
	}

	ctx := context.Background()

	// A persisted token is checked once per invocation. A token the
	// backend rejects is cleared here, so commands that read the store
	// without activating the guard see the logged-out state.
	accessGuard.CheckSession(ctx)

	command, rest := args[0], args[1:]

	switch command {
	case "login":
		return a.cmdLogin(ctx, rest)
	case "register":
		return a.cmdRegister(ctx, rest)
	case "logout":
		return a.auth.Logout()
	case "whoami":
		return a.cmdWhoami()
	case "charities":
		return a.cmdCharities(ctx)
	case "charity":
		return a.cmdCharityProfile(ctx, rest)
	case "donor":
		return a.cmdDonorDashboard(ctx)
	case "purchase":
		return a.cmdPurchase(ctx, rest)
	case "donate":
		return a.cmdDonate(ctx, rest)
	case "charity-dashboard":
		return a.cmdCharityDashboard(ctx)
	case "add-story":
		return a.cmdAddStory(ctx, rest)
	case "edit-story":
		return a.cmdEditStory(ctx, rest)
	case "admin":
		return a.cmdAdminList(ctx)
	case "review":
		return a.cmdReview(ctx, rest)
	case "reset-request":
		return a.cmdResetRequest(ctx, rest)
	case "reset-confirm":
		return a.cmdResetConfirm(ctx, rest)
	case "help":
		usage()
		return nil
	}
	return fmt.Errorf("unknown command %q (run without arguments for usage)", command)
}

// activate consults the access guard and refuses role-gated commands the
// same way the web client redirects.
func (a *app) activate(ctx context.Context, required session.Role) error {
	act := a.guard.Activate(ctx, required)
	if act.Allowed() {
		return nil
	}
	switch act.State {
	case guard.StateDeniedNoSession:
		return fmt.Errorf("not logged in (would redirect to %s)", act.Redirect)
	case guard.StateDeniedWrongRole:
		return fmt.Errorf("this command needs the %s role, you are %s (would redirect to %s)",
			required, act.Session.Role, act.Redirect)
	}
	return fmt.Errorf("access denied")
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)
	if *email == "" || *password == "" {
		return fmt.Errorf("login requires -email and -password")
	}

	sess, err := a.auth.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s (role %s). Dashboard: %s\n", *email, sess.Role, guard.DashboardFor(sess.Role))
	return nil
}

func (a *app) cmdRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	username := fs.String("username", "", "display name")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	role := fs.String("role", "donor", "donor, charity or admin")
	charityName := fs.String("charity-name", "", "charity name (role=charity)")
	charityDescription := fs.String("charity-description", "", "charity description (role=charity)")
	charityMission := fs.String("charity-mission", "", "mission statement (role=charity)")
	charityLocation := fs.String("charity-location", "", "location (role=charity)")
	fs.Parse(args)
	if *username == "" || *email == "" || *password == "" {
		return fmt.Errorf("register requires -username, -email and -password")
	}

	req := api.RegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
		Role:     *role,
	}
	if *role == string(session.RoleCharity) {
		if *charityName == "" {
			return fmt.Errorf("charity registration requires -charity-name")
		}
		req.Charity = &api.CharityApplication{
			Name:             *charityName,
			Description:      *charityDescription,
			MissionStatement: *charityMission,
			Location:         *charityLocation,
		}
	}

	result, err := a.auth.Register(ctx, req)
	if err != nil {
		return err
	}
	if result.Pending {
		fmt.Println(result.Message)
		return nil
	}
	fmt.Printf("Registered and logged in as %s (role %s)\n", *email, result.Session.Role)
	return nil
}

func (a *app) cmdWhoami() error {
	sess := a.store.Get()
	if !sess.Authenticated() {
		fmt.Println("Not logged in")
		return nil
	}
	fmt.Printf("User %d, role %s", sess.UserID, sess.Role)
	if sess.CharityID != 0 {
		fmt.Printf(", charity %d", sess.CharityID)
	}
	fmt.Println()
	return nil
}

func (a *app) cmdCharities(ctx context.Context) error {
	charities, err := a.directory.List(ctx)
	if err != nil {
		return err
	}
	for _, c := range charities {
		fmt.Printf("%4d  %-30s %s\n", c.ID, c.Name, c.Location)
	}
	return nil
}

func (a *app) cmdCharityProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("charity", flag.ExitOnError)
	id := fs.Int64("id", 0, "charity id")
	fs.Parse(args)
	if *id == 0 {
		return fmt.Errorf("charity requires -id")
	}

	profile, err := a.directory.Profile(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("%s (%s)\n%s\n", profile.Name, profile.Location, profile.Description)
	if profile.MissionStatement != "" {
		fmt.Printf("Mission: %s\n", profile.MissionStatement)
	}
	if site := utils.Value(profile.Website); site != "" {
		fmt.Printf("Website: %s\n", site)
	}
	for _, story := range profile.Stories {
		fmt.Printf("  * %s (%s)\n", story.Title, story.Date.Format("2006-01-02"))
	}
	return nil
}

func (a *app) newLedger() (*ledger.Client, error) {
	return ledger.NewClient(a.client, a.store, ledger.WithLogger(a.log))
}

func (a *app) cmdDonorDashboard(ctx context.Context) error {
	if err := a.activate(ctx, session.RoleDonor); err != nil {
		return err
	}
	lc, err := a.newLedger()
	if err != nil {
		return err
	}

	result := lc.Refresh(ctx)
	for _, err := range result.Errs() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	fmt.Printf("Credits: %d\n\nDonations:\n", lc.Balance())
	for _, d := range lc.Donations() {
		name := d.CharityName
		if d.IsAnonymous {
			name += " (anonymous)"
		}
		fmt.Printf("  %s  %-30s %6d\n", d.Date.Format("2006-01-02"), name, d.Amount)
	}
	fmt.Println("\nCredit purchases:")
	for _, t := range lc.CreditHistory() {
		fmt.Printf("  %s  %6d\n", t.Date.Format("2006-01-02"), t.Amount)
	}
	return nil
}

func (a *app) cmdPurchase(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("purchase", flag.ExitOnError)
	amount := fs.Int64("amount", 0, "credits to purchase")
	fs.Parse(args)

	if err := a.activate(ctx, session.RoleDonor); err != nil {
		return err
	}
	lc, err := a.newLedger()
	if err != nil {
		return err
	}
	resp, err := lc.Purchase(ctx, *amount)
	if err != nil {
		return err
	}
	fmt.Printf("%s. New balance: %d\n", orDefault(resp.Message, "Credits purchased"), resp.NewBalance)
	return nil
}

func (a *app) cmdDonate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("donate", flag.ExitOnError)
	charityID := fs.Int64("charity", 0, "charity id")
	amount := fs.Int64("amount", 0, "credits to donate")
	anonymous := fs.Bool("anonymous", false, "hide donor identity from the charity")
	recurring := fs.Bool("recurring", false, "repeat this donation")
	frequency := fs.String("frequency", "", "recurrence frequency (default monthly)")
	fs.Parse(args)

	if err := a.activate(ctx, session.RoleDonor); err != nil {
		return err
	}
	lc, err := a.newLedger()
	if err != nil {
		return err
	}
	// Charity list primes local name resolution for the receipt.
	for _, err := range lc.Refresh(ctx).Errs() {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	resp, err := lc.Donate(ctx, ledger.DonateInput{
		CharityID:          *charityID,
		Amount:             *amount,
		IsAnonymous:        *anonymous,
		IsRecurring:        *recurring,
		RecurringFrequency: *frequency,
	})
	if err != nil {
		return err
	}
	fmt.Printf("%s. New balance: %d\n", orDefault(resp.Message, "Donation successful"), resp.NewBalance)
	return nil
}

func (a *app) cmdCharityDashboard(ctx context.Context) error {
	if err := a.activate(ctx, session.RoleCharity); err != nil {
		return err
	}
	dashboard, err := charity.NewDashboard(a.client, a.store, a.log)
	if err != nil {
		return err
	}

	status, caps, err := dashboard.RefreshStatus(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Application status: %s\n", status)
	switch status {
	case charity.StatusRejected:
		fmt.Printf("We are sorry, your application was not approved. Contact %s to appeal.\n", caps.SupportContact)
		return nil
	case charity.StatusPending:
		fmt.Println("Your application is pending approval. You will be notified once reviewed.")
		return nil
	}

	donations, err := dashboard.Donations(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Total credits received: %d\n\nDonations:\n", donations.TotalCredits)
	for _, d := range donations.Donations {
		donor := fmt.Sprintf("donor %d", d.DonorID)
		if d.IsAnonymous {
			donor = "anonymous"
		}
		fmt.Printf("  %s  %-16s %6d\n", d.Date.Format("2006-01-02"), donor, d.Amount)
	}
	return nil
}

func (a *app) cmdAddStory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add-story", flag.ExitOnError)
	title := fs.String("title", "", "story title")
	content := fs.String("content", "", "story content")
	imageURL := fs.String("image-url", "", "hosted image URL")
	beneficiary := fs.String("beneficiary", "", "beneficiary name")
	age := fs.Int("age", 0, "beneficiary age")
	fs.Parse(args)
	if *title == "" || *content == "" {
		return fmt.Errorf("add-story requires -title and -content")
	}

	if err := a.activate(ctx, session.RoleCharity); err != nil {
		return err
	}
	dashboard, err := charity.NewDashboard(a.client, a.store, a.log)
	if err != nil {
		return err
	}
	resp, err := dashboard.AddStory(ctx, api.StoryInput{
		Title:           *title,
		Content:         *content,
		ImageURL:        *imageURL,
		BeneficiaryName: *beneficiary,
		BeneficiaryAge:  *age,
	})
	if err != nil {
		return err
	}
	fmt.Println(orDefault(resp.Message, "Story added"))
	return nil
}

func (a *app) cmdEditStory(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("edit-story", flag.ExitOnError)
	id := fs.Int64("id", 0, "story id")
	title := fs.String("title", "", "story title")
	content := fs.String("content", "", "story content")
	imageURL := fs.String("image-url", "", "hosted image URL")
	beneficiary := fs.String("beneficiary", "", "beneficiary name")
	age := fs.Int("age", 0, "beneficiary age")
	fs.Parse(args)
	if *id == 0 || *title == "" || *content == "" {
		return fmt.Errorf("edit-story requires -id, -title and -content")
	}

	if err := a.activate(ctx, session.RoleCharity); err != nil {
		return err
	}
	dashboard, err := charity.NewDashboard(a.client, a.store, a.log)
	if err != nil {
		return err
	}
	resp, err := dashboard.UpdateStory(ctx, *id, api.StoryInput{
		Title:           *title,
		Content:         *content,
		ImageURL:        *imageURL,
		BeneficiaryName: *beneficiary,
		BeneficiaryAge:  *age,
	})
	if err != nil {
		return err
	}
	fmt.Println(orDefault(resp.Message, "Story updated"))
	return nil
}

func (a *app) cmdAdminList(ctx context.Context) error {
	if err := a.activate(ctx, session.RoleAdmin); err != nil {
		return err
	}
	review, err := admin.NewService(a.client, a.store, a.log)
	if err != nil {
		return err
	}
	applications, err := review.Applications(ctx)
	if err != nil {
		return err
	}
	for _, c := range applications {
		status := charity.ParseStatus(c.Approved, c.Rejected)
		fmt.Printf("%4d  %-30s %s\n", c.ID, c.Name, status)
	}
	return nil
}

func (a *app) cmdReview(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("review", flag.ExitOnError)
	id := fs.Int64("id", 0, "charity id")
	approve := fs.Bool("approve", false, "approve the application")
	reject := fs.Bool("reject", false, "reject the application")
	fs.Parse(args)
	if *id == 0 || *approve == *reject {
		return fmt.Errorf("review requires -id and exactly one of -approve/-reject")
	}

	if err := a.activate(ctx, session.RoleAdmin); err != nil {
		return err
	}
	review, err := admin.NewService(a.client, a.store, a.log)
	if err != nil {
		return err
	}
	var resp *api.MessageResponse
	if *approve {
		resp, err = review.Approve(ctx, *id)
	} else {
		resp, err = review.Reject(ctx, *id)
	}
	if err != nil {
		return err
	}
	fmt.Println(orDefault(resp.Message, "Charity updated"))
	return nil
}

func (a *app) cmdResetRequest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-request", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	fs.Parse(args)
	if *email == "" {
		return fmt.Errorf("reset-request requires -email")
	}
	message, err := a.auth.RequestPasswordReset(ctx, *email)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func (a *app) cmdResetConfirm(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reset-confirm", flag.ExitOnError)
	resetToken := fs.String("token", "", "reset token from the email")
	password := fs.String("password", "", "new password")
	fs.Parse(args)
	if *resetToken == "" || *password == "" {
		return fmt.Errorf("reset-confirm requires -token and -password")
	}
	message, err := a.auth.ConfirmPasswordReset(ctx, *resetToken, *password)
	if err != nil {
		return err
	}
	fmt.Println(message)
	return nil
}

func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}

func usage() {
	fmt.Println(`Commands:
  login -email E -password P         authenticate and store the session
  register -username U -email E ...  create an account (-role donor|charity|admin)
  logout                             destroy the stored session
  whoami                             show the stored session
  charities                          list approved charities
  charity -id N                      show one charity with its stories
  donor                              donor dashboard (balance + histories)
  purchase -amount N                 buy credits
  donate -charity N -amount N        donate credits [-anonymous -recurring -frequency F]
  charity-dashboard                  charity status and received donations
  add-story -title T -content C      publish a beneficiary story
  edit-story -id N -title T ...      replace an existing story
  admin                              list charity applications
  review -id N -approve|-reject      decide a charity application
  reset-request -email E             request a password reset link
  reset-confirm -token T -password P complete a password reset`)
}
