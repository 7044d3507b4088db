package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hongminglow/rentalctl/internal/app"
	"github.com/hongminglow/rentalctl/internal/auth"
	"github.com/hongminglow/rentalctl/internal/library"
	"github.com/hongminglow/rentalctl/internal/models"
	"github.com/hongminglow/rentalctl/internal/models/dto"
	"github.com/hongminglow/rentalctl/internal/session"
)

func runLogin(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("login")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *email == "" {
		var err error
		if *email, err = r.prompt("Email: "); err != nil {
			return err
		}
	}
	password, err := r.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	if *email == "" || password == "" {
		return errors.New("email and password are required")
	}

	user, err := a.Session.Login(ctx, *email, password)
	if err != nil {
		return err
	}
	role, _ := a.Session.Role(ctx)
	fmt.Fprintln(r.Out, successStyle.Render("Logged in."))
	fmt.Fprintln(r.Out, userCard(user, role.String()))
	return nil
}

func runRegister(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("register")
	email := fs.String("email", "", "account email")
	address := fs.String("address", "", "delivery address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	var err error
	if *email == "" {
		if *email, err = r.prompt("Email: "); err != nil {
			return err
		}
	}
	if *address == "" {
		if *address, err = r.prompt("Address: "); err != nil {
			return err
		}
	}
	if strings.TrimSpace(*address) == "" {
		return errors.New("address is required")
	}
	password, err := r.ReadPassword("Password: ")
	if err != nil {
		return err
	}
	confirm, err := r.ReadPassword("Repeat password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	msg, err := a.API.Register(ctx, dto.RegisterRequest{
		Email:    *email,
		Password: session.HashPassword(password),
		Address:  *address,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, successStyle.Render(fallbackMessage(msg, "Account created.")+" You can now log in."))
	return nil
}

func runLogout(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("logout")
	forget := fs.Bool("forget", false, "also remove saved credentials")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if err := a.Session.Logout(ctx, *forget); err != nil {
		return err
	}
	if *forget {
		fmt.Fprintln(r.Out, "Logged out. Saved credentials removed.")
	} else {
		fmt.Fprintln(r.Out, "Logged out.")
	}
	return nil
}

func runWhoami(ctx context.Context, r *Runner, a *app.App, _ []string) error {
	user, err := a.API.Me(ctx)
	if err != nil {
		return err
	}
	role := "unknown"
	if fromBackend, ok := user.RoleFlag(); ok {
		role = fromBackend.String()
	} else if cached, ok := a.Session.Role(ctx); ok {
		role = cached.String()
	}
	fmt.Fprintln(r.Out, userCard(user, role))
	return nil
}

func runStatus(ctx context.Context, r *Runner, a *app.App, _ []string) error {
	token, ok := a.Session.Tokens().Get(ctx)
	if !ok {
		fmt.Fprintln(r.Out, "Not logged in.")
		if _, saved := a.Session.Vault().Load(ctx); saved {
			fmt.Fprintln(r.Out, dimStyle.Render("Saved credentials are available for silent re-login."))
		}
		return nil
	}

	lines := []string{}
	if exp, err := auth.ExpiresAt(token); err != nil {
		lines = append(lines, field("Expires", warnStyle.Render("unreadable ("+err.Error()+")")))
	} else if auth.IsExpired(token) {
		lines = append(lines, field("Expires", warnStyle.Render("expired at "+exp.Local().Format(time.DateTime))))
	} else {
		lines = append(lines, field("Expires", exp.Local().Format(time.DateTime)+" (in "+time.Until(exp).Round(time.Second).String()+")"))
	}
	if role, ok := a.Session.Role(ctx); ok {
		lines = append(lines, field("Role", role.String()))
	}
	fmt.Fprintln(r.Out, card("Session", lines...))

	if !a.Session.CheckExpiration(ctx) {
		return errSessionEnded
	}
	if !a.Session.RequireAuth(ctx) {
		return errSessionEnded
	}
	fmt.Fprintln(r.Out, successStyle.Render("The backend accepts this session."))
	return nil
}

func runGames(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("games")
	page := fs.Int("page", 1, "page number")
	minRating := fs.String("min-rating", "", "minimum rating")
	var genres, platforms listFlag
	fs.Var(&genres, "genre", "genre filter (repeatable or comma separated)")
	fs.Var(&platforms, "platform", "platform filter (repeatable or comma separated)")
	listGenres := fs.Bool("list-genres", false, "print known genres")
	listPlatforms := fs.Bool("list-platforms", false, "print known platforms")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *listGenres || *listPlatforms {
		if *listGenres {
			fmt.Fprintln(r.Out, strings.Join(library.Genres, "\n"))
		}
		if *listPlatforms {
			fmt.Fprintln(r.Out, strings.Join(library.Platforms, "\n"))
		}
		return nil
	}

	result, err := a.Library.Filter(ctx, library.Filter{
		Page:      *page,
		MinRating: *minRating,
		Genres:    genres,
		Platforms: platforms,
	})
	if err != nil {
		return err
	}
	printGames(r, result.Data)
	fmt.Fprintln(r.Out, dimStyle.Render(fmt.Sprintf("page %d of %d, %d games", max(result.Meta.CurrentPage, *page), result.Meta.TotalPages, result.Meta.TotalItems)))
	return nil
}

func runNew(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("new")
	more := fs.Int("more", 0, "load this many extra batches")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	feed := a.Library.Feed()
	if _, err := feed.Start(ctx); err != nil {
		return err
	}
	for i := 0; i < *more && feed.HasMore(); i++ {
		if _, err := feed.More(ctx); err != nil {
			return err
		}
	}
	printGames(r, feed.Games())
	if feed.HasMore() {
		fmt.Fprintln(r.Out, dimStyle.Render("more games available, use --more N"))
	}
	return nil
}

func runRandom(ctx context.Context, r *Runner, a *app.App, _ []string) error {
	game, err := a.Library.Draw(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, detailsCard(game))
	return nil
}

func runHistory(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("history")
	clearAll := fs.Bool("clear", false, "forget every draw")
	details := fs.Bool("details", false, "fetch full details for every draw")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	tracker := a.Library.History()
	if *clearAll {
		if err := tracker.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(r.Out, "Draw history cleared.")
		return nil
	}

	entries := tracker.Load(ctx)
	if len(entries) == 0 {
		fmt.Fprintln(r.Out, "No games drawn yet.")
		return nil
	}
	if *details {
		items := a.Library.HistoryDetails(ctx)
		if len(items) == 0 {
			fmt.Fprintln(r.Out, warnStyle.Render("Could not load game details."))
			return nil
		}
		for _, item := range items {
			fmt.Fprintln(r.Out, historyCard(item))
		}
		return nil
	}
	for i, e := range entries {
		fmt.Fprintf(r.Out, "%2d. game %d  %s\n", i+1, e.ID, dimStyle.Render(e.Timestamp.Local().Format(time.DateTime)))
	}
	return nil
}

func runGame(ctx context.Context, r *Runner, a *app.App, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}
	game, err := a.API.Game(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, detailsCard(game))
	return nil
}

func runRent(ctx context.Context, r *Runner, a *app.App, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}
	msg, err := a.API.Rent(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, successStyle.Render(fallbackMessage(msg, "Game rented.")))
	return nil
}

func runReturn(ctx context.Context, r *Runner, a *app.App, args []string) error {
	id, err := singleID(args)
	if err != nil {
		return err
	}
	msg, err := a.API.ReturnRental(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.Out, successStyle.Render(fallbackMessage(msg, "Game returned.")))
	return nil
}

func runRentals(ctx context.Context, r *Runner, a *app.App, _ []string) error {
	rentals, err := a.API.Rentals(ctx)
	if err != nil {
		return err
	}
	if len(rentals) == 0 {
		fmt.Fprintln(r.Out, "No rentals yet.")
		return nil
	}
	for _, rental := range rentals {
		fmt.Fprintln(r.Out, rentalCard(rental))
	}
	return nil
}

func runProfile(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("profile")
	address := fs.String("address", "", "new address")
	changePassword := fs.Bool("password", false, "prompt for a new password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	req := dto.ChangeRequest{Address: strings.TrimSpace(*address)}
	var password string
	if *changePassword {
		var err error
		if password, err = r.ReadPassword("New password: "); err != nil {
			return err
		}
		if password == "" {
			return errors.New("password must not be empty")
		}
		req.Password = session.HashPassword(password)
	}
	if req.Empty() {
		return errors.New("no changes given; use --address or --password")
	}

	msg, err := a.API.ChangeProfile(ctx, req)
	if err != nil {
		return err
	}
	if password != "" {
		if creds, ok := a.Session.Vault().Load(ctx); ok {
			if err := a.Session.Vault().Save(ctx, creds.Email, password); err != nil {
				return fmt.Errorf("update saved credentials: %w", err)
			}
		}
	}
	fmt.Fprintln(r.Out, successStyle.Render(fallbackMessage(msg, "Profile updated.")))
	return nil
}

func runWatch(ctx context.Context, r *Runner, a *app.App, args []string) error {
	fs := r.flags("watch")
	interval := fs.Duration("interval", a.Config.WatchInterval, "time between validations")
	relogin := fs.Bool("relogin", a.Config.WatchRelogin, "try saved credentials before giving up")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	watchdog := a.Session.Watchdog(*interval, *relogin)
	fmt.Fprintf(r.Out, "Watching session every %s. Press Ctrl+C to stop.\n", watchdog.Interval())
	stop := watchdog.Start(ctx)
	defer stop()

	select {
	case <-ctx.Done():
		fmt.Fprintln(r.Out, "Stopped.")
		return nil
	case <-r.ended:
		return errSessionEnded
	}
}

func printGames(r *Runner, games []models.Game) {
	if len(games) == 0 {
		fmt.Fprintln(r.Out, "No games found.")
		return
	}
	for _, g := range games {
		fmt.Fprintln(r.Out, gameCard(g))
	}
}

func singleID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errUsage
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%q is not a valid id", args[0])
	}
	return id, nil
}

func fallbackMessage(msg, def string) string {
	if strings.TrimSpace(msg) == "" {
		return def
	}
	return msg
}

// listFlag collects repeated or comma separated values.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			*l = append(*l, trimmed)
		}
	}
	return nil
}
