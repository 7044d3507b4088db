// Package cli implements the rentalctl subcommands.
package cli

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/hongminglow/rentalctl/internal/app"
	"github.com/hongminglow/rentalctl/internal/config"
)

// errSessionEnded is returned after the redirect notice was printed.
var errSessionEnded = errors.New("session ended")

// errUsage is returned when arguments are wrong; usage was already printed.
var errUsage = errors.New("usage")

// Runner executes one rentalctl invocation.
type Runner struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer

	// NewApp builds the runtime. It defaults to reading RENTAL_* variables.
	NewApp func(ctx context.Context, redirect func(context.Context)) (*app.App, error)
	// ReadPassword prompts for a secret. It defaults to an echo-free
	// terminal read.
	ReadPassword func(prompt string) (string, error)

	input *bufio.Reader
	ended chan struct{}
	once  sync.Once
}

type command struct {
	usage string
	help  string
	// auth commands run the local expiry guard first.
	auth bool
	run  func(ctx context.Context, r *Runner, a *app.App, args []string) error
}

var commands = map[string]command{
	"login":    {usage: "login [--email EMAIL]", help: "sign in and remember the credentials", run: runLogin},
	"register": {usage: "register [--email EMAIL] [--address ADDRESS]", help: "create an account", run: runRegister},
	"logout":   {usage: "logout [--forget]", help: "end the session; --forget also drops saved credentials", run: runLogout},
	"whoami":   {usage: "whoami", help: "show the signed-in account", auth: true, run: runWhoami},
	"status":   {usage: "status", help: "check token expiry locally and with the backend", run: runStatus},
	"games":    {usage: "games [--page N] [--min-rating R] [--genre G] [--platform P] [--list-genres] [--list-platforms]", help: "browse the library", run: runGames},
	"new":      {usage: "new [--more N]", help: "list the newest games", run: runNew},
	"random":   {usage: "random", help: "draw a random game", run: runRandom},
	"history":  {usage: "history [--clear] [--details]", help: "show recent random draws", run: runHistory},
	"game":     {usage: "game ID", help: "show one game", run: runGame},
	"rent":     {usage: "rent INVENTORY_ID", help: "rent a copy", auth: true, run: runRent},
	"return":   {usage: "return RENTAL_ID", help: "return a rented copy", auth: true, run: runReturn},
	"rentals":  {usage: "rentals", help: "list your rentals", auth: true, run: runRentals},
	"profile":  {usage: "profile [--address ADDRESS] [--password]", help: "update address or password", auth: true, run: runProfile},
	"watch":    {usage: "watch [--interval D] [--relogin]", help: "keep validating the session until interrupted", auth: true, run: runWatch},
}

// NewRunner returns a Runner bound to the process's standard streams.
func NewRunner() *Runner {
	return &Runner{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes args and returns the process exit code.
func (r *Runner) Run(ctx context.Context, args []string) int {
	r.ended = make(chan struct{})
	if r.NewApp == nil {
		r.NewApp = newAppFromEnv
	}
	if r.ReadPassword == nil {
		r.ReadPassword = r.readTerminalPassword
	}

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		r.usage()
		if len(args) == 0 {
			return 2
		}
		return 0
	}

	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(r.Err, "unknown command %q\n\n", args[0])
		r.usage()
		return 2
	}

	a, err := r.NewApp(ctx, r.redirect)
	if err != nil {
		fmt.Fprintf(r.Err, "rentalctl: %v\n", err)
		return 1
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("close state store: %v", err)
		}
	}()

	if cmd.auth {
		if !a.Session.LoggedIn(ctx) {
			fmt.Fprintln(r.Err, "Not logged in. Run `rentalctl login` first.")
			return 1
		}
		if !a.Session.CheckExpiration(ctx) {
			return 1
		}
	}

	err = cmd.run(ctx, r, a, args[1:])
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(r.Err, "usage: rentalctl %s\n", cmd.usage)
		return 2
	case errors.Is(err, errSessionEnded), r.sessionEnded():
		return 1
	default:
		fmt.Fprintf(r.Err, "rentalctl %s: %v\n", args[0], err)
		return 1
	}
}

// redirect is the session's "go to the login surface" callback.
func (r *Runner) redirect(context.Context) {
	r.once.Do(func() {
		fmt.Fprintln(r.Err, warnStyle.Render("Your session has ended. Run `rentalctl login` to sign in again."))
		close(r.ended)
	})
}

func (r *Runner) sessionEnded() bool {
	select {
	case <-r.ended:
		return true
	default:
		return false
	}
}

func (r *Runner) usage() {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.Err, "usage: rentalctl COMMAND [flags]")
	fmt.Fprintln(r.Err)
	for _, name := range names {
		fmt.Fprintf(r.Err, "  %-9s %s\n", name, commands[name].help)
	}
}

func (r *Runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.Err)
	return fs
}

// prompt reads one line from In.
func (r *Runner) prompt(label string) (string, error) {
	if r.input == nil {
		r.input = bufio.NewReader(r.In)
	}
	fmt.Fprint(r.Out, label)
	line, err := r.input.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

func (r *Runner) readTerminalPassword(label string) (string, error) {
	f, ok := r.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return r.prompt(label)
	}
	fmt.Fprint(r.Out, label)
	pass, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(r.Out)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(pass), nil
}

func newAppFromEnv(ctx context.Context, redirect func(context.Context)) (*app.App, error) {
	config.LoadEnvFile()
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, err
	}
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
	}
	return app.New(ctx, cfg, redirect)
}
