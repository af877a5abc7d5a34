// Package cmdsupport holds the pieces shared by the portal command lines:
// bootstrapping, error reporting, table output and the interactive shell.
package cmdsupport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"carrental/internal/api"
	"carrental/internal/auth"
	"carrental/internal/config"
	apperrors "carrental/internal/errors"
	"carrental/internal/querycache"
	"carrental/internal/service"

	"github.com/maruel/subcommands"
)

// Runtime is everything a command needs, built once per process.
type Runtime struct {
	Config   config.Config
	Deps     service.Deps
	Admin    *service.AdminService
	Customer *service.CustomerService
}

// Close stops background fetches.
func (r *Runtime) Close() {
	r.Deps.Cache.Close()
}

// Bootstrap wires the client, cache, notifier and services from cfg.
// Notifications go to out and logs to errOut. The admin portal sends its
// session cookie and reads cars with credentials.
func Bootstrap(cfg config.Config, httpClient *http.Client, admin bool, out, errOut io.Writer) (*Runtime, error) {
	logger := cfg.NewLogger(errOut)

	opts := []api.Option{api.WithLogger(logger)}
	if admin {
		opts = append(opts,
			api.WithAdminCredentials(),
			api.WithSessionCookie(auth.SessionCookie, cfg.API.AdminSession),
		)
	}
	client, err := api.NewClient(httpClient, cfg.API.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	notifiers := service.Notifiers{service.NewConsoleNotifier(out)}
	if level, _ := config.ParseLevel(cfg.Log.Level); level <= slog.LevelDebug {
		notifiers = append(notifiers, service.LogNotifier{Logger: logger})
	}

	deps := service.Deps{
		Client:   client,
		Cache:    querycache.New(logger),
		Notifier: notifiers,
		Logger:   logger,
	}
	return &Runtime{
		Config:   cfg,
		Deps:     deps,
		Admin:    service.NewAdminService(deps),
		Customer: service.NewCustomerService(deps),
	}, nil
}

// App is a subcommands application that shares one Runtime between the
// commands it runs, including those typed into its shell.
type App struct {
	*subcommands.DefaultApplication

	// Admin selects the admin portal's client credentials.
	Admin bool
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	// Ctx is cancelled on interrupt. Nil means context.Background().
	Ctx        context.Context
	HTTPClient *http.Client
	// LoadConfig defaults to config.Load with the CARRENTAL_CONFIG file.
	LoadConfig func() (config.Config, error)

	once    sync.Once
	rt      *Runtime
	rtErr   error
	inShell bool
}

func (a *App) GetOut() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}

func (a *App) GetErr() io.Writer {
	if a.Err != nil {
		return a.Err
	}
	return os.Stderr
}

func (a *App) input() io.Reader {
	if a.In != nil {
		return a.In
	}
	return os.Stdin
}

func (a *App) Context() context.Context {
	if a.Ctx != nil {
		return a.Ctx
	}
	return context.Background()
}

// Runtime bootstraps on first use so that help works without configuration.
func (a *App) Runtime() (*Runtime, error) {
	a.once.Do(func() {
		load := a.LoadConfig
		if load == nil {
			load = func() (config.Config, error) { return config.Load("") }
		}
		cfg, err := load()
		if err != nil {
			a.rtErr = err
			return
		}
		a.rt, a.rtErr = Bootstrap(cfg, a.HTTPClient, a.Admin, a.GetOut(), a.GetErr())
	})
	return a.rt, a.rtErr
}

// Close releases the runtime if one was built.
func (a *App) Close() {
	if a.rt != nil {
		a.rt.Close()
	}
}

// FromApplication returns the App behind a.
func FromApplication(a subcommands.Application) (*App, error) {
	app, ok := a.(*App)
	if !ok {
		return nil, fmt.Errorf("application %T is not a portal app", a)
	}
	return app, nil
}

// Run executes fn with the application's runtime and converts the result
// to an exit status.
func Run(a subcommands.Application, fn func(ctx context.Context, rt *Runtime) error) int {
	app, err := FromApplication(a)
	if err != nil {
		PrintError(a, err)
		return 1
	}
	rt, err := app.Runtime()
	if err != nil {
		PrintError(a, err)
		return 1
	}
	if err := fn(app.Context(), rt); err != nil {
		PrintError(a, err)
		return 1
	}
	return 0
}

// ErrShown marks a failure that was already displayed, as a notification
// or in place of a view.
var ErrShown = errors.New("shown")

// Shown wraps err so PrintError leaves it out.
func Shown(err error) error {
	return fmt.Errorf("%w: %w", ErrShown, err)
}

// PrintError reports err on the application's stderr. Request failures are
// skipped: the mutation that made them has already shown a notification.
func PrintError(a subcommands.Application, err error) {
	var reqErr *apperrors.RequestError
	if errors.Is(err, ErrShown) || errors.As(err, &reqErr) {
		return
	}
	fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
}
