package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/sprintboard/internal/auth"
	"github.com/alexanderramin/sprintboard/internal/config"
	"github.com/alexanderramin/sprintboard/internal/domain"
	"github.com/alexanderramin/sprintboard/internal/logging"
	"github.com/alexanderramin/sprintboard/internal/remote"
	"github.com/alexanderramin/sprintboard/internal/screen"
	"github.com/alexanderramin/sprintboard/internal/store"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

// ErrSessionExpired is returned before any API call when the stored token
// has already expired.
var ErrSessionExpired = errors.New("session expired (run: sprintboard login)")

// TaskCollection is the task collection plus the task-only endpoints.
type TaskCollection interface {
	screen.Collection[domain.Task]
	UpdateStatus(ctx context.Context, id string, status domain.Status) (domain.Task, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Task, error)
}

// Backend is the set of remote collections commands and views work on.
type Backend struct {
	Projects screen.Collection[domain.Project]
	Backlog  screen.Collection[domain.BacklogItem]
	Sprints  screen.Collection[domain.Sprint]
	Tasks    TaskCollection
}

// NewBackend exposes a remote client's collections.
func NewBackend(c *remote.Client) Backend {
	return Backend{
		Projects: c.Projects(),
		Backlog:  c.Backlog(),
		Sprints:  c.Sprints(),
		Tasks:    c.Tasks(),
	}
}

// App holds what commands and views share. Config, Sessions and the logger
// are filled by Setup unless a caller (tests, main) set them first.
type App struct {
	Config   *config.Config
	Sessions *auth.Store
	Logger   zerolog.Logger

	// ConfigDir overrides config.DefaultDir; set from --config-dir.
	ConfigDir string

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// Now is the clock used for draft defaults and expiry checks.
	Now func() time.Time

	backend *Backend
	user    domain.User
	log     *logging.Log
}

// Setup loads configuration and opens the log. It is idempotent.
func (a *App) Setup(flags *pflag.FlagSet) error {
	if a.Config == nil {
		cfg, err := config.Load(a.ConfigDir, flags)
		if err != nil {
			return err
		}
		a.Config = cfg
	}
	if a.log == nil {
		log, err := logging.New().
			FromPath(a.Config.LogFile).
			WithLevel(a.Config.LogLevel).
			Make()
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		a.log = log
		a.Logger = log.Logger
	}
	if a.Sessions == nil {
		a.Sessions = auth.NewStore(a.Config.Dir)
	}
	if a.Now == nil {
		a.Now = time.Now
	}
	return nil
}

// Close releases the log file.
func (a *App) Close() error {
	return a.log.Close()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// Guard is the store reconciliation policy: strict in debug mode.
func (a *App) Guard() store.Guard {
	return store.Guard{Strict: a.Config.Debug, Logger: a.Logger}
}

// UseBackend replaces the remote collections, e.g. with fakes in tests.
func (a *App) UseBackend(b Backend, user domain.User) {
	a.backend = &b
	a.user = user
}

// Backend returns the collections for the logged-in user, building the
// authenticated client on first use.
func (a *App) Backend() (Backend, error) {
	if a.backend != nil {
		return *a.backend, nil
	}
	sess, err := a.Sessions.Load()
	if err != nil {
		return Backend{}, err
	}
	if claims, err := auth.ParseClaims(sess.Token); err == nil && claims.Expired(a.Now()) {
		return Backend{}, ErrSessionExpired
	}
	b := NewBackend(a.client(sess.Token))
	a.backend = &b
	a.user = sess.User
	return b, nil
}

// User is the logged-in user; valid after Backend succeeded.
func (a *App) User() domain.User { return a.user }

// Anonymous returns a client without a token, for login and register.
func (a *App) Anonymous() *remote.Client {
	return a.client("")
}

func (a *App) client(token string) *remote.Client {
	return remote.New(a.Config.APIURL, token,
		remote.WithTimeout(a.Config.Timeout),
		remote.WithObserver(remote.NewLogObserver(a.Logger)),
	)
}

// forget drops the cached client after login or logout.
func (a *App) forget() {
	a.backend = nil
	a.user = domain.User{}
}
