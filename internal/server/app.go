// Package server initializes and runs the contactform backend: the JSON
// API, the live notification hub, the optional gRPC health service and the
// revocation pruner. All of them stop together on a termination signal.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/contactform/internal/logging"
	"github.com/dmitrijs2005/contactform/internal/server/config"
	"github.com/dmitrijs2005/contactform/internal/server/notify"
	"github.com/dmitrijs2005/contactform/internal/server/rest"
	"github.com/dmitrijs2005/contactform/internal/server/services"

	gs "github.com/dmitrijs2005/contactform/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type revocationPruner interface {
	PruneRevocations(ctx context.Context) (int64, error)
}

type App struct {
	config *config.Config
	logger logging.Logger
	store  *Store
	hub    *notify.Hub
	auth   *services.AuthService
	http   runner
	health runner
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.NewForEnv(c.Env, os.Stdout)

	store, err := OpenStore(ctx, c)
	if err != nil {
		return nil, err
	}

	hub := notify.NewHub(logger)

	as := services.NewAuthService(store.DB, store.Manager, c)
	us := services.NewUserService(store.DB, store.Manager)
	ms := services.NewMessageService(store.DB, store.Manager, hub)

	app := &App{config: c, logger: logger, store: store, hub: hub, auth: as}

	app.http = rest.NewServer(rest.Options{
		Address:         c.HTTPAddr,
		RequestTimeout:  c.RequestTimeout,
		ShutdownTimeout: c.ShutdownTimeout,
		MaxBodyBytes:    c.MaxBodyBytes,
	}, logger, as, us, ms, hub)

	if c.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(c.GRPCHealthAddr, logger, store.DB, 0)
	}

	return app, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// serve runs r and cancels everything else if it fails.
func (app *App) serve(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, name+" stopped", "error", err)
		cancelFunc()
	}
}

// pruneLoop removes expired revocations every interval until ctx ends.
func pruneLoop(ctx context.Context, l logging.Logger, p revocationPruner, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.PruneRevocations(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					l.Warn(ctx, "revocation prune failed", "error", err)
				}
				continue
			}
			if n > 0 {
				l.Debug(ctx, "revocations pruned", "count", n)
			}
		}
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "env", app.config.Env)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.serve(ctx, cancelFunc, "http server", app.http)
	}()

	if app.health != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.serve(ctx, cancelFunc, "grpc health server", app.health)
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		pruneLoop(ctx, app.logger, app.auth, app.config.RevocationPruneInterval)
	}()

	wg.Wait()

	app.hub.Close()
	if err := app.store.Close(); err != nil {
		app.logger.Error(context.Background(), "store close error", "error", err)
	}

	app.logger.Info(context.Background(), "App stopped")
}
