package cli

import (
	"context"
	"errors"
	"fmt"

	"ledger/internal/backend"
	"ledger/internal/config"
	"ledger/internal/ledger"
	applog "ledger/internal/log"
	"ledger/internal/remote"
	"ledger/internal/syncer"
)

// Runtime bundles the ledger and its remote wired from configuration.
type Runtime struct {
	Config *config.Config
	Logger *applog.Logger
	Ledger *ledger.Store

	// Objects and Syncer are nil when no remote backend is configured.
	Objects remote.ObjectStore
	Syncer  *syncer.Syncer

	cleanups []backend.CleanupFunc
}

// ErrNoRemote is returned by RequireSyncer when REMOTE_BACKEND is none.
var ErrNoRemote = errors.New("no remote backend configured")

// Open builds the persister and remote for cfg and loads the ledger.
// A ledger that fails to load starts empty; the failure is logged.
func Open(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*Runtime, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	if err := bcfg.Validate(); err != nil {
		return nil, err
	}

	factory := backend.NewFactory(logger.Logger)
	rt := &Runtime{Config: cfg, Logger: logger}

	persisted, err := factory.CreatePersister(ctx, bcfg)
	if err != nil {
		return nil, err
	}
	rt.cleanups = append(rt.cleanups, persisted.Cleanup)

	rt.Ledger = ledger.New(persisted.Persister, ledger.Options{Logger: logger.Logger})
	if err := rt.Ledger.Load(ctx); err != nil {
		logger.WarnContext(ctx, "Ledger loaded with errors",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorType(err))
	}

	remoteRes, err := factory.CreateRemote(ctx, bcfg)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.cleanups = append(rt.cleanups, remoteRes.Cleanup)

	if remoteRes.Objects != nil {
		rt.Objects = remoteRes.Objects
		rt.Syncer = syncer.New(rt.Ledger, remoteRes.Objects, syncer.Options{
			TokenSource: remoteRes.TokenSource,
			Timeout:     cfg.SyncTimeout,
			ObjectName:  cfg.RemoteObjectName,
			Logger:      logger.Logger,
		})
	}
	return rt, nil
}

// RequireSyncer returns the syncer or ErrNoRemote.
func (r *Runtime) RequireSyncer() (*syncer.Syncer, error) {
	if r.Syncer == nil {
		return nil, fmt.Errorf("%w: set REMOTE_BACKEND", ErrNoRemote)
	}
	return r.Syncer, nil
}

// Close releases the backends in reverse order of creation.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		if c := r.cleanups[i]; c != nil {
			errs = append(errs, c())
		}
	}
	r.cleanups = nil
	return errors.Join(errs...)
}
