// Package syncer pushes full ledger snapshots to a remote object store and
// pulls them back. Every transfer is all or nothing: on failure neither the
// local store nor the remote object changes.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"ledger/internal/core"
	applog "ledger/internal/log"
	"ledger/internal/remote"
)

// State of the sync session.
type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Uploading
	Downloading
	Idle
)

var stateNames = map[State]string{
	Unauthenticated: "unauthenticated",
	Authenticating:  "authenticating",
	Authenticated:   "authenticated",
	Uploading:       "uploading",
	Downloading:     "downloading",
	Idle:            "idle",
}

func (s State) String() string {
	if n, ok := stateNames[s]; ok {
		return n
	}
	return fmt.Sprintf("state(%d)", int(s))
}

const (
	DefaultTimeout    = 30 * time.Second
	DefaultObjectName = "ledger-backup.json"
)

// ErrBusy is returned when a transfer is requested while another one runs.
var ErrBusy = errors.New("sync already in progress")

// Ledger is the part of the store the syncer needs.
type Ledger interface {
	Snapshot() core.Snapshot
	Restore(ctx context.Context, snap core.Snapshot) error
}

type Options struct {
	// TokenSource supplies the delegated bearer credential. When nil the
	// object store is assumed to carry its own credentials.
	TokenSource oauth2.TokenSource
	Timeout     time.Duration
	ObjectName  string
	Clock       func() time.Time
	Logger      *slog.Logger
	// OnStateChange is called after every transition, outside any lock.
	OnStateChange func(from, to State)
}

type Syncer struct {
	ledger  Ledger
	objects remote.ObjectStore
	opts    Options
	log     *slog.Logger

	busy sync.Mutex

	mu    sync.RWMutex
	state State
}

func New(l Ledger, objects remote.ObjectStore, opts Options) *Syncer {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.ObjectName == "" {
		opts.ObjectName = DefaultObjectName
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		ledger:  l,
		objects: objects,
		opts:    opts,
		log:     logger.With(applog.FieldComponent, applog.ComponentSync),
		state:   Unauthenticated,
	}
}

// State returns the current state.
func (s *Syncer) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// ObjectName is the remote name backups are stored under.
func (s *Syncer) ObjectName() string { return s.opts.ObjectName }

// Authenticate obtains a bearer credential. It is called implicitly by
// Upload and Download when the session is not authenticated yet.
func (s *Syncer) Authenticate(ctx context.Context) error {
	if !s.busy.TryLock() {
		return &core.SyncError{Op: applog.OpAuthenticate, Err: ErrBusy}
	}
	defer s.busy.Unlock()
	return s.authenticate(ctx)
}

// Upload serialises the current ledger and replaces the remote backup.
func (s *Syncer) Upload(ctx context.Context) error {
	if !s.busy.TryLock() {
		return &core.SyncError{Op: applog.OpUpload, Err: ErrBusy}
	}
	defer s.busy.Unlock()

	if err := s.ensureAuthenticated(ctx); err != nil {
		return err
	}
	s.setState(Uploading)
	start := time.Now()

	data, err := core.EncodeBackup(s.ledger.Snapshot(), s.opts.Clock())
	if err != nil {
		return s.fail(ctx, applog.OpUpload, err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	if err := s.objects.Upload(ctx, s.opts.ObjectName, data); err != nil {
		return s.fail(ctx, applog.OpUpload, err)
	}

	s.setState(Idle)
	s.log.InfoContext(ctx, "Ledger uploaded",
		applog.FieldObjectName, s.opts.ObjectName,
		applog.FieldBytes, len(data),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

// Download fetches the remote backup and replaces the local ledger with it.
// The local ledger is left untouched unless the whole backup was fetched,
// decoded and validated before the deadline.
func (s *Syncer) Download(ctx context.Context) error {
	if !s.busy.TryLock() {
		return &core.SyncError{Op: applog.OpDownload, Err: ErrBusy}
	}
	defer s.busy.Unlock()

	if err := s.ensureAuthenticated(ctx); err != nil {
		return err
	}
	s.setState(Downloading)
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	data, err := s.objects.Download(ctx, s.opts.ObjectName)
	if err != nil {
		return s.fail(ctx, applog.OpDownload, err)
	}
	snap, err := core.DecodeBackup(data)
	if err != nil {
		return s.fail(ctx, applog.OpDownload, err)
	}
	if err := ctx.Err(); err != nil {
		return s.fail(ctx, applog.OpDownload, err)
	}
	if err := s.ledger.Restore(ctx, snap); err != nil {
		return s.fail(ctx, applog.OpRestore, err)
	}

	s.setState(Idle)
	s.log.InfoContext(ctx, "Ledger downloaded",
		applog.FieldObjectName, s.opts.ObjectName,
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets),
		applog.FieldDuration, time.Since(start).Milliseconds())
	return nil
}

func (s *Syncer) ensureAuthenticated(ctx context.Context) error {
	switch s.State() {
	case Authenticated, Idle:
		return nil
	default:
		return s.authenticate(ctx)
	}
}

func (s *Syncer) authenticate(ctx context.Context) error {
	s.setState(Authenticating)
	if s.opts.TokenSource == nil {
		s.setState(Authenticated)
		return nil
	}

	tok, err := s.opts.TokenSource.Token()
	if err == nil && !tok.Valid() {
		err = errors.New("token source returned an invalid token")
	}
	if err != nil {
		s.setState(Unauthenticated)
		s.log.WarnContext(ctx, "Authentication failed", applog.FieldError, err)
		return &core.SyncError{Op: applog.OpAuthenticate, Err: fmt.Errorf("%w: %w", remote.ErrUnauthorized, err)}
	}

	s.setState(Authenticated)
	return nil
}

// fail moves to the state the error calls for and wraps it.
func (s *Syncer) fail(ctx context.Context, op string, err error) error {
	next := Authenticated
	if errors.Is(err, remote.ErrUnauthorized) {
		next = Unauthenticated
	}
	s.setState(next)
	fields := applog.NewFields().WithOperation(op).WithError(err)
	fields[applog.FieldState] = next.String()
	s.log.WarnContext(ctx, "Sync failed", fields.ToSlice()...)
	return &core.SyncError{Op: op, Err: err}
}

func (s *Syncer) setState(next State) {
	s.mu.Lock()
	prev := s.state
	s.state = next
	s.mu.Unlock()

	if prev == next {
		return
	}
	s.log.Debug("Sync state changed", "from", prev.String(), "to", next.String())
	if s.opts.OnStateChange != nil {
		s.opts.OnStateChange(prev, next)
	}
}
