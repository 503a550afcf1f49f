package store

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/model"
)

// Adapter is the two-tier remote-first / local-fallback strategy behind all
// state persistence. With no remote configured it runs in sandbox mode
// against the local slot alone. The fallback policy lives here and only here,
// rather than as try/catch scattered over call sites.
type Adapter struct {
	remote RemoteState // nil in sandbox mode
	local  LocalState

	// mu serializes the read-merge-write sequence of each write operation
	// and guards lastKnown.
	mu        sync.Mutex
	lastKnown *model.AppState
}

func NewAdapter(remote RemoteState, local LocalState) *Adapter {
	return &Adapter{remote: remote, local: local}
}

// Sandbox reports whether the adapter has no remote tier.
func (a *Adapter) Sandbox() bool {
	return a.remote == nil
}

// SeedState returns a state usable for first render without any round trip:
// the local snapshot if one exists, otherwise the compiled-in defaults.
func (a *Adapter) SeedState() *model.AppState {
	return a.localOrDefaults()
}

// FetchState never fails: remote first, then the local slot, then compiled-in
// defaults. An explicit "no record" from the remote resolves to defaults, not
// to the local slot; absence of a record is not the same as the remote being
// unreachable.
func (a *Adapter) FetchState(ctx context.Context) *model.AppState {
	if a.remote == nil {
		return a.remember(a.localOrDefaults())
	}

	state, err := a.remote.FetchState(ctx)
	switch {
	case err == nil:
		return a.remember(state)
	case apperrors.HasCode(err, apperrors.ErrCodeNoRecord):
		return a.remember(model.DefaultState())
	default:
		log.Warn().Err(err).Msg("remote state fetch failed, using local fallback")
		return a.remember(a.localOrDefaults())
	}
}

// WriteContent merges the document into the last known full state and writes
// remote-first. On remote failure the merged state goes to the local slot
// instead of being discarded; confirmed reports whether the configured
// durable tier accepted the write.
func (a *Adapter) WriteContent(ctx context.Context, doc model.ContentDocument) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.baseForWriteLocked(ctx)
	state.SiteContent = doc
	return a.writeMergedLocked(ctx, state)
}

// WriteClients replaces one client record through the same full-state
// replacement path as content.
func (a *Adapter) WriteClients(ctx context.Context, clientID string, rec model.ClientRecord) (*model.AppState, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := a.baseForWriteLocked(ctx)
	if state.Clients == nil {
		state.Clients = map[string]model.ClientRecord{}
	}
	rec.ClientID = clientID
	state.Clients[clientID] = rec
	confirmed, err := a.writeMergedLocked(ctx, state)
	return state, confirmed, err
}

// AppendSubmission prepends the submission (newest first) and returns the
// resulting full state so the caller can refresh its view without a second
// round trip.
func (a *Adapter) AppendSubmission(ctx context.Context, sub model.ContactSubmission) (*model.AppState, bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.remote != nil {
		state, err := a.remote.AppendSubmission(ctx, sub)
		if err == nil {
			a.lastKnown = state
			return state, true, nil
		}
		log.Warn().Err(err).Msg("remote submission append failed, falling back to local slot")
	}

	state := a.baseForWriteLocked(ctx)
	state.ContactSubmissions = append([]model.ContactSubmission{sub}, state.ContactSubmissions...)
	confirmed, err := a.writeMergedLocked(ctx, state)
	return state, confirmed, err
}

// HealthCheck is advisory only: it drives the "Cloud Active / Sandbox Mode"
// indicator and never gates the other operations.
func (a *Adapter) HealthCheck(ctx context.Context) bool {
	return a.remote != nil && a.remote.Ping(ctx) == nil
}

// Init provisions the remote schema. Idempotent.
func (a *Adapter) Init(ctx context.Context) error {
	if a.remote == nil {
		return apperrors.ValidationError("no cloud backend configured")
	}
	return a.remote.Init(ctx)
}

func (a *Adapter) ExportLocal() (string, error) {
	return a.local.Export()
}

func (a *Adapter) ImportLocal(raw string) error {
	return a.local.Import(raw)
}

// baseForWriteLocked returns the last known full state, fetching one when no
// read has happened yet. Caller holds a.mu.
func (a *Adapter) baseForWriteLocked(ctx context.Context) *model.AppState {
	if a.lastKnown != nil {
		return a.lastKnown.Clone()
	}
	if a.remote != nil {
		if state, err := a.remote.FetchState(ctx); err == nil {
			return state
		} else if apperrors.HasCode(err, apperrors.ErrCodeNoRecord) {
			return model.DefaultState()
		}
	}
	return a.localOrDefaults()
}

// writeMergedLocked scrubs the session identity and writes remote-first with
// local fallback. Caller holds a.mu.
func (a *Adapter) writeMergedLocked(ctx context.Context, state *model.AppState) (bool, error) {
	// The durable document is shared; one session's identity must never
	// leak into it.
	state.CurrentUser = nil

	if a.remote != nil {
		err := a.remote.WriteState(ctx, state)
		if err == nil {
			a.lastKnown = state
			return true, nil
		}
		log.Warn().Err(err).Msg("remote state write failed, persisting to local slot")
	}

	if err := a.local.Save(state); err != nil {
		return false, apperrors.Database(err)
	}
	a.lastKnown = state
	// A local write is the durable tier in sandbox mode; in cloud mode it
	// means the remote did not confirm.
	return a.remote == nil, nil
}

func (a *Adapter) localOrDefaults() *model.AppState {
	state, err := a.local.Load()
	if err != nil {
		log.Warn().Err(err).Msg("local state unreadable, using defaults")
		return model.DefaultState()
	}
	if state == nil {
		return model.DefaultState()
	}
	return state
}

func (a *Adapter) remember(state *model.AppState) *model.AppState {
	a.mu.Lock()
	a.lastKnown = state
	a.mu.Unlock()
	return state
}
