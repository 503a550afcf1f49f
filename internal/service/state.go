package service

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/model"
)

// StateStore is what the container needs from the persistent store adapter.
type StateStore interface {
	FetchState(ctx context.Context) *model.AppState
	WriteContent(ctx context.Context, doc model.ContentDocument) (bool, error)
	AppendSubmission(ctx context.Context, sub model.ContactSubmission) (*model.AppState, bool, error)
	WriteClients(ctx context.Context, clientID string, rec model.ClientRecord) (*model.AppState, bool, error)
}

// ContentListener is notified after the container adopts new content, e.g. to
// re-assert the site icon.
type ContentListener func(model.ContentDocument)

// StateContainer is the single in-memory source of truth consumed by the
// HTTP layer, and the single writer through which the admin console and the
// contact form mutate state. Session identities live in the SessionManager
// and are never touched by state refreshes.
type StateContainer struct {
	store     StateStore
	onContent ContentListener

	mu    sync.RWMutex
	state model.AppState
}

// NewStateContainer seeds synchronously so the first render never blocks on a
// round trip; callers trigger an asynchronous Refresh after construction.
func NewStateContainer(store StateStore, seed *model.AppState, onContent ContentListener) *StateContainer {
	if seed == nil {
		seed = model.DefaultState()
	}
	seed.CurrentUser = nil
	return &StateContainer{
		store:     store,
		onContent: onContent,
		state:     *seed,
	}
}

// Snapshot returns a deep copy of the current state.
func (c *StateContainer) Snapshot() *model.AppState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Clone()
}

// Refresh is the silent background sync: it adopts whatever the adapter
// returns and never surfaces a failure to the user. It may run repeatedly
// and concurrently; the container reflects the most recently completed
// fetch. When two refreshes are in flight, the one that resolves last wins
// regardless of issue order.
func (c *StateContainer) Refresh(ctx context.Context) {
	state := c.store.FetchState(ctx)
	if state == nil {
		log.Warn().Msg("refresh produced no state, keeping current view")
		return
	}
	c.adopt(state)
}

// PublishContent writes the draft through the adapter. The container adopts
// the draft locally even when the remote write does not confirm, so the admin
// keeps their edit and can retry; confirmed tells them which happened.
func (c *StateContainer) PublishContent(ctx context.Context, draft model.ContentDocument) (bool, error) {
	confirmed, err := c.store.WriteContent(ctx, draft)

	c.mu.Lock()
	c.state.SiteContent = draft
	c.mu.Unlock()
	c.notify(draft)

	return confirmed, err
}

type SubmissionParams struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (p SubmissionParams) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperrors.MissingRequired("name")
	}
	if strings.TrimSpace(p.Email) == "" {
		return apperrors.MissingRequired("email")
	}
	if !strings.Contains(p.Email, "@") {
		return apperrors.InvalidInput("email", "must be an email address")
	}
	if strings.TrimSpace(p.Message) == "" {
		return apperrors.MissingRequired("message")
	}
	return nil
}

// RecordSubmission validates before any I/O, appends through the adapter and
// adopts the returned authoritative state.
func (c *StateContainer) RecordSubmission(ctx context.Context, params SubmissionParams) (*model.ContactSubmission, bool, error) {
	if err := params.validate(); err != nil {
		return nil, false, err
	}

	sub := model.NewContactSubmission(params.Name, params.Email, params.Company, params.Subject, params.Message)
	state, confirmed, err := c.store.AppendSubmission(ctx, sub)
	if err != nil {
		return nil, false, err
	}
	c.adopt(state)
	return &sub, confirmed, nil
}

// UpdateClient replaces one client record through the full-state path.
func (c *StateContainer) UpdateClient(ctx context.Context, clientID string, rec model.ClientRecord) (bool, error) {
	state, confirmed, err := c.store.WriteClients(ctx, clientID, rec)
	if err != nil {
		return false, err
	}
	c.adopt(state)
	return confirmed, nil
}

// ClientRecord looks up the record for one client identity. Absent records
// fail softly: the portal renders "no record", never another client's data.
func (c *StateContainer) ClientRecord(clientID string) (model.ClientRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	rec, ok := c.state.Clients[clientID]
	if ok {
		rec.Documents = append([]model.DocumentRef(nil), rec.Documents...)
	}
	return rec, ok
}

// adopt replaces the shared document fields. Identity is session-scoped and
// lives elsewhere, so a refresh can never log anyone out.
func (c *StateContainer) adopt(state *model.AppState) {
	c.mu.Lock()
	c.state.SiteContent = state.SiteContent
	c.state.Clients = state.Clients
	c.state.ContactSubmissions = state.ContactSubmissions
	doc := state.SiteContent
	c.mu.Unlock()

	c.notify(doc)
}

func (c *StateContainer) notify(doc model.ContentDocument) {
	if c.onContent != nil {
		c.onContent(doc)
	}
}
