package store

import (
	"context"

	"github.com/centralake/site-server-go/internal/model"
)

// RemoteState is the durable cloud tier: one row in a shared key-value table
// holding the serialized ApplicationState.
type RemoteState interface {
	Init(ctx context.Context) error
	FetchState(ctx context.Context) (*model.AppState, error)
	WriteState(ctx context.Context, state *model.AppState) error
	AppendSubmission(ctx context.Context, sub model.ContactSubmission) (*model.AppState, error)
	Ping(ctx context.Context) error
}

// LocalState is the single-slot fallback store on local disk. It is not a
// cache: after a remote write fails, reads may observe only this (possibly
// older) copy until the remote is reachable again.
type LocalState interface {
	Load() (*model.AppState, error)
	Save(state *model.AppState) error
	Export() (string, error)
	Import(raw string) error
}
