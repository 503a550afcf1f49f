package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/centralake/site-server-go/internal/database"
	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/model"
)

// The whole site state lives in one row, mirroring the original single
// JSONB-document design.
const stateRowID = "global_config"

type RemoteStore struct {
	db *database.DB
}

func NewRemoteStore(db *database.DB) *RemoteStore {
	return &RemoteStore{db: db}
}

// Init provisions the state table. Safe to call repeatedly.
func (r *RemoteStore) Init(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS app_state (
			id TEXT PRIMARY KEY,
			data JSONB NOT NULL
		)
	`)
	if err != nil {
		return apperrors.Transport(err)
	}
	return nil
}

func (r *RemoteStore) FetchState(ctx context.Context) (*model.AppState, error) {
	return r.fetch(ctx, r.db, false)
}

func (r *RemoteStore) fetch(ctx context.Context, q database.DBTX, forUpdate bool) (*model.AppState, error) {
	query := `SELECT data FROM app_state WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var raw []byte
	err := q.GetContext(ctx, &raw, query, stateRowID)
	if errors.Is(err, sql.ErrNoRows) {
		// Row absent is an explicit result, not a transport failure.
		return nil, apperrors.NoRecord()
	}
	if err != nil {
		return nil, apperrors.Transport(err)
	}

	var state model.AppState
	if err := json.Unmarshal(raw, &state); err != nil {
		// A malformed body counts as a failed read, same as no response.
		return nil, apperrors.Transport(err)
	}
	return &state, nil
}

func (r *RemoteStore) WriteState(ctx context.Context, state *model.AppState) error {
	return r.write(ctx, r.db, state)
}

func (r *RemoteStore) write(ctx context.Context, q database.DBTX, state *model.AppState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return apperrors.Internal("failed to serialize state").WithCause(err)
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO app_state (id, data)
		VALUES ($1, $2)
		ON CONFLICT (id)
		DO UPDATE SET data = EXCLUDED.data
	`, stateRowID, raw)
	if err != nil {
		return apperrors.Transport(err)
	}
	return nil
}

// AppendSubmission prepends under a row lock so two concurrent submissions
// cannot drop each other, and returns the resulting full state.
func (r *RemoteStore) AppendSubmission(ctx context.Context, sub model.ContactSubmission) (*model.AppState, error) {
	var out *model.AppState
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		state, err := r.fetch(ctx, tx, true)
		if apperrors.HasCode(err, apperrors.ErrCodeNoRecord) {
			state = model.DefaultState()
		} else if err != nil {
			return err
		}

		state.ContactSubmissions = append([]model.ContactSubmission{sub}, state.ContactSubmissions...)
		state.CurrentUser = nil
		if err := r.write(ctx, tx, state); err != nil {
			return err
		}
		out = state
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RemoteStore) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
