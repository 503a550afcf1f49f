package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/centralake/site-server-go/internal/errors"
	"github.com/centralake/site-server-go/internal/model"
)

// fakeRemote is a scriptable in-memory remote tier.
type fakeRemote struct {
	state      *model.AppState
	fetchErr   error
	writeErr   error
	pingErr    error
	initCalls  int
	writeCalls int
}

func (f *fakeRemote) Init(ctx context.Context) error {
	f.initCalls++
	return nil
}

func (f *fakeRemote) FetchState(ctx context.Context) (*model.AppState, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.state == nil {
		return nil, apperrors.NoRecord()
	}
	return f.state.Clone(), nil
}

func (f *fakeRemote) WriteState(ctx context.Context, state *model.AppState) error {
	f.writeCalls++
	if f.writeErr != nil {
		return f.writeErr
	}
	f.state = state.Clone()
	return nil
}

func (f *fakeRemote) AppendSubmission(ctx context.Context, sub model.ContactSubmission) (*model.AppState, error) {
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	state := f.state
	if state == nil {
		state = model.DefaultState()
	}
	state = state.Clone()
	state.ContactSubmissions = append([]model.ContactSubmission{sub}, state.ContactSubmissions...)
	state.CurrentUser = nil
	f.state = state
	return state.Clone(), nil
}

func (f *fakeRemote) Ping(ctx context.Context) error {
	return f.pingErr
}

func newTestAdapter(t *testing.T, remote RemoteState) (*Adapter, *LocalStore) {
	t.Helper()
	local := NewLocalStore(filepath.Join(t.TempDir(), "state.json"))
	return NewAdapter(remote, local), local
}

func TestFetchState(t *testing.T) {
	ctx := context.Background()

	t.Run("remote-first returns remote document verbatim", func(t *testing.T) {
		remoteState := model.DefaultState()
		remoteState.SiteContent.HeroTitle = "Remote"
		adapter, local := newTestAdapter(t, &fakeRemote{state: remoteState})

		localState := model.DefaultState()
		localState.SiteContent.HeroTitle = "Local"
		require.NoError(t, local.Save(localState))

		got := adapter.FetchState(ctx)
		assert.Equal(t, "Remote", got.SiteContent.HeroTitle)
	})

	t.Run("transport failure falls back to local slot", func(t *testing.T) {
		adapter, local := newTestAdapter(t, &fakeRemote{fetchErr: apperrors.Transport(errors.New("timeout"))})

		localState := model.DefaultState()
		localState.SiteContent.HeroTitle = "Local"
		require.NoError(t, local.Save(localState))

		got := adapter.FetchState(ctx)
		assert.Equal(t, "Local", got.SiteContent.HeroTitle)
	})

	t.Run("explicit no record resolves to defaults, not local", func(t *testing.T) {
		adapter, local := newTestAdapter(t, &fakeRemote{})

		localState := model.DefaultState()
		localState.SiteContent.HeroTitle = "Stale local"
		require.NoError(t, local.Save(localState))

		got := adapter.FetchState(ctx)
		assert.Equal(t, model.DefaultContent().HeroTitle, got.SiteContent.HeroTitle)
	})

	t.Run("no remote and no local yields compiled-in defaults", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, nil)
		got := adapter.FetchState(ctx)
		assert.Equal(t, model.DefaultContent().HeroTitle, got.SiteContent.HeroTitle)
		assert.Contains(t, got.Clients, "client_1")
		assert.Empty(t, got.ContactSubmissions)
	})
}

func TestWriteContent(t *testing.T) {
	ctx := context.Background()

	t.Run("round trips through the remote", func(t *testing.T) {
		remote := &fakeRemote{state: model.DefaultState()}
		adapter, _ := newTestAdapter(t, remote)

		doc := model.DefaultContent()
		doc.HeroTitle = "B"
		confirmed, err := adapter.WriteContent(ctx, doc)
		require.NoError(t, err)
		assert.True(t, confirmed)

		got := adapter.FetchState(ctx)
		assert.Equal(t, doc, got.SiteContent)
	})

	t.Run("offline publish persists to local slot unconfirmed", func(t *testing.T) {
		remote := &fakeRemote{state: model.DefaultState(), writeErr: apperrors.Transport(errors.New("down"))}
		adapter, local := newTestAdapter(t, remote)

		doc := model.DefaultContent()
		doc.HeroTitle = "B"
		confirmed, err := adapter.WriteContent(ctx, doc)
		require.NoError(t, err)
		assert.False(t, confirmed)

		saved, err := local.Load()
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "B", saved.SiteContent.HeroTitle)

		// Reload with remote still offline: the edit survives.
		remote.fetchErr = apperrors.Transport(errors.New("still down"))
		reloaded := NewAdapter(remote, local)
		assert.Equal(t, "B", reloaded.FetchState(ctx).SiteContent.HeroTitle)
	})

	t.Run("sandbox write is confirmed against the local tier", func(t *testing.T) {
		adapter, local := newTestAdapter(t, nil)

		doc := model.DefaultContent()
		doc.HeroTitle = "Sandbox edit"
		confirmed, err := adapter.WriteContent(ctx, doc)
		require.NoError(t, err)
		assert.True(t, confirmed)

		saved, err := local.Load()
		require.NoError(t, err)
		assert.Equal(t, "Sandbox edit", saved.SiteContent.HeroTitle)
	})

	t.Run("scrubs session identity from every write", func(t *testing.T) {
		remote := &fakeRemote{}
		adapter, _ := newTestAdapter(t, remote)

		seeded := model.DefaultState()
		seeded.CurrentUser = &model.Identity{ID: "admin_1", Role: model.RoleAdmin}
		adapter.mu.Lock()
		adapter.lastKnown = seeded
		adapter.mu.Unlock()

		_, err := adapter.WriteContent(ctx, model.DefaultContent())
		require.NoError(t, err)
		require.NotNil(t, remote.state)
		assert.Nil(t, remote.state.CurrentUser)
	})
}

func TestAppendSubmission(t *testing.T) {
	ctx := context.Background()

	t.Run("prepends newest first and returns full state", func(t *testing.T) {
		remote := &fakeRemote{state: model.DefaultState()}
		adapter, _ := newTestAdapter(t, remote)

		s1 := model.NewContactSubmission("A", "a@x.com", "", "", "first")
		s2 := model.NewContactSubmission("B", "b@x.com", "", "", "second")
		s3 := model.NewContactSubmission("C", "c@x.com", "", "", "third")

		for _, s := range []model.ContactSubmission{s1, s2, s3} {
			state, confirmed, err := adapter.AppendSubmission(ctx, s)
			require.NoError(t, err)
			assert.True(t, confirmed)
			assert.NotNil(t, state)
		}

		state, _, err := adapter.AppendSubmission(ctx, model.NewContactSubmission("D", "d@x.com", "", "", "fourth"))
		require.NoError(t, err)
		require.Len(t, state.ContactSubmissions, 4)
		assert.Equal(t, "fourth", state.ContactSubmissions[0].Message)
		assert.Equal(t, "third", state.ContactSubmissions[1].Message)
		assert.Equal(t, "second", state.ContactSubmissions[2].Message)
		assert.Equal(t, "first", state.ContactSubmissions[3].Message)
	})

	t.Run("falls back to local slot when remote append fails", func(t *testing.T) {
		remote := &fakeRemote{state: model.DefaultState(), writeErr: apperrors.Transport(errors.New("down"))}
		remote.fetchErr = apperrors.Transport(errors.New("down"))
		adapter, local := newTestAdapter(t, remote)

		state, confirmed, err := adapter.AppendSubmission(ctx, model.NewContactSubmission("A", "a@x.com", "", "", "offline note"))
		require.NoError(t, err)
		assert.False(t, confirmed)
		require.Len(t, state.ContactSubmissions, 1)

		saved, err := local.Load()
		require.NoError(t, err)
		require.Len(t, saved.ContactSubmissions, 1)
		assert.Equal(t, "offline note", saved.ContactSubmissions[0].Message)
	})
}

func TestWriteClients(t *testing.T) {
	ctx := context.Background()

	remote := &fakeRemote{state: model.DefaultState()}
	adapter, _ := newTestAdapter(t, remote)

	rec := model.ClientRecord{PortfolioValue: "$1", QuarterlyReturn: "+1.0%", LatestReportDate: "2025-Q1"}
	state, confirmed, err := adapter.WriteClients(ctx, "client_9", rec)
	require.NoError(t, err)
	assert.True(t, confirmed)
	require.Contains(t, state.Clients, "client_9")
	assert.Equal(t, "client_9", state.Clients["client_9"].ClientID)
	// Existing records survive the replacement path.
	assert.Contains(t, state.Clients, "client_1")
}

func TestHealthCheck(t *testing.T) {
	ctx := context.Background()

	t.Run("sandbox is never cloud active", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, nil)
		assert.False(t, adapter.HealthCheck(ctx))
		assert.True(t, adapter.Sandbox())
	})

	t.Run("reflects remote reachability", func(t *testing.T) {
		remote := &fakeRemote{}
		adapter, _ := newTestAdapter(t, remote)
		assert.True(t, adapter.HealthCheck(ctx))

		remote.pingErr = errors.New("refused")
		assert.False(t, adapter.HealthCheck(ctx))
	})
}

func TestInit(t *testing.T) {
	ctx := context.Background()

	t.Run("sandbox init is a validation error", func(t *testing.T) {
		adapter, _ := newTestAdapter(t, nil)
		err := adapter.Init(ctx)
		assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))
	})

	t.Run("delegates to the remote", func(t *testing.T) {
		remote := &fakeRemote{}
		adapter, _ := newTestAdapter(t, remote)
		require.NoError(t, adapter.Init(ctx))
		require.NoError(t, adapter.Init(ctx))
		assert.Equal(t, 2, remote.initCalls)
	})
}
