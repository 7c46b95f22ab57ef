package roster_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"conduit/pkg/roster"
)

type fakeFetcher struct {
	entries []roster.Entry
	err     error
	calls   int
}

func (f *fakeFetcher) GetRoster(ctx context.Context) ([]roster.Entry, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func TestStoreEagerLoadsOnInit(t *testing.T) {
	fetcher := &fakeFetcher{entries: []roster.Entry{{"id": float64(1)}}}

	store := roster.NewStore(context.Background(), fetcher)

	require.Equal(t, 1, fetcher.calls)
	state := store.State()
	require.False(t, state.Loading)
	require.NoError(t, state.Err)
	require.Len(t, state.Entries, 1)
	require.Equal(t, state.Entries, store.Roster())
}

func TestLoadSuccessTransitions(t *testing.T) {
	fetcher := &fakeFetcher{entries: []roster.Entry{{"id": float64(1)}}}
	store := roster.NewStore(context.Background(), fetcher)

	var states []roster.State
	cancel := store.Subscribe(func(s roster.State) { states = append(states, s) })
	defer cancel()

	store.Load(context.Background())

	// loading on -> entries replaced -> loading off; no error at any point.
	require.Len(t, states, 3)
	require.True(t, states[0].Loading)
	require.True(t, states[1].Loading)
	require.Len(t, states[1].Entries, 1)
	require.False(t, states[2].Loading)
	for _, s := range states {
		require.NoError(t, s.Err)
	}
}

func TestLoadFailureKeepsPreviousEntries(t *testing.T) {
	fetcher := &fakeFetcher{entries: []roster.Entry{{"id": float64(1)}}}
	store := roster.NewStore(context.Background(), fetcher)
	require.Len(t, store.Roster(), 1)

	var states []roster.State
	cancel := store.Subscribe(func(s roster.State) { states = append(states, s) })
	defer cancel()

	failure := errors.New("boom")
	fetcher.err = failure
	store.Load(context.Background())

	require.Len(t, states, 3)
	require.True(t, states[0].Loading)
	require.ErrorIs(t, states[1].Err, failure)
	require.False(t, states[2].Loading)

	// The stale roster survives the failed reload.
	state := store.State()
	require.ErrorIs(t, state.Err, failure)
	require.Len(t, state.Entries, 1)
}

func TestErrorNotClearedBySuccess(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("down")}
	store := roster.NewStore(context.Background(), fetcher)
	require.Error(t, store.State().Err)

	// Error and entries are independent fields; success overwrites only the
	// entries.
	fetcher.err = nil
	fetcher.entries = []roster.Entry{{"id": float64(2)}}
	store.Load(context.Background())

	state := store.State()
	require.Error(t, state.Err)
	require.Len(t, state.Entries, 1)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	fetcher := &fakeFetcher{}
	store := roster.NewStore(context.Background(), fetcher)

	calls := 0
	cancel := store.Subscribe(func(roster.State) { calls++ })
	store.Load(context.Background())
	require.Equal(t, 3, calls)

	cancel()
	store.Load(context.Background())
	require.Equal(t, 3, calls)
}
