package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	options "github.com/goliatone/go-appoptions"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "options.db")
	s, err := NewSQLiteStore(path, SQLiteWithLogger(zerolog.Nop()))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)
	ref := Ref{Section: "General", Name: "Report Title"}

	_, ok, err := s.Load(ctx, ref)
	require.NoError(t, err)
	require.False(t, ok)

	record := Record{Type: options.StorageString, Value: json.RawMessage(`"Invoice"`)}
	require.NoError(t, s.Save(ctx, ref, record))

	loaded, ok, err := s.Load(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, options.StorageString, loaded.Type)
	require.JSONEq(t, `"Invoice"`, string(loaded.Value))
	require.False(t, loaded.UpdatedAt.IsZero())
}

func TestSQLiteStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)
	ref := Ref{Section: "General", Name: "Report Title"}

	require.NoError(t, s.Save(ctx, ref, Record{Type: options.StorageString, Value: json.RawMessage(`"First"`)}))
	require.NoError(t, s.Save(ctx, ref, Record{Type: options.StorageString, Value: json.RawMessage(`"Second"`)}))

	loaded, ok, err := s.Load(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `"Second"`, string(loaded.Value))

	refs, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 1)
}

func TestSQLiteStoreDeleteAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Delete(ctx, Ref{Section: "General", Name: "Missing"}))

	entries := []Ref{
		{Section: "Display", Name: "Plot Width"},
		{Section: "General", Name: "Report Title"},
		{Section: "General", Name: "Show Totals"},
	}
	for _, ref := range entries {
		require.NoError(t, s.Save(ctx, ref, Record{Type: options.StorageString, Value: json.RawMessage(`"v"`)}))
	}

	refs, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, entries, refs, "list must order by section then name")

	require.NoError(t, s.Delete(ctx, entries[1]))
	refs, err = s.List(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 2)
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "options.db")

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	ref := Ref{Section: "General", Name: "Report Title"}
	require.NoError(t, s.Save(ctx, ref, Record{Type: options.StorageString, Value: json.RawMessage(`"Invoice"`)}))
	require.NoError(t, s.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	loaded, ok, err := reopened.Load(ctx, ref)
	require.NoError(t, err)
	require.True(t, ok)
	require.JSONEq(t, `"Invoice"`, string(loaded.Value))
}
