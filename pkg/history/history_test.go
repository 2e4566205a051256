package history

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hashicorp-forge/infobip-go/pkg/database"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(Config{Driver: database.DriverSQLite, DSN: ":memory:"}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpen_LogsPoolStats(t *testing.T) {
	var buf bytes.Buffer
	log := hclog.New(&hclog.LoggerOptions{Output: &buf, Level: hclog.Debug})

	store, err := Open(Config{Driver: database.DriverSQLite, DSN: ":memory:"}, log)
	require.NoError(t, err)
	defer store.Close()

	out := buf.String()
	assert.Contains(t, out, "history store open")
	assert.Contains(t, out, "max_open_connections=1")
}

func TestRecordAndFind(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	e := &Entry{Kind: KindSMS, ExternalID: "m-1", To: "41793026727", From: "InfoSMS", Status: "PENDING", APIVersion: 2}
	require.NoError(t, store.Record(ctx, e))
	assert.NotZero(t, e.ID)

	got, err := store.Find(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "41793026727", got.To)
	assert.Equal(t, "PENDING", got.Status)
	assert.Equal(t, 2, got.APIVersion)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRecord_UpdatesStatus(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Record(ctx, &Entry{Kind: KindSMS, ExternalID: "m-1", Status: "PENDING"}))
	require.NoError(t, store.Record(ctx, &Entry{Kind: KindSMS, ExternalID: "m-1", Status: "DELIVERED"}))

	got, err := store.Find(ctx, "m-1")
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", got.Status)

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecord_Invalid(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	assert.Error(t, store.Record(ctx, &Entry{Kind: KindSMS}))
	assert.Error(t, store.Record(ctx, &Entry{Kind: "email", ExternalID: "x"}))
}

func TestFind_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.Find(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entries := []*Entry{
		{Kind: KindSMS, ExternalID: "m-1", CreatedAt: base},
		{Kind: KindPin, ExternalID: "p-1", CreatedAt: base.Add(time.Minute)},
		{Kind: KindSMS, ExternalID: "m-2", CreatedAt: base.Add(2 * time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Record(ctx, e))
	}

	all, err := store.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m-2", all[0].ExternalID)
	assert.Equal(t, "m-1", all[2].ExternalID)

	recent, err := store.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	sms, err := store.List(ctx, KindSMS, 0)
	require.NoError(t, err)
	require.Len(t, sms, 2)
	for _, e := range sms {
		assert.Equal(t, KindSMS, e.Kind)
	}
}
