package sync

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/store"
	"github.com/joelwehr/ppclog/internal/transport"
)

type fakeTokens struct {
	token      string
	refreshErr error
	refreshed  int
	onRefresh  func()
}

func (f *fakeTokens) Token() string { return f.token }

func (f *fakeTokens) Refresh(ctx context.Context) error {
	f.refreshed++
	if f.refreshErr != nil {
		return f.refreshErr
	}
	if f.onRefresh != nil {
		f.onRefresh()
	}
	return nil
}

func testLogger() *events.Logger {
	return events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
}

// newTestStore opens a fresh database and clears the seeded template
// dirty flags so tests start from a fully synced state.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(filepath.Join(t.TempDir(), "test.db3"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	ctx := context.Background()
	dirty := make(map[string][]int64)
	for _, entityType := range st.EntityTypes() {
		recs, err := st.ListUnsynced(ctx, entityType)
		require.NoError(t, err)
		for _, rec := range recs {
			dirty[entityType] = append(dirty[entityType], rec.LocalID())
		}
	}
	require.NoError(t, st.MarkAllSynced(ctx, dirty))
	return st
}

func emptyPull() map[string]interface{} {
	return map[string]interface{}{
		"data":        map[string]interface{}{},
		"server_time": "2026-09-01T10:00:00Z",
	}
}

func TestRunSkipsWithoutSession(t *testing.T) {
	st := newTestStore(t)
	mock := transport.NewMockClient()
	engine := NewEngine(st, mock, &fakeTokens{token: ""}, testLogger())

	require.NoError(t, engine.Run(context.Background()))

	assert.Empty(t, mock.Requests, "no requests without a session")
	select {
	case <-engine.Events():
		t.Fatal("skipped run must not emit an event")
	default:
	}
}

func TestPullMergesServerRecords(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, map[string]interface{}{
		"data": map[string]interface{}{
			"ppc_frames": []interface{}{
				map[string]interface{}{
					"id":           7,
					"manufacturer": "Six Chuter",
					"model":        "P3 Lite",
					"is_active":    true,
					"created_at":   "2026-08-01T12:00:00Z",
				},
			},
			"flights": []interface{}{
				map[string]interface{}{
					"id":               101,
					"flight_date":      "2026-08-15T00:00:00Z",
					"duration_minutes": 42,
					"location":         "East Field",
					"created_at":       "2026-08-15T14:00:00Z",
				},
			},
		},
		"server_time": "2026-09-01T10:00:00Z",
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	flights, err := st.ListFlights(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	f := flights[0]
	require.NotNil(t, f.RemoteID)
	assert.Equal(t, int64(101), *f.RemoteID)
	assert.Equal(t, models.StatusSynced, f.SyncStatus)
	assert.Equal(t, "East Field", *f.Location)

	frames, err := st.ListPpcFrames(ctx)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "Six Chuter P3 Lite", frames[0].DisplayName())

	watermark, err := st.Setting(models.SettingLastSync)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01T10:00:00Z", watermark)
}

func TestPullOverwritesByServerID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	record := func(location string) map[string]interface{} {
		return map[string]interface{}{
			"data": map[string]interface{}{
				"flights": []interface{}{
					map[string]interface{}{
						"id":          101,
						"flight_date": "2026-08-15T00:00:00Z",
						"location":    location,
						"created_at":  "2026-08-15T14:00:00Z",
					},
				},
			},
			"server_time": "2026-09-01T10:00:00Z",
		}
	}

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, record("East Field"))

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	// Same server record arrives again, edited, on the next cycle.
	mock.AddGetResponse(pathPull+"?since=2026-09-01T10%3A00%3A00Z", record("West Field"))
	require.NoError(t, engine.Run(ctx))

	flights, err := st.ListFlights(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1, "re-pulled record must update, not duplicate")
	assert.Equal(t, "West Field", *flights[0].Location)
	assert.Equal(t, models.StatusSynced, flights[0].SyncStatus)
}

func TestPushRemapsNewRecordIDs(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	location := "Home Strip"
	flight := &models.Flight{
		FlightDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Location:   &location,
	}
	require.NoError(t, st.SaveFlight(ctx, flight))

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())
	mock.AddPostResponse(pathPush, map[string]interface{}{
		"id_map": map[string]interface{}{
			"flights": map[string]interface{}{
				"1": 501,
			},
		},
		"server_time": "2026-09-01T10:00:05Z",
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	got, err := st.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RemoteID)
	assert.Equal(t, int64(501), *got.RemoteID)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)

	watermark, _ := st.Setting(models.SettingLastSync)
	assert.Equal(t, "2026-09-01T10:00:05Z", watermark)

	// Wire shape: local-only fields stripped, no server id for a
	// never-pushed record, local_id present for the id map.
	posts := mock.RequestsFor("POST", pathPush)
	require.Len(t, posts, 1)
	payload := posts[0].Payload.(map[string]interface{})
	entities := payload["entities"].(map[string]interface{})
	records := entities["flights"].([]interface{})
	require.Len(t, records, 1)
	rec := records[0].(map[string]interface{})
	assert.NotContains(t, rec, "sync_status")
	assert.NotContains(t, rec, "remote_id")
	assert.NotContains(t, rec, "id")
	assert.Equal(t, float64(flight.ID), rec["local_id"])
	assert.Equal(t, "Home Strip", rec["location"])
}

func TestPushModifiedRecordCarriesServerID(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, map[string]interface{}{
		"data": map[string]interface{}{
			"flights": []interface{}{
				map[string]interface{}{
					"id":          101,
					"flight_date": "2026-08-15T00:00:00Z",
					"created_at":  "2026-08-15T14:00:00Z",
				},
			},
		},
		"server_time": "2026-09-01T10:00:00Z",
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	// Edit the pulled record locally.
	flights, err := st.ListFlights(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	notes := "smooth evening air"
	flights[0].Notes = &notes
	require.NoError(t, st.SaveFlight(ctx, flights[0]))

	mock.AddGetResponse(pathPull+"?since=2026-09-01T10%3A00%3A00Z", emptyPull())
	mock.AddPostResponse(pathPush, map[string]interface{}{
		"id_map":      map[string]interface{}{},
		"server_time": "2026-09-01T11:00:00Z",
	})
	require.NoError(t, engine.Run(ctx))

	posts := mock.RequestsFor("POST", pathPush)
	require.Len(t, posts, 1)
	payload := posts[0].Payload.(map[string]interface{})
	entities := payload["entities"].(map[string]interface{})
	records := entities["flights"].([]interface{})
	require.Len(t, records, 1)
	rec := records[0].(map[string]interface{})
	assert.Equal(t, float64(101), rec["id"], "known record pushes the server id")
	assert.NotContains(t, rec, "remote_id")
}

func TestPushSkippedWhenNothingDirty(t *testing.T) {
	st := newTestStore(t)

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(context.Background()))

	assert.Empty(t, mock.RequestsFor("POST", pathPush),
		"a clean database must not issue a push request")
}

func TestPushMarksEverythingSyncedDespiteSparseIDMap(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, loc := range []string{"A", "B"} {
		l := loc
		require.NoError(t, st.SaveFlight(ctx, &models.Flight{
			FlightDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
			Location:   &l,
		}))
	}

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())
	// Server acknowledges the batch but maps only one record.
	mock.AddPostResponse(pathPush, map[string]interface{}{
		"id_map": map[string]interface{}{
			"flights": map[string]interface{}{"1": 601},
		},
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	for _, entityType := range st.EntityTypes() {
		recs, err := st.ListUnsynced(ctx, entityType)
		require.NoError(t, err)
		assert.Empty(t, recs, "no %s may stay dirty after an accepted push", entityType)
	}
}

// insertingClient runs a hook right before the push request goes out,
// for tests that dirty the store while a batch is in flight.
type insertingClient struct {
	*transport.MockClient
	beforePost func()
}

func (c *insertingClient) PostJSON(ctx context.Context, path string, payload, out interface{}) error {
	if c.beforePost != nil {
		c.beforePost()
		c.beforePost = nil
	}
	return c.MockClient.PostJSON(ctx, path, payload, out)
}

func TestRecordsDirtiedDuringPushStayPending(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	batched := "East Field"
	first := &models.Flight{
		FlightDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		Location:   &batched,
	}
	require.NoError(t, st.SaveFlight(ctx, first))

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())
	mock.AddPostResponse(pathPush, map[string]interface{}{
		"id_map": map[string]interface{}{
			"flights": map[string]interface{}{"1": 601},
		},
	})

	// A second flight lands in the database after the batch was
	// collected, while the push request is still in flight.
	var late *models.Flight
	client := &insertingClient{
		MockClient: mock,
		beforePost: func() {
			location := "West Field"
			late = &models.Flight{
				FlightDate: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC),
				Location:   &location,
			}
			require.NoError(t, st.SaveFlight(ctx, late))
		},
	}

	engine := NewEngine(st, client, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	got, err := st.GetFlight(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	require.NotNil(t, got.RemoteID)
	assert.Equal(t, int64(601), *got.RemoteID)

	// The late record was never in the batch: it must stay pending so
	// the next cycle uploads it.
	pending, err := st.ListUnsynced(ctx, models.TypeFlights)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, late.ID, pending[0].LocalID())

	gotLate, err := st.GetFlight(ctx, late.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, gotLate.SyncStatus)
	assert.Nil(t, gotLate.RemoteID)
}

func TestWatermarkHeldOnMergeFailure(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.SetSetting(models.SettingLastSync, "2026-08-01T00:00:00Z"))

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull+"?since=2026-08-01T00%3A00%3A00Z", map[string]interface{}{
		"data": map[string]interface{}{
			"flights": []interface{}{
				map[string]interface{}{"id": "not-a-number"},
			},
		},
		"server_time": "2026-09-01T10:00:00Z",
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.Error(t, engine.Run(ctx))

	watermark, err := st.Setting(models.SettingLastSync)
	require.NoError(t, err)
	assert.Equal(t, "2026-08-01T00:00:00Z", watermark,
		"watermark must not advance past a failed merge")
}

func TestUnauthorizedTriggersSingleRefreshAndRetry(t *testing.T) {
	st := newTestStore(t)

	mock := transport.NewMockClient()
	mock.AddError(pathPull, &models.APIError{StatusCode: 401, Message: "token expired"})
	mock.AddGetResponse(pathPull, emptyPull())

	tokens := &fakeTokens{token: "stale"}
	tokens.onRefresh = func() {
		tokens.token = "fresh"
		mock.ClearError(pathPull)
	}

	engine := NewEngine(st, mock, tokens, testLogger())
	require.NoError(t, engine.Run(context.Background()))

	assert.Equal(t, 1, tokens.refreshed)
	assert.Len(t, mock.RequestsFor("GET", pathPull), 2, "rejected pull plus one retry")
}

func TestRefreshFailureFailsCycle(t *testing.T) {
	st := newTestStore(t)

	mock := transport.NewMockClient()
	mock.AddError(pathPull, &models.APIError{StatusCode: 401, Message: "token expired"})

	tokens := &fakeTokens{token: "stale", refreshErr: models.ErrRefreshFailed}
	engine := NewEngine(st, mock, tokens, testLogger())

	err := engine.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrRefreshFailed)
	assert.Equal(t, 1, tokens.refreshed, "refresh is attempted exactly once")
	assert.Len(t, mock.RequestsFor("GET", pathPull), 1, "no retry after failed refresh")
}

func TestExactlyOneEventPerExecutedCycle(t *testing.T) {
	st := newTestStore(t)

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(context.Background()))

	select {
	case event := <-engine.Events():
		assert.True(t, event.Completed)
		assert.NoError(t, event.Err)
	default:
		t.Fatal("expected a completion event")
	}
	select {
	case <-engine.Events():
		t.Fatal("a cycle must emit exactly one event")
	default:
	}

	// A failed cycle also emits exactly one event.
	mock.AddError(pathPull, &models.APIError{StatusCode: 500, Message: "boom"})
	require.Error(t, engine.Run(context.Background()))

	select {
	case event := <-engine.Events():
		assert.False(t, event.Completed)
		assert.Error(t, event.Err)
	default:
		t.Fatal("expected a failure event")
	}
}

// gatedClient blocks the first pull until released, for overlap tests.
type gatedClient struct {
	*transport.MockClient
	gate    chan struct{}
	entered chan struct{}
}

func (g *gatedClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	select {
	case g.entered <- struct{}{}:
	default:
	}
	<-g.gate
	return g.MockClient.GetJSON(ctx, path, out)
}

func TestOverlappingRunIsDropped(t *testing.T) {
	st := newTestStore(t)

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())
	gated := &gatedClient{
		MockClient: mock,
		gate:       make(chan struct{}),
		entered:    make(chan struct{}, 1),
	}

	engine := NewEngine(st, gated, &fakeTokens{token: "tok"}, testLogger())

	done := make(chan error, 1)
	go func() { done <- engine.Run(context.Background()) }()
	<-gated.entered

	// Second run while the first is mid-pull: dropped, no error, no
	// event.
	require.NoError(t, engine.Run(context.Background()))
	select {
	case <-engine.Events():
		t.Fatal("dropped run must not emit an event")
	default:
	}

	close(gated.gate)
	require.NoError(t, <-done)

	select {
	case event := <-engine.Events():
		assert.True(t, event.Completed)
	case <-time.After(time.Second):
		t.Fatal("first run should have completed with an event")
	}
}

func TestPullIgnoresUnknownEntityTypes(t *testing.T) {
	st := newTestStore(t)

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, map[string]interface{}{
		"data": map[string]interface{}{
			"hang_gliders": []interface{}{
				map[string]interface{}{"id": 1},
			},
		},
		"server_time": "2026-09-01T10:00:00Z",
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(context.Background()))

	watermark, _ := st.Setting(models.SettingLastSync)
	assert.Equal(t, "2026-09-01T10:00:00Z", watermark)
}

func TestSeededTemplatesArePushed(t *testing.T) {
	// A brand new database carries the default checklists as New
	// records, so the first push uploads them.
	st, err := store.Open(filepath.Join(t.TempDir(), "fresh.db3"), testLogger())
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	templates, err := st.ListUnsynced(ctx, models.TypeChecklistTemplates)
	require.NoError(t, err)
	assert.NotEmpty(t, templates)

	mock := transport.NewMockClient()
	mock.AddGetResponse(pathPull, emptyPull())
	mock.AddPostResponse(pathPush, map[string]interface{}{
		"id_map": map[string]interface{}{},
	})

	engine := NewEngine(st, mock, &fakeTokens{token: "tok"}, testLogger())
	require.NoError(t, engine.Run(ctx))

	posts := mock.RequestsFor("POST", pathPush)
	require.Len(t, posts, 1)
	payload := posts[0].Payload.(map[string]interface{})
	entities := payload["entities"].(map[string]interface{})
	assert.Contains(t, entities, "checklist_templates")
	assert.Contains(t, entities, "checklist_template_items")
}
