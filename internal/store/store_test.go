package store

import (
	"context"
	"encoding/json"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	logger := events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
	s, err := Open(filepath.Join(t.TempDir(), "test.db3"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenAssignsClientID(t *testing.T) {
	s := openTestStore(t)

	id, err := s.ClientID()
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	// Stable across reads.
	again, err := s.ClientID()
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestSettingsRoundTrip(t *testing.T) {
	s := openTestStore(t)

	v, err := s.Setting("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetSetting(models.SettingLastSync, "2026-09-01T00:00:00Z"))
	v, err = s.Setting(models.SettingLastSync)
	require.NoError(t, err)
	assert.Equal(t, "2026-09-01T00:00:00Z", v)

	require.NoError(t, s.SetSetting(models.SettingLastSync, "2026-09-02T00:00:00Z"))
	v, _ = s.Setting(models.SettingLastSync)
	assert.Equal(t, "2026-09-02T00:00:00Z", v)

	require.NoError(t, s.DeleteSetting(models.SettingLastSync))
	v, _ = s.Setting(models.SettingLastSync)
	assert.Empty(t, v)
}

func TestSaveFlightStatusTransitions(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	flight := &models.Flight{FlightDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveFlight(ctx, flight))
	require.NotZero(t, flight.ID)
	assert.Equal(t, models.StatusNew, flight.SyncStatus)
	assert.Nil(t, flight.ModifiedAt)

	// Updating a never-pushed record keeps it New.
	loc := "East Field"
	flight.Location = &loc
	require.NoError(t, s.SaveFlight(ctx, flight))
	assert.Equal(t, models.StatusNew, flight.SyncStatus)
	assert.NotNil(t, flight.ModifiedAt)

	// A pushed record degrades to Modified on edit.
	require.NoError(t, s.MarkSynced(ctx, models.TypeFlights, flight.ID, 900))
	got, err := s.GetFlight(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusSynced, got.SyncStatus)
	require.NotNil(t, got.RemoteID)
	assert.Equal(t, int64(900), *got.RemoteID)

	notes := "windy"
	got.Notes = &notes
	require.NoError(t, s.SaveFlight(ctx, got))
	assert.Equal(t, models.StatusModified, got.SyncStatus)
}

func TestGetFlightNotFound(t *testing.T) {
	s := openTestStore(t)

	_, err := s.GetFlight(context.Background(), 9999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestOpenFlightFindsActiveSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.OpenFlight(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	now := time.Now()
	flight := &models.Flight{FlightDate: now, StartTime: &now}
	require.NoError(t, s.SaveFlight(ctx, flight))

	open, err := s.OpenFlight(ctx)
	require.NoError(t, err)
	assert.Equal(t, flight.ID, open.ID)

	end := now.Add(45 * time.Minute)
	open.EndTime = &end
	require.NoError(t, s.SaveFlight(ctx, open))

	_, err = s.OpenFlight(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMergeRemoteInsertsThenUpdates(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	record := func(loc string) json.RawMessage {
		data, _ := json.Marshal(map[string]interface{}{
			"id":          42,
			"flight_date": "2026-08-15T00:00:00Z",
			"location":    loc,
			"created_at":  "2026-08-15T12:00:00Z",
		})
		return data
	}

	require.NoError(t, s.MergeRemote(ctx, models.TypeFlights, record("East Field")))

	flights, err := s.ListFlights(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	f := flights[0]
	require.NotNil(t, f.RemoteID)
	assert.Equal(t, int64(42), *f.RemoteID)
	assert.Equal(t, models.StatusSynced, f.SyncStatus)
	assert.NotEqual(t, int64(42), f.ID, "local id is assigned locally")

	// Second merge of the same server record overwrites in place,
	// even over local edits.
	notes := "local edit"
	f.Notes = &notes
	require.NoError(t, s.SaveFlight(ctx, f))

	require.NoError(t, s.MergeRemote(ctx, models.TypeFlights, record("West Field")))
	flights, err = s.ListFlights(ctx)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, "West Field", *flights[0].Location)
	assert.Nil(t, flights[0].Notes, "server copy wins wholesale")
	assert.Equal(t, models.StatusSynced, flights[0].SyncStatus)
}

func TestMergeRemoteUnknownType(t *testing.T) {
	s := openTestStore(t)

	err := s.MergeRemote(context.Background(), "gliders", json.RawMessage(`{"id":1}`))
	assert.ErrorIs(t, err, models.ErrUnknownEntity)
}

func TestListUnsyncedFiltersByStatus(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dirty := &models.Flight{FlightDate: time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveFlight(ctx, dirty))

	clean := &models.Flight{FlightDate: time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveFlight(ctx, clean))
	require.NoError(t, s.MarkSynced(ctx, models.TypeFlights, clean.ID, 77))

	recs, err := s.ListUnsynced(ctx, models.TypeFlights)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, dirty.ID, recs[0].LocalID())
}

func TestMarkAllSyncedOnlyTouchesListedRecords(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	frame := &models.PpcFrame{IsActive: true}
	require.NoError(t, s.SavePpcFrame(ctx, frame))
	maint := &models.MaintenanceLog{
		PpcFrameID:      frame.ID,
		MaintenanceDate: time.Now(),
	}
	require.NoError(t, s.SaveMaintenanceLog(ctx, maint))

	// Dirtied after the batch above was assembled.
	straggler := &models.Flight{FlightDate: time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)}
	require.NoError(t, s.SaveFlight(ctx, straggler))

	require.NoError(t, s.MarkAllSynced(ctx, map[string][]int64{
		models.TypePpcFrames:       {frame.ID},
		models.TypeMaintenanceLogs: {maint.ID},
	}))

	frames, err := s.ListUnsynced(ctx, models.TypePpcFrames)
	require.NoError(t, err)
	assert.Empty(t, frames)
	maints, err := s.ListUnsynced(ctx, models.TypeMaintenanceLogs)
	require.NoError(t, err)
	assert.Empty(t, maints)

	// The straggler keeps its status and its empty remote id.
	flights, err := s.ListUnsynced(ctx, models.TypeFlights)
	require.NoError(t, err)
	require.Len(t, flights, 1)
	assert.Equal(t, straggler.ID, flights[0].LocalID())

	got, err := s.GetFlight(ctx, straggler.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusNew, got.SyncStatus)
	assert.Nil(t, got.RemoteID)
}

func TestDefaultTemplatesSeededOnce(t *testing.T) {
	logger := events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
	path := filepath.Join(t.TempDir(), "seed.db3")

	s, err := Open(path, logger)
	require.NoError(t, err)
	ctx := context.Background()

	templates, err := s.ListChecklistTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, templates, 11)
	assert.Equal(t, "Pre-Flight (Detailed)", templates[0].Name)

	// Seeded rows count as locally created so they upload.
	for _, tpl := range templates {
		assert.Equal(t, models.StatusNew, tpl.SyncStatus)
		assert.True(t, tpl.IsDefault)
	}

	items, err := s.ListChecklistTemplateItems(ctx, templates[0].ID)
	require.NoError(t, err)
	assert.NotEmpty(t, items)

	practice := templates[len(templates)-1]
	assert.Equal(t, "In-Flight Practice", practice.Name)
	practiceItems, err := s.ListChecklistTemplateItems(ctx, practice.ID)
	require.NoError(t, err)
	for _, item := range practiceItems {
		assert.Equal(t, models.ItemCounter, item.ItemType)
	}

	require.NoError(t, s.Close())

	// Reopening must not duplicate the seed.
	s2, err := Open(path, logger)
	require.NoError(t, err)
	defer s2.Close()

	again, err := s2.ListChecklistTemplates(ctx)
	require.NoError(t, err)
	assert.Len(t, again, 11)
}

func TestEquipmentCrud(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	manufacturer := "Six Chuter"
	model := "P3 Lite"
	frame := &models.PpcFrame{
		Manufacturer: &manufacturer,
		Model:        &model,
		IsActive:     true,
	}
	require.NoError(t, s.SavePpcFrame(ctx, frame))

	hours := 148.5
	tbo := 300.0
	engine := &models.Engine{
		PpcFrameID: frame.ID,
		TotalHours: &hours,
		TBOHours:   &tbo,
		EngineType: models.EngineTwoStroke,
	}
	require.NoError(t, s.SaveEngine(ctx, engine))

	engines, err := s.ListEngines(ctx, frame.ID)
	require.NoError(t, err)
	require.Len(t, engines, 1)
	remaining := engines[0].HoursUntilTBO()
	require.NotNil(t, remaining)
	assert.InDelta(t, 151.5, *remaining, 0.001)
	assert.Equal(t, models.EngineTwoStroke, engines[0].EngineType)

	require.NoError(t, s.DeleteEngine(ctx, engine.ID))
	engines, err = s.ListEngines(ctx, frame.ID)
	require.NoError(t, err)
	assert.Empty(t, engines)

	assert.ErrorIs(t, s.DeleteEngine(ctx, engine.ID), models.ErrNotFound)
}

func TestPilotProfileSingleton(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.GetPilotProfile(ctx)
	assert.ErrorIs(t, err, models.ErrNotFound)

	name := "Pat Smith"
	profile := &models.PilotProfile{
		FullName:        &name,
		CertificateType: models.CertSport,
	}
	require.NoError(t, s.SavePilotProfile(ctx, profile))

	got, err := s.GetPilotProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Pat Smith", *got.FullName)
	assert.Equal(t, models.CertSport, got.CertificateType)
}
