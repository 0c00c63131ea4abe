package models

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDuration(t *testing.T) {
	start := time.Date(2026, 8, 20, 7, 15, 0, 0, time.UTC)
	end := start.Add(47*time.Minute + 30*time.Second)

	f := &Flight{StartTime: &start, EndTime: &end}
	f.CalculateDuration()
	require.NotNil(t, f.DurationMinutes)
	assert.Equal(t, int64(47), *f.DurationMinutes, "partial minutes truncate")

	open := &Flight{StartTime: &start}
	open.CalculateDuration()
	assert.Nil(t, open.DurationMinutes)
}

func TestHoursUntilTBO(t *testing.T) {
	total := 148.5
	tbo := 300.0

	e := &Engine{TotalHours: &total, TBOHours: &tbo}
	remaining := e.HoursUntilTBO()
	require.NotNil(t, remaining)
	assert.InDelta(t, 151.5, *remaining, 0.001)

	assert.Nil(t, (&Engine{TotalHours: &total}).HoursUntilTBO())
	assert.Nil(t, (&Engine{TBOHours: &tbo}).HoursUntilTBO())

	// Overdue engines go negative rather than clamping.
	over := 310.0
	e = &Engine{TotalHours: &over, TBOHours: &tbo}
	remaining = e.HoursUntilTBO()
	require.NotNil(t, remaining)
	assert.InDelta(t, -10.0, *remaining, 0.001)
}

func TestFrameDisplayName(t *testing.T) {
	manufacturer := "Six Chuter"
	model := "P3 Lite"

	assert.Equal(t, "Six Chuter P3 Lite",
		(&PpcFrame{Manufacturer: &manufacturer, Model: &model}).DisplayName())
	assert.Equal(t, "Six Chuter",
		(&PpcFrame{Manufacturer: &manufacturer}).DisplayName())
	assert.Equal(t, "P3 Lite",
		(&PpcFrame{Model: &model}).DisplayName())
	assert.Equal(t, "", (&PpcFrame{}).DisplayName())
}

func TestSyncStatusString(t *testing.T) {
	assert.Equal(t, "synced", StatusSynced.String())
	assert.Equal(t, "modified", StatusModified.String())
	assert.Equal(t, "new", StatusNew.String())
	assert.Equal(t, "unknown", SyncStatus(9).String())
}

func TestAPIErrorMessage(t *testing.T) {
	withCode := &APIError{StatusCode: 401, Code: "token_not_valid", Message: "Token is expired"}
	assert.Equal(t, "API error 401 (token_not_valid): Token is expired", withCode.Error())

	plain := &APIError{StatusCode: 500, Message: "server error"}
	assert.Equal(t, "API error 500: server error", plain.Error())
}

func TestIsUnauthorized(t *testing.T) {
	assert.True(t, IsUnauthorized(&APIError{StatusCode: 401}))
	assert.False(t, IsUnauthorized(&APIError{StatusCode: 403}))
	assert.False(t, IsUnauthorized(errors.New("dial tcp: no route to host")))
	assert.False(t, IsUnauthorized(nil))

	// Wrapped errors are still recognized.
	wrapped := fmt.Errorf("pull changes: %w", &APIError{StatusCode: 401})
	assert.True(t, IsUnauthorized(wrapped))
}

func TestSyncableImplementations(t *testing.T) {
	entities := []Syncable{
		&Flight{}, &PpcFrame{}, &Engine{}, &Wing{}, &Propeller{},
		&PilotProfile{}, &ChecklistTemplate{}, &ChecklistTemplateItem{},
		&ChecklistLog{}, &ChecklistLogItem{}, &MaintenanceLog{},
	}
	require.Len(t, entities, len(EntityTypes))

	for _, e := range entities {
		e.SetLocalID(7)
		assert.Equal(t, int64(7), e.LocalID())
		assert.NotNil(t, e.Sync())
	}
}
