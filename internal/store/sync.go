package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

// syncTable adapts one entity table to the uniform surface the sync
// engine works with. insert and update persist the record exactly as
// given, without restamping sync metadata.
type syncTable struct {
	table        string
	decode       func(data []byte) (models.Syncable, error)
	getByRemote  func(ctx context.Context, remoteID int64) (models.Syncable, error)
	insert       func(ctx context.Context, rec models.Syncable) error
	update       func(ctx context.Context, rec models.Syncable) error
	listUnsynced func(ctx context.Context) ([]models.Syncable, error)
}

func (s *Store) syncTables() map[string]*syncTable {
	return map[string]*syncTable{
		models.TypeFlights: {
			table: "flights",
			decode: func(data []byte) (models.Syncable, error) {
				var f models.Flight
				return &f, json.Unmarshal(data, &f)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getFlightByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertFlight(ctx, rec.(*models.Flight))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateFlight(ctx, rec.(*models.Flight))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				flights, err := s.listUnsyncedFlights(ctx)
				return asSyncables(flights), err
			},
		},
		models.TypePpcFrames: {
			table: "ppc_frames",
			decode: func(data []byte) (models.Syncable, error) {
				var f models.PpcFrame
				return &f, json.Unmarshal(data, &f)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getFrameByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertFrame(ctx, rec.(*models.PpcFrame))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateFrame(ctx, rec.(*models.PpcFrame))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				frames, err := s.listUnsyncedFrames(ctx)
				return asSyncables(frames), err
			},
		},
		models.TypeEngines: {
			table: "engines",
			decode: func(data []byte) (models.Syncable, error) {
				var e models.Engine
				return &e, json.Unmarshal(data, &e)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getEngineByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertEngine(ctx, rec.(*models.Engine))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateEngine(ctx, rec.(*models.Engine))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				engines, err := s.listUnsyncedEngines(ctx)
				return asSyncables(engines), err
			},
		},
		models.TypeWings: {
			table: "wings",
			decode: func(data []byte) (models.Syncable, error) {
				var w models.Wing
				return &w, json.Unmarshal(data, &w)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getWingByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertWing(ctx, rec.(*models.Wing))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateWing(ctx, rec.(*models.Wing))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				wings, err := s.listUnsyncedWings(ctx)
				return asSyncables(wings), err
			},
		},
		models.TypePropellers: {
			table: "propellers",
			decode: func(data []byte) (models.Syncable, error) {
				var p models.Propeller
				return &p, json.Unmarshal(data, &p)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getPropellerByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertPropeller(ctx, rec.(*models.Propeller))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updatePropeller(ctx, rec.(*models.Propeller))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				props, err := s.listUnsyncedPropellers(ctx)
				return asSyncables(props), err
			},
		},
		models.TypePilotProfiles: {
			table: "pilot_profiles",
			decode: func(data []byte) (models.Syncable, error) {
				var p models.PilotProfile
				return &p, json.Unmarshal(data, &p)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getProfileByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertProfile(ctx, rec.(*models.PilotProfile))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateProfile(ctx, rec.(*models.PilotProfile))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				profiles, err := s.listUnsyncedProfiles(ctx)
				return asSyncables(profiles), err
			},
		},
		models.TypeChecklistTemplates: {
			table: "checklist_templates",
			decode: func(data []byte) (models.Syncable, error) {
				var t models.ChecklistTemplate
				return &t, json.Unmarshal(data, &t)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getTemplateByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertTemplate(ctx, rec.(*models.ChecklistTemplate))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateTemplate(ctx, rec.(*models.ChecklistTemplate))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				templates, err := s.listUnsyncedTemplates(ctx)
				return asSyncables(templates), err
			},
		},
		models.TypeChecklistTemplateItems: {
			table: "checklist_template_items",
			decode: func(data []byte) (models.Syncable, error) {
				var i models.ChecklistTemplateItem
				return &i, json.Unmarshal(data, &i)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getTemplateItemByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertTemplateItem(ctx, rec.(*models.ChecklistTemplateItem))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateTemplateItem(ctx, rec.(*models.ChecklistTemplateItem))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				items, err := s.listUnsyncedTemplateItems(ctx)
				return asSyncables(items), err
			},
		},
		models.TypeChecklistLogs: {
			table: "checklist_logs",
			decode: func(data []byte) (models.Syncable, error) {
				var l models.ChecklistLog
				return &l, json.Unmarshal(data, &l)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getChecklistLogByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertChecklistLog(ctx, rec.(*models.ChecklistLog))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateChecklistLog(ctx, rec.(*models.ChecklistLog))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				logs, err := s.listUnsyncedChecklistLogs(ctx)
				return asSyncables(logs), err
			},
		},
		models.TypeChecklistLogItems: {
			table: "checklist_log_items",
			decode: func(data []byte) (models.Syncable, error) {
				var i models.ChecklistLogItem
				return &i, json.Unmarshal(data, &i)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getLogItemByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertLogItem(ctx, rec.(*models.ChecklistLogItem))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateLogItem(ctx, rec.(*models.ChecklistLogItem))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				items, err := s.listUnsyncedLogItems(ctx)
				return asSyncables(items), err
			},
		},
		models.TypeMaintenanceLogs: {
			table: "maintenance_logs",
			decode: func(data []byte) (models.Syncable, error) {
				var m models.MaintenanceLog
				return &m, json.Unmarshal(data, &m)
			},
			getByRemote: func(ctx context.Context, id int64) (models.Syncable, error) {
				return s.getMaintenanceByRemoteID(ctx, id)
			},
			insert: func(ctx context.Context, rec models.Syncable) error {
				return s.insertMaintenance(ctx, rec.(*models.MaintenanceLog))
			},
			update: func(ctx context.Context, rec models.Syncable) error {
				return s.updateMaintenance(ctx, rec.(*models.MaintenanceLog))
			},
			listUnsynced: func(ctx context.Context) ([]models.Syncable, error) {
				logs, err := s.listUnsyncedMaintenance(ctx)
				return asSyncables(logs), err
			},
		},
	}
}

func asSyncables[T models.Syncable](in []T) []models.Syncable {
	out := make([]models.Syncable, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// EntityTypes returns the wire keys the store can sync, in merge
// order.
func (s *Store) EntityTypes() []string {
	return models.EntityTypes
}

// ListUnsynced returns all records of the given type whose status is
// New or Modified.
func (s *Store) ListUnsynced(ctx context.Context, entityType string) ([]models.Syncable, error) {
	t, ok := s.sync[entityType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownEntity, entityType)
	}
	recs, err := t.listUnsynced(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unsynced %s: %w", entityType, err)
	}
	return recs, nil
}

// MergeRemote applies one server record. The server copy wins: an
// existing row matched by remote ID is overwritten, otherwise a new
// row is inserted. Either way the result is marked Synced.
func (s *Store) MergeRemote(ctx context.Context, entityType string, record json.RawMessage) error {
	t, ok := s.sync[entityType]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownEntity, entityType)
	}

	rec, err := t.decode(record)
	if err != nil {
		return fmt.Errorf("decode %s record: %w", entityType, err)
	}

	// The wire "id" is the server's identifier.
	serverID := rec.LocalID()
	meta := rec.Sync()
	meta.RemoteID = &serverID
	meta.SyncStatus = models.StatusSynced

	existing, err := t.getByRemote(ctx, serverID)
	switch {
	case err == nil:
		rec.SetLocalID(existing.LocalID())
		if err := t.update(ctx, rec); err != nil {
			return fmt.Errorf("merge %s %d: %w", entityType, serverID, err)
		}
	case errors.Is(err, models.ErrNotFound):
		rec.SetLocalID(0)
		if err := t.insert(ctx, rec); err != nil {
			return fmt.Errorf("merge %s %d: %w", entityType, serverID, err)
		}
	default:
		return fmt.Errorf("lookup %s by remote id %d: %w", entityType, serverID, err)
	}

	return nil
}

// MarkSynced records the server-assigned ID for a pushed record and
// clears its dirty status.
func (s *Store) MarkSynced(ctx context.Context, entityType string, localID, remoteID int64) error {
	t, ok := s.sync[entityType]
	if !ok {
		return fmt.Errorf("%w: %s", models.ErrUnknownEntity, entityType)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE `+t.table+` SET remote_id = ?, sync_status = ? WHERE id = ?`,
		remoteID, models.StatusSynced, localID)
	if err != nil {
		return fmt.Errorf("mark %s %d synced: %w", entityType, localID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkAllSynced clears the dirty status of the given records, keyed by
// entity type. It runs after the server accepts a push so every record
// in the batch is cleared even if the server's ID map was incomplete.
// Records dirtied after the batch was collected keep their status and
// go out on the next push.
func (s *Store) MarkAllSynced(ctx context.Context, pushed map[string][]int64) error {
	for _, entityType := range models.EntityTypes {
		ids := pushed[entityType]
		if len(ids) == 0 {
			continue
		}
		t := s.sync[entityType]
		for _, id := range ids {
			if _, err := s.db.ExecContext(ctx,
				`UPDATE `+t.table+` SET sync_status = ? WHERE id = ?`,
				models.StatusSynced, id); err != nil {
				return fmt.Errorf("mark %s %d synced: %w", entityType, id, err)
			}
		}
	}
	return nil
}
