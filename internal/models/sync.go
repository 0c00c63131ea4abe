package models

import "time"

// SyncStatus tracks whether a local record needs to be pushed.
type SyncStatus int

const (
	// StatusSynced means the record matches the last known server state.
	StatusSynced SyncStatus = 0
	// StatusModified means the record has local edits since the last push.
	StatusModified SyncStatus = 1
	// StatusNew means the record was created locally and never pushed.
	StatusNew SyncStatus = 2
)

func (s SyncStatus) String() string {
	switch s {
	case StatusSynced:
		return "synced"
	case StatusModified:
		return "modified"
	case StatusNew:
		return "new"
	default:
		return "unknown"
	}
}

// SyncMeta carries the per-record sync bookkeeping attached to every
// syncable entity. RemoteID and SyncStatus are local-only fields and
// are stripped from outgoing push payloads.
type SyncMeta struct {
	RemoteID   *int64     `json:"remote_id,omitempty"`
	SyncStatus SyncStatus `json:"sync_status"`
	CreatedAt  time.Time  `json:"created_at"`
	ModifiedAt *time.Time `json:"modified_at,omitempty"`
}

// Sync exposes the embedded metadata.
func (m *SyncMeta) Sync() *SyncMeta { return m }

// Syncable is implemented by every entity the sync engine can push
// and merge.
type Syncable interface {
	LocalID() int64
	SetLocalID(id int64)
	Sync() *SyncMeta
}

// Wire keys for the sync pull/push payloads.
const (
	TypeFlights                = "flights"
	TypePpcFrames              = "ppc_frames"
	TypeEngines                = "engines"
	TypeWings                  = "wings"
	TypePropellers             = "propellers"
	TypePilotProfiles          = "pilot_profiles"
	TypeChecklistTemplates     = "checklist_templates"
	TypeChecklistTemplateItems = "checklist_template_items"
	TypeChecklistLogs          = "checklist_logs"
	TypeChecklistLogItems      = "checklist_log_items"
	TypeMaintenanceLogs        = "maintenance_logs"
)

// EntityTypes lists every syncable wire key. The order is the merge
// order during pull: parents before the rows that reference them.
var EntityTypes = []string{
	TypePpcFrames,
	TypeEngines,
	TypeWings,
	TypePropellers,
	TypePilotProfiles,
	TypeFlights,
	TypeChecklistTemplates,
	TypeChecklistTemplateItems,
	TypeChecklistLogs,
	TypeChecklistLogItems,
	TypeMaintenanceLogs,
}

// Settings keys persisted in the local store.
const (
	SettingLastSync      = "LastSyncTimestamp"
	SettingSchemaVersion = "SchemaVersion"
	SettingClientID      = "ClientID"
)

// Credential store keys for the bearer token pair.
const (
	KeyAccessToken  = "auth_jwt_access"
	KeyRefreshToken = "auth_jwt_refresh"
)
