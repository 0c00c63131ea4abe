package models

import "time"

// MaintenanceType classifies why work was performed.
type MaintenanceType string

const (
	MaintScheduled   MaintenanceType = "scheduled"
	MaintUnscheduled MaintenanceType = "unscheduled"
	MaintInspection  MaintenanceType = "inspection"
	MaintOverhaul    MaintenanceType = "overhaul"
	MaintRepair      MaintenanceType = "repair"
)

// MaintenanceComponent identifies what was worked on.
type MaintenanceComponent string

const (
	ComponentEngine    MaintenanceComponent = "engine"
	ComponentWing      MaintenanceComponent = "wing"
	ComponentPropeller MaintenanceComponent = "propeller"
	ComponentFrame     MaintenanceComponent = "frame"
	ComponentOther     MaintenanceComponent = "other"
)

// MaintenanceLog records work performed on a frame or its components.
type MaintenanceLog struct {
	ID                  int64                `json:"id"`
	PpcFrameID          int64                `json:"ppc_frame_id"`
	MaintenanceDate     time.Time            `json:"maintenance_date"`
	MaintenanceType     MaintenanceType      `json:"maintenance_type,omitempty"`
	Component           MaintenanceComponent `json:"component,omitempty"`
	Description         *string              `json:"description,omitempty"`
	PartsUsed           *string              `json:"parts_used,omitempty"`
	Cost                *float64             `json:"cost,omitempty"`
	EngineHoursAtSvc    *float64             `json:"engine_hours_at_service,omitempty"`
	NextServiceDueHours *float64             `json:"next_service_due_hours,omitempty"`
	NextServiceDueDate  *time.Time           `json:"next_service_due_date,omitempty"`
	PerformedBy         *string              `json:"performed_by,omitempty"`
	Notes               *string              `json:"notes,omitempty"`

	SyncMeta
}

func (m *MaintenanceLog) LocalID() int64      { return m.ID }
func (m *MaintenanceLog) SetLocalID(id int64) { m.ID = id }
