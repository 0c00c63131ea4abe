package models

import "time"

// ChecklistItemType distinguishes checkbox items from counted
// practice/maneuver items.
type ChecklistItemType string

const (
	ItemCheck   ChecklistItemType = "check"
	ItemCounter ChecklistItemType = "counter"
)

// ChecklistTemplate is a named, ordered checklist definition.
type ChecklistTemplate struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	DisplayOrder int64   `json:"display_order"`
	IsDefault    bool    `json:"is_default"`
	IsActive     bool    `json:"is_active"`

	SyncMeta
}

func (t *ChecklistTemplate) LocalID() int64      { return t.ID }
func (t *ChecklistTemplate) SetLocalID(id int64) { t.ID = id }

// ChecklistTemplateItem is one line of a template.
type ChecklistTemplateItem struct {
	ID           int64             `json:"id"`
	TemplateID   int64             `json:"template_id"`
	Section      *string           `json:"section,omitempty"`
	Description  string            `json:"description"`
	DisplayOrder int64             `json:"display_order"`
	ItemType     ChecklistItemType `json:"item_type,omitempty"`

	SyncMeta
}

func (i *ChecklistTemplateItem) LocalID() int64      { return i.ID }
func (i *ChecklistTemplateItem) SetLocalID(id int64) { i.ID = id }

// ChecklistLog records a completed checklist run, optionally tied to
// a flight.
type ChecklistLog struct {
	ID           int64     `json:"id"`
	FlightID     *int64    `json:"flight_id,omitempty"`
	TemplateID   *int64    `json:"template_id,omitempty"`
	CompletedAt  time.Time `json:"completed_at"`
	TotalItems   int64     `json:"total_items"`
	CheckedItems int64     `json:"checked_items"`
	Notes        *string   `json:"notes,omitempty"`

	SyncMeta
}

func (l *ChecklistLog) LocalID() int64      { return l.ID }
func (l *ChecklistLog) SetLocalID(id int64) { l.ID = id }

// ChecklistLogItem is the recorded state of one item in a run.
type ChecklistLogItem struct {
	ID             int64             `json:"id"`
	ChecklistLogID int64             `json:"checklist_log_id"`
	TemplateItemID *int64            `json:"template_item_id,omitempty"`
	Section        *string           `json:"section,omitempty"`
	Description    string            `json:"description"`
	ItemType       ChecklistItemType `json:"item_type,omitempty"`
	IsChecked      bool              `json:"is_checked"`
	CountValue     int64             `json:"count_value"`

	SyncMeta
}

func (i *ChecklistLogItem) LocalID() int64      { return i.ID }
func (i *ChecklistLogItem) SetLocalID(id int64) { i.ID = id }
