package models

import "time"

// SeatConfig describes a frame's seating layout.
type SeatConfig string

const (
	SeatSingle SeatConfig = "single"
	SeatTandem SeatConfig = "tandem"
)

// EngineType classifies the powerplant.
type EngineType string

const (
	EngineTwoStroke  EngineType = "two_stroke"
	EngineFourStroke EngineType = "four_stroke"
	EngineElectric   EngineType = "electric"
)

// CoolingType classifies engine cooling.
type CoolingType string

const (
	CoolingAir    CoolingType = "air"
	CoolingLiquid CoolingType = "liquid"
)

// WingType classifies the canopy planform.
type WingType string

const (
	WingRectangular WingType = "rectangular"
	WingElliptical  WingType = "elliptical"
)

// PpcFrame is the powered-parachute cart/airframe.
type PpcFrame struct {
	ID           int64      `json:"id"`
	Manufacturer *string    `json:"manufacturer,omitempty"`
	Model        *string    `json:"model,omitempty"`
	SerialNumber *string    `json:"serial_number,omitempty"`
	NNumber      *string    `json:"n_number,omitempty"`
	Year         *int64     `json:"year,omitempty"`
	EmptyWeight  *float64   `json:"empty_weight,omitempty"`
	SeatConfig   SeatConfig `json:"seat_config,omitempty"`
	IsActive     bool       `json:"is_active"`
	Notes        *string    `json:"notes,omitempty"`

	SyncMeta
}

func (f *PpcFrame) LocalID() int64      { return f.ID }
func (f *PpcFrame) SetLocalID(id int64) { f.ID = id }

// DisplayName combines manufacturer and model for list output.
func (f *PpcFrame) DisplayName() string {
	name := ""
	if f.Manufacturer != nil {
		name = *f.Manufacturer
	}
	if f.Model != nil {
		if name != "" {
			name += " "
		}
		name += *f.Model
	}
	return name
}

// Engine is a powerplant attached to a frame.
type Engine struct {
	ID               int64       `json:"id"`
	PpcFrameID       int64       `json:"ppc_frame_id"`
	Manufacturer     *string     `json:"manufacturer,omitempty"`
	Model            *string     `json:"model,omitempty"`
	SerialNumber     *string     `json:"serial_number,omitempty"`
	EngineType       EngineType  `json:"engine_type,omitempty"`
	CoolingType      CoolingType `json:"cooling_type,omitempty"`
	TotalHours       *float64    `json:"total_hours,omitempty"`
	TBOHours         *float64    `json:"tbo_hours,omitempty"`
	LastOverhaulDate *time.Time  `json:"last_overhaul_date,omitempty"`
	Notes            *string     `json:"notes,omitempty"`

	SyncMeta
}

func (e *Engine) LocalID() int64      { return e.ID }
func (e *Engine) SetLocalID(id int64) { e.ID = id }

// HoursUntilTBO returns remaining hours before overhaul, or nil when
// either figure is unknown.
func (e *Engine) HoursUntilTBO() *float64 {
	if e.TBOHours == nil || e.TotalHours == nil {
		return nil
	}
	remaining := *e.TBOHours - *e.TotalHours
	return &remaining
}

// Wing is a canopy attached to a frame.
type Wing struct {
	ID                 int64      `json:"id"`
	PpcFrameID         int64      `json:"ppc_frame_id"`
	Manufacturer       *string    `json:"manufacturer,omitempty"`
	Model              *string    `json:"model,omitempty"`
	SizeSqFt           *float64   `json:"size_sq_ft,omitempty"`
	CellCount          *int64     `json:"cell_count,omitempty"`
	WingType           WingType   `json:"wing_type,omitempty"`
	TotalHours         *float64   `json:"total_hours,omitempty"`
	ManufactureDate    *time.Time `json:"manufacture_date,omitempty"`
	LastInspectionDate *time.Time `json:"last_inspection_date,omitempty"`
	Notes              *string    `json:"notes,omitempty"`

	SyncMeta
}

func (w *Wing) LocalID() int64      { return w.ID }
func (w *Wing) SetLocalID(id int64) { w.ID = id }

// Propeller is a prop attached to a frame.
type Propeller struct {
	ID           int64    `json:"id"`
	PpcFrameID   int64    `json:"ppc_frame_id"`
	Manufacturer *string  `json:"manufacturer,omitempty"`
	Model        *string  `json:"model,omitempty"`
	Diameter     *float64 `json:"diameter,omitempty"`
	Pitch        *float64 `json:"pitch,omitempty"`
	Material     *string  `json:"material,omitempty"`
	Notes        *string  `json:"notes,omitempty"`

	SyncMeta
}

func (p *Propeller) LocalID() int64      { return p.ID }
func (p *Propeller) SetLocalID(id int64) { p.ID = id }
