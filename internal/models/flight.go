package models

import "time"

// Flight is a single flight log entry.
type Flight struct {
	ID              int64      `json:"id"`
	FlightDate      time.Time  `json:"flight_date"`
	StartTime       *time.Time `json:"start_time,omitempty"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	DurationMinutes *int64     `json:"duration_minutes,omitempty"`
	PpcFrameID      *int64     `json:"ppc_frame_id,omitempty"`
	Location        *string    `json:"location,omitempty"`
	Weather         *string    `json:"weather_conditions,omitempty"`
	Notes           *string    `json:"notes,omitempty"`

	SyncMeta
}

func (f *Flight) LocalID() int64      { return f.ID }
func (f *Flight) SetLocalID(id int64) { f.ID = id }

// CalculateDuration derives DurationMinutes from start and end times.
// A no-op when either end is missing.
func (f *Flight) CalculateDuration() {
	if f.StartTime == nil || f.EndTime == nil {
		return
	}
	minutes := int64(f.EndTime.Sub(*f.StartTime).Minutes())
	f.DurationMinutes = &minutes
}
