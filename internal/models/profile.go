package models

import "time"

// CertificateType is the pilot certificate level.
type CertificateType string

const (
	CertNone    CertificateType = "none"
	CertStudent CertificateType = "student"
	CertSport   CertificateType = "sport"
	CertPrivate CertificateType = "private"
)

// MedicalType is the medical certification held.
type MedicalType string

const (
	MedicalNone     MedicalType = "none"
	MedicalBasicMed MedicalType = "basic_med"
	MedicalClass3   MedicalType = "class_3"
	MedicalClass2   MedicalType = "class_2"
	MedicalClass1   MedicalType = "class_1"
)

// PilotProfile holds the pilot's certificate, medical, and personal
// weather minimums. Endorsements is a JSON-encoded list.
type PilotProfile struct {
	ID                    int64           `json:"id"`
	FullName              *string         `json:"full_name,omitempty"`
	CertificateType       CertificateType `json:"certificate_type,omitempty"`
	CertificateNumber     *string         `json:"certificate_number,omitempty"`
	MedicalType           MedicalType     `json:"medical_type,omitempty"`
	MedicalExpiration     *time.Time      `json:"medical_expiration,omitempty"`
	MaxWindSpeed          *float64        `json:"max_wind_speed,omitempty"`
	MaxCrosswind          *float64        `json:"max_crosswind,omitempty"`
	MinVisibility         *float64        `json:"min_visibility,omitempty"`
	MinCeiling            *float64        `json:"min_ceiling,omitempty"`
	EmergencyContactName  *string         `json:"emergency_contact_name,omitempty"`
	EmergencyContactPhone *string         `json:"emergency_contact_phone,omitempty"`
	Endorsements          *string         `json:"endorsements,omitempty"`

	SyncMeta
}

func (p *PilotProfile) LocalID() int64      { return p.ID }
func (p *PilotProfile) SetLocalID(id int64) { p.ID = id }
