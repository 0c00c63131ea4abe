package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

const profileColumns = `id, full_name, certificate_type, certificate_number,
    medical_type, medical_expiration, max_wind_speed, max_crosswind,
    min_visibility, min_ceiling, emergency_contact_name,
    emergency_contact_phone, endorsements,
    remote_id, sync_status, created_at, modified_at`

func scanProfile(row scanner) (*models.PilotProfile, error) {
	var p models.PilotProfile
	err := row.Scan(
		&p.ID, &p.FullName, &p.CertificateType, &p.CertificateNumber,
		&p.MedicalType, &p.MedicalExpiration, &p.MaxWindSpeed, &p.MaxCrosswind,
		&p.MinVisibility, &p.MinCeiling, &p.EmergencyContactName,
		&p.EmergencyContactPhone, &p.Endorsements,
		&p.RemoteID, &p.SyncStatus, &p.CreatedAt, &p.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePilotProfile inserts or updates a profile.
func (s *Store) SavePilotProfile(ctx context.Context, p *models.PilotProfile) error {
	if p.ID == 0 {
		touchInsert(&p.SyncMeta)
		return s.insertProfile(ctx, p)
	}
	touchUpdate(&p.SyncMeta)
	return s.updateProfile(ctx, p)
}

func (s *Store) insertProfile(ctx context.Context, p *models.PilotProfile) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO pilot_profiles (full_name, certificate_type,
            certificate_number, medical_type, medical_expiration,
            max_wind_speed, max_crosswind, min_visibility, min_ceiling,
            emergency_contact_name, emergency_contact_phone, endorsements,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.FullName, p.CertificateType,
		p.CertificateNumber, p.MedicalType, p.MedicalExpiration,
		p.MaxWindSpeed, p.MaxCrosswind, p.MinVisibility, p.MinCeiling,
		p.EmergencyContactName, p.EmergencyContactPhone, p.Endorsements,
		p.RemoteID, p.SyncStatus, p.CreatedAt, p.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateProfile(ctx context.Context, p *models.PilotProfile) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE pilot_profiles SET full_name = ?, certificate_type = ?,
            certificate_number = ?, medical_type = ?, medical_expiration = ?,
            max_wind_speed = ?, max_crosswind = ?, min_visibility = ?,
            min_ceiling = ?, emergency_contact_name = ?,
            emergency_contact_phone = ?, endorsements = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		p.FullName, p.CertificateType,
		p.CertificateNumber, p.MedicalType, p.MedicalExpiration,
		p.MaxWindSpeed, p.MaxCrosswind, p.MinVisibility,
		p.MinCeiling, p.EmergencyContactName,
		p.EmergencyContactPhone, p.Endorsements,
		p.RemoteID, p.SyncStatus, p.CreatedAt, p.ModifiedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update profile %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetPilotProfile returns the first (usually only) profile, or
// ErrNotFound when none exists.
func (s *Store) GetPilotProfile(ctx context.Context) (*models.PilotProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM pilot_profiles ORDER BY id LIMIT 1`)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return p, nil
}

func (s *Store) getProfileByRemoteID(ctx context.Context, remoteID int64) (*models.PilotProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM pilot_profiles WHERE remote_id = ?`, remoteID)
	p, err := scanProfile(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return p, err
}

func (s *Store) listUnsyncedProfiles(ctx context.Context) ([]*models.PilotProfile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM pilot_profiles WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []*models.PilotProfile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
