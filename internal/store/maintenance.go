package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

const maintenanceColumns = `id, ppc_frame_id, maintenance_date,
    maintenance_type, component, description, parts_used, cost,
    engine_hours_at_service, next_service_due_hours, next_service_due_date,
    performed_by, notes,
    remote_id, sync_status, created_at, modified_at`

func scanMaintenance(row scanner) (*models.MaintenanceLog, error) {
	var m models.MaintenanceLog
	err := row.Scan(
		&m.ID, &m.PpcFrameID, &m.MaintenanceDate,
		&m.MaintenanceType, &m.Component, &m.Description, &m.PartsUsed, &m.Cost,
		&m.EngineHoursAtSvc, &m.NextServiceDueHours, &m.NextServiceDueDate,
		&m.PerformedBy, &m.Notes,
		&m.RemoteID, &m.SyncStatus, &m.CreatedAt, &m.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveMaintenanceLog inserts or updates a maintenance record.
func (s *Store) SaveMaintenanceLog(ctx context.Context, m *models.MaintenanceLog) error {
	if m.ID == 0 {
		touchInsert(&m.SyncMeta)
		return s.insertMaintenance(ctx, m)
	}
	touchUpdate(&m.SyncMeta)
	return s.updateMaintenance(ctx, m)
}

func (s *Store) insertMaintenance(ctx context.Context, m *models.MaintenanceLog) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO maintenance_logs (ppc_frame_id, maintenance_date,
            maintenance_type, component, description, parts_used, cost,
            engine_hours_at_service, next_service_due_hours,
            next_service_due_date, performed_by, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.PpcFrameID, m.MaintenanceDate,
		m.MaintenanceType, m.Component, m.Description, m.PartsUsed, m.Cost,
		m.EngineHoursAtSvc, m.NextServiceDueHours,
		m.NextServiceDueDate, m.PerformedBy, m.Notes,
		m.RemoteID, m.SyncStatus, m.CreatedAt, m.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert maintenance log: %w", err)
	}
	m.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateMaintenance(ctx context.Context, m *models.MaintenanceLog) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE maintenance_logs SET ppc_frame_id = ?, maintenance_date = ?,
            maintenance_type = ?, component = ?, description = ?,
            parts_used = ?, cost = ?, engine_hours_at_service = ?,
            next_service_due_hours = ?, next_service_due_date = ?,
            performed_by = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		m.PpcFrameID, m.MaintenanceDate,
		m.MaintenanceType, m.Component, m.Description,
		m.PartsUsed, m.Cost, m.EngineHoursAtSvc,
		m.NextServiceDueHours, m.NextServiceDueDate,
		m.PerformedBy, m.Notes,
		m.RemoteID, m.SyncStatus, m.CreatedAt, m.ModifiedAt, m.ID)
	if err != nil {
		return fmt.Errorf("update maintenance log %d: %w", m.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetMaintenanceLog returns the record with the given local ID.
func (s *Store) GetMaintenanceLog(ctx context.Context, id int64) (*models.MaintenanceLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_logs WHERE id = ?`, id)
	m, err := scanMaintenance(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get maintenance log %d: %w", id, err)
	}
	return m, nil
}

// ListMaintenanceLogs returns records, most recent first. A zero
// frameID lists all.
func (s *Store) ListMaintenanceLogs(ctx context.Context, frameID int64) ([]*models.MaintenanceLog, error) {
	query := `SELECT ` + maintenanceColumns + ` FROM maintenance_logs
        ORDER BY maintenance_date DESC, id DESC`
	args := []interface{}{}
	if frameID != 0 {
		query = `SELECT ` + maintenanceColumns + ` FROM maintenance_logs
            WHERE ppc_frame_id = ? ORDER BY maintenance_date DESC, id DESC`
		args = append(args, frameID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list maintenance logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.MaintenanceLog
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, fmt.Errorf("scan maintenance log: %w", err)
		}
		logs = append(logs, m)
	}
	return logs, rows.Err()
}

// DeleteMaintenanceLog removes a record.
func (s *Store) DeleteMaintenanceLog(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "maintenance_logs", id)
}

func (s *Store) getMaintenanceByRemoteID(ctx context.Context, remoteID int64) (*models.MaintenanceLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_logs WHERE remote_id = ?`, remoteID)
	m, err := scanMaintenance(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return m, err
}

func (s *Store) listUnsyncedMaintenance(ctx context.Context) ([]*models.MaintenanceLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+maintenanceColumns+` FROM maintenance_logs WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.MaintenanceLog
	for rows.Next() {
		m, err := scanMaintenance(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, m)
	}
	return logs, rows.Err()
}
