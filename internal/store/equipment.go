package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

// PPC frames

const frameColumns = `id, manufacturer, model, serial_number, n_number, year,
    empty_weight, seat_config, is_active, notes,
    remote_id, sync_status, created_at, modified_at`

func scanFrame(row scanner) (*models.PpcFrame, error) {
	var f models.PpcFrame
	err := row.Scan(
		&f.ID, &f.Manufacturer, &f.Model, &f.SerialNumber, &f.NNumber, &f.Year,
		&f.EmptyWeight, &f.SeatConfig, &f.IsActive, &f.Notes,
		&f.RemoteID, &f.SyncStatus, &f.CreatedAt, &f.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SavePpcFrame inserts or updates a frame.
func (s *Store) SavePpcFrame(ctx context.Context, f *models.PpcFrame) error {
	if f.ID == 0 {
		touchInsert(&f.SyncMeta)
		return s.insertFrame(ctx, f)
	}
	touchUpdate(&f.SyncMeta)
	return s.updateFrame(ctx, f)
}

func (s *Store) insertFrame(ctx context.Context, f *models.PpcFrame) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO ppc_frames (manufacturer, model, serial_number, n_number,
            year, empty_weight, seat_config, is_active, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Manufacturer, f.Model, f.SerialNumber, f.NNumber,
		f.Year, f.EmptyWeight, f.SeatConfig, f.IsActive, f.Notes,
		f.RemoteID, f.SyncStatus, f.CreatedAt, f.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert frame: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateFrame(ctx context.Context, f *models.PpcFrame) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE ppc_frames SET manufacturer = ?, model = ?, serial_number = ?,
            n_number = ?, year = ?, empty_weight = ?, seat_config = ?,
            is_active = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		f.Manufacturer, f.Model, f.SerialNumber,
		f.NNumber, f.Year, f.EmptyWeight, f.SeatConfig,
		f.IsActive, f.Notes,
		f.RemoteID, f.SyncStatus, f.CreatedAt, f.ModifiedAt, f.ID)
	if err != nil {
		return fmt.Errorf("update frame %d: %w", f.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetPpcFrame returns the frame with the given local ID.
func (s *Store) GetPpcFrame(ctx context.Context, id int64) (*models.PpcFrame, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+frameColumns+` FROM ppc_frames WHERE id = ?`, id)
	f, err := scanFrame(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get frame %d: %w", id, err)
	}
	return f, nil
}

// ListPpcFrames returns all frames in insertion order.
func (s *Store) ListPpcFrames(ctx context.Context) ([]*models.PpcFrame, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+frameColumns+` FROM ppc_frames ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list frames: %w", err)
	}
	defer rows.Close()

	var frames []*models.PpcFrame
	for rows.Next() {
		f, err := scanFrame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan frame: %w", err)
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// DeletePpcFrame removes a frame.
func (s *Store) DeletePpcFrame(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "ppc_frames", id)
}

func (s *Store) getFrameByRemoteID(ctx context.Context, remoteID int64) (*models.PpcFrame, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+frameColumns+` FROM ppc_frames WHERE remote_id = ?`, remoteID)
	f, err := scanFrame(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return f, err
}

func (s *Store) listUnsyncedFrames(ctx context.Context) ([]*models.PpcFrame, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+frameColumns+` FROM ppc_frames WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var frames []*models.PpcFrame
	for rows.Next() {
		f, err := scanFrame(rows)
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, rows.Err()
}

// Engines

const engineColumns = `id, ppc_frame_id, manufacturer, model, serial_number,
    engine_type, cooling_type, total_hours, tbo_hours, last_overhaul_date, notes,
    remote_id, sync_status, created_at, modified_at`

func scanEngine(row scanner) (*models.Engine, error) {
	var e models.Engine
	err := row.Scan(
		&e.ID, &e.PpcFrameID, &e.Manufacturer, &e.Model, &e.SerialNumber,
		&e.EngineType, &e.CoolingType, &e.TotalHours, &e.TBOHours,
		&e.LastOverhaulDate, &e.Notes,
		&e.RemoteID, &e.SyncStatus, &e.CreatedAt, &e.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// SaveEngine inserts or updates an engine.
func (s *Store) SaveEngine(ctx context.Context, e *models.Engine) error {
	if e.ID == 0 {
		touchInsert(&e.SyncMeta)
		return s.insertEngine(ctx, e)
	}
	touchUpdate(&e.SyncMeta)
	return s.updateEngine(ctx, e)
}

func (s *Store) insertEngine(ctx context.Context, e *models.Engine) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO engines (ppc_frame_id, manufacturer, model, serial_number,
            engine_type, cooling_type, total_hours, tbo_hours,
            last_overhaul_date, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.PpcFrameID, e.Manufacturer, e.Model, e.SerialNumber,
		e.EngineType, e.CoolingType, e.TotalHours, e.TBOHours,
		e.LastOverhaulDate, e.Notes,
		e.RemoteID, e.SyncStatus, e.CreatedAt, e.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert engine: %w", err)
	}
	e.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateEngine(ctx context.Context, e *models.Engine) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE engines SET ppc_frame_id = ?, manufacturer = ?, model = ?,
            serial_number = ?, engine_type = ?, cooling_type = ?,
            total_hours = ?, tbo_hours = ?, last_overhaul_date = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		e.PpcFrameID, e.Manufacturer, e.Model,
		e.SerialNumber, e.EngineType, e.CoolingType,
		e.TotalHours, e.TBOHours, e.LastOverhaulDate, e.Notes,
		e.RemoteID, e.SyncStatus, e.CreatedAt, e.ModifiedAt, e.ID)
	if err != nil {
		return fmt.Errorf("update engine %d: %w", e.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetEngine returns the engine with the given local ID.
func (s *Store) GetEngine(ctx context.Context, id int64) (*models.Engine, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+engineColumns+` FROM engines WHERE id = ?`, id)
	e, err := scanEngine(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get engine %d: %w", id, err)
	}
	return e, nil
}

// ListEngines returns engines, optionally scoped to a frame. A zero
// frameID lists all.
func (s *Store) ListEngines(ctx context.Context, frameID int64) ([]*models.Engine, error) {
	query := `SELECT ` + engineColumns + ` FROM engines ORDER BY id`
	args := []interface{}{}
	if frameID != 0 {
		query = `SELECT ` + engineColumns + ` FROM engines WHERE ppc_frame_id = ? ORDER BY id`
		args = append(args, frameID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list engines: %w", err)
	}
	defer rows.Close()

	var engines []*models.Engine
	for rows.Next() {
		e, err := scanEngine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan engine: %w", err)
		}
		engines = append(engines, e)
	}
	return engines, rows.Err()
}

// DeleteEngine removes an engine.
func (s *Store) DeleteEngine(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "engines", id)
}

func (s *Store) getEngineByRemoteID(ctx context.Context, remoteID int64) (*models.Engine, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+engineColumns+` FROM engines WHERE remote_id = ?`, remoteID)
	e, err := scanEngine(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return e, err
}

func (s *Store) listUnsyncedEngines(ctx context.Context) ([]*models.Engine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+engineColumns+` FROM engines WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var engines []*models.Engine
	for rows.Next() {
		e, err := scanEngine(rows)
		if err != nil {
			return nil, err
		}
		engines = append(engines, e)
	}
	return engines, rows.Err()
}

// Wings

const wingColumns = `id, ppc_frame_id, manufacturer, model, size_sq_ft,
    cell_count, wing_type, total_hours, manufacture_date,
    last_inspection_date, notes,
    remote_id, sync_status, created_at, modified_at`

func scanWing(row scanner) (*models.Wing, error) {
	var w models.Wing
	err := row.Scan(
		&w.ID, &w.PpcFrameID, &w.Manufacturer, &w.Model, &w.SizeSqFt,
		&w.CellCount, &w.WingType, &w.TotalHours, &w.ManufactureDate,
		&w.LastInspectionDate, &w.Notes,
		&w.RemoteID, &w.SyncStatus, &w.CreatedAt, &w.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// SaveWing inserts or updates a wing.
func (s *Store) SaveWing(ctx context.Context, w *models.Wing) error {
	if w.ID == 0 {
		touchInsert(&w.SyncMeta)
		return s.insertWing(ctx, w)
	}
	touchUpdate(&w.SyncMeta)
	return s.updateWing(ctx, w)
}

func (s *Store) insertWing(ctx context.Context, w *models.Wing) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO wings (ppc_frame_id, manufacturer, model, size_sq_ft,
            cell_count, wing_type, total_hours, manufacture_date,
            last_inspection_date, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		w.PpcFrameID, w.Manufacturer, w.Model, w.SizeSqFt,
		w.CellCount, w.WingType, w.TotalHours, w.ManufactureDate,
		w.LastInspectionDate, w.Notes,
		w.RemoteID, w.SyncStatus, w.CreatedAt, w.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert wing: %w", err)
	}
	w.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateWing(ctx context.Context, w *models.Wing) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE wings SET ppc_frame_id = ?, manufacturer = ?, model = ?,
            size_sq_ft = ?, cell_count = ?, wing_type = ?, total_hours = ?,
            manufacture_date = ?, last_inspection_date = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		w.PpcFrameID, w.Manufacturer, w.Model,
		w.SizeSqFt, w.CellCount, w.WingType, w.TotalHours,
		w.ManufactureDate, w.LastInspectionDate, w.Notes,
		w.RemoteID, w.SyncStatus, w.CreatedAt, w.ModifiedAt, w.ID)
	if err != nil {
		return fmt.Errorf("update wing %d: %w", w.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetWing returns the wing with the given local ID.
func (s *Store) GetWing(ctx context.Context, id int64) (*models.Wing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wingColumns+` FROM wings WHERE id = ?`, id)
	w, err := scanWing(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wing %d: %w", id, err)
	}
	return w, nil
}

// ListWings returns wings, optionally scoped to a frame.
func (s *Store) ListWings(ctx context.Context, frameID int64) ([]*models.Wing, error) {
	query := `SELECT ` + wingColumns + ` FROM wings ORDER BY id`
	args := []interface{}{}
	if frameID != 0 {
		query = `SELECT ` + wingColumns + ` FROM wings WHERE ppc_frame_id = ? ORDER BY id`
		args = append(args, frameID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list wings: %w", err)
	}
	defer rows.Close()

	var wings []*models.Wing
	for rows.Next() {
		w, err := scanWing(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wing: %w", err)
		}
		wings = append(wings, w)
	}
	return wings, rows.Err()
}

// DeleteWing removes a wing.
func (s *Store) DeleteWing(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "wings", id)
}

func (s *Store) getWingByRemoteID(ctx context.Context, remoteID int64) (*models.Wing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+wingColumns+` FROM wings WHERE remote_id = ?`, remoteID)
	w, err := scanWing(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return w, err
}

func (s *Store) listUnsyncedWings(ctx context.Context) ([]*models.Wing, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+wingColumns+` FROM wings WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var wings []*models.Wing
	for rows.Next() {
		w, err := scanWing(rows)
		if err != nil {
			return nil, err
		}
		wings = append(wings, w)
	}
	return wings, rows.Err()
}

// Propellers

const propellerColumns = `id, ppc_frame_id, manufacturer, model, diameter,
    pitch, material, notes,
    remote_id, sync_status, created_at, modified_at`

func scanPropeller(row scanner) (*models.Propeller, error) {
	var p models.Propeller
	err := row.Scan(
		&p.ID, &p.PpcFrameID, &p.Manufacturer, &p.Model, &p.Diameter,
		&p.Pitch, &p.Material, &p.Notes,
		&p.RemoteID, &p.SyncStatus, &p.CreatedAt, &p.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SavePropeller inserts or updates a propeller.
func (s *Store) SavePropeller(ctx context.Context, p *models.Propeller) error {
	if p.ID == 0 {
		touchInsert(&p.SyncMeta)
		return s.insertPropeller(ctx, p)
	}
	touchUpdate(&p.SyncMeta)
	return s.updatePropeller(ctx, p)
}

func (s *Store) insertPropeller(ctx context.Context, p *models.Propeller) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO propellers (ppc_frame_id, manufacturer, model, diameter,
            pitch, material, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.PpcFrameID, p.Manufacturer, p.Model, p.Diameter,
		p.Pitch, p.Material, p.Notes,
		p.RemoteID, p.SyncStatus, p.CreatedAt, p.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert propeller: %w", err)
	}
	p.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updatePropeller(ctx context.Context, p *models.Propeller) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE propellers SET ppc_frame_id = ?, manufacturer = ?, model = ?,
            diameter = ?, pitch = ?, material = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		p.PpcFrameID, p.Manufacturer, p.Model,
		p.Diameter, p.Pitch, p.Material, p.Notes,
		p.RemoteID, p.SyncStatus, p.CreatedAt, p.ModifiedAt, p.ID)
	if err != nil {
		return fmt.Errorf("update propeller %d: %w", p.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetPropeller returns the propeller with the given local ID.
func (s *Store) GetPropeller(ctx context.Context, id int64) (*models.Propeller, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+propellerColumns+` FROM propellers WHERE id = ?`, id)
	p, err := scanPropeller(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get propeller %d: %w", id, err)
	}
	return p, nil
}

// ListPropellers returns propellers, optionally scoped to a frame.
func (s *Store) ListPropellers(ctx context.Context, frameID int64) ([]*models.Propeller, error) {
	query := `SELECT ` + propellerColumns + ` FROM propellers ORDER BY id`
	args := []interface{}{}
	if frameID != 0 {
		query = `SELECT ` + propellerColumns + ` FROM propellers WHERE ppc_frame_id = ? ORDER BY id`
		args = append(args, frameID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list propellers: %w", err)
	}
	defer rows.Close()

	var props []*models.Propeller
	for rows.Next() {
		p, err := scanPropeller(rows)
		if err != nil {
			return nil, fmt.Errorf("scan propeller: %w", err)
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// DeletePropeller removes a propeller.
func (s *Store) DeletePropeller(ctx context.Context, id int64) error {
	return s.deleteRow(ctx, "propellers", id)
}

func (s *Store) getPropellerByRemoteID(ctx context.Context, remoteID int64) (*models.Propeller, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+propellerColumns+` FROM propellers WHERE remote_id = ?`, remoteID)
	p, err := scanPropeller(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return p, err
}

func (s *Store) listUnsyncedPropellers(ctx context.Context) ([]*models.Propeller, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+propellerColumns+` FROM propellers WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var props []*models.Propeller
	for rows.Next() {
		p, err := scanPropeller(rows)
		if err != nil {
			return nil, err
		}
		props = append(props, p)
	}
	return props, rows.Err()
}

// deleteRow removes one row by primary key.
func (s *Store) deleteRow(ctx context.Context, table string, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
