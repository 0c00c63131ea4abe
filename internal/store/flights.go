package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

const flightColumns = `id, flight_date, start_time, end_time, duration_minutes,
    ppc_frame_id, location, weather_conditions, notes,
    remote_id, sync_status, created_at, modified_at`

func scanFlight(row scanner) (*models.Flight, error) {
	var f models.Flight
	err := row.Scan(
		&f.ID, &f.FlightDate, &f.StartTime, &f.EndTime, &f.DurationMinutes,
		&f.PpcFrameID, &f.Location, &f.Weather, &f.Notes,
		&f.RemoteID, &f.SyncStatus, &f.CreatedAt, &f.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// SaveFlight inserts f when its ID is zero, otherwise updates the
// existing row. Sync metadata is stamped accordingly.
func (s *Store) SaveFlight(ctx context.Context, f *models.Flight) error {
	if f.ID == 0 {
		touchInsert(&f.SyncMeta)
		return s.insertFlight(ctx, f)
	}
	touchUpdate(&f.SyncMeta)
	return s.updateFlight(ctx, f)
}

func (s *Store) insertFlight(ctx context.Context, f *models.Flight) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO flights (flight_date, start_time, end_time, duration_minutes,
            ppc_frame_id, location, weather_conditions, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.FlightDate, f.StartTime, f.EndTime, f.DurationMinutes,
		f.PpcFrameID, f.Location, f.Weather, f.Notes,
		f.RemoteID, f.SyncStatus, f.CreatedAt, f.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert flight: %w", err)
	}
	f.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateFlight(ctx context.Context, f *models.Flight) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE flights SET flight_date = ?, start_time = ?, end_time = ?,
            duration_minutes = ?, ppc_frame_id = ?, location = ?,
            weather_conditions = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		f.FlightDate, f.StartTime, f.EndTime, f.DurationMinutes,
		f.PpcFrameID, f.Location, f.Weather, f.Notes,
		f.RemoteID, f.SyncStatus, f.CreatedAt, f.ModifiedAt, f.ID)
	if err != nil {
		return fmt.Errorf("update flight %d: %w", f.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetFlight returns the flight with the given local ID.
func (s *Store) GetFlight(ctx context.Context, id int64) (*models.Flight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE id = ?`, id)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get flight %d: %w", id, err)
	}
	return f, nil
}

// ListFlights returns all flights, most recent first.
func (s *Store) ListFlights(ctx context.Context) ([]*models.Flight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+flightColumns+` FROM flights ORDER BY flight_date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list flights: %w", err)
	}
	defer rows.Close()

	var flights []*models.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan flight: %w", err)
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

// OpenFlight returns the most recent flight with a start time but no
// end time, or ErrNotFound when no flight is in progress.
func (s *Store) OpenFlight(ctx context.Context) (*models.Flight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights
         WHERE start_time IS NOT NULL AND end_time IS NULL
         ORDER BY start_time DESC LIMIT 1`)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find open flight: %w", err)
	}
	return f, nil
}

// DeleteFlight removes the flight with the given local ID.
func (s *Store) DeleteFlight(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM flights WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete flight %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) getFlightByRemoteID(ctx context.Context, remoteID int64) (*models.Flight, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE remote_id = ?`, remoteID)
	f, err := scanFlight(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return f, err
}

func (s *Store) listUnsyncedFlights(ctx context.Context) ([]*models.Flight, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+flightColumns+` FROM flights WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flights []*models.Flight
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}
