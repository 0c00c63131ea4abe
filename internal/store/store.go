// Package store is the embedded local database: entity tables, the
// settings table, and the sync surface consumed by the sync engine.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
)

// Store wraps the SQLite database.
type Store struct {
	db     *sql.DB
	logger *events.Logger
	sync   map[string]*syncTable
}

// Open opens (creating if needed) the database at path, applies
// pending migrations, and seeds default checklist templates on first
// run.
func Open(path string, logger *events.Logger) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_journal=WAL&_timeout=5000&_fk=1")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	s := &Store{
		db:     db,
		logger: logger.WithField("component", "store"),
	}
	s.sync = s.syncTables()

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	if err := s.ensureClientID(); err != nil {
		db.Close()
		return nil, fmt.Errorf("assign client id: %w", err)
	}

	if err := s.seedDefaultTemplates(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed checklists: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrations are applied in order; the SchemaVersion setting records
// how many have run.
var migrations = []string{schemaV1}

func (s *Store) migrate() error {
	// The settings table must exist before the version can be read.
	if _, err := s.db.Exec(`
        CREATE TABLE IF NOT EXISTS app_settings (
            key   TEXT PRIMARY KEY,
            value TEXT
        )`); err != nil {
		return fmt.Errorf("create settings table: %w", err)
	}

	version := 0
	if v, err := s.Setting(models.SettingSchemaVersion); err != nil {
		return err
	} else if v != "" {
		version, err = strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse schema version %q: %w", v, err)
		}
	}

	if version > len(migrations) {
		return fmt.Errorf("database schema version %d is newer than this build", version)
	}

	for i := version; i < len(migrations); i++ {
		s.logger.WithField("version", i+1).Info("Applying schema migration")
		if _, err := s.db.Exec(migrations[i]); err != nil {
			return fmt.Errorf("apply migration %d: %w", i+1, err)
		}
		if err := s.SetSetting(models.SettingSchemaVersion, strconv.Itoa(i+1)); err != nil {
			return err
		}
	}

	return nil
}

// ensureClientID assigns the per-install identifier on first run.
func (s *Store) ensureClientID() error {
	id, err := s.Setting(models.SettingClientID)
	if err != nil {
		return err
	}
	if id != "" {
		return nil
	}
	return s.SetSetting(models.SettingClientID, uuid.NewString())
}

// ClientID returns the per-install identifier.
func (s *Store) ClientID() (string, error) {
	return s.Setting(models.SettingClientID)
}

// Setting returns the value stored under key, or "" when absent.
func (s *Store) Setting(key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read setting %s: %w", key, err)
	}
	return value.String, nil
}

// SetSetting stores value under key.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(`
        INSERT INTO app_settings (key, value) VALUES (?, ?)
        ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("write setting %s: %w", key, err)
	}
	return nil
}

// DeleteSetting removes key.
func (s *Store) DeleteSetting(key string) error {
	if _, err := s.db.Exec(`DELETE FROM app_settings WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete setting %s: %w", key, err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

// touchInsert stamps metadata for a user-initiated insert.
func touchInsert(m *models.SyncMeta) {
	m.CreatedAt = time.Now().UTC()
	m.ModifiedAt = nil
	m.SyncStatus = models.StatusNew
}

// touchUpdate stamps metadata for a user-initiated update. A record
// that was Synced becomes Modified; a never-pushed record stays New.
func touchUpdate(m *models.SyncMeta) {
	now := time.Now().UTC()
	m.ModifiedAt = &now
	if m.SyncStatus == models.StatusSynced {
		m.SyncStatus = models.StatusModified
	}
}
