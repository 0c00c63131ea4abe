package store

// schemaV1 creates the entity tables. Every syncable table carries the
// remote_id/sync_status pair plus created_at/modified_at stamps.
const schemaV1 = `
CREATE TABLE IF NOT EXISTS flights (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    flight_date        TIMESTAMP NOT NULL,
    start_time         TIMESTAMP,
    end_time           TIMESTAMP,
    duration_minutes   INTEGER,
    ppc_frame_id       INTEGER,
    location           TEXT,
    weather_conditions TEXT,
    notes              TEXT,
    remote_id          INTEGER,
    sync_status        INTEGER NOT NULL DEFAULT 2,
    created_at         TIMESTAMP NOT NULL,
    modified_at        TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_flights_date ON flights(flight_date);

CREATE TABLE IF NOT EXISTS ppc_frames (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    manufacturer  TEXT,
    model         TEXT,
    serial_number TEXT,
    n_number      TEXT,
    year          INTEGER,
    empty_weight  REAL,
    seat_config   TEXT,
    is_active     INTEGER NOT NULL DEFAULT 1,
    notes         TEXT,
    remote_id     INTEGER,
    sync_status   INTEGER NOT NULL DEFAULT 2,
    created_at    TIMESTAMP NOT NULL,
    modified_at   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS engines (
    id                 INTEGER PRIMARY KEY AUTOINCREMENT,
    ppc_frame_id       INTEGER NOT NULL,
    manufacturer       TEXT,
    model              TEXT,
    serial_number      TEXT,
    engine_type        TEXT,
    cooling_type       TEXT,
    total_hours        REAL,
    tbo_hours          REAL,
    last_overhaul_date TIMESTAMP,
    notes              TEXT,
    remote_id          INTEGER,
    sync_status        INTEGER NOT NULL DEFAULT 2,
    created_at         TIMESTAMP NOT NULL,
    modified_at        TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_engines_frame ON engines(ppc_frame_id);

CREATE TABLE IF NOT EXISTS wings (
    id                   INTEGER PRIMARY KEY AUTOINCREMENT,
    ppc_frame_id         INTEGER NOT NULL,
    manufacturer         TEXT,
    model                TEXT,
    size_sq_ft           REAL,
    cell_count           INTEGER,
    wing_type            TEXT,
    total_hours          REAL,
    manufacture_date     TIMESTAMP,
    last_inspection_date TIMESTAMP,
    notes                TEXT,
    remote_id            INTEGER,
    sync_status          INTEGER NOT NULL DEFAULT 2,
    created_at           TIMESTAMP NOT NULL,
    modified_at          TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_wings_frame ON wings(ppc_frame_id);

CREATE TABLE IF NOT EXISTS propellers (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    ppc_frame_id INTEGER NOT NULL,
    manufacturer TEXT,
    model        TEXT,
    diameter     REAL,
    pitch        REAL,
    material     TEXT,
    notes        TEXT,
    remote_id    INTEGER,
    sync_status  INTEGER NOT NULL DEFAULT 2,
    created_at   TIMESTAMP NOT NULL,
    modified_at  TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_propellers_frame ON propellers(ppc_frame_id);

CREATE TABLE IF NOT EXISTS pilot_profiles (
    id                      INTEGER PRIMARY KEY AUTOINCREMENT,
    full_name               TEXT,
    certificate_type        TEXT,
    certificate_number      TEXT,
    medical_type            TEXT,
    medical_expiration      TIMESTAMP,
    max_wind_speed          REAL,
    max_crosswind           REAL,
    min_visibility          REAL,
    min_ceiling             REAL,
    emergency_contact_name  TEXT,
    emergency_contact_phone TEXT,
    endorsements            TEXT,
    remote_id               INTEGER,
    sync_status             INTEGER NOT NULL DEFAULT 2,
    created_at              TIMESTAMP NOT NULL,
    modified_at             TIMESTAMP
);

CREATE TABLE IF NOT EXISTS checklist_templates (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    name          TEXT NOT NULL,
    description   TEXT,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_default    INTEGER NOT NULL DEFAULT 0,
    is_active     INTEGER NOT NULL DEFAULT 1,
    remote_id     INTEGER,
    sync_status   INTEGER NOT NULL DEFAULT 2,
    created_at    TIMESTAMP NOT NULL,
    modified_at   TIMESTAMP
);

CREATE TABLE IF NOT EXISTS checklist_template_items (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    template_id   INTEGER NOT NULL,
    section       TEXT,
    description   TEXT NOT NULL,
    display_order INTEGER NOT NULL DEFAULT 0,
    item_type     TEXT,
    remote_id     INTEGER,
    sync_status   INTEGER NOT NULL DEFAULT 2,
    created_at    TIMESTAMP NOT NULL,
    modified_at   TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_template_items_template ON checklist_template_items(template_id);

CREATE TABLE IF NOT EXISTS checklist_logs (
    id            INTEGER PRIMARY KEY AUTOINCREMENT,
    flight_id     INTEGER,
    template_id   INTEGER,
    completed_at  TIMESTAMP NOT NULL,
    total_items   INTEGER NOT NULL DEFAULT 0,
    checked_items INTEGER NOT NULL DEFAULT 0,
    notes         TEXT,
    remote_id     INTEGER,
    sync_status   INTEGER NOT NULL DEFAULT 2,
    created_at    TIMESTAMP NOT NULL,
    modified_at   TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_checklist_logs_flight ON checklist_logs(flight_id);

CREATE TABLE IF NOT EXISTS checklist_log_items (
    id               INTEGER PRIMARY KEY AUTOINCREMENT,
    checklist_log_id INTEGER NOT NULL,
    template_item_id INTEGER,
    section          TEXT,
    description      TEXT NOT NULL,
    item_type        TEXT,
    is_checked       INTEGER NOT NULL DEFAULT 0,
    count_value      INTEGER NOT NULL DEFAULT 0,
    remote_id        INTEGER,
    sync_status      INTEGER NOT NULL DEFAULT 2,
    created_at       TIMESTAMP NOT NULL,
    modified_at      TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_log_items_log ON checklist_log_items(checklist_log_id);

CREATE TABLE IF NOT EXISTS maintenance_logs (
    id                      INTEGER PRIMARY KEY AUTOINCREMENT,
    ppc_frame_id            INTEGER NOT NULL,
    maintenance_date        TIMESTAMP NOT NULL,
    maintenance_type        TEXT,
    component               TEXT,
    description             TEXT,
    parts_used              TEXT,
    cost                    REAL,
    engine_hours_at_service REAL,
    next_service_due_hours  REAL,
    next_service_due_date   TIMESTAMP,
    performed_by            TEXT,
    notes                   TEXT,
    remote_id               INTEGER,
    sync_status             INTEGER NOT NULL DEFAULT 2,
    created_at              TIMESTAMP NOT NULL,
    modified_at             TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_maintenance_frame ON maintenance_logs(ppc_frame_id);
`
