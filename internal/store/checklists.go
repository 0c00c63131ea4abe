package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/joelwehr/ppclog/internal/models"
)

// Templates

const templateColumns = `id, name, description, display_order, is_default,
    is_active, remote_id, sync_status, created_at, modified_at`

func scanTemplate(row scanner) (*models.ChecklistTemplate, error) {
	var t models.ChecklistTemplate
	err := row.Scan(
		&t.ID, &t.Name, &t.Description, &t.DisplayOrder, &t.IsDefault,
		&t.IsActive, &t.RemoteID, &t.SyncStatus, &t.CreatedAt, &t.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SaveChecklistTemplate inserts or updates a template.
func (s *Store) SaveChecklistTemplate(ctx context.Context, t *models.ChecklistTemplate) error {
	if t.ID == 0 {
		touchInsert(&t.SyncMeta)
		return s.insertTemplate(ctx, t)
	}
	touchUpdate(&t.SyncMeta)
	return s.updateTemplate(ctx, t)
}

func (s *Store) insertTemplate(ctx context.Context, t *models.ChecklistTemplate) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO checklist_templates (name, description, display_order,
            is_default, is_active,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.Name, t.Description, t.DisplayOrder,
		t.IsDefault, t.IsActive,
		t.RemoteID, t.SyncStatus, t.CreatedAt, t.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	t.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateTemplate(ctx context.Context, t *models.ChecklistTemplate) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE checklist_templates SET name = ?, description = ?,
            display_order = ?, is_default = ?, is_active = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		t.Name, t.Description,
		t.DisplayOrder, t.IsDefault, t.IsActive,
		t.RemoteID, t.SyncStatus, t.CreatedAt, t.ModifiedAt, t.ID)
	if err != nil {
		return fmt.Errorf("update template %d: %w", t.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetChecklistTemplate returns the template with the given local ID.
func (s *Store) GetChecklistTemplate(ctx context.Context, id int64) (*models.ChecklistTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM checklist_templates WHERE id = ?`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get template %d: %w", id, err)
	}
	return t, nil
}

// ListChecklistTemplates returns active templates in display order.
func (s *Store) ListChecklistTemplates(ctx context.Context) ([]*models.ChecklistTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM checklist_templates
         WHERE is_active = 1 ORDER BY display_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []*models.ChecklistTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// DeleteChecklistTemplate removes a template and its items.
func (s *Store) DeleteChecklistTemplate(ctx context.Context, id int64) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM checklist_template_items WHERE template_id = ?`, id); err != nil {
		return fmt.Errorf("delete template items: %w", err)
	}
	return s.deleteRow(ctx, "checklist_templates", id)
}

func (s *Store) countTemplates(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM checklist_templates`).Scan(&n)
	return n, err
}

func (s *Store) getTemplateByRemoteID(ctx context.Context, remoteID int64) (*models.ChecklistTemplate, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM checklist_templates WHERE remote_id = ?`, remoteID)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return t, err
}

func (s *Store) listUnsyncedTemplates(ctx context.Context) ([]*models.ChecklistTemplate, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM checklist_templates WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []*models.ChecklistTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// Template items

const templateItemColumns = `id, template_id, section, description,
    display_order, item_type,
    remote_id, sync_status, created_at, modified_at`

func scanTemplateItem(row scanner) (*models.ChecklistTemplateItem, error) {
	var i models.ChecklistTemplateItem
	err := row.Scan(
		&i.ID, &i.TemplateID, &i.Section, &i.Description,
		&i.DisplayOrder, &i.ItemType,
		&i.RemoteID, &i.SyncStatus, &i.CreatedAt, &i.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// SaveChecklistTemplateItem inserts or updates a template item.
func (s *Store) SaveChecklistTemplateItem(ctx context.Context, i *models.ChecklistTemplateItem) error {
	if i.ID == 0 {
		touchInsert(&i.SyncMeta)
		return s.insertTemplateItem(ctx, i)
	}
	touchUpdate(&i.SyncMeta)
	return s.updateTemplateItem(ctx, i)
}

func (s *Store) insertTemplateItem(ctx context.Context, i *models.ChecklistTemplateItem) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO checklist_template_items (template_id, section,
            description, display_order, item_type,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.TemplateID, i.Section,
		i.Description, i.DisplayOrder, i.ItemType,
		i.RemoteID, i.SyncStatus, i.CreatedAt, i.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert template item: %w", err)
	}
	i.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateTemplateItem(ctx context.Context, i *models.ChecklistTemplateItem) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE checklist_template_items SET template_id = ?, section = ?,
            description = ?, display_order = ?, item_type = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		i.TemplateID, i.Section,
		i.Description, i.DisplayOrder, i.ItemType,
		i.RemoteID, i.SyncStatus, i.CreatedAt, i.ModifiedAt, i.ID)
	if err != nil {
		return fmt.Errorf("update template item %d: %w", i.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListChecklistTemplateItems returns a template's items in display
// order.
func (s *Store) ListChecklistTemplateItems(ctx context.Context, templateID int64) ([]*models.ChecklistTemplateItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateItemColumns+` FROM checklist_template_items
         WHERE template_id = ? ORDER BY display_order, id`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template items: %w", err)
	}
	defer rows.Close()

	var items []*models.ChecklistTemplateItem
	for rows.Next() {
		i, err := scanTemplateItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (s *Store) getTemplateItemByRemoteID(ctx context.Context, remoteID int64) (*models.ChecklistTemplateItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateItemColumns+` FROM checklist_template_items WHERE remote_id = ?`, remoteID)
	i, err := scanTemplateItem(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return i, err
}

func (s *Store) listUnsyncedTemplateItems(ctx context.Context) ([]*models.ChecklistTemplateItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateItemColumns+` FROM checklist_template_items WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ChecklistTemplateItem
	for rows.Next() {
		i, err := scanTemplateItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

// Checklist logs

const checklistLogColumns = `id, flight_id, template_id, completed_at,
    total_items, checked_items, notes,
    remote_id, sync_status, created_at, modified_at`

func scanChecklistLog(row scanner) (*models.ChecklistLog, error) {
	var l models.ChecklistLog
	err := row.Scan(
		&l.ID, &l.FlightID, &l.TemplateID, &l.CompletedAt,
		&l.TotalItems, &l.CheckedItems, &l.Notes,
		&l.RemoteID, &l.SyncStatus, &l.CreatedAt, &l.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

// SaveChecklistLog inserts or updates a checklist run record.
func (s *Store) SaveChecklistLog(ctx context.Context, l *models.ChecklistLog) error {
	if l.ID == 0 {
		touchInsert(&l.SyncMeta)
		return s.insertChecklistLog(ctx, l)
	}
	touchUpdate(&l.SyncMeta)
	return s.updateChecklistLog(ctx, l)
}

func (s *Store) insertChecklistLog(ctx context.Context, l *models.ChecklistLog) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO checklist_logs (flight_id, template_id, completed_at,
            total_items, checked_items, notes,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.FlightID, l.TemplateID, l.CompletedAt,
		l.TotalItems, l.CheckedItems, l.Notes,
		l.RemoteID, l.SyncStatus, l.CreatedAt, l.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert checklist log: %w", err)
	}
	l.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateChecklistLog(ctx context.Context, l *models.ChecklistLog) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE checklist_logs SET flight_id = ?, template_id = ?,
            completed_at = ?, total_items = ?, checked_items = ?, notes = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		l.FlightID, l.TemplateID,
		l.CompletedAt, l.TotalItems, l.CheckedItems, l.Notes,
		l.RemoteID, l.SyncStatus, l.CreatedAt, l.ModifiedAt, l.ID)
	if err != nil {
		return fmt.Errorf("update checklist log %d: %w", l.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListChecklistLogs returns completed runs, most recent first. A zero
// flightID lists all.
func (s *Store) ListChecklistLogs(ctx context.Context, flightID int64) ([]*models.ChecklistLog, error) {
	query := `SELECT ` + checklistLogColumns + ` FROM checklist_logs ORDER BY completed_at DESC, id DESC`
	args := []interface{}{}
	if flightID != 0 {
		query = `SELECT ` + checklistLogColumns + ` FROM checklist_logs
            WHERE flight_id = ? ORDER BY completed_at DESC, id DESC`
		args = append(args, flightID)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list checklist logs: %w", err)
	}
	defer rows.Close()

	var logs []*models.ChecklistLog
	for rows.Next() {
		l, err := scanChecklistLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan checklist log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (s *Store) getChecklistLogByRemoteID(ctx context.Context, remoteID int64) (*models.ChecklistLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checklistLogColumns+` FROM checklist_logs WHERE remote_id = ?`, remoteID)
	l, err := scanChecklistLog(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return l, err
}

func (s *Store) listUnsyncedChecklistLogs(ctx context.Context) ([]*models.ChecklistLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checklistLogColumns+` FROM checklist_logs WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ChecklistLog
	for rows.Next() {
		l, err := scanChecklistLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// Checklist log items

const logItemColumns = `id, checklist_log_id, template_item_id, section,
    description, item_type, is_checked, count_value,
    remote_id, sync_status, created_at, modified_at`

func scanLogItem(row scanner) (*models.ChecklistLogItem, error) {
	var i models.ChecklistLogItem
	err := row.Scan(
		&i.ID, &i.ChecklistLogID, &i.TemplateItemID, &i.Section,
		&i.Description, &i.ItemType, &i.IsChecked, &i.CountValue,
		&i.RemoteID, &i.SyncStatus, &i.CreatedAt, &i.ModifiedAt,
	)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

// SaveChecklistLogItem inserts or updates a run item.
func (s *Store) SaveChecklistLogItem(ctx context.Context, i *models.ChecklistLogItem) error {
	if i.ID == 0 {
		touchInsert(&i.SyncMeta)
		return s.insertLogItem(ctx, i)
	}
	touchUpdate(&i.SyncMeta)
	return s.updateLogItem(ctx, i)
}

func (s *Store) insertLogItem(ctx context.Context, i *models.ChecklistLogItem) error {
	res, err := s.db.ExecContext(ctx, `
        INSERT INTO checklist_log_items (checklist_log_id, template_item_id,
            section, description, item_type, is_checked, count_value,
            remote_id, sync_status, created_at, modified_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		i.ChecklistLogID, i.TemplateItemID,
		i.Section, i.Description, i.ItemType, i.IsChecked, i.CountValue,
		i.RemoteID, i.SyncStatus, i.CreatedAt, i.ModifiedAt)
	if err != nil {
		return fmt.Errorf("insert log item: %w", err)
	}
	i.ID, err = res.LastInsertId()
	return err
}

func (s *Store) updateLogItem(ctx context.Context, i *models.ChecklistLogItem) error {
	res, err := s.db.ExecContext(ctx, `
        UPDATE checklist_log_items SET checklist_log_id = ?,
            template_item_id = ?, section = ?, description = ?,
            item_type = ?, is_checked = ?, count_value = ?,
            remote_id = ?, sync_status = ?, created_at = ?, modified_at = ?
        WHERE id = ?`,
		i.ChecklistLogID,
		i.TemplateItemID, i.Section, i.Description,
		i.ItemType, i.IsChecked, i.CountValue,
		i.RemoteID, i.SyncStatus, i.CreatedAt, i.ModifiedAt, i.ID)
	if err != nil {
		return fmt.Errorf("update log item %d: %w", i.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ListChecklistLogItems returns a run's items in insertion order.
func (s *Store) ListChecklistLogItems(ctx context.Context, logID int64) ([]*models.ChecklistLogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+logItemColumns+` FROM checklist_log_items
         WHERE checklist_log_id = ? ORDER BY id`, logID)
	if err != nil {
		return nil, fmt.Errorf("list log items: %w", err)
	}
	defer rows.Close()

	var items []*models.ChecklistLogItem
	for rows.Next() {
		i, err := scanLogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan log item: %w", err)
		}
		items = append(items, i)
	}
	return items, rows.Err()
}

func (s *Store) getLogItemByRemoteID(ctx context.Context, remoteID int64) (*models.ChecklistLogItem, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+logItemColumns+` FROM checklist_log_items WHERE remote_id = ?`, remoteID)
	i, err := scanLogItem(row)
	if err == sql.ErrNoRows {
		return nil, models.ErrNotFound
	}
	return i, err
}

func (s *Store) listUnsyncedLogItems(ctx context.Context) ([]*models.ChecklistLogItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+logItemColumns+` FROM checklist_log_items WHERE sync_status != ? ORDER BY id`,
		models.StatusSynced)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.ChecklistLogItem
	for rows.Next() {
		i, err := scanLogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	return items, rows.Err()
}
