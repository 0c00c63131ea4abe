// Package checklists records completed checklist runs against stored
// templates.
package checklists

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/store"
)

// Service runs checklists.
type Service struct {
	store  *store.Store
	logger *events.Logger
}

// NewService creates a checklist service.
func NewService(st *store.Store, logger *events.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger.WithField("service", "checklists"),
	}
}

// ItemResult is the recorded outcome of one template item during a
// run.
type ItemResult struct {
	Item    *models.ChecklistTemplateItem
	Checked bool
	Count   int64
}

// ResolveTemplate finds a template by numeric ID or by
// case-insensitive name match.
func (s *Service) ResolveTemplate(ctx context.Context, ref string) (*models.ChecklistTemplate, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		return s.store.GetChecklistTemplate(ctx, id)
	}

	templates, err := s.store.ListChecklistTemplates(ctx)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return nil, fmt.Errorf("checklist %q: %w", ref, models.ErrNotFound)
}

// Items returns a template's items in display order.
func (s *Service) Items(ctx context.Context, templateID int64) ([]*models.ChecklistTemplateItem, error) {
	return s.store.ListChecklistTemplateItems(ctx, templateID)
}

// Complete records a finished run: one ChecklistLog plus a log item
// per template item, optionally tied to a flight.
func (s *Service) Complete(ctx context.Context, template *models.ChecklistTemplate, flightID *int64, results []ItemResult, notes *string) (*models.ChecklistLog, error) {
	if len(results) == 0 {
		return nil, errors.New("checklist run has no items")
	}

	checked := int64(0)
	for _, r := range results {
		if r.Checked || r.Count > 0 {
			checked++
		}
	}

	log := &models.ChecklistLog{
		FlightID:     flightID,
		TemplateID:   &template.ID,
		CompletedAt:  time.Now(),
		TotalItems:   int64(len(results)),
		CheckedItems: checked,
		Notes:        notes,
	}
	if err := s.store.SaveChecklistLog(ctx, log); err != nil {
		return nil, fmt.Errorf("record checklist run: %w", err)
	}

	for _, r := range results {
		item := &models.ChecklistLogItem{
			ChecklistLogID: log.ID,
			TemplateItemID: &r.Item.ID,
			Section:        r.Item.Section,
			Description:    r.Item.Description,
			ItemType:       r.Item.ItemType,
			IsChecked:      r.Checked,
			CountValue:     r.Count,
		}
		if err := s.store.SaveChecklistLogItem(ctx, item); err != nil {
			return nil, fmt.Errorf("record checklist item: %w", err)
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"template": template.Name,
		"checked":  checked,
		"total":    log.TotalItems,
	}).Info("Checklist completed")
	return log, nil
}
