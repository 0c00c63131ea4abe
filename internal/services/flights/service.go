// Package flights manages flight sessions and logbook statistics.
package flights

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/store"
)

// ErrSessionActive is returned when starting a flight while another
// is still open.
var ErrSessionActive = errors.New("a flight is already in progress")

// ErrNoSession is returned when ending a flight and none is open.
var ErrNoSession = errors.New("no flight in progress")

// Service manages the active flight session.
type Service struct {
	store  *store.Store
	logger *events.Logger
}

// NewService creates a flight service.
func NewService(st *store.Store, logger *events.Logger) *Service {
	return &Service{
		store:  st,
		logger: logger.WithField("service", "flights"),
	}
}

// Start opens a new flight stamped with the current time. Only one
// flight can be open at a time.
func (s *Service) Start(ctx context.Context, frameID *int64, location *string) (*models.Flight, error) {
	if _, err := s.store.OpenFlight(ctx); err == nil {
		return nil, ErrSessionActive
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	flight := &models.Flight{
		FlightDate: now.Truncate(24 * time.Hour),
		StartTime:  &now,
		PpcFrameID: frameID,
		Location:   location,
	}
	if err := s.store.SaveFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("start flight: %w", err)
	}

	s.logger.WithField("flight_id", flight.ID).Info("Flight started")
	return flight, nil
}

// End closes the open flight, computing its duration.
func (s *Service) End(ctx context.Context, notes *string) (*models.Flight, error) {
	flight, err := s.store.OpenFlight(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, err
	}

	now := time.Now()
	flight.EndTime = &now
	flight.CalculateDuration()
	if notes != nil {
		flight.Notes = notes
	}
	if err := s.store.SaveFlight(ctx, flight); err != nil {
		return nil, fmt.Errorf("end flight: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"flight_id": flight.ID,
		"duration":  flight.DurationMinutes,
	}).Info("Flight ended")
	return flight, nil
}

// Active returns the open flight, or ErrNoSession.
func (s *Service) Active(ctx context.Context) (*models.Flight, error) {
	flight, err := s.store.OpenFlight(ctx)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrNoSession
	}
	return flight, err
}

// Stats summarizes the logbook.
type Stats struct {
	TotalFlights     int
	TotalMinutes     int64
	FlightsThisMonth int
	FlightsThisYear  int
}

// TotalHours returns logged time in hours.
func (s *Stats) TotalHours() float64 {
	return float64(s.TotalMinutes) / 60.0
}

// Statistics computes logbook totals from all recorded flights.
func (s *Service) Statistics(ctx context.Context) (*Stats, error) {
	flights, err := s.store.ListFlights(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	stats := &Stats{TotalFlights: len(flights)}
	for _, f := range flights {
		if f.DurationMinutes != nil {
			stats.TotalMinutes += *f.DurationMinutes
		}
		if f.FlightDate.Year() == now.Year() {
			stats.FlightsThisYear++
			if f.FlightDate.Month() == now.Month() {
				stats.FlightsThisMonth++
			}
		}
	}
	return stats, nil
}
