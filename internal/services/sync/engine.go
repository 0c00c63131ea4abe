// Package sync implements the pull-then-push reconciliation cycle
// against the remote API.
package sync

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/joelwehr/ppclog/internal/events"
	"github.com/joelwehr/ppclog/internal/models"
	"github.com/joelwehr/ppclog/internal/transport"
)

// API paths, relative to the configured base URL.
const (
	pathPull = "sync/pull/"
	pathPush = "sync/push/"
)

// Store is the persistence surface the engine reconciles against.
// *store.Store satisfies it.
type Store interface {
	EntityTypes() []string
	ListUnsynced(ctx context.Context, entityType string) ([]models.Syncable, error)
	MergeRemote(ctx context.Context, entityType string, record json.RawMessage) error
	MarkSynced(ctx context.Context, entityType string, localID, remoteID int64) error
	MarkAllSynced(ctx context.Context, pushed map[string][]int64) error
	Setting(key string) (string, error)
	SetSetting(key, value string) error
}

// TokenSource provides the session token and a way to renew it after
// the server rejects it.
type TokenSource interface {
	Token() string
	Refresh(ctx context.Context) error
}

// Event reports the outcome of one executed cycle. Exactly one event
// is emitted per cycle that actually ran; skipped runs (already in
// progress, or signed out) emit nothing.
type Event struct {
	Completed bool
	Err       error
	Pulled    int
	Pushed    int
	At        time.Time
}

type pullResponse struct {
	Data       map[string][]json.RawMessage `json:"data"`
	ServerTime string                       `json:"server_time"`
}

type pushRequest struct {
	Entities map[string][]map[string]interface{} `json:"entities"`
}

type pushResponse struct {
	IDMap      map[string]map[string]int64 `json:"id_map"`
	ServerTime string                      `json:"server_time"`
}

// Engine runs the reconciliation cycle: pull server changes since the
// stored watermark, merge them server-wins, then push all local
// records still marked New or Modified.
type Engine struct {
	store  Store
	client transport.Client
	tokens TokenSource
	logger *events.Logger

	running atomic.Bool
	events  chan Event
}

// NewEngine creates a sync engine.
func NewEngine(st Store, client transport.Client, tokens TokenSource, logger *events.Logger) *Engine {
	return &Engine{
		store:  st,
		client: client,
		tokens: tokens,
		logger: logger.WithField("service", "sync"),
		events: make(chan Event, 16),
	}
}

// Events returns the channel completion events are delivered on.
// Events are dropped, not blocked on, when nobody is listening.
func (e *Engine) Events() <-chan Event {
	return e.events
}

// Run executes one sync cycle. Re-entrant calls while a cycle is in
// flight are dropped silently, as are calls without a session. A
// cycle rejected with 401 gets one token refresh and one retry.
func (e *Engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		e.logger.Debug("Sync already in progress, skipping")
		return nil
	}
	defer e.running.Store(false)

	if e.tokens.Token() == "" {
		e.logger.Debug("Not signed in, skipping sync")
		return nil
	}

	start := time.Now()
	pulled, pushed, err := e.cycle(ctx)
	if err != nil && models.IsUnauthorized(err) {
		e.logger.Info("Session rejected, refreshing token")
		if rerr := e.tokens.Refresh(ctx); rerr != nil {
			err = fmt.Errorf("refresh session: %w", rerr)
		} else {
			pulled, pushed, err = e.cycle(ctx)
		}
	}

	event := Event{
		Completed: err == nil,
		Err:       err,
		Pulled:    pulled,
		Pushed:    pushed,
		At:        time.Now(),
	}
	select {
	case e.events <- event:
	default:
	}

	if err != nil {
		e.logger.WithError(err).Warn("Sync failed")
		return err
	}

	e.logger.WithFields(map[string]interface{}{
		"pulled":   pulled,
		"pushed":   pushed,
		"duration": time.Since(start),
	}).Info("Sync completed")
	return nil
}

func (e *Engine) cycle(ctx context.Context) (pulled, pushed int, err error) {
	pulled, err = e.pull(ctx)
	if err != nil {
		return pulled, 0, err
	}
	pushed, err = e.push(ctx)
	return pulled, pushed, err
}

// pull fetches records changed since the watermark and merges them.
// The watermark only advances after every record merged cleanly, so a
// partial failure re-fetches on the next cycle.
func (e *Engine) pull(ctx context.Context) (int, error) {
	path := pathPull
	since, err := e.store.Setting(models.SettingLastSync)
	if err != nil {
		return 0, err
	}
	if since != "" {
		path += "?since=" + url.QueryEscape(since)
	}

	var resp pullResponse
	if err := e.client.GetJSON(ctx, path, &resp); err != nil {
		return 0, fmt.Errorf("pull: %w", err)
	}

	known := make(map[string]bool)
	merged := 0
	for _, entityType := range e.store.EntityTypes() {
		known[entityType] = true
		for _, record := range resp.Data[entityType] {
			if err := e.store.MergeRemote(ctx, entityType, record); err != nil {
				return merged, fmt.Errorf("merge %s: %w", entityType, err)
			}
			merged++
		}
	}
	for entityType := range resp.Data {
		if !known[entityType] {
			e.logger.WithField("type", entityType).Warn("Ignoring unknown entity type in pull")
		}
	}

	if resp.ServerTime != "" {
		if err := e.store.SetSetting(models.SettingLastSync, resp.ServerTime); err != nil {
			return merged, err
		}
	}
	return merged, nil
}

// push sends every New or Modified record. When there is nothing
// dirty no request is made at all.
func (e *Engine) push(ctx context.Context) (int, error) {
	entities := make(map[string][]map[string]interface{})
	pushedIDs := make(map[string][]int64)
	total := 0
	for _, entityType := range e.store.EntityTypes() {
		recs, err := e.store.ListUnsynced(ctx, entityType)
		if err != nil {
			return 0, err
		}
		for _, rec := range recs {
			payload, err := pushRecord(rec)
			if err != nil {
				return 0, fmt.Errorf("encode %s %d: %w", entityType, rec.LocalID(), err)
			}
			entities[entityType] = append(entities[entityType], payload)
			pushedIDs[entityType] = append(pushedIDs[entityType], rec.LocalID())
			total++
		}
	}
	if total == 0 {
		return 0, nil
	}

	var resp pushResponse
	if err := e.client.PostJSON(ctx, pathPush, pushRequest{Entities: entities}, &resp); err != nil {
		return 0, fmt.Errorf("push: %w", err)
	}

	for entityType, idMap := range resp.IDMap {
		for localStr, remoteID := range idMap {
			localID, err := strconv.ParseInt(localStr, 10, 64)
			if err != nil {
				e.logger.WithFields(map[string]interface{}{
					"type": entityType,
					"id":   localStr,
				}).Warn("Ignoring malformed local id in push response")
				continue
			}
			if err := e.store.MarkSynced(ctx, entityType, localID, remoteID); err != nil {
				e.logger.WithError(err).WithFields(map[string]interface{}{
					"type": entityType,
					"id":   localID,
				}).Warn("Failed to record server id")
			}
		}
	}

	// The server accepted the batch; clear the dirty flag on every
	// pushed record even when the id map did not cover it, so nothing
	// in the batch is re-sent forever. Records dirtied after the batch
	// was collected stay pending for the next cycle.
	if err := e.store.MarkAllSynced(ctx, pushedIDs); err != nil {
		return total, err
	}

	if resp.ServerTime != "" {
		if err := e.store.SetSetting(models.SettingLastSync, resp.ServerTime); err != nil {
			return total, err
		}
	}
	return total, nil
}

// pushRecord converts a record to its wire shape: local-only fields
// stripped, local_id added for the id map, and the server's id in
// "id" only when the record is already known remotely.
func pushRecord(rec models.Syncable) (map[string]interface{}, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	delete(m, "sync_status")
	delete(m, "remote_id")
	m["local_id"] = rec.LocalID()

	if meta := rec.Sync(); meta.RemoteID != nil {
		m["id"] = *meta.RemoteID
	} else {
		delete(m, "id")
	}
	return m, nil
}
