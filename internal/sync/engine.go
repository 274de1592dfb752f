package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status describes the engine's health as surfaced to the API.
type Status string

const (
	// StatusIdle means the last pass completed and nothing is pending.
	StatusIdle Status = "idle"
	// StatusSyncing means a write pass is in flight or queued.
	StatusSyncing Status = "syncing"
	// StatusDegraded means bootstrap fell back to the local snapshot
	// cache; reads work, write passes are suspended until a manual
	// retry reaches the remote store.
	StatusDegraded Status = "degraded"
	// StatusError means the last write pass failed; the delta is kept
	// and retried on the next pass.
	StatusError Status = "error"
)

// ErrNotReady is returned by operations that require a completed
// bootstrap.
var ErrNotReady = errors.New("sync engine not bootstrapped")

// ErrSyncDisabled is returned while the engine serves cached snapshots.
// A degraded engine never writes; its baselines describe the cache, not
// the remote store, so a pass would re-create records deleted elsewhere.
var ErrSyncDisabled = errors.New("sync disabled until the remote store is reachable")

// SnapshotCache persists per-collection snapshots locally so a session
// can start read-only when the remote store is unreachable.
type SnapshotCache interface {
	Load(col Collection) ([]Record, error)
	Store(col Collection, records []Record) error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithCache installs a local snapshot cache used as a bootstrap
// fallback and refreshed after every successful write pass.
func WithCache(c SnapshotCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithQuietPeriod overrides the debounce quiet period.
func WithQuietPeriod(d time.Duration) Option {
	return func(e *Engine) { e.quiet = d }
}

// WithPollInterval overrides the poll fallback interval used when the
// change-notification feed is unavailable.
func WithPollInterval(d time.Duration) Option {
	return func(e *Engine) { e.pollInterval = d }
}

// WithSessionID fixes the session identity used to recognize the
// engine's own events in the feed. The same ID must be given to the
// adapter that stamps outgoing events.
func WithSessionID(id string) Option {
	return func(e *Engine) { e.sessionID = id }
}

// Engine drives convergence between the entity store and the remote
// store: debounced write passes reconcile local snapshots against the
// baseline, the realtime path folds remote events into both store and
// baseline, and bootstrap seeds everything from a full remote read.
type Engine struct {
	adapter      Adapter
	source       Source
	log          *zap.Logger
	cache        SnapshotCache
	quiet        time.Duration
	pollInterval time.Duration
	sessionID    string

	sched     *Scheduler
	baselines map[Collection]*Baseline

	mu       sync.Mutex
	status   Status
	lastErr  error
	lastErrs map[Collection]error
	ready    bool
	degraded bool
	stops    []func()
	pollStop context.CancelFunc
}

// NewEngine wires an engine over the given backend adapter and entity
// store. Call Bootstrap before Start.
func NewEngine(adapter Adapter, source Source, opts ...Option) *Engine {
	e := &Engine{
		adapter:      adapter,
		source:       source,
		log:          zap.NewNop(),
		quiet:        DefaultQuietPeriod,
		pollInterval: 30 * time.Second,
		sessionID:    uuid.NewString(),
		baselines:    make(map[Collection]*Baseline),
		lastErrs:     make(map[Collection]error),
		status:       StatusIdle,
	}
	for _, opt := range opts {
		opt(e)
	}
	for _, col := range AllCollections() {
		e.baselines[col] = NewBaseline()
	}
	e.sched = NewScheduler(e.quiet, e.runPass)
	return e
}

// SessionID returns the identity stamped on this engine's outgoing
// events.
func (e *Engine) SessionID() string { return e.sessionID }

// Bootstrap loads every collection from the remote store, replaces the
// entity store contents and seeds the baselines. When the remote read
// fails and a snapshot cache is configured, the cached snapshots are
// loaded instead and the engine enters degraded mode; Retry repeats the
// remote bootstrap later.
func (e *Engine) Bootstrap(ctx context.Context) error {
	loaded := make(map[Collection][]Record, len(AllCollections()))
	var remoteErr error
	for _, col := range AllCollections() {
		records, err := e.adapter.ReadAll(ctx, col)
		if err != nil {
			remoteErr = fmt.Errorf("bootstrap %s: %w", col, err)
			break
		}
		loaded[col] = records
	}

	if remoteErr != nil {
		e.log.Warn("remote bootstrap failed", zap.Error(remoteErr))
		if e.cache == nil {
			e.setState(StatusError, remoteErr, false, false)
			return remoteErr
		}
		for _, col := range AllCollections() {
			records, err := e.cache.Load(col)
			if err != nil {
				e.setState(StatusError, remoteErr, false, false)
				return remoteErr
			}
			loaded[col] = records
		}
		if err := e.install(loaded, false); err != nil {
			e.setState(StatusError, err, false, false)
			return err
		}
		e.setState(StatusDegraded, remoteErr, true, true)
		e.log.Info("serving cached snapshots", zap.String("status", string(StatusDegraded)))
		return nil
	}

	if err := e.install(loaded, true); err != nil {
		e.setState(StatusError, err, false, false)
		return err
	}
	if e.cache != nil {
		for col, records := range loaded {
			if err := e.cache.Store(col, records); err != nil {
				e.log.Warn("snapshot cache write failed", zap.String("collection", string(col)), zap.Error(err))
			}
		}
	}
	e.setState(StatusIdle, nil, true, false)
	e.log.Info("bootstrap complete", zap.String("session", e.sessionID))
	return nil
}

// install replaces the entity store contents and, when seedBaseline is
// set, resets the baselines to fingerprints of exactly what was loaded.
// A degraded bootstrap leaves the baselines empty; write passes stay
// suspended until a retry reseeds them from the remote store.
func (e *Engine) install(loaded map[Collection][]Record, seedBaseline bool) error {
	for _, col := range AllCollections() {
		records := loaded[col]
		if err := e.source.ReplaceAll(col, records); err != nil {
			return fmt.Errorf("install %s: %w", col, err)
		}
		if !seedBaseline {
			continue
		}
		entries := make(map[string]string, len(records))
		for _, rec := range records {
			entries[rec.Key] = RecordFingerprint(rec)
		}
		e.baselines[col].ReplaceAll(entries)
	}
	return nil
}

// Retry repeats the remote bootstrap after a degraded start. On success
// the engine leaves degraded mode and the realtime feed is (re)attached.
// When the remote is still unreachable the engine stays degraded and the
// remote error is returned.
func (e *Engine) Retry(ctx context.Context) error {
	e.mu.Lock()
	wasDegraded := e.degraded
	e.mu.Unlock()
	if !wasDegraded {
		return nil
	}
	if err := e.Bootstrap(ctx); err != nil {
		return err
	}
	e.mu.Lock()
	stillDegraded := e.degraded
	lastErr := e.lastErr
	e.mu.Unlock()
	if stillDegraded {
		return lastErr
	}
	return e.Start(ctx)
}

// Start attaches the realtime feed for every collection. When the feed
// is unavailable the engine falls back to periodic polling. Degraded
// engines skip attachment until Retry succeeds.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return ErrNotReady
	}
	if e.degraded {
		e.mu.Unlock()
		return nil
	}
	for _, stop := range e.stops {
		stop()
	}
	e.stops = nil
	if e.pollStop != nil {
		e.pollStop()
		e.pollStop = nil
	}
	e.mu.Unlock()

	var stops []func()
	for _, col := range AllCollections() {
		stop, err := e.adapter.Subscribe(ctx, col, e.handleEvent)
		if err != nil {
			for _, s := range stops {
				s()
			}
			if errors.Is(err, ErrFeedUnavailable) {
				e.log.Info("feed unavailable, polling", zap.Duration("interval", e.pollInterval))
				pollCtx, cancel := context.WithCancel(ctx)
				e.mu.Lock()
				e.pollStop = cancel
				e.mu.Unlock()
				go e.pollLoop(pollCtx)
				return nil
			}
			return fmt.Errorf("subscribe %s: %w", col, err)
		}
		stops = append(stops, stop)
	}
	e.mu.Lock()
	e.stops = stops
	e.mu.Unlock()
	return nil
}

// NotifyChange tells the engine a collection was mutated locally. The
// write pass runs after the quiet period. While degraded the change is
// ignored; the remote state reinstalled by a successful Retry is
// authoritative.
func (e *Engine) NotifyChange(col Collection) {
	e.mu.Lock()
	if !e.ready || e.degraded {
		e.mu.Unlock()
		return
	}
	e.status = StatusSyncing
	e.mu.Unlock()
	e.sched.Touch(col)
}

// SaveNow bypasses the debounce and runs the collection's write pass
// synchronously. Used by the manual save endpoint.
func (e *Engine) SaveNow(ctx context.Context, col Collection) error {
	e.mu.Lock()
	if !e.ready {
		e.mu.Unlock()
		return ErrNotReady
	}
	if e.degraded {
		e.mu.Unlock()
		return ErrSyncDisabled
	}
	e.mu.Unlock()
	e.sched.Flush(ctx, col)

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErrs[col]
}

// Status returns the engine's current health.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// LastError returns the error recorded by the most recent failing pass,
// or nil.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Stop detaches the feed, cancels the poll loop and drains the
// scheduler. Pending debounced work is dropped.
func (e *Engine) Stop() {
	e.mu.Lock()
	stops := e.stops
	e.stops = nil
	if e.pollStop != nil {
		e.pollStop()
		e.pollStop = nil
	}
	e.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
	e.sched.Stop()
}

// runPass is the debounced write pass for one collection: snapshot,
// reconcile, push the delta, advance the baseline for the keys that
// actually landed.
func (e *Engine) runPass(ctx context.Context, col Collection) {
	snapshot, err := e.source.Snapshot(col)
	if err != nil {
		e.recordPass(col, fmt.Errorf("snapshot %s: %w", col, err))
		return
	}
	baseline := e.baselines[col]
	delta := Reconcile(snapshot, baseline)
	if delta.Empty() {
		e.recordPass(col, nil)
		return
	}

	fingerprints := make(map[string]string, len(delta.Upserts))
	for _, rec := range delta.Upserts {
		fingerprints[rec.Key] = RecordFingerprint(rec)
	}

	var passErr error
	if len(delta.Upserts) > 0 {
		ok, err := e.adapter.Upsert(ctx, col, delta.Upserts)
		if err != nil {
			passErr = fmt.Errorf("upsert %s: %w", col, err)
		}
		for _, key := range ok {
			baseline.Put(key, fingerprints[key])
		}
	}
	if len(delta.Deletes) > 0 {
		ok, err := e.adapter.Delete(ctx, col, delta.Deletes)
		if err != nil && passErr == nil {
			passErr = fmt.Errorf("delete %s: %w", col, err)
		}
		for _, key := range ok {
			baseline.Remove(key)
		}
	}

	if passErr != nil {
		e.log.Warn("write pass failed",
			zap.String("collection", string(col)),
			zap.Int("upserts", len(delta.Upserts)),
			zap.Int("deletes", len(delta.Deletes)),
			zap.Error(passErr))
		e.recordPass(col, passErr)
		return
	}

	if e.cache != nil {
		if err := e.cache.Store(col, snapshot); err != nil {
			e.log.Warn("snapshot cache write failed", zap.String("collection", string(col)), zap.Error(err))
		}
	}
	e.log.Debug("write pass complete",
		zap.String("collection", string(col)),
		zap.Int("upserts", len(delta.Upserts)),
		zap.Int("deletes", len(delta.Deletes)))
	e.recordPass(col, nil)
}

func (e *Engine) setState(status Status, err error, ready, degraded bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status = status
	e.lastErr = err
	e.lastErrs = make(map[Collection]error)
	e.ready = ready
	e.degraded = degraded
}

func (e *Engine) recordPass(col Collection, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastErr = err
	e.lastErrs[col] = err
	if err != nil {
		e.status = StatusError
		return
	}
	if e.status != StatusDegraded {
		e.status = StatusIdle
	}
}

// handleEvent folds one remote change into the entity store and the
// baseline. Advancing the baseline in the same step is what keeps the
// merge from echoing back out as a local change on the next pass. The
// engine's own events are skipped; their baseline entries were advanced
// when the write succeeded.
func (e *Engine) handleEvent(ev Event) {
	if ev.Origin == e.sessionID {
		return
	}
	baseline, ok := e.baselines[ev.Collection]
	if !ok {
		return
	}
	if err := e.source.ApplyRemote(ev.Collection, ev.Kind, ev.Key, ev.Payload); err != nil {
		e.log.Warn("remote merge failed",
			zap.String("collection", string(ev.Collection)),
			zap.String("key", ev.Key),
			zap.Error(err))
		return
	}
	switch ev.Kind {
	case EventDelete:
		baseline.Remove(ev.Key)
	default:
		baseline.Put(ev.Key, Fingerprint(ev.Payload))
	}
}

// pollLoop is the fallback when no change feed exists: read the remote
// collections periodically and apply only records whose remote
// fingerprint differs from the baseline's, so pending local edits are
// never clobbered by an unchanged remote row. A remote snapshot that is
// suddenly empty while the baseline is not is treated as suspect and
// never converted into local deletions.
func (e *Engine) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(e.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, col := range AllCollections() {
				e.pollCollection(ctx, col)
			}
		}
	}
}

func (e *Engine) pollCollection(ctx context.Context, col Collection) {
	records, err := e.adapter.ReadAll(ctx, col)
	if err != nil {
		e.log.Warn("poll read failed", zap.String("collection", string(col)), zap.Error(err))
		return
	}
	baseline := e.baselines[col]

	remote := make(map[string]struct{}, len(records))
	for _, rec := range records {
		remote[rec.Key] = struct{}{}
		fp := RecordFingerprint(rec)
		prev, known := baseline.Get(rec.Key)
		if known && prev == fp {
			continue
		}
		e.handleEvent(Event{Collection: col, Kind: EventUpdate, Key: rec.Key, Payload: rec.Payload})
	}

	if len(records) == 0 && baseline.Len() > 0 {
		e.log.Warn("poll returned empty snapshot, skipping deletions", zap.String("collection", string(col)))
		return
	}
	for _, key := range baseline.Keys() {
		if _, ok := remote[key]; !ok {
			e.handleEvent(Event{Collection: col, Kind: EventDelete, Key: key})
		}
	}
}
