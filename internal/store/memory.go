// Package store — in-memory Store implementation with file-based snapshot
// persistence, so waitlist data survives restarts without a database.
package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/carlycompare/carlycompare/pkg/models"
	"github.com/rs/zerolog/log"
)

// snapshot is the JSON-serializable shape written to disk.
type snapshot struct {
	Waitlist    []*models.WaitlistEntry      `json:"waitlist"`
	Subscribers map[string]*models.Subscriber `json:"subscribers"` // key: lowercase email
	Traces      map[string]*models.QuoteTrace `json:"traces"`      // key: id
}

// MemoryStore implements Store with in-memory collections.
type MemoryStore struct {
	mu          sync.RWMutex
	waitlist    []*models.WaitlistEntry
	subscribers map[string]*models.Subscriber // key: lowercase email
	traces      map[string]*models.QuoteTrace // key: id

	// Persistence
	snapshotPath string        // empty = no persistence
	saveMu       sync.Mutex    // guards file writes
	saveCh       chan struct{} // debounce channel
	doneCh       chan struct{} // signals background goroutines to stop
	closeOnce    sync.Once

	// Traces older than this are evicted automatically.
	traceTTL time.Duration
}

// Options configures the memory store.
type Options struct {
	// DataDir holds the snapshot file. Empty disables persistence.
	DataDir string

	// TraceTTL bounds how long quote traces are kept. Zero means 7 days.
	TraceTTL time.Duration
}

// NewMemoryStore creates a memory store and, when opts.DataDir is set, loads
// the existing snapshot and starts the debounced background writer.
func NewMemoryStore(opts Options) *MemoryStore {
	ttl := opts.TraceTTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	m := &MemoryStore{
		waitlist:    make([]*models.WaitlistEntry, 0),
		subscribers: make(map[string]*models.Subscriber),
		traces:      make(map[string]*models.QuoteTrace),
		saveCh:      make(chan struct{}, 1),
		doneCh:      make(chan struct{}),
		traceTTL:    ttl,
	}

	if opts.DataDir != "" {
		m.snapshotPath = filepath.Join(opts.DataDir, "data.json")
		if err := os.MkdirAll(opts.DataDir, 0o755); err != nil {
			log.Warn().Err(err).Str("dir", opts.DataDir).Msg("Cannot create data dir, persistence disabled")
			m.snapshotPath = ""
		}
	}

	if m.snapshotPath != "" {
		m.loadSnapshot()
		go m.saveLoop()
	}
	go m.traceEvictionLoop()

	log.Info().
		Str("trace_ttl", ttl.String()).
		Str("snapshot", m.snapshotPath).
		Msg("Memory store configured")

	return m
}

// ── Waitlist ────────────────────────────────────────────────

func (m *MemoryStore) CreateWaitlistEntry(ctx context.Context, entry *models.WaitlistEntry) error {
	m.mu.Lock()
	cp := *entry
	m.waitlist = append(m.waitlist, &cp)
	m.mu.Unlock()

	m.requestSave()
	return nil
}

func (m *MemoryStore) ListWaitlistEntries(ctx context.Context) ([]models.WaitlistEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.WaitlistEntry, 0, len(m.waitlist))
	for _, e := range m.waitlist {
		out = append(out, *e)
	}
	return out, nil
}

// ── Subscribers ─────────────────────────────────────────────

func (m *MemoryStore) CreateSubscriber(ctx context.Context, sub *models.Subscriber) error {
	key := strings.ToLower(strings.TrimSpace(sub.Email))

	m.mu.Lock()
	if _, exists := m.subscribers[key]; exists {
		m.mu.Unlock()
		return &ErrConflict{Entity: "subscriber", Key: sub.Email}
	}
	cp := *sub
	m.subscribers[key] = &cp
	m.mu.Unlock()

	m.requestSave()
	return nil
}

func (m *MemoryStore) ListSubscribers(ctx context.Context) ([]models.Subscriber, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.Subscriber, 0, len(m.subscribers))
	for _, s := range m.subscribers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// ── Quote traces ────────────────────────────────────────────

func (m *MemoryStore) CreateQuoteTrace(ctx context.Context, trace *models.QuoteTrace) error {
	m.mu.Lock()
	cp := *trace
	m.traces[trace.ID] = &cp
	m.mu.Unlock()

	m.requestSave()
	return nil
}

func (m *MemoryStore) ListQuoteTraces(ctx context.Context, limit int) ([]models.QuoteTrace, error) {
	if limit <= 0 {
		limit = 100
	}

	m.mu.RLock()
	out := make([]models.QuoteTrace, 0, len(m.traces))
	for _, t := range m.traces {
		out = append(out, *t)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ── Lifecycle ───────────────────────────────────────────────

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// Close stops background goroutines and flushes a final snapshot.
func (m *MemoryStore) Close() error {
	m.closeOnce.Do(func() {
		close(m.doneCh)
		if m.snapshotPath != "" {
			m.saveSnapshot()
		}
	})
	return nil
}

// ── Persistence internals ───────────────────────────────────

// requestSave signals the background goroutine to persist data.
// Non-blocking: coalesces multiple rapid writes into one disk flush.
func (m *MemoryStore) requestSave() {
	if m.snapshotPath == "" {
		return
	}
	select {
	case m.saveCh <- struct{}{}:
	default:
		// Already pending
	}
}

// saveLoop debounces save requests to at most one write per 500ms.
func (m *MemoryStore) saveLoop() {
	for {
		select {
		case <-m.doneCh:
			return
		case <-m.saveCh:
			time.Sleep(500 * time.Millisecond)
			m.saveSnapshot()
		}
	}
}

func (m *MemoryStore) traceEvictionLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-m.doneCh:
			return
		case <-ticker.C:
			m.evictExpiredTraces()
		}
	}
}

func (m *MemoryStore) evictExpiredTraces() {
	cutoff := time.Now().Add(-m.traceTTL)

	m.mu.Lock()
	var evicted int
	for id, t := range m.traces {
		if t.CreatedAt.Before(cutoff) {
			delete(m.traces, id)
			evicted++
		}
	}
	m.mu.Unlock()

	if evicted > 0 {
		log.Info().Int("evicted", evicted).Str("ttl", m.traceTTL.String()).Msg("Evicted expired quote traces")
		m.requestSave()
	}
}

func (m *MemoryStore) saveSnapshot() {
	m.mu.RLock()
	snap := snapshot{
		Waitlist:    m.waitlist,
		Subscribers: m.subscribers,
		Traces:      m.traces,
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	m.mu.RUnlock()

	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal snapshot")
		return
	}

	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	// Write to temp file then rename for atomicity
	tmp := m.snapshotPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		log.Error().Err(err).Str("path", tmp).Msg("Failed to write snapshot tmp")
		return
	}
	if err := os.Rename(tmp, m.snapshotPath); err != nil {
		log.Error().Err(err).Str("path", m.snapshotPath).Msg("Failed to rename snapshot")
		return
	}

	log.Debug().Str("path", m.snapshotPath).Msg("Snapshot saved")
}

func (m *MemoryStore) loadSnapshot() {
	data, err := os.ReadFile(m.snapshotPath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", m.snapshotPath).Msg("No snapshot file found, starting fresh")
			return
		}
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Failed to read snapshot")
		return
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Warn().Err(err).Str("path", m.snapshotPath).Msg("Snapshot is corrupt, starting fresh")
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if snap.Waitlist != nil {
		m.waitlist = snap.Waitlist
	}
	if snap.Subscribers != nil {
		m.subscribers = snap.Subscribers
	}
	if snap.Traces != nil {
		m.traces = snap.Traces
	}

	log.Info().
		Int("waitlist", len(m.waitlist)).
		Int("subscribers", len(m.subscribers)).
		Int("traces", len(m.traces)).
		Msg("Snapshot loaded")
}
