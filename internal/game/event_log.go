package game

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	"swarm-survivor/internal/config"
)

const (
	EventBufferSize        = 1024                   // Circular buffer size
	RecentBufferSize       = 256                    // Queryable recent-event window
	MaxEventsPerSec        = 10000                  // Global rate limit
	MaxEventsPerType       = 200                    // Per-type rate limit per second
	BatchFlushSize         = 64                     // Events per batch write
	BatchFlushInterval     = 100 * time.Millisecond // How often to flush
	SegmentCleanupInterval = time.Minute            // How often retention runs
)

// EventLog provides bounded, rate-limited run journaling with backpressure.
// The disk path is append-only JSONL, rotated by size and gzipped; the
// in-memory ring serves the API's recent-events query.
type EventLog struct {
	// Circular buffer (lock-free SPSC: engine produces, writer consumes)
	buffer    [EventBufferSize]Event
	writeHead uint64 // atomic - producer position
	readHead  uint64 // atomic - consumer position

	// Rate limiting
	globalLimiter *rate.Limiter
	typeLimiters  map[EventType]*rate.Limiter // built once, read-only after

	// Queryable window for the API, separate from the SPSC ring so readers
	// never race the disk writer
	recentMu   sync.Mutex
	recent     [RecentBufferSize]Event
	recentHead uint64

	// Async writer
	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	// File output
	cfg       config.EventLogConfig
	file      *os.File
	fileBytes int64
	fileMu    sync.Mutex

	// Stats for monitoring
	droppedCount uint64 // atomic
	totalCount   uint64 // atomic
}

// NewEventLog creates a new bounded event log.
func NewEventLog(cfg config.EventLogConfig) *EventLog {
	limiters := make(map[EventType]*rate.Limiter)
	for t := EventTypeTick; t <= EventTypeHighScore; t++ {
		limiters[t] = rate.NewLimiter(MaxEventsPerType, MaxEventsPerType/10)
	}

	return &EventLog{
		globalLimiter: rate.NewLimiter(MaxEventsPerSec, MaxEventsPerSec/10),
		typeLimiters:  limiters,
		stopChan:      make(chan struct{}),
		cfg:           cfg,
	}
}

// Start begins the async writer and retention goroutines.
func (el *EventLog) Start() error {
	if el.running.Load() {
		return nil
	}

	if el.cfg.Dir != "" {
		if err := os.MkdirAll(el.cfg.Dir, 0755); err != nil {
			return fmt.Errorf("create event log dir: %w", err)
		}
		if err := el.openActive(); err != nil {
			return err
		}
	}

	el.running.Store(true)
	el.writerWg.Add(2)
	go el.writerLoop()
	go el.cleanupLoop()

	return nil
}

// Stop gracefully shuts down the event log, flushing pending events.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		el.running.Store(false)
		close(el.stopChan)
		el.writerWg.Wait()

		el.fileMu.Lock()
		if el.file != nil {
			el.file.Close()
			el.file = nil
		}
		el.fileMu.Unlock()
	})
}

// Emit adds an event with rate limiting.
// Returns false if rate limited or dropped (backpressure).
func (el *EventLog) Emit(event Event) bool {
	if !el.running.Load() {
		return false
	}

	if !el.globalLimiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	if limiter, ok := el.typeLimiters[event.Type]; ok && !limiter.Allow() {
		atomic.AddUint64(&el.droppedCount, 1)
		return false
	}

	// Acquire write slot in circular buffer
	head := atomic.AddUint64(&el.writeHead, 1)
	tail := atomic.LoadUint64(&el.readHead)

	// Buffer full: drop oldest (rolling window)
	if head-tail >= EventBufferSize {
		atomic.AddUint64(&el.readHead, 1)
		atomic.AddUint64(&el.droppedCount, 1)
	}

	event.Sequence = head
	idx := head % EventBufferSize
	el.buffer[idx] = event

	el.recentMu.Lock()
	el.recent[el.recentHead%RecentBufferSize] = event
	el.recentHead++
	el.recentMu.Unlock()

	atomic.AddUint64(&el.totalCount, 1)
	return true
}

// EmitSimple creates and emits an event in one call.
func (el *EventLog) EmitSimple(eventType EventType, tickNum uint64, runID string, payload interface{}) bool {
	return el.Emit(NewEvent(eventType, tickNum, runID, payload))
}

// Recent returns up to n most recent events, newest last.
func (el *EventLog) Recent(n int) []Event {
	if n <= 0 {
		return nil
	}
	if n > RecentBufferSize {
		n = RecentBufferSize
	}

	el.recentMu.Lock()
	defer el.recentMu.Unlock()

	total := el.recentHead
	if total == 0 {
		return nil
	}
	if uint64(n) > total {
		n = int(total)
	}

	out := make([]Event, 0, n)
	for i := total - uint64(n); i < total; i++ {
		out = append(out, el.recent[i%RecentBufferSize])
	}
	return out
}

// writerLoop batches and writes events to disk asynchronously.
func (el *EventLog) writerLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(BatchFlushInterval)
	defer ticker.Stop()

	batch := make([]Event, 0, BatchFlushSize)

	for {
		select {
		case <-el.stopChan:
			// Final flush
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
			return

		case <-ticker.C:
			batch = el.collectBatch(batch[:0])
			if len(batch) > 0 {
				el.flushBatch(batch)
			}
		}
	}
}

// cleanupLoop enforces segment retention.
func (el *EventLog) cleanupLoop() {
	defer el.writerWg.Done()

	ticker := time.NewTicker(SegmentCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-el.stopChan:
			return
		case <-ticker.C:
			el.cleanupSegments()
		}
	}
}

// collectBatch reads available events from the circular buffer.
func (el *EventLog) collectBatch(batch []Event) []Event {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	for i := tail; i < head && len(batch) < BatchFlushSize; i++ {
		idx := i % EventBufferSize
		batch = append(batch, el.buffer[idx])
	}

	if len(batch) > 0 {
		atomic.AddUint64(&el.readHead, uint64(len(batch)))
	}

	return batch
}

// flushBatch appends events to the active segment (newline-delimited JSON)
// and rotates it once it outgrows the configured size.
func (el *EventLog) flushBatch(batch []Event) {
	el.fileMu.Lock()
	defer el.fileMu.Unlock()

	if el.file == nil {
		return
	}

	for _, event := range batch {
		data, err := json.Marshal(event)
		if err != nil {
			continue
		}
		n1, _ := el.file.Write(data)
		n2, _ := el.file.Write([]byte("\n"))
		el.fileBytes += int64(n1 + n2)
	}

	if el.cfg.MaxSegmentBytes > 0 && el.fileBytes >= el.cfg.MaxSegmentBytes {
		el.rotate()
	}
}

// openActive opens (or creates) the active segment. Caller holds no locks
// during Start; rotate calls it under fileMu.
func (el *EventLog) openActive() error {
	path := filepath.Join(el.cfg.Dir, "events.jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open event log: %w", err)
	}

	info, err := file.Stat()
	if err == nil {
		el.fileBytes = info.Size()
	}

	el.file = file
	return nil
}

// rotate renames the active segment and compresses it in the background.
// Caller holds fileMu.
func (el *EventLog) rotate() {
	el.file.Close()
	el.file = nil

	active := filepath.Join(el.cfg.Dir, "events.jsonl")
	segment := filepath.Join(el.cfg.Dir, fmt.Sprintf("events-%d.jsonl", time.Now().UnixNano()))
	if err := os.Rename(active, segment); err == nil {
		go compressSegment(segment)
	}

	el.fileBytes = 0
	if err := el.openActive(); err != nil {
		// Journal keeps running in memory; disk output resumes on restart.
		el.file = nil
	}
}

// compressSegment gzips a rotated segment and removes the original.
func compressSegment(path string) {
	src, err := os.Open(path)
	if err != nil {
		return
	}
	defer src.Close()

	dst, err := os.Create(path + ".gz")
	if err != nil {
		return
	}

	gz := gzip.NewWriter(dst)
	_, copyErr := io.Copy(gz, src)
	gzErr := gz.Close()
	dstErr := dst.Close()

	if copyErr == nil && gzErr == nil && dstErr == nil {
		os.Remove(path)
	}
}

// cleanupSegments deletes the oldest compressed segments beyond the
// retention count. Segment names embed fixed-width nanosecond timestamps,
// so lexicographic order is creation order.
func (el *EventLog) cleanupSegments() {
	if el.cfg.Dir == "" || el.cfg.RetainSegments <= 0 {
		return
	}

	entries, err := os.ReadDir(el.cfg.Dir)
	if err != nil {
		return
	}

	var segments []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, "events-") && strings.HasSuffix(name, ".jsonl.gz") {
			segments = append(segments, name)
		}
	}
	if len(segments) <= el.cfg.RetainSegments {
		return
	}

	sort.Strings(segments)
	for _, name := range segments[:len(segments)-el.cfg.RetainSegments] {
		os.Remove(filepath.Join(el.cfg.Dir, name))
	}
}

// GetStats returns journal counters for monitoring.
func (el *EventLog) GetStats() map[string]interface{} {
	head := atomic.LoadUint64(&el.writeHead)
	tail := atomic.LoadUint64(&el.readHead)

	return map[string]interface{}{
		"total":   atomic.LoadUint64(&el.totalCount),
		"dropped": atomic.LoadUint64(&el.droppedCount),
		"pending": head - tail,
		"running": el.running.Load(),
	}
}

// GetDroppedCount returns the number of dropped events.
func (el *EventLog) GetDroppedCount() uint64 {
	return atomic.LoadUint64(&el.droppedCount)
}

// GetTotalCount returns the total number of events accepted.
func (el *EventLog) GetTotalCount() uint64 {
	return atomic.LoadUint64(&el.totalCount)
}
