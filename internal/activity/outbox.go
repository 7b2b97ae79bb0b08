// Package activity writes audit entries off the request path.
package activity

import (
	"context"
	"log"
	"sync"
	"time"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

// RetryPublisher takes entries whose insert failed.
type RetryPublisher interface {
	PublishActivity(ctx context.Context, entry models.ActivityEntry) error
}

// Outbox buffers entries in a bounded channel drained by one goroutine.
// Record never blocks: a full buffer drops the entry with a log line.
type Outbox struct {
	repo    interfaces.ActivityRepository
	retry   RetryPublisher
	entries chan models.ActivityEntry
	timeout time.Duration

	mu      sync.RWMutex
	closed  bool
	started bool
	done    chan struct{}
}

// NewOutbox returns a stopped outbox. retry may be nil.
func NewOutbox(repo interfaces.ActivityRepository, retry RetryPublisher, buffer int) *Outbox {
	if buffer < 1 {
		buffer = 1
	}
	return &Outbox{
		repo:    repo,
		retry:   retry,
		entries: make(chan models.ActivityEntry, buffer),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

func (o *Outbox) Record(entry models.ActivityEntry) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.closed {
		log.Printf("[activity] outbox closed, dropping %s %s/%s", entry.Action, entry.EntityType, entry.EntityID)
		return
	}
	select {
	case o.entries <- entry:
	default:
		log.Printf("[activity] buffer full, dropping %s %s/%s", entry.Action, entry.EntityType, entry.EntityID)
	}
}

// Start launches the writer goroutine. Calling it twice is a no-op.
func (o *Outbox) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started || o.closed {
		return
	}
	o.started = true
	go o.run()
}

func (o *Outbox) run() {
	defer close(o.done)
	for entry := range o.entries {
		o.write(entry)
	}
}

func (o *Outbox) write(entry models.ActivityEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	err := o.repo.Insert(ctx, &entry)
	if err == nil {
		return
	}
	if o.retry == nil {
		log.Printf("[activity] insert failed for %s %s/%s: %v", entry.Action, entry.EntityType, entry.EntityID, err)
		return
	}
	if perr := o.retry.PublishActivity(ctx, entry); perr != nil {
		log.Printf("[activity] insert and retry publish failed for %s %s/%s: %v / %v", entry.Action, entry.EntityType, entry.EntityID, err, perr)
		return
	}
	log.Printf("[activity] insert failed for %s, queued for replay: %v", entry.ID, err)
}

// Close stops accepting entries and waits until the buffer is drained or
// ctx is done.
func (o *Outbox) Close(ctx context.Context) error {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil
	}
	o.closed = true
	close(o.entries)
	started := o.started
	o.mu.Unlock()

	if !started {
		return nil
	}
	select {
	case <-o.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
