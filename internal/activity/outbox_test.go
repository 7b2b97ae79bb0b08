package activity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tourify/internal/interfaces"
	"tourify/internal/models"
)

type mockActivityRepo struct {
	mu       sync.Mutex
	inserted []string
	err      error
	block    chan struct{}
}

var _ interfaces.ActivityRepository = (*mockActivityRepo)(nil)

func (m *mockActivityRepo) Insert(ctx context.Context, entry *models.ActivityEntry) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.inserted = append(m.inserted, entry.ID)
	return nil
}
func (m *mockActivityRepo) List(ctx context.Context, filter models.ActivityFilter) ([]*models.ActivityEntry, int, error) {
	return nil, 0, nil
}

type mockRetry struct {
	mu        sync.Mutex
	published []string
}

func (m *mockRetry) PublishActivity(ctx context.Context, entry models.ActivityEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, entry.ID)
	return nil
}

func TestOutboxDrainsOnClose(t *testing.T) {
	repo := &mockActivityRepo{}
	o := NewOutbox(repo, nil, 10)
	o.Start()

	for _, id := range []string{"a", "b", "c"} {
		o.Record(models.ActivityEntry{ID: id})
	}
	if err := o.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(repo.inserted) != 3 || repo.inserted[0] != "a" || repo.inserted[2] != "c" {
		t.Fatalf("expected all entries in order, got %v", repo.inserted)
	}

	// Recording after close is dropped, not a panic.
	o.Record(models.ActivityEntry{ID: "late"})
}

func TestOutboxFullBufferNeverBlocks(t *testing.T) {
	repo := &mockActivityRepo{block: make(chan struct{})}
	o := NewOutbox(repo, nil, 1)
	o.Start()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			o.Record(models.ActivityEntry{ID: "x"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("Record blocked on a full buffer")
	}

	close(repo.block)
	if err := o.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(repo.inserted) > 2 {
		t.Fatalf("expected at most 2 entries written, got %d", len(repo.inserted))
	}
}

func TestOutboxPublishesFailedInserts(t *testing.T) {
	repo := &mockActivityRepo{err: errors.New("db down")}
	retry := &mockRetry{}
	o := NewOutbox(repo, retry, 4)
	o.Start()

	o.Record(models.ActivityEntry{ID: "r1"})
	if err := o.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if len(retry.published) != 1 || retry.published[0] != "r1" {
		t.Fatalf("expected entry to be queued for replay, got %v", retry.published)
	}
}

func TestOutboxCloseWithoutStart(t *testing.T) {
	o := NewOutbox(&mockActivityRepo{}, nil, 1)
	o.Record(models.ActivityEntry{ID: "a"})
	if err := o.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}
