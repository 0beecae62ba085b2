package monitor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/model"
)

type fakeSink struct {
	mu      sync.Mutex
	batches [][]model.Event
	failN   int
	flushed chan int
}

func newFakeSink() *fakeSink {
	return &fakeSink{flushed: make(chan int, 64)}
}

func (s *fakeSink) WriteEvents(_ context.Context, events []model.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failN > 0 {
		s.failN--
		s.flushed <- 0
		return errors.New("sink unavailable")
	}
	s.batches = append(s.batches, events)
	s.flushed <- len(events)
	return nil
}

func (s *fakeSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func waitFlush(t *testing.T, s *fakeSink) int {
	t.Helper()
	select {
	case n := <-s.flushed:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for flush")
		return 0
	}
}

func event(name string) model.Event {
	return model.Event{Name: name, UserID: "u1"}
}

func TestFlushOnBatchSize(t *testing.T) {
	sink := newFakeSink()
	c := NewClient(sink, Options{QueueSize: 10, BatchSize: 3, FlushInterval: time.Hour})
	c.Start(context.Background())
	defer c.Stop(context.Background())

	for i := 0; i < 3; i++ {
		if !c.Track(event("spin_settled")) {
			t.Fatal("Track returned false on a non-full queue")
		}
	}

	if n := waitFlush(t, sink); n != 3 {
		t.Errorf("flushed %d events, want 3", n)
	}
}

func TestFlushOnInterval(t *testing.T) {
	sink := newFakeSink()
	c := NewClient(sink, Options{QueueSize: 10, BatchSize: 100, FlushInterval: 20 * time.Millisecond})
	c.Start(context.Background())
	defer c.Stop(context.Background())

	c.Track(event("spin_settled"))

	if n := waitFlush(t, sink); n != 1 {
		t.Errorf("flushed %d events, want 1", n)
	}
}

func TestStopDrainsQueue(t *testing.T) {
	sink := newFakeSink()
	c := NewClient(sink, Options{QueueSize: 10, BatchSize: 100, FlushInterval: time.Hour})
	c.Start(context.Background())

	for i := 0; i < 5; i++ {
		c.Track(event("deposit"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got := sink.total(); got != 5 {
		t.Errorf("sink got %d events, want 5", got)
	}
	if c.Track(event("late")) {
		t.Error("Track after Stop must return false")
	}
}

func TestStopDuringTrackLosesNothing(t *testing.T) {
	sink := newFakeSink()
	c := NewClient(sink, Options{QueueSize: 10_000, BatchSize: 10_000, FlushInterval: time.Hour})
	c.Start(context.Background())

	var (
		wg       sync.WaitGroup
		accepted atomic.Int64
	)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				if c.Track(event("spin_settled")) {
					accepted.Add(1)
				}
			}
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	wg.Wait()

	// Каждое принятое событие должно дойти до Sink
	if got, want := sink.total(), int(accepted.Load()); got != want {
		t.Errorf("sink got %d events, accepted %d", got, want)
	}
}

func TestTrackDropsWhenQueueFull(t *testing.T) {
	c := NewClient(newFakeSink(), Options{QueueSize: 2, BatchSize: 10, FlushInterval: time.Hour})

	if !c.Track(event("a")) || !c.Track(event("b")) {
		t.Fatal("first two events must be queued")
	}
	if c.Track(event("c")) {
		t.Error("third event must be dropped")
	}
}

func TestSinkErrorDoesNotStopLoop(t *testing.T) {
	sink := newFakeSink()
	sink.failN = 1
	c := NewClient(sink, Options{QueueSize: 10, BatchSize: 1, FlushInterval: time.Hour})
	c.Start(context.Background())
	defer c.Stop(context.Background())

	c.Track(event("first"))
	if n := waitFlush(t, sink); n != 0 {
		t.Fatalf("first flush should have failed, got %d", n)
	}

	c.Track(event("second"))
	if n := waitFlush(t, sink); n != 1 {
		t.Errorf("second flush = %d, want 1", n)
	}
}

func TestTrackStampsTime(t *testing.T) {
	sink := newFakeSink()
	c := NewClient(sink, Options{QueueSize: 1, BatchSize: 1, FlushInterval: time.Hour})
	c.Start(context.Background())
	defer c.Stop(context.Background())

	c.Track(event("stamp"))
	waitFlush(t, sink)

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if sink.batches[0][0].OccurredAt.IsZero() {
		t.Error("OccurredAt not set")
	}
}
