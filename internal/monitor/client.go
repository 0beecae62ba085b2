// Package monitor - клиент аналитики с ограниченной очередью.
// Клиент создаётся явно, события копятся в очереди и сбрасываются
// в Sink пачкой при достижении BatchSize или по таймеру FlushInterval.
package monitor

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gudubets/gudubet-sub002/internal/logger"
	"github.com/gudubets/gudubet-sub002/internal/metrics"
	"github.com/gudubets/gudubet-sub002/internal/model"
	"go.uber.org/zap"
)

const (
	defaultQueueSize     = 1024
	defaultBatchSize     = 100
	defaultFlushInterval = 5 * time.Second
	flushTimeout         = 5 * time.Second
)

// Sink - хранилище событий
type Sink interface {
	WriteEvents(ctx context.Context, events []model.Event) error
}

type Options struct {
	QueueSize     int
	BatchSize     int
	FlushInterval time.Duration
}

type Client struct {
	sink  Sink
	opts  Options
	queue chan model.Event

	started atomic.Bool

	// mu держит постановку в очередь против перехода в closing
	mu       sync.RWMutex
	closing  bool
	stopOnce sync.Once
	done     chan struct{}
	stopped  chan struct{}
}

func NewClient(sink Sink, opts Options) *Client {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = defaultFlushInterval
	}

	return &Client{
		sink:    sink,
		opts:    opts,
		queue:   make(chan model.Event, opts.QueueSize),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start запускает фоновый сброс. Повторный вызов ничего не делает
func (c *Client) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.run(ctx)
}

// Stop сбрасывает накопленное и ждёт завершения цикла или ctx
func (c *Client) Stop(ctx context.Context) error {
	c.markClosing()
	if !c.started.Load() {
		return nil
	}

	c.stopOnce.Do(func() { close(c.done) })

	select {
	case <-c.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Track ставит событие в очередь без блокировки.
// false - очередь полна или клиент остановлен
func (c *Client) Track(event model.Event) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closing {
		return false
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	select {
	case c.queue <- event:
		return true
	default:
		metrics.RecordMonitorDrop()
		return false
	}
}

// markClosing ждёт завершения начатых Track, после него очередь только убывает
func (c *Client) markClosing() {
	c.mu.Lock()
	c.closing = true
	c.mu.Unlock()
}

func (c *Client) run(ctx context.Context) {
	defer close(c.stopped)

	ticker := time.NewTicker(c.opts.FlushInterval)
	defer ticker.Stop()

	// Сброс не должен зависеть от отмены родительского контекста
	flushCtx := context.WithoutCancel(ctx)
	batch := make([]model.Event, 0, c.opts.BatchSize)

	for {
		select {
		case event := <-c.queue:
			batch = append(batch, event)
			if len(batch) >= c.opts.BatchSize {
				batch = c.flush(flushCtx, batch)
			}
		case <-ticker.C:
			batch = c.flush(flushCtx, batch)
		case <-c.done:
			c.drain(flushCtx, batch)
			return
		case <-ctx.Done():
			c.markClosing()
			c.drain(flushCtx, batch)
			return
		}
	}
}

func (c *Client) drain(ctx context.Context, batch []model.Event) {
	for {
		select {
		case event := <-c.queue:
			batch = append(batch, event)
			if len(batch) >= c.opts.BatchSize {
				batch = c.flush(ctx, batch)
			}
		default:
			c.flush(ctx, batch)
			return
		}
	}
}

// flush отдаёт копию пачки в Sink и возвращает пустой буфер
func (c *Client) flush(ctx context.Context, batch []model.Event) []model.Event {
	if len(batch) == 0 {
		return batch
	}

	events := make([]model.Event, len(batch))
	copy(events, batch)

	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	if err := c.sink.WriteEvents(ctx, events); err != nil {
		logger.Warn("monitor flush failed", zap.Int("events", len(events)), zap.Error(err))
		metrics.RecordMonitorFlush("fail", len(events))
	} else {
		metrics.RecordMonitorFlush("success", len(events))
	}

	return batch[:0]
}
