package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions controls the buffering and batching behavior of the async
// wrapper. The tradeoff is memory versus write amplification on the backing
// sink.
type AsyncOptions struct {
	BufferSize   int           // max events queued before Write falls back to a synchronous write
	BatchSize    int           // target events per flush
	BatchTimeout time.Duration // max time a partial batch waits before flushing
	WriteTimeout time.Duration // per-flush deadline against the backing sink
}

// AsyncSink buffers events and flushes them to the backing sink on a
// background goroutine. Write never blocks on the backing store: when the
// buffer is full the event is written synchronously instead of being dropped,
// preserving the at-least-once expectation.
type AsyncSink struct {
	next    Sink
	batcher BatchSink // nil when next has no batch support
	events  chan Event
	done    chan struct{}
	wg      sync.WaitGroup
	opts    AsyncOptions

	mu     sync.Mutex
	closed bool
}

// NewAsyncSink wraps a sink with async buffering. The returned close function
// flushes the remaining buffer and must be called during shutdown.
func NewAsyncSink(next Sink, opts ...AsyncOptions) (*AsyncSink, func(context.Context) error) {
	if next == nil {
		panic("audit: sink cannot be nil")
	}

	o := AsyncOptions{}
	if len(opts) > 0 {
		o = opts[0]
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 1000
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 100
	}
	if o.BatchTimeout <= 0 {
		o.BatchTimeout = 100 * time.Millisecond
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}

	s := &AsyncSink{
		next:   next,
		events: make(chan Event, o.BufferSize),
		done:   make(chan struct{}),
		opts:   o,
	}
	if b, ok := next.(BatchSink); ok {
		s.batcher = b
	}

	s.wg.Add(1)
	go s.worker()

	return s, s.Close
}

// Write queues the event. Falls back to a synchronous write when the buffer
// is full or the sink is already closed, so events are never silently lost.
func (s *AsyncSink) Write(ctx context.Context, event Event) error {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return s.next.Write(ctx, event)
	}

	select {
	case s.events <- event:
		return nil
	default:
		return s.next.Write(ctx, event)
	}
}

// Close stops the worker and flushes everything still buffered.
// Subsequent writes go straight to the backing sink.
func (s *AsyncSink) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()

	// Drain whatever the worker did not pick up.
	var rest []Event
	for {
		select {
		case e := <-s.events:
			rest = append(rest, e)
			continue
		default:
		}
		break
	}
	if len(rest) > 0 {
		return s.flush(ctx, rest)
	}
	return nil
}

func (s *AsyncSink) worker() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.BatchTimeout)
	defer ticker.Stop()

	batch := make([]Event, 0, s.opts.BatchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), s.opts.WriteTimeout)
		_ = s.flush(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-s.events:
			batch = append(batch, e)
			if len(batch) >= s.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.done:
			flush()
			return
		}
	}
}

func (s *AsyncSink) flush(ctx context.Context, events []Event) error {
	if s.batcher != nil {
		return s.batcher.WriteBatch(ctx, events)
	}
	var firstErr error
	for _, e := range events {
		if err := s.next.Write(ctx, e); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
