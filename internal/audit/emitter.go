package audit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// Sink consumes audit events (file, webhook, etc.).
type Sink interface {
	Name() string
	Deliver(context.Context, *Event) error
	Close(context.Context) error
}

// Stats is a point-in-time copy of the delivery counters.
type Stats struct {
	Enqueued uint64
	Dropped  uint64
	Rejected uint64

	Delivered map[string]uint64
	Failed    map[string]uint64
}

type sinkState struct {
	sink      Sink
	delivered atomic.Uint64
	failed    atomic.Uint64
}

// Emitter buffers events and delivers them to sinks off the request path.
// Enqueueing never blocks; when the buffer is full the event is dropped
// and counted rather than stalling a request.
type Emitter struct {
	queue           chan *Event
	sinks           []*sinkState
	shutdownTimeout time.Duration

	stop     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	enqueued atomic.Uint64
	dropped  atomic.Uint64
	rejected atomic.Uint64
}

// EmitterConfig controls worker and queue sizing.
type EmitterConfig struct {
	QueueSize       int
	Workers         int
	ShutdownTimeout time.Duration
}

// NewEmitter starts background workers delivering events to the sinks.
func NewEmitter(cfg EmitterConfig, sinks []Sink) *Emitter {
	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 1000
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = 2 * time.Second
	}

	em := &Emitter{
		queue:           make(chan *Event, queueSize),
		shutdownTimeout: shutdownTimeout,
		stop:            make(chan struct{}),
	}
	for _, s := range sinks {
		em.sinks = append(em.sinks, &sinkState{sink: s})
	}

	for i := 0; i < workers; i++ {
		em.wg.Add(1)
		go em.worker()
	}

	return em
}

// Emit enqueues the event without blocking. Events that fail the shape
// check are refused before they reach any sink.
func (e *Emitter) Emit(_ context.Context, ev *Event) {
	if e == nil || ev == nil {
		return
	}
	if !ev.wellFormed() {
		e.rejected.Add(1)
		return
	}

	select {
	case <-e.stop:
		e.dropped.Add(1)
		return
	default:
	}

	select {
	case e.queue <- ev:
		e.enqueued.Add(1)
	default:
		e.dropped.Add(1)
	}
}

// Close stops accepting events, lets the workers drain what is buffered,
// and closes the sinks. Waiting is bounded by the shutdown timeout.
func (e *Emitter) Close(ctx context.Context) {
	if e == nil {
		return
	}
	e.stopOnce.Do(func() { close(e.stop) })

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	waitCtx := ctx
	if waitCtx == nil {
		waitCtx = context.Background()
	}
	var cancel context.CancelFunc
	waitCtx, cancel = context.WithTimeout(waitCtx, e.shutdownTimeout)
	defer cancel()

	select {
	case <-done:
	case <-waitCtx.Done():
	}

	for _, s := range e.sinks {
		if err := s.sink.Close(waitCtx); err != nil {
			log.Warn().Str("sink", s.sink.Name()).Err(err).Msg("audit sink close error")
		}
	}
}

// Stats copies the current counters.
func (e *Emitter) Stats() Stats {
	if e == nil {
		return Stats{}
	}
	st := Stats{
		Enqueued:  e.enqueued.Load(),
		Dropped:   e.dropped.Load(),
		Rejected:  e.rejected.Load(),
		Delivered: make(map[string]uint64, len(e.sinks)),
		Failed:    make(map[string]uint64, len(e.sinks)),
	}
	for _, s := range e.sinks {
		st.Delivered[s.sink.Name()] = s.delivered.Load()
		st.Failed[s.sink.Name()] = s.failed.Load()
	}
	return st
}

func (e *Emitter) worker() {
	defer e.wg.Done()
	for {
		select {
		case ev := <-e.queue:
			e.deliver(ev)
		case <-e.stop:
			for {
				select {
				case ev := <-e.queue:
					e.deliver(ev)
				default:
					return
				}
			}
		}
	}
}

func (e *Emitter) deliver(ev *Event) {
	for _, s := range e.sinks {
		if err := s.sink.Deliver(context.Background(), ev); err != nil {
			log.Warn().Str("sink", s.sink.Name()).Err(err).Msg("audit delivery failed")
			s.failed.Add(1)
			continue
		}
		s.delivered.Add(1)
	}
}
