package session

import (
	"context"
	"sync"
	"time"

	"github.com/WIZARDISHUNGRY/visim/internal/logger"
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Transformer is satisfied by transform.Service and transform.Bulk.
type Transformer interface {
	Transform(ctx context.Context, data []byte, id string) ([]byte, error)
}

const (
	StateIdle       = "idle"
	StateProcessing = "processing"
	StateReady      = "ready"
	StateFailed     = "failed"

	eventSubmit = "submit"
	eventDone   = "done"
	eventFail   = "fail"
)

// Result is the outcome of one submission.
type Result struct {
	Seq     uint64
	ID      string
	Data    []byte
	Err     error
	Elapsed time.Duration
}

// Session runs one request at a time on behalf of a single viewer. A new
// Submit cancels whatever is in flight, and only the most recent
// submission's result is ever delivered on Results.
type Session struct {
	ctx context.Context
	t   Transformer

	mu      sync.Mutex
	seq     uint64
	cancel  context.CancelFunc
	fsm     *fsm.FSM
	results chan Result
	wg      sync.WaitGroup
}

func New(ctx context.Context, t Transformer) *Session {
	s := &Session{
		ctx:     ctx,
		t:       t,
		results: make(chan Result, 1),
	}
	s.fsm = fsm.NewFSM(
		StateIdle,
		fsm.Events{
			{Name: eventSubmit, Src: []string{StateIdle, StateProcessing, StateReady, StateFailed}, Dst: StateProcessing},
			{Name: eventDone, Src: []string{StateProcessing}, Dst: StateReady},
			{Name: eventFail, Src: []string{StateProcessing}, Dst: StateFailed},
		},
		fsm.Callbacks{
			"after_event": func(e *fsm.Event) {
				if e.Src != e.Dst {
					logger.Entry(ctx).Tracef("session [%s -> %s] %s", e.Src, e.Dst, e.Event)
				}
			},
		},
	)
	return s
}

// Submit starts transforming data with the impairment id and returns the
// sequence number its Result will carry. Any earlier submission still
// running is canceled and its result discarded.
func (s *Session) Submit(data []byte, id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.drain()
	seq := s.seq
	ctx, cancel := context.WithCancel(s.ctx)
	s.cancel = cancel
	ctx, log := logger.WithFields(ctx, logrus.Fields{"seq": seq, "id": id})
	s.event(log, eventSubmit)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		start := time.Now()
		out, err := s.t.Transform(ctx, data, id)
		s.finish(log, Result{Seq: seq, ID: id, Data: out, Err: err, Elapsed: time.Since(start)})
	}()
	return seq
}

func (s *Session) finish(log *logrus.Entry, res Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if res.Seq != s.seq {
		log.Debug("superseded, dropping result")
		return
	}
	if res.Err != nil {
		log.WithError(res.Err).Debug("request failed")
		s.event(log, eventFail)
	} else {
		log.WithField("elapsed", res.Elapsed).Debug("request done")
		s.event(log, eventDone)
	}

	// only the newest result is kept for the reader
	s.drain()
	s.results <- res
}

// drain discards an undelivered result. Callers hold s.mu.
func (s *Session) drain() {
	select {
	case <-s.results:
	default:
	}
}

func (s *Session) event(log *logrus.Entry, name string) {
	err := s.fsm.Event(name)
	if _, ok := err.(fsm.NoTransitionError); err != nil && !ok {
		log.WithError(err).Errorf("session event %s", name)
	}
}

// Results delivers the latest result. A result the reader has not picked up
// is replaced when a newer one arrives.
func (s *Session) Results() <-chan Result {
	return s.results
}

// State reports one of StateIdle, StateProcessing, StateReady or StateFailed.
func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fsm.Current()
}

// Close cancels the running request, if any, and waits for it to return.
// Nothing is delivered after Close.
func (s *Session) Close() {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	s.seq++
	s.drain()
	s.mu.Unlock()
	s.wg.Wait()
}
