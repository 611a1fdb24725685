package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/wallet-resources/internal/domain"
	"github.com/bnema/wallet-resources/internal/metrics"
	"github.com/bnema/wallet-resources/internal/ports"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrPollerRunning = errors.New("poller already running")

type PollerState int32

const (
	PollerUninitialized PollerState = iota
	PollerFetching
	PollerReady
)

func (s PollerState) String() string {
	switch s {
	case PollerUninitialized:
		return "uninitialized"
	case PollerFetching:
		return "fetching"
	case PollerReady:
		return "ready"
	default:
		return fmt.Sprintf("PollerState(%d)", int32(s))
	}
}

type FetchFunc[T any] func(ctx context.Context) (T, error)

// Snapshot is an immutable published poll result.
type Snapshot[T any] struct {
	Value   T
	Updated time.Time
}

// Poller fetches a value on a fixed interval and publishes every
// successful result as a new Snapshot. A failed fetch keeps the previous
// snapshot until the next tick.
type Poller[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	logger   *zap.Logger
	clock    ports.Clock

	current atomic.Pointer[Snapshot[T]]
	state   atomic.Int32

	subMu       sync.Mutex
	subscribers map[uint64]func(Snapshot[T])
	nextSubID   uint64

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller[T any](name string, interval time.Duration, fetch FetchFunc[T], logger *zap.Logger, clock ports.Clock) *Poller[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Poller[T]{
		name:        name,
		interval:    interval,
		fetch:       fetch,
		logger:      logger.With(zap.String("poller", name)),
		clock:       clock,
		subscribers: map[uint64]func(Snapshot[T]){},
	}
}

func (p *Poller[T]) Name() string {
	return p.name
}

func (p *Poller[T]) Interval() time.Duration {
	return p.interval
}

func (p *Poller[T]) State() PollerState {
	return PollerState(p.state.Load())
}

// Snapshot returns the current snapshot, or ErrNoSnapshot before the
// first successful fetch.
func (p *Poller[T]) Snapshot() (Snapshot[T], error) {
	current := p.current.Load()
	if current == nil {
		return Snapshot[T]{}, fmt.Errorf("%s: %w", p.name, domain.ErrNoSnapshot)
	}
	return *current, nil
}

// Start fetches immediately and then every interval until ctx is done or
// Stop is called.
func (p *Poller[T]) Start(ctx context.Context) error {
	p.runMu.Lock()
	defer p.runMu.Unlock()

	if p.done != nil {
		return fmt.Errorf("%s: %w", p.name, ErrPollerRunning)
	}

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	p.cancel = cancel
	p.done = done

	go func() {
		defer close(done)
		p.run(runCtx)
	}()

	return nil
}

// Stop cancels the timer and waits for an in-flight fetch to return.
// It is safe to call on a poller that was never started.
func (p *Poller[T]) Stop() {
	p.runMu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (p *Poller[T]) run(ctx context.Context) {
	p.logger.Debug("poller started", zap.Duration("interval", p.interval))
	defer p.logger.Debug("poller stopped")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		_ = p.Poll(ctx)

		if ctx.Err() != nil {
			return
		}
		timer.Reset(p.interval)
	}
}

// Poll runs one fetch outside the schedule and publishes its result.
func (p *Poller[T]) Poll(ctx context.Context) error {
	previous := PollerUninitialized
	if p.current.Load() != nil {
		previous = PollerReady
	}
	p.state.Store(int32(PollerFetching))

	started := p.clock.Now()
	value, err := p.fetch(ctx)
	finished := p.clock.Now()
	metrics.RecordPoll(p.name, finished.Sub(started), err, finished)

	if err != nil {
		p.state.Store(int32(previous))
		if ctx.Err() == nil {
			p.logger.Warn("poll failed", zap.Error(err))
		}
		return fmt.Errorf("poll %s: %w", p.name, err)
	}

	p.publish(Snapshot[T]{Value: value, Updated: finished})
	return nil
}

func (p *Poller[T]) publish(snapshot Snapshot[T]) {
	p.current.Store(&snapshot)
	p.state.Store(int32(PollerReady))

	for _, fn := range p.subscriberList() {
		fn(snapshot)
	}
}

// Subscribe registers fn for every published snapshot. When a snapshot
// already exists fn receives it before Subscribe returns.
func (p *Poller[T]) Subscribe(fn func(Snapshot[T])) (unsubscribe func()) {
	p.subMu.Lock()
	id := p.nextSubID
	p.nextSubID++
	p.subscribers[id] = fn
	p.subMu.Unlock()

	if current := p.current.Load(); current != nil {
		fn(*current)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.subMu.Lock()
			delete(p.subscribers, id)
			p.subMu.Unlock()
		})
	}
}

func (p *Poller[T]) subscriberList() []func(Snapshot[T]) {
	p.subMu.Lock()
	defer p.subMu.Unlock()

	list := make([]func(Snapshot[T]), 0, len(p.subscribers))
	for _, fn := range p.subscribers {
		list = append(list, fn)
	}
	return list
}

// Runner is the lifecycle every poller shares regardless of its value type.
type Runner interface {
	Name() string
	Start(ctx context.Context) error
	Stop()
}

// Group owns a set of pollers. Stop tears all of them down.
type Group struct {
	mu      sync.Mutex
	runners []Runner
}

func NewGroup(runners ...Runner) *Group {
	return &Group{runners: runners}
}

func (g *Group) Add(runner Runner) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runners = append(g.runners, runner)
}

func (g *Group) Start(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, runner := range g.runners {
		if err := runner.Start(ctx); err != nil {
			for _, started := range g.runners[:i] {
				started.Stop()
			}
			return fmt.Errorf("start %s: %w", runner.Name(), err)
		}
	}
	return nil
}

// Stop stops every member concurrently and waits for all of them.
func (g *Group) Stop() {
	g.mu.Lock()
	runners := append([]Runner(nil), g.runners...)
	g.mu.Unlock()

	var eg errgroup.Group
	for _, runner := range runners {
		eg.Go(func() error {
			runner.Stop()
			return nil
		})
	}
	_ = eg.Wait()
}

// Run starts the group and blocks until ctx is done, then stops it.
func (g *Group) Run(ctx context.Context) error {
	if err := g.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	g.Stop()
	return nil
}
