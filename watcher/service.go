package watcher

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/screwyprof/lotto/lotto"
	"github.com/screwyprof/lotto/pkg/clock"
)

// Option configures the Service
// ------------------------------------------------
type Option func(*Service)

// WithClock injects a custom Clock (e.g., for testing)
func WithClock(c Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithPollInterval sets the polling interval
func WithPollInterval(d time.Duration) Option {
	return func(s *Service) { s.pollInterval = d }
}

// WithMaxProbes limits the upstream calls of a single catch-up or poll
func WithMaxProbes(n int) Option {
	return func(s *Service) { s.maxProbes = max(1, n) }
}

// Service implements two-phase watching: catch-up then live polling
// -----------------------------------------------------------------
type Service struct {
	api          Client
	clock        Clock
	pollInterval time.Duration
	maxProbes    int
	events       chan Event
	latest       atomic.Int64
}

// NewService constructs a Service with required dependencies and options
// ---------------------------------------------------------------------
// By default, it uses a real clock, 10m poll interval and 8 probes.
func NewService(api Client, opts ...Option) *Service {
	s := &Service{
		api:          api,
		clock:        clock.SystemClock{},
		pollInterval: DefaultPollInterval,
		maxProbes:    DefaultMaxProbes,
		events:       make(chan Event, 10),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Latest returns the newest published draw, false until one is known.
func (s *Service) Latest() (int, bool) {
	n := s.latest.Load()
	return int(n), n > 0
}

// Start launches the watcher and returns the events channel and done channel.
//
// Shutdown pattern:
//  1. Cancel context to request shutdown: cancel()
//  2. Service stops producing events and closes events channel
//  3. Wait for complete shutdown: <-done
//
// Events must be consumed, e.g. with NewSubscriber.
func (s *Service) Start(ctx context.Context) (<-chan Event, <-chan struct{}) {
	done := make(chan struct{})
	go func() {
		defer close(s.events)
		defer close(done)
		s.run(ctx)
	}()
	return s.events, done
}

func (s *Service) run(ctx context.Context) {
	s.catchUp(ctx)

	s.events <- PollingStarted{Interval: s.pollInterval}
	for {
		select {
		case <-ctx.Done():
			s.events <- PollingShutdown{Reason: ctx.Err()}
			return
		case <-s.clock.After(s.pollInterval):
			if _, ok := s.Latest(); !ok {
				s.catchUp(ctx)
				continue
			}

			latest, advanced, err := s.poll(ctx)
			if err != nil {
				s.events <- PollingError{Err: err}
				continue
			}

			s.events <- PollingSyncCompleted{Latest: latest, Advanced: advanced}
		}
	}
}

// catchUp locates the newest published draw starting from the clock estimate
func (s *Service) catchUp(ctx context.Context) {
	start := s.clock.Now()
	estimate := lotto.EstimateRound(start)

	s.events <- CatchUpStarted{StartedAt: start, Estimate: estimate}

	latest, probes, err := s.locate(ctx, estimate)
	if err != nil {
		s.events <- CatchUpError{Err: err}
		return
	}

	s.latest.Store(int64(latest))
	s.events <- CatchUpDone{
		Latest:   latest,
		Probes:   probes,
		Duration: s.clock.Now().Sub(start),
	}
}

// locate walks forward from a published estimate or backward from an
// unpublished one, within the probe budget.
func (s *Service) locate(ctx context.Context, estimate int) (latest, probes int, err error) {
	published, err := s.published(ctx, estimate)
	probes++
	if err != nil {
		return 0, probes, err
	}

	if published {
		latest, n, err := s.walkForward(ctx, estimate, s.maxProbes-probes)
		return latest, probes + n, err
	}

	for n := estimate - 1; n >= 1 && probes < s.maxProbes; n-- {
		published, err := s.published(ctx, n)
		probes++
		if err != nil {
			return 0, probes, err
		}
		if published {
			return n, probes, nil
		}
	}

	return 0, probes, fmt.Errorf("%w: below %d after %d probes", ErrNoPublishedDraw, estimate, probes)
}

// poll checks whether draws after the known latest have been published
func (s *Service) poll(ctx context.Context) (latest int, advanced bool, err error) {
	known, _ := s.Latest()

	latest, _, err = s.walkForward(ctx, known, s.maxProbes)
	if latest > known {
		s.latest.Store(int64(latest))
	}

	return latest, latest > known, err
}

// walkForward returns the last published draw after from, using at most budget probes.
func (s *Service) walkForward(ctx context.Context, from, budget int) (latest, probes int, err error) {
	latest = from
	for probes < budget {
		published, err := s.published(ctx, latest+1)
		probes++
		if err != nil {
			return latest, probes, err
		}
		if !published {
			break
		}
		latest++
	}
	return latest, probes, nil
}

func (s *Service) published(ctx context.Context, drwNo int) (bool, error) {
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%w: %w", ErrProbeFailed, ctx.Err())
	default:
	}

	n, err := s.api.GetLottoNumber(ctx, drwNo)
	if err != nil {
		return false, fmt.Errorf("%w: draw %d: %w", ErrProbeFailed, drwNo, err)
	}

	return n.Success(), nil
}
