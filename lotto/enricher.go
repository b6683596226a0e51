package lotto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Option configures the Enricher
type Option func(*Enricher)

// WithLogger sets the logger used for basic fetch failures
func WithLogger(l *slog.Logger) Option {
	return func(e *Enricher) { e.log = l }
}

// WithObserver reports every outcome
func WithObserver(o Observer) Option {
	return func(e *Enricher) { e.observer = o }
}

// WithConcurrentDetail fetches the results page alongside the basic result.
// The page is only used when the draw turns out to be published.
func WithConcurrentDetail(enabled bool) Option {
	return func(e *Enricher) { e.concurrent = enabled }
}

// Enricher combines the basic draw result with the scraped prize tiers
// --------------------------------------------------------------------
type Enricher struct {
	api        BasicClient
	scraper    PrizeScraper
	log        *slog.Logger
	observer   Observer
	concurrent bool
}

// NewEnricher fetches sequentially by default.
func NewEnricher(api BasicClient, scraper PrizeScraper, opts ...Option) *Enricher {
	e := &Enricher{
		api:      api,
		scraper:  scraper,
		log:      slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// errUnpublished stops a concurrent page fetch once the basic result says the
// draw is not published.
var errUnpublished = errors.New("draw not published")

// Enrich never returns an error or panics: failures become a Failed outcome.
func (e *Enricher) Enrich(ctx context.Context, drwNo int) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Failed{Err: fmt.Errorf("%w: %v", ErrPanic, r)}
		}
		if f, ok := out.(Failed); ok {
			e.log.ErrorContext(ctx, "basic result unavailable", slog.Int("drwNo", drwNo), slog.Any("error", f.Err))
		}
		e.observer.ObserveOutcome(out.Kind())
	}()

	if e.concurrent {
		return e.enrichConcurrently(ctx, drwNo)
	}

	basic, err := e.fetchBasic(ctx, drwNo)
	if err != nil {
		return Failed{Err: err}
	}
	if !basic.Result.Success() {
		return PassThrough{Payload: basic}
	}

	return Merge(basic.Result, e.prizeTiers(ctx, drwNo))
}

func (e *Enricher) enrichConcurrently(ctx context.Context, drwNo int) Outcome {
	var (
		basic BasicPayload
		tiers []PrizeTier
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if basic, err = e.fetchBasic(gctx, drwNo); err != nil {
			return err
		}
		if !basic.Result.Success() {
			return errUnpublished
		}
		return nil
	})
	g.Go(func() error {
		tiers = e.prizeTiers(gctx, drwNo)
		return nil
	})

	switch err := g.Wait(); {
	case errors.Is(err, errUnpublished):
		return PassThrough{Payload: basic}
	case err != nil:
		return Failed{Err: err}
	}

	return Merge(basic.Result, tiers)
}

func (e *Enricher) fetchBasic(ctx context.Context, drwNo int) (payload BasicPayload, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %w: %v", ErrBasicFetchFailed, ErrPanic, r)
		}
	}()

	n, err := e.api.GetLottoNumber(ctx, drwNo)
	if err != nil {
		return BasicPayload{}, fmt.Errorf("%w: %w", ErrBasicFetchFailed, err)
	}

	return NewBasicPayload(n), nil
}

// prizeTiers guards against scrapers that do not keep their no-panic promise.
func (e *Enricher) prizeTiers(ctx context.Context, drwNo int) (tiers []PrizeTier) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WarnContext(ctx, "prize scraper panicked", slog.Int("drwNo", drwNo), slog.Any("panic", r))
			tiers = nil
		}
	}()

	return e.scraper.PrizeTiers(ctx, drwNo)
}
