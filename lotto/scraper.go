package lotto

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/screwyprof/lotto/pkg/prizetable"
)

// Scrape stages
const (
	StageFetch   = "fetch"
	StageExtract = "extract"
)

// ScrapeError tells at which stage scraping the prize table failed
type ScrapeError struct {
	Stage string
	Err   error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s: %v", e.Stage, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }

// ScraperOption configures the DetailScraper
type ScraperOption func(*DetailScraper)

// WithChain replaces the default extraction chain
func WithChain(c prizetable.Chain) ScraperOption {
	return func(s *DetailScraper) { s.chain = c }
}

// WithScraperLogger sets the logger used for scrape warnings
func WithScraperLogger(l *slog.Logger) ScraperOption {
	return func(s *DetailScraper) { s.log = l }
}

// WithScraperObserver reports the winning extraction strategy
func WithScraperObserver(o Observer) ScraperOption {
	return func(s *DetailScraper) { s.observer = o }
}

// DetailScraper reads the prize tiers of a draw from the results page
type DetailScraper struct {
	api      PageClient
	chain    prizetable.Chain
	log      *slog.Logger
	observer Observer
}

// NewDetailScraper uses the default extraction chain unless configured otherwise.
func NewDetailScraper(api PageClient, opts ...ScraperOption) *DetailScraper {
	s := &DetailScraper{
		api:      api,
		chain:    prizetable.DefaultChain(),
		log:      slog.Default(),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PrizeTiers returns the tiers sorted by rank, or an empty list when the page
// could not be fetched or holds no recognizable prize table.
func (s *DetailScraper) PrizeTiers(ctx context.Context, drwNo int) (tiers []PrizeTier) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WarnContext(ctx, "prize table scrape panicked", slog.Int("drwNo", drwNo), slog.Any("panic", r))
			tiers = nil
		}
	}()

	tiers, err := s.scrape(ctx, drwNo)
	if err != nil {
		s.log.WarnContext(ctx, "prize table unavailable", slog.Int("drwNo", drwNo), slog.Any("error", err))
		return nil
	}

	return tiers
}

func (s *DetailScraper) scrape(ctx context.Context, drwNo int) ([]PrizeTier, error) {
	page, err := s.api.GetWinningPage(ctx, drwNo)
	if err != nil {
		return nil, &ScrapeError{Stage: StageFetch, Err: fmt.Errorf("%w: %w", ErrDetailFetch, err)}
	}

	tiers, strategy := s.chain.Extract(page)
	if len(tiers) == 0 {
		return nil, &ScrapeError{Stage: StageExtract, Err: ErrNoPrizeTable}
	}

	s.observer.ObserveStrategy(strategy)
	s.log.DebugContext(ctx, "prize table extracted",
		slog.Int("drwNo", drwNo), slog.String("strategy", strategy), slog.Int("tiers", len(tiers)))

	return tiers, nil
}
