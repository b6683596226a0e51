// Package lotto enriches published draw results with the per-rank prize table.
package lotto

import (
	"context"
	"errors"

	"github.com/screwyprof/lotto/pkg/dhlottery"
	"github.com/screwyprof/lotto/pkg/prizetable"
)

// Sentinel errors for failure cases
var (
	ErrBasicFetchFailed = errors.New("basic result fetch failed")
	ErrDetailFetch      = errors.New("detail page fetch failed")
	ErrNoPrizeTable     = errors.New("no prize table found")
	ErrPanic            = errors.New("recovered from panic")
	ErrInvalidDrawID    = errors.New("invalid draw id")
)

// StatusSuccess marks a published draw, anything else is passed through.
const StatusSuccess = dhlottery.ReturnSuccess

// BasicClient fetches the structured draw result
// ----------------------------------------------
type BasicClient interface {
	GetLottoNumber(ctx context.Context, drwNo int) (dhlottery.LottoNumber, error)
}

// PageClient fetches the HTML results page
type PageClient interface {
	GetWinningPage(ctx context.Context, drwNo int) (string, error)
}

// PrizeScraper returns the prize tiers of a draw. It never fails; an empty
// result means the tiers could not be determined.
type PrizeScraper interface {
	PrizeTiers(ctx context.Context, drwNo int) []PrizeTier
}

// Observer receives enrichment telemetry
type Observer interface {
	ObserveOutcome(outcome string)
	ObserveStrategy(strategy string)
}

type nopObserver struct{}

func (nopObserver) ObserveOutcome(string)  {}
func (nopObserver) ObserveStrategy(string) {}

// PrizeTier is one row of the prize table
type PrizeTier = prizetable.PrizeTier

// DrawBasicResult is the authoritative record of one draw
// -------------------------------------------------------
type DrawBasicResult struct {
	ReturnValue    string
	DrwNo          int
	DrwNoDate      string
	Numbers        [6]int
	BonusNo        int
	TotSellamnt    int64
	FirstWinamnt   int64
	FirstPrzwnerCo int64
	FirstAccumamnt int64
}

// Success reports whether the draw has been published.
func (r DrawBasicResult) Success() bool {
	return r.ReturnValue == StatusSuccess
}

// FirstTier synthesizes the rank 1 tier from the first-tier fields.
func (r DrawBasicResult) FirstTier() PrizeTier {
	return PrizeTier{
		Rank:           prizetable.MinRank,
		TotalPrize:     r.FirstAccumamnt,
		WinnerCount:    r.FirstPrzwnerCo,
		PrizePerWinner: r.FirstWinamnt,
	}
}

// BasicPayload is a parsed basic result together with the upstream body it came from
type BasicPayload struct {
	Result DrawBasicResult
	Raw    []byte
}

// EnrichedResult is a published draw with its prize tiers.
// Prizes is never empty.
type EnrichedResult struct {
	DrawBasicResult
	Prizes []PrizeTier
}

// Outcome kinds as reported to the Observer
const (
	OutcomeEnriched    = "enriched"
	OutcomeFallback    = "fallback"
	OutcomePassThrough = "passthrough"
	OutcomeFailed      = "failed"
)

// Outcome is the result of an enrichment: Enriched, PassThrough or Failed
// -----------------------------------------------------------------------
type Outcome interface {
	Kind() string
	outcome()
}

// Enriched carries a published draw. Fallback is set when the prize table
// could not be scraped and Prizes holds only the synthesized first tier.
type Enriched struct {
	Result   EnrichedResult
	Fallback bool
}

func (o Enriched) Kind() string {
	if o.Fallback {
		return OutcomeFallback
	}
	return OutcomeEnriched
}

// PassThrough carries an unpublished or malformed basic payload unchanged.
type PassThrough struct {
	Payload BasicPayload
}

func (PassThrough) Kind() string { return OutcomePassThrough }

// Failure response values
const (
	FailReturnValue = "fail"
	FailMessage     = "Failed to fetch lottery data"
)

// Failed reports that the basic result could not be obtained. Err is the
// cause, for logs only.
type Failed struct {
	Err error
}

func (Failed) Kind() string { return OutcomeFailed }

func (Enriched) outcome()    {}
func (PassThrough) outcome() {}
func (Failed) outcome()      {}
