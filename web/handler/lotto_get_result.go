package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/screwyprof/lotto/lotto"
	"github.com/screwyprof/lotto/pkg/httpkit"
	"github.com/screwyprof/lotto/web/api"
	"github.com/screwyprof/lotto/web/handler/bind"
)

const GetLottoRoute = http.MethodGet + " " + "/api/lotto"

// Sentinel errors
var (
	ErrLatestUnknown = errors.New("latest draw is not known yet")
)

// Enricher resolves a draw number to an enrichment outcome
type Enricher interface {
	Enrich(ctx context.Context, drwNo int) lotto.Outcome
}

// LatestResolver knows the newest published draw
type LatestResolver interface {
	Latest() (int, bool)
}

// ResultCache stores enriched draws between requests
type ResultCache interface {
	Get(drwNo int) (lotto.EnrichedResult, bool)
	Add(res lotto.EnrichedResult)
}

type unknownLatest struct{}

func (unknownLatest) Latest() (int, bool) { return 0, false }

type noCache struct{}

func (noCache) Get(int) (lotto.EnrichedResult, bool) { return lotto.EnrichedResult{}, false }
func (noCache) Add(lotto.EnrichedResult)             {}

// Option configures LottoGetResult
type Option func(*LottoGetResult)

// WithLatestResolver enables drwNo=latest
func WithLatestResolver(l LatestResolver) Option {
	return func(h *LottoGetResult) { h.latest = l }
}

// WithCache serves repeated requests for enriched draws from c
func WithCache(c ResultCache) Option {
	return func(h *LottoGetResult) { h.cache = c }
}

type LottoGetResult struct {
	enricher Enricher
	latest   LatestResolver
	cache    ResultCache
}

func NewLottoGetResult(enricher Enricher, opts ...Option) *LottoGetResult {
	h := &LottoGetResult{
		enricher: enricher,
		latest:   unknownLatest{},
		cache:    noCache{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *LottoGetResult) AddRoutes(m *http.ServeMux) {
	m.Handle(GetLottoRoute, httpkit.CORS(http.MethodGet, httpkit.HandlerFunc(h.GetResult)))
}

func (h *LottoGetResult) GetResult(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	id, err := bind.GetLottoRequest(r)
	if err != nil {
		return httpkit.JsonError(api.BadRequest(err))
	}

	drwNo := id.Number()
	if id.IsLatest() {
		latest, ok := h.latest.Latest()
		if !ok {
			return failed(r, ErrLatestUnknown)
		}
		drwNo = latest
	}

	if res, ok := h.cache.Get(drwNo); ok {
		return httpkit.JSON(bind.LottoResultResponse(res))
	}

	switch out := h.enricher.Enrich(r.Context(), drwNo).(type) {
	case lotto.Enriched:
		if !out.Fallback {
			h.cache.Add(out.Result)
		}
		return httpkit.JSON(bind.LottoResultResponse(out.Result))
	case lotto.PassThrough:
		return httpkit.RawJSON(out.Payload.Raw)
	case lotto.Failed:
		return failed(r, out.Err)
	default:
		return failed(r, lotto.ErrBasicFetchFailed)
	}
}

// failed answers 200 with the uniform failure body; the cause is only logged.
func failed(r *http.Request, cause error) http.HandlerFunc {
	httpkit.SetError(r.Context(), cause)
	return httpkit.JSON(bind.FailureResponse())
}
