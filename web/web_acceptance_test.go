package web_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/screwyprof/lotto/lotto"
	"github.com/screwyprof/lotto/pkg/clock"
	"github.com/screwyprof/lotto/pkg/dhlottery"
	"github.com/screwyprof/lotto/pkg/logger"
	"github.com/screwyprof/lotto/pkg/metrics"
	"github.com/screwyprof/lotto/web"
	"github.com/screwyprof/lotto/web/api"
	"github.com/screwyprof/lotto/web/cache"
	"github.com/screwyprof/lotto/web/handler"
	"github.com/screwyprof/lotto/web/testcfg"
	"github.com/screwyprof/lotto/watcher"
)

// TestWebAPIAcceptanceBehavior tests the full stack against a fake lottery site
func TestWebAPIAcceptanceBehavior(t *testing.T) {
	t.Parallel()

	t.Run("it rejects requests without drwNo", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServer(t, upstream)

		// Act
		response := makeGetLottoRequest(t, server.URL, "")
		body := parseJSONResponse[map[string]any](t, response)

		// Assert
		assert.Equal(t, http.StatusBadRequest, response.StatusCode)
		assert.Equal(t, "drwNo is required", body["error"])
		assertCORSHeaders(t, response)
		assertNoUpstreamCalls(t, upstream)
	})

	t.Run("it returns the draw enriched with every prize tier", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServer(t, upstream)

		// Act
		response := makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound))
		result := parseJSONResponse[api.LottoResult](t, response)

		// Assert
		assertSuccessfulResponse(t, response)
		assertCORSHeaders(t, response)
		assertPublishedDraw(t, result)
		assertFullPrizeTable(t, result.Prizes)
	})

	t.Run("it falls back to the first tier when the results page is down", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		upstream.pageDown.Store(true)
		server := createTestServer(t, upstream)

		// Act
		response := makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound))
		result := parseJSONResponse[api.LottoResult](t, response)

		// Assert
		assertSuccessfulResponse(t, response)
		assertPublishedDraw(t, result)
		assert.Equal(t, []api.Prize{
			{Rank: 1, TotalPrize: 27920575280, WinnerCount: 20, PrizePerWinner: 1396028764},
		}, result.Prizes)
	})

	t.Run("it passes unpublished draws through without touching the results page", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServer(t, upstream)

		// Act
		response := makeGetLottoRequest(t, server.URL, "99999")
		body := readBody(t, response)

		// Assert
		assertSuccessfulResponse(t, response)
		assert.Equal(t, unpublishedBody, body, "upstream body should be written verbatim")
		assert.Zero(t, upstream.pageCalls.Load(), "results page must not be fetched")
	})

	t.Run("it answers with the uniform failure body when the site is down", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		upstream.basicDown.Store(true)
		server := createTestServer(t, upstream)

		// Act
		response := makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound))
		body := parseJSONResponse[api.FailureResponse](t, response)

		// Assert
		assertSuccessfulResponse(t, response)
		assert.Equal(t, api.FailureResponse{ReturnValue: "fail", Error: "Failed to fetch lottery data"}, body)
	})

	t.Run("it serves repeated requests from the cache", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServer(t, upstream)
		first := parseJSONResponse[api.LottoResult](t, makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound)))
		callsBefore := upstream.basicCalls.Load()

		// Act
		response := makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound))
		second := parseJSONResponse[api.LottoResult](t, response)

		// Assert
		assertSuccessfulResponse(t, response)
		assert.Equal(t, first, second)
		assert.Equal(t, callsBefore, upstream.basicCalls.Load(), "cached draw should not hit the upstream")
	})

	t.Run("it resolves latest to the newest published draw", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServerWithWatcher(t, upstream)

		// Act
		response := makeGetLottoRequest(t, server.URL, "latest")
		result := parseJSONResponse[api.LottoResult](t, response)

		// Assert
		assertSuccessfulResponse(t, response)
		assert.Equal(t, publishedRound, result.DrwNo)
	})

	t.Run("it tags every response with a request id", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServer(t, upstream)

		// Act
		generated := makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound))
		echoed := makeRequestWithID(t, server.URL+"/api/lotto?drwNo=1101", "req-42")

		// Assert
		assert.NotEmpty(t, generated.Header.Get("X-Request-ID"))
		assert.Equal(t, "req-42", echoed.Header.Get("X-Request-ID"))
	})

	t.Run("it exposes health and metrics endpoints", func(t *testing.T) {
		t.Parallel()

		// Arrange
		upstream := createTestUpstream(t, publishedRound)
		server := createTestServer(t, upstream)
		_ = readBody(t, makeGetLottoRequest(t, server.URL, strconv.Itoa(publishedRound)))

		// Act
		health := makeRequestWithID(t, server.URL+"/healthz", "")
		exposition := readBody(t, makeRequestWithID(t, server.URL+"/metrics", ""))

		// Assert
		assert.Equal(t, "ok", readBody(t, health))
		assert.Contains(t, exposition, `lotto_enrich_outcomes_total{outcome="enriched"} 1`)
		assert.Contains(t, exposition, `lotto_prize_table_strategy_hits_total{strategy="tbody"} 1`)
		assert.Contains(t, exposition, `lotto_http_requests_total{code="200",handler="api",method="get"} 1`)
	})
}

// =============================================================================
// Arrange Phase Helpers - Factory functions for test setup
// =============================================================================

const publishedRound = 1101

const unpublishedBody = `{"returnValue":"fail","drwNo":99999}`

// fakeUpstream mimics the lottery site: structured results up to latest and
// a results page for each published draw
type fakeUpstream struct {
	server     *httptest.Server
	latest     int
	basicDown  atomic.Bool
	pageDown   atomic.Bool
	basicCalls atomic.Int32
	pageCalls  atomic.Int32
}

func createTestUpstream(t *testing.T, latest int) *fakeUpstream {
	t.Helper()

	up := &fakeUpstream{latest: latest}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /common.do", func(w http.ResponseWriter, r *http.Request) {
		up.basicCalls.Add(1)
		if up.basicDown.Load() {
			w.WriteHeader(http.StatusBadGateway)
			return
		}

		drwNo, _ := strconv.Atoi(r.URL.Query().Get("drwNo"))
		if drwNo < 1 || drwNo > up.latest {
			_, _ = io.WriteString(w, unpublishedBody)
			return
		}
		_, _ = fmt.Fprintf(w, basicBodyFormat, drwNo)
	})
	mux.HandleFunc("GET /gameResult.do", func(w http.ResponseWriter, r *http.Request) {
		up.pageCalls.Add(1)
		if up.pageDown.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, resultsPage)
	})

	up.server = httptest.NewServer(mux)
	t.Cleanup(up.server.Close)

	return up
}

// createTestServer wires the service like production, minus the watcher
func createTestServer(t *testing.T, up *fakeUpstream, opts ...handler.Option) *httptest.Server {
	t.Helper()

	testCfg := testcfg.New()
	log := logger.NewFromConfig(logger.Config{
		LogLevel:         testCfg.LogLevel,
		LogHumanFriendly: testCfg.LogHumanFriendly,
	})
	rec := metrics.NewRecorder()

	client := dhlottery.NewClient(&http.Client{
		Timeout:   testCfg.UpstreamTimeout,
		Transport: rec.RoundTripper(nil),
	}, up.server.URL)

	scraper := lotto.NewDetailScraper(client, lotto.WithScraperLogger(log), lotto.WithScraperObserver(rec))
	enricher := lotto.NewEnricher(client, scraper, lotto.WithLogger(log), lotto.WithObserver(rec))

	opts = append([]handler.Option{
		handler.WithCache(cache.New(16, time.Hour, cache.WithObserver(rec))),
	}, opts...)
	lottoHandler := handler.NewLottoGetResult(enricher, opts...)

	server := httptest.NewServer(web.NewHandler(log, rec, lottoHandler))
	t.Cleanup(server.Close)

	return server
}

// createTestServerWithWatcher also runs a watcher and waits for its catch-up
func createTestServerWithWatcher(t *testing.T, up *fakeUpstream) *httptest.Server {
	t.Helper()

	client := dhlottery.NewClient(up.server.Client(), up.server.URL)
	svc := watcher.NewService(client, watcher.WithClock(stoppedClock{}))

	ctx, cancel := context.WithCancel(t.Context())
	events, done := svc.Start(ctx)
	caughtUp := make(chan struct{})
	subCloser := watcher.NewSubscriber(events,
		watcher.OnCatchUpDone(func(watcher.CatchUpDone) { close(caughtUp) }),
	)
	t.Cleanup(func() {
		cancel()
		<-done
		subCloser()
	})

	select {
	case <-caughtUp:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not catch up")
	}

	return createTestServer(t, up, handler.WithLatestResolver(svc))
}

// stoppedClock reports the day of the published draw and never ticks
type stoppedClock struct{}

func (stoppedClock) After(time.Duration) <-chan time.Time { return nil }

func (stoppedClock) Now() time.Time {
	return time.Date(2024, 1, 6, 21, 0, 0, 0, clock.KST)
}

// =============================================================================
// Action Helpers - HTTP request helpers that express intent
// =============================================================================

// makeGetLottoRequest performs GET /api/lotto, omitting drwNo when empty
func makeGetLottoRequest(t *testing.T, baseURL, drwNo string) *http.Response {
	t.Helper()

	url := baseURL + "/api/lotto"
	if drwNo != "" {
		url += "?drwNo=" + drwNo
	}

	return makeRequestWithID(t, url, "")
}

// makeRequestWithID performs a GET request carrying the given request id, if any
func makeRequestWithID(t *testing.T, url, requestID string) *http.Response {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, nil)
	require.NoError(t, err, "Should create HTTP request")
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err, "HTTP request should succeed")
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

// =============================================================================
// Named Domain Assertions - Business rule assertions
// =============================================================================

// assertSuccessfulResponse verifies the HTTP response indicates success
func assertSuccessfulResponse(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "Should return HTTP 200 OK")
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
}

// assertCORSHeaders verifies browsers on any origin may call the endpoint
func assertCORSHeaders(t *testing.T, resp *http.Response) {
	t.Helper()
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.MethodGet, resp.Header.Get("Access-Control-Allow-Methods"))
}

// assertNoUpstreamCalls verifies the request was answered without the lottery site
func assertNoUpstreamCalls(t *testing.T, up *fakeUpstream) {
	t.Helper()
	assert.Zero(t, up.basicCalls.Load(), "Should not call the structured endpoint")
	assert.Zero(t, up.pageCalls.Load(), "Should not fetch the results page")
}

// assertPublishedDraw verifies the basic fields are carried over from the upstream
func assertPublishedDraw(t *testing.T, result api.LottoResult) {
	t.Helper()
	assert.Equal(t, "success", result.ReturnValue)
	assert.Equal(t, publishedRound, result.DrwNo)
	assert.Equal(t, "2024-01-06", result.DrwNoDate)
	assert.Equal(t, []int{1, 7, 12, 30, 39, 45},
		[]int{result.DrwtNo1, result.DrwtNo2, result.DrwtNo3, result.DrwtNo4, result.DrwtNo5, result.DrwtNo6})
	assert.Equal(t, 22, result.BnusNo)
	assert.Equal(t, int64(118628811000), result.TotSellamnt)
}

// assertFullPrizeTable verifies all five tiers are present in rank order
func assertFullPrizeTable(t *testing.T, prizes []api.Prize) {
	t.Helper()
	require.Len(t, prizes, 5, "Should return every prize tier")
	for i, p := range prizes {
		assert.Equal(t, i+1, p.Rank, "Prize tiers should be ordered by rank")
	}
	assert.Equal(t, api.Prize{Rank: 5, TotalPrize: 16641995000, WinnerCount: 3328399, PrizePerWinner: 5000}, prizes[4])
}

// =============================================================================
// Utility Functions
// =============================================================================

// parseJSONResponse parses HTTP response body as JSON into the specified type
func parseJSONResponse[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	defer resp.Body.Close()

	var result T
	err := json.NewDecoder(resp.Body).Decode(&result)
	require.NoError(t, err, "Response should be valid JSON")

	return result
}

// readBody returns the response body as a string, without the trailing newline
func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Should read response body")

	return strings.TrimSuffix(string(b), "\n")
}

const basicBodyFormat = `{"returnValue":"success","drwNo":%d,"drwNoDate":"2024-01-06",` +
	`"drwtNo1":1,"drwtNo2":7,"drwtNo3":12,"drwtNo4":30,"drwtNo5":39,"drwtNo6":45,"bnusNo":22,` +
	`"totSellamnt":118628811000,"firstWinamnt":1396028764,"firstPrzwnerCo":20,"firstAccumamnt":27920575280}`

const resultsPage = `<html><body>
<table class="tbl_data tbl_data_col">
<thead><tr><th>순위</th><th>총 당첨금액</th><th>당첨게임 수</th><th>1게임당 당첨금액</th></tr></thead>
<tbody>
<tr><td>1등</td><td><strong>27,920,575,280원</strong></td><td>20</td><td>1,396,028,764원</td></tr>
<tr><td>2등</td><td><strong>4,653,429,232원</strong></td><td>82</td><td>56,749,137원</td></tr>
<tr><td>3등</td><td><strong>4,653,430,350원</strong></td><td>3,075</td><td>1,513,311원</td></tr>
<tr><td>4등</td><td><strong>7,457,400,000원</strong></td><td>149,148</td><td>50,000원</td></tr>
<tr><td>5등</td><td><strong>16,641,995,000원</strong></td><td>3,328,399</td><td>5,000원</td></tr>
</tbody>
</table>
</body></html>`
