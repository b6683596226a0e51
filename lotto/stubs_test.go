package lotto_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/screwyprof/lotto/lotto"
	"github.com/screwyprof/lotto/pkg/dhlottery"
)

type basicClientFunc func(ctx context.Context, drwNo int) (dhlottery.LottoNumber, error)

func (f basicClientFunc) GetLottoNumber(ctx context.Context, drwNo int) (dhlottery.LottoNumber, error) {
	return f(ctx, drwNo)
}

type pageClientFunc func(ctx context.Context, drwNo int) (string, error)

func (f pageClientFunc) GetWinningPage(ctx context.Context, drwNo int) (string, error) {
	return f(ctx, drwNo)
}

// countingScraper records how often it was asked for tiers
type countingScraper struct {
	calls atomic.Int32
	tiers []lotto.PrizeTier
	panic bool
}

func (s *countingScraper) PrizeTiers(ctx context.Context, drwNo int) []lotto.PrizeTier {
	s.calls.Add(1)
	if s.panic {
		panic("scraper exploded")
	}
	return s.tiers
}

type recordingObserver struct {
	mu         sync.Mutex
	outcomes   []string
	strategies []string
}

func (o *recordingObserver) ObserveOutcome(outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) ObserveStrategy(strategy string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.strategies = append(o.strategies, strategy)
}

// lockedBuffer is a bytes.Buffer safe for concurrent writers
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *lockedBuffer) {
	buf := &lockedBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func lottoNumber(raw string) dhlottery.LottoNumber {
	var n dhlottery.LottoNumber
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		panic(err)
	}
	n.Raw = []byte(raw)
	return n
}

const publishedDraw = `{"returnValue":"success","drwNo":1101,"drwNoDate":"2024-01-06","drwtNo1":1,"drwtNo2":7,` +
	`"drwtNo3":12,"drwtNo4":30,"drwtNo5":39,"drwtNo6":45,"bnusNo":10,"totSellamnt":111840714000,` +
	`"firstWinamnt":1396028764,"firstPrzwnerCo":20,"firstAccumamnt":27920575280}`

const unpublishedDraw = `{"returnValue":"fail"}`
