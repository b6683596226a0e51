// Package watcher tracks the newest published draw.
//
// It estimates the current draw from the clock, probes the upstream forward
// or backward until it finds the newest published one, then polls for the
// next draw at a fixed interval.
package watcher

import (
	"context"
	"errors"
	"time"

	"github.com/screwyprof/lotto/pkg/dhlottery"
)

// Sentinel errors for failure cases
var (
	ErrProbeFailed     = errors.New("draw probe failed")
	ErrNoPublishedDraw = errors.New("no published draw found within probe limit")
)

// Default configuration values
const (
	DefaultPollInterval = 10 * time.Minute
	DefaultMaxProbes    = 8
)

// Client fetches a draw result from the upstream
// ----------------------------------------------
type Client interface {
	GetLottoNumber(ctx context.Context, drwNo int) (dhlottery.LottoNumber, error)
}

// Clock abstracts time for production and testing
// ------------------------------------------------
type Clock interface {
	After(d time.Duration) <-chan time.Time
	Now() time.Time
}

// Event represents a service lifecycle event
// ------------------------------------------
type Event any

type CatchUpStarted struct {
	StartedAt time.Time
	Estimate  int
}

type CatchUpDone struct {
	Latest   int
	Probes   int
	Duration time.Duration
}

type CatchUpError struct {
	Err error
}

type PollingStarted struct {
	Interval time.Duration
}

type PollingSyncCompleted struct {
	Latest   int
	Advanced bool
}

type PollingShutdown struct {
	Reason error // ctx.Err()
}

type PollingError struct {
	Err error
}
