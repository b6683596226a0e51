package lotto

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/screwyprof/lotto/pkg/clock"
)

// FirstDrawDate is the date of draw 1. Draws are held weekly since.
var FirstDrawDate = time.Date(2002, time.December, 7, 0, 0, 0, 0, clock.KST)

const week = 7 * 24 * time.Hour

// EstimateRound returns the draw number expected at t, counting whole weeks
// since the first draw. Never less than 1.
func EstimateRound(t time.Time) int {
	if t.Before(FirstDrawDate) {
		return 1
	}
	return int(t.Sub(FirstDrawDate)/week) + 1
}

// LatestKeyword selects the newest published draw.
const LatestKeyword = "latest"

// DrawID identifies a draw: either a positive draw number or the latest one
type DrawID struct {
	latest bool
	number int
}

// Latest is the DrawID of the newest published draw.
func Latest() DrawID { return DrawID{latest: true} }

// Round is the DrawID of the given draw number.
func Round(n int) DrawID { return DrawID{number: n} }

// ParseDrawID accepts "latest" or a positive integer.
func ParseDrawID(s string) (DrawID, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, LatestKeyword) {
		return Latest(), nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return DrawID{}, fmt.Errorf("%w: %q is not a number", ErrInvalidDrawID, s)
	}
	if n < 1 {
		return DrawID{}, fmt.Errorf("%w: %d must be positive", ErrInvalidDrawID, n)
	}

	return Round(n), nil
}

func (d DrawID) IsLatest() bool { return d.latest }

// Number returns the draw number, 0 for Latest.
func (d DrawID) Number() int { return d.number }

func (d DrawID) String() string {
	if d.latest {
		return LatestKeyword
	}
	return strconv.Itoa(d.number)
}
