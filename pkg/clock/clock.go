// Package clock provides time abstractions for production and testing
package clock

import "time"

// KST is the timezone the draws are held in. Falls back to a fixed +09:00 zone
// when the tz database is unavailable (e.g. scratch containers).
var KST = loadKST()

func loadKST() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		return time.FixedZone("KST", 9*60*60)
	}
	return loc
}

// SystemClock provides production time implementation using the standard library
type SystemClock struct{}

// After returns a channel that sends the current time after the specified duration
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// Now returns the current time in KST
func (SystemClock) Now() time.Time {
	return time.Now().In(KST)
}
