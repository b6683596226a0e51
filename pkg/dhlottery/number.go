package dhlottery

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is an int64 decoded leniently from the upstream JSON.
// Missing, null, boolean, non-numeric and out of int64 range values decode
// as 0; numeric strings
// with or without thousands separators ("1,234" / "1234") are accepted.
type Number int64

func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = Number(parseNumeric(strings.ReplaceAll(strings.TrimSpace(s), ",", "")))
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		*n = Number(parseNumeric(string(data)))
	}

	return nil
}

func parseNumeric(s string) int64 {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// Int64 returns the value as int64.
func (n Number) Int64() int64 { return int64(n) }
