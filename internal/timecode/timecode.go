// Package timecode converts between wall-clock subtitle timestamps and integer
// millisecond offsets. It is only used at the import/export boundary; all
// editing code works in milliseconds.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// separator between seconds and milliseconds
type Separator byte

const (
	Comma Separator = ',' // SubRip
	Dot   Separator = '.' // WebVTT
)

var ErrMalformedTimestamp = errors.New("malformed timestamp")

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
)

// Parse converts "HH:MM:SS,mmm" or "HH:MM:SS.mmm" to milliseconds.
// Surrounding whitespace is ignored. Hours may use more than two digits.
func Parse(s string) (int64, error) {
	value := strings.TrimSpace(s)

	sepIdx := strings.LastIndexAny(value, ",.")
	if sepIdx < 0 {
		return 0, fmt.Errorf(
			"%w: %q has no millisecond separator",
			ErrMalformedTimestamp,
			s,
		)
	}

	clock := strings.Split(value[:sepIdx], ":")
	if len(clock) != 3 {
		return 0, fmt.Errorf(
			"%w: %q is not HH:MM:SS",
			ErrMalformedTimestamp,
			s,
		)
	}

	fields := [4]string{clock[0], clock[1], clock[2], value[sepIdx+1:]}
	var nums [4]int64
	for i, field := range fields {
		n, ok := parseField(field)
		if !ok {
			return 0, fmt.Errorf(
				"%w: %q has non-numeric field %q",
				ErrMalformedTimestamp,
				s,
				field,
			)
		}
		nums[i] = n
	}

	total := nums[3]
	for i, scale := range [3]int64{msPerHour, msPerMinute, msPerSecond} {
		if nums[i] > (math.MaxInt64-total)/scale {
			return 0, fmt.Errorf(
				"%w: %q is out of range",
				ErrMalformedTimestamp,
				s,
			)
		}
		total += nums[i] * scale
	}
	return total, nil
}

// digits only, so signs and spaces inside a field are rejected
func parseField(field string) (int64, bool) {
	if field == "" {
		return 0, false
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(field, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Format renders ms as zero-padded "HH:MM:SS{sep}mmm". Negative values clamp
// to zero and fractional values round to the nearest millisecond.
func Format(ms float64, sep Separator) string {
	total := clampRound(ms)

	hours := total / msPerHour
	minutes := (total % msPerHour) / msPerMinute
	seconds := (total % msPerMinute) / msPerSecond
	millis := total % msPerSecond

	return fmt.Sprintf(
		"%02d:%02d:%02d%c%03d",
		hours,
		minutes,
		seconds,
		byte(sep),
		millis,
	)
}

// FormatMillis is Format for integer offsets.
func FormatMillis(ms int64, sep Separator) string {
	return Format(float64(ms), sep)
}

func clampRound(ms float64) int64 {
	if math.IsNaN(ms) || ms <= 0 {
		return 0
	}
	if ms >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(math.Round(ms))
}
