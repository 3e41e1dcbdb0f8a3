package timecode

import (
	"fmt"
	"regexp"
	"strconv"
)

// TimeCode is a millisecond offset decomposed into clock fields. It is
// always derived from a millisecond integer, never stored on its own.
type TimeCode struct {
	Hours        int
	Minutes      int
	Seconds      int
	Milliseconds int
}

// FromMillis decomposes a non-negative millisecond offset. Negative
// input is the caller's bug; fields simply come out negative.
func FromMillis(ms int64) TimeCode {
	return TimeCode{
		Hours:        int(ms / 3_600_000),
		Minutes:      int(ms % 3_600_000 / 60_000),
		Seconds:      int(ms % 60_000 / 1_000),
		Milliseconds: int(ms % 1_000),
	}
}

// Millis is the inverse of FromMillis.
func (tc TimeCode) Millis() int64 {
	return int64(tc.Hours)*3_600_000 +
		int64(tc.Minutes)*60_000 +
		int64(tc.Seconds)*1_000 +
		int64(tc.Milliseconds)
}

// FormatShort renders MM:SS.mmm, dropping the hour field entirely.
func (tc TimeCode) FormatShort() string {
	return fmt.Sprintf("%02d:%02d.%03d", tc.Minutes, tc.Seconds, tc.Milliseconds)
}

// FormatFull renders HH:MM:SS.mmm.
func (tc TimeCode) FormatFull() string {
	return fmt.Sprintf(
		"%02d:%02d:%02d.%03d",
		tc.Hours, tc.Minutes, tc.Seconds, tc.Milliseconds,
	)
}

// ParseError reports a timestamp that does not match the expected
// digit grouping.
type ParseError struct {
	Input string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid timestamp %q: want HH:MM:SS.mmm or MM:SS.mmm", e.Input)
}

// hour group optional; minute/second exactly two digits, millis three
var timestampRegex = regexp.MustCompile(`^(?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3})$`)

// ParseTimestamp parses HH:MM:SS.mmm or MM:SS.mmm into a millisecond
// offset. Anything else fails with a *ParseError.
func ParseTimestamp(text string) (int64, error) {
	m := timestampRegex.FindStringSubmatch(text)
	if m == nil {
		return 0, &ParseError{Input: text}
	}

	hours := 0
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	millis, _ := strconv.Atoi(m[4])

	tc := TimeCode{
		Hours:        hours,
		Minutes:      minutes,
		Seconds:      seconds,
		Milliseconds: millis,
	}
	return tc.Millis(), nil
}
