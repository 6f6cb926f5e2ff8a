// Package timeparsing turns the user's --delay argument into a point in time.
package timeparsing

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var (
	// ErrEmpty is returned for a blank input.
	ErrEmpty = errors.New("empty delay")
	// ErrInPast is returned when the input resolves to a time before now.
	ErrInPast = errors.New("delay lies in the past")
	// ErrUnrecognized is returned when no format matches.
	ErrUnrecognized = errors.New("unrecognized delay")
	// ErrOutOfRange is returned when a duration does not fit in time.Duration.
	ErrOutOfRange = errors.New("delay out of range")
)

// compactPattern matches "90s", "5m", "2h", "3d", "1w" and sums like "1h30m".
var compactPattern = regexp.MustCompile(`^(\d+[smhdw])+$`)
var compactPart = regexp.MustCompile(`(\d+)([smhdw])`)

var compactUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
	"w": 7 * 24 * time.Hour,
}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

var parser = newParser()

func newParser() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}

// ParseDelay resolves s relative to now. Accepted forms, in order:
//
//	compact durations   30s, 10m, 2h, 1d, 1w, 1h30m, +6h
//	Go durations        1h15m30s, 1.5h
//	absolute times      RFC3339, "2006-01-02 15:04[:05]", "2006-01-02"
//	wall clock          "15:04" (today, or tomorrow if already passed)
//	natural language    "tomorrow at 9am", "in 3 hours", "next friday"
//
// Absolute forms without a zone are read in now's location.
func ParseDelay(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrEmpty
	}

	t, ok, err := parseRelative(strings.ToLower(s), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", err, s)
	}
	if ok {
		return checkFuture(s, t, now)
	}
	if t, ok := parseAbsolute(s, now); ok {
		return checkFuture(s, t, now)
	}
	if t, ok := parseClock(s, now); ok {
		return t, nil
	}

	r, err := parser.Parse(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q: %w", ErrUnrecognized, s, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w %q", ErrUnrecognized, s)
	}
	return checkFuture(s, r.Time, now)
}

func parseRelative(s string, now time.Time) (time.Time, bool, error) {
	s = strings.TrimPrefix(s, "+")
	if compactPattern.MatchString(s) {
		var total time.Duration
		for _, m := range compactPart.FindAllStringSubmatch(s, -1) {
			unit := compactUnits[m[2]]
			n, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil || n > int64(math.MaxInt64/unit) {
				return time.Time{}, false, ErrOutOfRange
			}
			d := time.Duration(n) * unit
			if total > math.MaxInt64-d {
				return time.Time{}, false, ErrOutOfRange
			}
			total += d
		}
		return now.Add(total), true, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(d), true, nil
	}
	return time.Time{}, false, nil
}

func parseAbsolute(s string, now time.Time) (time.Time, bool) {
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseClock(s string, now time.Time) (time.Time, bool) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		c, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t := time.Date(now.Year(), now.Month(), now.Day(), c.Hour(), c.Minute(), c.Second(), 0, now.Location())
		if !t.After(now) {
			t = t.AddDate(0, 0, 1)
		}
		return t, true
	}
	return time.Time{}, false
}

func checkFuture(input string, t, now time.Time) (time.Time, error) {
	if t.Before(now) {
		return time.Time{}, fmt.Errorf("%w: %q resolves to %s", ErrInPast, input, t.Format(time.RFC3339))
	}
	return t, nil
}
