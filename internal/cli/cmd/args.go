package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/berrythewa/pueue/internal/timeparsing"
)

// now is replaced in tests.
var now = time.Now

// parseID parses a single task id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}

// parseIDs parses positional task ids. No arguments yields nil.
func parseIDs(args []string) ([]int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := parseID(arg)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseDelay resolves a --delay value. An empty value means no delay.
func parseDelay(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := timeparsing.ParseDelay(value, now())
	if err != nil {
		return nil, fmt.Errorf("invalid --delay: %w", err)
	}
	return &t, nil
}
