package main

import (
	"fmt"
	"time"

	"go-triage-pipeline/internal/model"
)

// parseTime accepts a bare date (local midnight) or an RFC3339 timestamp.
func parseTime(s string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want YYYY-MM-DD or RFC3339", s)
	}
	return t, nil
}

// resolveRange turns the --start/--end/--days flags into a range. The start
// defaults to now and the end to start minus days.
func resolveRange(start, end string, days int, now time.Time) (model.TimeRange, error) {
	rng := model.TimeRange{Start: now}
	if start != "" {
		t, err := parseTime(start)
		if err != nil {
			return model.TimeRange{}, err
		}
		rng.Start = t
	}

	if end != "" {
		t, err := parseTime(end)
		if err != nil {
			return model.TimeRange{}, err
		}
		rng.End = t
		return rng, nil
	}

	if days < 0 {
		return model.TimeRange{}, fmt.Errorf("--days must not be negative")
	}
	rng.End = rng.Start.AddDate(0, 0, -days)
	return rng, nil
}
