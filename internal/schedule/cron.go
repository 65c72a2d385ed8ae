// Package schedule runs the pre-open and post-open scan jobs on cron
// schedules evaluated in the operator's timezone.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// cronField is a parsed cron field that can match against a value.
type cronField struct {
	wildcard bool
	values   []int
}

// matches returns true if the given value matches this cron field.
func (f cronField) matches(val int) bool {
	if f.wildcard {
		return true
	}
	for _, v := range f.values {
		if v == val {
			return true
		}
	}
	return false
}

// parseCronField parses a single cron field. Supported forms: "*", "*/n",
// "a", "a-b", "a-b/n", and comma-separated lists of any of these. min and max
// bound the legal values for the field.
func parseCronField(field string, min, max int) (cronField, error) {
	if field == "*" {
		return cronField{wildcard: true}, nil
	}

	var values []int
	for _, part := range strings.Split(field, ",") {
		part = strings.TrimSpace(part)

		step := 1
		if base, stepStr, ok := strings.Cut(part, "/"); ok {
			s, err := strconv.Atoi(stepStr)
			if err != nil || s < 1 {
				return cronField{}, fmt.Errorf("invalid cron step %q", stepStr)
			}
			step = s
			part = base
		}

		lo, hi := min, max
		switch {
		case part == "*":
			// full range
		case strings.Contains(part, "-"):
			loStr, hiStr, _ := strings.Cut(part, "-")
			var err error
			if lo, err = strconv.Atoi(loStr); err != nil {
				return cronField{}, fmt.Errorf("invalid cron range start %q: %w", loStr, err)
			}
			if hi, err = strconv.Atoi(hiStr); err != nil {
				return cronField{}, fmt.Errorf("invalid cron range end %q: %w", hiStr, err)
			}
		default:
			v, err := strconv.Atoi(part)
			if err != nil {
				return cronField{}, fmt.Errorf("invalid cron field value %q: %w", part, err)
			}
			lo, hi = v, v
		}

		if lo < min || hi > max || lo > hi {
			return cronField{}, fmt.Errorf("cron field value out of range [%d,%d]: %q", min, max, part)
		}
		for v := lo; v <= hi; v += step {
			values = append(values, v)
		}
	}
	return cronField{values: values}, nil
}

// cronSchedule holds five parsed cron fields:
// "minute hour day-of-month month day-of-week", day-of-week with Sunday=0.
type cronSchedule struct {
	minute     cronField
	hour       cronField
	dayOfMonth cronField
	month      cronField
	dayOfWeek  cronField
}

// parseCron parses a 5-field cron expression.
func parseCron(expr string) (cronSchedule, error) {
	fields := strings.Fields(expr)
	if len(fields) != 5 {
		return cronSchedule{}, fmt.Errorf("cron expression must have 5 fields, got %d", len(fields))
	}

	minute, err := parseCronField(fields[0], 0, 59)
	if err != nil {
		return cronSchedule{}, fmt.Errorf("parsing minute field: %w", err)
	}
	hour, err := parseCronField(fields[1], 0, 23)
	if err != nil {
		return cronSchedule{}, fmt.Errorf("parsing hour field: %w", err)
	}
	dayOfMonth, err := parseCronField(fields[2], 1, 31)
	if err != nil {
		return cronSchedule{}, fmt.Errorf("parsing day-of-month field: %w", err)
	}
	month, err := parseCronField(fields[3], 1, 12)
	if err != nil {
		return cronSchedule{}, fmt.Errorf("parsing month field: %w", err)
	}
	dayOfWeek, err := parseCronField(fields[4], 0, 6)
	if err != nil {
		return cronSchedule{}, fmt.Errorf("parsing day-of-week field: %w", err)
	}

	return cronSchedule{
		minute:     minute,
		hour:       hour,
		dayOfMonth: dayOfMonth,
		month:      month,
		dayOfWeek:  dayOfWeek,
	}, nil
}

// matchesTime returns true if the given time matches all five cron fields.
func (c cronSchedule) matchesTime(t time.Time) bool {
	return c.minute.matches(t.Minute()) &&
		c.hour.matches(t.Hour()) &&
		c.dayOfMonth.matches(t.Day()) &&
		c.month.matches(int(t.Month())) &&
		c.dayOfWeek.matches(int(t.Weekday()))
}

// next calculates the next time after 'after' that matches the schedule,
// in after's location. It searches minute-by-minute up to one year ahead.
func (c cronSchedule) next(after time.Time) (time.Time, error) {
	// Start from the next minute boundary.
	candidate := after.Truncate(time.Minute).Add(time.Minute)

	// Search up to one year ahead to avoid infinite loops.
	limit := after.Add(366 * 24 * time.Hour)

	for candidate.Before(limit) {
		if c.matchesTime(candidate) {
			return candidate, nil
		}
		candidate = candidate.Add(time.Minute)
	}

	return time.Time{}, fmt.Errorf("no matching cron time found within one year")
}
