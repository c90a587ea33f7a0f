package service

import (
	"fmt"
	"time"

	"github.com/iliyamo/workspace-reservation/internal/model"
)

// Wire formats for calendar dates and times of day. These match the
// values stored in the DB (DATE and TIME columns formatted on select),
// so no conversion happens between the API and the store.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseDate validates a calendar date in DateLayout and returns it as
// a time.Time at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected %s", s, DateLayout)
	}
	return t, nil
}

// ParseClock converts a time of day to minutes since midnight. It
// accepts "15:04" and the "15:04:05" form MySQL's TIME_FORMAT may
// produce; seconds are dropped because booking granularity is minutes.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		if t, err = time.Parse("15:04:05", s); err != nil {
			return 0, fmt.Errorf("invalid time %q: expected %s", s, ClockLayout)
		}
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Overlaps reports whether the half-open intervals [s1,e1) and
// [s2,e2) intersect. Under these semantics a booking ending at 10:00
// does not conflict with one starting at 10:00.
func Overlaps(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// IsAvailable decides whether the interval [start, end) in minutes
// since midnight is free given the ACTIVE bookings already on the
// partition. excludeID skips one booking so an edit never conflicts
// with its own prior interval; pass zero otherwise. It is a pure
// function over the rows it is given.
func IsAvailable(existing []model.Booking, start, end int, excludeID uint64) bool {
	for i := range existing {
		b := &existing[i]
		if b.ID == excludeID || !b.Active() {
			continue
		}
		bs, err := ParseClock(b.StartTime)
		if err != nil {
			continue
		}
		be, err := ParseClock(b.EndTime)
		if err != nil {
			continue
		}
		if Overlaps(start, end, bs, be) {
			return false
		}
	}
	return true
}

// DefaultWindow returns the browse window used when a listing request
// carries no explicit date and times: the current hour's slot, now to
// now+1h, on today's date.
func DefaultWindow(now time.Time) (date, start, end string) {
	now = now.UTC()
	return now.Format(DateLayout), now.Format(ClockLayout), now.Add(time.Hour).Format(ClockLayout)
}
