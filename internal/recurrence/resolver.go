package recurrence

import (
	"time"

	"github.com/example/homeboard/internal/domain/alarm"
)

// WeeklyAnchor is the fixed weekday on which weekly alarms recur,
// independent of the weekday the alarm was created or edited on.
const WeeklyAnchor = time.Monday

const daysPerWeek = 7

// NextOccurrence computes the next instant at which the alarm should fire,
// strictly after now. The second return value is false when no future
// occurrence exists: a one-time alarm whose time has passed, or a definition
// the form validation should have rejected.
//
// The function is pure: same (alarm, now) in, same result out.
// All date arithmetic is calendar-day based (AddDate), so results stay on
// the configured wall-clock time across daylight-saving transitions.
func NextOccurrence(a *alarm.Alarm, now time.Time) (time.Time, bool) {
	hour, minute, err := a.ParseTimeOfDay()
	if err != nil {
		return time.Time{}, false
	}

	// Today's date at the alarm's wall-clock time, in now's location.
	year, month, day := now.Date()
	candidate := time.Date(year, month, day, hour, minute, 0, 0, now.Location())

	switch a.RepeatType {
	case alarm.RepeatNone:
		if candidate.After(now) {
			return candidate, true
		}

		// Never fires again unless edited.
		return time.Time{}, false

	case alarm.RepeatDaily:
		if candidate.After(now) {
			return candidate, true
		}

		return candidate.AddDate(0, 0, 1), true

	case alarm.RepeatWeekly:
		daysUntil := int(WeeklyAnchor-now.Weekday()+daysPerWeek) % daysPerWeek

		next := candidate.AddDate(0, 0, daysUntil)
		if !next.After(now) {
			next = next.AddDate(0, 0, daysPerWeek)
		}

		return next, true

	case alarm.RepeatCustom:
		return nextCustom(a, now, candidate)

	default:
		return time.Time{}, false
	}
}

// nextCustom scans the forward week for the earliest matching weekday whose
// instant is strictly after now. If nothing in the scan qualifies (only
// possible when the set holds just today's weekday and today's time has
// passed), it falls back to the nearest weekday in the set a week out.
func nextCustom(a *alarm.Alarm, now, candidate time.Time) (time.Time, bool) {
	if len(a.RepeatDays) == 0 {
		return time.Time{}, false
	}

	var (
		best    time.Time
		nearest = -1
	)

	for offset := 0; offset < daysPerWeek; offset++ {
		day := candidate.AddDate(0, 0, offset)
		if !a.HasRepeatDay(day.Weekday()) {
			continue
		}

		if nearest < 0 {
			nearest = offset
		}

		if day.After(now) && (best.IsZero() || day.Before(best)) {
			best = day
		}
	}

	if !best.IsZero() {
		return best, true
	}

	return candidate.AddDate(0, 0, daysPerWeek+nearest), true
}
