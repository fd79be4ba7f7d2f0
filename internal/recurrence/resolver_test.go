package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/homeboard/internal/domain/alarm"
)

// The week of 2026-01-05 starts on a Monday, which keeps the weekday
// arithmetic in these cases easy to follow.
var (
	monday    = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	tuesday   = monday.AddDate(0, 0, 1)
	wednesday = monday.AddDate(0, 0, 2)
	thursday  = monday.AddDate(0, 0, 3)
	friday    = monday.AddDate(0, 0, 4)
)

// at returns the given day at hour:minute.
func at(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}

// TestNextOccurrenceOneTime verifies one-time alarms fire only while their
// instant is still in the future.
func TestNextOccurrenceOneTime(t *testing.T) {
	t.Parallel()

	a := &alarm.Alarm{Title: "Dentist", TimeOfDay: "07:00", RepeatType: alarm.RepeatNone}

	next, ok := NextOccurrence(a, at(monday, 6, 0))
	require.True(t, ok)
	require.Equal(t, at(monday, 7, 0), next)

	// Same day at 08:00: the moment has passed, the alarm never fires again.
	_, ok = NextOccurrence(a, at(monday, 8, 0))
	require.False(t, ok)

	// Equality counts as already passed.
	_, ok = NextOccurrence(a, at(monday, 7, 0))
	require.False(t, ok)
}

// TestNextOccurrenceDaily verifies the today-or-tomorrow rule for daily alarms.
func TestNextOccurrenceDaily(t *testing.T) {
	t.Parallel()

	a := &alarm.Alarm{Title: "Meds", TimeOfDay: "08:00", RepeatType: alarm.RepeatDaily}

	next, ok := NextOccurrence(a, at(monday, 7, 0))
	require.True(t, ok)
	require.Equal(t, at(monday, 8, 0), next)

	next, ok = NextOccurrence(a, at(monday, 9, 0))
	require.True(t, ok)
	require.Equal(t, at(tuesday, 8, 0), next)

	// Exactly on the instant rolls to tomorrow.
	next, ok = NextOccurrence(a, at(monday, 8, 0))
	require.True(t, ok)
	require.Equal(t, at(tuesday, 8, 0), next)
}

// TestNextOccurrenceDailyAcrossDST verifies the daily step keeps the
// wall-clock time across a daylight-saving transition.
func TestNextOccurrenceDailyAcrossDST(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	a := &alarm.Alarm{Title: "Meds", TimeOfDay: "08:00", RepeatType: alarm.RepeatDaily}

	// 2026-03-08 is the spring-forward date in America/New_York.
	now := time.Date(2026, time.March, 7, 9, 0, 0, 0, loc)

	next, ok := NextOccurrence(a, now)
	require.True(t, ok)
	require.Equal(t, 8, next.Day())
	require.Equal(t, 8, next.Hour())
	require.Equal(t, 0, next.Minute())
}

// TestNextOccurrenceWeekly verifies weekly alarms recur on the fixed anchor weekday.
func TestNextOccurrenceWeekly(t *testing.T) {
	t.Parallel()

	a := &alarm.Alarm{Title: "Trash", TimeOfDay: "20:00", RepeatType: alarm.RepeatWeekly}

	// Midweek: the coming anchor day.
	next, ok := NextOccurrence(a, at(wednesday, 12, 0))
	require.True(t, ok)
	require.Equal(t, at(monday.AddDate(0, 0, 7), 20, 0), next)
	require.Equal(t, WeeklyAnchor, next.Weekday())

	// Anchor day before the alarm time: today.
	next, ok = NextOccurrence(a, at(monday, 12, 0))
	require.True(t, ok)
	require.Equal(t, at(monday, 20, 0), next)

	// Anchor day after the alarm time: a week out.
	next, ok = NextOccurrence(a, at(monday, 21, 0))
	require.True(t, ok)
	require.Equal(t, at(monday.AddDate(0, 0, 7), 20, 0), next)
}

// TestNextOccurrenceCustom verifies the forward weekday scan for custom alarms.
func TestNextOccurrenceCustom(t *testing.T) {
	t.Parallel()

	a := &alarm.Alarm{
		Title:      "Workout",
		TimeOfDay:  "18:00",
		RepeatType: alarm.RepeatCustom,
		RepeatDays: []time.Weekday{time.Monday, time.Friday},
	}

	// Wednesday noon: Friday of the same week wins.
	next, ok := NextOccurrence(a, at(wednesday, 12, 0))
	require.True(t, ok)
	require.Equal(t, at(friday, 18, 0), next)

	// Monday morning: today still qualifies.
	next, ok = NextOccurrence(a, at(monday, 9, 0))
	require.True(t, ok)
	require.Equal(t, at(monday, 18, 0), next)

	// Monday evening after the alarm time: Friday is the next match.
	next, ok = NextOccurrence(a, at(monday, 19, 0))
	require.True(t, ok)
	require.Equal(t, at(friday, 18, 0), next)
}

// TestNextOccurrenceCustomNextWeek verifies the six-day wrap to the
// following week.
func TestNextOccurrenceCustomNextWeek(t *testing.T) {
	t.Parallel()

	a := &alarm.Alarm{
		Title:      "Water plants",
		TimeOfDay:  "09:00",
		RepeatType: alarm.RepeatCustom,
		RepeatDays: []time.Weekday{time.Wednesday},
	}

	// Thursday 10:00: following Wednesday, six days later.
	next, ok := NextOccurrence(a, at(thursday, 10, 0))
	require.True(t, ok)
	require.Equal(t, at(wednesday.AddDate(0, 0, 7), 9, 0), next)
}

// TestNextOccurrenceCustomFallback verifies the full-week fallback when the
// only matching weekday is today and its time has passed.
func TestNextOccurrenceCustomFallback(t *testing.T) {
	t.Parallel()

	a := &alarm.Alarm{
		Title:      "Laundry",
		TimeOfDay:  "09:00",
		RepeatType: alarm.RepeatCustom,
		RepeatDays: []time.Weekday{time.Thursday},
	}

	next, ok := NextOccurrence(a, at(thursday, 10, 0))
	require.True(t, ok)
	require.Equal(t, at(thursday.AddDate(0, 0, 7), 9, 0), next)

	// Equality at the instant itself also wraps a full week.
	next, ok = NextOccurrence(a, at(thursday, 9, 0))
	require.True(t, ok)
	require.Equal(t, at(thursday.AddDate(0, 0, 7), 9, 0), next)
}

// TestNextOccurrenceInvalidDefinitions verifies invalid input resolves to
// "no occurrence" instead of erroring.
func TestNextOccurrenceInvalidDefinitions(t *testing.T) {
	t.Parallel()

	cases := map[string]*alarm.Alarm{
		"empty custom set":  {Title: "x", TimeOfDay: "09:00", RepeatType: alarm.RepeatCustom},
		"bad time of day":   {Title: "x", TimeOfDay: "9:00", RepeatType: alarm.RepeatDaily},
		"unknown repeat":    {Title: "x", TimeOfDay: "09:00", RepeatType: alarm.RepeatType("hourly")},
		"empty time of day": {Title: "x", RepeatType: alarm.RepeatDaily},
	}

	for name, a := range cases {
		_, ok := NextOccurrence(a, at(monday, 12, 0))
		require.False(t, ok, name)
	}
}

// TestNextOccurrenceStrictlyAfterAndPure verifies the two resolver-wide
// properties: results are strictly later than now, and repeated calls with
// the same input agree.
func TestNextOccurrenceStrictlyAfterAndPure(t *testing.T) {
	t.Parallel()

	alarms := []*alarm.Alarm{
		{Title: "a", TimeOfDay: "00:00", RepeatType: alarm.RepeatDaily},
		{Title: "b", TimeOfDay: "12:30", RepeatType: alarm.RepeatNone},
		{Title: "c", TimeOfDay: "23:59", RepeatType: alarm.RepeatWeekly},
		{Title: "d", TimeOfDay: "06:15", RepeatType: alarm.RepeatCustom, RepeatDays: []time.Weekday{time.Sunday, time.Saturday}},
		{Title: "e", TimeOfDay: "06:15", RepeatType: alarm.RepeatCustom, RepeatDays: []time.Weekday{time.Tuesday}},
	}

	for dayOffset := 0; dayOffset < 7; dayOffset++ {
		for _, hour := range []int{0, 6, 12, 23} {
			now := at(monday.AddDate(0, 0, dayOffset), hour, 17)

			for _, a := range alarms {
				first, ok := NextOccurrence(a, now)
				if !ok {
					continue
				}

				require.True(t, first.After(now), "alarm %s at %s", a.Title, now)

				second, ok := NextOccurrence(a, now)
				require.True(t, ok)
				require.Equal(t, first, second)
			}
		}
	}
}
