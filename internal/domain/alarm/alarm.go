package alarm

import (
	"errors"
	"fmt"
	"time"
)

// RepeatType is the recurrence category of an alarm.
type RepeatType string

const (
	// RepeatNone is a one-time alarm: it fires once and is then disabled.
	RepeatNone RepeatType = "none"
	// RepeatDaily fires every day at the configured time.
	RepeatDaily RepeatType = "daily"
	// RepeatWeekly fires once a week on the anchor weekday.
	RepeatWeekly RepeatType = "weekly"
	// RepeatCustom fires on the weekdays listed in RepeatDays.
	RepeatCustom RepeatType = "custom"
)

// Alarm is a single alarm definition as stored by the persistence API.
// The scheduler never owns the authoritative record; it caches snapshots
// and derives scheduling state from them.
type Alarm struct {
	// ID is the opaque unique identifier assigned by the persistence API.
	ID string `json:"id"`
	// Title is the display string shown in notifications and the dashboard.
	Title string `json:"title"`
	// TimeOfDay is the zero-padded wall-clock firing time, "HH:MM" (24h).
	TimeOfDay string `json:"time_of_day"`
	// RepeatType selects the recurrence rule.
	RepeatType RepeatType `json:"repeat_type"`
	// RepeatDays lists the firing weekdays; populated only for RepeatCustom.
	RepeatDays []time.Weekday `json:"repeat_days,omitempty"`
	// Enabled gates scheduling entirely; disabled alarms are never armed.
	Enabled bool `json:"enabled"`
	// SoundEnabled gates the audible alert on fire.
	SoundEnabled bool `json:"sound_enabled"`
	// NotificationEnabled gates the host notification on fire.
	NotificationEnabled bool `json:"notification_enabled"`
	// VisualAlertEnabled gates the transient dashboard "triggered" flag.
	VisualAlertEnabled bool `json:"visual_alert_enabled"`
	// LastTriggered is maintained by the persistence API; the scheduler
	// only requests updates to it and never reads it for scheduling.
	LastTriggered *time.Time `json:"last_triggered,omitempty"`
}

var (
	// ErrTitleRequired is returned when an alarm has no title.
	ErrTitleRequired = errors.New("alarm title must be provided")
	// ErrRepeatDaysRequired is returned for a custom alarm with no weekdays.
	ErrRepeatDaysRequired = errors.New("custom repeat requires at least one weekday")
	// ErrUnknownRepeatType is returned for an unrecognized repeat type.
	ErrUnknownRepeatType = errors.New("unknown repeat type")
	// ErrBadTimeOfDay is returned when the firing time is not zero-padded "HH:MM".
	ErrBadTimeOfDay = errors.New(`time of day must be zero-padded "HH:MM"`)
	// errBadWeekday is wrapped with the offending value for out-of-range weekdays.
	errBadWeekday = errors.New("weekday out of range")
)

// ParseTimeOfDay parses the alarm's firing time.
// Only the strict zero-padded "HH:MM" form is accepted.
func (a *Alarm) ParseTimeOfDay() (hour, minute int, err error) {
	return ParseTimeOfDay(a.TimeOfDay)
}

// ParseTimeOfDay parses a zero-padded "HH:MM" string into hour and minute.
func ParseTimeOfDay(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, ErrBadTimeOfDay
	}

	for _, i := range []int{0, 1, 3, 4} {
		if s[i] < '0' || s[i] > '9' {
			return 0, 0, ErrBadTimeOfDay
		}
	}

	hour = int(s[0]-'0')*10 + int(s[1]-'0')
	minute = int(s[3]-'0')*10 + int(s[4]-'0')

	if hour > 23 || minute > 59 {
		return 0, 0, ErrBadTimeOfDay
	}

	return hour, minute, nil
}

// Validate checks the alarm definition at the form boundary.
// The scheduler assumes validated input; definitions that slip through
// invalid resolve to "no next occurrence" instead of erroring.
func (a *Alarm) Validate() error {
	if a.Title == "" {
		return ErrTitleRequired
	}

	if _, _, err := a.ParseTimeOfDay(); err != nil {
		return err
	}

	switch a.RepeatType {
	case RepeatNone, RepeatDaily, RepeatWeekly:
	case RepeatCustom:
		if len(a.RepeatDays) == 0 {
			return ErrRepeatDaysRequired
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownRepeatType, a.RepeatType)
	}

	for _, day := range a.RepeatDays {
		if day < time.Sunday || day > time.Saturday {
			return fmt.Errorf("%w: %d", errBadWeekday, day)
		}
	}

	return nil
}

// HasRepeatDay reports whether the weekday is in the alarm's custom set.
func (a *Alarm) HasRepeatDay(day time.Weekday) bool {
	for _, d := range a.RepeatDays {
		if d == day {
			return true
		}
	}

	return false
}

// Clone returns a deep copy of the alarm to avoid leaking internal references.
func (a *Alarm) Clone() *Alarm {
	if a == nil {
		return nil
	}

	cloned := *a

	if a.RepeatDays != nil {
		cloned.RepeatDays = append([]time.Weekday(nil), a.RepeatDays...)
	}

	if a.LastTriggered != nil {
		ts := *a.LastTriggered
		cloned.LastTriggered = &ts
	}

	return &cloned
}
