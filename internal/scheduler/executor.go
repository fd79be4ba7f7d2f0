package scheduler

import (
	"context"
	"time"

	domain "github.com/example/homeboard/internal/domain/alarm"
	"github.com/example/homeboard/internal/logger"
	"github.com/example/homeboard/internal/notify"
	"github.com/example/homeboard/internal/repository/alarms"
)

// Executor runs the side effects of a fired alarm exactly once, then either
// re-arms the alarm or retires it. Every failure inside the fire path is
// logged and swallowed; nothing may crash the scheduling loop.
type Executor struct {
	// repo is the persistence API for mark-triggered and disable-on-fire.
	repo alarms.Repository
	// host emits notifications and sounds.
	host notify.Host
	// flags holds the transient visual-alert set.
	flags *AlertFlags
	// rearm re-runs the single-alarm scheduling path for the id.
	rearm func(id string, now time.Time)
	// requestRefresh asks the service for an out-of-band snapshot refresh.
	requestRefresh func()
	// now supplies the current instant; replaceable in tests.
	now func() time.Time
}

// NewExecutor creates an executor wired to its collaborators.
func NewExecutor(
	repo alarms.Repository,
	host notify.Host,
	flags *AlertFlags,
	rearm func(id string, now time.Time),
	requestRefresh func(),
) *Executor {
	return &Executor{
		repo:           repo,
		host:           host,
		flags:          flags,
		rearm:          rearm,
		requestRefresh: requestRefresh,
		now:            time.Now,
	}
}

// Fire executes the side effects for the alarm snapshot captured at arm
// time, in fixed order, each gated by its own flag:
//
//  1. persist last_triggered (initiated first, never awaited),
//  2. host notification, permission allowing,
//  3. audible alert,
//  4. transient visual-alert flag.
//
// Afterwards the alarm is re-armed for its next occurrence, or, for a
// one-time alarm, disabled remotely and left unscheduled.
func (e *Executor) Fire(ctx context.Context, snapshot *domain.Alarm, firedAt time.Time) {
	ctx = logger.WithKV(ctx, "alarm_id", snapshot.ID)

	logger.InfoKV(ctx, "Alarm fired", "title", snapshot.Title, "fired_at", firedAt.Format(time.RFC3339))

	// Best-effort persistence, started before the remaining steps and not
	// awaited by them.
	go func() {
		if err := e.repo.MarkTriggered(ctx, snapshot.ID, firedAt); err != nil {
			logger.ErrorKV(ctx, "Failed to mark alarm triggered", "error", err)
		}
	}()

	if snapshot.NotificationEnabled {
		if e.host.PermissionGranted(ctx) {
			if err := e.host.Notify(ctx, snapshot.Title); err != nil {
				logger.ErrorKV(ctx, "Failed to emit notification", "error", err)
			}
		} else {
			logger.Debug(ctx, "Notification permission not granted, skipping")
		}
	}

	if snapshot.SoundEnabled {
		if err := e.host.PlaySound(ctx); err != nil {
			logger.ErrorKV(ctx, "Failed to play alarm sound", "error", err)
		}
	}

	if snapshot.VisualAlertEnabled {
		e.flags.Set(snapshot.ID)
	}

	if snapshot.RepeatType == domain.RepeatNone {
		e.retire(ctx, snapshot.ID)

		return
	}

	e.rearm(snapshot.ID, e.now())
}

// retire disables a fired one-time alarm at the persistence API and asks
// for a refresh, which will observe the alarm as disabled and leave it
// unscheduled. A failed disable leaves the alarm enabled until the next
// successful refresh corrects it.
func (e *Executor) retire(ctx context.Context, id string) {
	if err := e.repo.SetEnabled(ctx, id, false); err != nil {
		logger.ErrorKV(ctx, "Failed to disable one-time alarm", "error", err)
	}

	e.requestRefresh()
}
