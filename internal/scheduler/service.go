package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	domain "github.com/example/homeboard/internal/domain/alarm"
	"github.com/example/homeboard/internal/logger"
	"github.com/example/homeboard/internal/notify"
	"github.com/example/homeboard/internal/repository/alarms"
)

// DefaultRefreshInterval is the default period between snapshot re-syncs.
const DefaultRefreshInterval = time.Minute

// Service glues the snapshot store, the timer coordinator and the trigger
// executor together and drives them from a single refresh loop.
type Service struct {
	// repo is the remote alarm persistence API.
	repo alarms.Repository
	// store caches the last-known alarm snapshot.
	store *Store
	// coordinator owns the per-alarm timer table.
	coordinator *Coordinator
	// executor runs fire-time side effects.
	executor *Executor
	// flags is the transient visual-alert set exposed to the UI.
	flags *AlertFlags

	// refreshInterval is the periodic re-sync cadence.
	refreshInterval time.Duration
	// refreshRequests coalesces on-demand refresh asks into one pending signal.
	refreshRequests chan struct{}

	// now supplies the current instant; replaceable in tests.
	now func() time.Time

	// runMu guards runCtx.
	runMu sync.Mutex
	// runCtx is the loop context trigger callbacks run under.
	runCtx context.Context
}

// Option configures service behaviour.
type Option func(*Service)

// WithRefreshInterval sets the periodic snapshot re-sync cadence.
func WithRefreshInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.refreshInterval = interval
		}
	}
}

// WithVisualAlertWindow sets the lifetime of the transient triggered flag.
func WithVisualAlertWindow(window time.Duration) Option {
	return func(s *Service) {
		if window > 0 {
			s.flags = NewAlertFlags(window)
		}
	}
}

// WithClock replaces the service's time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a scheduler service on top of the persistence API and the
// host capability.
func New(repo alarms.Repository, host notify.Host, opts ...Option) *Service {
	s := &Service{
		repo:            repo,
		store:           NewStore(),
		flags:           NewAlertFlags(VisualAlertWindow),
		refreshInterval: DefaultRefreshInterval,
		refreshRequests: make(chan struct{}, 1),
		now:             time.Now,
		runCtx:          context.Background(),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.executor = NewExecutor(repo, host, s.flags, s.rearm, s.RequestRefresh)
	s.executor.now = s.now

	s.coordinator = NewCoordinator(func(snapshot *domain.Alarm, firedAt time.Time) {
		s.executor.Fire(s.fireContext(), snapshot, firedAt)
	})
	s.coordinator.now = s.now

	return s
}

// Run performs an initial sync and then keeps the timer table reconciled
// until the context is cancelled: periodically on the refresh interval and
// immediately on coalesced refresh requests. On exit every outstanding
// task and visual flag is cancelled.
func (s *Service) Run(ctx context.Context) error {
	ctx = logger.WithName(ctx, "scheduler")
	s.setRunContext(ctx)

	// A failed initial sync is not fatal; the next tick retries.
	if err := s.Refresh(ctx); err != nil {
		logger.ErrorKV(ctx, "Initial alarm sync failed", "error", err)
	}

	logger.InfoKV(ctx, "Scheduler running", "refresh_interval", s.refreshInterval.String())

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "Scheduler stopping")
			s.coordinator.Shutdown()
			s.flags.Shutdown()

			return nil
		case <-ticker.C:
			if err := s.Refresh(ctx); err != nil {
				logger.ErrorKV(ctx, "Periodic alarm sync failed", "error", err)
			}
		case <-s.refreshRequests:
			if err := s.Refresh(ctx); err != nil {
				logger.ErrorKV(ctx, "Requested alarm sync failed", "error", err)
			}
		}
	}
}

// Refresh fetches the authoritative alarm list, replaces the snapshot and
// reconciles every timer against it.
func (s *Service) Refresh(ctx context.Context) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list alarms: %w", err)
	}

	s.store.Replace(list)
	s.coordinator.SyncAll(s.store.All(), s.now())

	logger.DebugKV(ctx, "Alarm snapshot synced", "count", len(list))

	return nil
}

// RequestRefresh asks the run loop for an out-of-band refresh. Multiple
// pending requests collapse into one.
func (s *Service) RequestRefresh() {
	select {
	case s.refreshRequests <- struct{}{}:
	default:
	}
}

// CreateAlarm forwards a create intent to the persistence API and re-syncs
// on success. Alarms arriving without an id get one assigned here.
func (s *Service) CreateAlarm(ctx context.Context, a *domain.Alarm) (*domain.Alarm, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("create alarm: %w", err)
	}

	s.refreshAfterWrite(ctx)

	return created, nil
}

// UpdateAlarm forwards an edit intent to the persistence API and re-syncs
// on success. An edit always reschedules the alarm via the full sync.
func (s *Service) UpdateAlarm(ctx context.Context, a *domain.Alarm) (*domain.Alarm, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("update alarm: %w", err)
	}

	s.refreshAfterWrite(ctx)

	return updated, nil
}

// DeleteAlarm forwards a delete intent and re-syncs, which cancels the
// deleted alarm's task.
func (s *Service) DeleteAlarm(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete alarm: %w", err)
	}

	s.refreshAfterWrite(ctx)

	return nil
}

// SetAlarmEnabled forwards a toggle intent and re-syncs.
func (s *Service) SetAlarmEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.repo.SetEnabled(ctx, id, enabled); err != nil {
		return fmt.Errorf("set alarm enabled: %w", err)
	}

	s.refreshAfterWrite(ctx)

	return nil
}

// Status is one row of the dashboard read model.
type Status struct {
	// Alarm is the cached definition.
	Alarm *domain.Alarm `json:"alarm"`
	// NextFire is the armed fire instant, absent while unscheduled.
	NextFire *time.Time `json:"next_fire,omitempty"`
	// Triggered reports an open visual-alert window.
	Triggered bool `json:"triggered"`
}

// Overview returns the read model for every alarm in the snapshot.
func (s *Service) Overview() []Status {
	all := s.store.All()
	result := make([]Status, 0, len(all))

	for _, a := range all {
		status := Status{
			Alarm:     a,
			Triggered: s.flags.IsActive(a.ID),
		}

		if fireAt, ok := s.coordinator.FireAt(a.ID); ok {
			status.NextFire = &fireAt
		}

		result = append(result, status)
	}

	return result
}

// TriggeredIDs returns the alarms currently in their visual-alert window.
func (s *Service) TriggeredIDs() []string {
	return s.flags.Active()
}

// rearm re-runs the single-alarm scheduling path against the current
// snapshot. A deleted or disabled alarm simply stays unscheduled.
func (s *Service) rearm(id string, now time.Time) {
	a, ok := s.store.Get(id)
	if !ok {
		return
	}

	if fireAt, armed := s.coordinator.Arm(a, now); armed {
		logger.DebugKV(s.fireContext(), "Alarm re-armed", "alarm_id", id, "fire_at", fireAt.Format(time.RFC3339))
	}
}

// refreshAfterWrite re-syncs after a successful CRUD intent so the caller
// reads its own write; a failed sync only delays until the next tick.
func (s *Service) refreshAfterWrite(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		logger.WarnKV(ctx, "Post-write alarm sync failed", "error", err)
		s.RequestRefresh()
	}
}

// setRunContext records the loop context used by trigger callbacks.
func (s *Service) setRunContext(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	s.runCtx = ctx
}

// fireContext returns the context trigger callbacks run under.
func (s *Service) fireContext() context.Context {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	return s.runCtx
}
