package alarms

import (
	"context"
	"errors"
	"time"

	domain "github.com/example/homeboard/internal/domain/alarm"
)

// Repository defines the operations the remote alarm persistence API offers.
// The scheduler treats every call as plain request/response; retries and
// conflict resolution are the collaborator's concern.
type Repository interface {
	// List returns all alarm definitions.
	List(ctx context.Context) ([]*domain.Alarm, error)
	// Create stores a new alarm and returns the stored record.
	Create(ctx context.Context, a *domain.Alarm) (*domain.Alarm, error)
	// Update replaces the alarm with the given id and returns the stored record.
	Update(ctx context.Context, a *domain.Alarm) (*domain.Alarm, error)
	// Delete removes the alarm with the given id.
	Delete(ctx context.Context, id string) error
	// MarkTriggered records the instant the alarm last fired.
	MarkTriggered(ctx context.Context, id string, at time.Time) error
	// SetEnabled flips the alarm's enabled flag to the given value.
	SetEnabled(ctx context.Context, id string, enabled bool) error
}

// ErrNotFound is returned when the persistence API has no alarm with the
// requested id.
var ErrNotFound = errors.New("alarm not found")
