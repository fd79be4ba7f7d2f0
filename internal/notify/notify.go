package notify

import (
	"context"

	"github.com/example/homeboard/internal/logger"
)

// Host is the platform capability the trigger executor needs when an alarm
// fires: a permission-gated notification channel and an audible alert.
type Host interface {
	// PermissionGranted reports whether notifications may be emitted.
	// A denied permission skips the notification step only.
	PermissionGranted(ctx context.Context) bool
	// Notify emits a notification carrying the alarm title.
	Notify(ctx context.Context, title string) error
	// PlaySound emits the audible alert.
	PlaySound(ctx context.Context) error
}

// Console is the default Host: it reports alarm firings through the
// structured log. The dashboard frontend owns the real desktop
// notification and audio integration; the server only needs a capability
// it can call unconditionally.
type Console struct{}

// NewConsole creates the logging Host implementation.
func NewConsole() *Console {
	return &Console{}
}

// PermissionGranted always grants permission for the logging channel.
func (*Console) PermissionGranted(context.Context) bool {
	return true
}

// Notify logs the alarm notification.
func (*Console) Notify(ctx context.Context, title string) error {
	logger.InfoKV(ctx, "Alarm notification", "title", title)

	return nil
}

// PlaySound logs the audible alert.
func (*Console) PlaySound(ctx context.Context) error {
	logger.Info(ctx, "Alarm sound")

	return nil
}
