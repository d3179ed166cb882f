// Package notify sends best-effort desktop notifications. Failures are
// logged and never propagated; on headless systems the notifier is a no-op.
package notify

import (
	"log/slog"

	"github.com/gen2brain/beeep"
)

const appTitle = "Retake"

// Notifier sends desktop notifications when enabled.
type Notifier struct {
	enabled bool
}

// New returns a Notifier. When enabled is false every call is a no-op.
func New(enabled bool) *Notifier {
	return &Notifier{enabled: enabled}
}

// Send shows a desktop notification with the given message.
func (n *Notifier) Send(message string) {
	if n == nil || !n.enabled {
		return
	}
	if err := beeep.Notify(appTitle, message, ""); err != nil {
		slog.Warn("desktop notification failed", "error", err)
	}
}
