// Package notify provides Notifier implementations. The interface replaces an
// ambient toast callback; the log notifier is the headless default.
package notify

import "github.com/rs/zerolog"

// LogNotifier emits user-facing notifications to the structured log.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(message string) {
	n.log.Info().Str("notification", message).Msg("user notification")
}
