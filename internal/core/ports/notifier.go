package ports

// Notifier is the user-visible notification bus. It replaces an ambient
// global toast callback: every component that raises notifications receives
// this capability explicitly.
type Notifier interface {
	Notify(message string)
}

// NopNotifier discards all notifications. Useful in tests and headless runs.
type NopNotifier struct{}

func (NopNotifier) Notify(string) {}
