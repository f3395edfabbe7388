package builder

import "fmt"

// MissingSingletonError reports a log without a required singleton event.
// Downstream statistics assume both the point-of-view and log-start events
// exist, so their absence is fatal for the whole log.
type MissingSingletonError struct {
	// Missing names the absent event: "point-of-view" or "log-start".
	Missing string
}

func (e *MissingSingletonError) Error() string {
	return fmt.Sprintf("log has no %s event", e.Missing)
}
