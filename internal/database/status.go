package database

// AlertStatus is the closed set of alert lifecycle states.
type AlertStatus string

const (
	// AlertOpen is the state of a freshly triggered alert.
	AlertOpen AlertStatus = "open"
	// AlertAcknowledged means a human has seen the alert; the evaluator
	// never touches acknowledged alerts.
	AlertAcknowledged AlertStatus = "acknowledged"
	// AlertResolved is terminal, reached by auto-resolve or human action.
	AlertResolved AlertStatus = "resolved"
)

// String returns the status as a string.
func (s AlertStatus) String() string {
	return string(s)
}

// Valid reports whether the status is a known alert state.
func (s AlertStatus) Valid() bool {
	switch s {
	case AlertOpen, AlertAcknowledged, AlertResolved:
		return true
	}
	return false
}

// CanTransitionTo reports whether the transition s -> next is allowed by the
// alert state machine. Resolved is terminal; acknowledge is only reachable
// from open.
func (s AlertStatus) CanTransitionTo(next AlertStatus) bool {
	switch s {
	case AlertOpen:
		return next == AlertAcknowledged || next == AlertResolved
	case AlertAcknowledged:
		return next == AlertResolved
	case AlertResolved:
		return false
	}
	return false
}

// NotificationStatus is the closed set of notification delivery states.
type NotificationStatus string

const (
	// NotificationPending is written before the delivery attempt so a crash
	// mid-delivery still leaves an auditable record.
	NotificationPending NotificationStatus = "pending"
	// NotificationSent means the channel accepted the message.
	NotificationSent NotificationStatus = "sent"
	// NotificationFailed means the channel rejected the message; retry is a
	// concern for a higher-level scheduler, not this pipeline.
	NotificationFailed NotificationStatus = "failed"
)

// String returns the status as a string.
func (s NotificationStatus) String() string {
	return string(s)
}

// Valid reports whether the status is a known notification state.
func (s NotificationStatus) Valid() bool {
	switch s {
	case NotificationPending, NotificationSent, NotificationFailed:
		return true
	}
	return false
}

// IsTerminal reports whether the delivery attempt has concluded.
func (s NotificationStatus) IsTerminal() bool {
	return s == NotificationSent || s == NotificationFailed
}

// DeviceStatus is the closed set of device lifecycle states.
type DeviceStatus string

const (
	DeviceActive      DeviceStatus = "active"
	DeviceInactive    DeviceStatus = "inactive"
	DeviceMaintenance DeviceStatus = "maintenance"
)

// String returns the status as a string.
func (s DeviceStatus) String() string {
	return string(s)
}

// Valid reports whether the status is a known device state.
func (s DeviceStatus) Valid() bool {
	switch s {
	case DeviceActive, DeviceInactive, DeviceMaintenance:
		return true
	}
	return false
}
