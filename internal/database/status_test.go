package database

import "testing"

func TestAlertStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from AlertStatus
		to   AlertStatus
		want bool
	}{
		{name: "open to acknowledged", from: AlertOpen, to: AlertAcknowledged, want: true},
		{name: "open to resolved", from: AlertOpen, to: AlertResolved, want: true},
		{name: "acknowledged to resolved", from: AlertAcknowledged, to: AlertResolved, want: true},
		{name: "acknowledged to open", from: AlertAcknowledged, to: AlertOpen, want: false},
		{name: "resolved is terminal", from: AlertResolved, to: AlertOpen, want: false},
		{name: "resolved to acknowledged", from: AlertResolved, to: AlertAcknowledged, want: false},
		{name: "unknown status", from: AlertStatus("bogus"), to: AlertOpen, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAlertStatus_Valid(t *testing.T) {
	for _, s := range []AlertStatus{AlertOpen, AlertAcknowledged, AlertResolved} {
		if !s.Valid() {
			t.Errorf("Valid(%s) = false, want true", s)
		}
	}
	if AlertStatus("closed").Valid() {
		t.Error("Valid(closed) = true, want false")
	}
}

func TestNotificationStatus_IsTerminal(t *testing.T) {
	if NotificationPending.IsTerminal() {
		t.Error("IsTerminal(pending) = true, want false")
	}
	if !NotificationSent.IsTerminal() {
		t.Error("IsTerminal(sent) = false, want true")
	}
	if !NotificationFailed.IsTerminal() {
		t.Error("IsTerminal(failed) = false, want true")
	}
}

func TestDeviceStatus_Valid(t *testing.T) {
	for _, s := range []DeviceStatus{DeviceActive, DeviceInactive, DeviceMaintenance} {
		if !s.Valid() {
			t.Errorf("Valid(%s) = false, want true", s)
		}
	}
	if DeviceStatus("retired").Valid() {
		t.Error("Valid(retired) = true, want false")
	}
}
