package helpers

import (
	"context"
	"sync"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// Notification is one recorded notifier call
type Notification struct {
	Kind     string // "delivered" or "office_fallback"
	ParcelID string
	OfficeID uint
	Driver   string
}

// MockNotifier records notifications instead of sending mail
type MockNotifier struct {
	mu sync.Mutex

	// Err fails every call when set (callers must treat it as non-fatal)
	Err error

	Notifications []Notification
}

func (m *MockNotifier) NotifyDelivered(ctx context.Context, parcel *delivery.Parcel, driverUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Notifications = append(m.Notifications, Notification{
		Kind:     "delivered",
		ParcelID: parcel.ID,
		Driver:   driverUsername,
	})
	return nil
}

func (m *MockNotifier) NotifyOfficeFallback(ctx context.Context, parcel *delivery.Parcel, office *delivery.Office, driverUsername string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Notifications = append(m.Notifications, Notification{
		Kind:     "office_fallback",
		ParcelID: parcel.ID,
		OfficeID: office.ID,
		Driver:   driverUsername,
	})
	return nil
}

// Count returns how many notifications were recorded
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notifications)
}
