package models

import "time"

// Notification types produced by the booking flow.
const (
	NotificationBookingReceived  = "booking_received"
	NotificationBookingConfirmed = "booking_confirmed"
	NotificationBookingCancelled = "booking_cancelled"
	NotificationTest             = "test_notification"
)

// Notification is one logical message to a user, fanned out to all of their
// active devices. The push counters are set once after fan-out completes and
// always sum to the number of devices attempted.
type Notification struct {
	ID               string            `bson:"id" json:"id"`
	UserID           string            `bson:"userId" json:"userId"`
	Title            string            `bson:"title" json:"title"`
	Message          string            `bson:"message" json:"message"`
	Type             string            `bson:"type" json:"type"`
	IsRead           bool              `bson:"isRead" json:"isRead"`
	RelatedBookingID string            `bson:"relatedBookingId,omitempty" json:"relatedBookingId,omitempty"`
	Data             map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	PushSuccessCount int               `bson:"pushSuccessCount" json:"pushSuccessCount"`
	PushFailureCount int               `bson:"pushFailureCount" json:"pushFailureCount"`
	CreatedAt        time.Time         `bson:"createdAt" json:"createdAt"`
}

// NotificationStats summarizes a user's notification state.
type NotificationStats struct {
	Total         int64 `json:"totalNotifications"`
	Unread        int64 `json:"unreadCount"`
	Recent        int64 `json:"recentCount"`
	ActiveDevices int64 `json:"activeDevices"`
}

// TestNotificationRequest sends a test push, optionally to one platform only.
type TestNotificationRequest struct {
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	Platform Platform `json:"platform"`
}
