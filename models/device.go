package models

import "time"

// Platform is the closed set of push-capable device platforms, consumed
// identically by the device registry and the notification dispatcher.
type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
	PlatformWeb     Platform = "web"
)

// Valid reports membership in the platform enum.
func (p Platform) Valid() bool {
	switch p {
	case PlatformAndroid, PlatformIOS, PlatformWeb:
		return true
	}
	return false
}

// Device is one push-capable endpoint registered by a user. Uniqueness is
// logical on (userId, pushToken): re-registering the same token updates the
// existing row instead of duplicating it.
type Device struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	Platform    Platform  `bson:"platform" json:"platform"`
	PushToken   string    `bson:"pushToken" json:"-"`
	DeviceID    string    `bson:"deviceId,omitempty" json:"deviceId,omitempty"`
	DeviceName  string    `bson:"deviceName,omitempty" json:"deviceName,omitempty"`
	BrowserInfo string    `bson:"browserInfo,omitempty" json:"browserInfo,omitempty"`
	IsActive    bool      `bson:"isActive" json:"isActive"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
	LastSeen    time.Time `bson:"lastSeen" json:"lastSeen"`
}

// RegisterDeviceRequest registers or refreshes a push device.
type RegisterDeviceRequest struct {
	Platform    Platform `json:"platform" binding:"required"`
	PushToken   string   `json:"pushToken" binding:"required"`
	DeviceID    string   `json:"deviceId"`
	DeviceName  string   `json:"deviceName"`
	BrowserInfo string   `json:"browserInfo"`
}

// UpdateDeviceTokenRequest refreshes the push token of one device.
type UpdateDeviceTokenRequest struct {
	DeviceID  string `json:"deviceId" binding:"required"`
	PushToken string `json:"pushToken" binding:"required"`
}
