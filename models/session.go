package models

import "time"

// Session is a server-tracked authenticated context. The opaque Token is
// wrapped into the bearer credential handed to the client; revoking the
// session kills the credential regardless of what the client still holds.
type Session struct {
	ID           string    `bson:"id" json:"id"`
	UserID       string    `bson:"userId" json:"userId"`
	Token        string    `bson:"sessionToken" json:"-"`
	DeviceInfo   string    `bson:"deviceInfo,omitempty" json:"deviceInfo,omitempty"`
	IPAddress    string    `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	LastAccessed time.Time `bson:"lastAccessed" json:"lastAccessed"`
	IsActive     bool      `bson:"isActive" json:"isActive"`
}
