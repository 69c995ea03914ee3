package models

import "time"

// User is an account record. Barbers list slots; customers book them.
// ShopImageURL is an opaque URL produced by an external media service.
type User struct {
	ID                   string    `bson:"id" json:"id"`
	Username             string    `bson:"username" json:"username"`
	PhoneNumber          string    `bson:"phoneNumber" json:"phoneNumber"`
	Email                string    `bson:"email,omitempty" json:"email,omitempty"`
	FirstName            string    `bson:"firstName" json:"firstName"`
	LastName             string    `bson:"lastName" json:"lastName"`
	PasswordHash         string    `bson:"passwordHash" json:"-"`
	Role                 string    `bson:"role" json:"role"`
	ShopName             string    `bson:"shopName,omitempty" json:"shopName,omitempty"`
	ShopAddress          string    `bson:"shopAddress,omitempty" json:"shopAddress,omitempty"`
	ShopImageURL         string    `bson:"shopImageUrl,omitempty" json:"shopImageUrl,omitempty"`
	NotificationsEnabled bool      `bson:"notificationsEnabled" json:"notificationsEnabled"`
	CreatedAt            time.Time `bson:"createdAt" json:"createdAt"`
}

// DisplayName is the user's full name as shown in notifications.
func (u User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// RegisterRequest creates an account.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName"`
	Password    string `json:"password" binding:"required"`
	Role        string `json:"role" binding:"required"`
	ShopName    string `json:"shopName"`
	ShopAddress string `json:"shopAddress"`
}

// LoginRequest authenticates by phone number.
type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	Password    string `json:"password" binding:"required"`
}

// ChangePasswordRequest rotates the password; all other sessions are revoked.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// AuthResponse is returned on login/signup. Token is the wrapping bearer
// credential, not the raw session token.
type AuthResponse struct {
	Token  string `json:"accessToken"`
	UserID string `json:"userId"`
	Role   string `json:"role"`
}
