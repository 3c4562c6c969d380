package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents the application user account.
//
// RefreshToken holds the sha256 hex digest of the single active refresh token.
// The field is unset (not nulled) on logout.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	RefreshToken string             `bson:"refreshToken,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"`
	CartData     map[string]int     `bson:"cartData,omitempty" json:"-"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the account may use the admin API.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
