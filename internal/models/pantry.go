package models

import "time"

// PantryRole is the role a user holds within a pantry.
type PantryRole string

const (
	PantryRoleOwner  PantryRole = "owner"
	PantryRoleMember PantryRole = "member"
)

// Pantry is a named, shared collection of products.
type Pantry struct {
	Base
	Name    string         `gorm:"not null" json:"name"`
	OwnerID string         `gorm:"type:uuid;not null;index" json:"owner_id"`
	Members []PantryMember `gorm:"foreignKey:PantryID" json:"members,omitempty"`
}

// PantryMember associates a user with a pantry.
type PantryMember struct {
	PantryID  string     `gorm:"type:uuid;primaryKey" json:"pantry_id"`
	UserID    string     `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      PantryRole `gorm:"not null" json:"role"`
	CreatedAt time.Time  `json:"created_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// PantryInvitation is a short-lived token that lets a user join a pantry.
type PantryInvitation struct {
	Base
	PantryID  string    `gorm:"type:uuid;not null;index" json:"pantry_id"`
	Token     string    `gorm:"uniqueIndex;not null" json:"token"`
	ExpiresAt time.Time `gorm:"not null" json:"expires_at"`
}

// IsExpired reports whether the invitation can no longer be accepted.
func (i *PantryInvitation) IsExpired(now time.Time) bool {
	return !now.Before(i.ExpiresAt)
}
