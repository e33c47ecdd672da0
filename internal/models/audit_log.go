package models

import "gorm.io/datatypes"

// AuditLog is one entry of the per-user activity trail: account changes,
// pantry membership changes and product edits.
type AuditLog struct {
	Base
	UserID       string            `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string            `gorm:"not null" json:"action"`
	ResourceType string            `gorm:"not null" json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	IPAddress    string            `json:"ip_address"`
	Changes      datatypes.JSONMap `json:"changes,omitempty"`
}
