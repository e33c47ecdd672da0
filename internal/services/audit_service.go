package services

import (
	"gorm.io/gorm"

	"foodtracker/internal/logger"
	"foodtracker/internal/models"
)

type auditService struct {
	db *gorm.DB
}

// NewAuditService creates a new AuditServicer backed by the audit_logs table.
func NewAuditService(db *gorm.DB) AuditServicer {
	return &auditService{db: db}
}

// Log appends an entry to the activity trail. Write failures are only
// logged; the operation being audited has already succeeded.
func (s *auditService) Log(userID string, action, resourceType string, resourceID string, ipAddress string, changes map[string]interface{}) {
	entry := &models.AuditLog{
		UserID:       userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		IPAddress:    ipAddress,
	}
	if len(changes) > 0 {
		entry.Changes = normalizeChanges(changes)
	}

	if err := s.db.Create(entry).Error; err != nil {
		logger.Named("audit").Warnw("audit entry dropped",
			"error", err,
			"user_id", userID,
			"action", action,
			"resource", resourceType+"/"+resourceID,
		)
	}
}

// normalizeChanges converts decimal and time values to strings so entries read
// back the same from postgres and sqlite.
func normalizeChanges(changes map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(changes))
	for k, v := range changes {
		if s, ok := v.(interface{ String() string }); ok {
			out[k] = s.String()
			continue
		}
		out[k] = v
	}
	return out
}
