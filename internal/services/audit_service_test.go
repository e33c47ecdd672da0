package services

import (
	"testing"

	"foodtracker/internal/models"
	"foodtracker/internal/testutil"
)

func TestAuditLog(t *testing.T) {
	t.Run("records_entry_with_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)
		svc := NewAuditService(db)

		svc.Log(user.ID, "USE_PRODUCT", "product", "p-1", "127.0.0.1", map[string]interface{}{
			"amount": dec("1.50"),
			"pantry": "kitchen",
		})

		var entries []models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).Find(&entries).Error)
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}
		e := entries[0]
		if e.Action != "USE_PRODUCT" || e.ResourceType != "product" || e.ResourceID != "p-1" {
			t.Errorf("unexpected entry: %+v", e)
		}
		if e.Changes["amount"] != "1.5" {
			t.Errorf("expected amount 1.5, got %v", e.Changes["amount"])
		}
		if e.Changes["pantry"] != "kitchen" {
			t.Errorf("expected pantry kitchen, got %v", e.Changes["pantry"])
		}
	})

	t.Run("entry_without_changes", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		defer testutil.TeardownTestDB(t, db)
		user := testutil.CreateTestUser(t, db)

		NewAuditService(db).Log(user.ID, "LOGIN", "user", user.ID, "", nil)

		var entry models.AuditLog
		testutil.AssertNoError(t, db.Where("user_id = ?", user.ID).First(&entry).Error)
		if len(entry.Changes) != 0 {
			t.Errorf("expected no changes, got %v", entry.Changes)
		}
	})
}
