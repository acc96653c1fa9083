package handlers

import (
	"fmt"
	"log"
	"time"

	"fieldops/db"
	"fieldops/models"
)

// logAudit appends an audit trail document for a mutating operation. Audit
// failures are logged but never fail the request that triggered them.
func logAudit(store *db.FirestoreDB, userID, action, details string) {
	entry := &models.AuditLog{
		LogID:     fmt.Sprintf("log-%d", time.Now().UnixNano()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		UserID:    userID,
		Action:    action,
		Details:   details,
	}
	if err := store.CreateAuditLog(entry); err != nil {
		log.Printf("⚠️  Failed to write audit log (%s): %v", action, err)
	}
}
