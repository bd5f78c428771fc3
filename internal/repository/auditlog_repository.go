package repository

import (
	"encoding/json"
	"fmt"

	"logistics/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

func (r *Repository) PersistLog(auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   auditlog.ResourceID,
			"resource_type": auditlog.ResourceType,
			"action":        auditlog.Action,
			"data":          dataJSON,
			"user_id":       auditlog.UserID,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// GetResourceLogs returns the recorded trail for one resource, oldest first.
func (r *Repository) GetResourceLogs(resourceType string, resourceID int) ([]models.AuditLog, error) {
	query := r.GoquDBWrapper.
		Select(
			goqu.I("id"),
			goqu.I("resource_id"),
			goqu.I("resource_type"),
			goqu.I("action"),
			goqu.I("data"),
			goqu.I("user_id"),
			goqu.I("created_at"),
		).
		From("audit_logs").
		Where(goqu.Ex{"resource_type": resourceType, "resource_id": resourceID}).
		Order(goqu.I("id").Asc())

	var logs []models.AuditLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("unable to select audit logs: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}
	return logs, nil
}
