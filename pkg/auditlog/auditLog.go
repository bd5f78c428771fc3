package auditlog

import (
	"log"

	"logistics/internal/repository"
	"logistics/pkg/models"
)

type Auditlog struct {
	r *repository.Repository
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

// Log records what happened to a resource (export started, document
// attached, export failed). Failures only get logged; auditing must never
// break the export itself.
func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	if a == nil || a.r == nil {
		return
	}

	auditLog := item.CreateLogView()
	auditLog.Action = action

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}

	log.Println("Created AuditLog entry for id ", auditLog.ResourceID)
}

// Logs returns the recorded trail for a resource.
func (a *Auditlog) Logs(resourceType string, resourceID int) ([]models.AuditLog, error) {
	return a.r.GetResourceLogs(resourceType, resourceID)
}

func NewAuditLog(repository *repository.Repository) *Auditlog {
	a := Auditlog{r: repository}

	return &a
}
