package auditlog

import (
	"log"

	"picking/pkg/models"
)

type LogPersister interface {
	PersistLog(auditLog models.AuditLog, data interface{}) error
}

type Auditlog struct {
	r LogPersister
}

type Auditable interface {
	CreateLogView() models.AuditLog
}

func (a *Auditlog) Log(action string, data interface{}, item Auditable) {
	auditLog := item.CreateLogView()
	auditLog.Action = action

	err := a.r.PersistLog(auditLog, data)

	if err != nil {
		log.Println("Unable to create AuditLog entry for id ", auditLog.ResourceID)
		return
	}
}

func NewAuditLog(r LogPersister) *Auditlog {
	a := Auditlog{r: r}

	return &a
}
