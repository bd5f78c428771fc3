package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditLogLoadFromDB(t *testing.T) {
	entry := AuditLog{DataRaw: `{"job_id": 9, "msg": "Inventory document exported"}`}

	entry.LoadFromDB()

	assert.Equal(t, float64(9), entry.Data["job_id"])
	assert.Equal(t, "Inventory document exported", entry.Data["msg"])
}

func TestAuditLogLoadFromDBEmptyData(t *testing.T) {
	entry := AuditLog{}

	entry.LoadFromDB()

	assert.Nil(t, entry.Data)
}
