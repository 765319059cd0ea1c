// Package auditrepo persists orchestration outcomes to postgres. The audit
// trail is operational history for the store staff: which batch touched which
// driver and order, and how each item ended. It is append-only and never read
// back by the orchestrators; the commerce platform stays the system of record.
package auditrepo

import (
	"time"

	"github.com/google/uuid"

	"pizzatools/internal/core/ports"
)

// AuditRecordDTO is the database row for one per-item batch outcome.
type AuditRecordDTO struct {
	ID        int64      `gorm:"primaryKey;autoIncrement"`
	BatchID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Action    string     `gorm:"type:varchar(16);not null"`
	DriverID  uuid.UUID  `gorm:"type:uuid;not null;index"`
	OrderID   *uuid.UUID `gorm:"type:uuid;index"`
	Success   bool       `gorm:"not null"`
	ErrorKind string     `gorm:"type:varchar(32)"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

// TableName overrides GORM's default naming to use "audit_records".
func (AuditRecordDTO) TableName() string {
	return "audit_records"
}

// fromDomain converts a port record to its database representation. A zero
// order id maps to NULL: ledger rows have no order.
func fromDomain(record ports.AuditRecord) AuditRecordDTO {
	dto := AuditRecordDTO{
		BatchID:   record.BatchID.Bytes(),
		Action:    record.Action,
		DriverID:  record.DriverID.Bytes(),
		Success:   record.Success,
		ErrorKind: record.ErrorKind,
		CreatedAt: record.CreatedAt,
	}
	if !record.OrderID.IsZero() {
		orderID := record.OrderID.Bytes()
		dto.OrderID = &orderID
	}
	return dto
}
