package ports

import (
	"context"
	"time"

	"pizzatools/internal/core/domain/model/kernel"
)

// Audit actions recorded per orchestration batch item.
const (
	AuditActionDispatch = "dispatch"
	AuditActionReturn   = "return"
)

// AuditRecord is one per-item outcome of a dispatch or return batch.
// OrderID is zero for the driver ledger row of a batch.
type AuditRecord struct {
	BatchID   kernel.UUID
	Action    string
	DriverID  kernel.UUID
	OrderID   kernel.UUID
	Success   bool
	ErrorKind string
	CreatedAt time.Time
}

// AuditLog persists orchestration outcomes for operational history. It is
// never the system of record and never read back by the orchestrators; a
// failed append is logged and swallowed, not surfaced to the caller.
type AuditLog interface {
	// RecordBatch appends all records of one orchestration batch.
	RecordBatch(ctx context.Context, records []AuditRecord) error
}

// NoopAuditLog is the AuditLog used when no audit database is configured.
type NoopAuditLog struct{}

// RecordBatch discards the records.
func (NoopAuditLog) RecordBatch(context.Context, []AuditRecord) error {
	return nil
}
