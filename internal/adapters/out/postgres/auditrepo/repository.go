package auditrepo

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"pizzatools/internal/core/ports"
)

// GormAuditLog implements ports.AuditLog using GORM. One batch is one
// transaction; a failed append is logged and reported but the callers treat
// the audit trail as best-effort.
type GormAuditLog struct {
	db     *gorm.DB
	logger *slog.Logger
}

// NewGormAuditLog creates a new GORM audit log.
func NewGormAuditLog(db *gorm.DB, logger *slog.Logger) *GormAuditLog {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormAuditLog{db: db, logger: logger}
}

// Migrate creates the audit schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&AuditRecordDTO{})
}

// RecordBatch appends all records of one orchestration batch in a single
// transaction.
func (l *GormAuditLog) RecordBatch(ctx context.Context, records []ports.AuditRecord) error {
	if len(records) == 0 {
		return nil
	}

	dtos := make([]AuditRecordDTO, 0, len(records))
	for _, record := range records {
		dtos = append(dtos, fromDomain(record))
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&dtos).Error
	})
	if err != nil {
		l.logger.Warn("audit batch append failed",
			"batchId", records[0].BatchID.String(),
			"records", len(records),
			"error", err,
		)
		return err
	}
	return nil
}
