package models

import (
	"encoding/json"
	"time"
)

type ImportBatch struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	Origin       string `gorm:"type:text;not null"`
	Kind         string `gorm:"size:16;not null"`
	Actor        string `gorm:"size:120;not null"`
	Status       string `gorm:"size:16;not null;index"`
	TotalRecords int    `gorm:"not null;default:0"`
	SuccessCount int    `gorm:"not null;default:0"`
	FailureCount int    `gorm:"not null;default:0"`
	WarningCount int    `gorm:"not null;default:0"`
	StartedAt    time.Time
	FinishedAt   *time.Time
	DurationMs   int64 `gorm:"not null;default:0"`

	RollbackAvailable bool `gorm:"not null;default:false"`
	RolledBackBy      *string
	RolledBackAt      *time.Time
	RolledBackReason  *string
	RolledBackCount   int64 `gorm:"not null;default:0"`

	Rows []ImportBatchRow `gorm:"foreignKey:BatchID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (ImportBatch) TableName() string {
	return "import_batches"
}

// ImportBatchRow is one appended row outcome; rows are insert-only.
type ImportBatchRow struct {
	ID         int64   `gorm:"primaryKey"`
	BatchID    string  `gorm:"type:uuid;index;not null"`
	RowIndex   int     `gorm:"not null"`
	Status     string  `gorm:"size:16;not null"`
	IdentityID *string `gorm:"type:uuid"`
	Identifier *string `gorm:"size:32"`
	Payload    json.RawMessage `gorm:"type:jsonb;not null"`
	Errors     json.RawMessage `gorm:"type:jsonb"`
	Warnings   json.RawMessage `gorm:"type:jsonb"`
	CreatedAt  time.Time
}

func (ImportBatchRow) TableName() string {
	return "import_batch_rows"
}

type IdentifierCounter struct {
	Prefix    string `gorm:"size:16;primaryKey"`
	LastValue int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

func (IdentifierCounter) TableName() string {
	return "identifier_counters"
}
