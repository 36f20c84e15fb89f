// legalai/sources/psql/models/ingestion.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	IngestionSucceeded = "succeeded"
	IngestionFailed    = "failed"
)

// Ingestion is one admin submission to the backend's /ingest endpoint.
type Ingestion struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AdminID    string    `json:"admin_id" gorm:"type:varchar(255);not null;index"`
	FileName   string    `json:"file_name" gorm:"type:varchar(512);default:''"`
	URL        string    `json:"url" gorm:"type:text;default:''"`
	ArchiveKey string    `json:"archive_key,omitempty" gorm:"type:varchar(1024);default:''"`
	Status     string    `json:"status" gorm:"type:varchar(50);not null"`
	Message    string    `json:"message" gorm:"type:text"`
	CreatedAt  time.Time `json:"created_at" gorm:"autoCreateTime;index"`
}

func (Ingestion) TableName() string {
	return "ingestions"
}

func (i *Ingestion) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
