// legalai/sources/psql/dao/dao.ingestion.go
package dao

import (
	"context"

	"legalai/legalai/sources/psql/models"

	"gorm.io/gorm"
)

type IngestionDAO struct {
	DB *gorm.DB
}

func NewIngestionDAO(db *gorm.DB) *IngestionDAO {
	return &IngestionDAO{DB: db}
}

func (dao *IngestionDAO) CreateIngestion(ctx context.Context, ing *models.Ingestion) error {
	return dao.DB.WithContext(ctx).Create(ing).Error
}

// GetRecentIngestions lists the newest submissions first.
func (dao *IngestionDAO) GetRecentIngestions(ctx context.Context, limit int) ([]models.Ingestion, error) {
	var out []models.Ingestion
	err := dao.DB.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (dao *IngestionDAO) GetIngestionsByAdmin(ctx context.Context, adminID string, limit int) ([]models.Ingestion, error) {
	var out []models.Ingestion
	err := dao.DB.WithContext(ctx).Where("admin_id = ?", adminID).Order("created_at desc").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
