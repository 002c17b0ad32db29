package psql

import (
	"context"

	"gorm.io/gorm"

	"allgecare/internal/domain/entity"
)

type GormThresholdRepo struct {
	db *gorm.DB
}

func NewGormThresholdRepo(db *gorm.DB) *GormThresholdRepo {
	return &GormThresholdRepo{db: db}
}

func (r *GormThresholdRepo) RecordChange(ctx context.Context, change *entity.ThresholdChange) error {
	return r.db.WithContext(ctx).Create(change).Error
}

// ListChanges returns the newest changes first.
func (r *GormThresholdRepo) ListChanges(ctx context.Context, limit int) ([]entity.ThresholdChange, error) {
	if limit <= 0 {
		limit = 20
	}
	var changes []entity.ThresholdChange
	err := r.db.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&changes).Error
	return changes, err
}
