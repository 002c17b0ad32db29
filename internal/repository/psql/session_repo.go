package psql

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"allgecare/internal/domain/entity"
)

type GormSessionRepo struct {
	db *gorm.DB
}

func NewGormSessionRepo(db *gorm.DB) *GormSessionRepo {
	return &GormSessionRepo{db: db}
}

// SaveSession stores the token, replacing the owner if it was already known.
func (r *GormSessionRepo) SaveSession(ctx context.Context, s *entity.Session) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "updated_at", "deleted_at"}),
	}).Create(s).Error
}

func (r *GormSessionRepo) GetSession(ctx context.Context, token string) (*entity.Session, error) {
	var s entity.Session
	err := r.db.WithContext(ctx).First(&s, "token = ?", token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return &s, nil
}

func (r *GormSessionRepo) DeleteSession(ctx context.Context, token string) error {
	return r.db.WithContext(ctx).Delete(&entity.Session{}, "token = ?", token).Error
}
