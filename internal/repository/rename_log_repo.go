package repository

import (
	"context"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/model"
)

// RenameLogRepository 改名流水仓储接口
type RenameLogRepository interface {
	Create(ctx context.Context, log *model.RenameLog) error
	ListByComponent(ctx context.Context, componentID int64) ([]model.RenameLog, error)
}

type renameLogRepo struct {
	db *gorm.DB
}

// NewRenameLogRepository 创建改名流水仓储
func NewRenameLogRepository(db *gorm.DB) RenameLogRepository {
	return &renameLogRepo{db: db}
}

func (r *renameLogRepo) Create(ctx context.Context, log *model.RenameLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *renameLogRepo) ListByComponent(ctx context.Context, componentID int64) ([]model.RenameLog, error) {
	var logs []model.RenameLog
	err := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Order("id DESC").
		Find(&logs).Error
	return logs, err
}
