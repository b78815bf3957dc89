package repository

import (
	"context"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/model"
)

// ==================== 仓储接口 ====================

// AssociationRepository 部件多对多关联仓储接口
// 只增删链接行，从不触碰两端实体
type AssociationRepository interface {
	// 品牌
	BrandIDs(ctx context.Context, componentID int64) ([]int64, error)
	AddBrands(ctx context.Context, componentID int64, brandIDs []int64) error
	RemoveBrands(ctx context.Context, componentID int64, brandIDs []int64) error
	DeleteAllBrands(ctx context.Context, componentID int64) (int64, error)

	// 分类
	CategoryIDs(ctx context.Context, componentID int64) ([]int64, error)
	AddCategories(ctx context.Context, componentID int64, categoryIDs []int64) error
	RemoveCategories(ctx context.Context, componentID int64, categoryIDs []int64) error
	DeleteAllCategories(ctx context.Context, componentID int64) (int64, error)

	// 关键词
	KeywordIDs(ctx context.Context, componentID int64) ([]int64, error)
	AddKeywords(ctx context.Context, componentID int64, keywordIDs []int64) error
	RemoveKeywords(ctx context.Context, componentID int64, keywordIDs []int64) error
	DeleteAllKeywords(ctx context.Context, componentID int64) (int64, error)
}

// ==================== 实现 ====================

type associationRepo struct {
	db *gorm.DB
}

// NewAssociationRepository 创建关联仓储
func NewAssociationRepository(db *gorm.DB) AssociationRepository {
	return &associationRepo{db: db}
}

// -------- 品牌 --------

func (r *associationRepo) BrandIDs(ctx context.Context, componentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.ComponentBrand{}).
		Where("component_id = ?", componentID).
		Pluck("brand_id", &ids).Error
	return ids, err
}

func (r *associationRepo) AddBrands(ctx context.Context, componentID int64, brandIDs []int64) error {
	if len(brandIDs) == 0 {
		return nil
	}
	links := make([]model.ComponentBrand, 0, len(brandIDs))
	for _, id := range brandIDs {
		links = append(links, model.ComponentBrand{ComponentID: componentID, BrandID: id})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *associationRepo) RemoveBrands(ctx context.Context, componentID int64, brandIDs []int64) error {
	if len(brandIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("component_id = ? AND brand_id IN ?", componentID, brandIDs).
		Delete(&model.ComponentBrand{}).Error
}

func (r *associationRepo) DeleteAllBrands(ctx context.Context, componentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&model.ComponentBrand{})
	return result.RowsAffected, result.Error
}

// -------- 分类 --------

func (r *associationRepo) CategoryIDs(ctx context.Context, componentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.ComponentCategory{}).
		Where("component_id = ?", componentID).
		Pluck("category_id", &ids).Error
	return ids, err
}

func (r *associationRepo) AddCategories(ctx context.Context, componentID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]model.ComponentCategory, 0, len(categoryIDs))
	for _, id := range categoryIDs {
		links = append(links, model.ComponentCategory{ComponentID: componentID, CategoryID: id})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *associationRepo) RemoveCategories(ctx context.Context, componentID int64, categoryIDs []int64) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("component_id = ? AND category_id IN ?", componentID, categoryIDs).
		Delete(&model.ComponentCategory{}).Error
}

func (r *associationRepo) DeleteAllCategories(ctx context.Context, componentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&model.ComponentCategory{})
	return result.RowsAffected, result.Error
}

// -------- 关键词 --------

func (r *associationRepo) KeywordIDs(ctx context.Context, componentID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&model.ComponentKeyword{}).
		Where("component_id = ?", componentID).
		Pluck("keyword_id", &ids).Error
	return ids, err
}

func (r *associationRepo) AddKeywords(ctx context.Context, componentID int64, keywordIDs []int64) error {
	if len(keywordIDs) == 0 {
		return nil
	}
	links := make([]model.ComponentKeyword, 0, len(keywordIDs))
	for _, id := range keywordIDs {
		links = append(links, model.ComponentKeyword{ComponentID: componentID, KeywordID: id})
	}
	return r.db.WithContext(ctx).Create(&links).Error
}

func (r *associationRepo) RemoveKeywords(ctx context.Context, componentID int64, keywordIDs []int64) error {
	if len(keywordIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("component_id = ? AND keyword_id IN ?", componentID, keywordIDs).
		Delete(&model.ComponentKeyword{}).Error
}

func (r *associationRepo) DeleteAllKeywords(ctx context.Context, componentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("component_id = ?", componentID).
		Delete(&model.ComponentKeyword{})
	return result.RowsAffected, result.Error
}
