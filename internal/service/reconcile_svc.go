package service

import (
	"context"

	"component_catalog_v1_202609/internal/repository"
)

// ==================== 关联集合调和 ====================

// AssociationReconciler 关联集合调和器
// 对提交的期望集合与持久化集合做纯集合差：
// to_remove = current - desired，to_add = desired - current。
// 与列表顺序无关；current == desired 时零操作；
// desired 为空切片表示"清空全部关联"，与字段缺省（不传）是两回事，由调用方区分
type AssociationReconciler struct{}

// NewAssociationReconciler 创建调和器
func NewAssociationReconciler() *AssociationReconciler {
	return &AssociationReconciler{}
}

// diffSets 集合差，顺序无关
func diffSets(current, desired []int64) (toAdd, toRemove []int64) {
	currentSet := make(map[int64]struct{}, len(current))
	for _, id := range current {
		currentSet[id] = struct{}{}
	}
	desiredSet := make(map[int64]struct{}, len(desired))
	for _, id := range desired {
		desiredSet[id] = struct{}{}
	}

	for id := range desiredSet {
		if _, ok := currentSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for id := range currentSet {
		if _, ok := desiredSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toAdd, toRemove
}

// ReconcileBrands 调和品牌关联
func (r *AssociationReconciler) ReconcileBrands(ctx context.Context, uow *repository.CatalogUnitOfWork, componentID int64, desired []int64) error {
	current, err := uow.Associations.BrandIDs(ctx, componentID)
	if err != nil {
		return err
	}
	toAdd, toRemove := diffSets(current, desired)
	if err := uow.Associations.RemoveBrands(ctx, componentID, toRemove); err != nil {
		return err
	}
	return uow.Associations.AddBrands(ctx, componentID, toAdd)
}

// ReconcileCategories 调和分类关联
func (r *AssociationReconciler) ReconcileCategories(ctx context.Context, uow *repository.CatalogUnitOfWork, componentID int64, desired []int64) error {
	current, err := uow.Associations.CategoryIDs(ctx, componentID)
	if err != nil {
		return err
	}
	toAdd, toRemove := diffSets(current, desired)
	if err := uow.Associations.RemoveCategories(ctx, componentID, toRemove); err != nil {
		return err
	}
	return uow.Associations.AddCategories(ctx, componentID, toAdd)
}

// ReconcileKeywords 调和关键词关联（按词解析，不存在则建档）
func (r *AssociationReconciler) ReconcileKeywords(ctx context.Context, uow *repository.CatalogUnitOfWork, componentID int64, words []string) error {
	desired := make([]int64, 0, len(words))
	for _, word := range words {
		keyword, _, err := uow.Lookups.FindOrCreateKeyword(ctx, word)
		if err != nil {
			return err
		}
		desired = append(desired, keyword.ID)
	}

	current, err := uow.Associations.KeywordIDs(ctx, componentID)
	if err != nil {
		return err
	}
	toAdd, toRemove := diffSets(current, desired)
	if err := uow.Associations.RemoveKeywords(ctx, componentID, toRemove); err != nil {
		return err
	}
	return uow.Associations.AddKeywords(ctx, componentID, toAdd)
}
