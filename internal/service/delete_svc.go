package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/pkg/logger"
)

// ==================== 删除级联编排 ====================

// DeletionCascade 删除级联编排器
// 部件删除 = 文件尽力删除（事务外） + 行删除（单事务）。
// 文件全部失败也不影响行删除成功：目录状态绝不被资产存储可用性绑架。
// 查找型实体（品牌/颜色/供应商/类型）永不随部件删除
type DeletionCascade struct {
	uow    *repository.CatalogUnitOfWork
	assets AssetStore
}

// NewDeletionCascade 创建删除级联编排器
func NewDeletionCascade(uow *repository.CatalogUnitOfWork, assets AssetStore) *DeletionCascade {
	return &DeletionCascade{uow: uow, assets: assets}
}

// DeleteComponent 级联删除部件及其全部下级
// 部件不存在返回 ErrNotFound，不做任何局部操作
func (o *DeletionCascade) DeleteComponent(ctx context.Context, componentID int64) (*dto.DeleteSummary, error) {
	// 1. 取部件全貌
	component, err := o.uow.Components.GetDeep(ctx, componentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("部件 %d: %w", componentID, ErrNotFound)
		}
		return nil, err
	}

	// 2. 收集全部图片（直属 + 各变体）
	pictures := make([]model.Picture, 0, len(component.Pictures))
	pictures = append(pictures, component.Pictures...)
	for _, variant := range component.Variants {
		pictures = append(pictures, variant.Pictures...)
	}

	// 3. 文件尽力删除，逐个记录成败，失败不中断
	// 外部存储与目录库没有事务耦合，文件操作放在事务之外
	summary := &dto.DeleteSummary{
		ComponentID:   component.ID,
		ProductNumber: component.ProductNumber,
	}
	for i := range pictures {
		result := o.assets.Delete(ctx, pictures[i].Filename())
		if result.Success {
			summary.FilesDeleted.Successful++
		} else {
			summary.FilesDeleted.Failed++
		}
	}

	// 4. 行删除：图片 → 变体 → 品牌/分类/关键词关联 → 部件，单事务
	err = o.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		picCount, err := tx.Pictures.DeleteByOwner(ctx, model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID})
		if err != nil {
			return err
		}
		for _, variant := range component.Variants {
			n, err := tx.Pictures.DeleteByOwner(ctx, model.OwnerRef{Kind: model.OwnerVariant, ID: variant.ID})
			if err != nil {
				return err
			}
			picCount += n
		}

		variantCount, err := tx.Variants.DeleteByComponentID(ctx, component.ID)
		if err != nil {
			return err
		}

		brandCount, err := tx.Associations.DeleteAllBrands(ctx, component.ID)
		if err != nil {
			return err
		}
		if _, err := tx.Associations.DeleteAllCategories(ctx, component.ID); err != nil {
			return err
		}
		if _, err := tx.Associations.DeleteAllKeywords(ctx, component.ID); err != nil {
			return err
		}

		if err := tx.Components.Delete(ctx, component.ID); err != nil {
			return err
		}

		summary.AssociationsDeleted = dto.AssociationsDeleted{
			Variants: int(variantCount),
			Pictures: int(picCount),
			Brands:   int(brandCount),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if summary.FilesDeleted.Failed > 0 {
		logger.Get().Warn("部件删除完成，但部分资产文件删除失败，待人工对账",
			zap.Int64("component_id", component.ID),
			zap.String("product_number", component.ProductNumber),
			zap.Int("failed", summary.FilesDeleted.Failed))
	}

	return summary, nil
}
