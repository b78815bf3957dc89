package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
)

// ==================== 部件生命周期门面 ====================

// ComponentLifecycleService 部件生命周期门面
// 创建/更新/删除的统一入口：身份查重、字段差异、关联调和、
// 改名级联与删除级联都从这里编排。
// 并发说明：同一部件的并发身份变更为已知竞态，行为是
// "最后写入生效、文件改名交错次序不定"；
// 如需支持并发编辑应在此处加部件级咨询锁或乐观版本号
type ComponentLifecycleService struct {
	uow        *repository.CatalogUnitOfWork
	assets     AssetStore
	renamer    *RenameCascade
	reconciler *AssociationReconciler
	deleter    *DeletionCascade
}

// NewComponentLifecycleService 创建生命周期门面
func NewComponentLifecycleService(uow *repository.CatalogUnitOfWork, assets AssetStore) *ComponentLifecycleService {
	return &ComponentLifecycleService{
		uow:        uow,
		assets:     assets,
		renamer:    NewRenameCascade(assets),
		reconciler: NewAssociationReconciler(),
		deleter:    NewDeletionCascade(uow, assets),
	}
}

// ==================== 创建 ====================

// Create 创建部件
// 必填：product_number、component_type_id；品牌/分类按名解析，不存在则建档
func (s *ComponentLifecycleService) Create(ctx context.Context, req *dto.CreateComponentRequest) (*dto.ComponentResult, error) {
	if req.ProductNumber == "" {
		return nil, fmt.Errorf("product_number 必填: %w", ErrValidation)
	}
	if req.ComponentTypeID <= 0 {
		return nil, fmt.Errorf("component_type_id 必填: %w", ErrValidation)
	}

	var component *model.Component
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		// 引用实体必须已存在（供应商可选）
		if _, err := tx.Lookups.GetComponentTypeByID(ctx, req.ComponentTypeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("部件类型 %d 不存在: %w", req.ComponentTypeID, ErrValidation)
			}
			return err
		}
		if req.SupplierID != nil {
			if _, err := tx.Lookups.GetSupplierByID(ctx, *req.SupplierID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("供应商 %d 不存在: %w", *req.SupplierID, ErrValidation)
				}
				return err
			}
		}

		// 身份查重：无供应商行只与其他无供应商行比对
		exists, err := tx.Components.ExistsByIdentity(ctx, req.ProductNumber, req.SupplierID, 0)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("货号 %s 在该供应商下已存在: %w", req.ProductNumber, ErrDuplicateKey)
		}

		now := time.Now()
		properties := make(model.PropertyMap, len(req.Properties))
		for key, value := range req.Properties {
			properties.Merge(key, model.PropertyEntry{Value: value, Type: "string"}, now)
		}

		component = &model.Component{
			ProductNumber:   req.ProductNumber,
			SupplierID:      req.SupplierID,
			ComponentTypeID: req.ComponentTypeID,
			Description:     req.Description,
			Properties:      properties,
		}
		if err := tx.Components.Create(ctx, component); err != nil {
			return err
		}

		// 按名解析品牌/分类，再建链接行
		brandIDs := make([]int64, 0, len(req.BrandNames))
		for _, name := range req.BrandNames {
			brand, _, err := tx.Lookups.FindOrCreateBrand(ctx, name)
			if err != nil {
				return err
			}
			brandIDs = append(brandIDs, brand.ID)
		}
		if err := tx.Associations.AddBrands(ctx, component.ID, brandIDs); err != nil {
			return err
		}

		categoryIDs := make([]int64, 0, len(req.CategoryNames))
		for _, name := range req.CategoryNames {
			category, _, err := tx.Lookups.FindOrCreateCategory(ctx, name)
			if err != nil {
				return err
			}
			categoryIDs = append(categoryIDs, category.ID)
		}
		if err := tx.Associations.AddCategories(ctx, component.ID, categoryIDs); err != nil {
			return err
		}

		if len(req.Keywords) > 0 {
			if err := s.reconciler.ReconcileKeywords(ctx, tx, component.ID, req.Keywords); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.ComponentResult{
		Success:     true,
		ComponentID: component.ID,
	}, nil
}

// ==================== 更新 ====================

// Update 更新部件
// 身份字段（货号/供应商）变更时先对"变更后"的合并身份查重，
// 冲突则整体拒绝，不做半截改名；之后按最终身份一次性级联改名
func (s *ComponentLifecycleService) Update(ctx context.Context, componentID int64, req *dto.UpdateComponentRequest) (*dto.ComponentResult, error) {
	var result *dto.ComponentResult

	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		component, err := tx.Components.GetDeep(ctx, componentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("部件 %d: %w", componentID, ErrNotFound)
			}
			return err
		}

		changes := make(map[string]dto.FieldChange)

		// -------- 身份字段与查重 --------
		newProductNumber := component.ProductNumber
		if req.ProductNumber != nil && *req.ProductNumber != component.ProductNumber {
			if *req.ProductNumber == "" {
				return fmt.Errorf("product_number 不能为空: %w", ErrValidation)
			}
			newProductNumber = *req.ProductNumber
		}

		newSupplierID := component.SupplierID
		supplierChanged := false
		if req.SupplierID != nil {
			if *req.SupplierID == 0 {
				// 0 表示解除供应商
				if component.SupplierID != nil {
					newSupplierID = nil
					supplierChanged = true
				}
			} else if component.SupplierID == nil || *component.SupplierID != *req.SupplierID {
				id := *req.SupplierID
				newSupplierID = &id
				supplierChanged = true
			}
		}

		// 并发身份变更为后写覆盖；改名交错未定义。
		// TODO: 若实际出现并发改身份，升级为 pg advisory lock
		identityChanged := newProductNumber != component.ProductNumber || supplierChanged
		if identityChanged {
			exists, err := tx.Components.ExistsByIdentity(ctx, newProductNumber, newSupplierID, component.ID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("货号 %s 在目标供应商下已存在: %w", newProductNumber, ErrDuplicateKey)
			}
		}

		// -------- 基本字段差异 --------
		if newProductNumber != component.ProductNumber {
			changes["product_number"] = dto.FieldChange{Old: component.ProductNumber, New: newProductNumber}
			component.ProductNumber = newProductNumber
		}
		if supplierChanged {
			changes["supplier_id"] = dto.FieldChange{Old: supplierIDValue(component.SupplierID), New: supplierIDValue(newSupplierID)}
			component.SupplierID = newSupplierID
			component.Supplier = nil
			if newSupplierID != nil {
				supplier, err := tx.Lookups.GetSupplierByID(ctx, *newSupplierID)
				if err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return fmt.Errorf("供应商 %d 不存在: %w", *newSupplierID, ErrValidation)
					}
					return err
				}
				component.Supplier = supplier
			}
		}
		if req.Description != nil && *req.Description != component.Description {
			changes["description"] = dto.FieldChange{Old: component.Description, New: *req.Description}
			component.Description = *req.Description
		}

		now := time.Now()
		applyReview(&component.DataReview, req.DataReview, "data_review", changes, now)
		applyReview(&component.SampleReview, req.SampleReview, "sample_review", changes, now)
		applyReview(&component.QualityReview, req.QualityReview, "quality_review", changes, now)

		if len(req.Properties) > 0 {
			if component.Properties == nil {
				component.Properties = make(model.PropertyMap)
			}
			for key, value := range req.Properties {
				old, had := component.Properties[key]
				if had && old.Value == value {
					continue
				}
				oldValue := interface{}(nil)
				if had {
					oldValue = old.Value
				}
				changes["properties."+key] = dto.FieldChange{Old: oldValue, New: value}
				component.Properties.Merge(key, model.PropertyEntry{Value: value, Type: "string"}, now)
			}
		}

		if len(changes) > 0 {
			if err := tx.Components.Update(ctx, component); err != nil {
				return err
			}
		}

		// -------- 关联调和（字段出现才调和，空切片=清空） --------
		if req.BrandIDs != nil {
			if err := s.reconciler.ReconcileBrands(ctx, tx, component.ID, *req.BrandIDs); err != nil {
				return err
			}
		}
		if req.CategoryIDs != nil {
			if err := s.reconciler.ReconcileCategories(ctx, tx, component.ID, *req.CategoryIDs); err != nil {
				return err
			}
		}
		if req.Keywords != nil {
			if err := s.reconciler.ReconcileKeywords(ctx, tx, component.ID, *req.Keywords); err != nil {
				return err
			}
		}

		// -------- 身份变更后按最终身份级联改名（一次遍历） --------
		var renames *dto.RenameOutcome
		if identityChanged {
			renames, err = s.renamer.CascadeComponent(ctx, tx, component)
			if err != nil {
				return err
			}
		}

		result = &dto.ComponentResult{
			Success:     true,
			ComponentID: component.ID,
			Changes:     changes,
			Renames:     renames,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// supplierIDValue 供 changes 展示：nil 显示为 nil 而非指针
func supplierIDValue(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// applyReview 应用单个审核环节输入并记录差异
func applyReview(state *model.ReviewState, input *dto.ReviewStateInput, field string, changes map[string]dto.FieldChange, now time.Time) {
	if input == nil {
		return
	}
	if state.Status == input.Status && state.Comment == input.Comment {
		return
	}
	changes[field] = dto.FieldChange{Old: state.Status, New: input.Status}
	state.Status = input.Status
	state.Comment = input.Comment
	checkedAt := now
	state.CheckedAt = &checkedAt
}

// ==================== 查询 ====================

// GetComponent 取单个部件（含变体/图片/关联）
func (s *ComponentLifecycleService) GetComponent(ctx context.Context, componentID int64) (*dto.ComponentResp, error) {
	component, err := s.uow.Components.GetDeep(ctx, componentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("部件 %d: %w", componentID, ErrNotFound)
		}
		return nil, err
	}
	resp := ToComponentResp(component)
	return &resp, nil
}

// ListComponents 分页查询部件
func (s *ComponentLifecycleService) ListComponents(ctx context.Context, filter repository.ComponentFilter) ([]dto.ComponentResp, int64, error) {
	components, total, err := s.uow.Components.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	resps := make([]dto.ComponentResp, 0, len(components))
	for i := range components {
		resps = append(resps, ToComponentResp(&components[i]))
	}
	return resps, total, nil
}

// ==================== 删除 ====================

// Delete 级联删除部件
func (s *ComponentLifecycleService) Delete(ctx context.Context, componentID int64) (*dto.DeleteResult, error) {
	summary, err := s.deleter.DeleteComponent(ctx, componentID)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteResult{
		Success: true,
		Message: fmt.Sprintf("部件 %s 已删除", summary.ProductNumber),
		Summary: summary,
	}, nil
}

// ==================== 变体 ====================

// CreateVariant 新建色彩变体
// 同部件同颜色唯一；显示名缺省取颜色名
func (s *ComponentLifecycleService) CreateVariant(ctx context.Context, componentID int64, req *dto.CreateVariantRequest) (*model.ComponentVariant, error) {
	var variant *model.ComponentVariant
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		if _, err := tx.Components.GetByID(ctx, componentID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("部件 %d: %w", componentID, ErrNotFound)
			}
			return err
		}
		color, err := tx.Lookups.GetColorByID(ctx, req.ColorID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("颜色 %d 不存在: %w", req.ColorID, ErrValidation)
			}
			return err
		}

		exists, err := tx.Variants.ExistsColor(ctx, componentID, req.ColorID, 0)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("该部件已有颜色 %s 的变体: %w", color.Name, ErrDuplicateKey)
		}

		displayName := req.DisplayName
		if displayName == "" {
			displayName = color.Name
		}
		isActive := true
		if req.IsActive != nil {
			isActive = *req.IsActive
		}

		variant = &model.ComponentVariant{
			ComponentID: componentID,
			ColorID:     req.ColorID,
			DisplayName: displayName,
			IsActive:    isActive,
		}
		if err := tx.Variants.Create(ctx, variant); err != nil {
			return err
		}
		variant.Color = color
		return nil
	})
	if err != nil {
		return nil, err
	}
	return variant, nil
}

// UpdateVariant 更新变体
// 颜色变更只级联该变体自己的图片，部件直属图片与其他变体不受影响
func (s *ComponentLifecycleService) UpdateVariant(ctx context.Context, variantID int64, req *dto.UpdateVariantRequest) (*dto.ComponentResult, error) {
	var result *dto.ComponentResult
	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		variant, err := tx.Variants.GetByID(ctx, variantID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("变体 %d: %w", variantID, ErrNotFound)
			}
			return err
		}

		changes := make(map[string]dto.FieldChange)

		colorChanged := false
		if req.ColorID != nil && *req.ColorID != variant.ColorID {
			color, err := tx.Lookups.GetColorByID(ctx, *req.ColorID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("颜色 %d 不存在: %w", *req.ColorID, ErrValidation)
				}
				return err
			}
			exists, err := tx.Variants.ExistsColor(ctx, variant.ComponentID, *req.ColorID, variant.ID)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("该部件已有颜色 %s 的变体: %w", color.Name, ErrDuplicateKey)
			}
			changes["color_id"] = dto.FieldChange{Old: variant.ColorID, New: *req.ColorID}
			variant.ColorID = *req.ColorID
			variant.Color = color
			colorChanged = true
		}
		if req.DisplayName != nil && *req.DisplayName != variant.DisplayName {
			changes["display_name"] = dto.FieldChange{Old: variant.DisplayName, New: *req.DisplayName}
			variant.DisplayName = *req.DisplayName
		}
		if req.IsActive != nil && *req.IsActive != variant.IsActive {
			changes["is_active"] = dto.FieldChange{Old: variant.IsActive, New: *req.IsActive}
			variant.IsActive = *req.IsActive
		}

		if len(changes) > 0 {
			if err := tx.Variants.Update(ctx, variant); err != nil {
				return err
			}
		}

		var renames *dto.RenameOutcome
		if colorChanged {
			component, err := tx.Components.GetByID(ctx, variant.ComponentID)
			if err != nil {
				return err
			}
			renames, err = s.renamer.CascadeVariant(ctx, tx, component, variant)
			if err != nil {
				return err
			}
		}

		result = &dto.ComponentResult{
			Success:     true,
			ComponentID: variant.ComponentID,
			Changes:     changes,
			Renames:     renames,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteVariant 删除变体及其图片（行 + 文件尽力删除）
func (s *ComponentLifecycleService) DeleteVariant(ctx context.Context, variantID int64) (*dto.DeleteResult, error) {
	variant, err := s.uow.Variants.GetByID(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("变体 %d: %w", variantID, ErrNotFound)
		}
		return nil, err
	}

	owner := model.OwnerRef{Kind: model.OwnerVariant, ID: variant.ID}
	pictures, err := s.uow.Pictures.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	filesDeleted := dto.FilesDeleted{}
	for i := range pictures {
		if s.assets.Delete(ctx, pictures[i].Filename()).Success {
			filesDeleted.Successful++
		} else {
			filesDeleted.Failed++
		}
	}

	var picCount int64
	err = s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		picCount, err = tx.Pictures.DeleteByOwner(ctx, owner)
		if err != nil {
			return err
		}
		return tx.Variants.Delete(ctx, variant.ID)
	})
	if err != nil {
		return nil, err
	}

	return &dto.DeleteResult{
		Success: true,
		Message: fmt.Sprintf("变体 %s 已删除", variant.DisplayName),
		Summary: &dto.DeleteSummary{
			ComponentID: variant.ComponentID,
			AssociationsDeleted: dto.AssociationsDeleted{
				Variants: 1,
				Pictures: int(picCount),
			},
			FilesDeleted: filesDeleted,
		},
	}, nil
}
