package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/pkg/logger"
)

// ==================== 外部服务依赖 ====================

// AssetStore 资产存储接口（由 AssetGateway 实现）
type AssetStore interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) UploadResult
	Move(ctx context.Context, oldFilename, newFilename string) MoveResult
	Delete(ctx context.Context, filename string) DeleteFileResult
}

// ==================== 改名级联引擎 ====================

// RenameCascade 改名级联引擎
// 身份字段（货号 / 供应商 / 变体颜色）变更后，按变更后的最终身份
// 一次性重算所有受影响图片的规范名；物理移动失败只记录，
// 逻辑名以目录库为准照常更新
type RenameCascade struct {
	assets AssetStore
}

// NewRenameCascade 创建改名级联引擎
func NewRenameCascade(assets AssetStore) *RenameCascade {
	return &RenameCascade{assets: assets}
}

// CascadeComponent 货号或供应商变更：部件直属图片 + 全部变体图片都受影响
// component 必须是变更后的实体，且已加载 Supplier、Variants（含 Color、Pictures）、Pictures
func (e *RenameCascade) CascadeComponent(ctx context.Context, uow *repository.CatalogUnitOfWork, component *model.Component) (*dto.RenameOutcome, error) {
	outcome := &dto.RenameOutcome{FilesRenamed: []dto.FileRename{}}
	supplierCode := component.SupplierCode()

	// 直属图片：无颜色段
	for i := range component.Pictures {
		pic := &component.Pictures[i]
		newName := GenerateAssetName(supplierCode, component.ProductNumber, nil, pic.Position)
		if err := e.renameOne(ctx, uow, pic, newName, outcome); err != nil {
			return nil, err
		}
	}

	// 变体图片：带各自颜色段
	for i := range component.Variants {
		variant := &component.Variants[i]
		if variant.Color == nil {
			return nil, fmt.Errorf("变体 %d 未加载颜色", variant.ID)
		}
		colorName := variant.Color.Name
		for j := range variant.Pictures {
			pic := &variant.Pictures[j]
			newName := GenerateAssetName(supplierCode, component.ProductNumber, &colorName, pic.Position)
			if err := e.renameOne(ctx, uow, pic, newName, outcome); err != nil {
				return nil, err
			}
		}
	}

	e.recordLog(ctx, uow, component.ID, nil, model.RenameTriggerComponent, outcome)
	return outcome, nil
}

// CascadeVariant 单个变体颜色变更：只影响该变体自己的图片
func (e *RenameCascade) CascadeVariant(ctx context.Context, uow *repository.CatalogUnitOfWork, component *model.Component, variant *model.ComponentVariant) (*dto.RenameOutcome, error) {
	if variant.Color == nil {
		return nil, fmt.Errorf("变体 %d 未加载颜色", variant.ID)
	}

	outcome := &dto.RenameOutcome{FilesRenamed: []dto.FileRename{}}
	supplierCode := component.SupplierCode()
	colorName := variant.Color.Name

	pictures, err := uow.Pictures.GetByOwner(ctx, model.OwnerRef{Kind: model.OwnerVariant, ID: variant.ID})
	if err != nil {
		return nil, err
	}
	for i := range pictures {
		pic := &pictures[i]
		newName := GenerateAssetName(supplierCode, component.ProductNumber, &colorName, pic.Position)
		if err := e.renameOne(ctx, uow, pic, newName, outcome); err != nil {
			return nil, err
		}
	}

	e.recordLog(ctx, uow, component.ID, &variant.ID, model.RenameTriggerVariant, outcome)
	return outcome, nil
}

// renameOne 重算后与存量名一致则跳过；否则先物理移动再更新行。
// 移动失败不阻断逻辑改名：目录库是"当前逻辑名"的唯一事实来源
func (e *RenameCascade) renameOne(ctx context.Context, uow *repository.CatalogUnitOfWork, pic *model.Picture, newName string, outcome *dto.RenameOutcome) error {
	if newName == pic.Name {
		return nil
	}

	oldFilename := pic.Filename()
	newFilename := newName + pic.Ext

	rename := dto.FileRename{OldName: oldFilename, NewName: newFilename, Status: "ok"}
	moveResult := e.assets.Move(ctx, oldFilename, newFilename)

	fields := map[string]interface{}{"name": newName}
	if moveResult.Success {
		if moveResult.NewURL != "" {
			fields["url"] = moveResult.NewURL
		}
	} else {
		rename.Status = "failed: " + moveResult.Error
		logger.Get().Warn("图片物理改名失败，逻辑名照常更新",
			zap.Int64("picture_id", pic.ID),
			zap.String("old", oldFilename),
			zap.String("new", newFilename),
			zap.String("error", moveResult.Error))
	}

	if err := uow.Pictures.UpdateFields(ctx, pic.ID, fields); err != nil {
		return err
	}
	pic.Name = newName
	if url, ok := fields["url"].(string); ok {
		pic.URL = url
	}

	outcome.FilesRenamed = append(outcome.FilesRenamed, rename)
	outcome.Count = len(outcome.FilesRenamed)
	return nil
}

// recordLog 落一条级联流水，逐文件结果作 jsonb 快照。
// 流水写失败不影响级联本身
func (e *RenameCascade) recordLog(ctx context.Context, uow *repository.CatalogUnitOfWork, componentID int64, variantID *int64, trigger string, outcome *dto.RenameOutcome) {
	if outcome.Count == 0 {
		return
	}

	failed := 0
	for _, r := range outcome.FilesRenamed {
		if r.Status != "ok" {
			failed++
		}
	}
	details, _ := json.Marshal(outcome.FilesRenamed)

	entry := &model.RenameLog{
		ComponentID: componentID,
		VariantID:   variantID,
		Trigger:     trigger,
		Count:       outcome.Count,
		Failed:      failed,
		Details:     datatypes.JSON(details),
	}
	if err := uow.RenameLogs.Create(ctx, entry); err != nil {
		logger.Get().Warn("改名流水写入失败",
			zap.Int64("component_id", componentID),
			zap.Error(err))
	}
}
