package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/api/dto"
	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
	"component_catalog_v1_202609/pkg/logger"
)

// ==================== 图片服务 ====================

// extByContentType Content-Type 到扩展名的映射，未知类型落到 .jpg
var extByContentType = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// PictureService 图片服务
// 新增/删除/排序；逻辑名由归属方身份推导，物理文件经资产网关读写
type PictureService struct {
	uow     *repository.CatalogUnitOfWork
	assets  AssetStore
	renamer *RenameCascade
}

// NewPictureService 创建图片服务
func NewPictureService(uow *repository.CatalogUnitOfWork, assets AssetStore) *PictureService {
	return &PictureService{
		uow:     uow,
		assets:  assets,
		renamer: NewRenameCascade(assets),
	}
}

// resolveOwner 解析归属方，返回部件与（可选）变体
func (s *PictureService) resolveOwner(ctx context.Context, uow *repository.CatalogUnitOfWork, owner model.OwnerRef) (*model.Component, *model.ComponentVariant, error) {
	switch owner.Kind {
	case model.OwnerComponent:
		component, err := uow.Components.GetByID(ctx, owner.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("部件 %d: %w", owner.ID, ErrNotFound)
			}
			return nil, nil, err
		}
		return component, nil, nil
	case model.OwnerVariant:
		variant, err := uow.Variants.GetByID(ctx, owner.ID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil, fmt.Errorf("变体 %d: %w", owner.ID, ErrNotFound)
			}
			return nil, nil, err
		}
		component, err := uow.Components.GetByID(ctx, variant.ComponentID)
		if err != nil {
			return nil, nil, err
		}
		return component, variant, nil
	default:
		return nil, nil, fmt.Errorf("图片归属方非法: %w", ErrValidation)
	}
}

// ownerName 按归属方当前身份推导指定序号的规范名
func ownerName(component *model.Component, variant *model.ComponentVariant, position int) string {
	var colorName *string
	if variant != nil && variant.Color != nil {
		colorName = &variant.Color.Name
	}
	return GenerateAssetName(component.SupplierCode(), component.ProductNumber, colorName, position)
}

// AddPicture 新增图片
// 逻辑名取归属方身份 + 下一个序号；先上传文件再落行，
// 上传失败则整个操作失败，不留孤儿行
func (s *PictureService) AddPicture(ctx context.Context, owner model.OwnerRef, data []byte, contentType string, req *dto.AddPictureRequest) (*model.Picture, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("图片内容为空: %w", ErrValidation)
	}

	component, variant, err := s.resolveOwner(ctx, s.uow, owner)
	if err != nil {
		return nil, err
	}

	position, err := s.uow.Pictures.NextPosition(ctx, owner)
	if err != nil {
		return nil, err
	}

	name := ownerName(component, variant, position)
	ext, ok := extByContentType[contentType]
	if !ok {
		ext = ".jpg"
	}

	upload := s.assets.Upload(ctx, data, name+ext, contentType)
	if !upload.Success {
		return nil, fmt.Errorf("图片上传失败: %s", upload.Error)
	}

	picture := &model.Picture{
		Name:      name,
		Ext:       ext,
		URL:       upload.URL,
		Position:  position,
		IsPrimary: req.IsPrimary,
		AltText:   req.AltText,
	}
	picture.SetOwner(owner)

	if err := s.uow.Pictures.Create(ctx, picture); err != nil {
		// 行落库失败时尽力回收刚上传的文件
		s.assets.Delete(ctx, name+ext)
		return nil, err
	}
	return picture, nil
}

// DeletePicture 删除单张图片（行删除为准，文件尽力删除）
func (s *PictureService) DeletePicture(ctx context.Context, pictureID int64) (*dto.DeleteResult, error) {
	picture, err := s.uow.Pictures.GetByID(ctx, pictureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("图片 %d: %w", pictureID, ErrNotFound)
		}
		return nil, err
	}

	if err := s.uow.Pictures.Delete(ctx, picture.ID); err != nil {
		return nil, err
	}

	filesDeleted := dto.FilesDeleted{}
	if s.assets.Delete(ctx, picture.Filename()).Success {
		filesDeleted.Successful = 1
	} else {
		filesDeleted.Failed = 1
	}

	return &dto.DeleteResult{
		Success: true,
		Message: fmt.Sprintf("图片 %s 已删除", picture.Name),
		Summary: &dto.DeleteSummary{
			AssociationsDeleted: dto.AssociationsDeleted{Pictures: 1},
			FilesDeleted:        filesDeleted,
		},
	}, nil
}

// reorderMove 一次重排中单张图片的目标状态
type reorderMove struct {
	pic      *model.Picture
	position int
	newName  string
}

// ReorderPictures 重排归属方的图片
// orderedIDs 必须恰好覆盖归属方现有图片且不得重复；序号从 1 起
// 连续分配，序号变化会带出文件改名
func (s *PictureService) ReorderPictures(ctx context.Context, owner model.OwnerRef, orderedIDs []int64) (*dto.RenameOutcome, error) {
	outcome := &dto.RenameOutcome{FilesRenamed: []dto.FileRename{}}

	err := s.uow.Transaction(ctx, func(tx *repository.CatalogUnitOfWork) error {
		component, variant, err := s.resolveOwner(ctx, tx, owner)
		if err != nil {
			return err
		}

		pictures, err := tx.Pictures.GetByOwner(ctx, owner)
		if err != nil {
			return err
		}
		if len(orderedIDs) != len(pictures) {
			return fmt.Errorf("排序列表数量 %d 与现有图片 %d 不符: %w", len(orderedIDs), len(pictures), ErrValidation)
		}
		byID := make(map[int64]*model.Picture, len(pictures))
		for i := range pictures {
			byID[pictures[i].ID] = &pictures[i]
		}

		seen := make(map[int64]bool, len(orderedIDs))
		var moves []reorderMove
		for i, id := range orderedIDs {
			if seen[id] {
				return fmt.Errorf("图片 %d 在排序列表中重复: %w", id, ErrValidation)
			}
			seen[id] = true
			pic, ok := byID[id]
			if !ok {
				return fmt.Errorf("图片 %d 不属于该归属方: %w", id, ErrValidation)
			}
			position := i + 1
			if pic.Position == position {
				continue
			}
			moves = append(moves, reorderMove{
				pic:      pic,
				position: position,
				newName:  ownerName(component, variant, position),
			})
		}

		// 序号列有归属内唯一索引，先落到负数临时位避免交换时的瞬时冲突
		for _, m := range moves {
			if err := tx.Pictures.UpdateFields(ctx, m.pic.ID, map[string]interface{}{"position": -m.position}); err != nil {
				return err
			}
		}

		// 物理改名走两阶段：先全部挪到唯一临时名，再落到目标名。
		// 交换序号时目标名仍被另一张占用，直接移动会覆盖其二进制
		tmpNames := make([]string, len(moves))
		renames := make([]dto.FileRename, len(moves))
		for i, m := range moves {
			renames[i] = dto.FileRename{OldName: m.pic.Filename(), NewName: m.newName + m.pic.Ext, Status: "ok"}
			if m.newName == m.pic.Name {
				continue
			}
			tmpNames[i] = "reorder_" + uuid.NewString() + m.pic.Ext
			if result := s.assets.Move(ctx, m.pic.Filename(), tmpNames[i]); !result.Success {
				renames[i].Status = "failed: " + result.Error
				tmpNames[i] = ""
				logger.Get().Warn("图片重排移出失败，逻辑名照常更新",
					zap.Int64("picture_id", m.pic.ID),
					zap.String("old", m.pic.Filename()),
					zap.String("error", result.Error))
			}
		}

		for i, m := range moves {
			fields := map[string]interface{}{"position": m.position, "name": m.newName}
			if tmpNames[i] != "" {
				result := s.assets.Move(ctx, tmpNames[i], m.newName+m.pic.Ext)
				if result.Success {
					if result.NewURL != "" {
						fields["url"] = result.NewURL
					}
				} else {
					renames[i].Status = "failed: " + result.Error
					logger.Get().Warn("图片重排移入失败，文件滞留临时名",
						zap.Int64("picture_id", m.pic.ID),
						zap.String("tmp", tmpNames[i]),
						zap.String("new", m.newName+m.pic.Ext),
						zap.String("error", result.Error))
				}
			}
			if err := tx.Pictures.UpdateFields(ctx, m.pic.ID, fields); err != nil {
				return err
			}
			m.pic.Position = m.position
			m.pic.Name = m.newName
			if url, ok := fields["url"].(string); ok {
				m.pic.URL = url
			}
			outcome.FilesRenamed = append(outcome.FilesRenamed, renames[i])
		}
		outcome.Count = len(outcome.FilesRenamed)

		var variantID *int64
		if variant != nil {
			variantID = &variant.ID
		}
		s.renamer.recordLog(ctx, tx, component.ID, variantID, model.RenameTriggerReorder, outcome)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}
