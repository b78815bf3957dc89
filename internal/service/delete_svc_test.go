package service

import (
	"context"
	"errors"
	"testing"

	"component_catalog_v1_202609/internal/repository"
)

// ==================== 级联删除测试 ====================

func TestDeletionCascade_DeleteComponent(t *testing.T) {
	uow, component := seedRenameFixture(t)
	ctx := context.Background()

	// 挂两个品牌关联
	for _, name := range []string{"Acme", "Globex"} {
		brand, _, err := uow.Lookups.FindOrCreateBrand(ctx, name)
		if err != nil {
			t.Fatalf("品牌建档失败: %v", err)
		}
		if err := uow.Associations.AddBrands(ctx, component.ID, []int64{brand.ID}); err != nil {
			t.Fatalf("品牌关联失败: %v", err)
		}
	}

	assets := &mockAssets{}
	cascade := NewDeletionCascade(uow, assets)

	summary, err := cascade.DeleteComponent(ctx, component.ID)
	if err != nil {
		t.Fatalf("DeleteComponent() error = %v", err)
	}

	if summary.ProductNumber != "PN-100" {
		t.Errorf("ProductNumber = %q", summary.ProductNumber)
	}
	if summary.AssociationsDeleted.Variants != 2 {
		t.Errorf("变体删除数 = %d, want 2", summary.AssociationsDeleted.Variants)
	}
	if summary.AssociationsDeleted.Pictures != 3 {
		t.Errorf("图片删除数 = %d, want 3", summary.AssociationsDeleted.Pictures)
	}
	if summary.AssociationsDeleted.Brands != 2 {
		t.Errorf("品牌关联删除数 = %d, want 2", summary.AssociationsDeleted.Brands)
	}
	if summary.FilesDeleted.Successful != 3 {
		t.Errorf("文件删除成功数 = %d, want 3", summary.FilesDeleted.Successful)
	}

	// 部件行已删
	if _, err := uow.Components.GetByID(ctx, component.ID); err == nil {
		t.Error("部件行应已删除")
	}

	// 查找型实体全部幸存
	brands, err := uow.Lookups.ListBrands(ctx)
	if err != nil || len(brands) != 2 {
		t.Errorf("品牌档案应幸存, got %d (%v)", len(brands), err)
	}
	colors, _ := uow.Lookups.ListColors(ctx)
	if len(colors) != 2 {
		t.Errorf("颜色档案应幸存, got %d", len(colors))
	}
	suppliers, _ := uow.Lookups.ListSuppliers(ctx)
	if len(suppliers) != 1 {
		t.Errorf("供应商档案应幸存, got %d", len(suppliers))
	}
}

func TestDeletionCascade_FileFailuresDoNotFailOperation(t *testing.T) {
	uow, component := seedRenameFixture(t)
	assets := &mockAssets{
		deleteFn: func(filename string) DeleteFileResult {
			return DeleteFileResult{Success: false, Error: "存储不可达"}
		},
	}
	cascade := NewDeletionCascade(uow, assets)
	ctx := context.Background()

	summary, err := cascade.DeleteComponent(ctx, component.ID)
	if err != nil {
		t.Fatalf("文件全失败也应成功, got %v", err)
	}
	if summary.FilesDeleted.Failed != 3 || summary.FilesDeleted.Successful != 0 {
		t.Errorf("FilesDeleted = %+v", summary.FilesDeleted)
	}

	// 行删除照常
	if _, err := uow.Components.GetByID(ctx, component.ID); err == nil {
		t.Error("部件行应已删除")
	}
	var count int64
	if err := uowPictureCount(ctx, uow, &count); err != nil {
		t.Fatalf("计数失败: %v", err)
	}
	if count != 0 {
		t.Errorf("图片行应全部删除, count = %d", count)
	}
}

func uowPictureCount(ctx context.Context, uow *repository.CatalogUnitOfWork, count *int64) error {
	pics, err := uow.Pictures.ListPage(ctx, 0, 100)
	if err != nil {
		return err
	}
	*count = int64(len(pics))
	return nil
}

func TestDeletionCascade_NotFound(t *testing.T) {
	db := setupCatalogTestDB(t)
	uow := repository.NewCatalogUnitOfWork(db)
	assets := &mockAssets{}
	cascade := NewDeletionCascade(uow, assets)

	_, err := cascade.DeleteComponent(context.Background(), 424242)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("应返回 ErrNotFound, got %v", err)
	}
	if len(assets.deletes) != 0 {
		t.Errorf("不存在的部件不应触发任何文件删除, got %v", assets.deletes)
	}
}
