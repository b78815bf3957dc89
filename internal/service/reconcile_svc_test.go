package service

import (
	"context"
	"sort"
	"testing"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
)

// ==================== 关联调和测试 ====================

func seedReconcileFixture(t *testing.T) (*gorm.DB, *repository.CatalogUnitOfWork, *model.Component, []int64) {
	db := setupCatalogTestDB(t)
	fixture := seedLookups(t, db)

	component := &model.Component{ProductNumber: "PN-100", ComponentTypeID: fixture.Type.ID}
	if err := db.Create(component).Error; err != nil {
		t.Fatalf("部件写入失败: %v", err)
	}

	uow := repository.NewCatalogUnitOfWork(db)
	brandIDs := make([]int64, 0, 3)
	for _, name := range []string{"Acme", "Globex", "Initech"} {
		brand, _, err := uow.Lookups.FindOrCreateBrand(context.Background(), name)
		if err != nil {
			t.Fatalf("品牌建档失败: %v", err)
		}
		brandIDs = append(brandIDs, brand.ID)
	}
	return db, uow, component, brandIDs
}

func currentBrandIDs(t *testing.T, uow *repository.CatalogUnitOfWork, componentID int64) []int64 {
	ids, err := uow.Associations.BrandIDs(context.Background(), componentID)
	if err != nil {
		t.Fatalf("查品牌关联失败: %v", err)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func TestReconcileBrands_MinimalDiff(t *testing.T) {
	_, uow, component, brands := seedReconcileFixture(t)
	reconciler := NewAssociationReconciler()
	ctx := context.Background()

	// 现状 {1,2}
	if err := uow.Associations.AddBrands(ctx, component.ID, []int64{brands[0], brands[1]}); err != nil {
		t.Fatalf("初始关联失败: %v", err)
	}

	// 目标 {2,3}：应恰好删 1 加 1
	if err := reconciler.ReconcileBrands(ctx, uow, component.ID, []int64{brands[1], brands[2]}); err != nil {
		t.Fatalf("ReconcileBrands() error = %v", err)
	}

	got := currentBrandIDs(t, uow, component.ID)
	want := []int64{brands[1], brands[2]}
	sort.Slice(want, func(i, j int) bool { return want[i] < want[j] })
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("关联结果 = %v, want %v", got, want)
	}
}

// 调和不重建幸存行：交集行的关联建立时间不被刷新
func TestReconcileBrands_SurvivorKeepsCreatedAt(t *testing.T) {
	db, uow, component, brands := seedReconcileFixture(t)
	reconciler := NewAssociationReconciler()
	ctx := context.Background()

	if err := uow.Associations.AddBrands(ctx, component.ID, []int64{brands[0], brands[1]}); err != nil {
		t.Fatalf("初始关联失败: %v", err)
	}

	var survivor model.ComponentBrand
	if err := db.Where("component_id = ? AND brand_id = ?", component.ID, brands[1]).
		First(&survivor).Error; err != nil {
		t.Fatalf("查幸存行失败: %v", err)
	}

	if err := reconciler.ReconcileBrands(ctx, uow, component.ID, []int64{brands[1], brands[2]}); err != nil {
		t.Fatalf("ReconcileBrands() error = %v", err)
	}

	var after model.ComponentBrand
	if err := db.Where("component_id = ? AND brand_id = ?", component.ID, brands[1]).
		First(&after).Error; err != nil {
		t.Fatalf("查幸存行失败: %v", err)
	}
	if after.ID != survivor.ID {
		t.Errorf("幸存行被重建: id %d → %d", survivor.ID, after.ID)
	}
	if !after.CreatedAt.Equal(survivor.CreatedAt) {
		t.Errorf("幸存行创建时间被刷新: %v → %v", survivor.CreatedAt, after.CreatedAt)
	}
}

func TestReconcileBrands_EmptyDesiredClearsAll(t *testing.T) {
	_, uow, component, brands := seedReconcileFixture(t)
	reconciler := NewAssociationReconciler()
	ctx := context.Background()

	if err := uow.Associations.AddBrands(ctx, component.ID, brands); err != nil {
		t.Fatalf("初始关联失败: %v", err)
	}
	if err := reconciler.ReconcileBrands(ctx, uow, component.ID, []int64{}); err != nil {
		t.Fatalf("ReconcileBrands() error = %v", err)
	}
	if got := currentBrandIDs(t, uow, component.ID); len(got) != 0 {
		t.Errorf("空目标集应清空全部关联, got %v", got)
	}
}

func TestReconcileKeywords_ResolvesWords(t *testing.T) {
	db, uow, component, _ := seedReconcileFixture(t)
	reconciler := NewAssociationReconciler()
	ctx := context.Background()

	if err := reconciler.ReconcileKeywords(ctx, uow, component.ID, []string{"zipper", "metal"}); err != nil {
		t.Fatalf("ReconcileKeywords() error = %v", err)
	}
	ids, _ := uow.Associations.KeywordIDs(ctx, component.ID)
	if len(ids) != 2 {
		t.Fatalf("关键词关联数 = %d, want 2", len(ids))
	}

	// 换一个词：zipper 幸存，metal 删，plastic 新建档并关联
	if err := reconciler.ReconcileKeywords(ctx, uow, component.ID, []string{"zipper", "plastic"}); err != nil {
		t.Fatalf("ReconcileKeywords() error = %v", err)
	}
	ids, _ = uow.Associations.KeywordIDs(ctx, component.ID)
	if len(ids) != 2 {
		t.Errorf("关键词关联数 = %d, want 2", len(ids))
	}

	// 词档案只增不减
	var total int64
	db.Model(&model.Keyword{}).Count(&total)
	if total != 3 {
		t.Errorf("关键词档案数 = %d, want 3", total)
	}
}
