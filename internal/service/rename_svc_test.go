package service

import (
	"context"
	"encoding/json"
	"testing"

	"component_catalog_v1_202609/internal/model"
	"component_catalog_v1_202609/internal/repository"
)

// ==================== 级联改名测试 ====================

// 搭一个带直属图 + 两个变体（各一张图）的部件
func seedRenameFixture(t *testing.T) (*repository.CatalogUnitOfWork, *model.Component) {
	db := setupCatalogTestDB(t)
	fixture := seedLookups(t, db)

	red := &model.Color{Name: "Red"}
	if err := db.Create(red).Error; err != nil {
		t.Fatalf("颜色写入失败: %v", err)
	}

	component := &model.Component{
		ProductNumber:   "PN-100",
		SupplierID:      &fixture.Supplier.ID,
		ComponentTypeID: fixture.Type.ID,
	}
	if err := db.Create(component).Error; err != nil {
		t.Fatalf("部件写入失败: %v", err)
	}

	v1 := &model.ComponentVariant{ComponentID: component.ID, ColorID: fixture.Color.ID, DisplayName: "Navy"}
	v2 := &model.ComponentVariant{ComponentID: component.ID, ColorID: red.ID, DisplayName: "Red"}
	for _, v := range []*model.ComponentVariant{v1, v2} {
		if err := db.Create(v).Error; err != nil {
			t.Fatalf("变体写入失败: %v", err)
		}
	}

	componentID := component.ID
	pics := []*model.Picture{
		{ComponentID: &componentID, Name: "sup_01_pn_100_1", Ext: ".jpg", Position: 1},
		{VariantID: &v1.ID, Name: "sup_01_pn_100_navy_blue_1", Ext: ".jpg", Position: 1},
		{VariantID: &v2.ID, Name: "sup_01_pn_100_red_1", Ext: ".png", Position: 1},
	}
	for _, p := range pics {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("图片写入失败: %v", err)
		}
	}

	uow := repository.NewCatalogUnitOfWork(db)
	deep, err := uow.Components.GetDeep(context.Background(), component.ID)
	if err != nil {
		t.Fatalf("GetDeep 失败: %v", err)
	}
	return uow, deep
}

func TestRenameCascade_ComponentIdentityChange(t *testing.T) {
	uow, component := seedRenameFixture(t)
	assets := &mockAssets{}
	engine := NewRenameCascade(assets)
	ctx := context.Background()

	// 货号变更后按最终身份一次遍历
	component.ProductNumber = "PN-200"
	outcome, err := engine.CascadeComponent(ctx, uow, component)
	if err != nil {
		t.Fatalf("CascadeComponent() error = %v", err)
	}
	if outcome.Count != 3 {
		t.Fatalf("改名数 = %d, want 3", outcome.Count)
	}

	wantMoves := map[string]string{
		"sup_01_pn_100_1.jpg":           "sup_01_pn_200_1.jpg",
		"sup_01_pn_100_navy_blue_1.jpg": "sup_01_pn_200_navy_blue_1.jpg",
		"sup_01_pn_100_red_1.png":       "sup_01_pn_200_red_1.png",
	}
	for _, move := range assets.moves {
		if wantMoves[move[0]] != move[1] {
			t.Errorf("物理移动 %q → %q 不在预期内", move[0], move[1])
		}
		delete(wantMoves, move[0])
	}
	if len(wantMoves) != 0 {
		t.Errorf("缺少的移动: %v", wantMoves)
	}

	// 行已更新
	pics, err := uow.Pictures.GetByOwner(ctx, model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID})
	if err != nil {
		t.Fatalf("查图失败: %v", err)
	}
	if pics[0].Name != "sup_01_pn_200_1" {
		t.Errorf("直属图逻辑名 = %q", pics[0].Name)
	}
}

func TestRenameCascade_FixedPoint(t *testing.T) {
	uow, component := seedRenameFixture(t)
	assets := &mockAssets{}
	engine := NewRenameCascade(assets)

	// 身份没变：所有名字已是规范名，不应有任何移动
	outcome, err := engine.CascadeComponent(context.Background(), uow, component)
	if err != nil {
		t.Fatalf("CascadeComponent() error = %v", err)
	}
	if outcome.Count != 0 {
		t.Errorf("不动点应零改名, got %d", outcome.Count)
	}
	if len(assets.moves) != 0 {
		t.Errorf("不应有物理移动, got %v", assets.moves)
	}
}

func TestRenameCascade_MoveFailureStillUpdatesRow(t *testing.T) {
	uow, component := seedRenameFixture(t)
	assets := &mockAssets{
		moveFn: func(oldFilename, newFilename string) MoveResult {
			return MoveResult{Success: false, Error: "存储不可达"}
		},
	}
	engine := NewRenameCascade(assets)
	ctx := context.Background()

	component.ProductNumber = "PN-300"
	outcome, err := engine.CascadeComponent(ctx, uow, component)
	if err != nil {
		t.Fatalf("CascadeComponent() error = %v", err)
	}

	// 移动全失败，操作照常完成
	for _, rename := range outcome.FilesRenamed {
		if rename.Status == "ok" {
			t.Errorf("移动失败时状态不应为 ok: %+v", rename)
		}
	}

	// 逻辑名以数据库为准，照常更新
	pics, _ := uow.Pictures.GetByOwner(ctx, model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID})
	if pics[0].Name != "sup_01_pn_300_1" {
		t.Errorf("移动失败也应更新逻辑名, got %q", pics[0].Name)
	}
}

func TestRenameCascade_VariantScope(t *testing.T) {
	uow, component := seedRenameFixture(t)
	assets := &mockAssets{}
	engine := NewRenameCascade(assets)
	ctx := context.Background()

	// 把第一个变体的颜色换掉，只有它自己的图受影响
	variant := &component.Variants[0]
	green, _, err := uow.Lookups.FindOrCreateColor(ctx, "Green")
	if err != nil {
		t.Fatalf("颜色建档失败: %v", err)
	}
	variant.ColorID = green.ID
	variant.Color = green

	outcome, err := engine.CascadeVariant(ctx, uow, component, variant)
	if err != nil {
		t.Fatalf("CascadeVariant() error = %v", err)
	}
	if outcome.Count != 1 {
		t.Fatalf("应只改名 1 张, got %d", outcome.Count)
	}
	if assets.moves[0][1] != "sup_01_pn_100_green_1.jpg" {
		t.Errorf("新文件名 = %q", assets.moves[0][1])
	}

	// 直属图与另一变体的图原样
	componentPics, _ := uow.Pictures.GetByOwner(ctx, model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID})
	if componentPics[0].Name != "sup_01_pn_100_1" {
		t.Errorf("直属图不应被改名, got %q", componentPics[0].Name)
	}
	otherPics, _ := uow.Pictures.GetByOwner(ctx, model.OwnerRef{Kind: model.OwnerVariant, ID: component.Variants[1].ID})
	if otherPics[0].Name != "sup_01_pn_100_red_1" {
		t.Errorf("其他变体的图不应被改名, got %q", otherPics[0].Name)
	}
}

func TestRenameCascade_WritesLog(t *testing.T) {
	uow, component := seedRenameFixture(t)
	assets := &mockAssets{
		moveFn: func(oldFilename, newFilename string) MoveResult {
			if oldFilename == "sup_01_pn_100_red_1.png" {
				return MoveResult{Success: false, Error: "存储不可达"}
			}
			return MoveResult{Success: true}
		},
	}
	engine := NewRenameCascade(assets)
	ctx := context.Background()

	component.ProductNumber = "PN-400"
	if _, err := engine.CascadeComponent(ctx, uow, component); err != nil {
		t.Fatalf("CascadeComponent() error = %v", err)
	}

	logs, err := uow.RenameLogs.ListByComponent(ctx, component.ID)
	if err != nil {
		t.Fatalf("查流水失败: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("流水条数 = %d, want 1", len(logs))
	}
	entry := logs[0]
	if entry.Trigger != model.RenameTriggerComponent {
		t.Errorf("触发来源 = %q", entry.Trigger)
	}
	if entry.Count != 3 || entry.Failed != 1 {
		t.Errorf("计数 = (%d, %d), want (3, 1)", entry.Count, entry.Failed)
	}

	var details []struct {
		OldName string `json:"old_name"`
		Status  string `json:"status"`
	}
	if err := json.Unmarshal(entry.Details, &details); err != nil {
		t.Fatalf("解析快照失败: %v", err)
	}
	if len(details) != 3 {
		t.Errorf("快照条数 = %d, want 3", len(details))
	}
}

func TestRenameCascade_FixedPointSkipsLog(t *testing.T) {
	uow, component := seedRenameFixture(t)
	engine := NewRenameCascade(&mockAssets{})

	if _, err := engine.CascadeComponent(context.Background(), uow, component); err != nil {
		t.Fatalf("CascadeComponent() error = %v", err)
	}

	logs, err := uow.RenameLogs.ListByComponent(context.Background(), component.ID)
	if err != nil {
		t.Fatalf("查流水失败: %v", err)
	}
	if len(logs) != 0 {
		t.Errorf("零改名不应落流水, got %d", len(logs))
	}
}
