package repository

import (
	"context"
	"errors"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"component_catalog_v1_202609/internal/model"
)

// ==================== 测试辅助函数 ====================

func setupRepoTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	err = db.AutoMigrate(
		&model.Supplier{}, &model.Brand{}, &model.Category{}, &model.Keyword{},
		&model.Color{}, &model.ComponentType{},
		&model.Component{}, &model.ComponentVariant{}, &model.Picture{},
		&model.ComponentBrand{}, &model.ComponentCategory{}, &model.ComponentKeyword{},
	)
	if err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func seedComponent(t *testing.T, db *gorm.DB, productNumber string, supplierID *int64) *model.Component {
	// 同一测试内可能按同一货号播种多次，类型按名复用
	componentType := &model.ComponentType{}
	if err := db.Where(model.ComponentType{Name: "Type-" + productNumber}).FirstOrCreate(componentType).Error; err != nil {
		t.Fatalf("类型写入失败: %v", err)
	}
	c := &model.Component{ProductNumber: productNumber, SupplierID: supplierID, ComponentTypeID: componentType.ID}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("部件写入失败: %v", err)
	}
	return c
}

// ==================== ExistsByIdentity 测试 ====================

func TestComponentRepo_ExistsByIdentity(t *testing.T) {
	db := setupRepoTestDB(t)
	repo := NewComponentRepository(db)
	ctx := context.Background()

	supplier := &model.Supplier{Code: "SUP-01", Name: "供应商"}
	if err := db.Create(supplier).Error; err != nil {
		t.Fatalf("供应商写入失败: %v", err)
	}

	withSupplier := seedComponent(t, db, "PN-100", &supplier.ID)
	noSupplier := seedComponent(t, db, "PN-100", nil)

	// 有供应商身份
	exists, err := repo.ExistsByIdentity(ctx, "PN-100", &supplier.ID, 0)
	if err != nil || !exists {
		t.Errorf("有供应商身份应命中, exists=%v err=%v", exists, err)
	}

	// 无供应商只与无供应商行比对
	exists, _ = repo.ExistsByIdentity(ctx, "PN-100", nil, 0)
	if !exists {
		t.Error("无供应商身份应命中无供应商行")
	}
	exists, _ = repo.ExistsByIdentity(ctx, "PN-100", nil, noSupplier.ID)
	if exists {
		t.Error("排除自身后无供应商行不应命中")
	}

	// 排除自身
	exists, _ = repo.ExistsByIdentity(ctx, "PN-100", &supplier.ID, withSupplier.ID)
	if exists {
		t.Error("排除自身后不应命中")
	}

	// 不存在的身份
	exists, _ = repo.ExistsByIdentity(ctx, "PN-999", &supplier.ID, 0)
	if exists {
		t.Error("不存在的货号不应命中")
	}
}

// ==================== Picture 仓储测试 ====================

func TestPictureRepo_OwnerScoping(t *testing.T) {
	db := setupRepoTestDB(t)
	pictures := NewPictureRepository(db)
	ctx := context.Background()

	component := seedComponent(t, db, "PN-100", nil)
	color := &model.Color{Name: "Red"}
	db.Create(color)
	variant := &model.ComponentVariant{ComponentID: component.ID, ColorID: color.ID}
	db.Create(variant)

	componentOwner := model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID}
	variantOwner := model.OwnerRef{Kind: model.OwnerVariant, ID: variant.ID}

	for i := 3; i >= 1; i-- {
		p := &model.Picture{Name: "c", Ext: ".jpg", Position: i}
		p.SetOwner(componentOwner)
		if err := pictures.Create(ctx, p); err != nil {
			t.Fatalf("图片写入失败: %v", err)
		}
	}
	vp := &model.Picture{Name: "v", Ext: ".jpg", Position: 1}
	vp.SetOwner(variantOwner)
	if err := pictures.Create(ctx, vp); err != nil {
		t.Fatalf("变体图片写入失败: %v", err)
	}

	// 按归属取图且按 position 升序
	got, err := pictures.GetByOwner(ctx, componentOwner)
	if err != nil {
		t.Fatalf("GetByOwner() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("直属图数 = %d, want 3", len(got))
	}
	for i, p := range got {
		if p.Position != i+1 {
			t.Errorf("第 %d 张 position = %d", i, p.Position)
		}
	}

	// NextPosition = max+1
	next, err := pictures.NextPosition(ctx, componentOwner)
	if err != nil || next != 4 {
		t.Errorf("NextPosition = %d (%v), want 4", next, err)
	}
	next, _ = pictures.NextPosition(ctx, model.OwnerRef{Kind: model.OwnerVariant, ID: 9999})
	if next != 1 {
		t.Errorf("空归属 NextPosition = %d, want 1", next)
	}

	// 按归属删除并返回行数
	n, err := pictures.DeleteByOwner(ctx, componentOwner)
	if err != nil || n != 3 {
		t.Errorf("DeleteByOwner = %d (%v), want 3", n, err)
	}
	remaining, _ := pictures.GetByOwner(ctx, variantOwner)
	if len(remaining) != 1 {
		t.Errorf("变体图应幸存, got %d", len(remaining))
	}
}

// 图片必须且只能归属一方
func TestPictureRepo_OwnerXOR(t *testing.T) {
	db := setupRepoTestDB(t)
	pictures := NewPictureRepository(db)
	ctx := context.Background()

	component := seedComponent(t, db, "PN-100", nil)

	// 两边都空
	if err := pictures.Create(ctx, &model.Picture{Name: "x", Ext: ".jpg", Position: 1}); !errors.Is(err, model.ErrPictureOwner) {
		t.Errorf("无归属应拒绝, got %v", err)
	}

	// 两边都有
	id := component.ID
	bad := &model.Picture{ComponentID: &id, VariantID: &id, Name: "x", Ext: ".jpg", Position: 1}
	if err := pictures.Create(ctx, bad); !errors.Is(err, model.ErrPictureOwner) {
		t.Errorf("双归属应拒绝, got %v", err)
	}
}

// map 式 Updates 不携带归属外键，不得触发归属校验
func TestPictureRepo_UpdateFieldsKeepsOwnerCheckOut(t *testing.T) {
	db := setupRepoTestDB(t)
	pictures := NewPictureRepository(db)
	ctx := context.Background()

	component := seedComponent(t, db, "PN-100", nil)
	p := &model.Picture{Name: "pn_100_1", Ext: ".jpg", Position: 1}
	p.SetOwner(model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID})
	if err := pictures.Create(ctx, p); err != nil {
		t.Fatalf("图片写入失败: %v", err)
	}

	err := pictures.UpdateFields(ctx, p.ID, map[string]interface{}{"name": "pn_200_1", "position": 2})
	if err != nil {
		t.Fatalf("UpdateFields() error = %v", err)
	}

	got, err := pictures.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("回读失败: %v", err)
	}
	if got.Name != "pn_200_1" || got.Position != 2 {
		t.Errorf("更新未生效: name=%q position=%d", got.Name, got.Position)
	}
	if got.ComponentID == nil || *got.ComponentID != component.ID {
		t.Errorf("归属不应被改动: %+v", got.Owner())
	}
}

// 同归属下序号唯一由复合索引兜底
func TestPictureRepo_PositionUniquePerOwner(t *testing.T) {
	db := setupRepoTestDB(t)
	pictures := NewPictureRepository(db)
	ctx := context.Background()

	component := seedComponent(t, db, "PN-100", nil)
	owner := model.OwnerRef{Kind: model.OwnerComponent, ID: component.ID}

	first := &model.Picture{Name: "pn_100_1", Ext: ".jpg", Position: 1}
	first.SetOwner(owner)
	if err := pictures.Create(ctx, first); err != nil {
		t.Fatalf("图片写入失败: %v", err)
	}

	dup := &model.Picture{Name: "pn_100_dup", Ext: ".jpg", Position: 1}
	dup.SetOwner(owner)
	if err := pictures.Create(ctx, dup); err == nil {
		t.Error("同归属同序号应被唯一索引拒绝")
	}

	// 另一归属侧不受影响
	other := seedComponent(t, db, "PN-200", nil)
	ok := &model.Picture{Name: "pn_200_1", Ext: ".jpg", Position: 1}
	ok.SetOwner(model.OwnerRef{Kind: model.OwnerComponent, ID: other.ID})
	if err := pictures.Create(ctx, ok); err != nil {
		t.Errorf("不同归属同序号应允许: %v", err)
	}
}

// ==================== 关联仓储测试 ====================

func TestAssociationRepo_Brands(t *testing.T) {
	db := setupRepoTestDB(t)
	assoc := NewAssociationRepository(db)
	ctx := context.Background()

	component := seedComponent(t, db, "PN-100", nil)
	a := &model.Brand{Name: "Acme"}
	b := &model.Brand{Name: "Globex"}
	db.Create(a)
	db.Create(b)

	if err := assoc.AddBrands(ctx, component.ID, []int64{a.ID, b.ID}); err != nil {
		t.Fatalf("AddBrands() error = %v", err)
	}
	ids, err := assoc.BrandIDs(ctx, component.ID)
	if err != nil || len(ids) != 2 {
		t.Fatalf("BrandIDs = %v (%v)", ids, err)
	}

	if err := assoc.RemoveBrands(ctx, component.ID, []int64{a.ID}); err != nil {
		t.Fatalf("RemoveBrands() error = %v", err)
	}
	ids, _ = assoc.BrandIDs(ctx, component.ID)
	if len(ids) != 1 || ids[0] != b.ID {
		t.Errorf("移除后 BrandIDs = %v", ids)
	}

	n, err := assoc.DeleteAllBrands(ctx, component.ID)
	if err != nil || n != 1 {
		t.Errorf("DeleteAllBrands = %d (%v), want 1", n, err)
	}
}

// ==================== 查找档案仓储测试 ====================

func TestLookupRepo_FindOrCreate(t *testing.T) {
	db := setupRepoTestDB(t)
	lookups := NewLookupRepository(db)
	ctx := context.Background()

	brand, created, err := lookups.FindOrCreateBrand(ctx, "Acme")
	if err != nil || !created {
		t.Fatalf("首次应建档, created=%v err=%v", created, err)
	}

	again, created, err := lookups.FindOrCreateBrand(ctx, "Acme")
	if err != nil || created {
		t.Fatalf("二次应复用, created=%v err=%v", created, err)
	}
	if again.ID != brand.ID {
		t.Errorf("复用的 ID = %d, want %d", again.ID, brand.ID)
	}

	color, created, err := lookups.FindOrCreateColor(ctx, "Navy Blue")
	if err != nil || !created || color.ID == 0 {
		t.Fatalf("颜色建档失败: created=%v err=%v", created, err)
	}
}

// ==================== 工作单元测试 ====================

func TestCatalogUnitOfWork_TransactionRollback(t *testing.T) {
	db := setupRepoTestDB(t)
	uow := NewCatalogUnitOfWork(db)
	ctx := context.Background()

	componentType := &model.ComponentType{Name: "Zipper"}
	db.Create(componentType)

	boom := errors.New("故意失败")
	err := uow.Transaction(ctx, func(tx *CatalogUnitOfWork) error {
		if err := tx.Components.Create(ctx, &model.Component{
			ProductNumber: "PN-100", ComponentTypeID: componentType.ID,
		}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("事务应返回内部错误, got %v", err)
	}

	var count int64
	db.Model(&model.Component{}).Count(&count)
	if count != 0 {
		t.Errorf("回滚后不应有部件行, count = %d", count)
	}
}
