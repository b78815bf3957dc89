package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/model"
)

// ==================== 仓储接口 ====================

// LookupRepository 查找型实体仓储接口
// find-or-create 统一在这里收口，品牌/分类/关键词/颜色的按名解析都走同一条路径
type LookupRepository interface {
	GetSupplierByID(ctx context.Context, id int64) (*model.Supplier, error)
	GetSupplierByCode(ctx context.Context, code string) (*model.Supplier, error)
	GetColorByID(ctx context.Context, id int64) (*model.Color, error)
	GetComponentTypeByID(ctx context.Context, id int64) (*model.ComponentType, error)

	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
	ListBrands(ctx context.Context) ([]model.Brand, error)
	ListColors(ctx context.Context) ([]model.Color, error)
	ListComponentTypes(ctx context.Context) ([]model.ComponentType, error)

	// FindOrCreate* 返回 (实体, 是否新建)
	FindOrCreateBrand(ctx context.Context, name string) (*model.Brand, bool, error)
	FindOrCreateCategory(ctx context.Context, name string) (*model.Category, bool, error)
	FindOrCreateKeyword(ctx context.Context, word string) (*model.Keyword, bool, error)
	FindOrCreateColor(ctx context.Context, name string) (*model.Color, bool, error)

	CreateSupplier(ctx context.Context, supplier *model.Supplier) error
	CreateComponentType(ctx context.Context, componentType *model.ComponentType) error
}

// ==================== 实现 ====================

type lookupRepo struct {
	db *gorm.DB
}

// NewLookupRepository 创建查找型实体仓储
func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepo{db: db}
}

func (r *lookupRepo) GetSupplierByID(ctx context.Context, id int64) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *lookupRepo) GetSupplierByCode(ctx context.Context, code string) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&supplier).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *lookupRepo) GetColorByID(ctx context.Context, id int64) (*model.Color, error) {
	var color model.Color
	if err := r.db.WithContext(ctx).First(&color, id).Error; err != nil {
		return nil, err
	}
	return &color, nil
}

func (r *lookupRepo) GetComponentTypeByID(ctx context.Context, id int64) (*model.ComponentType, error) {
	var componentType model.ComponentType
	if err := r.db.WithContext(ctx).First(&componentType, id).Error; err != nil {
		return nil, err
	}
	return &componentType, nil
}

func (r *lookupRepo) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.WithContext(ctx).Order("code ASC").Find(&suppliers).Error
	return suppliers, err
}

func (r *lookupRepo) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := r.db.WithContext(ctx).Preload("Subbrands").Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *lookupRepo) ListColors(ctx context.Context) ([]model.Color, error) {
	var colors []model.Color
	err := r.db.WithContext(ctx).Order("name ASC").Find(&colors).Error
	return colors, err
}

func (r *lookupRepo) ListComponentTypes(ctx context.Context) ([]model.ComponentType, error) {
	var types []model.ComponentType
	err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error
	return types, err
}

// findOrCreate 按唯一列查找，不存在则创建
// dest 必须是模型指针，query/attrs 为查找与创建参数
func (r *lookupRepo) findOrCreate(ctx context.Context, dest interface{}, query string, arg interface{}, create func() error) (bool, error) {
	err := r.db.WithContext(ctx).Where(query, arg).First(dest).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := create(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *lookupRepo) FindOrCreateBrand(ctx context.Context, name string) (*model.Brand, bool, error) {
	brand := &model.Brand{}
	created, err := r.findOrCreate(ctx, brand, "name = ?", name, func() error {
		brand.Name = name
		return r.db.WithContext(ctx).Create(brand).Error
	})
	if err != nil {
		return nil, false, err
	}
	return brand, created, nil
}

func (r *lookupRepo) FindOrCreateCategory(ctx context.Context, name string) (*model.Category, bool, error) {
	category := &model.Category{}
	created, err := r.findOrCreate(ctx, category, "name = ?", name, func() error {
		category.Name = name
		return r.db.WithContext(ctx).Create(category).Error
	})
	if err != nil {
		return nil, false, err
	}
	return category, created, nil
}

func (r *lookupRepo) FindOrCreateKeyword(ctx context.Context, word string) (*model.Keyword, bool, error) {
	keyword := &model.Keyword{}
	created, err := r.findOrCreate(ctx, keyword, "word = ?", word, func() error {
		keyword.Word = word
		return r.db.WithContext(ctx).Create(keyword).Error
	})
	if err != nil {
		return nil, false, err
	}
	return keyword, created, nil
}

func (r *lookupRepo) FindOrCreateColor(ctx context.Context, name string) (*model.Color, bool, error) {
	color := &model.Color{}
	created, err := r.findOrCreate(ctx, color, "name = ?", name, func() error {
		color.Name = name
		return r.db.WithContext(ctx).Create(color).Error
	})
	if err != nil {
		return nil, false, err
	}
	return color, created, nil
}

func (r *lookupRepo) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *lookupRepo) CreateComponentType(ctx context.Context, componentType *model.ComponentType) error {
	return r.db.WithContext(ctx).Create(componentType).Error
}
