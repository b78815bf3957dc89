package repository

import (
	"context"

	"gorm.io/gorm"

	"component_catalog_v1_202609/internal/model"
)

// ==================== 仓储接口 ====================

// ComponentRepository 部件仓储接口
type ComponentRepository interface {
	Create(ctx context.Context, component *model.Component) error
	GetByID(ctx context.Context, id int64) (*model.Component, error)
	// GetDeep 带全部下级（变体、图片、关联）加载
	GetDeep(ctx context.Context, id int64) (*model.Component, error)
	Update(ctx context.Context, component *model.Component) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ComponentFilter) ([]model.Component, int64, error)

	// ExistsByIdentity 身份唯一性检查
	// supplierID 为 nil 时仅与其他无供应商行比对；excludeID > 0 时排除自身
	ExistsByIdentity(ctx context.Context, productNumber string, supplierID *int64, excludeID int64) (bool, error)
}

// VariantRepository 色彩变体仓储接口
type VariantRepository interface {
	Create(ctx context.Context, variant *model.ComponentVariant) error
	GetByID(ctx context.Context, id int64) (*model.ComponentVariant, error)
	Update(ctx context.Context, variant *model.ComponentVariant) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	GetByComponentID(ctx context.Context, componentID int64) ([]model.ComponentVariant, error)
	DeleteByComponentID(ctx context.Context, componentID int64) (int64, error)

	// ExistsColor 同部件同颜色唯一性检查
	ExistsColor(ctx context.Context, componentID, colorID, excludeID int64) (bool, error)
}

// PictureRepository 图片仓储接口
type PictureRepository interface {
	Create(ctx context.Context, picture *model.Picture) error
	GetByID(ctx context.Context, id int64) (*model.Picture, error)
	Update(ctx context.Context, picture *model.Picture) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error

	// GetByOwner 按归属（部件直属或变体）取图，按 position 升序
	GetByOwner(ctx context.Context, owner model.OwnerRef) ([]model.Picture, error)
	DeleteByOwner(ctx context.Context, owner model.OwnerRef) (int64, error)
	NextPosition(ctx context.Context, owner model.OwnerRef) (int, error)

	// ListPage 全量分页，供命名稽核任务扫描
	ListPage(ctx context.Context, offset, limit int) ([]model.Picture, error)
}

// ==================== 过滤条件 ====================

// ComponentFilter 部件列表过滤条件
type ComponentFilter struct {
	SupplierID      int64
	ComponentTypeID int64
	Keyword         string // 匹配 product_number / description
	Page            int
	PageSize        int
}

// ==================== Component 仓储实现 ====================

type componentRepo struct {
	db *gorm.DB
}

// NewComponentRepository 创建部件仓储
func NewComponentRepository(db *gorm.DB) ComponentRepository {
	return &componentRepo{db: db}
}

func (r *componentRepo) Create(ctx context.Context, component *model.Component) error {
	return r.db.WithContext(ctx).Create(component).Error
}

func (r *componentRepo) GetByID(ctx context.Context, id int64) (*model.Component, error) {
	var component model.Component
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("ComponentType").
		First(&component, id).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *componentRepo) GetDeep(ctx context.Context, id int64) (*model.Component, error) {
	var component model.Component
	err := r.db.WithContext(ctx).
		Preload("Supplier").
		Preload("ComponentType").
		Preload("Variants").
		Preload("Variants.Color").
		Preload("Variants.Pictures").
		Preload("Pictures").
		Preload("Brands").
		Preload("Brands.Brand").
		Preload("Categories").
		Preload("Categories.Category").
		Preload("Keywords").
		Preload("Keywords.Keyword").
		First(&component, id).Error
	if err != nil {
		return nil, err
	}
	return &component, nil
}

func (r *componentRepo) Update(ctx context.Context, component *model.Component) error {
	return r.db.WithContext(ctx).Save(component).Error
}

func (r *componentRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Component{}).Where("id = ?", id).Updates(fields).Error
}

func (r *componentRepo) Delete(ctx context.Context, id int64) error {
	// 级联编排由服务层负责，这里只删部件行本身
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Component{}, id).Error
}

func (r *componentRepo) List(ctx context.Context, filter ComponentFilter) ([]model.Component, int64, error) {
	var components []model.Component
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Component{})

	if filter.SupplierID > 0 {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.ComponentTypeID > 0 {
		query = query.Where("component_type_id = ?", filter.ComponentTypeID)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("product_number LIKE ? OR description LIKE ?", like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Preload("Supplier").
		Order("updated_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&components).Error

	return components, total, err
}

func (r *componentRepo) ExistsByIdentity(ctx context.Context, productNumber string, supplierID *int64, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Component{}).Where("product_number = ?", productNumber)
	if supplierID == nil {
		query = query.Where("supplier_id IS NULL")
	} else {
		query = query.Where("supplier_id = ?", *supplierID)
	}
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ==================== Variant 仓储实现 ====================

type variantRepo struct {
	db *gorm.DB
}

// NewVariantRepository 创建变体仓储
func NewVariantRepository(db *gorm.DB) VariantRepository {
	return &variantRepo{db: db}
}

func (r *variantRepo) Create(ctx context.Context, variant *model.ComponentVariant) error {
	return r.db.WithContext(ctx).Create(variant).Error
}

func (r *variantRepo) GetByID(ctx context.Context, id int64) (*model.ComponentVariant, error) {
	var variant model.ComponentVariant
	err := r.db.WithContext(ctx).
		Preload("Color").
		First(&variant, id).Error
	if err != nil {
		return nil, err
	}
	return &variant, nil
}

func (r *variantRepo) Update(ctx context.Context, variant *model.ComponentVariant) error {
	return r.db.WithContext(ctx).Save(variant).Error
}

func (r *variantRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.ComponentVariant{}).Where("id = ?", id).Updates(fields).Error
}

func (r *variantRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.ComponentVariant{}, id).Error
}

func (r *variantRepo) GetByComponentID(ctx context.Context, componentID int64) ([]model.ComponentVariant, error) {
	var variants []model.ComponentVariant
	err := r.db.WithContext(ctx).
		Preload("Color").
		Where("component_id = ?", componentID).
		Order("id ASC").
		Find(&variants).Error
	return variants, err
}

func (r *variantRepo) DeleteByComponentID(ctx context.Context, componentID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("component_id = ?", componentID).
		Delete(&model.ComponentVariant{})
	return result.RowsAffected, result.Error
}

func (r *variantRepo) ExistsColor(ctx context.Context, componentID, colorID, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.ComponentVariant{}).
		Where("component_id = ? AND color_id = ?", componentID, colorID)
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ==================== Picture 仓储实现 ====================

type pictureRepo struct {
	db *gorm.DB
}

// NewPictureRepository 创建图片仓储
func NewPictureRepository(db *gorm.DB) PictureRepository {
	return &pictureRepo{db: db}
}

func (r *pictureRepo) Create(ctx context.Context, picture *model.Picture) error {
	return r.db.WithContext(ctx).Create(picture).Error
}

func (r *pictureRepo) GetByID(ctx context.Context, id int64) (*model.Picture, error) {
	var picture model.Picture
	if err := r.db.WithContext(ctx).First(&picture, id).Error; err != nil {
		return nil, err
	}
	return &picture, nil
}

func (r *pictureRepo) Update(ctx context.Context, picture *model.Picture) error {
	return r.db.WithContext(ctx).Save(picture).Error
}

func (r *pictureRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&model.Picture{}).Where("id = ?", id).Updates(fields).Error
}

func (r *pictureRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Unscoped().Delete(&model.Picture{}, id).Error
}

func (r *pictureRepo) ownerQuery(ctx context.Context, owner model.OwnerRef) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&model.Picture{})
	if owner.Kind == model.OwnerVariant {
		return query.Where("variant_id = ?", owner.ID)
	}
	return query.Where("component_id = ?", owner.ID)
}

func (r *pictureRepo) GetByOwner(ctx context.Context, owner model.OwnerRef) ([]model.Picture, error) {
	var pictures []model.Picture
	err := r.ownerQuery(ctx, owner).Order("position ASC").Find(&pictures).Error
	return pictures, err
}

func (r *pictureRepo) DeleteByOwner(ctx context.Context, owner model.OwnerRef) (int64, error) {
	query := r.db.WithContext(ctx).Unscoped()
	if owner.Kind == model.OwnerVariant {
		query = query.Where("variant_id = ?", owner.ID)
	} else {
		query = query.Where("component_id = ?", owner.ID)
	}
	result := query.Delete(&model.Picture{})
	return result.RowsAffected, result.Error
}

func (r *pictureRepo) NextPosition(ctx context.Context, owner model.OwnerRef) (int, error) {
	var max *int
	err := r.ownerQuery(ctx, owner).Select("MAX(position)").Scan(&max).Error
	if err != nil {
		return 0, err
	}
	if max == nil {
		return 1, nil
	}
	return *max + 1, nil
}

func (r *pictureRepo) ListPage(ctx context.Context, offset, limit int) ([]model.Picture, error) {
	var pictures []model.Picture
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&pictures).Error
	return pictures, err
}

// ==================== 事务支持 ====================

// CatalogUnitOfWork 目录工作单元（事务边界）
// 一次生命周期操作内的全部行变更要么整体提交要么整体回滚；
// 外部资产存储的文件操作不在此边界内
type CatalogUnitOfWork struct {
	db           *gorm.DB
	Components   ComponentRepository
	Variants     VariantRepository
	Pictures     PictureRepository
	Associations AssociationRepository
	Lookups      LookupRepository
	ImportJobs   ImportJobRepository
	RenameLogs   RenameLogRepository
}

// NewCatalogUnitOfWork 创建工作单元
func NewCatalogUnitOfWork(db *gorm.DB) *CatalogUnitOfWork {
	return &CatalogUnitOfWork{
		db:           db,
		Components:   NewComponentRepository(db),
		Variants:     NewVariantRepository(db),
		Pictures:     NewPictureRepository(db),
		Associations: NewAssociationRepository(db),
		Lookups:      NewLookupRepository(db),
		ImportJobs:   NewImportJobRepository(db),
		RenameLogs:   NewRenameLogRepository(db),
	}
}

// Transaction 执行事务
func (u *CatalogUnitOfWork) Transaction(ctx context.Context, fn func(uow *CatalogUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewCatalogUnitOfWork(tx))
	})
}
