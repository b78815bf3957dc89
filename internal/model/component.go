package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ==================== 状态常量 ====================

const (
	// 审核状态
	ReviewStatusPending = "pending"
	ReviewStatusOK      = "ok"
	ReviewStatusNotOK   = "not_ok"
)

// ReviewState 审核状态（三个独立环节共用结构）
type ReviewState struct {
	Status    string     `gorm:"size:16;default:pending" json:"status"`
	Comment   string     `gorm:"size:512" json:"comment"`
	CheckedAt *time.Time `json:"checked_at"`
}

// ==================== 部件 ====================

// Component 部件
// 身份 = (product_number, supplier_id)，无供应商视为独立取值参与唯一性
type Component struct {
	BaseModel

	// --- 身份字段 ---
	ProductNumber string    `gorm:"size:100;not null;uniqueIndex:idx_number_supplier"`
	SupplierID    *int64    `gorm:"uniqueIndex:idx_number_supplier"`
	Supplier      *Supplier `gorm:"foreignKey:SupplierID"`

	// --- 基本信息 ---
	ComponentTypeID int64          `gorm:"index;not null"`
	ComponentType   *ComponentType `gorm:"foreignKey:ComponentTypeID"`
	Description     string         `gorm:"type:text"`

	// --- 三个独立审核环节 ---
	DataReview    ReviewState `gorm:"embedded;embeddedPrefix:data_"`
	SampleReview  ReviewState `gorm:"embedded;embeddedPrefix:sample_"`
	QualityReview ReviewState `gorm:"embedded;embeddedPrefix:quality_"`

	// --- 自由属性（核心不解释内容） ---
	Properties PropertyMap `gorm:"type:json"`

	// --- 关联关系 ---
	Variants  []ComponentVariant  `gorm:"foreignKey:ComponentID"`
	Pictures  []Picture           `gorm:"foreignKey:ComponentID"`
	Brands    []ComponentBrand    `gorm:"foreignKey:ComponentID"`
	Categories []ComponentCategory `gorm:"foreignKey:ComponentID"`
	Keywords  []ComponentKeyword  `gorm:"foreignKey:ComponentID"`
}

func (Component) TableName() string {
	return "components"
}

// SupplierCode 供应商编码，无供应商时返回 nil
// 需要调用方 Preload("Supplier")
func (c *Component) SupplierCode() *string {
	if c.SupplierID == nil || c.Supplier == nil {
		return nil
	}
	return &c.Supplier.Code
}

// ==================== 色彩变体 ====================

// ComponentVariant 部件色彩变体
// 约束：同一部件下同一颜色只能有一个变体
type ComponentVariant struct {
	BaseModel
	ComponentID int64      `gorm:"not null;uniqueIndex:idx_component_color"`
	Component   *Component `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ColorID     int64      `gorm:"not null;uniqueIndex:idx_component_color"`
	Color       *Color     `gorm:"foreignKey:ColorID"`

	DisplayName string `gorm:"size:100"` // 默认取颜色名
	IsActive    bool   `gorm:"default:true"`

	Pictures []Picture `gorm:"foreignKey:VariantID"`
}

func (ComponentVariant) TableName() string {
	return "component_variants"
}

// ==================== 图片 ====================

// OwnerKind 图片归属类型
type OwnerKind string

const (
	OwnerComponent OwnerKind = "component"
	OwnerVariant   OwnerKind = "variant"
)

// OwnerRef 图片归属（部件或变体，二选一）
type OwnerRef struct {
	Kind OwnerKind
	ID   int64
}

// ErrPictureOwner 图片必须且只能归属于部件或变体之一
var ErrPictureOwner = errors.New("图片必须且只能归属于部件或变体之一")

// Picture 图片
// Name 为规范资产名（不含扩展名），URL 指向外部二进制存储
type Picture struct {
	BaseModel
	ComponentID *int64            `gorm:"index;uniqueIndex:idx_component_position"`
	VariantID   *int64            `gorm:"index;uniqueIndex:idx_variant_position"`
	Variant     *ComponentVariant `gorm:"foreignKey:VariantID"`

	Name      string `gorm:"size:255;not null;index"`
	Ext       string `gorm:"size:16;default:.jpg"`
	URL       string `gorm:"size:1024"`
	// 1 起始，归属内唯一（两个复合唯一索引各管一侧，NULL 不参与冲突）
	Position int `gorm:"not null;default:1;uniqueIndex:idx_component_position;uniqueIndex:idx_variant_position"`
	IsPrimary bool   `gorm:"default:false"`
	AltText   string `gorm:"size:255"`
}

func (*Picture) TableName() string {
	return "pictures"
}

// Owner 返回归属引用
func (p *Picture) Owner() OwnerRef {
	if p.VariantID != nil {
		return OwnerRef{Kind: OwnerVariant, ID: *p.VariantID}
	}
	if p.ComponentID != nil {
		return OwnerRef{Kind: OwnerComponent, ID: *p.ComponentID}
	}
	return OwnerRef{}
}

// SetOwner 设置归属，清空另一侧外键
func (p *Picture) SetOwner(owner OwnerRef) {
	switch owner.Kind {
	case OwnerComponent:
		id := owner.ID
		p.ComponentID = &id
		p.VariantID = nil
	case OwnerVariant:
		id := owner.ID
		p.VariantID = &id
		p.ComponentID = nil
	}
}

// Filename 含扩展名的存储文件名
func (p *Picture) Filename() string {
	return p.Name + p.Ext
}

// BeforeCreate 归属互斥校验（XOR），领域层兜底存储层的 check 约束。
// 归属建档后不再变更，map 式 Updates 不触发此校验
func (p *Picture) BeforeCreate(tx *gorm.DB) error {
	hasComponent := p.ComponentID != nil
	hasVariant := p.VariantID != nil
	if hasComponent == hasVariant {
		return ErrPictureOwner
	}
	return nil
}
