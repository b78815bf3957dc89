package model

import "time"

// 关联记录：多对多链接行自带创建时间等元数据，
// 增删链接不触碰两端实体

// ComponentBrand 部件↔品牌关联
type ComponentBrand struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ComponentID int64     `gorm:"not null;uniqueIndex:idx_component_brand"`
	BrandID     int64     `gorm:"not null;uniqueIndex:idx_component_brand"`
	Brand       *Brand    `gorm:"foreignKey:BrandID"`
	SubbrandID  *int64    `gorm:"index"` // 可选细分到子品牌
	CreatedAt   time.Time `gorm:"index"`
}

func (ComponentBrand) TableName() string {
	return "component_brands"
}

// ComponentCategory 部件↔分类关联
type ComponentCategory struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ComponentID int64     `gorm:"not null;uniqueIndex:idx_component_category"`
	CategoryID  int64     `gorm:"not null;uniqueIndex:idx_component_category"`
	Category    *Category `gorm:"foreignKey:CategoryID"`
	CreatedAt   time.Time `gorm:"index"`
}

func (ComponentCategory) TableName() string {
	return "component_categories"
}

// ComponentKeyword 部件↔关键词关联
type ComponentKeyword struct {
	ID          int64     `gorm:"primaryKey;autoIncrement"`
	ComponentID int64     `gorm:"not null;uniqueIndex:idx_component_keyword"`
	KeywordID   int64     `gorm:"not null;uniqueIndex:idx_component_keyword"`
	Keyword     *Keyword  `gorm:"foreignKey:KeywordID"`
	CreatedAt   time.Time `gorm:"index"`
}

func (ComponentKeyword) TableName() string {
	return "component_keywords"
}
