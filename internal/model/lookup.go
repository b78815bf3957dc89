package model

// 查找型实体：被部件引用，但从不随部件级联删除

// Supplier 供应商
type Supplier struct {
	BaseModel
	Code string `gorm:"size:50;not null;uniqueIndex"` // 参与资产命名
	Name string `gorm:"size:200;not null"`
	Note string `gorm:"size:512"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// Brand 品牌
type Brand struct {
	BaseModel
	Name      string     `gorm:"size:200;not null;uniqueIndex"`
	Subbrands []Subbrand `gorm:"foreignKey:BrandID"`
}

func (Brand) TableName() string {
	return "brands"
}

// Subbrand 子品牌
type Subbrand struct {
	BaseModel
	BrandID int64  `gorm:"not null;uniqueIndex:idx_brand_subbrand"`
	Name    string `gorm:"size:200;not null;uniqueIndex:idx_brand_subbrand"`
}

func (Subbrand) TableName() string {
	return "subbrands"
}

// Category 分类
type Category struct {
	BaseModel
	Name string `gorm:"size:200;not null;uniqueIndex"`
}

func (Category) TableName() string {
	return "categories"
}

// Keyword 关键词
type Keyword struct {
	BaseModel
	Word string `gorm:"size:100;not null;uniqueIndex"`
}

func (Keyword) TableName() string {
	return "keywords"
}

// Color 颜色
type Color struct {
	BaseModel
	Name string `gorm:"size:100;not null;uniqueIndex"` // 参与资产命名
	Hex  string `gorm:"size:10"`
}

func (Color) TableName() string {
	return "colors"
}

// ComponentType 部件类型
type ComponentType struct {
	BaseModel
	Name string `gorm:"size:100;not null;uniqueIndex"`
}

func (ComponentType) TableName() string {
	return "component_types"
}
