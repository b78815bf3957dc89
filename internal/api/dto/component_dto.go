package dto

import "time"

// ==================== 请求 ====================

// CreateComponentRequest 创建部件请求
// 品牌/分类按名称传入，不存在则自动建档；关键词同理
type CreateComponentRequest struct {
	ProductNumber   string            `json:"product_number" binding:"required"`
	SupplierID      *int64            `json:"supplier_id"`
	ComponentTypeID int64             `json:"component_type_id" binding:"required"`
	Description     string            `json:"description"`
	BrandNames      []string          `json:"brand_names"`
	CategoryNames   []string          `json:"category_names"`
	Keywords        []string          `json:"keywords"`
	Properties      map[string]string `json:"properties"`
}

// UpdateComponentRequest 更新部件请求
// 指针字段缺省表示不改动；SupplierID 传 0 表示解除供应商；
// 切片指针指向空切片表示清空关联（与缺省区分）
type UpdateComponentRequest struct {
	ProductNumber *string            `json:"product_number"`
	SupplierID    *int64             `json:"supplier_id"`
	Description   *string            `json:"description"`
	BrandIDs      *[]int64           `json:"brand_ids"`
	CategoryIDs   *[]int64           `json:"category_ids"`
	Keywords      *[]string          `json:"keywords"`
	Properties    map[string]string  `json:"properties"`
	DataReview    *ReviewStateInput  `json:"data_review"`
	SampleReview  *ReviewStateInput  `json:"sample_review"`
	QualityReview *ReviewStateInput  `json:"quality_review"`
}

// ReviewStateInput 审核环节输入
type ReviewStateInput struct {
	Status  string `json:"status" binding:"oneof=pending ok not_ok"`
	Comment string `json:"comment"`
}

// CreateVariantRequest 创建变体请求
type CreateVariantRequest struct {
	ColorID     int64  `json:"color_id" binding:"required"`
	DisplayName string `json:"display_name"`
	IsActive    *bool  `json:"is_active"`
}

// UpdateVariantRequest 更新变体请求
type UpdateVariantRequest struct {
	ColorID     *int64  `json:"color_id"`
	DisplayName *string `json:"display_name"`
	IsActive    *bool   `json:"is_active"`
}

// AddPictureRequest 新增图片请求（文件内容由 multipart 承载）
type AddPictureRequest struct {
	ComponentID int64  `form:"component_id"`
	VariantID   int64  `form:"variant_id"`
	AltText     string `form:"alt_text"`
	IsPrimary   bool   `form:"is_primary"`
}

// ==================== 结果 ====================

// FieldChange 单个字段变更
type FieldChange struct {
	Old interface{} `json:"old"`
	New interface{} `json:"new"`
}

// FileRename 单个文件改名结果
type FileRename struct {
	OldName string `json:"old_name"`
	NewName string `json:"new_name"`
	Status  string `json:"status"` // "ok" 或失败原因
}

// RenameOutcome 改名级联汇总
type RenameOutcome struct {
	FilesRenamed []FileRename `json:"files_renamed"`
	Count        int          `json:"count"`
}

// ComponentResult 创建/更新统一结果
type ComponentResult struct {
	Success     bool                   `json:"success"`
	ComponentID int64                  `json:"component_id,omitempty"`
	Component   *ComponentResp         `json:"component,omitempty"`
	Changes     map[string]FieldChange `json:"changes,omitempty"`
	Renames     *RenameOutcome         `json:"renames,omitempty"`
	Error       string                 `json:"error,omitempty"`
}

// AssociationsDeleted 删除级联的行删除计数
type AssociationsDeleted struct {
	Variants int `json:"variants"`
	Pictures int `json:"pictures"`
	Brands   int `json:"brands"`
}

// FilesDeleted 文件删除计数
type FilesDeleted struct {
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// DeleteSummary 删除级联汇总
type DeleteSummary struct {
	ComponentID         int64               `json:"component_id"`
	ProductNumber       string              `json:"product_number"`
	AssociationsDeleted AssociationsDeleted `json:"associations_deleted"`
	FilesDeleted        FilesDeleted        `json:"files_deleted"`
}

// DeleteResult 删除统一结果
type DeleteResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Summary *DeleteSummary `json:"summary,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ==================== 响应视图 ====================

// ComponentResp 部件视图
type ComponentResp struct {
	ID            int64             `json:"id"`
	ProductNumber string            `json:"product_number"`
	SupplierID    *int64            `json:"supplier_id"`
	SupplierCode  string            `json:"supplier_code,omitempty"`
	TypeID        int64             `json:"component_type_id"`
	Description   string            `json:"description"`
	DataReview    ReviewStateResp   `json:"data_review"`
	SampleReview  ReviewStateResp   `json:"sample_review"`
	QualityReview ReviewStateResp   `json:"quality_review"`
	Properties    map[string]string `json:"properties,omitempty"`
	Variants      []VariantResp     `json:"variants,omitempty"`
	Pictures      []PictureResp     `json:"pictures,omitempty"`
	BrandIDs      []int64           `json:"brand_ids,omitempty"`
	CategoryIDs   []int64           `json:"category_ids,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// ReviewStateResp 审核环节视图
type ReviewStateResp struct {
	Status    string     `json:"status"`
	Comment   string     `json:"comment,omitempty"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
}

// VariantResp 变体视图
type VariantResp struct {
	ID          int64         `json:"id"`
	ColorID     int64         `json:"color_id"`
	ColorName   string        `json:"color_name,omitempty"`
	DisplayName string        `json:"display_name"`
	IsActive    bool          `json:"is_active"`
	Pictures    []PictureResp `json:"pictures,omitempty"`
}

// PictureResp 图片视图
type PictureResp struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
	IsPrimary bool   `json:"is_primary"`
	AltText   string `json:"alt_text,omitempty"`
}

// ComponentListResp 部件列表响应
type ComponentListResp struct {
	Code     int             `json:"code"`
	Message  string          `json:"message"`
	Data     []ComponentResp `json:"data"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}
