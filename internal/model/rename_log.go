package model

import "gorm.io/datatypes"

const (
	RenameTriggerComponent = "component"
	RenameTriggerVariant   = "variant"
	RenameTriggerReorder   = "reorder"
)

// RenameLog 改名级联流水
// Details 保存逐文件结果的原始快照（jsonb）
type RenameLog struct {
	BaseModel
	ComponentID int64          `gorm:"index"`
	VariantID   *int64         `gorm:"index"`
	Trigger     string         `gorm:"size:16"`
	Count       int            `gorm:"default:0"`
	Failed      int            `gorm:"default:0"`
	Details     datatypes.JSON `gorm:"type:jsonb"`
}

func (RenameLog) TableName() string {
	return "rename_logs"
}
