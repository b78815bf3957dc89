package model

import "github.com/lib/pq"

const (
	ImportJobStatusRunning = "running"
	ImportJobStatusDone    = "done"
	ImportJobStatusFailed  = "failed"
)

// ImportJob CSV 批量导入记录
// RowErrors 映射 Postgres text[] 列
type ImportJob struct {
	BaseModel
	Filename  string         `gorm:"size:255"`
	Status    string         `gorm:"size:16;index;default:running"`
	Total     int            `gorm:"default:0"`
	Created   int            `gorm:"default:0"`
	Updated   int            `gorm:"default:0"`
	Failed    int            `gorm:"default:0"`
	RowErrors pq.StringArray `gorm:"type:text[]"` // 逐行错误信息
}

func (ImportJob) TableName() string {
	return "import_jobs"
}
