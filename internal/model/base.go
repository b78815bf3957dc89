package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/gorm"
)

type BaseModel struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// ==================== JSON 类型 ====================

// PropertyEntry 自由属性项：值 + 类型标记 + 时间戳
// 生命周期核心只做整项覆盖/合并，从不解释 Type
type PropertyEntry struct {
	Value     string    `json:"value"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PropertyMap 部件自由属性（JSON 存储）
type PropertyMap map[string]PropertyEntry

func (m PropertyMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	return json.Marshal(m)
}

func (m *PropertyMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(PropertyMap)
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok2 := value.(string)
		if !ok2 {
			return errors.New("type assertion to []byte failed")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// Merge 按 key 整项覆盖，保留原 CreatedAt
func (m PropertyMap) Merge(key string, entry PropertyEntry, now time.Time) {
	if old, ok := m[key]; ok {
		entry.CreatedAt = old.CreatedAt
	} else {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	m[key] = entry
}

// StringSlice 字符串切片（JSON 存储）
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value interface{}) error {
	if value == nil {
		*s = []string{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok2 := value.(string)
		if !ok2 {
			return errors.New("type assertion to []byte failed")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, s)
}
