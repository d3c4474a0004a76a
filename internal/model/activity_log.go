package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// 操作类型
const (
	ActionCreated  = "created"
	ActionUpdated  = "updated"
	ActionDeleted  = "deleted"
	ActionLogin    = "login"
	ActionLogout   = "logout"
	ActionExported = "exported"
)

// 操作对象类型
const (
	ModelTypeDivision   = "Division"
	ModelTypeEmployee   = "Employee"
	ModelTypeAttendance = "Attendance"
	ModelTypeUser       = "User"
)

// ActivityLog 操作日志，对应表 activity_logs
// 只追加：应用层不提供更新与删除
type ActivityLog struct {
	ID          string         `gorm:"type:uuid;primaryKey"     json:"id"`
	UserID      *string        `gorm:"type:uuid;index"          json:"user_id"`
	Action      string         `gorm:"type:varchar(32);not null" json:"action"`
	ModelType   string         `gorm:"type:varchar(64);not null" json:"model_type"`
	ModelID     *string        `gorm:"type:uuid"                json:"model_id"`
	Description string         `gorm:"type:text;not null"       json:"description"`
	OldValues   datatypes.JSON `json:"old_values"`
	NewValues   datatypes.JSON `json:"new_values"`
	IPAddress   *string        `gorm:"type:varchar(45)"         json:"ip_address"`
	CreatedAt   time.Time      `gorm:"not null;index"           json:"created_at"`

	// 关联
	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL" json:"user,omitempty"`
}

// TableName 指定表名
func (ActivityLog) TableName() string { return "activity_logs" }

// BeforeCreate 未指定主键时生成 UUID
func (l *ActivityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
