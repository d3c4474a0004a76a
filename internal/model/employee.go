package model

// Employee 员工，对应表 employees
type Employee struct {
	BaseModel
	Name       string  `gorm:"type:varchar(255);not null" json:"name"`
	Phone      string  `gorm:"type:varchar(20);not null"  json:"phone"`
	Position   string  `gorm:"type:varchar(255);not null" json:"position"`
	Image      *string `gorm:"type:varchar(512)"          json:"image"`
	DivisionID string  `gorm:"type:uuid;not null;index"   json:"division_id"`

	// 关联
	Division *Division `gorm:"foreignKey:DivisionID;constraint:OnDelete:RESTRICT" json:"division,omitempty"`
}

// TableName 指定表名
func (Employee) TableName() string { return "employees" }
