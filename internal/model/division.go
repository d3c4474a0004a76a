package model

// Division 部门，对应表 divisions
type Division struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null;uniqueIndex:uk_divisions_name" json:"name"`
}

// TableName 指定表名
func (Division) TableName() string { return "divisions" }
