package dto

import "time"

// DivisionRequest 创建/更新部门
type DivisionRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// DivisionListRequest 部门列表查询
type DivisionListRequest struct {
	PageRequest
	Name string `form:"name"`
}

// DivisionResponse 部门信息
// EmployeesCount 仅详情接口返回
type DivisionResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	EmployeesCount *int64    `json:"employees_count,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DivisionBrief 部门简要信息
type DivisionBrief struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
