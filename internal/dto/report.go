package dto

import (
	"encoding/json"
	"time"
)

// ── 仪表盘 ──

// DivisionEmployeeTotal 部门员工数
type DivisionEmployeeTotal struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	TotalEmployees int64  `json:"total_employees"`
}

// RecentEmployee 最近新增的员工
type RecentEmployee struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Position  string    `json:"position"`
	Division  string    `json:"division"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardResponse 仪表盘统计
type DashboardResponse struct {
	TotalEmployees       int64                   `json:"total_employees"`
	TotalDivisions       int64                   `json:"total_divisions"`
	EmployeesPerDivision []DivisionEmployeeTotal `json:"employees_per_division"`
	RecentEmployees      []RecentEmployee        `json:"recent_employees"`
}

// ── 员工汇总 ──

// PositionTotal 按职位统计
type PositionTotal struct {
	Position string `json:"position"`
	Total    int64  `json:"total"`
}

// DivisionTotal 按部门统计
type DivisionTotal struct {
	Division *DivisionBrief `json:"division"`
	Total    int64          `json:"total"`
}

// EmployeeSummaryResponse 员工汇总
type EmployeeSummaryResponse struct {
	TotalEmployees int64           `json:"total_employees"`
	ByPosition     []PositionTotal `json:"by_position"`
	ByDivision     []DivisionTotal `json:"by_division"`
}

// ── 操作日志 ──

// ActivityLogListRequest 操作日志查询
type ActivityLogListRequest struct {
	PageRequest
	Action    string `form:"action"`
	ModelType string `form:"model_type"`
	UserID    string `form:"user_id"    binding:"omitempty,uuid"`
	From      string `form:"from"       binding:"omitempty,datetime=2006-01-02"`
	To        string `form:"to"         binding:"omitempty,datetime=2006-01-02"`
}

// ActivityLogResponse 操作日志
type ActivityLogResponse struct {
	ID          string          `json:"id"`
	User        *UserBrief      `json:"user"`
	Action      string          `json:"action"`
	ModelType   string          `json:"model_type"`
	ModelID     *string         `json:"model_id"`
	Description string          `json:"description"`
	OldValues   json.RawMessage `json:"old_values"`
	NewValues   json.RawMessage `json:"new_values"`
	IPAddress   *string         `json:"ip_address"`
	CreatedAt   time.Time       `json:"created_at"`
}
