package dto

import "time"

// AttendanceRequest 创建/更新考勤
type AttendanceRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required,uuid"`
	Date       string  `json:"date"        binding:"required,datetime=2006-01-02"`
	ClockIn    *string `json:"clock_in"    binding:"omitempty,hhmm"`
	ClockOut   *string `json:"clock_out"   binding:"omitempty,hhmm"`
	Status     string  `json:"status"      binding:"required,attendance_status"`
	Notes      *string `json:"notes"       binding:"omitempty,max=500"`
}

// AttendanceListRequest 考勤列表查询
type AttendanceListRequest struct {
	PageRequest
	EmployeeID string `form:"employee_id" binding:"omitempty,uuid"`
	Status     string `form:"status"      binding:"omitempty,attendance_status"`
	Date       string `form:"date"        binding:"omitempty,datetime=2006-01-02"`
	From       string `form:"from"        binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to"          binding:"omitempty,datetime=2006-01-02"`
	DivisionID string `form:"division_id" binding:"omitempty,uuid"`
}

// AttendanceSummaryRequest 月度考勤汇总
type AttendanceSummaryRequest struct {
	Month      int    `form:"month"       binding:"required,min=1,max=12"`
	Year       int    `form:"year"        binding:"required,min=2020"`
	DivisionID string `form:"division_id" binding:"omitempty,uuid"`
}

// AttendanceEmployee 考勤记录中的员工信息
type AttendanceEmployee struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Position string         `json:"position"`
	Division *DivisionBrief `json:"division"`
}

// AttendanceResponse 考勤信息
type AttendanceResponse struct {
	ID        string              `json:"id"`
	Employee  *AttendanceEmployee `json:"employee"`
	Date      string              `json:"date"`
	ClockIn   *string             `json:"clock_in"`
	ClockOut  *string             `json:"clock_out"`
	Status    string              `json:"status"`
	Notes     *string             `json:"notes"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

// StatusCounts 各考勤状态次数
type StatusCounts struct {
	Hadir int64 `json:"hadir"`
	Izin  int64 `json:"izin"`
	Sakit int64 `json:"sakit"`
	Alpha int64 `json:"alpha"`
	Total int64 `json:"total"`
}

// SummaryEmployee 汇总中的员工信息
type SummaryEmployee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Position string `json:"position"`
	Division string `json:"division"`
}

// EmployeeAttendanceSummary 单个员工的月度汇总
type EmployeeAttendanceSummary struct {
	Employee SummaryEmployee `json:"employee"`
	Summary  StatusCounts    `json:"summary"`
}

// AttendanceSummaryResponse 月度考勤汇总
type AttendanceSummaryResponse struct {
	Month     int                         `json:"month"`
	Year      int                         `json:"year"`
	Employees []EmployeeAttendanceSummary `json:"employees"`
}
