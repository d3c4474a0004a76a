package dto

import (
	"io"
	"mime/multipart"
	"time"
)

// MaxEmployeeImageBytes 员工照片上传上限（2MB）
const MaxEmployeeImageBytes = 2 << 20

// EmployeeRequest 创建/更新员工（multipart/form-data）
type EmployeeRequest struct {
	Name     string                `form:"name"     binding:"required,max=255"`
	Phone    string                `form:"phone"    binding:"required,max=20"`
	Division string                `form:"division" binding:"required,uuid"`
	Position string                `form:"position" binding:"required,max=255"`
	Image    *multipart.FileHeader `form:"image"`
}

// EmployeeListRequest 员工列表查询（导出共用）
type EmployeeListRequest struct {
	PageRequest
	Name       string `form:"name"`
	DivisionID string `form:"division_id" binding:"omitempty,uuid"`
}

// EmployeeExportRequest 员工导出
type EmployeeExportRequest struct {
	EmployeeListRequest
	Format string `form:"format" binding:"omitempty,oneof=csv xlsx"`
}

// BulkDeleteEmployeesRequest 批量删除员工
type BulkDeleteEmployeesRequest struct {
	IDs []string `json:"ids" binding:"required,min=1,dive,required,uuid"`
}

// EmployeeResponse 员工信息
type EmployeeResponse struct {
	ID        string         `json:"id"`
	Image     *string        `json:"image"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Division  *DivisionBrief `json:"division"`
	Position  string         `json:"position"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ExportFile 导出结果，Write 把文件内容直接写入 w
type ExportFile struct {
	Filename    string
	ContentType string
	Write       func(w io.Writer) error
}
