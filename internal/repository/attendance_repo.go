package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/model"
)

// AttendanceListFilters 考勤列表过滤条件
type AttendanceListFilters struct {
	EmployeeID string
	Status     string
	Date       *time.Time
	From       *time.Time
	To         *time.Time
	DivisionID string
}

// EmployeeStatusCount 单个员工某一状态的考勤次数
type EmployeeStatusCount struct {
	EmployeeID string
	Status     string
	Total      int64
}

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, attendance *model.Attendance) error
	GetByID(ctx context.Context, id string) (*model.Attendance, error)
	Update(ctx context.Context, attendance *model.Attendance) error
	Delete(ctx context.Context, id string) error
	// ExistsForEmployeeOnDate 检查员工当天是否已有记录，excludeID 非空时排除该条
	ExistsForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error)
	ListWithFilters(ctx context.Context, filters *AttendanceListFilters, offset, limit int) ([]model.Attendance, int64, error)
	// CountByEmployeeStatus [from, to) 区间内按员工与状态分组计数，divisionID 为空时不限部门
	CountByEmployeeStatus(ctx context.Context, from, to time.Time, divisionID string) ([]EmployeeStatusCount, error)
}

// attendanceRepo AttendanceRepository 的 GORM 实现
type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(attendance).Error
}

func (r *attendanceRepo) GetByID(ctx context.Context, id string) (*model.Attendance, error) {
	var attendance model.Attendance
	err := r.db.WithContext(ctx).
		Preload("Employee.Division").
		Where("id = ?", id).
		First(&attendance).Error
	if err != nil {
		return nil, err
	}
	return &attendance, nil
}

func (r *attendanceRepo) Update(ctx context.Context, attendance *model.Attendance) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(attendance).Error
}

func (r *attendanceRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) ExistsForEmployeeOnDate(ctx context.Context, employeeID string, date time.Time, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("employee_id = ? AND date = ?", employeeID, date)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *attendanceRepo) ListWithFilters(ctx context.Context, filters *AttendanceListFilters, offset, limit int) ([]model.Attendance, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Attendance{})
	if filters != nil {
		q = q.Scopes(
			Eq("employee_id", filters.EmployeeID),
			Eq("status", filters.Status),
			OnDay("date", filters.Date),
			OnOrAfter("date", filters.From),
			UpToDay("date", filters.To),
			r.inDivision(filters.DivisionID),
		)
	}
	return findPage[model.Attendance](q, offset, limit, "date DESC, created_at DESC, id DESC", "Employee.Division")
}

func (r *attendanceRepo) CountByEmployeeStatus(ctx context.Context, from, to time.Time, divisionID string) ([]EmployeeStatusCount, error) {
	var rows []EmployeeStatusCount
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Select("employee_id, status, COUNT(*) AS total").
		Where("date >= ? AND date < ?", from, to).
		Scopes(r.inDivision(divisionID)).
		Group("employee_id, status").
		Scan(&rows).Error
	return rows, err
}

// inDivision 按员工所属部门过滤（半连接子查询）
func (r *attendanceRepo) inDivision(divisionID string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if divisionID == "" {
			return db
		}
		sub := r.db.Model(&model.Employee{}).Select("id").Where("division_id = ?", divisionID)
		return db.Where("employee_id IN (?)", sub)
	}
}
