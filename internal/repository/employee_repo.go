package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/model"
)

// EmployeeListFilters 员工列表与导出共用的过滤条件
type EmployeeListFilters struct {
	Name       string
	DivisionID string
}

func (f *EmployeeListFilters) scopes() []func(*gorm.DB) *gorm.DB {
	if f == nil {
		return nil
	}
	return []func(*gorm.DB) *gorm.DB{
		Contains("employees.name", f.Name),
		Eq("employees.division_id", f.DivisionID),
	}
}

// PositionCount 按职位统计
type PositionCount struct {
	Position string
	Total    int64
}

// DivisionCount 按部门统计
type DivisionCount struct {
	DivisionID   string
	DivisionName string
	Total        int64
}

// EmployeeRepository 员工数据访问接口
type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id string) (*model.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Employee, error)
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id string) error
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	Count(ctx context.Context) (int64, error)
	ListWithFilters(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error)
	// ListAll 导出用：不分页，顺序与列表一致
	ListAll(ctx context.Context, filters *EmployeeListFilters) ([]model.Employee, error)
	// ListByDivision divisionID 为空时返回全部员工
	ListByDivision(ctx context.Context, divisionID string) ([]model.Employee, error)
	Recent(ctx context.Context, limit int) ([]model.Employee, error)
	CountByPosition(ctx context.Context) ([]PositionCount, error)
	CountByDivision(ctx context.Context) ([]DivisionCount, error)
	// ListImages 所有员工正在引用的图片地址
	ListImages(ctx context.Context) ([]string, error)
}

// employeeRepo EmployeeRepository 的 GORM 实现
type employeeRepo struct {
	db *gorm.DB
}

// NewEmployeeRepo 创建 EmployeeRepository 实例
func NewEmployeeRepo(db *gorm.DB) EmployeeRepository {
	return &employeeRepo{db: db}
}

func (r *employeeRepo) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Omit("Division").Create(employee).Error
}

func (r *employeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Preload("Division").
		Where("id = ?", id).
		First(&employee).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Employee, error) {
	var employees []model.Employee
	if len(ids) == 0 {
		return employees, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC, id DESC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Update(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Omit("Division").Save(employee).Error
}

func (r *employeeRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Employee{}).Error
}

func (r *employeeRepo) DeleteByIDs(ctx context.Context, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&model.Employee{})
	return result.RowsAffected, result.Error
}

func (r *employeeRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Employee{}).Count(&count).Error
	return count, err
}

func (r *employeeRepo) ListWithFilters(ctx context.Context, filters *EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Employee{}).Scopes(filters.scopes()...)
	return findPage[model.Employee](q, offset, limit, "employees.created_at DESC, employees.id DESC", "Division")
}

func (r *employeeRepo) ListAll(ctx context.Context, filters *EmployeeListFilters) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Scopes(filters.scopes()...).
		Preload("Division").
		Order("employees.created_at DESC, employees.id DESC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) ListByDivision(ctx context.Context, divisionID string) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Scopes(Eq("division_id", divisionID)).
		Preload("Division").
		Order("name ASC, id ASC").
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) Recent(ctx context.Context, limit int) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).
		Preload("Division").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&employees).Error
	return employees, err
}

func (r *employeeRepo) CountByPosition(ctx context.Context) ([]PositionCount, error) {
	var rows []PositionCount
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Select("position, COUNT(*) AS total").
		Group("position").
		Order("total DESC, position ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *employeeRepo) CountByDivision(ctx context.Context) ([]DivisionCount, error) {
	var rows []DivisionCount
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Select("employees.division_id AS division_id, divisions.name AS division_name, COUNT(*) AS total").
		Joins("JOIN divisions ON divisions.id = employees.division_id").
		Group("employees.division_id, divisions.name").
		Order("total DESC, divisions.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *employeeRepo) ListImages(ctx context.Context) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("image IS NOT NULL AND image <> ''").
		Pluck("image", &images).Error
	return images, err
}
