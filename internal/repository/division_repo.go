package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/model"
)

// DivisionListFilters 部门列表过滤条件
type DivisionListFilters struct {
	Name string
}

// DivisionEmployeeCount 部门及其员工数
type DivisionEmployeeCount struct {
	ID             string
	Name           string
	TotalEmployees int64
}

// DivisionRepository 部门数据访问接口
type DivisionRepository interface {
	Create(ctx context.Context, division *model.Division) error
	GetByID(ctx context.Context, id string) (*model.Division, error)
	GetByName(ctx context.Context, name string) (*model.Division, error)
	Update(ctx context.Context, division *model.Division) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	CountEmployees(ctx context.Context, divisionID string) (int64, error)
	ListWithFilters(ctx context.Context, filters *DivisionListFilters, offset, limit int) ([]model.Division, int64, error)
	// ListWithEmployeeCount 全部部门及员工数（LEFT JOIN 单次查询）
	ListWithEmployeeCount(ctx context.Context) ([]DivisionEmployeeCount, error)
}

// divisionRepo DivisionRepository 的 GORM 实现
type divisionRepo struct {
	db *gorm.DB
}

// NewDivisionRepo 创建 DivisionRepository 实例
func NewDivisionRepo(db *gorm.DB) DivisionRepository {
	return &divisionRepo{db: db}
}

func (r *divisionRepo) Create(ctx context.Context, division *model.Division) error {
	return r.db.WithContext(ctx).Create(division).Error
}

func (r *divisionRepo) GetByID(ctx context.Context, id string) (*model.Division, error) {
	var division model.Division
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *divisionRepo) GetByName(ctx context.Context, name string) (*model.Division, error) {
	var division model.Division
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&division).Error
	if err != nil {
		return nil, err
	}
	return &division, nil
}

func (r *divisionRepo) Update(ctx context.Context, division *model.Division) error {
	return r.db.WithContext(ctx).Save(division).Error
}

func (r *divisionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Division{}).Error
}

func (r *divisionRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Division{}).Count(&count).Error
	return count, err
}

func (r *divisionRepo) CountEmployees(ctx context.Context, divisionID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Employee{}).
		Where("division_id = ?", divisionID).
		Count(&count).Error
	return count, err
}

func (r *divisionRepo) ListWithFilters(ctx context.Context, filters *DivisionListFilters, offset, limit int) ([]model.Division, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Division{})
	if filters != nil {
		q = q.Scopes(Contains("name", filters.Name))
	}
	return findPage[model.Division](q, offset, limit, "created_at DESC, id DESC")
}

func (r *divisionRepo) ListWithEmployeeCount(ctx context.Context) ([]DivisionEmployeeCount, error) {
	var rows []DivisionEmployeeCount
	err := r.db.WithContext(ctx).
		Model(&model.Division{}).
		Select("divisions.id, divisions.name, COUNT(employees.id) AS total_employees").
		Joins("LEFT JOIN employees ON employees.division_id = divisions.id").
		Group("divisions.id, divisions.name").
		Order("divisions.name ASC").
		Scan(&rows).Error
	return rows, err
}
