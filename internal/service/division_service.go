package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/audit"
	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
	pkgerrors "github.com/travian22/aksa-2/pkg/errors"
)

// DivisionService 部门业务接口
type DivisionService interface {
	List(ctx context.Context, req *dto.DivisionListRequest) ([]dto.DivisionResponse, int64, error)
	// GetByID 详情附带员工数
	GetByID(ctx context.Context, id string) (*dto.DivisionResponse, error)
	Create(ctx context.Context, req *dto.DivisionRequest) (*dto.DivisionResponse, error)
	Update(ctx context.Context, id string, req *dto.DivisionRequest) (*dto.DivisionResponse, error)
	// Delete 部门下仍有员工时返回 *DivisionInUseError
	Delete(ctx context.Context, id string) error
}

type divisionService struct {
	repo     *repository.Repository
	recorder *audit.Recorder
	logger   *zap.Logger
}

// NewDivisionService 创建 DivisionService 实例
func NewDivisionService(repo *repository.Repository, recorder *audit.Recorder, logger *zap.Logger) DivisionService {
	return &divisionService{repo: repo, recorder: recorder, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *divisionService) List(ctx context.Context, req *dto.DivisionListRequest) ([]dto.DivisionResponse, int64, error) {
	filters := &repository.DivisionListFilters{Name: req.Name}

	divisions, total, err := s.repo.Division.ListWithFilters(ctx, filters, req.GetOffset(dto.DivisionPerPage), dto.DivisionPerPage)
	if err != nil {
		s.logger.Error("列出部门失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.DivisionResponse, 0, len(divisions))
	for i := range divisions {
		result = append(result, *toDivisionResponse(&divisions[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *divisionService) GetByID(ctx context.Context, id string) (*dto.DivisionResponse, error) {
	division, err := s.getDivision(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.repo.Division.CountEmployees(ctx, division.ID)
	if err != nil {
		s.logger.Error("查询部门员工数失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	resp := toDivisionResponse(division)
	resp.EmployeesCount = &count
	return resp, nil
}

// ────────────────────── Create ──────────────────────

func (s *divisionService) Create(ctx context.Context, req *dto.DivisionRequest) (*dto.DivisionResponse, error) {
	if err := s.checkNameUnique(ctx, req.Name, ""); err != nil {
		return nil, err
	}

	division := &model.Division{Name: req.Name}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Division.Create(ctx, division); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionCreated,
			ModelType:   model.ModelTypeDivision,
			ModelID:     division.ID,
			Description: "Created division: " + division.Name,
			New:         division,
		})
		return nil
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, divisionNameTaken()
		}
		s.logger.Error("创建部门失败", zap.Error(err))
		return nil, err
	}

	return toDivisionResponse(division), nil
}

// ────────────────────── Update ──────────────────────

func (s *divisionService) Update(ctx context.Context, id string, req *dto.DivisionRequest) (*dto.DivisionResponse, error) {
	division, err := s.getDivision(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkNameUnique(ctx, req.Name, division.ID); err != nil {
		return nil, err
	}

	old := *division
	division.Name = req.Name

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Division.Update(ctx, division); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionUpdated,
			ModelType:   model.ModelTypeDivision,
			ModelID:     division.ID,
			Description: "Updated division: " + division.Name,
			Old:         &old,
			New:         division,
		})
		return nil
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, divisionNameTaken()
		}
		s.logger.Error("更新部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return toDivisionResponse(division), nil
}

// ────────────────────── Delete ──────────────────────

func (s *divisionService) Delete(ctx context.Context, id string) error {
	division, err := s.getDivision(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.repo.Division.CountEmployees(ctx, division.ID)
	if err != nil {
		s.logger.Error("查询部门员工数失败", zap.String("id", id), zap.Error(err))
		return err
	}
	if count > 0 {
		return &DivisionInUseError{Employees: count}
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionDeleted,
			ModelType:   model.ModelTypeDivision,
			ModelID:     division.ID,
			Description: "Deleted division: " + division.Name,
			Old:         division,
		})
		return tx.Division.Delete(ctx, division.ID)
	})
	if err != nil {
		// 检查与删除之间有员工加入，外键 RESTRICT 拒绝删除
		if pkgerrors.IsForeignKeyViolation(err) {
			n, cerr := s.repo.Division.CountEmployees(ctx, division.ID)
			if cerr == nil {
				return &DivisionInUseError{Employees: n}
			}
		}
		s.logger.Error("删除部门失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ── 内部辅助方法 ──

func (s *divisionService) getDivision(ctx context.Context, id string) (*model.Division, error) {
	division, err := s.repo.Division.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDivisionNotFound
		}
		s.logger.Error("查询部门失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return division, nil
}

func (s *divisionService) checkNameUnique(ctx context.Context, name, excludeID string) error {
	existing, err := s.repo.Division.GetByName(ctx, name)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询部门失败", zap.Error(err))
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return divisionNameTaken()
	}
	return nil
}

func divisionNameTaken() error {
	return fieldError("name", "The name has already been taken.", ErrDivisionNameExists)
}

func toDivisionResponse(d *model.Division) *dto.DivisionResponse {
	return &dto.DivisionResponse{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDivisionBrief(d *model.Division) *dto.DivisionBrief {
	if d == nil {
		return nil
	}
	return &dto.DivisionBrief{ID: d.ID, Name: d.Name}
}
