package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/audit"
	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
	pkgerrors "github.com/travian22/aksa-2/pkg/errors"
	"github.com/travian22/aksa-2/pkg/storage"
)

// EmployeeImageDir 员工照片存储子目录
const EmployeeImageDir = "employees"

// EmployeeService 员工业务接口
type EmployeeService interface {
	List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error)
	Create(ctx context.Context, req *dto.EmployeeRequest) (*dto.EmployeeResponse, error)
	// Update 上传新照片时替换旧照片
	Update(ctx context.Context, id string, req *dto.EmployeeRequest) (*dto.EmployeeResponse, error)
	Delete(ctx context.Context, id string) error
	// BulkDelete 返回删除数量；任一 ID 不存在时整体拒绝
	BulkDelete(ctx context.Context, req *dto.BulkDeleteEmployeesRequest) (int, error)
	Summary(ctx context.Context) (*dto.EmployeeSummaryResponse, error)
	Export(ctx context.Context, req *dto.EmployeeExportRequest) (*dto.ExportFile, error)
}

type employeeService struct {
	repo     *repository.Repository
	images   ImageStore
	recorder *audit.Recorder
	logger   *zap.Logger
}

// NewEmployeeService 创建 EmployeeService 实例
func NewEmployeeService(repo *repository.Repository, images ImageStore, recorder *audit.Recorder, logger *zap.Logger) EmployeeService {
	return &employeeService{repo: repo, images: images, recorder: recorder, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *employeeService) List(ctx context.Context, req *dto.EmployeeListRequest) ([]dto.EmployeeResponse, int64, error) {
	filters := &repository.EmployeeListFilters{Name: req.Name, DivisionID: req.DivisionID}

	employees, total, err := s.repo.Employee.ListWithFilters(ctx, filters, req.GetOffset(dto.EmployeePerPage), dto.EmployeePerPage)
	if err != nil {
		s.logger.Error("列出员工失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.EmployeeResponse, 0, len(employees))
	for i := range employees {
		result = append(result, *toEmployeeResponse(&employees[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *employeeService) GetByID(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEmployeeResponse(employee), nil
}

// ────────────────────── Create ──────────────────────

func (s *employeeService) Create(ctx context.Context, req *dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	division, err := s.checkDivision(ctx, req.Division)
	if err != nil {
		return nil, err
	}

	image, err := s.saveImage(ctx, req)
	if err != nil {
		return nil, err
	}

	employee := &model.Employee{
		Name:       req.Name,
		Phone:      req.Phone,
		Position:   req.Position,
		DivisionID: division.ID,
		Image:      image,
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.Create(ctx, employee); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionCreated,
			ModelType:   model.ModelTypeEmployee,
			ModelID:     employee.ID,
			Description: "Created employee: " + employee.Name,
			New:         employee,
		})
		return nil
	})
	if err != nil {
		s.discardImage(ctx, image)
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, invalidDivision()
		}
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	employee.Division = division
	return toEmployeeResponse(employee), nil
}

// ────────────────────── Update ──────────────────────

func (s *employeeService) Update(ctx context.Context, id string, req *dto.EmployeeRequest) (*dto.EmployeeResponse, error) {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	division, err := s.checkDivision(ctx, req.Division)
	if err != nil {
		return nil, err
	}

	newImage, err := s.saveImage(ctx, req)
	if err != nil {
		return nil, err
	}

	old := *employee
	old.Division = nil

	employee.Name = req.Name
	employee.Phone = req.Phone
	employee.Position = req.Position
	employee.DivisionID = division.ID
	employee.Division = nil
	if newImage != nil {
		employee.Image = newImage
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Employee.Update(ctx, employee); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionUpdated,
			ModelType:   model.ModelTypeEmployee,
			ModelID:     employee.ID,
			Description: "Updated employee: " + employee.Name,
			Old:         &old,
			New:         employee,
		})
		return nil
	})
	if err != nil {
		s.discardImage(ctx, newImage)
		if pkgerrors.IsForeignKeyViolation(err) {
			return nil, invalidDivision()
		}
		s.logger.Error("更新员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	// 行已提交，旧照片删除失败由孤儿文件清理任务兜底
	if newImage != nil {
		s.discardImage(ctx, old.Image)
	}

	employee.Division = division
	return toEmployeeResponse(employee), nil
}

// ────────────────────── Delete ──────────────────────

func (s *employeeService) Delete(ctx context.Context, id string) error {
	employee, err := s.getEmployee(ctx, id)
	if err != nil {
		return err
	}

	snapshot := *employee
	snapshot.Division = nil

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionDeleted,
			ModelType:   model.ModelTypeEmployee,
			ModelID:     employee.ID,
			Description: "Deleted employee: " + employee.Name,
			Old:         &snapshot,
		})
		return tx.Employee.Delete(ctx, employee.ID)
	})
	if err != nil {
		s.logger.Error("删除员工失败", zap.String("id", id), zap.Error(err))
		return err
	}

	s.discardImage(ctx, employee.Image)
	return nil
}

// ────────────────────── BulkDelete ──────────────────────

func (s *employeeService) BulkDelete(ctx context.Context, req *dto.BulkDeleteEmployeesRequest) (int, error) {
	ids := make([]string, 0, len(req.IDs))
	seen := make(map[string]bool, len(req.IDs))
	for _, id := range req.IDs {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	employees, err := s.repo.Employee.ListByIDs(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询员工失败", zap.Error(err))
		return 0, err
	}

	found := make(map[string]bool, len(employees))
	for _, e := range employees {
		found[e.ID] = true
	}
	for i, id := range req.IDs {
		if !found[id] {
			field := fmt.Sprintf("ids.%d", i)
			return 0, fieldError(field, "The selected "+field+" is invalid.", ErrEmployeeNotFound)
		}
	}

	names := make([]string, 0, len(employees))
	for _, e := range employees {
		names = append(names, e.Name)
	}
	joined := strings.Join(names, ", ")

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if _, err := tx.Employee.DeleteByIDs(ctx, ids); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionDeleted,
			ModelType:   model.ModelTypeEmployee,
			Description: fmt.Sprintf("Deleted %d employees: %s", len(ids), joined),
			Old: map[string]any{
				"ids":   ids,
				"names": joined,
			},
		})
		return nil
	})
	if err != nil {
		s.logger.Error("批量删除员工失败", zap.Int("count", len(ids)), zap.Error(err))
		return 0, err
	}

	for i := range employees {
		s.discardImage(ctx, employees[i].Image)
	}
	return len(ids), nil
}

// ────────────────────── Summary ──────────────────────

func (s *employeeService) Summary(ctx context.Context) (*dto.EmployeeSummaryResponse, error) {
	total, err := s.repo.Employee.Count(ctx)
	if err != nil {
		s.logger.Error("统计员工数失败", zap.Error(err))
		return nil, err
	}

	byPosition, err := s.repo.Employee.CountByPosition(ctx)
	if err != nil {
		s.logger.Error("按职位统计员工失败", zap.Error(err))
		return nil, err
	}

	byDivision, err := s.repo.Employee.CountByDivision(ctx)
	if err != nil {
		s.logger.Error("按部门统计员工失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.EmployeeSummaryResponse{
		TotalEmployees: total,
		ByPosition:     make([]dto.PositionTotal, 0, len(byPosition)),
		ByDivision:     make([]dto.DivisionTotal, 0, len(byDivision)),
	}
	for _, p := range byPosition {
		resp.ByPosition = append(resp.ByPosition, dto.PositionTotal{Position: p.Position, Total: p.Total})
	}
	for _, d := range byDivision {
		resp.ByDivision = append(resp.ByDivision, dto.DivisionTotal{
			Division: &dto.DivisionBrief{ID: d.DivisionID, Name: d.DivisionName},
			Total:    d.Total,
		})
	}
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *employeeService) getEmployee(ctx context.Context, id string) (*model.Employee, error) {
	employee, err := s.repo.Employee.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		s.logger.Error("查询员工失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return employee, nil
}

// checkDivision 校验员工所属部门存在
func (s *employeeService) checkDivision(ctx context.Context, divisionID string) (*model.Division, error) {
	division, err := s.repo.Division.GetByID(ctx, divisionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidDivision()
		}
		s.logger.Error("查询部门失败", zap.String("division_id", divisionID), zap.Error(err))
		return nil, err
	}
	return division, nil
}

// saveImage 保存上传的照片，未上传时返回 nil
func (s *employeeService) saveImage(ctx context.Context, req *dto.EmployeeRequest) (*string, error) {
	if req.Image == nil {
		return nil, nil
	}
	if req.Image.Size > dto.MaxEmployeeImageBytes {
		return nil, fieldError("image", "The image must not be greater than 2048 kilobytes.", ErrImageTooLarge)
	}

	f, err := req.Image.Open()
	if err != nil {
		return nil, fieldError("image", "The image failed to upload.", ErrInvalidImage)
	}
	defer f.Close()

	url, err := s.images.SaveImage(ctx, f, EmployeeImageDir)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedImage) {
			return nil, fieldError("image", "The image must be a file of type: jpeg, png, jpg, gif.", ErrInvalidImage)
		}
		if errors.Is(err, storage.ErrImageDimensions) {
			return nil, fieldError("image", "The image has invalid dimensions.", ErrInvalidImage)
		}
		s.logger.Error("保存员工照片失败", zap.Error(err))
		return nil, err
	}
	return &url, nil
}

// discardImage 删除照片文件，失败只记录日志
func (s *employeeService) discardImage(ctx context.Context, image *string) {
	if image == nil || *image == "" {
		return
	}
	if err := s.images.Delete(ctx, *image); err != nil {
		s.logger.Warn("删除员工照片失败，等待清理任务处理", zap.String("image", *image), zap.Error(err))
	}
}

func invalidDivision() error {
	return fieldError("division", "The selected division is invalid.", ErrDivisionNotFound)
}

func toEmployeeResponse(e *model.Employee) *dto.EmployeeResponse {
	return &dto.EmployeeResponse{
		ID:        e.ID,
		Image:     e.Image,
		Name:      e.Name,
		Phone:     e.Phone,
		Division:  toDivisionBrief(e.Division),
		Position:  e.Position,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
