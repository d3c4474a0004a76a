package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/audit"
	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
	pkgerrors "github.com/travian22/aksa-2/pkg/errors"
)

const dateLayout = "2006-01-02"

// AttendanceService 考勤业务接口
type AttendanceService interface {
	List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error)
	GetByID(ctx context.Context, id string) (*dto.AttendanceResponse, error)
	// Create 同一员工同一天已有记录时返回 ErrAttendanceDuplicate
	Create(ctx context.Context, req *dto.AttendanceRequest) (*dto.AttendanceResponse, error)
	Update(ctx context.Context, id string, req *dto.AttendanceRequest) (*dto.AttendanceResponse, error)
	Delete(ctx context.Context, id string) error
	// Summary 月度按员工统计各状态次数
	Summary(ctx context.Context, req *dto.AttendanceSummaryRequest) (*dto.AttendanceSummaryResponse, error)
}

type attendanceService struct {
	repo     *repository.Repository
	recorder *audit.Recorder
	logger   *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, recorder *audit.Recorder, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, recorder: recorder, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *attendanceService) List(ctx context.Context, req *dto.AttendanceListRequest) ([]dto.AttendanceResponse, int64, error) {
	filters := &repository.AttendanceListFilters{
		EmployeeID: req.EmployeeID,
		DivisionID: req.DivisionID,
	}
	if req.Status != "" {
		status, ok := model.NormalizeAttendanceStatus(req.Status)
		if !ok {
			return nil, 0, fieldError("status", "The selected status is invalid.", ErrInvalidStatus)
		}
		filters.Status = status
	}

	var err error
	if filters.Date, err = parseOptionalDate("date", req.Date); err != nil {
		return nil, 0, err
	}
	if filters.From, err = parseOptionalDate("from", req.From); err != nil {
		return nil, 0, err
	}
	if filters.To, err = parseOptionalDate("to", req.To); err != nil {
		return nil, 0, err
	}

	attendances, total, err := s.repo.Attendance.ListWithFilters(ctx, filters, req.GetOffset(dto.AttendancePerPage), dto.AttendancePerPage)
	if err != nil {
		s.logger.Error("列出考勤失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.AttendanceResponse, 0, len(attendances))
	for i := range attendances {
		result = append(result, *toAttendanceResponse(&attendances[i]))
	}
	return result, total, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *attendanceService) GetByID(ctx context.Context, id string) (*dto.AttendanceResponse, error) {
	attendance, err := s.getAttendance(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAttendanceResponse(attendance), nil
}

// ────────────────────── Create ──────────────────────

func (s *attendanceService) Create(ctx context.Context, req *dto.AttendanceRequest) (*dto.AttendanceResponse, error) {
	attendance := &model.Attendance{}
	employee, err := s.apply(ctx, attendance, req)
	if err != nil {
		return nil, err
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Attendance.Create(ctx, attendance); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionCreated,
			ModelType:   model.ModelTypeAttendance,
			ModelID:     attendance.ID,
			Description: fmt.Sprintf("Created attendance for %s on %s", employee.Name, attendance.DateString()),
			New:         toAttendanceSnapshot(attendance),
		})
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err, "创建考勤失败")
	}

	attendance.Employee = employee
	return toAttendanceResponse(attendance), nil
}

// ────────────────────── Update ──────────────────────

func (s *attendanceService) Update(ctx context.Context, id string, req *dto.AttendanceRequest) (*dto.AttendanceResponse, error) {
	attendance, err := s.getAttendance(ctx, id)
	if err != nil {
		return nil, err
	}
	old := toAttendanceSnapshot(attendance)

	employee, err := s.apply(ctx, attendance, req)
	if err != nil {
		return nil, err
	}
	attendance.Employee = nil

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Attendance.Update(ctx, attendance); err != nil {
			return err
		}
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionUpdated,
			ModelType:   model.ModelTypeAttendance,
			ModelID:     attendance.ID,
			Description: fmt.Sprintf("Updated attendance for %s on %s", employee.Name, attendance.DateString()),
			Old:         old,
			New:         toAttendanceSnapshot(attendance),
		})
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err, "更新考勤失败")
	}

	attendance.Employee = employee
	return toAttendanceResponse(attendance), nil
}

// ────────────────────── Delete ──────────────────────

func (s *attendanceService) Delete(ctx context.Context, id string) error {
	attendance, err := s.getAttendance(ctx, id)
	if err != nil {
		return err
	}

	name := ""
	if attendance.Employee != nil {
		name = attendance.Employee.Name
	}

	err = s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		s.recorder.Record(ctx, tx, audit.Entry{
			Action:      model.ActionDeleted,
			ModelType:   model.ModelTypeAttendance,
			ModelID:     attendance.ID,
			Description: fmt.Sprintf("Deleted attendance for %s on %s", name, attendance.DateString()),
			Old:         toAttendanceSnapshot(attendance),
		})
		return tx.Attendance.Delete(ctx, attendance.ID)
	})
	if err != nil {
		s.logger.Error("删除考勤失败", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── Summary ──────────────────────

func (s *attendanceService) Summary(ctx context.Context, req *dto.AttendanceSummaryRequest) (*dto.AttendanceSummaryResponse, error) {
	if req.DivisionID != "" {
		if _, err := s.repo.Division.GetByID(ctx, req.DivisionID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fieldError("division_id", "The selected division id is invalid.", ErrDivisionNotFound)
			}
			s.logger.Error("查询部门失败", zap.String("division_id", req.DivisionID), zap.Error(err))
			return nil, err
		}
	}

	from := time.Date(req.Year, time.Month(req.Month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	employees, err := s.repo.Employee.ListByDivision(ctx, req.DivisionID)
	if err != nil {
		s.logger.Error("查询汇总员工失败", zap.Error(err))
		return nil, err
	}

	counts, err := s.repo.Attendance.CountByEmployeeStatus(ctx, from, to, req.DivisionID)
	if err != nil {
		s.logger.Error("统计考勤失败", zap.Int("year", req.Year), zap.Int("month", req.Month), zap.Error(err))
		return nil, err
	}

	byEmployee := make(map[string]*dto.StatusCounts, len(employees))
	for _, c := range counts {
		sc, ok := byEmployee[c.EmployeeID]
		if !ok {
			sc = &dto.StatusCounts{}
			byEmployee[c.EmployeeID] = sc
		}
		switch c.Status {
		case model.AttendanceHadir:
			sc.Hadir += c.Total
		case model.AttendanceIzin:
			sc.Izin += c.Total
		case model.AttendanceSakit:
			sc.Sakit += c.Total
		case model.AttendanceAlpha:
			sc.Alpha += c.Total
		}
		sc.Total += c.Total
	}

	resp := &dto.AttendanceSummaryResponse{
		Month:     req.Month,
		Year:      req.Year,
		Employees: make([]dto.EmployeeAttendanceSummary, 0, len(employees)),
	}
	for _, e := range employees {
		item := dto.EmployeeAttendanceSummary{
			Employee: dto.SummaryEmployee{ID: e.ID, Name: e.Name, Position: e.Position},
		}
		if e.Division != nil {
			item.Employee.Division = e.Division.Name
		}
		if sc, ok := byEmployee[e.ID]; ok {
			item.Summary = *sc
		}
		resp.Employees = append(resp.Employees, item)
	}
	return resp, nil
}

// ── 内部辅助方法 ──

func (s *attendanceService) getAttendance(ctx context.Context, id string) (*model.Attendance, error) {
	attendance, err := s.repo.Attendance.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAttendanceNotFound
		}
		s.logger.Error("查询考勤失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return attendance, nil
}

// apply 校验请求并写入 attendance，返回所属员工
func (s *attendanceService) apply(ctx context.Context, attendance *model.Attendance, req *dto.AttendanceRequest) (*model.Employee, error) {
	employee, err := s.repo.Employee.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fieldError("employee_id", "The selected employee id is invalid.", ErrEmployeeNotFound)
		}
		s.logger.Error("查询员工失败", zap.String("employee_id", req.EmployeeID), zap.Error(err))
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, fieldError("date", "The date does not match the format Y-m-d.", ErrInvalidDate)
	}

	status, ok := model.NormalizeAttendanceStatus(req.Status)
	if !ok {
		return nil, fieldError("status", "The selected status is invalid.", ErrInvalidStatus)
	}

	clockIn, clockOut := emptyToNil(req.ClockIn), emptyToNil(req.ClockOut)
	if clockIn != nil && clockOut != nil && *clockOut <= *clockIn {
		return nil, fieldError("clock_out", "The clock out must be a date after clock in.", ErrClockOutBeforeClockIn)
	}

	exists, err := s.repo.Attendance.ExistsForEmployeeOnDate(ctx, employee.ID, date, attendance.ID)
	if err != nil {
		s.logger.Error("检查重复考勤失败", zap.Error(err))
		return nil, err
	}
	if exists {
		return nil, ErrAttendanceDuplicate
	}

	attendance.EmployeeID = employee.ID
	attendance.Date = date
	attendance.ClockIn = clockIn
	attendance.ClockOut = clockOut
	attendance.Status = status
	attendance.Notes = emptyToNil(req.Notes)
	return employee, nil
}

// mapWriteError 唯一约束冲突（并发重复提交）映射为 ErrAttendanceDuplicate
func (s *attendanceService) mapWriteError(err error, msg string) error {
	if pkgerrors.IsUniqueViolation(err) {
		return ErrAttendanceDuplicate
	}
	if pkgerrors.IsForeignKeyViolation(err) {
		return fieldError("employee_id", "The selected employee id is invalid.", ErrEmployeeNotFound)
	}
	s.logger.Error(msg, zap.Error(err))
	return err
}

// parseOptionalDate 解析可选的 YYYY-MM-DD 参数
func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fieldError(field, fmt.Sprintf("The %s does not match the format Y-m-d.", field), ErrInvalidDate)
	}
	return &t, nil
}

func emptyToNil(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// attendanceSnapshot 操作日志中的考勤快照
type attendanceSnapshot struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	ClockIn    *string `json:"clock_in"`
	ClockOut   *string `json:"clock_out"`
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

func toAttendanceSnapshot(a *model.Attendance) *attendanceSnapshot {
	return &attendanceSnapshot{
		EmployeeID: a.EmployeeID,
		Date:       a.DateString(),
		ClockIn:    a.ClockIn,
		ClockOut:   a.ClockOut,
		Status:     a.Status,
		Notes:      a.Notes,
	}
}

func toAttendanceResponse(a *model.Attendance) *dto.AttendanceResponse {
	resp := &dto.AttendanceResponse{
		ID:        a.ID,
		Date:      a.DateString(),
		ClockIn:   a.ClockIn,
		ClockOut:  a.ClockOut,
		Status:    a.Status,
		Notes:     a.Notes,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if a.Employee != nil {
		resp.Employee = &dto.AttendanceEmployee{
			ID:       a.Employee.ID,
			Name:     a.Employee.Name,
			Position: a.Employee.Position,
			Division: toDivisionBrief(a.Employee.Division),
		}
	}
	return resp
}
