package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/repository"
)

// recentEmployeeLimit 仪表盘展示的最近新增员工数
const recentEmployeeLimit = 5

// DashboardService 仪表盘统计接口
type DashboardService interface {
	Get(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{repo: repo, logger: logger}
}

func (s *dashboardService) Get(ctx context.Context) (*dto.DashboardResponse, error) {
	totalEmployees, err := s.repo.Employee.Count(ctx)
	if err != nil {
		s.logger.Error("统计员工数失败", zap.Error(err))
		return nil, err
	}

	totalDivisions, err := s.repo.Division.Count(ctx)
	if err != nil {
		s.logger.Error("统计部门数失败", zap.Error(err))
		return nil, err
	}

	perDivision, err := s.repo.Division.ListWithEmployeeCount(ctx)
	if err != nil {
		s.logger.Error("统计部门员工数失败", zap.Error(err))
		return nil, err
	}

	recent, err := s.repo.Employee.Recent(ctx, recentEmployeeLimit)
	if err != nil {
		s.logger.Error("查询最近员工失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardResponse{
		TotalEmployees:       totalEmployees,
		TotalDivisions:       totalDivisions,
		EmployeesPerDivision: make([]dto.DivisionEmployeeTotal, 0, len(perDivision)),
		RecentEmployees:      make([]dto.RecentEmployee, 0, len(recent)),
	}
	for _, d := range perDivision {
		resp.EmployeesPerDivision = append(resp.EmployeesPerDivision, dto.DivisionEmployeeTotal{
			ID:             d.ID,
			Name:           d.Name,
			TotalEmployees: d.TotalEmployees,
		})
	}
	for _, e := range recent {
		item := dto.RecentEmployee{
			ID:        e.ID,
			Name:      e.Name,
			Position:  e.Position,
			Image:     e.Image,
			CreatedAt: e.CreatedAt,
		}
		if e.Division != nil {
			item.Division = e.Division.Name
		}
		resp.RecentEmployees = append(resp.RecentEmployees, item)
	}
	return resp, nil
}
