package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
)

// ActivityLogService 操作日志查询接口（只读）
type ActivityLogService interface {
	List(ctx context.Context, req *dto.ActivityLogListRequest) ([]dto.ActivityLogResponse, int64, error)
}

type activityLogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewActivityLogService 创建 ActivityLogService 实例
func NewActivityLogService(repo *repository.Repository, logger *zap.Logger) ActivityLogService {
	return &activityLogService{repo: repo, logger: logger}
}

func (s *activityLogService) List(ctx context.Context, req *dto.ActivityLogListRequest) ([]dto.ActivityLogResponse, int64, error) {
	filters := &repository.ActivityLogListFilters{
		Action:    req.Action,
		ModelType: req.ModelType,
		UserID:    req.UserID,
	}

	var err error
	if filters.From, err = parseOptionalDate("from", req.From); err != nil {
		return nil, 0, err
	}
	if filters.To, err = parseOptionalDate("to", req.To); err != nil {
		return nil, 0, err
	}

	logs, total, err := s.repo.ActivityLog.ListWithFilters(ctx, filters, req.GetOffset(dto.ActivityLogPerPage), dto.ActivityLogPerPage)
	if err != nil {
		s.logger.Error("列出操作日志失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.ActivityLogResponse, 0, len(logs))
	for i := range logs {
		result = append(result, toActivityLogResponse(&logs[i]))
	}
	return result, total, nil
}

func toActivityLogResponse(l *model.ActivityLog) dto.ActivityLogResponse {
	resp := dto.ActivityLogResponse{
		ID:          l.ID,
		Action:      l.Action,
		ModelType:   l.ModelType,
		ModelID:     l.ModelID,
		Description: l.Description,
		OldValues:   rawJSON(l.OldValues),
		NewValues:   rawJSON(l.NewValues),
		IPAddress:   l.IPAddress,
		CreatedAt:   l.CreatedAt,
	}
	if l.User != nil {
		resp.User = &dto.UserBrief{ID: l.User.ID, Name: l.User.Name, Username: l.User.Username}
	}
	return resp
}

// rawJSON 空快照输出为 null
func rawJSON(b []byte) json.RawMessage {
	if len(b) == 0 {
		return json.RawMessage("null")
	}
	return json.RawMessage(b)
}
