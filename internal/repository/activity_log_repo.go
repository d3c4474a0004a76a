package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/travian22/aksa-2/internal/model"
)

// ActivityLogListFilters 操作日志过滤条件
type ActivityLogListFilters struct {
	Action    string
	ModelType string
	UserID    string
	From      *time.Time
	To        *time.Time
}

// ActivityLogRepository 操作日志数据访问接口（只追加）
type ActivityLogRepository interface {
	Create(ctx context.Context, log *model.ActivityLog) error
	ListWithFilters(ctx context.Context, filters *ActivityLogListFilters, offset, limit int) ([]model.ActivityLog, int64, error)
}

// activityLogRepo ActivityLogRepository 的 GORM 实现
type activityLogRepo struct {
	db *gorm.DB
}

// NewActivityLogRepo 创建 ActivityLogRepository 实例
func NewActivityLogRepo(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepo{db: db}
}

func (r *activityLogRepo) Create(ctx context.Context, log *model.ActivityLog) error {
	return r.db.WithContext(ctx).Omit("User").Create(log).Error
}

func (r *activityLogRepo) ListWithFilters(ctx context.Context, filters *ActivityLogListFilters, offset, limit int) ([]model.ActivityLog, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.ActivityLog{})
	if filters != nil {
		q = q.Scopes(
			Eq("action", filters.Action),
			Eq("model_type", filters.ModelType),
			Eq("user_id", filters.UserID),
			OnOrAfter("created_at", filters.From),
			UpToDay("created_at", filters.To),
		)
	}
	return findPage[model.ActivityLog](q, offset, limit, "created_at DESC, id DESC", "User")
}
