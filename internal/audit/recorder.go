// Package audit 记录写操作的操作日志
package audit

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/travian22/aksa-2/internal/model"
	"github.com/travian22/aksa-2/internal/repository"
)

// Entry 一条待记录的操作
// Old/New 为任意可 JSON 序列化的快照，nil 表示无
type Entry struct {
	Action      string
	ModelType   string
	ModelID     string
	Description string
	Old         any
	New         any
}

// Recorder 操作日志记录器
type Recorder struct {
	logger *zap.Logger
}

// NewRecorder 创建 Recorder
func NewRecorder(logger *zap.Logger) *Recorder {
	return &Recorder{logger: logger}
}

// Record 写入一条操作日志，操作人和 IP 取自 ctx
//
// repo 通常是业务事务内的 Repository：日志随业务一起提交或回滚。
// 写入本身在嵌套事务（SAVEPOINT）中执行，失败只回滚日志并记录错误，不中断业务。
func (r *Recorder) Record(ctx context.Context, repo *repository.Repository, e Entry) {
	actor := FromContext(ctx)

	entry := &model.ActivityLog{
		Action:      e.Action,
		ModelType:   e.ModelType,
		Description: e.Description,
		OldValues:   r.snapshot(e.Old),
		NewValues:   r.snapshot(e.New),
	}
	if e.ModelID != "" {
		id := e.ModelID
		entry.ModelID = &id
	}
	if actor.UserID != "" {
		uid := actor.UserID
		entry.UserID = &uid
	}
	if actor.IP != "" {
		ip := actor.IP
		entry.IPAddress = &ip
	}

	err := repo.Transaction(ctx, func(tx *repository.Repository) error {
		return tx.ActivityLog.Create(ctx, entry)
	})
	if err != nil {
		r.logger.Error("写入操作日志失败",
			zap.String("action", e.Action),
			zap.String("model_type", e.ModelType),
			zap.String("model_id", e.ModelID),
			zap.Error(err),
		)
	}
}

func (r *Recorder) snapshot(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("操作日志快照序列化失败", zap.Error(err))
		return nil
	}
	return datatypes.JSON(b)
}
