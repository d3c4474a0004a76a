// Package job 后台定时任务
package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/travian22/aksa-2/pkg/storage"
)

// reapTimeout 单次清理的最长执行时间
const reapTimeout = 4 * time.Minute

// FileStore 需要清理的文件存储
type FileStore interface {
	List(ctx context.Context, dir string) ([]storage.StoredFile, error)
	Delete(ctx context.Context, url string) error
}

// ImageRefs 当前仍被引用的图片地址来源
type ImageRefs interface {
	ListImages(ctx context.Context) ([]string, error)
}

// ImageReaper 定期删除未被任何员工引用的照片
// 上传后事务失败或删除旧照片失败都会留下孤儿文件；
// 只删除超过 grace 的文件，避免误删正在写入数据库的新照片
type ImageReaper struct {
	store  FileStore
	refs   ImageRefs
	dir    string
	grace  time.Duration
	logger *zap.Logger
	cron   *cron.Cron
	now    func() time.Time
}

// NewImageReaper 创建 ImageReaper
func NewImageReaper(store FileStore, refs ImageRefs, dir string, grace time.Duration, logger *zap.Logger) *ImageReaper {
	return &ImageReaper{
		store:  store,
		refs:   refs,
		dir:    dir,
		grace:  grace,
		logger: logger,
		now:    time.Now,
	}
}

// Start 按 spec（cron 表达式或 @every 1h）启动定时清理
func (r *ImageReaper) Start(spec string) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reapTimeout)
		defer cancel()
		if _, err := r.Run(ctx); err != nil {
			r.logger.Error("清理孤儿图片失败", zap.Error(err))
		}
	}); err != nil {
		return err
	}

	r.cron = c
	c.Start()
	r.logger.Info("孤儿图片清理任务已启动",
		zap.String("spec", spec),
		zap.String("dir", r.dir),
		zap.Duration("grace", r.grace),
	)
	return nil
}

// Stop 停止调度并等待正在执行的清理结束
func (r *ImageReaper) Stop(ctx context.Context) {
	if r.cron == nil {
		return
	}
	select {
	case <-r.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// Run 执行一次清理，返回删除的文件数
func (r *ImageReaper) Run(ctx context.Context) (int, error) {
	files, err := r.store.List(ctx, r.dir)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, nil
	}

	images, err := r.refs.ListImages(ctx)
	if err != nil {
		return 0, err
	}
	inUse := make(map[string]struct{}, len(images))
	for _, url := range images {
		inUse[url] = struct{}{}
	}

	threshold := r.now().Add(-r.grace)
	deleted := 0
	for _, f := range files {
		if _, ok := inUse[f.URL]; ok {
			continue
		}
		if f.ModTime.After(threshold) {
			continue
		}
		if err := r.store.Delete(ctx, f.URL); err != nil {
			r.logger.Warn("删除孤儿图片失败", zap.String("url", f.URL), zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		r.logger.Info("已清理孤儿图片", zap.Int("deleted", deleted), zap.Int("scanned", len(files)))
	}
	return deleted, nil
}
