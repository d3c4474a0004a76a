package repository

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// ── 列表查询公共条件 ──
// 值为空时条件被忽略（视为"不过滤"，而不是"匹配空值"）

// Scope 可叠加到查询上的条件
type Scope func(db *gorm.DB) *gorm.DB

// Eq 精确匹配
func Eq(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where(column+" = ?", value)
	}
}

// Contains 子串匹配（大小写不敏感）
func Contains(column, value string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if value == "" {
			return db
		}
		return db.Where("LOWER("+column+`) LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(value))+"%")
	}
}

// OnOrAfter column >= t
func OnOrAfter(column string, t *time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if t == nil {
			return db
		}
		return db.Where(column+" >= ?", *t)
	}
}

// Before column < t
func Before(column string, t *time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if t == nil {
			return db
		}
		return db.Where(column+" < ?", *t)
	}
}

// OnDay 落在 day 当天（[day, day+1)）
func OnDay(column string, day *time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if day == nil {
			return db
		}
		return db.Where(column+" >= ? AND "+column+" < ?", *day, day.AddDate(0, 0, 1))
	}
}

// UpToDay 不晚于 day 当天结束
func UpToDay(column string, day *time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if day == nil {
			return db
		}
		return db.Where(column+" < ?", day.AddDate(0, 0, 1))
	}
}

// escapeLike 转义 LIKE 通配符，保证用户输入按字面匹配
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// findPage 统计总数后按固定排序取一页
// order 必须包含唯一列兜底（如 id），保证翻页稳定
func findPage[T any](q *gorm.DB, offset, limit int, order string, preloads ...string) ([]T, int64, error) {
	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	items := make([]T, 0, limit)
	if total == 0 {
		return items, 0, nil
	}

	find := base.Order(order).Offset(offset).Limit(limit)
	for _, p := range preloads {
		find = find.Preload(p)
	}
	if err := find.Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
