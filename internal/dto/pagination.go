package dto

import (
	"errors"
	"math"
	"strconv"
)

// 各列表固定每页条数（调用方只能指定页码）
const (
	DivisionPerPage    = 10
	EmployeePerPage    = 10
	UserPerPage        = 10
	AttendancePerPage  = 15
	ActivityLogPerPage = 15
)

// MaxPage 页码上限，保证 (page-1)*perPage 不会溢出
const MaxPage = math.MaxInt32

// PageRequest 页码参数
// 缺省、非数字或小于 1 时视为第 1 页；超出上限按 MaxPage 处理
type PageRequest struct {
	Page string `form:"page"`
}

// GetPage 获取页码（含默认值）
func (p *PageRequest) GetPage() int {
	n, err := strconv.Atoi(p.Page)
	if errors.Is(err, strconv.ErrRange) && n > 0 {
		return MaxPage
	}
	if err != nil || n < 1 {
		return 1
	}
	if n > MaxPage {
		return MaxPage
	}
	return n
}

// GetOffset 计算偏移量
func (p *PageRequest) GetOffset(perPage int) int {
	return (p.GetPage() - 1) * perPage
}
