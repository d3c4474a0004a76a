package service

import (
	"errors"
	"fmt"
)

// ── 业务错误 ──

var (
	// 认证
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrWrongPassword      = errors.New("当前密码错误")

	// 管理员
	ErrUserNotFound   = errors.New("管理员不存在")
	ErrUsernameExists = errors.New("用户名已被占用")
	ErrEmailExists    = errors.New("邮箱已被占用")
	ErrUserSelfDelete = errors.New("不能删除当前登录的账号")

	// 部门
	ErrDivisionNotFound     = errors.New("部门不存在")
	ErrDivisionNameExists   = errors.New("部门名称已存在")
	ErrDivisionHasEmployees = errors.New("部门下存在员工，无法删除")

	// 员工
	ErrEmployeeNotFound = errors.New("员工不存在")
	ErrInvalidImage     = errors.New("图片格式不支持")
	ErrImageTooLarge    = errors.New("图片超过大小限制")

	// 考勤
	ErrAttendanceNotFound    = errors.New("考勤记录不存在")
	ErrAttendanceDuplicate   = errors.New("该员工当天已有考勤记录")
	ErrClockOutBeforeClockIn = errors.New("下班时间必须晚于上班时间")
	ErrInvalidStatus         = errors.New("考勤状态无效")
	ErrInvalidDate           = errors.New("日期格式无效")
)

// FieldError 单字段业务校验失败，Handler 映射为 422 并附带 errors 字段
type FieldError struct {
	Field   string
	Message string
	Err     error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldError(field, message string, err error) *FieldError {
	return &FieldError{Field: field, Message: message, Err: err}
}

// DivisionInUseError 部门仍有员工时拒绝删除，携带员工数
type DivisionInUseError struct {
	Employees int64
}

func (e *DivisionInUseError) Error() string {
	return fmt.Sprintf("部门下存在 %d 名员工，无法删除", e.Employees)
}

func (e *DivisionInUseError) Is(target error) bool {
	return target == ErrDivisionHasEmployees
}
