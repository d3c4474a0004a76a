package dto

import "time"

// ── 认证 ──

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	Token     string        `json:"token"`
	TokenType string        `json:"token_type"`
	ExpiresIn int           `json:"expires_in"` // 秒
	Admin     AdminResponse `json:"admin"`
}

// LogoutRequest 登出所需的 Token 信息（由中间件提供）
type LogoutRequest struct {
	JTI       string
	ExpiresAt time.Time
}

// ── 管理员 ──

// RegisterRequest 新增管理员
type RegisterRequest struct {
	Name                 string `json:"name"                  binding:"required,max=255"`
	Username             string `json:"username"              binding:"required,max=255"`
	Email                string `json:"email"                 binding:"required,email,max=255"`
	Phone                string `json:"phone"                 binding:"required,max=20"`
	Password             string `json:"password"              binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// UpdateProfileRequest 修改个人资料
type UpdateProfileRequest struct {
	Name     string `json:"name"     binding:"required,max=255"`
	Username string `json:"username" binding:"required,max=255"`
	Phone    string `json:"phone"    binding:"required,max=20"`
	Email    string `json:"email"    binding:"required,email,max=255"`
}

// ChangePasswordRequest 修改密码
type ChangePasswordRequest struct {
	CurrentPassword         string `json:"current_password"          binding:"required"`
	NewPassword             string `json:"new_password"              binding:"required,min=8"`
	NewPasswordConfirmation string `json:"new_password_confirmation" binding:"required,eqfield=NewPassword"`
}

// UserListRequest 管理员列表查询
type UserListRequest struct {
	PageRequest
	Name string `form:"name"`
}

// AdminResponse 管理员信息（不含密码）
type AdminResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserBrief 操作日志中的操作人
type UserBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}
