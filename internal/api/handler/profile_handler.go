package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/response"
)

// ProfileHandler 个人资料 HTTP 处理器
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetProfile 当前管理员资料
// GET /api/profile
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	admin, err := h.profileSvc.Get(c.Request.Context(), userID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, "Profile retrieved successfully", gin.H{"admin": admin})
}

// UpdateProfile 修改个人资料
// PUT /api/profile
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	admin, err := h.profileSvc.Update(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, "Profile updated successfully", gin.H{"admin": admin})
}

// ChangePassword 修改密码
// PUT /api/profile/password
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.profileSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, "Password changed successfully", nil)
}

// handleProfileError 统一处理个人资料业务错误
func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	if respondFieldError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, "Admin not found")
	case errors.Is(err, service.ErrWrongPassword):
		msg := "The current password is incorrect."
		response.ValidationError(c, msg, map[string]string{"current_password": msg})
	default:
		respondInternal(c, err)
	}
}
