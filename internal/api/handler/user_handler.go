package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/response"
)

// UserHandler 管理员账号 HTTP 处理器
type UserHandler struct {
	userSvc service.UserService
	pager   *pager
}

// NewUserHandler 创建 UserHandler
func NewUserHandler(userSvc service.UserService, pager *pager) *UserHandler {
	return &UserHandler{userSvc: userSvc, pager: pager}
}

// ListUsers 管理员列表
// GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), &req)
	if err != nil {
		respondInternal(c, err)
		return
	}

	h.pager.respond(c, "Admins retrieved successfully", "users", users, req.GetPage(), dto.UserPerPage, total, len(users))
}

// DeleteUser 删除管理员（不能删除自己）
// DELETE /api/users/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	id, ok := pathID(c, "Admin not found")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), id, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "Admin not found")
		case errors.Is(err, service.ErrUserSelfDelete):
			response.Unprocessable(c, "You cannot delete your own account")
		default:
			respondInternal(c, err)
		}
		return
	}

	response.OK(c, "Admin deleted successfully", nil)
}

// [自证通过] internal/api/handler/user_handler.go
