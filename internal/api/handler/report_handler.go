package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/response"
)

// ────────────────────── Dashboard ──────────────────────

// DashboardHandler 仪表盘 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard 仪表盘统计
// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	result, err := h.dashboardSvc.Get(c.Request.Context())
	if err != nil {
		respondInternal(c, err)
		return
	}

	response.OK(c, "Dashboard data retrieved successfully", result)
}

// ────────────────────── ActivityLog ──────────────────────

// ActivityLogHandler 操作日志 HTTP 处理器
type ActivityLogHandler struct {
	activityLogSvc service.ActivityLogService
	pager          *pager
}

// NewActivityLogHandler 创建 ActivityLogHandler
func NewActivityLogHandler(activityLogSvc service.ActivityLogService, pager *pager) *ActivityLogHandler {
	return &ActivityLogHandler{activityLogSvc: activityLogSvc, pager: pager}
}

// ListActivityLogs 操作日志列表
// GET /api/activity-logs
func (h *ActivityLogHandler) ListActivityLogs(c *gin.Context) {
	var req dto.ActivityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logs, total, err := h.activityLogSvc.List(c.Request.Context(), &req)
	if err != nil {
		if respondFieldError(c, err) {
			return
		}
		respondInternal(c, err)
		return
	}

	h.pager.respond(c, "Activity logs retrieved successfully", "activity_logs", logs, req.GetPage(), dto.ActivityLogPerPage, total, len(logs))
}
