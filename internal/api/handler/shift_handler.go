package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/service"
	"gcstimetable/backend/pkg/response"
	"gcstimetable/backend/pkg/timeparse"
)

// ShiftHandler 班次模块 HTTP 处理器
type ShiftHandler struct {
	shiftSvc service.ShiftService
}

// NewShiftHandler 创建 ShiftHandler
func NewShiftHandler(shiftSvc service.ShiftService) *ShiftHandler {
	return &ShiftHandler{shiftSvc: shiftSvc}
}

// CreateShift 创建班次
// POST /api/v1/shifts
func (h *ShiftHandler) CreateShift(c *gin.Context) {
	var req dto.CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.Create(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.Created(c, shift)
}

// GetShift 获取班次详情
// GET /api/v1/shifts/:id
func (h *ShiftHandler) GetShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	shift, err := h.shiftSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// ListShifts 获取班次列表
// GET /api/v1/shifts?only_active=true
func (h *ShiftHandler) ListShifts(c *gin.Context) {
	onlyActive := c.Query("only_active") == "true"

	shifts, err := h.shiftSvc.List(c.Request.Context(), onlyActive)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": shifts})
}

// UpdateShift 更新班次
// PUT /api/v1/shifts/:id
func (h *ShiftHandler) UpdateShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	var req dto.UpdateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	shift, err := h.shiftSvc.Update(c.Request.Context(), id, &req, OperatorID(c))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// ActivateShift 启用班次
// POST /api/v1/shifts/:id/activate
func (h *ShiftHandler) ActivateShift(c *gin.Context) {
	shift, err := h.shiftSvc.Activate(c.Request.Context(), c.Param("id"), OperatorID(c))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// DeactivateShift 停用班次
// POST /api/v1/shifts/:id/deactivate
func (h *ShiftHandler) DeactivateShift(c *gin.Context) {
	shift, err := h.shiftSvc.Deactivate(c.Request.Context(), c.Param("id"), OperatorID(c))
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, shift)
}

// GetSlotAt 按序号获取节次
// GET /api/v1/shifts/:id/slots/:order
func (h *ShiftHandler) GetSlotAt(c *gin.Context) {
	order, err := strconv.Atoi(c.Param("order"))
	if err != nil || order < 1 {
		response.BadRequest(c, 10001, "节次序号必须是正整数")
		return
	}

	slot, err := h.shiftSvc.SlotAt(c.Request.Context(), c.Param("id"), order)
	if err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, slot)
}

// DeleteShift 删除班次
// DELETE /api/v1/shifts/:id
func (h *ShiftHandler) DeleteShift(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "班次ID不能为空")
		return
	}

	if err := h.shiftSvc.Delete(c.Request.Context(), id, OperatorID(c)); err != nil {
		h.handleShiftError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleShiftError 统一处理班次模块业务错误
func (h *ShiftHandler) handleShiftError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrShiftNotFound):
		response.NotFound(c, 11001, "班次不存在")
	case errors.Is(err, service.ErrSlotNotFound):
		response.NotFound(c, 11002, "节次不存在")
	case errors.Is(err, service.ErrShiftNoSlots):
		response.BadRequest(c, 11003, "班次必须至少包含一个节次")
	case errors.Is(err, service.ErrShiftSlotTimeInvalid):
		response.BadRequest(c, 11004, "节次开始时间必须早于结束时间")
	case errors.Is(err, service.ErrShiftSlotsOverlap):
		response.BadRequest(c, 11005, "班次内节次时间段存在重叠")
	case errors.Is(err, timeparse.ErrInvalidTimeFormat):
		response.BadRequest(c, 11006, "无法识别的时间格式")
	default:
		response.InternalError(c)
	}
}
