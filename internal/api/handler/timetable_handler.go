package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/service"
	"gcstimetable/backend/pkg/response"
)

// TimeTableHandler 课表模块 HTTP 处理器
type TimeTableHandler struct {
	tableSvc service.TimeTableService
}

// NewTimeTableHandler 创建 TimeTableHandler
func NewTimeTableHandler(tableSvc service.TimeTableService) *TimeTableHandler {
	return &TimeTableHandler{tableSvc: tableSvc}
}

// CreateTimeTable 创建课表
// POST /api/v1/time-tables
func (h *TimeTableHandler) CreateTimeTable(c *gin.Context) {
	var req dto.CreateTimeTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	table, err := h.tableSvc.Create(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		h.handleTimeTableError(c, err)
		return
	}

	response.Created(c, table)
}

// GetTimeTable 获取课表详情
// GET /api/v1/time-tables/:id
func (h *TimeTableHandler) GetTimeTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	table, err := h.tableSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleTimeTableError(c, err)
		return
	}

	response.OK(c, table)
}

// ListTimeTables 获取课表列表
// GET /api/v1/time-tables
func (h *TimeTableHandler) ListTimeTables(c *gin.Context) {
	tables, err := h.tableSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": tables})
}

// UpdateTimeTable 更新课表
// PUT /api/v1/time-tables/:id
func (h *TimeTableHandler) UpdateTimeTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	var req dto.UpdateTimeTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	table, err := h.tableSvc.Update(c.Request.Context(), id, &req, OperatorID(c))
	if err != nil {
		h.handleTimeTableError(c, err)
		return
	}

	response.OK(c, table)
}

// GetGrid 获取课表网格（星期 × 节次）
// GET /api/v1/time-tables/:id/grid
func (h *TimeTableHandler) GetGrid(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	grid, err := h.tableSvc.Grid(c.Request.Context(), id)
	if err != nil {
		h.handleTimeTableError(c, err)
		return
	}

	cells := make([]dto.GridCellResponse, 0)
	for day, slot := range grid {
		cells = append(cells, dto.GridCellResponse{
			Day: dto.DayResponse{ID: day.DayID, Name: day.Name, SortOrder: day.SortOrder},
			Slot: dto.TimeSlotResponse{
				ID:        slot.SlotID,
				Label:     slot.Label,
				StartTime: slot.StartTime,
				EndTime:   slot.EndTime,
				SortOrder: slot.SortOrder,
			},
		})
	}

	response.OK(c, gin.H{"cells": cells})
}

// ListDays 获取星期列表
// GET /api/v1/days
func (h *TimeTableHandler) ListDays(c *gin.Context) {
	days, err := h.tableSvc.ListDays(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": days})
}

// DeleteTimeTable 删除课表
// DELETE /api/v1/time-tables/:id
func (h *TimeTableHandler) DeleteTimeTable(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	if err := h.tableSvc.Delete(c.Request.Context(), id, OperatorID(c)); err != nil {
		h.handleTimeTableError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleTimeTableError 统一处理课表模块业务错误
func (h *TimeTableHandler) handleTimeTableError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeTableNotFound):
		response.NotFound(c, 12001, "课表不存在")
	case errors.Is(err, service.ErrShiftNotFound):
		response.BadRequest(c, 12002, "关联的班次不存在")
	case errors.Is(err, service.ErrShiftInactive):
		response.BadRequest(c, 12003, "班次未启用，无法创建课表")
	case errors.Is(err, service.ErrTimeTableDateInvalid):
		response.BadRequest(c, 12004, "课表结束日期必须晚于开始日期")
	default:
		response.InternalError(c)
	}
}
