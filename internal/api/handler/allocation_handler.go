package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/service"
	"gcstimetable/backend/pkg/lock"
	"gcstimetable/backend/pkg/response"
)

// AllocationHandler 排课模块 HTTP 处理器
type AllocationHandler struct {
	allocSvc service.AllocationService
}

// NewAllocationHandler 创建 AllocationHandler
func NewAllocationHandler(allocSvc service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocSvc: allocSvc}
}

// SubmitAllocation 提交排课
// POST /api/v1/allocations
func (h *AllocationHandler) SubmitAllocation(c *gin.Context) {
	var req dto.CreateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	alloc, err := h.allocSvc.Submit(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.Created(c, alloc)
}

// GetAllocation 获取排课详情
// GET /api/v1/allocations/:id
func (h *AllocationHandler) GetAllocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排课ID不能为空")
		return
	}

	alloc, err := h.allocSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, alloc)
}

// ListAllocations 按课表列出排课
// GET /api/v1/allocations?time_table_id=xxx
func (h *AllocationHandler) ListAllocations(c *gin.Context) {
	var req dto.AllocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	allocs, err := h.allocSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, gin.H{"list": allocs})
}

// UpdateAllocation 更新排课
// PUT /api/v1/allocations/:id
func (h *AllocationHandler) UpdateAllocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排课ID不能为空")
		return
	}

	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	alloc, err := h.allocSvc.Update(c.Request.Context(), id, &req, OperatorID(c))
	if err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, alloc)
}

// DeleteAllocation 删除排课
// DELETE /api/v1/allocations/:id
func (h *AllocationHandler) DeleteAllocation(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排课ID不能为空")
		return
	}

	if err := h.allocSvc.Delete(c.Request.Context(), id, OperatorID(c)); err != nil {
		h.handleAllocationError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleAllocationError 统一处理排课模块业务错误
// 冲突以 409 返回并携带全部冲突明细；锁等待超时以 503 返回
func (h *AllocationHandler) handleAllocationError(c *gin.Context, err error) {
	var conflictErr *service.ConflictError
	switch {
	case errors.As(err, &conflictErr):
		response.Conflict(c, 13001, "排课冲突", toConflictResponse(conflictErr))
	case errors.Is(err, lock.ErrLockTimeout):
		response.ServiceUnavailable(c, 13002, "课表正忙，请稍后重试")
	case errors.Is(err, service.ErrAllocationNotFound):
		response.NotFound(c, 13003, "排课记录不存在")
	case errors.Is(err, service.ErrTimeTableNotFound):
		response.NotFound(c, 13004, "课表不存在")
	case errors.Is(err, service.ErrSlotNotInShift):
		response.BadRequest(c, 13005, "节次不属于该课表绑定的班次")
	case errors.Is(err, service.ErrDayNotFound):
		response.BadRequest(c, 13006, "星期不存在")
	case errors.Is(err, service.ErrSectionNotFound):
		response.BadRequest(c, 13007, "班级不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.BadRequest(c, 13008, "教室不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.BadRequest(c, 13009, "教师不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.BadRequest(c, 13010, "课程不存在")
	default:
		response.InternalError(c)
	}
}

func toConflictResponse(conflictErr *service.ConflictError) dto.ConflictResponse {
	resp := dto.ConflictResponse{
		Conflicts: make([]dto.ConflictDetailResponse, 0, len(conflictErr.Conflicts)),
	}
	for _, c := range conflictErr.Conflicts {
		resp.Conflicts = append(resp.Conflicts, dto.ConflictDetailResponse{
			Kind:          string(c.Kind),
			Message:       c.Message,
			AllocationIDs: c.AllocationIDs,
		})
	}
	return resp
}
