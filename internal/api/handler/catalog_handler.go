package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/service"
	"gcstimetable/backend/pkg/response"
)

// CatalogHandler 基础目录模块 HTTP 处理器（班级/教室/教师/课程）
type CatalogHandler struct {
	catalogSvc service.CatalogService
}

// NewCatalogHandler 创建 CatalogHandler
func NewCatalogHandler(catalogSvc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogSvc: catalogSvc}
}

// ── Section ──

// CreateSection POST /api/v1/sections
func (h *CatalogHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	section, err := h.catalogSvc.CreateSection(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, section)
}

// ListSections GET /api/v1/sections
func (h *CatalogHandler) ListSections(c *gin.Context) {
	sections, err := h.catalogSvc.ListSections(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": sections})
}

// DeleteSection DELETE /api/v1/sections/:id
func (h *CatalogHandler) DeleteSection(c *gin.Context) {
	if err := h.catalogSvc.DeleteSection(c.Request.Context(), c.Param("id"), OperatorID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── Room ──

// CreateRoom POST /api/v1/rooms
func (h *CatalogHandler) CreateRoom(c *gin.Context) {
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.catalogSvc.CreateRoom(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, room)
}

// ListRooms GET /api/v1/rooms
func (h *CatalogHandler) ListRooms(c *gin.Context) {
	rooms, err := h.catalogSvc.ListRooms(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rooms})
}

// DeleteRoom DELETE /api/v1/rooms/:id
func (h *CatalogHandler) DeleteRoom(c *gin.Context) {
	if err := h.catalogSvc.DeleteRoom(c.Request.Context(), c.Param("id"), OperatorID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── Teacher ──

// CreateTeacher POST /api/v1/teachers
func (h *CatalogHandler) CreateTeacher(c *gin.Context) {
	var req dto.CreateTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	teacher, err := h.catalogSvc.CreateTeacher(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, teacher)
}

// ListTeachers GET /api/v1/teachers
func (h *CatalogHandler) ListTeachers(c *gin.Context) {
	teachers, err := h.catalogSvc.ListTeachers(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": teachers})
}

// DeleteTeacher DELETE /api/v1/teachers/:id
func (h *CatalogHandler) DeleteTeacher(c *gin.Context) {
	if err := h.catalogSvc.DeleteTeacher(c.Request.Context(), c.Param("id"), OperatorID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// ── Course ──

// CreateCourse POST /api/v1/courses
func (h *CatalogHandler) CreateCourse(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	course, err := h.catalogSvc.CreateCourse(c.Request.Context(), &req, OperatorID(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.Created(c, course)
}

// ListCourses GET /api/v1/courses
func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalogSvc.ListCourses(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": courses})
}

// DeleteCourse DELETE /api/v1/courses/:id
func (h *CatalogHandler) DeleteCourse(c *gin.Context) {
	if err := h.catalogSvc.DeleteCourse(c.Request.Context(), c.Param("id"), OperatorID(c)); err != nil {
		h.handleCatalogError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleCatalogError 统一处理目录模块业务错误
func (h *CatalogHandler) handleCatalogError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSectionNotFound):
		response.NotFound(c, 14001, "班级不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 14002, "教室不存在")
	case errors.Is(err, service.ErrTeacherNotFound):
		response.NotFound(c, 14003, "教师不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 14004, "课程不存在")
	default:
		response.InternalError(c)
	}
}
