package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"gcstimetable/backend/internal/service"
	"gcstimetable/backend/pkg/response"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	icsContentType  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportExcel 导出课表为 Excel
// GET /api/v1/export/time-tables/:id/excel
func (h *ExportHandler) ExportExcel(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportExcel(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, xlsxContentType, buf.Bytes())
}

// ExportICS 导出课表为 iCalendar
// GET /api/v1/export/time-tables/:id/ics
func (h *ExportHandler) ExportICS(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "课表ID不能为空")
		return
	}

	buf, filename, err := h.exportSvc.ExportICS(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, filename, icsContentType, buf.Bytes())
}

// writeDownload 设置下载响应头并写出文件内容
func writeDownload(c *gin.Context, filename, contentType string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTimeTableNotFound):
		response.NotFound(c, 15001, "课表不存在")
	case errors.Is(err, service.ErrExportNoAllocations):
		response.BadRequest(c, 15002, "课表中无已排日的排课")
	default:
		response.InternalError(c)
	}
}
