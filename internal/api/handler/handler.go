package handler

import "gcstimetable/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Shift      *ShiftHandler
	TimeTable  *TimeTableHandler
	Allocation *AllocationHandler
	Catalog    *CatalogHandler
	Export     *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Shift:      NewShiftHandler(svc.Shift),
		TimeTable:  NewTimeTableHandler(svc.TimeTable),
		Allocation: NewAllocationHandler(svc.Allocation),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Export:     NewExportHandler(svc.Export),
	}
}
