package service

import (
	"go.uber.org/zap"

	"gcstimetable/backend/config"
	"gcstimetable/backend/internal/repository"
	"gcstimetable/backend/pkg/lock"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Shift      ShiftService
	TimeTable  TimeTableService
	Allocation AllocationService
	Catalog    CatalogService
	Export     ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	locker lock.Locker,
	logger *zap.Logger,
) *Service {
	return &Service{
		Shift:      NewShiftService(repo, logger),
		TimeTable:  NewTimeTableService(repo, logger),
		Allocation: NewAllocationService(repo, locker, cfg.Lock.WaitTimeout, logger),
		Catalog:    NewCatalogService(repo, logger),
		Export:     NewExportService(repo, logger),
	}
}
