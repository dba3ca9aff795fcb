package repository

import (
	"context"

	"gorm.io/gorm"

	"gcstimetable/backend/internal/model"
	pkgerrors "gcstimetable/backend/pkg/errors"
)

// AllocationRepository 排课数据访问接口
// Update 采用版本号乐观锁，版本不匹配返回 ErrOptimisticLock
type AllocationRepository interface {
	Create(ctx context.Context, alloc *model.Allocation) error
	GetByID(ctx context.Context, id string) (*model.Allocation, error)
	ListByTimeTable(ctx context.Context, timeTableID string) ([]model.Allocation, error)
	Update(ctx context.Context, alloc *model.Allocation) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type allocationRepo struct {
	db *gorm.DB
}

// NewAllocationRepo 创建 AllocationRepository 实例
func NewAllocationRepo(db *gorm.DB) AllocationRepository {
	return &allocationRepo{db: db}
}

func (r *allocationRepo) Create(ctx context.Context, alloc *model.Allocation) error {
	return r.db.WithContext(ctx).Create(alloc).Error
}

func (r *allocationRepo) GetByID(ctx context.Context, id string) (*model.Allocation, error) {
	var alloc model.Allocation
	err := r.db.WithContext(ctx).
		Where("allocation_id = ?", id).
		First(&alloc).Error
	if err != nil {
		return nil, err
	}
	return &alloc, nil
}

func (r *allocationRepo) ListByTimeTable(ctx context.Context, timeTableID string) ([]model.Allocation, error) {
	var allocs []model.Allocation
	err := r.db.WithContext(ctx).
		Preload("Slot").
		Preload("Section").
		Preload("Day").
		Preload("Room").
		Preload("Teacher").
		Preload("Course").
		Where("time_table_id = ?", timeTableID).
		Order("created_at ASC").
		Find(&allocs).Error
	return allocs, err
}

func (r *allocationRepo) Update(ctx context.Context, alloc *model.Allocation) error {
	res := r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("allocation_id = ? AND version = ?", alloc.AllocationID, alloc.Version).
		Updates(map[string]interface{}{
			"slot_id":    alloc.SlotID,
			"section_id": alloc.SectionID,
			"day_id":     alloc.DayID,
			"room_id":    alloc.RoomID,
			"teacher_id": alloc.TeacherID,
			"course_id":  alloc.CourseID,
			"name":       alloc.Name,
			"updated_by": alloc.UpdatedBy,
			"version":    alloc.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	alloc.Version++
	return nil
}

func (r *allocationRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Allocation{}).
		Where("allocation_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
