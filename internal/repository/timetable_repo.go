package repository

import (
	"context"

	"gorm.io/gorm"

	"gcstimetable/backend/internal/model"
)

// TimeTableRepository 课表数据访问接口
type TimeTableRepository interface {
	Create(ctx context.Context, table *model.TimeTable) error
	GetByID(ctx context.Context, id string) (*model.TimeTable, error)
	List(ctx context.Context) ([]model.TimeTable, error)
	Update(ctx context.Context, table *model.TimeTable) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type timeTableRepo struct {
	db *gorm.DB
}

// NewTimeTableRepo 创建 TimeTableRepository 实例
func NewTimeTableRepo(db *gorm.DB) TimeTableRepository {
	return &timeTableRepo{db: db}
}

func (r *timeTableRepo) Create(ctx context.Context, table *model.TimeTable) error {
	return r.db.WithContext(ctx).Create(table).Error
}

func (r *timeTableRepo) GetByID(ctx context.Context, id string) (*model.TimeTable, error) {
	var table model.TimeTable
	err := r.db.WithContext(ctx).
		Preload("Shift.Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC")
		}).
		Preload("Shift").
		Where("time_table_id = ?", id).
		First(&table).Error
	if err != nil {
		return nil, err
	}
	return &table, nil
}

func (r *timeTableRepo) List(ctx context.Context) ([]model.TimeTable, error) {
	var tables []model.TimeTable
	err := r.db.WithContext(ctx).
		Preload("Shift").
		Order("start_date DESC").
		Find(&tables).Error
	return tables, err
}

func (r *timeTableRepo) Update(ctx context.Context, table *model.TimeTable) error {
	return r.db.WithContext(ctx).
		Model(&model.TimeTable{}).
		Where("time_table_id = ?", table.TimeTableID).
		Updates(map[string]interface{}{
			"title":       table.Title,
			"description": table.Description,
			"start_date":  table.StartDate,
			"end_date":    table.EndDate,
			"updated_by":  table.UpdatedBy,
		}).Error
}

func (r *timeTableRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 排课归属课表，随课表一并软删除
		if err := tx.Model(&model.Allocation{}).
			Where("time_table_id = ?", id).
			Updates(map[string]interface{}{
				"deleted_by": deletedBy,
				"deleted_at": gorm.Expr("NOW()"),
			}).Error; err != nil {
			return err
		}
		return tx.Model(&model.TimeTable{}).
			Where("time_table_id = ?", id).
			Updates(map[string]interface{}{
				"deleted_by": deletedBy,
				"deleted_at": gorm.Expr("NOW()"),
			}).Error
	})
}
