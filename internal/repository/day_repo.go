package repository

import (
	"context"

	"gorm.io/gorm"

	"gcstimetable/backend/internal/model"
)

// DayRepository 星期数据访问接口（固定集合，只读）
type DayRepository interface {
	GetByID(ctx context.Context, id string) (*model.Day, error)
	List(ctx context.Context) ([]model.Day, error)
}

type dayRepo struct {
	db *gorm.DB
}

// NewDayRepo 创建 DayRepository 实例
func NewDayRepo(db *gorm.DB) DayRepository {
	return &dayRepo{db: db}
}

func (r *dayRepo) GetByID(ctx context.Context, id string) (*model.Day, error) {
	var day model.Day
	err := r.db.WithContext(ctx).Where("day_id = ?", id).First(&day).Error
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (r *dayRepo) List(ctx context.Context) ([]model.Day, error) {
	var days []model.Day
	err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&days).Error
	return days, err
}
