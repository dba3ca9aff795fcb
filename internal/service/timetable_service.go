package service

import (
	"context"
	"errors"
	"iter"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/model"
	"gcstimetable/backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrTimeTableNotFound    = errors.New("课表不存在")
	ErrShiftInactive        = errors.New("班次未启用，无法创建课表")
	ErrTimeTableDateInvalid = errors.New("课表结束日期必须晚于开始日期")
)

const dateLayout = "2006-01-02"

// TimeTableService 课表业务接口
//
// Grid 返回课表的 星期 × 节次 网格序列：外层按星期 sort_order、
// 内层按节次 sort_order 逐格产出，可重复 range。
type TimeTableService interface {
	Create(ctx context.Context, req *dto.CreateTimeTableRequest, callerID string) (*dto.TimeTableResponse, error)
	GetByID(ctx context.Context, id string) (*dto.TimeTableResponse, error)
	List(ctx context.Context) ([]dto.TimeTableResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateTimeTableRequest, callerID string) (*dto.TimeTableResponse, error)
	Grid(ctx context.Context, id string) (iter.Seq2[model.Day, model.TimeSlot], error)
	ListDays(ctx context.Context) ([]dto.DayResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type timeTableService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewTimeTableService 创建 TimeTableService 实例
func NewTimeTableService(repo *repository.Repository, logger *zap.Logger) TimeTableService {
	return &timeTableService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *timeTableService) Create(ctx context.Context, req *dto.CreateTimeTableRequest, callerID string) (*dto.TimeTableResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, req.ShiftID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("shift_id", req.ShiftID), zap.Error(err))
		return nil, err
	}
	if !shift.IsActive {
		return nil, ErrShiftInactive
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, ErrTimeTableDateInvalid
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, ErrTimeTableDateInvalid
	}
	if !end.After(start) {
		return nil, ErrTimeTableDateInvalid
	}

	table := &model.TimeTable{
		Title:       req.Title,
		Description: req.Description,
		ShiftID:     req.ShiftID,
		StartDate:   start,
		EndDate:     end,
	}
	table.CreatedBy = &callerID
	table.UpdatedBy = &callerID

	if err := s.repo.TimeTable.Create(ctx, table); err != nil {
		s.logger.Error("创建课表失败", zap.Error(err))
		return nil, err
	}
	table.Shift = shift

	return s.toTimeTableResponse(table), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *timeTableService) GetByID(ctx context.Context, id string) (*dto.TimeTableResponse, error) {
	table, err := s.repo.TimeTable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeTableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTimeTableResponse(table), nil
}

// ────────────────────── List ──────────────────────

func (s *timeTableService) List(ctx context.Context) ([]dto.TimeTableResponse, error) {
	tables, err := s.repo.TimeTable.List(ctx)
	if err != nil {
		s.logger.Error("列出课表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TimeTableResponse, 0, len(tables))
	for i := range tables {
		result = append(result, *s.toTimeTableResponse(&tables[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *timeTableService) Update(ctx context.Context, id string, req *dto.UpdateTimeTableRequest, callerID string) (*dto.TimeTableResponse, error) {
	table, err := s.repo.TimeTable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeTableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Title != nil {
		table.Title = *req.Title
	}
	if req.Description != nil {
		table.Description = *req.Description
	}
	if req.StartDate != nil {
		start, err := time.Parse(dateLayout, *req.StartDate)
		if err != nil {
			return nil, ErrTimeTableDateInvalid
		}
		table.StartDate = start
	}
	if req.EndDate != nil {
		end, err := time.Parse(dateLayout, *req.EndDate)
		if err != nil {
			return nil, ErrTimeTableDateInvalid
		}
		table.EndDate = end
	}
	if !table.EndDate.After(table.StartDate) {
		return nil, ErrTimeTableDateInvalid
	}

	table.UpdatedBy = &callerID

	if err := s.repo.TimeTable.Update(ctx, table); err != nil {
		s.logger.Error("更新课表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toTimeTableResponse(table), nil
}

// ────────────────────── Grid ──────────────────────

func (s *timeTableService) Grid(ctx context.Context, id string) (iter.Seq2[model.Day, model.TimeSlot], error) {
	table, err := s.repo.TimeTable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTimeTableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	if table.Shift == nil {
		return nil, ErrShiftNotFound
	}

	days, err := s.repo.Day.List(ctx)
	if err != nil {
		s.logger.Error("列出星期失败", zap.Error(err))
		return nil, err
	}

	slots := table.Shift.Slots
	return func(yield func(model.Day, model.TimeSlot) bool) {
		for _, day := range days {
			for _, slot := range slots {
				if !yield(day, slot) {
					return
				}
			}
		}
	}, nil
}

// ────────────────────── ListDays ──────────────────────

func (s *timeTableService) ListDays(ctx context.Context) ([]dto.DayResponse, error) {
	days, err := s.repo.Day.List(ctx)
	if err != nil {
		s.logger.Error("列出星期失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.DayResponse, 0, len(days))
	for _, d := range days {
		result = append(result, dto.DayResponse{
			ID:        d.DayID,
			Name:      d.Name,
			SortOrder: d.SortOrder,
		})
	}

	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *timeTableService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.TimeTable.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTimeTableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.TimeTable.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除课表失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *timeTableService) toTimeTableResponse(table *model.TimeTable) *dto.TimeTableResponse {
	resp := &dto.TimeTableResponse{
		ID:          table.TimeTableID,
		Title:       table.Title,
		Description: table.Description,
		ShiftID:     table.ShiftID,
		StartDate:   table.StartDate.Format(dateLayout),
		EndDate:     table.EndDate.Format(dateLayout),
		CreatedAt:   table.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   table.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}

	if table.Shift != nil {
		resp.Shift = &dto.ShiftBrief{
			ID:       table.Shift.ShiftID,
			Name:     table.Shift.Name,
			IsActive: table.Shift.IsActive,
		}
	}

	return resp
}
