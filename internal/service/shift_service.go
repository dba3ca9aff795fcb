package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/model"
	"gcstimetable/backend/internal/repository"
	"gcstimetable/backend/pkg/timeparse"
)

// ── 班次模块业务错误 ──

var (
	ErrShiftNotFound        = errors.New("班次不存在")
	ErrShiftNoSlots         = errors.New("班次必须至少包含一个节次")
	ErrShiftSlotTimeInvalid = errors.New("节次开始时间必须早于结束时间")
	ErrShiftSlotsOverlap    = errors.New("班次内节次时间段存在重叠")
	ErrSlotNotFound         = errors.New("节次不存在")
)

// ShiftService 班次业务接口
// 节次结构在创建时一次性确定，之后只能换名或停用整个班次
type ShiftService interface {
	Create(ctx context.Context, req *dto.CreateShiftRequest, callerID string) (*dto.ShiftResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error)
	List(ctx context.Context, onlyActive bool) ([]dto.ShiftResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateShiftRequest, callerID string) (*dto.ShiftResponse, error)
	Activate(ctx context.Context, id string, callerID string) (*dto.ShiftResponse, error)
	Deactivate(ctx context.Context, id string, callerID string) (*dto.ShiftResponse, error)
	SlotAt(ctx context.Context, id string, order int) (*dto.TimeSlotResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type shiftService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewShiftService 创建 ShiftService 实例
func NewShiftService(repo *repository.Repository, logger *zap.Logger) ShiftService {
	return &shiftService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *shiftService) Create(ctx context.Context, req *dto.CreateShiftRequest, callerID string) (*dto.ShiftResponse, error) {
	if len(req.Slots) == 0 {
		return nil, ErrShiftNoSlots
	}

	// 规范化节次时刻并校验：锚定同一日期后 ISO 串可直接按字典序比较
	type normalized struct {
		start, end string
	}
	norms := make([]normalized, 0, len(req.Slots))
	for _, in := range req.Slots {
		start, err := timeparse.ToISO8601FromClockTime(in.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := timeparse.ToISO8601FromClockTime(in.EndTime)
		if err != nil {
			return nil, err
		}
		if start >= end {
			return nil, ErrShiftSlotTimeInvalid
		}
		norms = append(norms, normalized{start: start, end: end})
	}

	// 节次按输入顺序编号，相邻节次不得重叠
	for i := 1; i < len(norms); i++ {
		if norms[i].start < norms[i-1].end {
			return nil, ErrShiftSlotsOverlap
		}
	}

	shift := &model.Shift{
		Name:     req.Name,
		IsActive: true,
		Slots:    make([]model.TimeSlot, 0, len(req.Slots)),
	}
	shift.CreatedBy = &callerID
	shift.UpdatedBy = &callerID
	for i, in := range req.Slots {
		shift.Slots = append(shift.Slots, model.TimeSlot{
			Label:     in.Label,
			StartTime: clockPart(norms[i].start),
			EndTime:   clockPart(norms[i].end),
			SortOrder: i + 1,
		})
	}

	if err := s.repo.Shift.Create(ctx, shift); err != nil {
		s.logger.Error("创建班次失败", zap.Error(err))
		return nil, err
	}

	return s.toShiftResponse(shift), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *shiftService) GetByID(ctx context.Context, id string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toShiftResponse(shift), nil
}

// ────────────────────── List ──────────────────────

func (s *shiftService) List(ctx context.Context, onlyActive bool) ([]dto.ShiftResponse, error) {
	shifts, err := s.repo.Shift.List(ctx, onlyActive)
	if err != nil {
		s.logger.Error("列出班次失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.ShiftResponse, 0, len(shifts))
	for i := range shifts {
		result = append(result, *s.toShiftResponse(&shifts[i]))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *shiftService) Update(ctx context.Context, id string, req *dto.UpdateShiftRequest, callerID string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		shift.Name = *req.Name
	}
	shift.UpdatedBy = &callerID

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		s.logger.Error("更新班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toShiftResponse(shift), nil
}

// ────────────────────── Activate / Deactivate ──────────────────────

func (s *shiftService) Activate(ctx context.Context, id string, callerID string) (*dto.ShiftResponse, error) {
	return s.setActive(ctx, id, true, callerID)
}

func (s *shiftService) Deactivate(ctx context.Context, id string, callerID string) (*dto.ShiftResponse, error) {
	return s.setActive(ctx, id, false, callerID)
}

func (s *shiftService) setActive(ctx context.Context, id string, active bool, callerID string) (*dto.ShiftResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	shift.IsActive = active
	shift.UpdatedBy = &callerID

	if err := s.repo.Shift.Update(ctx, shift); err != nil {
		s.logger.Error("切换班次状态失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toShiftResponse(shift), nil
}

// ────────────────────── SlotAt ──────────────────────

func (s *shiftService) SlotAt(ctx context.Context, id string, order int) (*dto.TimeSlotResponse, error) {
	shift, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	slot := shift.SlotAt(order)
	if slot == nil {
		return nil, ErrSlotNotFound
	}

	resp := toTimeSlotResponse(slot)
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *shiftService) Delete(ctx context.Context, id string, callerID string) error {
	_, err := s.repo.Shift.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("查询班次失败", zap.String("id", id), zap.Error(err))
		return err
	}

	if err := s.repo.Shift.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除班次失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

func (s *shiftService) toShiftResponse(shift *model.Shift) *dto.ShiftResponse {
	resp := &dto.ShiftResponse{
		ID:        shift.ShiftID,
		Name:      shift.Name,
		IsActive:  shift.IsActive,
		Slots:     make([]dto.TimeSlotResponse, 0, len(shift.Slots)),
		CreatedAt: shift.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: shift.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for i := range shift.Slots {
		resp.Slots = append(resp.Slots, toTimeSlotResponse(&shift.Slots[i]))
	}
	return resp
}

func toTimeSlotResponse(slot *model.TimeSlot) dto.TimeSlotResponse {
	return dto.TimeSlotResponse{
		ID:        slot.SlotID,
		Label:     slot.Label,
		StartTime: slot.StartTime,
		EndTime:   slot.EndTime,
		SortOrder: slot.SortOrder,
	}
}

// clockPart 从锚定的 ISO8601 串中取回 HH:MM:SS 时刻部分
func clockPart(iso string) string {
	// "2000-01-01T08:10:00+08:00" → "08:10:00"
	return iso[11:19]
}
