package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/pkg/timeparse"
)

func newTestShiftService() (ShiftService, *dto.CreateShiftRequest) {
	repo := newTestRepo()
	svc := NewShiftService(repo, zap.NewNop())
	req := &dto.CreateShiftRequest{
		Name: "上午班",
		Slots: []dto.ShiftSlotInput{
			{Label: "第一节", StartTime: "08:10", EndTime: "09:00"},
			{Label: "第二节", StartTime: "09:10", EndTime: "10:00"},
		},
	}
	return svc, req
}

func TestShiftCreate_Success(t *testing.T) {
	svc, req := newTestShiftService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, req, "tester")
	if err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}
	if !resp.IsActive {
		t.Error("新建班次应默认启用")
	}
	if len(resp.Slots) != 2 {
		t.Fatalf("期望 2 个节次，得到 %d 个", len(resp.Slots))
	}

	// 节次按输入顺序从 1 编号，时刻统一为 HH:MM:SS
	if resp.Slots[0].SortOrder != 1 || resp.Slots[1].SortOrder != 2 {
		t.Errorf("节次编号错误: %d, %d", resp.Slots[0].SortOrder, resp.Slots[1].SortOrder)
	}
	if resp.Slots[0].StartTime != "08:10:00" {
		t.Errorf("期望规范化时刻 08:10:00，得到 %s", resp.Slots[0].StartTime)
	}
	if resp.Slots[1].EndTime != "10:00:00" {
		t.Errorf("期望规范化时刻 10:00:00，得到 %s", resp.Slots[1].EndTime)
	}
}

func TestShiftCreate_NoSlots(t *testing.T) {
	svc, req := newTestShiftService()
	req.Slots = nil

	_, err := svc.Create(context.Background(), req, "tester")
	if !errors.Is(err, ErrShiftNoSlots) {
		t.Errorf("期望 ErrShiftNoSlots，得到: %v", err)
	}
}

func TestShiftCreate_StartAfterEnd(t *testing.T) {
	svc, req := newTestShiftService()
	req.Slots = []dto.ShiftSlotInput{
		{Label: "颠倒节", StartTime: "10:00", EndTime: "09:00"},
	}

	_, err := svc.Create(context.Background(), req, "tester")
	if !errors.Is(err, ErrShiftSlotTimeInvalid) {
		t.Errorf("期望 ErrShiftSlotTimeInvalid，得到: %v", err)
	}
}

func TestShiftCreate_OverlappingSlots(t *testing.T) {
	svc, req := newTestShiftService()
	req.Slots = []dto.ShiftSlotInput{
		{Label: "第一节", StartTime: "08:10", EndTime: "09:30"},
		{Label: "第二节", StartTime: "09:00", EndTime: "10:00"},
	}

	_, err := svc.Create(context.Background(), req, "tester")
	if !errors.Is(err, ErrShiftSlotsOverlap) {
		t.Errorf("期望 ErrShiftSlotsOverlap，得到: %v", err)
	}
}

func TestShiftCreate_InvalidTimeFormat(t *testing.T) {
	svc, req := newTestShiftService()
	req.Slots = []dto.ShiftSlotInput{
		{Label: "怪时刻", StartTime: "早上八点", EndTime: "09:00"},
	}

	_, err := svc.Create(context.Background(), req, "tester")
	if !errors.Is(err, timeparse.ErrInvalidTimeFormat) {
		t.Errorf("期望 ErrInvalidTimeFormat，得到: %v", err)
	}
}

func TestShiftSlotAt(t *testing.T) {
	svc, req := newTestShiftService()
	ctx := context.Background()

	created, err := svc.Create(ctx, req, "tester")
	if err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	slot, err := svc.SlotAt(ctx, created.ID, 2)
	if err != nil {
		t.Fatalf("SlotAt 失败: %v", err)
	}
	if slot.Label != "第二节" {
		t.Errorf("期望 第二节，得到 %s", slot.Label)
	}

	if _, err := svc.SlotAt(ctx, created.ID, 99); !errors.Is(err, ErrSlotNotFound) {
		t.Errorf("期望 ErrSlotNotFound，得到: %v", err)
	}
}

func TestShiftActivateDeactivate(t *testing.T) {
	svc, req := newTestShiftService()
	ctx := context.Background()

	created, err := svc.Create(ctx, req, "tester")
	if err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	resp, err := svc.Deactivate(ctx, created.ID, "tester")
	if err != nil {
		t.Fatalf("停用班次失败: %v", err)
	}
	if resp.IsActive {
		t.Error("停用后 is_active 应为 false")
	}

	resp, err = svc.Activate(ctx, created.ID, "tester")
	if err != nil {
		t.Fatalf("启用班次失败: %v", err)
	}
	if !resp.IsActive {
		t.Error("启用后 is_active 应为 true")
	}
}

func TestShiftGetByID_NotFound(t *testing.T) {
	svc, _ := newTestShiftService()

	_, err := svc.GetByID(context.Background(), "no-such-shift")
	if !errors.Is(err, ErrShiftNotFound) {
		t.Errorf("期望 ErrShiftNotFound，得到: %v", err)
	}
}

func TestShiftList_OnlyActive(t *testing.T) {
	repo := newTestRepo()
	svc := NewShiftService(repo, zap.NewNop())
	ctx := context.Background()

	slots := []dto.ShiftSlotInput{{Label: "第一节", StartTime: "08:10", EndTime: "09:00"}}
	a, _ := svc.Create(ctx, &dto.CreateShiftRequest{Name: "甲班次", Slots: slots}, "tester")
	b, _ := svc.Create(ctx, &dto.CreateShiftRequest{Name: "乙班次", Slots: slots}, "tester")
	if _, err := svc.Deactivate(ctx, b.ID, "tester"); err != nil {
		t.Fatalf("停用班次失败: %v", err)
	}

	active, err := svc.List(ctx, true)
	if err != nil {
		t.Fatalf("列出班次失败: %v", err)
	}
	if len(active) != 1 || active[0].ID != a.ID {
		t.Errorf("onlyActive 应只返回启用班次，得到 %d 条", len(active))
	}

	all, err := svc.List(ctx, false)
	if err != nil {
		t.Fatalf("列出班次失败: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("期望 2 条班次，得到 %d 条", len(all))
	}
}
