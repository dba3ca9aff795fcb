package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/repository"
	"gcstimetable/backend/pkg/lock"
)

// allocationFixture 排课测试夹具：一张课表、两个节次、若干目录实体
type allocationFixture struct {
	repo      *repository.Repository
	svc       AllocationService
	tableID   string
	slot1ID   string
	slot2ID   string
	sectionA  string
	sectionB  string
	roomX     string
	teacherW  string
	dayMonday string
}

func newAllocationFixture(t *testing.T) *allocationFixture {
	t.Helper()
	ctx := context.Background()
	repo := newTestRepo()
	logger := zap.NewNop()

	shift, err := NewShiftService(repo, logger).Create(ctx, &dto.CreateShiftRequest{
		Name: "上午班",
		Slots: []dto.ShiftSlotInput{
			{Label: "第一节", StartTime: "08:10", EndTime: "09:00"},
			{Label: "第二节", StartTime: "09:10", EndTime: "10:00"},
		},
	}, "tester")
	if err != nil {
		t.Fatalf("创建班次失败: %v", err)
	}

	table, err := NewTimeTableService(repo, logger).Create(ctx, &dto.CreateTimeTableRequest{
		Title:     "排课课表",
		ShiftID:   shift.ID,
		StartDate: "2026-03-01",
		EndDate:   "2026-07-15",
	}, "tester")
	if err != nil {
		t.Fatalf("创建课表失败: %v", err)
	}

	catalog := NewCatalogService(repo, logger)
	secA, _ := catalog.CreateSection(ctx, &dto.CreateSectionRequest{Name: "高一(1)班"}, "tester")
	secB, _ := catalog.CreateSection(ctx, &dto.CreateSectionRequest{Name: "高一(2)班"}, "tester")
	room, _ := catalog.CreateRoom(ctx, &dto.CreateRoomRequest{Name: "101", Building: "教学楼A"}, "tester")
	teacher, _ := catalog.CreateTeacher(ctx, &dto.CreateTeacherRequest{Name: "王老师"}, "tester")

	return &allocationFixture{
		repo:      repo,
		svc:       NewAllocationService(repo, lock.NewKeyedMutex(), 2*time.Second, logger),
		tableID:   table.ID,
		slot1ID:   shift.Slots[0].ID,
		slot2ID:   shift.Slots[1].ID,
		sectionA:  secA.ID,
		sectionB:  secB.ID,
		roomX:     room.ID,
		teacherW:  teacher.ID,
		dayMonday: "day-1",
	}
}

func (f *allocationFixture) submitReq() *dto.CreateAllocationRequest {
	return &dto.CreateAllocationRequest{
		TimeTableID: f.tableID,
		SlotID:      f.slot1ID,
		SectionID:   f.sectionA,
		DayID:       &f.dayMonday,
	}
}

func asConflict(t *testing.T, err error) *ConflictError {
	t.Helper()
	var conflictErr *ConflictError
	if !errors.As(err, &conflictErr) {
		t.Fatalf("期望 ConflictError，得到: %v", err)
	}
	return conflictErr
}

func TestAllocationSubmit_Success(t *testing.T) {
	f := newAllocationFixture(t)

	resp, err := f.svc.Submit(context.Background(), f.submitReq(), "tester")
	if err != nil {
		t.Fatalf("提交排课失败: %v", err)
	}
	if resp.DayID == nil || *resp.DayID != f.dayMonday {
		t.Error("响应应回显已排的星期")
	}
}

func TestAllocationSubmit_UnknownTimeTable(t *testing.T) {
	f := newAllocationFixture(t)
	req := f.submitReq()
	req.TimeTableID = "no-such-table"

	_, err := f.svc.Submit(context.Background(), req, "tester")
	if !errors.Is(err, ErrTimeTableNotFound) {
		t.Errorf("期望 ErrTimeTableNotFound，得到: %v", err)
	}
}

func TestAllocationSubmit_SlotNotInShift(t *testing.T) {
	f := newAllocationFixture(t)
	req := f.submitReq()
	req.SlotID = "alien-slot"

	_, err := f.svc.Submit(context.Background(), req, "tester")
	if !errors.Is(err, ErrSlotNotInShift) {
		t.Errorf("期望 ErrSlotNotInShift，得到: %v", err)
	}
}

func TestAllocationSubmit_SectionConflict(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	first, err := f.svc.Submit(ctx, f.submitReq(), "tester")
	if err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	// 同班级同 (星期, 节次) 再次提交被拒
	_, err = f.svc.Submit(ctx, f.submitReq(), "tester")
	conflictErr := asConflict(t, err)
	if len(conflictErr.Conflicts) != 1 || conflictErr.Conflicts[0].Kind != ConflictSection {
		t.Fatalf("期望单项班级冲突，得到: %+v", conflictErr.Conflicts)
	}
	ids := conflictErr.Conflicts[0].AllocationIDs
	if len(ids) != 1 || ids[0] != first.ID {
		t.Errorf("冲突应指向既有排课 %s，得到 %v", first.ID, ids)
	}
}

func TestAllocationSubmit_RejectionIsIdempotent(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, f.submitReq(), "tester"); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	// 重复提交多次，每次都以相同方式被拒，且不产生新记录
	for i := 0; i < 3; i++ {
		_, err := f.svc.Submit(ctx, f.submitReq(), "tester")
		asConflict(t, err)
	}

	list, err := f.svc.List(ctx, &dto.AllocationListRequest{TimeTableID: f.tableID})
	if err != nil {
		t.Fatalf("列出排课失败: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("被拒提交不应留下记录，期望 1 条，得到 %d 条", len(list))
	}
}

func TestAllocationSubmit_RoomOnlyConflict(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	req1 := f.submitReq()
	req1.RoomID = &f.roomX
	if _, err := f.svc.Submit(ctx, req1, "tester"); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	// 不同班级、同教室：只报教室冲突
	req2 := f.submitReq()
	req2.SectionID = f.sectionB
	req2.RoomID = &f.roomX
	_, err := f.svc.Submit(ctx, req2, "tester")
	conflictErr := asConflict(t, err)
	if len(conflictErr.Conflicts) != 1 || conflictErr.Conflicts[0].Kind != ConflictRoom {
		t.Errorf("期望单项教室冲突，得到: %+v", conflictErr.Conflicts)
	}
}

func TestAllocationSubmit_AllConflictsCollected(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	req1 := f.submitReq()
	req1.RoomID = &f.roomX
	req1.TeacherID = &f.teacherW
	if _, err := f.svc.Submit(ctx, req1, "tester"); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	// 班级、教室、教师全部撞车：三类冲突一次性返回
	req2 := f.submitReq()
	req2.RoomID = &f.roomX
	req2.TeacherID = &f.teacherW
	_, err := f.svc.Submit(ctx, req2, "tester")
	conflictErr := asConflict(t, err)
	if len(conflictErr.Conflicts) != 3 {
		t.Fatalf("期望 3 项冲突，得到 %d 项: %+v", len(conflictErr.Conflicts), conflictErr.Conflicts)
	}
	kinds := map[ConflictKind]bool{}
	for _, c := range conflictErr.Conflicts {
		kinds[c.Kind] = true
	}
	for _, want := range []ConflictKind{ConflictSection, ConflictRoom, ConflictTeacher} {
		if !kinds[want] {
			t.Errorf("缺少冲突类别 %s", want)
		}
	}
}

func TestAllocationSubmit_NullDayNeverConflicts(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	// 两条未排日的占位排课，节次班级完全相同，均应成功
	req := f.submitReq()
	req.DayID = nil
	if _, err := f.svc.Submit(ctx, req, "tester"); err != nil {
		t.Fatalf("占位排课应成功: %v", err)
	}
	req2 := f.submitReq()
	req2.DayID = nil
	if _, err := f.svc.Submit(ctx, req2, "tester"); err != nil {
		t.Fatalf("第二条占位排课也应成功: %v", err)
	}

	// 已排日的排课也不与占位排课冲突
	if _, err := f.svc.Submit(ctx, f.submitReq(), "tester"); err != nil {
		t.Fatalf("已排日排课不应与占位排课冲突: %v", err)
	}
}

func TestAllocationSubmit_DifferentCellNoConflict(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, f.submitReq(), "tester"); err != nil {
		t.Fatalf("首次提交应成功: %v", err)
	}

	// 同班级换节次
	req2 := f.submitReq()
	req2.SlotID = f.slot2ID
	if _, err := f.svc.Submit(ctx, req2, "tester"); err != nil {
		t.Fatalf("不同节次不应冲突: %v", err)
	}

	// 同班级换星期
	tuesday := "day-2"
	req3 := f.submitReq()
	req3.DayID = &tuesday
	if _, err := f.svc.Submit(ctx, req3, "tester"); err != nil {
		t.Fatalf("不同星期不应冲突: %v", err)
	}
}

func TestAllocationUpdate_ExcludesSelf(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.submitReq(), "tester")
	if err != nil {
		t.Fatalf("提交排课失败: %v", err)
	}

	// 更新自身但保持坐标不变：不应与自己冲突
	name := "高等数学"
	resp, err := f.svc.Update(ctx, created.ID, &dto.UpdateAllocationRequest{Name: &name}, "tester")
	if err != nil {
		t.Fatalf("原地更新不应冲突: %v", err)
	}
	if resp.Name != name {
		t.Errorf("期望名称 %s，得到 %s", name, resp.Name)
	}
}

func TestAllocationUpdate_MoveIntoConflict(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, f.submitReq(), "tester"); err != nil {
		t.Fatalf("提交排课失败: %v", err)
	}

	// 第二条排在另一节次
	req2 := f.submitReq()
	req2.SlotID = f.slot2ID
	second, err := f.svc.Submit(ctx, req2, "tester")
	if err != nil {
		t.Fatalf("第二条提交失败: %v", err)
	}

	// 把第二条挪到第一条的坐标上：班级冲突
	_, err = f.svc.Update(ctx, second.ID, &dto.UpdateAllocationRequest{SlotID: &f.slot1ID}, "tester")
	conflictErr := asConflict(t, err)
	if conflictErr.Conflicts[0].Kind != ConflictSection {
		t.Errorf("期望班级冲突，得到: %+v", conflictErr.Conflicts)
	}
}

func TestAllocationUpdate_ClearDay(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.submitReq(), "tester")
	if err != nil {
		t.Fatalf("提交排课失败: %v", err)
	}

	resp, err := f.svc.Update(ctx, created.ID, &dto.UpdateAllocationRequest{ClearDay: true}, "tester")
	if err != nil {
		t.Fatalf("清空星期失败: %v", err)
	}
	if resp.DayID != nil {
		t.Error("清空后 day_id 应为空")
	}

	// 腾出的坐标可以被重新占用
	if _, err := f.svc.Submit(ctx, f.submitReq(), "tester"); err != nil {
		t.Fatalf("腾出坐标后提交应成功: %v", err)
	}
}

func TestAllocationSubmit_ConcurrentOneWins(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Submit(ctx, f.submitReq(), "tester")
		}(i)
	}
	wg.Wait()

	// 同一坐标并发提交：恰好一个成功，其余收到冲突
	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var conflictErr *ConflictError
		if !errors.As(err, &conflictErr) {
			t.Errorf("失败者应收到 ConflictError，得到: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("期望恰好 1 个提交成功，得到 %d 个", succeeded)
	}

	list, err := f.svc.List(ctx, &dto.AllocationListRequest{TimeTableID: f.tableID})
	if err != nil {
		t.Fatalf("列出排课失败: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("期望仅 1 条排课落库，得到 %d 条", len(list))
	}
}

func TestAllocationSubmit_LockTimeout(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	// 短等待的服务实例，外部先占住课表锁
	locker := lock.NewKeyedMutex()
	svc := NewAllocationService(f.repo, locker, 50*time.Millisecond, zap.NewNop())

	release, err := locker.Acquire(ctx, f.tableID, time.Second)
	if err != nil {
		t.Fatalf("预占锁失败: %v", err)
	}
	defer release()

	_, err = svc.Submit(ctx, f.submitReq(), "tester")
	if !errors.Is(err, lock.ErrLockTimeout) {
		t.Errorf("期望 ErrLockTimeout，得到: %v", err)
	}
}

func TestAllocationDelete(t *testing.T) {
	f := newAllocationFixture(t)
	ctx := context.Background()

	created, err := f.svc.Submit(ctx, f.submitReq(), "tester")
	if err != nil {
		t.Fatalf("提交排课失败: %v", err)
	}

	if err := f.svc.Delete(ctx, created.ID, "tester"); err != nil {
		t.Fatalf("删除排课失败: %v", err)
	}

	if _, err := f.svc.GetByID(ctx, created.ID); !errors.Is(err, ErrAllocationNotFound) {
		t.Errorf("期望 ErrAllocationNotFound，得到: %v", err)
	}

	// 删除释放坐标
	if _, err := f.svc.Submit(ctx, f.submitReq(), "tester"); err != nil {
		t.Fatalf("删除后重新提交应成功: %v", err)
	}
}
