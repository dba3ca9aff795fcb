package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/model"
	"gcstimetable/backend/internal/repository"
	"gcstimetable/backend/pkg/lock"
)

// ── 排课模块业务错误 ──

var (
	ErrAllocationNotFound = errors.New("排课记录不存在")
	ErrSlotNotInShift     = errors.New("节次不属于该课表绑定的班次")
	ErrDayNotFound        = errors.New("星期不存在")
)

// ── 冲突模型 ──

// ConflictKind 冲突类别
type ConflictKind string

const (
	ConflictSection ConflictKind = "section_conflict"
	ConflictRoom    ConflictKind = "room_conflict"
	ConflictTeacher ConflictKind = "teacher_conflict"
)

var conflictMessages = map[ConflictKind]string{
	ConflictSection: "该班级在此时段已有排课",
	ConflictRoom:    "该教室在此时段已被占用",
	ConflictTeacher: "该教师在此时段已有课",
}

// ConflictDetail 单项冲突：类别 + 与之碰撞的既有排课 ID
type ConflictDetail struct {
	Kind          ConflictKind
	Message       string
	AllocationIDs []string
}

// ConflictError 排课冲突。一次检查收集全部被违反的约束，
// 而不是命中第一项就返回，调用方可一次看清所有问题。
type ConflictError struct {
	Conflicts []ConflictDetail
}

func (e *ConflictError) Error() string {
	kinds := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		kinds = append(kinds, string(c.Kind))
	}
	return fmt.Sprintf("排课冲突: %s", strings.Join(kinds, ", "))
}

// AllocationService 排课业务接口
//
// Submit/Update/Delete 在每个课表粒度上串行执行：先取课表锁再做
// 检查与写入，同一课表的并发提交互斥，不同课表互不影响。
// 等待超过配置时限返回 lock.ErrLockTimeout。
type AllocationService interface {
	Submit(ctx context.Context, req *dto.CreateAllocationRequest, callerID string) (*dto.AllocationResponse, error)
	GetByID(ctx context.Context, id string) (*dto.AllocationResponse, error)
	List(ctx context.Context, req *dto.AllocationListRequest) ([]dto.AllocationResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateAllocationRequest, callerID string) (*dto.AllocationResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type allocationService struct {
	repo     *repository.Repository
	locker   lock.Locker
	lockWait time.Duration
	logger   *zap.Logger
}

// NewAllocationService 创建 AllocationService 实例
func NewAllocationService(repo *repository.Repository, locker lock.Locker, lockWait time.Duration, logger *zap.Logger) AllocationService {
	return &allocationService{repo: repo, locker: locker, lockWait: lockWait, logger: logger}
}

// ────────────────────── Submit ──────────────────────

func (s *allocationService) Submit(ctx context.Context, req *dto.CreateAllocationRequest, callerID string) (*dto.AllocationResponse, error) {
	release, err := s.locker.Acquire(ctx, req.TimeTableID, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	table, err := s.resolveTimeTable(ctx, req.TimeTableID)
	if err != nil {
		return nil, err
	}
	if !table.Shift.HasSlot(req.SlotID) {
		return nil, ErrSlotNotInShift
	}
	if err := s.validateRefs(ctx, req.SectionID, req.DayID, req.RoomID, req.TeacherID, req.CourseID); err != nil {
		return nil, err
	}

	candidate := &model.Allocation{
		TimeTableID: req.TimeTableID,
		SlotID:      req.SlotID,
		SectionID:   req.SectionID,
		DayID:       req.DayID,
		RoomID:      req.RoomID,
		TeacherID:   req.TeacherID,
		CourseID:    req.CourseID,
	}
	if req.Name != nil {
		candidate.Name = *req.Name
	}
	candidate.CreatedBy = &callerID
	candidate.UpdatedBy = &callerID

	if err := s.checkConflicts(ctx, candidate, ""); err != nil {
		return nil, err
	}

	if err := s.repo.Allocation.Create(ctx, candidate); err != nil {
		s.logger.Error("创建排课失败", zap.Error(err))
		return nil, err
	}

	return s.toAllocationResponse(candidate), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *allocationService) GetByID(ctx context.Context, id string) (*dto.AllocationResponse, error) {
	alloc, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("查询排课失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toAllocationResponse(alloc), nil
}

// ────────────────────── List ──────────────────────

func (s *allocationService) List(ctx context.Context, req *dto.AllocationListRequest) ([]dto.AllocationResponse, error) {
	allocs, err := s.repo.Allocation.ListByTimeTable(ctx, req.TimeTableID)
	if err != nil {
		s.logger.Error("列出排课失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.AllocationResponse, 0, len(allocs))
	for i := range allocs {
		a := &allocs[i]
		if req.SectionID != nil && a.SectionID != *req.SectionID {
			continue
		}
		if req.DayID != nil && (a.DayID == nil || *a.DayID != *req.DayID) {
			continue
		}
		result = append(result, *s.toAllocationResponse(a))
	}

	return result, nil
}

// ────────────────────── Update ──────────────────────

func (s *allocationService) Update(ctx context.Context, id string, req *dto.UpdateAllocationRequest, callerID string) (*dto.AllocationResponse, error) {
	// 先定位所属课表以确定锁键
	alloc, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		s.logger.Error("查询排课失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	release, err := s.locker.Acquire(ctx, alloc.TimeTableID, s.lockWait)
	if err != nil {
		return nil, err
	}
	defer release()

	// 取锁后重读，避免拿到锁前的旧版本
	alloc, err = s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAllocationNotFound
		}
		return nil, err
	}

	if req.SlotID != nil {
		alloc.SlotID = *req.SlotID
	}
	if req.SectionID != nil {
		alloc.SectionID = *req.SectionID
	}
	if req.ClearDay {
		alloc.DayID = nil
	} else if req.DayID != nil {
		alloc.DayID = req.DayID
	}
	if req.ClearRoom {
		alloc.RoomID = nil
	} else if req.RoomID != nil {
		alloc.RoomID = req.RoomID
	}
	if req.ClearTeacher {
		alloc.TeacherID = nil
	} else if req.TeacherID != nil {
		alloc.TeacherID = req.TeacherID
	}
	if req.ClearCourse {
		alloc.CourseID = nil
	} else if req.CourseID != nil {
		alloc.CourseID = req.CourseID
	}
	if req.Name != nil {
		alloc.Name = *req.Name
	}

	table, err := s.resolveTimeTable(ctx, alloc.TimeTableID)
	if err != nil {
		return nil, err
	}
	if !table.Shift.HasSlot(alloc.SlotID) {
		return nil, ErrSlotNotInShift
	}
	if err := s.validateRefs(ctx, alloc.SectionID, alloc.DayID, alloc.RoomID, alloc.TeacherID, alloc.CourseID); err != nil {
		return nil, err
	}

	// 冲突比较排除自身
	if err := s.checkConflicts(ctx, alloc, alloc.AllocationID); err != nil {
		return nil, err
	}

	alloc.UpdatedBy = &callerID
	if err := s.repo.Allocation.Update(ctx, alloc); err != nil {
		s.logger.Error("更新排课失败", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	return s.toAllocationResponse(alloc), nil
}

// ────────────────────── Delete ──────────────────────

func (s *allocationService) Delete(ctx context.Context, id string, callerID string) error {
	alloc, err := s.repo.Allocation.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAllocationNotFound
		}
		s.logger.Error("查询排课失败", zap.String("id", id), zap.Error(err))
		return err
	}

	release, err := s.locker.Acquire(ctx, alloc.TimeTableID, s.lockWait)
	if err != nil {
		return err
	}
	defer release()

	if err := s.repo.Allocation.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除排课失败", zap.String("id", id), zap.Error(err))
		return err
	}

	return nil
}

// ── 内部辅助方法 ──

// resolveTimeTable 加载课表及其班次节次
func (s *allocationService) resolveTimeTable(ctx context.Context, id string) (*model.TimeTable, error) {
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
	return table, nil
}

// validateRefs 校验排课引用的目录实体均存在
func (s *allocationService) validateRefs(ctx context.Context, sectionID string, dayID, roomID, teacherID, courseID *string) error {
	if _, err := s.repo.Section.GetByID(ctx, sectionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return err
	}
	if dayID != nil {
		if _, err := s.repo.Day.GetByID(ctx, *dayID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrDayNotFound
			}
			return err
		}
	}
	if roomID != nil {
		if _, err := s.repo.Room.GetByID(ctx, *roomID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRoomNotFound
			}
			return err
		}
	}
	if teacherID != nil {
		if _, err := s.repo.Teacher.GetByID(ctx, *teacherID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrTeacherNotFound
			}
			return err
		}
	}
	if courseID != nil {
		if _, err := s.repo.Course.GetByID(ctx, *courseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
	}
	return nil
}

// checkConflicts 对候选排课做全量冲突检测。
// 规则：同课表内同 (星期, 节次) 坐标上，班级、教室、教师各自唯一；
// 未排日（day_id 为空）的排课不参与任何冲突。
// 三类约束全部检查完毕后一次性返回，excludeID 用于更新时排除自身。
func (s *allocationService) checkConflicts(ctx context.Context, candidate *model.Allocation, excludeID string) error {
	if candidate.DayID == nil {
		return nil
	}

	existing, err := s.repo.Allocation.ListByTimeTable(ctx, candidate.TimeTableID)
	if err != nil {
		s.logger.Error("加载既有排课失败", zap.String("time_table_id", candidate.TimeTableID), zap.Error(err))
		return err
	}

	collisions := map[ConflictKind][]string{}
	for i := range existing {
		other := &existing[i]
		if other.AllocationID == excludeID {
			continue
		}
		if !candidate.SameDaySlot(other) {
			continue
		}
		if other.SectionID == candidate.SectionID {
			collisions[ConflictSection] = append(collisions[ConflictSection], other.AllocationID)
		}
		if candidate.RoomID != nil && other.RoomID != nil && *other.RoomID == *candidate.RoomID {
			collisions[ConflictRoom] = append(collisions[ConflictRoom], other.AllocationID)
		}
		if candidate.TeacherID != nil && other.TeacherID != nil && *other.TeacherID == *candidate.TeacherID {
			collisions[ConflictTeacher] = append(collisions[ConflictTeacher], other.AllocationID)
		}
	}

	if len(collisions) == 0 {
		return nil
	}

	// 固定类别顺序，输出稳定
	conflictErr := &ConflictError{}
	for _, kind := range []ConflictKind{ConflictSection, ConflictRoom, ConflictTeacher} {
		if ids, ok := collisions[kind]; ok {
			conflictErr.Conflicts = append(conflictErr.Conflicts, ConflictDetail{
				Kind:          kind,
				Message:       conflictMessages[kind],
				AllocationIDs: ids,
			})
		}
	}
	return conflictErr
}

func (s *allocationService) toAllocationResponse(alloc *model.Allocation) *dto.AllocationResponse {
	return &dto.AllocationResponse{
		ID:          alloc.AllocationID,
		TimeTableID: alloc.TimeTableID,
		SlotID:      alloc.SlotID,
		SectionID:   alloc.SectionID,
		DayID:       alloc.DayID,
		RoomID:      alloc.RoomID,
		TeacherID:   alloc.TeacherID,
		CourseID:    alloc.CourseID,
		Name:        alloc.Name,
		CreatedAt:   alloc.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   alloc.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
