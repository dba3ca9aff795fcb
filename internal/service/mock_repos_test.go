package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"gcstimetable/backend/internal/model"
	"gcstimetable/backend/internal/repository"
	pkgerrors "gcstimetable/backend/pkg/errors"
)

// ── Mock ShiftRepository ──

type mockShiftRepo struct {
	mu     sync.Mutex
	shifts map[string]*model.Shift
	seq    int
}

func newMockShiftRepo() *mockShiftRepo {
	return &mockShiftRepo{shifts: make(map[string]*model.Shift)}
}

func (m *mockShiftRepo) Create(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if shift.ShiftID == "" {
		shift.ShiftID = fmt.Sprintf("shift-%d", m.seq)
	}
	for i := range shift.Slots {
		shift.Slots[i].ShiftID = shift.ShiftID
		if shift.Slots[i].SlotID == "" {
			shift.Slots[i].SlotID = fmt.Sprintf("%s-slot-%d", shift.ShiftID, i+1)
		}
	}
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) GetByID(_ context.Context, id string) (*model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.shifts[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockShiftRepo) List(_ context.Context, onlyActive bool) ([]model.Shift, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Shift
	for _, s := range m.shifts {
		if onlyActive && !s.IsActive {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ShiftID < result[j].ShiftID })
	return result, nil
}

func (m *mockShiftRepo) Update(_ context.Context, shift *model.Shift) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shifts[shift.ShiftID] = shift
	return nil
}

func (m *mockShiftRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.shifts, id)
	return nil
}

// ── Mock TimeTableRepository ──

type mockTimeTableRepo struct {
	mu     sync.Mutex
	tables map[string]*model.TimeTable
	shifts *mockShiftRepo
	seq    int
}

func newMockTimeTableRepo(shifts *mockShiftRepo) *mockTimeTableRepo {
	return &mockTimeTableRepo{tables: make(map[string]*model.TimeTable), shifts: shifts}
}

func (m *mockTimeTableRepo) Create(_ context.Context, table *model.TimeTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if table.TimeTableID == "" {
		table.TimeTableID = fmt.Sprintf("tt-%d", m.seq)
	}
	m.tables[table.TimeTableID] = table
	return nil
}

func (m *mockTimeTableRepo) GetByID(ctx context.Context, id string) (*model.TimeTable, error) {
	m.mu.Lock()
	table, ok := m.tables[id]
	m.mu.Unlock()
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	// 模拟 Preload：挂上班次关联
	if table.Shift == nil && m.shifts != nil {
		if shift, err := m.shifts.GetByID(ctx, table.ShiftID); err == nil {
			table.Shift = shift
		}
	}
	return table, nil
}

func (m *mockTimeTableRepo) List(_ context.Context) ([]model.TimeTable, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.TimeTable
	for _, t := range m.tables {
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].TimeTableID < result[j].TimeTableID })
	return result, nil
}

func (m *mockTimeTableRepo) Update(_ context.Context, table *model.TimeTable) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[table.TimeTableID] = table
	return nil
}

func (m *mockTimeTableRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tables, id)
	return nil
}

// ── Mock DayRepository ──

type mockDayRepo struct {
	days map[string]*model.Day
}

func newMockDayRepo() *mockDayRepo {
	return &mockDayRepo{days: make(map[string]*model.Day)}
}

func (m *mockDayRepo) seed() {
	names := []string{"周一", "周二", "周三", "周四", "周五", "周六"}
	for i, name := range names {
		id := fmt.Sprintf("day-%d", i+1)
		m.days[id] = &model.Day{DayID: id, Name: name, SortOrder: i + 1}
	}
}

func (m *mockDayRepo) GetByID(_ context.Context, id string) (*model.Day, error) {
	if d, ok := m.days[id]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDayRepo) List(_ context.Context) ([]model.Day, error) {
	var result []model.Day
	for _, d := range m.days {
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SortOrder < result[j].SortOrder })
	return result, nil
}

// ── Mock AllocationRepository ──

type mockAllocationRepo struct {
	mu     sync.Mutex
	allocs map[string]*model.Allocation
	seq    int
}

func newMockAllocationRepo() *mockAllocationRepo {
	return &mockAllocationRepo{allocs: make(map[string]*model.Allocation)}
}

func (m *mockAllocationRepo) Create(_ context.Context, alloc *model.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	if alloc.AllocationID == "" {
		alloc.AllocationID = fmt.Sprintf("alloc-%d", m.seq)
	}
	if alloc.Version == 0 {
		alloc.Version = 1
	}
	stored := *alloc
	m.allocs[alloc.AllocationID] = &stored
	return nil
}

func (m *mockAllocationRepo) GetByID(_ context.Context, id string) (*model.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.allocs[id]; ok {
		found := *a
		return &found, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAllocationRepo) ListByTimeTable(_ context.Context, timeTableID string) ([]model.Allocation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.Allocation
	for _, a := range m.allocs {
		if a.TimeTableID == timeTableID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AllocationID < result[j].AllocationID })
	return result, nil
}

func (m *mockAllocationRepo) Update(_ context.Context, alloc *model.Allocation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.allocs[alloc.AllocationID]
	if !ok || stored.Version != alloc.Version {
		return pkgerrors.ErrOptimisticLock
	}
	alloc.Version++
	updated := *alloc
	m.allocs[alloc.AllocationID] = &updated
	return nil
}

func (m *mockAllocationRepo) Delete(_ context.Context, id string, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.allocs, id)
	return nil
}

// ── Mock 目录 Repositories ──

type mockSectionRepo struct {
	sections map[string]*model.Section
	seq      int
}

func newMockSectionRepo() *mockSectionRepo {
	return &mockSectionRepo{sections: make(map[string]*model.Section)}
}

func (m *mockSectionRepo) Create(_ context.Context, s *model.Section) error {
	m.seq++
	if s.SectionID == "" {
		s.SectionID = fmt.Sprintf("sec-%d", m.seq)
	}
	m.sections[s.SectionID] = s
	return nil
}

func (m *mockSectionRepo) GetByID(_ context.Context, id string) (*model.Section, error) {
	if s, ok := m.sections[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSectionRepo) List(_ context.Context) ([]model.Section, error) {
	var result []model.Section
	for _, s := range m.sections {
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].SectionID < result[j].SectionID })
	return result, nil
}

func (m *mockSectionRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.sections, id)
	return nil
}

type mockRoomRepo struct {
	rooms map[string]*model.Room
	seq   int
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{rooms: make(map[string]*model.Room)}
}

func (m *mockRoomRepo) Create(_ context.Context, r *model.Room) error {
	m.seq++
	if r.RoomID == "" {
		r.RoomID = fmt.Sprintf("room-%d", m.seq)
	}
	m.rooms[r.RoomID] = r
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id string) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.rooms, id)
	return nil
}

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
	seq      int
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, t *model.Teacher) error {
	m.seq++
	if t.TeacherID == "" {
		t.TeacherID = fmt.Sprintf("teach-%d", m.seq)
	}
	m.teachers[t.TeacherID] = t
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context) ([]model.Teacher, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.teachers, id)
	return nil
}

type mockCourseRepo struct {
	courses map[string]*model.Course
	seq     int
}

func newMockCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: make(map[string]*model.Course)}
}

func (m *mockCourseRepo) Create(_ context.Context, c *model.Course) error {
	m.seq++
	if c.CourseID == "" {
		c.CourseID = fmt.Sprintf("course-%d", m.seq)
	}
	m.courses[c.CourseID] = c
	return nil
}

func (m *mockCourseRepo) GetByID(_ context.Context, id string) (*model.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCourseRepo) List(_ context.Context) ([]model.Course, error) {
	var result []model.Course
	for _, c := range m.courses {
		result = append(result, *c)
	}
	return result, nil
}

func (m *mockCourseRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.courses, id)
	return nil
}

// ── 测试用聚合 ──

// newTestRepo 构建全 mock 的 Repository 聚合，星期表已播种（周一~周六）
func newTestRepo() *repository.Repository {
	shifts := newMockShiftRepo()
	days := newMockDayRepo()
	days.seed()
	return &repository.Repository{
		Shift:      shifts,
		TimeTable:  newMockTimeTableRepo(shifts),
		Day:        days,
		Allocation: newMockAllocationRepo(),
		Section:    newMockSectionRepo(),
		Room:       newMockRoomRepo(),
		Teacher:    newMockTeacherRepo(),
		Course:     newMockCourseRepo(),
	}
}
