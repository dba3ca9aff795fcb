package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Shift      ShiftRepository
	TimeTable  TimeTableRepository
	Day        DayRepository
	Allocation AllocationRepository
	Section    SectionRepository
	Room       RoomRepository
	Teacher    TeacherRepository
	Course     CourseRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Shift:      NewShiftRepo(db),
		TimeTable:  NewTimeTableRepo(db),
		Day:        NewDayRepo(db),
		Allocation: NewAllocationRepo(db),
		Section:    NewSectionRepo(db),
		Room:       NewRoomRepo(db),
		Teacher:    NewTeacherRepo(db),
		Course:     NewCourseRepo(db),
	}
}
