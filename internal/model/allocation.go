package model

// Allocation 排课记录 — 对应 allocations
// 将课程/教师/教室/班级安排到课表的 (星期, 节次) 坐标上。
// day_id 为 NULL 表示占位排课（尚未排日），不参与冲突检测。
// 排课归属且仅归属一个课表，随课表级联删除。
type Allocation struct {
	AllocationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"allocation_id"`
	TimeTableID  string  `gorm:"type:uuid;not null"                             json:"time_table_id"`
	SlotID       string  `gorm:"type:uuid;not null"                             json:"slot_id"`
	SectionID    string  `gorm:"type:uuid;not null"                             json:"section_id"`
	DayID        *string `gorm:"type:uuid"                                      json:"day_id,omitempty"`
	RoomID       *string `gorm:"type:uuid"                                      json:"room_id,omitempty"`
	TeacherID    *string `gorm:"type:uuid"                                      json:"teacher_id,omitempty"`
	CourseID     *string `gorm:"type:uuid"                                      json:"course_id,omitempty"`
	Name         string  `gorm:"type:varchar(100)"                              json:"name,omitempty"`
	VersionedModel

	// 关联
	TimeTable *TimeTable `gorm:"foreignKey:TimeTableID;references:TimeTableID" json:"time_table,omitempty"`
	Slot      *TimeSlot  `gorm:"foreignKey:SlotID;references:SlotID"           json:"slot,omitempty"`
	Section   *Section   `gorm:"foreignKey:SectionID;references:SectionID"     json:"section,omitempty"`
	Day       *Day       `gorm:"foreignKey:DayID;references:DayID"             json:"day,omitempty"`
	Room      *Room      `gorm:"foreignKey:RoomID;references:RoomID"           json:"room,omitempty"`
	Teacher   *Teacher   `gorm:"foreignKey:TeacherID;references:TeacherID"     json:"teacher,omitempty"`
	Course    *Course    `gorm:"foreignKey:CourseID;references:CourseID"       json:"course,omitempty"`
}

// TableName 指定表名
func (Allocation) TableName() string { return "allocations" }

// SameDaySlot 判断另一条排课是否与本条处于同一 (星期, 节次) 坐标
// 任一方未排日即不构成同坐标
func (a *Allocation) SameDaySlot(other *Allocation) bool {
	if a.DayID == nil || other.DayID == nil {
		return false
	}
	return *a.DayID == *other.DayID && a.SlotID == other.SlotID
}
