package dto

// ── 排课模块 DTO ──

// CreateAllocationRequest 创建排课请求
// day/room/teacher/course 均可空：day 为空表示占位排课（尚未排日）
type CreateAllocationRequest struct {
	TimeTableID string  `json:"time_table_id" binding:"required,uuid"`
	SlotID      string  `json:"slot_id"       binding:"required,uuid"`
	SectionID   string  `json:"section_id"    binding:"required,uuid"`
	DayID       *string `json:"day_id"        binding:"omitempty,uuid"`
	RoomID      *string `json:"room_id"       binding:"omitempty,uuid"`
	TeacherID   *string `json:"teacher_id"    binding:"omitempty,uuid"`
	CourseID    *string `json:"course_id"     binding:"omitempty,uuid"`
	Name        *string `json:"name"          binding:"omitempty,max=100"`
}

// UpdateAllocationRequest 更新排课请求
// 指针字段为 nil 表示不变更；ClearDay 等显式清空标志区分"不变"与"置空"
type UpdateAllocationRequest struct {
	SlotID       *string `json:"slot_id"       binding:"omitempty,uuid"`
	SectionID    *string `json:"section_id"    binding:"omitempty,uuid"`
	DayID        *string `json:"day_id"        binding:"omitempty,uuid"`
	RoomID       *string `json:"room_id"       binding:"omitempty,uuid"`
	TeacherID    *string `json:"teacher_id"    binding:"omitempty,uuid"`
	CourseID     *string `json:"course_id"     binding:"omitempty,uuid"`
	Name         *string `json:"name"          binding:"omitempty,max=100"`
	ClearDay     bool    `json:"clear_day"`
	ClearRoom    bool    `json:"clear_room"`
	ClearTeacher bool    `json:"clear_teacher"`
	ClearCourse  bool    `json:"clear_course"`
}

// AllocationListRequest 排课列表查询参数
type AllocationListRequest struct {
	TimeTableID string  `form:"time_table_id" binding:"required,uuid"`
	SectionID   *string `form:"section_id"    binding:"omitempty,uuid"`
	DayID       *string `form:"day_id"        binding:"omitempty,uuid"`
}

// AllocationResponse 排课信息响应
type AllocationResponse struct {
	ID          string  `json:"id"`
	TimeTableID string  `json:"time_table_id"`
	SlotID      string  `json:"slot_id"`
	SectionID   string  `json:"section_id"`
	DayID       *string `json:"day_id,omitempty"`
	RoomID      *string `json:"room_id,omitempty"`
	TeacherID   *string `json:"teacher_id,omitempty"`
	CourseID    *string `json:"course_id,omitempty"`
	Name        string  `json:"name,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// ConflictDetailResponse 单项冲突明细
type ConflictDetailResponse struct {
	Kind          string   `json:"kind"` // section_conflict | room_conflict | teacher_conflict
	Message       string   `json:"message"`
	AllocationIDs []string `json:"allocation_ids"`
}

// ConflictResponse 排课冲突响应（一次性返回全部被违反的约束）
type ConflictResponse struct {
	Conflicts []ConflictDetailResponse `json:"conflicts"`
}
