package dto

// ── 课表模块 DTO ──

// CreateTimeTableRequest 创建课表请求
type CreateTimeTableRequest struct {
	Title       string `json:"title"       binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
	ShiftID     string `json:"shift_id"    binding:"required,uuid"`
	StartDate   string `json:"start_date"  binding:"required"` // "2026-03-01"
	EndDate     string `json:"end_date"    binding:"required"`
}

// UpdateTimeTableRequest 更新课表请求（班次绑定不可变更）
type UpdateTimeTableRequest struct {
	Title       *string `json:"title"       binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

// TimeTableResponse 课表信息响应
type TimeTableResponse struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	ShiftID     string      `json:"shift_id"`
	Shift       *ShiftBrief `json:"shift,omitempty"`
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	CreatedAt   string      `json:"created_at"`
	UpdatedAt   string      `json:"updated_at"`
}

// GridCellResponse 课表网格单元（星期 × 节次）
type GridCellResponse struct {
	Day  DayResponse      `json:"day"`
	Slot TimeSlotResponse `json:"slot"`
}

// DayResponse 星期信息响应
type DayResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}
