package dto

// ── 班次模块 DTO ──

// ShiftSlotInput 创建班次时的节次输入
// 节次按数组顺序编号（sort_order 从 1 开始）
type ShiftSlotInput struct {
	Label     string `json:"label"      binding:"required,min=1,max=50"`
	StartTime string `json:"start_time" binding:"required"` // "08:10"
	EndTime   string `json:"end_time"   binding:"required"` // "09:00"
}

// CreateShiftRequest 创建班次请求
type CreateShiftRequest struct {
	Name  string           `json:"name"  binding:"required,min=2,max=50"`
	Slots []ShiftSlotInput `json:"slots" binding:"required,dive"`
}

// UpdateShiftRequest 更新班次请求（仅名称；节次结构不可原地修改）
type UpdateShiftRequest struct {
	Name *string `json:"name" binding:"omitempty,min=2,max=50"`
}

// ShiftResponse 班次信息响应
type ShiftResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	IsActive  bool               `json:"is_active"`
	Slots     []TimeSlotResponse `json:"slots"`
	CreatedAt string             `json:"created_at"`
	UpdatedAt string             `json:"updated_at"`
}

// TimeSlotResponse 节次信息响应
type TimeSlotResponse struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	SortOrder int    `json:"sort_order"`
}

// ShiftBrief 班次简要信息（嵌入课表响应）
type ShiftBrief struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
