package model

// Shift 班次表 — 对应 shifts
// 一个班次定义一天的节次结构（如"上午班"八节课）；节次归属班次，随班次级联删除
type Shift struct {
	ShiftID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"shift_id"`
	Name     string `gorm:"type:varchar(50);not null"                      json:"name"`
	IsActive bool   `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel

	// 关联
	Slots []TimeSlot `gorm:"foreignKey:ShiftID;references:ShiftID" json:"slots,omitempty"`
}

// TableName 指定表名
func (Shift) TableName() string { return "shifts" }

// SlotAt 按序号查找节次；未找到返回 nil
func (s *Shift) SlotAt(order int) *TimeSlot {
	for i := range s.Slots {
		if s.Slots[i].SortOrder == order {
			return &s.Slots[i]
		}
	}
	return nil
}

// HasSlot 检查节次是否属于该班次
func (s *Shift) HasSlot(slotID string) bool {
	for i := range s.Slots {
		if s.Slots[i].SlotID == slotID {
			return true
		}
	}
	return false
}

// TimeSlot 节次表 — 对应 time_slots
type TimeSlot struct {
	SlotID    string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"slot_id"`
	ShiftID   string `gorm:"type:uuid;not null"                             json:"shift_id"`
	Label     string `gorm:"type:varchar(50);not null"                      json:"label"`
	StartTime string `gorm:"type:time;not null"                             json:"start_time"` // "08:10"
	EndTime   string `gorm:"type:time;not null"                             json:"end_time"`   // "09:00"
	SortOrder int    `gorm:"type:smallint;not null"                         json:"sort_order"`
	VersionedModel
}

// TableName 指定表名
func (TimeSlot) TableName() string { return "time_slots" }
