package model

import "time"

// TimeTable 课表 — 对应 time_tables
// 课表弱引用班次（多个课表可共享一个班次），不拥有它
type TimeTable struct {
	TimeTableID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"time_table_id"`
	Title       string    `gorm:"type:varchar(100);not null"                     json:"title"`
	Description string    `gorm:"type:varchar(500)"                              json:"description,omitempty"`
	ShiftID     string    `gorm:"type:uuid;not null"                             json:"shift_id"`
	StartDate   time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate     time.Time `gorm:"type:date;not null"                             json:"end_date"`
	VersionedModel

	// 关联
	Shift *Shift `gorm:"foreignKey:ShiftID;references:ShiftID" json:"shift,omitempty"`
}

// TableName 指定表名
func (TimeTable) TableName() string { return "time_tables" }
