package model

// Day 星期表 — 对应 days
// 固定小集合（周一~周六），迁移时播种，不归属任何课表
type Day struct {
	DayID     string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"day_id"`
	Name      string `gorm:"type:varchar(20);not null"                      json:"name"`
	SortOrder int    `gorm:"type:smallint;not null;unique"                  json:"sort_order"` // 1=周一
}

// TableName 指定表名
func (Day) TableName() string { return "days" }
