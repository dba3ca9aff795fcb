package model

// ── 基础目录：班级/教室/教师/课程 ──
// 仅作为排课的引用目标，CRUD 轻量

// Section 班级表 — 对应 sections
type Section struct {
	SectionID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"section_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	VersionedModel
}

func (Section) TableName() string { return "sections" }

// Room 教室表 — 对应 rooms
type Room struct {
	RoomID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Building string `gorm:"type:varchar(100)"                              json:"building,omitempty"`
	VersionedModel
}

func (Room) TableName() string { return "rooms" }

// Teacher 教师表 — 对应 teachers
type Teacher struct {
	TeacherID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"teacher_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Email     string `gorm:"type:varchar(255)"                              json:"email,omitempty"`
	VersionedModel
}

func (Teacher) TableName() string { return "teachers" }

// Course 课程表 — 对应 courses
type Course struct {
	CourseID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_id"`
	Name     string `gorm:"type:varchar(100);not null"                     json:"name"`
	Code     string `gorm:"type:varchar(50)"                               json:"code,omitempty"`
	VersionedModel
}

func (Course) TableName() string { return "courses" }
