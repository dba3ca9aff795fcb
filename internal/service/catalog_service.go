package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gcstimetable/backend/internal/dto"
	"gcstimetable/backend/internal/model"
	"gcstimetable/backend/internal/repository"
)

// ── 基础目录模块业务错误 ──

var (
	ErrSectionNotFound = errors.New("班级不存在")
	ErrRoomNotFound    = errors.New("教室不存在")
	ErrTeacherNotFound = errors.New("教师不存在")
	ErrCourseNotFound  = errors.New("课程不存在")
)

// CatalogService 基础目录业务接口（班级/教室/教师/课程）
// 四类实体结构相近，统一归入一个服务
type CatalogService interface {
	CreateSection(ctx context.Context, req *dto.CreateSectionRequest, callerID string) (*dto.SectionResponse, error)
	ListSections(ctx context.Context) ([]dto.SectionResponse, error)
	DeleteSection(ctx context.Context, id string, callerID string) error

	CreateRoom(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	ListRooms(ctx context.Context) ([]dto.RoomResponse, error)
	DeleteRoom(ctx context.Context, id string, callerID string) error

	CreateTeacher(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error)
	ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error)
	DeleteTeacher(ctx context.Context, id string, callerID string) error

	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error)
	ListCourses(ctx context.Context) ([]dto.CourseResponse, error)
	DeleteCourse(ctx context.Context, id string, callerID string) error
}

type catalogService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCatalogService 创建 CatalogService 实例
func NewCatalogService(repo *repository.Repository, logger *zap.Logger) CatalogService {
	return &catalogService{repo: repo, logger: logger}
}

// ────────────────────── Section ──────────────────────

func (s *catalogService) CreateSection(ctx context.Context, req *dto.CreateSectionRequest, callerID string) (*dto.SectionResponse, error) {
	section := &model.Section{Name: req.Name}
	section.CreatedBy = &callerID
	section.UpdatedBy = &callerID

	if err := s.repo.Section.Create(ctx, section); err != nil {
		s.logger.Error("创建班级失败", zap.Error(err))
		return nil, err
	}

	return s.toSectionResponse(section), nil
}

func (s *catalogService) ListSections(ctx context.Context) ([]dto.SectionResponse, error) {
	sections, err := s.repo.Section.List(ctx)
	if err != nil {
		s.logger.Error("列出班级失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SectionResponse, 0, len(sections))
	for i := range sections {
		result = append(result, *s.toSectionResponse(&sections[i]))
	}
	return result, nil
}

func (s *catalogService) DeleteSection(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Section.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSectionNotFound
		}
		return err
	}
	return s.repo.Section.Delete(ctx, id, callerID)
}

// ────────────────────── Room ──────────────────────

func (s *catalogService) CreateRoom(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room := &model.Room{Name: req.Name, Building: req.Building}
	room.CreatedBy = &callerID
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Create(ctx, room); err != nil {
		s.logger.Error("创建教室失败", zap.Error(err))
		return nil, err
	}

	return s.toRoomResponse(room), nil
}

func (s *catalogService) ListRooms(ctx context.Context) ([]dto.RoomResponse, error) {
	rooms, err := s.repo.Room.List(ctx)
	if err != nil {
		s.logger.Error("列出教室失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		result = append(result, *s.toRoomResponse(&rooms[i]))
	}
	return result, nil
}

func (s *catalogService) DeleteRoom(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Room.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	return s.repo.Room.Delete(ctx, id, callerID)
}

// ────────────────────── Teacher ──────────────────────

func (s *catalogService) CreateTeacher(ctx context.Context, req *dto.CreateTeacherRequest, callerID string) (*dto.TeacherResponse, error) {
	teacher := &model.Teacher{Name: req.Name, Email: req.Email}
	teacher.CreatedBy = &callerID
	teacher.UpdatedBy = &callerID

	if err := s.repo.Teacher.Create(ctx, teacher); err != nil {
		s.logger.Error("创建教师失败", zap.Error(err))
		return nil, err
	}

	return s.toTeacherResponse(teacher), nil
}

func (s *catalogService) ListTeachers(ctx context.Context) ([]dto.TeacherResponse, error) {
	teachers, err := s.repo.Teacher.List(ctx)
	if err != nil {
		s.logger.Error("列出教师失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.TeacherResponse, 0, len(teachers))
	for i := range teachers {
		result = append(result, *s.toTeacherResponse(&teachers[i]))
	}
	return result, nil
}

func (s *catalogService) DeleteTeacher(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Teacher.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTeacherNotFound
		}
		return err
	}
	return s.repo.Teacher.Delete(ctx, id, callerID)
}

// ────────────────────── Course ──────────────────────

func (s *catalogService) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, callerID string) (*dto.CourseResponse, error) {
	course := &model.Course{Name: req.Name, Code: req.Code}
	course.CreatedBy = &callerID
	course.UpdatedBy = &callerID

	if err := s.repo.Course.Create(ctx, course); err != nil {
		s.logger.Error("创建课程失败", zap.Error(err))
		return nil, err
	}

	return s.toCourseResponse(course), nil
}

func (s *catalogService) ListCourses(ctx context.Context) ([]dto.CourseResponse, error) {
	courses, err := s.repo.Course.List(ctx)
	if err != nil {
		s.logger.Error("列出课程失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.CourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *s.toCourseResponse(&courses[i]))
	}
	return result, nil
}

func (s *catalogService) DeleteCourse(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Course.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}
	return s.repo.Course.Delete(ctx, id, callerID)
}

// ── 内部辅助方法 ──

func (s *catalogService) toSectionResponse(m *model.Section) *dto.SectionResponse {
	return &dto.SectionResponse{
		ID:        m.SectionID,
		Name:      m.Name,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (s *catalogService) toRoomResponse(m *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:        m.RoomID,
		Name:      m.Name,
		Building:  m.Building,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (s *catalogService) toTeacherResponse(m *model.Teacher) *dto.TeacherResponse {
	return &dto.TeacherResponse{
		ID:        m.TeacherID,
		Name:      m.Name,
		Email:     m.Email,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (s *catalogService) toCourseResponse(m *model.Course) *dto.CourseResponse {
	return &dto.CourseResponse{
		ID:        m.CourseID,
		Name:      m.Name,
		Code:      m.Code,
		CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt: m.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
