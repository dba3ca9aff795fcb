package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gcstimetable/backend/config"
	"gcstimetable/backend/internal/api/handler"
	"gcstimetable/backend/internal/api/middleware"
	"gcstimetable/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(rdb, 100, time.Minute))
	{
		// 班次模块
		shifts := v1.Group("/shifts")
		{
			shifts.POST("", h.Shift.CreateShift)
			shifts.GET("", h.Shift.ListShifts)
			shifts.GET("/:id", h.Shift.GetShift)
			shifts.PUT("/:id", h.Shift.UpdateShift)
			shifts.DELETE("/:id", h.Shift.DeleteShift)
			shifts.PUT("/:id/activate", h.Shift.ActivateShift)
			shifts.PUT("/:id/deactivate", h.Shift.DeactivateShift)
			shifts.GET("/:id/slots/:order", h.Shift.GetSlotAt)
		}

		// 课表模块
		timeTables := v1.Group("/time-tables")
		{
			timeTables.POST("", h.TimeTable.CreateTimeTable)
			timeTables.GET("", h.TimeTable.ListTimeTables)
			timeTables.GET("/:id", h.TimeTable.GetTimeTable)
			timeTables.PUT("/:id", h.TimeTable.UpdateTimeTable)
			timeTables.DELETE("/:id", h.TimeTable.DeleteTimeTable)
			timeTables.GET("/:id/grid", h.TimeTable.GetGrid)
		}

		// 星期（固定周一至周六）
		v1.GET("/days", h.TimeTable.ListDays)

		// 排课模块
		allocations := v1.Group("/allocations")
		{
			allocations.POST("", h.Allocation.SubmitAllocation)
			allocations.GET("", h.Allocation.ListAllocations)
			allocations.GET("/:id", h.Allocation.GetAllocation)
			allocations.PUT("/:id", h.Allocation.UpdateAllocation)
			allocations.DELETE("/:id", h.Allocation.DeleteAllocation)
		}

		// 基础目录模块
		sections := v1.Group("/sections")
		{
			sections.POST("", h.Catalog.CreateSection)
			sections.GET("", h.Catalog.ListSections)
			sections.DELETE("/:id", h.Catalog.DeleteSection)
		}
		rooms := v1.Group("/rooms")
		{
			rooms.POST("", h.Catalog.CreateRoom)
			rooms.GET("", h.Catalog.ListRooms)
			rooms.DELETE("/:id", h.Catalog.DeleteRoom)
		}
		teachers := v1.Group("/teachers")
		{
			teachers.POST("", h.Catalog.CreateTeacher)
			teachers.GET("", h.Catalog.ListTeachers)
			teachers.DELETE("/:id", h.Catalog.DeleteTeacher)
		}
		courses := v1.Group("/courses")
		{
			courses.POST("", h.Catalog.CreateCourse)
			courses.GET("", h.Catalog.ListCourses)
			courses.DELETE("/:id", h.Catalog.DeleteCourse)
		}

		// 导出模块
		export := v1.Group("/export")
		{
			export.GET("/time-tables/:id/excel", h.Export.ExportExcel)
			export.GET("/time-tables/:id/ics", h.Export.ExportICS)
		}
	}

	return r
}
