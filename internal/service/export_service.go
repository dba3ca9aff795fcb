package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"gcstimetable/backend/internal/model"
	"gcstimetable/backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoAllocations = errors.New("课表中无已排日的排课，无法导出")
	ErrExportGenerateFail  = errors.New("生成导出文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - Excel 以 星期 为列、节次 为行呈现整张课表网格
//   - ICS 为每条已排日的排课生成按周重复的日历事件，重复区间取课表起止日期
//   - 占位排课（未排日）不出现在任何导出中
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportExcel 导出课表为 Excel
	ExportExcel(ctx context.Context, timeTableID string) (*bytes.Buffer, string, error)
	// ExportICS 导出课表为 iCalendar
	ExportICS(ctx context.Context, timeTableID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

// 与时刻规范化使用同一固定时区
var exportZone = time.FixedZone("CST", 8*3600)

// ═══════════════════════════════════════════════════════════
// ExportExcel — 导出课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 行头：节次（名称 + 起止时刻），按 sort_order 排序
//   - 列头：星期（按 sort_order 排序）
//   - 单元格：排课名称（或课程名）+ 班级名，多条排课换行堆叠
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportExcel(ctx context.Context, timeTableID string) (*bytes.Buffer, string, error) {
	table, allocs, days, err := s.loadExportData(ctx, timeTableID)
	if err != nil {
		return nil, "", err
	}

	// 数据索引: "dayID:slotID" → 堆叠的单元格文本
	cellIndex := make(map[string][]string)
	for i := range allocs {
		a := &allocs[i]
		if a.DayID == nil {
			continue
		}
		key := *a.DayID + ":" + a.SlotID
		cellIndex[key] = append(cellIndex[key], allocationText(a))
	}
	if len(cellIndex) == 0 {
		return nil, "", ErrExportNoAllocations
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "课表"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(sheetName, "A", "A", 14)
	f.SetColWidth(sheetName, "B", "B", 14)
	for i := range days {
		col, _ := excelize.ColumnNumberToName(3 + i)
		f.SetColWidth(sheetName, col, col, 22)
	}

	// 样式
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 课表", table.Title))
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", colName(1+len(days))))
	titleCell, _ := excelize.CoordinatesToCellName(1, 1)
	f.SetCellStyle(sheetName, titleCell, titleCell, headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "节次")
	f.SetCellValue(sheetName, cell("B", row), "时间")
	for i, day := range days {
		f.SetCellValue(sheetName, cell(colName(2+i), row), day.Name)
	}

	// 数据行：每个节次一行
	row = 3
	for _, slot := range table.Shift.Slots {
		f.SetCellValue(sheetName, cell("A", row), slot.Label)
		f.SetCellValue(sheetName, cell("B", row), fmt.Sprintf("%s-%s", slot.StartTime, slot.EndTime))

		for i, day := range days {
			key := day.DayID + ":" + slot.SlotID
			if texts, ok := cellIndex[key]; ok {
				f.SetCellValue(sheetName, cell(colName(2+i), row), strings.Join(texts, "\n"))
			} else {
				f.SetCellValue(sheetName, cell(colName(2+i), row), "-")
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课表_%s.xlsx", table.Title)
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportICS — 导出课表为 iCalendar
// ═══════════════════════════════════════════════════════════
//
// 每条已排日的排课生成一个事件：
//   - DTSTART 取课表开始日期之后第一个匹配的星期 + 节次开始时刻
//   - RRULE 按周重复至课表结束日期

func (s *exportService) ExportICS(ctx context.Context, timeTableID string) (*bytes.Buffer, string, error) {
	table, allocs, _, err := s.loadExportData(ctx, timeTableID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//gcstimetable//backend//CN")

	until := table.EndDate.AddDate(0, 0, 1).UTC().Format("20060102T000000Z")

	exported := 0
	for i := range allocs {
		a := &allocs[i]
		if a.DayID == nil || a.Day == nil || a.Slot == nil {
			continue
		}

		start, end, err := firstOccurrence(table.StartDate, a.Day.SortOrder, a.Slot.StartTime, a.Slot.EndTime)
		if err != nil {
			s.logger.Warn("跳过时刻无法解析的排课",
				zap.String("allocation_id", a.AllocationID), zap.Error(err))
			continue
		}

		event := cal.AddEvent(a.AllocationID)
		event.SetSummary(allocationText(a))
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.AddRrule(fmt.Sprintf("FREQ=WEEKLY;UNTIL=%s", until))
		if a.Room != nil {
			location := a.Room.Name
			if a.Room.Building != "" {
				location = a.Room.Building + " " + location
			}
			event.SetLocation(location)
		}
		if a.Teacher != nil {
			event.SetDescription("教师: " + a.Teacher.Name)
		}
		exported++
	}
	if exported == 0 {
		return nil, "", ErrExportNoAllocations
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("课表_%s.ics", table.Title)
	return buf, filename, nil
}

// ── 内部辅助方法 ──

// loadExportData 加载课表（含班次节次）、全部排课与星期列表
func (s *exportService) loadExportData(ctx context.Context, timeTableID string) (*model.TimeTable, []model.Allocation, []model.Day, error) {
	table, err := s.repo.TimeTable.GetByID(ctx, timeTableID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, ErrTimeTableNotFound
		}
		s.logger.Error("查询课表失败", zap.String("id", timeTableID), zap.Error(err))
		return nil, nil, nil, err
	}
	if table.Shift == nil {
		return nil, nil, nil, ErrShiftNotFound
	}

	allocs, err := s.repo.Allocation.ListByTimeTable(ctx, timeTableID)
	if err != nil {
		s.logger.Error("查询排课失败", zap.Error(err))
		return nil, nil, nil, err
	}

	days, err := s.repo.Day.List(ctx)
	if err != nil {
		s.logger.Error("列出星期失败", zap.Error(err))
		return nil, nil, nil, err
	}

	return table, allocs, days, nil
}

// allocationText 构建排课的展示文本：排课名 > 课程名 > 班级名兜底
func allocationText(a *model.Allocation) string {
	text := a.Name
	if text == "" && a.Course != nil {
		text = a.Course.Name
	}
	if text == "" && a.Section != nil {
		text = a.Section.Name
	}
	if text == "" {
		text = "未命名排课"
	}
	if a.Section != nil && text != a.Section.Name {
		text += " (" + a.Section.Name + ")"
	}
	return text
}

// firstOccurrence 计算开始日期之后第一个匹配星期的事件起止时间
// daySortOrder: 1=周一 ... 6=周六
func firstOccurrence(startDate time.Time, daySortOrder int, startClock, endClock string) (time.Time, time.Time, error) {
	target := time.Weekday(daySortOrder % 7)
	offset := (int(target) - int(startDate.Weekday()) + 7) % 7
	date := startDate.AddDate(0, 0, offset)

	start, err := clockOn(date, startClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := clockOn(date, endClock)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// clockOn 将 HH:MM[:SS] 时刻落到指定日期上
func clockOn(date time.Time, clock string) (time.Time, error) {
	layout := "15:04:05"
	if len(clock) == 5 {
		layout = "15:04"
	}
	t, err := time.Parse(layout, clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), t.Second(), 0, exportZone), nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
