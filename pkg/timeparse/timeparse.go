package timeparse

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ── 时间归一化 ──────────────────────────────────────────────
//
// 职责：将各类异构时间/日期字符串归一为可比较的时间值与 ISO-8601 文本。
//
// 设计决策：
//   - 解析采用 dateparse 宽松策略：数字时间戳、常见日期格式均可接受，
//     空串与无法识别的内容返回 ErrInvalidTimeFormat。
//   - 校验是纯语法层面的（解析成功即有效），不做语义范围检查。
//   - 纯时刻（HH:MM[:SS]）统一锚定到固定参考日期，使两个时刻的
//     ISO-8601 文本可以直接按字典序比较，无需真实日历日期。
// ─────────────────────────────────────────────────────────────

// ErrInvalidTimeFormat 无法识别的时间格式
var ErrInvalidTimeFormat = errors.New("无法识别的时间格式")

// anchorDate 纯时刻的参考日期，仅时刻部分有语义
const anchorDate = "2000-01-01"

// iso8601Layout 固定偏移 ISO-8601 输出格式
const iso8601Layout = "2006-01-02T15:04:05-07:00"

// appZone 应用统一时区（UTC+8，无夏令时）
var appZone = time.FixedZone("CST", 8*60*60)

// ParseTime 宽松解析时间/日期字符串
func ParseTime(input string) (time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: 输入为空", ErrInvalidTimeFormat)
	}

	t, err := dateparse.ParseIn(s, appZone)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, input)
	}
	return t, nil
}

// ToISO8601 解析后输出固定偏移的 ISO-8601 文本
func ToISO8601(input string) (string, error) {
	t, err := ParseTime(input)
	if err != nil {
		return "", err
	}
	return t.In(appZone).Format(iso8601Layout), nil
}

// ToISO8601FromClockTime 将 HH:MM[:SS] 时刻锚定到参考日期后输出 ISO-8601 文本
// 两个时刻的输出可直接按字典序比较先后
func ToISO8601FromClockTime(clock string) (string, error) {
	s := strings.TrimSpace(clock)
	if s == "" {
		return "", fmt.Errorf("%w: 输入为空", ErrInvalidTimeFormat)
	}

	t, err := dateparse.ParseIn(anchorDate+" "+s, appZone)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, clock)
	}
	// 含日期成分的输入会偏离参考日期，视为非法时刻
	if d := t.In(appZone).Format("2006-01-02"); d != anchorDate {
		return "", fmt.Errorf("%w: %q 不是纯时刻", ErrInvalidTimeFormat, clock)
	}
	return t.In(appZone).Format(iso8601Layout), nil
}
