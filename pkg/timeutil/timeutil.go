package timeutil

import "time"

// 存储与比较一律使用 UTC，仅在 DTO 输出边界转换为北京时间展示。

// BeijingZone 东八区固定偏移
var BeijingZone = time.FixedZone("Asia/Shanghai", 8*60*60)

const (
	// DateLayout 日期格式（升降旗记录的 date 字段）
	DateLayout = "2006-01-02"
	// DateTimeLayout 展示用日期时间格式
	DateTimeLayout = "2006-01-02 15:04:05"
)

// FormatDateTime 将 UTC 时间转为北京时间字符串
func FormatDateTime(t time.Time) string {
	return t.In(BeijingZone).Format(DateTimeLayout)
}

// FormatDateTimePtr 可空时间版本，nil 返回空串
func FormatDateTimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatDateTime(*t)
}

// FormatDate 将时间转为北京时间的日期字符串
func FormatDate(t time.Time) string {
	return t.In(BeijingZone).Format(DateLayout)
}

// ParseDate 解析 "2006-01-02" 格式日期（UTC 零点）
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// ParseDateTime 解析北京时间的 "2006-01-02 15:04:05" 字符串并转为 UTC
func ParseDateTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateTimeLayout, s, BeijingZone)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// MonthWindow 返回 UTC 口径下给定时刻所在月份的 [起, 止) 区间
func MonthWindow(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start, end
}

// PrevMonthWindow 返回上个月的 [起, 止) 区间
func PrevMonthWindow(t time.Time) (time.Time, time.Time) {
	start, _ := MonthWindow(t)
	return start.AddDate(0, -1, 0), start
}
