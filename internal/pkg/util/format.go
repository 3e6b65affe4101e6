package util

import (
	"fmt"
	"math"
	"strconv"
	"time"
	"unicode/utf8"

	"XhsStudio/internal/model"
)

// FormatNumber 互动数展示：>=1万 显示 x.xw，>=1千 显示 x.xk
func FormatNumber(v any) string {
	var n float64
	switch x := v.(type) {
	case nil:
		return "0"
	case int:
		n = float64(x)
	case int32:
		n = float64(x)
	case int64:
		n = float64(x)
	case uint64:
		n = float64(x)
	case model.Count:
		n = float64(x)
	case *model.Count:
		if x == nil {
			return "0"
		}
		n = float64(*x)
	case float64:
		if math.IsNaN(x) {
			return "0"
		}
		n = x
	case string:
		n = float64(model.ParseLeadingInt(x))
	default:
		return "0"
	}

	if n >= 10000 {
		return strconv.FormatFloat(inUnits(n, 10000), 'f', 1, 64) + "w"
	}
	if n >= 1000 {
		return strconv.FormatFloat(inUnits(n, 1000), 'f', 1, 64) + "k"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// inUnits 换算成 unit 的倍数并保留一位小数，恰好一半时进位
func inUnits(n, unit float64) float64 {
	return math.Round(n/(unit/10)) / 10
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime 解析后端返回的时间字符串
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate 相对时间：一小时内显示分钟，一天内显示小时，一周内显示天数，否则显示日期
func FormatDate(dateString string) string {
	return formatDateAt(dateString, time.Now())
}

func formatDateAt(dateString string, now time.Time) string {
	if dateString == "" {
		return "未知时间"
	}
	t, ok := ParseTime(dateString)
	if !ok {
		return "未知时间"
	}

	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 60:
		return fmt.Sprintf("%d分钟前", minutes)
	case hours < 24:
		return fmt.Sprintf("%d小时前", hours)
	case days < 7:
		return fmt.Sprintf("%d天前", days)
	default:
		return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
	}
}

// TruncateText 按字符截断，超出部分以 ... 结尾
func TruncateText(text string, maxLength int) string {
	if text == "" {
		return ""
	}
	maxLength = max(maxLength, 0)
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxLength]) + "..."
}
