package util

import (
	"math"
	"testing"
	"time"

	"XhsStudio/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{nil, "0"},
		{999, "999"},
		{1500, "1.5k"},
		{1250, "1.3k"},
		{2250, "2.3k"},
		{1150, "1.2k"},
		{12500, "1.3w"},
		{1249, "1.2k"},
		{int64(15000), "1.5w"},
		{model.Count(10000), "1.0w"},
		{"12345", "1.2w"},
		{"1.2万", "1"},
		{"abc", "0"},
		{math.NaN(), "0"},
		{struct{}{}, "0"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, FormatNumber(c.in), "%v", c.in)
	}
}

func TestFormatDate(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.Local)

	assert.Equal(t, "未知时间", formatDateAt("", now))
	assert.Equal(t, "未知时间", formatDateAt("昨天", now))
	assert.Equal(t, "30分钟前", formatDateAt("2024-05-10 11:30:00", now))
	assert.Equal(t, "5小时前", formatDateAt("2024-05-10 07:00:00", now))
	assert.Equal(t, "3天前", formatDateAt("2024-05-07T12:00:00", now))
	assert.Equal(t, "2024/4/1", formatDateAt("2024-04-01", now))
	assert.Equal(t, "10分钟前", formatDateAt(now.Add(-10*time.Minute).Format(time.RFC3339), now))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "", TruncateText("", 3))
	assert.Equal(t, "abc", TruncateText("abc", 5))
	assert.Equal(t, "小红书...", TruncateText("小红书笔记标题", 3))
	assert.Equal(t, "...", TruncateText("abc", -1))
}

func TestExtractTags(t *testing.T) {
	content := "周末去了海边 #旅行[话题]# #美食[话题]# 再来一次 #旅行[话题]#"
	assert.Equal(t, []string{"旅行", "美食"}, ExtractTags(content))
	assert.Empty(t, ExtractTags("没有话题"))

	assert.Equal(t, []string{"穿搭"}, PostTags([]string{"穿搭"}, content))
	assert.Equal(t, []string{"旅行", "美食"}, PostTags(nil, content))
}
