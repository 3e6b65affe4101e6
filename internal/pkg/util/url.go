package util

import "regexp"

var xhsURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https?://www\.xiaohongshu\.com/explore/[a-zA-Z0-9]+`),
	regexp.MustCompile(`^https?://www\.xiaohongshu\.com/discovery/item/[a-zA-Z0-9]+`),
	regexp.MustCompile(`^https?://xhslink\.com/[a-zA-Z0-9]+`),
}

// IsValidXhsUrl 是否为可采集的小红书笔记链接
func IsValidXhsUrl(url string) bool {
	for _, p := range xhsURLPatterns {
		if p.MatchString(url) {
			return true
		}
	}
	return false
}
