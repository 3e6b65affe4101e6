package util

import (
	"regexp"
	"strings"
)

// 小红书话题形如 #旅行[话题]#
var tagRegex = regexp.MustCompile(`#([^\s#\[]+)(?:\[话题\])?#?`)

// ExtractTags 从正文中提取去重后的话题标签
func ExtractTags(rawContent string) []string {
	matches := tagRegex.FindAllStringSubmatch(rawContent, -1)

	tagSet := make(map[string]struct{})
	var tags []string

	for _, m := range matches {
		if len(m) < 2 {
			continue
		}
		tagName := strings.Trim(m[1], ".,，。!?！？")
		if tagName == "" {
			continue
		}
		if _, exists := tagSet[tagName]; !exists {
			tagSet[tagName] = struct{}{}
			tags = append(tags, tagName)
		}
	}

	return tags
}

// PostTags 后端未返回标签时从正文提取
func PostTags(tags []string, content string) []string {
	if len(tags) > 0 {
		return tags
	}
	return ExtractTags(content)
}
