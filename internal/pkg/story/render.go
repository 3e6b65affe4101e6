package story

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"XhsStudio/internal/model"
)

var storyTemplate = template.Must(template.New("story").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
body{margin:0;background:#f5f5f5;font-family:-apple-system,"PingFang SC","Microsoft YaHei",sans-serif}
.story{max-width:420px;margin:0 auto;padding:16px}
.card{position:relative;margin:0 0 16px;background:#fff;border-radius:12px;overflow:hidden;box-shadow:0 2px 8px rgba(0,0,0,.08)}
.card img{display:block;width:100%}
.card .text{padding:16px}
.card[data-layout="a"] .text{position:absolute;left:0;right:0;bottom:0;color:#fff;background:linear-gradient(transparent,rgba(0,0,0,.6))}
h2{margin:0 0 8px;font-size:18px}
p{margin:0;line-height:1.6;white-space:pre-wrap}
</style>
</head>
<body>
<div class="story">
{{range .Cards}}<section class="card" data-layout="{{.Layout}}">
{{if eq .Layout "c"}}<div class="text"><h2>{{.Title}}</h2>{{if .Content}}<p>{{.Content}}</p>{{end}}</div><img src="{{.ImageURL}}" alt="">
{{else}}<img src="{{.ImageURL}}" alt=""><div class="text"><h2>{{.Title}}</h2>{{if .Content}}<p>{{.Content}}</p>{{end}}</div>
{{end}}</section>
{{end}}</div>
</body>
</html>
`))

// Render 后端未返回 html 时在本地按卡片渲染一份独立 HTML
func Render(vs *model.VisualStory) (string, error) {
	cards := make([]model.Card, 0, len(vs.ContentCards)+1)
	cards = append(cards, vs.CoverCard)
	cards = append(cards, vs.ContentCards...)

	var buf bytes.Buffer
	err := storyTemplate.Execute(&buf, struct {
		Title string
		Cards []model.Card
	}{Title: vs.Title, Cards: cards})
	if err != nil {
		return "", fmt.Errorf("render visual story: %w", err)
	}
	return buf.String(), nil
}

// CardCountValid 内容卡片数量是否在 3~9 之间
func CardCountValid(vs *model.VisualStory) bool {
	n := len(vs.ContentCards)
	return n >= model.MinContentCards && n <= model.MaxContentCards
}

var unsafeFileChars = regexp.MustCompile(`[\\/:*?"<>|\s]+`)

// FileName 下载文件名 visual-story-<标题>.html
func FileName(title string) string {
	title = strings.Trim(unsafeFileChars.ReplaceAllString(strings.TrimSpace(title), "-"), "-")
	if title == "" {
		title = "untitled"
	}
	return "visual-story-" + title + ".html"
}
