package view

import (
	"embed"
	"html/template"
	"strings"

	"XhsStudio/internal/pkg/util"
)

//go:embed templates/*.html
var templateFS embed.FS

// Funcs 模板中可用的格式化函数
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatNumber": util.FormatNumber,
		"formatDate":   util.FormatDate,
		"truncate": func(n int, s string) string {
			return util.TruncateText(s, n)
		},
		"join": func(sep string, items []string) string {
			return strings.Join(items, sep)
		},
	}
}

// Templates 解析全部页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(Funcs()).ParseFS(templateFS, "templates/*.html")
}
