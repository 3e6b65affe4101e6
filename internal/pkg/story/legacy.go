package story

import (
	"strings"
	"unicode/utf8"

	"XhsStudio/internal/model"

	"github.com/PuerkitoBio/goquery"
)

const (
	placeholderCover   = "https://via.placeholder.com/600x800/f0f0f0/333?text=Generated+Cover"
	placeholderContent = "https://via.placeholder.com/600x800/f0f0f0/333?text=Generated+Content"
	legacyPreviewRunes = 200
	defaultLegacyHTML  = "生成的视觉故事内容"
)

// FromLegacyHTML 旧版生成接口只返回 html_content：优先从 HTML 中解析卡片，解析不到时退化为单张内容卡片
func FromLegacyHTML(title, html string) *model.VisualStory {
	if strings.TrimSpace(html) == "" {
		html = defaultLegacyHTML
	}

	if summary, err := Inspect(html); err == nil && len(summary.Cards) > 0 {
		vs := &model.VisualStory{
			Title: title,
			HTML:  html,
		}
		vs.CoverCard = summary.Cards[0]
		if vs.CoverCard.Title == "" {
			vs.CoverCard.Title = title
		}
		vs.ContentCards = summary.Cards[1:]
		return vs
	}

	preview := html
	if utf8.RuneCountInString(preview) > legacyPreviewRunes {
		preview = string([]rune(preview)[:legacyPreviewRunes]) + "..."
	}
	return &model.VisualStory{
		Title: title,
		CoverCard: model.Card{
			Title:    title,
			Layout:   model.LayoutTextTopImageBottom,
			ImageURL: placeholderCover,
		},
		ContentCards: []model.Card{{
			Title:    "生成的内容",
			Content:  preview,
			Layout:   model.LayoutImageTextOverlay,
			ImageURL: placeholderContent,
		}},
		HTML: html,
	}
}

// Summary 图文故事 HTML 的结构摘要
type Summary struct {
	Title  string
	Cards  []model.Card
	Images []string
}

// Inspect 用 goquery 读取 HTML 中的卡片：带 data-layout 或 class 含 card 的元素
func Inspect(html string) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	s := &Summary{Title: strings.TrimSpace(doc.Find("title").First().Text())}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		if src, ok := img.Attr("src"); ok && src != "" {
			s.Images = append(s.Images, src)
		}
	})

	doc.Find("[data-layout], .card").Each(func(_ int, sel *goquery.Selection) {
		// 嵌套的卡片只取最外层
		if sel.ParentsFiltered("[data-layout], .card").Length() > 0 {
			return
		}
		card := model.Card{
			Title:   strings.TrimSpace(sel.Find("h1, h2, h3, .card-title").First().Text()),
			Content: strings.TrimSpace(sel.Find("p, .card-content").First().Text()),
			Layout:  model.Layout(sel.AttrOr("data-layout", "")),
		}
		if !card.Layout.Valid() {
			card.Layout = model.LayoutImageTopTextBottom
		}
		if src, ok := sel.Find("img").First().Attr("src"); ok {
			card.ImageURL = src
		}
		s.Cards = append(s.Cards, card)
	})

	return s, nil
}
