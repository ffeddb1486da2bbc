package utils

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML 去除 AniList 简介中的 HTML 标签
// 上游 description 虽然声明 asHtml: false，实际仍混有 <br>、<i> 等标签
func StripHTML(s string) string {
	if s == "" {
		return ""
	}

	// <br> 先替换成换行，避免文本粘连
	replacer := strings.NewReplacer("<br>", "\n", "<br/>", "\n", "<br />", "\n")
	s = replacer.Replace(s)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div>" + s + "</div>"))
	if err != nil {
		return s
	}

	text := doc.Text()

	// 压缩多余空行
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, "\n")
}

// Truncate 按字符截断过长文本
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
