package crawlers

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

// 摘要相关阈值
const (
	// summaryFromSectionsMin 章节拼接文本超过该长度才作为摘要来源
	summaryFromSectionsMin = 250
)

// Extract 把一份HTML文档解析为结构化页面
// 章节提取按优先级:
//  1. 扫描h1-h3标题,收集到下一个标题之前的同级内容
//  2. 没有合格章节时,每个足够长的段落作为独立章节("Key Insight N")
//  3. 仍为空时,整个可见正文作为单一章节("Site Overview")
//
// 返回的Page构建后不再修改
func Extract(htmlStr string, pageURL string, minSectionChars int) (*models.Page, error) {
	if strings.TrimSpace(htmlStr) == "" {
		return nil, fmt.Errorf("HTML内容为空: %s", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, fmt.Errorf("解析HTML失败 [%s]: %w", pageURL, err)
	}

	bodyText := visibleBodyText(htmlStr)

	page := &models.Page{
		URL:         pageURL,
		Title:       utils.CollapseWhitespace(doc.Find("title").First().Text()),
		Description: extractDescription(doc),
		Sections:    extractSections(doc, bodyText, minSectionChars),
		Links:       extractLinks(doc, pageURL),
	}

	if page.Title == "" {
		page.Title = utils.CollapseWhitespace(doc.Find("h1").First().Text())
	}

	page.Summary = buildSummary(page.Sections, doc, bodyText, minSectionChars)

	if page.Summary != "" {
		page.WordCount = utils.WordCount(page.Summary)
	} else {
		page.WordCount = utils.WordCount(bodyText)
	}

	return page, nil
}

// extractDescription 提取meta description
func extractDescription(doc *goquery.Document) string {
	desc, _ := doc.Find(`meta[name="description"]`).First().Attr("content")
	return utils.CollapseWhitespace(desc)
}

// extractSections 按优先级提取内容章节
func extractSections(doc *goquery.Document, bodyText string, minSectionChars int) []models.Section {
	sections := make([]models.Section, 0)

	// 1. 标题驱动: 每个h1-h3标题收集到下一个标题之前的同级内容
	doc.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		heading := utils.CollapseWhitespace(h.Text())
		if heading == "" {
			return
		}
		content := utils.CollapseWhitespace(h.NextUntil("h1, h2, h3").Text())
		if len(content) < minSectionChars {
			return
		}
		sections = append(sections, newSection(heading, content))
	})
	if len(sections) > 0 {
		return sections
	}

	// 2. 段落回退: 每个足够长的段落自成章节
	insight := 0
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		content := utils.CollapseWhitespace(p.Text())
		if len(content) < minSectionChars {
			return
		}
		insight++
		sections = append(sections, newSection(fmt.Sprintf("Key Insight %d", insight), content))
	})
	if len(sections) > 0 {
		return sections
	}

	// 3. 整页回退: 可见正文满足最小长度时作为单一章节
	if len(bodyText) >= minSectionChars {
		sections = append(sections, newSection("Site Overview", bodyText))
	}

	return sections
}

// newSection 构造章节,生成句子边界截断的预览片段
func newSection(heading, content string) models.Section {
	return models.Section{
		Heading: heading,
		Content: content,
		Snippet: utils.TruncateAtSentence(content, models.MaxSnippetChars),
	}
}

// buildSummary 合成页面摘要
// 章节拼接文本超过250字符时作为摘要,否则使用main/body正文;
// 正文回退必须达到章节最小长度,过短的页面没有摘要。
// 结果截断到600字符(句子边界)
func buildSummary(sections []models.Section, doc *goquery.Document, bodyText string, minSectionChars int) string {
	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Content)
	}
	joined := strings.Join(parts, " ")

	summary := joined
	if len(joined) <= summaryFromSectionsMin {
		fallback := utils.CollapseWhitespace(doc.Find("main").Text())
		if fallback == "" {
			fallback = bodyText
		}
		if len(fallback) < minSectionChars {
			return ""
		}
		summary = fallback
	}

	return utils.TruncateAtSentence(summary, models.MaxSummaryChars)
}

// extractLinks 收集所有锚点的出站链接
// 解析为绝对URL并规范化,按文档顺序去重;
// 跳过页内锚点、mailto:、tel:和javascript:目标
func extractLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	links := make([]string, 0)
	seen := make(map[string]bool)

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		href = strings.TrimSpace(href)
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		if strings.HasPrefix(lower, "mailto:") ||
			strings.HasPrefix(lower, "tel:") ||
			strings.HasPrefix(lower, "javascript:") {
			return
		}

		normalized, err := utils.NormalizeRef(base, href)
		if err != nil {
			return
		}
		if seen[normalized] {
			return
		}
		seen[normalized] = true
		links = append(links, normalized)
	})

	return links
}

// visibleBodyText 提取文档的可见正文文本
// 跳过script/style/noscript/template/head子树
func visibleBodyText(htmlStr string) string {
	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "template", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return utils.CollapseWhitespace(b.String())
}
