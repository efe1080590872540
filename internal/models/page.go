package models

// 渲染判定阈值
// 章节数为0 且 (摘要短于160字符 或 词数低于40) 的页面视为客户端渲染,
// 需要浏览器回退重新获取
const (
	RenderSummaryThreshold = 160
	RenderWordThreshold    = 40
)

// Section 页面内容章节
// Content长度必须不低于配置的最小字符数才会被保留
type Section struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
	Snippet string `json:"snippet"` // 截断预览,最长320字符,尽量在句子边界截断
}

// Page 一次爬取产出的结构化页面,构建后不再修改
type Page struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Summary     string    `json:"summary"`
	Sections    []Section `json:"sections"`
	Links       []string  `json:"links"` // 规范化后的出站链接,按文档顺序去重
	WordCount   int       `json:"word_count"`
}

// NeedsBrowserRender 渲染判定启发式
// 判定表:
//
//	sections == 0 且 summaryLen < 160  -> true
//	sections == 0 且 wordCount < 40    -> true
//	其余                               -> false
//
// 输入是页面的显式字段,不依赖页面对象本身,便于单独测试
func NeedsBrowserRender(sectionCount, summaryLen, wordCount int) bool {
	if sectionCount > 0 {
		return false
	}
	return summaryLen < RenderSummaryThreshold || wordCount < RenderWordThreshold
}

// NeedsRender 判断该页面的静态HTML是否不足,需要浏览器渲染回退
func (p *Page) NeedsRender() bool {
	return NeedsBrowserRender(len(p.Sections), len(p.Summary), p.WordCount)
}
