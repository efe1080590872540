package models

import "testing"

func TestNeedsBrowserRender(t *testing.T) {
	tests := []struct {
		name         string
		sectionCount int
		summaryLen   int
		wordCount    int
		expected     bool
	}{
		{"无章节且摘要过短", 0, 30, 100, true},
		{"无章节且词数过低", 0, 200, 10, true},
		{"无章节但摘要和词数都充足", 0, 200, 100, false},
		{"有章节即不渲染", 3, 200, 100, false},
		{"有章节摘要再短也不渲染", 1, 0, 0, false},
		{"完全空白页面", 0, 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NeedsBrowserRender(tt.sectionCount, tt.summaryLen, tt.wordCount)
			if result != tt.expected {
				t.Errorf("NeedsBrowserRender(%d, %d, %d) = %v, 期望 %v",
					tt.sectionCount, tt.summaryLen, tt.wordCount, result, tt.expected)
			}
		})
	}
}

func TestPageNeedsRender(t *testing.T) {
	page := &Page{
		Summary:   "short",
		Sections:  nil,
		WordCount: 5,
	}
	if !page.NeedsRender() {
		t.Error("内容稀疏的页面应判定为需要渲染")
	}

	page = &Page{
		Summary:   "a sufficiently long summary that easily clears the one hundred sixty character threshold used by the render heuristic to decide whether a page looks client-rendered or not",
		Sections:  []Section{{Heading: "A", Content: "content"}},
		WordCount: 80,
	}
	if page.NeedsRender() {
		t.Error("内容充足的页面不应判定为需要渲染")
	}
}
