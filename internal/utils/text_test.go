package utils

import (
	"strings"
	"testing"
)

func TestCollapseWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"压缩连续空格", "a   b    c", "a b c"},
		{"去掉首尾空白", "  hello  ", "hello"},
		{"换行和制表符", "a\n\tb\r\nc", "a b c"},
		{"空字符串", "", ""},
		{"纯空白", "   \n\t  ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CollapseWhitespace(tt.input); result != tt.expected {
				t.Errorf("期望 %q, 实际 %q", tt.expected, result)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int
	}{
		{"普通句子", "the quick brown fox", 4},
		{"多余空白", "  a   b  ", 2},
		{"空字符串", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := WordCount(tt.input); result != tt.expected {
				t.Errorf("期望 %d, 实际 %d", tt.expected, result)
			}
		})
	}
}

func TestTruncateAtSentence(t *testing.T) {
	t.Run("短于上限不截断", func(t *testing.T) {
		s := "Short text."
		if result := TruncateAtSentence(s, 100); result != s {
			t.Errorf("期望原样返回, 实际 %q", result)
		}
	})

	t.Run("句子边界截断", func(t *testing.T) {
		s := strings.Repeat("x", 30) + ". " + strings.Repeat("y", 40)
		expected := strings.Repeat("x", 30) + "."
		if result := TruncateAtSentence(s, 40); result != expected {
			t.Errorf("期望 %q, 实际 %q", expected, result)
		}
	})

	t.Run("无句子边界退回空格截断", func(t *testing.T) {
		s := strings.TrimSpace(strings.Repeat("word ", 20))
		result := TruncateAtSentence(s, 23)
		if result != "word word word word" {
			t.Errorf("期望在最后一个空格截断, 实际 %q", result)
		}
	})

	t.Run("截断结果不超过上限", func(t *testing.T) {
		s := strings.Repeat("The answer goes on. ", 100)
		result := TruncateAtSentence(s, 1200)
		if len(result) > 1200 {
			t.Errorf("截断结果超过上限: %d", len(result))
		}
	})
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"普通标题", "Our Mission", "our-mission"},
		{"带标点", "Hello, World!", "hello-world"},
		{"符号分隔", "FAQ & Pricing", "faq-pricing"},
		{"首尾空白", "  Getting Started  ", "getting-started"},
		{"数字", "Top 10 Tips", "top-10-tips"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := Slugify(tt.input); result != tt.expected {
				t.Errorf("期望 %q, 实际 %q", tt.expected, result)
			}
		})
	}
}

func TestCleanHeading(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"去掉尾部冒号", "Our Mission:", "Our Mission"},
		{"去掉两侧装饰符", "### Intro ###", "Intro"},
		{"压缩内部空白", "Getting   Started", "Getting Started"},
		{"保留大小写", "API Reference", "API Reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := CleanHeading(tt.input); result != tt.expected {
				t.Errorf("期望 %q, 实际 %q", tt.expected, result)
			}
		})
	}
}
