package utils

import (
	"errors"
	"net/url"
	"testing"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"去掉fragment", "https://x.com/a#top", "https://x.com/a"},
		{"去掉末尾斜杠", "https://x.com/a/", "https://x.com/a"},
		{"根路径保留斜杠", "https://x.com", "https://x.com/"},
		{"根路径带斜杠不变", "https://x.com/", "https://x.com/"},
		{"保留查询参数", "https://x.com/a?q=1", "https://x.com/a?q=1"},
		{"同时去掉fragment和末尾斜杠", "https://x.com/docs/#intro", "https://x.com/docs"},
		{"保留SPA视图参数", "https://x.com/?__spaView=chat", "https://x.com/?__spaView=chat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeURL(tt.input)
			if err != nil {
				t.Fatalf("规范化失败: %v", err)
			}
			if result != tt.expected {
				t.Errorf("期望 %q, 实际 %q", tt.expected, result)
			}
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://x.com/a/",
		"https://x.com/a#top",
		"https://x.com",
		"https://x.com/docs/guide?page=2#section",
	}

	for _, input := range inputs {
		once, err := NormalizeURL(input)
		if err != nil {
			t.Fatalf("规范化失败 [%s]: %v", input, err)
		}
		twice, err := NormalizeURL(once)
		if err != nil {
			t.Fatalf("二次规范化失败 [%s]: %v", once, err)
		}
		if once != twice {
			t.Errorf("规范化不幂等: %q -> %q -> %q", input, once, twice)
		}
	}
}

func TestNormalizeURLTrailingSlashEquivalence(t *testing.T) {
	a, err := NormalizeURL("https://x.com/a/")
	if err != nil {
		t.Fatalf("规范化失败: %v", err)
	}
	b, err := NormalizeURL("https://x.com/a")
	if err != nil {
		t.Fatalf("规范化失败: %v", err)
	}
	if a != b {
		t.Errorf("末尾斜杠变体应规范化到相同结果: %q != %q", a, b)
	}
}

func TestNormalizeURLInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"不支持的协议", "ftp://x.com/file"},
		{"缺少主机名", "https:///path"},
		{"相对路径", "/docs/guide"},
		{"空字符串", ""},
		{"mailto", "mailto:hi@x.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeURL(tt.input)
			if err == nil {
				t.Fatalf("期望错误,实际成功: %q", tt.input)
			}
			if !errors.Is(err, models.ErrInvalidURL) {
				t.Errorf("期望ErrInvalidURL,实际: %v", err)
			}
		})
	}
}

func TestNormalizeRefRelative(t *testing.T) {
	base, err := url.Parse("https://x.com/docs/guide")
	if err != nil {
		t.Fatalf("解析base失败: %v", err)
	}

	tests := []struct {
		name     string
		ref      string
		expected string
	}{
		{"绝对路径", "/pricing", "https://x.com/pricing"},
		{"相对路径", "intro", "https://x.com/docs/intro"},
		{"带fragment", "/about#team", "https://x.com/about"},
		{"完整URL", "https://other.com/page/", "https://other.com/page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := NormalizeRef(base, tt.ref)
			if err != nil {
				t.Fatalf("规范化失败: %v", err)
			}
			if result != tt.expected {
				t.Errorf("期望 %q, 实际 %q", tt.expected, result)
			}
		})
	}
}

func TestSameOrigin(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected bool
	}{
		{"同源", "https://x.com/a", "https://x.com/b", true},
		{"不同主机", "https://x.com/a", "https://y.com/a", false},
		{"不同协议", "http://x.com/a", "https://x.com/a", false},
		{"不同端口", "https://x.com:8080/a", "https://x.com/a", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := SameOrigin(tt.a, tt.b); result != tt.expected {
				t.Errorf("SameOrigin(%q, %q) = %v, 期望 %v", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestSpaViewID(t *testing.T) {
	if id := SpaViewID("https://x.com/?__spaView=chat"); id != "chat" {
		t.Errorf("期望视图标识 chat, 实际 %q", id)
	}
	if id := SpaViewID("https://x.com/docs"); id != "" {
		t.Errorf("非SPA伪URL应返回空串, 实际 %q", id)
	}
}
