package models

import "testing"

func TestApplyDefaults(t *testing.T) {
	t.Run("零值全部落回默认", func(t *testing.T) {
		cfg := CrawlConfig{}
		cfg.ApplyDefaults()

		if cfg.MaxPages != DefaultMaxPages {
			t.Errorf("MaxPages期望 %d, 实际 %d", DefaultMaxPages, cfg.MaxPages)
		}
		if cfg.MaxFaqs != DefaultMaxFaqs {
			t.Errorf("MaxFaqs期望 %d, 实际 %d", DefaultMaxFaqs, cfg.MaxFaqs)
		}
		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("Concurrency期望 %d, 实际 %d", DefaultConcurrency, cfg.Concurrency)
		}
		if cfg.RequestTimeoutMs != DefaultRequestTimeoutMs {
			t.Errorf("RequestTimeoutMs期望 %d, 实际 %d", DefaultRequestTimeoutMs, cfg.RequestTimeoutMs)
		}
		if cfg.PauseMs != DefaultPauseMs {
			t.Errorf("PauseMs期望 %d, 实际 %d", DefaultPauseMs, cfg.PauseMs)
		}
		if cfg.MinSectionChars != DefaultMinSectionChars {
			t.Errorf("MinSectionChars期望 %d, 实际 %d", DefaultMinSectionChars, cfg.MinSectionChars)
		}
		if cfg.BrowserTimeoutMs != DefaultBrowserTimeoutMs {
			t.Errorf("BrowserTimeoutMs期望 %d, 实际 %d", DefaultBrowserTimeoutMs, cfg.BrowserTimeoutMs)
		}
		if cfg.OutputPath != DefaultOutputPath {
			t.Errorf("OutputPath期望 %q, 实际 %q", DefaultOutputPath, cfg.OutputPath)
		}
	})

	t.Run("并发度收敛到上限", func(t *testing.T) {
		cfg := CrawlConfig{Concurrency: 99}
		cfg.ApplyDefaults()
		if cfg.Concurrency != MaxConcurrency {
			t.Errorf("Concurrency期望收敛到 %d, 实际 %d", MaxConcurrency, cfg.Concurrency)
		}
	})

	t.Run("负值落回默认", func(t *testing.T) {
		cfg := CrawlConfig{MaxPages: -5, PauseMs: -1}
		cfg.ApplyDefaults()
		if cfg.MaxPages != DefaultMaxPages {
			t.Errorf("MaxPages期望 %d, 实际 %d", DefaultMaxPages, cfg.MaxPages)
		}
		if cfg.PauseMs != DefaultPauseMs {
			t.Errorf("PauseMs期望 %d, 实际 %d", DefaultPauseMs, cfg.PauseMs)
		}
	})

	t.Run("显式值保留", func(t *testing.T) {
		cfg := CrawlConfig{MaxPages: 30, Concurrency: 3}
		cfg.ApplyDefaults()
		if cfg.MaxPages != 30 || cfg.Concurrency != 3 {
			t.Errorf("显式配置被覆盖: MaxPages=%d Concurrency=%d", cfg.MaxPages, cfg.Concurrency)
		}
	})

	t.Run("站点名从origin推导", func(t *testing.T) {
		cfg := CrawlConfig{Origin: "https://www.gaby.dev"}
		cfg.ApplyDefaults()
		if cfg.SiteName != "Gaby" {
			t.Errorf("SiteName期望 Gaby, 实际 %q", cfg.SiteName)
		}
	})
}

func TestValidate(t *testing.T) {
	t.Run("合法配置", func(t *testing.T) {
		cfg := CrawlConfig{StartURL: "https://x.com/"}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			t.Errorf("合法配置校验失败: %v", err)
		}
	})

	t.Run("入口URL为空", func(t *testing.T) {
		cfg := CrawlConfig{}
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err == nil {
			t.Error("期望校验失败")
		}
	})

	t.Run("并发度越界", func(t *testing.T) {
		cfg := CrawlConfig{StartURL: "https://x.com/", Concurrency: 10}
		if err := cfg.Validate(); err == nil {
			t.Error("期望校验失败")
		}
	})
}

func TestParseSpaViews(t *testing.T) {
	t.Run("多个视图", func(t *testing.T) {
		views := ParseSpaViews("chat=Chat, about = About Us")
		if len(views) != 2 {
			t.Fatalf("期望2个视图, 实际 %d", len(views))
		}
		if views[0].ID != "chat" || views[0].Label != "Chat" {
			t.Errorf("第一个视图解析错误: %+v", views[0])
		}
		if views[1].ID != "about" || views[1].Label != "About Us" {
			t.Errorf("第二个视图解析错误: %+v", views[1])
		}
	})

	t.Run("跳过非法条目", func(t *testing.T) {
		views := ParseSpaViews("bad,chat=Chat,=nolabel,noid=")
		if len(views) != 1 || views[0].ID != "chat" {
			t.Errorf("期望只保留chat视图, 实际 %+v", views)
		}
	})

	t.Run("空输入", func(t *testing.T) {
		if views := ParseSpaViews(""); len(views) != 0 {
			t.Errorf("期望空结果, 实际 %+v", views)
		}
	})
}

func TestPseudoURL(t *testing.T) {
	view := SpaView{ID: "chat", Label: "Chat"}
	expected := "https://x.com/?__spaView=chat"
	if result := view.PseudoURL("https://x.com"); result != expected {
		t.Errorf("期望 %q, 实际 %q", expected, result)
	}
	// origin带末尾斜杠时结果不变
	if result := view.PseudoURL("https://x.com/"); result != expected {
		t.Errorf("期望 %q, 实际 %q", expected, result)
	}
}

func TestSiteNameFromOrigin(t *testing.T) {
	tests := []struct {
		name     string
		origin   string
		expected string
	}{
		{"去掉www前缀", "https://www.gaby.dev", "Gaby"},
		{"普通域名", "https://example.com", "Example"},
		{"单标签主机", "http://localhost:3000", "Localhost"},
		{"无法解析", "not-a-url", "Website"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := SiteNameFromOrigin(tt.origin); result != tt.expected {
				t.Errorf("期望 %q, 实际 %q", tt.expected, result)
			}
		})
	}
}
