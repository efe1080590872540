package models

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// 默认配置值
const (
	DefaultMaxPages         = 20
	DefaultMaxFaqs          = 80
	DefaultConcurrency      = 2
	DefaultRequestTimeoutMs = 12000
	DefaultPauseMs          = 400
	DefaultMinSectionChars  = 180
	DefaultBrowserTimeoutMs = 20000
	DefaultOutputPath       = "data/faq-dataset.json"
	DefaultUserAgent        = "GabyFAQHarvester/1.0 (+https://github.com/rdebiasec/gaby-website-admin)"

	// MinConcurrency / MaxConcurrency 并发度允许范围
	MinConcurrency = 1
	MaxConcurrency = 5

	// SpaViewParam SPA视图伪URL使用的查询参数名
	// 形如 origin?__spaView=chat 的URL强制走浏览器渲染
	SpaViewParam = "__spaView"
)

// SpaView 单页应用的客户端视图描述
// ID标识客户端路由,Label是触发导航的控件可见文本
type SpaView struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// PseudoURL 合成该视图的伪URL (origin?__spaView=id)
func (v SpaView) PseudoURL(origin string) string {
	return fmt.Sprintf("%s/?%s=%s", strings.TrimSuffix(origin, "/"), SpaViewParam, url.QueryEscape(v.ID))
}

// ParseSpaViews 解析 "id=label,id2=label2" 形式的视图描述
// 格式非法的条目被跳过
func ParseSpaViews(raw string) []SpaView {
	views := make([]SpaView, 0)
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			continue
		}
		id := strings.TrimSpace(parts[0])
		label := strings.TrimSpace(parts[1])
		if id == "" || label == "" {
			continue
		}
		views = append(views, SpaView{ID: id, Label: label})
	}
	return views
}

// CrawlConfig 爬取运行参数,构造后只读
type CrawlConfig struct {
	StartURL string    `json:"start_url"` // 规范化后的入口URL
	Origin   string    `json:"origin"`    // scheme://host,同源判定基准
	SeedURLs []string  `json:"seed_urls"` // 额外种子URL(已规范化)
	SpaViews []SpaView `json:"spa_views"` // 需要模拟导航的SPA视图

	MaxPages          int  `json:"max_pages"`           // 页面上限 (默认:20)
	MaxFaqs           int  `json:"max_faqs"`            // FAQ条目上限 (默认:80)
	Concurrency       int  `json:"concurrency"`         // 批次并发度,范围1-5 (默认:2)
	RequestTimeoutMs  int  `json:"request_timeout_ms"`  // 单请求超时(毫秒) (默认:12000)
	PauseMs           int  `json:"pause_ms"`            // 批次间暂停(毫秒) (默认:400)
	MinSectionChars   int  `json:"min_section_chars"`   // 章节最小字符数 (默认:180)
	BrowserTimeoutMs  int  `json:"browser_timeout_ms"`  // 浏览器操作超时(毫秒) (默认:20000)
	RenderWithBrowser bool `json:"render_with_browser"` // 是否启用渲染回退 (默认:true)

	UserAgent  string `json:"user_agent"`
	OutputPath string `json:"output_path"` // 数据集输出路径
	SiteName   string `json:"site_name"`   // 站点显示名,用于问题合成
}

// RequestTimeout 单请求超时
func (c *CrawlConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMs) * time.Millisecond
}

// Pause 批次间暂停时长
func (c *CrawlConfig) Pause() time.Duration {
	return time.Duration(c.PauseMs) * time.Millisecond
}

// BrowserTimeout 浏览器操作超时
func (c *CrawlConfig) BrowserTimeout() time.Duration {
	return time.Duration(c.BrowserTimeoutMs) * time.Millisecond
}

// ApplyDefaults 补全缺省值并收敛非法值
// 规则: 数值参数必须大于0,否则回退默认值;并发度收敛到[1,5]
func (c *CrawlConfig) ApplyDefaults() {
	if c.MaxPages <= 0 {
		c.MaxPages = DefaultMaxPages
	}
	if c.MaxFaqs <= 0 {
		c.MaxFaqs = DefaultMaxFaqs
	}
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Concurrency < MinConcurrency {
		c.Concurrency = MinConcurrency
	}
	if c.Concurrency > MaxConcurrency {
		c.Concurrency = MaxConcurrency
	}
	if c.RequestTimeoutMs <= 0 {
		c.RequestTimeoutMs = DefaultRequestTimeoutMs
	}
	if c.PauseMs <= 0 {
		c.PauseMs = DefaultPauseMs
	}
	if c.MinSectionChars <= 0 {
		c.MinSectionChars = DefaultMinSectionChars
	}
	if c.BrowserTimeoutMs <= 0 {
		c.BrowserTimeoutMs = DefaultBrowserTimeoutMs
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.OutputPath == "" {
		c.OutputPath = DefaultOutputPath
	}
	if c.SiteName == "" && c.Origin != "" {
		c.SiteName = SiteNameFromOrigin(c.Origin)
	}
}

// Validate 验证配置
func (c *CrawlConfig) Validate() error {
	if c.StartURL == "" {
		return fmt.Errorf("入口URL不能为空: %w", ErrInvalidURL)
	}
	if err := ValidateURL(c.StartURL); err != nil {
		return err
	}
	if c.Concurrency < MinConcurrency || c.Concurrency > MaxConcurrency {
		return fmt.Errorf("并发度必须在%d-%d之间,当前值: %d", MinConcurrency, MaxConcurrency, c.Concurrency)
	}
	return nil
}

// SiteNameFromOrigin 从origin主机名推导站点显示名
// 例如 https://www.gaby.dev -> "Gaby"
func SiteNameFromOrigin(origin string) string {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Hostname() == "" {
		return "Website"
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	label := host
	if idx := strings.Index(host, "."); idx > 0 {
		label = host[:idx]
	}
	if label == "" {
		return "Website"
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
