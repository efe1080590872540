package core

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

// Config 应用配置文件结构
type Config struct {
	Crawl   CrawlFileConfig `mapstructure:"crawl"`
	Logging LoggingConfig   `mapstructure:"logging"`
	Output  OutputConfig    `mapstructure:"output"`
}

// CrawlFileConfig 配置文件中的爬取参数段
// 命令行参数优先于此处的值
type CrawlFileConfig struct {
	MaxPages          int    `mapstructure:"max_pages"`
	MaxFaqs           int    `mapstructure:"max_faqs"`
	Concurrency       int    `mapstructure:"concurrency"`
	RequestTimeoutMs  int    `mapstructure:"request_timeout_ms"`
	PauseMs           int    `mapstructure:"pause_ms"`
	MinSectionChars   int    `mapstructure:"min_section_chars"`
	BrowserTimeoutMs  int    `mapstructure:"browser_timeout_ms"`
	RenderWithBrowser bool   `mapstructure:"render_with_browser"`
	UserAgent         string `mapstructure:"user_agent"`
}

// LoggingConfig 日志配置段
type LoggingConfig struct {
	Level    string         `mapstructure:"level"`
	LogDir   string         `mapstructure:"log_dir"`
	Rotation RotationConfig `mapstructure:"rotation"`
}

// RotationConfig 日志轮转配置
type RotationConfig struct {
	MaxSizeMB  int  `mapstructure:"max_size_mb"`
	MaxBackups int  `mapstructure:"max_backups"`
	MaxAgeDays int  `mapstructure:"max_age_days"`
	Compress   bool `mapstructure:"compress"`
}

// OutputConfig 输出配置段
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// LoadConfig 加载应用配置
// configPath非空时只读取该文件;否则按 ./configs, ., ~/.faqharvest 搜索config.yaml。
// 找不到配置文件不是错误,使用内置默认值
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".faqharvest"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath == "" && errors.As(err, &notFound) {
			utils.Debugf("未找到配置文件,使用默认配置")
		} else {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	} else {
		utils.Debugf("已加载配置文件: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &config, nil
}

// setDefaults 内置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("crawl.max_pages", models.DefaultMaxPages)
	v.SetDefault("crawl.max_faqs", models.DefaultMaxFaqs)
	v.SetDefault("crawl.concurrency", models.DefaultConcurrency)
	v.SetDefault("crawl.request_timeout_ms", models.DefaultRequestTimeoutMs)
	v.SetDefault("crawl.pause_ms", models.DefaultPauseMs)
	v.SetDefault("crawl.min_section_chars", models.DefaultMinSectionChars)
	v.SetDefault("crawl.browser_timeout_ms", models.DefaultBrowserTimeoutMs)
	v.SetDefault("crawl.render_with_browser", true)
	v.SetDefault("crawl.user_agent", models.DefaultUserAgent)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.log_dir", "logs")
	v.SetDefault("logging.rotation.max_size_mb", 10)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.rotation.max_age_days", 30)
	v.SetDefault("logging.rotation.compress", true)

	v.SetDefault("output.path", models.DefaultOutputPath)
}

// CrawlOptions 命令行层传入的爬取参数
// 数值为0、字符串为空表示未指定,落回配置文件/默认值
type CrawlOptions struct {
	URL       string
	SeedPaths string
	SpaViews  string

	MaxPages         int
	MaxFaqs          int
	Concurrency      int
	RequestTimeoutMs int
	PauseMs          int
	MinSectionChars  int
	BrowserTimeoutMs int

	RenderWithBrowser bool
	RenderSet         bool // 命令行是否显式指定了render开关

	UserAgent  string
	OutputPath string
	SiteName   string
}

// BuildCrawlConfig 合并命令行参数与配置文件,构建最终的爬取配置
// 入口URL无法解析是致命错误;种子路径逐条解析,非法条目同样致命
func BuildCrawlConfig(appConfig *Config, opts CrawlOptions) (models.CrawlConfig, error) {
	var cfg models.CrawlConfig

	startURL, err := utils.NormalizeURL(opts.URL)
	if err != nil {
		return cfg, fmt.Errorf("入口URL无效 [%s]: %w", opts.URL, err)
	}

	origin, err := utils.Origin(startURL)
	if err != nil {
		return cfg, fmt.Errorf("无法确定站点origin [%s]: %w", startURL, err)
	}

	seeds, err := resolveSeedPaths(origin, opts.SeedPaths)
	if err != nil {
		return cfg, err
	}

	render := appConfig.Crawl.RenderWithBrowser
	if opts.RenderSet {
		render = opts.RenderWithBrowser
	}

	cfg = models.CrawlConfig{
		StartURL: startURL,
		Origin:   origin,
		SeedURLs: seeds,
		SpaViews: models.ParseSpaViews(opts.SpaViews),

		MaxPages:          pickInt(opts.MaxPages, appConfig.Crawl.MaxPages),
		MaxFaqs:           pickInt(opts.MaxFaqs, appConfig.Crawl.MaxFaqs),
		Concurrency:       pickInt(opts.Concurrency, appConfig.Crawl.Concurrency),
		RequestTimeoutMs:  pickInt(opts.RequestTimeoutMs, appConfig.Crawl.RequestTimeoutMs),
		PauseMs:           pickInt(opts.PauseMs, appConfig.Crawl.PauseMs),
		MinSectionChars:   pickInt(opts.MinSectionChars, appConfig.Crawl.MinSectionChars),
		BrowserTimeoutMs:  pickInt(opts.BrowserTimeoutMs, appConfig.Crawl.BrowserTimeoutMs),
		RenderWithBrowser: render,

		UserAgent:  pickString(opts.UserAgent, appConfig.Crawl.UserAgent),
		OutputPath: pickString(opts.OutputPath, appConfig.Output.Path),
		SiteName:   opts.SiteName,
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// resolveSeedPaths 把逗号分隔的路径列表解析为绝对规范化URL
func resolveSeedPaths(origin, raw string) ([]string, error) {
	base, err := url.Parse(origin + "/")
	if err != nil {
		return nil, fmt.Errorf("解析origin失败 [%s]: %w", origin, err)
	}

	seeds := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		normalized, err := utils.NormalizeRef(base, p)
		if err != nil {
			return nil, fmt.Errorf("种子路径无效 [%s]: %w", p, err)
		}
		seeds = append(seeds, normalized)
	}
	return seeds, nil
}

func pickInt(cli, file int) int {
	if cli > 0 {
		return cli
	}
	return file
}

func pickString(cli, file string) string {
	if cli != "" {
		return cli
	}
	return file
}
