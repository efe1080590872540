package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rdebiasec/gaby-website-admin/internal/core"
	"github.com/rdebiasec/gaby-website-admin/internal/crawlers"
	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

// 版本信息,构建时通过ldflags注入
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
)

var (
	configPath string
	logLevel   string
	verbose    bool

	targetURL string
	seedPaths string
	spaViews  string

	maxPages        int
	maxFaqs         int
	concurrency     int
	requestTimeout  int
	pauseMs         int
	minSectionChars int
	browserTimeout  int

	renderWithBrowser bool
	userAgent         string
	outputPath        string
	siteName          string

	// PersistentPreRunE加载后全命令共享
	appConfig *core.Config
)

var rootCmd = &cobra.Command{
	Use:   "faqharvest",
	Short: "网站FAQ知识数据集采集工具",
	Long: `faqharvest - 把网站内容转化为FAQ知识数据集

功能特性:
  🌐 静态抓取 + 无头浏览器渲染回退,覆盖SPA站点
  🔍 标题驱动的内容章节提取与摘要合成
  📥 FAQ问答合成、去重与聚合指标计算
  📊 输出供下游检索索引器消费的JSON数据集

示例:
  faqharvest -u https://gaby.dev
  faqharvest -u https://gaby.dev --seed-paths /docs,/pricing --max-pages 30
  faqharvest -u https://gaby.dev --spa-views chat=Chat,about=About
  faqharvest -u https://gaby.dev --render=false -o out/dataset.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		appConfig, err = core.LoadConfig(configPath)
		if err != nil {
			return err
		}

		level := appConfig.Logging.Level
		if logLevel != "" {
			level = logLevel
		}
		if verbose {
			level = "debug"
		}

		return utils.InitLogger(utils.LogConfig{
			Level:      level,
			LogDir:     appConfig.Logging.LogDir,
			MaxSize:    appConfig.Logging.Rotation.MaxSizeMB,
			MaxBackups: appConfig.Logging.Rotation.MaxBackups,
			MaxAge:     appConfig.Logging.Rotation.MaxAgeDays,
			Compress:   appConfig.Logging.Rotation.Compress,
		})
	},
	RunE: runHarvest,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("faqharvest %s (构建时间: %s)\n", Version, BuildTime)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别 (trace/debug/info/warn/error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "详细输出(等价于 --log-level debug)")

	rootCmd.Flags().StringVarP(&targetURL, "url", "u", "", "入口URL (必填)")
	rootCmd.Flags().StringVar(&seedPaths, "seed-paths", "", "额外种子路径,逗号分隔 (如 /docs,/pricing)")
	rootCmd.Flags().StringVar(&spaViews, "spa-views", "", "SPA视图描述,逗号分隔的id=label对 (如 chat=Chat)")

	rootCmd.Flags().IntVar(&maxPages, "max-pages", 0, "页面上限 (默认20)")
	rootCmd.Flags().IntVar(&maxFaqs, "max-faqs", 0, "FAQ条目上限 (默认80)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 0, "批次并发度,1-5 (默认2)")
	rootCmd.Flags().IntVar(&requestTimeout, "request-timeout", 0, "单请求超时毫秒数 (默认12000)")
	rootCmd.Flags().IntVar(&pauseMs, "pause", 0, "批次间暂停毫秒数 (默认400)")
	rootCmd.Flags().IntVar(&minSectionChars, "min-section-chars", 0, "章节最小字符数 (默认180)")
	rootCmd.Flags().IntVar(&browserTimeout, "browser-timeout", 0, "浏览器操作超时毫秒数 (默认20000)")

	rootCmd.Flags().BoolVar(&renderWithBrowser, "render", true, "启用无头浏览器渲染回退")
	rootCmd.Flags().StringVar(&userAgent, "user-agent", "", "自定义User-Agent")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "数据集输出路径 (默认data/faq-dataset.json)")
	rootCmd.Flags().StringVar(&siteName, "site-name", "", "站点显示名 (默认从域名推导)")

	rootCmd.AddCommand(versionCmd)
}

func runHarvest(cmd *cobra.Command, args []string) error {
	if targetURL == "" {
		return cmd.Help()
	}

	if err := ValidateFlags(targetURL, maxPages, maxFaqs, concurrency,
		requestTimeout, pauseMs, minSectionChars, browserTimeout); err != nil {
		return err
	}

	cfg, err := core.BuildCrawlConfig(appConfig, core.CrawlOptions{
		URL:               targetURL,
		SeedPaths:         seedPaths,
		SpaViews:          spaViews,
		MaxPages:          maxPages,
		MaxFaqs:           maxFaqs,
		Concurrency:       concurrency,
		RequestTimeoutMs:  requestTimeout,
		PauseMs:           pauseMs,
		MinSectionChars:   minSectionChars,
		BrowserTimeoutMs:  browserTimeout,
		RenderWithBrowser: renderWithBrowser,
		RenderSet:         cmd.Flags().Changed("render"),
		UserAgent:         userAgent,
		OutputPath:        outputPath,
		SiteName:          siteName,
	})
	if err != nil {
		return err
	}

	setupSignalHandler()

	fetcher := crawlers.NewStaticFetcher(cfg)
	var renderer core.Renderer
	if cfg.RenderWithBrowser {
		renderer = crawlers.NewBrowserRenderer(cfg)
	} else {
		utils.Infof("渲染回退已禁用,仅使用静态抓取")
		renderer = crawlers.NoopRenderer{}
	}

	frontier := core.NewFrontierManager(cfg, fetcher, renderer)

	startTime := time.Now()
	pages, err := frontier.Crawl()
	if err != nil {
		// 空爬取结果是致命错误,不写任何输出
		return fmt.Errorf("爬取失败: %w", err)
	}

	dataset := core.BuildDataset(pages, cfg)
	dataset.Duration = time.Since(startTime).Seconds()
	dataset.Resources = utils.CaptureResourceSnapshot()

	reporter := utils.NewReporter(cfg.OutputPath)
	if err := reporter.WriteDataset(dataset); err != nil {
		return err
	}

	printSummary(dataset)
	return nil
}

// printSummary 在终端打印结果摘要
func printSummary(dataset *models.Dataset) {
	fmt.Println()
	fmt.Println("══════════════════════════════════════════════")
	fmt.Println("              📊 采集结果摘要")
	fmt.Println("══════════════════════════════════════════════")
	fmt.Printf("  站点:        %s (%s)\n", dataset.Source.SiteName, dataset.Source.URL)
	fmt.Printf("  页面数:      %d\n", dataset.Metrics.TotalPages)
	fmt.Printf("  章节数:      %d\n", dataset.Metrics.TotalSections)
	fmt.Printf("  FAQ条目:     %d\n", dataset.Metrics.TotalFaqs)
	fmt.Printf("  平均答案词数: %.1f\n", dataset.Metrics.AvgAnswerWords)
	fmt.Printf("  预估Token数: %d\n", dataset.Metrics.EstimatedTokens)
	fmt.Printf("  覆盖率:      %.2f\n", dataset.Metrics.CoverageScore)
	fmt.Printf("  耗时:        %.2f秒\n", dataset.Duration)
	if dataset.Resources != nil {
		fmt.Printf("  内存占用:    %.1f%% (可用 %dMB)\n",
			dataset.Resources.MemoryUsedPercent, dataset.Resources.AvailableMemoryMB)
	}
	fmt.Println("══════════════════════════════════════════════")
}

func setupSignalHandler() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		utils.Warnf("收到信号 %v,中断运行", sig)
		os.Exit(130)
	}()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 错误: %v\n", err)
		os.Exit(1)
	}
}
