package core

import (
	"fmt"
	"time"

	"github.com/rdebiasec/gaby-website-admin/internal/crawlers"
	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

// Fetcher 静态抓取能力
type Fetcher interface {
	Fetch(pageURL string) (*crawlers.FetchResult, error)
}

// Renderer 浏览器渲染能力
// 空HTML且无错误表示"无渲染结果",调用方降级处理
type Renderer interface {
	Render(pageURL string) (string, error)
}

// FrontierManager 爬取前沿管理器
// 队列、visited集合和已产出页面是整个爬取中仅有的可变共享状态,
// 全部由本结构独占持有,只在批次之间变更,批次内部绝不并发修改
type FrontierManager struct {
	config   models.CrawlConfig
	fetcher  Fetcher
	renderer Renderer

	// 待爬队列(FIFO)
	queue []string

	// 曾经入队的URL,防止重复入队和重复抓取
	seen map[string]bool

	// 已成功产出页面的URL
	visited map[string]bool

	// 累积的页面结果
	pages []*models.Page
}

// NewFrontierManager 创建前沿管理器
func NewFrontierManager(config models.CrawlConfig, fetcher Fetcher, renderer Renderer) *FrontierManager {
	return &FrontierManager{
		config:   config,
		fetcher:  fetcher,
		renderer: renderer,
		queue:    make([]string, 0),
		seen:     make(map[string]bool),
		visited:  make(map[string]bool),
		pages:    make([]*models.Page, 0),
	}
}

// Crawl 执行爬取主循环
// 每轮取出最多concurrency个URL并发处理,批次结果全部落地后
// 才进行visited标记和新链接入队;队列耗尽或达到页面上限时结束。
// 结束后没有任何页面产出视为致命错误
func (fm *FrontierManager) Crawl() ([]*models.Page, error) {
	fm.seedQueue()

	utils.Infof("🚀 开始爬取任务")
	utils.Infof("入口URL: %s", fm.config.StartURL)
	utils.Infof("站点: %s", fm.config.SiteName)
	utils.Infof("页面上限: %d, 并发度: %d", fm.config.MaxPages, fm.config.Concurrency)
	if len(fm.config.SpaViews) > 0 {
		utils.Infof("SPA视图数: %d", len(fm.config.SpaViews))
	}

	startTime := time.Now()
	bar := utils.NewProgressBar(fm.config.MaxPages, "爬取进度")

	for len(fm.queue) > 0 && len(fm.pages) < fm.config.MaxPages {
		batch := fm.dequeueBatch()
		results := fm.processBatch(batch)

		// 批次完全结束后才变更共享状态
		for _, page := range results {
			fm.pages = append(fm.pages, page)
			fm.visited[page.URL] = true
			_ = bar.Add(1)
			fm.discoverLinks(page)
		}

		// 批次间礼貌暂停
		if len(fm.queue) > 0 && len(fm.pages) < fm.config.MaxPages {
			time.Sleep(fm.config.Pause())
		}
	}

	duration := time.Since(startTime)
	utils.Infof("✅ 爬取完成: %d 个页面, 耗时 %.2f秒", len(fm.pages), duration.Seconds())

	if len(fm.pages) == 0 {
		return nil, fmt.Errorf("%w: 没有产出任何页面", models.ErrEmptyCrawl)
	}

	return fm.pages, nil
}

// seedQueue 初始化队列: 入口URL + 额外种子 + SPA视图伪URL
func (fm *FrontierManager) seedQueue() {
	fm.enqueue(fm.config.StartURL)
	for _, seed := range fm.config.SeedURLs {
		fm.enqueue(seed)
	}
	for _, view := range fm.config.SpaViews {
		pseudo, err := utils.NormalizeURL(view.PseudoURL(fm.config.Origin))
		if err != nil {
			utils.Warnf("SPA视图伪URL无效 [%s]: %v", view.ID, err)
			continue
		}
		fm.enqueue(pseudo)
	}
}

// enqueue 入队(去重)
func (fm *FrontierManager) enqueue(pageURL string) {
	if pageURL == "" || fm.seen[pageURL] {
		return
	}
	fm.seen[pageURL] = true
	fm.queue = append(fm.queue, pageURL)
}

// dequeueBatch 取出最多concurrency个URL作为一个批次
func (fm *FrontierManager) dequeueBatch() []string {
	n := fm.config.Concurrency
	if n > len(fm.queue) {
		n = len(fm.queue)
	}
	batch := fm.queue[:n]
	fm.queue = fm.queue[n:]
	return batch
}

// processBatch 并发处理一个批次的URL
// 页面按任务完成顺序收集,该顺序决定最终数据集中的页面/FAQ顺序;
// 单个URL的失败只丢弃该URL的产出,不影响批次和整个爬取
func (fm *FrontierManager) processBatch(batch []string) []*models.Page {
	ch := make(chan *models.Page, len(batch))

	for _, pageURL := range batch {
		go func(u string) {
			defer func() {
				if r := recover(); r != nil {
					utils.Errorf("页面处理panic [%s]: %v", u, r)
					ch <- nil
				}
			}()
			ch <- fm.processURL(u)
		}(pageURL)
	}

	results := make([]*models.Page, 0, len(batch))
	for range batch {
		if page := <-ch; page != nil {
			results = append(results, page)
		}
	}
	return results
}

// processURL 处理单个URL: 静态抓取 -> 解析 -> 按需渲染回退 -> 重新解析
// SPA视图伪URL跳过静态抓取,直接走浏览器渲染
func (fm *FrontierManager) processURL(pageURL string) *models.Page {
	if utils.SpaViewID(pageURL) != "" {
		return fm.renderPage(pageURL, nil)
	}

	var staticPage *models.Page
	needRender := false

	result, err := fm.fetcher.Fetch(pageURL)
	switch {
	case err != nil:
		utils.Warnf("静态抓取失败,尝试渲染回退 [%s]: %v", pageURL, err)
		needRender = true
	case result.StatusCode >= 400:
		utils.Debugf("静态抓取返回HTTP %d,尝试渲染回退: %s", result.StatusCode, pageURL)
		needRender = true
	default:
		staticPage, err = crawlers.Extract(result.HTML, pageURL, fm.config.MinSectionChars)
		if err != nil {
			utils.Debugf("静态HTML解析失败,尝试渲染回退 [%s]: %v", pageURL, err)
			needRender = true
		} else {
			needRender = staticPage.NeedsRender()
		}
	}

	if needRender {
		return fm.renderPage(pageURL, staticPage)
	}
	return staticPage
}

// renderPage 渲染回退
// 渲染或解析失败时退回静态解析结果(可能为nil),绝不向上抛出
func (fm *FrontierManager) renderPage(pageURL string, fallback *models.Page) *models.Page {
	htmlStr, err := fm.renderer.Render(pageURL)
	if err != nil {
		utils.Warnf("渲染失败 [%s]: %v", pageURL, err)
		return fallback
	}
	if htmlStr == "" {
		// 渲染器不可用(如空渲染器),保留静态结果
		return fallback
	}

	page, err := crawlers.Extract(htmlStr, pageURL, fm.config.MinSectionChars)
	if err != nil {
		utils.Warnf("渲染后HTML解析失败 [%s]: %v", pageURL, err)
		return fallback
	}
	return page
}

// discoverLinks 把页面的出站链接补充进队列
// 跳过会使已知工作量超过页面上限的链接、已见过的链接和跨源链接
func (fm *FrontierManager) discoverLinks(page *models.Page) {
	for _, link := range page.Links {
		if len(fm.pages)+len(fm.queue) >= fm.config.MaxPages {
			continue
		}
		if fm.seen[link] || fm.visited[link] {
			continue
		}
		if !utils.SameOrigin(link, fm.config.StartURL) {
			continue
		}
		fm.enqueue(link)
	}
}
