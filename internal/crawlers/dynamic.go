package crawlers

import (
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

const (
	// spaMountMinChars 主内容区文本超过该长度才认为客户端视图已挂载
	spaMountMinChars = 40

	// pollInterval 条件轮询间隔
	pollInterval = 250 * time.Millisecond

	// evalTimeout 单次JS求值超时
	evalTimeout = 5 * time.Second

	// navControlSelector 导航控件区域选择器,SPA视图模拟前等待其出现
	navControlSelector = `nav, header, [role="navigation"]`
)

// NoopRenderer 空渲染器
// 无浏览器环境下的替代实现,始终返回空结果,爬取优雅降级为纯静态抓取
type NoopRenderer struct{}

// Render 始终返回空HTML
func (NoopRenderer) Render(pageURL string) (string, error) {
	return "", nil
}

// BrowserRenderer 浏览器渲染器(使用Rod)
// 浏览器进程和标签页的生命周期限定在单次Render调用内,
// 所有退出路径(包括出错)都会无条件释放
type BrowserRenderer struct {
	config models.CrawlConfig
}

// NewBrowserRenderer 创建浏览器渲染器
func NewBrowserRenderer(config models.CrawlConfig) *BrowserRenderer {
	return &BrowserRenderer{config: config}
}

// Render 通过无头浏览器获取URL的渲染后HTML
// URL携带SPA视图标识时走视图模拟导航,否则直接导航
// 渲染失败返回错误,由调用方降级处理,绝不中断整个爬取
func (br *BrowserRenderer) Render(pageURL string) (htmlStr string, err error) {
	// 浏览器操作panic统一转换为渲染错误
	defer func() {
		if r := recover(); r != nil {
			utils.Errorf("浏览器操作panic [%s]: %v", pageURL, r)
			err = fmt.Errorf("%w: panic: %v", models.ErrRenderFailed, r)
		}
	}()

	l := launcher.New().Headless(true)
	// 允许访问自签名、过期或主机名不匹配的HTTPS站点
	l = l.Set("ignore-certificate-errors")

	controlURL, launchErr := l.Launch()
	if launchErr != nil {
		return "", fmt.Errorf("%w: 启动浏览器失败: %v", models.ErrRenderFailed, launchErr)
	}

	browser := rod.New().ControlURL(controlURL)
	if connErr := browser.Connect(); connErr != nil {
		return "", fmt.Errorf("%w: 连接浏览器失败: %v", models.ErrRenderFailed, connErr)
	}
	defer func() {
		browser.MustClose()
		utils.Debugf("浏览器已关闭: %s", pageURL)
	}()

	if viewID := utils.SpaViewID(pageURL); viewID != "" {
		return br.renderSpaView(browser, viewID)
	}
	return br.renderDirect(browser, pageURL)
}

// renderDirect 直接导航渲染
// 导航到目标URL并等待网络空闲;文档响应为错误状态且路径非根时,
// 回退为加载站点根页面再做客户端history push,等待主内容变化
func (br *BrowserRenderer) renderDirect(browser *rod.Browser, pageURL string) (string, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return "", fmt.Errorf("%w: 创建标签页失败: %v", models.ErrRenderFailed, err)
	}
	defer page.Close()

	// 捕获文档响应状态码
	var docStatus int32
	go page.EachEvent(func(e *proto.NetworkResponseReceived) {
		if e.Type == proto.NetworkResourceTypeDocument {
			atomic.CompareAndSwapInt32(&docStatus, 0, int32(e.Response.Status))
		}
	})()

	timeout := br.config.BrowserTimeout()
	wait := page.Timeout(timeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Timeout(timeout).Navigate(pageURL); err != nil {
		return "", fmt.Errorf("%w: 导航失败 [%s]: %v", models.ErrRenderFailed, pageURL, err)
	}
	wait()

	status := int(atomic.LoadInt32(&docStatus))
	parsed, parseErr := url.Parse(pageURL)
	if status >= 400 && parseErr == nil && parsed.Path != "" && parsed.Path != "/" {
		utils.Debugf("直接导航返回HTTP %d,回退到客户端路由: %s", status, pageURL)
		br.pushClientRoute(page, parsed.RequestURI())
	}

	htmlStr, err := page.Timeout(timeout).HTML()
	if err != nil {
		return "", fmt.Errorf("%w: 获取页面HTML失败 [%s]: %v", models.ErrRenderFailed, pageURL, err)
	}
	return htmlStr, nil
}

// pushClientRoute 加载站点根页面后做客户端history push
// 等待主内容文本变化且超过挂载阈值;等不到不算失败,仅记录日志
func (br *BrowserRenderer) pushClientRoute(page *rod.Page, routePath string) {
	timeout := br.config.BrowserTimeout()

	wait := page.Timeout(timeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Timeout(timeout).Navigate(br.config.Origin + "/"); err != nil {
		utils.Debugf("加载站点根页面失败: %v", err)
		return
	}
	wait()

	baseline := mainContentText(page)

	_, err := page.Timeout(evalTimeout).Eval(`(path) => {
		history.pushState({}, "", path);
		window.dispatchEvent(new PopStateEvent("popstate"));
	}`, routePath)
	if err != nil {
		utils.Debugf("history push失败 [%s]: %v", routePath, err)
		return
	}

	mounted := waitFor(timeout, pollInterval, func() bool {
		text := mainContentText(page)
		return len(text) > spaMountMinChars && text != baseline
	})
	if !mounted {
		utils.Debugf("客户端路由内容未在超时内变化: %s", routePath)
	}
}

// renderSpaView SPA视图模拟渲染
// 加载站点根页面,尝试点击可见文本匹配视图label的控件;
// 找不到匹配控件时回退为直接改写浏览器history并派发位置变化事件。
// 两种路径之后都等待主内容文本超过阈值且不同于基线,作为视图挂载信号
func (br *BrowserRenderer) renderSpaView(browser *rod.Browser, viewID string) (string, error) {
	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return "", fmt.Errorf("%w: 创建标签页失败: %v", models.ErrRenderFailed, err)
	}
	defer page.Close()

	timeout := br.config.BrowserTimeout()

	wait := page.Timeout(timeout).WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := page.Timeout(timeout).Navigate(br.config.Origin + "/"); err != nil {
		return "", fmt.Errorf("%w: 加载站点根页面失败: %v", models.ErrRenderFailed, err)
	}
	wait()

	// 等待导航控件出现,等不到继续尝试(部分站点没有语义化导航区)
	if _, err := page.Timeout(timeout).Element(navControlSelector); err != nil {
		utils.Debugf("导航控件未在超时内出现: %v", err)
	}

	baseline := mainContentText(page)

	clicked := false
	if view, ok := br.lookupView(viewID); ok {
		clicked = clickByLabel(page, view.Label)
	} else {
		utils.Warnf("未配置的SPA视图标识: %s", viewID)
	}

	if !clicked {
		// 点击路径不可用,直接改写history到 /<viewId> 并派发位置变化事件
		utils.Debugf("未找到匹配控件,回退为history改写: /%s", viewID)
		_, err := page.Timeout(evalTimeout).Eval(`(path) => {
			history.pushState({}, "", path);
			window.dispatchEvent(new PopStateEvent("popstate"));
			window.dispatchEvent(new Event("locationchange"));
		}`, "/"+viewID)
		if err != nil {
			return "", fmt.Errorf("%w: history改写失败 [%s]: %v", models.ErrRenderFailed, viewID, err)
		}
	}

	mounted := waitFor(timeout, pollInterval, func() bool {
		text := mainContentText(page)
		return len(text) > spaMountMinChars && text != baseline
	})
	if !mounted {
		utils.Debugf("SPA视图未在超时内挂载: %s", viewID)
	}

	htmlStr, err := page.Timeout(timeout).HTML()
	if err != nil {
		return "", fmt.Errorf("%w: 获取页面HTML失败 [%s]: %v", models.ErrRenderFailed, viewID, err)
	}
	return htmlStr, nil
}

// lookupView 按标识查找配置的SPA视图
func (br *BrowserRenderer) lookupView(viewID string) (models.SpaView, bool) {
	for _, v := range br.config.SpaViews {
		if v.ID == viewID {
			return v, true
		}
	}
	return models.SpaView{}, false
}

// clickByLabel 点击可见文本与label匹配(不区分大小写)的可点击控件
// 返回是否找到并触发了点击
func clickByLabel(page *rod.Page, label string) bool {
	result, err := page.Timeout(evalTimeout).Eval(`(label) => {
		const els = document.querySelectorAll('a, button, [role="button"], [role="tab"]');
		const want = label.trim().toLowerCase();
		for (const el of els) {
			const text = (el.innerText || el.textContent || '').trim().toLowerCase();
			if (text === want) {
				el.click();
				return true;
			}
		}
		return false;
	}`, label)
	if err != nil {
		utils.Debugf("查找导航控件失败 [%s]: %v", label, err)
		return false
	}
	return result.Value.Bool()
}

// mainContentText 获取主内容区的可见文本
// 优先main元素,没有时退回body
func mainContentText(page *rod.Page) string {
	result, err := page.Timeout(evalTimeout).Eval(`() => {
		const m = document.querySelector('main') || document.body;
		return m ? m.innerText : '';
	}`)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(result.Value.Str())
}

// waitFor 轮询条件直到成立或超时
// 通用的有界等待原语,直接导航和SPA视图挂载检测统一使用
func waitFor(timeout, interval time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if time.Now().After(deadline) {
			return false
		}
		time.Sleep(interval)
	}
}
