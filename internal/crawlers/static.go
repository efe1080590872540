package crawlers

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gocolly/colly/v2"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
	"github.com/rdebiasec/gaby-website-admin/internal/utils"
)

// FetchResult 静态抓取结果
// 非2xx状态不视为错误,状态码由调用方解读
type FetchResult struct {
	HTML       string
	StatusCode int
}

// StaticFetcher 静态抓取器(使用Colly)
// 每个URL单次GET,不重试;网络失败返回错误,由调用方触发渲染回退
type StaticFetcher struct {
	userAgent string
	timeout   time.Duration
	transport http.RoundTripper
}

// NewStaticFetcher 创建静态抓取器
func NewStaticFetcher(config models.CrawlConfig) *StaticFetcher {
	return &StaticFetcher{
		userAgent: config.UserAgent,
		timeout:   config.RequestTimeout(),
		transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				// 跳过证书验证,允许访问内网/开发环境的自签名HTTPS站点
				InsecureSkipVerify: true,
			},
		},
	}
}

// Fetch 抓取单个URL的原始HTML
// 每次调用使用全新的collector,访问历史完全由上层frontier管理
func (f *StaticFetcher) Fetch(pageURL string) (*FetchResult, error) {
	c := colly.NewCollector(
		colly.UserAgent(f.userAgent),
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
	)
	c.SetRequestTimeout(f.timeout)
	c.WithTransport(f.transport)

	var result *FetchResult
	var netErr error

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
		// 手动声明压缩编码,响应体在OnResponse中自行解压
		r.Headers.Set("Accept-Encoding", "gzip, deflate, br")
		utils.Debugf("静态抓取: %s", r.URL.String())
	})

	c.OnResponse(func(r *colly.Response) {
		result = &FetchResult{
			HTML:       string(decodeBody(r)),
			StatusCode: r.StatusCode,
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		// HTTP错误状态仍然携带响应体,作为正常结果返回给调用方解读
		if r != nil && r.StatusCode > 0 {
			result = &FetchResult{
				HTML:       string(decodeBody(r)),
				StatusCode: r.StatusCode,
			}
			return
		}
		netErr = err
	})

	if err := c.Visit(pageURL); err != nil && result == nil && netErr == nil {
		netErr = err
	}
	c.Wait()

	if result != nil {
		return result, nil
	}
	return nil, fmt.Errorf("%w [%s]: %v", models.ErrFetchFailed, pageURL, netErr)
}

// decodeBody 根据Content-Encoding解压响应体
// 解压失败时退回原始内容
func decodeBody(r *colly.Response) []byte {
	encoding := r.Headers.Get("Content-Encoding")
	body, err := decompressResponse(encoding, r.Body)
	if err != nil {
		utils.Warnf("解压响应失败 [%s] (编码=%s): %v", r.Request.URL, encoding, err)
		return r.Body
	}
	return body
}

// decompressResponse 根据Content-Encoding头部解压响应体
// 支持 gzip, deflate, br (Brotli) 三种压缩格式
func decompressResponse(contentEncoding string, body []byte) ([]byte, error) {
	encoding := strings.ToLower(strings.TrimSpace(contentEncoding))

	switch encoding {
	case "gzip":
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("gzip解压失败: %w", err)
		}
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("gzip读取失败: %w", err)
		}
		return decompressed, nil

	case "deflate":
		reader := flate.NewReader(bytes.NewReader(body))
		defer reader.Close()

		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("deflate读取失败: %w", err)
		}
		return decompressed, nil

	case "br":
		reader := brotli.NewReader(bytes.NewReader(body))
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("brotli读取失败: %w", err)
		}
		return decompressed, nil

	case "":
		return body, nil

	default:
		utils.Warnf("未知的Content-Encoding: %s", contentEncoding)
		return body, nil
	}
}
