package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
)

// NormalizeURL 规范化绝对URL
// 规则: 去掉fragment,去掉路径末尾斜杠(根路径除外),保留查询参数
// 两个仅在fragment或末尾斜杠上不同的URL规范化结果必须相同,
// 该结果是visited集合和链接发现的去重键
func NormalizeURL(raw string) (string, error) {
	return NormalizeRef(nil, raw)
}

// NormalizeRef 规范化URL,相对URL基于base解析
// base为nil时raw必须是绝对URL
func NormalizeRef(base *url.URL, raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}

	if base != nil {
		parsed = base.ResolveReference(parsed)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: 不支持的协议 %q", models.ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: 缺少主机名", models.ErrInvalidURL)
	}

	// 去掉fragment
	parsed.Fragment = ""
	parsed.RawFragment = ""

	// 根路径统一为"/",其余路径去掉末尾斜杠
	switch parsed.Path {
	case "", "/":
		parsed.Path = "/"
	default:
		parsed.Path = strings.TrimRight(parsed.Path, "/")
	}

	return parsed.String(), nil
}

// Origin 提取URL的origin部分 (scheme://host)
func Origin(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrInvalidURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("%w: 无法提取origin: %s", models.ErrInvalidURL, rawURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// SameOrigin 判断两个URL是否同源(scheme和host都相同)
// 任一URL无法解析时返回false
func SameOrigin(a, b string) bool {
	pa, err := url.Parse(a)
	if err != nil {
		return false
	}
	pb, err := url.Parse(b)
	if err != nil {
		return false
	}
	return pa.Scheme == pb.Scheme && pa.Host == pb.Host
}

// SpaViewID 提取URL携带的SPA视图标识,不是SPA伪URL时返回空串
func SpaViewID(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return parsed.Query().Get(models.SpaViewParam)
}
