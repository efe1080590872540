package main

import (
	"fmt"

	"github.com/rdebiasec/gaby-website-admin/internal/models"
)

// ValidateFlags 验证命令行参数
// 数值参数0表示未指定(落回配置文件/默认值),负值直接拒绝
func ValidateFlags(targetURL string, maxPages, maxFaqs, concurrency,
	requestTimeout, pauseMs, minSectionChars, browserTimeout int) error {

	if targetURL == "" {
		return fmt.Errorf("入口URL不能为空,使用 -u 指定")
	}
	if err := models.ValidateURL(targetURL); err != nil {
		return err
	}

	checks := []struct {
		name  string
		value int
	}{
		{"max-pages", maxPages},
		{"max-faqs", maxFaqs},
		{"concurrency", concurrency},
		{"request-timeout", requestTimeout},
		{"pause", pauseMs},
		{"min-section-chars", minSectionChars},
		{"browser-timeout", browserTimeout},
	}
	for _, c := range checks {
		if c.value < 0 {
			return fmt.Errorf("参数 --%s 不能为负数,当前值: %d", c.name, c.value)
		}
	}

	return nil
}
