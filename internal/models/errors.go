package models

import "errors"

// 错误类型定义
// 约定: 仅无效种子URL和空爬取结果会导致运行终止,
// 其余错误在批次处理边界降级为警告日志
var (
	// ErrInvalidURL URL无法解析或协议不受支持
	ErrInvalidURL = errors.New("URL无效")

	// ErrFetchFailed 静态抓取失败(网络错误/超时),非致命,触发浏览器渲染回退
	ErrFetchFailed = errors.New("静态抓取失败")

	// ErrRenderFailed 浏览器渲染失败,非致命,该URL不产出页面
	ErrRenderFailed = errors.New("浏览器渲染失败")

	// ErrEmptyCrawl 爬取结束后没有产出任何页面,致命,中止数据集构建
	ErrEmptyCrawl = errors.New("爬取结果为空")
)
