package models

import (
	"encoding/json"
	"time"
)

// 答案与片段的截断上限
const (
	MaxAnswerChars  = 1200
	MaxSnippetChars = 320
	MaxSummaryChars = 600
)

// FaqEntry 合成的问答条目,数据集的基本单元
// 按问题文本(小写化)去重,先写入者保留
type FaqEntry struct {
	Question  string   `json:"question"`
	Answer    string   `json:"answer"` // 最长1200字符,句子边界截断
	SourceURL string   `json:"sourceUrl"`
	Tags      []string `json:"tags"`
}

// DatasetMetrics 数据集聚合指标
type DatasetMetrics struct {
	TotalPages      int     `json:"totalPages"`
	TotalSections   int     `json:"totalSections"`
	TotalFaqs       int     `json:"totalFaqs"`
	AvgAnswerWords  float64 `json:"avgAnswerWords"`  // 平均答案词数,1位小数
	EstimatedTokens int     `json:"estimatedTokens"` // 词数 x 1.3 取整
	CoverageScore   float64 `json:"coverageScore"`   // FAQ数/页面数,2位小数
}

// DatasetSource 数据集来源信息
type DatasetSource struct {
	URL      string `json:"url"`
	SiteName string `json:"siteName"`
}

// ConfigSnapshot 写入数据集的生效配置子集
type ConfigSnapshot struct {
	MaxPages        int `json:"maxPages"`
	MaxFaqs         int `json:"maxFaqs"`
	MinSectionChars int `json:"minSectionChars"`
}

// PageReport 爬取报告中的单页条目
type PageReport struct {
	URL          string `json:"url"`
	Title        string `json:"title"`
	SectionCount int    `json:"sectionCount"`
	HasSummary   bool   `json:"hasSummary"`
}

// ResourceSnapshot 运行结束时的系统资源快照,仅用于报告
type ResourceSnapshot struct {
	TotalMemoryMB     int64   `json:"totalMemoryMb"`
	AvailableMemoryMB int64   `json:"availableMemoryMb"`
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
	CPUPercent        float64 `json:"cpuPercent"`
}

// Dataset 最终的FAQ知识数据集,一次运行结束时构建一次,之后不再修改
// 这是下游检索索引器消费的唯一接口
type Dataset struct {
	ID          string            `json:"id"`
	GeneratedAt time.Time         `json:"generatedAt"`
	Source      DatasetSource     `json:"source"`
	Config      ConfigSnapshot    `json:"config"`
	Metrics     DatasetMetrics    `json:"metrics"`
	Faqs        []FaqEntry        `json:"faqs"`
	CrawlReport []PageReport      `json:"crawlReport"`
	Duration    float64           `json:"durationSeconds"`
	Resources   *ResourceSnapshot `json:"resources,omitempty"`
}

// ToJSON 序列化为JSON
func (d *Dataset) ToJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// FromJSON 从JSON反序列化
func (d *Dataset) FromJSON(data []byte) error {
	return json.Unmarshal(data, d)
}
